// Command worldgen generates a procedural world from a YAML configuration
// file and writes it to disk in one or more export formats.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/rogueforge/simcore/pkg/export"
	"github.com/rogueforge/simcore/pkg/worldgen"
)

const version = "1.0.0"

var (
	configPath string
	outputDir  string
	format     string
	seedFlag   uint32
	verbose    bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:     "worldgen",
	Short:   "Generate a procedural world from a YAML configuration file",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			cfg.Encoding = "console"
			cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}
		var err error
		logger, err = cfg.Build()
		return err
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if logger != nil {
			_ = logger.Sync()
		}
		return nil
	},
	RunE: runGenerate,
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "", "path to YAML world configuration (required)")
	rootCmd.Flags().StringVar(&outputDir, "output", ".", "output directory for generated artifacts")
	rootCmd.Flags().StringVar(&format, "format", "json", "export format: json, svg, tmj, or all")
	rootCmd.Flags().Uint32Var(&seedFlag, "seed", 0, "override the seed from config (0 = use config seed)")
	rootCmd.Flags().BoolVar(&verbose, "verbose", false, "enable debug-level logging")
	_ = rootCmd.MarkFlagRequired("config")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (worldgen.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return worldgen.Config{}, fmt.Errorf("worldgen: reading config: %w", err)
	}
	cfg := worldgen.DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return worldgen.Config{}, fmt.Errorf("worldgen: parsing config: %w", err)
	}
	return cfg, nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	validFormats := map[string]bool{"json": true, "svg": true, "tmj": true, "all": true}
	if !validFormats[format] {
		return fmt.Errorf("invalid format %q, must be one of: json, svg, tmj, all", format)
	}

	logger.Debug("loading configuration", zap.String("path", configPath))
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	if seedFlag != 0 {
		logger.Debug("overriding seed", zap.Uint32("from", cfg.Seed), zap.Uint32("to", seedFlag))
		cfg.Seed = seedFlag
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	opts := worldgen.DefaultPipelineOptions()
	opts.Logger = logger

	start := time.Now()
	logger.Info("generating world", zap.Int("width", cfg.Width), zap.Int("height", cfg.Height), zap.Uint32("seed", cfg.Seed))

	w, err := worldgen.Generate(cmd.Context(), &cfg, opts)
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}
	elapsed := time.Since(start)
	logger.Info("generation complete", zap.Duration("elapsed", elapsed), zap.Uint64("hash", w.Hash))

	baseName := fmt.Sprintf("world_%d", cfg.Seed)

	if format == "json" || format == "all" {
		if err := writeJSON(w, baseName); err != nil {
			return err
		}
	}
	if format == "svg" || format == "all" {
		if err := writeSVG(w, baseName); err != nil {
			return err
		}
	}
	if format == "tmj" || format == "all" {
		if err := writeTMJ(w, baseName); err != nil {
			return err
		}
	}

	fmt.Printf("Successfully generated world (seed=%d) in %v\n", cfg.Seed, elapsed)
	return nil
}

func writeJSON(w *worldgen.World, baseName string) error {
	path := filepath.Join(outputDir, baseName+".json")
	logger.Debug("exporting JSON", zap.String("path", path))
	if err := export.SaveJSONToFile(w, path); err != nil {
		return fmt.Errorf("exporting JSON: %w", err)
	}
	return nil
}

func writeSVG(w *worldgen.World, baseName string) error {
	path := filepath.Join(outputDir, baseName+".svg")
	logger.Debug("exporting SVG", zap.String("path", path))
	opts := export.DefaultSVGOptions()
	opts.Title = fmt.Sprintf("World (seed=%d)", w.Config.Seed)
	if err := export.SaveSVGToFile(w, path, opts); err != nil {
		return fmt.Errorf("exporting SVG: %w", err)
	}
	return nil
}

func writeTMJ(w *worldgen.World, baseName string) error {
	path := filepath.Join(outputDir, baseName+".tmj")
	logger.Debug("exporting TMJ", zap.String("path", path))
	if err := export.SaveWorldToTMJFile(w, path, true); err != nil {
		return fmt.Errorf("exporting TMJ: %w", err)
	}
	return nil
}
