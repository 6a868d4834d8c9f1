// Command packvalidate validates a descriptor pack directory, exiting 0 on
// success and non-zero with error text on failure, per spec.md §6's
// pack_cli_validate(dir_path) contract.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rogueforge/simcore/pkg/descpack"
)

const version = "1.0.0"

var (
	verbose bool
	watch   bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:     "packvalidate <dir_path>",
	Short:   "Validate a descriptor pack directory",
	Version: version,
	Args:    cobra.ExactArgs(1),
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
	RunE: runValidate,
}

func init() {
	rootCmd.Flags().BoolVar(&verbose, "verbose", false, "enable debug-level logging")
	rootCmd.Flags().BoolVar(&watch, "watch", false, "keep running, revalidating on directory changes")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	dir := args[0]
	correlationID := uuid.New().String()
	log := logger.With(zap.String("correlationID", correlationID), zap.String("dir", dir))

	mgr := descpack.NewManager(descpack.NewMigrationRegistry())
	if err := validateOnce(mgr, dir, log); err != nil {
		return err
	}
	fmt.Printf("pack at %s is valid (%d biomes)\n", dir, len(mgr.Active().Biomes))

	if !watch {
		return nil
	}
	return runWatch(mgr, dir, log)
}

func validateOnce(mgr *descpack.Manager, dir string, log *zap.Logger) error {
	log.Debug("validating pack")
	if err := mgr.Load(dir); err != nil {
		log.Error("pack validation failed", zap.Error(err))
		return fmt.Errorf("pack validation failed: %w", err)
	}
	return nil
}

func runWatch(mgr *descpack.Manager, dir string, log *zap.Logger) error {
	w, err := descpack.NewWatcher(mgr, dir, log)
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer w.Close()

	fmt.Printf("watching %s for changes (ctrl-C to stop)\n", dir)
	go w.Run()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	return nil
}
