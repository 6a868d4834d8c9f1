package worldgen

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/rogueforge/simcore/pkg/hashfp"
	"github.com/rogueforge/simcore/pkg/rng"
	"github.com/rogueforge/simcore/pkg/telemetry"
	"github.com/rogueforge/simcore/pkg/tilemap"
)

// PipelineOptions bundles the registries and placement knobs the pipeline
// needs beyond Config, each with a DefaultXxxRegistry constructor so callers
// can override individual tables without touching the rest.
type PipelineOptions struct {
	Structures       []StructureDescriptor
	MaxStructures    int
	StructureSpacing int

	Spawns     *SpawnRegistry
	HubRadius  int
	DepthCurve Curve

	Resources        *ResourceRegistry
	MaxResourceNodes int
	ClusterAttempts  int
	ClusterRadius    int
	BaseClusters     int

	Weather *WeatherRegistry

	Logger *zap.Logger
}

// DefaultPipelineOptions returns the baseline registries and knobs used
// throughout SPEC_FULL's concrete test scenarios.
func DefaultPipelineOptions() PipelineOptions {
	return PipelineOptions{
		Structures:       DefaultStructureRegistry(),
		MaxStructures:    6,
		StructureSpacing: 3,
		Spawns:           DefaultSpawnRegistry(),
		HubRadius:        6,
		DepthCurve:       ExponentialCurve{Exponent: 1.5},
		Resources:        DefaultResourceRegistry(),
		MaxResourceNodes: 48,
		ClusterAttempts:  64,
		ClusterRadius:    3,
		BaseClusters:     4,
		Weather:          DefaultWeatherRegistry(),
		Logger:           zap.NewNop(),
	}
}

// Generate runs the full ten-phase deterministic world generation pipeline
// in strict order (macro -> local -> rivers -> structures -> dungeon ->
// spawns -> resources -> weather), checking ctx.Done() between phases so a
// cancellation returns ctx.Err() promptly, with no World. Same
// config and seed always produce a bit-identical World.
func Generate(ctx context.Context, cfg *Config, opts PipelineOptions) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("worldgen: invalid config: %w", err)
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	genCtx := rng.NewWorldGenContext(cfg.Seed, cfg.BiomeSeedOffset)
	m, err := tilemap.Init(cfg.Width, cfg.Height)
	if err != nil {
		return nil, fmt.Errorf("worldgen: %w: %v", ErrResourceAllocFailed, err)
	}
	fields := newFields(cfg.Width, cfg.Height)

	logger.Debug("phase start", zap.String("phase", "macro_layout"))
	_ = runMacroLayout(cfg, genCtx, m, fields)
	if err := checkDone(ctx); err != nil {
		return nil, err
	}

	logger.Debug("phase start", zap.String("phase", "local_terrain"))
	runLocalTerrain(cfg, m)
	runCaves(cfg, genCtx, m)
	runLavaPockets(cfg, genCtx, m)
	runOreVeins(cfg, genCtx, m, cfg.VeinCount)
	if err := checkDone(ctx); err != nil {
		return nil, err
	}

	logger.Debug("phase start", zap.String("phase", "rivers_erosion"))
	runRiverWidening(m)
	runErosion(genCtx, m, cfg.ThermalPasses, cfg.HydraulicPasses)
	markBridgeHints(m, cfg.MinGapBridge, cfg.MaxGapBridge)
	if err := checkDone(ctx); err != nil {
		return nil, err
	}

	logger.Debug("phase start", zap.String("phase", "structures"))
	structures := runStructurePlacement(genCtx, m, fields, opts.Structures, opts.MaxStructures, opts.StructureSpacing)
	if err := checkDone(ctx); err != nil {
		return nil, err
	}

	logger.Debug("phase start", zap.String("phase", "dungeon"))
	dungeon := placeDungeons(genCtx, m, fields, cfg, structures)
	if err := checkDone(ctx); err != nil {
		return nil, err
	}

	logger.Debug("phase start", zap.String("phase", "spawn_ecology"))
	spawns := runSpawnEcology(genCtx, m, opts.Spawns, structures, opts.HubRadius, opts.DepthCurve)
	if err := checkDone(ctx); err != nil {
		return nil, err
	}

	logger.Debug("phase start", zap.String("phase", "resource_nodes"))
	resources := runResourceGeneration(genCtx, m, opts.Resources, opts.MaxResourceNodes, opts.ClusterAttempts, opts.ClusterRadius, opts.BaseClusters)
	if err := checkDone(ctx); err != nil {
		return nil, err
	}

	logger.Debug("phase start", zap.String("phase", "weather"))
	weather := newWeatherState()
	dominantBiome := dominantBiomeOf(fields)
	advanceWeather(genCtx, opts.Weather, &weather, 1, dominantBiome)

	metrics := telemetry.Collect(m)
	if metrics.Anomalies != 0 {
		logger.Warn("telemetry anomaly", zap.String("anomalies", telemetry.AnomalyList(metrics.Anomalies)))
	}

	world := &World{
		Config:     *cfg,
		Tiles:      m,
		Fields:     fields,
		Structures: structures,
		Dungeon:    dungeon,
		Resources:  resources,
		Weather:    weather,
		Telemetry:  metrics,
	}
	world.Hash = worldHash(world, spawns)
	return world, nil
}

func checkDone(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

// placeDungeons carves one dungeon beneath every structure placement that
// received an entrance, using a 40x40 sub-region of the same map that is
// horizontally centered on the entrance and extends down from its row; the
// dungeon is carved over whatever surface tiles that region holds.
func placeDungeons(ctx *rng.WorldGenContext, m *tilemap.TileMap, fields *Fields, cfg *Config, structures []StructurePlacement) Dungeon {
	merged := Dungeon{}
	roomOffset := 0
	for _, s := range structures {
		if !s.HasEntrance {
			continue
		}
		d := runDungeonGeneration(ctx, m, s.EntranceX-20, s.EntranceY, 40, 40, cfg)
		for i := range d.Edges {
			d.Edges[i].A += roomOffset
			d.Edges[i].B += roomOffset
		}
		for i := range d.KeyLocks {
			d.KeyLocks[i].KeyRoom += roomOffset
			d.KeyLocks[i].DoorRoom += roomOffset
		}
		merged.Rooms = append(merged.Rooms, d.Rooms...)
		merged.Edges = append(merged.Edges, d.Edges...)
		merged.KeyLocks = append(merged.KeyLocks, d.KeyLocks...)
		merged.TrapCount += d.TrapCount
		roomOffset += len(d.Rooms)
	}
	if len(merged.Edges) > 0 {
		loops := 0
		for _, e := range merged.Edges {
			if e.Loop {
				loops++
			}
		}
		merged.LoopRatio = float64(loops) / float64(len(merged.Edges))
	}
	return merged
}

// dominantBiomeOf returns the most frequently classified Biome across the
// field grid, used to seed the initial weather pattern selection.
func dominantBiomeOf(f *Fields) Biome {
	var counts [6]int
	for _, b := range f.Biomes {
		counts[b]++
	}
	best := BiomePlains
	bestCount := -1
	for b, c := range counts {
		if c > bestCount {
			bestCount = c
			best = Biome(b)
		}
	}
	return best
}

// worldHash folds the generated tile map and spawn/resource counts into a
// single top-level fingerprint so two runs can be compared for bit-identical
// determinism without diffing every field.
func worldHash(w *World, spawns []SpawnResult) uint64 {
	h := hashfp.TileMapHash(w.Tiles.Bytes(), w.Tiles.Width, w.Tiles.Height)
	h = hashfp.Fold(h, uint64(len(spawns)))
	h = hashfp.Fold(h, uint64(len(w.Resources)))
	h = hashfp.Fold(h, uint64(len(w.Dungeon.Rooms)))
	return h
}
