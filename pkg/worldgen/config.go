package worldgen

import (
	"fmt"

	"github.com/rogueforge/simcore/pkg/hashfp"
)

// Config holds every caller-supplied world generation parameter from
// SPEC_FULL's External Interfaces section. It is YAML-tagged so callers can
// load it from a file the way the teacher loads dungeon.Config.
type Config struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Seed   uint32 `yaml:"seed"`

	BiomeRegions     int    `yaml:"biomeRegions"`
	ContinentCount   int    `yaml:"continentCount"`
	BiomeSeedOffset  uint32 `yaml:"biomeSeedOffset"`

	CaveIterations int     `yaml:"caveIterations"`
	CaveFillChance float64 `yaml:"caveFillChance"`

	RiverAttempts   int `yaml:"riverAttempts"`
	RiverSources    int `yaml:"riverSources"`
	RiverMaxLength  int `yaml:"riverMaxLength"`

	SmallIslandMaxSize int `yaml:"smallIslandMaxSize"`
	SmallIslandPasses  int `yaml:"smallIslandPasses"`
	ShoreFillPasses    int `yaml:"shoreFillPasses"`

	AdvancedTerrain       bool    `yaml:"advancedTerrain"`
	WaterLevel            float64 `yaml:"waterLevel"`
	NoiseOctaves          int     `yaml:"noiseOctaves"`
	NoiseGain             float64 `yaml:"noiseGain"`
	NoiseLacunarity       float64 `yaml:"noiseLacunarity"`
	CaveMountainElevThresh float64 `yaml:"caveMountainElevThresh"`

	ThermalPasses   int `yaml:"thermalPasses"`
	HydraulicPasses int `yaml:"hydraulicPasses"`
	MinGapBridge    int `yaml:"minGapBridge"`
	MaxGapBridge    int `yaml:"maxGapBridge"`

	TargetRooms  int     `yaml:"targetRooms"`
	LoopPercent  float64 `yaml:"loopPercent"`
	TargetTraps  int     `yaml:"targetTraps"`
	TargetPockets int    `yaml:"targetPockets"`
	VeinLength   int     `yaml:"veinLength"`
	VeinCount    int     `yaml:"veinCount"`
}

// DefaultConfig returns the parameter set used throughout SPEC_FULL's
// concrete test scenarios, matching spec.md §8's scenario 1 defaults where
// explicit, with conservative values elsewhere.
func DefaultConfig() Config {
	return Config{
		Width:                  128,
		Height:                 96,
		Seed:                   424242,
		BiomeRegions:           6,
		ContinentCount:         3,
		BiomeSeedOffset:        17,
		CaveIterations:         5,
		CaveFillChance:         0.45,
		RiverAttempts:          8,
		RiverSources:           4,
		RiverMaxLength:         200,
		SmallIslandMaxSize:     16,
		SmallIslandPasses:      2,
		ShoreFillPasses:        1,
		AdvancedTerrain:        true,
		WaterLevel:             0.0,
		NoiseOctaves:           5,
		NoiseGain:              0.5,
		NoiseLacunarity:        2.0,
		CaveMountainElevThresh: 0.65,
		ThermalPasses:          3,
		HydraulicPasses:        3,
		MinGapBridge:           1,
		MaxGapBridge:           3,
		TargetRooms:            28,
		LoopPercent:            25,
		TargetTraps:            6,
		TargetPockets:          4,
		VeinLength:             12,
		VeinCount:              6,
	}
}

// Validate rejects configs the pipeline cannot run on, per spec.md §7's
// InvalidArgument kind (negative dimension, non-positive width/height).
func (c *Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("worldgen: invalid dimensions %dx%d: %w", c.Width, c.Height, ErrInvalidArgument)
	}
	if c.CaveFillChance < 0 || c.CaveFillChance > 1 {
		return fmt.Errorf("worldgen: caveFillChance must be in [0,1], got %v: %w", c.CaveFillChance, ErrInvalidArgument)
	}
	if c.NoiseOctaves < 0 {
		return fmt.Errorf("worldgen: noiseOctaves must be >= 0: %w", ErrInvalidArgument)
	}
	if c.TargetRooms < 0 || c.TargetTraps < 0 || c.TargetPockets < 0 {
		return fmt.Errorf("worldgen: negative count field: %w", ErrInvalidArgument)
	}
	return nil
}

// Hash folds the dimension, seed, biome, cave, river and dungeon/pocket/vein
// fields deterministically into one fingerprint. The island, shore, noise,
// water-level, advanced-terrain, erosion and bridge fields are not folded.
// RNG seeds are not derived from it.
func (c *Config) Hash() uint64 {
	b := hashfp.NewFingerprintBuilder()
	b.FoldInt(c.Width)
	b.FoldInt(c.Height)
	b.FoldUint(uint64(c.Seed))
	b.FoldInt(c.BiomeRegions)
	b.FoldInt(c.ContinentCount)
	b.FoldUint(uint64(c.BiomeSeedOffset))
	b.FoldInt(c.CaveIterations)
	b.FoldFloat(float32(c.CaveFillChance))
	b.FoldInt(c.RiverAttempts)
	b.FoldInt(c.RiverSources)
	b.FoldInt(c.RiverMaxLength)
	b.FoldInt(c.TargetRooms)
	b.FoldFloat(float32(c.LoopPercent))
	b.FoldInt(c.TargetTraps)
	b.FoldInt(c.TargetPockets)
	b.FoldInt(c.VeinLength)
	b.FoldInt(c.VeinCount)
	return b.Finish()
}
