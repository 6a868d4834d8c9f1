package worldgen

import (
	"github.com/rogueforge/simcore/pkg/telemetry"
	"github.com/rogueforge/simcore/pkg/tilemap"
)

// Telemetry is the land/water/river metrics and anomaly flags computed for
// a generated World; see pkg/telemetry for the collection logic.
type Telemetry = telemetry.Metrics

// RoomTag is a bitmask of special-purpose tags a dungeon room may carry, per
// spec.md §4.5 Phase 7 room tagging rules.
type RoomTag uint8

const (
	RoomTagTreasure RoomTag = 1 << iota
	RoomTagElite
	RoomTagPuzzle
	RoomTagSecret
)

// Room is an axis-aligned dungeon room produced by Phase 7.
type Room struct {
	X, Y, W, H int
	Tags       RoomTag
	Degree     int
}

// CenterX and CenterY return the room's integer center, used for nearest
// room selection, key placement, and the farthest-room Elite tagging rule.
func (r Room) CenterX() int { return r.X + r.W/2 }
func (r Room) CenterY() int { return r.Y + r.H/2 }
func (r Room) Area() int    { return r.W * r.H }

// Edge is a connection between two rooms by index into Dungeon.Rooms.
type Edge struct {
	A, B int
	Loop bool
}

// KeyLock records a key placed in one room that unlocks a door in another.
type KeyLock struct {
	KeyRoom  int
	DoorX    int
	DoorY    int
	DoorRoom int
}

// Dungeon is Phase 7's output artifact.
type Dungeon struct {
	Rooms     []Room
	Edges     []Edge
	KeyLocks  []KeyLock
	TrapCount int
	LoopRatio float64
}

// Biome is the closed set of macro biome classifications assigned per cell
// in Phase 2, independent of the finer-grained Tile enumeration.
type Biome byte

const (
	BiomeOcean Biome = iota
	BiomePlains
	BiomeForest
	BiomeMountain
	BiomeSwamp
	BiomeSnow
)

func (b Biome) String() string {
	switch b {
	case BiomeOcean:
		return "Ocean"
	case BiomePlains:
		return "Plains"
	case BiomeForest:
		return "Forest"
	case BiomeMountain:
		return "Mountain"
	case BiomeSwamp:
		return "Swamp"
	case BiomeSnow:
		return "Snow"
	default:
		return "Unknown"
	}
}

// Fields holds the scalar grids computed during Phase 2 that later phases
// read (elevation drives caves, moisture drives biome perturbation, etc.).
// Each grid is row-major, width*height long, matching the tile map shape.
type Fields struct {
	Width, Height int
	Continent     []float64
	Elevation     []float64
	Temperature   []float64
	Moisture      []float64
	Biomes        []Biome
}

func newFields(w, h int) *Fields {
	return &Fields{
		Width: w, Height: h,
		Continent:   make([]float64, w*h),
		Elevation:   make([]float64, w*h),
		Temperature: make([]float64, w*h),
		Moisture:    make([]float64, w*h),
		Biomes:      make([]Biome, w*h),
	}
}

func (f *Fields) idx(x, y int) int { return y*f.Width + x }

// StructurePlacement records one placed structure footprint.
type StructurePlacement struct {
	DescriptorID int
	X, Y, W, H   int
	Rotated      bool
	HasEntrance  bool
	EntranceX    int
	EntranceY    int
}

// ResourceNode is Phase 9's spawn output.
type ResourceNode struct {
	DescriptorID int
	X, Y         int
	Yield        int
	Upgraded     bool
}

// SpawnResult is Phase 8's per-sample output.
type SpawnResult struct {
	ID   string
	X, Y int
	Rare bool
}

// WeatherState is the Phase 10 / §4.14 state machine's live state.
type WeatherState struct {
	PatternIndex    int
	RemainingTicks  int
	DurationTicks   int
	Intensity       float64
	TargetIntensity float64

	curve Curve
}

// World is the complete output of the ten-phase pipeline.
type World struct {
	Config     Config
	Tiles      *tilemap.TileMap
	Fields     *Fields
	Structures []StructurePlacement
	Dungeon    Dungeon
	Resources  []ResourceNode
	Weather    WeatherState
	Telemetry  Telemetry
	Hash       uint64
}
