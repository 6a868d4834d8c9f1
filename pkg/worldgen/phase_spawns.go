package worldgen

import (
	"math"

	"github.com/rogueforge/simcore/pkg/rng"
	"github.com/rogueforge/simcore/pkg/tilemap"
)

// SpawnEntry is one weighted fauna/flora candidate within a SpawnTable.
type SpawnEntry struct {
	ID         string
	Weight     int
	RareWeight int
}

// SpawnTable binds a biome tile to its candidate spawn entries, per spec.md
// §4.5 Phase 8.
type SpawnTable struct {
	BiomeTile    tilemap.Tile
	Entries      []SpawnEntry
	RareChanceBP int // basis points, 0-10000
}

// SpawnRegistry holds the tables consulted by runSpawnEcology, held by value
// in caller code rather than as package-level state.
type SpawnRegistry struct {
	tables []SpawnTable
}

// NewSpawnRegistry returns an empty registry ready for Register calls.
func NewSpawnRegistry() *SpawnRegistry { return &SpawnRegistry{} }

// Register adds a table, rejecting malformed entry counts (0 < n <= 16), per
// the reference implementation's MAX_SPAWN_TABLES-entry-count guard.
func (r *SpawnRegistry) Register(t SpawnTable) bool {
	if len(t.Entries) == 0 || len(t.Entries) > 16 {
		return false
	}
	r.tables = append(r.tables, t)
	return true
}

func (r *SpawnRegistry) tableForTile(t tilemap.Tile) *SpawnTable {
	for i := range r.tables {
		if r.tables[i].BiomeTile == t {
			return &r.tables[i]
		}
	}
	return nil
}

// DefaultSpawnRegistry returns the baseline fauna tables grounded on the
// reference implementation's biome-to-density mapping.
func DefaultSpawnRegistry() *SpawnRegistry {
	r := NewSpawnRegistry()
	r.Register(SpawnTable{
		BiomeTile:    tilemap.Grass,
		RareChanceBP: 500,
		Entries: []SpawnEntry{
			{ID: "rabbit", Weight: 60, RareWeight: 5},
			{ID: "deer", Weight: 30, RareWeight: 10},
			{ID: "wolf", Weight: 10, RareWeight: 20},
		},
	})
	r.Register(SpawnTable{
		BiomeTile:    tilemap.Forest,
		RareChanceBP: 800,
		Entries: []SpawnEntry{
			{ID: "deer", Weight: 40, RareWeight: 10},
			{ID: "bear", Weight: 15, RareWeight: 25},
			{ID: "owl", Weight: 45, RareWeight: 5},
		},
	})
	r.Register(SpawnTable{
		BiomeTile:    tilemap.Swamp,
		RareChanceBP: 600,
		Entries: []SpawnEntry{
			{ID: "toad", Weight: 50, RareWeight: 5},
			{ID: "lurker", Weight: 20, RareWeight: 30},
		},
	})
	r.Register(SpawnTable{
		BiomeTile:    tilemap.Snow,
		RareChanceBP: 400,
		Entries: []SpawnEntry{
			{ID: "fox", Weight: 55, RareWeight: 10},
			{ID: "yeti", Weight: 5, RareWeight: 40},
		},
	})
	r.Register(SpawnTable{
		BiomeTile:    tilemap.DungeonFloor,
		RareChanceBP: 1000,
		Entries: []SpawnEntry{
			{ID: "rat", Weight: 50, RareWeight: 5},
			{ID: "skeleton", Weight: 35, RareWeight: 15},
			{ID: "wraith", Weight: 15, RareWeight: 35},
		},
	})
	return r
}

// buildSpawnDensity implements spec.md §4.5 Phase 8's density map: a base
// rate per biome tile, dampened by water-adjacency (>=3 neighbors: 0.35x,
// >=1: 0.7x).
func buildSpawnDensity(m *tilemap.TileMap) []float64 {
	w, h := m.Width, m.Height
	density := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			idx := m.Index(x, y)
			base := 0.0
			switch m.Get(x, y) {
			case tilemap.Grass:
				base = 0.6
			case tilemap.Forest:
				base = 0.9
			case tilemap.Swamp:
				base = 0.4
			case tilemap.Snow:
				base = 0.35
			case tilemap.DungeonFloor:
				base = 0.5
			}
			if base > 0 {
				waterAdj := m.CountNeighbors8(x, y, func(t tilemap.Tile) bool {
					return t == tilemap.Water || t == tilemap.River || t == tilemap.RiverWide
				})
				switch {
				case waterAdj >= 3:
					base *= 0.35
				case waterAdj >= 1:
					base *= 0.7
				}
			}
			density[idx] = base
		}
	}
	return density
}

// applyHubSuppression implements spec.md §4.5 Phase 8's hub suppression:
// zero density within radius, linear ramp back up to 1.2x radius.
func applyHubSuppression(density []float64, w, h, hubX, hubY, radius int) {
	if radius <= 0 {
		return
	}
	r2 := float64(radius * radius)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx, dy := x-hubX, y-hubY
			d2 := float64(dx*dx + dy*dy)
			idx := y*w + x
			switch {
			case d2 <= r2:
				density[idx] = 0
			case d2 < r2*1.44:
				t := (math.Sqrt(d2) - float64(radius)) / (0.2 * float64(radius))
				if t < 0 {
					t = 0
				}
				if t > 1 {
					t = 1
				}
				density[idx] *= t
			}
		}
	}
}

func chooseWeighted(ch *rng.Channel, entries []SpawnEntry, rare bool) int {
	total := 0
	for _, e := range entries {
		if rare {
			total += e.RareWeight
		} else {
			total += e.Weight
		}
	}
	if total <= 0 {
		return -1
	}
	roll := ch.Intn(total)
	accum := 0
	for i, e := range entries {
		w := e.Weight
		if rare {
			w = e.RareWeight
		}
		if w <= 0 {
			continue
		}
		if roll < accum+w {
			return i
		}
		accum += w
	}
	return -1
}

// sampleSpawn implements spec.md §4.5 Phase 8's per-tile sampling: a density
// gate, rare-chance roll, then a weighted entry pick from the micro channel.
func sampleSpawn(ctx *rng.WorldGenContext, density []float64, m *tilemap.TileMap, registry *SpawnRegistry, x, y int) (SpawnResult, bool) {
	if !m.InBounds(x, y) {
		return SpawnResult{}, false
	}
	idx := m.Index(x, y)
	if density[idx] <= 0.01 {
		return SpawnResult{}, false
	}
	table := registry.tableForTile(m.Get(x, y))
	if table == nil {
		return SpawnResult{}, false
	}
	rare := false
	if table.RareChanceBP > 0 {
		if ctx.Micro.Intn(10000) < table.RareChanceBP {
			rare = true
		}
	}
	chosen := chooseWeighted(ctx.Micro, table.Entries, rare)
	if chosen < 0 {
		return SpawnResult{}, false
	}
	return SpawnResult{ID: table.Entries[chosen].ID, X: x, Y: y, Rare: rare}, true
}

// applyDepthScaling raises density with normalized distance from the
// nearest hub along depthCurve, treating distance-from-safety as a proxy
// for dungeon depth: tiles far from every hub scale up toward 1.6x, tiles
// adjacent to a hub are left at their suppressed baseline. A nil curve is a
// no-op, matching callers that don't model depth.
func applyDepthScaling(density []float64, w, h int, hubs []StructurePlacement, depthCurve Curve) {
	if depthCurve == nil || len(hubs) == 0 {
		return
	}
	maxDist := math.Hypot(float64(w), float64(h))
	if maxDist == 0 {
		return
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			idx := y*w + x
			if density[idx] <= 0 {
				continue
			}
			nearest := maxDist
			for _, hub := range hubs {
				cx, cy := float64(hub.X+hub.W/2), float64(hub.Y+hub.H/2)
				d := math.Hypot(float64(x)-cx, float64(y)-cy)
				if d < nearest {
					nearest = d
				}
			}
			progress := nearest / maxDist
			density[idx] *= 1.0 + 0.6*depthCurve.Evaluate(progress)
		}
	}
}

// runSpawnEcology implements spec.md §4.5 Phase 8 end to end: build the
// density map, suppress it around the given hub points (e.g. dungeon
// entrances), scale it with depthCurve, and sample every tile whose density
// survives.
func runSpawnEcology(ctx *rng.WorldGenContext, m *tilemap.TileMap, registry *SpawnRegistry, hubs []StructurePlacement, hubRadius int, depthCurve Curve) []SpawnResult {
	density := buildSpawnDensity(m)
	for _, hub := range hubs {
		applyHubSuppression(density, m.Width, m.Height, hub.X+hub.W/2, hub.Y+hub.H/2, hubRadius)
	}
	applyDepthScaling(density, m.Width, m.Height, hubs, depthCurve)
	var out []SpawnResult
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if r, ok := sampleSpawn(ctx, density, m, registry, x, y); ok {
				out = append(out, r)
			}
		}
	}
	return out
}
