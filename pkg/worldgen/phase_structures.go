package worldgen

import (
	"github.com/rogueforge/simcore/pkg/rng"
	"github.com/rogueforge/simcore/pkg/tilemap"
)

// StructureDescriptor is one entry in the structure placement registry, per
// spec.md §4.5 Phase 6.
type StructureDescriptor struct {
	ID             int
	Width, Height  int
	BiomeMask      uint32
	RarityWeight   float64
	MinElev        byte
	MaxElev        byte
	AllowRotation  bool
}

// biomeBit returns the registry bitmask bit for a Biome.
func biomeBit(b Biome) uint32 { return 1 << uint32(b) }

// DefaultStructureRegistry returns the baseline structure set grounded on
// the reference implementation's hut/watchtower/shrine registry.
func DefaultStructureRegistry() []StructureDescriptor {
	return []StructureDescriptor{
		{ID: 0, Width: 5, Height: 4, BiomeMask: biomeBit(BiomePlains) | biomeBit(BiomeForest), RarityWeight: 1.0, MinElev: 0, MaxElev: 2, AllowRotation: true},
		{ID: 1, Width: 3, Height: 6, BiomeMask: biomeBit(BiomePlains) | biomeBit(BiomeForest) | biomeBit(BiomeMountain), RarityWeight: 0.6, MinElev: 1, MaxElev: 3, AllowRotation: false},
		{ID: 2, Width: 4, Height: 4, BiomeMask: biomeBit(BiomeSwamp) | biomeBit(BiomeSnow) | biomeBit(BiomePlains), RarityWeight: 0.4, MinElev: 0, MaxElev: 3, AllowRotation: true},
	}
}

// runStructurePlacement implements spec.md §4.5 Phase 6's rejection-sampling
// placement: weighted descriptor pick, random position, optional rotation,
// spacing check, biome/elevation fitness, footprint occupancy check, and
// border-wall/interior-floor carving.
func runStructurePlacement(ctx *rng.WorldGenContext, m *tilemap.TileMap, f *Fields, registry []StructureDescriptor, maxOut, minSpacing int) []StructurePlacement {
	if minSpacing < 2 {
		minSpacing = 2
	}
	w, h := m.Width, m.Height
	placements := make([]StructurePlacement, 0, maxOut)
	attempts := maxOut * 20

	weights := make([]float64, len(registry))
	for i, d := range registry {
		weights[i] = d.RarityWeight
	}

	for attempts > 0 && len(placements) < maxOut {
		attempts--
		pick := ctx.Micro.WeightedChoice(weights)
		if pick < 0 {
			break
		}
		desc := registry[pick]
		sw, sh := desc.Width, desc.Height
		rotated := false
		if desc.AllowRotation && ctx.Micro.Float64() < 0.5 {
			rotated = true
			sw, sh = sh, sw
		}
		if w-sw-2 <= 0 || h-sh-2 <= 0 {
			continue
		}
		x := int(ctx.Micro.Float64()*float64(w-sw-2)) + 1
		y := int(ctx.Micro.Float64()*float64(h-sh-2)) + 1
		if x < 1 || y < 1 || x+sw >= w || y+sh >= h {
			continue
		}

		tooClose := false
		for _, p := range placements {
			dx := abs(p.X - x)
			dy := abs(p.Y - y)
			if dx < (p.W+sw)/2+minSpacing && dy < (p.H+sh)/2+minSpacing {
				tooClose = true
				break
			}
		}
		if tooClose {
			continue
		}

		bx, by := x+sw/2, y+sh/2
		centerTile := m.Get(bx, by)
		biome := f.Biomes[f.idx(bx, by)]
		elev := terrainElevationClass(centerTile)
		if desc.BiomeMask&biomeBit(biome) == 0 {
			continue
		}
		if elev < desc.MinElev || elev > desc.MaxElev {
			continue
		}

		blocked := false
		for yy := 0; yy < sh && !blocked; yy++ {
			for xx := 0; xx < sw; xx++ {
				t := m.Get(x+xx, y+yy)
				if t == tilemap.Water || t == tilemap.Mountain || t == tilemap.River || t == tilemap.RiverWide {
					blocked = true
					break
				}
			}
		}
		if blocked {
			continue
		}

		for yy := 0; yy < sh; yy++ {
			for xx := 0; xx < sw; xx++ {
				border := yy == 0 || yy == sh-1 || xx == 0 || xx == sw-1
				if border {
					m.Set(x+xx, y+yy, tilemap.StructureWall)
				} else {
					m.Set(x+xx, y+yy, tilemap.StructureFloor)
				}
			}
		}

		sp := StructurePlacement{DescriptorID: desc.ID, X: x, Y: y, W: sw, H: sh, Rotated: rotated}

		// Dungeon entrance, with probability 0.75, per spec.md §4.5 Phase 6.
		cx, cy := sp.X+sp.W/2, sp.Y+sp.H
		if cy+1 < h && ctx.Micro.Chance(0.75) {
			if m.Get(cx, cy) == tilemap.StructureFloor {
				m.Set(cx, cy, tilemap.DungeonEntrance)
				sp.HasEntrance = true
				sp.EntranceX, sp.EntranceY = cx, cy
			}
		}

		placements = append(placements, sp)
	}
	return placements
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
