package worldgen

import (
	"github.com/rogueforge/simcore/pkg/rng"
	"github.com/rogueforge/simcore/pkg/tilemap"
)

// ResourceNodeDescriptor is one registrable resource type consulted by
// runResourceGeneration, per spec.md §4.5 Phase 9.
type ResourceNodeDescriptor struct {
	ID        string
	BiomeMask uint32
	Rarity    int // 0=common, 1=uncommon, 2=rare
	YieldMin  int
	YieldMax  int
}

// ResourceRegistry holds descriptors consulted during generation, held by
// value in caller code rather than as package-level state.
type ResourceRegistry struct {
	descs []ResourceNodeDescriptor
}

// NewResourceRegistry returns an empty registry.
func NewResourceRegistry() *ResourceRegistry { return &ResourceRegistry{} }

// Register adds a descriptor, rejecting an invalid yield range.
func (r *ResourceRegistry) Register(d ResourceNodeDescriptor) bool {
	if d.YieldMin < 0 || d.YieldMax < d.YieldMin {
		return false
	}
	r.descs = append(r.descs, d)
	return true
}

// DefaultResourceRegistry returns the baseline resource set grounded on the
// reference implementation's ore/herb/wood registry.
func DefaultResourceRegistry() *ResourceRegistry {
	r := NewResourceRegistry()
	r.Register(ResourceNodeDescriptor{ID: "iron_vein", BiomeMask: biomeBit(BiomeMountain), Rarity: 0, YieldMin: 2, YieldMax: 5})
	r.Register(ResourceNodeDescriptor{ID: "gold_vein", BiomeMask: biomeBit(BiomeMountain), Rarity: 2, YieldMin: 1, YieldMax: 3})
	r.Register(ResourceNodeDescriptor{ID: "timber_stand", BiomeMask: biomeBit(BiomeForest), Rarity: 0, YieldMin: 3, YieldMax: 8})
	r.Register(ResourceNodeDescriptor{ID: "medicinal_herb", BiomeMask: biomeBit(BiomeForest) | biomeBit(BiomePlains), Rarity: 1, YieldMin: 1, YieldMax: 4})
	r.Register(ResourceNodeDescriptor{ID: "bog_reed", BiomeMask: biomeBit(BiomeSwamp), Rarity: 0, YieldMin: 2, YieldMax: 6})
	r.Register(ResourceNodeDescriptor{ID: "frost_crystal", BiomeMask: biomeBit(BiomeSnow), Rarity: 2, YieldMin: 1, YieldMax: 2})
	return r
}

func biomeBitForTile(t tilemap.Tile) uint32 {
	switch t {
	case tilemap.Grass:
		return biomeBit(BiomePlains)
	case tilemap.Forest:
		return biomeBit(BiomeForest)
	case tilemap.Mountain:
		return biomeBit(BiomeMountain)
	case tilemap.Snow:
		return biomeBit(BiomeSnow)
	case tilemap.Swamp:
		return biomeBit(BiomeSwamp)
	default:
		return 0
	}
}

func upgradeThreshold(rarity int) int {
	switch rarity {
	case 0:
		return 5
	case 1:
		return 10
	default:
		return 18
	}
}

// runResourceGeneration implements spec.md §4.5 Phase 9's cluster placement:
// pick a homogeneous-biome seed tile, scatter 2-4 nodes around it within
// cluster_radius keeping the same biome, pick a matching descriptor, roll
// yield and a rarity-scaled upgrade chance. Draws only from the micro
// channel.
func runResourceGeneration(ctx *rng.WorldGenContext, m *tilemap.TileMap, registry *ResourceRegistry, maxOut, clusterAttempts, clusterRadius, baseClusters int) []ResourceNode {
	if maxOut <= 0 {
		return nil
	}
	if clusterAttempts <= 0 {
		clusterAttempts = 64
	}
	if clusterRadius < 1 {
		clusterRadius = 3
	}
	if baseClusters < 1 {
		baseClusters = 4
	}

	out := make([]ResourceNode, 0, maxOut)
	for c := 0; c < baseClusters && len(out) < maxOut; c++ {
		sx, sy, baseBit := -1, -1, uint32(0)
		for attempt := 0; attempt < clusterAttempts; attempt++ {
			x := ctx.Micro.Intn(m.Width)
			y := ctx.Micro.Intn(m.Height)
			bit := biomeBitForTile(m.Get(x, y))
			if bit != 0 {
				sx, sy, baseBit = x, y, bit
				break
			}
		}
		if baseBit == 0 {
			continue
		}

		nodesInCluster := 2 + ctx.Micro.Intn(3)
		for i := 0; i < nodesInCluster && len(out) < maxOut; i++ {
			ox := ctx.Micro.Intn(2*clusterRadius+1) - clusterRadius
			oy := ctx.Micro.Intn(2*clusterRadius+1) - clusterRadius
			x, y := sx+ox, sy+oy
			if !m.InBounds(x, y) {
				continue
			}
			bit := biomeBitForTile(m.Get(x, y))
			if bit&baseBit == 0 {
				continue
			}

			var candidates []int
			for di, d := range registry.descs {
				if d.BiomeMask&bit != 0 {
					candidates = append(candidates, di)
				}
			}
			if len(candidates) == 0 {
				continue
			}
			di := candidates[ctx.Micro.Intn(len(candidates))]
			desc := registry.descs[di]

			yield := desc.YieldMin
			if desc.YieldMax > desc.YieldMin {
				yield += ctx.Micro.Intn(desc.YieldMax - desc.YieldMin + 1)
			}
			upgraded := false
			if ctx.Micro.Intn(100) < upgradeThreshold(desc.Rarity) {
				upgraded = true
				yield = int(float64(yield) * 1.5)
			}

			out = append(out, ResourceNode{DescriptorID: di, X: x, Y: y, Yield: yield, Upgraded: upgraded})
		}
	}
	return out
}

// countUpgradedResources tallies upgraded nodes, mirroring the reference
// implementation's rogue_resource_upgrade_count helper used by telemetry.
func countUpgradedResources(nodes []ResourceNode) int {
	c := 0
	for _, n := range nodes {
		if n.Upgraded {
			c++
		}
	}
	return c
}
