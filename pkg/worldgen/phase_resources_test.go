package worldgen

import (
	"testing"

	"github.com/rogueforge/simcore/pkg/rng"
	"github.com/rogueforge/simcore/pkg/tilemap"
	"github.com/stretchr/testify/assert"
)

func TestRunResourceGeneration_PlacesNodesOnMountain(t *testing.T) {
	m, _ := tilemap.Init(40, 40)
	m.Fill(tilemap.Mountain)
	ctx := rng.NewWorldGenContext(5, 0)
	nodes := runResourceGeneration(ctx, m, DefaultResourceRegistry(), 64, 64, 3, 4)
	assert.NotEmpty(t, nodes, "expected at least one resource node on an all-mountain map")
	for _, n := range nodes {
		assert.Positive(t, n.Yield, "expected positive yield")
	}
}

func TestRunResourceGeneration_RespectsMaxOut(t *testing.T) {
	m, _ := tilemap.Init(40, 40)
	m.Fill(tilemap.Forest)
	ctx := rng.NewWorldGenContext(5, 0)
	nodes := runResourceGeneration(ctx, m, DefaultResourceRegistry(), 3, 64, 3, 8)
	assert.LessOrEqual(t, len(nodes), 3, "expected at most 3 nodes")
}

func TestCountUpgradedResources(t *testing.T) {
	nodes := []ResourceNode{{Upgraded: true}, {Upgraded: false}, {Upgraded: true}}
	assert.Equal(t, 2, countUpgradedResources(nodes))
}
