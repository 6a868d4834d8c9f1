package worldgen

import (
	"testing"

	"github.com/rogueforge/simcore/pkg/rng"
	"github.com/rogueforge/simcore/pkg/tilemap"
	"github.com/stretchr/testify/assert"
)

func TestBuildSpawnDensity_WaterDampens(t *testing.T) {
	m, _ := tilemap.Init(5, 5)
	m.Fill(tilemap.Forest)
	for y := 0; y < 5; y++ {
		m.Set(0, y, tilemap.Water)
	}
	density := buildSpawnDensity(m)
	open := density[m.Index(4, 2)]
	nearWater := density[m.Index(1, 2)]
	assert.Less(t, nearWater, open, "expected water-adjacent density below open density")
}

func TestApplyHubSuppression_ZeroesCenter(t *testing.T) {
	m, _ := tilemap.Init(20, 20)
	m.Fill(tilemap.Grass)
	density := buildSpawnDensity(m)
	applyHubSuppression(density, m.Width, m.Height, 10, 10, 4)
	assert.Zero(t, density[m.Index(10, 10)], "expected hub center density 0")
	assert.NotZero(t, density[m.Index(19, 19)], "expected far corner density unaffected")
}

func TestRunSpawnEcology_ProducesResultsOnForest(t *testing.T) {
	m, _ := tilemap.Init(16, 16)
	m.Fill(tilemap.Forest)
	ctx := rng.NewWorldGenContext(7, 0)
	results := runSpawnEcology(ctx, m, DefaultSpawnRegistry(), nil, 0, nil)
	assert.NotEmpty(t, results, "expected at least one spawn sample over an all-forest map")
	for _, r := range results {
		assert.NotEmpty(t, r.ID, "expected non-empty spawn id")
	}
}

func TestRunSpawnEcology_HubSuppressesNearbySpawns(t *testing.T) {
	m, _ := tilemap.Init(20, 20)
	m.Fill(tilemap.Forest)
	ctx := rng.NewWorldGenContext(7, 0)
	hubs := []StructurePlacement{{X: 8, Y: 8, W: 2, H: 2}}
	results := runSpawnEcology(ctx, m, DefaultSpawnRegistry(), hubs, 5, nil)
	for _, r := range results {
		dx, dy := r.X-9, r.Y-9
		assert.NotZerof(t, dx*dx+dy*dy, "did not expect a spawn exactly at the hub center: %+v", r)
	}
}
