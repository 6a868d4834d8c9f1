package worldgen

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// TestGenerate_DeterministicForFixedSeed checks that generating twice from
// an identical config produces an identical hash and tile array, for
// arbitrary generated seeds (spec.md §8's "seed → identical output across N
// runs").
func TestGenerate_DeterministicForFixedSeed(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cfg := DefaultConfig()
		cfg.Width, cfg.Height = 48, 40
		cfg.Seed = rapid.Uint32().Draw(t, "seed")

		w1, err := Generate(context.Background(), &cfg, DefaultPipelineOptions())
		require.NoError(t, err)
		w2, err := Generate(context.Background(), &cfg, DefaultPipelineOptions())
		require.NoError(t, err)

		assert.Equal(t, w1.Hash, w2.Hash, "expected identical hashes for the same seed")
		if diff := cmp.Diff(w1.Tiles.Tiles, w2.Tiles.Tiles); diff != "" {
			t.Fatalf("tile mismatch for identical seed (-first +second):\n%s", diff)
		}
	})
}

func TestGenerate_DifferentSeedsDiverge(t *testing.T) {
	cfg1 := DefaultConfig()
	cfg1.Width, cfg1.Height = 48, 40
	cfg2 := cfg1
	cfg2.Seed = cfg1.Seed + 1

	w1, err := Generate(context.Background(), &cfg1, DefaultPipelineOptions())
	require.NoError(t, err)
	w2, err := Generate(context.Background(), &cfg2, DefaultPipelineOptions())
	require.NoError(t, err)

	assert.NotEqual(t, w1.Hash, w2.Hash, "expected different seeds to produce different hashes")
}

func TestGenerate_RejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width = 0
	_, err := Generate(context.Background(), &cfg, DefaultPipelineOptions())
	assert.Error(t, err)
}

func TestGenerate_RespectsCancellation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 48, 40
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Generate(ctx, &cfg, DefaultPipelineOptions())
	assert.Error(t, err, "expected cancellation to produce an error")
}

func TestGenerate_PopulatesAllArtifacts(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 64, 48
	w, err := Generate(context.Background(), &cfg, DefaultPipelineOptions())
	require.NoError(t, err)
	require.NotNil(t, w.Tiles)
	require.NotNil(t, w.Fields)
	assert.Equal(t, cfg.Width*cfg.Height, w.Telemetry.TotalCells)
}
