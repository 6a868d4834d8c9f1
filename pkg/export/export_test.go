package export

import (
	"context"
	"testing"

	"github.com/rogueforge/simcore/pkg/worldgen"
	"github.com/stretchr/testify/require"
)

func smallWorld(t *testing.T) *worldgen.World {
	t.Helper()
	cfg := worldgen.DefaultConfig()
	cfg.Width, cfg.Height = 32, 24
	w, err := worldgen.Generate(context.Background(), &cfg, worldgen.DefaultPipelineOptions())
	require.NoError(t, err)
	return w
}
