package export

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestExportTMJEncodesTerrainLayer(t *testing.T) {
	w := smallWorld(t)
	tmjMap, err := ExportTMJ(w, false)
	require.NoError(t, err)
	assert.Equal(t, w.Tiles.Width, tmjMap.Width)
	assert.Equal(t, w.Tiles.Height, tmjMap.Height)
	require.NotEmpty(t, tmjMap.Layers)
	assert.Equal(t, "tilelayer", tmjMap.Layers[0].Type, "expected a tile layer as the first layer")
	data, ok := tmjMap.Layers[0].Data.([]uint32)
	require.True(t, ok, "expected a []uint32 tile layer")
	require.Len(t, data, w.Tiles.Width*w.Tiles.Height)
	for i, gid := range data {
		assert.Equalf(t, uint32(w.Tiles.Tiles[i])+1, gid, "tile %d GID mismatch", i)
	}
}

func TestExportTMJCompressesWhenRequested(t *testing.T) {
	w := smallWorld(t)
	tmjMap, err := ExportTMJ(w, true)
	require.NoError(t, err)
	layer := tmjMap.Layers[0]
	assert.Equal(t, "gzip", layer.Compression)
	assert.Equal(t, "base64", layer.Encoding)
	encoded, ok := layer.Data.(string)
	require.True(t, ok, "expected compressed layer data to be a base64 string")
	_, err = base64.StdEncoding.DecodeString(encoded)
	assert.NoError(t, err, "expected valid base64")
}

func TestExportTMJIncludesStructureAndResourceLayers(t *testing.T) {
	w := smallWorld(t)
	tmjMap, err := ExportTMJ(w, false)
	require.NoError(t, err)
	var structures, resources *TMJLayer
	for i := range tmjMap.Layers {
		switch tmjMap.Layers[i].Name {
		case "structures":
			structures = &tmjMap.Layers[i]
		case "resources":
			resources = &tmjMap.Layers[i]
		}
	}
	require.NotNil(t, structures, "expected a structures object layer")
	require.NotNil(t, resources, "expected a resources object layer")
	assert.Len(t, structures.Objects, len(w.Structures))
	assert.Len(t, resources.Objects, len(w.Resources))
}

func TestExportTMJRejectsNilWorld(t *testing.T) {
	_, err := ExportTMJ(nil, false)
	assert.Error(t, err, "expected an error for a nil world")
}

// TestCalculateGIDRoundTripsWithParseGID checks that ParseGID inverts
// CalculateGID for arbitrary tile indices and flip-flag combinations.
func TestCalculateGIDRoundTripsWithParseGID(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tileIdx := rapid.IntRange(0, 1<<20).Draw(t, "tileIdx")
		flipH := rapid.Bool().Draw(t, "flipH")
		flipV := rapid.Bool().Draw(t, "flipV")
		flipD := rapid.Bool().Draw(t, "flipD")

		gid := CalculateGID(1, tileIdx, flipH, flipV, flipD)
		id, gotH, gotV, gotD := ParseGID(gid)

		assert.Equal(t, tileIdx+1, id)
		assert.Equal(t, flipH, gotH)
		assert.Equal(t, flipV, gotV)
		assert.Equal(t, flipD, gotD)
	})
}
