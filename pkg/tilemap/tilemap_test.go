package tilemap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_RejectsNonPositiveDimensions(t *testing.T) {
	_, err := Init(0, 4)
	assert.Error(t, err, "expected error for zero width")
	_, err = Init(4, -1)
	assert.Error(t, err, "expected error for negative height")
}

func TestGetSet_OutOfBounds(t *testing.T) {
	m, err := Init(4, 4)
	require.NoError(t, err)
	assert.Equal(t, Empty, m.Get(-1, 0), "out-of-bounds get should return Empty sentinel")
	assert.Equal(t, Empty, m.Get(10, 10), "out-of-bounds get should return Empty sentinel")
	m.Set(-1, -1, Mountain)
	m.Set(100, 100, Mountain)
	for _, v := range m.Tiles {
		assert.Equal(t, Empty, v, "out-of-bounds set must be a no-op")
	}
}

func TestGetSet_RoundTrip(t *testing.T) {
	m, _ := Init(3, 3)
	m.Set(1, 2, River)
	assert.Equal(t, River, m.Get(1, 2))
}

func TestCountNeighbors4And8(t *testing.T) {
	m, _ := Init(3, 3)
	m.Fill(CaveWall)
	m.Set(1, 1, CaveFloor)
	isWall := func(tl Tile) bool { return tl == CaveWall }
	assert.Equal(t, 4, m.CountNeighbors4(1, 1, isWall), "expected 4 orthogonal wall neighbors")
	assert.Equal(t, 8, m.CountNeighbors8(1, 1, isWall), "expected 8 neighbors")
}
