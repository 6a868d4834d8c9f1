package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutGetRoundTrip(t *testing.T) {
	c := New(DefaultConfig())
	require.NoError(t, c.Put(42, []byte("hello"), 1, -1))
	data, version, ok := c.Get(42)
	require.True(t, ok)
	assert.Equal(t, "hello", string(data))
	assert.EqualValues(t, 1, version)
}

func TestPlacementHintBySize(t *testing.T) {
	assert.Equal(t, L1, placementHint(10), "expected small payload to hint L1")
	assert.Equal(t, L2, placementHint(1000), "expected medium payload to hint L2")
	assert.Equal(t, L3, placementHint(10000), "expected large payload to hint L3")
}

func TestGetPromotesFromLowerLevel(t *testing.T) {
	c := New(DefaultConfig())
	require.NoError(t, c.Put(7, []byte("warm"), 1, L2))
	_, _, ok := c.Get(7)
	require.True(t, ok, "expected hit")
	stats := c.Stats()
	assert.NotZero(t, stats.Promotions[L1], "expected a promotion recorded on L1 after cross-level hit")
	assert.NotZero(t, stats.Entries[L1], "expected the entry to now also live in L1")
}

func TestInvalidateTombstonesAcrossLevels(t *testing.T) {
	c := New(DefaultConfig())
	c.Put(1, []byte("x"), 1, L1)
	c.Invalidate(1)
	_, _, ok := c.Get(1)
	assert.False(t, ok, "expected miss after invalidate")
}

func TestEvictionWhenLevelFull(t *testing.T) {
	cfg := Config{L1Capacity: 2, L2Capacity: 2, L3Capacity: 2}
	c := New(cfg)
	c.Put(1, []byte("a"), 1, L1)
	c.Put(2, []byte("b"), 1, L1)
	c.Put(3, []byte("c"), 1, L1)
	stats := c.Stats()
	assert.NotZero(t, stats.Evictions[L1], "expected an eviction once L1 capacity was exceeded")
	assert.Equal(t, uint64(2), uint64(stats.Entries[L1]), "expected entries to stay capped at capacity")
}

func TestCompressionAppliesAboveThresholdAndSavesBytes(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CompressThreshold = 4
	c := New(cfg)
	payload := make([]byte, 64)
	for i := range payload {
		payload[i] = 0xAB
	}
	require.NoError(t, c.Put(9, payload, 1, L1))
	data, _, ok := c.Get(9)
	require.True(t, ok)
	assert.Len(t, data, len(payload), "expected round-tripped payload of matching length")
	assert.NotZero(t, c.Stats().CompressedEntries, "expected a highly-repetitive payload above threshold to compress")
}

func TestPreloadInsertsIntoTargetLevel(t *testing.T) {
	c := New(DefaultConfig())
	loader := func(key uint64) ([]byte, uint32, error) {
		return []byte{byte(key)}, 1, nil
	}
	require.NoError(t, c.Preload([]uint64{1, 2, 3}, L3, loader))
	assert.EqualValues(t, 3, c.Stats().Entries[L3])
	assert.EqualValues(t, 3, c.Stats().PreloadOperations, "expected preload operation count to track successful loads")
}

func TestPromoteMovesEntryTowardL1(t *testing.T) {
	c := New(DefaultConfig())
	c.Put(5, []byte("cold"), 1, L3)
	c.Promote(5)
	assert.NotZero(t, c.Stats().Entries[L2], "expected promote to move the entry from L3 into L2")
}
