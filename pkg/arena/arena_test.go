package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArena_AllocAndExhaustion(t *testing.T) {
	a := New[float32](4)
	s1, ok := a.Alloc(3)
	require.True(t, ok, "expected 3-element alloc to succeed")
	assert.Len(t, s1, 3)

	_, ok = a.Alloc(2)
	assert.False(t, ok, "allocation beyond remaining capacity should fail")

	s2, ok := a.Alloc(1)
	require.True(t, ok, "allocation of exactly the remaining capacity should succeed")
	assert.Len(t, s2, 1)
}

func TestArena_ResetReclaims(t *testing.T) {
	a := New[byte](8)
	a.MustAlloc(8)
	_, ok := a.Alloc(1)
	assert.False(t, ok, "arena should be exhausted before reset")

	a.Reset()
	assert.Zero(t, a.Used(), "expected used=0 after reset")

	_, ok = a.Alloc(8)
	assert.True(t, ok, "arena should accept a full allocation after reset")
}

func TestArena_AllocIsZeroed(t *testing.T) {
	a := New[int32](4)
	s := a.MustAlloc(4)
	for i := range s {
		s[i] = 99
	}
	a.Reset()
	s2 := a.MustAlloc(4)
	for i, v := range s2 {
		assert.Zerof(t, v, "expected zeroed memory at index %d after reset", i)
	}
}

func TestFrame_ResetClearsAllSubArenas(t *testing.T) {
	f := NewFrame(16)
	f.Float32.MustAlloc(4)
	f.Byte.MustAlloc(4)
	f.Int32.MustAlloc(4)
	f.Reset()
	assert.Zero(t, f.Float32.Used(), "frame reset should clear every owned arena")
	assert.Zero(t, f.Byte.Used(), "frame reset should clear every owned arena")
	assert.Zero(t, f.Int32.Used(), "frame reset should clear every owned arena")
}
