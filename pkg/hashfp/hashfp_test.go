package hashfp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

// TestTileMapHash_Deterministic checks that hashing the same tile bytes at
// the same dimensions twice always produces the same fingerprint, for
// arbitrary generated tile data.
func TestTileMapHash_Deterministic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		w := rapid.IntRange(1, 16).Draw(t, "w")
		h := rapid.IntRange(1, 16).Draw(t, "h")
		tiles := rapid.SliceOfN(rapid.Uint8(), w*h, w*h).Draw(t, "tiles")
		assert.Equal(t, TileMapHash(tiles, w, h), TileMapHash(tiles, w, h))
	})
}

func TestTileMapHash_AllZeroIsNotZero(t *testing.T) {
	tiles := make([]byte, 64)
	assert.NotZero(t, TileMapHash(tiles, 8, 8), "all-zero tile map must not hash to zero")
}

func TestTileMapHash_DimensionsMatter(t *testing.T) {
	tiles := []byte{1, 2, 3, 4}
	assert.NotEqual(t, TileMapHash(tiles, 2, 2), TileMapHash(tiles, 4, 1),
		"different dimensions over the same bytes should not collide")
}

func TestTileMapHash_SensitiveToSingleTile(t *testing.T) {
	a := []byte{0, 0, 0, 0}
	b := []byte{0, 0, 0, 1}
	assert.NotEqual(t, TileMapHash(a, 2, 2), TileMapHash(b, 2, 2), "single tile change should change the hash")
}

func TestFold_OrderSensitive(t *testing.T) {
	a := Fold(Fold(0, 1), 2)
	b := Fold(Fold(0, 2), 1)
	assert.NotEqual(t, a, b, "fold should be order sensitive for distinguishable inputs")
}

// TestFingerprintBuilder_Deterministic checks that folding the same
// sequence of values twice always produces the same fingerprint, for
// arbitrary generated int/float/bool inputs.
func TestFingerprintBuilder_Deterministic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		i1 := rapid.Int().Draw(t, "i1")
		i2 := rapid.Int().Draw(t, "i2")
		f := rapid.Float32().Draw(t, "f")
		b := rapid.Bool().Draw(t, "b")

		build := func() uint64 {
			return NewFingerprintBuilder().
				FoldInt(i1).
				FoldInt(i2).
				FoldFloat(f).
				FoldBool(b).
				Finish()
		}
		assert.Equal(t, build(), build(), "fingerprint builder is not deterministic for identical inputs")
	})
}
