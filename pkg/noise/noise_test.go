package noise

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

// TestValue2D_Deterministic checks that sampling the same coordinate twice
// always produces the same value, for arbitrary generated coordinates.
func TestValue2D_Deterministic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		x := rapid.Float64Range(-1000, 1000).Draw(t, "x")
		y := rapid.Float64Range(-1000, 1000).Draw(t, "y")
		assert.Equal(t, Value2D(x, y), Value2D(x, y), "Value2D not deterministic")
	})
}

func TestValue2D_Range(t *testing.T) {
	for x := 0.0; x < 20; x += 0.37 {
		for y := 0.0; y < 20; y += 0.41 {
			v := Value2D(x, y)
			assert.GreaterOrEqualf(t, v, -0.01, "Value2D(%v,%v)=%v out of expected range", x, y, v)
			assert.LessOrEqualf(t, v, 1.01, "Value2D(%v,%v)=%v out of expected range", x, y, v)
		}
	}
}

func TestValue2D_LatticeContinuity(t *testing.T) {
	// At integer lattice points, fractional parts are 0 so the sample must
	// equal the corner hash exactly (smoothstep(0) == 0).
	v := Value2D(5, 9)
	h := hash2D(5, 9)
	assert.LessOrEqualf(t, math.Abs(v-h), 1e-9, "expected lattice point to equal corner hash, got %v want %v", v, h)
}

// TestFBM_Deterministic checks that sampling the same coordinate twice with
// identical octave parameters always produces the same value, for arbitrary
// generated inputs.
func TestFBM_Deterministic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		x := rapid.Float64Range(-1000, 1000).Draw(t, "x")
		y := rapid.Float64Range(-1000, 1000).Draw(t, "y")
		octaves := rapid.IntRange(1, 8).Draw(t, "octaves")
		assert.Equal(t, FBM(x, y, octaves, 2.0, 0.5), FBM(x, y, octaves, 2.0, 0.5), "FBM not deterministic")
	})
}

func TestFBM_NormalizedRange(t *testing.T) {
	v := FBM(12.3, 45.6, 6, 2.0, 0.5)
	assert.GreaterOrEqual(t, v, -0.01)
	assert.LessOrEqual(t, v, 1.01)
}

func TestFBM_ZeroOctavesTreatedAsOne(t *testing.T) {
	a := FBM(4, 4, 0, 2.0, 0.5)
	b := FBM(4, 4, 1, 2.0, 0.5)
	assert.Equal(t, a, b, "zero octaves should behave like one octave")
}

func TestBatch4_MatchesScalar(t *testing.T) {
	xs := [4]float64{1.1, 2.2, 3.3, 4.4}
	ys := [4]float64{5.5, 6.6, 7.7, 8.8}
	batch := Batch4(xs, ys)
	for i := 0; i < 4; i++ {
		assert.Equalf(t, Value2D(xs[i], ys[i]), batch[i], "lane %d mismatch", i)
	}
}

func TestFBMBatch4_MatchesScalar(t *testing.T) {
	xs := [4]float64{1.1, 2.2, 3.3, 4.4}
	ys := [4]float64{5.5, 6.6, 7.7, 8.8}
	batch := FBMBatch4(xs, ys, 4, 2.0, 0.5)
	for i := 0; i < 4; i++ {
		assert.Equalf(t, FBM(xs[i], ys[i], 4, 2.0, 0.5), batch[i], "lane %d mismatch", i)
	}
}

func TestRadialFalloff_Monotonic(t *testing.T) {
	assert.Less(t, RadialFalloff(0.1), RadialFalloff(0.9), "expected radial falloff to increase with distance")
}
