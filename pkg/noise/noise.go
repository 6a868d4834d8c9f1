package noise

import "math"

// hash2D produces a deterministic pseudo-random value in [0, 1] for an
// integer lattice point, independent of any RNG channel so that noise
// sampling never perturbs simulation RNG state.
func hash2D(ix, iy int32) float64 {
	h := uint32(ix)*374761393 + uint32(iy)*668265263
	h = (h ^ (h >> 13)) * 1274126177
	h ^= h >> 16
	return float64(h) / float64(math.MaxUint32)
}

// smoothstep applies the classic 3t^2-2t^3 ease curve used to interpolate
// between lattice corners without first-derivative discontinuities.
func smoothstep(t float64) float64 {
	return t * t * (3 - 2*t)
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Value2D samples value noise at (x, y): the four integer corners of the
// containing unit cell are hashed, the fractional part is smoothstepped,
// and the four corner values are bilinearly interpolated.
func Value2D(x, y float64) float64 {
	x0 := int32(math.Floor(x))
	y0 := int32(math.Floor(y))
	x1 := x0 + 1
	y1 := y0 + 1

	fx := smoothstep(x - math.Floor(x))
	fy := smoothstep(y - math.Floor(y))

	v00 := hash2D(x0, y0)
	v10 := hash2D(x1, y0)
	v01 := hash2D(x0, y1)
	v11 := hash2D(x1, y1)

	top := lerp(v00, v10, fx)
	bottom := lerp(v01, v11, fx)
	return lerp(top, bottom, fy)
}

// FBM sums octaves of Value2D at geometrically increasing frequency and
// decreasing amplitude, normalized by the total amplitude so the result
// stays within [0, 1] regardless of octave count.
func FBM(x, y float64, octaves int, lacunarity, gain float64) float64 {
	if octaves <= 0 {
		octaves = 1
	}
	var sum, amplitude, frequency, total float64
	amplitude = 1
	frequency = 1
	for i := 0; i < octaves; i++ {
		sum += amplitude * Value2D(x*frequency, y*frequency)
		total += amplitude
		amplitude *= gain
		frequency *= lacunarity
	}
	if total == 0 {
		return 0
	}
	return sum / total
}

// Batch4 computes Value2D for four (x, y) coordinate pairs at once. It is a
// reference implementation of a SIMD-style batch lane: the scalar loop below
// is written to make the lane independence explicit (no cross-lane state),
// which is what an actual SIMD port would need to preserve. Results are
// bit-identical to four separate Value2D calls.
func Batch4(xs, ys [4]float64) [4]float64 {
	var out [4]float64
	for lane := 0; lane < 4; lane++ {
		out[lane] = Value2D(xs[lane], ys[lane])
	}
	return out
}

// FBMBatch4 is the batch-of-4 counterpart to FBM, used by world generation
// phases that sample four neighboring cells together.
func FBMBatch4(xs, ys [4]float64, octaves int, lacunarity, gain float64) [4]float64 {
	var out [4]float64
	for lane := 0; lane < 4; lane++ {
		out[lane] = FBM(xs[lane], ys[lane], octaves, lacunarity, gain)
	}
	return out
}

// RadialFalloff returns the continent-shaping falloff term for normalized
// distance d from the map center (world generation phase 2 subtracts this
// from the raw continent noise so landmasses are biased toward the center).
func RadialFalloff(d float64) float64 {
	return d
}
