package worldgen

import (
	"fmt"
	"math"

	"github.com/rogueforge/simcore/pkg/simerr"
)

// Curve evaluates a normalized progress value in [0,1] to an eased output
// in [0,1]. Phase 10 uses it to ramp weather intensity toward its target
// over a pattern's duration; Phase 8 uses it to scale spawn density with
// distance from the nearest hub.
type Curve interface {
	Evaluate(progress float64) float64
}

// LinearCurve passes progress through unchanged.
type LinearCurve struct{}

func (LinearCurve) Evaluate(progress float64) float64 { return clampUnit(progress) }

// SCurve is a logistic curve normalized to pass through (0,0) and (1,1),
// giving a slow start, fast middle, slow finish.
type SCurve struct {
	Steepness float64
}

// NewSCurve returns an SCurve with the steepness the reference
// implementation's pacing table uses for weather ramps.
func NewSCurve() SCurve { return SCurve{Steepness: 10.0} }

func (c SCurve) Evaluate(progress float64) float64 {
	progress = clampUnit(progress)
	k := c.Steepness
	if k == 0 {
		k = 10.0
	}
	sigmoid := 1.0 / (1.0 + math.Exp(-k*(progress-0.5)))
	minVal := 1.0 / (1.0 + math.Exp(k*0.5))
	maxVal := 1.0 / (1.0 + math.Exp(-k*0.5))
	return clampUnit((sigmoid - minVal) / (maxVal - minVal))
}

// ExponentialCurve gives a slow start with a rapid rise toward progress 1.
type ExponentialCurve struct {
	Exponent float64
}

func (c ExponentialCurve) Evaluate(progress float64) float64 {
	progress = clampUnit(progress)
	exp := c.Exponent
	if exp == 0 {
		exp = 2.0
	}
	return math.Pow(progress, exp)
}

// CustomCurve piecewise-linearly interpolates between sorted control points.
type CustomCurve struct {
	Points [][2]float64
}

// NewCustomCurve validates and returns a CustomCurve, failing with
// simerr.ErrInvalidArgument on fewer than two points, an out-of-range
// coordinate, or unsorted progress values.
func NewCustomCurve(points [][2]float64) (CustomCurve, error) {
	if len(points) < 2 {
		return CustomCurve{}, fmt.Errorf("worldgen: custom curve needs at least 2 points: %w", simerr.ErrInvalidArgument)
	}
	for i, p := range points {
		if p[0] < 0 || p[0] > 1 || p[1] < 0 || p[1] > 1 {
			return CustomCurve{}, fmt.Errorf("worldgen: custom curve point %d out of [0,1]: %w", i, simerr.ErrInvalidArgument)
		}
		if i > 0 && p[0] <= points[i-1][0] {
			return CustomCurve{}, fmt.Errorf("worldgen: custom curve points must be sorted by progress: %w", simerr.ErrInvalidArgument)
		}
	}
	return CustomCurve{Points: points}, nil
}

func (c CustomCurve) Evaluate(progress float64) float64 {
	progress = clampUnit(progress)
	pts := c.Points
	if len(pts) == 0 {
		return progress
	}
	if progress <= pts[0][0] {
		return pts[0][1]
	}
	last := pts[len(pts)-1]
	if progress >= last[0] {
		return last[1]
	}
	for i := 0; i < len(pts)-1; i++ {
		x0, y0 := pts[i][0], pts[i][1]
		x1, y1 := pts[i+1][0], pts[i+1][1]
		if progress >= x0 && progress <= x1 {
			t := (progress - x0) / (x1 - x0)
			return y0 + t*(y1-y0)
		}
	}
	return progress
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
