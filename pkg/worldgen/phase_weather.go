package worldgen

import "github.com/rogueforge/simcore/pkg/rng"

// WeatherPatternDescriptor is one registrable weather pattern consulted by
// the Phase 10 simulation, per spec.md §4.5 / §4.14.
type WeatherPatternDescriptor struct {
	ID                         string
	BiomeMask                  uint32
	BaseWeight                 float64
	MinDurationTicks           int
	MaxDurationTicks           int
	IntensityMin, IntensityMax float64

	// EaseCurve shapes the ramp from zero to TargetIntensity over the
	// pattern's duration. Nil defaults to an SCurve, per the reference
	// implementation's smoothed pacing table.
	EaseCurve Curve
}

// WeatherRegistry holds the patterns consulted by runWeatherTick, held by
// value in caller code rather than as package-level state.
type WeatherRegistry struct {
	patterns []WeatherPatternDescriptor
}

// NewWeatherRegistry returns an empty registry.
func NewWeatherRegistry() *WeatherRegistry { return &WeatherRegistry{} }

// Register adds a pattern.
func (r *WeatherRegistry) Register(d WeatherPatternDescriptor) int {
	r.patterns = append(r.patterns, d)
	return len(r.patterns) - 1
}

// DefaultWeatherRegistry returns the baseline weather set grounded on the
// reference implementation's clear/rain/snow/fog pattern set.
func DefaultWeatherRegistry() *WeatherRegistry {
	r := NewWeatherRegistry()
	r.Register(WeatherPatternDescriptor{
		ID: "clear", BiomeMask: biomeBit(BiomePlains) | biomeBit(BiomeForest) | biomeBit(BiomeSwamp) | biomeBit(BiomeSnow) | biomeBit(BiomeMountain),
		BaseWeight: 5.0, MinDurationTicks: 200, MaxDurationTicks: 600, IntensityMin: 0, IntensityMax: 0.1,
	})
	r.Register(WeatherPatternDescriptor{
		ID: "rain", BiomeMask: biomeBit(BiomePlains) | biomeBit(BiomeForest) | biomeBit(BiomeSwamp),
		BaseWeight: 2.5, MinDurationTicks: 100, MaxDurationTicks: 300, IntensityMin: 0.3, IntensityMax: 0.9,
	})
	r.Register(WeatherPatternDescriptor{
		ID: "blizzard", BiomeMask: biomeBit(BiomeSnow) | biomeBit(BiomeMountain),
		BaseWeight: 1.5, MinDurationTicks: 80, MaxDurationTicks: 240, IntensityMin: 0.5, IntensityMax: 1.0,
	})
	r.Register(WeatherPatternDescriptor{
		ID: "fog", BiomeMask: biomeBit(BiomeSwamp) | biomeBit(BiomeForest),
		BaseWeight: 1.0, MinDurationTicks: 60, MaxDurationTicks: 180, IntensityMin: 0.2, IntensityMax: 0.6,
	})
	return r
}

func selectWeatherPattern(ctx *rng.WorldGenContext, registry *WeatherRegistry, biomeID Biome) int {
	if len(registry.patterns) == 0 {
		return -1
	}
	total := 0.0
	weights := make([]float64, len(registry.patterns))
	mask := uint32(1) << uint32(biomeID)
	for i, d := range registry.patterns {
		if d.BiomeMask&mask == 0 {
			continue
		}
		w := d.BaseWeight
		if w < 0 {
			w = 0
		}
		weights[i] = w
		total += w
	}
	if total == 0 {
		return -1
	}
	// macro channel, per the reference implementation's coarse scheduling
	// choice for pattern selection (distinct from the micro channel used for
	// intensity).
	r := ctx.Macro.Float64()
	acc := 0.0
	for i, w := range weights {
		acc += w / total
		if r <= acc {
			return i
		}
	}
	return len(registry.patterns) - 1
}

// newWeatherState returns a freshly initialized, inactive WeatherState.
func newWeatherState() WeatherState {
	return WeatherState{PatternIndex: -1}
}

// advanceWeather implements spec.md §4.14's tick loop: select a pattern when
// none is active, ease intensity toward the target along the pattern's
// EaseCurve as elapsed/duration progresses, and fade to zero target on the
// pattern's final tick. Returns the newly selected pattern index, or -1 if
// none changed this call.
func advanceWeather(ctx *rng.WorldGenContext, registry *WeatherRegistry, state *WeatherState, ticks int, biomeID Biome) int {
	if ticks <= 0 {
		ticks = 1
	}
	changed := -1
	for ticks > 0 {
		if state.RemainingTicks <= 0 || state.PatternIndex < 0 {
			p := selectWeatherPattern(ctx, registry, biomeID)
			if p < 0 {
				*state = newWeatherState()
				return changed
			}
			d := registry.patterns[p]
			span := d.MaxDurationTicks - d.MinDurationTicks + 1
			if span < 1 {
				span = 1
			}
			dur := d.MinDurationTicks + ctx.Macro.Intn(span)
			if dur < 1 {
				dur = 1
			}
			state.PatternIndex = p
			state.RemainingTicks = dur
			state.DurationTicks = dur
			state.Intensity = 0
			irange := d.IntensityMax - d.IntensityMin
			if irange < 0 {
				irange = 0
			}
			state.TargetIntensity = d.IntensityMin + ctx.Micro.Float64()*irange
			state.curve = d.EaseCurve
			if state.curve == nil {
				state.curve = NewSCurve()
			}
			changed = p
		}

		state.RemainingTicks--
		ticks--
		elapsed := state.DurationTicks - state.RemainingTicks
		progress := float64(elapsed) / float64(state.DurationTicks)
		state.Intensity = state.curve.Evaluate(progress) * state.TargetIntensity
		if state.RemainingTicks == 0 {
			state.TargetIntensity = 0
		}
	}
	return changed
}

// sampleWeatherLighting implements spec.md §4.14's lighting sample: ambient
// light dims up to 30% at full intensity, with a cold blue tint added back
// in proportion to intensity.
func sampleWeatherLighting(state *WeatherState) (r, g, b byte) {
	const base = 160.0
	factor := 1.0 - 0.3*state.Intensity
	if factor < 0.5 {
		factor = 0.5
	}
	val := byte(base * factor)
	return val, val, byte(float64(val) + 20*state.Intensity)
}

// weatherMovementFactor implements spec.md §4.14's movement penalty: up to
// 25% slower at full intensity, floored at 0.5x.
func weatherMovementFactor(state *WeatherState) float64 {
	slow := 1.0 - 0.25*state.Intensity
	if slow < 0.5 {
		slow = 0.5
	}
	return slow
}
