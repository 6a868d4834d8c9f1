package worldgen

import (
	"math"

	"github.com/rogueforge/simcore/pkg/noise"
	"github.com/rogueforge/simcore/pkg/rng"
	"github.com/rogueforge/simcore/pkg/tilemap"
)

// runMacroLayout implements spec.md §4.5 Phase 2: continent mask, adaptive
// land-ratio balancing, elevation/temperature/moisture fields, river
// tracing, biome classification, and continent counting. It consumes the
// macro and biome channels only.
func runMacroLayout(cfg *Config, ctx *rng.WorldGenContext, m *tilemap.TileMap, f *Fields) (continentCount int) {
	w, h := cfg.Width, cfg.Height
	total := w * h

	oct := cfg.NoiseOctaves
	if oct <= 0 {
		oct = 5
	}
	lac := cfg.NoiseLacunarity
	if lac <= 0 {
		lac = 2.0
	}
	gain := cfg.NoiseGain
	if gain <= 0 {
		gain = 0.5
	}
	threshold := cfg.WaterLevel
	if threshold <= 0 {
		threshold = 0.32
	}

	m.Fill(tilemap.Water)

	landCells := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			nx := float64(x)/float64(w) - 0.5
			ny := float64(y)/float64(h) - 0.5
			base := noise.FBM((nx+10.0)*1.7, (ny+5.0)*1.7, oct, lac, gain)
			dist := math.Sqrt(nx*nx + ny*ny)
			base -= noise.RadialFalloff(dist * 0.25)
			f.Continent[f.idx(x, y)] = base - threshold
			if f.Continent[f.idx(x, y)] >= 0 {
				landCells++
			}
		}
	}

	if landCells == 0 {
		cx, cy := w/2, h/2
		for oy := -4; oy <= 4; oy++ {
			for ox := -4; ox <= 4; ox++ {
				nx, ny := cx+ox, cy+oy
				if nx >= 0 && ny >= 0 && nx < w && ny < h {
					f.Continent[f.idx(nx, ny)] = 0.1
					landCells++
				}
			}
		}
	}

	// Adaptive balancing per spec.md §4.5 step 3: thresholds 0.25/0.65.
	if landCells < int(float64(total)*0.25) {
		needed := int(float64(total)*0.35) - landCells
		if needed < 0 {
			needed = 0
		}
		for pass := 0; pass < 2 && needed > 0; pass++ {
			for i := 0; i < total && needed > 0; i++ {
				v := f.Continent[i]
				if v < 0 && v > -0.18 {
					f.Continent[i] = 0.02
					needed--
					landCells++
				}
			}
		}
	} else if landCells > int(float64(total)*0.65) {
		excess := landCells - int(float64(total)*0.55)
		for i := 0; i < total && excess > 0; i++ {
			v := f.Continent[i]
			if v >= 0 && v < 0.15 {
				f.Continent[i] = -0.01
				excess--
				landCells--
			}
		}
	}

	// Elevation: amplified on land, damped on water.
	for i := 0; i < total; i++ {
		c := f.Continent[i]
		elevNoise := noise.FBM(float64(i)*0.0007+3.0, float64(i)*0.0003+7.0, oct, lac, gain)
		var elev float64
		if c > 0 {
			elev = elevNoise*0.6 + c*0.8
		} else {
			elev = elevNoise*0.6 + c*0.2
		}
		f.Elevation[i] = elev
	}
	minE, maxE := math.Inf(1), math.Inf(-1)
	for i := 0; i < total; i++ {
		if f.Elevation[i] < minE {
			minE = f.Elevation[i]
		}
		if f.Elevation[i] > maxE {
			maxE = f.Elevation[i]
		}
	}
	span := maxE - minE
	if span <= 0 {
		span = 1.0
	}
	for i := 0; i < total; i++ {
		if f.Continent[i] >= 0 {
			f.Elevation[i] = (f.Elevation[i] - minE) / span
		}
	}

	// Climate: temperature and moisture.
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			idx := f.idx(x, y)
			lat := float64(y) / float64(h)
			temp := 1.0 - math.Abs(lat-0.5)*2.0 - f.Elevation[idx]*0.4
			temp = clamp01(temp)
			f.Temperature[idx] = temp

			moist := noise.FBM(float64(x)*0.05+13.0, float64(y)*0.05+17.0, 3, 2.0, 0.5)
			f.Moisture[idx] = clamp01(moist)
		}
	}

	// River tracing: walk downhill from high peaks.
	desiredSources := cfg.RiverSources
	if desiredSources <= 0 {
		desiredSources = 8
	}
	maxSteps := cfg.RiverMaxLength
	if maxSteps <= 0 {
		maxSteps = h * 2
	}
	created := 0
	safety := 0
	for created < desiredSources && safety < desiredSources*20 {
		safety++
		rx := int(ctx.Macro.Float64() * float64(w))
		ry := int(ctx.Macro.Float64() * float64(h))
		if rx < 0 || ry < 0 || rx >= w || ry >= h {
			continue
		}
		idx := f.idx(rx, ry)
		if f.Continent[idx] < 0 || f.Elevation[idx] < 0.55 {
			continue
		}
		cx, cy := rx, ry
		prevE := f.Elevation[f.idx(cx, cy)]
		for steps := 0; steps < maxSteps; steps++ {
			m.Set(cx, cy, tilemap.River)
			if prevE < 0.05 {
				break
			}
			bestX, bestY, bestE := cx, cy, prevE
			for oy := -1; oy <= 1; oy++ {
				for ox := -1; ox <= 1; ox++ {
					if ox == 0 && oy == 0 {
						continue
					}
					nx, ny := cx+ox, cy+oy
					if nx < 0 || ny < 0 || nx >= w || ny >= h {
						continue
					}
					ne := f.Elevation[f.idx(nx, ny)]
					if ne < bestE {
						bestE, bestX, bestY = ne, nx, ny
					}
				}
			}
			if bestX == cx && bestY == cy {
				break
			}
			cx, cy, prevE = bestX, bestY, bestE
		}
		created++
	}

	// Biome classification, skipping river cells already written.
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			idx := f.idx(x, y)
			if m.Get(x, y) == tilemap.River {
				continue
			}
			elev := f.Elevation[idx]
			if f.Continent[idx] < 0 {
				elev = -1.0
			}
			tile, biome := classifyBiome(elev, f.Temperature[idx], f.Moisture[idx])
			m.Set(x, y, tile)
			f.Biomes[idx] = biome
		}
	}

	return countContinents(m)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// classifyBiome implements spec.md §4.5 step 8's threshold cascade.
func classifyBiome(elev, temp, moist float64) (tilemap.Tile, Biome) {
	if elev < 0 {
		return tilemap.Water, BiomeOcean
	}
	if elev > 0.65 {
		return tilemap.Mountain, BiomeMountain
	}
	if temp < 0.25 && elev > 0.4 {
		return tilemap.Snow, BiomeSnow
	}
	if moist > 0.75 && elev < 0.4 {
		return tilemap.Swamp, BiomeSwamp
	}
	if moist > 0.55 {
		return tilemap.Forest, BiomeForest
	}
	return tilemap.Grass, BiomePlains
}

// countContinents implements spec.md §4.5 step 9: 4-connected flood-fill
// over non-water/river tiles, excluding components smaller than 17 cells.
func countContinents(m *tilemap.TileMap) int {
	w, h := m.Width, m.Height
	visited := make([]bool, w*h)
	count := 0
	var stack []int
	isLand := func(t tilemap.Tile) bool {
		return t != tilemap.Water && t != tilemap.River && t != tilemap.RiverWide && t != tilemap.RiverDelta
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			idx := y*w + x
			if visited[idx] {
				continue
			}
			if !isLand(m.Get(x, y)) {
				visited[idx] = true
				continue
			}
			stack = stack[:0]
			stack = append(stack, idx)
			visited[idx] = true
			cells := 0
			for len(stack) > 0 {
				cur := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				cells++
				cx, cy := cur%w, cur/w
				deltas := [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
				for _, d := range deltas {
					nx, ny := cx+d[0], cy+d[1]
					if nx < 0 || ny < 0 || nx >= w || ny >= h {
						continue
					}
					nIdx := ny*w + nx
					if visited[nIdx] {
						continue
					}
					visited[nIdx] = true
					if isLand(m.Get(nx, ny)) {
						stack = append(stack, nIdx)
					}
				}
			}
			if cells > 16 {
				count++
			}
		}
	}
	return count
}
