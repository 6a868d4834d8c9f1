package worldgen

import (
	"github.com/rogueforge/simcore/pkg/noise"
	"github.com/rogueforge/simcore/pkg/rng"
	"github.com/rogueforge/simcore/pkg/tilemap"
)

// runRiverWidening implements spec.md §4.5 Phase 5's widen/delta steps:
// river cells with local noise > 0.35 promote adjacent Water to RiverWide
// in a 3x3 cross; RiverWide cells with >=4 Water neighbors become
// RiverDelta. Non-RNG (pure noise function of position), matching the
// reference implementation's channel-free widening pass.
func runRiverWidening(m *tilemap.TileMap) {
	w, h := m.Width, m.Height
	snapshot := m.Clone()

	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			if snapshot.Get(x, y) != tilemap.River {
				continue
			}
			n := noise.FBM(float64(x)*0.12+7, float64(y)*0.12+11, 3, 2.0, 0.5)
			if n <= 0.35 {
				continue
			}
			for oy := -1; oy <= 1; oy++ {
				for ox := -1; ox <= 1; ox++ {
					if ox != 0 && oy != 0 {
						continue
					}
					nx, ny := x+ox, y+oy
					if nx < 0 || ny < 0 || nx >= w || ny >= h {
						continue
					}
					if m.Get(nx, ny) == tilemap.Water {
						m.Set(nx, ny, tilemap.RiverWide)
					}
				}
			}
		}
	}

	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			if m.Get(x, y) != tilemap.RiverWide {
				continue
			}
			water := m.CountNeighbors8(x, y, func(t tilemap.Tile) bool { return t == tilemap.Water })
			if water >= 4 {
				m.Set(x, y, tilemap.RiverDelta)
			}
		}
	}
}

// terrainElevationClass mirrors the reference implementation's heuristic
// elevation-by-tile-type scale used for erosion (mountain=3, forest/cave
// wall=2, grass/cave floor/swamp/snow=1, everything else=0).
func terrainElevationClass(t tilemap.Tile) byte {
	switch t {
	case tilemap.Mountain:
		return 3
	case tilemap.Forest, tilemap.CaveWall:
		return 2
	case tilemap.Grass, tilemap.CaveFloor, tilemap.Swamp, tilemap.Snow:
		return 1
	default:
		return 0
	}
}

// runErosion implements spec.md §4.5 Phase 5's thermal and hydraulic
// erosion passes, using the macro channel (matching the reference
// implementation's use of ctx->macro_rng here despite Phase 5 otherwise
// operating on already-written tiles).
func runErosion(ctx *rng.WorldGenContext, m *tilemap.TileMap, thermalPasses, hydraulicPasses int) {
	w, h := m.Width, m.Height
	count := w * h
	elev := make([]byte, count)
	for i := 0; i < count; i++ {
		x, y := i%w, i/w
		elev[i] = terrainElevationClass(m.Get(x, y))
	}

	for pass := 0; pass < thermalPasses; pass++ {
		for y := 1; y < h-1; y++ {
			for x := 1; x < w-1; x++ {
				idx := y*w + x
				e := elev[idx]
				if e <= 1 {
					continue
				}
				lower := 0
				for oy := -1; oy <= 1; oy++ {
					for ox := -1; ox <= 1; ox++ {
						if ox == 0 && oy == 0 {
							continue
						}
						if elev[(y+oy)*w+(x+ox)] < e {
							lower++
						}
					}
				}
				if lower >= 3 && ctx.Macro.Chance(0.35) {
					elev[idx]--
				}
			}
		}
	}

	for pass := 0; pass < hydraulicPasses; pass++ {
		for y := 1; y < h-1; y++ {
			for x := 1; x < w-1; x++ {
				idx := y*w + x
				e := elev[idx]
				for oy := -1; oy <= 1; oy++ {
					for ox := -1; ox <= 1; ox++ {
						if ox == 0 && oy == 0 {
							continue
						}
						nx, ny := x+ox, y+oy
						ne := elev[ny*w+nx]
						if e > ne+1 && ctx.Macro.Chance(0.20) {
							elev[idx]--
							if m.Get(x, y) == tilemap.River {
								m.Set(x, y, tilemap.RiverWide)
							}
						}
					}
				}
			}
		}
	}

	for i := 0; i < count; i++ {
		x, y := i%w, i/w
		t := m.Get(x, y)
		e := elev[i]
		if t == tilemap.Mountain && e < 3 {
			if e >= 2 {
				m.Set(x, y, tilemap.Forest)
			} else {
				m.Set(x, y, tilemap.Grass)
			}
		}
	}
}

// markBridgeHints implements spec.md §4.5 Phase 5's bridge-hint scan: a
// non-mutating count of contiguous horizontal Water runs of length within
// [minGap, maxGap], bounded by non-water on both sides.
func markBridgeHints(m *tilemap.TileMap, minGap, maxGap int) int {
	w, h := m.Width, m.Height
	if minGap < 2 {
		minGap = 2
	}
	if maxGap < minGap {
		maxGap = minGap
	}
	marked := 0
	for y := 1; y < h-1; y++ {
		x := 0
		for x < w {
			for x < w && m.Get(x, y) != tilemap.Water {
				x++
			}
			start := x
			for x < w && m.Get(x, y) == tilemap.Water {
				x++
			}
			end := x - 1
			if start > 0 && end < w-1 && end >= start {
				left, right := start-1, end+1
				if m.Get(left, y) != tilemap.Water && m.Get(right, y) != tilemap.Water {
					gap := end - start + 1
					if gap >= minGap && gap <= maxGap {
						marked++
					}
				}
			}
		}
	}
	return marked
}
