package worldgen

import (
	"math"

	"github.com/rogueforge/simcore/pkg/arena"
	"github.com/rogueforge/simcore/pkg/noise"
	"github.com/rogueforge/simcore/pkg/rng"
	"github.com/rogueforge/simcore/pkg/tilemap"
)

// runLocalTerrain implements spec.md §4.5 Phase 4's perturbation step:
// grass/forest transitions and mountain downgrades driven by local fbm
// noise at fixed coordinate offsets. It draws no RNG (a pure noise function
// of position); the cave, lava and ore passes below draw from ctx.Micro.
func runLocalTerrain(cfg *Config, m *tilemap.TileMap) {
	w, h := cfg.Width, cfg.Height
	oct := cfg.NoiseOctaves
	if oct <= 0 {
		oct = 4
	}
	lac := cfg.NoiseLacunarity
	if lac <= 0 {
		lac = 2.0
	}
	gain := cfg.NoiseGain
	if gain <= 0 {
		gain = 0.5
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			t := m.Get(x, y)
			if t == tilemap.Grass || t == tilemap.Forest {
				n := noise.FBM(float64(x+13)*0.15, float64(y+7)*0.15, oct, lac, gain)
				if n > 0.55 && t == tilemap.Grass {
					m.Set(x, y, tilemap.Forest)
				} else if n < -0.15 && t == tilemap.Forest {
					m.Set(x, y, tilemap.Grass)
				}
			}
			if m.Get(x, y) == tilemap.Mountain {
				n2 := noise.FBM(float64(x+5)*0.21, float64(y+11)*0.21, oct, lac, gain)
				if n2 > 0.65 {
					m.Set(x, y, tilemap.Grass)
				}
			}
		}
	}
}

// runCaves implements spec.md §4.5 Phase 4's cave generation: seeded fill
// under mountains, cellular automaton with the stricter 5/6 neighbor rule,
// and an openness post-pass capping floor ratio at 0.74. Scratch generation
// buffers are bump-allocated per call via pkg/arena, mirroring the
// reference implementation's single-frame scratch allocation.
func runCaves(cfg *Config, ctx *rng.WorldGenContext, m *tilemap.TileMap) {
	w, h := cfg.Width, cfg.Height
	count := w * h

	frame := arena.New[byte](count * 2)
	cur, _ := frame.Alloc(count)
	next, _ := frame.Alloc(count)

	fill := cfg.CaveFillChance
	if fill <= 0 {
		fill = 0.45
	}
	fill += 0.10
	if fill > 0.90 {
		fill = 0.90
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			idx := y*w + x
			if m.Get(x, y) == tilemap.Mountain && ctx.Micro.Float64() < fill {
				cur[idx] = 1
			} else {
				cur[idx] = 0
			}
		}
	}

	iters := cfg.CaveIterations
	if iters <= 0 {
		iters = 3
	}
	for it := 0; it < iters; it++ {
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				idx := y*w + x
				wallNeighbors := 0
				for oy := -1; oy <= 1; oy++ {
					for ox := -1; ox <= 1; ox++ {
						if ox == 0 && oy == 0 {
							continue
						}
						nx, ny := x+ox, y+oy
						if nx < 0 || ny < 0 || nx >= w || ny >= h {
							wallNeighbors++
							continue
						}
						if cur[ny*w+nx] != 0 {
							wallNeighbors++
						}
					}
				}
				// Stricter-than-classic 5/6 rule (spec.md §9 explicitly
				// retains this over the "classic 4/5" comment in source).
				var nv byte
				if cur[idx] != 0 {
					if wallNeighbors >= 5 {
						nv = 1
					}
				} else if wallNeighbors >= 6 {
					nv = 1
				}
				next[idx] = nv
			}
		}
		cur, next = next, cur
	}

	wallCount, floorCount := 0, 0
	for i := 0; i < count; i++ {
		x, y := i%w, i/w
		if cur[i] != 0 {
			m.Set(x, y, tilemap.CaveWall)
			wallCount++
		} else if m.Get(x, y) == tilemap.Mountain {
			m.Set(x, y, tilemap.CaveFloor)
			floorCount++
		}
	}

	if wallCount+floorCount > 0 {
		open := float64(floorCount) / float64(wallCount+floorCount)
		// Triggered above 0.75; once triggered, floor is walled until the
		// openness is at most 0.74.
		limit := 0.75
		for open > limit {
			limit = 0.74
			targetBatch := int((open - 0.74) * float64(wallCount+floorCount))
			if targetBatch < 1 {
				targetBatch = 1
			}
			if targetBatch > wallCount+floorCount {
				break
			}
			for attempt := 0; attempt < targetBatch; attempt++ {
				idx := ctx.Micro.Intn(count)
				x, y := idx%w, idx/w
				if m.Get(x, y) == tilemap.CaveFloor {
					m.Set(x, y, tilemap.CaveWall)
					floorCount--
					wallCount++
				}
			}
			open = float64(floorCount) / float64(wallCount+floorCount)
		}
	}
}

// runLavaPockets implements spec.md §4.5 Phase 4's lava pocket placement:
// up to targetPockets attempts, each carving a radius-1..3 disc of Lava
// centered on a random CaveFloor cell.
func runLavaPockets(cfg *Config, ctx *rng.WorldGenContext, m *tilemap.TileMap) {
	w, h := cfg.Width, cfg.Height
	target := cfg.TargetPockets
	if target <= 0 {
		return
	}
	placed, attempts := 0, 0
	for placed < target && attempts < target*20 {
		attempts++
		x := ctx.Micro.IntRange(1, w-2)
		y := ctx.Micro.IntRange(1, h-2)
		if m.Get(x, y) != tilemap.CaveFloor {
			continue
		}
		radius := ctx.Micro.IntRange(1, 3)
		for oy := -radius; oy <= radius; oy++ {
			for ox := -radius; ox <= radius; ox++ {
				nx, ny := x+ox, y+oy
				d := math.Hypot(float64(ox), float64(oy))
				if d <= float64(radius) && m.Get(nx, ny) == tilemap.CaveFloor {
					m.Set(nx, ny, tilemap.Lava)
				}
			}
		}
		placed++
	}
}

// runOreVeins implements spec.md §4.5 Phase 4's ore vein carving: a random
// walk from a CaveWall seed, turning with probability 0.3 per step, for
// veinLen total steps.
func runOreVeins(cfg *Config, ctx *rng.WorldGenContext, m *tilemap.TileMap, targetVeins int) {
	w, h := cfg.Width, cfg.Height
	veinLen := cfg.VeinLength
	if targetVeins <= 0 || veinLen <= 0 {
		return
	}
	dx := [4]int{1, -1, 0, 0}
	dy := [4]int{0, 0, 1, -1}
	created, safety := 0, 0
	for created < targetVeins && safety < targetVeins*50 {
		safety++
		x := ctx.Micro.IntRange(0, w-1)
		y := ctx.Micro.IntRange(0, h-1)
		if m.Get(x, y) != tilemap.CaveWall {
			continue
		}
		dir := ctx.Micro.IntRange(0, 3)
		cx, cy := x, y
		for step := 0; step < veinLen; step++ {
			if m.Get(cx, cy) == tilemap.CaveWall {
				m.Set(cx, cy, tilemap.OreVein)
			}
			if ctx.Micro.Float64() < 0.3 {
				dir = ctx.Micro.IntRange(0, 3)
			}
			cx += dx[dir]
			cy += dy[dir]
			if cx < 0 || cy < 0 || cx >= w || cy >= h {
				break
			}
		}
		created++
	}
}
