package worldgen

import (
	"github.com/rogueforge/simcore/pkg/rng"
	"github.com/rogueforge/simcore/pkg/tilemap"
)

// runDungeonGeneration implements spec.md §4.5 Phase 7 end to end: room
// layout, minimum-connectivity tree, loop edges, room tagging, carving,
// keys/locks, traps/secrets, and reachability validation. It draws only from
// the micro channel.
func runDungeonGeneration(ctx *rng.WorldGenContext, m *tilemap.TileMap, originX, originY, areaW, areaH int, cfg *Config) Dungeon {
	rooms := generateRooms(ctx, originX, originY, areaW, areaH, cfg.TargetRooms)
	if len(rooms) == 0 {
		return Dungeon{}
	}
	edges := buildConnectivityTree(rooms)
	edges = addLoopEdges(ctx, rooms, edges, cfg.LoopPercent)
	tagRooms(rooms, edges)

	carveDungeon(m, rooms, edges)

	keyLocks := placeKeysAndLocks(ctx, m, rooms)
	trapCount := placeTrapsAndSecrets(ctx, m, rooms, cfg.TargetTraps, 0.1)

	reachable := floodFillReachable(m, rooms)
	loopRatio := 0.0
	if len(edges) > 0 {
		loops := 0
		for _, e := range edges {
			if e.Loop {
				loops++
			}
		}
		loopRatio = float64(loops) / float64(len(edges))
	}

	return Dungeon{
		Rooms:     rooms,
		Edges:     edges,
		KeyLocks:  keyLocks,
		TrapCount: trapCount,
		LoopRatio: loopRatioOrZero(reachable, len(rooms), loopRatio),
	}
}

func loopRatioOrZero(reachableCount, total int, loopRatio float64) float64 {
	if reachableCount < total {
		return 0
	}
	return loopRatio
}

// generateRooms rejects overlapping axis-aligned rectangles until
// targetRooms are placed or the attempt budget (targetRooms*10) is spent.
func generateRooms(ctx *rng.WorldGenContext, originX, originY, areaW, areaH, targetRooms int) []Room {
	if targetRooms <= 0 {
		return nil
	}
	rooms := make([]Room, 0, targetRooms)
	attempts := targetRooms * 10
	for len(rooms) < targetRooms && attempts > 0 {
		attempts--
		w := ctx.Micro.IntRange(4, 10)
		h := ctx.Micro.IntRange(4, 9)
		if areaW-w-4 <= 0 || areaH-h-4 <= 0 {
			continue
		}
		x := originX + ctx.Micro.IntRange(2, areaW-w-2)
		y := originY + ctx.Micro.IntRange(2, areaH-h-2)
		overlap := false
		for _, r := range rooms {
			if !(x+w <= r.X || r.X+r.W <= x || y+h <= r.Y || r.Y+r.H <= y) {
				overlap = true
				break
			}
		}
		if overlap {
			continue
		}
		rooms = append(rooms, Room{X: x, Y: y, W: w, H: h})
	}
	return rooms
}

// buildConnectivityTree builds a minimum connectivity tree via repeated
// nearest-neighbor selection from the connected set (room 0 seeds it).
func buildConnectivityTree(rooms []Room) []Edge {
	n := len(rooms)
	connected := make([]bool, n)
	connected[0] = true
	connectedCount := 1
	var edges []Edge
	for connectedCount < n {
		bestA, bestB, bestD := -1, -1, int(^uint(0)>>1)
		for a := 0; a < n; a++ {
			if !connected[a] {
				continue
			}
			for b := 0; b < n; b++ {
				if connected[b] {
					continue
				}
				dx := rooms[a].CenterX() - rooms[b].CenterX()
				dy := rooms[a].CenterY() - rooms[b].CenterY()
				d := dx*dx + dy*dy
				if d < bestD {
					bestD, bestA, bestB = d, a, b
				}
			}
		}
		if bestA < 0 {
			break
		}
		edges = append(edges, Edge{A: bestA, B: bestB})
		connected[bestB] = true
		connectedCount++
	}
	return edges
}

// addLoopEdges adds extra non-duplicate edges until loopPercent of the tree
// size is reached, per spec.md §4.5 Phase 7.
func addLoopEdges(ctx *rng.WorldGenContext, rooms []Room, edges []Edge, loopPercent float64) []Edge {
	n := len(rooms)
	if loopPercent < 0 {
		loopPercent = 0
	}
	if loopPercent > 100 {
		loopPercent = 100
	}
	desiredLoops := int(float64(n) * loopPercent / 100.0)
	loops := 0
	loopAttempts := n * 5
	for loops < desiredLoops && loopAttempts > 0 {
		loopAttempts--
		a := ctx.Micro.IntRange(0, n-1)
		b := ctx.Micro.IntRange(0, n-1)
		if a == b {
			continue
		}
		dup := false
		for _, e := range edges {
			if (e.A == a && e.B == b) || (e.A == b && e.B == a) {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		edges = append(edges, Edge{A: a, B: b, Loop: true})
		loops++
	}
	return edges
}

// tagRooms implements spec.md §4.5 Phase 7's room tagging rules: largest
// room gets Treasure; up to 2 farthest rooms from room 0 get Elite;
// below-average-area degree-1 untagged rooms get Puzzle.
func tagRooms(rooms []Room, edges []Edge) {
	if len(rooms) == 0 {
		return
	}
	largest, largestArea := -1, 0
	for i, r := range rooms {
		if a := r.Area(); a > largestArea {
			largestArea, largest = a, i
		}
	}
	if largest >= 0 {
		rooms[largest].Tags |= RoomTagTreasure
	}

	startCX, startCY := rooms[0].CenterX(), rooms[0].CenterY()
	for pass := 0; pass < 2; pass++ {
		best, bestD := -1, -1
		for i := 1; i < len(rooms); i++ {
			if rooms[i].Tags&RoomTagElite != 0 {
				continue
			}
			dx := rooms[i].CenterX() - startCX
			dy := rooms[i].CenterY() - startCY
			d := dx*dx + dy*dy
			if d > bestD {
				bestD, best = d, i
			}
		}
		if best > 0 {
			rooms[best].Tags |= RoomTagElite
		}
	}

	degree := make([]int, len(rooms))
	areaSum := 0
	for i, e := range edges {
		degree[e.A]++
		degree[e.B]++
		_ = i
	}
	for _, r := range rooms {
		areaSum += r.Area()
	}
	avgArea := 0
	if len(rooms) > 0 {
		avgArea = areaSum / len(rooms)
	}
	for i := 1; i < len(rooms); i++ {
		rooms[i].Degree = degree[i]
		if rooms[i].Area() < avgArea && degree[i] == 1 && rooms[i].Tags&(RoomTagTreasure|RoomTagElite) == 0 {
			rooms[i].Tags |= RoomTagPuzzle
		}
	}
}

// carveDungeon writes room borders/interiors and L-shaped corridors between
// connected room centers, never overwriting DungeonWall cells.
func carveDungeon(m *tilemap.TileMap, rooms []Room, edges []Edge) {
	for _, r := range rooms {
		for y := r.Y; y < r.Y+r.H; y++ {
			for x := r.X; x < r.X+r.W; x++ {
				if x == r.X || y == r.Y || x == r.X+r.W-1 || y == r.Y+r.H-1 {
					m.Set(x, y, tilemap.DungeonWall)
				} else {
					m.Set(x, y, tilemap.DungeonFloor)
				}
			}
		}
	}
	for _, e := range edges {
		a, b := rooms[e.A], rooms[e.B]
		ax, ay := a.CenterX(), a.CenterY()
		bx, by := b.CenterX(), b.CenterY()
		x, y := ax, ay
		for x != bx {
			if m.Get(x, y) != tilemap.DungeonWall {
				m.Set(x, y, tilemap.DungeonFloor)
			}
			if bx > ax {
				x++
			} else {
				x--
			}
		}
		for y != by {
			if m.Get(x, y) != tilemap.DungeonWall {
				m.Set(x, y, tilemap.DungeonFloor)
			}
			if by > ay {
				y++
			} else {
				y--
			}
		}
	}
}

// placeKeysAndLocks implements spec.md §4.5 Phase 7's key/lock rule: for up
// to room_count/4 rooms beyond the first, with probability 0.25, place a
// LockedDoor at the room's top-center and a Key in an earlier room's center.
func placeKeysAndLocks(ctx *rng.WorldGenContext, m *tilemap.TileMap, rooms []Room) []KeyLock {
	roomsForLocks := len(rooms) / 4
	locked := 0
	var out []KeyLock
	for i := 1; i < len(rooms) && locked < roomsForLocks; i++ {
		if !ctx.Micro.Chance(0.25) {
			continue
		}
		doorX, doorY := rooms[i].CenterX(), rooms[i].Y
		m.Set(doorX, doorY, tilemap.DungeonLockedDoor)
		keyRoom := ctx.Micro.Intn(i)
		kr := rooms[keyRoom]
		m.Set(kr.CenterX(), kr.CenterY(), tilemap.DungeonKey)
		out = append(out, KeyLock{KeyRoom: keyRoom, DoorX: doorX, DoorY: doorY, DoorRoom: i})
		locked++
	}
	return out
}

// placeTrapsAndSecrets implements spec.md §4.5 Phase 7's secret-door and
// trap placement.
func placeTrapsAndSecrets(ctx *rng.WorldGenContext, m *tilemap.TileMap, rooms []Room, targetTraps int, secretChance float64) int {
	if secretChance < 0 {
		secretChance = 0
	}
	if secretChance > 1 {
		secretChance = 1
	}
	traps := 0
	for i := range rooms {
		r := &rooms[i]
		if ctx.Micro.Chance(secretChance) && r.Tags&RoomTagSecret == 0 {
			r.Tags |= RoomTagSecret
			m.Set(r.X, r.CenterY(), tilemap.DungeonSecretDoor)
		}
		if traps < targetTraps {
			tx := r.X + 1 + ctx.Micro.Intn(maxInt(1, r.W-2))
			ty := r.Y + 1 + ctx.Micro.Intn(maxInt(1, r.H-2))
			if m.Get(tx, ty) == tilemap.DungeonFloor {
				m.Set(tx, ty, tilemap.DungeonTrap)
				traps++
			}
		}
	}
	return traps
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// floodFillReachable returns the set of room indices reachable from room 0
// via DungeonFloor/DungeonLockedDoor/DungeonKey/DungeonTrap/DungeonSecretDoor/
// DungeonEntrance connectivity, used by Phase 7's reachability validation.
func floodFillReachable(m *tilemap.TileMap, rooms []Room) map[int]bool {
	reachable := map[int]bool{}
	if len(rooms) == 0 {
		return reachable
	}
	walkable := func(t tilemap.Tile) bool {
		switch t {
		case tilemap.DungeonFloor, tilemap.DungeonLockedDoor, tilemap.DungeonKey, tilemap.DungeonTrap, tilemap.DungeonSecretDoor, tilemap.DungeonEntrance:
			return true
		default:
			return false
		}
	}
	start := rooms[0]
	startX, startY := start.CenterX(), start.CenterY()
	visited := make(map[int]bool)
	var stack []int
	startIdx := m.Index(startX, startY)
	stack = append(stack, startIdx)
	visited[startIdx] = true
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		cx, cy := cur%m.Width, cur/m.Width
		for ri, r := range rooms {
			if cx >= r.X && cx < r.X+r.W && cy >= r.Y && cy < r.Y+r.H {
				reachable[ri] = true
			}
		}
		deltas := [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
		for _, d := range deltas {
			nx, ny := cx+d[0], cy+d[1]
			if !m.InBounds(nx, ny) {
				continue
			}
			nIdx := m.Index(nx, ny)
			if visited[nIdx] {
				continue
			}
			if walkable(m.Get(nx, ny)) {
				visited[nIdx] = true
				stack = append(stack, nIdx)
			}
		}
	}
	return reachable
}
