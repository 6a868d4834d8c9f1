package worldgen

// FlowField is the data shape spec.md §3.1 lists as an external
// collaborator contract: a precomputed distance and step-direction field
// toward a target cell, consumed by an AI/pathing layer this module does
// not own. It intentionally carries no Dijkstra (or any other) solver —
// building one would cross the Non-goal excluding pathfinding.
type FlowField struct {
	Width, Height int
	Dist          []float32
	DirX, DirY    []int8
	TargetX       int
	TargetY       int
}

// NewFlowField allocates a FlowField sized for width*height cells, with
// every distance unreachable (+Inf) and every direction zeroed, ready for
// an external solver to populate.
func NewFlowField(width, height, targetX, targetY int) *FlowField {
	n := width * height
	ff := &FlowField{
		Width:   width,
		Height:  height,
		Dist:    make([]float32, n),
		DirX:    make([]int8, n),
		DirY:    make([]int8, n),
		TargetX: targetX,
		TargetY: targetY,
	}
	for i := range ff.Dist {
		ff.Dist[i] = float32(inf)
	}
	return ff
}

const inf = 1e30

// Step returns the recommended cardinal step from (x,y) toward the
// target, or (0,0,false) if out of bounds or unreachable.
func (ff *FlowField) Step(x, y int) (dx, dy int8, ok bool) {
	if x < 0 || y < 0 || x >= ff.Width || y >= ff.Height {
		return 0, 0, false
	}
	idx := y*ff.Width + x
	if ff.Dist[idx] >= inf {
		return 0, 0, false
	}
	return ff.DirX[idx], ff.DirY[idx], true
}
