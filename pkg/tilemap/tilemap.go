package tilemap

import "fmt"

// TileMap is a row-major 2D grid of Tile bytes. Every cell holds a valid
// enumerator; out-of-bounds reads return the Empty sentinel without
// modifying state, and out-of-bounds writes are no-ops.
type TileMap struct {
	Width, Height int
	Tiles         []Tile
}

// Init allocates a width*height tile map, zero-initialized (every cell
// Empty). It returns an error if width or height is <= 0.
func Init(width, height int) (*TileMap, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("tilemap: invalid dimensions %dx%d", width, height)
	}
	return &TileMap{
		Width:  width,
		Height: height,
		Tiles:  make([]Tile, width*height),
	}, nil
}

// InBounds reports whether (x, y) addresses a real cell.
func (m *TileMap) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < m.Width && y < m.Height
}

// Get returns the tile at (x, y), or Empty if out of bounds.
func (m *TileMap) Get(x, y int) Tile {
	if !m.InBounds(x, y) {
		return Empty
	}
	return m.Tiles[y*m.Width+x]
}

// Set writes v at (x, y). Out-of-bounds coordinates are a silent no-op.
func (m *TileMap) Set(x, y int, v Tile) {
	if !m.InBounds(x, y) {
		return
	}
	m.Tiles[y*m.Width+x] = v
}

// Index returns the flat index for (x, y), assuming the caller has already
// validated bounds; used by hot pipeline loops that iterate every cell.
func (m *TileMap) Index(x, y int) int {
	return y*m.Width + x
}

// Fill sets every cell to v.
func (m *TileMap) Fill(v Tile) {
	for i := range m.Tiles {
		m.Tiles[i] = v
	}
}

// Clone returns a deep copy of the map.
func (m *TileMap) Clone() *TileMap {
	out := &TileMap{Width: m.Width, Height: m.Height, Tiles: make([]Tile, len(m.Tiles))}
	copy(out.Tiles, m.Tiles)
	return out
}

// Bytes returns the tile array as a plain byte slice for hashing, without
// copying backing memory beyond the necessary type conversion.
func (m *TileMap) Bytes() []byte {
	out := make([]byte, len(m.Tiles))
	for i, t := range m.Tiles {
		out[i] = byte(t)
	}
	return out
}

// CountNeighbors4 returns the number of 4-connected (orthogonal) neighbors of
// (x, y) whose tile is in the match set, out-of-bounds cells never match.
func (m *TileMap) CountNeighbors4(x, y int, match func(Tile) bool) int {
	count := 0
	deltas := [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	for _, d := range deltas {
		if m.InBounds(x+d[0], y+d[1]) && match(m.Get(x+d[0], y+d[1])) {
			count++
		}
	}
	return count
}

// CountNeighbors8 returns the number of 8-connected (including diagonal)
// neighbors of (x, y) whose tile is in the match set.
func (m *TileMap) CountNeighbors8(x, y int, match func(Tile) bool) int {
	count := 0
	for oy := -1; oy <= 1; oy++ {
		for ox := -1; ox <= 1; ox++ {
			if ox == 0 && oy == 0 {
				continue
			}
			if m.InBounds(x+ox, y+oy) && match(m.Get(x+ox, y+oy)) {
				count++
			}
		}
	}
	return count
}
