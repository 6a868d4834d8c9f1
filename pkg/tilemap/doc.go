// Package tilemap implements the fixed-enumeration, bounds-checked 2D tile
// grid shared by every world generation phase, chunk, and dungeon layout in
// the simulation core.
package tilemap
