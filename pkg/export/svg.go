package export

import (
	"bytes"
	"fmt"
	"os"

	svg "github.com/ajstarks/svgo"

	"github.com/rogueforge/simcore/pkg/tilemap"
	"github.com/rogueforge/simcore/pkg/worldgen"
)

// SVGOptions configures world visualization export.
type SVGOptions struct {
	Width        int    // Canvas width in pixels
	Height       int    // Canvas height in pixels
	ShowStructures bool // Overlay structure bounding boxes
	ShowResources  bool // Overlay resource node markers
	ShowLegend   bool   // Show legend explaining tile colors
	ShowStats    bool   // Show world statistics
	Title        string // Optional title for the visualization
}

// DefaultSVGOptions returns sensible default SVG export options.
func DefaultSVGOptions() SVGOptions {
	return SVGOptions{
		Width:          1024,
		Height:         768,
		ShowStructures: true,
		ShowResources:  true,
		ShowLegend:     true,
		ShowStats:      true,
		Title:          "World",
	}
}

// ExportSVG renders a raster visualization of the world's tile map, with
// optional structure and resource overlays, title, and legend.
func ExportSVG(world *worldgen.World, opts SVGOptions) ([]byte, error) {
	if world == nil {
		return nil, fmt.Errorf("export: world cannot be nil")
	}
	if world.Tiles == nil {
		return nil, fmt.Errorf("export: world has no tile map")
	}
	if opts.Width <= 0 {
		opts.Width = 1024
	}
	if opts.Height <= 0 {
		opts.Height = 768
	}

	buf := new(bytes.Buffer)
	canvas := svg.New(buf)
	canvas.Start(opts.Width, opts.Height)
	canvas.Rect(0, 0, opts.Width, opts.Height, "fill:#0f0f1a")

	headerHeight := 0
	if opts.Title != "" || opts.ShowStats {
		headerHeight = drawWorldHeader(canvas, world, opts)
	}

	legendWidth := 0
	if opts.ShowLegend {
		legendWidth = 160
	}

	mapWidth := opts.Width - legendWidth
	mapHeight := opts.Height - headerHeight
	drawTileGrid(canvas, world.Tiles, mapWidth, mapHeight, headerHeight)

	cellW := float64(mapWidth) / float64(world.Tiles.Width)
	cellH := float64(mapHeight) / float64(world.Tiles.Height)

	if opts.ShowStructures {
		drawStructures(canvas, world.Structures, cellW, cellH, headerHeight)
	}
	if opts.ShowResources {
		drawResources(canvas, world.Resources, cellW, cellH, headerHeight)
	}
	if opts.ShowLegend {
		drawTileLegend(canvas, opts.Width-legendWidth+10, headerHeight+10)
	}

	canvas.End()
	return buf.Bytes(), nil
}

// SaveSVGToFile generates an SVG visualization and saves it to a file.
// The file is created with 0644 permissions (readable by all, writable by owner).
func SaveSVGToFile(world *worldgen.World, filepath string, opts SVGOptions) error {
	data, err := ExportSVG(world, opts)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath, data, 0644)
}

func drawTileGrid(canvas *svg.SVG, tiles *tilemap.TileMap, mapWidth, mapHeight, yOffset int) {
	cellW := float64(mapWidth) / float64(tiles.Width)
	cellH := float64(mapHeight) / float64(tiles.Height)
	for y := 0; y < tiles.Height; y++ {
		for x := 0; x < tiles.Width; x++ {
			t := tiles.Get(x, y)
			px := int(float64(x) * cellW)
			py := yOffset + int(float64(y)*cellH)
			canvas.Rect(px, py, int(cellW)+1, int(cellH)+1, fmt.Sprintf("fill:%s", tileColor(t)))
		}
	}
}

func tileColor(t tilemap.Tile) string {
	switch t {
	case tilemap.Water:
		return "#1e3a8a"
	case tilemap.Grass:
		return "#4d7c3f"
	case tilemap.Forest:
		return "#1f4d2e"
	case tilemap.Mountain:
		return "#6b6b6b"
	case tilemap.Swamp:
		return "#4a5238"
	case tilemap.Snow:
		return "#e5e9f0"
	case tilemap.River, tilemap.RiverWide, tilemap.RiverDelta:
		return "#3b82f6"
	case tilemap.CaveWall:
		return "#3a3530"
	case tilemap.CaveFloor:
		return "#6e6257"
	case tilemap.Lava:
		return "#dc2626"
	case tilemap.OreVein:
		return "#b45309"
	case tilemap.StructureWall:
		return "#71717a"
	case tilemap.StructureFloor:
		return "#a1a1aa"
	case tilemap.DungeonFloor:
		return "#57534e"
	case tilemap.DungeonWall:
		return "#292524"
	case tilemap.DungeonLockedDoor:
		return "#ca8a04"
	case tilemap.DungeonKey:
		return "#fde047"
	case tilemap.DungeonTrap:
		return "#b91c1c"
	case tilemap.DungeonSecretDoor:
		return "#7c3aed"
	case tilemap.DungeonEntrance:
		return "#16a34a"
	default:
		return "#000000"
	}
}

func drawStructures(canvas *svg.SVG, structures []worldgen.StructurePlacement, cellW, cellH float64, yOffset int) {
	for _, s := range structures {
		px := int(float64(s.X) * cellW)
		py := yOffset + int(float64(s.Y)*cellH)
		w := int(float64(s.W) * cellW)
		h := int(float64(s.H) * cellH)
		canvas.Rect(px, py, w, h, "fill:none;stroke:#facc15;stroke-width:2")
		if s.HasEntrance {
			ex := int(float64(s.EntranceX) * cellW)
			ey := yOffset + int(float64(s.EntranceY)*cellH)
			canvas.Circle(ex, ey, 3, "fill:#16a34a")
		}
	}
}

func drawResources(canvas *svg.SVG, resources []worldgen.ResourceNode, cellW, cellH float64, yOffset int) {
	for _, r := range resources {
		cx := int(float64(r.X)*cellW + cellW/2)
		cy := yOffset + int(float64(r.Y)*cellH+cellH/2)
		color := "#e879f9"
		if r.Upgraded {
			color = "#f97316"
		}
		canvas.Circle(cx, cy, 2, fmt.Sprintf("fill:%s", color))
	}
}

func drawTileLegend(canvas *svg.SVG, x, y int) {
	canvas.Rect(x-10, y-10, 150, 300, "fill:#1e1e2e;stroke:#4a5568;stroke-width:1;opacity:0.95;rx:5")
	canvas.Text(x, y+5, "Legend", "font-size:13px;font-weight:bold;fill:#e2e8f0")
	entries := []struct {
		name  string
		color string
	}{
		{"Water", tileColor(tilemap.Water)},
		{"Grass", tileColor(tilemap.Grass)},
		{"Forest", tileColor(tilemap.Forest)},
		{"Mountain", tileColor(tilemap.Mountain)},
		{"Swamp", tileColor(tilemap.Swamp)},
		{"Snow", tileColor(tilemap.Snow)},
		{"River", tileColor(tilemap.River)},
		{"Cave floor", tileColor(tilemap.CaveFloor)},
		{"Lava", tileColor(tilemap.Lava)},
		{"Dungeon", tileColor(tilemap.DungeonFloor)},
	}
	ly := y + 25
	for _, e := range entries {
		canvas.Rect(x, ly-9, 12, 12, fmt.Sprintf("fill:%s", e.color))
		canvas.Text(x+18, ly, e.name, "font-size:11px;fill:#cbd5e0")
		ly += 18
	}
}

func drawWorldHeader(canvas *svg.SVG, world *worldgen.World, opts SVGOptions) int {
	headerY := 25
	if opts.Title != "" {
		canvas.Text(opts.Width/2, headerY, opts.Title,
			"text-anchor:middle;font-size:20px;font-weight:bold;fill:#e2e8f0;font-family:sans-serif")
		headerY += 25
	}
	if opts.ShowStats {
		stats := fmt.Sprintf("Seed: %d | %dx%d | Structures: %d | Resources: %d | Hash: %016x",
			world.Config.Seed, world.Tiles.Width, world.Tiles.Height,
			len(world.Structures), len(world.Resources), world.Hash)
		canvas.Text(opts.Width/2, headerY, stats,
			"text-anchor:middle;font-size:11px;fill:#a0aec0;font-family:monospace")
		headerY += 15
	}
	return headerY + 5
}
