package telemetry

import (
	"strings"

	"github.com/rogueforge/simcore/pkg/tilemap"
)

// Anomaly bit flags, per spec.md §4.13.
const (
	AnomalyLandRatioOutOfRange uint8 = 1 << iota
	AnomalyNoRivers
)

// Metrics is the result of one metrics_collect call.
type Metrics struct {
	LandCells  int
	WaterCells int
	RiverCells int
	TotalCells int
	LandRatio  float64
	Anomalies  uint8
}

// Collect counts land/water/river cells across m, computes the land ratio,
// and flags anomaly bits: bit 0 if the land ratio falls outside [0.30,
// 0.55], bit 1 if there are no river cells at all.
func Collect(m *tilemap.TileMap) Metrics {
	var met Metrics
	met.TotalCells = len(m.Tiles)
	for _, t := range m.Tiles {
		switch {
		case t == tilemap.River || t == tilemap.RiverWide || t == tilemap.RiverDelta:
			met.RiverCells++
		case t.IsWater():
			met.WaterCells++
		case t != tilemap.Empty:
			met.LandCells++
		}
	}
	if met.TotalCells > 0 {
		met.LandRatio = float64(met.LandCells) / float64(met.TotalCells)
	}
	if met.LandRatio < 0.30 || met.LandRatio > 0.55 {
		met.Anomalies |= AnomalyLandRatioOutOfRange
	}
	if met.RiverCells == 0 {
		met.Anomalies |= AnomalyNoRivers
	}
	return met
}

// anomalyNames maps each bit to its token, in ascending bit order.
var anomalyNames = []struct {
	bit  uint8
	name string
}{
	{AnomalyLandRatioOutOfRange, "land_ratio_out_of_range"},
	{AnomalyNoRivers, "no_rivers"},
}

// AnomalyList renders the set anomaly bits as a comma-separated token list,
// in ascending bit order. Returns "" if no bits are set.
func AnomalyList(anomalies uint8) string {
	var tokens []string
	for _, a := range anomalyNames {
		if anomalies&a.bit != 0 {
			tokens = append(tokens, a.name)
		}
	}
	return strings.Join(tokens, ",")
}

// ExportBiomeHeatmap copies tile bytes verbatim into dst, which must have
// capacity for at least len(m.Tiles) bytes. Returns the number of bytes
// written, or 0 if dst is too small.
func ExportBiomeHeatmap(m *tilemap.TileMap, dst []byte) int {
	if len(dst) < len(m.Tiles) {
		return 0
	}
	for i, t := range m.Tiles {
		dst[i] = byte(t)
	}
	return len(m.Tiles)
}
