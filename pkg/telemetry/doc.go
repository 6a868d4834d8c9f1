// Package telemetry collects world generation metrics (land/water/river
// counts and ratios), flags anomalies against expected ranges, and exports
// biome heatmap data for external visualization.
package telemetry
