// Package export serializes a generated World to on-disk artifact
// formats: JSON, an SVG raster visualization, and Tiled's TMJ map format.
//
// The package offers both formatted (indented) and compact export options
// to accommodate different use cases, from human-readable output to
// space-efficient storage.
package export
