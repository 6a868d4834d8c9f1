// Package worldgen implements the deterministic ten-phase world generation
// pipeline: macro layout and biome classification, local terrain and caves,
// rivers and erosion, structures, dungeon generation, spawn ecology,
// resource nodes, and weather. Every phase is a pure function of (config,
// context); phases never consume RNG from a channel not documented for
// them, so re-running with the same seed reproduces the same tile map and
// auxiliary data bit-for-bit.
package worldgen
