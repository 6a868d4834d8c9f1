// Package noise implements value noise and fractal Brownian motion (fbm)
// sampling for the world generation pipeline. An optional Batch4 entry point
// computes four lanes at once; it is a pure scalar reference implementation
// of a SIMD batch path, kept bit-identical to the single-sample path so
// determinism is never affected by which entry point a caller uses.
package noise
