// Package rng provides the deterministic pseudo-random sources used across
// the simulation core.
//
// # Overview
//
// Two primitives cover every random decision in the core:
//
//   - Channel: a xorshift32 stream with explicit non-zero state, used for
//     per-context RNG (world generation's macro/biome/micro channels,
//     crafting's per-domain streams, chunk streaming's per-chunk derived
//     seed).
//   - LCGStep: a single linear-congruential step for one-off operation-local
//     seeds that do not need a persistent channel.
//
// # Determinism
//
// A World Gen Context owns three independent Channels (macro, biome, micro)
// derived from one master seed with distinct mixing constants, so intra-pipeline
// reordering of work assigned to one channel never perturbs another. Chunk and
// crafting seeds are derived with SeedDerive / CraftStreamSeed, both of which
// are pure functions of their inputs: identical inputs always reproduce
// identical seeds and therefore identical draws.
//
// # Thread Safety
//
// Channel is not safe for concurrent use. Callers that need independent
// streams across goroutines must construct one Channel per goroutine.
package rng
