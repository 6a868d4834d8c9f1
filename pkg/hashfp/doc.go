// Package hashfp implements the core's hashing and fingerprinting primitives:
// an FNV-1a-variant tile map hash with an xorshift64* avalanche finalizer, a
// fold-based stat fingerprint that never reads raw struct memory, and the
// cache mixer used to accumulate equip-chain hashes.
package hashfp
