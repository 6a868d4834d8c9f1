// Package arena implements a transient bump-pointer allocator with
// frame-reset semantics, used for short-lived per-generation scratch buffers
// (world generation's macro-layout float fields, cave cellular-automaton
// buffers, and similar temporaries that never outlive one pipeline run).
//
// Individual frees are not supported: the whole arena is invalidated at once
// by Reset, which is intended to be called once per "frame" (here, once per
// pipeline invocation that uses the arena). Allocations obtained from a frame
// must not be retained past that frame's Reset.
package arena
