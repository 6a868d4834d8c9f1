package arena

import "fmt"

// Arena is a generic bump-pointer allocator over a fixed-capacity backing
// slice of T. Allocations never move and are never individually freed; call
// Reset to reclaim the whole buffer for the next frame.
type Arena[T any] struct {
	buf    []T
	offset int
}

// New creates an Arena with room for capacity elements of T.
func New[T any](capacity int) *Arena[T] {
	if capacity < 0 {
		capacity = 0
	}
	return &Arena[T]{buf: make([]T, capacity)}
}

// Reset reclaims the whole arena. Slices previously returned by Alloc must
// not be used after Reset; their backing memory may be overwritten by a
// later allocation.
func (a *Arena[T]) Reset() {
	var zero T
	for i := range a.buf[:a.offset] {
		a.buf[i] = zero
	}
	a.offset = 0
}

// Used reports how many elements are currently allocated.
func (a *Arena[T]) Used() int { return a.offset }

// Capacity reports the arena's total element capacity.
func (a *Arena[T]) Capacity() int { return len(a.buf) }

// Alloc reserves a zero-valued slice of n elements. Returns false if the
// arena does not have enough remaining capacity.
func (a *Arena[T]) Alloc(n int) ([]T, bool) {
	if n < 0 {
		return nil, false
	}
	end := a.offset + n
	if end > len(a.buf) {
		return nil, false
	}
	s := a.buf[a.offset:end:end]
	a.offset = end
	return s, true
}

// MustAlloc is Alloc but panics on exhaustion; used at call sites where the
// frame was deliberately sized to never fail.
func (a *Arena[T]) MustAlloc(n int) []T {
	s, ok := a.Alloc(n)
	if !ok {
		panic(fmt.Sprintf("arena: out of space allocating %d elements (used %d/%d)", n, a.Used(), a.Capacity()))
	}
	return s
}

// Frame groups the scratch arenas used by a single world-generation run so
// callers can reset every temporary buffer with one call when the frame
// ends. A Frame is not safe for concurrent use; callers needing parallel
// generation should construct one Frame per worker.
type Frame struct {
	Float32 *Arena[float32]
	Byte    *Arena[byte]
	Int32   *Arena[int32]
}

// NewFrame builds a Frame sized for a map of the given cell count: the
// float32 arena is sized to hold a handful of whole-map scratch fields
// (elevation, continent, temperature, moisture, ...), the byte arena for
// cellular-automaton double buffers, and the int32 arena for flood-fill
// queues.
func NewFrame(cellCount int) *Frame {
	return &Frame{
		Float32: New[float32](cellCount * 8),
		Byte:    New[byte](cellCount * 4),
		Int32:   New[int32](cellCount * 2),
	}
}

// Reset reclaims every arena owned by the frame.
func (f *Frame) Reset() {
	f.Float32.Reset()
	f.Byte.Reset()
	f.Int32.Reset()
}
