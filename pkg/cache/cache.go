// Package cache implements the three-level hot/warm/cold cache from
// spec.md §4.7: linear-probe-with-tombstones storage per level, promotion
// on cross-level hits, preload via loader callback, and simple RLE
// compression for large payloads.
package cache

import (
	"fmt"

	"github.com/c2h5oh/datasize"
	"github.com/rogueforge/simcore/pkg/simerr"
)

// Level identifies one of the three cache tiers.
type Level int

const (
	L1 Level = iota
	L2
	L3
	levelCount
)

func (l Level) String() string {
	switch l {
	case L1:
		return "L1"
	case L2:
		return "L2"
	case L3:
		return "L3"
	default:
		return "unknown"
	}
}

// Config sets per-level entry capacities and the compression threshold. A
// zero Config falls back to the documented defaults (L1=256, L2=512,
// L3=1024, CompressThreshold=1024 bytes).
type Config struct {
	L1Capacity        int
	L2Capacity        int
	L3Capacity        int
	CompressThreshold datasize.ByteSize
}

// DefaultConfig matches the C source's ROGUE_CACHE_* defaults.
func DefaultConfig() Config {
	return Config{L1Capacity: 256, L2Capacity: 512, L3Capacity: 1024, CompressThreshold: 1024 * datasize.B}
}

type entryState int

const (
	slotEmpty entryState = iota
	slotLive
	slotTombstone
)

type entry struct {
	state      entryState
	key        uint64
	data       []byte
	size       int
	version    uint32
	compressed bool
}

type level struct {
	table    []entry
	count    int
	capacity int

	hits         uint64
	misses       uint64
	evictions    uint64
	invalidations uint64
	promotions   uint64
}

// Stats is a point-in-time snapshot of per-level and aggregate counters,
// per spec.md §4.7's Stats operation.
type Stats struct {
	Capacity      [levelCount]int
	Entries       [levelCount]int
	Hits          [levelCount]uint64
	Misses        [levelCount]uint64
	Evictions     [levelCount]uint64
	Invalidations [levelCount]uint64
	Promotions    [levelCount]uint64

	CompressedEntries    uint64
	CompressedBytesSaved int64
	PreloadOperations    uint64
}

// Cache is the multi-level cache. Not safe for concurrent use without
// external synchronization, matching the teacher's single-writer model.
type Cache struct {
	levels            [levelCount]*level
	compressThreshold int

	compressedEntries    uint64
	compressedBytesSaved int64
	preloadOperations    uint64
}

// New builds a Cache from Config, defaulting zero fields.
func New(cfg Config) *Cache {
	if cfg.L1Capacity <= 0 {
		cfg.L1Capacity = 256
	}
	if cfg.L2Capacity <= 0 {
		cfg.L2Capacity = 512
	}
	if cfg.L3Capacity <= 0 {
		cfg.L3Capacity = 1024
	}
	if cfg.CompressThreshold == 0 {
		cfg.CompressThreshold = 1024 * datasize.B
	}
	c := &Cache{compressThreshold: int(cfg.CompressThreshold.Bytes())}
	c.levels[L1] = newLevel(cfg.L1Capacity)
	c.levels[L2] = newLevel(cfg.L2Capacity)
	c.levels[L3] = newLevel(cfg.L3Capacity)
	return c
}

func newLevel(capacity int) *level {
	return &level{table: make([]entry, nextPow2(capacity*2)), capacity: capacity}
}

// nextPow2 returns the smallest power of two >= n, per the Open Question
// decision to honor spec.md §4.7's "next power-of-two of capacity*2"
// literally rather than the C source's internal bucket-split constant.
func nextPow2(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// placementHint picks a default level for size when the caller supplies
// none, per spec.md §4.7.
func placementHint(size int) Level {
	switch {
	case size <= 256:
		return L1
	case size <= 4096:
		return L2
	default:
		return L3
	}
}

func (lv *level) find(key uint64) (idx int, found bool, firstTombstone int) {
	firstTombstone = -1
	mask := len(lv.table) - 1
	start := int(key) & mask
	for i := 0; i < len(lv.table); i++ {
		idx := (start + i) & mask
		switch lv.table[idx].state {
		case slotEmpty:
			return idx, false, firstTombstone
		case slotTombstone:
			if firstTombstone < 0 {
				firstTombstone = idx
			}
		case slotLive:
			if lv.table[idx].key == key {
				return idx, true, firstTombstone
			}
		}
	}
	return -1, false, firstTombstone
}

// Put inserts or updates an entry. levelHint selects the target tier; pass
// -1 to use the size-based placement hint.
func (c *Cache) Put(key uint64, data []byte, version uint32, levelHint Level) error {
	lvl := levelHint
	if lvl < L1 || lvl >= levelCount {
		lvl = placementHint(len(data))
	}
	lv := c.levels[lvl]

	idx, found, firstTombstone := lv.find(key)
	if found {
		lv.table[idx] = c.buildEntry(key, data, version)
		return nil
	}

	slot := idx
	if firstTombstone >= 0 {
		slot = firstTombstone
	} else if slot < 0 {
		return fmt.Errorf("cache: put level %s: %w", lvl, simerr.ErrCapacityExhausted)
	}

	if lv.count >= lv.capacity {
		evictIdx := -1
		for i := range lv.table {
			if lv.table[i].state == slotLive {
				evictIdx = i
				break
			}
		}
		if evictIdx < 0 {
			return fmt.Errorf("cache: put level %s: %w", lvl, simerr.ErrCapacityExhausted)
		}
		lv.table[evictIdx] = entry{state: slotTombstone}
		lv.count--
		lv.evictions++
	}

	lv.table[slot] = c.buildEntry(key, data, version)
	lv.count++
	return nil
}

func (c *Cache) buildEntry(key uint64, data []byte, version uint32) entry {
	e := entry{state: slotLive, key: key, size: len(data), version: version}
	if len(data) >= c.compressThreshold {
		if packed, ok := rleCompress(data); ok {
			e.data = packed
			e.compressed = true
			c.compressedEntries++
			c.compressedBytesSaved += int64(len(data) - len(packed))
		} else {
			e.data = append([]byte(nil), data...)
		}
	} else {
		e.data = append([]byte(nil), data...)
	}
	return e
}

// Get scans L1 through L3 in order. On a hit below L1 the entry is promoted
// into L1, per spec.md §4.7.
func (c *Cache) Get(key uint64) (data []byte, version uint32, ok bool) {
	for lvl := L1; lvl < levelCount; lvl++ {
		lv := c.levels[lvl]
		idx, found, _ := lv.find(key)
		if !found {
			lv.misses++
			continue
		}
		lv.hits++
		e := lv.table[idx]
		out := e.data
		if e.compressed {
			out = rleDecompress(e.data, e.size)
		}
		if lvl > L1 {
			lv.promotions++
			c.levels[L1].promotions++
			_ = c.Put(key, out, e.version, L1)
		}
		return out, e.version, true
	}
	return nil, 0, false
}

// Invalidate tombstones key across every level without reclaiming space
// immediately.
func (c *Cache) Invalidate(key uint64) {
	for lvl := L1; lvl < levelCount; lvl++ {
		lv := c.levels[lvl]
		idx, found, _ := lv.find(key)
		if !found {
			continue
		}
		lv.table[idx] = entry{state: slotTombstone}
		lv.count--
		lv.invalidations++
	}
}

// Loader produces the value for key during a Preload sweep.
type Loader func(key uint64) (data []byte, version uint32, err error)

// Preload bulk-inserts keys into target (L2 if target is out of range)
// using loader, stopping at the first loader error.
func (c *Cache) Preload(keys []uint64, target Level, loader Loader) error {
	if target < L1 || target >= levelCount {
		target = L2
	}
	for _, k := range keys {
		data, version, err := loader(k)
		if err != nil {
			return fmt.Errorf("cache: preload key %d: %w", k, err)
		}
		if err := c.Put(k, data, version, target); err != nil {
			return err
		}
		c.preloadOperations++
	}
	return nil
}

// Promote moves key toward L1 by one level, if present.
func (c *Cache) Promote(key uint64) {
	for lvl := L2; lvl < levelCount; lvl++ {
		lv := c.levels[lvl]
		idx, found, _ := lv.find(key)
		if !found {
			continue
		}
		e := lv.table[idx]
		out := e.data
		if e.compressed {
			out = rleDecompress(e.data, e.size)
		}
		target := lvl - 1
		lv.table[idx] = entry{state: slotTombstone}
		lv.count--
		lv.promotions++
		c.levels[target].promotions++
		_ = c.Put(key, out, e.version, target)
		return
	}
}

// Stats returns a snapshot of per-level and aggregate counters.
func (c *Cache) Stats() Stats {
	var s Stats
	for lvl := L1; lvl < levelCount; lvl++ {
		lv := c.levels[lvl]
		s.Capacity[lvl] = lv.capacity
		s.Entries[lvl] = lv.count
		s.Hits[lvl] = lv.hits
		s.Misses[lvl] = lv.misses
		s.Evictions[lvl] = lv.evictions
		s.Invalidations[lvl] = lv.invalidations
		s.Promotions[lvl] = lv.promotions
	}
	s.CompressedEntries = c.compressedEntries
	s.CompressedBytesSaved = c.compressedBytesSaved
	s.PreloadOperations = c.preloadOperations
	return s
}

// rleCompress encodes data as (byte, run-length<=255) pairs, rejecting the
// result unless it saves more than size/8 bytes (an output of size-size/8
// bytes or longer is rejected), per spec.md §4.7.
func rleCompress(data []byte) ([]byte, bool) {
	if len(data) == 0 {
		return nil, false
	}
	out := make([]byte, 0, len(data))
	i := 0
	for i < len(data) {
		run := byte(1)
		for i+int(run) < len(data) && data[i+int(run)] == data[i] && run < 255 {
			run++
		}
		out = append(out, data[i], run)
		i += int(run)
	}
	minSavings := len(data) / 8
	if len(out) >= len(data)-minSavings {
		return nil, false
	}
	return out, true
}

func rleDecompress(packed []byte, originalSize int) []byte {
	out := make([]byte, 0, originalSize)
	for i := 0; i+1 < len(packed); i += 2 {
		b, run := packed[i], packed[i+1]
		for r := byte(0); r < run; r++ {
			out = append(out, b)
		}
	}
	return out
}
