// Package chunkstream implements the runtime chunk streaming manager from
// spec.md §4.6: an on-demand generation queue with a budget-per-tick drain,
// LRU eviction backed by an hashicorp/golang-lru set, and deterministic
// per-chunk tile generation derived from a shared world seed.
package chunkstream

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/rogueforge/simcore/pkg/hashfp"
	"github.com/rogueforge/simcore/pkg/noise"
	"github.com/rogueforge/simcore/pkg/rng"
	"github.com/rogueforge/simcore/pkg/simerr"
	"github.com/rogueforge/simcore/pkg/tilemap"
)

// maxQueue matches ROGUE_STREAM_MAX_QUEUE.
const maxQueue = 512

// ChunkSize is the fixed width/height of one generated chunk's tile map.
const ChunkSize = 32

// Coord identifies a chunk by its integer grid position.
type Coord struct{ CX, CY int }

// Chunk is one generated, cached world slice.
type Chunk struct {
	CX, CY         int
	Map            *tilemap.TileMap
	Hash           uint64
	LastAccessTick uint64
}

// Config mirrors the C source's (base_config, budget_per_tick, capacity,
// cache_dir?, persistent?) constructor tuple.
type Config struct {
	Seed           uint32
	BudgetPerTick  int
	Capacity       int
	CacheDir       string
	Persistent     bool
}

// Stats tracks cache_hits/cache_misses/evictions per spec.md §4.6.
type Stats struct {
	CacheHits   uint64
	CacheMisses uint64
	Evictions   uint64
}

// Manager is the chunk stream manager. Not safe for concurrent use.
type Manager struct {
	cfg         Config
	entries     map[Coord]*Chunk
	recency     *lru.Cache[Coord, struct{}]
	queue       []Coord
	queuedSet   map[Coord]struct{}
	globalTick  uint64
	stats       Stats
	logger      *zap.Logger
}

// New constructs a Manager. capacity must be > 0.
func New(cfg Config, logger *zap.Logger) (*Manager, error) {
	if cfg.Capacity <= 0 {
		return nil, fmt.Errorf("chunkstream: new manager: %w", simerr.ErrInvalidArgument)
	}
	if cfg.BudgetPerTick <= 0 {
		cfg.BudgetPerTick = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	recency, err := lru.New[Coord, struct{}](cfg.Capacity)
	if err != nil {
		return nil, fmt.Errorf("chunkstream: new manager: %w", err)
	}
	return &Manager{
		cfg:       cfg,
		entries:   make(map[Coord]*Chunk, cfg.Capacity),
		recency:   recency,
		queuedSet: make(map[Coord]struct{}),
		logger:    logger,
	}, nil
}

func (m *Manager) enqueue(c Coord) bool {
	if _, ok := m.queuedSet[c]; ok {
		return true
	}
	if len(m.queue) >= maxQueue {
		return false
	}
	m.queue = append(m.queue, c)
	m.queuedSet[c] = struct{}{}
	return true
}

func (m *Manager) dequeue() (Coord, bool) {
	if len(m.queue) == 0 {
		return Coord{}, false
	}
	c := m.queue[0]
	m.queue = m.queue[1:]
	delete(m.queuedSet, c)
	return c, true
}

// Request asks for a chunk: a hit increments cache_hits and returns true;
// a miss increments cache_misses and enqueues generation, returning true
// unless the queue is full, per spec.md §4.6.
func (m *Manager) Request(cx, cy int) bool {
	c := Coord{cx, cy}
	if _, ok := m.entries[c]; ok {
		m.stats.CacheHits++
		return true
	}
	m.stats.CacheMisses++
	return m.enqueue(c)
}

// Get returns the chunk at (cx,cy) if loaded, updating its last-access
// tick on a hit.
func (m *Manager) Get(cx, cy int) (*Chunk, bool) {
	c := Coord{cx, cy}
	chunk, ok := m.entries[c]
	if !ok {
		return nil, false
	}
	chunk.LastAccessTick = m.globalTick
	m.recency.Add(c, struct{}{})
	return chunk, true
}

// lruEvictVictim returns the coordinate of the lowest-last-access-tick
// loaded chunk, per spec.md §4.6's "evict LRU (lowest last_access_tick)".
// m.recency's internal ordering is kept in lockstep with LastAccessTick by
// every Get and every Update insertion, so its tail is always the true
// minimum without an O(n) scan over m.entries.
func (m *Manager) lruEvictVictim() (Coord, bool) {
	victim, _, ok := m.recency.RemoveOldest()
	return victim, ok
}

// Update advances the global tick and processes up to BudgetPerTick queued
// requests: each allocates a chunk, evicting the LRU entry first if the
// cache is at capacity, then runs generation and records the access tick.
// Returns the number of chunks processed.
func (m *Manager) Update() int {
	m.globalTick++
	processed := 0
	for processed < m.cfg.BudgetPerTick {
		c, ok := m.dequeue()
		if !ok {
			break
		}
		if _, already := m.entries[c]; already {
			continue
		}
		if len(m.entries) >= m.cfg.Capacity {
			victim, ok := m.lruEvictVictim()
			if !ok {
				break
			}
			delete(m.entries, victim)
			m.stats.Evictions++
		}
		chunk, err := m.generate(c)
		if err != nil {
			m.logger.Warn("chunkstream: generation failed", zap.Int("cx", c.CX), zap.Int("cy", c.CY), zap.Error(err))
			continue
		}
		chunk.LastAccessTick = m.globalTick
		m.entries[c] = chunk
		m.recency.Add(c, struct{}{})
		processed++
	}
	return processed
}

// generate deterministically builds one chunk's tile map from the shared
// seed per-chunk-derived via rng.SeedDerive, matching the C source's "xor
// base seed with chunk coords to keep determinism & isolation" comment.
func (m *Manager) generate(c Coord) (*Chunk, error) {
	seed := rng.SeedDerive(m.cfg.Seed, int32(c.CX), int32(c.CY))
	tm, err := tilemap.Init(ChunkSize, ChunkSize)
	if err != nil {
		return nil, fmt.Errorf("chunkstream: generate chunk (%d,%d): %w", c.CX, c.CY, err)
	}
	for y := 0; y < ChunkSize; y++ {
		for x := 0; x < ChunkSize; x++ {
			wx := float64(c.CX*ChunkSize+x) * 0.05
			wy := float64(c.CY*ChunkSize+y) * 0.05
			sample := noise.FBM(wx+float64(seed%997), wy+float64(seed%991), 4, 2.0, 0.5)
			switch {
			case sample < 0.35:
				tm.Set(x, y, tilemap.Water)
			case sample > 0.72:
				tm.Set(x, y, tilemap.Mountain)
			default:
				tm.Set(x, y, tilemap.Grass)
			}
		}
	}
	return &Chunk{
		CX:   c.CX,
		CY:   c.CY,
		Map:  tm,
		Hash: hashfp.TileMapHash(tm.Bytes(), ChunkSize, ChunkSize),
	}, nil
}

// Stats returns a snapshot of the manager's counters.
func (m *Manager) Stats() Stats { return m.stats }

// LoadedCount returns the number of chunks currently resident.
func (m *Manager) LoadedCount() int { return len(m.entries) }
