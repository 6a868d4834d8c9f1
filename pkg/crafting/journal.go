// Package crafting implements the four independent crafting RNG streams
// from spec.md §4.1/§4.10 and the append-only journal whose running hash
// fingerprints every operation for replay verification.
package crafting

import (
	"fmt"

	"github.com/rogueforge/simcore/pkg/rng"
	"github.com/rogueforge/simcore/pkg/simerr"
)

// DefaultJournalCapacity matches ROGUE_CRAFT_JOURNAL_CAP.
const DefaultJournalCapacity = 4096

// fnvOffsetBasis32 is the 32-bit FNV-1a offset basis the journal's
// accumulator starts from, matching crafting_journal.c exactly (the journal
// uses 32-bit fields and a 32-bit accumulator, distinct from pkg/hashfp's
// 64-bit tile/fingerprint hashing).
const fnvOffsetBasis32 uint32 = 0x811C9DC5
const fnvPrime32 uint32 = 0x01000193

func fnv1aStep32(h, v uint32) uint32 {
	h ^= v
	h *= fnvPrime32
	return h
}

// Entry is one append-only journal record, per spec.md §3.1's Crafting
// Journal Entry.
type Entry struct {
	OpID        uint32
	ItemGUID    uint32
	PreBudget   uint32
	PostBudget  uint32
	RNGStreamID uint32
	OutcomeHash uint32
}

// Journal is an append-only log of up to capacity entries with a running
// FNV-1a accumulated hash over all six fields of every entry, per spec.md
// §4.10. It is never a package-level global; callers own an instance per
// session.
type Journal struct {
	entries  []Entry
	capacity int
	accum    uint32
}

// NewJournal allocates a Journal with the given capacity (DefaultJournalCapacity if <= 0).
func NewJournal(capacity int) *Journal {
	if capacity <= 0 {
		capacity = DefaultJournalCapacity
	}
	return &Journal{capacity: capacity, accum: fnvOffsetBasis32}
}

// Append records one crafting operation outcome, assigning op_id as the
// entry's position. Fails with ErrCapacityExhausted once the journal is
// full; the journal is never overwritten (no ring eviction — "append-only"
// per spec.md §4.10 means full-stop, not wraparound).
func (j *Journal) Append(itemGUID, preBudget, postBudget uint32, stream rng.CraftStream, outcomeHash uint32) (opID uint32, err error) {
	if len(j.entries) >= j.capacity {
		return 0, fmt.Errorf("crafting: journal append: %w", simerr.ErrCapacityExhausted)
	}
	e := Entry{
		OpID:        uint32(len(j.entries)),
		ItemGUID:    itemGUID,
		PreBudget:   preBudget,
		PostBudget:  postBudget,
		RNGStreamID: uint32(stream),
		OutcomeHash: outcomeHash,
	}
	j.entries = append(j.entries, e)
	h := j.accum
	h = fnv1aStep32(h, e.OpID)
	h = fnv1aStep32(h, e.ItemGUID)
	h = fnv1aStep32(h, e.PreBudget)
	h = fnv1aStep32(h, e.PostBudget)
	h = fnv1aStep32(h, e.RNGStreamID)
	h = fnv1aStep32(h, e.OutcomeHash)
	j.accum = h
	return e.OpID, nil
}

// Count returns the number of recorded entries.
func (j *Journal) Count() int { return len(j.entries) }

// At returns the entry at index, or (Entry{}, false) if out of range.
func (j *Journal) At(index int) (Entry, bool) {
	if index < 0 || index >= len(j.entries) {
		return Entry{}, false
	}
	return j.entries[index], true
}

// AccumulatedHash returns the running FNV-1a hash over every appended
// entry's six fields, in append order.
func (j *Journal) AccumulatedHash() uint32 { return j.accum }

// Reset clears every entry and reinitializes the accumulator to the FNV
// offset basis.
func (j *Journal) Reset() {
	j.entries = j.entries[:0]
	j.accum = fnvOffsetBasis32
}
