// Package loot implements item-instance spawning: the GUID-assigning
// constructor named but not specified by spec.md §3.2 ("created by spawn
// (assigns unique GUID)"), pinned down by SPEC_FULL as
// pkg/loot.Spawn(defIndex, def, rarity, itemLevel, ch) (ItemInstance, error).
package loot

import (
	"fmt"
	"sync/atomic"

	"github.com/rogueforge/simcore/pkg/rng"
	"github.com/rogueforge/simcore/pkg/simerr"
)

// MaxSockets is the hard ceiling on socket count regardless of a
// definition's own socket_max, per spec.md §3.1's invariant
// "sockets.count ∈ [def.socket_min, min(def.socket_max, 6)]".
const MaxSockets = 6

// Affix is a rolled prefix or suffix attachment.
type Affix struct {
	Index  int
	Value  int
	Locked bool
}

// Durability tracks an item instance's current wear state.
type Durability struct {
	Cur       int
	Max       int
	Fractured bool
}

// StoredAffix holds a single affix extracted by a transfer orb, pending
// application to a target item.
type StoredAffix struct {
	Index int
	Value int
	Used  bool
}

// ItemInstance is one live, GUID-identified item, per spec.md §3.1.
type ItemInstance struct {
	DefIndex     int
	Quantity     int
	PosX, PosY   float64
	Rarity       int
	ItemLevel    int
	Prefix       Affix
	Suffix       Affix
	Durability   Durability
	Sockets      []int // gem def index per socket, -1 if empty
	Quality      int   // 0..20
	StoredAffix  StoredAffix
	OwnerPlayer  int // -1 = unowned/shared
	GUID         uint64
	EquipHash    uint64
}

// ItemDef is the minimal subset of a definition table entry Spawn needs:
// the socket range and base durability. A full catalog is an external
// asset-loading concern, out of scope per spec.md §1.
type ItemDef struct {
	SocketMin      int
	SocketMax      int
	BaseDurability int
}

// guidCounter is the process-wide monotonic GUID source. 0 is reserved as
// "no instance" per the Open Question decision favoring a hand-rolled
// atomic.Uint64 counter over uuid.UUID (128-bit GUIDs would violate spec.md
// §3.1's 64-bit GUID field).
var guidCounter atomic.Uint64

func init() {
	guidCounter.Store(1)
}

// NextGUID returns the next monotonic GUID. Exposed so tests and save-load
// restoration can observe or fast-forward the counter without reaching into
// package internals.
func NextGUID() uint64 {
	return guidCounter.Add(1) - 1
}

// Budget returns the maximum combined prefix+suffix affix weight an item of
// the given level and rarity may carry, per spec.md §3.1's invariant
// "prefix_value + suffix_value ≤ budget(item_level, rarity)". Rarity 0
// (common) grants no affix budget at all.
func Budget(itemLevel, rarity int) int {
	if rarity <= 0 {
		return 0
	}
	base := 10 + itemLevel*3
	return base * rarity
}

// Spawn creates a new ItemInstance for def, rolling prefix/suffix values
// within Budget and a socket count within [def.SocketMin, min(def.SocketMax,
// MaxSockets)]. Affix slots are split evenly; any odd remainder favors the
// suffix. The instance is assigned the next monotonic GUID.
func Spawn(defIndex int, def ItemDef, rarity, itemLevel int, ch *rng.Channel) (ItemInstance, error) {
	if defIndex < 0 || itemLevel < 0 || rarity < 0 {
		return ItemInstance{}, fmt.Errorf("loot: spawn(%d, rarity=%d, level=%d): %w", defIndex, rarity, itemLevel, simerr.ErrInvalidArgument)
	}

	inst := ItemInstance{
		DefIndex:    defIndex,
		Quantity:    1,
		Rarity:      rarity,
		ItemLevel:   itemLevel,
		OwnerPlayer: -1,
		GUID:        NextGUID(),
	}
	inst.Prefix.Index, inst.Suffix.Index = -1, -1
	inst.StoredAffix.Index = -1

	budget := Budget(itemLevel, rarity)
	if budget > 0 {
		prefixCap := budget / 2
		suffixCap := budget - prefixCap
		if ch.Bool() {
			inst.Prefix.Index = 0
			inst.Prefix.Value = ch.IntRange(0, prefixCap)
		}
		if ch.Bool() {
			inst.Suffix.Index = 0
			inst.Suffix.Value = ch.IntRange(0, suffixCap)
		}
	}

	socketMin := def.SocketMin
	socketMax := def.SocketMax
	if socketMax > MaxSockets {
		socketMax = MaxSockets
	}
	if socketMin > socketMax {
		socketMin = socketMax
	}
	socketCount := socketMin
	if socketMax > socketMin {
		socketCount = ch.IntRange(socketMin, socketMax)
	}
	inst.Sockets = make([]int, socketCount)
	for i := range inst.Sockets {
		inst.Sockets[i] = -1
	}

	if def.BaseDurability > 0 {
		inst.Durability = Durability{Cur: def.BaseDurability, Max: def.BaseDurability}
	}

	return inst, nil
}

// TotalAffixWeight sums the item's current prefix and suffix values.
func (it *ItemInstance) TotalAffixWeight() int {
	return it.Prefix.Value + it.Suffix.Value
}

// ValidateBudget reports whether the instance is within its level/rarity
// budget.
func (it *ItemInstance) ValidateBudget() error {
	if it.TotalAffixWeight() > Budget(it.ItemLevel, it.Rarity) {
		return fmt.Errorf("loot: guid %d over budget: %w", it.GUID, simerr.ErrValidationFailed)
	}
	return nil
}
