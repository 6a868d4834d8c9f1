// Package inventory implements the fixed-capacity item-count ledger named
// as a capability contract in spec.md §9 — {get_count, consume, add, gold,
// spend_gold, roll_affix} — backed by a flat array-of-counts model rather
// than per-stack objects, so a distinct item definition with zero count
// never allocates anything beyond its index.
package inventory

import (
	"fmt"
	"math"

	"github.com/rogueforge/simcore/pkg/rng"
	"github.com/rogueforge/simcore/pkg/simerr"
)

// DefaultCapacity matches the reference item-definition table size; callers
// with a larger definition catalog should size their own Inventory
// accordingly via New.
const DefaultCapacity = 4096

// Inventory is a fixed-capacity ledger of (def_index, count) pairs. It is
// never a package-level global: callers own an instance, matching the
// teacher's capability-struct idiom of passing state explicitly rather than
// reaching for process-wide statics.
type Inventory struct {
	counts   []int64
	distinct int
	gold     int64
}

// New allocates an Inventory with room for defIndex values in [0, capacity).
func New(capacity int) *Inventory {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Inventory{counts: make([]int64, capacity)}
}

func (inv *Inventory) inBounds(defIndex int) bool {
	return defIndex >= 0 && defIndex < len(inv.counts)
}

// Add increments the count for defIndex by quantity, saturating at
// math.MaxInt64-1 rather than overflowing. Returns the amount actually added.
func (inv *Inventory) Add(defIndex, quantity int) (int, error) {
	if !inv.inBounds(defIndex) || quantity <= 0 {
		return 0, fmt.Errorf("inventory: add(%d, %d): %w", defIndex, quantity, simerr.ErrInvalidArgument)
	}
	before := inv.counts[defIndex]
	if before == 0 {
		inv.distinct++
	}
	after := before + int64(quantity)
	if after < before || after > math.MaxInt64-1 {
		after = math.MaxInt64 - 1
	}
	inv.counts[defIndex] = after
	return int(after - before), nil
}

// GetCount returns the current count for defIndex, or 0 if out of bounds.
func (inv *Inventory) GetCount(defIndex int) int {
	if !inv.inBounds(defIndex) {
		return 0
	}
	return int(inv.counts[defIndex])
}

// Consume removes up to quantity from defIndex's count, removing at most
// what is available, and returns the amount actually removed.
func (inv *Inventory) Consume(defIndex, quantity int) (int, error) {
	if !inv.inBounds(defIndex) || quantity <= 0 {
		return 0, fmt.Errorf("inventory: consume(%d, %d): %w", defIndex, quantity, simerr.ErrInvalidArgument)
	}
	have := inv.counts[defIndex]
	if have <= 0 {
		return 0, nil
	}
	remove := int64(quantity)
	if remove > have {
		remove = have
	}
	inv.counts[defIndex] = have - remove
	if inv.counts[defIndex] == 0 {
		inv.distinct--
	}
	return int(remove), nil
}

// TotalDistinct returns the number of definition indices with a non-zero
// count.
func (inv *Inventory) TotalDistinct() int { return inv.distinct }

// Gold returns the current gold balance.
func (inv *Inventory) Gold() int64 { return inv.gold }

// AddGold credits gold to the ledger.
func (inv *Inventory) AddGold(amount int64) {
	if amount <= 0 {
		return
	}
	inv.gold += amount
}

// SpendGold debits amount from the ledger, failing with
// ErrInsufficientResources if the balance is short. Transactional: on
// failure, the balance is left untouched.
func (inv *Inventory) SpendGold(amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("inventory: spend_gold(%d): %w", amount, simerr.ErrInvalidArgument)
	}
	if inv.gold < amount {
		return fmt.Errorf("inventory: spend_gold(%d) against balance %d: %w", amount, inv.gold, simerr.ErrInsufficientResources)
	}
	inv.gold -= amount
	return nil
}

// RollAffix rolls a pseudo-random value in [valueMin, valueMax] for a newly
// attached affix using the supplied channel. It is a thin ledger-owned
// convenience so crafting/loot callers don't need to reach past the
// inventory's capability surface for a budget-scoped roll.
func (inv *Inventory) RollAffix(ch *rng.Channel, valueMin, valueMax int) int {
	return ch.IntRange(valueMin, valueMax)
}

// SerializeKV emits one "INV<idx>=<count>" line per non-zero entry, matching
// spec.md §6's persistent-state layout.
func (inv *Inventory) SerializeKV() []string {
	lines := make([]string, 0, inv.distinct)
	for i, c := range inv.counts {
		if c > 0 {
			lines = append(lines, fmt.Sprintf("INV%d=%d", i, c))
		}
	}
	return lines
}

// TryParseKV loads a single "INV<idx>=<count>" line into the ledger,
// returning false if the key doesn't match the INV prefix or the index is
// out of range.
func (inv *Inventory) TryParseKV(key string, value int) bool {
	var idx int
	if n, err := fmt.Sscanf(key, "INV%d", &idx); n != 1 || err != nil {
		return false
	}
	if !inv.inBounds(idx) {
		return false
	}
	if value < 0 {
		value = 0
	}
	if inv.counts[idx] == 0 && value > 0 {
		inv.distinct++
	} else if inv.counts[idx] > 0 && value == 0 {
		inv.distinct--
	}
	inv.counts[idx] = int64(value)
	return true
}
