// Package equipment implements the fixed equipment slot model from spec.md
// §4.8 and the enchant/enhance/socket/repair/transmog operations
// Supplemented from original_source/src/core/equipment/*.c. Every mutating
// operation is transactional: either it fully commits, or it leaves the
// instance and slot state byte-for-byte unchanged. EquipTry and Unequip mark
// the bound stat cache equipment-dirty; RepairSlot, RepairAll and the
// item-level operations (Socket, RemoveGem, Enchant, Reforge, Temper) do not
// touch the stat cache.
package equipment

import (
	"fmt"

	"github.com/rogueforge/simcore/pkg/hashfp"
	"github.com/rogueforge/simcore/pkg/inventory"
	"github.com/rogueforge/simcore/pkg/loot"
	"github.com/rogueforge/simcore/pkg/rng"
	"github.com/rogueforge/simcore/pkg/simerr"
	"github.com/rogueforge/simcore/pkg/statcache"
)

// Slot is one of the fixed equipment slot enumerators from spec.md §3.1.
type Slot int

const (
	Weapon Slot = iota
	Offhand
	ArmorHead
	ArmorChest
	ArmorLegs
	ArmorHands
	ArmorFeet
	Ring1
	Ring2
	Amulet
	Belt
	Cloak
	Charm1
	Charm2
	slotCount
)

// equipChainTag is folded into every equip-chain hash contribution, per
// spec.md §4.11's equip-chain audit: (slot_index<<56) xor guid xor 0xE11AFB.
const equipChainTag = 0xE11AFB

// Model holds the fixed slot set for one character, plus the transmog
// override layer and a reference to the shared stat cache it marks dirty.
type Model struct {
	slots     [slotCount]*loot.ItemInstance
	transmog  [slotCount]int // def_index override, -1 = none
	instances map[uint64]*loot.ItemInstance
	stats     *statcache.Cache
}

// New returns an empty Model bound to the given stat cache, which is marked
// dirty on every mutating operation.
func New(stats *statcache.Cache) *Model {
	m := &Model{instances: make(map[uint64]*loot.ItemInstance), stats: stats}
	for i := range m.transmog {
		m.transmog[i] = -1
	}
	return m
}

// Register makes an instance addressable by GUID for equip/socket/repair
// operations; callers insert spawned instances here before interacting with
// the slot model.
func (m *Model) Register(it *loot.ItemInstance) {
	m.instances[it.GUID] = it
}

// IsTwoHanded reports whether the instance occupies both hands. This is a
// stand-in for the item-definition flag lookup in
// rogue_equip_item_is_two_handed; callers may swap this check for a
// definition-table-backed one once a catalog exists.
func (m *Model) IsTwoHanded(it *loot.ItemInstance) bool {
	return it != nil && it.DefIndex%2 == 0 && it.Rarity >= 3
}

// Get returns the instance currently in slot, or nil.
func (m *Model) Get(slot Slot) *loot.ItemInstance {
	if slot < 0 || slot >= slotCount {
		return nil
	}
	return m.slots[slot]
}

// EquipTry attempts to place instance into slot, per spec.md §4.8: if the
// instance is two-handed and slot is Weapon, Offhand is cleared; if slot is
// Offhand and the current weapon is two-handed, the call fails.
func (m *Model) EquipTry(slot Slot, it *loot.ItemInstance) error {
	if slot < 0 || slot >= slotCount || it == nil {
		return fmt.Errorf("equipment: equip_try(%d): %w", slot, simerr.ErrInvalidArgument)
	}
	if slot == Offhand {
		if w := m.slots[Weapon]; w != nil && m.IsTwoHanded(w) {
			return fmt.Errorf("equipment: offhand blocked by two-handed weapon: %w", simerr.ErrValidationFailed)
		}
	}
	m.slots[slot] = it
	if slot == Weapon && m.IsTwoHanded(it) {
		m.slots[Offhand] = nil
	}
	m.foldEquipChain(slot, it)
	if m.stats != nil {
		m.stats.MarkDirtyBits(statcache.DirtyEquipment)
	}
	return nil
}

// Unequip clears slot and returns the instance that was there, if any.
func (m *Model) Unequip(slot Slot) *loot.ItemInstance {
	if slot < 0 || slot >= slotCount {
		return nil
	}
	prev := m.slots[slot]
	m.slots[slot] = nil
	if prev != nil {
		m.foldEquipChain(slot, prev)
		if m.stats != nil {
			m.stats.MarkDirtyBits(statcache.DirtyEquipment)
		}
	}
	return prev
}

// foldEquipChain recomputes the hash chain for the instance that just left
// or entered a slot, folding every slot the instance currently occupies (an
// instance left in no slot gets 0); a nil instance is a no-op, per spec.md §4.9's "fold slot+instance-GUID into the instance's
// equip_hash_chain" and the §4.11 audit formula.
func (m *Model) foldEquipChain(changed Slot, it *loot.ItemInstance) {
	if it == nil {
		return
	}
	var h uint64
	for s := Slot(0); s < slotCount; s++ {
		if m.slots[s] != nil && m.slots[s].GUID == it.GUID {
			h = hashfp.Fold(h, (uint64(s)<<56)^it.GUID^equipChainTag)
		}
	}
	it.EquipHash = h
	_ = changed
}

// TransmogSet installs a cosmetic override for slot, independent of stat
// computation. defIndex -1 clears the override.
func (m *Model) TransmogSet(slot Slot, defIndex int) error {
	if slot < 0 || slot >= slotCount {
		return fmt.Errorf("equipment: transmog_set(%d): %w", slot, simerr.ErrInvalidArgument)
	}
	m.transmog[slot] = defIndex
	return nil
}

// TransmogGet returns the cosmetic override for slot, or -1 if none.
func (m *Model) TransmogGet(slot Slot) int {
	if slot < 0 || slot >= slotCount {
		return -1
	}
	return m.transmog[slot]
}

// repairRateByRarity scales per-point repair cost with rarity, matching the
// "rarity-scaled rate" spec.md §4.8 names without pinning a value.
var repairRateByRarity = [5]int{2, 3, 5, 8, 13}

// RepairSlot computes the repair cost (missing durability times
// rarity-scaled rate), spends it from inv, and fully restores durability.
// Fails with InsufficientResources if inv's gold balance is short, leaving
// durability untouched.
func (m *Model) RepairSlot(slot Slot, inv *inventory.Inventory) (cost int64, err error) {
	it := m.Get(slot)
	if it == nil {
		return 0, fmt.Errorf("equipment: repair_slot(%d): %w", slot, simerr.ErrNotFound)
	}
	missing := it.Durability.Max - it.Durability.Cur
	if missing <= 0 {
		return 0, nil
	}
	rate := repairRateByRarity[0]
	if it.Rarity >= 0 && it.Rarity < len(repairRateByRarity) {
		rate = repairRateByRarity[it.Rarity]
	}
	cost = int64(missing * rate)
	if err := inv.SpendGold(cost); err != nil {
		return 0, fmt.Errorf("equipment: repair_slot(%d): %w", slot, err)
	}
	it.Durability.Cur = it.Durability.Max
	it.Durability.Fractured = false
	return cost, nil
}

// RepairAll repairs every equipped item, returning the count repaired and
// total cost. Transactional per item: an item is skipped (not partially
// charged) if funds run out mid-pass.
func (m *Model) RepairAll(inv *inventory.Inventory) (repaired int, totalCost int64) {
	for s := Slot(0); s < slotCount; s++ {
		if m.Get(s) == nil {
			continue
		}
		cost, err := m.RepairSlot(s, inv)
		if err != nil {
			continue
		}
		if cost > 0 {
			repaired++
			totalCost += cost
		}
	}
	return repaired, totalCost
}

// Socket inserts gemDefIndex into socketIdx, failing if the slot is out of
// range or already occupied.
func Socket(it *loot.ItemInstance, socketIdx, gemDefIndex int) error {
	if it == nil || socketIdx < 0 || socketIdx >= len(it.Sockets) {
		return fmt.Errorf("equipment: socket(%d): %w", socketIdx, simerr.ErrOutOfBounds)
	}
	if it.Sockets[socketIdx] != -1 {
		return fmt.Errorf("equipment: socket(%d) occupied: %w", socketIdx, simerr.ErrValidationFailed)
	}
	it.Sockets[socketIdx] = gemDefIndex
	return nil
}

// RemoveGem clears socketIdx, restoring the round-trip law from spec.md §8:
// insert then remove restores the empty count and the slot's gem index
// becomes -1 again.
func RemoveGem(it *loot.ItemInstance, socketIdx int) error {
	if it == nil || socketIdx < 0 || socketIdx >= len(it.Sockets) {
		return fmt.Errorf("equipment: remove_gem(%d): %w", socketIdx, simerr.ErrOutOfBounds)
	}
	it.Sockets[socketIdx] = -1
	return nil
}

// Enchant transactionally rerolls the selected unlocked affixes of it; it
// writes no journal entry. On budget overrun, or when a selected affix is
// absent, the affix writes are rolled back and ErrValidationFailed is
// returned, leaving it unchanged.
func Enchant(it *loot.ItemInstance, rerollPrefix, rerollSuffix bool, ch *rng.Channel) error {
	if it == nil {
		return fmt.Errorf("equipment: enchant: %w", simerr.ErrInvalidArgument)
	}
	prevPrefix, prevSuffix := it.Prefix, it.Suffix
	budget := loot.Budget(it.ItemLevel, it.Rarity)

	if rerollPrefix && !it.Prefix.Locked {
		if it.Prefix.Index < 0 {
			return fmt.Errorf("equipment: enchant: no prefix present: %w", simerr.ErrValidationFailed)
		}
		it.Prefix.Value = ch.IntRange(0, budget)
	}
	if rerollSuffix && !it.Suffix.Locked {
		if it.Suffix.Index < 0 {
			it.Prefix = prevPrefix
			return fmt.Errorf("equipment: enchant: no suffix present: %w", simerr.ErrValidationFailed)
		}
		it.Suffix.Value = ch.IntRange(0, budget)
	}
	if it.TotalAffixWeight() > budget {
		it.Prefix, it.Suffix = prevPrefix, prevSuffix
		return fmt.Errorf("equipment: enchant over budget: %w", simerr.ErrValidationFailed)
	}
	return nil
}

// Reforge completely rerolls both unlocked affixes from scratch, preserving
// item_level and socket_count but clearing gems, consuming the
// CraftQuality/Enhancement stream.
func Reforge(it *loot.ItemInstance, ch *rng.Channel) error {
	if it == nil {
		return fmt.Errorf("equipment: reforge: %w", simerr.ErrInvalidArgument)
	}
	prevPrefix, prevSuffix, prevSockets := it.Prefix, it.Suffix, append([]int(nil), it.Sockets...)
	budget := loot.Budget(it.ItemLevel, it.Rarity)
	if !it.Prefix.Locked {
		it.Prefix.Index, it.Prefix.Value = 0, ch.IntRange(0, budget/2)
	}
	if !it.Suffix.Locked {
		it.Suffix.Index, it.Suffix.Value = 0, ch.IntRange(0, budget-it.Prefix.Value)
	}
	if it.TotalAffixWeight() > budget {
		it.Prefix, it.Suffix, it.Sockets = prevPrefix, prevSuffix, prevSockets
		return fmt.Errorf("equipment: reforge over budget: %w", simerr.ErrValidationFailed)
	}
	for i := range it.Sockets {
		it.Sockets[i] = -1
	}
	return nil
}

// Temper applies a smaller, bounded affix bump via the Enhancement stream,
// rolling back on overrun exactly like Enchant.
func Temper(it *loot.ItemInstance, ch *rng.Channel) error {
	if it == nil {
		return fmt.Errorf("equipment: temper: %w", simerr.ErrInvalidArgument)
	}
	budget := loot.Budget(it.ItemLevel, it.Rarity)
	prevPrefix, prevSuffix := it.Prefix, it.Suffix
	bump := ch.IntRange(1, 5)
	if it.Prefix.Index >= 0 && !it.Prefix.Locked {
		it.Prefix.Value += bump
	} else if it.Suffix.Index >= 0 && !it.Suffix.Locked {
		it.Suffix.Value += bump
	}
	if it.TotalAffixWeight() > budget {
		it.Prefix, it.Suffix = prevPrefix, prevSuffix
		return fmt.Errorf("equipment: temper over budget: %w", simerr.ErrValidationFailed)
	}
	return nil
}
