// Package integrity implements the audit primitives from spec.md §4.11:
// proc-rate anomaly detection, banned affix-pair checks, equip-chain hash
// verification, and duplicate-GUID scanning. These are audit-only — per
// spec.md §1's Non-goals, they are not anti-cheat server logic.
package integrity

import "github.com/rogueforge/simcore/pkg/loot"

// equipChainTag matches pkg/equipment's fold constant exactly so an
// independently-recomputed expected hash agrees with the one equipment
// writes.
const equipChainTag = 0xE11AFB

// ProcStat tracks one proc's rolling trigger rate.
type ProcStat struct {
	ID               string
	TriggersPerMinute float64
}

// OverTPM returns the subset of procs exceeding maxTPM.
func OverTPM(procs []ProcStat, maxTPM float64) []ProcStat {
	var over []ProcStat
	for _, p := range procs {
		if p.TriggersPerMinute > maxTPM {
			over = append(over, p)
		}
	}
	return over
}

// AffixPair is an unordered pair of prefix/suffix affix indices that must
// never co-occur on one item.
type AffixPair struct {
	A, B int
}

func (p AffixPair) matches(prefix, suffix int) bool {
	return (p.A == prefix && p.B == suffix) || (p.A == suffix && p.B == prefix)
}

// BannedPairRegistry holds the set of disallowed prefix/suffix
// combinations.
type BannedPairRegistry struct {
	pairs []AffixPair
}

// NewBannedPairRegistry returns an empty registry.
func NewBannedPairRegistry() *BannedPairRegistry { return &BannedPairRegistry{} }

// Register adds a banned pair.
func (r *BannedPairRegistry) Register(a, b int) {
	r.pairs = append(r.pairs, AffixPair{A: a, B: b})
}

// IsBanned reports whether an item with the given prefix and suffix index
// forms a registered banned pair. Both affixes must be present.
func (r *BannedPairRegistry) IsBanned(prefixIndex, suffixIndex int) bool {
	if prefixIndex < 0 || suffixIndex < 0 {
		return false
	}
	for _, p := range r.pairs {
		if p.matches(prefixIndex, suffixIndex) {
			return true
		}
	}
	return false
}

// EquipChainSlot pairs a slot index with the instance it currently holds,
// the minimal view the audit needs without importing pkg/equipment, so this
// package depends on pkg/loot only.
type EquipChainSlot struct {
	SlotIndex int
	Instance  *loot.ItemInstance
}

// EquipChainMismatch reports an instance whose stored equip_hash_chain
// disagrees with the freshly recomputed expected value.
type EquipChainMismatch struct {
	GUID         uint64
	Expected     uint64
	StoredChain  uint64
}

// AuditEquipChain recomputes the expected hash for every instance currently
// occupying a slot and reports any mismatch against its stored
// EquipHash, per spec.md §4.11: "expected hash for an instance is computed
// by folding (slot_index << 56) xor guid xor 0xE11AFB into 0 for every slot
// currently holding the instance".
func AuditEquipChain(slots []EquipChainSlot) []EquipChainMismatch {
	expected := make(map[uint64]uint64)
	instances := make(map[uint64]*loot.ItemInstance)
	for _, s := range slots {
		if s.Instance == nil {
			continue
		}
		h := expected[s.Instance.GUID]
		h = foldMix(h, (uint64(s.SlotIndex)<<56)^s.Instance.GUID^equipChainTag)
		expected[s.Instance.GUID] = h
		instances[s.Instance.GUID] = s.Instance
	}
	var mismatches []EquipChainMismatch
	for guid, exp := range expected {
		it := instances[guid]
		if it.EquipHash != exp {
			mismatches = append(mismatches, EquipChainMismatch{GUID: guid, Expected: exp, StoredChain: it.EquipHash})
		}
	}
	return mismatches
}

func foldMix(h, v uint64) uint64 {
	h ^= v + 0x9E3779B97F4A7C15 + (h << 6) + (h >> 2)
	return h
}

// DuplicateGUID reports one item found to share a GUID with an
// earlier-scanned instance.
type DuplicateGUID struct {
	Index      int
	FirstIndex int
	GUID       uint64
}

// ScanDuplicateGUIDs performs a linear pairwise comparison, reporting every
// instance whose GUID was already seen at an earlier index, per spec.md
// §4.11's "Duplicate GUID scan".
func ScanDuplicateGUIDs(instances []*loot.ItemInstance) []DuplicateGUID {
	seen := make(map[uint64]int)
	var dups []DuplicateGUID
	for i, it := range instances {
		if it == nil {
			continue
		}
		if first, ok := seen[it.GUID]; ok {
			dups = append(dups, DuplicateGUID{Index: i, FirstIndex: first, GUID: it.GUID})
			continue
		}
		seen[it.GUID] = i
	}
	return dups
}
