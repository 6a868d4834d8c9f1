package integrity

import (
	"testing"

	"github.com/rogueforge/simcore/pkg/loot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverTPMFiltersAboveThreshold(t *testing.T) {
	procs := []ProcStat{{ID: "a", TriggersPerMinute: 10}, {ID: "b", TriggersPerMinute: 40}}
	over := OverTPM(procs, 30)
	require.Len(t, over, 1)
	assert.Equal(t, "b", over[0].ID)
}

func TestBannedPairUnordered(t *testing.T) {
	r := NewBannedPairRegistry()
	r.Register(3, 7)
	assert.True(t, r.IsBanned(3, 7), "expected banned pair detection regardless of order")
	assert.True(t, r.IsBanned(7, 3), "expected banned pair detection regardless of order")
	assert.False(t, r.IsBanned(3, 8), "expected unrelated pair to not be banned")
}

func TestBannedPairRequiresBothAffixes(t *testing.T) {
	r := NewBannedPairRegistry()
	r.Register(3, 7)
	assert.False(t, r.IsBanned(-1, 7), "expected missing prefix to not trigger the ban")
}

func TestAuditEquipChainDetectsMismatch(t *testing.T) {
	it := &loot.ItemInstance{GUID: 99, EquipHash: 0}
	mismatches := AuditEquipChain([]EquipChainSlot{{SlotIndex: 0, Instance: it}})
	assert.Len(t, mismatches, 1)
}

func TestAuditEquipChainAgreesWithCorrectHash(t *testing.T) {
	it := &loot.ItemInstance{GUID: 99}
	it.EquipHash = foldMix(0, (uint64(2)<<56)^it.GUID^equipChainTag)
	mismatches := AuditEquipChain([]EquipChainSlot{{SlotIndex: 2, Instance: it}})
	assert.Empty(t, mismatches)
}

func TestScanDuplicateGUIDs(t *testing.T) {
	a := &loot.ItemInstance{GUID: 1}
	b := &loot.ItemInstance{GUID: 2}
	c := &loot.ItemInstance{GUID: 1}
	dups := ScanDuplicateGUIDs([]*loot.ItemInstance{a, b, c})
	require.Len(t, dups, 1)
	assert.EqualValues(t, 2, dups[0].Index)
	assert.EqualValues(t, 0, dups[0].FirstIndex)
}
