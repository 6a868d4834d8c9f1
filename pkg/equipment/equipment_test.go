package equipment

import (
	"testing"

	"github.com/rogueforge/simcore/pkg/inventory"
	"github.com/rogueforge/simcore/pkg/loot"
	"github.com/rogueforge/simcore/pkg/rng"
	"github.com/rogueforge/simcore/pkg/simerr"
	"github.com/rogueforge/simcore/pkg/statcache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func spawnTwoHanded(t *testing.T) *loot.ItemInstance {
	t.Helper()
	ch := rng.NewChannel(1)
	it, err := loot.Spawn(2, loot.ItemDef{}, 3, 10, ch)
	require.NoError(t, err)
	return &it
}

func TestEquipTwoHandedClearsOffhand(t *testing.T) {
	stats := statcache.New()
	m := New(stats)
	weapon := spawnTwoHanded(t)
	offhand := spawnTwoHanded(t)
	offhand.Rarity = 0 // not two-handed

	require.NoError(t, m.EquipTry(Offhand, offhand))
	require.NoError(t, m.EquipTry(Weapon, weapon))
	assert.Nil(t, m.Get(Offhand), "expected offhand cleared by two-handed weapon")
}

func TestEquipOffhandFailsWithTwoHandedWeapon(t *testing.T) {
	m := New(statcache.New())
	weapon := spawnTwoHanded(t)
	m.EquipTry(Weapon, weapon)
	offhand := spawnTwoHanded(t)
	offhand.Rarity = 0
	err := m.EquipTry(Offhand, offhand)
	assert.ErrorIs(t, err, simerr.ErrValidationFailed)
}

func TestSocketRoundTrip(t *testing.T) {
	ch := rng.NewChannel(5)
	it, _ := loot.Spawn(1, loot.ItemDef{SocketMin: 2, SocketMax: 2}, 1, 1, ch)
	require.NoError(t, Socket(&it, 0, 42))
	require.NoError(t, RemoveGem(&it, 0))
	assert.EqualValues(t, -1, it.Sockets[0], "expected socket restored to -1")
}

func TestSocketRejectsOccupiedSlot(t *testing.T) {
	ch := rng.NewChannel(5)
	it, _ := loot.Spawn(1, loot.ItemDef{SocketMin: 1, SocketMax: 1}, 1, 1, ch)
	Socket(&it, 0, 1)
	err := Socket(&it, 0, 2)
	assert.ErrorIs(t, err, simerr.ErrValidationFailed, "expected ErrValidationFailed for occupied socket")
}

func TestRepairSlotInsufficientFundsLeavesDurabilityUntouched(t *testing.T) {
	stats := statcache.New()
	m := New(stats)
	ch := rng.NewChannel(3)
	it, _ := loot.Spawn(1, loot.ItemDef{BaseDurability: 100}, 4, 20, ch)
	it.Durability.Cur = 10
	m.EquipTry(ArmorChest, &it)

	inv := inventory.New(8)
	inv.AddGold(1)
	_, err := m.RepairSlot(ArmorChest, inv)
	assert.ErrorIs(t, err, simerr.ErrInsufficientResources)
	assert.EqualValues(t, 10, it.Durability.Cur, "expected durability untouched")
}

func TestRepairSlotSpendsExactCost(t *testing.T) {
	stats := statcache.New()
	m := New(stats)
	ch := rng.NewChannel(3)
	it, _ := loot.Spawn(1, loot.ItemDef{BaseDurability: 100}, 1, 20, ch)
	it.Durability.Cur = 90
	m.EquipTry(ArmorChest, &it)

	inv := inventory.New(8)
	inv.AddGold(1000)
	cost, err := m.RepairSlot(ArmorChest, inv)
	require.NoError(t, err)
	assert.EqualValues(t, 100, it.Durability.Cur, "expected full repair")
	assert.False(t, it.Durability.Fractured, "expected full repair")
	assert.Equal(t, 1000-cost, inv.Gold(), "expected gold spent exactly the repair cost")
}

func TestEnchantRollsBackOnBudgetOverrun(t *testing.T) {
	ch := rng.NewChannel(11)
	it, _ := loot.Spawn(1, loot.ItemDef{}, 1, 1, ch)
	budget := it.ItemLevel*3 + 10 // matches loot.Budget(1, 1)
	it.Prefix.Index = 0
	it.Prefix.Value = 0
	it.Suffix.Index = 0
	it.Suffix.Value = budget // already consumes the full budget
	prevValue := it.Prefix.Value

	err := Enchant(&it, true, false, ch)
	if err == nil {
		t.Skip("prefix happened to reroll to 0; non-deterministic by design")
	}
	assert.ErrorIs(t, err, simerr.ErrValidationFailed)
	assert.Equal(t, prevValue, it.Prefix.Value, "expected rollback")
}

func TestTransmogOverrideIndependentOfSlot(t *testing.T) {
	m := New(statcache.New())
	require.NoError(t, m.TransmogSet(Weapon, 77))
	assert.Equal(t, 77, m.TransmogGet(Weapon))
	assert.Nil(t, m.Get(Weapon), "transmog should not populate the actual slot")
}
