package statcache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestRecomputeNoOpWhenClean(t *testing.T) {
	c := New()
	c.Recompute(PlayerBase{Strength: 10}, nil, nil)
	count := c.RecomputeCount
	c.Recompute(PlayerBase{Strength: 999}, nil, nil)
	assert.Equal(t, count, c.RecomputeCount, "expected recompute to no-op when not dirty")
	assert.NotEqual(t, 999, c.Strength.Base, "base should not change while clean")
}

// TestOrderInvarianceOfFingerprint checks that splitting a total affix
// contribution across two applied-in-sequence recomputes, in either order,
// yields the same fingerprint, for arbitrary (a, b) splits.
func TestOrderInvarianceOfFingerprint(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		base := PlayerBase{Strength: 20, Dexterity: 15, Vitality: 30, Intelligence: 12, MaxHealth: 100}
		a := rapid.IntRange(0, 50).Draw(t, "a")
		b := rapid.IntRange(0, 50).Draw(t, "b")

		aThenB := New()
		aThenB.Recompute(base, nil, nil)
		aThenB.MarkDirtyBits(DirtyEquipment)
		aThenB.Strength.Affix = a
		aThenB.Recompute(base, nil, nil)
		aThenB.MarkDirtyBits(DirtyEquipment)
		aThenB.Strength.Affix = a + b
		aThenB.Recompute(base, nil, nil)

		bThenA := New()
		bThenA.Recompute(base, nil, nil)
		bThenA.MarkDirtyBits(DirtyEquipment)
		bThenA.Strength.Affix = b
		bThenA.Recompute(base, nil, nil)
		bThenA.MarkDirtyBits(DirtyEquipment)
		bThenA.Strength.Affix = b + a
		bThenA.Recompute(base, nil, nil)

		assert.Equal(t, aThenB.Fingerprint, bThenA.Fingerprint, "expected order-invariant fingerprint")
	})
}

func TestSoftCapIdempotent(t *testing.T) {
	first := softCapApply(95, softCap, softnessConstant)
	second := softCapApply(first, softCap, softnessConstant)
	assert.Equal(t, first, second, "expected idempotent soft cap")
}

func TestResistanceHardCapClamp(t *testing.T) {
	c := New()
	c.Resist.Fire = 999
	c.applyResistanceSoftCaps()
	require.Equal(t, hardCap, c.Resist.Fire)
}

func TestResistanceNegativeClampsToZero(t *testing.T) {
	c := New()
	c.Resist.Cold = -50
	c.applyResistanceSoftCaps()
	assert.Zero(t, c.Resist.Cold)
}

func TestRatingEffectivePercentHardCaps(t *testing.T) {
	assert.LessOrEqual(t, RatingEffectivePercent(RatingCrit, 100000), 75.0, "crit rating exceeded hard cap")
	assert.LessOrEqual(t, RatingEffectivePercent(RatingHaste, 100000), 55.0, "haste rating exceeded hard cap")
	assert.LessOrEqual(t, RatingEffectivePercent(RatingAvoidance, 100000), 65.0, "avoidance rating exceeded hard cap")
}

func TestRatingCurveZeroAtZeroRating(t *testing.T) {
	assert.Zero(t, RatingCurve(0, ratingBreakpoints, 0.04, 400))
}

func TestEHPNeverBelowFloor(t *testing.T) {
	c := New()
	c.Recompute(PlayerBase{MaxHealth: 200, ArmorTotal: 10, Vitality: 0}, nil, nil)
	floor := 200 + 10*2.0
	assert.GreaterOrEqual(t, c.Derived.EHP, floor)
}
