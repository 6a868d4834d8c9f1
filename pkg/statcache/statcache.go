// Package statcache implements the layered stat cache from spec.md §4.9: an
// aggregation engine combining eight additive stat layers (base, implicit,
// unique, set, runeword, affix, passive, buff) with selective dirty bits,
// diminishing-returns ratings, resistance soft caps, and an order-invariant
// fingerprint.
package statcache

import (
	"github.com/rogueforge/simcore/pkg/hashfp"
)

// Dirty bit flags, per spec.md §4.9.
const (
	DirtyAttr      uint8 = 1 << 0
	DirtyPassive   uint8 = 1 << 1
	DirtyBuff      uint8 = 1 << 2
	DirtyEquipment uint8 = 1 << 3
	DirtyAll       uint8 = DirtyAttr | DirtyPassive | DirtyBuff | DirtyEquipment
)

// softnessConstant resolves the Open Question between original_source's two
// conflicting values (0.65 in core/stat_cache.c, 0.85 in game/stat_cache.c
// and spec.md §4.9/§9): spec.md's explicit stated constant wins.
const softnessConstant = 0.85

const (
	softCap = 75.0
	hardCap = 90.0
)

// layeredStat holds the eight additive layers for one primary stat.
type layeredStat struct {
	Base, Implicit, Unique, Set, Runeword, Affix, Passive, Buff int
}

func (l layeredStat) total() int {
	return l.Base + l.Implicit + l.Unique + l.Set + l.Runeword + l.Affix + l.Passive + l.Buff
}

// nonBaseSum returns every layer except Base, used by the fingerprint to
// recover a stable "base" value from externally-written totals.
func (l layeredStat) nonBaseSum() int {
	return l.total() - l.Base
}

// Resistances holds the six elemental/physical resistance values.
type Resistances struct {
	Physical, Fire, Cold, Lightning, Poison, Status float64
}

// Derived holds the stat cache's computed gameplay metrics.
type Derived struct {
	DPS      float64
	EHP      float64
	Mobility float64
}

// PlayerBase is the subset of raw player state the Attr layer copies from,
// per spec.md §4.9 step 3's Attr bit.
type PlayerBase struct {
	Strength, Dexterity, Vitality, Intelligence int
	CritRating, HasteRating, AvoidanceRating    float64
	MaxHealth, ArmorTotal                       float64
	CritDamagePercent                           float64
	BaseWeaponDPS                               float64
}

// Cache is the process-wide stat cache instance (spec.md §3.2: "one
// process-wide instance; reset to zero, marked dirty by any state-changing
// action, recomputed lazily"). Callers hold their own instance rather than
// reaching for a package-level global, matching this module's no-global
// convention; the single-instance contract is the caller's responsibility.
type Cache struct {
	Strength     layeredStat
	Dexterity    layeredStat
	Vitality     layeredStat
	Intelligence layeredStat

	Resist Resistances

	BlockChance, BlockValue, GuardRecoveryPct   float64
	ThornsPercent, ThornsCap                    float64
	ConvertPhysToFire, ConvertPhysToFrost       float64
	ConvertPhysToArcane                         float64

	CritRating, HasteRating, AvoidanceRating          float64
	CritEffectivePct, HasteEffectivePct, AvoidEffPct  float64

	Derived Derived

	Fingerprint uint64

	Dirty         bool
	DirtyBits     uint8
	RecomputeCount int
	heavyPassiveRecomputeCount int

	// last_total_*/last_base_* snapshots, per spec.md §4.9 step 2 and the
	// Open Question decision: explicit fields here, never package-level
	// state, since the cache is already the single process-wide instance.
	lastTotalStrength, lastTotalDexterity, lastTotalVitality, lastTotalIntelligence int
	lastBaseStrength, lastBaseDexterity, lastBaseVitality, lastBaseIntelligence     int
}

// New returns a zeroed, fully dirty Cache.
func New() *Cache {
	return &Cache{Dirty: true, DirtyBits: DirtyAll}
}

// MarkDirty marks every layer dirty, per spec.md §3.2's "marked dirty by any
// state-changing action".
func (c *Cache) MarkDirty() {
	c.Dirty = true
	c.DirtyBits = DirtyAll
}

// MarkDirtyBits marks only the given bits dirty, leaving other layers'
// cached values untouched until the next recompute.
func (c *Cache) MarkDirtyBits(bits uint8) {
	c.Dirty = true
	c.DirtyBits |= bits
}

// HeavyPassiveRecomputeCount reports how many times the Passive layer has
// been recomputed, an analytics counter mirrored from
// rogue_stat_cache_heavy_passive_recompute_count.
func (c *Cache) HeavyPassiveRecomputeCount() int { return c.heavyPassiveRecomputeCount }

// PassiveLookup resolves a primary stat's passive total, injected by the
// caller (the progression system lives outside this package).
type PassiveLookup func(stat string) int

// BuffLookup resolves a primary stat's active buff bonus.
type BuffLookup func(stat string) int

// Recompute implements spec.md §4.9's "Recompute on demand": a no-op if not
// dirty, a baseline-recovery substitution to avoid compounding repeated
// calls against previously-written totals, per-dirty-bit layer updates, then
// totals, ratings, derived metrics, resistance soft caps, and the
// fingerprint.
func (c *Cache) Recompute(p PlayerBase, passives PassiveLookup, buffs BuffLookup) {
	if !c.Dirty {
		return
	}

	c.recoverBaseline()

	if c.DirtyBits&DirtyAttr != 0 {
		c.Strength.Base = p.Strength
		c.Dexterity.Base = p.Dexterity
		c.Vitality.Base = p.Vitality
		c.Intelligence.Base = p.Intelligence
	}
	if c.DirtyBits&DirtyPassive != 0 && passives != nil {
		c.Strength.Passive = passives("strength")
		c.Dexterity.Passive = passives("dexterity")
		c.Vitality.Passive = passives("vitality")
		c.Intelligence.Passive = passives("intelligence")
		c.heavyPassiveRecomputeCount++
	}
	if c.DirtyBits&DirtyBuff != 0 && buffs != nil {
		c.Strength.Buff = buffs("strength")
		c.Dexterity.Buff = buffs("dexterity")
		c.Vitality.Buff = buffs("vitality")
		c.Intelligence.Buff = buffs("intelligence")
	}
	// Equipment layer (bit 3) is populated externally by pkg/equipment's
	// aggregation pass, which writes directly into Strength.Affix etc.
	// before Recompute runs, per spec.md §4.9 step 3's Equipment bullet.

	totalStrength := c.Strength.total()
	totalDexterity := c.Dexterity.total()
	totalVitality := c.Vitality.total()
	totalIntelligence := c.Intelligence.total()

	c.CritRating, c.HasteRating, c.AvoidanceRating = p.CritRating, p.HasteRating, p.AvoidanceRating
	c.CritEffectivePct = RatingEffectivePercent(RatingCrit, c.CritRating)
	c.HasteEffectivePct = RatingEffectivePercent(RatingHaste, c.HasteRating)
	c.AvoidEffPct = RatingEffectivePercent(RatingAvoidance, c.AvoidanceRating)

	c.applyResistanceSoftCaps()

	armorTotal := p.ArmorTotal
	c.Derived.DPS = p.BaseWeaponDPS * (1 + float64(totalDexterity)/50) *
		(1 + (c.CritEffectivePct/100)*(p.CritDamagePercent/100))
	ehp := (p.MaxHealth + armorTotal*2) * (1 + float64(totalVitality)/200)
	floor := p.MaxHealth + armorTotal*2
	if ehp < floor {
		ehp = floor
	}
	c.Derived.EHP = ehp
	c.Derived.Mobility = 100 + float64(totalDexterity)*1.5

	c.Fingerprint = c.computeFingerprint()

	c.lastTotalStrength, c.lastTotalDexterity = totalStrength, totalDexterity
	c.lastTotalVitality, c.lastTotalIntelligence = totalVitality, totalIntelligence
	c.lastBaseStrength, c.lastBaseDexterity = c.Strength.Base, c.Dexterity.Base
	c.lastBaseVitality, c.lastBaseIntelligence = c.Vitality.Base, c.Intelligence.Base

	c.Dirty = false
	c.DirtyBits = 0
	c.RecomputeCount++
}

// recoverBaseline substitutes last_base_* for the current base fields
// whenever the current totals already equal the last_total_* snapshot, so a
// recompute triggered by an unrelated dirty bit doesn't compound a base
// value that was itself derived from a prior total, per spec.md §4.9 step 2.
func (c *Cache) recoverBaseline() {
	if c.Strength.total() == c.lastTotalStrength {
		c.Strength.Base = c.lastBaseStrength
	}
	if c.Dexterity.total() == c.lastTotalDexterity {
		c.Dexterity.Base = c.lastBaseDexterity
	}
	if c.Vitality.total() == c.lastTotalVitality {
		c.Vitality.Base = c.lastBaseVitality
	}
	if c.Intelligence.total() == c.lastTotalIntelligence {
		c.Intelligence.Base = c.lastBaseIntelligence
	}
}

// softCapApply implements spec.md §4.9 step 7's asymptotic soft cap:
// soft_cap + (v-soft_cap)/(1+(v-soft_cap)/(soft_cap*softness))^2 for v above
// soft_cap, clamped at hard_cap; idempotent on repeated application.
func softCapApply(v, cap, softness float64) float64 {
	if v < 0 {
		return 0
	}
	if cap <= 0 || v <= cap {
		return v
	}
	over := v - cap
	denom := 1 + over/(cap*softness)
	return cap + over/(denom*denom)
}

func (c *Cache) applyResistanceSoftCaps() {
	clamp := func(v float64) float64 {
		if v < 0 {
			return 0
		}
		if v >= hardCap {
			return hardCap
		}
		if v > softCap {
			v = softCapApply(v, softCap, softnessConstant)
		}
		if v > hardCap {
			v = hardCap
		}
		return v
	}
	c.Resist.Physical = clamp(c.Resist.Physical)
	c.Resist.Fire = clamp(c.Resist.Fire)
	c.Resist.Cold = clamp(c.Resist.Cold)
	c.Resist.Lightning = clamp(c.Resist.Lightning)
	c.Resist.Poison = clamp(c.Resist.Poison)
	c.Resist.Status = clamp(c.Resist.Status)
}

// computeFingerprint folds explicit fields only, never raw struct bytes.
// Per spec.md §4.2/§4.9, base values fold as total-minus-non-base-layers
// (equivalently the recovered base), so equipping A then B fingerprints
// identically to B then A: both orders reach the same final per-stat totals
// and non-base-layer sums regardless of intermediate write order.
func (c *Cache) computeFingerprint() uint64 {
	b := hashfp.NewFingerprintBuilder()
	fold := func(l layeredStat) {
		b.FoldInt(l.total() - l.nonBaseSum())
		b.FoldInt(l.nonBaseSum())
	}
	fold(c.Strength)
	fold(c.Dexterity)
	fold(c.Vitality)
	fold(c.Intelligence)
	b.FoldFloat(float32(c.Resist.Physical))
	b.FoldFloat(float32(c.Resist.Fire))
	b.FoldFloat(float32(c.Resist.Cold))
	b.FoldFloat(float32(c.Resist.Lightning))
	b.FoldFloat(float32(c.Resist.Poison))
	b.FoldFloat(float32(c.Resist.Status))
	b.FoldFloat(float32(c.CritEffectivePct))
	b.FoldFloat(float32(c.HasteEffectivePct))
	b.FoldFloat(float32(c.AvoidEffPct))
	b.FoldFloat(float32(c.Derived.DPS))
	b.FoldFloat(float32(c.Derived.EHP))
	b.FoldFloat(float32(c.Derived.Mobility))
	return b.Finish()
}
