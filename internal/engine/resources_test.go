package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okoreev/arenacore/internal/catalog"
)

func ultimateDef() *catalog.Ability {
	return &catalog.Ability{
		ID:               "orbital",
		Kind:             catalog.KindUltimate,
		CooldownSeconds:  10,
		ChargeRequired:   150,
		ChargeFromDamage: 1,
		ChargeFromKills:  25,
		Effects:          []catalog.EffectSpec{catalog.Airstrike{DelaySeconds: 3, Radius: 20, Amount: 400}},
	}
}

func TestUltimateChargeAccrual(t *testing.T) {
	tr := NewResourceTracker()
	tr.AddActor("p1", []*catalog.Ability{ultimateDef()})

	tr.OnDamageDealt("p1", 100)
	tr.OnKill("p1")
	assert.InDelta(t, 125.0/150.0, tr.ChargePercent("p1", "orbital"), 1e-9)
	assert.False(t, tr.CanActivate("p1", "orbital"))

	tr.OnDamageDealt("p1", 25)
	assert.InDelta(t, 1.0, tr.ChargePercent("p1", "orbital"), 1e-9)
	assert.True(t, tr.CanActivate("p1", "orbital"))
}

func TestUltimateChargeClampsAtRequired(t *testing.T) {
	tr := NewResourceTracker()
	tr.AddActor("p1", []*catalog.Ability{ultimateDef()})

	for i := 0; i < 50; i++ {
		tr.OnDamageDealt("p1", 1000)
		tr.OnKill("p1")
		tr.Tick(0.5)
		assert.LessOrEqual(t, tr.ChargePercent("p1", "orbital"), 1.0)
		assert.GreaterOrEqual(t, tr.ChargePercent("p1", "orbital"), 0.0)
	}
}

func TestUltimateActivationResetsChargeAndStartsLockout(t *testing.T) {
	tr := NewResourceTracker()
	tr.AddActor("p1", []*catalog.Ability{ultimateDef()})

	tr.OnDamageDealt("p1", 150)
	require.NoError(t, tr.gate("p1", "orbital"))
	tr.onActivated("p1", "orbital")

	assert.Equal(t, 0.0, tr.ChargePercent("p1", "orbital"))
	assert.Equal(t, 10.0, tr.CooldownRemaining("p1", "orbital"))

	// Charge accrues during the lockout but the gate stays shut.
	tr.OnDamageDealt("p1", 150)
	assert.ErrorIs(t, tr.gate("p1", "orbital"), ErrOnCooldown)

	tr.Tick(10)
	assert.NoError(t, tr.gate("p1", "orbital"))
}

func TestChargeOverTimeRegen(t *testing.T) {
	def := ultimateDef()
	def.ChargeOverTimePerSecond = 3
	tr := NewResourceTracker()
	tr.AddActor("p1", []*catalog.Ability{def})

	tr.Tick(10)
	assert.InDelta(t, 30.0/150.0, tr.ChargePercent("p1", "orbital"), 1e-9)

	// Regen and combat credit accumulate additively.
	tr.OnDamageDealt("p1", 20)
	tr.Tick(10)
	assert.InDelta(t, 80.0/150.0, tr.ChargePercent("p1", "orbital"), 1e-9)
}

func TestActiveCooldownScenario(t *testing.T) {
	def := singleEffectAbility("frag", catalog.KindActive, 30, catalog.Dash{Distance: 5})
	tr := NewResourceTracker()
	tr.AddActor("p1", []*catalog.Ability{def})

	require.NoError(t, tr.gate("p1", "frag"))
	tr.onActivated("p1", "frag")

	tr.Tick(29)
	assert.InDelta(t, 1.0, tr.CooldownRemaining("p1", "frag"), 1e-9)
	assert.ErrorIs(t, tr.gate("p1", "frag"), ErrOnCooldown)

	tr.Tick(1)
	assert.Equal(t, 0.0, tr.CooldownRemaining("p1", "frag"))
	assert.NoError(t, tr.gate("p1", "frag"))
}

func TestCooldownNonIncreasingAndNeverNegative(t *testing.T) {
	def := singleEffectAbility("frag", catalog.KindActive, 7.5, catalog.Dash{Distance: 5})
	tr := NewResourceTracker()
	tr.AddActor("p1", []*catalog.Ability{def})
	tr.onActivated("p1", "frag")

	prev := tr.CooldownRemaining("p1", "frag")
	for i := 0; i < 20; i++ {
		tr.Tick(0.6)
		cd := tr.CooldownRemaining("p1", "frag")
		assert.LessOrEqual(t, cd, prev)
		assert.GreaterOrEqual(t, cd, 0.0)
		prev = cd
	}
	assert.Equal(t, 0.0, prev)
}

func TestMultiChargeRefillFIFO(t *testing.T) {
	def := singleEffectAbility("knife", catalog.KindActive, 20, catalog.Dash{Distance: 5})
	def.MaxCharges = 2
	tr := NewResourceTracker()
	tr.AddActor("p1", []*catalog.Ability{def})

	assert.Equal(t, 2, tr.Charges("p1", "knife"))

	tr.onActivated("p1", "knife")
	tr.Tick(5)
	tr.onActivated("p1", "knife")
	assert.Equal(t, 0, tr.Charges("p1", "knife"))
	assert.ErrorIs(t, tr.gate("p1", "knife"), ErrOnCooldown)

	// First spent charge refills 20s after the first activation,
	// independent of the second.
	tr.Tick(15)
	assert.Equal(t, 1, tr.Charges("p1", "knife"))
	assert.NoError(t, tr.gate("p1", "knife"))

	tr.Tick(5)
	assert.Equal(t, 2, tr.Charges("p1", "knife"))
}

func TestPassiveGateRejected(t *testing.T) {
	def := singleEffectAbility("grit", catalog.KindPassive, 0, catalog.Fortify{Multiplier: 0.9, DurationSeconds: 1})
	tr := NewResourceTracker()
	tr.AddActor("p1", []*catalog.Ability{def})

	assert.ErrorIs(t, tr.gate("p1", "grit"), ErrPassiveAbility)
}

func TestUnknownActorAndAbility(t *testing.T) {
	tr := NewResourceTracker()
	tr.AddActor("p1", []*catalog.Ability{ultimateDef()})

	assert.ErrorIs(t, tr.gate("ghost", "orbital"), ErrUnknownActor)
	assert.ErrorIs(t, tr.gate("p1", "nope"), ErrUnknownAbility)

	tr.RemoveActor("p1")
	assert.ErrorIs(t, tr.gate("p1", "orbital"), ErrUnknownActor)
}
