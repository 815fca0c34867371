package engine

import (
	"fmt"

	"github.com/okoreev/arenacore/internal/catalog"
)

// abilityResource is the per-actor resource state for one ability.
//
// Actives are modeled uniformly through charges: a single-charge
// ability is MaxCharges=1 with the same FIFO refill queue, so the HUD
// cooldown is simply the head of the queue. Ultimates track charge
// accrual plus a post-activation lockout that blocks instant
// re-charge abuse.
type abilityResource struct {
	def      *catalog.Ability
	charges  int
	refill   []float64 // pending refill timers, FIFO, seconds
	cooldown float64   // ultimate post-activation lockout
	charge   float64   // ultimate charge, clamped to [0, ChargeRequired]
}

type actorResources struct {
	order []catalog.AbilityID
	byID  map[catalog.AbilityID]*abilityResource
}

// ResourceTracker owns cooldown timers and ultimate-charge
// accumulation for every actor in the simulation. All mutation
// happens inside Tick or the synchronous activation callbacks.
type ResourceTracker struct {
	actors map[ActorID]*actorResources
}

func NewResourceTracker() *ResourceTracker {
	return &ResourceTracker{actors: make(map[ActorID]*actorResources)}
}

// AddActor creates resource state for an actor's loadout.
func (t *ResourceTracker) AddActor(id ActorID, abilities []*catalog.Ability) {
	ar := &actorResources{byID: make(map[catalog.AbilityID]*abilityResource, len(abilities))}
	for _, ab := range abilities {
		res := &abilityResource{def: ab}
		if ab.Kind == catalog.KindActive {
			res.charges = ab.MaxCharges
		}
		ar.byID[ab.ID] = res
		ar.order = append(ar.order, ab.ID)
	}
	t.actors[id] = ar
}

// RemoveActor drops all resource state for an actor.
func (t *ResourceTracker) RemoveActor(id ActorID) {
	delete(t.actors, id)
}

// CanActivate reports whether the gate would pass right now.
func (t *ResourceTracker) CanActivate(actor ActorID, ability catalog.AbilityID) bool {
	return t.gate(actor, ability) == nil
}

// gate validates an activation attempt and returns the typed reason
// on failure.
func (t *ResourceTracker) gate(actor ActorID, ability catalog.AbilityID) error {
	res, err := t.lookup(actor, ability)
	if err != nil {
		return err
	}

	switch res.def.Kind {
	case catalog.KindPassive:
		return fmt.Errorf("%s: %w", ability, ErrPassiveAbility)
	case catalog.KindUltimate:
		if res.cooldown > 0 {
			return fmt.Errorf("%s: %w", ability, ErrOnCooldown)
		}
		if res.charge < res.def.ChargeRequired {
			return fmt.Errorf("%s: %w", ability, ErrInsufficientCharge)
		}
	default:
		if res.charges <= 0 {
			return fmt.Errorf("%s: %w", ability, ErrOnCooldown)
		}
	}
	return nil
}

// onActivated consumes the resource after a successful gate: actives
// spend a charge and queue its refill, ultimates reset charge and
// start the lockout.
func (t *ResourceTracker) onActivated(actor ActorID, ability catalog.AbilityID) {
	res, err := t.lookup(actor, ability)
	if err != nil {
		return
	}

	switch res.def.Kind {
	case catalog.KindUltimate:
		res.charge = 0
		res.cooldown = res.def.CooldownSeconds
	case catalog.KindActive:
		res.charges--
		res.refill = append(res.refill, res.def.CooldownSeconds)
	}
}

// OnDamageDealt credits ultimate charge for damage the actor dealt.
func (t *ResourceTracker) OnDamageDealt(actor ActorID, amount float64) {
	t.creditUltimates(actor, func(res *abilityResource) float64 {
		return amount * res.def.ChargeFromDamage
	})
}

// OnKill credits ultimate charge for a kill by the actor.
func (t *ResourceTracker) OnKill(actor ActorID) {
	t.creditUltimates(actor, func(res *abilityResource) float64 {
		return res.def.ChargeFromKills
	})
}

func (t *ResourceTracker) creditUltimates(actor ActorID, amount func(*abilityResource) float64) {
	ar := t.actors[actor]
	if ar == nil {
		return
	}
	for _, id := range ar.order {
		res := ar.byID[id]
		if res.def.Kind != catalog.KindUltimate {
			continue
		}
		res.charge = clampCharge(res.charge+amount(res), res.def.ChargeRequired)
	}
}

// Tick advances every timer by dt seconds: refill queues and ultimate
// lockouts count down (floored at 0), passive charge regen accrues.
func (t *ResourceTracker) Tick(dt float64) {
	for _, ar := range t.actors {
		for _, id := range ar.order {
			res := ar.byID[id]

			for i := range res.refill {
				res.refill[i] -= dt
			}
			for len(res.refill) > 0 && res.refill[0] <= 0 {
				res.refill = res.refill[1:]
				if res.charges < res.def.MaxCharges {
					res.charges++
				}
			}

			if res.cooldown > 0 {
				res.cooldown -= dt
				if res.cooldown < 0 {
					res.cooldown = 0
				}
			}

			if res.def.Kind == catalog.KindUltimate && res.def.ChargeOverTimePerSecond > 0 {
				res.charge = clampCharge(res.charge+res.def.ChargeOverTimePerSecond*dt, res.def.ChargeRequired)
			}
		}
	}
}

// CooldownRemaining returns seconds until the ability is usable
// again: the head of the refill queue for actives out of charges, the
// lockout for ultimates. 0 for unknown actors or abilities.
func (t *ResourceTracker) CooldownRemaining(actor ActorID, ability catalog.AbilityID) float64 {
	res, err := t.lookup(actor, ability)
	if err != nil {
		return 0
	}
	if res.def.Kind == catalog.KindUltimate {
		return res.cooldown
	}
	if res.charges > 0 || len(res.refill) == 0 {
		return 0
	}
	return res.refill[0]
}

// ChargePercent returns ultimate charge as a fraction in [0, 1].
// 0 for non-ultimates and unknown ids.
func (t *ResourceTracker) ChargePercent(actor ActorID, ability catalog.AbilityID) float64 {
	res, err := t.lookup(actor, ability)
	if err != nil || res.def.Kind != catalog.KindUltimate || res.def.ChargeRequired == 0 {
		return 0
	}
	return res.charge / res.def.ChargeRequired
}

// Charges returns the available charge count for an active ability.
func (t *ResourceTracker) Charges(actor ActorID, ability catalog.AbilityID) int {
	res, err := t.lookup(actor, ability)
	if err != nil {
		return 0
	}
	return res.charges
}

func (t *ResourceTracker) lookup(actor ActorID, ability catalog.AbilityID) (*abilityResource, error) {
	ar := t.actors[actor]
	if ar == nil {
		return nil, fmt.Errorf("%s: %w", actor, ErrUnknownActor)
	}
	res := ar.byID[ability]
	if res == nil {
		return nil, fmt.Errorf("%s: %w", ability, ErrUnknownAbility)
	}
	return res, nil
}

func clampCharge(v, max float64) float64 {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}
