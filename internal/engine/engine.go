package engine

import (
	"fmt"
	"log/slog"

	"github.com/okoreev/arenacore/internal/catalog"
	"github.com/okoreev/arenacore/internal/geom"
	"github.com/okoreev/arenacore/internal/journal"
)

// Collaborators are the external sinks and sources the engine calls
// outward on. Applier and Targets are required; Notify and Journal
// default to no-ops. All are invoked synchronously and must not
// re-enter the engine during the call.
type Collaborators struct {
	Applier EffectApplier
	Targets TargetProvider
	Notify  NotificationSink
	Journal journal.Recorder
}

type actorState struct {
	team      TeamID
	abilities map[catalog.AbilityID]bool
}

// Engine is the ability execution core: activation gating, resource
// accounting, target resolution, and tick-driven effect scheduling.
//
// Single-threaded and cooperative. All state advances inside Tick or
// the synchronous Activate/Cancel calls from one simulation loop;
// there are no background timers, which makes runs deterministic and
// replayable given the same call sequence. Pausing is simply not
// ticking.
type Engine struct {
	catalog *catalog.Catalog
	tracker *ResourceTracker
	sched   *Scheduler
	rec     journal.Recorder

	targets TargetProvider
	actors  map[ActorID]*actorState
	simTime float64
}

// New builds an engine over an immutable ability catalog.
func New(cat *catalog.Catalog, c Collaborators) (*Engine, error) {
	if cat == nil || cat.Len() == 0 {
		return nil, fmt.Errorf("engine needs a non-empty catalog")
	}
	if c.Applier == nil || c.Targets == nil {
		return nil, fmt.Errorf("engine needs an EffectApplier and a TargetProvider")
	}
	if c.Journal == nil {
		c.Journal = journal.Nop{}
	}
	return &Engine{
		catalog: cat,
		tracker: NewResourceTracker(),
		sched:   NewScheduler(c.Applier, c.Targets, c.Notify, c.Journal),
		rec:     c.Journal,
		targets: c.Targets,
		actors:  make(map[ActorID]*actorState),
	}, nil
}

// AddActor registers an actor with its ability loadout, creating its
// resource state and applying passive modifiers. Unknown ability ids
// in the loadout are an error.
func (e *Engine) AddActor(id ActorID, team TeamID, loadout []catalog.AbilityID) error {
	if _, exists := e.actors[id]; exists {
		return fmt.Errorf("actor %s already registered", id)
	}

	defs := make([]*catalog.Ability, 0, len(loadout))
	for _, abID := range loadout {
		ab := e.catalog.Get(abID)
		if ab == nil {
			return fmt.Errorf("loadout of %s: %s: %w", id, abID, ErrUnknownAbility)
		}
		defs = append(defs, ab)
	}

	st := &actorState{team: team, abilities: make(map[catalog.AbilityID]bool, len(loadout))}
	for _, ab := range defs {
		st.abilities[ab.ID] = true
	}
	e.actors[id] = st
	e.tracker.AddActor(id, defs)

	for _, ab := range defs {
		if ab.Kind != catalog.KindPassive {
			continue
		}
		for _, spec := range ab.Effects {
			e.sched.ApplyPassiveModifier(id, team, spec)
		}
	}

	slog.Debug("actor added", "actor", id, "team", team, "abilities", len(defs))
	return nil
}

// RemoveActor cancels every effect the actor owns, then drops its
// state. Each cancelled effect fires its one cleanup notification.
func (e *Engine) RemoveActor(id ActorID) {
	e.sched.CancelOwnedBy(id)
	e.tracker.RemoveActor(id)
	delete(e.actors, id)
	slog.Debug("actor removed", "actor", id)
}

// Activate validates and executes an ability activation. Returns the
// handle of the scheduled effect group, or a typed error. Whiffing is
// not an error: an area effect that resolves zero targets still
// consumes the resource, unless the ability is marked
// requires-target.
func (e *Engine) Activate(actor ActorID, ability catalog.AbilityID, origin, direction geom.Vec3) (Handle, error) {
	st := e.actors[actor]
	if st == nil {
		return 0, fmt.Errorf("activate %s: %s: %w", ability, actor, ErrUnknownActor)
	}
	ab := e.catalog.Get(ability)
	if ab == nil || !st.abilities[ability] {
		return 0, fmt.Errorf("activate %s by %s: %w", ability, actor, ErrUnknownAbility)
	}

	if !e.ownerAlive(actor) {
		return 0, fmt.Errorf("activate %s by %s: %w", ability, actor, ErrActorDead)
	}
	if err := e.tracker.gate(actor, ability); err != nil {
		return 0, fmt.Errorf("activate: %w", err)
	}

	if ab.RequiresTarget && !e.wouldHitAny(actor, st.team, ab, origin, direction) {
		return 0, fmt.Errorf("activate %s by %s: %w", ability, actor, ErrNoValidTargets)
	}

	e.tracker.onActivated(actor, ability)
	h := e.sched.ScheduleAbility(actor, st.team, ab, origin, direction)

	e.rec.Record(journal.Event{
		Type:      journal.EventActivation,
		SimTime:   e.simTime,
		ActorID:   string(actor),
		AbilityID: string(ability),
		Handle:    uint64(h),
	})
	slog.Debug("ability activated",
		"actor", actor, "ability", ability, "handle", h)
	return h, nil
}

// Cancel retires the effect group synchronously. Idempotent; unknown
// and already-retired handles are a no-op.
func (e *Engine) Cancel(h Handle) {
	e.sched.Cancel(h)
}

// Tick advances the whole engine by dt seconds: resource timers
// first, then the effect table.
func (e *Engine) Tick(dt float64) {
	if dt <= 0 {
		return
	}
	e.simTime += dt
	e.tracker.Tick(dt)
	e.sched.Tick(dt)
}

// OnDamageDealt feeds ultimate charge accrual from combat damage.
func (e *Engine) OnDamageDealt(actor ActorID, amount float64) {
	e.tracker.OnDamageDealt(actor, amount)
}

// OnKill feeds ultimate charge accrual from a kill.
func (e *Engine) OnKill(actor ActorID) {
	e.tracker.OnKill(actor)
}

// CanActivate is the read-only gate check for HUD graying.
func (e *Engine) CanActivate(actor ActorID, ability catalog.AbilityID) bool {
	return e.tracker.CanActivate(actor, ability)
}

// CooldownRemainingSeconds is the HUD cooldown readout.
func (e *Engine) CooldownRemainingSeconds(actor ActorID, ability catalog.AbilityID) float64 {
	return e.tracker.CooldownRemaining(actor, ability)
}

// ChargePercent is the HUD ultimate-meter readout, in [0, 1].
func (e *Engine) ChargePercent(actor ActorID, ability catalog.AbilityID) float64 {
	return e.tracker.ChargePercent(actor, ability)
}

// InFlightEffects returns how many effects are currently scheduled.
func (e *Engine) InFlightEffects() int {
	return e.sched.Len()
}

// SimTime returns cumulative simulation seconds.
func (e *Engine) SimTime() float64 {
	return e.simTime
}

// ownerAlive checks the fresh snapshot: an actor missing from the
// world, or present but dead, cannot activate.
func (e *Engine) ownerAlive(actor ActorID) bool {
	for _, c := range e.targets.Snapshot() {
		if c.ID == actor {
			return c.Alive
		}
	}
	return false
}

func (e *Engine) wouldHitAny(actor ActorID, team TeamID, ab *catalog.Ability, origin, dir geom.Vec3) bool {
	for _, spec := range ab.Effects {
		if e.sched.WouldHit(actor, team, spec, origin, dir) {
			return true
		}
	}
	return false
}
