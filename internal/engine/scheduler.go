package engine

import (
	"log/slog"

	"github.com/okoreev/arenacore/internal/catalog"
	"github.com/okoreev/arenacore/internal/geom"
	"github.com/okoreev/arenacore/internal/journal"
)

// scheduledEffect is one in-flight effect instance. Owned exclusively
// by the Scheduler; everything outside refers to it by Handle only,
// so removing an owner or target mid-effect cannot dangle.
type scheduledEffect struct {
	handle    Handle
	root      Handle // first entry of the activation group
	owner     ActorID
	ownerTeam TeamID
	spec      catalog.EffectSpec
	origin    geom.Vec3
	dir       geom.Vec3

	phase           Phase
	elapsed         float64
	delayRemaining  float64
	period          float64
	periodRemaining float64
	duration        float64
	perApplication  float64 // heal-over-time sub-amount

	// activatedThisTick keeps an entry that left Pending during the
	// current tick out of the periodic pass, so delay expiry and the
	// first period cannot both fire from one tick.
	activatedThisTick bool
	finished          bool
}

// Scheduler owns the table of in-flight effects and advances it on
// each simulation tick. Single-threaded: all mutation happens inside
// Tick or the synchronous Schedule/Cancel calls.
//
// Tick order is fixed: pending delay expiries, then active periodic
// work, then the terminal sweep. An entry is applied exactly once per
// firing and produces exactly one cleanup notification over its whole
// lifetime, whichever path retires it.
type Scheduler struct {
	applier EffectApplier
	targets TargetProvider
	notify  NotificationSink
	rec     journal.Recorder

	nextHandle Handle
	table      map[Handle]*scheduledEffect
	order      []Handle // insertion order; map iteration would break replay determinism
	simTime    float64
}

func NewScheduler(applier EffectApplier, targets TargetProvider, notify NotificationSink, rec journal.Recorder) *Scheduler {
	if notify == nil {
		notify = nopSink{}
	}
	if rec == nil {
		rec = journal.Nop{}
	}
	return &Scheduler{
		applier: applier,
		targets: targets,
		notify:  notify,
		rec:     rec,
		table:   make(map[Handle]*scheduledEffect),
	}
}

// Len returns the number of in-flight (non-terminal) effects.
func (s *Scheduler) Len() int {
	return len(s.order)
}

// ScheduleAbility registers one entry per effect spec of the ability.
// Instantaneous effects apply immediately and retire without entering
// the table. The returned handle is the group root: cancelling it
// cancels every entry the activation produced.
func (s *Scheduler) ScheduleAbility(owner ActorID, team TeamID, ab *catalog.Ability, origin, dir geom.Vec3) Handle {
	var root Handle
	for _, spec := range ab.Effects {
		h := s.schedule(owner, team, spec, origin, dir, root)
		if root == 0 {
			root = h
		}
	}
	return root
}

func (s *Scheduler) schedule(owner ActorID, team TeamID, spec catalog.EffectSpec, origin, dir geom.Vec3, root Handle) Handle {
	s.nextHandle++
	e := &scheduledEffect{
		handle:    s.nextHandle,
		root:      root,
		owner:     owner,
		ownerTeam: team,
		spec:      spec,
		origin:    origin,
		dir:       dir,
	}
	if e.root == 0 {
		e.root = e.handle
	}

	delay, period, duration, per, stored := plan(spec)
	if !stored {
		e.phase = PhaseActive
		s.transitioned(e)
		s.guard(e, func() { s.applyInstant(e) })
		if !e.phase.terminal() {
			e.phase = PhaseCompleted
		}
		s.finish(e)
		return e.handle
	}

	e.delayRemaining = delay
	e.period = period
	e.periodRemaining = period
	e.duration = duration
	e.perApplication = per
	if delay > 0 {
		e.phase = PhasePending
	} else {
		e.phase = PhaseActive
	}
	s.table[e.handle] = e
	s.order = append(s.order, e.handle)
	s.transitioned(e)
	return e.handle
}

// plan maps an effect spec onto the state machine timings. Only
// delayed, periodic, and over-time kinds are stored; everything else
// is a single immediate application.
func plan(spec catalog.EffectSpec) (delay, period, duration, perApplication float64, stored bool) {
	switch v := spec.(type) {
	case catalog.Heal:
		if v.OverTimeSeconds > 0 {
			return 0, 1, v.OverTimeSeconds, v.Amount / v.OverTimeSeconds, true
		}
	case catalog.Airstrike:
		return v.DelaySeconds, 0, 0, 0, true
	case catalog.Turret:
		return 0, v.FireIntervalSeconds, v.DurationSeconds, 0, true
	case catalog.DomeShield:
		return 0, v.IntervalSeconds, v.DurationSeconds, 0, true
	case catalog.HealingField:
		return 0, 1, v.DurationSeconds, 0, true
	case catalog.SupplyDrop:
		return v.DelaySeconds, v.IntervalSeconds, v.DurationSeconds, 0, true
	}
	return 0, 0, 0, 0, false
}

// Tick advances all in-flight effects by dt seconds.
func (s *Scheduler) Tick(dt float64) {
	s.simTime += dt

	handles := append([]Handle(nil), s.order...)

	// Pass 1: pending delays.
	for _, h := range handles {
		e := s.table[h]
		if e == nil || e.phase != PhasePending {
			continue
		}
		s.guard(e, func() {
			e.delayRemaining -= dt
			if e.delayRemaining <= 0 {
				s.fireDelayExpiry(e)
			}
		})
	}

	// Pass 2: active periodic work and expiry.
	for _, h := range handles {
		e := s.table[h]
		if e == nil || e.phase != PhaseActive || e.activatedThisTick {
			continue
		}
		s.guard(e, func() {
			e.elapsed += dt
			if e.period > 0 {
				e.periodRemaining -= dt
				for e.periodRemaining <= 0 && e.phase == PhaseActive {
					s.firePeriodic(e)
					e.periodRemaining += e.period
				}
			}
			if e.phase == PhaseActive && e.elapsed >= e.duration {
				e.phase = PhaseCompleted
			}
		})
	}

	// Pass 3: terminal sweep.
	s.sweep()

	for _, h := range s.order {
		s.table[h].activatedThisTick = false
	}
}

// Cancel retires the effect and every entry in its activation group.
// Idempotent: cancelling an unknown, completed, or already-cancelled
// handle is a no-op. Processed synchronously, before the next tick.
func (s *Scheduler) Cancel(h Handle) {
	for _, hh := range append([]Handle(nil), s.order...) {
		e := s.table[hh]
		if e == nil {
			continue
		}
		if e.handle == h || e.root == h {
			s.terminate(e, PhaseCancelled)
		}
	}
}

// CancelOwnedBy retires every effect the actor owns. Called when the
// owner dies or leaves the simulation.
func (s *Scheduler) CancelOwnedBy(owner ActorID) {
	for _, hh := range append([]Handle(nil), s.order...) {
		e := s.table[hh]
		if e == nil || e.owner != owner {
			continue
		}
		s.terminate(e, PhaseCancelled)
	}
}

// fireDelayExpiry handles the Pending -> Active transition: resolve
// against the snapshot taken now, not at activation time.
func (s *Scheduler) fireDelayExpiry(e *scheduledEffect) {
	e.phase = PhaseActive
	e.activatedThisTick = true
	s.transitioned(e)

	switch v := e.spec.(type) {
	case catalog.Airstrike:
		targets := Resolve(e.origin, e.dir, geom.Sphere{Radius: v.Radius}, AffectEnemies, e.ownerTeam, 0, s.targets.Snapshot())
		s.applyTo(e, targets, ResolvedEffect{Kind: ApplyDamage, Amount: v.Amount})
		e.phase = PhaseCompleted
	case catalog.SupplyDrop:
		// The crate lands and supplies whoever is already there.
		s.firePeriodic(e)
	}
}

// firePeriodic performs one periodic application, re-resolving the
// target set against a fresh snapshot.
func (s *Scheduler) firePeriodic(e *scheduledEffect) {
	snap := s.targets.Snapshot()

	switch v := e.spec.(type) {
	case catalog.Heal:
		s.applyTo(e, s.healTargets(e, v.Radius, snap), ResolvedEffect{Kind: ApplyHeal, Amount: e.perApplication})

	case catalog.Turret:
		targets := Resolve(e.origin, e.dir, geom.Sphere{Radius: v.Range}, AffectEnemies, e.ownerTeam, 1, snap)
		s.applyTo(e, targets, ResolvedEffect{Kind: ApplyDamage, Amount: v.DamagePerShot})

	case catalog.DomeShield:
		targets := Resolve(e.origin, e.dir, geom.Sphere{Radius: v.Radius}, AffectAllies, e.ownerTeam, 0, snap)
		s.applyTo(e, targets, ResolvedEffect{Kind: ApplyBlock, DurationSeconds: v.IntervalSeconds, Stacking: StackRefresh})

	case catalog.HealingField:
		targets := Resolve(e.origin, e.dir, geom.Sphere{Radius: v.Radius}, AffectAllies, e.ownerTeam, 0, snap)
		s.applyTo(e, targets, ResolvedEffect{Kind: ApplyHeal, Amount: v.HealPerSecond})

	case catalog.SupplyDrop:
		targets := Resolve(e.origin, e.dir, geom.Sphere{Radius: v.Radius}, AffectAllies, e.ownerTeam, 0, snap)
		s.applyTo(e, targets, ResolvedEffect{Kind: ApplyResupply, Amount: v.HealAmount})

	default:
		slog.Error("periodic fire on non-periodic effect", "handle", e.handle, "effect", e.spec.Kind())
	}
}

// applyInstant performs the single application of a non-stored
// effect. The switch is exhaustive over the instant kinds; stored
// kinds never reach here.
func (s *Scheduler) applyInstant(e *scheduledEffect) {
	snap := s.targets.Snapshot()

	switch v := e.spec.(type) {
	case catalog.Damage:
		targets := Resolve(e.origin, e.dir, v.Shape, AffectEnemies, e.ownerTeam, 0, snap)
		s.applyTo(e, targets, ResolvedEffect{Kind: ApplyDamage, Amount: v.Amount})

	case catalog.Stun:
		targets := Resolve(e.origin, e.dir, geom.Sphere{Radius: v.Radius}, AffectEnemies, e.ownerTeam, 0, snap)
		s.applyTo(e, targets, ResolvedEffect{Kind: ApplyStun, DurationSeconds: v.DurationSeconds, Stacking: StackRefresh})

	case catalog.Heal:
		s.applyTo(e, s.healTargets(e, v.Radius, snap), ResolvedEffect{Kind: ApplyHeal, Amount: v.Amount})

	case catalog.Shield:
		s.applySelf(e, ResolvedEffect{Kind: ApplyShield, Amount: v.Health, DurationSeconds: v.DurationSeconds})

	case catalog.SpeedBoost:
		s.applySelf(e, ResolvedEffect{Kind: ApplySpeedBoost, Multiplier: v.Multiplier, DurationSeconds: v.DurationSeconds, Stacking: StackHighestWins})

	case catalog.Fortify:
		s.applySelf(e, ResolvedEffect{Kind: ApplyFortify, Multiplier: v.Multiplier, DurationSeconds: v.DurationSeconds, Stacking: StackHighestWins})

	case catalog.Dash:
		dest := e.origin.Add(e.dir.Normalize().Scale(v.Distance))
		s.applySelf(e, ResolvedEffect{Kind: ApplyDisplace, Destination: dest})

	case catalog.Teleport:
		aim := e.dir
		if l := aim.Len(); l > v.Range {
			aim = aim.Normalize().Scale(v.Range)
		}
		s.applySelf(e, ResolvedEffect{Kind: ApplyDisplace, Destination: e.origin.Add(aim)})

	case catalog.Wallhack:
		s.applySelf(e, ResolvedEffect{Kind: ApplyReveal, DurationSeconds: v.DurationSeconds, Stacking: StackRefresh})

	case catalog.Scan:
		targets := Resolve(e.origin, e.dir, geom.Sphere{Radius: v.Radius}, AffectEnemies, e.ownerTeam, 0, snap)
		s.applyTo(e, targets, ResolvedEffect{Kind: ApplyReveal, DurationSeconds: v.DurationSeconds, Stacking: StackRefresh})

	default:
		slog.Error("instant application on stored effect kind", "handle", e.handle, "effect", e.spec.Kind())
	}
}

// ApplyPassiveModifier applies a passive ability's effect as a
// permanent status (duration 0). Only self-status kinds qualify;
// anything else in a passive loadout is a catalog mistake and is
// skipped with a warning.
func (s *Scheduler) ApplyPassiveModifier(owner ActorID, team TeamID, spec catalog.EffectSpec) {
	e := &scheduledEffect{owner: owner, ownerTeam: team, spec: spec}

	switch v := spec.(type) {
	case catalog.SpeedBoost:
		s.applySelf(e, ResolvedEffect{Kind: ApplySpeedBoost, Multiplier: v.Multiplier, Stacking: StackHighestWins})
	case catalog.Fortify:
		s.applySelf(e, ResolvedEffect{Kind: ApplyFortify, Multiplier: v.Multiplier, Stacking: StackHighestWins})
	case catalog.Shield:
		s.applySelf(e, ResolvedEffect{Kind: ApplyShield, Amount: v.Health})
	case catalog.Wallhack:
		s.applySelf(e, ResolvedEffect{Kind: ApplyReveal, Stacking: StackRefresh})
	default:
		slog.Warn("passive ability with non-modifier effect ignored",
			"owner", owner, "effect", spec.Kind())
	}
}

// WouldHit reports whether activating the effect now would resolve at
// least one target. Used to gate requires-target abilities before the
// resource is consumed; self-directed kinds always hit.
func (s *Scheduler) WouldHit(owner ActorID, team TeamID, spec catalog.EffectSpec, origin, dir geom.Vec3) bool {
	snap := s.targets.Snapshot()

	switch v := spec.(type) {
	case catalog.Damage:
		return len(Resolve(origin, dir, v.Shape, AffectEnemies, team, 1, snap)) > 0
	case catalog.Stun:
		return len(Resolve(origin, dir, geom.Sphere{Radius: v.Radius}, AffectEnemies, team, 1, snap)) > 0
	case catalog.Scan:
		return len(Resolve(origin, dir, geom.Sphere{Radius: v.Radius}, AffectEnemies, team, 1, snap)) > 0
	case catalog.Airstrike:
		return len(Resolve(origin, dir, geom.Sphere{Radius: v.Radius}, AffectEnemies, team, 1, snap)) > 0
	default:
		return true
	}
}

func (s *Scheduler) healTargets(e *scheduledEffect, radius float64, snap []TargetSnapshot) []TargetSnapshot {
	if radius <= 0 {
		// Caster only; the applier validates existence.
		return []TargetSnapshot{{ID: e.owner}}
	}
	return Resolve(e.origin, e.dir, geom.Sphere{Radius: radius}, AffectAllies, e.ownerTeam, 0, snap)
}

func (s *Scheduler) applySelf(e *scheduledEffect, eff ResolvedEffect) {
	s.applyTo(e, []TargetSnapshot{{ID: e.owner}}, eff)
}

// applyTo delivers one resolved application to each target. A target
// the applier no longer knows is a silent no-op, not an engine error.
func (s *Scheduler) applyTo(e *scheduledEffect, targets []TargetSnapshot, eff ResolvedEffect) {
	eff.Source = e.owner
	eff.Handle = e.handle

	for _, tgt := range targets {
		if err := s.applier.Apply(tgt.ID, eff); err != nil {
			slog.Debug("application skipped",
				"handle", e.handle, "target", tgt.ID, "reason", err)
			continue
		}
		s.rec.Record(journal.Event{
			Type:     journal.EventApplication,
			SimTime:  s.simTime,
			ActorID:  string(e.owner),
			Handle:   uint64(e.handle),
			TargetID: string(tgt.ID),
			Effect:   string(eff.Kind),
			Amount:   eff.Amount,
		})
	}
}

// guard runs one entry's tick work behind a panic boundary. A
// collaborator panic cancels that single effect; the rest of the tick
// proceeds.
func (s *Scheduler) guard(e *scheduledEffect, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("collaborator panic, cancelling effect",
				"handle", e.handle, "effect", e.spec.Kind(), "panic", r)
			if !e.phase.terminal() {
				e.phase = PhaseCancelled
			}
		}
	}()
	fn()
}

// terminate synchronously retires a non-terminal entry.
func (s *Scheduler) terminate(e *scheduledEffect, phase Phase) {
	if e.phase.terminal() {
		return
	}
	e.phase = phase
	delete(s.table, e.handle)
	s.dropFromOrder(e.handle)
	s.finish(e)
}

// sweep removes terminal entries at the end of a tick and fires their
// cleanup notification.
func (s *Scheduler) sweep() {
	n := 0
	for _, h := range s.order {
		e := s.table[h]
		if e == nil {
			continue
		}
		if e.phase.terminal() {
			delete(s.table, h)
			s.finish(e)
			continue
		}
		s.order[n] = h
		n++
	}
	s.order = s.order[:n]
}

// finish fires the cleanup notification exactly once per entry,
// whichever path retired it.
func (s *Scheduler) finish(e *scheduledEffect) {
	if e.finished {
		return
	}
	e.finished = true
	s.transitioned(e)
}

// transitioned notifies the sink about a phase change and journals
// it. Sink panics are contained; notifications are fire-and-forget.
func (s *Scheduler) transitioned(e *scheduledEffect) {
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("notification sink panic",
				"handle", e.handle, "phase", e.phase, "panic", r)
		}
	}()
	s.rec.Record(journal.Event{
		Type:    journal.EventLifecycle,
		SimTime: s.simTime,
		ActorID: string(e.owner),
		Handle:  uint64(e.handle),
		Effect:  string(e.spec.Kind()),
		Phase:   e.phase.String(),
	})
	s.notify.OnEffectLifecycle(e.handle, e.phase)
}

func (s *Scheduler) dropFromOrder(h Handle) {
	for i, hh := range s.order {
		if hh == h {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}
