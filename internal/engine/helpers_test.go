package engine

import (
	"fmt"

	"github.com/okoreev/arenacore/internal/catalog"
	"github.com/okoreev/arenacore/internal/geom"
)

// fakeActor is one entity in the fake world.
type fakeActor struct {
	id    ActorID
	pos   geom.Vec3
	alive bool
	team  TeamID
}

// application is one recorded EffectApplier call.
type application struct {
	target ActorID
	eff    ResolvedEffect
}

// fakeWorld implements TargetProvider and EffectApplier over a
// mutable actor set. Snapshot always reflects current positions, so
// moving an actor between ticks changes subsequent resolutions.
type fakeWorld struct {
	order  []ActorID
	actors map[ActorID]*fakeActor

	applications []application
	panicOn      ResolvedKind // Apply panics when delivering this kind
}

func newFakeWorld() *fakeWorld {
	return &fakeWorld{actors: make(map[ActorID]*fakeActor)}
}

func (w *fakeWorld) addActor(id ActorID, team TeamID, pos geom.Vec3) {
	w.actors[id] = &fakeActor{id: id, pos: pos, alive: true, team: team}
	w.order = append(w.order, id)
}

func (w *fakeWorld) move(id ActorID, pos geom.Vec3) {
	w.actors[id].pos = pos
}

func (w *fakeWorld) kill(id ActorID) {
	w.actors[id].alive = false
}

func (w *fakeWorld) Snapshot() []TargetSnapshot {
	out := make([]TargetSnapshot, 0, len(w.order))
	for _, id := range w.order {
		a := w.actors[id]
		out = append(out, TargetSnapshot{ID: a.id, Position: a.pos, Alive: a.alive, Team: a.team})
	}
	return out
}

func (w *fakeWorld) Apply(target ActorID, eff ResolvedEffect) error {
	if w.panicOn != "" && eff.Kind == w.panicOn {
		panic("applier blew up")
	}
	if _, ok := w.actors[target]; !ok {
		return fmt.Errorf("no such target %s", target)
	}
	w.applications = append(w.applications, application{target: target, eff: eff})
	return nil
}

// applicationsTo returns recorded applications of one kind delivered
// to one target.
func (w *fakeWorld) applicationsTo(target ActorID, kind ResolvedKind) []application {
	var out []application
	for _, a := range w.applications {
		if a.target == target && a.eff.Kind == kind {
			out = append(out, a)
		}
	}
	return out
}

// lifecycleEvent is one recorded NotificationSink call.
type lifecycleEvent struct {
	handle Handle
	phase  Phase
}

type recordingSink struct {
	events []lifecycleEvent
}

func (s *recordingSink) OnEffectLifecycle(h Handle, phase Phase) {
	s.events = append(s.events, lifecycleEvent{handle: h, phase: phase})
}

// terminalCount counts terminal notifications for a handle; the
// cleanup guarantee says it is exactly 1 for every retired effect.
func (s *recordingSink) terminalCount(h Handle) int {
	n := 0
	for _, ev := range s.events {
		if ev.handle == h && ev.phase.terminal() {
			n++
		}
	}
	return n
}

func singleEffectAbility(id catalog.AbilityID, kind catalog.AbilityKind, cooldown float64, spec catalog.EffectSpec) *catalog.Ability {
	return &catalog.Ability{
		ID:              id,
		Kind:            kind,
		CooldownSeconds: cooldown,
		MaxCharges:      1,
		Effects:         []catalog.EffectSpec{spec},
	}
}
