package main

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/okoreev/arenacore/internal/catalog"
	"github.com/okoreev/arenacore/internal/engine"
	"github.com/okoreev/arenacore/internal/geom"
)

// bot is one scripted combatant in the demo arena.
type bot struct {
	id      engine.ActorID
	team    engine.TeamID
	pos     geom.Vec3
	hp      float64
	maxHP   float64
	shield  float64
	speed   float64
	loadout []catalog.AbilityID

	stunRemaining float64
	nextAction    float64
}

// demoWorld is a minimal game-state sink driving the engine from a
// scripted bot match. It implements TargetProvider, EffectApplier and
// NotificationSink; real integrations replace it with the game server.
type demoWorld struct {
	bots  []*bot
	byID  map[engine.ActorID]*bot
	rng   *rand.Rand
	clock float64

	// damage dealt during the current tick, keyed by source actor,
	// drained by the driver and fed back as ultimate charge credit.
	damageCredits map[engine.ActorID]float64
}

func newDemoWorld() *demoWorld {
	return &demoWorld{
		byID:          make(map[engine.ActorID]*bot),
		rng:           rand.New(rand.NewSource(1)),
		damageCredits: make(map[engine.ActorID]float64),
	}
}

// seed registers two teams of bots, splitting the catalog between
// them so every ability kind gets exercised.
func (w *demoWorld) seed(eng *engine.Engine, cat *catalog.Catalog) error {
	ids := cat.IDs()
	if len(ids) == 0 {
		return fmt.Errorf("empty catalog")
	}

	for i := 0; i < 6; i++ {
		team := engine.TeamID(i % 2)
		b := &bot{
			id:    engine.ActorID(fmt.Sprintf("bot-%d", i)),
			team:  team,
			pos:   geom.Vec3{X: float64(i * 8), Y: 0, Z: float64(int(team) * 40)},
			hp:    200,
			maxHP: 200,
			speed: 1,
			// Round-robin loadouts of up to three abilities.
			loadout:    pickLoadout(ids, i),
			nextAction: 1 + float64(i)*0.5,
		}
		w.bots = append(w.bots, b)
		w.byID[b.id] = b
		if err := eng.AddActor(b.id, b.team, b.loadout); err != nil {
			return fmt.Errorf("adding %s: %w", b.id, err)
		}
	}
	return nil
}

func pickLoadout(ids []catalog.AbilityID, seat int) []catalog.AbilityID {
	n := len(ids)
	count := 3
	if count > n {
		count = n
	}
	loadout := make([]catalog.AbilityID, 0, count)
	for j := 0; j < count; j++ {
		loadout = append(loadout, ids[(seat+j)%n])
	}
	return loadout
}

// Snapshot implements engine.TargetProvider.
func (w *demoWorld) Snapshot() []engine.TargetSnapshot {
	out := make([]engine.TargetSnapshot, 0, len(w.bots))
	for _, b := range w.bots {
		out = append(out, engine.TargetSnapshot{
			ID:       b.id,
			Position: b.pos,
			Alive:    b.hp > 0,
			Team:     b.team,
		})
	}
	return out
}

// Apply implements engine.EffectApplier.
func (w *demoWorld) Apply(target engine.ActorID, eff engine.ResolvedEffect) error {
	b := w.byID[target]
	if b == nil {
		return fmt.Errorf("no such actor %s", target)
	}

	switch eff.Kind {
	case engine.ApplyDamage:
		dealt := eff.Amount
		if b.shield > 0 {
			absorbed := min(b.shield, dealt)
			b.shield -= absorbed
			dealt -= absorbed
		}
		b.hp -= dealt
		if eff.Source != target {
			w.damageCredits[eff.Source] += eff.Amount
		}
		if b.hp <= 0 {
			slog.Info("bot down", "bot", b.id, "by", eff.Source)
		}
	case engine.ApplyHeal, engine.ApplyResupply:
		b.hp = min(b.hp+eff.Amount, b.maxHP)
	case engine.ApplyStun:
		if eff.DurationSeconds > b.stunRemaining {
			b.stunRemaining = eff.DurationSeconds
		}
	case engine.ApplyShield, engine.ApplyBlock:
		b.shield = max(b.shield, eff.Amount)
	case engine.ApplySpeedBoost:
		b.speed = max(b.speed, eff.Multiplier)
	case engine.ApplyFortify, engine.ApplyReveal:
		// No combat model for these in the demo; acknowledged only.
	case engine.ApplyDisplace:
		b.pos = eff.Destination
	default:
		slog.Warn("unhandled application kind", "kind", eff.Kind)
	}
	return nil
}

// OnEffectLifecycle implements engine.NotificationSink.
func (w *demoWorld) OnEffectLifecycle(h engine.Handle, phase engine.Phase) {
	slog.Debug("effect lifecycle", "handle", h, "phase", phase)
}

// step advances bot movement by dt seconds.
func (w *demoWorld) step(dt float64) {
	w.clock += dt
	for _, b := range w.bots {
		if b.hp <= 0 {
			continue
		}
		if b.stunRemaining > 0 {
			b.stunRemaining -= dt
			continue
		}
		// Wander toward the enemy side with a little jitter.
		drift := geom.Vec3{
			X: (w.rng.Float64() - 0.5) * 2,
			Z: float64(1 - 2*int(b.team)),
		}
		b.pos = b.pos.Add(drift.Scale(3 * b.speed * dt))
	}
}

// act lets each live, unstunned bot fire the first ready ability in
// its loadout at the nearest living enemy.
func (w *demoWorld) act(eng *engine.Engine) {
	for _, b := range w.bots {
		if b.hp <= 0 || b.stunRemaining > 0 || w.clock < b.nextAction {
			continue
		}
		enemy := w.nearestEnemy(b)
		if enemy == nil {
			continue
		}
		dir := enemy.pos.Sub(b.pos).Normalize()
		for _, ab := range b.loadout {
			if !eng.CanActivate(b.id, ab) {
				continue
			}
			if _, err := eng.Activate(b.id, ab, b.pos, dir); err != nil {
				slog.Debug("activation refused", "bot", b.id, "ability", ab, "err", err)
				continue
			}
			break
		}
		b.nextAction = w.clock + 2 + w.rng.Float64()*2
	}
}

func (w *demoWorld) nearestEnemy(b *bot) *bot {
	var best *bot
	var bestDist float64
	for _, other := range w.bots {
		if other.team == b.team || other.hp <= 0 {
			continue
		}
		d := b.pos.DistanceTo(other.pos)
		if best == nil || d < bestDist {
			best, bestDist = other, d
		}
	}
	return best
}

// drainDamageCredits returns and clears this tick's per-actor damage
// totals.
func (w *demoWorld) drainDamageCredits() map[engine.ActorID]float64 {
	out := w.damageCredits
	w.damageCredits = make(map[engine.ActorID]float64)
	return out
}
