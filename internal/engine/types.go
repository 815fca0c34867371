package engine

import "github.com/okoreev/arenacore/internal/geom"

// ActorID identifies an entity in the simulation: players, bots, and
// anything an effect can select as a target.
type ActorID string

// TeamID groups actors for hostile/friendly target filtering.
type TeamID int

// Handle is an opaque reference to a scheduled effect. Handles are
// allocated monotonically, so replaying the same call sequence yields
// the same handle values.
type Handle uint64

// Phase is the lifecycle state of a scheduled effect.
type Phase int

const (
	PhasePending Phase = iota
	PhaseActive
	PhaseCompleted
	PhaseCancelled
)

func (p Phase) String() string {
	switch p {
	case PhasePending:
		return "pending"
	case PhaseActive:
		return "active"
	case PhaseCompleted:
		return "completed"
	case PhaseCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

func (p Phase) terminal() bool {
	return p == PhaseCompleted || p == PhaseCancelled
}

// TargetSnapshot is a read-only view of one entity, supplied fresh by
// the TargetProvider on every resolution. Never cached across ticks:
// entities move and die between ticks.
type TargetSnapshot struct {
	ID       ActorID
	Position geom.Vec3
	Alive    bool
	Team     TeamID
}

// TargetProvider supplies the current candidate pool. Called
// synchronously; must not re-enter the engine.
type TargetProvider interface {
	Snapshot() []TargetSnapshot
}

// ResolvedKind names the concrete mutation an application asks the
// game-state sink to perform.
type ResolvedKind string

const (
	ApplyDamage     ResolvedKind = "damage"
	ApplyHeal       ResolvedKind = "heal"
	ApplyStun       ResolvedKind = "stun"
	ApplyShield     ResolvedKind = "shield"
	ApplySpeedBoost ResolvedKind = "speed_boost"
	ApplyFortify    ResolvedKind = "fortify"
	ApplyReveal     ResolvedKind = "reveal"
	ApplyDisplace   ResolvedKind = "displace"
	ApplyBlock      ResolvedKind = "block"
	ApplyResupply   ResolvedKind = "resupply"
)

// StackPolicy tells the applier how a status application combines
// with one already active on the target.
type StackPolicy int

const (
	// StackNone: applications are independent (damage, heal).
	StackNone StackPolicy = iota
	// StackRefresh: reset the remaining duration to the new value.
	StackRefresh
	// StackHighestWins: keep whichever multiplier is strongest.
	StackHighestWins
)

// ResolvedEffect is one concrete application delivered to the
// EffectApplier. DurationSeconds 0 on a status kind means permanent
// (passive modifiers); the applier keeps it until the actor leaves.
type ResolvedEffect struct {
	Kind            ResolvedKind
	Source          ActorID
	Handle          Handle
	Amount          float64
	Multiplier      float64
	DurationSeconds float64
	Stacking        StackPolicy
	Destination     geom.Vec3
}

// EffectApplier mutates game state for one resolved application.
// Returning an error means the target no longer exists; the engine
// treats that as a silent no-op for that target.
type EffectApplier interface {
	Apply(target ActorID, eff ResolvedEffect) error
}

// NotificationSink receives effect lifecycle transitions for
// rendering and audio. Fire-and-forget: never awaited, never relied
// on for correctness.
type NotificationSink interface {
	OnEffectLifecycle(h Handle, phase Phase)
}

type nopSink struct{}

func (nopSink) OnEffectLifecycle(Handle, Phase) {}
