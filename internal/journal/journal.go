package journal

// Package journal records the combat event stream the engine emits:
// ability activations, effect applications, and lifecycle transitions.
// Recorders are outward sinks only; the engine never reads a journal
// back during simulation, so recording cannot affect determinism.

// EventType discriminates journal entries.
type EventType string

const (
	EventActivation  EventType = "activation"
	EventApplication EventType = "application"
	EventLifecycle   EventType = "lifecycle"
)

// Event is one journal entry. SimTime is cumulative simulation
// seconds, not wall clock, so replays produce identical journals.
type Event struct {
	Type      EventType
	SimTime   float64
	ActorID   string
	AbilityID string
	Handle    uint64
	TargetID  string
	Effect    string
	Amount    float64
	Phase     string
}

// Recorder accepts journal events. Implementations must not re-enter
// the engine from Record.
type Recorder interface {
	Record(ev Event)
}

// Nop discards every event.
type Nop struct{}

func (Nop) Record(Event) {}
