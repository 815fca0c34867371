package engine

import "errors"

// Activation failures are returned as typed errors, never panicked.
// Callers match with errors.Is and handle locally (HUD feedback).
var (
	ErrUnknownAbility     = errors.New("unknown ability")
	ErrUnknownActor       = errors.New("unknown actor")
	ErrOnCooldown         = errors.New("ability on cooldown")
	ErrInsufficientCharge = errors.New("insufficient ultimate charge")
	ErrActorDead          = errors.New("actor is dead")
	ErrNoValidTargets     = errors.New("no valid targets")
	ErrPassiveAbility     = errors.New("passive ability cannot be activated")
)
