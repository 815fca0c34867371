package catalog

import "github.com/okoreev/arenacore/internal/geom"

// EffectKind names one effect family. The set is closed: every switch
// over EffectSpec in the scheduler and applier handles all of these.
type EffectKind string

const (
	EffectDamage       EffectKind = "damage"
	EffectStun         EffectKind = "stun"
	EffectHeal         EffectKind = "heal"
	EffectShield       EffectKind = "shield"
	EffectSpeedBoost   EffectKind = "speed_boost"
	EffectDash         EffectKind = "dash"
	EffectTeleport     EffectKind = "teleport"
	EffectWallhack     EffectKind = "wallhack"
	EffectScan         EffectKind = "scan"
	EffectAirstrike    EffectKind = "airstrike"
	EffectTurret       EffectKind = "turret"
	EffectDomeShield   EffectKind = "dome_shield"
	EffectHealingField EffectKind = "healing_field"
	EffectSupplyDrop   EffectKind = "supply_drop"
	EffectFortify      EffectKind = "fortify"
)

// EffectSpec is one tagged variant of the closed effect set. Each
// variant carries only the fields relevant to it; there is no shared
// bag of optional fields. The unexported method seals the set so the
// scheduler can match exhaustively.
type EffectSpec interface {
	Kind() EffectKind
	effectSpec()
}

// Damage deals Amount to every target inside Shape, no falloff.
type Damage struct {
	Amount float64
	Shape  geom.Shape
}

// Stun applies a timed immobilize status inside Radius. A second stun
// while one is active refreshes the remaining duration, never sums.
type Stun struct {
	DurationSeconds float64
	Radius          float64
}

// Heal restores Amount to allies inside Radius (Radius 0 means the
// caster only). With OverTimeSeconds > 0 the amount is split into
// equal sub-heals applied at one-second intervals.
type Heal struct {
	Amount          float64
	Radius          float64
	OverTimeSeconds float64
}

// Shield grants an absorption pool consumed before health, expiring
// after DurationSeconds even if unconsumed.
type Shield struct {
	Health          float64
	DurationSeconds float64
}

// SpeedBoost multiplies movement speed. Highest active multiplier
// wins; boosts do not stack multiplicatively.
type SpeedBoost struct {
	Multiplier      float64
	DurationSeconds float64
}

// Dash displaces the caster Distance units along the aim direction.
type Dash struct {
	Distance float64
}

// Teleport relocates the caster to the aimed point, capped at Range.
type Teleport struct {
	Range float64
}

// Wallhack reveals all enemies to the caster for the duration.
type Wallhack struct {
	DurationSeconds float64
}

// Scan marks enemies currently inside Radius as revealed.
type Scan struct {
	Radius          float64
	DurationSeconds float64
}

// Airstrike waits out DelaySeconds (the warning window), then deals
// one Damage application over Radius against the snapshot taken at
// delay expiry, not at cast time.
type Airstrike struct {
	DelaySeconds float64
	Radius       float64
	Amount       float64
}

// Turret deploys a scheduler-owned emplacement that fires at the
// nearest in-range hostile every FireIntervalSeconds until its
// duration elapses or its owner is removed.
type Turret struct {
	DurationSeconds     float64
	Range               float64
	FireIntervalSeconds float64
	DamagePerShot       float64
}

// DomeShield projects a protective dome; every interval it re-resolves
// who is inside and grants them block status until the next interval.
type DomeShield struct {
	Radius          float64
	DurationSeconds float64
	IntervalSeconds float64
}

// HealingField heals everyone inside Radius by HealPerSecond on each
// one-second interval, membership recomputed per interval.
type HealingField struct {
	Radius          float64
	HealPerSecond   float64
	DurationSeconds float64
}

// SupplyDrop falls for DelaySeconds, then periodically resupplies
// allies inside Radius with HealAmount health.
type SupplyDrop struct {
	DelaySeconds    float64
	Radius          float64
	DurationSeconds float64
	IntervalSeconds float64
	HealAmount      float64
}

// Fortify multiplies incoming damage by Multiplier (< 1 reduces).
// Highest active reduction wins, same policy as SpeedBoost.
type Fortify struct {
	Multiplier      float64
	DurationSeconds float64
}

func (Damage) Kind() EffectKind       { return EffectDamage }
func (Stun) Kind() EffectKind         { return EffectStun }
func (Heal) Kind() EffectKind         { return EffectHeal }
func (Shield) Kind() EffectKind       { return EffectShield }
func (SpeedBoost) Kind() EffectKind   { return EffectSpeedBoost }
func (Dash) Kind() EffectKind         { return EffectDash }
func (Teleport) Kind() EffectKind     { return EffectTeleport }
func (Wallhack) Kind() EffectKind     { return EffectWallhack }
func (Scan) Kind() EffectKind         { return EffectScan }
func (Airstrike) Kind() EffectKind    { return EffectAirstrike }
func (Turret) Kind() EffectKind       { return EffectTurret }
func (DomeShield) Kind() EffectKind   { return EffectDomeShield }
func (HealingField) Kind() EffectKind { return EffectHealingField }
func (SupplyDrop) Kind() EffectKind   { return EffectSupplyDrop }
func (Fortify) Kind() EffectKind      { return EffectFortify }

func (Damage) effectSpec()       {}
func (Stun) effectSpec()         {}
func (Heal) effectSpec()         {}
func (Shield) effectSpec()       {}
func (SpeedBoost) effectSpec()   {}
func (Dash) effectSpec()         {}
func (Teleport) effectSpec()     {}
func (Wallhack) effectSpec()     {}
func (Scan) effectSpec()         {}
func (Airstrike) effectSpec()    {}
func (Turret) effectSpec()       {}
func (DomeShield) effectSpec()   {}
func (HealingField) effectSpec() {}
func (SupplyDrop) effectSpec()   {}
func (Fortify) effectSpec()      {}
