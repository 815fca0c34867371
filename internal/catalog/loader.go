package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/okoreev/arenacore/internal/geom"
)

// rawEffect is the YAML shape of an effect entry. It exists only at
// the parse boundary; buildEffect converts it to a tagged variant and
// rejects fields that make no sense for the declared kind.
type rawEffect struct {
	Kind string `yaml:"kind"`

	Amount          float64 `yaml:"amount"`
	Radius          float64 `yaml:"radius"`
	Range           float64 `yaml:"range"`
	Distance        float64 `yaml:"distance"`
	Health          float64 `yaml:"health"`
	Multiplier      float64 `yaml:"multiplier"`
	DurationSeconds float64 `yaml:"duration_seconds"`
	DelaySeconds    float64 `yaml:"delay_seconds"`
	IntervalSeconds float64 `yaml:"interval_seconds"`
	OverTimeSeconds float64 `yaml:"over_time_seconds"`
	HealPerSecond   float64 `yaml:"heal_per_second"`
	DamagePerShot   float64 `yaml:"damage_per_shot"`
	HealAmount      float64 `yaml:"heal_amount"`

	// Damage shape selection: sphere (default), cone, or line.
	Shape        string  `yaml:"shape"`
	HalfAngleDeg float64 `yaml:"half_angle_deg"`
	Length       float64 `yaml:"length"`
	Width        float64 `yaml:"width"`
}

type rawAbility struct {
	ID                      string      `yaml:"id"`
	Kind                    string      `yaml:"kind"`
	CooldownSeconds         float64     `yaml:"cooldown_seconds"`
	MaxCharges              int         `yaml:"max_charges"`
	RequiresTarget          bool        `yaml:"requires_target"`
	ChargeRequired          float64     `yaml:"charge_required"`
	ChargeFromDamage        float64     `yaml:"charge_from_damage"`
	ChargeFromKills         float64     `yaml:"charge_from_kills"`
	ChargeOverTimePerSecond float64     `yaml:"charge_over_time_per_second"`
	Effects                 []rawEffect `yaml:"effects"`
}

type rawCatalog struct {
	Abilities []rawAbility `yaml:"abilities"`
}

// Load reads and validates an ability catalog from a YAML file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Parse builds a catalog from YAML bytes.
func Parse(data []byte) (*Catalog, error) {
	var raw rawCatalog
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing catalog yaml: %w", err)
	}
	if len(raw.Abilities) == 0 {
		return nil, fmt.Errorf("catalog has no abilities")
	}

	abilities := make([]*Ability, 0, len(raw.Abilities))
	for _, ra := range raw.Abilities {
		a, err := buildAbility(ra)
		if err != nil {
			return nil, fmt.Errorf("ability %q: %w", ra.ID, err)
		}
		abilities = append(abilities, a)
	}
	return New(abilities)
}

func buildAbility(ra rawAbility) (*Ability, error) {
	if ra.ID == "" {
		return nil, fmt.Errorf("missing id")
	}

	var kind AbilityKind
	switch ra.Kind {
	case "passive":
		kind = KindPassive
	case "active":
		kind = KindActive
	case "ultimate":
		kind = KindUltimate
	default:
		return nil, fmt.Errorf("unknown ability kind %q", ra.Kind)
	}

	if ra.CooldownSeconds < 0 {
		return nil, fmt.Errorf("negative cooldown_seconds")
	}
	if kind == KindUltimate && ra.ChargeRequired <= 0 {
		return nil, fmt.Errorf("ultimate needs charge_required > 0")
	}
	if ra.ChargeFromDamage < 0 || ra.ChargeFromKills < 0 || ra.ChargeOverTimePerSecond < 0 {
		return nil, fmt.Errorf("negative charge accrual rate")
	}
	if len(ra.Effects) == 0 {
		return nil, fmt.Errorf("no effects")
	}

	maxCharges := ra.MaxCharges
	if kind == KindActive && maxCharges < 1 {
		maxCharges = 1
	}

	a := &Ability{
		ID:                      AbilityID(ra.ID),
		Kind:                    kind,
		CooldownSeconds:         ra.CooldownSeconds,
		MaxCharges:              maxCharges,
		RequiresTarget:          ra.RequiresTarget,
		ChargeRequired:          ra.ChargeRequired,
		ChargeFromDamage:        ra.ChargeFromDamage,
		ChargeFromKills:         ra.ChargeFromKills,
		ChargeOverTimePerSecond: ra.ChargeOverTimePerSecond,
	}

	for i, re := range ra.Effects {
		spec, err := buildEffect(re)
		if err != nil {
			return nil, fmt.Errorf("effect %d: %w", i, err)
		}
		a.Effects = append(a.Effects, spec)
	}
	return a, nil
}

func buildEffect(re rawEffect) (EffectSpec, error) {
	if err := checkNonNegative(re); err != nil {
		return nil, err
	}

	switch EffectKind(re.Kind) {
	case EffectDamage:
		shape, err := buildShape(re)
		if err != nil {
			return nil, err
		}
		if re.Amount <= 0 {
			return nil, fmt.Errorf("damage needs amount > 0")
		}
		return Damage{Amount: re.Amount, Shape: shape}, nil

	case EffectStun:
		if re.DurationSeconds <= 0 {
			return nil, fmt.Errorf("stun needs duration_seconds > 0")
		}
		return Stun{DurationSeconds: re.DurationSeconds, Radius: re.Radius}, nil

	case EffectHeal:
		if re.Amount <= 0 {
			return nil, fmt.Errorf("heal needs amount > 0")
		}
		return Heal{Amount: re.Amount, Radius: re.Radius, OverTimeSeconds: re.OverTimeSeconds}, nil

	case EffectShield:
		if re.Health <= 0 || re.DurationSeconds <= 0 {
			return nil, fmt.Errorf("shield needs health and duration_seconds > 0")
		}
		return Shield{Health: re.Health, DurationSeconds: re.DurationSeconds}, nil

	case EffectSpeedBoost:
		if re.Multiplier <= 0 || re.DurationSeconds <= 0 {
			return nil, fmt.Errorf("speed_boost needs multiplier and duration_seconds > 0")
		}
		return SpeedBoost{Multiplier: re.Multiplier, DurationSeconds: re.DurationSeconds}, nil

	case EffectDash:
		if re.Distance <= 0 {
			return nil, fmt.Errorf("dash needs distance > 0")
		}
		return Dash{Distance: re.Distance}, nil

	case EffectTeleport:
		if re.Range <= 0 {
			return nil, fmt.Errorf("teleport needs range > 0")
		}
		return Teleport{Range: re.Range}, nil

	case EffectWallhack:
		if re.DurationSeconds <= 0 {
			return nil, fmt.Errorf("wallhack needs duration_seconds > 0")
		}
		return Wallhack{DurationSeconds: re.DurationSeconds}, nil

	case EffectScan:
		if re.Radius <= 0 || re.DurationSeconds <= 0 {
			return nil, fmt.Errorf("scan needs radius and duration_seconds > 0")
		}
		return Scan{Radius: re.Radius, DurationSeconds: re.DurationSeconds}, nil

	case EffectAirstrike:
		if re.DelaySeconds <= 0 || re.Radius <= 0 || re.Amount <= 0 {
			return nil, fmt.Errorf("airstrike needs delay_seconds, radius and amount > 0")
		}
		return Airstrike{DelaySeconds: re.DelaySeconds, Radius: re.Radius, Amount: re.Amount}, nil

	case EffectTurret:
		if re.DurationSeconds <= 0 || re.Range <= 0 || re.DamagePerShot <= 0 {
			return nil, fmt.Errorf("turret needs duration_seconds, range and damage_per_shot > 0")
		}
		interval := re.IntervalSeconds
		if interval <= 0 {
			interval = 1
		}
		return Turret{
			DurationSeconds:     re.DurationSeconds,
			Range:               re.Range,
			FireIntervalSeconds: interval,
			DamagePerShot:       re.DamagePerShot,
		}, nil

	case EffectDomeShield:
		if re.Radius <= 0 || re.DurationSeconds <= 0 {
			return nil, fmt.Errorf("dome_shield needs radius and duration_seconds > 0")
		}
		interval := re.IntervalSeconds
		if interval <= 0 {
			interval = 1
		}
		return DomeShield{Radius: re.Radius, DurationSeconds: re.DurationSeconds, IntervalSeconds: interval}, nil

	case EffectHealingField:
		if re.Radius <= 0 || re.HealPerSecond <= 0 || re.DurationSeconds <= 0 {
			return nil, fmt.Errorf("healing_field needs radius, heal_per_second and duration_seconds > 0")
		}
		return HealingField{Radius: re.Radius, HealPerSecond: re.HealPerSecond, DurationSeconds: re.DurationSeconds}, nil

	case EffectSupplyDrop:
		if re.Radius <= 0 || re.DurationSeconds <= 0 || re.HealAmount <= 0 {
			return nil, fmt.Errorf("supply_drop needs radius, duration_seconds and heal_amount > 0")
		}
		interval := re.IntervalSeconds
		if interval <= 0 {
			interval = 1
		}
		return SupplyDrop{
			DelaySeconds:    re.DelaySeconds,
			Radius:          re.Radius,
			DurationSeconds: re.DurationSeconds,
			IntervalSeconds: interval,
			HealAmount:      re.HealAmount,
		}, nil

	case EffectFortify:
		if re.Multiplier <= 0 || re.DurationSeconds <= 0 {
			return nil, fmt.Errorf("fortify needs multiplier and duration_seconds > 0")
		}
		return Fortify{Multiplier: re.Multiplier, DurationSeconds: re.DurationSeconds}, nil

	default:
		return nil, fmt.Errorf("unknown effect kind %q", re.Kind)
	}
}

func buildShape(re rawEffect) (geom.Shape, error) {
	switch re.Shape {
	case "", "sphere":
		if re.Radius <= 0 {
			return nil, fmt.Errorf("sphere shape needs radius > 0")
		}
		return geom.Sphere{Radius: re.Radius}, nil
	case "cone":
		if re.Range <= 0 || re.HalfAngleDeg <= 0 {
			return nil, fmt.Errorf("cone shape needs range and half_angle_deg > 0")
		}
		return geom.Cone{Range: re.Range, HalfAngleDeg: re.HalfAngleDeg}, nil
	case "line":
		if re.Length <= 0 || re.Width <= 0 {
			return nil, fmt.Errorf("line shape needs length and width > 0")
		}
		return geom.Line{Length: re.Length, Width: re.Width}, nil
	default:
		return nil, fmt.Errorf("unknown shape %q", re.Shape)
	}
}

func checkNonNegative(re rawEffect) error {
	for name, v := range map[string]float64{
		"amount":           re.Amount,
		"radius":           re.Radius,
		"range":            re.Range,
		"distance":         re.Distance,
		"health":           re.Health,
		"duration_seconds": re.DurationSeconds,
		"delay_seconds":    re.DelaySeconds,
		"interval_seconds": re.IntervalSeconds,
		"over_time_seconds": re.OverTimeSeconds,
		"heal_per_second":  re.HealPerSecond,
		"damage_per_shot":  re.DamagePerShot,
		"heal_amount":      re.HealAmount,
	} {
		if v < 0 {
			return fmt.Errorf("negative %s", name)
		}
	}
	return nil
}
