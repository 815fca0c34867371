package catalog

import (
	"fmt"
	"sort"
)

// AbilityID identifies an ability definition in the catalog.
type AbilityID string

// AbilityKind classifies how an ability is gated and triggered.
type AbilityKind int

const (
	KindPassive AbilityKind = iota
	KindActive
	KindUltimate
)

func (k AbilityKind) String() string {
	switch k {
	case KindPassive:
		return "passive"
	case KindActive:
		return "active"
	case KindUltimate:
		return "ultimate"
	default:
		return fmt.Sprintf("AbilityKind(%d)", int(k))
	}
}

// Ability is an immutable ability definition. Loaded once at startup,
// never mutated afterwards; the engine only reads it.
type Ability struct {
	ID   AbilityID
	Kind AbilityKind

	// CooldownSeconds is the charge refill time for actives and the
	// post-activation lockout for ultimates.
	CooldownSeconds float64

	// MaxCharges is how many stacked uses an active ability holds.
	// At least 1 for actives; ignored for passives and ultimates.
	MaxCharges int

	// RequiresTarget makes activation fail (without consuming the
	// resource) when target resolution at cast time selects nobody.
	RequiresTarget bool

	// Ultimate charge accrual parameters.
	ChargeRequired          float64
	ChargeFromDamage        float64
	ChargeFromKills         float64
	ChargeOverTimePerSecond float64

	Effects []EffectSpec
}

// Catalog is the immutable set of ability definitions.
type Catalog struct {
	byID map[AbilityID]*Ability
	ids  []AbilityID
}

// New builds a catalog from definitions, rejecting duplicate ids.
func New(abilities []*Ability) (*Catalog, error) {
	c := &Catalog{byID: make(map[AbilityID]*Ability, len(abilities))}
	for _, a := range abilities {
		if _, dup := c.byID[a.ID]; dup {
			return nil, fmt.Errorf("duplicate ability id %q", a.ID)
		}
		c.byID[a.ID] = a
		c.ids = append(c.ids, a.ID)
	}
	sort.Slice(c.ids, func(i, j int) bool { return c.ids[i] < c.ids[j] })
	return c, nil
}

// Get returns the ability definition or nil if unknown.
func (c *Catalog) Get(id AbilityID) *Ability {
	return c.byID[id]
}

// IDs returns all ability ids in sorted order.
func (c *Catalog) IDs() []AbilityID {
	out := make([]AbilityID, len(c.ids))
	copy(out, c.ids)
	return out
}

// Len returns the number of abilities in the catalog.
func (c *Catalog) Len() int {
	return len(c.ids)
}
