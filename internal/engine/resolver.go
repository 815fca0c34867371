package engine

import (
	"sort"

	"github.com/okoreev/arenacore/internal/geom"
)

// Affiliation filters resolved targets relative to the owner's team.
type Affiliation int

const (
	// AffectEnemies selects living candidates on other teams.
	AffectEnemies Affiliation = iota
	// AffectAllies selects living candidates on the owner's team,
	// the owner included.
	AffectAllies
	// AffectAll selects every living candidate.
	AffectAll
)

// Resolve selects the targets inside shape, placed at origin and
// aimed along dir, from a frozen candidate snapshot. Pure and
// deterministic: inclusion is alive && point-in-shape && affiliation,
// and when maxTargets > 0 caps the set ordering by ascending distance
// then id so selection is reproducible. Callers pass a fresh snapshot
// on every resolution; periodic effects re-resolve each period rather
// than reusing a stale set.
func Resolve(origin, dir geom.Vec3, shape geom.Shape, aff Affiliation, ownerTeam TeamID, maxTargets int, candidates []TargetSnapshot) []TargetSnapshot {
	selected := make([]TargetSnapshot, 0, len(candidates))
	for _, c := range candidates {
		if !c.Alive {
			continue
		}
		switch aff {
		case AffectEnemies:
			if c.Team == ownerTeam {
				continue
			}
		case AffectAllies:
			if c.Team != ownerTeam {
				continue
			}
		}
		if !shape.Contains(origin, dir, c.Position) {
			continue
		}
		selected = append(selected, c)
	}

	sort.Slice(selected, func(i, j int) bool {
		di := origin.DistanceTo(selected[i].Position)
		dj := origin.DistanceTo(selected[j].Position)
		if di != dj {
			return di < dj
		}
		return selected[i].ID < selected[j].ID
	})

	if maxTargets > 0 && len(selected) > maxTargets {
		selected = selected[:maxTargets]
	}
	return selected
}
