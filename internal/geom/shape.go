package geom

import "math"

// Shape is an area-of-effect volume anchored at an origin point.
// Directional shapes (Cone, Line) additionally need an aim direction;
// Contains must treat a zero direction as "contains nothing" rather
// than guessing an axis.
type Shape interface {
	// Contains reports whether point p lies inside the shape placed
	// at origin and aimed along dir.
	Contains(origin, dir, p Vec3) bool
}

// Sphere includes every point within Radius of the origin.
type Sphere struct {
	Radius float64
}

func (s Sphere) Contains(origin, _, p Vec3) bool {
	return origin.DistanceTo(p) <= s.Radius
}

// Cone includes points within Range of the origin whose direction from
// the origin deviates from dir by at most HalfAngleDeg degrees.
type Cone struct {
	Range        float64
	HalfAngleDeg float64
}

func (c Cone) Contains(origin, dir, p Vec3) bool {
	d := p.Sub(origin)
	dist := d.Len()
	if dist > c.Range {
		return false
	}
	if dist == 0 {
		return true // origin itself is always inside
	}
	aim := dir.Normalize()
	if aim.Len() == 0 {
		return false
	}
	cos := aim.Dot(d.Scale(1 / dist))
	limit := math.Cos(c.HalfAngleDeg * math.Pi / 180)
	return cos >= limit
}

// Line includes points within Width/2 of the segment from the origin
// to origin + dir*Length. Used for beam and dash-path effects.
type Line struct {
	Length float64
	Width  float64
}

func (l Line) Contains(origin, dir, p Vec3) bool {
	aim := dir.Normalize()
	if aim.Len() == 0 {
		return false
	}
	d := p.Sub(origin)
	t := d.Dot(aim)
	if t < 0 || t > l.Length {
		return false
	}
	perp := d.Sub(aim.Scale(t))
	return perp.Len() <= l.Width/2
}
