package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSphereContains(t *testing.T) {
	tests := []struct {
		name   string
		radius float64
		point  Vec3
		want   bool
	}{
		{"inside", 25, Vec3{X: 10}, true},
		{"on boundary", 25, Vec3{X: 25}, true},
		{"outside", 25, Vec3{X: 30}, false},
		{"origin", 25, Vec3{}, true},
		{"diagonal inside", 10, Vec3{X: 5, Y: 5, Z: 5}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Sphere{Radius: tt.radius}
			assert.Equal(t, tt.want, s.Contains(Vec3{}, Vec3{}, tt.point))
		})
	}
}

func TestConeContains(t *testing.T) {
	c := Cone{Range: 20, HalfAngleDeg: 45}
	aim := Vec3{X: 1}

	tests := []struct {
		name  string
		point Vec3
		want  bool
	}{
		{"straight ahead", Vec3{X: 10}, true},
		{"inside half angle", Vec3{X: 10, Y: 5}, true},
		{"on 45 degree edge", Vec3{X: 10, Y: 10}, true},
		{"outside half angle", Vec3{X: 5, Y: 10}, false},
		{"behind", Vec3{X: -10}, false},
		{"beyond range", Vec3{X: 25}, false},
		{"at origin", Vec3{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Contains(Vec3{}, aim, tt.point))
		})
	}
}

func TestConeZeroDirectionContainsNothing(t *testing.T) {
	c := Cone{Range: 20, HalfAngleDeg: 45}
	assert.False(t, c.Contains(Vec3{}, Vec3{}, Vec3{X: 5}))
}

func TestLineContains(t *testing.T) {
	l := Line{Length: 30, Width: 4}
	aim := Vec3{X: 1}

	tests := []struct {
		name  string
		point Vec3
		want  bool
	}{
		{"on segment", Vec3{X: 15}, true},
		{"within width", Vec3{X: 15, Y: 1.5}, true},
		{"outside width", Vec3{X: 15, Y: 3}, false},
		{"before start", Vec3{X: -1}, false},
		{"past end", Vec3{X: 31}, false},
		{"end of segment", Vec3{X: 30, Y: 2}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, l.Contains(Vec3{}, aim, tt.point))
		})
	}
}

func TestNormalize(t *testing.T) {
	v := Vec3{X: 3, Y: 4}.Normalize()
	assert.InDelta(t, 1.0, v.Len(), 1e-9)
	assert.Equal(t, Vec3{}, Vec3{}.Normalize())
}
