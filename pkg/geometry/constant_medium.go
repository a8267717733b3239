package geometry

import (
	"math"

	"github.com/df07/go-texture-pathtracer/pkg/core"
)

// ConstantMedium is a volume of uniform density filling a convex boundary shape,
// such as smoke or fog. Rays passing through it scatter at an exponentially
// distributed distance and then bounce off the phase function material.
type ConstantMedium struct {
	Boundary      core.Shape
	PhaseFunction core.Material
	negInvDensity float64
}

// NewConstantMedium creates a medium of the given density inside boundary.
// phase is usually an isotropic material.
func NewConstantMedium(boundary core.Shape, density float64, phase core.Material) *ConstantMedium {
	return &ConstantMedium{
		Boundary:      boundary,
		PhaseFunction: phase,
		negInvDensity: -1 / density,
	}
}

// Hit finds where the ray scatters inside the medium, if it does before leaving.
// The scattering distance is drawn from a hash of the ray so Hit stays free of
// shared state and repeated queries with the same ray agree.
func (m *ConstantMedium) Hit(ray core.Ray, tMin, tMax float64) (*core.HitRecord, bool) {
	enter, ok := m.Boundary.Hit(ray, math.Inf(-1), math.Inf(1))
	if !ok {
		return nil, false
	}
	exit, ok := m.Boundary.Hit(ray, enter.T+0.0001, math.Inf(1))
	if !ok {
		return nil, false
	}

	t1 := max(enter.T, tMin)
	t2 := min(exit.T, tMax)
	if t1 >= t2 {
		return nil, false
	}
	t1 = max(t1, 0)

	rayLength := ray.Direction.Length()
	distanceInside := (t2 - t1) * rayLength
	hitDistance := m.negInvDensity * math.Log(rayUniform(ray))
	if hitDistance > distanceInside {
		return nil, false
	}

	t := t1 + hitDistance/rayLength
	return &core.HitRecord{
		T:         t,
		Point:     ray.At(t),
		Normal:    core.NewVec3(1, 0, 0), // arbitrary
		FrontFace: true,                  // also arbitrary
		Material:  m.PhaseFunction,
	}, true
}

// BoundingBox returns the boundary's box
func (m *ConstantMedium) BoundingBox() core.AABB {
	return m.Boundary.BoundingBox()
}

// rayUniform maps a ray to a value in (0, 1) by mixing the bits of its origin,
// direction and time.
func rayUniform(ray core.Ray) float64 {
	h := uint64(0x9e3779b97f4a7c15)
	for _, f := range []float64{
		ray.Origin.X, ray.Origin.Y, ray.Origin.Z,
		ray.Direction.X, ray.Direction.Y, ray.Direction.Z,
		ray.Time,
	} {
		h = splitmix64(h ^ math.Float64bits(f))
	}
	// 53 random bits, shifted off zero so Log stays finite
	return (float64(h>>11) + 0.5) / (1 << 53)
}

func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}
