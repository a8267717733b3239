package geometry

import (
	"github.com/df07/go-texture-pathtracer/pkg/core"
)

// MovingSphere is a sphere whose center travels linearly from Center0 at Time0
// to Center1 at Time1. Rays see the sphere where it is at the ray's time.
type MovingSphere struct {
	Center0, Center1 core.Vec3
	Time0, Time1     float64
	Radius           float64
	Material         core.Material
}

// NewMovingSphere creates a sphere moving between two centers
func NewMovingSphere(center0, center1 core.Vec3, time0, time1, radius float64, material core.Material) *MovingSphere {
	return &MovingSphere{
		Center0:  center0,
		Center1:  center1,
		Time0:    time0,
		Time1:    time1,
		Radius:   radius,
		Material: material,
	}
}

// Center returns the sphere's center at the given time. Times outside the
// interval extrapolate along the same line.
func (s *MovingSphere) Center(time float64) core.Vec3 {
	if s.Time1 == s.Time0 {
		return s.Center0
	}
	f := (time - s.Time0) / (s.Time1 - s.Time0)
	return s.Center0.Add(s.Center1.Subtract(s.Center0).Multiply(f))
}

// Hit tests the ray against the sphere at the ray's time
func (s *MovingSphere) Hit(ray core.Ray, tMin, tMax float64) (*core.HitRecord, bool) {
	return hitSphere(s.Center(ray.Time), s.Radius, s.Material, ray, tMin, tMax)
}

// BoundingBox encloses the sphere over the whole time interval
func (s *MovingSphere) BoundingBox() core.AABB {
	return sphereBox(s.Center(s.Time0), s.Radius).Union(sphereBox(s.Center(s.Time1), s.Radius))
}
