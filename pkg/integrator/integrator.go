// Package integrator estimates the radiance carried along camera rays.
package integrator

import (
	"github.com/df07/go-texture-pathtracer/pkg/core"
)

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// RayColor returns the radiance arriving along ray from the world.
	// Implementations must be safe for concurrent use with distinct samplers.
	RayColor(ray core.Ray, world core.Hittable, sampler core.Sampler) core.Vec3
}
