package integrator

import (
	"math"

	"github.com/df07/go-texture-pathtracer/pkg/core"
)

// DefaultMaxDepth is the bounce limit used when none is configured
const DefaultMaxDepth = 50

// minHitDistance offsets new rays from the surface they leave to avoid self-intersection
const minHitDistance = 0.001

// PathTracingIntegrator implements unidirectional path tracing
type PathTracingIntegrator struct {
	MaxDepth   int
	Background Background
}

// NewPathTracingIntegrator creates a new path tracing integrator.
// A nil background falls back to the default sky gradient.
func NewPathTracingIntegrator(maxDepth int, background Background) *PathTracingIntegrator {
	if background == nil {
		background = NewSkyBackground()
	}
	return &PathTracingIntegrator{
		MaxDepth:   maxDepth,
		Background: background,
	}
}

// RayColor computes the color for a single ray using unidirectional path tracing
func (pt *PathTracingIntegrator) RayColor(ray core.Ray, world core.Hittable, sampler core.Sampler) core.Vec3 {
	return pt.rayColor(ray, world, sampler, pt.MaxDepth)
}

func (pt *PathTracingIntegrator) rayColor(ray core.Ray, world core.Hittable, sampler core.Sampler, depth int) core.Vec3 {
	// If we've exceeded the ray bounce limit, no more light is gathered
	if depth <= 0 {
		return core.Vec3{X: 0, Y: 0, Z: 0}
	}

	hit, isHit := world.Hit(ray, minHitDistance, math.Inf(1))
	if !isHit {
		return pt.Background.Color(ray)
	}

	colorEmitted := core.EmittedLight(hit)

	scatter, didScatter := hit.Material.Scatter(ray, *hit, sampler)
	if !didScatter {
		return colorEmitted
	}

	incoming := pt.rayColor(scatter.Scattered, world, sampler, depth-1)
	return colorEmitted.Add(scatter.Attenuation.MultiplyVec(incoming))
}
