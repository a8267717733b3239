package material

import (
	"github.com/df07/go-texture-pathtracer/pkg/core"
	"github.com/df07/go-texture-pathtracer/pkg/texture"
)

// Lambertian represents a perfectly diffuse material
type Lambertian struct {
	Albedo texture.ColorSource // Reflectance, evaluated at the hit
}

// NewLambertian creates a diffuse material with a uniform color
func NewLambertian(albedo core.Vec3) *Lambertian {
	return &Lambertian{Albedo: texture.NewSolidColor(albedo)}
}

// NewTexturedLambertian creates a diffuse material whose color comes from a texture
func NewTexturedLambertian(albedo texture.ColorSource) *Lambertian {
	return &Lambertian{Albedo: albedo}
}

// Scatter implements the Material interface for lambertian scattering.
// The scattered direction is the normal offset by a random unit vector, which
// yields a cosine-weighted distribution over the hemisphere.
func (l *Lambertian) Scatter(rayIn core.Ray, hit core.HitRecord, sampler core.Sampler) (core.ScatterResult, bool) {
	direction := hit.Normal.Add(core.RandomUnitVector(sampler))

	// Catch degenerate scatter direction
	if direction.NearZero() {
		direction = hit.Normal
	}

	return core.ScatterResult{
		Scattered:   core.NewRayAtTime(hit.Point, direction, rayIn.Time),
		Attenuation: l.Albedo.Evaluate(hit.UV, hit.Point),
	}, true
}
