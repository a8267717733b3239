package material

import (
	"github.com/df07/go-texture-pathtracer/pkg/core"
	"github.com/df07/go-texture-pathtracer/pkg/texture"
)

// Isotropic is the phase function of a participating medium: it scatters
// uniformly in all directions.
type Isotropic struct {
	Albedo texture.ColorSource
}

// NewIsotropic creates an isotropic phase function with a uniform color
func NewIsotropic(albedo core.Vec3) *Isotropic {
	return &Isotropic{Albedo: texture.NewSolidColor(albedo)}
}

// NewTexturedIsotropic creates an isotropic phase function colored by a texture
func NewTexturedIsotropic(albedo texture.ColorSource) *Isotropic {
	return &Isotropic{Albedo: albedo}
}

// Scatter sends the ray toward a random point in the unit sphere
func (i *Isotropic) Scatter(rayIn core.Ray, hit core.HitRecord, sampler core.Sampler) (core.ScatterResult, bool) {
	return core.ScatterResult{
		Scattered:   core.NewRayAtTime(hit.Point, core.RandomInUnitSphere(sampler), rayIn.Time),
		Attenuation: i.Albedo.Evaluate(hit.UV, hit.Point),
	}, true
}
