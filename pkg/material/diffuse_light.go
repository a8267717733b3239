package material

import (
	"github.com/df07/go-texture-pathtracer/pkg/core"
	"github.com/df07/go-texture-pathtracer/pkg/texture"
)

// DiffuseLight represents a light-emitting material
type DiffuseLight struct {
	Emit texture.ColorSource // Emitted radiance
}

// NewDiffuseLight creates a light with uniform emission
func NewDiffuseLight(emission core.Vec3) *DiffuseLight {
	return &DiffuseLight{Emit: texture.NewSolidColor(emission)}
}

// NewTexturedDiffuseLight creates a light whose emission comes from a texture
func NewTexturedDiffuseLight(emit texture.ColorSource) *DiffuseLight {
	return &DiffuseLight{Emit: emit}
}

// Scatter implements the Material interface. Lights absorb every incoming ray.
func (d *DiffuseLight) Scatter(rayIn core.Ray, hit core.HitRecord, sampler core.Sampler) (core.ScatterResult, bool) {
	return core.ScatterResult{}, false
}

// Emitted returns the emitted light at the given surface point
func (d *DiffuseLight) Emitted(uv core.Vec2, point core.Vec3) core.Vec3 {
	return d.Emit.Evaluate(uv, point)
}
