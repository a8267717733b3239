package material

import (
	"github.com/df07/go-texture-pathtracer/pkg/core"
)

// Mix represents a material that probabilistically chooses between two materials
type Mix struct {
	Material1 core.Material
	Material2 core.Material
	Ratio     float64 // 0.0 = all material1, 1.0 = all material2
}

// NewMix creates a new mix material. Ratio is clamped to [0, 1].
func NewMix(material1, material2 core.Material, ratio float64) *Mix {
	return &Mix{
		Material1: material1,
		Material2: material2,
		Ratio:     clamp01(ratio),
	}
}

// Scatter implements the Material interface for mix material
func (m *Mix) Scatter(rayIn core.Ray, hit core.HitRecord, sampler core.Sampler) (core.ScatterResult, bool) {
	if sampler.Get1D() < m.Ratio {
		return m.Material2.Scatter(rayIn, hit, sampler)
	}
	return m.Material1.Scatter(rayIn, hit, sampler)
}

// Emitted returns the ratio-weighted emission of both materials
func (m *Mix) Emitted(uv core.Vec2, point core.Vec3) core.Vec3 {
	e1 := emitted(m.Material1, uv, point)
	e2 := emitted(m.Material2, uv, point)
	return e1.Multiply(1.0 - m.Ratio).Add(e2.Multiply(m.Ratio))
}

func emitted(mat core.Material, uv core.Vec2, point core.Vec3) core.Vec3 {
	if emitter, ok := mat.(core.Emitter); ok {
		return emitter.Emitted(uv, point)
	}
	return core.Vec3{}
}
