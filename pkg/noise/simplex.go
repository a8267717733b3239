package noise

import (
	"github.com/ojrac/opensimplex-go"

	"github.com/df07/go-texture-pathtracer/pkg/core"
)

// Simplex is an OpenSimplex noise field. It is smooth like Perlin but has
// fewer axis-aligned artifacts.
type Simplex struct {
	noise opensimplex.Noise
}

// NewSimplex creates a simplex field for the given seed
func NewSimplex(seed int64) *Simplex {
	return &Simplex{noise: opensimplex.New(seed)}
}

// Noise returns the simplex noise value at p, roughly in [-1, 1]
func (s *Simplex) Noise(p core.Vec3) float64 {
	return s.noise.Eval3(p.X, p.Y, p.Z)
}

// Turbulence sums depth octaves of folded noise at p
func (s *Simplex) Turbulence(p core.Vec3, depth int) float64 {
	return Turbulence(s, p, depth)
}
