// Package texture maps surface coordinates and points to colors.
package texture

import (
	"math"

	"github.com/df07/go-texture-pathtracer/pkg/core"
	"github.com/df07/go-texture-pathtracer/pkg/noise"
)

// ColorSource provides spatially-varying colors for materials.
// Implementations are immutable and return the same color for the same inputs,
// so one instance can be shared by any number of primitives and goroutines.
type ColorSource interface {
	// Evaluate returns color at given UV coordinates and 3D point
	// UV is used for image textures, point for procedural textures
	Evaluate(uv core.Vec2, point core.Vec3) core.Vec3
}

// SolidColor provides uniform color
type SolidColor struct {
	Color core.Vec3
}

// NewSolidColor creates a new solid color source
func NewSolidColor(color core.Vec3) *SolidColor {
	return &SolidColor{Color: color}
}

// Evaluate returns the solid color regardless of UV or position
func (s *SolidColor) Evaluate(uv core.Vec2, point core.Vec3) core.Vec3 {
	return s.Color
}

// Checker is a 3D checkerboard that alternates between two textures in space,
// independent of the surface parameterization.
type Checker struct {
	Even ColorSource
	Odd  ColorSource
}

// NewChecker creates a checker alternating between two textures
func NewChecker(even, odd ColorSource) *Checker {
	return &Checker{Even: even, Odd: odd}
}

// NewCheckerColors creates a checker alternating between two solid colors
func NewCheckerColors(even, odd core.Vec3) *Checker {
	return NewChecker(NewSolidColor(even), NewSolidColor(odd))
}

// Evaluate picks Odd where sin(10x)·sin(10y)·sin(10z) is negative and Even otherwise
func (c *Checker) Evaluate(uv core.Vec2, point core.Vec3) core.Vec3 {
	sines := math.Sin(10*point.X) * math.Sin(10*point.Y) * math.Sin(10*point.Z)
	if sines < 0 {
		return c.Odd.Evaluate(uv, point)
	}
	return c.Even.Evaluate(uv, point)
}

// Noise is a marbled texture: sinusoidal bands along z whose phase is
// perturbed by turbulence.
type Noise struct {
	Field noise.Field
	Scale float64 // Band frequency
	Depth int     // Turbulence octaves
}

// NewNoise creates a marble texture over the given field
func NewNoise(field noise.Field, scale float64) *Noise {
	return &Noise{Field: field, Scale: scale, Depth: noise.DefaultTurbulenceDepth}
}

// Evaluate returns white·0.5·(1 + sin(scale·z + 10·turbulence(p)))
func (n *Noise) Evaluate(uv core.Vec2, point core.Vec3) core.Vec3 {
	turb := noise.Turbulence(n.Field, point, n.Depth)
	shade := 0.5 * (1 + math.Sin(n.Scale*point.Z+10*turb))
	return core.NewVec3(shade, shade, shade)
}
