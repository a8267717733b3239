package integrator

import (
	"github.com/df07/go-texture-pathtracer/pkg/core"
)

// Background supplies the radiance of rays that escape the scene
type Background interface {
	Color(ray core.Ray) core.Vec3
}

// GradientBackground blends vertically from Bottom to Top
type GradientBackground struct {
	Bottom core.Vec3 // Color looking straight down
	Top    core.Vec3 // Color looking straight up
}

// NewGradientBackground creates a vertical gradient background
func NewGradientBackground(bottom, top core.Vec3) *GradientBackground {
	return &GradientBackground{Bottom: bottom, Top: top}
}

// NewSkyBackground creates the default white to light blue sky
func NewSkyBackground() *GradientBackground {
	return NewGradientBackground(core.NewVec3(1.0, 1.0, 1.0), core.NewVec3(0.5, 0.7, 1.0))
}

// Color lerps between Bottom and Top by t = 0.5·(unit(dir).y + 1)
func (g *GradientBackground) Color(ray core.Ray) core.Vec3 {
	unitDirection := ray.Direction.Normalize()
	t := 0.5 * (unitDirection.Y + 1.0)
	return g.Bottom.Multiply(1.0 - t).Add(g.Top.Multiply(t))
}

// SolidBackground returns the same color in every direction
type SolidBackground struct {
	Value core.Vec3
}

// NewSolidBackground creates a uniform background
func NewSolidBackground(color core.Vec3) *SolidBackground {
	return &SolidBackground{Value: color}
}

// Color returns the background color
func (s *SolidBackground) Color(ray core.Ray) core.Vec3 {
	return s.Value
}
