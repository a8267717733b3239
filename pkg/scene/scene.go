// Package scene assembles worlds for the renderer: built-in scenes and
// scenes described in YAML.
package scene

import (
	"github.com/df07/go-texture-pathtracer/pkg/core"
	"github.com/df07/go-texture-pathtracer/pkg/geometry"
	"github.com/df07/go-texture-pathtracer/pkg/integrator"
	"github.com/df07/go-texture-pathtracer/pkg/renderer"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Name         string
	Shapes       []core.Shape // Objects in the scene
	CameraConfig renderer.CameraConfig
	Background   integrator.Background
	MaxDepth     int       // Maximum ray bounce depth
	BVH          *core.BVH // Acceleration structure, built by Preprocess
}

// New creates an empty scene with a sky background and the default bounce depth
func New(name string, camera renderer.CameraConfig) *Scene {
	return &Scene{
		Name:         name,
		CameraConfig: camera,
		Background:   integrator.NewSkyBackground(),
		MaxDepth:     integrator.DefaultMaxDepth,
	}
}

// Add appends shapes to the scene
func (s *Scene) Add(shapes ...core.Shape) {
	s.Shapes = append(s.Shapes, shapes...)
}

// Preprocess builds the BVH over the scene's shapes
func (s *Scene) Preprocess() {
	s.BVH = core.NewBVH(s.Shapes)
}

// World returns the hittable the integrator traces against, building the BVH if needed
func (s *Scene) World() core.Hittable {
	if s.BVH == nil {
		s.Preprocess()
	}
	return s.BVH
}

// Integrator returns a path tracer configured with the scene's background and depth
func (s *Scene) Integrator() *integrator.PathTracingIntegrator {
	return integrator.NewPathTracingIntegrator(s.MaxDepth, s.Background)
}

// PrimitiveCount returns the total number of primitive objects in the scene
func (s *Scene) PrimitiveCount() int {
	count := 0
	for _, shape := range s.Shapes {
		count += countPrimitives(shape)
	}
	return count
}

// countPrimitives counts primitives in a single shape, handling aggregates
func countPrimitives(shape core.Shape) int {
	switch obj := shape.(type) {
	case *geometry.TriangleMesh:
		return obj.TriangleCount()
	case *geometry.HittableList:
		count := 0
		for _, s := range obj.Shapes {
			count += countPrimitives(s)
		}
		return count
	case *geometry.Box:
		return 6
	case *geometry.ConstantMedium:
		return countPrimitives(obj.Boundary)
	default:
		return 1
	}
}
