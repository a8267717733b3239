package scene

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/df07/go-texture-pathtracer/pkg/core"
	"github.com/df07/go-texture-pathtracer/pkg/geometry"
	"github.com/df07/go-texture-pathtracer/pkg/integrator"
	"github.com/df07/go-texture-pathtracer/pkg/material"
	"github.com/df07/go-texture-pathtracer/pkg/noise"
	"github.com/df07/go-texture-pathtracer/pkg/renderer"
	"github.com/df07/go-texture-pathtracer/pkg/texture"
)

// ErrUnknownScene is returned when a scene name matches no built-in scene
var ErrUnknownScene = errors.New("unknown scene")

// Builder creates a scene. The seed drives every random choice the scene makes.
type Builder func(seed int64) *Scene

var builtins = map[string]Builder{
	"random":             NewRandomSpheresScene,
	"two-spheres":        NewTwoSpheresScene,
	"two-perlin-spheres": NewTwoPerlinSpheresScene,
	"simple-light":       NewSimpleLightScene,
	"volumes":            NewVolumesScene,
}

// Names returns the built-in scene names in sorted order
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Builtin creates the named built-in scene
func Builtin(name string, seed int64) (*Scene, error) {
	build, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownScene, name, Names())
	}
	return build(seed), nil
}

// bookCamera is the camera shared by the sphere scenes
func bookCamera(aperture float64) renderer.CameraConfig {
	return renderer.CameraConfig{
		LookFrom:      core.NewVec3(13, 2, 3),
		LookAt:        core.NewVec3(0, 0, 0),
		VUp:           core.NewVec3(0, 1, 0),
		VFov:          20,
		AspectRatio:   16.0 / 9.0,
		Aperture:      aperture,
		FocusDistance: 10,
		Time0:         0,
		Time1:         1,
	}
}

func groundChecker() *texture.Checker {
	return texture.NewCheckerColors(core.NewVec3(0.2, 0.3, 0.1), core.NewVec3(0.9, 0.9, 0.9))
}

// NewRandomSpheresScene creates a field of small random spheres around three
// large ones on a checkered ground. Diffuse spheres bounce during the shutter
// interval to show motion blur.
func NewRandomSpheresScene(seed int64) *Scene {
	sampler := core.NewSeededSampler(seed)
	s := New("random", bookCamera(0.1))

	s.Add(geometry.NewSphere(core.NewVec3(0, -1000, 0), 1000, material.NewTexturedLambertian(groundChecker())))

	clearing := core.NewVec3(4, 0.2, 0)
	for a := -11; a < 11; a++ {
		for b := -11; b < 11; b++ {
			choose := sampler.Get1D()
			center := core.NewVec3(float64(a)+0.9*sampler.Get1D(), 0.2, float64(b)+0.9*sampler.Get1D())
			if center.Subtract(clearing).Length() <= 0.9 {
				continue
			}

			switch {
			case choose < 0.8:
				albedo := core.RandomVecRange(sampler, 0, 1).MultiplyVec(core.RandomVecRange(sampler, 0, 1))
				center1 := center.Add(core.NewVec3(0, core.RandomFloat(sampler, 0, 0.5), 0))
				s.Add(geometry.NewMovingSphere(center, center1, 0, 1, 0.2, material.NewLambertian(albedo)))
			case choose < 0.95:
				albedo := core.RandomVecRange(sampler, 0.5, 1)
				fuzz := core.RandomFloat(sampler, 0, 0.5)
				s.Add(geometry.NewSphere(center, 0.2, material.NewMetal(albedo, fuzz)))
			default:
				s.Add(geometry.NewSphere(center, 0.2, material.NewDielectric(1.5)))
			}
		}
	}

	s.Add(
		geometry.NewSphere(core.NewVec3(0, 1, 0), 1, material.NewDielectric(1.5)),
		geometry.NewSphere(core.NewVec3(-4, 1, 0), 1, material.NewLambertian(core.NewVec3(0.4, 0.2, 0.1))),
		geometry.NewSphere(core.NewVec3(4, 1, 0), 1, material.NewMetal(core.NewVec3(0.7, 0.6, 0.5), 0)),
	)
	return s
}

// NewTwoSpheresScene creates two large checkered spheres touching at the origin
func NewTwoSpheresScene(seed int64) *Scene {
	s := New("two-spheres", bookCamera(0))
	checker := material.NewTexturedLambertian(groundChecker())
	s.Add(
		geometry.NewSphere(core.NewVec3(0, -10, 0), 10, checker),
		geometry.NewSphere(core.NewVec3(0, 10, 0), 10, checker),
	)
	return s
}

// perlinSpheres adds a marble ground and a marble sphere to s
func perlinSpheres(s *Scene, seed int64) {
	marble := material.NewTexturedLambertian(texture.NewNoise(noise.NewSeededPerlin(seed), 4))
	s.Add(
		geometry.NewSphere(core.NewVec3(0, -1000, 0), 1000, marble),
		geometry.NewSphere(core.NewVec3(0, 2, 0), 2, marble),
	)
}

// NewTwoPerlinSpheresScene creates a marble sphere resting on a marble ground
func NewTwoPerlinSpheresScene(seed int64) *Scene {
	s := New("two-perlin-spheres", bookCamera(0))
	perlinSpheres(s, seed)
	return s
}

// NewSimpleLightScene lights the marble spheres with a rectangular and a
// spherical light against a black background
func NewSimpleLightScene(seed int64) *Scene {
	camera := bookCamera(0)
	camera.LookFrom = core.NewVec3(26, 3, 6)
	camera.LookAt = core.NewVec3(0, 2, 0)
	camera.FocusDistance = 0

	s := New("simple-light", camera)
	s.Background = integrator.NewSolidBackground(core.Vec3{})
	perlinSpheres(s, seed)

	light := material.NewDiffuseLight(core.NewVec3(4, 4, 4))
	s.Add(
		geometry.NewQuad(core.NewVec3(3, 1, -2), core.NewVec3(2, 0, 0), core.NewVec3(0, 2, 0), light),
		geometry.NewSphere(core.NewVec3(0, 7, 0), 2, light),
	)
	return s
}

// placedBox builds the box spanning the origin and size, rotated about the Y
// axis through the origin and then translated by offset
func placedBox(size core.Vec3, degreesY float64, offset core.Vec3, mat core.Material) *geometry.Box {
	rotation := core.NewVec3(0, degreesY*math.Pi/180, 0)
	half := size.Multiply(0.5)
	return geometry.NewBox(half.Rotate(rotation).Add(offset), half, rotation, mat)
}

// NewVolumesScene creates a Cornell box holding two blocks of smoke
func NewVolumesScene(seed int64) *Scene {
	camera := renderer.CameraConfig{
		LookFrom:    core.NewVec3(278, 278, -800),
		LookAt:      core.NewVec3(278, 278, 0),
		VUp:         core.NewVec3(0, 1, 0),
		VFov:        40,
		AspectRatio: 1,
	}
	s := New("volumes", camera)
	s.Background = integrator.NewSolidBackground(core.Vec3{})

	red := material.NewLambertian(core.NewVec3(0.65, 0.05, 0.05))
	white := material.NewLambertian(core.NewVec3(0.73, 0.73, 0.73))
	green := material.NewLambertian(core.NewVec3(0.12, 0.45, 0.15))
	light := material.NewDiffuseLight(core.NewVec3(7, 7, 7))

	s.Add(
		geometry.NewQuad(core.NewVec3(555, 0, 0), core.NewVec3(0, 555, 0), core.NewVec3(0, 0, 555), green),
		geometry.NewQuad(core.NewVec3(0, 0, 0), core.NewVec3(0, 555, 0), core.NewVec3(0, 0, 555), red),
		geometry.NewQuad(core.NewVec3(113, 554, 127), core.NewVec3(330, 0, 0), core.NewVec3(0, 0, 305), light),
		geometry.NewQuad(core.NewVec3(0, 555, 0), core.NewVec3(555, 0, 0), core.NewVec3(0, 0, 555), white),
		geometry.NewQuad(core.NewVec3(0, 0, 0), core.NewVec3(555, 0, 0), core.NewVec3(0, 0, 555), white),
		geometry.NewQuad(core.NewVec3(0, 0, 555), core.NewVec3(555, 0, 0), core.NewVec3(0, 555, 0), white),
	)

	tall := placedBox(core.NewVec3(165, 330, 165), 15, core.NewVec3(265, 0, 295), white)
	short := placedBox(core.NewVec3(165, 165, 165), -18, core.NewVec3(130, 0, 65), white)
	s.Add(
		geometry.NewConstantMedium(tall, 0.01, material.NewIsotropic(core.Vec3{})),
		geometry.NewConstantMedium(short, 0.01, material.NewIsotropic(core.NewVec3(1, 1, 1))),
	)
	return s
}
