package texture

import (
	"math"
	"testing"

	"github.com/df07/go-texture-pathtracer/pkg/core"
	"github.com/df07/go-texture-pathtracer/pkg/noise"
)

// constantField returns the same noise value everywhere
type constantField float64

func (c constantField) Noise(p core.Vec3) float64 { return float64(c) }

func TestSolidColor_IgnoresInputs(t *testing.T) {
	color := core.NewVec3(0.2, 0.4, 0.6)
	solid := NewSolidColor(color)

	inputs := []struct {
		uv    core.Vec2
		point core.Vec3
	}{
		{core.NewVec2(0, 0), core.NewVec3(0, 0, 0)},
		{core.NewVec2(0.7, 0.1), core.NewVec3(-5, 3, 100)},
		{core.NewVec2(-3, 9), core.NewVec3(1e6, -1e6, 0.5)},
	}

	for _, in := range inputs {
		if got := solid.Evaluate(in.uv, in.point); !got.Equals(color) {
			t.Errorf("Evaluate(%v, %v): expected %v, got %v", in.uv, in.point, color, got)
		}
	}
}

func TestChecker_Evaluate(t *testing.T) {
	even := core.NewVec3(0.2, 0.3, 0.1)
	odd := core.NewVec3(0.9, 0.9, 0.9)
	checker := NewCheckerColors(even, odd)

	tests := []struct {
		name     string
		point    core.Vec3
		expected core.Vec3
	}{
		{"origin is even", core.NewVec3(0, 0, 0), even},
		{"on a zero plane is even", core.NewVec3(0.1, 0, -0.2), even},
		{"all positive sines", core.NewVec3(0.1, 0.1, 0.1), even},
		{"one negative sine", core.NewVec3(-0.1, 0.1, 0.1), odd},
		{"two negative sines", core.NewVec3(-0.1, -0.1, 0.1), even},
		{"three negative sines", core.NewVec3(-0.1, -0.1, -0.1), odd},
		{"next cell along x", core.NewVec3(0.1+math.Pi/10, 0.1, 0.1), odd},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := checker.Evaluate(core.NewVec2(0.5, 0.5), tt.point); !got.Equals(tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestChecker_IndependentOfUV(t *testing.T) {
	checker := NewCheckerColors(core.NewVec3(1, 1, 1), core.NewVec3(0, 0, 0))
	point := core.NewVec3(-0.3, 0.2, 0.15)

	want := checker.Evaluate(core.NewVec2(0, 0), point)
	for _, uv := range []core.Vec2{core.NewVec2(0.5, 0.5), core.NewVec2(1, 0), core.NewVec2(0.99, 0.01)} {
		if got := checker.Evaluate(uv, point); !got.Equals(want) {
			t.Errorf("UV%v changed result: expected %v, got %v", uv, want, got)
		}
	}
}

func TestChecker_NestedTextures(t *testing.T) {
	inner := NewCheckerColors(core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0))
	outer := NewChecker(inner, NewSolidColor(core.NewVec3(0, 0, 1)))

	// Even cell of the outer checker defers to the inner one at the same point
	point := core.NewVec3(0.1, 0.1, 0.1)
	if got, want := outer.Evaluate(core.Vec2{}, point), inner.Evaluate(core.Vec2{}, point); !got.Equals(want) {
		t.Errorf("Expected inner checker color %v, got %v", want, got)
	}
}

func TestNoise_FlatFieldIsSineBands(t *testing.T) {
	marble := NewNoise(constantField(0), 4)

	tests := []struct {
		z        float64
		expected float64
	}{
		{0, 0.5},
		{math.Pi / 8, 1.0},  // sin(π/2)
		{-math.Pi / 8, 0.0}, // sin(-π/2)
	}

	for _, tt := range tests {
		got := marble.Evaluate(core.Vec2{}, core.NewVec3(3, -2, tt.z))
		want := core.NewVec3(tt.expected, tt.expected, tt.expected)
		if !got.Equals(want) {
			t.Errorf("z=%f: expected %v, got %v", tt.z, want, got)
		}
	}
}

func TestNoise_OutputIsGrayInUnitRange(t *testing.T) {
	marble := NewNoise(noise.NewSeededPerlin(42), 4)
	sampler := core.NewSeededSampler(7)

	for i := 0; i < 1000; i++ {
		p := core.RandomVecRange(sampler, -20, 20)
		c := marble.Evaluate(core.Vec2{}, p)
		if c.X != c.Y || c.Y != c.Z {
			t.Fatalf("Expected gray at %v, got %v", p, c)
		}
		if c.X < 0 || c.X > 1 {
			t.Fatalf("Shade %f outside [0, 1] at %v", c.X, p)
		}
	}
}

func TestNoise_TurbulenceShiftsPhase(t *testing.T) {
	// Every octave of a constant field contributes |0.1|·2^-i
	const depth = 3
	turb := 0.1 * (1 + 0.5 + 0.25)
	marble := &Noise{Field: constantField(-0.1), Scale: 1, Depth: depth}

	z := 0.3
	want := 0.5 * (1 + math.Sin(z+10*turb))
	got := marble.Evaluate(core.Vec2{}, core.NewVec3(0, 0, z))
	if math.Abs(got.X-want) > 1e-12 {
		t.Errorf("Expected %f, got %f", want, got.X)
	}
}

func TestImageTexture_Evaluate(t *testing.T) {
	// 2x2 image, row 0 is the top of the image
	//   white black
	//   black white
	white := core.NewVec3(1, 1, 1)
	black := core.NewVec3(0, 0, 0)
	texture := NewImageTexture(2, 2, []core.Vec3{white, black, black, white})

	tests := []struct {
		uv       core.Vec2
		expected core.Vec3
	}{
		{core.NewVec2(0.1, 0.1), black},  // bottom-left
		{core.NewVec2(0.9, 0.1), white},  // bottom-right
		{core.NewVec2(0.1, 0.9), white},  // top-left
		{core.NewVec2(0.9, 0.9), black},  // top-right
		{core.NewVec2(1.1, 0.9), white},  // wraps to top-left
		{core.NewVec2(-0.1, -0.9), white}, // wraps to bottom-right
	}

	for _, tt := range tests {
		if got := texture.Evaluate(tt.uv, core.Vec3{}); !got.Equals(tt.expected) {
			t.Errorf("UV%v: expected %v, got %v", tt.uv, tt.expected, got)
		}
	}
}

func TestImageTexture_EmptyIsCyan(t *testing.T) {
	texture := NewImageTexture(0, 0, nil)
	if got := texture.Evaluate(core.NewVec2(0.5, 0.5), core.Vec3{}); !got.Equals(core.NewVec3(0, 1, 1)) {
		t.Errorf("Expected cyan for empty image, got %v", got)
	}
}
