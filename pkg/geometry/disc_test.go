package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-texture-pathtracer/pkg/core"
)

func TestDisc_Hit(t *testing.T) {
	// Disc at the origin facing up with radius 1
	disc := NewDisc(core.NewVec3(0, 0, 0), core.NewVec3(0, 2, 0), 1, nil)

	tests := []struct {
		name      string
		ray       core.Ray
		shouldHit bool
		expectedT float64
		frontFace bool
	}{
		{"center from above", core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0)), true, 1, true},
		{"edge from above", core.NewRay(core.NewVec3(1, 1, 0), core.NewVec3(0, -1, 0)), true, 1, true},
		{"outside radius", core.NewRay(core.NewVec3(1.1, 1, 0), core.NewVec3(0, -1, 0)), false, 0, false},
		{"parallel to plane", core.NewRay(core.NewVec3(0, 0.5, 0), core.NewVec3(1, 0, 0)), false, 0, false},
		{"from below", core.NewRay(core.NewVec3(0, -2, 0), core.NewVec3(0, 1, 0)), true, 2, false},
		{"behind origin", core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, 1, 0)), false, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, ok := disc.Hit(tt.ray, 0.001, 10)
			if ok != tt.shouldHit {
				t.Fatalf("Expected hit=%v, got %v", tt.shouldHit, ok)
			}
			if !ok {
				return
			}
			if math.Abs(hit.T-tt.expectedT) > 1e-9 {
				t.Errorf("Expected t=%f, got %f", tt.expectedT, hit.T)
			}
			if hit.FrontFace != tt.frontFace {
				t.Errorf("Expected front face %v, got %v", tt.frontFace, hit.FrontFace)
			}
			if hit.Normal.Dot(tt.ray.Direction) >= 0 {
				t.Errorf("Normal %v should face the ray", hit.Normal)
			}
		})
	}
}

func TestDisc_Hit_PolarUV(t *testing.T) {
	disc := NewDisc(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), 2, nil)

	// Polar angle zero lies along Right, a quarter turn along Up
	tests := []struct {
		name   string
		offset core.Vec3
		uv     core.Vec2
	}{
		{"center", core.Vec3{}, core.NewVec2(0, 0)},
		{"along right", disc.Right.Multiply(1), core.NewVec2(0, 0.5)},
		{"along up", disc.Up.Multiply(2), core.NewVec2(0.25, 1)},
		{"opposite right", disc.Right.Multiply(-1), core.NewVec2(0.5, 0.5)},
		{"opposite up", disc.Up.Multiply(-1), core.NewVec2(0.75, 0.5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			origin := tt.offset.Add(core.NewVec3(0, 1, 0))
			hit, ok := disc.Hit(core.NewRay(origin, core.NewVec3(0, -1, 0)), 0.001, 10)
			if !ok {
				t.Fatal("Expected hit")
			}
			if math.Abs(hit.UV.X-tt.uv.X) > 1e-9 || math.Abs(hit.UV.Y-tt.uv.Y) > 1e-9 {
				t.Errorf("Expected UV %v, got %v", tt.uv, hit.UV)
			}
		})
	}
}

func TestDisc_BoundingBox(t *testing.T) {
	tests := []struct {
		name   string
		normal core.Vec3
		extent core.Vec3
	}{
		{"facing y", core.NewVec3(0, 1, 0), core.NewVec3(2, 0, 2)},
		{"facing x", core.NewVec3(-3, 0, 0), core.NewVec3(0, 2, 2)},
		{"tilted", core.NewVec3(1, 1, 0), core.NewVec3(math.Sqrt2, math.Sqrt2, 2)},
	}

	center := core.NewVec3(1, 2, 3)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			box := NewDisc(center, tt.normal, 2, nil).BoundingBox()
			wantMin := center.Subtract(tt.extent)
			wantMax := center.Add(tt.extent)
			for axis := 0; axis < 3; axis++ {
				if math.Abs(box.Min.Axis(axis)-wantMin.Axis(axis)) > 1e-3 || math.Abs(box.Max.Axis(axis)-wantMax.Axis(axis)) > 1e-3 {
					t.Errorf("Expected [%v, %v], got [%v, %v]", wantMin, wantMax, box.Min, box.Max)
				}
			}
			if box.Max.Axis(0)-box.Min.Axis(0) <= 0 || box.Max.Axis(1)-box.Min.Axis(1) <= 0 || box.Max.Axis(2)-box.Min.Axis(2) <= 0 {
				t.Errorf("Bounding box %v has a flat axis", box)
			}
		})
	}
}
