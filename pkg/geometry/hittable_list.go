package geometry

import (
	"github.com/df07/go-texture-pathtracer/pkg/core"
)

// HittableList intersects rays with every shape it holds, linearly.
// Use core.BVH for large scenes.
type HittableList struct {
	Shapes []core.Shape
}

// NewHittableList creates a list from the given shapes
func NewHittableList(shapes ...core.Shape) *HittableList {
	return &HittableList{Shapes: shapes}
}

// Add appends a shape to the list
func (l *HittableList) Add(shape core.Shape) {
	l.Shapes = append(l.Shapes, shape)
}

// Hit returns the closest intersection across all shapes
func (l *HittableList) Hit(ray core.Ray, tMin, tMax float64) (*core.HitRecord, bool) {
	var closest *core.HitRecord
	closestSoFar := tMax

	for _, shape := range l.Shapes {
		if hit, ok := shape.Hit(ray, tMin, closestSoFar); ok {
			closest = hit
			closestSoFar = hit.T
		}
	}

	return closest, closest != nil
}

// BoundingBox returns the union of every shape's box
func (l *HittableList) BoundingBox() core.AABB {
	if len(l.Shapes) == 0 {
		return core.AABB{}
	}
	box := l.Shapes[0].BoundingBox()
	for _, shape := range l.Shapes[1:] {
		box = box.Union(shape.BoundingBox())
	}
	return box
}
