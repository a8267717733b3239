package geometry

import (
	"math"

	"github.com/df07/go-texture-pathtracer/pkg/core"
)

// Box represents a rectangular box made up of 6 quads with optional rotation.
// Each face carries its own (u, v) parameterization over [0, 1]².
type Box struct {
	Center   core.Vec3     // Center point of the box
	Size     core.Vec3     // Half-extents along each local axis
	Rotation core.Vec3     // Rotation angles in radians (X, Y, Z)
	Material core.Material // Material for all faces
	faces    [6]*Quad
	bbox     core.AABB
}

// NewBox creates a new box with the given center, half-extents, rotation, and material.
// Rotation is in radians around X, Y, Z axes (applied in that order).
func NewBox(center, size, rotation core.Vec3, material core.Material) *Box {
	box := &Box{
		Center:   center,
		Size:     size,
		Rotation: rotation,
		Material: material,
	}
	box.generateFaces()
	return box
}

// NewBoxFromCorners creates an axis-aligned box spanning two opposite corners
func NewBoxFromCorners(a, b core.Vec3, material core.Material) *Box {
	center := a.Add(b).Multiply(0.5)
	size := b.Subtract(a).Multiply(0.5)
	size = core.NewVec3(math.Abs(size.X), math.Abs(size.Y), math.Abs(size.Z))
	return NewBox(center, size, core.Vec3{}, material)
}

// generateFaces transforms the unit cube's corners and builds one quad per face
func (b *Box) generateFaces() {
	corners := [8]core.Vec3{
		core.NewVec3(-1, -1, -1), // 0: left-bottom-back
		core.NewVec3(1, -1, -1),  // 1: right-bottom-back
		core.NewVec3(1, 1, -1),   // 2: right-top-back
		core.NewVec3(-1, 1, -1),  // 3: left-top-back
		core.NewVec3(-1, -1, 1),  // 4: left-bottom-front
		core.NewVec3(1, -1, 1),   // 5: right-bottom-front
		core.NewVec3(1, 1, 1),    // 6: right-top-front
		core.NewVec3(-1, 1, 1),   // 7: left-top-front
	}
	for i := range corners {
		corners[i] = corners[i].MultiplyVec(b.Size).Rotate(b.Rotation).Add(b.Center)
	}

	// Corner, u end and v end of each face, wound so u × v points outward
	faces := [6][3]int{
		{4, 5, 7}, // front (Z+)
		{1, 0, 2}, // back (Z-)
		{5, 1, 6}, // right (X+)
		{0, 4, 3}, // left (X-)
		{7, 6, 3}, // top (Y+)
		{0, 1, 4}, // bottom (Y-)
	}
	for i, f := range faces {
		corner := corners[f[0]]
		b.faces[i] = NewQuad(corner, corners[f[1]].Subtract(corner), corners[f[2]].Subtract(corner), b.Material)
	}

	b.bbox = core.NewAABBFromPoints(corners[:]...).Pad(1e-4)
}

// Hit tests if a ray intersects with any face of the box
func (b *Box) Hit(ray core.Ray, tMin, tMax float64) (*core.HitRecord, bool) {
	var closestHit *core.HitRecord
	closestT := tMax

	for _, face := range b.faces {
		if hit, ok := face.Hit(ray, tMin, closestT); ok {
			closestT = hit.T
			closestHit = hit
		}
	}

	return closestHit, closestHit != nil
}

// BoundingBox returns the axis-aligned bounding box for this box
func (b *Box) BoundingBox() core.AABB {
	return b.bbox
}
