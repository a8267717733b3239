package geometry

import (
	"fmt"

	"github.com/df07/go-texture-pathtracer/pkg/core"
)

// TriangleMesh represents a collection of triangles with efficient ray intersection.
// It uses an internal BVH for fast intersection tests.
type TriangleMesh struct {
	triangles []core.Shape
	bvh       *core.BVH
}

// NewTriangleMesh creates a new triangle mesh from vertices and face indices.
// Each group of three indices in faces forms one triangle.
func NewTriangleMesh(vertices []core.Vec3, faces []int, material core.Material) (*TriangleMesh, error) {
	if len(faces)%3 != 0 {
		return nil, fmt.Errorf("face index count %d is not a multiple of 3", len(faces))
	}

	triangles := make([]core.Shape, 0, len(faces)/3)
	for i := 0; i < len(faces); i += 3 {
		i0, i1, i2 := faces[i], faces[i+1], faces[i+2]
		for _, idx := range []int{i0, i1, i2} {
			if idx < 0 || idx >= len(vertices) {
				return nil, fmt.Errorf("face %d: vertex index %d out of range [0, %d)", i/3, idx, len(vertices))
			}
		}
		triangles = append(triangles, NewTriangle(vertices[i0], vertices[i1], vertices[i2], material))
	}

	return NewTriangleMeshFromTriangles(triangles), nil
}

// NewTriangleMeshFromTriangles wraps already-built triangles
func NewTriangleMeshFromTriangles(triangles []core.Shape) *TriangleMesh {
	return &TriangleMesh{
		triangles: triangles,
		bvh:       core.NewBVH(triangles),
	}
}

// Hit tests the ray against every triangle through the mesh BVH
func (tm *TriangleMesh) Hit(ray core.Ray, tMin, tMax float64) (*core.HitRecord, bool) {
	return tm.bvh.Hit(ray, tMin, tMax)
}

// BoundingBox returns the bounding box of the whole mesh
func (tm *TriangleMesh) BoundingBox() core.AABB {
	return tm.bvh.BoundingBox()
}

// TriangleCount returns the number of triangles in the mesh
func (tm *TriangleMesh) TriangleCount() int {
	return len(tm.triangles)
}
