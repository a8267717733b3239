package loaders

import (
	"fmt"

	"github.com/fogleman/fauxgl"

	"github.com/df07/go-texture-pathtracer/pkg/core"
)

// MeshData is an indexed triangle list
type MeshData struct {
	Vertices []core.Vec3
	Faces    []int // Three vertex indices per triangle
}

// TriangleCount returns the number of triangles in the mesh
func (m *MeshData) TriangleCount() int {
	return len(m.Faces) / 3
}

// LoadMesh reads an OBJ, STL or PLY file. When fit is true the mesh is scaled
// and centered to fill the cube [-1, 1]³.
func LoadMesh(path string, fit bool) (*MeshData, error) {
	mesh, err := fauxgl.LoadMesh(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load mesh %s: %w", path, err)
	}
	if len(mesh.Triangles) == 0 {
		return nil, fmt.Errorf("mesh %s has no triangles", path)
	}
	if fit {
		mesh.BiUnitCube()
	}
	return fromFauxgl(mesh), nil
}

// fromFauxgl flattens a fauxgl mesh, giving every triangle its own three vertices
func fromFauxgl(mesh *fauxgl.Mesh) *MeshData {
	data := &MeshData{
		Vertices: make([]core.Vec3, 0, 3*len(mesh.Triangles)),
		Faces:    make([]int, 0, 3*len(mesh.Triangles)),
	}
	for _, t := range mesh.Triangles {
		for _, v := range []fauxgl.Vertex{t.V1, t.V2, t.V3} {
			data.Faces = append(data.Faces, len(data.Vertices))
			data.Vertices = append(data.Vertices, core.NewVec3(v.Position.X, v.Position.Y, v.Position.Z))
		}
	}
	return data
}
