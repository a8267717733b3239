package geometry

import (
	"math"

	"github.com/df07/go-texture-pathtracer/pkg/core"
)

// Disc represents a circular disc in 3D space
type Disc struct {
	Center   core.Vec3     // Center of the disc
	Normal   core.Vec3     // Unit normal
	Radius   float64       // Radius of the disc
	Material core.Material // Material of the disc
	Right    core.Vec3     // In-plane axis where the polar angle is zero
	Up       core.Vec3     // In-plane axis completing the frame
}

// NewDisc creates a new disc
func NewDisc(center, normal core.Vec3, radius float64, material core.Material) *Disc {
	n := normal.Normalize()

	right := core.NewVec3(1, 0, 0)
	if math.Abs(n.X) > 0.1 {
		right = core.NewVec3(0, 1, 0)
	}
	right = right.Cross(n).Normalize()
	up := n.Cross(right).Normalize()

	return &Disc{
		Center:   center,
		Normal:   n,
		Radius:   radius,
		Material: material,
		Right:    right,
		Up:       up,
	}
}

// Hit intersects the disc's plane and keeps points within the radius.
// UV is polar: u is the angle around the normal over 2π, v the distance from the center over the radius.
func (d *Disc) Hit(ray core.Ray, tMin, tMax float64) (*core.HitRecord, bool) {
	denom := d.Normal.Dot(ray.Direction)
	if math.Abs(denom) < 1e-8 {
		return nil, false
	}

	t := d.Normal.Dot(d.Center.Subtract(ray.Origin)) / denom
	if t < tMin || t > tMax {
		return nil, false
	}

	hitPoint := ray.At(t)
	offset := hitPoint.Subtract(d.Center)
	distSquared := offset.LengthSquared()
	if distSquared > d.Radius*d.Radius {
		return nil, false
	}

	phi := math.Atan2(offset.Dot(d.Up), offset.Dot(d.Right))
	if phi < 0 {
		phi += 2 * math.Pi
	}

	hitRecord := &core.HitRecord{
		T:        t,
		Point:    hitPoint,
		UV:       core.NewVec2(phi/(2*math.Pi), math.Sqrt(distSquared)/d.Radius),
		Material: d.Material,
	}
	hitRecord.SetFaceNormal(ray, d.Normal)

	return hitRecord, true
}

// BoundingBox returns the tight box around the disc, padded so axis-aligned discs aren't flat
func (d *Disc) BoundingBox() core.AABB {
	// Extent along each axis is r·sqrt(1 - n_i²)
	extent := core.NewVec3(
		d.Radius*math.Sqrt(math.Max(0, 1-d.Normal.X*d.Normal.X)),
		d.Radius*math.Sqrt(math.Max(0, 1-d.Normal.Y*d.Normal.Y)),
		d.Radius*math.Sqrt(math.Max(0, 1-d.Normal.Z*d.Normal.Z)),
	)
	return core.NewAABB(d.Center.Subtract(extent), d.Center.Add(extent)).Pad(1e-4)
}
