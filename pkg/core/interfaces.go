package core

// Logger interface for raytracer logging.
// *slog.Logger satisfies it.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
}

// Material interface for surfaces that can scatter rays.
// Scatter returns false when the incoming ray is absorbed.
type Material interface {
	Scatter(rayIn Ray, hit HitRecord, sampler Sampler) (ScatterResult, bool)
}

// Emitter interface for materials that emit light
type Emitter interface {
	Emitted(uv Vec2, point Vec3) Vec3
}

// ScatterResult contains the result of material scattering
type ScatterResult struct {
	Scattered   Ray  // The scattered ray
	Attenuation Vec3 // Color attenuation
}

// HitRecord contains information about a ray-object intersection
type HitRecord struct {
	Point     Vec3     // Point of intersection
	Normal    Vec3     // Unit surface normal, facing against the incoming ray
	UV        Vec2     // Surface coordinates in [0,1]²
	T         float64  // Parameter t along the ray
	FrontFace bool     // Whether ray hit the front face
	Material  Material // Material of the hit object
}

// SetFaceNormal sets the normal vector and determines front/back face.
// outwardNormal must have unit length.
func (h *HitRecord) SetFaceNormal(ray Ray, outwardNormal Vec3) {
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Multiply(-1)
	}
}

// Hittable is anything a ray can be intersected with
type Hittable interface {
	Hit(ray Ray, tMin, tMax float64) (*HitRecord, bool)
}

// Shape is a bounded hittable that can be placed in an acceleration structure
type Shape interface {
	Hittable
	BoundingBox() AABB
}

// EmittedLight returns the light emitted by the hit material, or black if it does not emit
func EmittedLight(hit *HitRecord) Vec3 {
	if emitter, isEmissive := hit.Material.(Emitter); isEmissive {
		return emitter.Emitted(hit.UV, hit.Point)
	}
	return Vec3{X: 0, Y: 0, Z: 0}
}
