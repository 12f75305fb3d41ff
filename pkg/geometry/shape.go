package geometry

import "github.com/df07/go-diffuse-raytracer/pkg/core"

// HitRecord contains information about a ray-object intersection
type HitRecord struct {
	Point     core.Vec3 // Point of intersection
	Normal    core.Vec3 // Unit surface normal, always facing against the ray
	T         float64   // Parameter t along the ray
	FrontFace bool      // Whether the outward normal already faced the ray
}

// SetFaceNormal sets the normal vector and determines front/back face.
// outwardNormal must have unit length.
func (h *HitRecord) SetFaceNormal(ray core.Ray, outwardNormal core.Vec3) {
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Mul(-1)
	}
}

// Shape interface for objects that can be hit by rays.
// Hit reports the nearest intersection whose t satisfies rayT.Surrounds.
type Shape interface {
	Hit(ray core.Ray, rayT core.Interval) (*HitRecord, bool)
}
