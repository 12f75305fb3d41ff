package geometry

import (
	"fmt"
	"math"

	"github.com/df07/go-diffuse-raytracer/pkg/core"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center core.Vec3
	Radius float64
}

// NewSphere creates a new sphere. A radius that is not strictly positive
// and finite would divide by zero when computing normals, so it is rejected.
func NewSphere(center core.Vec3, radius float64) (*Sphere, error) {
	if !core.IsFinite(center) {
		return nil, fmt.Errorf("sphere center %v: %w", center, core.ErrDegenerateGeometry)
	}
	if !(radius > 0) || math.IsInf(radius, 1) {
		return nil, fmt.Errorf("sphere radius %v: %w", radius, core.ErrDegenerateGeometry)
	}
	return &Sphere{
		Center: center,
		Radius: radius,
	}, nil
}

// Hit tests if a ray intersects with the sphere
func (s *Sphere) Hit(ray core.Ray, rayT core.Interval) (*HitRecord, bool) {
	// Vector from ray origin to sphere center
	oc := s.Center.Sub(ray.Origin)

	// Quadratic in t with b = -2h: a*t² - 2h*t + c = 0
	a := core.LengthSquared(ray.Direction)
	h := oc.Dot(ray.Direction)
	c := core.LengthSquared(oc) - s.Radius*s.Radius

	discriminant := h*h - a*c
	if discriminant < 0 {
		return nil, false
	}

	sqrtD := math.Sqrt(discriminant)

	// Try the closer intersection point first
	root := (h - sqrtD) / a
	if !rayT.Surrounds(root) {
		root = (h + sqrtD) / a
		if !rayT.Surrounds(root) {
			return nil, false
		}
	}

	hitRecord := &HitRecord{
		T:     root,
		Point: ray.At(root),
	}

	// Outward normal (from center to hit point), unit length by construction
	outwardNormal := hitRecord.Point.Sub(s.Center).Mul(1.0 / s.Radius)
	hitRecord.SetFaceNormal(ray, outwardNormal)

	return hitRecord, true
}
