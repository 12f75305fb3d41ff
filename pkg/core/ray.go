package core

import "fmt"

// Ray represents a ray with an origin and direction
type Ray struct {
	Origin    Vec3
	Direction Vec3
}

// NewRay creates a new ray, rejecting directions that would make
// intersection tests divide by zero or propagate NaN.
func NewRay(origin, direction Vec3) (Ray, error) {
	if !IsFinite(origin) {
		return Ray{}, fmt.Errorf("ray origin %v: %w", origin, ErrDegenerateRay)
	}
	if !IsFinite(direction) || LengthSquared(direction) == 0 {
		return Ray{}, fmt.Errorf("ray direction %v: %w", direction, ErrDegenerateRay)
	}
	return Ray{Origin: origin, Direction: direction}, nil
}

// At returns the point at parameter t along the ray
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}
