package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vec3 represents a 3D vector, point or linear RGB color
type Vec3 = mgl64.Vec3

// Vec2 represents a 2D sample or offset
type Vec2 = mgl64.Vec2

// NewVec3 creates a new Vec3
func NewVec3(x, y, z float64) Vec3 {
	return Vec3{x, y, z}
}

// NewVec2 creates a new Vec2
func NewVec2(x, y float64) Vec2 {
	return Vec2{x, y}
}

// LengthSquared returns the squared magnitude of the vector
func LengthSquared(v Vec3) float64 {
	return v.Dot(v)
}

// IsFinite reports whether every component is neither NaN nor infinite
func IsFinite(v Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// NearZero reports whether the vector is close to zero in all dimensions
func NearZero(v Vec3) bool {
	const s = 1e-8
	return math.Abs(v[0]) < s && math.Abs(v[1]) < s && math.Abs(v[2]) < s
}

// Lerp linearly interpolates between a (t=0) and b (t=1)
func Lerp(a, b Vec3, t float64) Vec3 {
	return a.Mul(1.0 - t).Add(b.Mul(t))
}
