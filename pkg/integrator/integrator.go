package integrator

import (
	"github.com/df07/go-diffuse-raytracer/pkg/core"
	"github.com/df07/go-diffuse-raytracer/pkg/geometry"
)

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// RayColor computes the radiance estimate carried back along ray
	RayColor(ray core.Ray, world geometry.Shape, sampler core.Sampler) core.Vec3
}

// Background supplies the color seen by rays that escape the scene
type Background interface {
	Color(ray core.Ray) core.Vec3
}
