package integrator

import (
	"math"

	"github.com/df07/go-diffuse-raytracer/pkg/core"
	"github.com/df07/go-diffuse-raytracer/pkg/geometry"
)

// DefaultReflectance is the fraction of light a diffuse bounce keeps
const DefaultReflectance = 0.5

// DiffuseIntegrator bounces rays uniformly over the hemisphere around each
// hit normal until they escape to the background or run out of depth
type DiffuseIntegrator struct {
	MaxDepth    int
	Reflectance float64
	Background  Background
}

// NewDiffuseIntegrator creates an integrator with 50% reflectance and the default sky
func NewDiffuseIntegrator(maxDepth int) *DiffuseIntegrator {
	return &DiffuseIntegrator{
		MaxDepth:    maxDepth,
		Reflectance: DefaultReflectance,
		Background:  DefaultSky(),
	}
}

// RayColor implements Integrator using the configured depth budget
func (d *DiffuseIntegrator) RayColor(ray core.Ray, world geometry.Shape, sampler core.Sampler) core.Vec3 {
	return d.Shade(ray, d.MaxDepth, world, sampler)
}

// Shade returns the radiance estimate for ray with the given depth budget.
//
// It is equivalent to the recursive definition
//
//	shade(r, 0)     = black
//	shade(r, depth) = background(r)                          on miss
//	shade(r, depth) = reflectance * shade(scatter(r), depth-1) on hit
//
// but carries the product of reflectances in a loop instead of on the stack.
func (d *DiffuseIntegrator) Shade(ray core.Ray, depth int, world geometry.Shape, sampler core.Sampler) core.Vec3 {
	attenuation := 1.0

	for ; depth > 0; depth-- {
		// Exclude t=0 so a bounce ray never re-hits the surface it starts on
		hit, isHit := world.Hit(ray, core.NewInterval(0, math.Inf(1)))
		if !isHit {
			return d.Background.Color(ray).Mul(attenuation)
		}

		direction := core.RandomOnHemisphere(hit.Normal, sampler)
		ray = core.Ray{Origin: hit.Point, Direction: direction}
		attenuation *= d.Reflectance
	}

	// Depth budget exhausted: no more light is gathered
	return core.NewVec3(0, 0, 0)
}
