package integrator

import "github.com/df07/go-diffuse-raytracer/pkg/core"

// GradientBackground is a vertical sky gradient: Bottom when the ray points
// straight down, Top when it points straight up.
type GradientBackground struct {
	Top    core.Vec3 `json:"top"`
	Bottom core.Vec3 `json:"bottom"`
}

// DefaultSky returns the white-to-blue sky gradient
func DefaultSky() GradientBackground {
	return GradientBackground{
		Top:    core.NewVec3(0.5, 0.7, 1.0),
		Bottom: core.NewVec3(1.0, 1.0, 1.0),
	}
}

// Color returns the gradient color based on ray direction
func (g GradientBackground) Color(ray core.Ray) core.Vec3 {
	unitDirection := ray.Direction.Normalize()

	// Map y from [-1,1] to [0,1]
	a := 0.5 * (unitDirection.Y() + 1.0)
	return g.Bottom.Mul(1.0 - a).Add(g.Top.Mul(a))
}
