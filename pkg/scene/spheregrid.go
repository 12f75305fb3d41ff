package scene

import (
	"github.com/df07/go-diffuse-raytracer/pkg/core"
	"github.com/df07/go-diffuse-raytracer/pkg/renderer"
)

const (
	gridColumns = 5
	gridRows    = 3
	gridRadius  = 0.3
	gridSpacing = 0.9
)

// NewSphereGridScene creates a grid of small spheres resting on the ground
// sphere, receding away from the camera
func NewSphereGridScene(cameraOverrides ...renderer.CameraConfig) *Scene {
	defaults := renderer.DefaultCameraConfig()
	defaults.SamplesPerPixel = 50

	s := newScene("sphere-grid", applyOverrides(defaults, cameraOverrides))

	// Ground top is at y = -0.5 near the grid, so centers sit one radius above it
	y := -0.5 + gridRadius
	for row := 0; row < gridRows; row++ {
		z := -1.5 - float64(row)*gridSpacing
		for col := 0; col < gridColumns; col++ {
			x := (float64(col) - float64(gridColumns-1)/2) * gridSpacing
			s.mustAddSphere(core.NewVec3(x, y, z), gridRadius)
		}
	}
	s.mustAddSphere(core.NewVec3(0, -100.5, -1), 100) // Ground
	return s
}
