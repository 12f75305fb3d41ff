package scene

import (
	"github.com/df07/go-diffuse-raytracer/pkg/core"
	"github.com/df07/go-diffuse-raytracer/pkg/renderer"
)

// NewDefaultScene creates the classic scene: one sphere resting on a huge
// ground sphere under the sky
func NewDefaultScene(cameraOverrides ...renderer.CameraConfig) *Scene {
	cameraConfig := applyOverrides(renderer.DefaultCameraConfig(), cameraOverrides)

	s := newScene("default", cameraConfig)
	s.mustAddSphere(core.NewVec3(0, 0, -1), 0.5)
	s.mustAddSphere(core.NewVec3(0, -100.5, -1), 100) // Ground
	return s
}

// NewEmptyScene creates a scene with nothing but sky
func NewEmptyScene(cameraOverrides ...renderer.CameraConfig) *Scene {
	return newScene("empty", applyOverrides(renderer.DefaultCameraConfig(), cameraOverrides))
}

// mustAddSphere is for hard-coded scenes whose spheres are known to be valid
func (s *Scene) mustAddSphere(center core.Vec3, radius float64) {
	if err := s.AddSphere(center, radius); err != nil {
		panic(err)
	}
}
