package scene

import (
	"errors"
	"fmt"

	"github.com/df07/go-diffuse-raytracer/pkg/core"
	"github.com/df07/go-diffuse-raytracer/pkg/geometry"
	"github.com/df07/go-diffuse-raytracer/pkg/integrator"
	"github.com/df07/go-diffuse-raytracer/pkg/renderer"
)

// ErrUnknownScene is returned when a scene name matches no built-in scene or file
var ErrUnknownScene = errors.New("unknown scene")

// Scene contains all the elements needed for rendering
type Scene struct {
	Name       string
	Summary    string // One-line description shown in scene listings
	Camera     renderer.CameraConfig
	Background integrator.GradientBackground
	World      *geometry.ShapeList // Objects in the scene
}

// SphereDescription is the serialized form of a sphere
type SphereDescription struct {
	Center core.Vec3 `json:"center"`
	Radius float64   `json:"radius"`
}

// Description is the serialized form of a scene. Missing camera fields
// fall back to the default camera and a missing background to the default sky.
type Description struct {
	Name       string                         `json:"name"`
	Summary    string                         `json:"summary,omitempty"`
	Camera     renderer.CameraConfig          `json:"camera"`
	Background *integrator.GradientBackground `json:"background,omitempty"`
	Spheres    []SphereDescription            `json:"spheres"`
}

// newScene creates an empty scene with the default sky
func newScene(name string, cameraConfig renderer.CameraConfig) *Scene {
	world, _ := geometry.NewShapeList()
	return &Scene{
		Name:       name,
		Camera:     cameraConfig,
		Background: integrator.DefaultSky(),
		World:      world,
	}
}

// AddSphere adds a sphere to the scene
func (s *Scene) AddSphere(center core.Vec3, radius float64) error {
	sphere, err := geometry.NewSphere(center, radius)
	if err != nil {
		return err
	}
	return s.World.Add(sphere)
}

// GetPrimitiveCount returns the number of objects in the scene
func (s *Scene) GetPrimitiveCount() int {
	return s.World.Len()
}

// Describe converts the scene to its serialized form. Only spheres can be
// serialized.
func (s *Scene) Describe() (Description, error) {
	background := s.Background
	desc := Description{
		Name:       s.Name,
		Summary:    s.Summary,
		Camera:     s.Camera,
		Background: &background,
		Spheres:    make([]SphereDescription, 0, s.World.Len()),
	}
	for i, shape := range s.World.Shapes() {
		sphere, ok := shape.(*geometry.Sphere)
		if !ok {
			return Description{}, fmt.Errorf("shape %d: %T cannot be serialized", i, shape)
		}
		desc.Spheres = append(desc.Spheres, SphereDescription{Center: sphere.Center, Radius: sphere.Radius})
	}
	return desc, nil
}

// FromDescription builds a scene, validating the camera and every sphere
func FromDescription(desc Description) (*Scene, error) {
	cameraConfig := renderer.MergeCameraConfig(renderer.DefaultCameraConfig(), desc.Camera)
	if err := cameraConfig.Validate(); err != nil {
		return nil, fmt.Errorf("camera: %w", err)
	}

	s := newScene(desc.Name, cameraConfig)
	s.Summary = desc.Summary
	if desc.Background != nil {
		s.Background = *desc.Background
	}
	for i, sd := range desc.Spheres {
		if err := s.AddSphere(sd.Center, sd.Radius); err != nil {
			return nil, fmt.Errorf("sphere %d: %w", i, err)
		}
	}
	return s, nil
}

// applyOverrides merges the first camera override, if any, onto defaults
func applyOverrides(defaults renderer.CameraConfig, overrides []renderer.CameraConfig) renderer.CameraConfig {
	if len(overrides) > 0 {
		return renderer.MergeCameraConfig(defaults, overrides[0])
	}
	return defaults
}
