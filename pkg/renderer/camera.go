package renderer

import (
	"fmt"
	"math"

	"github.com/df07/go-diffuse-raytracer/pkg/core"
)

// PixelSampling selects how sample positions are jittered inside a pixel
type PixelSampling string

const (
	// SamplingDisk jitters uniformly within a disk of radius 1 around the pixel center
	SamplingDisk PixelSampling = "disk"
	// SamplingSquare jitters uniformly within the pixel's unit square
	SamplingSquare PixelSampling = "square"
	// SamplingCenter always samples the pixel center (no anti-aliasing)
	SamplingCenter PixelSampling = "center"
)

// CameraConfig contains the parameters the camera geometry is derived from
type CameraConfig struct {
	AspectRatio     float64       `json:"aspectRatio"`             // Viewport width / height
	ImageWidth      int           `json:"imageWidth"`              // Image width in pixels
	SamplesPerPixel int           `json:"samplesPerPixel"`         // Number of rays per pixel
	MaxDepth        int           `json:"maxDepth"`                // Maximum ray bounce depth
	PixelSampling   PixelSampling `json:"pixelSampling,omitempty"` // Jitter pattern (default disk)
}

// DefaultCameraConfig returns sensible default values
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		AspectRatio:     16.0 / 9.0,
		ImageWidth:      400,
		SamplesPerPixel: 100,
		MaxDepth:        50,
		PixelSampling:   SamplingDisk,
	}
}

// MergeCameraConfig returns base with every non-zero field of override applied
func MergeCameraConfig(base, override CameraConfig) CameraConfig {
	result := base
	if override.AspectRatio != 0 {
		result.AspectRatio = override.AspectRatio
	}
	if override.ImageWidth != 0 {
		result.ImageWidth = override.ImageWidth
	}
	if override.SamplesPerPixel != 0 {
		result.SamplesPerPixel = override.SamplesPerPixel
	}
	if override.MaxDepth != 0 {
		result.MaxDepth = override.MaxDepth
	}
	if override.PixelSampling != "" {
		result.PixelSampling = override.PixelSampling
	}
	return result
}

// Validate checks that the configuration describes a renderable image
func (c CameraConfig) Validate() error {
	if !(c.AspectRatio > 0) || math.IsInf(c.AspectRatio, 1) {
		return fmt.Errorf("aspect ratio %v must be positive and finite: %w", c.AspectRatio, core.ErrInvalidConfig)
	}
	if c.ImageWidth < 1 {
		return fmt.Errorf("image width %d must be at least 1: %w", c.ImageWidth, core.ErrInvalidConfig)
	}
	if c.SamplesPerPixel < 1 {
		return fmt.Errorf("samples per pixel %d must be at least 1: %w", c.SamplesPerPixel, core.ErrInvalidConfig)
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("max depth %d must not be negative: %w", c.MaxDepth, core.ErrInvalidConfig)
	}
	switch c.PixelSampling {
	case "", SamplingDisk, SamplingSquare, SamplingCenter:
	default:
		return fmt.Errorf("unknown pixel sampling %q: %w", c.PixelSampling, core.ErrInvalidConfig)
	}
	return nil
}

// ImageHeight returns the image height derived from width and aspect ratio (at least 1)
func (c CameraConfig) ImageHeight() int {
	return max(1, int(float64(c.ImageWidth)/c.AspectRatio))
}

// Camera generates primary rays. The camera sits at the origin looking down -z
// at a viewport of height 2, one unit away.
type Camera struct {
	config      CameraConfig
	imageHeight int

	center       core.Vec3 // Camera position
	pixel00Loc   core.Vec3 // Location of pixel 0, 0
	pixelDeltaU  core.Vec3 // Offset to pixel to the right
	pixelDeltaV  core.Vec3 // Offset to pixel below
	samplingMode PixelSampling
}

// NewCamera creates a camera from the given configuration
func NewCamera(config CameraConfig) (*Camera, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	imageHeight := config.ImageHeight()

	focalLength := 1.0
	viewportHeight := 2.0
	viewportWidth := viewportHeight * config.AspectRatio
	center := core.NewVec3(0, 0, 0)

	// Vectors across the horizontal and down the vertical viewport edges
	viewportU := core.NewVec3(viewportWidth, 0, 0)
	viewportV := core.NewVec3(0, -viewportHeight, 0)

	pixelDeltaU := viewportU.Mul(1.0 / float64(config.ImageWidth))
	pixelDeltaV := viewportV.Mul(1.0 / float64(imageHeight))

	viewportUpperLeft := center.
		Sub(core.NewVec3(0, 0, focalLength)).
		Sub(viewportU.Mul(0.5)).
		Sub(viewportV.Mul(0.5))
	pixel00Loc := viewportUpperLeft.Add(pixelDeltaU.Add(pixelDeltaV).Mul(0.5))

	samplingMode := config.PixelSampling
	if samplingMode == "" {
		samplingMode = SamplingDisk
	}

	return &Camera{
		config:       config,
		imageHeight:  imageHeight,
		center:       center,
		pixel00Loc:   pixel00Loc,
		pixelDeltaU:  pixelDeltaU,
		pixelDeltaV:  pixelDeltaV,
		samplingMode: samplingMode,
	}, nil
}

// GetRay generates a ray through pixel (i, j), jittered according to the
// camera's pixel sampling mode
func (c *Camera) GetRay(i, j int, sampler core.Sampler) core.Ray {
	offset := c.sampleOffset(sampler)
	pixelSample := c.pixel00Loc.
		Add(c.pixelDeltaU.Mul(float64(i) + offset.X())).
		Add(c.pixelDeltaV.Mul(float64(j) + offset.Y()))

	return core.Ray{Origin: c.center, Direction: pixelSample.Sub(c.center)}
}

func (c *Camera) sampleOffset(sampler core.Sampler) core.Vec3 {
	switch c.samplingMode {
	case SamplingSquare:
		return core.SampleInUnitSquare(sampler)
	case SamplingCenter:
		return core.NewVec3(0, 0, 0)
	default:
		return core.SampleInUnitDisk(sampler)
	}
}

// Config returns the configuration the camera was built from
func (c *Camera) Config() CameraConfig { return c.config }

// Width returns the image width in pixels
func (c *Camera) Width() int { return c.config.ImageWidth }

// Height returns the image height in pixels
func (c *Camera) Height() int { return c.imageHeight }

// SamplesPerPixel returns the number of rays averaged per pixel
func (c *Camera) SamplesPerPixel() int { return c.config.SamplesPerPixel }

// MaxDepth returns the bounce budget for each primary ray
func (c *Camera) MaxDepth() int { return c.config.MaxDepth }

// Center returns the camera position
func (c *Camera) Center() core.Vec3 { return c.center }

// Pixel00Loc returns the world position of the center of pixel (0, 0)
func (c *Camera) Pixel00Loc() core.Vec3 { return c.pixel00Loc }

// PixelDeltas returns the world-space step to the next pixel right and down
func (c *Camera) PixelDeltas() (u, v core.Vec3) { return c.pixelDeltaU, c.pixelDeltaV }
