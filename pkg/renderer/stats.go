package renderer

import (
	"time"

	"github.com/df07/go-diffuse-raytracer/pkg/core"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels    int           // Total number of pixels rendered
	TotalSamples   int           // Total number of samples taken
	AverageSamples float64       // Average samples per pixel
	Tiles          int           // Number of tiles rendered (0 for scanline renders)
	Elapsed        time.Duration // Wall time of the render
}

// merge adds the counts from a partial render into s
func (s *RenderStats) merge(other RenderStats) {
	s.TotalPixels += other.TotalPixels
	s.TotalSamples += other.TotalSamples
}

// finalize calculates derived statistics after all pixels are rendered
func (s *RenderStats) finalize() {
	if s.TotalPixels > 0 {
		s.AverageSamples = float64(s.TotalSamples) / float64(s.TotalPixels)
	}
}

// PixelStats accumulates samples for a single pixel
type PixelStats struct {
	ColorAccum  core.Vec3 // RGB accumulator
	SampleCount int       // Number of samples taken
}

// AddSample adds a new color sample to the pixel statistics
func (ps *PixelStats) AddSample(color core.Vec3) {
	ps.ColorAccum = ps.ColorAccum.Add(color)
	ps.SampleCount++
}

// GetColor returns the mean of the samples taken so far
func (ps *PixelStats) GetColor() core.Vec3 {
	if ps.SampleCount == 0 {
		return core.NewVec3(0, 0, 0)
	}
	return ps.ColorAccum.Mul(1.0 / float64(ps.SampleCount))
}
