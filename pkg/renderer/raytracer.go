package renderer

import (
	"context"
	"image"
	"time"

	"github.com/df07/go-diffuse-raytracer/pkg/core"
	"github.com/df07/go-diffuse-raytracer/pkg/geometry"
	"github.com/df07/go-diffuse-raytracer/pkg/integrator"
)

// PixelSink receives final pixel colors
type PixelSink interface {
	SetPixel(x, y int, color core.Vec3)
}

// RenderOptions configures the order pixels are rendered in and how they are seeded
type RenderOptions struct {
	TileSize   int                   // Edge length of each tile (0 = scanline order with one sampler)
	Seed       int64                 // Base seed for all samplers
	Background integrator.Background // Sky seen by escaping rays (nil = default sky)
	Logger     core.Logger           // Progress output (nil = discard)
}

// DefaultSeed is used when a caller does not care about the sample sequence
const DefaultSeed = 42

// DefaultRenderOptions returns sensible default values
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{
		TileSize: DefaultTileSize,
		Seed:     DefaultSeed,
	}
}

// Raytracer renders a world through a camera with an integrator
type Raytracer struct {
	camera     *Camera
	world      geometry.Shape
	integrator integrator.Integrator
	logger     core.Logger
}

// NewRaytracer creates a new raytracer
func NewRaytracer(camera *Camera, world geometry.Shape, integratorInst integrator.Integrator, logger core.Logger) *Raytracer {
	if logger == nil {
		logger = NopLogger{}
	}
	return &Raytracer{
		camera:     camera,
		world:      world,
		integrator: integratorInst,
		logger:     logger,
	}
}

// Camera returns the camera rays are generated from
func (rt *Raytracer) Camera() *Camera {
	return rt.camera
}

// RenderPixel returns the mean of SamplesPerPixel independent radiance
// estimates for pixel (i, j)
func (rt *Raytracer) RenderPixel(i, j int, sampler core.Sampler) core.Vec3 {
	var ps PixelStats
	for sample := 0; sample < rt.camera.SamplesPerPixel(); sample++ {
		ray := rt.camera.GetRay(i, j, sampler)
		ps.AddSample(rt.integrator.RayColor(ray, rt.world, sampler))
	}
	return ps.GetColor()
}

// RenderBounds renders the pixels inside bounds into sink, row by row
func (rt *Raytracer) RenderBounds(bounds image.Rectangle, sink PixelSink, sampler core.Sampler) RenderStats {
	for j := bounds.Min.Y; j < bounds.Max.Y; j++ {
		for i := bounds.Min.X; i < bounds.Max.X; i++ {
			sink.SetPixel(i, j, rt.RenderPixel(i, j, sampler))
		}
	}

	pixels := bounds.Dx() * bounds.Dy()
	return RenderStats{
		TotalPixels:  pixels,
		TotalSamples: pixels * rt.camera.SamplesPerPixel(),
	}
}

// Render renders the whole image one scanline at a time, drawing every
// sample from sampler
func (rt *Raytracer) Render(sink PixelSink, sampler core.Sampler) RenderStats {
	stats, _ := rt.renderScanlines(context.Background(), sink, sampler)
	return stats
}

func (rt *Raytracer) renderScanlines(ctx context.Context, sink PixelSink, sampler core.Sampler) (RenderStats, error) {
	startTime := time.Now()
	width, height := rt.camera.Width(), rt.camera.Height()

	var stats RenderStats
	for j := 0; j < height; j++ {
		if err := ctx.Err(); err != nil {
			rt.logger.Printf("\nRender cancelled: %v\n", err)
			return RenderStats{}, err
		}
		rt.logger.Printf("\rScanlines remaining: %d ", height-j)
		stats.merge(rt.RenderBounds(image.Rect(0, j, width, j+1), sink, sampler))
	}
	rt.logger.Printf("\rDone.                 \n")

	stats.finalize()
	stats.Elapsed = time.Since(startTime)
	return stats, nil
}

// RenderTiles renders the image tile by tile. Every tile owns a sampler
// seeded from seed and its ID, so any single tile can be re-rendered on its
// own and come out identical. Cancelling ctx stops before the next tile.
func (rt *Raytracer) RenderTiles(ctx context.Context, sink PixelSink, tileSize int, seed int64) (RenderStats, error) {
	startTime := time.Now()
	if tileSize <= 0 {
		tileSize = DefaultTileSize
	}

	tiles := NewTileGrid(rt.camera.Width(), rt.camera.Height(), tileSize, seed)
	rt.logger.Printf("Rendering %d tiles...\n", len(tiles))

	var stats RenderStats
	for i, tile := range tiles {
		if err := ctx.Err(); err != nil {
			rt.logger.Printf("\nRender cancelled: %v\n", err)
			return RenderStats{}, err
		}
		stats.merge(rt.RenderTile(tile, sink))
		rt.logger.Printf("\rTiles remaining: %d ", len(tiles)-i-1)
	}
	rt.logger.Printf("\rDone.              \n")

	stats.Tiles = len(tiles)
	stats.finalize()
	stats.Elapsed = time.Since(startTime)
	return stats, nil
}

// RenderTile renders a single tile with its own sampler
func (rt *Raytracer) RenderTile(tile *Tile, sink PixelSink) RenderStats {
	return rt.RenderBounds(tile.Bounds, sink, tile.Sampler)
}

// Render is the single entry point for rendering a world: it validates the
// camera configuration, builds the diffuse integrator and renders every
// pixel of the image into sink. The sink must accept coordinates in
// [0, config.ImageWidth) x [0, config.ImageHeight()).
func Render(ctx context.Context, config CameraConfig, world geometry.Shape, sink PixelSink, opts RenderOptions) (RenderStats, error) {
	camera, err := NewCamera(config)
	if err != nil {
		return RenderStats{}, err
	}

	diffuse := integrator.NewDiffuseIntegrator(camera.MaxDepth())
	if opts.Background != nil {
		diffuse.Background = opts.Background
	}

	rt := NewRaytracer(camera, world, diffuse, opts.Logger)

	if opts.TileSize <= 0 {
		return rt.renderScanlines(ctx, sink, core.NewSeededSampler(opts.Seed))
	}
	return rt.RenderTiles(ctx, sink, opts.TileSize, opts.Seed)
}
