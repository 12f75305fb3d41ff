package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-diffuse-raytracer/pkg/core"
	"github.com/df07/go-diffuse-raytracer/pkg/raster"
	"github.com/df07/go-diffuse-raytracer/pkg/renderer"
	"github.com/df07/go-diffuse-raytracer/pkg/scene"
)

// Config holds the command line options
type Config struct {
	Scene     string
	ScenesDir string
	Width     int
	Aspect    float64
	Samples   int
	Depth     int
	Sampling  string
	Seed      int64
	TileSize  int
	Gamma     float64
	Out       string
	SaveScene string
	List      bool
	Help      bool
}

// newFlagSet registers the command line flags, storing values in cfg
func newFlagSet(cfg *Config, output io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("raytracer", flag.ContinueOnError)
	fs.SetOutput(output)

	fs.StringVar(&cfg.Scene, "scene", "default", "Scene: 'default', 'sphere-grid', 'empty' or a path to a .json scene file")
	fs.StringVar(&cfg.ScenesDir, "scenes", "scenes", "Directory listed by -list")
	fs.IntVar(&cfg.Width, "width", 0, "Image width in pixels (0 = scene default)")
	fs.Float64Var(&cfg.Aspect, "aspect", 0, "Aspect ratio width/height (0 = scene default)")
	fs.IntVar(&cfg.Samples, "samples", 0, "Samples per pixel (0 = scene default)")
	fs.IntVar(&cfg.Depth, "depth", 0, "Maximum bounce depth (0 = scene default)")
	fs.StringVar(&cfg.Sampling, "sampling", "", "Pixel sampling: 'disk', 'square' or 'center' (empty = scene default)")
	fs.Int64Var(&cfg.Seed, "seed", renderer.DefaultSeed, "Base random seed")
	fs.IntVar(&cfg.TileSize, "tile", renderer.DefaultTileSize, "Tile size in pixels (0 = render scanline by scanline)")
	fs.Float64Var(&cfg.Gamma, "gamma", raster.SRGBGamma, "Output gamma (1 = linear)")
	fs.StringVar(&cfg.Out, "out", "", "Output PNG path (default output/<scene>/render_<timestamp>.png)")
	fs.StringVar(&cfg.SaveScene, "save-scene", "", "Also write the scene description to this JSON file")
	fs.BoolVar(&cfg.List, "list", false, "List available scenes and exit")
	fs.BoolVar(&cfg.Help, "help", false, "Show help information")
	return fs
}

// parseFlags parses args (without the program name) into a Config
func parseFlags(args []string, output io.Writer) (Config, error) {
	var cfg Config
	fs := newFlagSet(&cfg, output)
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if fs.NArg() > 0 {
		return Config{}, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if cfg.Width < 0 || cfg.Samples < 0 || cfg.Depth < 0 || cfg.Aspect < 0 || cfg.TileSize < 0 {
		return Config{}, fmt.Errorf("numeric options must not be negative: %w", core.ErrInvalidConfig)
	}
	return cfg, nil
}

// cameraOverrides returns the camera fields set on the command line
func (cfg Config) cameraOverrides() renderer.CameraConfig {
	return renderer.CameraConfig{
		AspectRatio:     cfg.Aspect,
		ImageWidth:      cfg.Width,
		SamplesPerPixel: cfg.Samples,
		MaxDepth:        cfg.Depth,
		PixelSampling:   renderer.PixelSampling(cfg.Sampling),
	}
}

// createScene creates the scene named on the command line
func createScene(cfg Config) (*scene.Scene, error) {
	if cfg.Scene == "" {
		return nil, fmt.Errorf("no scene given: %w", scene.ErrUnknownScene)
	}
	return scene.Create(cfg.Scene, cfg.cameraOverrides())
}

// outputPath returns the PNG path for a render started at now, creating its directory
func outputPath(cfg Config, sceneName string, now time.Time) (string, error) {
	path := cfg.Out
	if path == "" {
		name := strings.TrimSuffix(filepath.Base(sceneName), filepath.Ext(sceneName))
		if name == "" || name == "." {
			name = "scene"
		}
		timestamp := now.Format("20060102_150405")
		path = filepath.Join("output", name, fmt.Sprintf("render_%s.png", timestamp))
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	return path, nil
}

// listScenes prints the built-in scenes and the scene files in dir
func listScenes(w io.Writer, dir string) error {
	response, err := scene.ListAllScenes(dir)
	if err != nil {
		return err
	}
	for _, group := range response.Groups {
		fmt.Fprintf(w, "%s:\n", group.Name)
		for _, info := range group.Scenes {
			if info.Description != "" {
				fmt.Fprintf(w, "  %-20s %s\n", info.ID, info.Description)
			} else {
				fmt.Fprintf(w, "  %s\n", info.ID)
			}
		}
	}
	return nil
}

func printHelp(w io.Writer) {
	fmt.Fprintln(w, "Diffuse Raytracer")
	fmt.Fprintln(w, "Usage: raytracer [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	var cfg Config
	newFlagSet(&cfg, w).PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output will be saved to output/<scene>/render_<timestamp>.png unless -out is given")
}

// run renders the configured scene and writes the PNG
func run(ctx context.Context, cfg Config, stdout io.Writer, logger core.Logger) (string, error) {
	fmt.Fprintln(stdout, "Starting Diffuse Raytracer...")

	selectedScene, err := createScene(cfg)
	if err != nil {
		return "", err
	}
	camera := selectedScene.Camera
	fmt.Fprintf(stdout, "Using scene %q: %d objects, %dx%d, %d samples, depth %d\n",
		selectedScene.Name, selectedScene.GetPrimitiveCount(),
		camera.ImageWidth, camera.ImageHeight(), camera.SamplesPerPixel, camera.MaxDepth)

	if cfg.SaveScene != "" {
		if err := scene.Save(cfg.SaveScene, selectedScene); err != nil {
			return "", err
		}
		fmt.Fprintf(stdout, "Scene saved as %s\n", cfg.SaveScene)
	}

	img, err := raster.NewImage(camera.ImageWidth, camera.ImageHeight())
	if err != nil {
		return "", err
	}

	opts := renderer.RenderOptions{
		TileSize:   cfg.TileSize,
		Seed:       cfg.Seed,
		Background: selectedScene.Background,
		Logger:     logger,
	}
	stats, err := renderer.Render(ctx, camera, selectedScene.World, img, opts)
	if err != nil {
		return "", err
	}

	fmt.Fprintf(stdout, "Render completed in %v\n", stats.Elapsed)
	fmt.Fprintf(stdout, "Samples per pixel: %.1f (%d samples)\n", stats.AverageSamples, stats.TotalSamples)

	path, err := outputPath(cfg, cfg.Scene, time.Now())
	if err != nil {
		return "", err
	}
	if err := img.SavePNG(path, raster.EncodeOptions{Gamma: cfg.Gamma}); err != nil {
		return "", err
	}

	fmt.Fprintf(stdout, "Render saved as %s\n", path)
	return path, nil
}

func main() {
	cfg, err := parseFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	if cfg.Help {
		printHelp(os.Stdout)
		return
	}
	if cfg.List {
		if err := listScenes(os.Stdout, cfg.ScenesDir); err != nil {
			log.Fatalf("Error listing scenes: %v", err)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if _, err := run(ctx, cfg, os.Stdout, renderer.NewDefaultLogger()); err != nil {
		log.Fatalf("Error: %v", err)
	}
}
