package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/df07/go-diffuse-raytracer/pkg/core"
	"github.com/df07/go-diffuse-raytracer/pkg/raster"
	"github.com/df07/go-diffuse-raytracer/pkg/renderer"
	"github.com/df07/go-diffuse-raytracer/pkg/scene"
)

func TestParseFlags_Defaults(t *testing.T) {
	cfg, err := parseFlags(nil, io.Discard)
	if err != nil {
		t.Fatalf("parseFlags failed: %v", err)
	}

	if cfg.Scene != "default" {
		t.Errorf("Expected default scene, got %q", cfg.Scene)
	}
	if cfg.Seed != renderer.DefaultSeed || cfg.TileSize != renderer.DefaultTileSize {
		t.Errorf("Unexpected seed/tile defaults: %d/%d", cfg.Seed, cfg.TileSize)
	}
	if cfg.Gamma != raster.SRGBGamma {
		t.Errorf("Expected gamma %v, got %v", raster.SRGBGamma, cfg.Gamma)
	}
	if cfg.cameraOverrides() != (renderer.CameraConfig{}) {
		t.Errorf("No camera flags should mean no overrides, got %+v", cfg.cameraOverrides())
	}
}

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
		check   func(t *testing.T, cfg Config)
	}{
		{
			name: "camera overrides",
			args: []string{"-width", "64", "-aspect", "2", "-samples", "8", "-depth", "4", "-sampling", "square"},
			check: func(t *testing.T, cfg Config) {
				want := renderer.CameraConfig{AspectRatio: 2, ImageWidth: 64, SamplesPerPixel: 8, MaxDepth: 4, PixelSampling: renderer.SamplingSquare}
				if cfg.cameraOverrides() != want {
					t.Errorf("Expected %+v, got %+v", want, cfg.cameraOverrides())
				}
			},
		},
		{
			name: "scanline mode",
			args: []string{"-tile", "0", "-seed", "-3", "-gamma", "1"},
			check: func(t *testing.T, cfg Config) {
				if cfg.TileSize != 0 || cfg.Seed != -3 || cfg.Gamma != 1 {
					t.Errorf("Unexpected config %+v", cfg)
				}
			},
		},
		{
			name: "list and help",
			args: []string{"-list", "-help", "-scenes", "elsewhere"},
			check: func(t *testing.T, cfg Config) {
				if !cfg.List || !cfg.Help || cfg.ScenesDir != "elsewhere" {
					t.Errorf("Unexpected config %+v", cfg)
				}
			},
		},
		{name: "unknown flag", args: []string{"-workers", "4"}, wantErr: true},
		{name: "bad number", args: []string{"-width", "wide"}, wantErr: true},
		{name: "negative width", args: []string{"-width", "-5"}, wantErr: true},
		{name: "negative tile", args: []string{"-tile", "-1"}, wantErr: true},
		{name: "stray argument", args: []string{"cornell"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := parseFlags(tt.args, io.Discard)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected an error for %v", tt.args)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseFlags(%v) failed: %v", tt.args, err)
			}
			tt.check(t, cfg)
		})
	}

	if _, err := parseFlags([]string{"-h"}, io.Discard); !errors.Is(err, flag.ErrHelp) {
		t.Errorf("Expected flag.ErrHelp for -h, got %v", err)
	}
}

func TestCreateScene(t *testing.T) {
	tests := []struct {
		name        string
		sceneType   string
		expectError bool
	}{
		{"default scene", "default", false},
		{"basic alias", "basic", false},
		{"sphere grid", "sphere-grid", false},
		{"empty scene", "empty", false},
		{"unknown scene", "cornell", true},
		{"missing file", "scenes/nonexistent.json", true},
		{"empty scene name", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			created, err := createScene(Config{Scene: tt.sceneType, Width: 40})

			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error for scene type '%s', but got none", tt.sceneType)
				}
				if created != nil {
					t.Errorf("Expected nil scene for invalid scene type '%s'", tt.sceneType)
				}
				return
			}

			if err != nil {
				t.Fatalf("Unexpected error for scene type '%s': %v", tt.sceneType, err)
			}
			if created.Camera.ImageWidth != 40 {
				t.Errorf("Expected width override 40, got %d", created.Camera.ImageWidth)
			}
			if created.Camera.ImageHeight() <= 0 {
				t.Errorf("Scene height should be positive, got %d", created.Camera.ImageHeight())
			}
		})
	}

	if _, err := createScene(Config{Scene: ""}); !errors.Is(err, scene.ErrUnknownScene) {
		t.Errorf("Expected ErrUnknownScene for an empty name, got %v", err)
	}
	if _, err := createScene(Config{Scene: "default", Sampling: "jittered"}); !errors.Is(err, core.ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig for a bad sampling flag, got %v", err)
	}
}

func TestOutputPath(t *testing.T) {
	origDir, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(origDir) })
	now := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)

	tests := []struct {
		name      string
		cfg       Config
		sceneName string
		expected  string
	}{
		{"built-in scene", Config{}, "default", filepath.Join("output", "default", "render_20240309_140507.png")},
		{"scene file", Config{}, filepath.Join("scenes", "pair.json"), filepath.Join("output", "pair", "render_20240309_140507.png")},
		{"explicit path", Config{Out: filepath.Join("renders", "a.png")}, "default", filepath.Join("renders", "a.png")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, err := outputPath(tt.cfg, tt.sceneName, now)
			if err != nil {
				t.Fatalf("outputPath failed: %v", err)
			}
			if path != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, path)
			}
			if info, err := os.Stat(filepath.Dir(path)); err != nil || !info.IsDir() {
				t.Errorf("Output directory %q was not created", filepath.Dir(path))
			}
		})
	}
}

func TestListScenes(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "pair.json"), []byte(`{"name": "Pair", "summary": "Two spheres"}`), 0644); err != nil {
		t.Fatalf("Failed to write scene: %v", err)
	}

	var buf bytes.Buffer
	if err := listScenes(&buf, dir); err != nil {
		t.Fatalf("listScenes failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"Built-in Scenes:", "default", "sphere-grid", "empty", "Scene Files:", "Two spheres"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in listing:\n%s", want, out)
		}
	}
}

func TestPrintHelp(t *testing.T) {
	var buf bytes.Buffer
	printHelp(&buf)
	for _, want := range []string{"-scene", "-width", "-samples", "-tile", "-gamma", "-out"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("Expected %q in help output", want)
		}
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{
		Scene:     "default",
		Width:     24,
		Samples:   2,
		Depth:     4,
		Seed:      1,
		TileSize:  8,
		Gamma:     raster.SRGBGamma,
		Out:       filepath.Join(dir, "render.png"),
		SaveScene: filepath.Join(dir, "scene.json"),
	}

	var stdout bytes.Buffer
	path, err := run(context.Background(), cfg, &stdout, renderer.NopLogger{})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if path != cfg.Out {
		t.Errorf("Expected output %q, got %q", cfg.Out, path)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Output PNG missing: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("Output is not a PNG: %v", err)
	}
	if img.Bounds().Dx() != 24 || img.Bounds().Dy() != 13 {
		t.Errorf("Expected 24x13 image, got %v", img.Bounds())
	}

	// The saved description renders the same scene
	saved, err := scene.Load(cfg.SaveScene)
	if err != nil {
		t.Fatalf("Saved scene does not load: %v", err)
	}
	if saved.GetPrimitiveCount() != 2 || saved.Camera.ImageWidth != 24 {
		t.Errorf("Unexpected saved scene: %d shapes, camera %+v", saved.GetPrimitiveCount(), saved.Camera)
	}

	if !strings.Contains(stdout.String(), "Render saved as") {
		t.Errorf("Expected completion message, got:\n%s", stdout.String())
	}
}

func TestRun_Errors(t *testing.T) {
	dir := t.TempDir()

	if _, err := run(context.Background(), Config{Scene: "cornell"}, io.Discard, nil); !errors.Is(err, scene.ErrUnknownScene) {
		t.Errorf("Expected ErrUnknownScene, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out := filepath.Join(dir, "cancelled.png")
	cfg := Config{Scene: "default", Width: 16, Samples: 1, Depth: 1, Out: out}
	if _, err := run(ctx, cfg, io.Discard, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("A cancelled render should not write an image")
	}
}
