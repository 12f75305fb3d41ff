package raster

import (
	"bytes"
	"errors"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/df07/go-diffuse-raytracer/pkg/core"
)

func TestToByte(t *testing.T) {
	linear := EncodeOptions{}
	srgb := EncodeOptions{Gamma: SRGBGamma}

	tests := []struct {
		name     string
		value    float64
		opts     EncodeOptions
		expected uint8
	}{
		{"black", 0, linear, 0},
		{"white", 1, linear, 255},
		{"half rounds up", 0.5, linear, 128},
		{"clamps above", 3.7, linear, 255},
		{"clamps below", -0.2, linear, 0},
		{"positive infinity", math.Inf(1), linear, 255},
		{"NaN is black", math.NaN(), linear, 0},
		{"gamma one is linear", 0.5, EncodeOptions{Gamma: 1}, 128},
		{"gamma brightens midtones", 0.5, srgb, uint8(math.Round(math.Pow(0.5, 1/2.2) * 255))},
		{"gamma keeps white", 1, srgb, 255},
		{"gamma keeps black", 0, srgb, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToByte(tt.value, tt.opts); got != tt.expected {
				t.Errorf("ToByte(%v) = %d, want %d", tt.value, got, tt.expected)
			}
		})
	}
}

func TestNewImage(t *testing.T) {
	img, err := NewImage(3, 2)
	if err != nil {
		t.Fatalf("NewImage failed: %v", err)
	}
	if img.Width() != 3 || img.Height() != 2 {
		t.Errorf("Expected 3x2, got %dx%d", img.Width(), img.Height())
	}
	if img.At(2, 1) != core.NewVec3(0, 0, 0) {
		t.Errorf("New image should be black, got %v", img.At(2, 1))
	}

	for _, size := range [][2]int{{0, 1}, {1, 0}, {-1, 5}} {
		if _, err := NewImage(size[0], size[1]); !errors.Is(err, core.ErrInvalidConfig) {
			t.Errorf("NewImage(%d, %d): expected ErrInvalidConfig, got %v", size[0], size[1], err)
		}
	}
}

func TestImageSetPixel_OutOfRangePanics(t *testing.T) {
	img, err := NewImage(2, 2)
	if err != nil {
		t.Fatalf("NewImage failed: %v", err)
	}

	for _, p := range [][2]int{{2, 0}, {0, 2}, {-1, 0}, {0, -1}} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("SetPixel(%d, %d) should panic", p[0], p[1])
				}
			}()
			img.SetPixel(p[0], p[1], core.NewVec3(1, 1, 1))
		}()
	}
}

func TestImageToNRGBA(t *testing.T) {
	img, err := NewImage(2, 1)
	if err != nil {
		t.Fatalf("NewImage failed: %v", err)
	}
	img.SetPixel(0, 0, core.NewVec3(0.75, 0.85, 1.0))
	img.SetPixel(1, 0, core.NewVec3(2, -1, 0.5))

	out := img.ToNRGBA(EncodeOptions{})
	expected := []color.NRGBA{
		{R: 191, G: 217, B: 255, A: 255},
		{R: 255, G: 0, B: 128, A: 255},
	}
	for x, want := range expected {
		if got := out.NRGBAAt(x, 0); got != want {
			t.Errorf("Pixel %d: expected %v, got %v", x, want, got)
		}
	}
}

func TestImageEncodePNG_RoundTrip(t *testing.T) {
	img, err := NewImage(4, 3)
	if err != nil {
		t.Fatalf("NewImage failed: %v", err)
	}
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			img.SetPixel(x, y, core.NewVec3(float64(x)/3, float64(y)/2, 0.25))
		}
	}

	opts := EncodeOptions{Gamma: SRGBGamma}
	var buf bytes.Buffer
	if err := img.EncodePNG(&buf, opts); err != nil {
		t.Fatalf("EncodePNG failed: %v", err)
	}

	decoded, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("Decoding the written PNG failed: %v", err)
	}
	if decoded.Bounds().Dx() != 4 || decoded.Bounds().Dy() != 3 {
		t.Fatalf("Expected 4x3 PNG, got %v", decoded.Bounds())
	}

	expected := img.ToNRGBA(opts)
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			got := color.NRGBAModel.Convert(decoded.At(x, y)).(color.NRGBA)
			if want := expected.NRGBAAt(x, y); got != want {
				t.Errorf("Pixel (%d,%d): expected %v, got %v", x, y, want, got)
			}
		}
	}
}

func TestImageSavePNG(t *testing.T) {
	img, err := NewImage(2, 2)
	if err != nil {
		t.Fatalf("NewImage failed: %v", err)
	}
	img.SetPixel(1, 1, core.NewVec3(1, 1, 1))

	path := filepath.Join(t.TempDir(), "out.png")
	if err := img.SavePNG(path, EncodeOptions{}); err != nil {
		t.Fatalf("SavePNG failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Opening saved PNG failed: %v", err)
	}
	defer f.Close()

	decoded, err := png.Decode(f)
	if err != nil {
		t.Fatalf("Decoding saved PNG failed: %v", err)
	}
	r, g, b, _ := decoded.At(1, 1).RGBA()
	if r != 0xffff || g != 0xffff || b != 0xffff {
		t.Errorf("Expected white pixel, got %d %d %d", r, g, b)
	}

	if err := img.SavePNG(filepath.Join(t.TempDir(), "missing", "out.png"), EncodeOptions{}); err == nil {
		t.Error("Expected an error saving into a missing directory")
	}
}
