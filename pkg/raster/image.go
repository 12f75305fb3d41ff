// Package raster holds rendered pixels in linear floating point and
// encodes them as 8-bit images.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"math"

	"github.com/fogleman/gg"

	"github.com/df07/go-diffuse-raytracer/pkg/core"
)

// SRGBGamma approximates the sRGB transfer curve with a pure power law
const SRGBGamma = 2.2

// EncodeOptions controls the conversion from linear color to 8-bit values
type EncodeOptions struct {
	Gamma float64 // Display gamma; 0 or 1 writes linear values
}

// Image is a width x height buffer of linear RGB colors.
// Writes to distinct pixels may happen concurrently.
type Image struct {
	width, height int
	pixels        []core.Vec3
}

// NewImage creates a black image
func NewImage(width, height int) (*Image, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("image size %dx%d must be at least 1x1: %w", width, height, core.ErrInvalidConfig)
	}
	return &Image{
		width:  width,
		height: height,
		pixels: make([]core.Vec3, width*height),
	}, nil
}

// Width returns the image width in pixels
func (img *Image) Width() int { return img.width }

// Height returns the image height in pixels
func (img *Image) Height() int { return img.height }

// SetPixel stores the color of pixel (x, y). Coordinates outside the image
// are a programming error and panic.
func (img *Image) SetPixel(x, y int, c core.Vec3) {
	img.pixels[img.index(x, y)] = c
}

// At returns the linear color of pixel (x, y)
func (img *Image) At(x, y int) core.Vec3 {
	return img.pixels[img.index(x, y)]
}

func (img *Image) index(x, y int) int {
	if x < 0 || x >= img.width || y < 0 || y >= img.height {
		panic(fmt.Sprintf("pixel (%d, %d) outside %dx%d image", x, y, img.width, img.height))
	}
	return y*img.width + x
}

var intensity = core.NewInterval(0, 1)

// ToByte converts one linear channel to an 8-bit value: clamp to [0, 1],
// apply gamma, scale and round
func ToByte(v float64, opts EncodeOptions) uint8 {
	if math.IsNaN(v) {
		v = 0
	}
	v = intensity.Clamp(v)
	if opts.Gamma > 0 && opts.Gamma != 1 {
		v = math.Pow(v, 1/opts.Gamma)
	}
	return uint8(math.Round(v * 255))
}

// ToColor converts a linear color to an opaque 8-bit color
func ToColor(c core.Vec3, opts EncodeOptions) color.NRGBA {
	return color.NRGBA{
		R: ToByte(c.X(), opts),
		G: ToByte(c.Y(), opts),
		B: ToByte(c.Z(), opts),
		A: 255,
	}
}

// ToNRGBA converts the image to an 8-bit raster
func (img *Image) ToNRGBA(opts EncodeOptions) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, img.width, img.height))
	for y := 0; y < img.height; y++ {
		for x := 0; x < img.width; x++ {
			out.SetNRGBA(x, y, ToColor(img.pixels[y*img.width+x], opts))
		}
	}
	return out
}

// Context draws the image onto a new gg drawing context
func (img *Image) Context(opts EncodeOptions) *gg.Context {
	dc := gg.NewContext(img.width, img.height)
	for y := 0; y < img.height; y++ {
		for x := 0; x < img.width; x++ {
			dc.SetColor(ToColor(img.pixels[y*img.width+x], opts))
			dc.SetPixel(x, y)
		}
	}
	return dc
}

// SavePNG writes the image to path as a PNG
func (img *Image) SavePNG(path string, opts EncodeOptions) error {
	if err := img.Context(opts).SavePNG(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

// EncodePNG writes the image to w as a PNG
func (img *Image) EncodePNG(w io.Writer, opts EncodeOptions) error {
	if err := img.Context(opts).EncodePNG(w); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}
