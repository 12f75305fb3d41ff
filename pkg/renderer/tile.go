package renderer

import (
	"image"

	"github.com/df07/go-diffuse-raytracer/pkg/core"
)

// DefaultTileSize is the edge length of a render tile in pixels
const DefaultTileSize = 32

// Tile represents a rectangular region of the image to be rendered
type Tile struct {
	ID      int                 // Unique tile identifier
	Bounds  image.Rectangle     // Pixel bounds (x0,y0,x1,y1)
	Sampler *core.RandomSampler // Tile-specific random generator for deterministic results
}

// NewTile creates a new tile with the specified bounds. Its sampler is
// seeded from the base seed and tile ID, so the pixels of a tile do not
// depend on which tiles were rendered before it.
func NewTile(id int, bounds image.Rectangle, seed int64) *Tile {
	return &Tile{
		ID:      id,
		Bounds:  bounds,
		Sampler: core.NewSeededSampler(seed + int64(id)),
	}
}

// NewTileGrid creates a grid of tiles covering the entire image
func NewTileGrid(width, height, tileSize int, seed int64) []*Tile {
	var tiles []*Tile
	tileID := 0

	// Calculate number of tiles in each dimension
	tilesX := (width + tileSize - 1) / tileSize // Ceiling division
	tilesY := (height + tileSize - 1) / tileSize

	for tileY := 0; tileY < tilesY; tileY++ {
		for tileX := 0; tileX < tilesX; tileX++ {
			x0 := tileX * tileSize
			y0 := tileY * tileSize
			x1 := min(x0+tileSize, width) // Don't exceed image bounds
			y1 := min(y0+tileSize, height)

			tiles = append(tiles, NewTile(tileID, image.Rect(x0, y0, x1, y1), seed))
			tileID++
		}
	}

	return tiles
}
