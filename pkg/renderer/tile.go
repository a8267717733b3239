package renderer

import (
	"image"
)

// DefaultTileSize is the edge length of square tiles in pixels
const DefaultTileSize = 32

// Tile represents a rectangular region of the image to be rendered
type Tile struct {
	ID     int             // Unique tile identifier, row-major
	Bounds image.Rectangle // Pixel bounds (x0,y0,x1,y1)
	Seed   int64           // Seed for the tile's sampler
}

// NewTileGrid splits the image into tiles of at most tileSize pixels on a side.
// Each tile's seed depends only on the render seed and the tile ID, so the image
// doesn't depend on which worker renders which tile.
func NewTileGrid(width, height, tileSize int, seed int64) []*Tile {
	if tileSize <= 0 {
		tileSize = DefaultTileSize
	}

	tilesX := (width + tileSize - 1) / tileSize // Ceiling division
	tilesY := (height + tileSize - 1) / tileSize
	tiles := make([]*Tile, 0, tilesX*tilesY)

	for tileY := 0; tileY < tilesY; tileY++ {
		for tileX := 0; tileX < tilesX; tileX++ {
			x0 := tileX * tileSize
			y0 := tileY * tileSize
			x1 := min(x0+tileSize, width)
			y1 := min(y0+tileSize, height)

			id := len(tiles)
			tiles = append(tiles, &Tile{
				ID:     id,
				Bounds: image.Rect(x0, y0, x1, y1),
				Seed:   tileSeed(seed, id),
			})
		}
	}

	return tiles
}

func tileSeed(seed int64, id int) int64 {
	return seed*1_000_003 + int64(id)
}
