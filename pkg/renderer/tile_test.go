package renderer

import (
	"image"
	"testing"
)

func TestNewTileGrid_CoversImageOnce(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		tileSize      int
		expectedTiles int
	}{
		{"exact fit", 64, 32, 16, 8},
		{"ragged edges", 50, 30, 16, 8},
		{"tile larger than image", 10, 10, 64, 1},
		{"default tile size", 100, 40, 0, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tiles := NewTileGrid(tt.width, tt.height, tt.tileSize, 42)
			if len(tiles) != tt.expectedTiles {
				t.Fatalf("Expected %d tiles, got %d", tt.expectedTiles, len(tiles))
			}

			covered := make([][]int, tt.height)
			for y := range covered {
				covered[y] = make([]int, tt.width)
			}
			full := image.Rect(0, 0, tt.width, tt.height)
			for i, tile := range tiles {
				if tile.ID != i {
					t.Errorf("Expected tile ID %d, got %d", i, tile.ID)
				}
				if !tile.Bounds.In(full) {
					t.Fatalf("Tile %d bounds %v exceed image", tile.ID, tile.Bounds)
				}
				for y := tile.Bounds.Min.Y; y < tile.Bounds.Max.Y; y++ {
					for x := tile.Bounds.Min.X; x < tile.Bounds.Max.X; x++ {
						covered[y][x]++
					}
				}
			}

			for y := range covered {
				for x, n := range covered[y] {
					if n != 1 {
						t.Fatalf("Pixel (%d,%d) covered %d times", x, y, n)
					}
				}
			}
		})
	}
}

func TestNewTileGrid_Seeds(t *testing.T) {
	a := NewTileGrid(64, 64, 16, 42)
	b := NewTileGrid(64, 64, 16, 42)
	c := NewTileGrid(64, 64, 16, 43)

	seen := make(map[int64]bool)
	for i := range a {
		if a[i].Seed != b[i].Seed {
			t.Errorf("Tile %d: same render seed should give same tile seed", i)
		}
		if a[i].Seed == c[i].Seed {
			t.Errorf("Tile %d: different render seeds should give different tile seeds", i)
		}
		if seen[a[i].Seed] {
			t.Errorf("Tile %d: duplicate seed %d", i, a[i].Seed)
		}
		seen[a[i].Seed] = true
	}
}
