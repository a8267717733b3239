package renderer

import (
	"context"
	"errors"
	"image"
	"sync/atomic"
	"testing"

	"github.com/df07/go-texture-pathtracer/pkg/core"
	"github.com/df07/go-texture-pathtracer/pkg/geometry"
)

// MockIntegrator returns a fixed color, or the ray direction when echo is set
type MockIntegrator struct {
	returnColor core.Vec3
	echo        bool
	callCount   atomic.Int64
}

func (m *MockIntegrator) RayColor(ray core.Ray, world core.Hittable, sampler core.Sampler) core.Vec3 {
	m.callCount.Add(1)
	if m.echo {
		return ray.Direction.Normalize()
	}
	return m.returnColor
}

func newPixelGrid(width, height int) [][]PixelStats {
	pixels := make([][]PixelStats, height)
	for y := range pixels {
		pixels[y] = make([]PixelStats, width)
	}
	return pixels
}

func TestTileRenderer_SamplesOnlyInsideTile(t *testing.T) {
	integ := &MockIntegrator{returnColor: core.NewVec3(0.2, 0.4, 0.6)}
	tr := NewTileRenderer(geometry.NewHittableList(), NewCamera(pinholeConfig()), integ, 8, 6, 3)

	pixels := newPixelGrid(8, 6)
	tile := &Tile{ID: 0, Bounds: image.Rect(2, 1, 5, 4), Seed: 7}
	samples := tr.RenderTile(tile, pixels)

	if samples != 3*3*3 {
		t.Errorf("Expected 27 samples, got %d", samples)
	}
	if got := integ.callCount.Load(); got != 27 {
		t.Errorf("Expected 27 integrator calls, got %d", got)
	}

	for y := range pixels {
		for x := range pixels[y] {
			inside := image.Pt(x, y).In(tile.Bounds)
			ps := pixels[y][x]
			switch {
			case inside && ps.SampleCount != 3:
				t.Errorf("Pixel (%d,%d): expected 3 samples, got %d", x, y, ps.SampleCount)
			case inside && !ps.GetColor().Equals(integ.returnColor):
				t.Errorf("Pixel (%d,%d): expected %v, got %v", x, y, integ.returnColor, ps.GetColor())
			case !inside && ps.SampleCount != 0:
				t.Errorf("Pixel (%d,%d) outside the tile was sampled", x, y)
			}
		}
	}
}

func TestTileRenderer_Deterministic(t *testing.T) {
	render := func(seed int64) [][]PixelStats {
		integ := &MockIntegrator{echo: true}
		tr := NewTileRenderer(geometry.NewHittableList(), NewCamera(pinholeConfig()), integ, 4, 4, 2)
		pixels := newPixelGrid(4, 4)
		tr.RenderTile(&Tile{Bounds: image.Rect(0, 0, 4, 4), Seed: seed}, pixels)
		return pixels
	}

	a, b, c := render(11), render(11), render(12)
	differs := false
	for y := range a {
		for x := range a[y] {
			if !a[y][x].GetColor().Equals(b[y][x].GetColor()) {
				t.Fatalf("Pixel (%d,%d) differs for the same seed", x, y)
			}
			if a[y][x].ColorAccum != c[y][x].ColorAccum {
				differs = true
			}
		}
	}
	if !differs {
		t.Error("Different seeds should jitter samples differently")
	}
}

func TestTileRenderer_TopRowLooksUp(t *testing.T) {
	integ := &MockIntegrator{echo: true}
	tr := NewTileRenderer(geometry.NewHittableList(), NewCamera(pinholeConfig()), integ, 4, 4, 4)
	pixels := newPixelGrid(4, 4)
	tr.RenderTile(&Tile{Bounds: image.Rect(0, 0, 4, 4), Seed: 1}, pixels)

	// Echoed Y is the ray's vertical direction
	for x := 0; x < 4; x++ {
		top, bottom := pixels[0][x].GetColor().Y, pixels[3][x].GetColor().Y
		if top <= bottom {
			t.Errorf("Column %d: top row %f should look higher than bottom row %f", x, top, bottom)
		}
	}
}

func TestWorkerPool_RendersAllTiles(t *testing.T) {
	integ := &MockIntegrator{returnColor: core.NewVec3(1, 1, 1)}
	tr := NewTileRenderer(geometry.NewHittableList(), NewCamera(pinholeConfig()), integ, 10, 7, 2)
	tiles := NewTileGrid(10, 7, 4, 3)
	pixels := newPixelGrid(10, 7)

	pool := NewWorkerPool(tr, 3, len(tiles))
	if pool.NumWorkers() != 3 {
		t.Errorf("Expected 3 workers, got %d", pool.NumWorkers())
	}
	pool.Start(context.Background())
	for _, tile := range tiles {
		pool.SubmitTask(TileTask{Tile: tile, PixelStats: pixels})
	}
	pool.Stop()

	seen := make(map[int]bool)
	total := 0
	for {
		result, ok := pool.GetResult()
		if !ok {
			break
		}
		if result.Err != nil {
			t.Errorf("Tile %d failed: %v", result.TileID, result.Err)
		}
		seen[result.TileID] = true
		total += result.Samples
	}

	if len(seen) != len(tiles) {
		t.Errorf("Expected %d tile results, got %d", len(tiles), len(seen))
	}
	if total != 10*7*2 {
		t.Errorf("Expected %d samples, got %d", 10*7*2, total)
	}
}

func TestWorkerPool_CancelledContext(t *testing.T) {
	integ := &MockIntegrator{returnColor: core.NewVec3(1, 1, 1)}
	tr := NewTileRenderer(geometry.NewHittableList(), NewCamera(pinholeConfig()), integ, 8, 8, 1)
	tiles := NewTileGrid(8, 8, 4, 3)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pool := NewWorkerPool(tr, 2, len(tiles))
	pool.Start(ctx)
	for _, tile := range tiles {
		pool.SubmitTask(TileTask{Tile: tile, PixelStats: newPixelGrid(8, 8)})
	}
	pool.Stop()

	for {
		result, ok := pool.GetResult()
		if !ok {
			break
		}
		if !errors.Is(result.Err, context.Canceled) {
			t.Errorf("Tile %d: expected context.Canceled, got %v", result.TileID, result.Err)
		}
	}
	if got := integ.callCount.Load(); got != 0 {
		t.Errorf("Expected no rendering after cancellation, got %d calls", got)
	}
}
