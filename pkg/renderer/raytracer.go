// Package renderer turns a scene into pixels: it splits the image into tiles,
// samples them in parallel and accumulates per-pixel statistics.
package renderer

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"time"

	"github.com/df07/go-texture-pathtracer/pkg/core"
	"github.com/df07/go-texture-pathtracer/pkg/integrator"
)

// Config contains rendering configuration
type Config struct {
	Width           int   // Image width in pixels
	Height          int   // Image height in pixels
	SamplesPerPixel int   // Number of rays per pixel
	TileSize        int   // Tile edge length in pixels
	Workers         int   // Parallel workers, 0 for one per CPU
	Seed            int64 // Base seed; equal seeds give identical images
}

// DefaultConfig returns sensible default values: a 400 px wide 16:9 image at 100 samples
func DefaultConfig() Config {
	return Config{
		Width:           400,
		Height:          225,
		SamplesPerPixel: 100,
		TileSize:        DefaultTileSize,
		Workers:         0,
		Seed:            42,
	}
}

// Validate checks that the configuration can be rendered
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("image size %dx%d must be positive", c.Width, c.Height)
	}
	if c.SamplesPerPixel <= 0 {
		return fmt.Errorf("samples per pixel %d must be positive", c.SamplesPerPixel)
	}
	return nil
}

// Result holds the accumulated samples of a render
type Result struct {
	Pixels [][]PixelStats // Pixels[y][x], row 0 at the top
	Stats  RenderStats
}

// Image converts the accumulated samples to an 8-bit image
func (r *Result) Image() *image.RGBA {
	return ToImage(r.Pixels)
}

// Raytracer handles the rendering process
type Raytracer struct {
	world      core.Hittable
	camera     *Camera
	integrator integrator.Integrator
	config     Config
	logger     core.Logger
}

// NewRaytracer creates a new raytracer
func NewRaytracer(world core.Hittable, camera *Camera, integ integrator.Integrator, config Config, logger core.Logger) *Raytracer {
	return &Raytracer{
		world:      world,
		camera:     camera,
		integrator: integ,
		config:     config,
		logger:     logger,
	}
}

// Render samples every pixel of the image. Cancelling ctx stops the render
// between tiles and returns ctx's error along with the partial result.
func (rt *Raytracer) Render(ctx context.Context) (*Result, error) {
	if err := rt.config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid render config: %w", err)
	}
	start := time.Now()

	pixels := make([][]PixelStats, rt.config.Height)
	for y := range pixels {
		pixels[y] = make([]PixelStats, rt.config.Width)
	}

	tiles := NewTileGrid(rt.config.Width, rt.config.Height, rt.config.TileSize, rt.config.Seed)
	tileRenderer := NewTileRenderer(rt.world, rt.camera, rt.integrator, rt.config.Width, rt.config.Height, rt.config.SamplesPerPixel)
	pool := NewWorkerPool(tileRenderer, rt.config.Workers, len(tiles))

	rt.logger.Info("render started",
		"width", rt.config.Width,
		"height", rt.config.Height,
		"spp", rt.config.SamplesPerPixel,
		"tiles", len(tiles),
		"workers", pool.NumWorkers())

	pool.Start(ctx)
	for _, tile := range tiles {
		pool.SubmitTask(TileTask{Tile: tile, PixelStats: pixels})
	}

	var renderErr error
	for done := 0; done < len(tiles); done++ {
		result, ok := pool.GetResult()
		if !ok {
			break
		}
		if result.Err != nil {
			renderErr = errors.Join(renderErr, result.Err)
			continue
		}
		rt.logger.Debug("tile finished", "tile", result.TileID, "remaining", len(tiles)-done-1)
	}
	pool.Stop()

	stats := SummarizePixels(pixels)
	stats.Tiles = len(tiles)
	stats.Workers = pool.NumWorkers()
	stats.Duration = time.Since(start)
	result := &Result{Pixels: pixels, Stats: stats}

	if renderErr != nil {
		// Every cancelled tile reports the same context error
		if ctxErr := ctx.Err(); ctxErr != nil {
			renderErr = ctxErr
		}
		rt.logger.Info("render cancelled", "samples", stats.TotalSamples, "duration", stats.Duration)
		return result, fmt.Errorf("render aborted: %w", renderErr)
	}

	rt.logger.Info("render finished",
		"samples", stats.TotalSamples,
		"mean_luminance", stats.MeanLuminance,
		"duration", stats.Duration)
	return result, nil
}

// ToImage averages each pixel's samples, applies gamma 2 and clamps to [0, 0.999]
// before scaling to 8 bits. NaN channels become black.
func ToImage(pixels [][]PixelStats) *image.RGBA {
	height := len(pixels)
	width := 0
	if height > 0 {
		width = len(pixels[0])
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y, row := range pixels {
		for x := range row {
			img.SetRGBA(x, y, vec3ToColor(row[x].GetColor()))
		}
	}
	return img
}

// vec3ToColor converts a linear color to RGBA with gamma correction and clamping
func vec3ToColor(c core.Vec3) color.RGBA {
	c = core.NewVec3(nanToZero(c.X), nanToZero(c.Y), nanToZero(c.Z))
	c = c.Clamp(0, math.MaxFloat64).GammaCorrect(2.0).Clamp(0, 0.999)

	return color.RGBA{
		R: uint8(256 * c.X),
		G: uint8(256 * c.Y),
		B: uint8(256 * c.Z),
		A: 255,
	}
}

func nanToZero(x float64) float64 {
	if math.IsNaN(x) {
		return 0
	}
	return x
}
