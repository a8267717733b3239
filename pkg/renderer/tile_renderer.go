package renderer

import (
	"github.com/df07/go-texture-pathtracer/pkg/core"
	"github.com/df07/go-texture-pathtracer/pkg/integrator"
)

// TileRenderer renders individual tiles using an integrator
type TileRenderer struct {
	world           core.Hittable
	camera          *Camera
	integrator      integrator.Integrator
	width, height   int
	samplesPerPixel int
}

// NewTileRenderer creates a tile renderer for an image of the given size
func NewTileRenderer(world core.Hittable, camera *Camera, integ integrator.Integrator, width, height, samplesPerPixel int) *TileRenderer {
	return &TileRenderer{
		world:           world,
		camera:          camera,
		integrator:      integ,
		width:           width,
		height:          height,
		samplesPerPixel: samplesPerPixel,
	}
}

// RenderTile takes samplesPerPixel jittered samples for every pixel of the tile
// and writes them into pixelStats[y][x]. Row 0 is the top of the image.
// It returns the number of samples taken.
func (tr *TileRenderer) RenderTile(tile *Tile, pixelStats [][]PixelStats) int {
	sampler := core.NewSeededSampler(tile.Seed)
	// Screen coordinates span [0, 1] across pixel centers of the first and last column
	sx := 1.0 / float64(max(1, tr.width-1))
	sy := 1.0 / float64(max(1, tr.height-1))

	samples := 0
	for y := tile.Bounds.Min.Y; y < tile.Bounds.Max.Y; y++ {
		row := tr.height - 1 - y
		for x := tile.Bounds.Min.X; x < tile.Bounds.Max.X; x++ {
			ps := &pixelStats[y][x]
			for n := 0; n < tr.samplesPerPixel; n++ {
				s := (float64(x) + sampler.Get1D()) * sx
				t := (float64(row) + sampler.Get1D()) * sy
				ray := tr.camera.GetRay(s, t, sampler)
				ps.AddSample(tr.integrator.RayColor(ray, tr.world, sampler))
			}
			samples += tr.samplesPerPixel
		}
	}
	return samples
}
