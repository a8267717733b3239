package renderer

import (
	"math"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/df07/go-texture-pathtracer/pkg/core"
)

// RenderStats contains statistics about a finished render
type RenderStats struct {
	Width           int           // Image width in pixels
	Height          int           // Image height in pixels
	TotalPixels     int           // Total number of pixels rendered
	TotalSamples    int           // Total number of samples taken
	AverageSamples  float64       // Average samples per pixel
	MeanLuminance   float64       // Mean of per-pixel average luminance
	LuminanceStdDev float64       // Spread of per-pixel average luminance
	NoiseEstimate   float64       // Mean per-pixel standard error of luminance
	Tiles           int           // Number of tiles rendered
	Workers         int           // Number of workers used
	Duration        time.Duration // Wall-clock render time
}

// PixelStats tracks sampling statistics for a single pixel
type PixelStats struct {
	ColorAccum       core.Vec3 // RGB accumulator for final result
	LuminanceAccum   float64   // Luminance accumulator
	LuminanceSqAccum float64   // Luminance squared for variance
	SampleCount      int       // Number of samples taken
}

// AddSample adds a new color sample to the pixel statistics
func (ps *PixelStats) AddSample(color core.Vec3) {
	ps.ColorAccum = ps.ColorAccum.Add(color)
	luminance := color.Luminance()
	ps.LuminanceAccum += luminance
	ps.LuminanceSqAccum += luminance * luminance
	ps.SampleCount++
}

// GetColor returns the current average color for this pixel
func (ps *PixelStats) GetColor() core.Vec3 {
	if ps.SampleCount == 0 {
		return core.Vec3{X: 0, Y: 0, Z: 0}
	}
	return ps.ColorAccum.Multiply(1.0 / float64(ps.SampleCount))
}

// StandardError returns the standard error of the pixel's mean luminance
func (ps *PixelStats) StandardError() float64 {
	if ps.SampleCount < 2 {
		return 0
	}
	n := float64(ps.SampleCount)
	mean := ps.LuminanceAccum / n
	variance := math.Max(0, ps.LuminanceSqAccum/n-mean*mean)
	return math.Sqrt(variance / n)
}

// SummarizePixels fills the sample and luminance fields of a RenderStats from the pixel grid
func SummarizePixels(pixels [][]PixelStats) RenderStats {
	var stats RenderStats
	stats.Height = len(pixels)
	if stats.Height > 0 {
		stats.Width = len(pixels[0])
	}

	luminance := make([]float64, 0, stats.Width*stats.Height)
	noise := make([]float64, 0, stats.Width*stats.Height)
	for _, row := range pixels {
		for i := range row {
			ps := &row[i]
			stats.TotalSamples += ps.SampleCount
			luminance = append(luminance, ps.GetColor().Luminance())
			noise = append(noise, ps.StandardError())
		}
	}

	stats.TotalPixels = len(luminance)
	if stats.TotalPixels == 0 {
		return stats
	}
	stats.AverageSamples = float64(stats.TotalSamples) / float64(stats.TotalPixels)
	stats.MeanLuminance, stats.LuminanceStdDev = stat.MeanStdDev(luminance, nil)
	if stats.TotalPixels == 1 {
		stats.LuminanceStdDev = 0
	}
	stats.NoiseEstimate = stat.Mean(noise, nil)
	return stats
}
