package renderer

import (
	"math"
	"testing"

	"github.com/df07/go-texture-pathtracer/pkg/core"
)

func TestPixelStats_AddSample(t *testing.T) {
	var ps PixelStats
	if got := ps.GetColor(); got != (core.Vec3{}) {
		t.Errorf("Expected black for empty pixel, got %v", got)
	}

	ps.AddSample(core.NewVec3(1, 0, 0))
	ps.AddSample(core.NewVec3(0, 1, 0))
	ps.AddSample(core.NewVec3(0, 0, 1))
	ps.AddSample(core.NewVec3(1, 1, 1))

	if ps.SampleCount != 4 {
		t.Errorf("Expected 4 samples, got %d", ps.SampleCount)
	}
	if got := ps.GetColor(); !got.Equals(core.NewVec3(0.5, 0.5, 0.5)) {
		t.Errorf("Expected average (0.5, 0.5, 0.5), got %v", got)
	}
	if math.Abs(ps.LuminanceAccum-2.0) > 1e-9 {
		t.Errorf("Expected luminance sum 2.0, got %f", ps.LuminanceAccum)
	}
}

func TestPixelStats_StandardError(t *testing.T) {
	var constant PixelStats
	for i := 0; i < 10; i++ {
		constant.AddSample(core.NewVec3(0.3, 0.3, 0.3))
	}
	if se := constant.StandardError(); se > 1e-9 {
		t.Errorf("Constant samples should have no error, got %f", se)
	}

	// Luminance alternates 0 and 1: variance 0.25, n = 4
	var alternating PixelStats
	for i := 0; i < 4; i++ {
		alternating.AddSample(core.NewVec3(float64(i%2), float64(i%2), float64(i%2)))
	}
	if se := alternating.StandardError(); math.Abs(se-0.25) > 1e-9 {
		t.Errorf("Expected standard error 0.25, got %f", se)
	}

	var single PixelStats
	single.AddSample(core.NewVec3(1, 1, 1))
	if se := single.StandardError(); se != 0 {
		t.Errorf("Expected 0 for a single sample, got %f", se)
	}
}

func TestSummarizePixels(t *testing.T) {
	// 2x2 grid of gray pixels with luminance 0, 0.5, 0.5, 1
	pixels := make([][]PixelStats, 2)
	for y := range pixels {
		pixels[y] = make([]PixelStats, 2)
	}
	values := []float64{0, 0.5, 0.5, 1}
	for i, v := range values {
		ps := &pixels[i/2][i%2]
		for n := 0; n < 3; n++ {
			ps.AddSample(core.NewVec3(v, v, v))
		}
	}

	stats := SummarizePixels(pixels)
	if stats.Width != 2 || stats.Height != 2 || stats.TotalPixels != 4 {
		t.Errorf("Unexpected dimensions %dx%d (%d pixels)", stats.Width, stats.Height, stats.TotalPixels)
	}
	if stats.TotalSamples != 12 || stats.AverageSamples != 3 {
		t.Errorf("Expected 12 samples averaging 3, got %d and %f", stats.TotalSamples, stats.AverageSamples)
	}
	if math.Abs(stats.MeanLuminance-0.5) > 1e-9 {
		t.Errorf("Expected mean luminance 0.5, got %f", stats.MeanLuminance)
	}
	// Sample standard deviation of {0, .5, .5, 1}
	if want := math.Sqrt(0.5 / 3); math.Abs(stats.LuminanceStdDev-want) > 1e-9 {
		t.Errorf("Expected luminance stddev %f, got %f", want, stats.LuminanceStdDev)
	}
	if stats.NoiseEstimate > 1e-9 {
		t.Errorf("Constant pixels should have no noise, got %f", stats.NoiseEstimate)
	}
}

func TestSummarizePixels_Empty(t *testing.T) {
	stats := SummarizePixels(nil)
	if stats.TotalPixels != 0 || stats.AverageSamples != 0 {
		t.Errorf("Expected zero stats, got %+v", stats)
	}
}
