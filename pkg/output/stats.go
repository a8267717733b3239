package output

import (
	"fmt"
	"os"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/df07/go-texture-pathtracer/pkg/renderer"
)

// StatsFile is the name of the per-render statistics log
const StatsFile = "stats.csv"

// StatsRecord is one row of the statistics log
type StatsRecord struct {
	Timestamp       string  `csv:"timestamp"`
	Scene           string  `csv:"scene"`
	Seed            int64   `csv:"seed"`
	Width           int     `csv:"width"`
	Height          int     `csv:"height"`
	SamplesPerPixel int     `csv:"samples_per_pixel"`
	TotalSamples    int     `csv:"total_samples"`
	Tiles           int     `csv:"tiles"`
	Workers         int     `csv:"workers"`
	DurationMS      int64   `csv:"duration_ms"`
	MeanLuminance   float64 `csv:"mean_luminance"`
	LuminanceStdDev float64 `csv:"luminance_stddev"`
	NoiseEstimate   float64 `csv:"noise_estimate"`
}

// NewStatsRecord flattens render statistics into a log row
func NewStatsRecord(scene string, seed int64, stats renderer.RenderStats, at time.Time) StatsRecord {
	spp := 0
	if stats.TotalPixels > 0 {
		spp = stats.TotalSamples / stats.TotalPixels
	}
	return StatsRecord{
		Timestamp:       at.UTC().Format(time.RFC3339),
		Scene:           scene,
		Seed:            seed,
		Width:           stats.Width,
		Height:          stats.Height,
		SamplesPerPixel: spp,
		TotalSamples:    stats.TotalSamples,
		Tiles:           stats.Tiles,
		Workers:         stats.Workers,
		DurationMS:      stats.Duration.Milliseconds(),
		MeanLuminance:   stats.MeanLuminance,
		LuminanceStdDev: stats.LuminanceStdDev,
		NoiseEstimate:   stats.NoiseEstimate,
	}
}

// AppendStats adds a row to stats.csv, writing the header when the file is new
func (m *Manager) AppendStats(record StatsRecord) error {
	f, err := os.OpenFile(m.Path(StatsFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening %s: %w", StatsFile, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("opening %s: %w", StatsFile, err)
	}

	records := []StatsRecord{record}
	if info.Size() == 0 {
		err = gocsv.Marshal(records, f)
	} else {
		err = gocsv.MarshalWithoutHeaders(records, f)
	}
	if err != nil {
		return fmt.Errorf("writing stats: %w", err)
	}
	return nil
}

// ReadStats returns every row of stats.csv
func (m *Manager) ReadStats() ([]StatsRecord, error) {
	f, err := os.Open(m.Path(StatsFile))
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", StatsFile, err)
	}
	defer f.Close()

	var records []StatsRecord
	if err := gocsv.UnmarshalFile(f, &records); err != nil {
		return nil, fmt.Errorf("reading stats: %w", err)
	}
	return records, nil
}
