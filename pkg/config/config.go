// Package config provides configuration loading for the renderer.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all render configuration parameters.
type Config struct {
	Render RenderConfig `yaml:"render"`
	Output OutputConfig `yaml:"output"`
	Upload UploadConfig `yaml:"upload"`
	Log    LogConfig    `yaml:"log"`
}

// RenderConfig selects the scene and controls sampling.
type RenderConfig struct {
	Scene           string `yaml:"scene"`  // Built-in scene name or path to a YAML scene
	Width           int    `yaml:"width"`  // Image width in pixels
	Height          int    `yaml:"height"` // 0 derives the height from the camera aspect ratio
	SamplesPerPixel int    `yaml:"samples_per_pixel"`
	MaxDepth        int    `yaml:"max_depth"` // 0 keeps the scene's depth
	TileSize        int    `yaml:"tile_size"`
	Workers         int    `yaml:"workers"` // 0 uses runtime.NumCPU
	Seed            int64  `yaml:"seed"`
}

// OutputConfig controls which artifacts are written.
type OutputConfig struct {
	Dir            string `yaml:"dir"`
	Filename       string `yaml:"filename"`
	ThumbnailWidth uint   `yaml:"thumbnail_width"`
	Stats          bool   `yaml:"stats"`        // Append a row to stats.csv
	WriteConfig    bool   `yaml:"write_config"` // Snapshot the effective config
}

// UploadConfig describes where finished images are published.
// Credentials come from the environment only and are never written out.
type UploadConfig struct {
	Enabled    bool          `yaml:"enabled"`
	Bucket     string        `yaml:"bucket"`
	Region     string        `yaml:"region"`
	Endpoint   string        `yaml:"endpoint"`
	Prefix     string        `yaml:"prefix"`
	PublicRead bool          `yaml:"public_read"`
	Timeout    time.Duration `yaml:"timeout"`

	AccessKey string `yaml:"-"`
	SecretKey string `yaml:"-"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// Default returns the embedded defaults.
func Default() *Config {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	return cfg, nil
}

// Validate checks that every field is in range.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	r := c.Render
	check(r.Scene != "", "render.scene is required")
	check(r.Width > 0, "render.width must be positive, got %d", r.Width)
	check(r.Height >= 0, "render.height must not be negative, got %d", r.Height)
	check(r.SamplesPerPixel > 0, "render.samples_per_pixel must be positive, got %d", r.SamplesPerPixel)
	check(r.MaxDepth >= 0, "render.max_depth must not be negative, got %d", r.MaxDepth)
	check(r.TileSize > 0, "render.tile_size must be positive, got %d", r.TileSize)
	check(r.Workers >= 0, "render.workers must not be negative, got %d", r.Workers)

	if c.Upload.Enabled {
		check(c.Upload.Bucket != "", "upload.bucket is required when upload is enabled")
		check(c.Upload.Timeout > 0, "upload.timeout must be positive, got %s", c.Upload.Timeout)
	}

	_, err := parseLevel(c.Log.Level)
	check(err == nil, "log.level: %v", err)
	check(c.Log.Format == "text" || c.Log.Format == "json", "log.format must be text or json, got %q", c.Log.Format)

	return errors.Join(errs...)
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// LoadEnv reads KEY=VALUE pairs from envFile into the process environment
// without overriding variables that are already set. A missing file is not an error.
func LoadEnv(envFile string) error {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", envFile, err)
	}
	return nil
}

// ApplyEnv fills upload credentials and target from S3_* environment variables.
// Non-empty variables win over values from the config file.
func (c *Config) ApplyEnv() {
	c.Upload.AccessKey = os.Getenv("S3_ACCESS_KEY")
	c.Upload.SecretKey = os.Getenv("S3_SECRET_KEY")
	for env, field := range map[string]*string{
		"S3_BUCKET":   &c.Upload.Bucket,
		"S3_REGION":   &c.Upload.Region,
		"S3_ENDPOINT": &c.Upload.Endpoint,
	} {
		if v := os.Getenv(env); v != "" {
			*field = v
		}
	}
}

// NewLogger builds a slog logger writing to w in the configured format.
func (l LogConfig) NewLogger(w io.Writer) (*slog.Logger, error) {
	level, err := parseLevel(l.Level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if l.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return 0, fmt.Errorf("unknown level %q", s)
	}
	return level, nil
}
