package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Defaults should validate: %v", err)
	}

	r := cfg.Render
	if r.Scene != "random" || r.Width != 400 || r.SamplesPerPixel != 100 || r.Seed != 42 {
		t.Errorf("Unexpected render defaults %+v", r)
	}
	if cfg.Upload.Enabled || cfg.Upload.Timeout != 30*time.Second {
		t.Errorf("Unexpected upload defaults %+v", cfg.Upload)
	}
}

func TestLoad_OverlaysUserFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	user := "render:\n  scene: volumes\n  samples_per_pixel: 16\nlog:\n  format: json\n"
	if err := os.WriteFile(path, []byte(user), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Render.Scene != "volumes" || cfg.Render.SamplesPerPixel != 16 {
		t.Errorf("User values not applied: %+v", cfg.Render)
	}
	// Keys absent from the user file keep their defaults
	if cfg.Render.Width != 400 || cfg.Render.TileSize != 32 || cfg.Log.Level != "info" {
		t.Errorf("Defaults lost: %+v %+v", cfg.Render, cfg.Log)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("Expected json format, got %q", cfg.Log.Format)
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("render: [not, a, map]\n"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil || !strings.Contains(err.Error(), "reading config file") {
		t.Errorf("Expected read error, got %v", err)
	}
	if _, err := Load(bad); err == nil || !strings.Contains(err.Error(), "parsing config file") {
		t.Errorf("Expected parse error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"defaults", func(c *Config) {}, ""},
		{"no scene", func(c *Config) { c.Render.Scene = "" }, "render.scene"},
		{"zero width", func(c *Config) { c.Render.Width = 0 }, "render.width"},
		{"negative height", func(c *Config) { c.Render.Height = -1 }, "render.height"},
		{"zero samples", func(c *Config) { c.Render.SamplesPerPixel = 0 }, "render.samples_per_pixel"},
		{"negative depth", func(c *Config) { c.Render.MaxDepth = -2 }, "render.max_depth"},
		{"zero tile", func(c *Config) { c.Render.TileSize = 0 }, "render.tile_size"},
		{"negative workers", func(c *Config) { c.Render.Workers = -1 }, "render.workers"},
		{"upload without bucket", func(c *Config) { c.Upload.Enabled = true }, "upload.bucket"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error mentioning %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestWriteYAML_RoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Render.Scene = "two-spheres"
	cfg.Upload.Timeout = 90 * time.Second
	cfg.Upload.AccessKey = "secret-id"

	path := filepath.Join(t.TempDir(), "snapshot.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read snapshot: %v", err)
	}
	if strings.Contains(string(data), "secret-id") {
		t.Error("Credentials must not be written to the snapshot")
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	cfg.Upload.AccessKey = ""
	if *loaded != *cfg {
		t.Errorf("Round trip mismatch:\n got %+v\nwant %+v", loaded, cfg)
	}
}

func TestLoadEnv_AndApplyEnv(t *testing.T) {
	// godotenv does not override variables that are already set
	t.Setenv("S3_BUCKET", "from-shell")
	t.Setenv("S3_ACCESS_KEY", "")
	t.Setenv("S3_SECRET_KEY", "")
	t.Setenv("S3_REGION", "")
	t.Setenv("S3_ENDPOINT", "")
	os.Unsetenv("S3_ACCESS_KEY")
	os.Unsetenv("S3_ENDPOINT")

	envFile := filepath.Join(t.TempDir(), ".env")
	contents := "S3_ACCESS_KEY=AKIA123\nS3_SECRET_KEY=shh\nS3_BUCKET=from-file\nS3_ENDPOINT=http://localhost:9000\n"
	if err := os.WriteFile(envFile, []byte(contents), 0644); err != nil {
		t.Fatalf("Failed to write env file: %v", err)
	}

	if err := LoadEnv(envFile); err != nil {
		t.Fatalf("LoadEnv failed: %v", err)
	}

	cfg := Default()
	cfg.ApplyEnv()
	u := cfg.Upload
	if u.AccessKey != "AKIA123" || u.SecretKey != "" {
		t.Errorf("Unexpected credentials %q %q", u.AccessKey, u.SecretKey)
	}
	if u.Bucket != "from-shell" {
		t.Errorf("Shell variable should win, got %q", u.Bucket)
	}
	if u.Endpoint != "http://localhost:9000" {
		t.Errorf("Expected endpoint from file, got %q", u.Endpoint)
	}
	if u.Region != "us-east-1" {
		t.Errorf("Empty S3_REGION should keep the default, got %q", u.Region)
	}
}

func TestLoadEnv_MissingFileIsIgnored(t *testing.T) {
	if err := LoadEnv(filepath.Join(t.TempDir(), ".env")); err != nil {
		t.Errorf("Expected nil for missing file, got %v", err)
	}
}

func TestLogConfig_NewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := LogConfig{Level: "warn", Format: "json"}.NewLogger(&buf)
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}

	logger.Info("hidden")
	logger.Warn("shown", "tile", 3)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("Expected 1 log line, got %d: %q", len(lines), buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("Log line is not JSON: %v", err)
	}
	if entry["msg"] != "shown" || entry["tile"] != float64(3) {
		t.Errorf("Unexpected entry %v", entry)
	}

	if _, err := (LogConfig{Level: "chatty"}).NewLogger(&buf); err == nil {
		t.Error("Expected error for unknown level")
	}
}
