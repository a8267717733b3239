// Package output writes render artifacts: images, thumbnails, a per-render
// statistics log and the configuration snapshot. It can also publish images
// to S3-compatible storage.
package output

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/nfnt/resize"
)

// Manager writes artifacts into one output directory
type Manager struct {
	dir string
}

// NewManager creates the output directory if needed
func NewManager(dir string) (*Manager, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	return &Manager{dir: dir}, nil
}

// Dir returns the output directory
func (m *Manager) Dir() string {
	return m.dir
}

// Path returns the location of name inside the output directory
func (m *Manager) Path(name string) string {
	return filepath.Join(m.dir, name)
}

// EncodePNG writes img to w as PNG
func EncodePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encoding png: %w", err)
	}
	return nil
}

// PNGBytes returns img encoded as PNG
func PNGBytes(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodePNG(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WritePNG saves img as name in the output directory and returns its path
func (m *Manager) WritePNG(name string, img image.Image) (string, error) {
	path := m.Path(name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", name, err)
	}
	defer f.Close()

	if err := EncodePNG(f, img); err != nil {
		return "", fmt.Errorf("writing %s: %w", name, err)
	}
	return path, nil
}

// Thumbnail scales img to the given width, keeping its aspect ratio.
// Images already narrower than width are returned unchanged.
func Thumbnail(img image.Image, width uint) image.Image {
	if width == 0 || uint(img.Bounds().Dx()) <= width {
		return img
	}
	return resize.Resize(width, 0, img, resize.Bilinear)
}

// WriteThumbnail saves a thumbnail of img as name and returns its path
func (m *Manager) WriteThumbnail(name string, img image.Image, width uint) (string, error) {
	return m.WritePNG(name, Thumbnail(img, width))
}

// ConfigWriter is implemented by configurations that can snapshot themselves
type ConfigWriter interface {
	WriteYAML(path string) error
}

// WriteConfig saves the effective configuration as config.yaml
func (m *Manager) WriteConfig(cfg ConfigWriter) (string, error) {
	path := m.Path("config.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		return "", err
	}
	return path, nil
}
