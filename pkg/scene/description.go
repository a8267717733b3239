package scene

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/df07/go-texture-pathtracer/pkg/core"
	"github.com/df07/go-texture-pathtracer/pkg/geometry"
	"github.com/df07/go-texture-pathtracer/pkg/integrator"
	"github.com/df07/go-texture-pathtracer/pkg/loaders"
	"github.com/df07/go-texture-pathtracer/pkg/material"
	"github.com/df07/go-texture-pathtracer/pkg/noise"
	"github.com/df07/go-texture-pathtracer/pkg/renderer"
	"github.com/df07/go-texture-pathtracer/pkg/texture"
)

// ErrInvalidDescription is returned when a YAML scene description cannot be built
var ErrInvalidDescription = errors.New("invalid scene description")

// Description is a scene written in YAML. Textures and materials are named
// and referenced by name from materials and shapes.
type Description struct {
	Name       string                         `yaml:"name"`
	Seed       int64                          `yaml:"seed"` // Seeds noise fields
	MaxDepth   int                            `yaml:"max_depth"`
	Camera     CameraDescription              `yaml:"camera"`
	Background BackgroundDescription          `yaml:"background"`
	Textures   map[string]TextureDescription  `yaml:"textures"`
	Materials  map[string]MaterialDescription `yaml:"materials"`
	Shapes     []ShapeDescription             `yaml:"shapes"`

	baseDir string // Relative image and mesh paths resolve against this
}

// CameraDescription mirrors renderer.CameraConfig
type CameraDescription struct {
	LookFrom      []float64 `yaml:"look_from"`
	LookAt        []float64 `yaml:"look_at"`
	VUp           []float64 `yaml:"vup"`
	VFov          float64   `yaml:"vfov"`
	AspectRatio   float64   `yaml:"aspect_ratio"`
	Aperture      float64   `yaml:"aperture"`
	FocusDistance float64   `yaml:"focus_distance"`
	Time0         float64   `yaml:"time0"`
	Time1         float64   `yaml:"time1"`
}

// BackgroundDescription selects what rays that escape the scene return
type BackgroundDescription struct {
	Type   string    `yaml:"type"` // sky (default), gradient, solid
	Top    []float64 `yaml:"top"`
	Bottom []float64 `yaml:"bottom"`
	Color  []float64 `yaml:"color"`
}

// TextureDescription describes one named texture
type TextureDescription struct {
	Type       string    `yaml:"type"` // solid, checker, noise, image
	Color      []float64 `yaml:"color"`
	Even       string    `yaml:"even"` // Texture names for checker cells
	Odd        string    `yaml:"odd"`
	EvenColor  []float64 `yaml:"even_color"`
	OddColor   []float64 `yaml:"odd_color"`
	Scale      float64   `yaml:"scale"`
	Field      string    `yaml:"field"` // perlin (default) or simplex
	Turbulence int       `yaml:"turbulence"`
	Path       string    `yaml:"path"`
}

// MaterialDescription describes one named material
type MaterialDescription struct {
	Type            string    `yaml:"type"` // lambertian, metal, dielectric, isotropic, diffuse_light, mix
	Albedo          []float64 `yaml:"albedo"`
	Texture         string    `yaml:"texture"`
	Fuzz            float64   `yaml:"fuzz"`
	RefractiveIndex float64   `yaml:"refractive_index"`
	Emit            []float64 `yaml:"emit"`
	First           string    `yaml:"first"`
	Second          string    `yaml:"second"`
	Ratio           float64   `yaml:"ratio"`
}

// ShapeDescription describes one primitive
type ShapeDescription struct {
	Type     string      `yaml:"type"` // sphere, moving_sphere, quad, disc, triangle, box, mesh, medium
	Material string      `yaml:"material"`
	Center   []float64   `yaml:"center"`
	Center1  []float64   `yaml:"center1"`
	Radius   float64     `yaml:"radius"`
	Normal   []float64   `yaml:"normal"`
	Time0    float64     `yaml:"time0"`
	Time1    float64     `yaml:"time1"`
	Corner   []float64   `yaml:"corner"`
	U        []float64   `yaml:"u"`
	V        []float64   `yaml:"v"`
	Vertices [][]float64 `yaml:"vertices"`
	Faces    []int       `yaml:"faces"`
	Min      []float64   `yaml:"min"`
	Max      []float64   `yaml:"max"`
	Rotation []float64   `yaml:"rotation"` // Degrees about the box center, X then Y then Z
	Path     string      `yaml:"path"`
	Fit      bool        `yaml:"fit"`
	Scale    float64     `yaml:"scale"`
	Offset   []float64   `yaml:"offset"`
	Density  float64     `yaml:"density"`

	Boundary *ShapeDescription `yaml:"boundary"`
}

// ParseDescription decodes a YAML scene description. Unknown keys are rejected.
func ParseDescription(data []byte) (*Description, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var desc Description
	if err := dec.Decode(&desc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDescription, err)
	}
	return &desc, nil
}

// LoadDescription reads and decodes a YAML scene description file
func LoadDescription(path string) (*Description, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scene file: %w", err)
	}
	desc, err := ParseDescription(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	desc.baseDir = filepath.Dir(path)
	if desc.Name == "" {
		desc.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return desc, nil
}

// Load returns the built-in scene with the given name, or builds the scene
// described by a .yaml or .yml file.
func Load(name string, seed int64) (*Scene, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		desc, err := LoadDescription(name)
		if err != nil {
			return nil, err
		}
		return desc.Build()
	}
	return Builtin(name, seed)
}

// Build turns the description into a scene
func (d *Description) Build() (*Scene, error) {
	b := &builder{
		desc:      d,
		textures:  make(map[string]texture.ColorSource),
		materials: make(map[string]core.Material),
		visiting:  make(map[string]bool),
	}

	camera, err := d.Camera.config()
	if err != nil {
		return nil, invalid("camera", err)
	}
	background, err := d.Background.build()
	if err != nil {
		return nil, invalid("background", err)
	}

	s := New(d.Name, camera)
	s.Background = background
	if d.MaxDepth > 0 {
		s.MaxDepth = d.MaxDepth
	}

	if len(d.Shapes) == 0 {
		return nil, fmt.Errorf("%w: no shapes", ErrInvalidDescription)
	}
	for i, sd := range d.Shapes {
		shape, err := b.shape(sd)
		if err != nil {
			return nil, invalid(fmt.Sprintf("shape %d (%s)", i, sd.Type), err)
		}
		s.Add(shape)
	}
	return s, nil
}

func invalid(what string, err error) error {
	if errors.Is(err, ErrInvalidDescription) {
		return fmt.Errorf("%s: %w", what, err)
	}
	return fmt.Errorf("%w: %s: %w", ErrInvalidDescription, what, err)
}

func vec(field string, v []float64, def core.Vec3) (core.Vec3, error) {
	if v == nil {
		return def, nil
	}
	if len(v) != 3 {
		return core.Vec3{}, fmt.Errorf("%s must have 3 components, got %d", field, len(v))
	}
	return core.NewVec3(v[0], v[1], v[2]), nil
}

func requireVec(field string, v []float64) (core.Vec3, error) {
	if v == nil {
		return core.Vec3{}, fmt.Errorf("%s is required", field)
	}
	return vec(field, v, core.Vec3{})
}

func (c CameraDescription) config() (renderer.CameraConfig, error) {
	from, err := requireVec("look_from", c.LookFrom)
	if err != nil {
		return renderer.CameraConfig{}, err
	}
	at, err := requireVec("look_at", c.LookAt)
	if err != nil {
		return renderer.CameraConfig{}, err
	}
	up, err := vec("vup", c.VUp, core.NewVec3(0, 1, 0))
	if err != nil {
		return renderer.CameraConfig{}, err
	}
	if from.Subtract(at).NearZero() {
		return renderer.CameraConfig{}, errors.New("look_from and look_at coincide")
	}

	config := renderer.CameraConfig{
		LookFrom:      from,
		LookAt:        at,
		VUp:           up,
		VFov:          c.VFov,
		AspectRatio:   c.AspectRatio,
		Aperture:      c.Aperture,
		FocusDistance: c.FocusDistance,
		Time0:         c.Time0,
		Time1:         c.Time1,
	}
	if config.VFov == 0 {
		config.VFov = 40
	}
	if config.AspectRatio == 0 {
		config.AspectRatio = 16.0 / 9.0
	}
	if config.VFov < 0 || config.VFov >= 180 {
		return renderer.CameraConfig{}, fmt.Errorf("vfov %g outside (0, 180)", config.VFov)
	}
	if config.Aperture < 0 {
		return renderer.CameraConfig{}, fmt.Errorf("aperture %g is negative", config.Aperture)
	}
	return config, nil
}

func (bd BackgroundDescription) build() (integrator.Background, error) {
	switch bd.Type {
	case "", "sky":
		return integrator.NewSkyBackground(), nil
	case "gradient":
		bottom, err := requireVec("bottom", bd.Bottom)
		if err != nil {
			return nil, err
		}
		top, err := requireVec("top", bd.Top)
		if err != nil {
			return nil, err
		}
		return integrator.NewGradientBackground(bottom, top), nil
	case "solid":
		color, err := vec("color", bd.Color, core.Vec3{})
		if err != nil {
			return nil, err
		}
		return integrator.NewSolidBackground(color), nil
	}
	return nil, fmt.Errorf("unknown background type %q", bd.Type)
}

// builder resolves named textures and materials once each, in dependency order
type builder struct {
	desc      *Description
	textures  map[string]texture.ColorSource
	materials map[string]core.Material
	visiting  map[string]bool
}

func (b *builder) path(p string) string {
	if filepath.IsAbs(p) || b.desc.baseDir == "" {
		return p
	}
	return filepath.Join(b.desc.baseDir, p)
}

func (b *builder) texture(name string) (texture.ColorSource, error) {
	if tex, ok := b.textures[name]; ok {
		return tex, nil
	}
	td, ok := b.desc.Textures[name]
	if !ok {
		return nil, fmt.Errorf("unknown texture %q", name)
	}
	key := "texture/" + name
	if b.visiting[key] {
		return nil, fmt.Errorf("texture %q refers to itself", name)
	}
	b.visiting[key] = true
	defer delete(b.visiting, key)

	tex, err := b.buildTexture(td)
	if err != nil {
		return nil, fmt.Errorf("texture %q: %w", name, err)
	}
	b.textures[name] = tex
	return tex, nil
}

// cell resolves one checker cell from either a texture name or a color
func (b *builder) cell(which, name string, color []float64) (texture.ColorSource, error) {
	if name != "" {
		return b.texture(name)
	}
	c, err := requireVec(which+"_color", color)
	if err != nil {
		return nil, err
	}
	return texture.NewSolidColor(c), nil
}

func (b *builder) buildTexture(td TextureDescription) (texture.ColorSource, error) {
	switch td.Type {
	case "solid":
		c, err := requireVec("color", td.Color)
		if err != nil {
			return nil, err
		}
		return texture.NewSolidColor(c), nil
	case "checker":
		even, err := b.cell("even", td.Even, td.EvenColor)
		if err != nil {
			return nil, err
		}
		odd, err := b.cell("odd", td.Odd, td.OddColor)
		if err != nil {
			return nil, err
		}
		return texture.NewChecker(even, odd), nil
	case "noise":
		var field noise.Field
		switch td.Field {
		case "", "perlin":
			field = noise.NewSeededPerlin(b.desc.Seed)
		case "simplex":
			field = noise.NewSimplex(b.desc.Seed)
		default:
			return nil, fmt.Errorf("unknown noise field %q", td.Field)
		}
		scale := td.Scale
		if scale == 0 {
			scale = 1
		}
		marble := texture.NewNoise(field, scale)
		if td.Turbulence > 0 {
			marble.Depth = td.Turbulence
		}
		return marble, nil
	case "image":
		if td.Path == "" {
			return nil, errors.New("path is required")
		}
		img, err := loaders.LoadImage(b.path(td.Path))
		if err != nil {
			return nil, err
		}
		return texture.NewImageTexture(img.Width, img.Height, img.Pixels), nil
	}
	return nil, fmt.Errorf("unknown texture type %q", td.Type)
}

func (b *builder) material(name string) (core.Material, error) {
	if mat, ok := b.materials[name]; ok {
		return mat, nil
	}
	md, ok := b.desc.Materials[name]
	if !ok {
		return nil, fmt.Errorf("unknown material %q", name)
	}
	key := "material/" + name
	if b.visiting[key] {
		return nil, fmt.Errorf("material %q refers to itself", name)
	}
	b.visiting[key] = true
	defer delete(b.visiting, key)

	mat, err := b.buildMaterial(md)
	if err != nil {
		return nil, fmt.Errorf("material %q: %w", name, err)
	}
	b.materials[name] = mat
	return mat, nil
}

// albedo resolves a material's color source: a named texture, or a color
// validated under the given field name
func (b *builder) albedo(field string, md MaterialDescription, values []float64) (texture.ColorSource, error) {
	if md.Texture != "" {
		return b.texture(md.Texture)
	}
	c, err := requireVec(field, values)
	if err != nil {
		return nil, err
	}
	if err := material.ValidateColor(field, c); err != nil {
		return nil, err
	}
	return texture.NewSolidColor(c), nil
}

func (b *builder) buildMaterial(md MaterialDescription) (core.Material, error) {
	switch md.Type {
	case "lambertian":
		albedo, err := b.albedo("albedo", md, md.Albedo)
		if err != nil {
			return nil, err
		}
		return material.NewTexturedLambertian(albedo), nil
	case "metal":
		albedo, err := requireVec("albedo", md.Albedo)
		if err != nil {
			return nil, err
		}
		if err := errors.Join(material.ValidateColor("albedo", albedo), material.ValidateFuzz(md.Fuzz)); err != nil {
			return nil, err
		}
		return material.NewMetal(albedo, md.Fuzz), nil
	case "dielectric":
		if err := material.ValidateRefractiveIndex(md.RefractiveIndex); err != nil {
			return nil, err
		}
		return material.NewDielectric(md.RefractiveIndex), nil
	case "isotropic":
		albedo, err := b.albedo("albedo", md, md.Albedo)
		if err != nil {
			return nil, err
		}
		return material.NewTexturedIsotropic(albedo), nil
	case "diffuse_light":
		emit, err := b.albedo("emit", md, md.Emit)
		if err != nil {
			return nil, err
		}
		return material.NewTexturedDiffuseLight(emit), nil
	case "mix":
		if err := material.ValidateRatio(md.Ratio); err != nil {
			return nil, err
		}
		first, err := b.material(md.First)
		if err != nil {
			return nil, err
		}
		second, err := b.material(md.Second)
		if err != nil {
			return nil, err
		}
		return material.NewMix(first, second, md.Ratio), nil
	}
	return nil, fmt.Errorf("unknown material type %q", md.Type)
}

func (b *builder) shape(sd ShapeDescription) (core.Shape, error) {
	if sd.Type == "medium" {
		return b.medium(sd)
	}

	mat, err := b.material(sd.Material)
	if err != nil {
		return nil, err
	}

	switch sd.Type {
	case "sphere":
		center, err := requireVec("center", sd.Center)
		if err != nil {
			return nil, err
		}
		if sd.Radius == 0 {
			return nil, errors.New("radius must be non-zero")
		}
		return geometry.NewSphere(center, sd.Radius, mat), nil
	case "disc":
		center, err := requireVec("center", sd.Center)
		if err != nil {
			return nil, err
		}
		normal, err := requireVec("normal", sd.Normal)
		if err != nil {
			return nil, err
		}
		if normal.NearZero() {
			return nil, errors.New("normal must be non-zero")
		}
		if sd.Radius <= 0 {
			return nil, errors.New("radius must be positive")
		}
		return geometry.NewDisc(center, normal, sd.Radius, mat), nil
	case "moving_sphere":
		center0, err := requireVec("center", sd.Center)
		if err != nil {
			return nil, err
		}
		center1, err := requireVec("center1", sd.Center1)
		if err != nil {
			return nil, err
		}
		if sd.Radius == 0 {
			return nil, errors.New("radius must be non-zero")
		}
		if sd.Time1 <= sd.Time0 {
			return nil, fmt.Errorf("time1 %g must be after time0 %g", sd.Time1, sd.Time0)
		}
		return geometry.NewMovingSphere(center0, center1, sd.Time0, sd.Time1, sd.Radius, mat), nil
	case "quad":
		corner, err := requireVec("corner", sd.Corner)
		if err != nil {
			return nil, err
		}
		u, err := requireVec("u", sd.U)
		if err != nil {
			return nil, err
		}
		v, err := requireVec("v", sd.V)
		if err != nil {
			return nil, err
		}
		if u.Cross(v).NearZero() {
			return nil, errors.New("u and v are parallel")
		}
		return geometry.NewQuad(corner, u, v, mat), nil
	case "triangle":
		if len(sd.Vertices) != 3 {
			return nil, fmt.Errorf("triangle needs 3 vertices, got %d", len(sd.Vertices))
		}
		vertices, err := vecs(sd.Vertices)
		if err != nil {
			return nil, err
		}
		return geometry.NewTriangle(vertices[0], vertices[1], vertices[2], mat), nil
	case "box":
		lo, err := requireVec("min", sd.Min)
		if err != nil {
			return nil, err
		}
		hi, err := requireVec("max", sd.Max)
		if err != nil {
			return nil, err
		}
		box := geometry.NewBoxFromCorners(lo, hi, mat)
		if sd.Rotation != nil {
			rotation, err := vec("rotation", sd.Rotation, core.Vec3{})
			if err != nil {
				return nil, err
			}
			rotation = rotation.Multiply(math.Pi / 180)
			box = geometry.NewBox(box.Center, box.Size, rotation, mat)
		}
		return box, nil
	case "mesh":
		return b.mesh(sd, mat)
	}
	return nil, fmt.Errorf("unknown shape type %q", sd.Type)
}

func vecs(values [][]float64) ([]core.Vec3, error) {
	out := make([]core.Vec3, len(values))
	for i, v := range values {
		var err error
		if out[i], err = requireVec(fmt.Sprintf("vertex %d", i), v); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// mesh builds a triangle mesh from a file or from inline vertices and faces,
// then applies scale and offset to every vertex
func (b *builder) mesh(sd ShapeDescription, mat core.Material) (core.Shape, error) {
	var vertices []core.Vec3
	var faces []int
	switch {
	case sd.Path != "":
		data, err := loaders.LoadMesh(b.path(sd.Path), sd.Fit)
		if err != nil {
			return nil, err
		}
		vertices, faces = data.Vertices, data.Faces
	case len(sd.Vertices) > 0:
		var err error
		if vertices, err = vecs(sd.Vertices); err != nil {
			return nil, err
		}
		if len(sd.Faces) == 0 {
			return nil, errors.New("inline mesh needs faces")
		}
		faces = slices.Clone(sd.Faces)
	default:
		return nil, errors.New("mesh needs a path or inline vertices")
	}

	scale := sd.Scale
	if scale == 0 {
		scale = 1
	}
	offset, err := vec("offset", sd.Offset, core.Vec3{})
	if err != nil {
		return nil, err
	}
	for i, v := range vertices {
		vertices[i] = v.Multiply(scale).Add(offset)
	}

	return geometry.NewTriangleMesh(vertices, faces, mat)
}

func (b *builder) medium(sd ShapeDescription) (core.Shape, error) {
	if sd.Boundary == nil {
		return nil, errors.New("boundary is required")
	}
	if sd.Boundary.Type == "medium" {
		return nil, errors.New("boundary cannot itself be a medium")
	}
	if !(sd.Density > 0) {
		return nil, fmt.Errorf("density %g must be positive", sd.Density)
	}
	phase, err := b.material(sd.Material)
	if err != nil {
		return nil, err
	}
	if _, ok := phase.(*material.Isotropic); !ok {
		return nil, fmt.Errorf("medium material %q must be isotropic", sd.Material)
	}

	// The boundary only shapes the volume; its material is never shaded
	boundary := *sd.Boundary
	if boundary.Material == "" {
		boundary.Material = sd.Material
	}
	shape, err := b.shape(boundary)
	if err != nil {
		return nil, fmt.Errorf("boundary: %w", err)
	}
	return geometry.NewConstantMedium(shape, sd.Density, phase), nil
}
