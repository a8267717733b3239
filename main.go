package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-texture-pathtracer/pkg/config"
	"github.com/df07/go-texture-pathtracer/pkg/output"
	"github.com/df07/go-texture-pathtracer/pkg/renderer"
	"github.com/df07/go-texture-pathtracer/pkg/scene"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		slog.Error("render failed", "error", err)
		os.Exit(1)
	}
}

// options are the command line flags; zero values leave the config untouched
type options struct {
	configPath string
	envFile    string
	list       bool
	scene      string
	width      int
	height     int
	spp        int
	depth      int
	workers    int
	seed       int64
	outDir     string
	upload     bool
	logLevel   string
}

func parseFlags(args []string, stderr io.Writer) (*options, map[string]bool, error) {
	fs := flag.NewFlagSet("pathtracer", flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := &options{}
	fs.StringVar(&opts.configPath, "config", "", "Path to config.yaml (empty = use defaults)")
	fs.StringVar(&opts.envFile, "env", ".env", "File with S3_* credentials for uploads")
	fs.BoolVar(&opts.list, "list", false, "List built-in scenes and exit")
	fs.StringVar(&opts.scene, "scene", "", "Built-in scene name or path to a YAML scene")
	fs.IntVar(&opts.width, "width", 0, "Image width in pixels")
	fs.IntVar(&opts.height, "height", 0, "Image height in pixels (0 = from camera aspect ratio)")
	fs.IntVar(&opts.spp, "spp", 0, "Samples per pixel")
	fs.IntVar(&opts.depth, "depth", 0, "Maximum ray bounce depth")
	fs.IntVar(&opts.workers, "workers", 0, "Parallel workers (0 = one per CPU)")
	fs.Int64Var(&opts.seed, "seed", 0, "Render seed")
	fs.StringVar(&opts.outDir, "out", "", "Output directory")
	fs.BoolVar(&opts.upload, "upload", false, "Upload the finished image to S3")
	fs.StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Texture path tracer")
		fmt.Fprintln(stderr, "Usage: pathtracer [options]")
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "Options:")
		fs.PrintDefaults()
		fmt.Fprintln(stderr)
		fmt.Fprintf(stderr, "Built-in scenes: %s\n", strings.Join(scene.Names(), ", "))
	}

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return opts, set, nil
}

// applyFlags copies explicitly set flags over the loaded config
func applyFlags(cfg *config.Config, opts *options, set map[string]bool) {
	if set["scene"] {
		cfg.Render.Scene = opts.scene
	}
	if set["width"] {
		cfg.Render.Width = opts.width
	}
	if set["height"] {
		cfg.Render.Height = opts.height
	}
	if set["spp"] {
		cfg.Render.SamplesPerPixel = opts.spp
	}
	if set["depth"] {
		cfg.Render.MaxDepth = opts.depth
	}
	if set["workers"] {
		cfg.Render.Workers = opts.workers
	}
	if set["seed"] {
		cfg.Render.Seed = opts.seed
	}
	if set["out"] {
		cfg.Output.Dir = opts.outDir
	}
	if set["upload"] {
		cfg.Upload.Enabled = opts.upload
	}
	if set["log-level"] {
		cfg.Log.Level = opts.logLevel
	}
}

// imageSize resolves a zero height from the camera aspect ratio
func imageSize(width, height int, aspect float64) (int, int) {
	if height > 0 {
		return width, height
	}
	if aspect <= 0 {
		aspect = 16.0 / 9.0
	}
	return width, max(1, int(float64(width)/aspect))
}

// imageName picks the output file name, defaulting to the scene name
func imageName(cfg *config.Config, sceneName string) string {
	if cfg.Output.Filename != "" {
		return cfg.Output.Filename
	}
	name := strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == ' ' {
			return '_'
		}
		return r
	}, sceneName)
	return name + ".png"
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, set, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	if opts.list {
		for _, name := range scene.Names() {
			fmt.Fprintln(stdout, name)
		}
		return nil
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	applyFlags(cfg, opts, set)
	if err := config.LoadEnv(opts.envFile); err != nil {
		return err
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger, err := cfg.Log.NewLogger(stderr)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	sc, err := scene.Load(cfg.Render.Scene, cfg.Render.Seed)
	if err != nil {
		return err
	}
	if cfg.Render.MaxDepth > 0 {
		sc.MaxDepth = cfg.Render.MaxDepth
	}

	width, height := imageSize(cfg.Render.Width, cfg.Render.Height, sc.CameraConfig.AspectRatio)
	cameraConfig := sc.CameraConfig
	cameraConfig.AspectRatio = float64(width) / float64(height)

	world := sc.World()
	bvh := sc.BVH.Stats()
	logger.Info("scene loaded",
		"scene", sc.Name,
		"primitives", sc.PrimitiveCount(),
		"bvh_nodes", bvh.TotalNodes,
		"bvh_depth", bvh.MaxDepth,
		"max_depth", sc.MaxDepth)

	rt := renderer.NewRaytracer(world, renderer.NewCamera(cameraConfig), sc.Integrator(), renderer.Config{
		Width:           width,
		Height:          height,
		SamplesPerPixel: cfg.Render.SamplesPerPixel,
		TileSize:        cfg.Render.TileSize,
		Workers:         cfg.Render.Workers,
		Seed:            cfg.Render.Seed,
	}, logger)

	result, renderErr := rt.Render(ctx)
	if result == nil {
		return renderErr
	}

	out, err := output.NewManager(cfg.Output.Dir)
	if err != nil {
		return err
	}

	// An aborted render still saves what it has, under a distinct name
	name := imageName(cfg, sc.Name)
	if renderErr != nil {
		name = strings.TrimSuffix(name, filepath.Ext(name)) + "_partial.png"
	}
	img := result.Image()
	imagePath, err := out.WritePNG(name, img)
	if err != nil {
		return errors.Join(renderErr, err)
	}
	logger.Info("image saved", "path", imagePath)
	if renderErr != nil {
		return renderErr
	}

	artifacts := []string{imagePath}
	if cfg.Output.ThumbnailWidth > 0 {
		thumbName := strings.TrimSuffix(name, filepath.Ext(name)) + "_thumb.png"
		thumbPath, err := out.WriteThumbnail(thumbName, img, cfg.Output.ThumbnailWidth)
		if err != nil {
			return err
		}
		artifacts = append(artifacts, thumbPath)
	}
	if cfg.Output.Stats {
		if err := out.AppendStats(output.NewStatsRecord(sc.Name, cfg.Render.Seed, result.Stats, time.Now())); err != nil {
			return err
		}
	}
	if cfg.Output.WriteConfig {
		if _, err := out.WriteConfig(cfg); err != nil {
			return err
		}
	}

	if cfg.Upload.Enabled {
		return upload(ctx, cfg.Upload, artifacts, logger)
	}
	return nil
}

func upload(ctx context.Context, cfg config.UploadConfig, files []string, logger *slog.Logger) error {
	uploader, err := output.NewS3Uploader(output.S3Config{
		Bucket:     cfg.Bucket,
		Region:     cfg.Region,
		Endpoint:   cfg.Endpoint,
		AccessKey:  cfg.AccessKey,
		SecretKey:  cfg.SecretKey,
		Prefix:     cfg.Prefix,
		PublicRead: cfg.PublicRead,
		Timeout:    cfg.Timeout,
	})
	if err != nil {
		return err
	}
	for _, file := range files {
		key, err := uploader.UploadFile(ctx, file)
		if err != nil {
			return err
		}
		logger.Info("uploaded", "bucket", cfg.Bucket, "key", key)
	}
	return nil
}
