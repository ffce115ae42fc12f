package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot/vg"

	"github.com/jdginn/go-raytracer/tracer"
	"github.com/jdginn/go-raytracer/tracer/config"
	"github.com/jdginn/go-raytracer/tracer/experiment"
)

type RenderCmd struct {
	SceneFlags `embed:""`

	Output          string `short:"o" help:"output image (.png or .pfm)"`
	SamplesPerPixel int    `name:"samples-per-pixel" short:"p" help:"camera rays per pixel"`
	MaxDepth        int    `name:"max-depth" help:"maximum recursion depth"`
	Workers         int    `short:"j" help:"render goroutines (0 = one per CPU)"`
	Stats           bool   `help:"print and save render statistics"`
	RunDir          bool   `name:"run-dir" help:"write all outputs to a new directory under renders/"`
}

func (c RenderCmd) Run() error {
	cfg, err := c.load()
	if err != nil {
		return err
	}
	if c.Output != "" {
		cfg.Output.Path = c.Output
	}
	if c.SamplesPerPixel > 0 {
		cfg.Render.SamplesPerPixel = c.SamplesPerPixel
	}
	if c.MaxDepth > 0 {
		cfg.Render.MaxDepth = c.MaxDepth
	}
	if c.Workers > 0 {
		cfg.Render.Workers = c.Workers
	}
	if c.Stats {
		cfg.Output.Stats = true
	}
	if err := validate(cfg); err != nil {
		return err
	}

	arena := tracer.NewArena()
	scene, err := parseScene(cfg, arena)
	if err != nil {
		return err
	}
	world, err := scene.World(arena, cfg.Render.BVHEnabled())
	if err != nil {
		return err
	}

	height := scene.ImageHeight
	if cfg.Render.ImageHeight > 0 {
		height = cfg.Render.ImageHeight
	}
	rt := tracer.NewRayTracer(height)
	rt.SamplesPerPixel = cfg.Render.SamplesPerPixel
	rt.MaxDepth = cfg.Render.MaxDepth
	rt.Workers = cfg.Render.Workers
	rt.Seed = cfg.Render.Seed
	rt.Progress = logProgress

	img, err := rt.Render(context.Background(), world, scene.Lights, scene.Camera)
	if err != nil {
		return err
	}

	out := outputPaths{image: cfg.Output.Path}
	if c.RunDir {
		run, err := experiment.CreateRunDirectory("")
		if err != nil {
			return fmt.Errorf("creating run directory: %w", err)
		}
		if err := run.CopyFile(cfg.Input.Scene.Path); err != nil {
			return fmt.Errorf("copying scene file: %w", err)
		}
		if err := config.SaveToFile(cfg, run.GetFilePath("config.yaml")); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		out.image = run.GetFilePath(filepath.Base(cfg.Output.Path))
		logger.Noticef("writing outputs to %s", run.Path)
	}

	if len(cfg.Output.ToneCurve) > 0 {
		curve, err := tracer.NewToneCurve(cfg.Output.ToneCurve)
		if err != nil {
			return err
		}
		img = img.ApplyToneCurve(curve)
	}
	if err := tracer.WriteImage(out.image, img, cfg.Output.Gamma); err != nil {
		return err
	}
	logger.Noticef("wrote %s (%dx%d)", out.image, img.Width, img.Height)

	stats := rt.Stats()
	if cfg.Output.Stats {
		fmt.Print(stats.Table())
		if err := stats.SaveJSON(out.sibling("stats.json")); err != nil {
			return err
		}
	}
	if cfg.Output.PlotRowTimes {
		if err := stats.PlotRowTimes(out.sibling("rows.png"), 8*vg.Inch, 4*vg.Inch); err != nil {
			return err
		}
	}
	if cfg.Output.Annotations {
		if err := tracer.SaveSceneAnnotationsToJSON(out.sibling("annotations.json"), scene.Camera, scene.Lights, scene.Surfaces); err != nil {
			return err
		}
	}
	return nil
}

// logProgress logs roughly every tenth of the rows.
func logProgress(done, total int) {
	step := max(1, total/10)
	if done%step == 0 || done == total {
		logger.Infof("rendered %d/%d rows (%d%%)", done, total, 100*done/total)
	}
}

type outputPaths struct {
	image string
}

// sibling names a file next to the image, prefixed with the image's stem.
func (o outputPaths) sibling(suffix string) string {
	stem := strings.TrimSuffix(o.image, filepath.Ext(o.image))
	return stem + "_" + suffix
}
