package main

import (
	"errors"
	"fmt"

	"github.com/jdginn/go-raytracer/tracer"
	"github.com/jdginn/go-raytracer/tracer/config"
	"github.com/jdginn/go-raytracer/tracer/raytra"
)

// SceneFlags are shared by every command that reads a scene. Flags that are
// set override the config file.
type SceneFlags struct {
	Config        string `short:"c" type:"existingfile" help:"YAML render config"`
	Scene         string `arg:"" optional:"" type:"existingfile" help:"raytra scene file"`
	ShadowSamples int    `name:"shadow-samples" short:"s" help:"samples per area light"`
	NoBVH         bool   `name:"no-bvh" help:"intersect against a flat surface list"`
}

func (f SceneFlags) load() (*config.RenderConfig, error) {
	cfg := config.Default()
	if f.Config != "" {
		loaded, err := config.LoadFromFile(f.Config, config.LoadOptions{
			ResolvePaths: true,
			MergeFiles:   true,
		})
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if f.Scene != "" {
		cfg.Input.Scene.Path = f.Scene
	}
	if f.ShadowSamples > 0 {
		cfg.Render.ShadowSamples = f.ShadowSamples
	}
	if f.NoBVH {
		useBVH := false
		cfg.Render.UseBVH = &useBVH
	}
	return cfg, nil
}

func validate(cfg *config.RenderConfig) error {
	if errs := cfg.Validate(); len(errs) > 0 {
		return errors.New(config.FormatValidationErrors(errs))
	}
	return nil
}

func parseScene(cfg *config.RenderConfig, arena *tracer.Arena) (*raytra.Scene, error) {
	scene, err := raytra.ParseFile(cfg.Input.Scene.Path, raytra.Options{
		ShadowSamples: cfg.Render.ShadowSamples,
		Library:       cfg.Materials.Library(arena),
	}, arena)
	if err != nil {
		return nil, fmt.Errorf("parsing scene %s: %w", cfg.Input.Scene.Path, err)
	}
	return scene, nil
}
