package main

import (
	"fmt"

	"github.com/jdginn/go-raytracer/tracer"
)

type ValidateCmd struct {
	SceneFlags `embed:""`
}

func (c ValidateCmd) Run() error {
	cfg, err := c.load()
	if err != nil {
		return err
	}
	if err := validate(cfg); err != nil {
		return err
	}
	scene, err := parseScene(cfg, tracer.NewArena())
	if err != nil {
		return err
	}
	fmt.Printf("%s: %d surface(s), %d mesh(es), %d material(s), %d light(s), %dx%d image\n",
		cfg.Input.Scene.Path, len(scene.Surfaces), len(scene.Meshes), scene.Materials,
		len(scene.Lights), scene.ImageWidth, scene.ImageHeight)
	return nil
}
