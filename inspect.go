package main

import (
	"errors"
	"fmt"

	"github.com/fogleman/gg"

	"github.com/jdginn/go-raytracer/tracer"
)

type InspectCmd struct {
	SceneFlags `embed:""`

	Plot  string `help:"save an orthographic plot of the BVH to this PNG"`
	Axis  string `default:"z" enum:"x,y,z" help:"axis the plot looks along"`
	Depth int    `default:"3" help:"BVH levels drawn in the plot"`
	Size  int    `default:"800" help:"plot width and height in pixels"`
}

func (c InspectCmd) Run() error {
	cfg, err := c.load()
	if err != nil {
		return err
	}
	if cfg.Input.Scene.Path == "" {
		return errors.New("no scene given")
	}
	arena := tracer.NewArena()
	scene, err := parseScene(cfg, arena)
	if err != nil {
		return err
	}
	bvh, err := arena.BuildBVH(scene.Surfaces)
	if err != nil {
		return err
	}
	fmt.Print(bvh.Stats().Table())
	box := bvh.BoundingBox()
	fmt.Printf("bounds: %v .. %v\n", box.Min, box.Max)

	if c.Plot == "" {
		return nil
	}
	view := tracer.View{
		BVH:      bvh,
		Lights:   scene.Lights,
		XSize:    c.Size,
		YSize:    c.Size,
		Axis:     map[string]int{"x": 0, "y": 1, "z": 2}[c.Axis],
		MaxDepth: c.Depth,
	}
	if err := gg.SavePNG(c.Plot, view.Plot()); err != nil {
		return fmt.Errorf("saving plot: %w", err)
	}
	return nil
}
