package main

import (
	"os"

	"github.com/alecthomas/kong"

	"github.com/jdginn/go-raytracer/log"
)

var logger = log.New("main")

var CLI struct {
	Verbose int `short:"v" type:"counter" help:"more logging (-v info, -vv debug)"`

	Render   RenderCmd   `cmd:"" help:"Render a scene to an image"`
	Validate ValidateCmd `cmd:"" help:"Check a config and its scene without rendering"`
	Inspect  InspectCmd  `cmd:"" help:"Print the BVH built for a scene"`
}

func setVerbosity(v int) {
	switch {
	case v >= 2:
		log.SetLevel(log.Debug)
	case v == 1:
		log.SetLevel(log.Info)
	default:
		log.SetLevel(log.Notice)
	}
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("raytracer"),
		kong.Description("Offline recursive ray tracer for raytra scenes"),
	)
	setVerbosity(CLI.Verbose)
	if err := ctx.Run(); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}
