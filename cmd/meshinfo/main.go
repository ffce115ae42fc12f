// meshinfo prints vertex, face and BVH statistics for mesh files.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/olekukonko/tablewriter"

	"github.com/jdginn/go-raytracer/tracer"
)

var CLI struct {
	Meshes []string `arg:"" type:"existingfile" help:".obj, .stl or .3mf files"`
	BVH    bool     `name:"bvh" help:"also build a BVH over each mesh's faces"`
}

type meshInfo struct {
	name      string
	vertices  int
	faces     int
	texcoords bool
	bounds    tracer.AABB
	bvh       *tracer.BVHStats
}

func inspect(arena *tracer.Arena, path string, withBVH bool) (meshInfo, error) {
	m, err := arena.LoadMesh(path, nil)
	if err != nil {
		return meshInfo{}, err
	}
	info := meshInfo{
		name:      filepath.Base(path),
		vertices:  m.NumVertices(),
		faces:     m.NumFaces(),
		texcoords: m.HasTexcoords(),
		bounds:    m.BoundingBox(),
	}
	if withBVH {
		bvh, err := arena.BuildBVH(m.Faces())
		if err != nil {
			return meshInfo{}, err
		}
		stats := bvh.Stats()
		info.bvh = &stats
	}
	return info, nil
}

func main() {
	kong.Parse(&CLI, kong.Description("Print mesh statistics"))

	arena := tracer.NewArena()
	table := tablewriter.NewWriter(os.Stdout)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	header := []string{"Mesh", "Vertices", "Faces", "UVs", "Size"}
	if CLI.BVH {
		header = append(header, "BVH nodes", "BVH depth")
	}
	table.SetHeader(header)

	failed := false
	for _, path := range CLI.Meshes {
		info, err := inspect(arena, path, CLI.BVH)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			failed = true
			continue
		}
		size := info.bounds.Size()
		row := []string{
			info.name,
			fmt.Sprintf("%d", info.vertices),
			fmt.Sprintf("%d", info.faces),
			fmt.Sprintf("%t", info.texcoords),
			fmt.Sprintf("%.3g x %.3g x %.3g", size.X, size.Y, size.Z),
		}
		if info.bvh != nil {
			row = append(row, fmt.Sprintf("%d", info.bvh.Nodes), fmt.Sprintf("%d", info.bvh.MaxDepth))
		}
		table.Append(row)
	}
	table.Render()
	if failed {
		os.Exit(1)
	}
}
