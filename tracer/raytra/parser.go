// Package raytra reads scenes in the raytra text format.
//
// Each non-empty line starts with a command character followed by
// whitespace separated arguments. Lines starting with '/' are comments.
//
//	c  x y z  vx vy vz  focal  vw vh  pw ph     camera
//	s  x y z  r                                 sphere
//	t  ax ay az  bx by bz  cx cy cz              triangle
//	w  path                                     mesh (.obj, .stl, .3mf)
//	m  dr dg db  sr sg sb  shininess  ir ig ib   Phong material
//	d  ior  r g b                               dielectric material
//	i  id flipx flipy path                      image texture
//	n  id  dr dg db  sr sg sb  shininess  ir ig ib   textured Phong material
//	u  name                                     material from the library
//	l p  x y z  r g b                           point light
//	l a  r g b                                  ambient light
//	l s  x y z  nx ny nz  ux uy uz  len  r g b   square area light
//
// Surfaces use the most recently declared material.
package raytra

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fogleman/pt/pt"

	"github.com/jdginn/go-raytracer/log"
	"github.com/jdginn/go-raytracer/tracer"
)

var logger = log.New("raytra")

var (
	ErrNoMaterial     = errors.New("surface declared before any material")
	ErrCameraCount    = errors.New("scene must contain exactly one camera")
	ErrAmbientCount   = errors.New("scene must contain at most one ambient light")
	ErrBadAspect      = errors.New("bad viewport aspect ratio")
	ErrUnknownTexture = errors.New("unknown texture id")
	ErrUnknownLibrary = errors.New("material not in library")
)

// ParseError reports the line a scene error was found on.
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %q: %v", e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Options tunes how a scene is built.
type Options struct {
	// Sample count handed to area lights; values below 1 mean 1.
	ShadowSamples int
	// Materials selectable with "u <name>".
	Library map[string]tracer.Material
}

// Scene is everything a raytra file declares.
type Scene struct {
	Surfaces    []tracer.Surface
	Meshes      []*tracer.Mesh
	Lights      []tracer.Light
	Camera      *tracer.Camera
	ImageWidth  int
	ImageHeight int
	Materials   int
}

// World wraps the surfaces into a single Surface, a BVH when useBVH is set.
func (s *Scene) World(a *tracer.Arena, useBVH bool) (tracer.Surface, error) {
	if !useBVH || len(s.Surfaces) == 0 {
		return a.NewSurfaceList(s.Surfaces...), nil
	}
	bvh, err := a.BuildBVH(s.Surfaces)
	if err != nil {
		return nil, fmt.Errorf("building BVH: %w", err)
	}
	return bvh, nil
}

// ParseFile parses the scene at path. Relative mesh and texture paths are
// resolved against the directory of the scene file.
func ParseFile(path string, opts Options, a *tracer.Arena) (*Scene, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	f, err := os.Open(abs)
	if err != nil {
		return nil, fmt.Errorf("opening scene: %w", err)
	}
	defer f.Close()

	return Parse(f, filepath.Dir(abs), opts, a)
}

type parser struct {
	a       *tracer.Arena
	opts    Options
	baseDir string

	scene    *Scene
	current  tracer.Material
	textures map[int]*tracer.ImageTexture
	cameras  int
	ambients int
}

// Parse reads a scene from r. baseDir anchors relative paths.
func Parse(r io.Reader, baseDir string, opts Options, a *tracer.Arena) (*Scene, error) {
	p := &parser{
		a:        a,
		opts:     opts,
		baseDir:  baseDir,
		scene:    &Scene{},
		textures: map[int]*tracer.ImageTexture{},
	}

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '/' {
			continue
		}
		if err := p.parseLine(line); err != nil {
			return nil, &ParseError{Line: lineNo, Text: line, Err: err}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading scene: %w", err)
	}

	if p.cameras != 1 {
		return nil, fmt.Errorf("%w: found %d", ErrCameraCount, p.cameras)
	}
	if p.ambients > 1 {
		return nil, fmt.Errorf("%w: found %d", ErrAmbientCount, p.ambients)
	}
	if len(p.scene.Surfaces) == 0 {
		logger.Warning("scene file does not contain any surfaces")
	}
	logger.Infof("read %d surface(s), %d material(s) and %d light(s)",
		len(p.scene.Surfaces), p.scene.Materials, len(p.scene.Lights))
	return p.scene, nil
}

func (p *parser) parseLine(line string) error {
	fields := strings.Fields(line)
	args := fields[1:]
	switch fields[0] {
	case "c":
		return p.camera(args)
	case "s":
		return p.sphere(args)
	case "t":
		return p.triangle(args)
	case "w":
		return p.mesh(args)
	case "m":
		return p.phong(args)
	case "d":
		return p.dielectric(args)
	case "i":
		return p.imageTexture(args)
	case "n":
		return p.texturedPhong(args)
	case "u":
		return p.library(args)
	case "l":
		return p.light(args)
	default:
		logger.Debugf("ignoring unknown command %q", fields[0])
		return nil
	}
}

func floats(args []string, n int) ([]float64, error) {
	if len(args) < n {
		return nil, fmt.Errorf("expected %d numbers, got %d", n, len(args))
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		v, err := strconv.ParseFloat(args[i], 64)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i+1, err)
		}
		out[i] = v
	}
	return out, nil
}

func vec(f []float64) pt.Vector {
	return pt.Vector{X: f[0], Y: f[1], Z: f[2]}
}

func col(f []float64) pt.Color {
	return tracer.C(f[0], f[1], f[2])
}

func (p *parser) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(p.baseDir, path)
}

func (p *parser) material() (tracer.Material, error) {
	if p.current == nil {
		return nil, ErrNoMaterial
	}
	return p.current, nil
}

func (p *parser) camera(args []string) error {
	f, err := floats(args, 11)
	if err != nil {
		return err
	}
	eye := vec(f[0:3])
	view := vec(f[3:6]).Normalize()
	focal, vw, vh, pw, ph := f[6], f[7], f[8], f[9], f[10]

	up := tracer.V(0, 1, 0)
	if view.Dot(up) > 1-tracer.Epsilon {
		up = tracer.V(0, 0, 1)
	}
	fovy := 2 * math.Atan2(vh/2, focal) * 180 / math.Pi

	aspect := vw / vh
	if math.IsNaN(aspect) || math.IsInf(aspect, 0) || aspect <= 0 {
		return fmt.Errorf("%w: %v", ErrBadAspect, aspect)
	}
	if aspect > 20000 {
		logger.Warningf("camera has very large viewport aspect ratio: %v", aspect)
	}
	if imageAspect := pw / ph; math.Abs(aspect-imageAspect) > tracer.Epsilon {
		logger.Warningf("viewport aspect %v differs from image aspect %v; "+
			"the output width follows the viewport", aspect, imageAspect)
	}

	p.scene.Camera = p.a.NewCamera(eye, eye.Add(view), up, fovy, aspect)
	p.scene.ImageWidth = int(pw)
	p.scene.ImageHeight = int(ph)
	p.cameras++
	return nil
}

func (p *parser) sphere(args []string) error {
	f, err := floats(args, 4)
	if err != nil {
		return err
	}
	m, err := p.material()
	if err != nil {
		return err
	}
	p.scene.Surfaces = append(p.scene.Surfaces, p.a.NewSphere(vec(f[0:3]), f[3], m))
	return nil
}

func (p *parser) triangle(args []string) error {
	f, err := floats(args, 9)
	if err != nil {
		return err
	}
	m, err := p.material()
	if err != nil {
		return err
	}
	p.scene.Surfaces = append(p.scene.Surfaces, p.a.NewTriangle(vec(f[0:3]), vec(f[3:6]), vec(f[6:9]), m))
	return nil
}

func (p *parser) mesh(args []string) error {
	if len(args) < 1 {
		return errors.New("expected a mesh path")
	}
	m, err := p.material()
	if err != nil {
		return err
	}
	mesh, err := p.a.LoadMesh(p.resolve(args[0]), m)
	if err != nil {
		return err
	}
	p.scene.Meshes = append(p.scene.Meshes, mesh)
	p.scene.Surfaces = append(p.scene.Surfaces, mesh.Faces()...)
	return nil
}

func (p *parser) newPhong(f []float64) *tracer.PhongMaterial {
	diffuse := col(f[0:3])
	ambient := tracer.C(math.Max(0.01, f[0]), math.Max(0.01, f[1]), math.Max(0.01, f[2]))
	return p.a.NewPhongMaterial(ambient, diffuse, col(f[3:6]), f[6], col(f[7:10]))
}

func (p *parser) phong(args []string) error {
	f, err := floats(args, 10)
	if err != nil {
		return err
	}
	p.current = p.newPhong(f)
	p.scene.Materials++
	return nil
}

func (p *parser) dielectric(args []string) error {
	f, err := floats(args, 4)
	if err != nil {
		return err
	}
	p.current = p.a.NewPhongDielectric(f[0], col(f[1:4]))
	p.scene.Materials++
	return nil
}

func (p *parser) imageTexture(args []string) error {
	if len(args) < 4 {
		return errors.New("expected id, flipx, flipy and path")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("texture id: %w", err)
	}
	flipX, err := strconv.ParseBool(args[1])
	if err != nil {
		return fmt.Errorf("flipx: %w", err)
	}
	flipY, err := strconv.ParseBool(args[2])
	if err != nil {
		return fmt.Errorf("flipy: %w", err)
	}
	p.textures[id] = p.a.NewImageTexture(p.resolve(args[3]), flipX, flipY)
	return nil
}

func (p *parser) texturedPhong(args []string) error {
	if len(args) < 1 {
		return errors.New("expected a texture id")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("texture id: %w", err)
	}
	f, err := floats(args[1:], 10)
	if err != nil {
		return err
	}
	tex, ok := p.textures[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownTexture, id)
	}
	m := p.newPhong(f)
	m.Diffuse = tex
	p.current = m
	p.scene.Materials++
	return nil
}

func (p *parser) library(args []string) error {
	if len(args) < 1 {
		return errors.New("expected a material name")
	}
	m, ok := p.opts.Library[args[0]]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownLibrary, args[0])
	}
	p.current = m
	return nil
}

func (p *parser) light(args []string) error {
	if len(args) < 1 {
		return errors.New("expected a light type")
	}
	switch args[0] {
	case "p":
		f, err := floats(args[1:], 6)
		if err != nil {
			return err
		}
		p.scene.Lights = append(p.scene.Lights, p.a.NewPointLight(vec(f[0:3]), col(f[3:6])))
	case "a":
		f, err := floats(args[1:], 3)
		if err != nil {
			return err
		}
		p.scene.Lights = append(p.scene.Lights, p.a.NewAmbientLight(col(f)))
		p.ambients++
	case "s":
		f, err := floats(args[1:], 13)
		if err != nil {
			return err
		}
		l := p.a.NewAreaLight(vec(f[0:3]), vec(f[3:6]), vec(f[6:9]), col(f[10:13]), f[9])
		l.SetSamples(p.opts.ShadowSamples)
		p.scene.Lights = append(p.scene.Lights, l)
	default:
		logger.Warningf("ignoring unknown light type %q", args[0])
	}
	return nil
}
