package tracer

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fogleman/pt/pt"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultMaxDepth        = 5
	DefaultSamplesPerPixel = 1
)

var (
	ErrNilScene          = errors.New("scene is nil")
	ErrNilCamera         = errors.New("camera is nil")
	ErrInvalidDimensions = errors.New("invalid image dimensions")
)

// RayTracer renders a scene into an Image. Rows are rendered in parallel;
// each row draws from its own generator seeded with Seed and the row index,
// so the result does not depend on Workers.
//
// A RayTracer must not run two renders at once.
type RayTracer struct {
	ImageHeight int
	// Maximum recursion depth per camera ray
	MaxDepth        int
	SamplesPerPixel int
	// Worker goroutines; zero means one per CPU
	Workers int
	Seed    int64
	// Progress, if set, is called after every finished row. It may be
	// called from several goroutines.
	Progress func(done, total int)

	stats           *RenderStats
	missingMaterial sync.Once
}

// NewRayTracer returns a RayTracer with default depth and sampling.
func NewRayTracer(imageHeight int) *RayTracer {
	return &RayTracer{
		ImageHeight:     imageHeight,
		MaxDepth:        DefaultMaxDepth,
		SamplesPerPixel: DefaultSamplesPerPixel,
	}
}

func (rt *RayTracer) maxDepth() int {
	if rt.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return rt.MaxDepth
}

func (rt *RayTracer) samplesPerPixel() int {
	if rt.SamplesPerPixel <= 0 {
		return DefaultSamplesPerPixel
	}
	return rt.SamplesPerPixel
}

func (rt *RayTracer) workers() int {
	if rt.Workers <= 0 {
		return runtime.NumCPU()
	}
	return rt.Workers
}

// Stats returns the statistics of the last render, or nil.
func (rt *RayTracer) Stats() *RenderStats {
	return rt.stats
}

// Dimensions returns the image size a render with camera would produce.
// The width follows the camera aspect ratio.
func (rt *RayTracer) Dimensions(camera *Camera) (width, height int) {
	height = rt.ImageHeight
	width = int(camera.AspectRatio()*float64(height) + 0.5)
	return width, height
}

// Render traces every pixel of the image seen by camera.
func (rt *RayTracer) Render(ctx context.Context, scene Surface, lights []Light, camera *Camera) (*Image, error) {
	if scene == nil {
		return nil, ErrNilScene
	}
	if camera == nil {
		return nil, ErrNilCamera
	}
	width, height := rt.Dimensions(camera)
	if width <= 0 || height <= 0 {
		logger.Error("RayTracer: invalid image dimensions")
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}

	img := NewImage(width, height)
	stats := newRenderStats(width, height)
	stats.SamplesPerPixel = rt.samplesPerPixel()
	stats.MaxDepth = rt.maxDepth()
	stats.Workers = rt.workers()
	rt.stats = stats

	logger.Infof("Rendering %dx%d with %d sample(s) per pixel on %d worker(s)...",
		width, height, stats.SamplesPerPixel, stats.Workers)
	start := time.Now()

	var done atomic.Int64
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(stats.Workers)
	for y := 0; y < height; y++ {
		y := y
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rowStart := time.Now()
			rt.renderRow(img, y, scene, lights, camera)
			stats.RowTimes[y] = time.Since(rowStart)
			n := int(done.Add(1))
			rt.reportProgress(n, height)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("rendering: %w", err)
	}

	stats.finish(img, time.Since(start))
	logger.Infof("Total render time: %v", stats.Wall)
	return img, nil
}

func (rt *RayTracer) reportProgress(done, total int) {
	if rt.Progress != nil {
		rt.Progress(done, total)
	}
}

// renderRow fills image row height-1-y, so y counts up from the bottom of
// the viewport while the image is stored top-down.
func (rt *RayTracer) renderRow(img *Image, y int, scene Surface, lights []Light, camera *Camera) {
	rng := rand.New(rand.NewSource(rt.Seed + int64(y)))
	width, height := img.Width, img.Height
	xscale := 1 / float64(width)
	yscale := 1 / float64(height)
	spp := rt.samplesPerPixel()
	maxDepth := rt.maxDepth()

	for x := 0; x < width; x++ {
		var color pt.Color
		if spp == 1 {
			ray := camera.GetRay((float64(x)+0.5)*xscale, (float64(y)+0.5)*yscale)
			color, _ = rt.RayColor(ray, scene, lights, 0, maxDepth, rng)
		} else {
			for s := 0; s < spp; s++ {
				ray := camera.GetRay((float64(x)+rng.Float64())*xscale, (float64(y)+rng.Float64())*yscale)
				c, _ := rt.RayColor(ray, scene, lights, 0, maxDepth, rng)
				color = color.Add(c)
			}
			color = color.DivScalar(float64(spp))
		}
		img.Set(x, height-1-y, color)
	}
}
