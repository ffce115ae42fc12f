package tracer

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdginn/go-raytracer/log"
)

type testScene struct {
	world  Surface
	lights []Light
	camera *Camera
}

func newTestScene(t *testing.T) testScene {
	t.Helper()
	a := NewArena()
	glass := a.NewPhongDielectric(1.5, C(0.95, 0.95, 1))
	mirror := a.NewPhongMaterial(C(0.01, 0.01, 0.01), C(0.1, 0.1, 0.1), C(0.5, 0.5, 0.5), 50, C(0.6, 0.6, 0.6))
	surfaces := []Surface{
		a.NewSphere(V(0, 0, -5), 1, diffuseMaterial(a, 0.8)),
		a.NewSphere(V(2, 0, -6), 1, glass),
		a.NewSphere(V(-2, 0, -6), 1, mirror),
		a.NewTriangle(V(-20, -1, 10), V(20, -1, 10), V(0, -1, -30), diffuseMaterial(a, 0.5)),
	}
	world, err := a.BuildBVH(surfaces)
	require.NoError(t, err)

	area := a.NewAreaLight(V(0, 8, -5), V(0, -1, 0), V(1, 0, 0), C(20, 20, 20), 2)
	area.SetSamples(4)
	return testScene{
		world: world,
		lights: []Light{
			a.NewAmbientLight(C(0.1, 0.1, 0.1)),
			a.NewPointLight(V(5, 5, 0), C(40, 40, 40)),
			area,
		},
		camera: a.NewCamera(V(0, 1, 2), V(0, 0, -5), V(0, 1, 0), 50, 1.5),
	}
}

func TestRenderErrors(t *testing.T) {
	s := newTestScene(t)
	ctx := context.Background()

	_, err := NewRayTracer(10).Render(ctx, nil, s.lights, s.camera)
	assert.True(t, errors.Is(err, ErrNilScene))

	_, err = NewRayTracer(10).Render(ctx, s.world, s.lights, nil)
	assert.True(t, errors.Is(err, ErrNilCamera))

	_, err = NewRayTracer(0).Render(ctx, s.world, s.lights, s.camera)
	assert.True(t, errors.Is(err, ErrInvalidDimensions))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = NewRayTracer(10).Render(cancelled, s.world, s.lights, s.camera)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestDimensions(t *testing.T) {
	a := NewArena()
	tests := []struct {
		aspect        float64
		height, width int
	}{
		{1, 100, 100},
		{1.5, 20, 30},
		{16.0 / 9.0, 1080, 1920},
		{0.5, 11, 6},
	}
	for _, tt := range tests {
		w, h := NewRayTracer(tt.height).Dimensions(a.NewCamera(V(0, 0, 0), V(0, 0, -1), V(0, 1, 0), 60, tt.aspect))
		assert.Equal(t, tt.width, w)
		assert.Equal(t, tt.height, h)
	}
}

func TestRenderIndependentOfWorkers(t *testing.T) {
	s := newTestScene(t)

	render := func(workers int) (*Image, *RenderStats) {
		rt := NewRayTracer(16)
		rt.SamplesPerPixel = 3
		rt.Workers = workers
		rt.Seed = 99
		img, err := rt.Render(context.Background(), s.world, s.lights, s.camera)
		require.NoError(t, err)
		return img, rt.Stats()
	}

	want, wantStats := render(1)
	assert.Equal(t, 24, want.Width)
	assert.Equal(t, 16, want.Height)
	for _, workers := range []int{2, 4, 7} {
		got, stats := render(workers)
		assert.Equal(t, want.Pix, got.Pix, "workers %d", workers)
		assert.Equal(t, wantStats.Rays(), stats.Rays(), "workers %d", workers)
	}

	// A different seed changes the jitter
	rt := NewRayTracer(16)
	rt.SamplesPerPixel = 3
	rt.Seed = 100
	other, err := rt.Render(context.Background(), s.world, s.lights, s.camera)
	require.NoError(t, err)
	assert.NotEqual(t, want.Pix, other.Pix)
}

func TestRenderStatsAndProgress(t *testing.T) {
	assert := assert.New(t)
	s := newTestScene(t)

	var calls atomic.Int64
	rt := NewRayTracer(12)
	rt.Workers = 3
	rt.Progress = func(done, total int) {
		calls.Add(1)
		assert.Equal(12, total)
		assert.LessOrEqual(done, total)
	}
	img, err := rt.Render(context.Background(), s.world, s.lights, s.camera)
	require.NoError(t, err)

	assert.Equal(int64(12), calls.Load())
	stats := rt.Stats()
	require.NotNil(t, stats)
	assert.Equal(img.Width, stats.Width)
	assert.Equal(12, stats.Height)
	assert.Equal(1, stats.SamplesPerPixel)
	assert.Equal(DefaultMaxDepth, stats.MaxDepth)
	assert.Equal(3, stats.Workers)
	assert.Len(stats.RowTimes, 12)
	// At least one camera ray per pixel
	assert.GreaterOrEqual(stats.Rays(), uint64(img.Width*img.Height))
	assert.Greater(stats.LuminanceMean, 0.0)
}

func TestRenderLeavesProgressToCallback(t *testing.T) {
	var buf bytes.Buffer
	log.SetSink(&buf)
	log.SetLevel(log.Debug)
	defer func() {
		log.SetSink(os.Stderr)
		log.SetLevel(log.Notice)
	}()

	s := newTestScene(t)
	var reported []int
	rt := NewRayTracer(20)
	rt.Workers = 1
	rt.Progress = func(done, total int) {
		reported = append(reported, done)
	}
	_, err := rt.Render(context.Background(), s.world, s.lights, s.camera)
	require.NoError(t, err)

	assert.Len(t, reported, 20)
	out := buf.String()
	assert.Contains(t, out, "Rendering")
	assert.False(t, strings.Contains(out, "rendered"), "progress is logged by the caller:\n%s", out)
}

func TestRenderRowOrientation(t *testing.T) {
	a := NewArena()
	// Lit sphere in the upper half of the view only
	world := a.NewSurfaceList(a.NewSphere(V(0, 1.5, -5), 1, diffuseMaterial(a, 1)))
	lights := []Light{a.NewAmbientLight(C(1, 1, 1))}
	camera := a.NewCamera(V(0, 0, 0), V(0, 0, -1), V(0, 1, 0), 60, 1)

	img, err := NewRayTracer(20).Render(context.Background(), world, lights, camera)
	require.NoError(t, err)
	assert.NotEqual(t, C(0, 0, 0), img.At(10, 3), "top of the image")
	assert.Equal(t, C(0, 0, 0), img.At(10, 17), "bottom of the image")
}
