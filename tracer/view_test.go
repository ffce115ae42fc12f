package tracer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewScale(t *testing.T) {
	assert := assert.New(t)
	a := NewArena()
	bvh, err := a.BuildBVH([]Surface{
		a.NewSphere(V(0, 0, 0), 1, nil),
		a.NewSphere(V(8, 0, 0), 1, nil),
	})
	require.NoError(t, err)

	view := View{
		BVH:    bvh,
		Lights: []Light{a.NewPointLight(V(0, 9, 0), C(1, 1, 1))},
		XSize:  100,
		YSize:  100,
		Axis:   2,
	}
	view.computeScaleAndTranslation()

	// x spans [-1, 9], y spans [-1, 9] once the light is included
	assert.InDelta(10, view.scale, 1e-12)
	assert.InDelta(1, view.xTranslate, 1e-12)
	assert.InDelta(1, view.yTranslate, 1e-12)

	p := view.translateAndScale(view.project(V(-1, -1, 5)))
	assert.InDelta(0, p.X, 1e-12)
	assert.InDelta(100, p.Y, 1e-12)
}

func TestViewProject(t *testing.T) {
	v := V(1, 2, 3)
	assert.Equal(t, Point2D{2, 3}, (&View{Axis: 0}).project(v))
	assert.Equal(t, Point2D{1, 3}, (&View{Axis: 1}).project(v))
	assert.Equal(t, Point2D{1, 2}, (&View{Axis: 2}).project(v))
}

func TestViewPlot(t *testing.T) {
	a := NewArena()
	bvh, err := a.BuildBVH([]Surface{
		a.NewSphere(V(0, 0, 0), 1, nil),
		a.NewSphere(V(4, 0, 0), 1, nil),
		a.NewSphere(V(8, 4, 0), 1, nil),
	})
	require.NoError(t, err)

	view := View{BVH: bvh, XSize: 64, YSize: 48, Axis: 2, MaxDepth: 2}
	img := view.Plot()
	assert.Equal(t, 64, img.Bounds().Dx())
	assert.Equal(t, 48, img.Bounds().Dy())
}
