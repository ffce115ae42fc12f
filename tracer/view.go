package tracer

import (
	"image"
	"math"

	"github.com/fogleman/gg"
	"github.com/fogleman/pt/pt"
)

// Point2D is a point on a View's drawing plane.
type Point2D struct {
	X, Y float64
}

func (p Point2D) Translate(x, y float64) Point2D {
	return Point2D{p.X + x, p.Y + y}
}

func (p Point2D) Scale(s float64) Point2D {
	return Point2D{p.X * s, p.Y * s}
}

// View draws an orthographic projection of a BVH along one axis. It is a
// debugging aid for checking how the hierarchy partitions a scene.
type View struct {
	BVH    *BVH
	Lights []Light
	XSize  int
	YSize  int
	// Axis dropped by the projection: 0=X, 1=Y, 2=Z
	Axis int
	// Draw node boxes down to this depth; zero draws only primitives
	MaxDepth int

	// These cache the values needed to scale and translate from the scene to the requested image size
	scale      float64
	xTranslate float64
	yTranslate float64
}

func (view *View) project(v pt.Vector) Point2D {
	switch view.Axis {
	case 0:
		return Point2D{v.Y, v.Z}
	case 1:
		return Point2D{v.X, v.Z}
	default:
		return Point2D{v.X, v.Y}
	}
}

func (view *View) computeScaleAndTranslation() {
	box := view.BVH.BoundingBox()
	lo := view.project(box.Min)
	hi := view.project(box.Max)
	for _, l := range view.Lights {
		if p, ok := l.(*PointLight); ok {
			q := view.project(p.Position)
			lo = Point2D{math.Min(lo.X, q.X), math.Min(lo.Y, q.Y)}
			hi = Point2D{math.Max(hi.X, q.X), math.Max(hi.Y, q.Y)}
		}
	}
	view.xTranslate = -lo.X
	view.yTranslate = -lo.Y
	XScale := float64(view.XSize) / math.Max(hi.X-lo.X, Epsilon)
	YScale := float64(view.YSize) / math.Max(hi.Y-lo.Y, Epsilon)
	view.scale = math.Min(XScale, YScale)
}

func (view *View) translateAndScale(p Point2D) Point2D {
	if view.scale == 0 {
		view.computeScaleAndTranslation()
	}
	p = p.Translate(view.xTranslate, view.yTranslate).Scale(view.scale)
	// image y grows downwards
	return Point2D{p.X, float64(view.YSize) - p.Y}
}

func (view *View) drawBox(c *gg.Context, b AABB) {
	p1 := view.translateAndScale(view.project(b.Min))
	p2 := view.translateAndScale(view.project(b.Max))
	c.DrawRectangle(math.Min(p1.X, p2.X), math.Min(p1.Y, p2.Y), math.Abs(p2.X-p1.X), math.Abs(p2.Y-p1.Y))
	c.Stroke()
}

// Plot renders the projection.
func (view *View) Plot() image.Image {
	c := gg.NewContext(view.XSize, view.YSize)
	c.SetRGB(1, 1, 1)
	c.Clear()

	c.SetLineWidth(1)
	c.SetRGB(0.6, 0.6, 0.6)
	for _, s := range view.BVH.Primitives() {
		view.drawBox(c, s.BoundingBox())
	}

	var walk func(i, depth int)
	walk = func(i, depth int) {
		if depth > view.MaxDepth {
			return
		}
		n := view.BVH.nodes[i]
		c.SetRGB(0.2, 0.4, 0.8)
		view.drawBox(c, n.box)
		for _, r := range [2]bvhRef{n.left, n.right} {
			if r.kind == refNode {
				walk(r.index, depth+1)
			}
		}
	}
	walk(view.BVH.root, 1)

	c.SetRGB(0.9, 0.7, 0)
	for _, l := range view.Lights {
		if p, ok := l.(*PointLight); ok {
			q := view.translateAndScale(view.project(p.Position))
			c.DrawCircle(q.X, q.Y, 4)
			c.Fill()
		}
	}
	return c.Image()
}
