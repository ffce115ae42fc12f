package tracer

import (
	"math"

	"github.com/fogleman/pt/pt"
)

const (
	DefaultFovy   = 60.0
	DefaultAspect = 1.77778
)

// Camera is a pinhole look-at camera.
type Camera struct {
	node
	eye    pt.Vector
	target pt.Vector
	up     pt.Vector
	// vertical field of view in degrees
	fovy   float64
	aspect float64

	cop        pt.Vector
	lowerLeft  pt.Vector
	horizontal pt.Vector
	vertical   pt.Vector
}

func (a *Arena) NewCamera(eye, target, up pt.Vector, fovy, aspect float64) *Camera {
	c := &Camera{node: a.newNode("Camera", ""), fovy: fovy, aspect: aspect}
	c.LookAt(eye, target, up)
	return c
}

// LookAt points the camera and rebuilds the viewport.
func (c *Camera) LookAt(eye, target, up pt.Vector) {
	c.eye = eye
	c.target = target
	c.up = up
	c.UpdateViewport()
}

func (c *Camera) SetFovy(fovy float64) {
	c.fovy = fovy
	c.UpdateViewport()
}

func (c *Camera) SetAspect(aspect float64) {
	c.aspect = aspect
	c.UpdateViewport()
}

func (c *Camera) Eye() pt.Vector {
	return c.eye
}

func (c *Camera) Target() pt.Vector {
	return c.target
}

func (c *Camera) Up() pt.Vector {
	return c.up
}

func (c *Camera) Fovy() float64 {
	return c.fovy
}

func (c *Camera) AspectRatio() float64 {
	return c.aspect
}

// UpdateViewport derives the image plane one unit in front of the eye.
func (c *Camera) UpdateViewport() {
	h := math.Tan(c.fovy * math.Pi / 180 / 2)
	height := 2 * h
	width := c.aspect * height

	w := c.eye.Sub(c.target).Normalize()
	up := c.up
	if lengthSquared(up.Cross(w)) < Epsilon2 {
		up = alternateUp(w)
	}
	u := up.Cross(w).Normalize()
	v := w.Cross(u)

	c.cop = c.eye
	c.horizontal = u.MulScalar(width)
	c.vertical = v.MulScalar(height)
	c.lowerLeft = c.cop.
		Sub(c.horizontal.MulScalar(0.5)).
		Sub(c.vertical.MulScalar(0.5)).
		Sub(w)
}

// alternateUp picks an up vector for a view direction parallel to the
// requested one.
func alternateUp(w pt.Vector) pt.Vector {
	if lengthSquared(V(0, 0, 1).Cross(w)) >= Epsilon2 {
		return V(0, 0, 1)
	}
	return perpendicular(w)
}

// GetRay returns the ray through viewport coordinates s, t in [0, 1],
// measured from the lower-left corner. The direction is not normalized.
func (c *Camera) GetRay(s, t float64) pt.Ray {
	target := c.lowerLeft.Add(c.horizontal.MulScalar(s)).Add(c.vertical.MulScalar(t))
	return pt.Ray{Origin: c.cop, Direction: target.Sub(c.cop)}
}
