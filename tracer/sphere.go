package tracer

import (
	"math"

	"github.com/fogleman/pt/pt"
)

type Sphere struct {
	surfaceBase
	center pt.Vector
	radius float64
}

// NewSphere creates a sphere shaded with material, which may be nil.
func (a *Arena) NewSphere(center pt.Vector, radius float64, material Material) *Sphere {
	return &Sphere{
		surfaceBase: newSurfaceBase(a.newNode("Sphere", ""), material),
		center:      center,
		radius:      radius,
	}
}

func (s *Sphere) Center() pt.Vector {
	return s.center
}

func (s *Sphere) Radius() float64 {
	return s.radius
}

func (s *Sphere) SetCenter(center pt.Vector) {
	s.center = center
	s.markDirty()
}

func (s *Sphere) SetRadius(radius float64) {
	s.radius = radius
	s.markDirty()
}

func (s *Sphere) BoundingBox() AABB {
	return s.cachedBox(s.RecomputeBoundingBox)
}

func (s *Sphere) RecomputeBoundingBox() AABB {
	r := V(s.radius, s.radius, s.radius)
	b := EmptyAABB()
	b.ExpandByBox(NewAABB(s.center.Sub(r), s.center.Add(r)))
	return b
}

func (s *Sphere) Hit(ray pt.Ray, tmin, tmax float64, rec *HitRecord) bool {
	p0 := ray.Origin.Sub(s.center)
	v := ray.Direction
	a := lengthSquared(v)
	b := 2 * p0.Dot(v)
	c := lengthSquared(p0) - s.radius*s.radius

	a2 := 2 * a
	discriminant := b*b - 2*a2*c
	if discriminant < 0 {
		return false
	}
	sq := math.Sqrt(discriminant)
	t := (-b - sq) / a2
	if t < tmin {
		t = (-b + sq) / a2
	}
	if t < tmin || t > tmax {
		return false
	}

	point := ray.Position(t)
	rec.T = t
	rec.Point = point
	rec.SetNormal(ray, point.Sub(s.center).Normalize())
	rec.Surface = s
	rec.FaceUV = FaceUV{FaceID: -1, UV: NoUV, GlobalUV: s.uv(point)}
	return true
}

// uv maps a point on the sphere to (φ/2π, θ/π).
func (s *Sphere) uv(point pt.Vector) UV {
	d := point.Sub(s.center)
	phi := math.Atan2(d.Y, d.X)
	if phi < 0 {
		phi += 2 * math.Pi
	}
	theta := math.Acos(d.Z / d.Length())
	return UV{U: phi / (2 * math.Pi), V: theta / math.Pi}
}
