package tracer

import (
	"github.com/fogleman/pt/pt"
)

type Triangle struct {
	surfaceBase
	points [3]pt.Vector
	normal pt.Vector
}

// NewTriangle creates a triangle. Its front face is the one the
// counter-clockwise winding p0, p1, p2 faces.
func (a *Arena) NewTriangle(p0, p1, p2 pt.Vector, material Material) *Triangle {
	t := &Triangle{surfaceBase: newSurfaceBase(a.newNode("Triangle", ""), material)}
	t.SetPoints(p0, p1, p2)
	return t
}

func (t *Triangle) SetPoints(p0, p1, p2 pt.Vector) {
	t.points = [3]pt.Vector{p0, p1, p2}
	t.normal = faceNormal(p0, p1, p2)
	t.markDirty()
}

func (t *Triangle) Points() [3]pt.Vector {
	return t.points
}

// Normal returns the unit geometric normal, or the zero vector for a
// degenerate triangle.
func (t *Triangle) Normal() pt.Vector {
	return t.normal
}

func (t *Triangle) BoundingBox() AABB {
	return t.cachedBox(t.RecomputeBoundingBox)
}

func (t *Triangle) RecomputeBoundingBox() AABB {
	b := EmptyAABB()
	for _, p := range t.points {
		b.ExpandBy(p)
	}
	return b
}

func (t *Triangle) Hit(ray pt.Ray, tmin, tmax float64, rec *HitRecord) bool {
	hitT, uv, ok := rayTriangleHit(t.points[0], t.points[1], t.points[2], ray, tmin, tmax)
	if !ok {
		return false
	}
	rec.T = hitT
	rec.Point = ray.Position(hitT)
	rec.SetNormal(ray, t.normal)
	rec.Surface = t
	rec.FaceUV = FaceUV{FaceID: -1, UV: uv, GlobalUV: NoUV}
	return true
}

func faceNormal(p0, p1, p2 pt.Vector) pt.Vector {
	n := p1.Sub(p0).Cross(p2.Sub(p0))
	if lengthSquared(n) < Epsilon2 {
		return pt.Vector{}
	}
	return n.Normalize()
}

// rayTriangleHit is the Möller–Trumbore test. uv holds the barycentric
// weights of p1 and p2; the weight of p0 is 1-u-v.
func rayTriangleHit(p0, p1, p2 pt.Vector, ray pt.Ray, tmin, tmax float64) (float64, UV, bool) {
	e1 := p1.Sub(p0)
	e2 := p2.Sub(p0)
	pvec := ray.Direction.Cross(e2)
	det := e1.Dot(pvec)
	if det > -Epsilon && det < Epsilon {
		return 0, NoUV, false
	}
	inv := 1 / det
	tvec := ray.Origin.Sub(p0)
	u := tvec.Dot(pvec) * inv
	if u < 0 || u > 1 {
		return 0, NoUV, false
	}
	qvec := tvec.Cross(e1)
	v := ray.Direction.Dot(qvec) * inv
	if v < 0 || u+v > 1 {
		return 0, NoUV, false
	}
	t := e2.Dot(qvec) * inv
	if t < tmin || t > tmax {
		return 0, NoUV, false
	}
	return t, UV{U: u, V: v}, true
}
