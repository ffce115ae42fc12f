package tracer

import (
	"math"

	"github.com/fogleman/pt/pt"
)

// AABB is an axis-aligned bounding box. The zero value is a degenerate box
// at the origin; use EmptyAABB for a box that contains nothing.
type AABB struct {
	Min pt.Vector
	Max pt.Vector
}

// NewAABB creates a box from its corners.
func NewAABB(min, max pt.Vector) AABB {
	return AABB{Min: min, Max: max}
}

// EmptyAABB returns an invalid box that any expansion will replace.
func EmptyAABB() AABB {
	var b AABB
	b.Reset()
	return b
}

// Reset sets the box to the invalid sentinel state.
func (b *AABB) Reset() {
	inf := math.Inf(1)
	b.Min = V(inf, inf, inf)
	b.Max = V(-inf, -inf, -inf)
}

// IsValid reports whether no axis still holds the sentinel value.
func (b AABB) IsValid() bool {
	for i := 0; i < 3; i++ {
		if math.IsInf(axis(b.Min, i), 1) || math.IsInf(axis(b.Max, i), -1) {
			return false
		}
	}
	return true
}

// ExpandBy grows the box to contain p.
func (b *AABB) ExpandBy(p pt.Vector) {
	b.Min = V(math.Min(b.Min.X, p.X), math.Min(b.Min.Y, p.Y), math.Min(b.Min.Z, p.Z))
	b.Max = V(math.Max(b.Max.X, p.X), math.Max(b.Max.Y, p.Y), math.Max(b.Max.Z, p.Z))
}

// ExpandByBox grows the box to contain other. Invalid boxes are ignored.
func (b *AABB) ExpandByBox(other AABB) {
	if !other.IsValid() {
		return
	}
	b.ExpandBy(other.Min)
	b.ExpandBy(other.Max)
}

// Union returns a box containing both b and other.
func (b AABB) Union(other AABB) AABB {
	out := b
	out.ExpandByBox(other)
	return out
}

// IntersectWith returns the overlap of two boxes, or an empty box when
// either box is invalid or they are disjoint on some axis.
func (b AABB) IntersectWith(other AABB) AABB {
	out := EmptyAABB()
	if !b.IsValid() || !other.IsValid() {
		return out
	}
	for i := 0; i < 3; i++ {
		if axis(b.Max, i) < axis(other.Min, i) || axis(b.Min, i) > axis(other.Max, i) {
			return out
		}
	}
	out.Min = b.Min.Max(other.Min)
	out.Max = b.Max.Min(other.Max)
	return out
}

// IsPointInside reports whether p lies within the box, bounds included.
func (b AABB) IsPointInside(p pt.Vector) bool {
	return p.X >= b.Min.X && p.Y >= b.Min.Y && p.Z >= b.Min.Z &&
		p.X <= b.Max.X && p.Y <= b.Max.Y && p.Z <= b.Max.Z
}

// Hit tests the ray against the box with the slab method over [tmin, tmax].
func (b AABB) Hit(ray pt.Ray, tmin, tmax float64) bool {
	if !b.IsValid() {
		return false
	}
	for i := 0; i < 3; i++ {
		invDir := 1.0 / axis(ray.Direction, i)
		origin := axis(ray.Origin, i)
		t0 := (axis(b.Min, i) - origin) * invDir
		t1 := (axis(b.Max, i) - origin) * invDir
		if invDir < 0 {
			t0, t1 = t1, t0
		}
		// NaN (a zero direction component on a slab boundary) leaves the
		// interval untouched.
		if t0 > tmin {
			tmin = t0
		}
		if t1 < tmax {
			tmax = t1
		}
		if tmax < tmin {
			return false
		}
	}
	return true
}

// Transform returns the axis-aligned box around all 8 corners of b after
// applying m. Rotations can change which corners are extreme, so every
// corner is visited.
func (b AABB) Transform(m pt.Matrix) AABB {
	out := EmptyAABB()
	if !b.IsValid() {
		return out
	}
	for i := 0; i < 8; i++ {
		corner := b.Min
		if i&1 != 0 {
			corner.X = b.Max.X
		}
		if i&2 != 0 {
			corner.Y = b.Max.Y
		}
		if i&4 != 0 {
			corner.Z = b.Max.Z
		}
		out.ExpandBy(m.MulPosition(corner))
	}
	return out
}

// Center returns the middle of the box.
func (b AABB) Center() pt.Vector {
	return b.Min.Add(b.Max).MulScalar(0.5)
}

// Midpoint returns the middle of the box along one axis.
func (b AABB) Midpoint(i int) float64 {
	lo := axis(b.Min, i)
	return lo + (axis(b.Max, i)-lo)/2
}

// Size returns the extent of the box along each axis.
func (b AABB) Size() pt.Vector {
	return b.Max.Sub(b.Min)
}
