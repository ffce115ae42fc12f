package tracer

import (
	"math"

	"github.com/fogleman/pt/pt"
)

const (
	// Epsilon is the smallest ray parameter accepted as a hit. It keeps
	// secondary rays from re-hitting the surface they start on.
	Epsilon = 1e-8
	// Epsilon2 clamps squared distances away from zero.
	Epsilon2 = 1e-14
	// Infinity is the open upper bound of a primary ray.
	Infinity = math.MaxFloat64
)

// V is a shorthand constructor for pt.Vector
func V(X, Y, Z float64) pt.Vector {
	return pt.Vector{X: X, Y: Y, Z: Z}
}

// C is a shorthand constructor for pt.Color
func C(R, G, B float64) pt.Color {
	return pt.Color{R: R, G: G, B: B}
}

// UV is a 2D surface parameterization.
type UV struct {
	U, V float64
}

// NoUV marks a surface point without a parameterization.
var NoUV = UV{-1, -1}

func lengthSquared(v pt.Vector) float64 {
	return v.Dot(v)
}

// axis returns the i'th component of v (0=X, 1=Y, 2=Z).
func axis(v pt.Vector, i int) float64 {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

func setAxis(v *pt.Vector, i int, value float64) {
	switch i {
	case 0:
		v.X = value
	case 1:
		v.Y = value
	default:
		v.Z = value
	}
}

func isZeroColor(c pt.Color) bool {
	return c.R == 0 && c.G == 0 && c.B == 0
}

func isZeroVector(v pt.Vector) bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

// perpendicular returns a unit vector orthogonal to a.
func perpendicular(a pt.Vector) pt.Vector {
	if a.X == 0 && a.Y == 0 {
		if a.Z == 0 {
			return pt.Vector{}
		}
		return V(0, 1, 0)
	}
	return V(-a.Y, a.X, 0).Normalize()
}
