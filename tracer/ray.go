package tracer

import (
	"math"

	"github.com/fogleman/pt/pt"
)

// FaceUV carries the surface parameterization at a hit.
type FaceUV struct {
	// Mesh face index, or -1 for analytic surfaces
	FaceID int
	// Barycentric weights (β, γ) of the second and third face vertex
	UV UV
	// Texture coordinates, NoUV when the surface has none
	GlobalUV UV
}

// HitRecord is the result of a successful ray-surface query.
type HitRecord struct {
	T         float64
	Point     pt.Vector
	Normal    pt.Vector
	FrontFace bool
	Surface   Surface
	FaceUV    FaceUV
}

// SetNormal orients the outward geometric normal against the ray and
// records which side was hit.
func (h *HitRecord) SetNormal(ray pt.Ray, outward pt.Vector) {
	h.FrontFace = ray.Direction.Dot(outward) < 0
	if h.FrontFace {
		h.Normal = outward
	} else {
		h.Normal = outward.Negate()
	}
}

// Material returns the material of the hit surface, or nil.
func (h *HitRecord) Material() Material {
	if h.Surface == nil {
		return nil
	}
	return h.Surface.Material()
}

// Reflect mirrors the ray direction about normal, starting at point.
func Reflect(in pt.Ray, point, normal pt.Vector) pt.Ray {
	d := in.Direction
	return pt.Ray{Origin: point, Direction: d.Sub(normal.MulScalar(2 * normal.Dot(d)))}
}

// Refract bends the ray through an interface between media with the given
// indices of refraction. normal must face the incoming ray.
func Refract(in pt.Ray, point, normal pt.Vector, iorIn, iorOut float64) pt.Ray {
	v := in.Direction.Normalize()
	cosTheta := math.Min(normal.Dot(v.Negate()), 1)
	perp := v.Add(normal.MulScalar(cosTheta)).MulScalar(iorIn / iorOut)
	parallel := normal.MulScalar(-math.Sqrt(math.Abs(1 - lengthSquared(perp))))
	return pt.Ray{Origin: point, Direction: perp.Add(parallel)}
}
