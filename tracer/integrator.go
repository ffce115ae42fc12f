package tracer

import (
	"math/rand"

	"github.com/fogleman/pt/pt"
)

// RayColor returns the radiance arriving along ray. The boolean is false
// when the ray was not traced (depth exhausted) or left the scene; there is
// no background, so such rays are black.
//
// Dielectric hits recurse into the reflected and refracted rays. Opaque
// hits sum every light and, when the material has a mirror color and the
// hit is front facing, recurse into the mirror direction.
func (rt *RayTracer) RayColor(ray pt.Ray, scene Surface, lights []Light, depth, maxDepth int, rng *rand.Rand) (pt.Color, bool) {
	var black pt.Color
	if depth >= maxDepth {
		return black, false
	}
	rt.stats.addRay()

	var rec HitRecord
	if !scene.Hit(ray, Epsilon, Infinity, &rec) {
		return black, false
	}
	if rec.Surface == nil {
		return black, false
	}
	material := rec.Surface.Material()
	if material == nil {
		rt.missingMaterial.Do(func() {
			logger.Errorf("RayColor: surface %s has no material -- returning black.", rec.Surface.Name())
		})
		return black, true
	}

	var color pt.Color
	switch m := material.(type) {
	case *PhongDielectric:
		s := m.Scatter(&rec, ray)
		if s.Refract != nil {
			if c, ok := rt.RayColor(*s.Refract, scene, lights, depth+1, maxDepth, rng); ok {
				color = color.Add(s.Attenuation.Mul(c.MulScalar(1 - s.Reflectance)))
			}
		}
		if c, ok := rt.RayColor(s.Reflect, scene, lights, depth+1, maxDepth, rng); ok {
			color = color.Add(s.Attenuation.Mul(c.MulScalar(s.Reflectance)))
		}
	case *PhongMaterial:
		view := ray.Direction.Normalize().Negate()
		for _, l := range lights {
			color = color.Add(l.Illuminate(&rec, view, scene, rng))
		}
		if !isZeroColor(m.Mirror) && rec.FrontFace {
			mirror := Reflect(ray, rec.Point, rec.Normal)
			if c, ok := rt.RayColor(mirror, scene, lights, depth+1, maxDepth, rng); ok {
				color = color.Add(m.Mirror.Mul(c))
			}
		}
	}
	return color, true
}
