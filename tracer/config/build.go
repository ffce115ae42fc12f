package config

import (
	"math"

	"github.com/fogleman/pt/pt"

	"github.com/jdginn/go-raytracer/tracer"
)

func color(c [3]float64) pt.Color {
	return tracer.C(c[0], c[1], c[2])
}

// Build creates the tracer material described by m. Without an explicit
// ambient color a Phong material uses its diffuse color, floored at 0.01.
func (m Material) Build(a *tracer.Arena, name string) tracer.Material {
	if m.Kind == KindDielectric {
		d := a.NewPhongDielectric(m.IOR, color(m.Attenuation))
		d.SetName(name)
		return d
	}
	ambient := tracer.C(
		math.Max(0.01, m.Diffuse[0]),
		math.Max(0.01, m.Diffuse[1]),
		math.Max(0.01, m.Diffuse[2]),
	)
	if m.Ambient != nil {
		ambient = color(*m.Ambient)
	}
	p := a.NewPhongMaterial(ambient, color(m.Diffuse), color(m.Specular), m.Shininess, color(m.Mirror))
	p.SetName(name)
	return p
}

// Library builds every inline material.
func (m *Materials) Library(a *tracer.Arena) map[string]tracer.Material {
	lib := make(map[string]tracer.Material, len(m.Inline))
	for name, material := range m.Inline {
		lib[name] = material.Build(a, name)
	}
	return lib
}
