package tracer

import (
	"math"

	"github.com/fogleman/pt/pt"
)

// Material decides how a surface responds to light. Implementations are
// *PhongMaterial and *PhongDielectric.
type Material interface {
	ID() NodeID
	Name() string
	// Phong returns the Phong parameters shared by every material.
	Phong() *PhongMaterial

	material()
}

// PhongMaterial is an opaque Blinn-Phong material with an optional perfect
// mirror component.
type PhongMaterial struct {
	node
	Ambient   pt.Color
	Specular  pt.Color
	Mirror    pt.Color
	Shininess float64
	Diffuse   Texture
}

func (a *Arena) NewPhongMaterial(ambient, diffuse, specular pt.Color, shininess float64, mirror pt.Color) *PhongMaterial {
	return &PhongMaterial{
		node:      a.newNode("PhongMaterial", ""),
		Ambient:   ambient,
		Specular:  specular,
		Mirror:    mirror,
		Shininess: shininess,
		Diffuse:   a.NewSolidTexture(diffuse),
	}
}

func (m *PhongMaterial) material() {}

func (m *PhongMaterial) Phong() *PhongMaterial {
	return m
}

// backFaceColor marks hits on the inside of opaque geometry.
var backFaceColor = C(1, 1, 0)

// Evaluate returns how much of the light arriving along lightVec is sent
// towards viewVec. Both vectors point away from the hit and are unit length.
func (m *PhongMaterial) Evaluate(hit *HitRecord, lightVec, viewVec pt.Vector) pt.Color {
	half := viewVec.Add(lightVec).Normalize()
	falloff := math.Pow(math.Max(0, half.Dot(hit.Normal)), m.Shininess)
	specular := m.Specular.MulScalar(falloff)

	var diffuse pt.Color
	if m.Diffuse != nil {
		diffuse = m.Diffuse.Value(hit.FaceUV.GlobalUV, hit.Point)
		if !hit.FrontFace {
			diffuse = backFaceColor
			specular = pt.Color{}
		}
	}
	return specular.Add(diffuse)
}

// PhongDielectric is a transparent material. The diffuse slot holds the
// attenuation applied to transmitted and reflected light.
type PhongDielectric struct {
	PhongMaterial
	IOR float64
}

func (a *Arena) NewPhongDielectric(ior float64, attenuation pt.Color) *PhongDielectric {
	return &PhongDielectric{
		PhongMaterial: PhongMaterial{
			node:    a.newNode("PhongDielectric", ""),
			Diffuse: a.NewSolidTexture(attenuation),
		},
		IOR: ior,
	}
}

func (d *PhongDielectric) Phong() *PhongMaterial {
	return &d.PhongMaterial
}

// Attenuation is the color stored in the diffuse slot.
func (d *PhongDielectric) Attenuation() pt.Color {
	if s, ok := d.Diffuse.(*SolidTexture); ok {
		return s.Value(NoUV, pt.Vector{})
	}
	return C(1, 1, 1)
}

// ScatterResult holds the secondary rays leaving a dielectric hit.
type ScatterResult struct {
	Attenuation pt.Color
	Reflect     pt.Ray
	// Refract is nil under total internal reflection.
	Refract                 *pt.Ray
	Reflectance             float64
	TotalInternalReflection bool
}

// Scatter splits an incoming ray into a reflected ray and, unless the ray
// is totally internally reflected, a refracted one.
func (d *PhongDielectric) Scatter(hit *HitRecord, in pt.Ray) ScatterResult {
	normal := hit.Normal
	v := in.Direction.Normalize().Negate()
	cosTheta := math.Min(v.Dot(normal), 1)
	sinTheta := math.Sqrt(math.Max(0, 1-cosTheta*cosTheta))

	iorIn, iorOut := 1.0, d.IOR
	if !hit.FrontFace {
		iorIn, iorOut = iorOut, iorIn
	}

	res := ScatterResult{
		Attenuation:             d.Attenuation(),
		TotalInternalReflection: sinTheta*iorIn/iorOut > 1,
	}
	if res.TotalInternalReflection {
		res.Reflectance = 1
	} else {
		res.Reflectance = SchlickReflectance(cosTheta, iorIn, iorOut)
	}

	res.Reflect = Reflect(in, hit.Point, normal)
	verifyReflectionLaw(in, normal, res.Reflect)
	if !res.TotalInternalReflection {
		r := Refract(in, hit.Point, normal, iorIn, iorOut)
		verifySnellLaw(in, normal, r, iorIn, iorOut)
		res.Refract = &r
	}
	return res
}

// SchlickReflectance approximates the Fresnel reflectance at an interface.
// The result is clamped to [0, 1].
func SchlickReflectance(cosTheta, iorIn, iorOut float64) float64 {
	r0 := (iorIn - iorOut) / (iorIn + iorOut)
	r0 *= r0
	c := math.Max(0, math.Min(1, cosTheta))
	r := r0 + (1-r0)*math.Pow(1-c, 5)
	return math.Max(0, math.Min(1, r))
}
