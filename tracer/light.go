package tracer

import (
	"math"
	"math/rand"

	"github.com/fogleman/pt/pt"
)

// Light contributes radiance at a hit point. Implementations are
// *AmbientLight, *PointLight and *AreaLight.
//
// view points from the hit back towards the viewer. scene is queried for
// shadow rays. rng drives any sampling the light does and must not be
// shared between goroutines.
type Light interface {
	Illuminate(hit *HitRecord, view pt.Vector, scene Surface, rng *rand.Rand) pt.Color
	ID() NodeID
	Name() string

	light()
}

func phongOf(hit *HitRecord) *PhongMaterial {
	m := hit.Material()
	if m == nil {
		return nil
	}
	return m.Phong()
}

// occluded reports whether anything in scene lies strictly between from and
// to.
func occluded(scene Surface, from, to pt.Vector) bool {
	var rec HitRecord
	shadow := pt.Ray{Origin: from, Direction: to.Sub(from)}
	return scene.Hit(shadow, Epsilon, 1, &rec)
}

type AmbientLight struct {
	node
	Ambient pt.Color
}

func (a *Arena) NewAmbientLight(ambient pt.Color) *AmbientLight {
	return &AmbientLight{node: a.newNode("AmbientLight", ""), Ambient: ambient}
}

func (l *AmbientLight) light() {}

// Illuminate returns Ambient⊙material ambient. It is never shadowed.
func (l *AmbientLight) Illuminate(hit *HitRecord, _ pt.Vector, _ Surface, _ *rand.Rand) pt.Color {
	p := phongOf(hit)
	if p == nil {
		return pt.Color{}
	}
	return l.Ambient.Mul(p.Ambient)
}

type PointLight struct {
	node
	Position  pt.Vector
	Intensity pt.Color
}

func (a *Arena) NewPointLight(position pt.Vector, intensity pt.Color) *PointLight {
	return &PointLight{node: a.newNode("PointLight", ""), Position: position, Intensity: intensity}
}

func (l *PointLight) light() {}

// Illuminate casts one shadow ray; an occluded light contributes nothing.
func (l *PointLight) Illuminate(hit *HitRecord, view pt.Vector, scene Surface, _ *rand.Rand) pt.Color {
	if occluded(scene, hit.Point, l.Position) {
		return pt.Color{}
	}
	p := phongOf(hit)
	if p == nil {
		return pt.Color{}
	}

	lightVec := l.Position.Sub(hit.Point)
	distance2 := lengthSquared(lightVec)
	lightVec = lightVec.Normalize()
	cos := hit.Normal.Dot(lightVec)
	if cos <= 0 {
		return pt.Color{}
	}
	irradiance := l.Intensity.MulScalar(cos / math.Max(Epsilon2, distance2))
	return irradiance.Mul(p.Evaluate(hit, lightVec, view))
}

// AreaLight is a square emitter of side Length centered on Center and
// facing Direction. U is one edge direction; the other is U×Direction.
// Both U and Direction are expected to be unit length.
//
// Shadows are estimated with one jittered sample per cell of an s×s grid,
// s = ⌊√samples⌋. The sum is divided by the requested sample count rather
// than s², so a non-square count darkens the light slightly.
type AreaLight struct {
	node
	Center    pt.Vector
	Direction pt.Vector
	U         pt.Vector
	Radiance  pt.Color
	Length    float64

	v       pt.Vector
	samples int
	strata  int
	origins []pt.Vector
}

func (a *Arena) NewAreaLight(center, direction, u pt.Vector, radiance pt.Color, length float64) *AreaLight {
	l := &AreaLight{
		node:      a.newNode("AreaLight", ""),
		Center:    center,
		Direction: direction,
		U:         u,
		Radiance:  radiance,
		Length:    length,
	}
	l.SetSamples(1)
	return l
}

func (l *AreaLight) light() {}

// V returns the second edge direction, U×Direction.
func (l *AreaLight) V() pt.Vector {
	return l.v
}

func (l *AreaLight) Samples() int {
	return l.samples
}

// Strata returns the side of the stratification grid.
func (l *AreaLight) Strata() int {
	return l.strata
}

// SetSamples sets the requested shadow sample count and rebuilds the grid.
// It must be called again after changing the geometry fields.
func (l *AreaLight) SetSamples(samples int) {
	if samples < 1 {
		samples = 1
	}
	l.samples = samples
	l.strata = int(math.Floor(math.Sqrt(float64(samples))))
	l.v = l.U.Cross(l.Direction)

	s := float64(l.strata)
	corner := l.Center.Sub(l.U.MulScalar(0.5 * l.Length)).Sub(l.v.MulScalar(0.5 * l.Length))
	l.origins = make([]pt.Vector, 0, l.strata*l.strata)
	for i := 0; i < l.strata; i++ {
		for j := 0; j < l.strata; j++ {
			l.origins = append(l.origins, corner.
				Add(l.U.MulScalar(l.Length*float64(j)/s)).
				Add(l.v.MulScalar(l.Length*float64(i)/s)))
		}
	}
}

// CellOrigins returns the corner of every stratum.
func (l *AreaLight) CellOrigins() []pt.Vector {
	return l.origins
}

func (l *AreaLight) Illuminate(hit *HitRecord, view pt.Vector, scene Surface, rng *rand.Rand) pt.Color {
	p := phongOf(hit)
	if p == nil {
		return pt.Color{}
	}

	var total pt.Color
	cell := l.Length / float64(l.strata)
	for _, origin := range l.origins {
		sample := origin.
			Add(l.U.MulScalar(cell * uniform(rng))).
			Add(l.v.MulScalar(cell * uniform(rng)))
		lightVec := sample.Sub(hit.Point)
		distance2 := lengthSquared(lightVec)
		lightVec = lightVec.Normalize()
		facing := -lightVec.Dot(l.Direction)
		cos := hit.Normal.Dot(lightVec)
		if facing <= 0 || cos <= 0 || occluded(scene, hit.Point, sample) {
			continue
		}
		irradiance := l.Radiance.MulScalar(facing * cos / math.Max(Epsilon2, distance2) * l.Length * l.Length)
		total = total.Add(irradiance.Mul(p.Evaluate(hit, lightVec, view)))
	}
	return total.DivScalar(float64(l.samples))
}

func uniform(rng *rand.Rand) float64 {
	if rng == nil {
		return rand.Float64()
	}
	return rng.Float64()
}
