//go:build verify_scatter
// +build verify_scatter

package tracer

import (
	"fmt"
	"math"

	"github.com/fogleman/pt/pt"
)

const (
	angleEpsilon = 1e-7
	sineEpsilon  = 1e-6
)

func init() {
	logger.Notice("Scatter verification enabled.")
}

// verifyReflectionLaw panics unless the angle of incidence equals the angle
// of reflection.
func verifyReflectionLaw(incident pt.Ray, normal pt.Vector, reflected pt.Ray) {
	in := incident.Direction.Normalize().Negate()
	out := reflected.Direction.Normalize()
	incidentAngle := math.Acos(math.Max(-1, math.Min(1, in.Dot(normal))))
	reflectedAngle := math.Acos(math.Max(-1, math.Min(1, out.Dot(normal))))
	if math.Abs(incidentAngle-reflectedAngle) > angleEpsilon {
		panic(fmt.Sprintf("angle of incidence %v does not equal angle of reflection %v", incidentAngle, reflectedAngle))
	}
}

// verifySnellLaw panics unless n1·sinθ1 = n2·sinθ2.
func verifySnellLaw(incident pt.Ray, normal pt.Vector, refracted pt.Ray, iorIn, iorOut float64) {
	sin := func(d pt.Vector) float64 {
		c := math.Abs(d.Normalize().Dot(normal))
		return math.Sqrt(math.Max(0, 1-c*c))
	}
	lhs := iorIn * sin(incident.Direction)
	rhs := iorOut * sin(refracted.Direction)
	if math.Abs(lhs-rhs) > sineEpsilon {
		panic(fmt.Sprintf("refraction breaks Snell's law: %v != %v", lhs, rhs))
	}
}
