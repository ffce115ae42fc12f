//go:build !verify_scatter
// +build !verify_scatter

package tracer

import "github.com/fogleman/pt/pt"

// Empty stubs that will be optimized out
func verifyReflectionLaw(incident pt.Ray, normal pt.Vector, reflected pt.Ray) {}

func verifySnellLaw(incident pt.Ray, normal pt.Vector, refracted pt.Ray, iorIn, iorOut float64) {}
