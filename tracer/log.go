package tracer

import "github.com/jdginn/go-raytracer/log"

var logger = log.New("tracer")
