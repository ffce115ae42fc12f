package tracer

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fogleman/pt/pt"
)

// JSON schema types for scene annotations, readable by point/path/zone
// viewers.
type PointJSON struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Z     float64 `json:"z"`
	Size  float64 `json:"size,omitempty"`
	Name  string  `json:"name,omitempty"`
	Color string  `json:"color,omitempty"`
}

type PathJSON struct {
	Points    []PointJSON `json:"points"`
	Name      string      `json:"name,omitempty"`
	Color     string      `json:"color,omitempty"`
	Thickness float64     `json:"thickness,omitempty"`
}

type ZoneJSON struct {
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	Z            float64 `json:"z"`
	Radius       float64 `json:"radius"`
	Name         string  `json:"name,omitempty"`
	Color        string  `json:"color,omitempty"`
	Transparency float64 `json:"transparency,omitempty"`
}

type AnnotationsJSON struct {
	Points []PointJSON `json:"points,omitempty"`
	Paths  []PathJSON  `json:"paths,omitempty"`
	Zones  []ZoneJSON  `json:"zones,omitempty"`
}

const (
	lightColor  = "#FFD700"
	cameraColor = "#1E90FF"
	sphereColor = "#A0A0A0"
)

func VectorToJSON(v pt.Vector) PointJSON {
	return PointJSON{X: v.X, Y: v.Y, Z: v.Z, Size: 1.0}
}

func namedPoint(v pt.Vector, name, color string) PointJSON {
	p := VectorToJSON(v)
	p.Name = name
	p.Color = color
	return p
}

// CameraToJSON outlines the viewport and joins its corners to the eye.
func CameraToJSON(c *Camera) []PathJSON {
	ll := c.GetRay(0, 0)
	lr := c.GetRay(1, 0)
	ur := c.GetRay(1, 1)
	ul := c.GetRay(0, 1)
	corners := []pt.Vector{
		ll.Position(1), lr.Position(1), ur.Position(1), ul.Position(1),
	}
	eye := VectorToJSON(c.Eye())
	frame := PathJSON{Name: c.Name(), Color: cameraColor, Thickness: 1}
	for _, p := range append(corners, corners[0]) {
		frame.Points = append(frame.Points, VectorToJSON(p))
	}
	paths := []PathJSON{frame}
	for _, p := range corners {
		paths = append(paths, PathJSON{
			Points: []PointJSON{eye, VectorToJSON(p)},
			Color:  cameraColor,
		})
	}
	return paths
}

// LightToJSON places a marker at positioned lights. Area lights also get
// their outline. Ambient lights have no position and yield nothing.
func LightToJSON(l Light) ([]PointJSON, []PathJSON) {
	switch l := l.(type) {
	case *PointLight:
		return []PointJSON{namedPoint(l.Position, l.Name(), lightColor)}, nil
	case *AreaLight:
		half := l.Length / 2
		u, v := l.U.MulScalar(half), l.V().MulScalar(half)
		outline := PathJSON{Name: l.Name(), Color: lightColor, Thickness: 1}
		for _, p := range []pt.Vector{
			l.Center.Sub(u).Sub(v), l.Center.Add(u).Sub(v),
			l.Center.Add(u).Add(v), l.Center.Sub(u).Add(v),
			l.Center.Sub(u).Sub(v),
		} {
			outline.Points = append(outline.Points, VectorToJSON(p))
		}
		return []PointJSON{namedPoint(l.Center, l.Name(), lightColor)}, []PathJSON{outline}
	default:
		return nil, nil
	}
}

func SphereToJSON(s *Sphere) ZoneJSON {
	c := s.Center()
	return ZoneJSON{
		X:            c.X,
		Y:            c.Y,
		Z:            c.Z,
		Radius:       s.Radius(),
		Name:         s.Name(),
		Color:        sphereColor,
		Transparency: 0.5,
	}
}

// SaveSceneAnnotationsToJSON writes the camera, the lights and every sphere
// in surfaces to filename.
func SaveSceneAnnotationsToJSON(filename string, camera *Camera, lights []Light, surfaces []Surface) error {
	container := AnnotationsJSON{
		Points: make([]PointJSON, 0, len(lights)),
		Paths:  make([]PathJSON, 0),
		Zones:  make([]ZoneJSON, 0),
	}
	if camera != nil {
		container.Points = append(container.Points, namedPoint(camera.Eye(), camera.Name(), cameraColor))
		container.Paths = append(container.Paths, CameraToJSON(camera)...)
	}
	for _, l := range lights {
		points, paths := LightToJSON(l)
		container.Points = append(container.Points, points...)
		container.Paths = append(container.Paths, paths...)
	}
	for _, s := range surfaces {
		if sphere, ok := s.(*Sphere); ok {
			container.Zones = append(container.Zones, SphereToJSON(sphere))
		}
	}

	data, err := json.MarshalIndent(container, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling scene annotations: %w", err)
	}
	return os.WriteFile(filename, data, 0644)
}
