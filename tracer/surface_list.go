package tracer

import "github.com/fogleman/pt/pt"

// SurfaceList is an unaccelerated collection of surfaces.
type SurfaceList struct {
	surfaceBase
	surfaces []Surface
}

func (a *Arena) NewSurfaceList(surfaces ...Surface) *SurfaceList {
	return &SurfaceList{
		surfaceBase: newSurfaceBase(a.newNode("SurfaceList", ""), nil),
		surfaces:    surfaces,
	}
}

func (l *SurfaceList) Add(s ...Surface) {
	l.surfaces = append(l.surfaces, s...)
	l.markDirty()
}

// Surfaces returns the backing slice.
func (l *SurfaceList) Surfaces() []Surface {
	return l.surfaces
}

func (l *SurfaceList) Len() int {
	return len(l.surfaces)
}

func (l *SurfaceList) BoundingBox() AABB {
	return l.cachedBox(l.RecomputeBoundingBox)
}

func (l *SurfaceList) RecomputeBoundingBox() AABB {
	b := EmptyAABB()
	for _, s := range l.surfaces {
		if s != nil {
			b.ExpandByBox(s.BoundingBox())
		}
	}
	return b
}

func (l *SurfaceList) Hit(ray pt.Ray, tmin, tmax float64, rec *HitRecord) bool {
	hit := false
	for _, s := range l.surfaces {
		if s == nil {
			continue
		}
		if s.Hit(ray, tmin, tmax, rec) {
			hit = true
			tmax = rec.T
		}
	}
	return hit
}
