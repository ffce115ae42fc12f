package tracer

import "github.com/fogleman/pt/pt"

// Surface is anything a ray can hit. The set of implementations is closed:
// *Sphere, *Triangle, *MeshFace, *SurfaceList and *BVH.
//
// Hit reports whether the ray hits the surface within [tmin, tmax] and, if
// so, stores the nearest such hit in rec. Hit never changes the surface and
// leaves rec untouched when it returns false, so a built scene can be
// traversed from many goroutines at once.
type Surface interface {
	Hit(ray pt.Ray, tmin, tmax float64, rec *HitRecord) bool
	// BoundingBox returns the cached box, recomputing it if geometry changed.
	BoundingBox() AABB
	// RecomputeBoundingBox ignores the cache.
	RecomputeBoundingBox() AABB
	Material() Material
	ID() NodeID
	Name() string

	surface()
}

type surfaceBase struct {
	node
	material Material
	bbox     AABB
	dirty    bool
}

func newSurfaceBase(n node, material Material) surfaceBase {
	return surfaceBase{node: n, material: material, bbox: EmptyAABB(), dirty: true}
}

func (s *surfaceBase) surface() {}

func (s *surfaceBase) Material() Material {
	return s.material
}

// SetMaterial assigns the material used to shade the surface.
func (s *surfaceBase) SetMaterial(m Material) {
	s.material = m
}

func (s *surfaceBase) cachedBox(compute func() AABB) AABB {
	if s.dirty {
		s.bbox = compute()
		s.dirty = false
	}
	return s.bbox
}

func (s *surfaceBase) markDirty() {
	s.dirty = true
}

func (s surfaceBase) clone(a *Arena, kind string) surfaceBase {
	c := newSurfaceBase(a.newNode(kind, s.name), s.material)
	return c
}
