package tracer

import "github.com/fogleman/pt/pt"

// MeshFace is a single mesh triangle exposed as a Surface so it can be
// stored in a BVH. Its material is the mesh's.
type MeshFace struct {
	surfaceBase
	mesh *Mesh
	face int
}

func (a *Arena) newMeshFace(m *Mesh, face int) *MeshFace {
	f := &MeshFace{
		surfaceBase: newSurfaceBase(a.newNode("MeshFace", ""), nil),
		mesh:        m,
		face:        face,
	}
	f.BoundingBox()
	return f
}

func (f *MeshFace) Mesh() *Mesh {
	return f.mesh
}

func (f *MeshFace) Face() int {
	return f.face
}

func (f *MeshFace) Material() Material {
	return f.mesh.material
}

func (f *MeshFace) BoundingBox() AABB {
	return f.cachedBox(f.RecomputeBoundingBox)
}

func (f *MeshFace) RecomputeBoundingBox() AABB {
	b := EmptyAABB()
	for _, idx := range f.mesh.faces[f.face] {
		b.ExpandBy(f.mesh.positions[idx])
	}
	return b
}

func (f *MeshFace) Hit(ray pt.Ray, tmin, tmax float64, rec *HitRecord) bool {
	box := f.bbox
	if f.dirty {
		box = f.RecomputeBoundingBox()
	}
	if !box.Hit(ray, tmin, tmax) {
		return false
	}
	if !f.mesh.RayFaceHit(f.face, ray, tmin, tmax, rec) {
		return false
	}
	rec.Surface = f
	return true
}
