package tracer

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fogleman/pt/pt"
	"github.com/hpinc/go3mf"
)

var (
	ErrUnsupportedMeshFormat = errors.New("unsupported mesh format")
	ErrEmptyMesh             = errors.New("mesh has no faces")
)

// Mesh is an indexed triangle store. It is not itself a Surface: Faces
// returns one MeshFace per triangle for insertion into a BVH.
type Mesh struct {
	node
	material Material

	positions   []pt.Vector
	normals     []pt.Vector
	texcoords   []UV
	faces       [][3]int
	faceNormals []pt.Vector

	proxies []*MeshFace
}

// NewMesh builds a mesh from vertex positions and faces indexing into them.
// Face and vertex normals are computed from the geometry.
func (a *Arena) NewMesh(positions []pt.Vector, faces [][3]int, material Material) (*Mesh, error) {
	if len(faces) == 0 {
		return nil, ErrEmptyMesh
	}
	for i, f := range faces {
		for _, idx := range f {
			if idx < 0 || idx >= len(positions) {
				return nil, fmt.Errorf("face %d references vertex %d of %d", i, idx, len(positions))
			}
		}
	}
	m := &Mesh{
		node:      a.newNode("Mesh", ""),
		material:  material,
		positions: positions,
		faces:     faces,
	}
	m.ComputeFaceNormals()
	m.ComputeVertexNormals()
	m.proxies = make([]*MeshFace, len(faces))
	for i := range faces {
		m.proxies[i] = a.newMeshFace(m, i)
	}
	return m, nil
}

// LoadMesh reads a mesh from an .obj, .stl or .3mf file.
func (a *Arena) LoadMesh(path string, material Material) (*Mesh, error) {
	var (
		m   *Mesh
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".obj":
		m, err = a.loadPT(path, pt.LoadOBJ, true)
	case ".stl":
		m, err = a.loadPT(path, pt.LoadSTL, false)
	case ".3mf":
		m, err = a.load3MF(path)
	default:
		return nil, fmt.Errorf("loading %s: %w", path, ErrUnsupportedMeshFormat)
	}
	if err != nil {
		return nil, fmt.Errorf("loading mesh %s: %w", path, err)
	}
	m.material = material
	m.SetName(filepath.Base(path))
	if m.HasTexcoords() {
		logger.Infof("mesh %s has texture coordinates", path)
	} else {
		logger.Infof("mesh %s does not have texture coordinates", path)
	}
	return m, nil
}

type ptLoader func(path string, material pt.Material) (*pt.Mesh, error)

// loadPT converts a fogleman/pt triangle soup into an indexed mesh.
// Corners with the same position are welded; OBJ corners are only welded
// when their normal and texture coordinate also agree, so per-vertex data
// from the file survives.
func (a *Arena) loadPT(path string, load ptLoader, keepCorners bool) (*Mesh, error) {
	src, err := load(path, pt.Material{})
	if err != nil {
		return nil, err
	}
	if src == nil || len(src.Triangles) == 0 {
		return nil, ErrEmptyMesh
	}

	type corner struct {
		p, n, t pt.Vector
	}
	index := map[corner]int{}
	var (
		positions []pt.Vector
		normals   []pt.Vector
		texcoords []UV
		faces     = make([][3]int, 0, len(src.Triangles))
		textured  bool
	)
	weld := func(p, n, t pt.Vector) int {
		key := corner{p: p}
		if keepCorners {
			key.n, key.t = n, t
		}
		if i, ok := index[key]; ok {
			return i
		}
		i := len(positions)
		index[key] = i
		positions = append(positions, p)
		normals = append(normals, n)
		texcoords = append(texcoords, UV{U: t.X, V: t.Y})
		if !isZeroVector(t) {
			textured = true
		}
		return i
	}
	for _, t := range src.Triangles {
		faces = append(faces, [3]int{
			weld(t.V1, t.N1, t.T1),
			weld(t.V2, t.N2, t.T2),
			weld(t.V3, t.N3, t.T3),
		})
	}

	m, err := a.NewMesh(positions, faces, nil)
	if err != nil {
		return nil, err
	}
	if keepCorners {
		if err := m.SetVertexNormals(normals); err != nil {
			return nil, err
		}
	}
	if textured {
		if err := m.SetTexcoords(texcoords); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// load3MF flattens every build item of a 3MF model into one mesh.
func (a *Arena) load3MF(path string) (*Mesh, error) {
	var model go3mf.Model
	r, err := go3mf.OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	if err := r.Decode(&model); err != nil {
		return nil, fmt.Errorf("decoding 3mf: %w", err)
	}

	var (
		positions []pt.Vector
		faces     [][3]int
	)
	for _, item := range model.Build.Items {
		obj, ok := model.FindObject(item.ObjectPath(), item.ObjectID)
		if !ok || obj.Mesh == nil {
			continue
		}
		offset := len(positions)
		for _, v := range obj.Mesh.Vertices.Vertex {
			positions = append(positions, V(float64(v.X()), float64(v.Y()), float64(v.Z())))
		}
		for _, t := range obj.Mesh.Triangles.Triangle {
			faces = append(faces, [3]int{offset + int(t.V1), offset + int(t.V2), offset + int(t.V3)})
		}
	}
	return a.NewMesh(positions, faces, nil)
}

func (m *Mesh) Material() Material {
	return m.material
}

func (m *Mesh) SetMaterial(material Material) {
	m.material = material
}

func (m *Mesh) NumFaces() int {
	return len(m.faces)
}

func (m *Mesh) NumVertices() int {
	return len(m.positions)
}

func (m *Mesh) Vertex(i int) pt.Vector {
	return m.positions[i]
}

func (m *Mesh) VertexNormal(i int) pt.Vector {
	return m.normals[i]
}

func (m *Mesh) FaceNormal(face int) pt.Vector {
	return m.faceNormals[face]
}

// FaceVertices returns the vertex indices of a face.
func (m *Mesh) FaceVertices(face int) [3]int {
	return m.faces[face]
}

func (m *Mesh) HasTexcoords() bool {
	return m.texcoords != nil
}

// SetTexcoords assigns one texture coordinate per vertex. A nil slice
// removes them.
func (m *Mesh) SetTexcoords(uvs []UV) error {
	if uvs != nil && len(uvs) != len(m.positions) {
		return fmt.Errorf("got %d texture coordinates for %d vertices", len(uvs), len(m.positions))
	}
	m.texcoords = uvs
	return nil
}

// SetVertexNormals replaces the computed vertex normals. Zero normals are
// filled in from the adjacent faces.
func (m *Mesh) SetVertexNormals(normals []pt.Vector) error {
	if len(normals) != len(m.positions) {
		return fmt.Errorf("got %d normals for %d vertices", len(normals), len(m.positions))
	}
	computed := m.normals
	m.normals = make([]pt.Vector, len(normals))
	for i, n := range normals {
		if isZeroVector(n) {
			m.normals[i] = computed[i]
		} else {
			m.normals[i] = n.Normalize()
		}
	}
	return nil
}

// ComputeFaceNormals sets each face normal to (p1-p2)×(p2-p0), normalized.
func (m *Mesh) ComputeFaceNormals() {
	m.faceNormals = make([]pt.Vector, len(m.faces))
	for i, f := range m.faces {
		p0, p1, p2 := m.positions[f[0]], m.positions[f[1]], m.positions[f[2]]
		n := p1.Sub(p2).Cross(p2.Sub(p0))
		if lengthSquared(n) > Epsilon2 {
			n = n.Normalize()
		}
		m.faceNormals[i] = n
	}
}

// ComputeVertexNormals averages the normals of the faces around each vertex.
func (m *Mesh) ComputeVertexNormals() {
	m.normals = make([]pt.Vector, len(m.positions))
	for i, f := range m.faces {
		for _, idx := range f {
			m.normals[idx] = m.normals[idx].Add(m.faceNormals[i])
		}
	}
	for i, n := range m.normals {
		if lengthSquared(n) > Epsilon2 {
			m.normals[i] = n.Normalize()
		}
	}
}

// BoundingBox returns the box around all vertices.
func (m *Mesh) BoundingBox() AABB {
	b := EmptyAABB()
	for _, p := range m.positions {
		b.ExpandBy(p)
	}
	return b
}

// Faces returns one proxy surface per face, in face order.
func (m *Mesh) Faces() []Surface {
	out := make([]Surface, len(m.proxies))
	for i, f := range m.proxies {
		out[i] = f
	}
	return out
}

// RayFaceHit intersects the ray with one face. The normal and texture
// coordinates are interpolated with the barycentric weights of the hit.
func (m *Mesh) RayFaceHit(face int, ray pt.Ray, tmin, tmax float64, rec *HitRecord) bool {
	f := m.faces[face]
	t, uv, ok := rayTriangleHit(m.positions[f[0]], m.positions[f[1]], m.positions[f[2]], ray, tmin, tmax)
	if !ok {
		return false
	}
	alpha := 1 - uv.U - uv.V
	n := m.normals[f[0]].MulScalar(alpha).
		Add(m.normals[f[1]].MulScalar(uv.U)).
		Add(m.normals[f[2]].MulScalar(uv.V))
	if lengthSquared(n) < Epsilon2 {
		n = m.faceNormals[face]
	} else {
		n = n.Normalize()
	}

	global := NoUV
	if m.texcoords != nil {
		t0, t1, t2 := m.texcoords[f[0]], m.texcoords[f[1]], m.texcoords[f[2]]
		global = UV{
			U: alpha*t0.U + uv.U*t1.U + uv.V*t2.U,
			V: alpha*t0.V + uv.U*t1.V + uv.V*t2.V,
		}
	}

	rec.T = t
	rec.Point = ray.Position(t)
	rec.SetNormal(ray, n)
	rec.Surface = m.proxies[face]
	rec.FaceUV = FaceUV{FaceID: face, UV: uv, GlobalUV: global}
	return true
}
