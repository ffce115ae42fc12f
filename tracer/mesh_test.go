package tracer

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/fogleman/pt/pt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// quad is a unit square in the z=0 plane facing +z, split into two faces.
func quad(t *testing.T, a *Arena, material Material) *Mesh {
	t.Helper()
	m, err := a.NewMesh(
		[]pt.Vector{V(0, 0, 0), V(1, 0, 0), V(1, 1, 0), V(0, 1, 0)},
		[][3]int{{0, 1, 2}, {0, 2, 3}},
		material,
	)
	require.NoError(t, err)
	return m
}

func TestNewMeshValidation(t *testing.T) {
	a := NewArena()

	_, err := a.NewMesh([]pt.Vector{V(0, 0, 0)}, nil, nil)
	assert.True(t, errors.Is(err, ErrEmptyMesh))

	_, err = a.NewMesh([]pt.Vector{V(0, 0, 0), V(1, 0, 0)}, [][3]int{{0, 1, 2}}, nil)
	assert.Error(t, err)

	_, err = a.NewMesh([]pt.Vector{V(0, 0, 0), V(1, 0, 0), V(0, 1, 0)}, [][3]int{{0, -1, 2}}, nil)
	assert.Error(t, err)
}

func TestMeshNormals(t *testing.T) {
	assert := assert.New(t)
	m := quad(t, NewArena(), nil)

	assert.Equal(2, m.NumFaces())
	assert.Equal(4, m.NumVertices())
	for f := 0; f < m.NumFaces(); f++ {
		assertVecInDelta(t, V(0, 0, 1), m.FaceNormal(f), 1e-12)
	}
	for v := 0; v < m.NumVertices(); v++ {
		assertVecInDelta(t, V(0, 0, 1), m.VertexNormal(v), 1e-12)
	}
	assert.Equal([3]int{0, 2, 3}, m.FaceVertices(1))
	assert.Equal(NewAABB(V(0, 0, 0), V(1, 1, 0)), m.BoundingBox())
}

func TestMeshFaces(t *testing.T) {
	assert := assert.New(t)
	a := NewArena()
	material := a.NewPhongMaterial(C(0.1, 0.1, 0.1), C(1, 0, 0), C(0, 0, 0), 1, C(0, 0, 0))
	m := quad(t, a, material)

	faces := m.Faces()
	require.Len(t, faces, 2)
	for i, s := range faces {
		f, ok := s.(*MeshFace)
		require.True(t, ok)
		assert.Equal(i, f.Face())
		assert.Same(m, f.Mesh())
		assert.Equal(material, f.Material())
	}

	other := a.NewPhongMaterial(C(0, 0, 0), C(0, 1, 0), C(0, 0, 0), 1, C(0, 0, 0))
	m.SetMaterial(other)
	assert.Equal(Material(other), faces[0].Material())
}

func TestMeshFaceHit(t *testing.T) {
	assert := assert.New(t)
	m := quad(t, NewArena(), nil)
	faces := m.Faces()

	var rec HitRecord
	// (0.25, 0.75) lies in the second face only
	ray := pt.Ray{Origin: V(0.25, 0.75, 2), Direction: V(0, 0, -1)}
	assert.False(faces[0].Hit(ray, Epsilon, Infinity, &rec))
	require.True(t, faces[1].Hit(ray, Epsilon, Infinity, &rec))
	assert.InDelta(2, rec.T, 1e-12)
	assert.Equal(1, rec.FaceUV.FaceID)
	assert.Same(faces[1], rec.Surface)
	assert.True(rec.FrontFace)
	assertVecInDelta(t, V(0, 0, 1), rec.Normal, 1e-12)
	assert.Equal(NoUV, rec.FaceUV.GlobalUV)
}

func TestMeshInterpolation(t *testing.T) {
	assert := assert.New(t)
	a := NewArena()
	m, err := a.NewMesh([]pt.Vector{V(0, 0, 0), V(1, 0, 0), V(0, 1, 0)}, [][3]int{{0, 1, 2}}, nil)
	require.NoError(t, err)

	assert.Error(m.SetTexcoords([]UV{{0, 0}}))
	require.NoError(t, m.SetTexcoords([]UV{{0, 0}, {1, 0}, {0, 1}}))
	assert.True(m.HasTexcoords())

	// Tilt the vertex normals apart so interpolation is visible
	require.NoError(t, m.SetVertexNormals([]pt.Vector{V(0, 0, 1), V(1, 0, 1), V(0, 1, 1)}))

	var rec HitRecord
	ray := pt.Ray{Origin: V(0.25, 0.5, 1), Direction: V(0, 0, -1)}
	require.True(t, m.RayFaceHit(0, ray, Epsilon, Infinity, &rec))
	assert.InDelta(0.25, rec.FaceUV.GlobalUV.U, 1e-12)
	assert.InDelta(0.5, rec.FaceUV.GlobalUV.V, 1e-12)

	n1 := V(1, 0, 1).Normalize()
	n2 := V(0, 1, 1).Normalize()
	want := V(0, 0, 1).MulScalar(0.25).Add(n1.MulScalar(0.25)).Add(n2.MulScalar(0.5)).Normalize()
	assertVecInDelta(t, want, rec.Normal, 1e-12)

	require.NoError(t, m.SetTexcoords(nil))
	assert.False(m.HasTexcoords())
}

func TestSetVertexNormalsFillsZeros(t *testing.T) {
	m := quad(t, NewArena(), nil)

	assert.Error(t, m.SetVertexNormals([]pt.Vector{V(0, 0, 1)}))
	require.NoError(t, m.SetVertexNormals([]pt.Vector{{}, V(0, 0, 2), {}, {}}))
	for v := 0; v < m.NumVertices(); v++ {
		assertVecInDelta(t, V(0, 0, 1), m.VertexNormal(v), 1e-12)
	}
}

func TestLoadMesh(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()
	a := NewArena()

	_, err := a.LoadMesh(filepath.Join(dir, "mesh.ply"), nil)
	assert.True(errors.Is(err, ErrUnsupportedMeshFormat))

	_, err = a.LoadMesh(filepath.Join(dir, "missing.obj"), nil)
	assert.Error(err)

	obj := "v 0 0 0\nv 1 0 0\nv 1 1 0\nv 0 1 0\nf 1 2 3\nf 1 3 4\n"
	path := filepath.Join(dir, "quad.obj")
	require.NoError(t, os.WriteFile(path, []byte(obj), 0644))

	material := a.NewPhongMaterial(C(0, 0, 0), C(1, 1, 1), C(0, 0, 0), 1, C(0, 0, 0))
	m, err := a.LoadMesh(path, material)
	require.NoError(t, err)
	assert.Equal(2, m.NumFaces())
	assert.Equal(4, m.NumVertices())
	assert.False(m.HasTexcoords())
	assert.Equal("quad.obj", m.Name())
	assert.Equal(Material(material), m.Material())
	assert.Equal(NewAABB(V(0, 0, 0), V(1, 1, 0)), m.BoundingBox())
}
