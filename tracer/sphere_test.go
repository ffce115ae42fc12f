package tracer

import (
	"math"
	"testing"

	"github.com/fogleman/pt/pt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSphereHit(t *testing.T) {
	assert := assert.New(t)
	a := NewArena()
	s := a.NewSphere(V(0, 0, 0), 1, nil)

	var rec HitRecord
	ray := pt.Ray{Origin: V(5, 0, 0), Direction: V(-1, 0, 0)}
	require.True(t, s.Hit(ray, Epsilon, Infinity, &rec))
	assert.InDelta(4, rec.T, 1e-12)
	assertVecInDelta(t, V(1, 0, 0), rec.Point, 1e-12)
	assertVecInDelta(t, V(1, 0, 0), rec.Normal, 1e-12)
	assert.True(rec.FrontFace)
	assert.Same(s, rec.Surface)
	assert.Equal(-1, rec.FaceUV.FaceID)
	assert.Equal(NoUV, rec.FaceUV.UV)
	assert.InDelta(0, rec.FaceUV.GlobalUV.U, 1e-12)
	assert.InDelta(0.5, rec.FaceUV.GlobalUV.V, 1e-12)
}

func TestSphereHitFromInside(t *testing.T) {
	assert := assert.New(t)
	s := NewArena().NewSphere(V(0, 0, 0), 2, nil)

	var rec HitRecord
	ray := pt.Ray{Origin: V(0, 0, 0), Direction: V(0, 1, 0)}
	assert.True(s.Hit(ray, Epsilon, Infinity, &rec))
	assert.InDelta(2, rec.T, 1e-12)
	assert.False(rec.FrontFace)
	assertVecInDelta(t, V(0, -1, 0), rec.Normal, 1e-12)
}

func TestSphereMiss(t *testing.T) {
	s := NewArena().NewSphere(V(0, 0, 0), 1, nil)

	tests := []struct {
		name       string
		ray        pt.Ray
		tmin, tmax float64
	}{
		{"passes by", pt.Ray{Origin: V(5, 5, 0), Direction: V(-1, 0, 0)}, Epsilon, Infinity},
		{"behind", pt.Ray{Origin: V(5, 0, 0), Direction: V(1, 0, 0)}, Epsilon, Infinity},
		{"tmax too short", pt.Ray{Origin: V(5, 0, 0), Direction: V(-1, 0, 0)}, Epsilon, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := HitRecord{T: 42}
			assert.False(t, s.Hit(tt.ray, tt.tmin, tt.tmax, &rec))
			assert.Equal(t, 42.0, rec.T, "a miss must not touch the record")
		})
	}
}

func TestSphereUnnormalizedDirection(t *testing.T) {
	s := NewArena().NewSphere(V(0, 0, -10), 1, nil)

	var rec HitRecord
	ray := pt.Ray{Origin: V(0, 0, 0), Direction: V(0, 0, -3)}
	assert.True(t, s.Hit(ray, Epsilon, Infinity, &rec))
	assert.InDelta(t, 3, rec.T, 1e-12)
	assertVecInDelta(t, V(0, 0, -9), rec.Point, 1e-12)
}

func TestSphereBoundingBox(t *testing.T) {
	assert := assert.New(t)
	s := NewArena().NewSphere(V(1, 2, 3), 0.5, nil)

	assert.Equal(NewAABB(V(0.5, 1.5, 2.5), V(1.5, 2.5, 3.5)), s.BoundingBox())

	s.SetRadius(1)
	assert.Equal(NewAABB(V(0, 1, 2), V(2, 3, 4)), s.BoundingBox())

	s.SetCenter(V(0, 0, 0))
	assert.Equal(NewAABB(V(-1, -1, -1), V(1, 1, 1)), s.BoundingBox())
}

func TestSphereUV(t *testing.T) {
	s := NewArena().NewSphere(V(0, 0, 0), 1, nil)

	tests := []struct {
		point pt.Vector
		want  UV
	}{
		{V(1, 0, 0), UV{0, 0.5}},
		{V(0, 1, 0), UV{0.25, 0.5}},
		{V(-1, 0, 0), UV{0.5, 0.5}},
		{V(0, -1, 0), UV{0.75, 0.5}},
		{V(0, 0, 1), UV{0, 0}},
		{V(0, 0, -1), UV{0, 1}},
	}
	for _, tt := range tests {
		got := s.uv(tt.point)
		assert.InDelta(t, tt.want.U, got.U, 1e-12, "%v", tt.point)
		assert.InDelta(t, tt.want.V, got.V, 1e-12, "%v", tt.point)
	}
	assert.False(t, math.IsNaN(s.uv(V(0, 0, 1)).U))
}
