package tracer

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/fogleman/pt/pt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomSpheres(a *Arena, rng *rand.Rand, n int) []Surface {
	out := make([]Surface, n)
	for i := range out {
		center := V(rng.Float64()*20-10, rng.Float64()*20-10, rng.Float64()*20-10)
		out[i] = a.NewSphere(center, 0.2+rng.Float64(), nil)
	}
	return out
}

func randomUnitVector(rng *rand.Rand) pt.Vector {
	for {
		v := V(rng.Float64()*2-1, rng.Float64()*2-1, rng.Float64()*2-1)
		if l := v.Length(); l > 0.1 && l <= 1 {
			return v.Normalize()
		}
	}
}

func TestBuildBVHErrors(t *testing.T) {
	a := NewArena()

	_, err := a.BuildBVH(nil)
	assert.True(t, errors.Is(err, ErrEmptyBVH))

	_, err = a.BuildBVH([]Surface{a.NewSphere(V(0, 0, 0), 1, nil), nil})
	assert.Error(t, err)
}

func TestBVHBoundingBoxIsUnion(t *testing.T) {
	a := NewArena()
	rng := rand.New(rand.NewSource(1))
	surfaces := randomSpheres(a, rng, 57)

	want := EmptyAABB()
	for _, s := range surfaces {
		want.ExpandByBox(s.BoundingBox())
	}

	for i := 0; i < 5; i++ {
		shuffled := append([]Surface(nil), surfaces...)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		bvh, err := a.BuildBVH(shuffled)
		require.NoError(t, err)
		assert.Equal(t, want, bvh.BoundingBox())
		assert.Equal(t, want, bvh.RecomputeBoundingBox())
		assert.Len(t, bvh.Primitives(), len(surfaces))
	}
}

func TestBVHMatchesBruteForce(t *testing.T) {
	a := NewArena()
	rng := rand.New(rand.NewSource(7))
	surfaces := randomSpheres(a, rng, 200)
	for i := 0; i < 50; i++ {
		p := V(rng.Float64()*20-10, rng.Float64()*20-10, rng.Float64()*20-10)
		surfaces = append(surfaces, a.NewTriangle(p, p.Add(randomUnitVector(rng)), p.Add(randomUnitVector(rng)), nil))
	}
	list := a.NewSurfaceList(append([]Surface(nil), surfaces...)...)
	bvh, err := a.BuildBVH(surfaces)
	require.NoError(t, err)

	hits := 0
	for i := 0; i < 2000; i++ {
		ray := pt.Ray{
			Origin:    V(rng.Float64()*30-15, rng.Float64()*30-15, rng.Float64()*30-15),
			Direction: randomUnitVector(rng),
		}
		var want, got HitRecord
		wantHit := list.Hit(ray, Epsilon, Infinity, &want)
		gotHit := bvh.Hit(ray, Epsilon, Infinity, &got)
		require.Equal(t, wantHit, gotHit, "ray %d", i)
		if wantHit {
			hits++
			assert.InDelta(t, want.T, got.T, 1e-9, "ray %d", i)
			assert.Equal(t, want.Surface.ID(), got.Surface.ID(), "ray %d", i)
		}
	}
	assert.Greater(t, hits, 100)
}

func TestBVHNearestAcrossChildren(t *testing.T) {
	assert := assert.New(t)
	a := NewArena()
	// Split order puts the far sphere in the left subtree
	near := a.NewSphere(V(0, 0, 0), 1, nil)
	mid := a.NewSphere(V(5, 0, 0), 1, nil)
	far := a.NewSphere(V(10, 0, 0), 1, nil)
	bvh, err := a.BuildBVH([]Surface{near, mid, far})
	require.NoError(t, err)

	var rec HitRecord
	require.True(t, bvh.Hit(pt.Ray{Origin: V(-5, 0, 0), Direction: V(1, 0, 0)}, Epsilon, Infinity, &rec))
	assert.Same(near, rec.Surface)
	assert.InDelta(4, rec.T, 1e-12)

	require.True(t, bvh.Hit(pt.Ray{Origin: V(15, 0, 0), Direction: V(-1, 0, 0)}, Epsilon, Infinity, &rec))
	assert.Same(far, rec.Surface)
	assert.InDelta(4, rec.T, 1e-12)
}

func TestBVHStats(t *testing.T) {
	tests := []struct {
		n    int
		want BVHStats
	}{
		{1, BVHStats{Nodes: 1, Leaves: 1, Primitives: 1, MaxDepth: 1}},
		{2, BVHStats{Nodes: 1, Leaves: 1, Primitives: 2, MaxDepth: 1}},
		{3, BVHStats{Nodes: 3, Leaves: 2, Primitives: 3, MaxDepth: 2}},
		{5, BVHStats{Nodes: 5, Leaves: 3, Primitives: 5, MaxDepth: 3}},
	}
	for _, tt := range tests {
		t.Run("", func(t *testing.T) {
			a := NewArena()
			bvh, err := a.BuildBVH(randomSpheres(a, rand.New(rand.NewSource(3)), tt.n))
			require.NoError(t, err)
			assert.Equal(t, tt.want, bvh.Stats())
			assert.Contains(t, bvh.Stats().Table(), "Max depth")
		})
	}
}

func TestBVHRecomputeAfterEdit(t *testing.T) {
	assert := assert.New(t)
	a := NewArena()
	s := a.NewSphere(V(0, 0, 0), 1, nil)
	bvh, err := a.BuildBVH([]Surface{s, a.NewSphere(V(3, 0, 0), 1, nil), a.NewSphere(V(6, 0, 0), 1, nil)})
	require.NoError(t, err)
	assert.Equal(NewAABB(V(-1, -1, -1), V(7, 1, 1)), bvh.BoundingBox())

	s.SetCenter(V(0, 10, 0))
	assert.Equal(NewAABB(V(-1, -1, -1), V(7, 11, 1)), bvh.RecomputeBoundingBox())

	var rec HitRecord
	assert.True(bvh.Hit(pt.Ray{Origin: V(0, 20, 0), Direction: V(0, -1, 0)}, Epsilon, Infinity, &rec))
	assert.Same(s, rec.Surface)
}

func TestBVHClone(t *testing.T) {
	a := NewArena()
	bvh, err := a.BuildBVH(randomSpheres(a, rand.New(rand.NewSource(5)), 10))
	require.NoError(t, err)

	c, ok := a.Clone(bvh).(*BVH)
	require.True(t, ok)
	assert.NotEqual(t, bvh.ID(), c.ID())
	assert.Equal(t, bvh.BoundingBox(), c.BoundingBox())
	assert.Equal(t, bvh.Stats(), c.Stats())
}
