package tracer

import (
	"errors"
	"sort"

	"github.com/fogleman/pt/pt"
)

var ErrEmptyBVH = errors.New("cannot build a BVH over zero surfaces")

type refKind uint8

const (
	refNone refKind = iota
	refNode
	refPrim
)

// bvhRef points at either another node or a primitive surface.
type bvhRef struct {
	kind  refKind
	index int
}

type bvhNode struct {
	box         AABB
	left, right bvhRef
}

// BVH is a binary bounding volume hierarchy. Nodes live in one slice and
// refer to each other and to their primitives by index.
//
// Hit returns the nearest intersection: the distance found in the left
// subtree bounds the search in the right one.
type BVH struct {
	surfaceBase
	nodes []bvhNode
	prims []Surface
	root  int
}

// BVHStats describes the shape of a built hierarchy.
type BVHStats struct {
	Nodes      int
	Leaves     int
	Primitives int
	MaxDepth   int
}

// BuildBVH builds a hierarchy over surfaces by median split, cycling the
// split axis x, y, z with depth. surfaces is reordered in place, so two
// builds must not share a slice concurrently.
func (a *Arena) BuildBVH(surfaces []Surface) (*BVH, error) {
	if len(surfaces) == 0 {
		return nil, ErrEmptyBVH
	}
	for _, s := range surfaces {
		if s == nil {
			return nil, errors.New("cannot build a BVH over a nil surface")
		}
		s.BoundingBox()
	}

	b := &BVH{
		surfaceBase: newSurfaceBase(a.newNode("BVH", ""), nil),
		nodes:       make([]bvhNode, 0, len(surfaces)),
		prims:       make([]Surface, 0, len(surfaces)),
	}
	b.root = b.build(surfaces, 0)
	b.BoundingBox()
	logger.Debugf("built BVH over %d surfaces with %d nodes", len(surfaces), len(b.nodes))
	return b, nil
}

func (b *BVH) addPrim(s Surface) bvhRef {
	b.prims = append(b.prims, s)
	return bvhRef{kind: refPrim, index: len(b.prims) - 1}
}

func (b *BVH) build(list []Surface, axis int) int {
	var n bvhNode
	switch len(list) {
	case 1:
		n.left = b.addPrim(list[0])
		n.box = list[0].BoundingBox()
	case 2:
		n.left = b.addPrim(list[0])
		n.right = b.addPrim(list[1])
		n.box = list[0].BoundingBox().Union(list[1].BoundingBox())
	default:
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].BoundingBox().Midpoint(axis) > list[j].BoundingBox().Midpoint(axis)
		})
		mid := len(list) / 2
		next := (axis + 1) % 3
		left := b.build(list[:mid], next)
		right := b.build(list[mid:], next)
		n.left = bvhRef{kind: refNode, index: left}
		n.right = bvhRef{kind: refNode, index: right}
		n.box = b.nodes[left].box.Union(b.nodes[right].box)
	}
	b.nodes = append(b.nodes, n)
	return len(b.nodes) - 1
}

func (b *BVH) BoundingBox() AABB {
	return b.cachedBox(func() AABB { return b.nodes[b.root].box })
}

// RecomputeBoundingBox refreshes every node box from its primitives.
func (b *BVH) RecomputeBoundingBox() AABB {
	b.refresh(b.root)
	b.bbox = b.nodes[b.root].box
	b.dirty = false
	return b.bbox
}

func (b *BVH) refresh(i int) AABB {
	box := EmptyAABB()
	for _, r := range [2]bvhRef{b.nodes[i].left, b.nodes[i].right} {
		switch r.kind {
		case refNode:
			box.ExpandByBox(b.refresh(r.index))
		case refPrim:
			box.ExpandByBox(b.prims[r.index].RecomputeBoundingBox())
		}
	}
	b.nodes[i].box = box
	return box
}

func (b *BVH) Hit(ray pt.Ray, tmin, tmax float64, rec *HitRecord) bool {
	return b.hitNode(b.root, ray, tmin, tmax, rec)
}

func (b *BVH) hitNode(i int, ray pt.Ray, tmin, tmax float64, rec *HitRecord) bool {
	n := &b.nodes[i]
	if !n.box.Hit(ray, tmin, tmax) {
		return false
	}
	hit := b.hitRef(n.left, ray, tmin, tmax, rec)
	if hit {
		tmax = rec.T
	}
	if b.hitRef(n.right, ray, tmin, tmax, rec) {
		hit = true
	}
	return hit
}

func (b *BVH) hitRef(r bvhRef, ray pt.Ray, tmin, tmax float64, rec *HitRecord) bool {
	switch r.kind {
	case refNode:
		return b.hitNode(r.index, ray, tmin, tmax, rec)
	case refPrim:
		return b.prims[r.index].Hit(ray, tmin, tmax, rec)
	default:
		return false
	}
}

// Primitives returns the leaf surfaces in tree order.
func (b *BVH) Primitives() []Surface {
	return b.prims
}

func (b *BVH) Stats() BVHStats {
	s := BVHStats{Nodes: len(b.nodes), Primitives: len(b.prims)}
	var walk func(i, depth int)
	walk = func(i, depth int) {
		if depth > s.MaxDepth {
			s.MaxDepth = depth
		}
		n := b.nodes[i]
		if n.left.kind != refNode && n.right.kind != refNode {
			s.Leaves++
		}
		for _, r := range [2]bvhRef{n.left, n.right} {
			if r.kind == refNode {
				walk(r.index, depth+1)
			}
		}
	}
	walk(b.root, 1)
	return s
}
