package tracer

import "fmt"

// NodeID identifies a scene node in creation order. It is diagnostic only.
type NodeID uint64

// Arena creates scene nodes and hands out their ids. Surfaces, materials,
// textures and lights built by one Arena share a single id sequence.
//
// An Arena is not safe for concurrent use; scenes are built on one goroutine
// and then treated as read-only while rendering.
type Arena struct {
	next NodeID
}

// NewArena returns an Arena whose first node gets id 1.
func NewArena() *Arena {
	return &Arena{}
}

func (a *Arena) newNode(kind, name string) node {
	a.next++
	if name == "" {
		name = kind
	}
	return node{id: a.next, name: name}
}

// Count returns how many nodes the arena has created.
func (a *Arena) Count() int {
	return int(a.next)
}

type node struct {
	id   NodeID
	name string
}

func (n node) ID() NodeID {
	return n.id
}

func (n node) Name() string {
	return n.name
}

// SetName renames the node.
func (n *node) SetName(name string) {
	n.name = name
}

func (n node) String() string {
	return fmt.Sprintf("%s#%d", n.name, n.id)
}

// Clone copies a surface. The copy gets a fresh id, shares the material and
// recomputes its bounding box on first use. Composite surfaces copy their
// child slices but share the children themselves.
func (a *Arena) Clone(s Surface) Surface {
	switch s := s.(type) {
	case *Sphere:
		c := *s
		c.surfaceBase = s.surfaceBase.clone(a, "Sphere")
		return &c
	case *Triangle:
		c := *s
		c.surfaceBase = s.surfaceBase.clone(a, "Triangle")
		return &c
	case *MeshFace:
		c := *s
		c.surfaceBase = s.surfaceBase.clone(a, "MeshFace")
		return &c
	case *SurfaceList:
		c := *s
		c.surfaceBase = s.surfaceBase.clone(a, "SurfaceList")
		c.surfaces = append([]Surface(nil), s.surfaces...)
		return &c
	case *BVH:
		c := *s
		c.surfaceBase = s.surfaceBase.clone(a, "BVH")
		c.nodes = append([]bvhNode(nil), s.nodes...)
		c.prims = append([]Surface(nil), s.prims...)
		return &c
	default:
		return nil
	}
}
