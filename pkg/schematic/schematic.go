package schematic

import (
	"fmt"
	"maps"
	"slices"

	"github.com/matzehuels/boxarrow/pkg/errors"
)

// Handle addresses a node in a [Schematic] arena.
type Handle int

// NoHandle is the parent of the root and the result of failed lookups.
const NoHandle Handle = -1

// Schematic is the resolved-at-rest data model: an arena of nodes forming a
// rooted tree, plus the global ID namespace used to resolve link endpoints.
//
// Nodes are addressed by [Handle]; a node's children are stored as an
// ordered handle list. The ID table never owns nodes, it only maps IDs to
// handles.
//
// A Schematic is not safe for concurrent mutation. Concurrent readers are
// fine once layout has finished, which is how routing workers use it.
type Schematic struct {
	nodes    []Node
	root     Handle
	ids      map[string]Handle
	warnings []string
}

// New creates an empty schematic with no root.
func New() *Schematic {
	return &Schematic{root: NoHandle, ids: make(map[string]Handle)}
}

// Add appends n to the arena as a detached node and returns its handle.
// The node's ID is not registered; use [Schematic.Register].
func (s *Schematic) Add(n Node) Handle {
	n.Parent = NoHandle
	n.Children = nil
	s.nodes = append(s.nodes, n)
	return Handle(len(s.nodes) - 1)
}

// Register binds id to h in the global namespace. IDs are unique across the
// whole schematic, not per container.
func (s *Schematic) Register(id string, h Handle) error {
	if err := errors.ValidateID(id); err != nil {
		return err
	}
	if prev, ok := s.ids[id]; ok {
		return errors.New(errors.ErrCodeDuplicateID,
			"id %q is already used by a %s", id, s.nodes[prev].TypeName()).At(id, s.nodes[h].TypeName())
	}
	s.ids[id] = h
	return nil
}

// Lookup returns the handle registered for id.
func (s *Schematic) Lookup(id string) (Handle, error) {
	h, ok := s.ids[id]
	if !ok {
		return NoHandle, errors.New(errors.ErrCodeUnknownID, "no node with id %q", id).At(id, "")
	}
	return h, nil
}

// Has reports whether id is registered.
func (s *Schematic) Has(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// AddChild appends child to parent's children. It fails with
// CYCLIC_STRUCTURE if child is parent or one of its ancestors, and with
// INVALID_INPUT if child is already attached elsewhere or parent cannot hold
// children.
func (s *Schematic) AddChild(parent, child Handle) error {
	p, c := &s.nodes[parent], &s.nodes[child]
	if child == parent || s.IsAncestor(child, parent) {
		return errors.New(errors.ErrCodeCyclicStructure, "%s would contain itself", c.TypeName()).At(c.ID, c.TypeName())
	}
	if !p.IsContainer() {
		return errors.New(errors.ErrCodeInvalidInput, "%s cannot have children", p.TypeName()).At(p.ID, p.TypeName())
	}
	if c.Parent != NoHandle || child == s.root {
		return errors.New(errors.ErrCodeInvalidInput, "%s already has a parent", c.TypeName()).At(c.ID, c.TypeName())
	}
	c.Parent = parent
	p.Children = append(p.Children, child)
	return nil
}

// SetRoot marks h as the root container.
func (s *Schematic) SetRoot(h Handle) { s.root = h }

// Root returns the root handle, or NoHandle for an empty schematic.
func (s *Schematic) Root() Handle { return s.root }

// Node returns the node for h. The pointer stays valid until the next Add.
func (s *Schematic) Node(h Handle) *Node { return &s.nodes[h] }

// Len returns the number of nodes in the arena.
func (s *Schematic) Len() int { return len(s.nodes) }

// Parent returns the parent of h, or NoHandle for the root.
func (s *Schematic) Parent(h Handle) Handle { return s.nodes[h].Parent }

// Children returns the ordered children of h. The slice must not be modified.
func (s *Schematic) Children(h Handle) []Handle { return s.nodes[h].Children }

// SetChildren replaces the order of h's children. The new order must be a
// permutation of the current children.
func (s *Schematic) SetChildren(h Handle, order []Handle) {
	s.nodes[h].Children = order
}

// IsAncestor reports whether a is a strict ancestor of h.
func (s *Schematic) IsAncestor(a, h Handle) bool {
	for p := s.nodes[h].Parent; p != NoHandle; p = s.nodes[p].Parent {
		if p == a {
			return true
		}
	}
	return false
}

// Ancestors returns the strict ancestors of h, nearest first.
func (s *Schematic) Ancestors(h Handle) []Handle {
	var out []Handle
	for p := s.nodes[h].Parent; p != NoHandle; p = s.nodes[p].Parent {
		out = append(out, p)
	}
	return out
}

// Related reports whether a and b are the same node or one contains the other.
func (s *Schematic) Related(a, b Handle) bool {
	return a == b || s.IsAncestor(a, b) || s.IsAncestor(b, a)
}

// Walk visits the tree in pre-order starting at the root, passing each
// node's handle and its parent. Returning false from fn skips the subtree.
func (s *Schematic) Walk(fn func(h, parent Handle) bool) {
	if s.root == NoHandle {
		return
	}
	s.walk(s.root, fn)
}

// WalkFrom is [Schematic.Walk] rooted at h.
func (s *Schematic) WalkFrom(h Handle, fn func(h, parent Handle) bool) {
	s.walk(h, fn)
}

func (s *Schematic) walk(h Handle, fn func(h, parent Handle) bool) {
	if !fn(h, s.nodes[h].Parent) {
		return
	}
	for _, c := range s.nodes[h].Children {
		s.walk(c, fn)
	}
}

// Items returns all visual items in pre-order.
func (s *Schematic) Items() []Handle {
	return s.collect(func(n *Node) bool { return n.IsItem() })
}

// Links returns all links in pre-order.
func (s *Schematic) Links() []Handle {
	return s.collect(func(n *Node) bool { return n.Kind == KindLink })
}

// Anchors returns all standalone anchors in pre-order.
func (s *Schematic) Anchors() []Handle {
	return s.collect(func(n *Node) bool { return n.Kind == KindAnchor })
}

// Containers returns all boxes and layouts in pre-order.
func (s *Schematic) Containers() []Handle {
	return s.collect(func(n *Node) bool { return n.IsContainer() })
}

func (s *Schematic) collect(keep func(*Node) bool) []Handle {
	var out []Handle
	s.Walk(func(h, _ Handle) bool {
		if keep(&s.nodes[h]) {
			out = append(out, h)
		}
		return true
	})
	return out
}

// IDs returns the registered IDs in sorted order.
func (s *Schematic) IDs() []string {
	return slices.Sorted(maps.Keys(s.ids))
}

// Warnf records a non-fatal problem found while building or resolving.
func (s *Schematic) Warnf(format string, args ...any) {
	s.warnings = append(s.warnings, fmt.Sprintf(format, args...))
}

// Warnings returns the recorded non-fatal problems in order.
func (s *Schematic) Warnings() []string { return s.warnings }

// Clone returns a deep copy. Candidate configurations are evaluated on
// clones and only the accepted one is committed back.
func (s *Schematic) Clone() *Schematic {
	c := &Schematic{
		nodes:    make([]Node, len(s.nodes)),
		root:     s.root,
		ids:      maps.Clone(s.ids),
		warnings: slices.Clone(s.warnings),
	}
	for i := range s.nodes {
		c.nodes[i] = s.nodes[i].clone()
	}
	return c
}

// CopyGeometry overwrites the configuration and resolved geometry of s with
// that of src. Both must share the same topology, which holds for any clone.
func (s *Schematic) CopyGeometry(src *Schematic) {
	for i := range s.nodes {
		s.nodes[i] = src.nodes[i].clone()
	}
}
