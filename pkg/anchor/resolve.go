package anchor

import (
	"maps"
	"slices"

	"github.com/matzehuels/boxarrow/pkg/errors"
	"github.com/matzehuels/boxarrow/pkg/geom"
	"github.com/matzehuels/boxarrow/pkg/schematic"
)

// Point is a resolved anchor.
type Point struct {
	Name      string           // "<item-id>.<position>" or "<anchor-id>"
	At        geom.Point       // absolute coordinate
	Direction geom.Axis        // preferred exit axis for routed paths
	Owner     schematic.Handle // item or standalone anchor the point belongs to
}

// Set holds the absolute coordinates of every addressable anchor.
type Set struct {
	s      *schematic.Schematic
	points map[string]Point
}

// Resolve computes every implicit anchor of every item with an ID and every
// standalone anchor. Item geometry must be final; anchors never affect it.
//
// Implicit anchors sit on the item's border box at fractional offsets 0, 0.5
// and 1 on each axis. A standalone anchor's x/y is relative to the content
// box origin of its container, so it moves with the container like an item
// would.
//
// Resolve is a pure function of the current geometry: calling it twice on the
// same schematic yields identical sets.
func Resolve(s *schematic.Schematic) (*Set, error) {
	if s.Root() == schematic.NoHandle {
		return nil, errors.New(errors.ErrCodeInvalidInput, "schematic has no root")
	}
	set := &Set{s: s, points: make(map[string]Point)}

	for _, h := range s.Items() {
		n := s.Node(h)
		if n.ID == "" {
			continue
		}
		for _, p := range Positions {
			name := n.ID + "." + string(p)
			set.points[name] = Point{Name: name, At: p.On(n.Border), Direction: p.Direction(), Owner: h}
		}
	}

	for _, h := range s.Anchors() {
		n := s.Node(h)
		if n.ID == "" {
			continue
		}
		set.points[n.ID] = Point{Name: n.ID, At: Standalone(s, h), Direction: n.Direction, Owner: h}
	}
	return set, nil
}

// Standalone returns the absolute coordinate of the standalone anchor h.
func Standalone(s *schematic.Schematic, h schematic.Handle) geom.Point {
	n := s.Node(h)
	origin := geom.Point{}
	if p := n.Parent; p != schematic.NoHandle {
		origin = s.Node(p).Content().Min()
	}
	return origin.Add(n.Offset)
}

// Lookup resolves a link endpoint reference. Aliased position names are
// accepted, so "foo.center_left" finds the same point as "foo.left".
func (set *Set) Lookup(ref string) (Point, error) {
	if p, ok := set.points[ref]; ok {
		return p, nil
	}
	r, err := ParseRef(set.s, ref)
	if err != nil {
		return Point{}, err
	}
	if r.Standalone() {
		n := set.s.Node(r.Target)
		return Point{Name: n.ID, At: Standalone(set.s, r.Target), Direction: n.Direction, Owner: r.Target}, nil
	}
	n := set.s.Node(r.Target)
	return Point{
		Name:      n.ID + "." + string(r.Position),
		At:        r.Position.On(n.Border),
		Direction: r.Position.Direction(),
		Owner:     r.Target,
	}, nil
}

// Len returns the number of addressable anchors.
func (set *Set) Len() int { return len(set.points) }

// All returns every anchor sorted by name.
func (set *Set) All() []Point {
	names := slices.Sorted(maps.Keys(set.points))
	out := make([]Point, len(names))
	for i, name := range names {
		out[i] = set.points[name]
	}
	return out
}
