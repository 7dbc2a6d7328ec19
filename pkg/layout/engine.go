package layout

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/boxarrow/pkg/geom"
	"github.com/matzehuels/boxarrow/pkg/schematic"
)

// Engine computes sizes and positions for every box and layout in a
// schematic. The zero value measures sequentially.
type Engine struct {
	// Workers bounds how many top-level subtrees are measured concurrently.
	// Values below 2 measure on the calling goroutine.
	Workers int
}

// Run lays out the whole schematic: the measure pass sizes every container
// bottom-up, then the place pass assigns absolute rectangles top-down. The
// root's outer rectangle starts at the origin.
//
// Run writes only the resolved geometry fields of each node; configuration
// and topology are left untouched.
func (e *Engine) Run(ctx context.Context, s *schematic.Schematic) error {
	root := s.Root()
	if root == schematic.NoHandle {
		return nil
	}
	if err := e.measureRoot(ctx, s, root); err != nil {
		return err
	}
	n := s.Node(root)
	e.Place(s, root, geom.RectAt(geom.Point{}, n.Intrinsic.Grow(n.Margin)))
	return nil
}

// measureRoot measures the root's children in parallel when Workers allows.
// Each subtree writes only its own arena entries, and every child is fully
// measured before the root reads its size.
func (e *Engine) measureRoot(ctx context.Context, s *schematic.Schematic, root schematic.Handle) error {
	if e.Workers < 2 {
		e.Measure(s, root)
		return nil
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.Workers)
	for _, c := range s.Children(root) {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			e.Measure(s, c)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	e.measureSelf(s, root)
	return nil
}

// Bounds returns the outer rectangle of the laid-out schematic.
func Bounds(s *schematic.Schematic) geom.Rect {
	if s.Root() == schematic.NoHandle {
		return geom.Rect{}
	}
	return s.Node(s.Root()).Outer
}

// outerSize is a measured node's border size plus margin.
func outerSize(n *schematic.Node) geom.Size {
	return n.Intrinsic.Grow(n.Margin)
}

// inFlow reports whether a node takes part in its container's arrangement.
// Anchors and links have zero size and are positioned independently.
func inFlow(n *schematic.Node) bool {
	return n.IsContainer()
}
