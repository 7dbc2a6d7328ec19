package route

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/boxarrow/pkg/anchor"
	"github.com/matzehuels/boxarrow/pkg/errors"
	"github.com/matzehuels/boxarrow/pkg/geom"
	"github.com/matzehuels/boxarrow/pkg/schematic"
)

// Default routing parameters.
const (
	DefaultLengthWeight = 1.0
	DefaultBendWeight   = 20.0
	DefaultDirection    = 30.0
	DefaultFrame        = 10.0
)

// Options configures orthogonal routing.
type Options struct {
	// LengthWeight multiplies total path length in the routing cost.
	LengthWeight float64
	// BendWeight is the cost of one direction change.
	BendWeight float64
	// DirectionWeight is the cost of leaving or entering an anchor against
	// its preferred axis.
	DirectionWeight float64
	// Clearance pushes grid lines outward from obstacle edges.
	Clearance float64
	// Resolution adds uniform grid lines this far apart. Zero disables them.
	Resolution float64
	// Frame is the distance of the outermost routing channel from the
	// bounds of all obstacles and endpoints.
	Frame float64
	// Workers bounds how many links are routed concurrently.
	Workers int
}

// DefaultOptions returns the default routing parameters.
func DefaultOptions() Options {
	return Options{
		LengthWeight:    DefaultLengthWeight,
		BendWeight:      DefaultBendWeight,
		DirectionWeight: DefaultDirection,
		Frame:           DefaultFrame,
	}
}

// Path is the resolved route of one link.
type Path struct {
	Link     schematic.Handle
	ID       string
	From, To string
	Style    schematic.LinkStyle
	Points   []geom.Point
	// Fallback is set when an orthogonal link could not be routed and was
	// drawn straight instead.
	Fallback bool
}

// Bends returns the number of direction changes along the path.
func (p Path) Bends() int { return geom.Bends(p.Points) }

// Result holds the paths of all links in pre-order, plus the recoverable
// ROUTING_UNREACHABLE errors for links that fell back to straight.
type Result struct {
	Paths    []Path
	Warnings []error
}

// Router routes links over finalized geometry. It only reads the schematic,
// so any number of links may be routed concurrently.
type Router struct {
	Options Options
}

// New returns a router with the given options.
func New(opts Options) *Router {
	return &Router{Options: opts}
}

// Route computes a path for every link. Links are independent: each is
// routed into its own result slot, in parallel when Workers allows, and the
// output order follows the tree regardless of scheduling.
//
// Only unresolvable endpoints fail the call. An orthogonal link with no
// admissible path falls back to a straight segment and its error is added to
// Result.Warnings.
func (r *Router) Route(ctx context.Context, s *schematic.Schematic, anchors *anchor.Set) (*Result, error) {
	links := s.Links()
	paths := make([]Path, len(links))
	warns := make([]error, len(links))

	g, ctx := errgroup.WithContext(ctx)
	if r.Options.Workers > 0 {
		g.SetLimit(r.Options.Workers)
	} else {
		g.SetLimit(1)
	}
	for i, h := range links {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			p, err := r.RouteLink(s, anchors, h)
			if err != nil && errors.IsFatal(err) {
				return err
			}
			paths[i], warns[i] = p, err
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &Result{Paths: paths}
	for _, w := range warns {
		if w != nil {
			res.Warnings = append(res.Warnings, w)
		}
	}
	return res, nil
}

// RouteLink routes a single link. A non-nil error with a valid path means
// the link fell back to straight (ROUTING_UNREACHABLE).
func (r *Router) RouteLink(s *schematic.Schematic, anchors *anchor.Set, h schematic.Handle) (Path, error) {
	n := s.Node(h)
	path := Path{Link: h, ID: n.ID, From: n.From, To: n.To, Style: n.Style}

	from, err := anchors.Lookup(n.From)
	if err != nil {
		return path, err
	}
	to, err := anchors.Lookup(n.To)
	if err != nil {
		return path, err
	}

	if n.Style != schematic.StyleOrthogonal {
		path.Points = Straight(from.At, to.At)
		return path, nil
	}

	points, err := r.Orthogonal(from, to, Obstacles(s, from.Owner, to.Owner))
	if err != nil {
		path.Points = Straight(from.At, to.At)
		path.Fallback = true
		return path, errors.Wrap(errors.ErrCodeRoutingUnreachable, err,
			"link %s -> %s drawn straight", n.From, n.To).At(n.ID, schematic.TypeLink)
	}
	path.Points = points
	return path, nil
}

// Straight returns the direct segment between two points.
func Straight(from, to geom.Point) []geom.Point {
	return []geom.Point{from, to}
}

// Orthogonal finds an axis-aligned path from one anchor to another that does
// not cross the interior of any obstacle. The cost minimized is
// LengthWeight*length + BendWeight*bends, plus DirectionWeight for each end
// that leaves or enters its anchor against the anchor's preferred axis.
// Among equal-cost paths the first one discovered wins; moves are tried in
// the order +x, -x, +y, -y.
//
// An endpoint strictly inside an obstacle is connected to the nearest free
// grid node by a direct exit segment. Equally near nodes are broken toward
// the other endpoint.
func (r *Router) Orthogonal(from, to anchor.Point, obstacles []geom.Rect) ([]geom.Point, error) {
	opts := r.normalized()
	if from.At.Eq(to.At) {
		return []geom.Point{from.At, to.At}, nil
	}

	g := newGrid(obstacles, from.At, to.At, opts)
	start, ok := g.exitFor(from.At, to.At)
	if !ok {
		return nil, errors.New(errors.ErrCodeRoutingUnreachable, "start %s is enclosed", from.Name)
	}
	goal, ok := g.exitFor(to.At, from.At)
	if !ok {
		return nil, errors.New(errors.ErrCodeRoutingUnreachable, "end %s is enclosed", to.Name)
	}

	nodes := g.search(start, from.Direction, goal, to.Direction, opts)
	if nodes == nil {
		return nil, errors.New(errors.ErrCodeRoutingUnreachable, "no orthogonal path from %s to %s", from.Name, to.Name)
	}

	points := make([]geom.Point, 0, len(nodes)+2)
	points = append(points, from.At)
	for _, k := range nodes {
		points = append(points, g.point(k))
	}
	points = append(points, to.At)
	return geom.Simplify(points), nil
}

func (r *Router) normalized() Options {
	opts := r.Options
	if opts.LengthWeight <= 0 {
		opts.LengthWeight = DefaultLengthWeight
	}
	if opts.BendWeight < 0 {
		opts.BendWeight = 0
	}
	if opts.DirectionWeight < 0 {
		opts.DirectionWeight = 0
	}
	if opts.Frame <= 0 {
		opts.Frame = DefaultFrame
	}
	return opts
}

// Obstacles returns the rectangles a link between the owners a and b must
// avoid. Every item contributes its margin-expanded outer rectangle, except:
//   - items containing either endpoint are skipped, since the path starts
//     or ends inside them
//   - the endpoint items themselves contribute only their border box, so a
//     path may leave an anchor through the margin
func Obstacles(s *schematic.Schematic, a, b schematic.Handle) []geom.Rect {
	var out []geom.Rect
	for _, h := range s.Items() {
		if s.IsAncestor(h, a) || s.IsAncestor(h, b) {
			continue
		}
		n := s.Node(h)
		if h == a || h == b {
			out = append(out, n.Border)
			continue
		}
		out = append(out, n.Outer)
	}
	return out
}
