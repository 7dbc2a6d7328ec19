package route

import (
	"slices"
	"sort"

	"github.com/matzehuels/boxarrow/pkg/geom"
)

// maxLines caps the number of grid lines per axis added by Options.Resolution.
const maxLines = 2048

// grid is an orthogonal visibility grid. Lines run through every obstacle
// edge (pushed outward by the clearance), both endpoints, the midlines
// between the endpoints and the outer frame. Nodes sit at line
// intersections. Edges join adjacent nodes on a line and are blocked when
// the segment crosses an obstacle's interior.
type grid struct {
	xs, ys    []float64
	obstacles []geom.Rect

	// hBlocked[j*(nx-1)+i] blocks the edge (i,j)-(i+1,j);
	// vBlocked[i*(ny-1)+j] blocks the edge (i,j)-(i,j+1).
	hBlocked []bool
	vBlocked []bool
}

func newGrid(obstacles []geom.Rect, from, to geom.Point, opts Options) *grid {
	var xs, ys []float64
	bounds := geom.R(from.X, from.Y, 0, 0).Union(geom.R(to.X, to.Y, 0, 0))
	for _, o := range obstacles {
		e := o.Expand(opts.Clearance)
		xs = append(xs, e.X, e.Right())
		ys = append(ys, e.Y, e.Bottom())
		bounds = bounds.Union(e)
	}
	xs = append(xs, from.X, to.X, (from.X+to.X)/2)
	ys = append(ys, from.Y, to.Y, (from.Y+to.Y)/2)

	frame := bounds.Expand(opts.Frame)
	xs = append(xs, frame.X, frame.Right())
	ys = append(ys, frame.Y, frame.Bottom())

	if r := opts.Resolution; r > 0 {
		xs = appendSteps(xs, frame.X, frame.Right(), r)
		ys = appendSteps(ys, frame.Y, frame.Bottom(), r)
	}

	g := &grid{xs: dedupe(xs), ys: dedupe(ys), obstacles: obstacles}
	g.block()
	return g
}

func appendSteps(lines []float64, lo, hi, step float64) []float64 {
	for v, n := lo+step, 0; v < hi && n < maxLines; v, n = v+step, n+1 {
		lines = append(lines, v)
	}
	return lines
}

func dedupe(vals []float64) []float64 {
	slices.Sort(vals)
	out := vals[:0]
	for _, v := range vals {
		if len(out) > 0 && v-out[len(out)-1] < geom.Eps {
			continue
		}
		out = append(out, v)
	}
	return out
}

// block marks every grid edge that passes through an obstacle interior.
func (g *grid) block() {
	nx, ny := len(g.xs), len(g.ys)
	g.hBlocked = make([]bool, max(nx-1, 0)*ny)
	g.vBlocked = make([]bool, nx*max(ny-1, 0))

	for _, o := range g.obstacles {
		// Horizontal edges on lines strictly between the top and bottom.
		for j := g.firstAbove(g.ys, o.Y); j < ny && g.ys[j] < o.Bottom()-geom.Eps; j++ {
			for i := g.firstSpan(g.xs, o.X); i < nx-1 && g.xs[i] < o.Right()-geom.Eps; i++ {
				g.hBlocked[j*(nx-1)+i] = true
			}
		}
		// Vertical edges on lines strictly between the left and right.
		for i := g.firstAbove(g.xs, o.X); i < nx && g.xs[i] < o.Right()-geom.Eps; i++ {
			for j := g.firstSpan(g.ys, o.Y); j < ny-1 && g.ys[j] < o.Bottom()-geom.Eps; j++ {
				g.vBlocked[i*(ny-1)+j] = true
			}
		}
	}
}

// firstAbove returns the index of the first line strictly greater than v.
func (g *grid) firstAbove(lines []float64, v float64) int {
	return sort.SearchFloat64s(lines, v+geom.Eps)
}

// firstSpan returns the index of the first interval [lines[i], lines[i+1]]
// that ends strictly after v.
func (g *grid) firstSpan(lines []float64, v float64) int {
	i := sort.SearchFloat64s(lines, v+geom.Eps)
	return max(i-1, 0)
}

// index returns the line index of v, or -1.
func index(lines []float64, v float64) int {
	i := sort.SearchFloat64s(lines, v-geom.Eps)
	if i < len(lines) && lines[i]-v < geom.Eps && v-lines[i] < geom.Eps {
		return i
	}
	return -1
}

func (g *grid) node(i, j int) int { return j*len(g.xs) + i }

func (g *grid) coords(k int) (i, j int) { return k % len(g.xs), k / len(g.xs) }

func (g *grid) point(k int) geom.Point {
	i, j := g.coords(k)
	return geom.Pt(g.xs[i], g.ys[j])
}

// free reports whether node k lies outside every obstacle interior.
func (g *grid) free(k int) bool {
	p := g.point(k)
	for _, o := range g.obstacles {
		if o.ContainsInterior(p) {
			return false
		}
	}
	return true
}

// step is a move to an adjacent node.
type step struct {
	to   int
	axis geom.Axis
	dist float64
}

// neighbors returns admissible moves from k in the fixed order +x, -x, +y,
// -y. Horizontal candidates come first, which makes ties deterministic.
func (g *grid) neighbors(k int, buf []step) []step {
	buf = buf[:0]
	nx, ny := len(g.xs), len(g.ys)
	i, j := g.coords(k)
	if i+1 < nx && !g.hBlocked[j*(nx-1)+i] {
		buf = append(buf, step{g.node(i+1, j), geom.AxisHorizontal, g.xs[i+1] - g.xs[i]})
	}
	if i > 0 && !g.hBlocked[j*(nx-1)+i-1] {
		buf = append(buf, step{g.node(i-1, j), geom.AxisHorizontal, g.xs[i] - g.xs[i-1]})
	}
	if j+1 < ny && !g.vBlocked[i*(ny-1)+j] {
		buf = append(buf, step{g.node(i, j+1), geom.AxisVertical, g.ys[j+1] - g.ys[j]})
	}
	if j > 0 && !g.vBlocked[i*(ny-1)+j-1] {
		buf = append(buf, step{g.node(i, j-1), geom.AxisVertical, g.ys[j] - g.ys[j-1]})
	}
	return buf
}

// exit describes how an endpoint joins the grid. An endpoint outside every
// obstacle joins at its own node; one strictly inside an obstacle is joined
// by a direct segment to the nearest free node along a grid line.
type exit struct {
	node int
	axis geom.Axis // AxisNone when the endpoint is its own node
	dist float64
}

func (g *grid) exitFor(p, toward geom.Point) (exit, bool) {
	i, j := index(g.xs, p.X), index(g.ys, p.Y)
	if i < 0 || j < 0 {
		return exit{}, false
	}
	k := g.node(i, j)
	if g.free(k) {
		return exit{node: k}, true
	}

	best, found := exit{}, false
	try := func(ni, nj int, axis geom.Axis) {
		nk := g.node(ni, nj)
		if !g.free(nk) {
			return
		}
		d := g.point(nk).Manhattan(p)
		switch {
		case !found, d < best.dist-geom.Eps:
		case d < best.dist+geom.Eps && g.point(nk).Manhattan(toward) < g.point(best.node).Manhattan(toward)-geom.Eps:
		default:
			return
		}
		best, found = exit{node: nk, axis: axis, dist: d}, true
	}
	for ni := i + 1; ni < len(g.xs); ni++ {
		if g.free(g.node(ni, j)) {
			try(ni, j, geom.AxisHorizontal)
			break
		}
	}
	for ni := i - 1; ni >= 0; ni-- {
		if g.free(g.node(ni, j)) {
			try(ni, j, geom.AxisHorizontal)
			break
		}
	}
	for nj := j + 1; nj < len(g.ys); nj++ {
		if g.free(g.node(i, nj)) {
			try(i, nj, geom.AxisVertical)
			break
		}
	}
	for nj := j - 1; nj >= 0; nj-- {
		if g.free(g.node(i, nj)) {
			try(i, nj, geom.AxisVertical)
			break
		}
	}
	return best, found
}
