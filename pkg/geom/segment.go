package geom

import "math"

// Axis identifies a direction of travel for orthogonal segments.
type Axis uint8

const (
	// AxisNone means no preferred axis (e.g. a corner anchor) or a diagonal segment.
	AxisNone Axis = iota
	// AxisHorizontal is travel along X.
	AxisHorizontal
	// AxisVertical is travel along Y.
	AxisVertical
)

func (a Axis) String() string {
	switch a {
	case AxisHorizontal:
		return "horizontal"
	case AxisVertical:
		return "vertical"
	default:
		return "none"
	}
}

// SegmentAxis returns the axis of the segment a-b, or AxisNone if it is
// diagonal or has zero length.
func SegmentAxis(a, b Point) Axis {
	dx, dy := math.Abs(a.X-b.X), math.Abs(a.Y-b.Y)
	switch {
	case dx < Eps && dy < Eps:
		return AxisNone
	case dy < Eps:
		return AxisHorizontal
	case dx < Eps:
		return AxisVertical
	default:
		return AxisNone
	}
}

// SegmentCrossesInterior reports whether the segment a-b passes through the
// open interior of r by a positive length. Segments that only touch the
// boundary, run along it, or meet a corner do not cross.
//
// The test is a Liang-Barsky clip against r shrunk by [Eps].
func SegmentCrossesInterior(a, b Point, r Rect) bool {
	dx, dy := b.X-a.X, b.Y-a.Y
	if math.Abs(dx) < Eps && math.Abs(dy) < Eps {
		return false
	}
	in := r.Inset(EdgeAll(Eps))
	if in.IsEmpty() {
		return false
	}

	p := [4]float64{-dx, dx, -dy, dy}
	q := [4]float64{a.X - in.X, in.Right() - a.X, a.Y - in.Y, in.Bottom() - a.Y}
	t0, t1 := 0.0, 1.0
	for i := range p {
		if p[i] == 0 {
			if q[i] < 0 {
				return false
			}
			continue
		}
		t := q[i] / p[i]
		if p[i] < 0 {
			t0 = max(t0, t)
		} else {
			t1 = min(t1, t)
		}
		if t0 > t1 {
			return false
		}
	}
	length := math.Hypot(dx, dy)
	return (t1-t0)*length > Eps
}

// PathLength returns the total Euclidean length of a polyline.
func PathLength(points []Point) float64 {
	var total float64
	for i := 1; i < len(points); i++ {
		total += points[i-1].Dist(points[i])
	}
	return total
}

// Bends returns the number of direction changes along a polyline. Collinear
// consecutive segments do not count as a bend.
func Bends(points []Point) int {
	points = Simplify(points)
	bends := 0
	for i := 2; i < len(points); i++ {
		a, b, c := points[i-2], points[i-1], points[i]
		v1, v2 := b.Sub(a), c.Sub(b)
		if cross := v1.X*v2.Y - v1.Y*v2.X; math.Abs(cross) > Eps {
			bends++
		}
	}
	return bends
}

// Simplify removes repeated points and interior points of collinear runs.
// The first and last points are always kept.
func Simplify(points []Point) []Point {
	if len(points) < 2 {
		return points
	}
	out := make([]Point, 0, len(points))
	out = append(out, points[0])
	for i := 1; i < len(points); i++ {
		p := points[i]
		if p.Eq(out[len(out)-1]) {
			continue
		}
		if len(out) >= 2 {
			a, b := out[len(out)-2], out[len(out)-1]
			v1, v2 := b.Sub(a), p.Sub(b)
			cross := v1.X*v2.Y - v1.Y*v2.X
			dot := v1.X*v2.X + v1.Y*v2.Y
			if math.Abs(cross) < Eps && dot > 0 {
				out[len(out)-1] = p
				continue
			}
		}
		out = append(out, p)
	}
	if len(out) == 1 {
		out = append(out, points[len(points)-1])
	}
	return out
}
