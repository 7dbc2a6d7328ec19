package geom

import (
	"fmt"
	"math"
)

// Eps is the tolerance used for coordinate comparisons.
const Eps = 1e-9

// Point represents an (X, Y) coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Add returns a new Point offset by other.
func (p Point) Add(other Point) Point {
	return Point{X: p.X + other.X, Y: p.Y + other.Y}
}

// Sub returns a new Point with other subtracted.
func (p Point) Sub(other Point) Point {
	return Point{X: p.X - other.X, Y: p.Y - other.Y}
}

// Scale returns p with both coordinates multiplied by f.
func (p Point) Scale(f float64) Point {
	return Point{X: p.X * f, Y: p.Y * f}
}

// Eq reports whether p and other are equal within [Eps].
func (p Point) Eq(other Point) bool {
	return math.Abs(p.X-other.X) < Eps && math.Abs(p.Y-other.Y) < Eps
}

// Manhattan returns the L1 distance between p and other.
func (p Point) Manhattan(other Point) float64 {
	return math.Abs(p.X-other.X) + math.Abs(p.Y-other.Y)
}

// Dist returns the Euclidean distance between p and other.
func (p Point) Dist(other Point) float64 {
	return math.Hypot(p.X-other.X, p.Y-other.Y)
}

// In returns true if the point is inside the given rectangle (boundary included).
func (p Point) In(r Rect) bool {
	return r.Contains(p)
}

func (p Point) String() string {
	return fmt.Sprintf("(%g,%g)", p.X, p.Y)
}

// Size is a width/height pair.
type Size struct {
	W float64 `json:"width"`
	H float64 `json:"height"`
}

// Max returns the component-wise maximum of s and other.
func (s Size) Max(other Size) Size {
	return Size{W: max(s.W, other.W), H: max(s.H, other.H)}
}

// Grow returns s enlarged by the horizontal and vertical sums of e.
func (s Size) Grow(e Edges) Size {
	return Size{W: s.W + e.Horizontal(), H: s.H + e.Vertical()}
}

// Shrink returns s reduced by the horizontal and vertical sums of e,
// clamped at zero.
func (s Size) Shrink(e Edges) Size {
	return Size{W: max(0, s.W-e.Horizontal()), H: max(0, s.H-e.Vertical())}
}
