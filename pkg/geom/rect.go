package geom

// Rect represents an axis-aligned rectangle.
// X and Y are the top-left corner; W and H are dimensions.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"width"`
	H float64 `json:"height"`
}

// R creates a new Rect with the given position and dimensions.
func R(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// RectAt creates a Rect with its top-left corner at p and the given size.
func RectAt(p Point, s Size) Rect {
	return Rect{X: p.X, Y: p.Y, W: s.W, H: s.H}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Min returns the top-left corner.
func (r Rect) Min() Point { return Point{X: r.X, Y: r.Y} }

// Max returns the bottom-right corner.
func (r Rect) Max() Point { return Point{X: r.Right(), Y: r.Bottom()} }

// Center returns the center point.
func (r Rect) Center() Point { return Point{X: r.X + r.W/2, Y: r.Y + r.H/2} }

// Size returns the dimensions of r.
func (r Rect) Size() Size { return Size{W: r.W, H: r.H} }

// At returns the point at fractional offsets (fx, fy) within r, where
// (0, 0) is the top-left corner and (1, 1) the bottom-right corner.
func (r Rect) At(fx, fy float64) Point {
	return Point{X: r.X + fx*r.W, Y: r.Y + fy*r.H}
}

// IsEmpty returns true if the rectangle has zero or negative area.
func (r Rect) IsEmpty() bool {
	return r.W <= 0 || r.H <= 0
}

// Area returns the area of the rectangle.
func (r Rect) Area() float64 {
	if r.IsEmpty() {
		return 0
	}
	return r.W * r.H
}

// Contains returns true if p lies inside r or on its boundary.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X-Eps && p.X <= r.Right()+Eps && p.Y >= r.Y-Eps && p.Y <= r.Bottom()+Eps
}

// ContainsInterior returns true if p lies strictly inside r.
func (r Rect) ContainsInterior(p Point) bool {
	return p.X > r.X+Eps && p.X < r.Right()-Eps && p.Y > r.Y+Eps && p.Y < r.Bottom()-Eps
}

// ContainsRect returns true if the other rectangle is fully contained within this rectangle.
func (r Rect) ContainsRect(other Rect) bool {
	return other.X >= r.X-Eps && other.Y >= r.Y-Eps &&
		other.Right() <= r.Right()+Eps && other.Bottom() <= r.Bottom()+Eps
}

// Inset returns a new Rect inset by the given Edges.
// Positive values shrink the rectangle; the result never has negative size.
func (r Rect) Inset(e Edges) Rect {
	return Rect{
		X: r.X + e.Left,
		Y: r.Y + e.Top,
		W: max(0, r.W-e.Horizontal()),
		H: max(0, r.H-e.Vertical()),
	}
}

// Outset returns a new Rect expanded outward by the given Edges.
func (r Rect) Outset(e Edges) Rect {
	return Rect{
		X: r.X - e.Left,
		Y: r.Y - e.Top,
		W: r.W + e.Horizontal(),
		H: r.H + e.Vertical(),
	}
}

// Expand returns r grown by d on every side.
func (r Rect) Expand(d float64) Rect {
	return r.Outset(EdgeAll(d))
}

// Translate returns a new Rect moved by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, W: r.W, H: r.H}
}

// Intersect returns the intersection of two rectangles.
// If the rectangles don't overlap, returns an empty Rect.
func (r Rect) Intersect(other Rect) Rect {
	x := max(r.X, other.X)
	y := max(r.Y, other.Y)
	right := min(r.Right(), other.Right())
	bottom := min(r.Bottom(), other.Bottom())
	if right-x <= 0 || bottom-y <= 0 {
		return Rect{}
	}
	return Rect{X: x, Y: y, W: right - x, H: bottom - y}
}

// Intersects returns true if the two rectangles overlap.
// Touching edges do not count as overlapping.
func (r Rect) Intersects(other Rect) bool {
	return r.Intersect(other).Area() > Eps
}

// Union returns the smallest rectangle that contains both rectangles.
// If either rectangle is the zero Rect, returns the other rectangle.
func (r Rect) Union(other Rect) Rect {
	if r == (Rect{}) {
		return other
	}
	if other == (Rect{}) {
		return r
	}
	x := min(r.X, other.X)
	y := min(r.Y, other.Y)
	right := max(r.Right(), other.Right())
	bottom := max(r.Bottom(), other.Bottom())
	return Rect{X: x, Y: y, W: right - x, H: bottom - y}
}
