package anchor

import (
	"strings"

	"github.com/matzehuels/boxarrow/pkg/geom"
)

// Position names one of the nine implicit anchors every item exposes.
type Position string

const (
	TopLeft      Position = "top-left"
	TopCenter    Position = "top-center"
	TopRight     Position = "top-right"
	Left         Position = "left"
	Center       Position = "center"
	Right        Position = "right"
	BottomLeft   Position = "bottom-left"
	BottomCenter Position = "bottom-center"
	BottomRight  Position = "bottom-right"
)

// Positions lists the implicit anchors in row-major order.
var Positions = []Position{
	TopLeft, TopCenter, TopRight,
	Left, Center, Right,
	BottomLeft, BottomCenter, BottomRight,
}

var aliases = map[string]Position{
	"center-left":  Left,
	"center-right": Right,
	"middle":       Center,
}

// ParsePosition parses a position name. Underscores are accepted in place of
// dashes, and center-left/center-right are accepted for left/right.
func ParsePosition(name string) (Position, bool) {
	name = strings.ReplaceAll(strings.ToLower(name), "_", "-")
	if p, ok := aliases[name]; ok {
		return p, true
	}
	for _, p := range Positions {
		if string(p) == name {
			return p, true
		}
	}
	return "", false
}

// Fraction returns the relative offset of the position within a rectangle:
// 0, 0.5 or 1 on each axis.
func (p Position) Fraction() (fx, fy float64) {
	switch p {
	case TopLeft:
		return 0, 0
	case TopCenter:
		return 0.5, 0
	case TopRight:
		return 1, 0
	case Left:
		return 0, 0.5
	case Right:
		return 1, 0.5
	case BottomLeft:
		return 0, 1
	case BottomCenter:
		return 0.5, 1
	case BottomRight:
		return 1, 1
	default:
		return 0.5, 0.5
	}
}

// Direction returns the preferred axis for a path leaving the anchor. Edge
// midpoints leave perpendicular to their edge; corners and the center have
// no preference.
func (p Position) Direction() geom.Axis {
	switch p {
	case Left, Right:
		return geom.AxisHorizontal
	case TopCenter, BottomCenter:
		return geom.AxisVertical
	default:
		return geom.AxisNone
	}
}

// On returns the position's coordinate on the border box r.
func (p Position) On(r geom.Rect) geom.Point {
	return r.At(p.Fraction())
}
