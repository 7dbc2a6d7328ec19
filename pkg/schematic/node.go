package schematic

import (
	"maps"
	"slices"

	"github.com/matzehuels/boxarrow/pkg/geom"
)

// Input node types.
const (
	TypeBox        = "box"
	TypeAnchor     = "anchor"
	TypeLink       = "link"
	TypeBreak      = "break"
	TypeVertical   = "vertical"
	TypeHorizontal = "horizontal"
	TypeColumns    = "columns"
	TypeRows       = "rows"
)

// Kind classifies arena nodes.
type Kind uint8

const (
	// KindBox is a visual item: it is an obstacle for routing and exposes
	// the nine implicit anchors.
	KindBox Kind = iota
	// KindLayout is a non-visual arrangement container.
	KindLayout
	// KindAnchor is a standalone point with literal coordinates.
	KindAnchor
	// KindLink connects two anchor references.
	KindLink
	// KindBreak partitions the children of a columns or rows layout.
	KindBreak
)

func (k Kind) String() string {
	switch k {
	case KindBox:
		return TypeBox
	case KindLayout:
		return "layout"
	case KindAnchor:
		return TypeAnchor
	case KindLink:
		return TypeLink
	case KindBreak:
		return TypeBreak
	default:
		return "unknown"
	}
}

// Flow is the arrangement algorithm of a container.
type Flow string

const (
	FlowVertical   Flow = TypeVertical
	FlowHorizontal Flow = TypeHorizontal
	FlowColumns    Flow = TypeColumns
	FlowRows       Flow = TypeRows
)

// Grouped reports whether the flow partitions children into groups.
func (f Flow) Grouped() bool { return f == FlowColumns || f == FlowRows }

// MainAxis returns the axis along which consecutive children of one line
// (or one group) are placed. Columns stack children vertically inside each
// column; rows lay them out horizontally inside each row.
func (f Flow) MainAxis() geom.Axis {
	switch f {
	case FlowHorizontal, FlowRows:
		return geom.AxisHorizontal
	default:
		return geom.AxisVertical
	}
}

// Align is cross-axis placement of a child within its line.
type Align string

const (
	AlignStart   Align = "start"
	AlignCenter  Align = "center"
	AlignEnd     Align = "end"
	AlignStretch Align = "stretch"
)

// Aligns lists every align value in a fixed order.
var Aligns = []Align{AlignStart, AlignCenter, AlignEnd, AlignStretch}

// Justify is placement of groups along the secondary axis of columns and rows.
type Justify string

const (
	JustifyStart  Justify = "start"
	JustifyCenter Justify = "center"
	JustifyEnd    Justify = "end"
	JustifySpace  Justify = "space"
)

// Justifies lists every justify value in a fixed order.
var Justifies = []Justify{JustifyStart, JustifyCenter, JustifyEnd, JustifySpace}

// LinkStyle selects the routing algorithm of a link.
type LinkStyle string

const (
	StyleStraight   LinkStyle = "straight"
	StyleOrthogonal LinkStyle = "orthogonal"
)

// Node is one arena entry. Input fields are copied from the [Spec]; the
// resolved fields are written by the layout engine.
type Node struct {
	Kind  Kind
	ID    string
	Label string
	Attrs map[string]string

	Parent   Handle
	Children []Handle

	// Box model input. A zero Width or Height sizes that axis to content.
	Width, Height   float64
	Padding, Margin geom.Edges

	// Flow configuration of boxes and layouts. Align, Justify, Wrap and the
	// order of Children are the only fields the optimizer changes.
	Flow    Flow
	Align   Align
	Justify Justify
	Gap     float64
	Wrap    float64

	// Standalone anchors.
	Offset    geom.Point
	Direction geom.Axis

	// Links.
	From, To string
	Style    LinkStyle

	// Resolved geometry. Intrinsic is the border-box size from the measure
	// pass; Border is the final border box and may be larger when the
	// parent stretches the node. Outer adds the margin.
	Intrinsic geom.Size
	Border    geom.Rect
	Outer     geom.Rect
	Groups    [][]Handle
}

// IsItem reports whether the node is a visual item.
func (n *Node) IsItem() bool { return n.Kind == KindBox }

// IsContainer reports whether the node arranges children.
func (n *Node) IsContainer() bool { return n.Kind == KindBox || n.Kind == KindLayout }

// TypeName returns the input type name of the node ("box", "columns", ...).
func (n *Node) TypeName() string {
	if n.Kind == KindLayout {
		return string(n.Flow)
	}
	return n.Kind.String()
}

// Content returns the content box: the border box minus padding.
func (n *Node) Content() geom.Rect {
	return n.Border.Inset(n.Padding)
}

func (n Node) clone() Node {
	n.Children = slices.Clone(n.Children)
	n.Attrs = maps.Clone(n.Attrs)
	if n.Groups != nil {
		groups := make([][]Handle, len(n.Groups))
		for i, g := range n.Groups {
			groups[i] = slices.Clone(g)
		}
		n.Groups = groups
	}
	return n
}
