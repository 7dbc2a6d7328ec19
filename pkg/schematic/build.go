package schematic

import (
	"github.com/matzehuels/boxarrow/pkg/errors"
	"github.com/matzehuels/boxarrow/pkg/geom"
)

// Option configures [Build].
type Option func(*buildOptions)

type buildOptions struct {
	margin  geom.Edges
	padding geom.Edges
	gap     float64
}

// WithDefaultMargin sets the margin of boxes that do not declare one.
func WithDefaultMargin(e geom.Edges) Option {
	return func(o *buildOptions) { o.margin = e }
}

// WithDefaultPadding sets the padding of boxes that do not declare one.
func WithDefaultPadding(e geom.Edges) Option {
	return func(o *buildOptions) { o.padding = e }
}

// WithDefaultGap sets the gap of containers that do not declare one.
func WithDefaultGap(gap float64) Option {
	return func(o *buildOptions) { o.gap = gap }
}

// Build validates the input tree and loads it into a new arena. All
// structural checks happen here, before any geometry is computed:
//   - DUPLICATE_ID when two nodes share an ID
//   - CYCLIC_STRUCTURE when a node contains itself, directly or transitively
//   - INVALID_INPUT for unknown types, bad attribute values, or children on
//     nodes that cannot hold them
//
// Link endpoints are not checked here; see anchor.ValidateLinks.
func Build(root *Spec, opts ...Option) (*Schematic, error) {
	if root == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "empty schematic")
	}
	var o buildOptions
	for _, opt := range opts {
		opt(&o)
	}

	b := &builder{
		s:       New(),
		opts:    o,
		onStack: make(map[*Spec]bool),
		seen:    make(map[*Spec]bool),
	}
	h, err := b.add(root)
	if err != nil {
		return nil, err
	}
	if n := b.s.Node(h); !n.IsContainer() {
		return nil, errors.New(errors.ErrCodeInvalidInput, "root must be a box or layout").At(n.ID, n.TypeName())
	}
	b.s.SetRoot(h)
	return b.s, nil
}

type builder struct {
	s       *Schematic
	opts    buildOptions
	onStack map[*Spec]bool
	seen    map[*Spec]bool
}

func (b *builder) add(sp *Spec) (Handle, error) {
	if b.onStack[sp] {
		return NoHandle, errors.New(errors.ErrCodeCyclicStructure, "%s contains itself", typeOf(sp)).At(sp.ID, typeOf(sp))
	}
	if b.seen[sp] {
		return NoHandle, errors.New(errors.ErrCodeInvalidInput, "%s appears more than once in the tree", typeOf(sp)).At(sp.ID, typeOf(sp))
	}
	b.seen[sp] = true
	b.onStack[sp] = true
	defer delete(b.onStack, sp)

	n, err := b.node(sp)
	if err != nil {
		return NoHandle, err
	}
	h := b.s.Add(n)
	if sp.ID != "" {
		if err := b.s.Register(sp.ID, h); err != nil {
			return NoHandle, err
		}
	}

	if len(sp.Children) > 0 && !n.IsContainer() {
		return NoHandle, errors.New(errors.ErrCodeInvalidInput, "%s cannot have children", n.TypeName()).At(n.ID, n.TypeName())
	}
	for _, child := range sp.Children {
		if child == nil {
			return NoHandle, errors.New(errors.ErrCodeInvalidInput, "nil child").At(n.ID, n.TypeName())
		}
		ch, err := b.add(child)
		if err != nil {
			return NoHandle, err
		}
		if err := b.s.AddChild(h, ch); err != nil {
			return NoHandle, err
		}
		if c := b.s.Node(ch); c.Kind == KindBreak && !b.s.Node(h).Flow.Grouped() {
			b.s.Warnf("break inside %s %q is ignored; breaks only apply to columns and rows", b.s.Node(h).TypeName(), n.ID)
		}
	}
	return h, nil
}

func typeOf(sp *Spec) string {
	if sp.Type == "" {
		return "layout"
	}
	return sp.Type
}

func (b *builder) node(sp *Spec) (Node, error) {
	n := Node{ID: sp.ID, Label: sp.Label, Attrs: sp.Attrs}
	invalid := func(format string, args ...any) (Node, error) {
		return Node{}, errors.New(errors.ErrCodeInvalidInput, format, args...).At(sp.ID, typeOf(sp))
	}

	switch sp.Type {
	case TypeBox:
		n.Kind = KindBox
		n.Padding, n.Margin = b.opts.padding, b.opts.margin
		flow := sp.Layout
		if flow == "" {
			flow = TypeVertical
		}
		if !validFlow(flow) {
			return invalid("unknown layout %q", sp.Layout)
		}
		n.Flow = Flow(flow)
	case "", "layout", TypeVertical, TypeHorizontal, TypeColumns, TypeRows:
		n.Kind = KindLayout
		flow := sp.Type
		if flow == "" || flow == "layout" {
			flow = sp.Layout
		}
		if flow == "" {
			flow = TypeVertical
		}
		if !validFlow(flow) {
			return invalid("unknown layout %q", flow)
		}
		n.Flow = Flow(flow)
	case TypeAnchor:
		n.Kind = KindAnchor
		n.Offset = geom.Pt(sp.X, sp.Y)
		dir, ok := ParseDirection(sp.Direction)
		if !ok {
			return invalid("unknown anchor direction %q", sp.Direction)
		}
		n.Direction = dir
		return n, nil
	case TypeLink:
		n.Kind = KindLink
		if sp.From == "" || sp.To == "" {
			return invalid("link needs both from and to")
		}
		if err := errors.ValidateReference(sp.From); err != nil {
			return Node{}, errors.Wrap(errors.ErrCodeInvalidAnchorReference, err, "link from").At(sp.ID, TypeLink)
		}
		if err := errors.ValidateReference(sp.To); err != nil {
			return Node{}, errors.Wrap(errors.ErrCodeInvalidAnchorReference, err, "link to").At(sp.ID, TypeLink)
		}
		n.From, n.To = sp.From, sp.To
		switch LinkStyle(sp.Style) {
		case "", StyleStraight:
			n.Style = StyleStraight
		case StyleOrthogonal:
			n.Style = StyleOrthogonal
		default:
			return invalid("unknown link style %q", sp.Style)
		}
		return n, nil
	case TypeBreak:
		n.Kind = KindBreak
		return n, nil
	default:
		return invalid("unknown node type %q", sp.Type)
	}

	// Containers.
	if sp.Width < 0 || sp.Height < 0 {
		return invalid("negative size %gx%g", sp.Width, sp.Height)
	}
	n.Width, n.Height = sp.Width, sp.Height
	if sp.Padding != nil {
		n.Padding = sp.Padding.Edges()
	}
	if sp.Margin != nil {
		n.Margin = sp.Margin.Edges()
	}
	if negative(n.Padding) || negative(n.Margin) {
		return invalid("negative padding or margin")
	}

	n.Align = AlignStart
	if sp.Align != "" {
		a, ok := ParseAlign(sp.Align)
		if !ok {
			return invalid("unknown align %q", sp.Align)
		}
		n.Align = a
	}
	n.Justify = JustifyStart
	if sp.Justify != "" {
		j, ok := ParseJustify(sp.Justify)
		if !ok {
			return invalid("unknown justify %q", sp.Justify)
		}
		n.Justify = j
	}
	n.Gap = b.opts.gap
	if sp.Gap != nil {
		n.Gap = *sp.Gap
	}
	if n.Gap < 0 || sp.Wrap < 0 {
		return invalid("negative gap or wrap")
	}
	n.Wrap = sp.Wrap
	return n, nil
}

func negative(e geom.Edges) bool {
	return e.Top < 0 || e.Right < 0 || e.Bottom < 0 || e.Left < 0
}

func validFlow(s string) bool {
	switch Flow(s) {
	case FlowVertical, FlowHorizontal, FlowColumns, FlowRows:
		return true
	}
	return false
}

// ParseAlign parses an align value.
func ParseAlign(s string) (Align, bool) {
	for _, a := range Aligns {
		if string(a) == s {
			return a, true
		}
	}
	return "", false
}

// ParseJustify parses a justify value.
func ParseJustify(s string) (Justify, bool) {
	for _, j := range Justifies {
		if string(j) == s {
			return j, true
		}
	}
	return "", false
}

// ParseDirection parses the preferred exit axis of a standalone anchor.
// The empty string means no preference.
func ParseDirection(s string) (geom.Axis, bool) {
	switch s {
	case "", "none":
		return geom.AxisNone, true
	case "horizontal":
		return geom.AxisHorizontal, true
	case "vertical":
		return geom.AxisVertical, true
	}
	return geom.AxisNone, false
}
