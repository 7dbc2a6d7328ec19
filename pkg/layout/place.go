package layout

import (
	"github.com/matzehuels/boxarrow/pkg/geom"
	"github.com/matzehuels/boxarrow/pkg/schematic"
)

// Place runs the positioning pass on the subtree rooted at h, given the
// outer rectangle its parent allocated. The subtree must have been measured.
//
// Children of one line are laid end to end along the main axis starting at
// the content box edge, separated by Gap. On the cross axis, Align positions
// each child inside the line's extent (start, center, end) or resizes it to
// fill the extent (stretch). Single-line flows use the whole content box as
// the line's cross extent. Columns and rows give each group the extent of
// its largest child and distribute the groups with Justify.
func (e *Engine) Place(s *schematic.Schematic, h schematic.Handle, outer geom.Rect) {
	n := s.Node(h)
	n.Outer = outer
	n.Border = outer.Inset(n.Margin)
	if !inFlow(n) || len(n.Groups) == 0 {
		return
	}

	axis := n.Flow.MainAxis()
	mainStart, crossStart, _, crossAvail := span(n.Content(), axis)

	if !n.Flow.Grouped() {
		e.placeLine(s, n, n.Groups[0], mainStart, crossStart, crossAvail, axis)
		return
	}

	extents := make([]float64, len(n.Groups))
	used := n.Gap * float64(len(n.Groups)-1)
	for i, g := range n.Groups {
		_, extents[i] = lineSize(s, g, n.Gap, axis)
		used += extents[i]
	}
	offset, between := justify(n.Justify, crossAvail-used, len(n.Groups))

	pos := crossStart + offset
	for i, g := range n.Groups {
		e.placeLine(s, n, g, mainStart, pos, extents[i], axis)
		pos += extents[i] + n.Gap + between
	}
}

func (e *Engine) placeLine(s *schematic.Schematic, n *schematic.Node, line []schematic.Handle, mainStart, crossStart, crossLen float64, axis geom.Axis) {
	pos := mainStart
	for _, c := range line {
		sz := outerSize(s.Node(c))
		childMain, childCross := mainOf(sz, axis), crossOf(sz, axis)

		var offset float64
		switch n.Align {
		case schematic.AlignCenter:
			offset = (crossLen - childCross) / 2
		case schematic.AlignEnd:
			offset = crossLen - childCross
		case schematic.AlignStretch:
			childCross = max(childCross, crossLen)
		}

		e.Place(s, c, rectOf(pos, crossStart+offset, childMain, childCross, axis))
		pos += childMain + n.Gap
	}
}

// justify returns the offset of the first group and the extra space inserted
// between consecutive groups for the given leftover secondary-axis space.
func justify(j schematic.Justify, leftover float64, groups int) (offset, between float64) {
	if leftover <= geom.Eps {
		return 0, 0
	}
	switch j {
	case schematic.JustifyCenter:
		return leftover / 2, 0
	case schematic.JustifyEnd:
		return leftover, 0
	case schematic.JustifySpace:
		if groups > 1 {
			return 0, leftover / float64(groups-1)
		}
	}
	return 0, 0
}
