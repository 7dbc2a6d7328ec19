package layout

import (
	"github.com/matzehuels/boxarrow/pkg/geom"
	"github.com/matzehuels/boxarrow/pkg/schematic"
)

// Measure runs the sizing pass on the subtree rooted at h and returns its
// outer (margin-inclusive) size. Each container's border size is the larger
// of its explicit size and its content size plus padding, per axis, and is
// stored in Node.Intrinsic together with the group partition.
func (e *Engine) Measure(s *schematic.Schematic, h schematic.Handle) geom.Size {
	n := s.Node(h)
	if !inFlow(n) {
		n.Intrinsic = geom.Size{}
		n.Groups = nil
		return geom.Size{}
	}
	for _, c := range n.Children {
		e.Measure(s, c)
	}
	return e.measureSelf(s, h)
}

// measureSelf sizes h from its already measured children.
func (e *Engine) measureSelf(s *schematic.Schematic, h schematic.Handle) geom.Size {
	n := s.Node(h)
	n.Groups = Groups(s, h)

	axis := n.Flow.MainAxis()
	var mainLen, crossLen float64
	for i, g := range n.Groups {
		gm, gc := lineSize(s, g, n.Gap, axis)
		if n.Flow.Grouped() {
			mainLen = max(mainLen, gm)
			crossLen += gc
			if i > 0 {
				crossLen += n.Gap
			}
			continue
		}
		mainLen, crossLen = gm, gc
	}

	content := sizeOf(mainLen, crossLen, axis)
	n.Intrinsic = content.Grow(n.Padding).Max(geom.Size{W: n.Width, H: n.Height})
	return outerSize(n)
}

// lineSize returns the main-axis extent (sum of outer sizes plus gaps) and
// cross-axis extent (largest outer size) of one line of children.
func lineSize(s *schematic.Schematic, line []schematic.Handle, gap float64, axis geom.Axis) (mainLen, crossLen float64) {
	for i, c := range line {
		sz := outerSize(s.Node(c))
		mainLen += mainOf(sz, axis)
		if i > 0 {
			mainLen += gap
		}
		crossLen = max(crossLen, crossOf(sz, axis))
	}
	return mainLen, crossLen
}

// Groups partitions the in-flow children of h into lines. Vertical and
// horizontal flows always form a single line and ignore breaks. Columns and
// rows start a new group at every break and whenever adding the next child
// would push the current group's main-axis extent past the node's Wrap
// threshold. A child that alone exceeds the threshold gets a group of its
// own. Empty groups are dropped.
//
// Children must already be measured.
func Groups(s *schematic.Schematic, h schematic.Handle) [][]schematic.Handle {
	n := s.Node(h)
	axis := n.Flow.MainAxis()
	grouped := n.Flow.Grouped()

	var (
		groups [][]schematic.Handle
		cur    []schematic.Handle
		extent float64
	)
	flush := func() {
		if len(cur) > 0 {
			groups = append(groups, cur)
		}
		cur, extent = nil, 0
	}

	for _, c := range n.Children {
		cn := s.Node(c)
		if cn.Kind == schematic.KindBreak {
			if grouped {
				flush()
			}
			continue
		}
		if !inFlow(cn) {
			continue
		}
		step := mainOf(outerSize(cn), axis)
		if len(cur) > 0 {
			step += n.Gap
		}
		if grouped && n.Wrap > 0 && len(cur) > 0 && extent+step > n.Wrap+geom.Eps {
			flush()
			step = mainOf(outerSize(cn), axis)
		}
		cur = append(cur, c)
		extent += step
	}
	flush()
	return groups
}
