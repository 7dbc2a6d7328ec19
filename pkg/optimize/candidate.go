package optimize

import (
	"fmt"

	"github.com/matzehuels/boxarrow/pkg/schematic"
)

// Wrap thresholds are scaled by these factors when perturbed.
const (
	wrapShrink = 0.8
	wrapGrow   = 1.25
)

// Candidate is one perturbation of a container's configuration. Candidates
// only touch child order, Align, Justify and Wrap; sizes, topology and link
// declarations are never changed.
type Candidate struct {
	Container schematic.Handle
	Edit      string // human-readable description, e.g. "swap a,b in main"
	// Distance is the number of configuration values the candidate changes.
	// A swap moves two children; any other edit changes one field.
	Distance int

	apply func(n *schematic.Node)
}

// Apply performs the perturbation on s. s must share the topology of the
// schematic the candidate was generated from.
func (c Candidate) Apply(s *schematic.Schematic) {
	c.apply(s.Node(c.Container))
}

// Candidates generates every single-step perturbation of s in a fixed order:
// containers in pre-order, and per container adjacent swaps of in-flow
// children, then the other align values, then the other justify values and
// finally the wrap adjustments of columns and rows.
func Candidates(s *schematic.Schematic) []Candidate {
	var out []Candidate
	for _, h := range s.Containers() {
		n := s.Node(h)
		flow := inFlowPositions(s, n)
		name := label(n, h)

		for k := 1; k < len(flow); k++ {
			i, j := flow[k-1], flow[k]
			a, b := s.Node(n.Children[i]), s.Node(n.Children[j])
			out = append(out, Candidate{
				Container: h,
				Edit:      fmt.Sprintf("swap %s,%s in %s", label(a, n.Children[i]), label(b, n.Children[j]), name),
				Distance:  2,
				apply: func(n *schematic.Node) {
					n.Children[i], n.Children[j] = n.Children[j], n.Children[i]
				},
			})
		}
		if len(flow) == 0 {
			continue
		}

		for _, a := range schematic.Aligns {
			if a == n.Align {
				continue
			}
			out = append(out, Candidate{
				Container: h,
				Edit:      fmt.Sprintf("align %s=%s", name, a),
				Distance:  1,
				apply:     func(n *schematic.Node) { n.Align = a },
			})
		}

		if !n.Flow.Grouped() {
			continue
		}
		for _, j := range schematic.Justifies {
			if j == n.Justify {
				continue
			}
			out = append(out, Candidate{
				Container: h,
				Edit:      fmt.Sprintf("justify %s=%s", name, j),
				Distance:  1,
				apply:     func(n *schematic.Node) { n.Justify = j },
			})
		}
		if n.Wrap > 0 {
			for _, f := range []float64{wrapShrink, wrapGrow} {
				w := n.Wrap * f
				out = append(out, Candidate{
					Container: h,
					Edit:      fmt.Sprintf("wrap %s=%g", name, w),
					Distance:  1,
					apply:     func(n *schematic.Node) { n.Wrap = w },
				})
			}
		}
	}
	return out
}

// inFlowPositions returns the indexes of n's children that take part in the
// arrangement. Breaks, anchors and links keep their positions.
func inFlowPositions(s *schematic.Schematic, n *schematic.Node) []int {
	var out []int
	for i, c := range n.Children {
		if s.Node(c).IsContainer() {
			out = append(out, i)
		}
	}
	return out
}

func label(n *schematic.Node, h schematic.Handle) string {
	if n.ID != "" {
		return n.ID
	}
	return fmt.Sprintf("%s#%d", n.TypeName(), h)
}
