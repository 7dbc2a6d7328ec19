package layout

import "github.com/matzehuels/boxarrow/pkg/schematic"

// WrapPolicy supplies automatic-wrap thresholds for columns and rows that do
// not declare one. A zero threshold disables automatic wrapping, so only
// explicit breaks start a new group.
type WrapPolicy struct {
	Columns float64            // default main-axis limit of each column
	Rows    float64            // default main-axis limit of each row
	ByID    map[string]float64 // per-container limits, keyed by container ID
}

// Apply writes thresholds into every grouped container whose Wrap is unset.
// Thresholds declared in the input tree always win.
func (p WrapPolicy) Apply(s *schematic.Schematic) {
	for _, h := range s.Containers() {
		n := s.Node(h)
		if !n.Flow.Grouped() || n.Wrap > 0 {
			continue
		}
		if w, ok := p.ByID[n.ID]; ok && n.ID != "" {
			n.Wrap = w
			continue
		}
		switch n.Flow {
		case schematic.FlowColumns:
			n.Wrap = p.Columns
		case schematic.FlowRows:
			n.Wrap = p.Rows
		}
	}
}
