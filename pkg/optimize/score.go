package optimize

import (
	"fmt"

	"github.com/matzehuels/boxarrow/pkg/anchor"
	"github.com/matzehuels/boxarrow/pkg/geom"
	"github.com/matzehuels/boxarrow/pkg/route"
	"github.com/matzehuels/boxarrow/pkg/schematic"
)

// Default defect weights.
const (
	DefaultOverlapWeight  = 1.0
	DefaultCrossingWeight = 50.0
	DefaultBendWeight     = 10.0
	DefaultSlackWeight    = 0.1
)

// Weights scales each defect term of the score.
type Weights struct {
	Overlap  float64 // per unit of overlapping area
	Crossing float64 // per link segment crossing an unrelated item
	Bend     float64 // per bend of an orthogonal link
	Slack    float64 // per unit of area added by stretching
}

// DefaultWeights returns the default defect weights.
func DefaultWeights() Weights {
	return Weights{
		Overlap:  DefaultOverlapWeight,
		Crossing: DefaultCrossingWeight,
		Bend:     DefaultBendWeight,
		Slack:    DefaultSlackWeight,
	}
}

// Defects is the breakdown of a defect score.
type Defects struct {
	Overlap   float64 // border-box area shared by items that do not contain each other
	Crossings int     // link segments passing through an unrelated item
	Bends     int     // bends summed over orthogonal links
	Slack     float64 // border-box area beyond the measured size of stretched items
	Total     float64 // weighted sum of the terms above
}

// Clean reports whether the score has no defects at all.
func (d Defects) Clean() bool { return d.Total <= geom.Eps }

func (d Defects) String() string {
	return fmt.Sprintf("%.2f (overlap %.2f, crossings %d, bends %d, slack %.2f)",
		d.Total, d.Overlap, d.Crossings, d.Bends, d.Slack)
}

// Score computes the defect score of a laid-out and routed schematic.
//
// Overlap only counts pairs of items where neither contains the other, since
// nesting is intended. A link segment counts as a crossing for every item it
// passes through that is neither an endpoint owner nor one of their
// ancestors. Slack counts items whose parent stretches them.
func Score(s *schematic.Schematic, paths []route.Path, w Weights) Defects {
	var d Defects
	items := s.Items()

	for i, a := range items {
		for _, b := range items[i+1:] {
			if s.Related(a, b) {
				continue
			}
			d.Overlap += s.Node(a).Border.Intersect(s.Node(b).Border).Area()
		}
		d.Slack += slack(s, a)
	}

	for _, p := range paths {
		if p.Style == schematic.StyleOrthogonal {
			d.Bends += p.Bends()
		}
		d.Crossings += crossings(s, items, p)
	}

	d.Total = w.Overlap*d.Overlap +
		w.Crossing*float64(d.Crossings) +
		w.Bend*float64(d.Bends) +
		w.Slack*d.Slack
	return d
}

func slack(s *schematic.Schematic, h schematic.Handle) float64 {
	p := s.Parent(h)
	if p == schematic.NoHandle || s.Node(p).Align != schematic.AlignStretch {
		return 0
	}
	n := s.Node(h)
	return max(n.Border.Area()-n.Intrinsic.W*n.Intrinsic.H, 0)
}

func crossings(s *schematic.Schematic, items []schematic.Handle, p route.Path) int {
	n := s.Node(p.Link)
	from, to := endpointOwner(s, n.From), endpointOwner(s, n.To)

	count := 0
	for _, h := range items {
		if excluded(s, h, from) || excluded(s, h, to) {
			continue
		}
		r := s.Node(h).Outer
		for i := 1; i < len(p.Points); i++ {
			if geom.SegmentCrossesInterior(p.Points[i-1], p.Points[i], r) {
				count++
			}
		}
	}
	return count
}

// endpointOwner returns the node a reference points into: the standalone
// anchor itself or the item carrying the implicit anchor.
func endpointOwner(s *schematic.Schematic, ref string) schematic.Handle {
	r, err := anchor.ParseRef(s, ref)
	if err != nil {
		return schematic.NoHandle
	}
	return r.Target
}

func excluded(s *schematic.Schematic, h, owner schematic.Handle) bool {
	if owner == schematic.NoHandle {
		return false
	}
	return h == owner || s.IsAncestor(h, owner)
}
