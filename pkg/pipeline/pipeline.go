// Package pipeline resolves input trees into geometry and renders them.
//
// This package implements the build → layout → anchors → route → optimize
// pipeline used by the CLI and the HTTP server, so that both resolve the same
// tree to the same output.
//
// # Architecture
//
// Resolution runs in stages:
//
//  1. Build: convert the input tree into a schematic, apply configured
//     defaults and wrap thresholds, validate every link reference
//  2. Layout: size and place every box and layout
//  3. Anchors: compute the absolute coordinate of every anchor
//  4. Route: compute a path for every link
//  5. Optimize: perturb the configuration while the defect score improves
//
// When the optimizer is enabled stages 2-4 run inside it, once per
// candidate. Rendering is a separate step that consumes only the
// [render.Output] contract.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.FromConfig(cfg)
//	opts.Formats = []string{"svg"}
//	exec, err := runner.Execute(ctx, spec, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := exec.Artifacts["svg"]
//
// Resolve without caching to inspect the live schematic:
//
//	res, err := runner.Resolve(ctx, spec, opts)
//	out := res.Output()
package pipeline

import (
	"fmt"
	"time"

	"github.com/matzehuels/boxarrow/pkg/anchor"
	"github.com/matzehuels/boxarrow/pkg/cache"
	"github.com/matzehuels/boxarrow/pkg/config"
	"github.com/matzehuels/boxarrow/pkg/geom"
	"github.com/matzehuels/boxarrow/pkg/layout"
	"github.com/matzehuels/boxarrow/pkg/optimize"
	"github.com/matzehuels/boxarrow/pkg/render"
	"github.com/matzehuels/boxarrow/pkg/render/sink"
	"github.com/matzehuels/boxarrow/pkg/route"
	"github.com/matzehuels/boxarrow/pkg/schematic"
)

// Options contains all configuration for resolution and rendering.
type Options struct {
	// Optimize enables the place-and-route search. When disabled the input
	// configuration is resolved once and returned as is.
	Optimize  bool
	Optimizer optimize.Options

	// Wrap supplies thresholds for columns and rows without one.
	Wrap layout.WrapPolicy

	// Box-model defaults for nodes that leave them unset.
	DefaultMargin  float64
	DefaultPadding float64
	DefaultGap     float64

	// Formats lists the artifacts produced by Execute. Empty means SVG.
	Formats []string
	Render  sink.Options

	// Refresh bypasses cache lookups; results are still stored.
	Refresh bool
}

// DefaultOptions returns the built-in configuration with SVG output.
func DefaultOptions() Options {
	return FromConfig(config.Default())
}

// FromConfig derives pipeline options from a configuration.
func FromConfig(cfg *config.Config) Options {
	opt := optimize.DefaultOptions()
	opt.MaxRounds = cfg.Optimizer.MaxRounds
	if opt.MaxRounds == 0 {
		opt.MaxRounds = -1
	}
	opt.Workers = cfg.Optimizer.Workers
	opt.Weights = optimize.Weights{
		Overlap:  cfg.Optimizer.Weights.Overlap,
		Crossing: cfg.Optimizer.Weights.Crossing,
		Bend:     cfg.Optimizer.Weights.Bend,
		Slack:    cfg.Optimizer.Weights.Slack,
	}
	opt.Route = route.Options{
		LengthWeight:    cfg.Routing.LengthWeight,
		BendWeight:      cfg.Routing.BendWeight,
		DirectionWeight: cfg.Routing.DirectionWeight,
		Clearance:       cfg.Routing.Clearance,
		Resolution:      cfg.Routing.Resolution,
		Frame:           cfg.Routing.Frame,
		Workers:         cfg.Routing.Workers,
	}

	return Options{
		Optimize:  cfg.Optimizer.Enabled,
		Optimizer: opt,
		Wrap: layout.WrapPolicy{
			Columns: cfg.Wrap.Columns,
			Rows:    cfg.Wrap.Rows,
			ByID:    cfg.Wrap.Layouts,
		},
		DefaultMargin:  cfg.Defaults.Margin,
		DefaultPadding: cfg.Defaults.Padding,
		DefaultGap:     cfg.Defaults.Gap,
		Formats:        []string{sink.FormatSVG},
		Render:         sink.DefaultOptions(),
	}
}

// Validate checks the requested formats, defaulting to SVG.
func (o *Options) Validate() error {
	if len(o.Formats) == 0 {
		o.Formats = []string{sink.FormatSVG}
	}
	for _, f := range o.Formats {
		if err := sink.ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// buildOptions returns the schematic defaults derived from o.
func (o *Options) buildOptions() []schematic.Option {
	return []schematic.Option{
		schematic.WithDefaultMargin(geom.EdgeAll(o.DefaultMargin)),
		schematic.WithDefaultPadding(geom.EdgeAll(o.DefaultPadding)),
		schematic.WithDefaultGap(o.DefaultGap),
	}
}

// OutputKeyOpts returns cache key options for resolution.
func (o *Options) OutputKeyOpts() cache.OutputKeyOpts {
	w, r := o.Optimizer.Weights, o.Optimizer.Route
	return cache.OutputKeyOpts{
		MaxRounds:     o.Optimizer.MaxRounds,
		Optimize:      o.Optimize,
		Weights:       [4]float64{w.Overlap, w.Crossing, w.Bend, w.Slack},
		LengthWeight:  r.LengthWeight,
		BendWeight:    r.BendWeight,
		Direction:     r.DirectionWeight,
		Clearance:     r.Clearance,
		Resolution:    r.Resolution,
		Frame:         r.Frame,
		WrapColumns:   o.Wrap.Columns,
		WrapRows:      o.Wrap.Rows,
		WrapByID:      o.Wrap.ByID,
		DefaultMargin: o.DefaultMargin,
		DefaultPad:    o.DefaultPadding,
		DefaultGap:    o.DefaultGap,
	}
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format: format,
		Labels: o.Render.Labels,
		Grid:   o.Render.Grid,
		Scale:  o.Render.Scale,
	}
}

// Result is a live resolution: the schematic with its final geometry plus
// everything derived from it.
type Result struct {
	Schematic *schematic.Schematic
	Anchors   *anchor.Set
	Routes    *route.Result
	Score     optimize.Defects
	// Report is the optimizer's account of the search; nil when the
	// optimizer is disabled.
	Report *optimize.Report
	// Warnings lists recoverable problems: ignored breaks and links drawn
	// straight because no orthogonal path existed.
	Warnings  []string
	InputHash string
	Stats     Stats
}

// Stats contains resolution statistics.
type Stats struct {
	Nodes        int
	Items        int
	Links        int
	Rounds       int
	BuildTime    time.Duration
	LayoutTime   time.Duration
	RouteTime    time.Duration
	OptimizeTime time.Duration
}

// Execution contains the outputs of a full resolve-and-render run.
type Execution struct {
	Output    *render.Output
	Artifacts map[string][]byte
	// Result is nil when the output came from the cache.
	Result    *Result
	CacheInfo CacheInfo
	Duration  time.Duration
}

// CacheInfo tracks cache hits for each stage.
type CacheInfo struct {
	OutputHit bool // whether the resolved output came from cache
	RenderHit bool // whether all artifacts came from cache
}

// Output returns the stable output contract of the resolution.
func (r *Result) Output() *render.Output {
	s := r.Schematic
	out := &render.Output{
		Version:  render.OutputVersion,
		Bounds:   layout.Bounds(s),
		Items:    []render.Item{},
		Anchors:  []render.Anchor{},
		Links:    []render.Link{},
		Warnings: r.Warnings,
		Score: &render.Score{
			Total:     r.Score.Total,
			Overlap:   r.Score.Overlap,
			Crossings: r.Score.Crossings,
			Bends:     r.Score.Bends,
			Slack:     r.Score.Slack,
		},
	}
	if r.Report != nil {
		out.Score.Rounds = len(r.Report.Rounds)
		out.Score.Accepted = len(r.Report.Accepted)
	}

	for _, h := range s.Items() {
		n := s.Node(h)
		item := render.Item{ID: n.ID, Label: n.Label, Border: n.Border, Attrs: n.Attrs}
		for _, a := range s.Ancestors(h) {
			p := s.Node(a)
			if !p.IsItem() {
				continue
			}
			if item.Depth == 0 {
				item.Parent = p.ID
			}
			item.Depth++
		}
		out.Items = append(out.Items, item)
	}

	if r.Anchors != nil {
		for _, a := range r.Anchors.All() {
			out.Anchors = append(out.Anchors, render.Anchor{
				Name:       a.Name,
				At:         a.At,
				Standalone: s.Node(a.Owner).Kind == schematic.KindAnchor,
			})
		}
	}

	if r.Routes != nil {
		for _, p := range r.Routes.Paths {
			n := s.Node(p.Link)
			out.Links = append(out.Links, render.Link{
				ID:       p.ID,
				From:     p.From,
				To:       p.To,
				Style:    string(p.Style),
				Points:   p.Points,
				Fallback: p.Fallback,
				Label:    n.Label,
				Attrs:    n.Attrs,
			})
		}
	}
	return out
}

// countSpecs returns the number of distinct nodes in an input tree. It
// tolerates cycles, which Build reports later.
func countSpecs(root *schematic.Spec) int {
	seen := make(map[*schematic.Spec]bool)
	var visit func(*schematic.Spec)
	visit = func(sp *schematic.Spec) {
		if sp == nil || seen[sp] {
			return
		}
		seen[sp] = true
		for _, c := range sp.Children {
			visit(c)
		}
	}
	visit(root)
	return len(seen)
}

func (s Stats) String() string {
	return fmt.Sprintf("%d items, %d links, %d rounds", s.Items, s.Links, s.Rounds)
}
