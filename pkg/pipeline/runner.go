package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/boxarrow/pkg/anchor"
	"github.com/matzehuels/boxarrow/pkg/cache"
	bxio "github.com/matzehuels/boxarrow/pkg/io"
	"github.com/matzehuels/boxarrow/pkg/observability"
	"github.com/matzehuels/boxarrow/pkg/optimize"
	"github.com/matzehuels/boxarrow/pkg/render"
	"github.com/matzehuels/boxarrow/pkg/render/sink"
	"github.com/matzehuels/boxarrow/pkg/route"
	"github.com/matzehuels/boxarrow/pkg/schematic"
)

// Cache key types reported to the cache hooks.
const (
	keyTypeOutput   = "output"
	keyTypeArtifact = "artifact"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it so that caching behaves the same everywhere.
//
// The Runner is stateless except for the cache and logger: it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	// TTL overrides the lifetime of cache entries; zero keeps the defaults.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute resolves spec and renders every requested format, serving both
// steps from the cache when possible.
func (r *Runner) Execute(ctx context.Context, spec *schematic.Spec, opts Options) (*Execution, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	start := time.Now()

	out, res, hit, err := r.resolveCached(ctx, spec, opts)
	if err != nil {
		return nil, err
	}
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, out, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}

	exec := &Execution{
		Output:    out,
		Artifacts: artifacts,
		Result:    res,
		CacheInfo: CacheInfo{OutputHit: hit, RenderHit: renderHit},
		Duration:  time.Since(start),
	}
	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", hit && renderHit,
		"duration", exec.Duration)
	return exec, nil
}

// ResolveWithCacheInfo resolves spec to its output contract with caching and
// returns cache hit info.
func (r *Runner) ResolveWithCacheInfo(ctx context.Context, spec *schematic.Spec, opts Options) (*render.Output, bool, error) {
	out, _, hit, err := r.resolveCached(ctx, spec, opts)
	return out, hit, err
}

func (r *Runner) resolveCached(ctx context.Context, spec *schematic.Spec, opts Options) (*render.Output, *Result, bool, error) {
	inputHash, err := HashSpec(spec)
	if err != nil {
		// Unhashable trees are cyclic; Resolve reports them precisely.
		res, err := r.Resolve(ctx, spec, opts)
		if err != nil {
			return nil, nil, false, err
		}
		return res.Output(), res, false, nil
	}
	key := r.Keyer.OutputKey(inputHash, opts.OutputKeyOpts())
	hooks := observability.Cache()

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			out, err := bxio.ReadOutput(bytes.NewReader(data))
			if err == nil {
				hooks.OnCacheHit(ctx, keyTypeOutput)
				r.Logger.Debug("output cache hit", "key", key)
				return out, nil, true, nil
			}
			r.Logger.Warn("discarding unreadable cache entry", "key", key, "error", err)
		} else if err != nil {
			r.Logger.Warn("cache lookup failed", "error", err)
		}
	}
	hooks.OnCacheMiss(ctx, keyTypeOutput)

	res, err := r.Resolve(ctx, spec, opts)
	if err != nil {
		return nil, nil, false, err
	}
	res.InputHash = inputHash
	out := res.Output()

	var buf bytes.Buffer
	if err := bxio.WriteOutput(out, &buf); err == nil {
		if err := r.Cache.Set(ctx, key, buf.Bytes(), r.ttl(cache.TTLOutput)); err != nil {
			r.Logger.Warn("cache store failed", "error", err)
		} else {
			hooks.OnCacheSet(ctx, keyTypeOutput, buf.Len())
		}
	}
	return out, res, false, nil
}

// Resolve runs the full resolution of spec without touching the cache.
//
// Fatal errors (duplicate or unknown IDs, cycles, invalid anchor references)
// abort before any geometry is computed. Links that cannot be routed
// orthogonally are drawn straight and reported in Result.Warnings.
func (r *Runner) Resolve(ctx context.Context, spec *schematic.Spec, opts Options) (res *Result, err error) {
	hooks := observability.Pipeline()
	start := time.Now()
	hooks.OnResolveStart(ctx, countSpecs(spec))
	defer func() { hooks.OnResolveComplete(ctx, time.Since(start), err) }()

	res = &Result{}

	stageStart := time.Now()
	s, err := r.build(spec, opts)
	res.Stats.BuildTime = time.Since(stageStart)
	hooks.OnStage(ctx, observability.StageBuild, res.Stats.BuildTime, err)
	if err != nil {
		return nil, err
	}
	res.Schematic = s
	res.Stats.Nodes = s.Len()
	res.Stats.Items = len(s.Items())
	res.Stats.Links = len(s.Links())
	r.Logger.Debug("built schematic",
		"nodes", res.Stats.Nodes,
		"items", res.Stats.Items,
		"links", res.Stats.Links,
		"duration", res.Stats.BuildTime)

	if opts.Optimize {
		err = r.optimize(ctx, s, opts, res)
	} else {
		err = r.evaluate(ctx, s, opts, res)
	}
	if err != nil {
		return nil, err
	}

	res.Warnings = append(res.Warnings, s.Warnings()...)
	for _, w := range res.Routes.Warnings {
		res.Warnings = append(res.Warnings, w.Error())
	}
	for _, p := range res.Routes.Paths {
		if p.Fallback {
			hooks.OnRoutingFallback(ctx, p.From+" -> "+p.To)
		}
	}
	for _, w := range res.Warnings {
		r.Logger.Warn(w)
	}

	r.Logger.Info("resolved schematic",
		"items", res.Stats.Items,
		"links", res.Stats.Links,
		"score", res.Score.Total,
		"duration", time.Since(start))
	return res, nil
}

// build converts spec into a schematic, applies wrap thresholds and checks
// every link reference.
func (r *Runner) build(spec *schematic.Spec, opts Options) (*schematic.Schematic, error) {
	s, err := schematic.Build(spec, opts.buildOptions()...)
	if err != nil {
		return nil, err
	}
	if err := anchor.ValidateLinks(s); err != nil {
		return nil, err
	}
	opts.Wrap.Apply(s)
	return s, nil
}

// optimize runs the search; layout, anchors and routing happen inside it.
func (r *Runner) optimize(ctx context.Context, s *schematic.Schematic, opts Options, res *Result) error {
	hooks := observability.Pipeline()
	o := opts.Optimizer
	onRound := o.OnRound
	o.OnRound = func(round optimize.Round) {
		hooks.OnOptimizeRound(ctx, round.Index, round.Score.Total, round.Accepted != nil)
		if round.Accepted != nil {
			r.Logger.Debug("optimizer round", "round", round.Index, "accepted", round.Accepted.Edit, "score", round.Score.Total)
		} else {
			r.Logger.Debug("optimizer converged", "round", round.Index, "candidates", round.Candidates)
		}
		if onRound != nil {
			onRound(round)
		}
	}

	start := time.Now()
	report, err := optimize.Run(ctx, s, o)
	res.Stats.OptimizeTime = time.Since(start)
	hooks.OnStage(ctx, observability.StageOptimize, res.Stats.OptimizeTime, err)
	if err != nil {
		return fmt.Errorf("optimize: %w", err)
	}
	if report.Canceled {
		r.Logger.Warn("optimizer canceled, keeping best configuration so far", "rounds", len(report.Rounds))
	}

	res.Report = report
	res.Anchors = report.Evaluation.Anchors
	res.Routes = report.Evaluation.Routes
	res.Score = report.Final
	res.Stats.Rounds = len(report.Rounds)
	r.Logger.Debug("optimized configuration",
		"initial", report.Initial.Total,
		"final", report.Final.Total,
		"accepted", len(report.Accepted),
		"duration", res.Stats.OptimizeTime)
	return nil
}

// evaluate resolves the input configuration once, stage by stage.
func (r *Runner) evaluate(ctx context.Context, s *schematic.Schematic, opts Options, res *Result) error {
	hooks := observability.Pipeline()

	start := time.Now()
	err := opts.Optimizer.Layout.Run(ctx, s)
	res.Stats.LayoutTime = time.Since(start)
	hooks.OnStage(ctx, observability.StageLayout, res.Stats.LayoutTime, err)
	if err != nil {
		return fmt.Errorf("layout: %w", err)
	}

	start = time.Now()
	anchors, err := anchor.Resolve(s)
	hooks.OnStage(ctx, observability.StageAnchors, time.Since(start), err)
	if err != nil {
		return fmt.Errorf("anchors: %w", err)
	}

	start = time.Now()
	routes, err := route.New(opts.Optimizer.Route).Route(ctx, s, anchors)
	res.Stats.RouteTime = time.Since(start)
	hooks.OnStage(ctx, observability.StageRoute, res.Stats.RouteTime, err)
	if err != nil {
		return fmt.Errorf("routes: %w", err)
	}

	res.Anchors = anchors
	res.Routes = routes
	res.Score = optimize.Score(s, routes.Paths, opts.Optimizer.Weights)
	r.Logger.Debug("routed links",
		"links", len(routes.Paths),
		"fallbacks", len(routes.Warnings),
		"duration", res.Stats.RouteTime)
	return nil
}

// RenderWithCacheInfo renders every requested format with caching and
// returns whether all artifacts came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, out *render.Output, opts Options) (map[string][]byte, bool, error) {
	if err := opts.Validate(); err != nil {
		return nil, false, err
	}
	hooks := observability.Cache()

	var buf bytes.Buffer
	if err := bxio.WriteOutput(out, &buf); err != nil {
		return nil, false, fmt.Errorf("serialize output for cache key: %w", err)
	}
	outputHash := cache.Hash(buf.Bytes())

	artifacts := make(map[string][]byte, len(opts.Formats))
	allHit := true
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(outputHash, opts.ArtifactKeyOpts(format))
		if !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				hooks.OnCacheHit(ctx, keyTypeArtifact)
				artifacts[format] = data
				continue
			}
		}
		hooks.OnCacheMiss(ctx, keyTypeArtifact)
		allHit = false

		start := time.Now()
		data, err := sink.Render(ctx, out, format, opts.Render)
		observability.Pipeline().OnStage(ctx, observability.StageRender, time.Since(start), err)
		if err != nil {
			return nil, false, fmt.Errorf("%s: %w", format, err)
		}
		artifacts[format] = data

		if err := r.Cache.Set(ctx, key, data, r.ttl(cache.TTLArtifact)); err != nil {
			r.Logger.Warn("cache store failed", "format", format, "error", err)
		} else {
			hooks.OnCacheSet(ctx, keyTypeArtifact, len(data))
		}
	}
	return artifacts, allHit, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, out *render.Output, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, out, opts)
	return artifacts, err
}

func (r *Runner) ttl(def time.Duration) time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return def
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// HashSpec returns the content hash of an input tree. Trees that encode to
// the same JSON share a hash regardless of the source format.
func HashSpec(spec *schematic.Spec) (string, error) {
	data, err := json.Marshal(spec)
	if err != nil {
		return "", fmt.Errorf("hash input: %w", err)
	}
	return cache.Hash(data), nil
}
