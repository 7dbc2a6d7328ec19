package pipeline

import (
	"context"
	"io"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/boxarrow/pkg/cache"
	"github.com/matzehuels/boxarrow/pkg/config"
	"github.com/matzehuels/boxarrow/pkg/errors"
	"github.com/matzehuels/boxarrow/pkg/geom"
	"github.com/matzehuels/boxarrow/pkg/observability"
	"github.com/matzehuels/boxarrow/pkg/render/sink"
	"github.com/matzehuels/boxarrow/pkg/schematic"
)

func quietRunner(c cache.Cache) *Runner {
	return NewRunner(c, nil, log.NewWithOptions(io.Discard, log.Options{}))
}

func pair() *schematic.Spec {
	gap := 20.0
	return &schematic.Spec{Type: schematic.TypeHorizontal, Gap: &gap, Children: []*schematic.Spec{
		schematic.Box("a", 40, 20),
		schematic.Box("b", 40, 20),
		schematic.Link("a.right", "b.left", "straight"),
	}}
}

// through has a straight link from a to c that passes through b.
func through() *schematic.Spec {
	return &schematic.Spec{Type: schematic.TypeHorizontal, Children: []*schematic.Spec{
		schematic.Box("a", 10, 10),
		schematic.Box("b", 10, 10),
		schematic.Box("c", 10, 10),
		schematic.Link("a.right", "c.left", "straight"),
	}}
}

func TestFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Optimizer.MaxRounds = 3
	cfg.Optimizer.Weights.Crossing = 7
	cfg.Routing.Clearance = 2
	cfg.Wrap.Columns = 120
	cfg.Wrap.Layouts = map[string]float64{"main": 80}
	cfg.Defaults.Gap = 4

	opts := FromConfig(cfg)
	if !opts.Optimize || opts.Optimizer.MaxRounds != 3 {
		t.Errorf("optimizer = %v/%d", opts.Optimize, opts.Optimizer.MaxRounds)
	}
	if opts.Optimizer.Weights.Crossing != 7 || opts.Optimizer.Route.Clearance != 2 {
		t.Errorf("weights/route not copied: %+v %+v", opts.Optimizer.Weights, opts.Optimizer.Route)
	}
	if opts.Wrap.Columns != 120 || opts.Wrap.ByID["main"] != 80 || opts.DefaultGap != 4 {
		t.Errorf("wrap/defaults not copied: %+v gap=%v", opts.Wrap, opts.DefaultGap)
	}
	if !slices.Equal(opts.Formats, []string{sink.FormatSVG}) {
		t.Errorf("formats = %v", opts.Formats)
	}

	cfg.Optimizer.MaxRounds = 0
	if got := FromConfig(cfg).Optimizer.MaxRounds; got >= 0 {
		t.Errorf("max_rounds = 0 should disable the search, got %d", got)
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		formats []string
		wantErr bool
	}{
		{nil, false},
		{[]string{"svg", "json", "dot"}, false},
		{[]string{"svg", "bmp"}, true},
		{[]string{"SVG"}, true},
	}
	for _, tt := range tests {
		opts := Options{Formats: tt.formats}
		err := opts.Validate()
		if (err != nil) != tt.wantErr {
			t.Errorf("Validate(%v) error = %v, wantErr %v", tt.formats, err, tt.wantErr)
		}
		if err == nil && len(opts.Formats) == 0 {
			t.Errorf("Validate(%v) left no formats", tt.formats)
		}
	}
}

func TestOutputKeyOptsTrackConfiguration(t *testing.T) {
	a, b := DefaultOptions(), DefaultOptions()
	b.Optimizer.Route.BendWeight++
	k := cache.NewDefaultKeyer()
	if k.OutputKey("h", a.OutputKeyOpts()) == k.OutputKey("h", b.OutputKeyOpts()) {
		t.Error("routing weights do not affect the output key")
	}
	fresh := DefaultOptions()
	if k.OutputKey("h", a.OutputKeyOpts()) != k.OutputKey("h", fresh.OutputKeyOpts()) {
		t.Error("output key is not stable")
	}
}

func TestResolve(t *testing.T) {
	res, err := quietRunner(nil).Resolve(context.Background(), pair(), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if !res.Score.Clean() {
		t.Errorf("score = %v, want clean", res.Score)
	}
	if res.Stats.Items != 2 || res.Stats.Links != 1 {
		t.Errorf("stats = %+v", res.Stats)
	}

	out := res.Output()
	if out.Bounds != geom.R(0, 0, 100, 20) {
		t.Errorf("bounds = %v", out.Bounds)
	}
	b, ok := out.Item("b")
	if !ok || b.Border != geom.R(60, 0, 40, 20) {
		t.Errorf("b = %+v", b)
	}
	if len(out.Anchors) != 18 {
		t.Errorf("anchors = %d, want 18", len(out.Anchors))
	}
	if a, _ := out.Anchor("a.right"); a.At != geom.Pt(40, 10) {
		t.Errorf("a.right = %v", a.At)
	}
	if len(out.Links) != 1 || !slices.Equal(out.Links[0].Points, []geom.Point{geom.Pt(40, 10), geom.Pt(60, 10)}) {
		t.Errorf("links = %+v", out.Links)
	}
}

func TestResolveWithoutOptimizer(t *testing.T) {
	opts := DefaultOptions()
	opts.Optimize = false
	res, err := quietRunner(nil).Resolve(context.Background(), through(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if res.Report != nil {
		t.Error("report set with optimizer disabled")
	}
	if res.Score.Crossings != 1 {
		t.Errorf("crossings = %d, want the input configuration", res.Score.Crossings)
	}
	if out := res.Output(); out.Score.Rounds != 0 || out.Items[0].ID != "a" {
		t.Errorf("output = %+v", out.Score)
	}
}

func TestResolveOptimizes(t *testing.T) {
	res, err := quietRunner(nil).Resolve(context.Background(), through(), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if res.Report == nil || len(res.Report.Accepted) == 0 {
		t.Fatalf("report = %+v", res.Report)
	}
	if !res.Score.Clean() {
		t.Errorf("score = %v, want clean", res.Score)
	}
	out := res.Output()
	if out.Score.Accepted != len(res.Report.Accepted) || out.Score.Rounds != res.Stats.Rounds {
		t.Errorf("score = %+v", out.Score)
	}
}

func TestResolveFatalErrors(t *testing.T) {
	cyclic := schematic.Box("loop", 0, 0)
	cyclic.Children = []*schematic.Spec{cyclic}

	tests := []struct {
		name string
		spec *schematic.Spec
		code errors.Code
	}{
		{"duplicate", schematic.Container(schematic.TypeVertical,
			schematic.Box("a", 1, 1), schematic.Box("a", 1, 1)), errors.ErrCodeDuplicateID},
		{"unknown", schematic.Container(schematic.TypeVertical,
			schematic.Box("a", 1, 1), schematic.Link("a.left", "b.right", "straight")), errors.ErrCodeUnknownID},
		{"bad anchor", schematic.Container(schematic.TypeVertical,
			schematic.Box("a", 1, 1), schematic.Link("a.north", "a.left", "straight")), errors.ErrCodeInvalidAnchorReference},
		{"cycle", cyclic, errors.ErrCodeCyclicStructure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := quietRunner(nil).Execute(context.Background(), tt.spec, DefaultOptions())
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestResolveWarnings(t *testing.T) {
	spec := schematic.Container(schematic.TypeVertical, schematic.Box("a", 1, 1), schematic.Break(), schematic.Box("b", 1, 1))
	res, err := quietRunner(nil).Resolve(context.Background(), spec, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Warnings) != 1 || len(res.Output().Warnings) != 1 {
		t.Errorf("warnings = %v", res.Warnings)
	}
}

func TestResolveDefaults(t *testing.T) {
	opts := DefaultOptions()
	opts.DefaultMargin = 5
	res, err := quietRunner(nil).Resolve(context.Background(), pair(), opts)
	if err != nil {
		t.Fatal(err)
	}
	out := res.Output()
	if a, _ := out.Item("a"); a.Border != geom.R(5, 5, 40, 20) {
		t.Errorf("a = %v", a.Border)
	}
	if b, _ := out.Item("b"); b.Border != geom.R(75, 5, 40, 20) {
		t.Errorf("b = %v", b.Border)
	}
}

func TestOutputNesting(t *testing.T) {
	spec := schematic.Container(schematic.TypeVertical,
		schematic.Box("outer", 0, 0,
			schematic.Container(schematic.TypeHorizontal, schematic.Box("inner", 10, 10))),
		schematic.Anchor("p", 3, 4),
	)
	res, err := quietRunner(nil).Resolve(context.Background(), spec, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	out := res.Output()
	if len(out.Items) != 2 || out.Items[0].ID != "outer" {
		t.Fatalf("items = %+v", out.Items)
	}
	inner := out.Items[1]
	if inner.Parent != "outer" || inner.Depth != 1 {
		t.Errorf("inner = %+v", inner)
	}
	p, ok := out.Anchor("p")
	if !ok || !p.Standalone || p.At != geom.Pt(3, 4) {
		t.Errorf("p = %+v", p)
	}
	if a, _ := out.Anchor("outer.center"); a.Standalone {
		t.Error("implicit anchor marked standalone")
	}
}

func TestExecuteCaches(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := quietRunner(fc)
	defer runner.Close()

	opts := DefaultOptions()
	opts.Formats = []string{sink.FormatSVG, sink.FormatJSON, sink.FormatDOT}
	ctx := context.Background()

	first, err := runner.Execute(ctx, pair(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheInfo.OutputHit || first.CacheInfo.RenderHit || first.Result == nil {
		t.Errorf("first run = %+v", first.CacheInfo)
	}
	if len(first.Artifacts) != 3 {
		t.Errorf("artifacts = %d", len(first.Artifacts))
	}

	second, err := runner.Execute(ctx, pair(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.OutputHit || !second.CacheInfo.RenderHit || second.Result != nil {
		t.Errorf("second run = %+v", second.CacheInfo)
	}
	for f, data := range first.Artifacts {
		if string(second.Artifacts[f]) != string(data) {
			t.Errorf("%s artifact differs between runs", f)
		}
	}

	opts.Refresh = true
	third, err := runner.Execute(ctx, pair(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheInfo.OutputHit || third.CacheInfo.RenderHit {
		t.Errorf("refresh run = %+v", third.CacheInfo)
	}
}

func TestHashSpec(t *testing.T) {
	a, err := HashSpec(pair())
	if err != nil {
		t.Fatal(err)
	}
	b, _ := HashSpec(pair())
	c, _ := HashSpec(through())
	if a != b || a == c {
		t.Errorf("hashes: %s %s %s", a, b, c)
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	mu       sync.Mutex
	stages   []string
	complete []error
}

func (h *recordingHooks) OnStage(_ context.Context, stage string, _ time.Duration, _ error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stages = append(h.stages, stage)
}

func (h *recordingHooks) OnResolveComplete(_ context.Context, _ time.Duration, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.complete = append(h.complete, err)
}

func TestResolveHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetPipelineHooks(hooks)
	t.Cleanup(observability.Reset)

	opts := DefaultOptions()
	opts.Optimize = false
	if _, err := quietRunner(nil).Resolve(context.Background(), pair(), opts); err != nil {
		t.Fatal(err)
	}
	want := []string{observability.StageBuild, observability.StageLayout, observability.StageAnchors, observability.StageRoute}
	if !slices.Equal(hooks.stages, want) {
		t.Errorf("stages = %v, want %v", hooks.stages, want)
	}

	bad := schematic.Container(schematic.TypeVertical, schematic.Box("a", 1, 1), schematic.Box("a", 1, 1))
	if _, err := quietRunner(nil).Resolve(context.Background(), bad, opts); err == nil {
		t.Fatal("expected error")
	}
	if len(hooks.complete) != 2 || hooks.complete[0] != nil || hooks.complete[1] == nil {
		t.Errorf("complete = %v", hooks.complete)
	}
}
