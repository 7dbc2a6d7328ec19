package route

import (
	"context"
	"slices"
	"testing"

	"github.com/matzehuels/boxarrow/pkg/anchor"
	"github.com/matzehuels/boxarrow/pkg/errors"
	"github.com/matzehuels/boxarrow/pkg/geom"
	"github.com/matzehuels/boxarrow/pkg/layout"
	"github.com/matzehuels/boxarrow/pkg/schematic"
)

func prepare(t *testing.T, root *schematic.Spec) (*schematic.Schematic, *anchor.Set) {
	t.Helper()
	s, err := schematic.Build(root)
	if err != nil {
		t.Fatal(err)
	}
	if err := anchor.ValidateLinks(s); err != nil {
		t.Fatal(err)
	}
	if err := (&layout.Engine{}).Run(context.Background(), s); err != nil {
		t.Fatal(err)
	}
	set, err := anchor.Resolve(s)
	if err != nil {
		t.Fatal(err)
	}
	return s, set
}

func outer(t *testing.T, s *schematic.Schematic, id string) geom.Rect {
	t.Helper()
	h, err := s.Lookup(id)
	if err != nil {
		t.Fatal(err)
	}
	return s.Node(h).Outer
}

func assertOrthogonal(t *testing.T, pts []geom.Point) {
	t.Helper()
	for i := 1; i < len(pts); i++ {
		if geom.SegmentAxis(pts[i-1], pts[i]) == geom.AxisNone {
			t.Errorf("segment %v-%v is not axis-aligned", pts[i-1], pts[i])
		}
	}
}

func assertAvoids(t *testing.T, pts []geom.Point, r geom.Rect) {
	t.Helper()
	for i := 1; i < len(pts); i++ {
		if geom.SegmentCrossesInterior(pts[i-1], pts[i], r) {
			t.Errorf("segment %v-%v crosses %v", pts[i-1], pts[i], r)
		}
	}
}

// detour places bar left of and below foo with mid between them.
func detour(style string) *schematic.Spec {
	return &schematic.Spec{Type: schematic.TypeHorizontal, Children: []*schematic.Spec{
		schematic.Container(schematic.TypeVertical, schematic.Box("spacer", 40, 60), schematic.Box("bar", 40, 30)),
		schematic.Box("mid", 40, 100),
		schematic.Container(schematic.TypeVertical, schematic.Box("foo", 40, 30)),
		schematic.Link("foo.right", "bar.left", style),
	}}
}

func TestOrthogonalAvoidsInterveningBox(t *testing.T) {
	s, set := prepare(t, detour("orthogonal"))
	res, err := New(DefaultOptions()).Route(context.Background(), s, set)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Paths) != 1 || len(res.Warnings) != 0 {
		t.Fatalf("paths %d warnings %v", len(res.Paths), res.Warnings)
	}

	p := res.Paths[0]
	if p.Fallback {
		t.Fatal("unexpected fallback")
	}
	if p.Bends() < 1 {
		t.Errorf("bends = %d, want at least 1: %v", p.Bends(), p.Points)
	}
	if !p.Points[0].Eq(geom.Pt(120, 15)) || !p.Points[len(p.Points)-1].Eq(geom.Pt(0, 75)) {
		t.Errorf("endpoints = %v", p.Points)
	}
	assertOrthogonal(t, p.Points)
	assertAvoids(t, p.Points, outer(t, s, "mid"))
	assertAvoids(t, p.Points, outer(t, s, "spacer"))
}

func TestStraightIgnoresObstacles(t *testing.T) {
	s, set := prepare(t, detour("straight"))
	res, err := New(DefaultOptions()).Route(context.Background(), s, set)
	if err != nil {
		t.Fatal(err)
	}
	want := []geom.Point{geom.Pt(120, 15), geom.Pt(0, 75)}
	if !slices.Equal(res.Paths[0].Points, want) {
		t.Errorf("points = %v, want %v", res.Paths[0].Points, want)
	}
}

func TestOrthogonalDirectWhenClear(t *testing.T) {
	gap := 20.0
	s, set := prepare(t, &schematic.Spec{Type: schematic.TypeHorizontal, Gap: &gap, Children: []*schematic.Spec{
		schematic.Box("a", 10, 10),
		schematic.Box("b", 10, 10),
		schematic.Link("a.right", "b.left", "orthogonal"),
	}})
	res, err := New(DefaultOptions()).Route(context.Background(), s, set)
	if err != nil {
		t.Fatal(err)
	}
	want := []geom.Point{geom.Pt(10, 5), geom.Pt(30, 5)}
	if got := res.Paths[0].Points; !slices.Equal(got, want) {
		t.Errorf("points = %v, want %v", got, want)
	}
}

func TestOrthogonalPrefersFewerBends(t *testing.T) {
	r := New(Options{LengthWeight: 1, BendWeight: 1000})
	from := anchor.Point{Name: "a", At: geom.Pt(0, 0)}
	to := anchor.Point{Name: "b", At: geom.Pt(100, 50)}
	pts, err := r.Orthogonal(from, to, nil)
	if err != nil {
		t.Fatal(err)
	}
	if geom.Bends(pts) != 1 {
		t.Errorf("bends = %d, want an L-shape: %v", geom.Bends(pts), pts)
	}
	// Both L-shapes cost the same; the one whose corner is reached first wins.
	want := []geom.Point{geom.Pt(0, 0), geom.Pt(0, 50), geom.Pt(100, 50)}
	if !slices.Equal(pts, want) {
		t.Errorf("points = %v, want %v", pts, want)
	}

	again, err := r.Orthogonal(from, to, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(pts, again) {
		t.Errorf("second run = %v, want %v", again, pts)
	}
}

func TestOrthogonalHonorsAnchorDirection(t *testing.T) {
	r := New(DefaultOptions())
	from := anchor.Point{Name: "a", At: geom.Pt(0, 0), Direction: geom.AxisVertical}
	to := anchor.Point{Name: "b", At: geom.Pt(100, 50), Direction: geom.AxisVertical}
	pts, err := r.Orthogonal(from, to, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := geom.SegmentAxis(pts[0], pts[1]); got != geom.AxisVertical {
		t.Errorf("first segment axis = %v, want vertical: %v", got, pts)
	}
	n := len(pts)
	if got := geom.SegmentAxis(pts[n-2], pts[n-1]); got != geom.AxisVertical {
		t.Errorf("last segment axis = %v, want vertical: %v", got, pts)
	}
}

func TestOrthogonalEnclosedIsUnreachable(t *testing.T) {
	ring := []geom.Rect{
		geom.R(0, 0, 100, 20),
		geom.R(0, 80, 100, 20),
		geom.R(0, 0, 20, 100),
		geom.R(80, 0, 20, 100),
	}
	r := New(DefaultOptions())
	_, err := r.Orthogonal(anchor.Point{Name: "in", At: geom.Pt(50, 50)}, anchor.Point{Name: "out", At: geom.Pt(200, 200)}, ring)
	if !errors.Is(err, errors.ErrCodeRoutingUnreachable) {
		t.Fatalf("expected ROUTING_UNREACHABLE, got %v", err)
	}
}

func TestRouteFallsBackToStraight(t *testing.T) {
	s, err := schematic.Build(&schematic.Spec{Type: schematic.TypeVertical, Children: []*schematic.Spec{
		schematic.Box("top", 1, 1),
		schematic.Box("bottom", 1, 1),
		schematic.Box("left", 1, 1),
		schematic.Box("right", 1, 1),
		schematic.Box("far", 1, 1),
		schematic.Anchor("in", 50, 50),
		schematic.Link("in", "far.center", "orthogonal"),
	}})
	if err != nil {
		t.Fatal(err)
	}
	if err := (&layout.Engine{}).Run(context.Background(), s); err != nil {
		t.Fatal(err)
	}
	ring := map[string]geom.Rect{
		"top":    geom.R(0, 0, 100, 20),
		"bottom": geom.R(0, 80, 100, 20),
		"left":   geom.R(0, 0, 20, 100),
		"right":  geom.R(80, 0, 20, 100),
		"far":    geom.R(200, 200, 10, 10),
	}
	for id, r := range ring {
		h, _ := s.Lookup(id)
		s.Node(h).Outer, s.Node(h).Border = r, r
	}
	set, err := anchor.Resolve(s)
	if err != nil {
		t.Fatal(err)
	}

	res, err := New(DefaultOptions()).Route(context.Background(), s, set)
	if err != nil {
		t.Fatal(err)
	}
	p := res.Paths[0]
	if !p.Fallback {
		t.Fatal("expected fallback")
	}
	if want := Straight(geom.Pt(50, 50), geom.Pt(205, 205)); !slices.Equal(p.Points, want) {
		t.Errorf("points = %v, want %v", p.Points, want)
	}
	if len(res.Warnings) != 1 || !errors.Is(res.Warnings[0], errors.ErrCodeRoutingUnreachable) {
		t.Errorf("warnings = %v", res.Warnings)
	}
}

func TestOrthogonalExitsFromInsideObstacle(t *testing.T) {
	gap := 30.0
	s, set := prepare(t, &schematic.Spec{Type: schematic.TypeHorizontal, Gap: &gap, Children: []*schematic.Spec{
		schematic.Box("a", 20, 20),
		schematic.Box("b", 20, 20),
		schematic.Link("a.center", "b.center", "orthogonal"),
	}})
	res, err := New(DefaultOptions()).Route(context.Background(), s, set)
	if err != nil {
		t.Fatal(err)
	}
	p := res.Paths[0]
	if p.Fallback {
		t.Fatal("unexpected fallback")
	}
	if !p.Points[0].Eq(geom.Pt(10, 10)) || !p.Points[len(p.Points)-1].Eq(geom.Pt(60, 10)) {
		t.Errorf("endpoints = %v", p.Points)
	}
	assertOrthogonal(t, p.Points)
}

func TestObstaclesSkipContainers(t *testing.T) {
	s, _ := prepare(t, schematic.Container(schematic.TypeVertical,
		&schematic.Spec{Type: schematic.TypeBox, ID: "outer", Margin: &schematic.Spacing{Top: 5, Right: 5, Bottom: 5, Left: 5}, Children: []*schematic.Spec{
			schematic.Box("inner", 10, 10),
		}},
		&schematic.Spec{Type: schematic.TypeBox, ID: "other", Width: 10, Height: 10, Margin: &schematic.Spacing{Top: 2, Right: 2, Bottom: 2, Left: 2}},
	))
	inner, _ := s.Lookup("inner")
	other, _ := s.Lookup("other")

	obs := Obstacles(s, inner, other)
	if len(obs) != 2 {
		t.Fatalf("obstacles = %v, want inner and other only", obs)
	}
	if obs[0] != s.Node(inner).Border {
		t.Errorf("endpoint item should use its border box, got %v", obs[0])
	}
	if obs[1] != s.Node(other).Border {
		t.Errorf("endpoint item should use its border box, got %v", obs[1])
	}

	root := s.Root()
	obs = Obstacles(s, root, root)
	if len(obs) != 3 || obs[2] != s.Node(other).Outer {
		t.Errorf("unrelated items should use outer rects: %v", obs)
	}
}

func TestRouteIsDeterministic(t *testing.T) {
	spec := func() *schematic.Spec {
		return &schematic.Spec{Type: schematic.TypeRows, Wrap: 120, Children: []*schematic.Spec{
			schematic.Box("a", 30, 20), schematic.Box("b", 40, 30), schematic.Box("c", 30, 20),
			schematic.Box("d", 50, 25), schematic.Box("e", 20, 40), schematic.Box("f", 30, 30),
			schematic.Link("a.bottom-center", "f.top-center", "orthogonal"),
			schematic.Link("b.right", "d.left", "orthogonal"),
			schematic.Link("c.bottom-right", "e.top-left", "orthogonal"),
			schematic.Link("e.center", "a.center", "straight"),
		}}
	}

	s1, set1 := prepare(t, spec())
	s2, set2 := prepare(t, spec())

	seq, err := New(DefaultOptions()).Route(context.Background(), s1, set1)
	if err != nil {
		t.Fatal(err)
	}
	opts := DefaultOptions()
	opts.Workers = 4
	par, err := New(opts).Route(context.Background(), s2, set2)
	if err != nil {
		t.Fatal(err)
	}
	again, err := New(opts).Route(context.Background(), s2, set2)
	if err != nil {
		t.Fatal(err)
	}

	for i := range seq.Paths {
		if !slices.Equal(seq.Paths[i].Points, par.Paths[i].Points) {
			t.Errorf("link %d: sequential %v, parallel %v", i, seq.Paths[i].Points, par.Paths[i].Points)
		}
		if !slices.Equal(par.Paths[i].Points, again.Paths[i].Points) {
			t.Errorf("link %d: second run %v differs from %v", i, again.Paths[i].Points, par.Paths[i].Points)
		}
	}
}

func TestRouteCanceled(t *testing.T) {
	s, set := prepare(t, detour("orthogonal"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New(DefaultOptions()).Route(ctx, s, set); err == nil {
		t.Fatal("expected context error")
	}
}
