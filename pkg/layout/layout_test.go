package layout

import (
	"context"
	"slices"
	"testing"

	"github.com/matzehuels/boxarrow/pkg/geom"
	"github.com/matzehuels/boxarrow/pkg/schematic"
)

func resolve(t *testing.T, root *schematic.Spec) *schematic.Schematic {
	t.Helper()
	s, err := schematic.Build(root)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	var e Engine
	if err := e.Run(context.Background(), s); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return s
}

func border(t *testing.T, s *schematic.Schematic, id string) geom.Rect {
	t.Helper()
	h, err := s.Lookup(id)
	if err != nil {
		t.Fatal(err)
	}
	return s.Node(h).Border
}

func TestHorizontalCenter(t *testing.T) {
	root := &schematic.Spec{Type: schematic.TypeHorizontal, ID: "row", Align: "center", Children: []*schematic.Spec{
		schematic.Box("a", 50, 30),
		schematic.Box("b", 80, 20),
		schematic.Box("c", 30, 50),
	}}
	s := resolve(t, root)

	want := map[string]geom.Rect{
		"a": geom.R(0, 10, 50, 30),
		"b": geom.R(50, 15, 80, 20),
		"c": geom.R(130, 0, 30, 50),
	}
	for id, r := range want {
		if got := border(t, s, id); got != r {
			t.Errorf("%s = %v, want %v", id, got, r)
		}
	}
	if got := border(t, s, "row"); got != geom.R(0, 0, 160, 50) {
		t.Errorf("row = %v, want 160x50", got)
	}
}

func TestHorizontalWithMargins(t *testing.T) {
	m := &schematic.Spacing{Top: 5, Right: 5, Bottom: 5, Left: 5}
	root := schematic.Container(schematic.TypeHorizontal,
		&schematic.Spec{Type: schematic.TypeBox, ID: "a", Width: 50, Height: 30, Margin: m},
		&schematic.Spec{Type: schematic.TypeBox, ID: "b", Width: 80, Height: 20, Margin: m},
	)
	s := resolve(t, root)

	if got := border(t, s, "a"); got != geom.R(5, 5, 50, 30) {
		t.Errorf("a = %v", got)
	}
	if got := border(t, s, "b"); got != geom.R(65, 5, 80, 20) {
		t.Errorf("b = %v", got)
	}
	if got := Bounds(s); got != geom.R(0, 0, 150, 40) {
		t.Errorf("bounds = %v", got)
	}
}

func TestVerticalAlign(t *testing.T) {
	tests := []struct {
		align string
		want  float64 // x of the narrow box
	}{
		{"start", 0},
		{"center", 15},
		{"end", 30},
	}
	for _, tt := range tests {
		t.Run(tt.align, func(t *testing.T) {
			root := &schematic.Spec{Type: schematic.TypeVertical, Align: tt.align, Children: []*schematic.Spec{
				schematic.Box("wide", 40, 10),
				schematic.Box("narrow", 10, 10),
			}}
			s := resolve(t, root)
			if got := border(t, s, "narrow"); got != geom.R(tt.want, 10, 10, 10) {
				t.Errorf("narrow = %v", got)
			}
		})
	}
}

func TestStretchFillsCrossAxis(t *testing.T) {
	for _, typ := range []string{schematic.TypeVertical, schematic.TypeHorizontal} {
		t.Run(typ, func(t *testing.T) {
			root := &schematic.Spec{Type: typ, ID: "c", Align: "stretch", Children: []*schematic.Spec{
				schematic.Box("a", 10, 15),
				schematic.Box("b", 40, 40),
				schematic.Box("d", 25, 5),
			}}
			s := resolve(t, root)

			container := border(t, s, "c")
			for _, id := range []string{"a", "b", "d"} {
				r := border(t, s, id)
				if typ == schematic.TypeVertical && r.W != container.W {
					t.Errorf("%s width = %v, want %v", id, r.W, container.W)
				}
				if typ == schematic.TypeHorizontal && r.H != container.H {
					t.Errorf("%s height = %v, want %v", id, r.H, container.H)
				}
			}
		})
	}
}

func TestStretchInsideExplicitSize(t *testing.T) {
	root := &schematic.Spec{Type: schematic.TypeBox, ID: "outer", Width: 100, Align: "stretch", Children: []*schematic.Spec{
		{Type: schematic.TypeBox, ID: "inner", Margin: &schematic.Spacing{Left: 10, Right: 10}, Height: 5},
	}}
	s := resolve(t, root)

	if got := border(t, s, "inner"); got != geom.R(10, 0, 80, 5) {
		t.Errorf("inner = %v, want 80 wide after margins", got)
	}
	h, _ := s.Lookup("inner")
	if got := s.Node(h).Intrinsic; got != (geom.Size{W: 0, H: 5}) {
		t.Errorf("intrinsic = %v, stretch must not change it", got)
	}
}

func TestColumnsBreak(t *testing.T) {
	root := &schematic.Spec{Type: schematic.TypeColumns, ID: "cols", Children: []*schematic.Spec{
		schematic.Box("a", 10, 10),
		schematic.Box("b", 20, 20),
		schematic.Box("c", 15, 30),
		schematic.Break(),
		schematic.Box("d", 5, 40),
		schematic.Box("e", 25, 5),
	}}
	s := resolve(t, root)

	h, _ := s.Lookup("cols")
	groups := s.Node(h).Groups
	if len(groups) != 2 || len(groups[0]) != 3 || len(groups[1]) != 2 {
		t.Fatalf("groups = %v, want sizes 3 and 2", groups)
	}

	want := map[string]geom.Rect{
		"a": geom.R(0, 0, 10, 10),
		"b": geom.R(0, 10, 20, 20),
		"c": geom.R(0, 30, 15, 30),
		"d": geom.R(20, 0, 5, 40),
		"e": geom.R(20, 40, 25, 5),
	}
	for id, r := range want {
		if got := border(t, s, id); got != r {
			t.Errorf("%s = %v, want %v", id, got, r)
		}
	}
	if got := border(t, s, "cols"); got != geom.R(0, 0, 45, 60) {
		t.Errorf("cols = %v, want 45x60", got)
	}
}

func TestColumnsGroupExtentIndependent(t *testing.T) {
	build := func(second []*schematic.Spec) *schematic.Schematic {
		children := []*schematic.Spec{
			schematic.Box("a", 10, 10),
			schematic.Box("b", 10, 20),
			schematic.Box("c", 10, 30),
			schematic.Break(),
		}
		return resolve(t, &schematic.Spec{Type: schematic.TypeColumns, Children: append(children, second...)})
	}

	short := build([]*schematic.Spec{schematic.Box("d", 10, 1)})
	tall := build([]*schematic.Spec{schematic.Box("d", 10, 500), schematic.Box("e", 10, 500)})

	for _, id := range []string{"a", "b", "c"} {
		if border(t, short, id) != border(t, tall, id) {
			t.Errorf("%s moved when the second column changed", id)
		}
	}
}

func TestRowsWrap(t *testing.T) {
	gap := 10.0
	root := &schematic.Spec{Type: schematic.TypeRows, ID: "rows", Wrap: 100, Gap: &gap, Children: []*schematic.Spec{
		schematic.Box("a", 40, 10),
		schematic.Box("b", 40, 20),
		schematic.Box("c", 40, 10),
		schematic.Box("huge", 150, 10),
		schematic.Box("d", 10, 10),
	}}
	s := resolve(t, root)

	h, _ := s.Lookup("rows")
	var sizes []int
	for _, g := range s.Node(h).Groups {
		sizes = append(sizes, len(g))
	}
	if !slices.Equal(sizes, []int{2, 1, 1, 1}) {
		t.Fatalf("group sizes = %v, want [2 1 1 1]", sizes)
	}
	if got := border(t, s, "b"); got != geom.R(50, 0, 40, 20) {
		t.Errorf("b = %v", got)
	}
	if got := border(t, s, "c"); got != geom.R(0, 30, 40, 10) {
		t.Errorf("c = %v", got)
	}
}

func TestReorderWithinGroup(t *testing.T) {
	build := func(order []string) *schematic.Schematic {
		sizes := map[string][2]float64{"a": {30, 10}, "b": {50, 20}, "c": {10, 40}}
		var children []*schematic.Spec
		for _, id := range order {
			children = append(children, schematic.Box(id, sizes[id][0], sizes[id][1]))
		}
		children = append(children, schematic.Box("x", 70, 15), schematic.Box("y", 20, 5))
		return resolve(t, &schematic.Spec{Type: schematic.TypeRows, Wrap: 95, Align: "center", Children: children})
	}

	base := build([]string{"a", "b", "c"})
	for _, order := range [][]string{{"c", "b", "a"}, {"b", "a", "c"}, {"c", "a", "b"}} {
		other := build(order)
		for _, id := range []string{"x", "y"} {
			if border(t, base, id) != border(t, other, id) {
				t.Errorf("order %v moved %s: %v vs %v", order, id, border(t, base, id), border(t, other, id))
			}
		}
	}
}

func TestJustify(t *testing.T) {
	tests := []struct {
		justify string
		y1, y2  float64
	}{
		{"start", 0, 20},
		{"center", 25, 45},
		{"end", 50, 70},
		{"space", 0, 70},
	}
	for _, tt := range tests {
		t.Run(tt.justify, func(t *testing.T) {
			root := &schematic.Spec{Type: schematic.TypeRows, Height: 100, Justify: tt.justify, Children: []*schematic.Spec{
				schematic.Box("a", 10, 20),
				schematic.Break(),
				schematic.Box("b", 10, 30),
			}}
			s := resolve(t, root)
			if got := border(t, s, "a").Y; got != tt.y1 {
				t.Errorf("a.y = %v, want %v", got, tt.y1)
			}
			if got := border(t, s, "b").Y; got != tt.y2 {
				t.Errorf("b.y = %v, want %v", got, tt.y2)
			}
		})
	}
}

func TestJustifySpaceSingleGroup(t *testing.T) {
	root := &schematic.Spec{Type: schematic.TypeColumns, Width: 100, Justify: "space", Children: []*schematic.Spec{
		schematic.Box("a", 10, 20),
	}}
	s := resolve(t, root)
	if got := border(t, s, "a").X; got != 0 {
		t.Errorf("a.x = %v, want 0", got)
	}
}

func TestPaddingAndNesting(t *testing.T) {
	pad := &schematic.Spacing{Top: 5, Right: 5, Bottom: 5, Left: 5}
	root := schematic.Container(schematic.TypeVertical,
		schematic.Box("top", 30, 10),
		&schematic.Spec{Type: schematic.TypeBox, ID: "outer", Padding: pad, Layout: "horizontal", Children: []*schematic.Spec{
			schematic.Box("in1", 10, 10),
			schematic.Box("in2", 20, 5),
		}},
	)
	s := resolve(t, root)

	if got := border(t, s, "outer"); got != geom.R(0, 10, 40, 20) {
		t.Errorf("outer = %v, want 40x20 at y=10", got)
	}
	if got := border(t, s, "in1"); got != geom.R(5, 15, 10, 10) {
		t.Errorf("in1 = %v", got)
	}
	if got := border(t, s, "in2"); got != geom.R(15, 15, 20, 5) {
		t.Errorf("in2 = %v", got)
	}
}

func TestSizeInvariants(t *testing.T) {
	pad := &schematic.Spacing{Top: 1, Right: 2, Bottom: 3, Left: 4}
	root := schematic.Container(schematic.TypeVertical,
		&schematic.Spec{Type: schematic.TypeBox, ID: "small", Width: 10, Height: 10, Padding: pad, Children: []*schematic.Spec{
			schematic.Box("content", 50, 60),
		}},
		&schematic.Spec{Type: schematic.TypeBox, ID: "big", Width: 200, Height: 100, Children: []*schematic.Spec{
			schematic.Box("tiny", 5, 5),
		}},
		&schematic.Spec{Type: schematic.TypeBox, ID: "empty", Padding: pad},
		schematic.Container(schematic.TypeColumns),
	)
	s := resolve(t, root)

	if got := border(t, s, "small").Size(); got != (geom.Size{W: 56, H: 64}) {
		t.Errorf("small = %v, want content plus padding", got)
	}
	if got := border(t, s, "big").Size(); got != (geom.Size{W: 200, H: 100}) {
		t.Errorf("big = %v, want explicit size", got)
	}
	if got := border(t, s, "empty").Size(); got != (geom.Size{W: 6, H: 4}) {
		t.Errorf("empty = %v, want padding only", got)
	}
}

func TestAnchorsAndLinksTakeNoSpace(t *testing.T) {
	root := schematic.Container(schematic.TypeHorizontal,
		schematic.Box("a", 10, 10),
		schematic.Anchor("p", 100, 100),
		schematic.Link("a.right", "p", "straight"),
		schematic.Box("b", 10, 10),
	)
	s := resolve(t, root)
	if got := border(t, s, "b").X; got != 10 {
		t.Errorf("b.x = %v, want 10", got)
	}
}

func TestParallelMatchesSequential(t *testing.T) {
	spec := func() *schematic.Spec {
		return &schematic.Spec{Type: schematic.TypeColumns, Wrap: 50, Align: "center", Children: []*schematic.Spec{
			schematic.Box("a", 10, 20, schematic.Box("a1", 5, 5)),
			schematic.Box("b", 30, 25),
			schematic.Container(schematic.TypeHorizontal, schematic.Box("c", 7, 9), schematic.Box("d", 3, 4)),
			schematic.Box("e", 12, 40),
		}}
	}

	seq, err := schematic.Build(spec())
	if err != nil {
		t.Fatal(err)
	}
	par := seq.Clone()

	if err := (&Engine{}).Run(context.Background(), seq); err != nil {
		t.Fatal(err)
	}
	if err := (&Engine{Workers: 4}).Run(context.Background(), par); err != nil {
		t.Fatal(err)
	}
	for _, h := range seq.Items() {
		if seq.Node(h).Border != par.Node(h).Border {
			t.Errorf("%s: sequential %v, parallel %v", seq.Node(h).ID, seq.Node(h).Border, par.Node(h).Border)
		}
	}
}

func TestWrapPolicy(t *testing.T) {
	root := schematic.Container(schematic.TypeVertical,
		&schematic.Spec{Type: schematic.TypeColumns, ID: "c1"},
		&schematic.Spec{Type: schematic.TypeColumns, ID: "c2"},
		&schematic.Spec{Type: schematic.TypeRows, ID: "r1", Wrap: 7},
		&schematic.Spec{Type: schematic.TypeRows, ID: "r2"},
		&schematic.Spec{Type: schematic.TypeHorizontal, ID: "h"},
	)
	s, err := schematic.Build(root)
	if err != nil {
		t.Fatal(err)
	}
	WrapPolicy{Columns: 100, Rows: 200, ByID: map[string]float64{"c2": 42}}.Apply(s)

	want := map[string]float64{"c1": 100, "c2": 42, "r1": 7, "r2": 200, "h": 0}
	for id, w := range want {
		h, _ := s.Lookup(id)
		if got := s.Node(h).Wrap; got != w {
			t.Errorf("%s wrap = %v, want %v", id, got, w)
		}
	}
}
