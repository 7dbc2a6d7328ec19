package anchor

import (
	"context"
	"testing"

	"github.com/matzehuels/boxarrow/pkg/errors"
	"github.com/matzehuels/boxarrow/pkg/geom"
	"github.com/matzehuels/boxarrow/pkg/layout"
	"github.com/matzehuels/boxarrow/pkg/schematic"
)

func laidOut(t *testing.T, root *schematic.Spec) *schematic.Schematic {
	t.Helper()
	s, err := schematic.Build(root)
	if err != nil {
		t.Fatal(err)
	}
	if err := (&layout.Engine{}).Run(context.Background(), s); err != nil {
		t.Fatal(err)
	}
	return s
}

func TestImplicitAnchors(t *testing.T) {
	m := &schematic.Spacing{Top: 10, Right: 10, Bottom: 10, Left: 10}
	s := laidOut(t, schematic.Container(schematic.TypeVertical,
		&schematic.Spec{Type: schematic.TypeBox, ID: "foo", Width: 40, Height: 20, Margin: m},
	))
	set, err := Resolve(s)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		ref  string
		want geom.Point
		dir  geom.Axis
	}{
		{"foo.top-left", geom.Pt(10, 10), geom.AxisNone},
		{"foo.top-center", geom.Pt(30, 10), geom.AxisVertical},
		{"foo.top-right", geom.Pt(50, 10), geom.AxisNone},
		{"foo.left", geom.Pt(10, 20), geom.AxisHorizontal},
		{"foo.center", geom.Pt(30, 20), geom.AxisNone},
		{"foo.right", geom.Pt(50, 20), geom.AxisHorizontal},
		{"foo.bottom-left", geom.Pt(10, 30), geom.AxisNone},
		{"foo.bottom-center", geom.Pt(30, 30), geom.AxisVertical},
		{"foo.bottom-right", geom.Pt(50, 30), geom.AxisNone},
		{"foo.center_left", geom.Pt(10, 20), geom.AxisHorizontal},
		{"foo.bottom_right", geom.Pt(50, 30), geom.AxisNone},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			p, err := set.Lookup(tt.ref)
			if err != nil {
				t.Fatal(err)
			}
			if !p.At.Eq(tt.want) {
				t.Errorf("At = %v, want %v", p.At, tt.want)
			}
			if p.Direction != tt.dir {
				t.Errorf("Direction = %v, want %v", p.Direction, tt.dir)
			}
		})
	}

	if set.Len() != len(Positions) {
		t.Errorf("Len = %d, want %d", set.Len(), len(Positions))
	}
}

func TestStandaloneAnchorFollowsContainer(t *testing.T) {
	pad := &schematic.Spacing{Top: 3, Right: 3, Bottom: 3, Left: 3}
	s := laidOut(t, schematic.Container(schematic.TypeVertical,
		schematic.Box("spacer", 10, 50),
		&schematic.Spec{Type: schematic.TypeBox, ID: "frame", Padding: pad, Children: []*schematic.Spec{
			{Type: schematic.TypeAnchor, ID: "p", X: 7, Y: 4, Direction: "vertical"},
		}},
		schematic.Anchor("q", 1, 2),
	))
	set, err := Resolve(s)
	if err != nil {
		t.Fatal(err)
	}

	p, err := set.Lookup("p")
	if err != nil {
		t.Fatal(err)
	}
	if want := geom.Pt(10, 57); !p.At.Eq(want) {
		t.Errorf("p = %v, want %v", p.At, want)
	}
	if p.Direction != geom.AxisVertical {
		t.Errorf("p direction = %v", p.Direction)
	}

	q, err := set.Lookup("q")
	if err != nil {
		t.Fatal(err)
	}
	if want := geom.Pt(1, 2); !q.At.Eq(want) {
		t.Errorf("q = %v, want %v", q.At, want)
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	s := laidOut(t, schematic.Container(schematic.TypeHorizontal,
		schematic.Box("a", 10, 10), schematic.Box("b", 20, 30), schematic.Anchor("c", 5, 5),
	))
	first, err := Resolve(s)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Resolve(s)
	if err != nil {
		t.Fatal(err)
	}
	a, b := first.All(), second.All()
	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("%s: %v vs %v", a[i].Name, a[i], b[i])
		}
	}
}

func TestParseRefErrors(t *testing.T) {
	s, err := schematic.Build(&schematic.Spec{Type: schematic.TypeVertical, ID: "root", Children: []*schematic.Spec{
		schematic.Box("foo", 1, 1),
		schematic.Box("group.box", 1, 1),
		schematic.Anchor("pin", 0, 0),
		{Type: schematic.TypeLink, ID: "wire", From: "foo.left", To: "pin"},
	}})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		ref  string
		code errors.Code
	}{
		{"foo.left", ""},
		{"group.box.right", ""},
		{"pin", ""},
		{"foo.Top_Left", ""},
		{"bar.left", errors.ErrCodeUnknownID},
		{"nothing", errors.ErrCodeUnknownID},
		{"foo.nowhere", errors.ErrCodeInvalidAnchorReference},
		{"foo", errors.ErrCodeInvalidAnchorReference},
		{"root.left", errors.ErrCodeInvalidAnchorReference},
		{"wire.left", errors.ErrCodeInvalidAnchorReference},
		{"pin.left", errors.ErrCodeInvalidAnchorReference},
		{"foo.", errors.ErrCodeUnknownID},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			_, err := ParseRef(s, tt.ref)
			if tt.code == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("got %v, want %s", err, tt.code)
			}
		})
	}
}

func TestValidateLinks(t *testing.T) {
	tests := []struct {
		name string
		link *schematic.Spec
		code errors.Code
	}{
		{"valid", schematic.Link("a.right", "b.left", "orthogonal"), ""},
		{"unknown target", schematic.Link("a.right", "ghost.left", "straight"), errors.ErrCodeUnknownID},
		{"bad position", schematic.Link("a.east", "b.left", "straight"), errors.ErrCodeInvalidAnchorReference},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := schematic.Build(schematic.Container(schematic.TypeVertical,
				schematic.Box("a", 1, 1), schematic.Box("b", 1, 1), tt.link))
			if err != nil {
				t.Fatal(err)
			}
			err = ValidateLinks(s)
			if tt.code == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("got %v, want %s", err, tt.code)
			}
		})
	}
}

func TestValidateLinksReportsOffendingID(t *testing.T) {
	s, err := schematic.Build(schematic.Container(schematic.TypeVertical,
		schematic.Box("a", 1, 1), schematic.Link("a.right", "ghost.left", "straight")))
	if err != nil {
		t.Fatal(err)
	}
	err = ValidateLinks(s)
	if id, _ := errors.Location(err); id != "ghost" {
		t.Errorf("location id = %q, want ghost", id)
	}
}
