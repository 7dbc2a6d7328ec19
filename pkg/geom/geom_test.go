package geom

import "testing"

func TestRectBoxModel(t *testing.T) {
	border := R(10, 20, 100, 50)
	margin := EdgeAll(5)
	padding := EdgeTRBL(1, 2, 3, 4)

	outer := border.Outset(margin)
	if outer != R(5, 15, 110, 60) {
		t.Errorf("Outset = %+v", outer)
	}
	if back := outer.Inset(margin); back != border {
		t.Errorf("Inset(Outset(r)) = %+v, want %+v", back, border)
	}

	content := border.Inset(padding)
	if content != R(14, 21, 94, 46) {
		t.Errorf("content = %+v", content)
	}

	if got := R(0, 0, 3, 3).Inset(EdgeAll(5)); got.W != 0 || got.H != 0 {
		t.Errorf("over-inset should clamp to zero size, got %+v", got)
	}
}

func TestRectIntersect(t *testing.T) {
	tests := []struct {
		name string
		a, b Rect
		want Rect
	}{
		{"overlap", R(0, 0, 10, 10), R(5, 5, 10, 10), R(5, 5, 5, 5)},
		{"touching edges", R(0, 0, 10, 10), R(10, 0, 10, 10), Rect{}},
		{"disjoint", R(0, 0, 10, 10), R(20, 20, 5, 5), Rect{}},
		{"contained", R(0, 0, 10, 10), R(2, 2, 3, 3), R(2, 2, 3, 3)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Intersect(tt.b); got != tt.want {
				t.Errorf("Intersect() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRectContains(t *testing.T) {
	r := R(0, 0, 10, 10)
	if !r.Contains(Pt(0, 0)) || !r.Contains(Pt(10, 10)) {
		t.Error("boundary points should be contained")
	}
	if r.ContainsInterior(Pt(0, 5)) {
		t.Error("boundary point should not be interior")
	}
	if !r.ContainsInterior(Pt(5, 5)) {
		t.Error("center should be interior")
	}
	if !r.ContainsRect(R(0, 0, 10, 10)) || r.ContainsRect(R(5, 5, 10, 1)) {
		t.Error("ContainsRect mismatch")
	}
}

func TestRectAt(t *testing.T) {
	r := R(10, 10, 20, 40)
	tests := []struct {
		fx, fy float64
		want   Point
	}{
		{0, 0, Pt(10, 10)},
		{0.5, 0, Pt(20, 10)},
		{1, 0.5, Pt(30, 30)},
		{1, 1, Pt(30, 50)},
	}
	for _, tt := range tests {
		if got := r.At(tt.fx, tt.fy); !got.Eq(tt.want) {
			t.Errorf("At(%v,%v) = %v, want %v", tt.fx, tt.fy, got, tt.want)
		}
	}
}

func TestSegmentCrossesInterior(t *testing.T) {
	box := R(10, 10, 10, 10)
	tests := []struct {
		name string
		a, b Point
		want bool
	}{
		{"through middle", Pt(0, 15), Pt(30, 15), true},
		{"along top edge", Pt(0, 10), Pt(30, 10), false},
		{"along left edge", Pt(10, 0), Pt(10, 30), false},
		{"stops at boundary", Pt(0, 15), Pt(10, 15), false},
		{"miss", Pt(0, 5), Pt(30, 5), false},
		{"diagonal through", Pt(0, 0), Pt(30, 30), true},
		{"corner touch", Pt(0, 20), Pt(10, 10), false},
		{"starts inside", Pt(15, 15), Pt(15, 40), true},
		{"zero length inside", Pt(15, 15), Pt(15, 15), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SegmentCrossesInterior(tt.a, tt.b, box); got != tt.want {
				t.Errorf("SegmentCrossesInterior(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestBendsAndSimplify(t *testing.T) {
	path := []Point{Pt(0, 0), Pt(5, 0), Pt(10, 0), Pt(10, 0), Pt(10, 10), Pt(20, 10)}
	simple := Simplify(path)
	want := []Point{Pt(0, 0), Pt(10, 0), Pt(10, 10), Pt(20, 10)}
	if len(simple) != len(want) {
		t.Fatalf("Simplify() = %v, want %v", simple, want)
	}
	for i := range want {
		if !simple[i].Eq(want[i]) {
			t.Errorf("Simplify()[%d] = %v, want %v", i, simple[i], want[i])
		}
	}
	if got := Bends(path); got != 2 {
		t.Errorf("Bends() = %d, want 2", got)
	}
	if got := PathLength(simple); got != 30 {
		t.Errorf("PathLength() = %v, want 30", got)
	}
}

func TestSegmentAxis(t *testing.T) {
	if SegmentAxis(Pt(0, 0), Pt(5, 0)) != AxisHorizontal {
		t.Error("expected horizontal")
	}
	if SegmentAxis(Pt(0, 0), Pt(0, 5)) != AxisVertical {
		t.Error("expected vertical")
	}
	if SegmentAxis(Pt(0, 0), Pt(5, 5)) != AxisNone {
		t.Error("expected none for diagonal")
	}
}
