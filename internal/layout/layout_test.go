package layout

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/1broseidon/stackwm/internal/platform"
	"github.com/1broseidon/stackwm/internal/stack"
)

func ids(n int) *stack.Stack[platform.Xid] {
	items := make([]platform.Xid, n)
	for i := range items {
		items[i] = platform.Xid(i + 1)
	}
	return stack.FromSlice(items, 0)
}

func rectsOf(ps []Placement) []platform.Rect {
	out := make([]platform.Rect, len(ps))
	for i, p := range ps {
		out[i] = p.Rect
	}
	return out
}

// recorder places every window at the full area it was given and remembers it.
type recorder struct {
	NoEmpty
	seen []platform.Rect
}

func (r *recorder) Name() string { return "recorder" }

func (r *recorder) Layout(s *stack.Stack[platform.Xid], area platform.Rect) (Transition, []Placement) {
	r.seen = append(r.seen, area)
	var ps []Placement
	for _, id := range s.Items() {
		ps = append(ps, Placement{ID: id, Rect: area})
	}
	return Unchanged, ps
}

func (r *recorder) HandleMessage(Message) Transition { return Unchanged }
func (r *recorder) Clone() Layout                    { return &recorder{} }

// swapper replaces itself with a monocle when it receives the string "swap".
type swapper struct{ NoEmpty }

func (swapper) Name() string { return "swapper" }
func (swapper) Layout(*stack.Stack[platform.Xid], platform.Rect) (Transition, []Placement) {
	return Unchanged, nil
}
func (swapper) HandleMessage(m Message) Transition {
	if v, ok := Payload[string](m); ok && v == "swap" {
		return Replace(&Monocle{})
	}
	return Unchanged
}
func (s swapper) Clone() Layout { return s }

func TestMainAndStackPlacements(t *testing.T) {
	l := NewMainAndStack()
	_, ps := l.Layout(ids(3), platform.Rect{X: 0, Y: 0, Width: 100, Height: 100})
	want := []platform.Rect{
		{X: 0, Y: 0, Width: 60, Height: 100},
		{X: 60, Y: 0, Width: 40, Height: 50},
		{X: 60, Y: 50, Width: 40, Height: 50},
	}
	if diff := cmp.Diff(want, rectsOf(ps)); diff != "" {
		t.Fatalf("placements mismatch (-want +got):\n%s", diff)
	}

	l.HandleMessage(Mirror())
	_, ps = l.Layout(ids(3), platform.Rect{X: 0, Y: 0, Width: 100, Height: 100})
	if got := ps[0].Rect; got != (platform.Rect{X: 40, Y: 0, Width: 60, Height: 100}) {
		t.Fatalf("mirrored main = %v", got)
	}
}

func TestMainAndStackFewerThanMain(t *testing.T) {
	l := NewMainAndStack()
	l.MaxMain = 3
	_, ps := l.Layout(ids(2), platform.Rect{X: 0, Y: 0, Width: 100, Height: 100})
	want := []platform.Rect{
		{X: 0, Y: 0, Width: 100, Height: 50},
		{X: 0, Y: 50, Width: 100, Height: 50},
	}
	if diff := cmp.Diff(want, rectsOf(ps)); diff != "" {
		t.Fatalf("placements mismatch (-want +got):\n%s", diff)
	}
}

func TestIncMainClampsAtOne(t *testing.T) {
	l := NewMainAndStack()
	l.HandleMessage(IncMain(-5))
	if l.MaxMain != 1 {
		t.Fatalf("MaxMain = %d, want 1", l.MaxMain)
	}
	l.HandleMessage(IncMain(3))
	l.HandleMessage(DecMain(1))
	if l.MaxMain != 3 {
		t.Fatalf("MaxMain = %d, want 3", l.MaxMain)
	}
}

func TestRatioClamps(t *testing.T) {
	l := NewMainAndStack()
	for i := 0; i < 20; i++ {
		l.HandleMessage(ExpandMain())
	}
	if l.Ratio != 1 {
		t.Fatalf("Ratio = %v, want 1", l.Ratio)
	}
	for i := 0; i < 40; i++ {
		l.HandleMessage(ShrinkMain())
	}
	if l.Ratio != 0 {
		t.Fatalf("Ratio = %v, want 0", l.Ratio)
	}
}

func TestRotateAndMirrorAreInvolutions(t *testing.T) {
	l := NewMainAndStack()
	orig := *l
	l.HandleMessage(Rotate())
	l.HandleMessage(Mirror())
	if !l.Bottom || !l.Mirrored {
		t.Fatalf("expected rotate and mirror to toggle flags")
	}
	l.HandleMessage(Rotate())
	l.HandleMessage(Mirror())
	if *l != orig {
		t.Fatalf("double application changed layout: %+v vs %+v", *l, orig)
	}
}

func TestGridPlacements(t *testing.T) {
	area := platform.Rect{X: 0, Y: 0, Width: 300, Height: 200}

	_, ps := (&Grid{}).Layout(ids(5), area)
	if len(ps) != 5 {
		t.Fatalf("expected 5 placements, got %d", len(ps))
	}
	if got := ps[4].Rect; got != (platform.Rect{X: 100, Y: 100, Width: 100, Height: 100}) {
		t.Fatalf("last cell = %v", got)
	}

	_, ps = (&Grid{FlexibleLastRow: true}).Layout(ids(5), area)
	if got := ps[4].Rect; got != (platform.Rect{X: 150, Y: 100, Width: 150, Height: 100}) {
		t.Fatalf("flexible last cell = %v", got)
	}
}

func TestCalculateGrid(t *testing.T) {
	tests := []struct {
		n, rows, cols int
	}{
		{0, 0, 0}, {1, 1, 1}, {2, 1, 2}, {4, 2, 2}, {5, 2, 3}, {10, 3, 4},
	}
	for _, tt := range tests {
		rows, cols := CalculateGrid(tt.n)
		if rows != tt.rows || cols != tt.cols {
			t.Fatalf("CalculateGrid(%d) = %d,%d want %d,%d", tt.n, rows, cols, tt.rows, tt.cols)
		}
	}
}

func TestMonoclePlacesOnlyFocus(t *testing.T) {
	s := ids(3)
	s.FocusDown()
	area := platform.Rect{X: 0, Y: 0, Width: 50, Height: 50}
	_, ps := (&Monocle{}).Layout(s, area)
	want := []Placement{{ID: 2, Rect: area}}
	if diff := cmp.Diff(want, ps); diff != "" {
		t.Fatalf("placements mismatch (-want +got):\n%s", diff)
	}
}

func TestGapsShrinksOuterThenInner(t *testing.T) {
	inner := &recorder{}
	g := NewGaps(inner, 5, 3)
	_, ps := g.Layout(ids(1), platform.Rect{X: 0, Y: 0, Width: 100, Height: 100})

	if diff := cmp.Diff([]platform.Rect{{X: 5, Y: 5, Width: 90, Height: 90}}, inner.seen); diff != "" {
		t.Fatalf("inner area mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]platform.Rect{{X: 8, Y: 8, Width: 84, Height: 84}}, rectsOf(ps)); diff != "" {
		t.Fatalf("placements mismatch (-want +got):\n%s", diff)
	}
}

func TestGapsSkipsDegenerateInsets(t *testing.T) {
	inner := &recorder{}
	g := NewGaps(inner, 50, 50)
	area := platform.Rect{X: 0, Y: 0, Width: 60, Height: 60}
	_, ps := g.Layout(ids(1), area)
	if inner.seen[0] != area {
		t.Fatalf("inner area = %v, want unchanged %v", inner.seen[0], area)
	}
	if ps[0].Rect != area {
		t.Fatalf("placement = %v, want unchanged %v", ps[0].Rect, area)
	}
}

func TestReflectHorizontal(t *testing.T) {
	l := ReflectHorizontal(NewMainAndStack())
	_, ps := l.Layout(ids(2), platform.Rect{X: 0, Y: 0, Width: 100, Height: 100})
	want := []platform.Rect{
		{X: 40, Y: 0, Width: 60, Height: 100},
		{X: 0, Y: 0, Width: 40, Height: 100},
	}
	if diff := cmp.Diff(want, rectsOf(ps)); diff != "" {
		t.Fatalf("placements mismatch (-want +got):\n%s", diff)
	}
}

func TestTransformersUnwrap(t *testing.T) {
	inner := NewMainAndStack()
	for _, l := range []Layout{NewGaps(inner, 1, 1), ReflectHorizontal(inner), ReflectVertical(inner)} {
		next, ok := l.HandleMessage(Unwrap()).Replacement()
		if !ok {
			t.Fatalf("%T: expected replacement on unwrap", l)
		}
		if next != Layout(inner) {
			t.Fatalf("%T: unwrap returned %T, want inner layout", l, next)
		}
	}
}

func TestTransformersForwardMessages(t *testing.T) {
	inner := NewMainAndStack()
	g := NewGaps(ReflectHorizontal(inner), 2, 2)
	g.HandleMessage(IncMain(2))
	if inner.MaxMain != 3 {
		t.Fatalf("MaxMain = %d, want 3", inner.MaxMain)
	}
}

func TestConditionalRoutesMessagesToLastChoice(t *testing.T) {
	wide := NewMainAndStack()
	narrow := NewMainAndStack()
	c := NewConditional("", narrow, wide, WhenNarrowerThan(1000))

	c.Layout(ids(2), platform.Rect{Width: 1920, Height: 1080})
	c.HandleMessage(IncMain(1))
	if wide.MaxMain != 2 || narrow.MaxMain != 1 {
		t.Fatalf("wide=%d narrow=%d, want message routed to wide", wide.MaxMain, narrow.MaxMain)
	}

	c.Layout(ids(2), platform.Rect{Width: 800, Height: 600})
	c.HandleMessage(IncMain(1))
	if wide.MaxMain != 2 || narrow.MaxMain != 2 {
		t.Fatalf("wide=%d narrow=%d, want message routed to narrow", wide.MaxMain, narrow.MaxMain)
	}

	next, ok := c.HandleMessage(Unwrap()).Replacement()
	if !ok || next != Layout(narrow) {
		t.Fatalf("unwrap should return the active branch")
	}
}

func TestZeroSizeRectDegradesGracefully(t *testing.T) {
	build := func() []Layout {
		return []Layout{
			NewMainAndStack(),
			&Grid{FlexibleLastRow: true},
			&Columns{},
			&Columns{Vertical: true},
			&Monocle{},
			NewGaps(NewMainAndStack(), 5, 3),
			ReflectHorizontal(&Grid{}),
			ReflectVertical(NewGaps(&Columns{}, 1, 1)),
			NewConditional("", &Monocle{}, NewMainAndStack(), WhenMoreThan(2)),
		}
	}
	areas := []platform.Rect{
		{X: 0, Y: 0, Width: 0, Height: 100},
		{X: 10, Y: 10, Width: 100, Height: 0},
		{X: 0, Y: 0, Width: 0, Height: 0},
	}
	for _, area := range areas {
		for _, l := range build() {
			_, ps := l.Layout(ids(4), area)
			for _, p := range ps {
				if p.Rect != area {
					t.Fatalf("%T on %v produced %v", l, area, p.Rect)
				}
			}
			_, ps = l.LayoutEmpty(area)
			if len(ps) != 0 {
				t.Fatalf("%T LayoutEmpty produced placements", l)
			}
		}
	}
}

func TestCycle(t *testing.T) {
	if _, err := NewCycle(); err != ErrNoLayouts {
		t.Fatalf("expected ErrNoLayouts, got %v", err)
	}

	a, b := NewMainAndStack(), NewMainAndStack()
	b.Label = "wide"
	c := MustCycle(a, b, &Monocle{})

	c.Previous()
	if c.Current().Name() != "monocle" {
		t.Fatalf("Previous should wrap to the last layout, got %s", c.Current().Name())
	}
	c.Next()
	c.Next()
	if c.Current().Name() != "wide" {
		t.Fatalf("current = %s, want wide", c.Current().Name())
	}

	c.HandleMessage(IncMain(1))
	if a.MaxMain != 1 || b.MaxMain != 2 {
		t.Fatalf("HandleMessage must only reach the current layout")
	}
	c.BroadcastMessage(IncMain(1))
	if a.MaxMain != 2 || b.MaxMain != 3 {
		t.Fatalf("BroadcastMessage must reach every layout")
	}

	if !c.Select("monocle") || c.Index() != 2 {
		t.Fatalf("Select failed")
	}
	if diff := cmp.Diff([]string{"main-and-stack", "wide", "monocle"}, c.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestCycleAppliesReplacements(t *testing.T) {
	inner := NewMainAndStack()
	c := MustCycle(NewGaps(inner, 1, 1), swapper{})

	c.HandleMessage(Unwrap())
	if c.Current() != Layout(inner) {
		t.Fatalf("expected gaps to be unwrapped, got %T", c.Current())
	}

	c.Next()
	c.BroadcastMessage(Custom("swap"))
	if _, ok := c.Current().(*Monocle); !ok {
		t.Fatalf("expected swapper to be replaced, got %T", c.Current())
	}
}

func TestCycleCloneIsIndependent(t *testing.T) {
	l := NewMainAndStack()
	c := MustCycle(l)
	clone := c.Clone()
	clone.HandleMessage(IncMain(4))
	if l.MaxMain != 1 {
		t.Fatalf("clone shared state with original")
	}
}

func TestCycleLayoutEmptyStack(t *testing.T) {
	c := MustCycle(NewMainAndStack())
	if ps := c.Layout(nil, platform.Rect{Width: 100, Height: 100}); len(ps) != 0 {
		t.Fatalf("expected no placements for empty workspace, got %v", ps)
	}
}

func TestPayload(t *testing.T) {
	type volume struct{ level int }
	m := Custom(volume{level: 3})
	if v, ok := Payload[volume](m); !ok || v.level != 3 {
		t.Fatalf("Payload = %v, %v", v, ok)
	}
	if _, ok := Payload[string](m); ok {
		t.Fatalf("Payload with wrong type should fail")
	}
	if _, ok := Payload[volume](Rotate()); ok {
		t.Fatalf("Payload on built-in message should fail")
	}
}
