package platform

import "testing"

func TestRectShrink(t *testing.T) {
	tests := []struct {
		name string
		r    Rect
		n    int
		want Rect
	}{
		{"regular", Rect{0, 0, 100, 100}, 5, Rect{5, 5, 90, 90}},
		{"zero inset", Rect{1, 2, 3, 4}, 0, Rect{1, 2, 3, 4}},
		{"degenerate keeps input", Rect{0, 0, 10, 10}, 5, Rect{0, 0, 10, 10}},
		{"empty input", Rect{0, 0, 0, 50}, 3, Rect{0, 0, 0, 50}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.Shrink(tt.n); got != tt.want {
				t.Fatalf("Shrink(%d) = %v, want %v", tt.n, got, tt.want)
			}
		})
	}
}

func TestRectSplitColumnsCoversWidth(t *testing.T) {
	r := Rect{X: 10, Y: 0, Width: 101, Height: 50}
	cols := r.SplitColumns(3)
	if len(cols) != 3 {
		t.Fatalf("expected 3 columns, got %d", len(cols))
	}
	total := 0
	for i, c := range cols {
		total += c.Width
		if i > 0 && c.X != cols[i-1].X+cols[i-1].Width {
			t.Fatalf("column %d not adjacent: %v after %v", i, c, cols[i-1])
		}
	}
	if total != r.Width {
		t.Fatalf("columns cover %d, want %d", total, r.Width)
	}
}

func TestRectReflectHorizontal(t *testing.T) {
	within := Rect{X: 100, Y: 0, Width: 200, Height: 100}
	r := Rect{X: 100, Y: 0, Width: 50, Height: 100}
	got := r.ReflectHorizontal(within)
	want := Rect{X: 250, Y: 0, Width: 50, Height: 100}
	if got != want {
		t.Fatalf("ReflectHorizontal = %v, want %v", got, want)
	}
	if back := got.ReflectHorizontal(within); back != r {
		t.Fatalf("double reflection = %v, want %v", back, r)
	}
}

func TestRectPadClampsAtZero(t *testing.T) {
	r := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	got := r.Pad(8, 8, 0, 0)
	if got.Height != 0 || got.Width != 10 {
		t.Fatalf("Pad = %v, want height clamped to 0", got)
	}
}
