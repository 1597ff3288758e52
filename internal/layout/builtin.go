package layout

import (
	"math"

	"github.com/1broseidon/stackwm/internal/platform"
	"github.com/1broseidon/stackwm/internal/stack"
)

const (
	DefaultRatio     = 0.6
	DefaultRatioStep = 0.1
)

// MainAndStack places up to MaxMain windows in a main area and splits the
// rest evenly in a stack area beside it.
type MainAndStack struct {
	NoEmpty
	Label     string
	MaxMain   int
	Ratio     float64
	RatioStep float64
	// Bottom puts the main area above the stack instead of to its left.
	Bottom bool
	// Mirrored flips the main area to the right (or bottom) edge.
	Mirrored bool
}

// NewMainAndStack returns a side-by-side main/stack layout with defaults.
func NewMainAndStack() *MainAndStack {
	return &MainAndStack{MaxMain: 1, Ratio: DefaultRatio, RatioStep: DefaultRatioStep}
}

func (l *MainAndStack) Name() string {
	if l.Bottom {
		return label(l.Label, "main-and-stack-bottom")
	}
	return label(l.Label, "main-and-stack")
}

func (l *MainAndStack) Layout(s *stack.Stack[platform.Xid], r platform.Rect) (Transition, []Placement) {
	if s == nil || r.Empty() {
		return Unchanged, nil
	}
	ids := s.Items()
	n := len(ids)
	maxMain := max(l.MaxMain, 1)

	var rects []platform.Rect
	if n <= maxMain {
		rects = l.splitArea(r, n)
	} else {
		var main, rest platform.Rect
		if l.Bottom {
			main, rest = r.SplitAtHeight(int(float64(r.Height) * l.Ratio))
		} else {
			main, rest = r.SplitAtWidth(int(float64(r.Width) * l.Ratio))
		}
		rects = append(l.splitArea(main, maxMain), l.splitArea(rest, n-maxMain)...)
	}

	ps := make([]Placement, n)
	for i, id := range ids {
		rect := rects[i]
		if l.Mirrored {
			if l.Bottom {
				rect = rect.ReflectVertical(r)
			} else {
				rect = rect.ReflectHorizontal(r)
			}
		}
		ps[i] = Placement{ID: id, Rect: rect}
	}
	return Unchanged, ps
}

func (l *MainAndStack) splitArea(r platform.Rect, n int) []platform.Rect {
	if l.Bottom {
		return r.SplitColumns(n)
	}
	return r.SplitRows(n)
}

func (l *MainAndStack) HandleMessage(m Message) Transition {
	switch m.Kind() {
	case KindIncMain:
		l.MaxMain = max(l.MaxMain+m.Delta(), 1)
	case KindExpandMain:
		l.Ratio = math.Min(l.Ratio+l.RatioStep, 1)
	case KindShrinkMain:
		l.Ratio = math.Max(l.Ratio-l.RatioStep, 0)
	case KindRotate:
		l.Bottom = !l.Bottom
	case KindMirror:
		l.Mirrored = !l.Mirrored
	}
	return Unchanged
}

func (l *MainAndStack) Clone() Layout {
	c := *l
	return &c
}

// Grid arranges windows in a near-square grid.
type Grid struct {
	NoEmpty
	Label string
	// FlexibleLastRow stretches a partially filled last row to the full width.
	FlexibleLastRow bool
}

func (l *Grid) Name() string { return label(l.Label, "grid") }

// CalculateGrid determines the grid dimensions for the given number of windows.
func CalculateGrid(numWindows int) (rows, cols int) {
	if numWindows <= 0 {
		return 0, 0
	}

	// Columns first (ceiling of square root), then the rows needed.
	cols = int(math.Ceil(math.Sqrt(float64(numWindows))))
	rows = int(math.Ceil(float64(numWindows) / float64(cols)))

	return rows, cols
}

func (l *Grid) Layout(s *stack.Stack[platform.Xid], r platform.Rect) (Transition, []Placement) {
	if s == nil || r.Empty() {
		return Unchanged, nil
	}
	ids := s.Items()
	rows, cols := CalculateGrid(len(ids))
	bands := r.SplitRows(rows)

	ps := make([]Placement, 0, len(ids))
	for row, band := range bands {
		start := row * cols
		end := min(start+cols, len(ids))
		cells := cols
		if l.FlexibleLastRow && row == rows-1 {
			cells = end - start
		}
		slots := band.SplitColumns(cells)
		for i, id := range ids[start:end] {
			ps = append(ps, Placement{ID: id, Rect: slots[i]})
		}
	}
	return Unchanged, ps
}

func (l *Grid) HandleMessage(Message) Transition { return Unchanged }

func (l *Grid) Clone() Layout {
	c := *l
	return &c
}

// Columns splits the area evenly into one column per window, or one row per
// window when Vertical is set.
type Columns struct {
	NoEmpty
	Label    string
	Vertical bool
}

func (l *Columns) Name() string {
	if l.Vertical {
		return label(l.Label, "rows")
	}
	return label(l.Label, "columns")
}

func (l *Columns) Layout(s *stack.Stack[platform.Xid], r platform.Rect) (Transition, []Placement) {
	if s == nil || r.Empty() {
		return Unchanged, nil
	}
	ids := s.Items()
	var rects []platform.Rect
	if l.Vertical {
		rects = r.SplitRows(len(ids))
	} else {
		rects = r.SplitColumns(len(ids))
	}
	ps := make([]Placement, len(ids))
	for i, id := range ids {
		ps[i] = Placement{ID: id, Rect: rects[i]}
	}
	return Unchanged, ps
}

func (l *Columns) HandleMessage(m Message) Transition {
	if m.Kind() == KindRotate {
		l.Vertical = !l.Vertical
	}
	return Unchanged
}

func (l *Columns) Clone() Layout {
	c := *l
	return &c
}

// Monocle gives the focused window the whole area and leaves the others alone.
type Monocle struct {
	NoEmpty
	Label string
}

func (l *Monocle) Name() string { return label(l.Label, "monocle") }

func (l *Monocle) Layout(s *stack.Stack[platform.Xid], r platform.Rect) (Transition, []Placement) {
	if s == nil || r.Empty() {
		return Unchanged, nil
	}
	return Unchanged, []Placement{{ID: s.Focus(), Rect: r}}
}

func (l *Monocle) HandleMessage(Message) Transition { return Unchanged }

func (l *Monocle) Clone() Layout {
	c := *l
	return &c
}
