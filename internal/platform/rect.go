package platform

import "fmt"

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int `json:"x" yaml:"x"`
	Y      int `json:"y" yaml:"y"`
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

func (r Rect) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", r.Width, r.Height, r.X, r.Y)
}

// Empty reports whether r has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Shrink insets r by n on every side. If the result would have no area, r is
// returned unchanged.
func (r Rect) Shrink(n int) Rect {
	if n <= 0 {
		return r
	}
	out := Rect{X: r.X + n, Y: r.Y + n, Width: r.Width - 2*n, Height: r.Height - 2*n}
	if out.Empty() {
		return r
	}
	return out
}

// Pad removes the given margins from r, clamping the size at zero.
func (r Rect) Pad(top, bottom, left, right int) Rect {
	out := Rect{
		X:      r.X + left,
		Y:      r.Y + top,
		Width:  r.Width - left - right,
		Height: r.Height - top - bottom,
	}
	if out.Width < 0 {
		out.Width = 0
	}
	if out.Height < 0 {
		out.Height = 0
	}
	return out
}

// ContainsPoint reports whether (x, y) lies inside r.
func (r Rect) ContainsPoint(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// SplitColumns divides r into n side-by-side columns. Any remainder from
// integer division goes to the last column.
func (r Rect) SplitColumns(n int) []Rect {
	if n <= 0 {
		return nil
	}
	w := r.Width / n
	out := make([]Rect, n)
	for i := range out {
		out[i] = Rect{X: r.X + i*w, Y: r.Y, Width: w, Height: r.Height}
	}
	out[n-1].Width = r.Width - (n-1)*w
	return out
}

// SplitRows divides r into n stacked rows. Any remainder goes to the last row.
func (r Rect) SplitRows(n int) []Rect {
	if n <= 0 {
		return nil
	}
	h := r.Height / n
	out := make([]Rect, n)
	for i := range out {
		out[i] = Rect{X: r.X, Y: r.Y + i*h, Width: r.Width, Height: h}
	}
	out[n-1].Height = r.Height - (n-1)*h
	return out
}

// SplitAtWidth cuts r vertically at width w, returning the left and right parts.
func (r Rect) SplitAtWidth(w int) (Rect, Rect) {
	w = clamp(w, 0, r.Width)
	return Rect{X: r.X, Y: r.Y, Width: w, Height: r.Height},
		Rect{X: r.X + w, Y: r.Y, Width: r.Width - w, Height: r.Height}
}

// SplitAtHeight cuts r horizontally at height h, returning the top and bottom parts.
func (r Rect) SplitAtHeight(h int) (Rect, Rect) {
	h = clamp(h, 0, r.Height)
	return Rect{X: r.X, Y: r.Y, Width: r.Width, Height: h},
		Rect{X: r.X, Y: r.Y + h, Width: r.Width, Height: r.Height - h}
}

// ReflectHorizontal mirrors r across the vertical center line of within.
func (r Rect) ReflectHorizontal(within Rect) Rect {
	r.X = 2*within.X + within.Width - r.X - r.Width
	return r
}

// ReflectVertical mirrors r across the horizontal center line of within.
func (r Rect) ReflectVertical(within Rect) Rect {
	r.Y = 2*within.Y + within.Height - r.Y - r.Height
	return r
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
