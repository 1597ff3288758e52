package layout

import (
	"github.com/1broseidon/stackwm/internal/platform"
	"github.com/1broseidon/stackwm/internal/stack"
)

// wrapper holds the inner layout shared by the single-child transformers and
// implements their common message handling: Unwrap replaces the transformer
// with its inner layout, everything else is forwarded.
type wrapper struct {
	inner Layout
}

func (w *wrapper) forward(m Message) Transition {
	if m.Kind() == KindUnwrap {
		return Replace(w.inner)
	}
	absorb(&w.inner, w.inner.HandleMessage(m))
	return Unchanged
}

// Unwrapped returns the wrapped layout.
func (w *wrapper) Unwrapped() Layout {
	return w.inner
}

// Gaps insets the area handed to the inner layout by Outer pixels and every
// resulting window by Inner pixels. Insets that would leave no area are
// skipped.
type Gaps struct {
	wrapper
	Outer int
	Inner int
}

// NewGaps wraps inner with outer and inner gaps.
func NewGaps(inner Layout, outer, innerPx int) *Gaps {
	return &Gaps{wrapper: wrapper{inner: inner}, Outer: outer, Inner: innerPx}
}

func (g *Gaps) Name() string { return g.inner.Name() }

func (g *Gaps) Layout(s *stack.Stack[platform.Xid], r platform.Rect) (Transition, []Placement) {
	t, ps := g.inner.Layout(s, r.Shrink(g.Outer))
	absorb(&g.inner, t)
	return Unchanged, g.shrink(ps)
}

func (g *Gaps) LayoutEmpty(r platform.Rect) (Transition, []Placement) {
	t, ps := g.inner.LayoutEmpty(r.Shrink(g.Outer))
	absorb(&g.inner, t)
	return Unchanged, g.shrink(ps)
}

func (g *Gaps) shrink(ps []Placement) []Placement {
	for i := range ps {
		ps[i].Rect = ps[i].Rect.Shrink(g.Inner)
	}
	return ps
}

func (g *Gaps) HandleMessage(m Message) Transition { return g.forward(m) }

func (g *Gaps) Clone() Layout {
	return NewGaps(g.inner.Clone(), g.Outer, g.Inner)
}

// Reflect mirrors the inner layout's output across the centre of the area.
type Reflect struct {
	wrapper
	Vertical bool
}

// ReflectHorizontal mirrors x coordinates of the inner layout's output.
func ReflectHorizontal(inner Layout) *Reflect {
	return &Reflect{wrapper: wrapper{inner: inner}}
}

// ReflectVertical mirrors y coordinates of the inner layout's output.
func ReflectVertical(inner Layout) *Reflect {
	return &Reflect{wrapper: wrapper{inner: inner}, Vertical: true}
}

func (f *Reflect) Name() string { return f.inner.Name() }

func (f *Reflect) Layout(s *stack.Stack[platform.Xid], r platform.Rect) (Transition, []Placement) {
	t, ps := f.inner.Layout(s, r)
	absorb(&f.inner, t)
	return Unchanged, f.reflect(ps, r)
}

func (f *Reflect) LayoutEmpty(r platform.Rect) (Transition, []Placement) {
	t, ps := f.inner.LayoutEmpty(r)
	absorb(&f.inner, t)
	return Unchanged, f.reflect(ps, r)
}

func (f *Reflect) reflect(ps []Placement, r platform.Rect) []Placement {
	for i := range ps {
		if f.Vertical {
			ps[i].Rect = ps[i].Rect.ReflectVertical(r)
		} else {
			ps[i].Rect = ps[i].Rect.ReflectHorizontal(r)
		}
	}
	return ps
}

func (f *Reflect) HandleMessage(m Message) Transition { return f.forward(m) }

func (f *Reflect) Clone() Layout {
	return &Reflect{wrapper: wrapper{inner: f.inner.Clone()}, Vertical: f.Vertical}
}

// Predicate chooses between the two branches of a Conditional. The stack is
// nil when the workspace is empty.
type Predicate func(s *stack.Stack[platform.Xid], r platform.Rect) bool

// Conditional picks Left when the predicate holds and Right otherwise, each
// time it lays out. Messages go to whichever branch rendered last.
type Conditional struct {
	Label     string
	left      Layout
	right     Layout
	predicate Predicate
	useRight  bool
}

// NewConditional returns a layout switching between left and right.
func NewConditional(name string, left, right Layout, predicate Predicate) *Conditional {
	return &Conditional{Label: name, left: left, right: right, predicate: predicate}
}

// WhenNarrowerThan holds when the area is narrower than width.
func WhenNarrowerThan(width int) Predicate {
	return func(_ *stack.Stack[platform.Xid], r platform.Rect) bool {
		return r.Width < width
	}
}

// WhenMoreThan holds when the workspace has more than n windows.
func WhenMoreThan(n int) Predicate {
	return func(s *stack.Stack[platform.Xid], _ platform.Rect) bool {
		return s != nil && s.Len() > n
	}
}

func (c *Conditional) Name() string {
	return label(c.Label, c.active().Name())
}

func (c *Conditional) active() Layout {
	if c.useRight {
		return c.right
	}
	return c.left
}

func (c *Conditional) activeSlot() *Layout {
	if c.useRight {
		return &c.right
	}
	return &c.left
}

func (c *Conditional) Layout(s *stack.Stack[platform.Xid], r platform.Rect) (Transition, []Placement) {
	c.useRight = !c.predicate(s, r)
	slot := c.activeSlot()
	t, ps := (*slot).Layout(s, r)
	absorb(slot, t)
	return Unchanged, ps
}

func (c *Conditional) LayoutEmpty(r platform.Rect) (Transition, []Placement) {
	c.useRight = !c.predicate(nil, r)
	slot := c.activeSlot()
	t, ps := (*slot).LayoutEmpty(r)
	absorb(slot, t)
	return Unchanged, ps
}

func (c *Conditional) HandleMessage(m Message) Transition {
	if m.Kind() == KindUnwrap {
		return Replace(c.active())
	}
	slot := c.activeSlot()
	absorb(slot, (*slot).HandleMessage(m))
	return Unchanged
}

func (c *Conditional) Clone() Layout {
	return &Conditional{
		Label:     c.Label,
		left:      c.left.Clone(),
		right:     c.right.Clone(),
		predicate: c.predicate,
		useRight:  c.useRight,
	}
}
