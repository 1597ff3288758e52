package layout

import (
	"errors"

	"github.com/1broseidon/stackwm/internal/platform"
	"github.com/1broseidon/stackwm/internal/stack"
)

// ErrNoLayouts is returned when a Cycle is built without any layouts.
var ErrNoLayouts = errors.New("at least one layout is required")

// Cycle is the ordered set of layouts available to a workspace, one of which
// is current.
type Cycle struct {
	layouts []Layout
	current int
}

// NewCycle returns a cycle over ls with the first layout current.
func NewCycle(ls ...Layout) (*Cycle, error) {
	if len(ls) == 0 {
		return nil, ErrNoLayouts
	}
	for _, l := range ls {
		if l == nil {
			return nil, errors.New("nil layout in cycle")
		}
	}
	return &Cycle{layouts: append([]Layout(nil), ls...)}, nil
}

// MustCycle is NewCycle for static layout sets that are known to be valid.
func MustCycle(ls ...Layout) *Cycle {
	c, err := NewCycle(ls...)
	if err != nil {
		panic(err)
	}
	return c
}

// Current returns the active layout.
func (c *Cycle) Current() Layout {
	return c.layouts[c.current]
}

// Index returns the position of the active layout.
func (c *Cycle) Index() int {
	return c.current
}

// Len returns the number of layouts.
func (c *Cycle) Len() int {
	return len(c.layouts)
}

// Names returns the layout names in order.
func (c *Cycle) Names() []string {
	out := make([]string, len(c.layouts))
	for i, l := range c.layouts {
		out[i] = l.Name()
	}
	return out
}

// Next makes the following layout current, wrapping at the end.
func (c *Cycle) Next() {
	c.current = (c.current + 1) % len(c.layouts)
}

// Previous makes the preceding layout current, wrapping at the start.
func (c *Cycle) Previous() {
	c.current = (c.current - 1 + len(c.layouts)) % len(c.layouts)
}

// Select makes the first layout called name current.
func (c *Cycle) Select(name string) bool {
	for i, l := range c.layouts {
		if l.Name() == name {
			c.current = i
			return true
		}
	}
	return false
}

// HandleMessage delivers m to the current layout only.
func (c *Cycle) HandleMessage(m Message) {
	c.apply(c.current, c.layouts[c.current].HandleMessage(m))
}

// BroadcastMessage delivers m to every layout.
func (c *Cycle) BroadcastMessage(m Message) {
	for i, l := range c.layouts {
		c.apply(i, l.HandleMessage(m))
	}
}

// Layout runs the current layout for s inside r. A nil stack is laid out with
// LayoutEmpty.
func (c *Cycle) Layout(s *stack.Stack[platform.Xid], r platform.Rect) []Placement {
	var (
		t  Transition
		ps []Placement
	)
	if s == nil {
		t, ps = c.layouts[c.current].LayoutEmpty(r)
	} else {
		t, ps = c.layouts[c.current].Layout(s, r)
	}
	c.apply(c.current, t)
	return ps
}

// Clone returns a cycle holding clones of every layout.
func (c *Cycle) Clone() *Cycle {
	out := &Cycle{layouts: make([]Layout, len(c.layouts)), current: c.current}
	for i, l := range c.layouts {
		out.layouts[i] = l.Clone()
	}
	return out
}

func (c *Cycle) apply(i int, t Transition) {
	if next, ok := t.Replacement(); ok {
		c.layouts[i] = next
	}
}
