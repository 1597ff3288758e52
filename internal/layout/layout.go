// Package layout computes window placements for a workspace.
//
// A Layout is a stateful strategy: it may hold tunables such as the number of
// main windows or the main area ratio, and it reacts to Messages by mutating
// those tunables or by asking to be replaced with a different Layout.
// Transformers wrap an inner Layout to post-process its output or intercept
// its messages. Every Layout must tolerate degenerate input: an empty
// rectangle or a nil stack yields an empty placement list, never a panic.
package layout

import (
	"github.com/1broseidon/stackwm/internal/platform"
	"github.com/1broseidon/stackwm/internal/stack"
)

// Placement assigns a window to a rectangle.
type Placement struct {
	ID   platform.Xid  `json:"id"`
	Rect platform.Rect `json:"rect"`
}

// Transition is returned by layout operations to tell the owner whether the
// layout wants to keep running or be swapped for another instance.
type Transition struct {
	next Layout
}

// Unchanged keeps the current layout instance.
var Unchanged = Transition{}

// Replace asks the owner to substitute l for the current layout.
func Replace(l Layout) Transition {
	return Transition{next: l}
}

// Replacement returns the substitute layout, if any.
func (t Transition) Replacement() (Layout, bool) {
	return t.next, t.next != nil
}

// Layout is a window arrangement strategy.
type Layout interface {
	// Name is a human readable label; it need not be unique.
	Name() string
	// Layout arranges the windows of s inside r. Windows omitted from the
	// result keep whatever position they already have.
	Layout(s *stack.Stack[platform.Xid], r platform.Rect) (Transition, []Placement)
	// LayoutEmpty is called instead of Layout when the workspace has no windows.
	LayoutEmpty(r platform.Rect) (Transition, []Placement)
	// HandleMessage reacts to m. Unknown message kinds are ignored.
	HandleMessage(m Message) Transition
	// Clone returns an independent copy with the same tunables.
	Clone() Layout
}

// NoEmpty provides the default LayoutEmpty behaviour for embedding.
type NoEmpty struct{}

// LayoutEmpty places nothing.
func (NoEmpty) LayoutEmpty(platform.Rect) (Transition, []Placement) {
	return Unchanged, nil
}

// absorb swaps a wrapped layout for its replacement in place.
func absorb(inner *Layout, t Transition) {
	if next, ok := t.Replacement(); ok {
		*inner = next
	}
}

func label(custom, fallback string) string {
	if custom != "" {
		return custom
	}
	return fallback
}
