package stackset

import (
	"github.com/1broseidon/stackwm/internal/layout"
	"github.com/1broseidon/stackwm/internal/platform"
	"github.com/1broseidon/stackwm/internal/stack"
)

// Workspace is a tagged container of windows with its own layouts.
type Workspace struct {
	Tag     string
	Layouts *layout.Cycle
	// Stack is nil when the workspace has no windows.
	Stack *stack.Stack[platform.Xid]
}

// NewWorkspace returns an empty workspace.
func NewWorkspace(tag string, layouts *layout.Cycle) *Workspace {
	return &Workspace{Tag: tag, Layouts: layouts}
}

// Empty reports whether the workspace holds no windows.
func (w *Workspace) Empty() bool {
	return w.Stack == nil
}

// Clients returns the workspace windows in display order.
func (w *Workspace) Clients() []platform.Xid {
	if w.Stack == nil {
		return nil
	}
	return w.Stack.Items()
}

// Focused returns the focused window, if any.
func (w *Workspace) Focused() (platform.Xid, bool) {
	if w.Stack == nil {
		return 0, false
	}
	return w.Stack.Focus(), true
}

// Contains reports whether id lives on this workspace.
func (w *Workspace) Contains(id platform.Xid) bool {
	return w.Stack != nil && w.Stack.Contains(id)
}

// LayoutName returns the name of the active layout.
func (w *Workspace) LayoutName() string {
	return w.Layouts.Current().Name()
}

// Arrange runs the active layout over the workspace windows.
func (w *Workspace) Arrange(r platform.Rect) []layout.Placement {
	return w.Layouts.Layout(w.Stack, r)
}

// insert adds id above the focus and focuses it, creating the stack if needed.
func (w *Workspace) insert(id platform.Xid) {
	if w.Stack == nil {
		w.Stack = stack.New(id)
		return
	}
	w.Stack.Insert(id)
}

// remove deletes id, clearing the stack when it was the last window.
func (w *Workspace) remove(id platform.Xid) bool {
	if w.Stack == nil {
		return false
	}
	_, ok, rest := w.Stack.Remove(id)
	w.Stack = rest
	return ok
}

func (w *Workspace) modify(f func(*stack.Stack[platform.Xid])) {
	if w.Stack != nil {
		f(w.Stack)
	}
}

// Screen is a display output showing exactly one workspace.
type Screen struct {
	Index     int
	Workspace *Workspace
	Region    platform.Rect
}
