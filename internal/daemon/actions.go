package daemon

import (
	"fmt"

	"github.com/1broseidon/stackwm/internal/action"
	"github.com/1broseidon/stackwm/internal/layout"
)

// execute applies a user command to the StackSet.
func (m *Manager) execute(a action.Action) error {
	ss := m.ss
	switch a.Name {
	case action.FocusUp:
		ss.FocusUp()
	case action.FocusDown:
		ss.FocusDown()
	case action.SwapUp:
		ss.SwapUp()
	case action.SwapDown:
		ss.SwapDown()

	case action.NextLayout:
		ss.NextLayout()
	case action.PrevLayout:
		ss.PreviousLayout()
	case action.IncMain:
		ss.HandleMessage(layout.IncMain(1))
	case action.DecMain:
		ss.HandleMessage(layout.DecMain(1))
	case action.ExpandMain:
		ss.HandleMessage(layout.ExpandMain())
	case action.ShrinkMain:
		ss.HandleMessage(layout.ShrinkMain())
	case action.Rotate:
		ss.HandleMessage(layout.Rotate())
	case action.Mirror:
		ss.HandleMessage(layout.Mirror())
	case action.Unwrap:
		ss.HandleMessage(layout.Unwrap())

	case action.View:
		return ss.FocusTag(a.Tag)
	case action.Pull:
		return ss.PullTagToScreen(a.Tag)
	case action.MoveTo:
		return ss.MoveFocusedToTag(a.Tag)
	case action.NextTag:
		return ss.NextTag()
	case action.PrevTag:
		return ss.PreviousTag()
	case action.ToggleTag:
		return ss.ToggleTag()
	case action.NextScreen:
		ss.NextScreen()
	case action.PrevScreen:
		ss.PreviousScreen()

	case action.Float:
		return m.floatFocused()
	case action.Sink:
		id, ok := ss.CurrentClient()
		if !ok {
			return nil
		}
		return ss.Sink(id)
	case action.Refresh:
		m.force = true

	default:
		return fmt.Errorf("unknown action %q", a.Name)
	}
	return nil
}

// floatFocused floats the focused window where it currently is on screen.
func (m *Manager) floatFocused() error {
	id, ok := m.ss.CurrentClient()
	if !ok || m.ss.IsFloating(id) {
		return nil
	}
	r, err := m.conn.ClientGeometry(id)
	if err != nil {
		placed, ok := m.prev.Placed[id]
		if !ok {
			return fmt.Errorf("float: %w", err)
		}
		r = placed
	}
	return m.ss.Float(id, r)
}
