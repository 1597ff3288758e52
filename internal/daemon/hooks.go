package daemon

import (
	"fmt"

	"github.com/1broseidon/stackwm/internal/config"
	"github.com/1broseidon/stackwm/internal/platform"
	"github.com/1broseidon/stackwm/internal/stackset"
)

// ManageHook runs after a new window has been inserted into the current
// workspace. It may rearrange the window through StackSet operations.
type ManageHook func(ss *stackset.StackSet, id platform.Xid) error

// RefreshHook observes the state after every reconciliation pass.
type RefreshHook func(st State)

// EventHook sees every event before the manager does. Returning true
// consumes the event.
type EventHook func(ev Event) bool

// StartupHook runs once, after adopted windows are placed and before the
// first reconciliation pass.
type StartupHook func(ss *stackset.StackSet) error

// Hooks are the extension points of a Manager. Nil hooks are skipped.
type Hooks struct {
	Manage  ManageHook
	Refresh RefreshHook
	Event   EventHook
	Startup StartupHook
}

// ComposeManage runs hooks in order and stops at the first error.
func ComposeManage(hooks ...ManageHook) ManageHook {
	return func(ss *stackset.StackSet, id platform.Xid) error {
		for _, h := range hooks {
			if h == nil {
				continue
			}
			if err := h(ss, id); err != nil {
				return err
			}
		}
		return nil
	}
}

// ComposeRefresh runs every hook in order.
func ComposeRefresh(hooks ...RefreshHook) RefreshHook {
	return func(st State) {
		for _, h := range hooks {
			if h != nil {
				h(st)
			}
		}
	}
}

// ComposeEvent runs hooks in order until one consumes the event.
func ComposeEvent(hooks ...EventHook) EventHook {
	return func(ev Event) bool {
		for _, h := range hooks {
			if h != nil && h(ev) {
				return true
			}
		}
		return false
	}
}

// ComposeStartup runs hooks in order and stops at the first error.
func ComposeStartup(hooks ...StartupHook) StartupHook {
	return func(ss *stackset.StackSet) error {
		for _, h := range hooks {
			if h == nil {
				continue
			}
			if err := h(ss); err != nil {
				return err
			}
		}
		return nil
	}
}

// ClientInfo is what rules need to know about a window.
type ClientInfo interface {
	platform.Describer
	ClientGeometry(id platform.Xid) (platform.Rect, error)
}

// RuleHook applies the first rule whose class matches the window's WM_CLASS:
// it moves the window to the rule's tag and floats it at its requested
// geometry.
func RuleHook(rules []config.Rule, info ClientInfo) ManageHook {
	cfg := &config.Config{Rules: rules}
	return func(ss *stackset.StackSet, id platform.Xid) error {
		if len(rules) == 0 || info == nil {
			return nil
		}
		class, err := info.ClientClass(id)
		if err != nil {
			return fmt.Errorf("rule lookup: %w", err)
		}
		rule, ok := cfg.RuleFor(class)
		if !ok {
			return nil
		}
		if rule.Tag != "" {
			if err := ss.MoveClientToTag(id, rule.Tag); err != nil {
				return fmt.Errorf("rule for %q: %w", class, err)
			}
		}
		if rule.Float {
			r, err := info.ClientGeometry(id)
			if err != nil {
				return fmt.Errorf("rule for %q: %w", class, err)
			}
			if err := ss.Float(id, r); err != nil {
				return fmt.Errorf("rule for %q: %w", class, err)
			}
		}
		return nil
	}
}
