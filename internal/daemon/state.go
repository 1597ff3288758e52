package daemon

import (
	"github.com/1broseidon/stackwm/internal/platform"
	"github.com/1broseidon/stackwm/internal/reconcile"
	"github.com/1broseidon/stackwm/internal/stackset"
)

// WorkspaceState describes one workspace for observers.
type WorkspaceState struct {
	Tag     string         `json:"tag" yaml:"tag"`
	Layout  string         `json:"layout" yaml:"layout"`
	Clients []platform.Xid `json:"clients" yaml:"clients"`
	Focused platform.Xid   `json:"focused,omitempty" yaml:"focused,omitempty"`
	// Screen is the index of the screen showing the workspace, or -1.
	Screen    int  `json:"screen" yaml:"screen"`
	Invisible bool `json:"invisible,omitempty" yaml:"invisible,omitempty"`
}

// State is a read-only copy of the manager state, taken after a
// reconciliation pass.
type State struct {
	CurrentTag    string                         `json:"current_tag" yaml:"current_tag"`
	CurrentScreen int                            `json:"current_screen" yaml:"current_screen"`
	Screens       []reconcile.ScreenState        `json:"screens" yaml:"screens"`
	Workspaces    []WorkspaceState               `json:"workspaces" yaml:"workspaces"`
	Floating      map[platform.Xid]platform.Rect `json:"floating,omitempty" yaml:"floating,omitempty"`
	Focus         platform.Xid                   `json:"focus,omitempty" yaml:"focus,omitempty"`
	LastOps       []reconcile.Op                 `json:"last_ops,omitempty" yaml:"last_ops,omitempty"`
	LastError     string                         `json:"last_error,omitempty" yaml:"last_error,omitempty"`
}

// Workspace returns the state of the workspace tagged tag.
func (st State) Workspace(tag string) (WorkspaceState, bool) {
	for _, ws := range st.Workspaces {
		if ws.Tag == tag {
			return ws, true
		}
	}
	return WorkspaceState{}, false
}

// ClientCount is the number of managed windows.
func (st State) ClientCount() int {
	n := 0
	for _, ws := range st.Workspaces {
		n += len(ws.Clients)
	}
	return n
}

func captureState(ss *stackset.StackSet, snap reconcile.Snapshot, ops []reconcile.Op, lastErr error) State {
	st := State{
		CurrentTag:    ss.CurrentTag(),
		CurrentScreen: ss.CurrentScreen().Index,
		Screens:       snap.Clone().Screens,
		Floating:      ss.Floating(),
		Focus:         snap.Focus,
		LastOps:       append([]reconcile.Op(nil), ops...),
	}
	if lastErr != nil {
		st.LastError = lastErr.Error()
	}

	for _, ws := range ss.Workspaces() {
		w := WorkspaceState{
			Tag:       ws.Tag,
			Layout:    ws.LayoutName(),
			Clients:   ws.Clients(),
			Screen:    -1,
			Invisible: ss.IsInvisible(ws.Tag),
		}
		if id, ok := ws.Focused(); ok {
			w.Focused = id
		}
		if scr, ok := ss.ScreenFor(ws.Tag); ok {
			w.Screen = scr.Index
		}
		st.Workspaces = append(st.Workspaces, w)
	}
	return st
}
