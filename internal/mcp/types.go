package mcp

import "github.com/1broseidon/stackwm/internal/platform"

// GetStateInput is the input for the get_state tool.
type GetStateInput struct{}

// FloatingWindow is a floating window and its absolute rect.
type FloatingWindow struct {
	ID   platform.Xid  `json:"id"`
	Rect platform.Rect `json:"rect"`
}

// ScreenInfo describes one screen.
type ScreenInfo struct {
	Index int           `json:"index"`
	Tag   string        `json:"tag"`
	Rect  platform.Rect `json:"rect"`
}

// GetStateOutput is the output for the get_state tool.
type GetStateOutput struct {
	CurrentTag    string           `json:"current_tag"`
	CurrentScreen int              `json:"current_screen"`
	Focus         platform.Xid     `json:"focus,omitempty"`
	Screens       []ScreenInfo     `json:"screens"`
	Floating      []FloatingWindow `json:"floating,omitempty"`
	LastOps       []string         `json:"last_ops,omitempty"`
	LastError     string           `json:"last_error,omitempty"`
}

// ListWorkspacesInput is the input for the list_workspaces tool.
type ListWorkspacesInput struct {
	IncludeInvisible bool `json:"include_invisible,omitempty" jsonschema:"Also list workspaces hidden from cycling"`
	NonEmpty         bool `json:"non_empty,omitempty" jsonschema:"Only list workspaces holding at least one window"`
}

// WorkspaceInfo describes a single workspace.
type WorkspaceInfo struct {
	Tag     string         `json:"tag"`
	Layout  string         `json:"layout"`
	Windows []platform.Xid `json:"windows"`
	Focused platform.Xid   `json:"focused,omitempty"`
	Screen  int            `json:"screen"`
	Current bool           `json:"current,omitempty"`
}

// ListWorkspacesOutput is the output for the list_workspaces tool.
type ListWorkspacesOutput struct {
	Workspaces []WorkspaceInfo `json:"workspaces"`
}

// ListMonitorsInput is the input for the list_monitors tool.
type ListMonitorsInput struct{}

// MonitorInfo describes one monitor.
type MonitorInfo struct {
	ID   int           `json:"id"`
	Name string        `json:"name"`
	Rect platform.Rect `json:"rect"`
}

// ListMonitorsOutput is the output for the list_monitors tool.
type ListMonitorsOutput struct {
	Monitors []MonitorInfo `json:"monitors"`
}

// RunActionInput is the input for the run_action tool.
type RunActionInput struct {
	Action string `json:"action" jsonschema:"required,Action and optional workspace tag, e.g. view 2"`
}

// RunActionOutput is the output for the run_action tool.
type RunActionOutput struct {
	Action     string       `json:"action"`
	CurrentTag string       `json:"current_tag"`
	Focus      platform.Xid `json:"focus,omitempty"`
}
