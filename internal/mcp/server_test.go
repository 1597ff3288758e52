package mcp

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/1broseidon/stackwm/internal/daemon"
	"github.com/1broseidon/stackwm/internal/ipc"
	"github.com/1broseidon/stackwm/internal/platform"
	"github.com/1broseidon/stackwm/internal/reconcile"
)

type fakeDaemon struct {
	st      daemon.State
	err     error
	actions []string
}

func (f *fakeDaemon) GetState() (*daemon.State, error) {
	if f.err != nil {
		return nil, f.err
	}
	st := f.st
	return &st, nil
}

func (f *fakeDaemon) GetMonitors() (*ipc.MonitorsData, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &ipc.MonitorsData{Monitors: []ipc.MonitorInfo{
		{ID: 0, Name: "DP-1", Width: 1920, Height: 1080},
		{ID: 1, Name: "HDMI-1", X: 1920, Width: 1280, Height: 1024},
	}}, nil
}

func (f *fakeDaemon) RunAction(act string) error {
	f.actions = append(f.actions, act)
	return f.err
}

func testState() daemon.State {
	return daemon.State{
		CurrentTag: "2",
		Screens: []reconcile.ScreenState{
			{Index: 0, Tag: "2", Region: platform.Rect{Width: 1920, Height: 1080}, Clients: []platform.Xid{3}},
		},
		Workspaces: []daemon.WorkspaceState{
			{Tag: "1", Layout: "tall", Clients: []platform.Xid{1, 2}, Focused: 2, Screen: -1},
			{Tag: "2", Layout: "grid", Clients: []platform.Xid{3}, Focused: 3, Screen: 0},
			{Tag: "3", Layout: "tall", Screen: -1},
			{Tag: "scratch", Layout: "monocle", Clients: []platform.Xid{9}, Screen: -1, Invisible: true},
		},
		Floating: map[platform.Xid]platform.Rect{
			9: {X: 10, Y: 10, Width: 300, Height: 200},
			3: {X: 5, Y: 5, Width: 100, Height: 100},
		},
		Focus:   3,
		LastOps: []reconcile.Op{{Kind: reconcile.OpFocus, ID: 3}},
	}
}

func newTestServer(d Daemon) *Server {
	return NewServer(d, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestGetStateTool(t *testing.T) {
	s := newTestServer(&fakeDaemon{st: testState()})

	res, out, err := s.handleGetState(context.Background(), nil, GetStateInput{})
	if err != nil {
		t.Fatalf("handleGetState: %v", err)
	}
	if res == nil || len(res.Content) != 1 {
		t.Fatalf("expected one text content, got %+v", res)
	}

	want := GetStateOutput{
		CurrentTag: "2",
		Focus:      3,
		Screens:    []ScreenInfo{{Index: 0, Tag: "2", Rect: platform.Rect{Width: 1920, Height: 1080}}},
		Floating: []FloatingWindow{
			{ID: 3, Rect: platform.Rect{X: 5, Y: 5, Width: 100, Height: 100}},
			{ID: 9, Rect: platform.Rect{X: 10, Y: 10, Width: 300, Height: 200}},
		},
		LastOps: []string{"focus 3"},
	}
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("get_state output mismatch (-want +got):\n%s", diff)
	}
}

func TestListWorkspacesTool(t *testing.T) {
	s := newTestServer(&fakeDaemon{st: testState()})

	tests := []struct {
		name string
		args ListWorkspacesInput
		want []string
	}{
		{"visible only", ListWorkspacesInput{}, []string{"1", "2", "3"}},
		{"include invisible", ListWorkspacesInput{IncludeInvisible: true}, []string{"1", "2", "3", "scratch"}},
		{"non empty", ListWorkspacesInput{NonEmpty: true}, []string{"1", "2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, out, err := s.handleListWorkspaces(context.Background(), nil, tt.args)
			if err != nil {
				t.Fatalf("handleListWorkspaces: %v", err)
			}
			var tags []string
			for _, ws := range out.Workspaces {
				tags = append(tags, ws.Tag)
			}
			if diff := cmp.Diff(tt.want, tags); diff != "" {
				t.Errorf("tags mismatch (-want +got):\n%s", diff)
			}
		})
	}

	_, out, _ := s.handleListWorkspaces(context.Background(), nil, ListWorkspacesInput{})
	want := WorkspaceInfo{Tag: "2", Layout: "grid", Windows: []platform.Xid{3}, Focused: 3, Screen: 0, Current: true}
	if diff := cmp.Diff(want, out.Workspaces[1]); diff != "" {
		t.Errorf("workspace 2 mismatch (-want +got):\n%s", diff)
	}
	if out.Workspaces[2].Windows == nil {
		t.Errorf("empty workspace should report an empty window list, not null")
	}
}

func TestListMonitorsTool(t *testing.T) {
	s := newTestServer(&fakeDaemon{})

	_, out, err := s.handleListMonitors(context.Background(), nil, ListMonitorsInput{})
	if err != nil {
		t.Fatalf("handleListMonitors: %v", err)
	}
	want := []MonitorInfo{
		{ID: 0, Name: "DP-1", Rect: platform.Rect{Width: 1920, Height: 1080}},
		{ID: 1, Name: "HDMI-1", Rect: platform.Rect{X: 1920, Width: 1280, Height: 1024}},
	}
	if diff := cmp.Diff(want, out.Monitors); diff != "" {
		t.Errorf("monitors mismatch (-want +got):\n%s", diff)
	}
}

func TestRunActionTool(t *testing.T) {
	d := &fakeDaemon{st: testState()}
	s := newTestServer(d)

	_, out, err := s.handleRunAction(context.Background(), nil, RunActionInput{Action: "  VIEW   2 "})
	if err != nil {
		t.Fatalf("handleRunAction: %v", err)
	}
	if out.Action != "view 2" || out.CurrentTag != "2" || out.Focus != 3 {
		t.Errorf("unexpected output %+v", out)
	}
	if diff := cmp.Diff([]string{"view 2"}, d.actions); diff != "" {
		t.Errorf("forwarded actions mismatch (-want +got):\n%s", diff)
	}

	if _, _, err := s.handleRunAction(context.Background(), nil, RunActionInput{Action: "teleport"}); err == nil {
		t.Errorf("expected an error for an unknown action")
	}
	if len(d.actions) != 1 {
		t.Errorf("unknown action reached the daemon: %v", d.actions)
	}
}

func TestToolsReportDaemonErrors(t *testing.T) {
	d := &fakeDaemon{err: errors.New("is the daemon running?")}
	s := newTestServer(d)
	ctx := context.Background()

	if _, _, err := s.handleGetState(ctx, nil, GetStateInput{}); err == nil {
		t.Errorf("get_state: expected error")
	}
	if _, _, err := s.handleListWorkspaces(ctx, nil, ListWorkspacesInput{}); err == nil {
		t.Errorf("list_workspaces: expected error")
	}
	if _, _, err := s.handleListMonitors(ctx, nil, ListMonitorsInput{}); err == nil {
		t.Errorf("list_monitors: expected error")
	}
	if _, _, err := s.handleRunAction(ctx, nil, RunActionInput{Action: "refresh"}); err == nil {
		t.Errorf("run_action: expected error")
	}
}
