package mcp

import (
	"context"
	"fmt"
	"slices"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/stackwm/internal/action"
	"github.com/1broseidon/stackwm/internal/platform"
)

func (s *Server) handleGetState(_ context.Context, _ *mcpsdk.CallToolRequest, _ GetStateInput) (*mcpsdk.CallToolResult, GetStateOutput, error) {
	st, err := s.daemon.GetState()
	if err != nil {
		return nil, GetStateOutput{}, fmt.Errorf("get state: %w", err)
	}

	out := GetStateOutput{
		CurrentTag:    st.CurrentTag,
		CurrentScreen: st.CurrentScreen,
		Focus:         st.Focus,
		Screens:       make([]ScreenInfo, 0, len(st.Screens)),
		LastError:     st.LastError,
	}
	for _, scr := range st.Screens {
		out.Screens = append(out.Screens, ScreenInfo{Index: scr.Index, Tag: scr.Tag, Rect: scr.Region})
	}

	ids := make([]platform.Xid, 0, len(st.Floating))
	for id := range st.Floating {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		out.Floating = append(out.Floating, FloatingWindow{ID: id, Rect: st.Floating[id]})
	}

	for _, op := range st.LastOps {
		out.LastOps = append(out.LastOps, op.String())
	}

	return textResult("Workspace %s focused, %d windows managed", st.CurrentTag, st.ClientCount()), out, nil
}

func (s *Server) handleListWorkspaces(_ context.Context, _ *mcpsdk.CallToolRequest, args ListWorkspacesInput) (*mcpsdk.CallToolResult, ListWorkspacesOutput, error) {
	st, err := s.daemon.GetState()
	if err != nil {
		return nil, ListWorkspacesOutput{}, fmt.Errorf("get state: %w", err)
	}

	out := ListWorkspacesOutput{Workspaces: make([]WorkspaceInfo, 0, len(st.Workspaces))}
	for _, ws := range st.Workspaces {
		if ws.Invisible && !args.IncludeInvisible {
			continue
		}
		if args.NonEmpty && len(ws.Clients) == 0 {
			continue
		}
		windows := ws.Clients
		if windows == nil {
			windows = []platform.Xid{}
		}
		out.Workspaces = append(out.Workspaces, WorkspaceInfo{
			Tag:     ws.Tag,
			Layout:  ws.Layout,
			Windows: windows,
			Focused: ws.Focused,
			Screen:  ws.Screen,
			Current: ws.Tag == st.CurrentTag,
		})
	}

	return textResult("%d workspaces", len(out.Workspaces)), out, nil
}

func (s *Server) handleListMonitors(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListMonitorsInput) (*mcpsdk.CallToolResult, ListMonitorsOutput, error) {
	data, err := s.daemon.GetMonitors()
	if err != nil {
		return nil, ListMonitorsOutput{}, fmt.Errorf("get monitors: %w", err)
	}

	out := ListMonitorsOutput{Monitors: make([]MonitorInfo, 0, len(data.Monitors))}
	for _, m := range data.Monitors {
		out.Monitors = append(out.Monitors, MonitorInfo{
			ID:   m.ID,
			Name: m.Name,
			Rect: platform.Rect{X: m.X, Y: m.Y, Width: m.Width, Height: m.Height},
		})
	}
	return textResult("%d monitors", len(out.Monitors)), out, nil
}

func (s *Server) handleRunAction(_ context.Context, _ *mcpsdk.CallToolRequest, args RunActionInput) (*mcpsdk.CallToolResult, RunActionOutput, error) {
	// Parse locally so a typo never reaches the daemon.
	a, err := action.Parse(args.Action)
	if err != nil {
		return nil, RunActionOutput{}, err
	}
	if err := s.daemon.RunAction(a.String()); err != nil {
		return nil, RunActionOutput{}, err
	}
	s.logger.Info("mcp action", "action", a.String())

	out := RunActionOutput{Action: a.String()}
	if st, err := s.daemon.GetState(); err == nil {
		out.CurrentTag = st.CurrentTag
		out.Focus = st.Focus
	}
	return textResult("Ran %s", a), out, nil
}
