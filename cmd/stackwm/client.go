package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/1broseidon/stackwm/internal/action"
	"github.com/1broseidon/stackwm/internal/daemon"
	"github.com/1broseidon/stackwm/internal/ipc"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			status, err := ipc.NewClient().GetStatus()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "daemon_running: %v\n", status.DaemonRunning)
			fmt.Fprintf(w, "current_tag:    %s\n", status.CurrentTag)
			fmt.Fprintf(w, "current_layout: %s\n", status.CurrentLayout)
			fmt.Fprintf(w, "clients:        %d\n", status.ClientCount)
			fmt.Fprintf(w, "screens:        %d\n", status.ScreenCount)
			fmt.Fprintf(w, "uptime_seconds: %d\n", status.UptimeSeconds)
			if status.LastError != "" {
				fmt.Fprintf(w, "last_error:     %s\n", status.LastError)
			}
			return nil
		},
	}
}

func newStateCmd() *cobra.Command {
	var asJSON, asYAML bool
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Print workspaces, screens and windows",
		Long:  "Print the manager state. On a terminal a table is shown; otherwise JSON is written.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := ipc.NewClient().GetState()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			switch {
			case asYAML:
				return writeYAML(w, st)
			case asJSON || !isTerminal(os.Stdout):
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(st)
			default:
				fmt.Fprintln(w, renderState(*st))
				return nil
			}
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "write JSON")
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "write YAML")
	cmd.MarkFlagsMutuallyExclusive("json", "yaml")
	return cmd
}

func newActionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "action <name> [tag]",
		Short: "Run a window manager action",
		Long:  "Run an action such as \"view 2\" or \"next-layout\".\n\nActions: " + strings.Join(action.Names(), ", "),
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(_ *cobra.Command, args []string) error {
			a, err := action.Parse(strings.Join(args, " "))
			if err != nil {
				return err
			}
			return ipc.NewClient().RunAction(a.String())
		},
	}
}

func newReloadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reload",
		Short: "Ask the daemon to reload its configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := ipc.NewClient().Reload(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "reloaded")
			return nil
		},
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("245"))
	currentStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	hiddenStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// stateRows lays out one row per workspace: tag, layout, screen, focused
// window and the stack.
func stateRows(st daemon.State) [][]string {
	rows := make([][]string, 0, len(st.Workspaces))
	for _, ws := range st.Workspaces {
		screen := "-"
		if ws.Screen >= 0 {
			screen = strconv.Itoa(ws.Screen)
		}
		focused := "-"
		if ws.Focused != 0 {
			focused = fmt.Sprintf("0x%x", uint32(ws.Focused))
		}
		clients := make([]string, 0, len(ws.Clients))
		for _, id := range ws.Clients {
			s := fmt.Sprintf("0x%x", uint32(id))
			if _, ok := st.Floating[id]; ok {
				s += "*"
			}
			clients = append(clients, s)
		}
		tag := ws.Tag
		if ws.Invisible {
			tag += " (hidden)"
		}
		rows = append(rows, []string{tag, ws.Layout, screen, focused, strings.Join(clients, " ")})
	}
	return rows
}

func renderState(st daemon.State) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(hiddenStyle).
		Headers("Tag", "Layout", "Screen", "Focused", "Windows (* floating)").
		Rows(stateRows(st)...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if row < 0 || row >= len(st.Workspaces) {
				return lipgloss.NewStyle()
			}
			ws := st.Workspaces[row]
			switch {
			case ws.Tag == st.CurrentTag:
				return currentStyle
			case ws.Screen < 0:
				return hiddenStyle
			}
			return lipgloss.NewStyle()
		})

	var b strings.Builder
	b.WriteString(t.Render())
	if st.LastError != "" {
		fmt.Fprintf(&b, "\nlast error: %s", st.LastError)
	}
	return b.String()
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(v)
}
