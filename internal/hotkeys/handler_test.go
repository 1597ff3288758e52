package hotkeys

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/1broseidon/stackwm/internal/action"
)

func TestKeySequence(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "Mod4-j", want: "mod4-j"},
		{in: "Mod4-Shift-space", want: "mod4-shift-space"},
		{in: "Super-Ctrl-Return", want: "mod4-control-Return"},
		{in: "Alt-Tab", want: "mod1-Tab"},
		{in: "mod4-MOD4-1", want: "mod4-1"},
		{in: "F12", want: "F12"},
		{in: "Hyper-j", wantErr: true},
		{in: "Mod4-", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := KeySequence(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestPlan(t *testing.T) {
	got, err := Plan(map[string]string{
		"Mod4-Shift-2": "move-to 2",
		"Mod4-j":       "focus-down",
		"Mod4-x":       "teleport",
		"Bogus-k":      "focus-up",
	})

	require.Error(t, err)
	require.ErrorContains(t, err, "teleport")
	require.ErrorContains(t, err, "Bogus")
	require.Equal(t, []Binding{
		{Keys: "mod4-shift-2", Action: action.Action{Name: action.MoveTo, Tag: "2"}},
		{Keys: "mod4-j", Action: action.Action{Name: action.FocusDown}},
	}, got)
}

func TestIgnoreMasks(t *testing.T) {
	require.Equal(t, []uint16{0, 2}, ignoreMasks([]uint16{2}))
	require.ElementsMatch(t, []uint16{0, 2, 16, 18}, ignoreMasks([]uint16{2, 16}))
}
