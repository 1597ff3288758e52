// Package action parses the textual commands bound to keys and sent over IPC,
// such as "focus-down" or "view 3".
package action

import (
	"fmt"
	"slices"
	"strings"
)

// Action names.
const (
	FocusUp    = "focus-up"
	FocusDown  = "focus-down"
	SwapUp     = "swap-up"
	SwapDown   = "swap-down"
	NextLayout = "next-layout"
	PrevLayout = "prev-layout"
	IncMain    = "inc-main"
	DecMain    = "dec-main"
	ExpandMain = "expand-main"
	ShrinkMain = "shrink-main"
	Rotate     = "rotate"
	Mirror     = "mirror"
	Unwrap     = "unwrap"
	View       = "view"
	Pull       = "pull"
	MoveTo     = "move-to"
	NextScreen = "next-screen"
	PrevScreen = "prev-screen"
	NextTag    = "next-tag"
	PrevTag    = "prev-tag"
	ToggleTag  = "toggle-tag"
	Float      = "float"
	Sink       = "sink"
	Refresh    = "refresh"
)

var withTag = []string{View, Pull, MoveTo}

var bare = []string{
	FocusUp, FocusDown, SwapUp, SwapDown,
	NextLayout, PrevLayout,
	IncMain, DecMain, ExpandMain, ShrinkMain,
	Rotate, Mirror, Unwrap,
	NextScreen, PrevScreen, NextTag, PrevTag, ToggleTag,
	Float, Sink, Refresh,
}

// Action is a parsed command. Tag is set only for actions that name a workspace.
type Action struct {
	Name string `json:"name"`
	Tag  string `json:"tag,omitempty"`
}

func (a Action) String() string {
	if a.Tag != "" {
		return a.Name + " " + a.Tag
	}
	return a.Name
}

// Parse reads an action from its textual form.
func Parse(s string) (Action, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return Action{}, fmt.Errorf("empty action")
	}
	name := strings.ToLower(fields[0])

	switch {
	case slices.Contains(withTag, name):
		if len(fields) != 2 {
			return Action{}, fmt.Errorf("action %q takes exactly one workspace tag", name)
		}
		return Action{Name: name, Tag: fields[1]}, nil
	case slices.Contains(bare, name):
		if len(fields) != 1 {
			return Action{}, fmt.Errorf("action %q takes no arguments", name)
		}
		return Action{Name: name}, nil
	default:
		return Action{}, fmt.Errorf("unknown action %q", fields[0])
	}
}

// NeedsTag reports whether the named action takes a workspace tag.
func NeedsTag(name string) bool {
	return slices.Contains(withTag, name)
}

// Names returns every known action name, sorted.
func Names() []string {
	return slices.Sorted(slices.Values(slices.Concat(bare, withTag)))
}
