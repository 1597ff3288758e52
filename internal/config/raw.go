package config

import (
	"fmt"
	"maps"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/stackwm/internal/layout"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

type RawMargins struct {
	Top    *int `yaml:"top"`
	Bottom *int `yaml:"bottom"`
	Left   *int `yaml:"left"`
	Right  *int `yaml:"right"`
}

type RawLoggingConfig struct {
	Level *string `yaml:"level"`
}

// RawConfig is one config file as written. Nil fields are unset and leave
// the value below them untouched when files are merged.
type RawConfig struct {
	Include             IncludeList       `yaml:"include"`
	Workspaces          []string          `yaml:"workspaces"`
	InvisibleWorkspaces []string          `yaml:"invisible_workspaces"`
	Layouts             []layout.Spec     `yaml:"layouts"`
	ScreenPadding       *RawMargins       `yaml:"screen_padding"`
	Keybindings         map[string]string `yaml:"keybindings"`
	Rules               []Rule            `yaml:"rules"`
	ReconcileInterval   *time.Duration    `yaml:"reconcile_interval"`
	FocusNewWindows     *bool             `yaml:"focus_new_windows"`
	Logging             *RawLoggingConfig `yaml:"logging"`
}

// merge layers overlay on top of c. Lists are replaced wholesale; key
// bindings merge per key and an empty action removes an inherited binding.
func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c

	if overlay.Workspaces != nil {
		out.Workspaces = overlay.Workspaces
	}
	if overlay.InvisibleWorkspaces != nil {
		out.InvisibleWorkspaces = overlay.InvisibleWorkspaces
	}
	if overlay.Layouts != nil {
		out.Layouts = overlay.Layouts
	}
	if overlay.ScreenPadding != nil {
		out.ScreenPadding = mergeRawMargins(out.ScreenPadding, overlay.ScreenPadding)
	}
	if overlay.Keybindings != nil {
		merged := maps.Clone(out.Keybindings)
		if merged == nil {
			merged = make(map[string]string, len(overlay.Keybindings))
		}
		maps.Copy(merged, overlay.Keybindings)
		out.Keybindings = merged
	}
	if overlay.Rules != nil {
		out.Rules = overlay.Rules
	}
	if overlay.ReconcileInterval != nil {
		out.ReconcileInterval = overlay.ReconcileInterval
	}
	if overlay.FocusNewWindows != nil {
		out.FocusNewWindows = overlay.FocusNewWindows
	}
	if overlay.Logging != nil {
		if out.Logging == nil {
			out.Logging = &RawLoggingConfig{}
		}
		merged := *out.Logging
		if overlay.Logging.Level != nil {
			merged.Level = overlay.Logging.Level
		}
		out.Logging = &merged
	}

	return out
}

func mergeRawMargins(base, overlay *RawMargins) *RawMargins {
	out := RawMargins{}
	if base != nil {
		out = *base
	}
	if overlay.Top != nil {
		out.Top = overlay.Top
	}
	if overlay.Bottom != nil {
		out.Bottom = overlay.Bottom
	}
	if overlay.Left != nil {
		out.Left = overlay.Left
	}
	if overlay.Right != nil {
		out.Right = overlay.Right
	}
	return &out
}
