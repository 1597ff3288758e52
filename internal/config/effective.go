package config

import (
	"fmt"
	"slices"
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// BuildEffectiveConfig applies raw on top of DefaultConfig.
func BuildEffectiveConfig(raw RawConfig) *Config {
	cfg := DefaultConfig()

	if raw.Workspaces != nil {
		cfg.Workspaces = slices.Clone(raw.Workspaces)
		cfg.Keybindings = defaultKeybindings(cfg.Workspaces)
	}
	if raw.InvisibleWorkspaces != nil {
		cfg.InvisibleWorkspaces = slices.Clone(raw.InvisibleWorkspaces)
	}
	if raw.Layouts != nil {
		cfg.Layouts = slices.Clone(raw.Layouts)
	}
	if raw.ScreenPadding != nil {
		cfg.ScreenPadding.Top = derefInt(raw.ScreenPadding.Top, cfg.ScreenPadding.Top)
		cfg.ScreenPadding.Bottom = derefInt(raw.ScreenPadding.Bottom, cfg.ScreenPadding.Bottom)
		cfg.ScreenPadding.Left = derefInt(raw.ScreenPadding.Left, cfg.ScreenPadding.Left)
		cfg.ScreenPadding.Right = derefInt(raw.ScreenPadding.Right, cfg.ScreenPadding.Right)
	}
	for key, act := range raw.Keybindings {
		if act == "" {
			delete(cfg.Keybindings, key)
			continue
		}
		cfg.Keybindings[key] = act
	}
	if raw.Rules != nil {
		cfg.Rules = slices.Clone(raw.Rules)
	}
	if raw.ReconcileInterval != nil {
		cfg.ReconcileInterval = *raw.ReconcileInterval
	}
	if raw.FocusNewWindows != nil {
		cfg.FocusNewWindows = *raw.FocusNewWindows
	}
	if raw.Logging != nil && raw.Logging.Level != nil {
		cfg.Logging.Level = *raw.Logging.Level
	}

	return cfg
}

func derefInt(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}
