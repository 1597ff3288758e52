package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/stackwm/internal/action"
	"github.com/1broseidon/stackwm/internal/layout"
	"github.com/1broseidon/stackwm/internal/platform"
)

const (
	DefaultReconcileInterval = 10 * time.Second
	DefaultLogLevel          = "info"
)

// Margins represents space reserved at the edges of every screen.
type Margins struct {
	Top    int `yaml:"top" json:"top"`
	Bottom int `yaml:"bottom" json:"bottom"`
	Left   int `yaml:"left" json:"left"`
	Right  int `yaml:"right" json:"right"`
}

// Apply reduces r by the margins.
func (m Margins) Apply(r platform.Rect) platform.Rect {
	return r.Pad(m.Top, m.Bottom, m.Left, m.Right)
}

// Rule places or floats new windows by WM_CLASS.
type Rule struct {
	Class string `yaml:"class" json:"class"`
	Tag   string `yaml:"tag,omitempty" json:"tag,omitempty"`
	Float bool   `yaml:"float,omitempty" json:"float,omitempty"`
}

// LoggingConfig configures daemon logging.
type LoggingConfig struct {
	// Level controls verbosity: debug, info, warn, error
	Level string `yaml:"level" json:"level"`
}

// Config is the effective configuration used by the daemon.
type Config struct {
	Workspaces          []string          `yaml:"workspaces" json:"workspaces"`
	InvisibleWorkspaces []string          `yaml:"invisible_workspaces,omitempty" json:"invisible_workspaces,omitempty"`
	Layouts             []layout.Spec     `yaml:"layouts" json:"layouts"`
	ScreenPadding       Margins           `yaml:"screen_padding" json:"screen_padding"`
	Keybindings         map[string]string `yaml:"keybindings" json:"keybindings"`
	Rules               []Rule            `yaml:"rules,omitempty" json:"rules,omitempty"`
	ReconcileInterval   time.Duration     `yaml:"reconcile_interval" json:"reconcile_interval"`
	FocusNewWindows     bool              `yaml:"focus_new_windows" json:"focus_new_windows"`
	Logging             LoggingConfig     `yaml:"logging" json:"logging"`
}

var defaultWorkspaces = []string{"1", "2", "3", "4", "5", "6", "7", "8", "9"}

// defaultKeybindings binds the common actions plus Mod4-N / Mod4-Shift-N
// for the first nine workspaces.
func defaultKeybindings(workspaces []string) map[string]string {
	kb := map[string]string{
		"Mod4-j":           action.FocusDown,
		"Mod4-k":           action.FocusUp,
		"Mod4-Shift-j":     action.SwapDown,
		"Mod4-Shift-k":     action.SwapUp,
		"Mod4-space":       action.NextLayout,
		"Mod4-Shift-space": action.PrevLayout,
		"Mod4-comma":       action.IncMain,
		"Mod4-period":      action.DecMain,
		"Mod4-l":           action.ExpandMain,
		"Mod4-h":           action.ShrinkMain,
		"Mod4-r":           action.Rotate,
		"Mod4-m":           action.Mirror,
		"Mod4-t":           action.Sink,
		"Mod4-f":           action.Float,
		"Mod4-Tab":         action.ToggleTag,
		"Mod4-w":           action.NextScreen,
		"Mod4-e":           action.PrevScreen,
	}
	for i, tag := range workspaces[:min(len(workspaces), 9)] {
		kb[fmt.Sprintf("Mod4-%d", i+1)] = action.View + " " + tag
		kb[fmt.Sprintf("Mod4-Shift-%d", i+1)] = action.MoveTo + " " + tag
	}
	return kb
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Workspaces:        slices.Clone(defaultWorkspaces),
		Layouts:           layout.DefaultSpecs(),
		Keybindings:       defaultKeybindings(defaultWorkspaces),
		ReconcileInterval: DefaultReconcileInterval,
		FocusNewWindows:   true,
		Logging:           LoggingConfig{Level: DefaultLogLevel},
	}
}

// LayoutCycle builds the configured layouts into a fresh cycle.
func (c *Config) LayoutCycle() (*layout.Cycle, error) {
	return layout.BuildCycle(c.Layouts)
}

// Regions reduces each display's bounds by the screen padding.
func (c *Config) Regions(displays []platform.Display) []platform.Rect {
	out := make([]platform.Rect, len(displays))
	for i, d := range displays {
		out[i] = c.ScreenPadding.Apply(d.Bounds)
	}
	return out
}

// RuleFor returns the first rule matching class, case-insensitively.
func (c *Config) RuleFor(class string) (Rule, bool) {
	for _, r := range c.Rules {
		if strings.EqualFold(r.Class, class) {
			return r, true
		}
	}
	return Rule{}, false
}

// Validate performs strict validation of the effective configuration and
// reports every problem found.
func (c *Config) Validate() error {
	var errs []error
	add := func(path string, err error) {
		errs = append(errs, &ValidationError{Path: path, Err: err})
	}

	if len(c.Workspaces) == 0 {
		add("workspaces", fmt.Errorf("workspaces must not be empty"))
	}
	seen := make(map[string]struct{}, len(c.Workspaces))
	for i, tag := range c.Workspaces {
		if strings.TrimSpace(tag) == "" {
			add(fmt.Sprintf("workspaces.%d", i), fmt.Errorf("workspace tag must not be empty"))
			continue
		}
		if _, dup := seen[tag]; dup {
			add(fmt.Sprintf("workspaces.%d", i), fmt.Errorf("duplicate workspace tag %q", tag))
		}
		seen[tag] = struct{}{}
	}
	for i, tag := range c.InvisibleWorkspaces {
		if _, ok := seen[tag]; !ok {
			add(fmt.Sprintf("invisible_workspaces.%d", i), fmt.Errorf("%q is not in workspaces", tag))
		}
	}
	if len(c.InvisibleWorkspaces) >= len(c.Workspaces) && len(c.Workspaces) > 0 {
		add("invisible_workspaces", fmt.Errorf("at least one workspace must be visible"))
	}

	if len(c.Layouts) == 0 {
		add("layouts", fmt.Errorf("layouts must not be empty"))
	}
	for i, spec := range c.Layouts {
		if err := spec.Validate(); err != nil {
			add(fmt.Sprintf("layouts.%d", i), err)
		}
	}

	p := c.ScreenPadding
	if p.Top < 0 || p.Bottom < 0 || p.Left < 0 || p.Right < 0 {
		add("screen_padding", fmt.Errorf("screen_padding values must be >= 0"))
	}

	for _, key := range sortedKeys(c.Keybindings) {
		a, err := action.Parse(c.Keybindings[key])
		if err != nil {
			add("keybindings."+key, err)
			continue
		}
		if a.Tag != "" {
			if _, ok := seen[a.Tag]; !ok {
				add("keybindings."+key, fmt.Errorf("unknown workspace %q", a.Tag))
			}
		}
	}

	for i, r := range c.Rules {
		if strings.TrimSpace(r.Class) == "" {
			add(fmt.Sprintf("rules.%d.class", i), fmt.Errorf("class is required"))
		}
		if r.Tag != "" {
			if _, ok := seen[r.Tag]; !ok {
				add(fmt.Sprintf("rules.%d.tag", i), fmt.Errorf("unknown workspace %q", r.Tag))
			}
		}
	}

	if c.ReconcileInterval < 0 {
		add("reconcile_interval", fmt.Errorf("reconcile_interval must be >= 0"))
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		add("logging.level", fmt.Errorf("level must be one of: debug, info, warn, error"))
	}

	return errors.Join(errs...)
}

// Marshal renders the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Save writes the configuration to path, creating parent directories.
func (c *Config) Save(path string) error {
	data, err := c.Marshal()
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
