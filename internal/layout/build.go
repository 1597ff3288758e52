package layout

import (
	"errors"
	"fmt"
	"strings"
)

// Type names accepted in layout specs.
const (
	TypeMainAndStack = "main_and_stack"
	TypeGrid         = "grid"
	TypeColumns      = "columns"
	TypeRows         = "rows"
	TypeMonocle      = "monocle"
)

// GapsSpec configures a Gaps transformer.
type GapsSpec struct {
	Outer int `yaml:"outer" json:"outer"`
	Inner int `yaml:"inner" json:"inner"`
}

// NarrowSpec switches to an alternative layout on narrow screens.
type NarrowSpec struct {
	MaxWidth int  `yaml:"max_width" json:"max_width"`
	Layout   Spec `yaml:"layout" json:"layout"`
}

// Spec is the declarative form of a layout, as found in the config file.
type Spec struct {
	Name            string      `yaml:"name,omitempty" json:"name,omitempty"`
	Type            string      `yaml:"type" json:"type"`
	MaxMain         int         `yaml:"max_main,omitempty" json:"max_main,omitempty"`
	Ratio           float64     `yaml:"ratio,omitempty" json:"ratio,omitempty"`
	RatioStep       float64     `yaml:"ratio_step,omitempty" json:"ratio_step,omitempty"`
	Bottom          bool        `yaml:"bottom,omitempty" json:"bottom,omitempty"`
	FlexibleLastRow bool        `yaml:"flexible_last_row,omitempty" json:"flexible_last_row,omitempty"`
	Gaps            *GapsSpec   `yaml:"gaps,omitempty" json:"gaps,omitempty"`
	Reflect         string      `yaml:"reflect,omitempty" json:"reflect,omitempty"` // "", "horizontal" or "vertical"
	Narrow          *NarrowSpec `yaml:"narrow,omitempty" json:"narrow,omitempty"`
}

// Validate reports problems with s without building it.
func (s Spec) Validate() error {
	var errs []error
	switch strings.TrimSpace(s.Type) {
	case TypeMainAndStack, TypeGrid, TypeColumns, TypeRows, TypeMonocle:
	case "":
		errs = append(errs, errors.New("layout type is required"))
	default:
		errs = append(errs, fmt.Errorf("unknown layout type %q", s.Type))
	}
	if s.MaxMain < 0 {
		errs = append(errs, fmt.Errorf("max_main must be >= 0, got %d", s.MaxMain))
	}
	if s.Ratio < 0 || s.Ratio > 1 {
		errs = append(errs, fmt.Errorf("ratio must be within [0, 1], got %v", s.Ratio))
	}
	if s.RatioStep < 0 || s.RatioStep > 1 {
		errs = append(errs, fmt.Errorf("ratio_step must be within [0, 1], got %v", s.RatioStep))
	}
	if s.Gaps != nil && (s.Gaps.Outer < 0 || s.Gaps.Inner < 0) {
		errs = append(errs, fmt.Errorf("gaps must be >= 0, got outer=%d inner=%d", s.Gaps.Outer, s.Gaps.Inner))
	}
	switch s.Reflect {
	case "", "horizontal", "vertical":
	default:
		errs = append(errs, fmt.Errorf("reflect must be horizontal or vertical, got %q", s.Reflect))
	}
	if s.Narrow != nil {
		if s.Narrow.MaxWidth <= 0 {
			errs = append(errs, fmt.Errorf("narrow.max_width must be > 0, got %d", s.Narrow.MaxWidth))
		}
		if err := s.Narrow.Layout.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("narrow.layout: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Build turns s into a layout, applying transformers from the inside out:
// reflection, then gaps, then the narrow-screen conditional.
func Build(s Spec) (Layout, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	var l Layout
	switch s.Type {
	case TypeMainAndStack:
		m := NewMainAndStack()
		m.Label = s.Name
		m.Bottom = s.Bottom
		if s.MaxMain > 0 {
			m.MaxMain = s.MaxMain
		}
		if s.Ratio > 0 {
			m.Ratio = s.Ratio
		}
		if s.RatioStep > 0 {
			m.RatioStep = s.RatioStep
		}
		l = m
	case TypeGrid:
		l = &Grid{Label: s.Name, FlexibleLastRow: s.FlexibleLastRow}
	case TypeColumns:
		l = &Columns{Label: s.Name}
	case TypeRows:
		l = &Columns{Label: s.Name, Vertical: true}
	case TypeMonocle:
		l = &Monocle{Label: s.Name}
	}

	switch s.Reflect {
	case "horizontal":
		l = ReflectHorizontal(l)
	case "vertical":
		l = ReflectVertical(l)
	}
	if s.Gaps != nil && (s.Gaps.Outer > 0 || s.Gaps.Inner > 0) {
		l = NewGaps(l, s.Gaps.Outer, s.Gaps.Inner)
	}
	if s.Narrow != nil {
		alt, err := Build(s.Narrow.Layout)
		if err != nil {
			return nil, err
		}
		l = NewConditional(s.Name, alt, l, WhenNarrowerThan(s.Narrow.MaxWidth))
	}
	return l, nil
}

// BuildCycle builds every spec into a Cycle.
func BuildCycle(specs []Spec) (*Cycle, error) {
	ls := make([]Layout, 0, len(specs))
	for i, s := range specs {
		l, err := Build(s)
		if err != nil {
			return nil, fmt.Errorf("layout %d (%s): %w", i, s.Name, err)
		}
		ls = append(ls, l)
	}
	return NewCycle(ls...)
}

// DefaultSpecs is the layout set used when the config names none.
func DefaultSpecs() []Spec {
	return []Spec{
		{Name: "tall", Type: TypeMainAndStack, MaxMain: 1, Ratio: DefaultRatio, RatioStep: DefaultRatioStep},
		{Name: "grid", Type: TypeGrid},
		{Name: "monocle", Type: TypeMonocle},
	}
}
