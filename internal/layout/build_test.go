package layout

import (
	"testing"

	"github.com/1broseidon/stackwm/internal/platform"
)

func TestBuildAppliesTransformers(t *testing.T) {
	l, err := Build(Spec{
		Name:    "tall",
		Type:    TypeMainAndStack,
		Ratio:   0.5,
		Gaps:    &GapsSpec{Outer: 4, Inner: 2},
		Reflect: "horizontal",
		Narrow: &NarrowSpec{
			MaxWidth: 1200,
			Layout:   Spec{Type: TypeRows},
		},
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	c, ok := l.(*Conditional)
	if !ok {
		t.Fatalf("expected *Conditional, got %T", l)
	}
	if c.Name() != "tall" {
		t.Fatalf("name = %q, want tall", c.Name())
	}

	_, ps := l.Layout(ids(2), platform.Rect{Width: 800, Height: 600})
	if ps[0].Rect.Width != 800 {
		t.Fatalf("narrow screen should use rows, got %v", ps[0].Rect)
	}

	_, ps = l.Layout(ids(2), platform.Rect{Width: 2000, Height: 1000})
	// Main area is reflected to the right and inset by both gaps.
	if ps[0].Rect.X <= 1000 {
		t.Fatalf("wide screen main should be on the right, got %v", ps[0].Rect)
	}
}

func TestBuildRejectsInvalidSpecs(t *testing.T) {
	tests := []Spec{
		{},
		{Type: "spiral"},
		{Type: TypeMainAndStack, Ratio: 1.5},
		{Type: TypeGrid, Gaps: &GapsSpec{Outer: -1}},
		{Type: TypeGrid, Reflect: "diagonal"},
		{Type: TypeGrid, Narrow: &NarrowSpec{MaxWidth: 0, Layout: Spec{Type: TypeGrid}}},
	}
	for _, s := range tests {
		if _, err := Build(s); err == nil {
			t.Fatalf("expected error for %+v", s)
		}
	}
}

func TestBuildCycleDefaults(t *testing.T) {
	c, err := BuildCycle(DefaultSpecs())
	if err != nil {
		t.Fatalf("build cycle: %v", err)
	}
	if c.Len() != 3 || c.Current().Name() != "tall" {
		t.Fatalf("unexpected default cycle: %v", c.Names())
	}
}
