// Package stack implements a focus-tracking ordered sequence.
//
// A Stack is never empty: operations that would remove the last element
// return a nil remainder instead. Elements are unique; inserting an element
// that is already present is a no-op.
package stack

import "slices"

// Stack is a zipper over elements of type C.
//
// Both up and down are stored nearest-to-focus last so that moving the focus
// pointer by one step only pushes and pops slice tails. The visual order of a
// stack is up[0..n], focus, down[n..0].
type Stack[C comparable] struct {
	up    []C
	focus C
	down  []C
}

// New returns a stack holding only c.
func New[C comparable](c C) *Stack[C] {
	return &Stack[C]{focus: c}
}

// FromSlice builds a stack from items in display order, focusing items[focus].
// Duplicate items after the first occurrence are dropped. It returns nil when
// items is empty. An out-of-range focus index is clamped.
func FromSlice[C comparable](items []C, focus int) *Stack[C] {
	uniq := make([]C, 0, len(items))
	seen := make(map[C]struct{}, len(items))
	for _, it := range items {
		if _, ok := seen[it]; ok {
			continue
		}
		seen[it] = struct{}{}
		uniq = append(uniq, it)
	}
	if len(uniq) == 0 {
		return nil
	}
	if focus < 0 {
		focus = 0
	}
	if focus >= len(uniq) {
		focus = len(uniq) - 1
	}

	s := &Stack[C]{focus: uniq[focus]}
	s.up = append([]C(nil), uniq[:focus]...)
	s.down = reversed(uniq[focus+1:])
	return s
}

// Focus returns the focused element.
func (s *Stack[C]) Focus() C {
	return s.focus
}

// Len returns the number of elements.
func (s *Stack[C]) Len() int {
	return len(s.up) + 1 + len(s.down)
}

// Index returns the display position of the focused element.
func (s *Stack[C]) Index() int {
	return len(s.up)
}

// Up returns the elements above the focus in display order.
func (s *Stack[C]) Up() []C {
	return append([]C(nil), s.up...)
}

// Down returns the elements below the focus in display order.
func (s *Stack[C]) Down() []C {
	return reversed(s.down)
}

// Items returns every element in display order.
func (s *Stack[C]) Items() []C {
	out := make([]C, 0, s.Len())
	out = append(out, s.up...)
	out = append(out, s.focus)
	for i := len(s.down) - 1; i >= 0; i-- {
		out = append(out, s.down[i])
	}
	return out
}

// Contains reports whether c is in the stack.
func (s *Stack[C]) Contains(c C) bool {
	return s.focus == c || slices.Contains(s.up, c) || slices.Contains(s.down, c)
}

// Clone returns an independent copy.
func (s *Stack[C]) Clone() *Stack[C] {
	return &Stack[C]{
		up:    append([]C(nil), s.up...),
		focus: s.focus,
		down:  append([]C(nil), s.down...),
	}
}

// FocusUp moves focus to the element above, wrapping to the bottom.
func (s *Stack[C]) FocusUp() {
	if n := len(s.up); n > 0 {
		s.down = append(s.down, s.focus)
		s.focus = s.up[n-1]
		s.up = s.up[:n-1]
		return
	}
	if len(s.down) == 0 {
		return
	}
	items := s.Items()
	last := len(items) - 1
	s.focus = items[last]
	s.up = items[:last]
	s.down = nil
}

// FocusDown moves focus to the element below, wrapping to the top.
func (s *Stack[C]) FocusDown() {
	if n := len(s.down); n > 0 {
		s.up = append(s.up, s.focus)
		s.focus = s.down[n-1]
		s.down = s.down[:n-1]
		return
	}
	if len(s.up) == 0 {
		return
	}
	items := s.Items()
	s.focus = items[0]
	s.up = nil
	s.down = reversed(items[1:])
}

// FocusElement focuses c if present and reports whether it was found.
func (s *Stack[C]) FocusElement(c C) bool {
	if s.focus == c {
		return true
	}
	items := s.Items()
	idx := slices.Index(items, c)
	if idx < 0 {
		return false
	}
	s.focus = items[idx]
	s.up = items[:idx:idx]
	s.down = reversed(items[idx+1:])
	return true
}

// SwapUp exchanges the focused element with the one above it. At the top the
// focused element wraps to the bottom. Focus stays on the same element.
func (s *Stack[C]) SwapUp() {
	if n := len(s.up); n > 0 {
		s.down = append(s.down, s.up[n-1])
		s.up = s.up[:n-1]
		return
	}
	if len(s.down) == 0 {
		return
	}
	s.up = reversed(s.down)
	s.down = nil
}

// SwapDown exchanges the focused element with the one below it. At the bottom
// the focused element wraps to the top. Focus stays on the same element.
func (s *Stack[C]) SwapDown() {
	if n := len(s.down); n > 0 {
		s.up = append(s.up, s.down[n-1])
		s.down = s.down[:n-1]
		return
	}
	if len(s.up) == 0 {
		return
	}
	s.down = reversed(s.up)
	s.up = nil
}

// InsertUp places c directly above the focus without moving focus.
func (s *Stack[C]) InsertUp(c C) bool {
	if s.Contains(c) {
		return false
	}
	s.up = append(s.up, c)
	return true
}

// InsertDown places c directly below the focus without moving focus.
func (s *Stack[C]) InsertDown(c C) bool {
	if s.Contains(c) {
		return false
	}
	s.down = append(s.down, c)
	return true
}

// Insert places c where the focus is and focuses it, pushing the previously
// focused element down by one.
func (s *Stack[C]) Insert(c C) bool {
	if s.Contains(c) {
		return false
	}
	s.down = append(s.down, s.focus)
	s.focus = c
	return true
}

// RemoveFocused removes the focused element. Focus moves to the element below
// if there is one, otherwise to the element above. The remainder is nil when
// the stack held a single element.
func (s *Stack[C]) RemoveFocused() (C, *Stack[C]) {
	removed := s.focus
	switch {
	case len(s.down) > 0:
		n := len(s.down)
		s.focus = s.down[n-1]
		s.down = s.down[:n-1]
	case len(s.up) > 0:
		n := len(s.up)
		s.focus = s.up[n-1]
		s.up = s.up[:n-1]
	default:
		return removed, nil
	}
	return removed, s
}

// Remove deletes c from the stack. Focus only changes when c was focused.
// The returned bool reports whether c was present; the remainder is nil when
// the stack became empty.
func (s *Stack[C]) Remove(c C) (C, bool, *Stack[C]) {
	if s.focus == c {
		removed, rest := s.RemoveFocused()
		return removed, true, rest
	}
	if i := slices.Index(s.up, c); i >= 0 {
		s.up = slices.Delete(s.up, i, i+1)
		return c, true, s
	}
	if i := slices.Index(s.down, c); i >= 0 {
		s.down = slices.Delete(s.down, i, i+1)
		return c, true, s
	}
	var zero C
	return zero, false, s
}

// Map transforms every element while preserving order and focus position.
func Map[C, D comparable](s *Stack[C], f func(C) D) *Stack[D] {
	if s == nil {
		return nil
	}
	out := &Stack[D]{
		up:    make([]D, len(s.up)),
		focus: f(s.focus),
		down:  make([]D, len(s.down)),
	}
	for i, c := range s.up {
		out.up[i] = f(c)
	}
	for i, c := range s.down {
		out.down[i] = f(c)
	}
	return out
}

func reversed[C any](in []C) []C {
	if len(in) == 0 {
		return nil
	}
	out := make([]C, len(in))
	for i, c := range in {
		out[len(in)-1-i] = c
	}
	return out
}
