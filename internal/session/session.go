// Package session persists which workspace every window belonged to, so a
// restarted daemon can put adopted windows back where they were.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/1broseidon/stackwm/internal/platform"
)

// Session is the persisted document.
type Session struct {
	FocusedTag  string                         `json:"focused_tag"`
	Assignments map[platform.Xid]string        `json:"assignments"`
	Floating    map[platform.Xid]platform.Rect `json:"floating,omitempty"`
	SavedAt     time.Time                      `json:"saved_at"`
}

// New returns an empty session.
func New() *Session {
	return &Session{
		Assignments: make(map[platform.Xid]string),
		Floating:    make(map[platform.Xid]platform.Rect),
	}
}

// TagFor returns the saved workspace of id.
func (s *Session) TagFor(id platform.Xid) (string, bool) {
	if s == nil {
		return "", false
	}
	tag, ok := s.Assignments[id]
	return tag, ok
}

// FloatingRect returns the saved floating rect of id.
func (s *Session) FloatingRect(id platform.Xid) (platform.Rect, bool) {
	if s == nil {
		return platform.Rect{}, false
	}
	r, ok := s.Floating[id]
	return r, ok
}

// Save writes s to path atomically.
func Save(path string, s *Session) error {
	if s == nil {
		return fmt.Errorf("session is nil")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	if s.SavedAt.IsZero() {
		s.SavedAt = time.Now()
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0600); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

// Load reads the session at path. A missing file yields an empty session.
func Load(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	s := New()
	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("failed to parse session %s: %w", path, err)
	}
	if s.Assignments == nil {
		s.Assignments = make(map[platform.Xid]string)
	}
	if s.Floating == nil {
		s.Floating = make(map[platform.Xid]platform.Rect)
	}
	return s, nil
}
