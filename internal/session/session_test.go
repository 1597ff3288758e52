package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/1broseidon/stackwm/internal/platform"
)

func TestLoad_MissingFileIsEmpty(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "session.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(s.Assignments) != 0 || len(s.Floating) != 0 || s.FocusedTag != "" {
		t.Fatalf("expected empty session, got %+v", s)
	}
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run", "session.json")
	want := New()
	want.FocusedTag = "2"
	want.Assignments[0x400001] = "1"
	want.Assignments[0x400002] = "2"
	want.Floating[0x400002] = platform.Rect{X: 10, Y: 20, Width: 300, Height: 200}

	if err := Save(path, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temporary file left behind: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("session mismatch (-want +got):\n%s", diff)
	}

	tag, ok := got.TagFor(0x400002)
	if !ok || tag != "2" {
		t.Fatalf("TagFor = %q, %v", tag, ok)
	}
	if _, ok := got.FloatingRect(0x400001); ok {
		t.Fatal("tiled window reported as floating")
	}
}

func TestLoad_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestNilSessionLookups(t *testing.T) {
	var s *Session
	if _, ok := s.TagFor(1); ok {
		t.Fatal("nil session returned a tag")
	}
	if _, ok := s.FloatingRect(1); ok {
		t.Fatal("nil session returned a rect")
	}
}
