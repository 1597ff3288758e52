// Package reconcile turns successive StackSet states into the ordered list of
// display operations that moves the screen from one to the other.
//
// Capture and Diff are pure. Apply is the only function that talks to the
// display connection, and it reports exactly which operations took effect so
// the next pass can diff against what is really on screen.
package reconcile

import (
	"maps"
	"slices"

	"github.com/1broseidon/stackwm/internal/platform"
	"github.com/1broseidon/stackwm/internal/stackset"
)

// ScreenState is the visible part of one screen.
type ScreenState struct {
	Index   int            `json:"index"`
	Tag     string         `json:"tag"`
	Region  platform.Rect  `json:"region"`
	Clients []platform.Xid `json:"clients"`
}

// Snapshot is an extraction of the state relevant to the display: which
// workspace each screen shows, where every visible window goes and which
// windows are mapped.
type Snapshot struct {
	Screens []ScreenState `json:"screens"`
	// Placed holds the rect of every mapped window that has one.
	Placed map[platform.Xid]platform.Rect `json:"placed"`
	Mapped map[platform.Xid]struct{}      `json:"-"`
	// Managed is every window in any workspace, visible or not.
	Managed map[platform.Xid]struct{} `json:"-"`
	// Floating is the subset of visible windows placed by override.
	Floating map[platform.Xid]struct{} `json:"-"`
	Focus    platform.Xid             `json:"focus,omitempty"`
}

// Empty returns a snapshot with nothing on screen.
func Empty() Snapshot {
	return Snapshot{
		Placed:   make(map[platform.Xid]platform.Rect),
		Mapped:   make(map[platform.Xid]struct{}),
		Managed:  make(map[platform.Xid]struct{}),
		Floating: make(map[platform.Xid]struct{}),
	}
}

// Capture runs the active layout of every visible workspace and records the
// resulting placements. Floating overrides win over layout output. Windows
// the layout omits get no rect and are not considered mapped.
func Capture(ss *stackset.StackSet) Snapshot {
	snap := Empty()
	for _, id := range ss.Clients() {
		snap.Managed[id] = struct{}{}
	}

	for _, scr := range ss.Screens() {
		ws := scr.Workspace
		state := ScreenState{
			Index:   scr.Index,
			Tag:     ws.Tag,
			Region:  scr.Region,
			Clients: ws.Clients(),
		}
		snap.Screens = append(snap.Screens, state)

		for _, p := range ws.Arrange(scr.Region) {
			if ws.Contains(p.ID) {
				snap.Placed[p.ID] = p.Rect
			}
		}
		for _, id := range state.Clients {
			if r, ok := ss.FloatingRect(id); ok {
				snap.Placed[id] = r
				snap.Floating[id] = struct{}{}
			}
		}
	}
	for id := range snap.Placed {
		snap.Mapped[id] = struct{}{}
	}

	if id, ok := ss.CurrentClient(); ok {
		snap.Focus = id
	}
	return snap
}

// Clone returns a deep copy of s.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Screens:  make([]ScreenState, len(s.Screens)),
		Placed:   maps.Clone(s.Placed),
		Mapped:   maps.Clone(s.Mapped),
		Managed:  maps.Clone(s.Managed),
		Floating: maps.Clone(s.Floating),
		Focus:    s.Focus,
	}
	for i, scr := range s.Screens {
		scr.Clients = slices.Clone(scr.Clients)
		out.Screens[i] = scr
	}
	if out.Placed == nil {
		out.Placed = make(map[platform.Xid]platform.Rect)
	}
	if out.Mapped == nil {
		out.Mapped = make(map[platform.Xid]struct{})
	}
	if out.Managed == nil {
		out.Managed = make(map[platform.Xid]struct{})
	}
	if out.Floating == nil {
		out.Floating = make(map[platform.Xid]struct{})
	}
	return out
}

// IsMapped reports whether id is mapped in s.
func (s Snapshot) IsMapped(id platform.Xid) bool {
	_, ok := s.Mapped[id]
	return ok
}

// VisibleTags returns the tag on each screen, in screen order.
func (s Snapshot) VisibleTags() []string {
	tags := make([]string, len(s.Screens))
	for i, scr := range s.Screens {
		tags[i] = scr.Tag
	}
	return tags
}

// MappedIDs returns the mapped windows in ascending order.
func (s Snapshot) MappedIDs() []platform.Xid {
	return slices.Sorted(maps.Keys(s.Mapped))
}
