package reconcile

import (
	"fmt"
	"maps"
	"slices"

	"github.com/1broseidon/stackwm/internal/platform"
)

// OpKind names a display operation.
type OpKind uint8

// Operation kinds, in the order a plan issues them.
const (
	OpUnmap OpKind = iota
	OpPosition
	OpMap
	OpRaise
	OpFocus
)

func (k OpKind) String() string {
	switch k {
	case OpUnmap:
		return "unmap"
	case OpPosition:
		return "position"
	case OpMap:
		return "map"
	case OpRaise:
		return "raise"
	case OpFocus:
		return "focus"
	default:
		return fmt.Sprintf("op(%d)", uint8(k))
	}
}

// MarshalText renders the kind by name.
func (k OpKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText parses a kind name.
func (k *OpKind) UnmarshalText(text []byte) error {
	for c := OpUnmap; c <= OpFocus; c++ {
		if c.String() == string(text) {
			*k = c
			return nil
		}
	}
	return fmt.Errorf("unknown op kind %q", text)
}

// Op is one display operation. Rect is only meaningful for OpPosition.
type Op struct {
	Kind OpKind        `json:"kind"`
	ID   platform.Xid  `json:"id"`
	Rect platform.Rect `json:"rect,omitzero"`
}

func (o Op) String() string {
	if o.Kind == OpPosition {
		return fmt.Sprintf("%s %d %s", o.Kind, o.ID, o.Rect)
	}
	return fmt.Sprintf("%s %d", o.Kind, o.ID)
}

// Plan is the result of a diff.
type Plan struct {
	// Ops are ordered unmaps, positions, maps, raises, then focus.
	Ops []Op
	// Hidden lists tags that were visible before and are not any more.
	Hidden []string
	// Next is the snapshot the display reaches once every op succeeds.
	Next Snapshot
}

// Empty reports whether the plan has nothing to do on the display.
func (p Plan) Empty() bool {
	return len(p.Ops) == 0
}

// Diff computes the operations that take the display from prev, the state
// last known to be on screen, to curr, a freshly captured state.
//
// A window is mapped in the result when it sits on a visible workspace and
// either has a rect in curr or was already mapped in prev. Windows that keep
// their rect are left alone, so a window moving between two visible
// workspaces is only repositioned. Windows that stopped being managed are
// dropped without an unmap.
func Diff(prev, curr Snapshot) Plan {
	next := Snapshot{
		Screens:  curr.Clone().Screens,
		Placed:   make(map[platform.Xid]platform.Rect),
		Mapped:   make(map[platform.Xid]struct{}),
		Managed:  maps.Clone(curr.Managed),
		Floating: maps.Clone(curr.Floating),
		Focus:    curr.Focus,
	}
	if next.Managed == nil {
		next.Managed = make(map[platform.Xid]struct{})
	}
	if next.Floating == nil {
		next.Floating = make(map[platform.Xid]struct{})
	}

	var positions, mapsOps, raises []Op
	touched := make(map[string]bool)

	for _, scr := range curr.Screens {
		for _, id := range scr.Clients {
			r, hasRect := curr.Placed[id]
			wasMapped := prev.IsMapped(id)
			if !hasRect && !wasMapped {
				continue
			}
			next.Mapped[id] = struct{}{}

			if !hasRect {
				if old, ok := prev.Placed[id]; ok {
					next.Placed[id] = old
				}
				continue
			}
			next.Placed[id] = r

			if old, ok := prev.Placed[id]; !wasMapped || !ok || old != r {
				positions = append(positions, Op{Kind: OpPosition, ID: id, Rect: r})
				touched[scr.Tag] = true
			}
			if !wasMapped {
				mapsOps = append(mapsOps, Op{Kind: OpMap, ID: id})
				touched[scr.Tag] = true
			}
		}
	}

	var unmaps []Op
	for _, id := range prev.MappedIDs() {
		if next.IsMapped(id) {
			continue
		}
		if _, managed := curr.Managed[id]; !managed {
			continue
		}
		unmaps = append(unmaps, Op{Kind: OpUnmap, ID: id})
	}

	for _, scr := range curr.Screens {
		if !touched[scr.Tag] {
			continue
		}
		for _, id := range scr.Clients {
			if _, floating := curr.Floating[id]; floating && next.IsMapped(id) {
				raises = append(raises, Op{Kind: OpRaise, ID: id})
			}
		}
	}

	ops := slices.Concat(unmaps, positions, mapsOps, raises)
	if curr.Focus != prev.Focus {
		ops = append(ops, Op{Kind: OpFocus, ID: curr.Focus})
	}

	var hidden []string
	visible := curr.VisibleTags()
	for _, tag := range prev.VisibleTags() {
		if !slices.Contains(visible, tag) {
			hidden = append(hidden, tag)
		}
	}

	return Plan{Ops: ops, Hidden: hidden, Next: next}
}
