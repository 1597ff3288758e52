package reconcile

import (
	"fmt"

	"github.com/1broseidon/stackwm/internal/platform"
)

// ApplyError reports the operation that stopped a plan.
type ApplyError struct {
	Op Op
	// Applied is how many ops succeeded before Op failed.
	Applied int
	Err     error
}

func (e *ApplyError) Error() string {
	return fmt.Sprintf("apply %s (after %d ops): %v", e.Op, e.Applied, e.Err)
}

func (e *ApplyError) Unwrap() error {
	return e.Err
}

// Apply issues plan.Ops against conn in order and stops at the first
// failure. It returns the snapshot that is actually on screen: prev updated
// with every op that succeeded. When all ops succeed that is plan.Next.
func Apply(conn platform.Conn, plan Plan, prev Snapshot) (Snapshot, error) {
	eff := prev.Clone()
	eff.Screens = plan.Next.Clone().Screens
	eff.Managed = plan.Next.Clone().Managed
	eff.Floating = plan.Next.Clone().Floating

	// Windows that left management are gone from the display already.
	for id := range eff.Mapped {
		if _, ok := eff.Managed[id]; !ok {
			delete(eff.Mapped, id)
		}
	}
	for id := range eff.Placed {
		if _, ok := eff.Managed[id]; !ok {
			delete(eff.Placed, id)
		}
	}

	for i, op := range plan.Ops {
		if err := issue(conn, op); err != nil {
			return eff, &ApplyError{Op: op, Applied: i, Err: err}
		}
		switch op.Kind {
		case OpUnmap:
			delete(eff.Mapped, op.ID)
			delete(eff.Placed, op.ID)
		case OpPosition:
			eff.Placed[op.ID] = op.Rect
		case OpMap:
			eff.Mapped[op.ID] = struct{}{}
		case OpFocus:
			eff.Focus = op.ID
		}
	}
	return plan.Next.Clone(), nil
}

func issue(conn platform.Conn, op Op) error {
	switch op.Kind {
	case OpUnmap:
		return conn.Unmap(op.ID)
	case OpPosition:
		return conn.Position(op.ID, op.Rect)
	case OpMap:
		return conn.Map(op.ID)
	case OpRaise:
		return conn.Raise(op.ID)
	case OpFocus:
		return conn.Focus(op.ID)
	default:
		return fmt.Errorf("unknown op kind %d", op.Kind)
	}
}
