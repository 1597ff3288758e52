package reconcile

import (
	"errors"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/1broseidon/stackwm/internal/platform"
	"github.com/1broseidon/stackwm/internal/platform/platformtest"
	"github.com/1broseidon/stackwm/internal/stackset"
)

var (
	left  = platform.Rect{X: 0, Y: 0, Width: 1000, Height: 800}
	right = platform.Rect{X: 1000, Y: 0, Width: 1000, Height: 800}
)

func newSet(t *testing.T, regions ...platform.Rect) *stackset.StackSet {
	t.Helper()
	ss, err := stackset.New(stackset.Options{
		Tags:    []string{"1", "2", "3"},
		Regions: regions,
	})
	if err != nil {
		t.Fatalf("new stackset: %v", err)
	}
	return ss
}

func insert(t *testing.T, ss *stackset.StackSet, tag string, ids ...platform.Xid) {
	t.Helper()
	for _, id := range ids {
		if err := ss.InsertOn(tag, id); err != nil {
			t.Fatalf("insert %d on %s: %v", id, tag, err)
		}
	}
}

// settle applies a full pass from an empty display and returns what is on screen.
func settle(t *testing.T, ss *stackset.StackSet) Snapshot {
	t.Helper()
	plan := Diff(Empty(), Capture(ss))
	eff, err := Apply(platformtest.NewConn(), plan, Empty())
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	return eff
}

func opsFor(ops []Op, id platform.Xid) []Op {
	var out []Op
	for _, op := range ops {
		if op.ID == id {
			out = append(out, op)
		}
	}
	return out
}

func kinds(ops []Op) []OpKind {
	out := make([]OpKind, len(ops))
	for i, op := range ops {
		out[i] = op.Kind
	}
	return out
}

func TestDiffOfIdenticalSnapshotsIsEmpty(t *testing.T) {
	ss := newSet(t, left, right)
	insert(t, ss, "1", 1, 2, 3)
	insert(t, ss, "2", 4)
	if err := ss.Float(2, platform.Rect{X: 10, Y: 10, Width: 200, Height: 100}); err != nil {
		t.Fatalf("float: %v", err)
	}

	snap := Capture(ss)
	plan := Diff(snap, snap)
	if !plan.Empty() {
		t.Fatalf("expected no ops, got %v", plan.Ops)
	}
	if len(plan.Hidden) != 0 {
		t.Fatalf("expected no hidden tags, got %v", plan.Hidden)
	}
}

func TestDiffFromEmptyPlacesAndMaps(t *testing.T) {
	ss := newSet(t, left)
	insert(t, ss, "1", 1, 2)

	plan := Diff(Empty(), Capture(ss))
	want := []OpKind{OpPosition, OpPosition, OpMap, OpMap, OpFocus}
	if diff := cmp.Diff(want, kinds(plan.Ops)); diff != "" {
		t.Fatalf("op kinds mismatch (-want +got):\n%s", diff)
	}
	if plan.Ops[len(plan.Ops)-1].ID != 2 {
		t.Fatalf("expected focus on the newest window, got %v", plan.Ops[len(plan.Ops)-1])
	}
}

func TestMoveBetweenVisibleWorkspacesOnlyRepositions(t *testing.T) {
	ss := newSet(t, left, right)
	insert(t, ss, "1", 7)
	insert(t, ss, "2", 8)
	prev := settle(t, ss)

	if err := ss.MoveClientToTag(7, "2"); err != nil {
		t.Fatalf("move: %v", err)
	}
	plan := Diff(prev, Capture(ss))

	got := opsFor(plan.Ops, 7)
	if len(got) != 1 || got[0].Kind != OpPosition {
		t.Fatalf("expected a single position op for 7, got %v", got)
	}
	if !right.ContainsPoint(got[0].Rect.X, got[0].Rect.Y) {
		t.Fatalf("7 should move onto the right screen, got %v", got[0].Rect)
	}
	for _, op := range plan.Ops {
		if op.Kind == OpUnmap || op.Kind == OpMap {
			t.Fatalf("unexpected %v", op)
		}
	}
}

func TestFloatingOverrideWinsAndRaises(t *testing.T) {
	ss := newSet(t, left)
	insert(t, ss, "1", 3, 4)
	float := platform.Rect{X: 50, Y: 60, Width: 300, Height: 200}
	if err := ss.Float(3, float); err != nil {
		t.Fatalf("float: %v", err)
	}

	plan := Diff(Empty(), Capture(ss))
	want := []Op{
		{Kind: OpPosition, ID: 3, Rect: float},
		{Kind: OpMap, ID: 3},
		{Kind: OpRaise, ID: 3},
	}
	if diff := cmp.Diff(want, opsFor(plan.Ops, 3)); diff != "" {
		t.Fatalf("ops for floating window mismatch (-want +got):\n%s", diff)
	}
}

func TestFloatingRaisedWhenTagIsTouched(t *testing.T) {
	ss := newSet(t, left)
	insert(t, ss, "1", 3)
	if err := ss.Float(3, platform.Rect{X: 5, Y: 5, Width: 100, Height: 100}); err != nil {
		t.Fatalf("float: %v", err)
	}
	prev := settle(t, ss)

	insert(t, ss, "1", 4)
	plan := Diff(prev, Capture(ss))
	got := opsFor(plan.Ops, 3)
	if diff := cmp.Diff([]Op{{Kind: OpRaise, ID: 3}}, got); diff != "" {
		t.Fatalf("ops for floating window mismatch (-want +got):\n%s", diff)
	}
}

func TestOpsAreGroupedInFixedOrder(t *testing.T) {
	ss := newSet(t, left, right)
	insert(t, ss, "1", 1, 2)
	insert(t, ss, "3", 5)
	if err := ss.Float(5, platform.Rect{X: 1, Y: 1, Width: 10, Height: 10}); err != nil {
		t.Fatalf("float: %v", err)
	}
	prev := settle(t, ss)

	if err := ss.FocusTag("3"); err != nil {
		t.Fatalf("view: %v", err)
	}
	plan := Diff(prev, Capture(ss))

	got := kinds(plan.Ops)
	if !slices.IsSorted(got) {
		t.Fatalf("ops out of order: %v", plan.Ops)
	}
	want := []OpKind{OpUnmap, OpUnmap, OpPosition, OpMap, OpRaise, OpFocus}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("op kinds mismatch (-want +got):\n%s", diff)
	}
	if plan.Ops[0].ID != 1 || plan.Ops[1].ID != 2 {
		t.Fatalf("unmaps should be in ascending id order: %v", plan.Ops[:2])
	}
	if diff := cmp.Diff([]string{"1"}, plan.Hidden); diff != "" {
		t.Fatalf("hidden tags mismatch (-want +got):\n%s", diff)
	}
}

func TestRemovedWindowIsDroppedWithoutUnmap(t *testing.T) {
	ss := newSet(t, left)
	insert(t, ss, "1", 1, 2)
	prev := settle(t, ss)

	if _, err := ss.Remove(2); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	plan := Diff(prev, Capture(ss))
	if got := opsFor(plan.Ops, 2); len(got) != 0 {
		t.Fatalf("expected no ops for removed window, got %v", got)
	}
	if plan.Next.IsMapped(2) {
		t.Fatalf("removed window should not be mapped")
	}
}

func TestOmittedWindowsKeepPreviousState(t *testing.T) {
	ss := newSet(t, left)
	insert(t, ss, "1", 1, 2)
	prev := settle(t, ss)

	// tall -> grid -> monocle
	ss.NextLayout()
	ss.NextLayout()
	plan := Diff(prev, Capture(ss))
	if got := opsFor(plan.Ops, 1); len(got) != 0 {
		t.Fatalf("window omitted by the layout should be left alone, got %v", got)
	}
	if !plan.Next.IsMapped(1) {
		t.Fatalf("previously mapped window should stay mapped")
	}

	fresh := Diff(Empty(), Capture(ss))
	if got := opsFor(fresh.Ops, 1); len(got) != 0 {
		t.Fatalf("unplaced window should not be mapped from scratch, got %v", got)
	}
}

func TestApplySuccessReachesNext(t *testing.T) {
	ss := newSet(t, left, right)
	insert(t, ss, "1", 1, 2)
	insert(t, ss, "2", 3)

	conn := platformtest.NewConn()
	plan := Diff(Empty(), Capture(ss))
	eff, err := Apply(conn, plan, Empty())
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if diff := cmp.Diff(plan.Next, eff); diff != "" {
		t.Fatalf("effective snapshot mismatch (-want +got):\n%s", diff)
	}
	if len(conn.Recorded()) != len(plan.Ops) {
		t.Fatalf("expected %d calls, got %d", len(plan.Ops), len(conn.Recorded()))
	}
	if again := Diff(eff, Capture(ss)); !again.Empty() {
		t.Fatalf("second pass should be empty, got %v", again.Ops)
	}
}

func TestApplyStopsAtFirstFailureAndTracksProgress(t *testing.T) {
	ss := newSet(t, left)
	insert(t, ss, "1", 1, 2)
	prev := settle(t, ss)

	ss.NextLayout()
	curr := Capture(ss)
	plan := Diff(prev, curr)
	if diff := cmp.Diff([]OpKind{OpPosition, OpPosition}, kinds(plan.Ops)); diff != "" {
		t.Fatalf("op kinds mismatch (-want +got):\n%s", diff)
	}

	conn := platformtest.NewConn()
	conn.FailAt = 2
	eff, err := Apply(conn, plan, prev)

	var aerr *ApplyError
	if !errors.As(err, &aerr) {
		t.Fatalf("expected *ApplyError, got %v", err)
	}
	if aerr.Applied != 1 || aerr.Op != plan.Ops[1] {
		t.Fatalf("unexpected failure report: %+v", aerr)
	}
	if !errors.Is(err, platformtest.ErrInjected) {
		t.Fatalf("error should wrap the connection failure: %v", err)
	}
	var cerr *platform.ConnError
	if !errors.As(err, &cerr) || cerr.ID != plan.Ops[1].ID {
		t.Fatalf("error should carry the failing window: %v", err)
	}
	if len(conn.Recorded()) != 1 {
		t.Fatalf("no ops should be issued after a failure, got %v", conn.Recorded())
	}

	retry := Diff(eff, curr)
	if diff := cmp.Diff(plan.Ops[1:], retry.Ops); diff != "" {
		t.Fatalf("retry should only re-issue the failed op (-want +got):\n%s", diff)
	}
}
