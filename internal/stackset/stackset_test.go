package stackset

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/stackwm/internal/layout"
	"github.com/1broseidon/stackwm/internal/platform"
)

var (
	left  = platform.Rect{X: 0, Y: 0, Width: 1000, Height: 800}
	right = platform.Rect{X: 1000, Y: 0, Width: 1000, Height: 800}
)

func newSet(t *testing.T, regions ...platform.Rect) *StackSet {
	t.Helper()
	ss, err := New(Options{
		Tags:    []string{"1", "2", "3", "4"},
		Regions: regions,
	})
	require.NoError(t, err)
	return ss
}

func tagsOf(ws []*Workspace) []string {
	out := make([]string, len(ws))
	for i, w := range ws {
		out[i] = w.Tag
	}
	return out
}

func TestNewAssignsWorkspacesToScreens(t *testing.T) {
	ss := newSet(t, left, right)

	screens := ss.Screens()
	require.Len(t, screens, 2)
	require.Equal(t, "1", screens[0].Workspace.Tag)
	require.Equal(t, "2", screens[1].Workspace.Tag)
	require.Equal(t, []string{"3", "4"}, tagsOf(ss.HiddenWorkspaces()))
	require.Equal(t, "1", ss.CurrentTag())
}

func TestNewSkipsInvisibleTags(t *testing.T) {
	ss, err := New(Options{
		Tags:          []string{"scratch", "1", "2"},
		InvisibleTags: []string{"scratch"},
		Regions:       []platform.Rect{left},
	})
	require.NoError(t, err)
	require.Equal(t, "1", ss.CurrentTag())
	require.True(t, ss.IsInvisible("scratch"))
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want error
	}{
		{"no screens", Options{Tags: []string{"1"}}, ErrNoScreens},
		{"duplicate", Options{Tags: []string{"1", "1"}, Regions: []platform.Rect{left}}, ErrDuplicateTag},
		{"empty tag", Options{Tags: []string{""}, Regions: []platform.Rect{left}}, ErrEmptyTag},
		{"too few", Options{Tags: []string{"1"}, Regions: []platform.Rect{left, right}}, ErrInsufficientWorkspaces},
		{"unknown invisible", Options{Tags: []string{"1"}, InvisibleTags: []string{"x"}, Regions: []platform.Rect{left}}, ErrUnknownTag},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opts)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestWorkspacesHaveIndependentLayouts(t *testing.T) {
	ss := newSet(t, left)
	ss.NextLayout()

	ws2, ok := ss.Workspace("2")
	require.True(t, ok)
	require.NotEqual(t, ss.CurrentWorkspace().LayoutName(), ws2.LayoutName())
}

func TestInsertAndRemove(t *testing.T) {
	ss := newSet(t, left)
	require.NoError(t, ss.Insert(1))
	require.NoError(t, ss.Insert(2))

	id, ok := ss.CurrentClient()
	require.True(t, ok)
	require.Equal(t, platform.Xid(2), id)

	err := ss.InsertOn("3", 1)
	require.ErrorIs(t, err, ErrClientExists)
	var ce *ClientError
	require.True(t, errors.As(err, &ce))
	require.Equal(t, platform.Xid(1), ce.ID)

	require.NoError(t, ss.Float(2, platform.Rect{Width: 10, Height: 10}))
	tag, err := ss.Remove(2)
	require.NoError(t, err)
	require.Equal(t, "1", tag)
	require.False(t, ss.IsFloating(2))
	require.False(t, ss.Contains(2))

	_, err = ss.Remove(2)
	require.ErrorIs(t, err, ErrUnknownClient)
	require.True(t, errors.As(err, &ce))
	require.Equal(t, platform.Xid(2), ce.ID)
}

func TestInsertOnUnknownTag(t *testing.T) {
	ss := newSet(t, left)
	err := ss.InsertOn("nope", 1)
	require.ErrorIs(t, err, ErrUnknownTag)
	require.False(t, ss.Contains(1))
}

func TestFocusTagSwapsHiddenIntoCurrentScreen(t *testing.T) {
	ss := newSet(t, left, right)
	require.NoError(t, ss.FocusTag("3"))

	require.Equal(t, "3", ss.CurrentTag())
	require.Equal(t, 0, ss.CurrentScreen().Index)
	require.Equal(t, []string{"1", "4"}, tagsOf(ss.HiddenWorkspaces()))
	require.Equal(t, "1", ss.LastTag())
}

func TestFocusTagMovesToVisibleScreen(t *testing.T) {
	ss := newSet(t, left, right)
	require.NoError(t, ss.FocusTag("2"))

	require.Equal(t, 1, ss.CurrentScreen().Index)
	require.Equal(t, "1", ss.Screens()[0].Workspace.Tag)
}

func TestPullTagSwapsVisibleWorkspaces(t *testing.T) {
	ss := newSet(t, left, right)
	require.NoError(t, ss.PullTagToScreen("2"))

	require.Equal(t, 0, ss.CurrentScreen().Index)
	require.Equal(t, "2", ss.Screens()[0].Workspace.Tag)
	require.Equal(t, "1", ss.Screens()[1].Workspace.Tag)
}

func TestToggleTag(t *testing.T) {
	ss := newSet(t, left)
	require.NoError(t, ss.ToggleTag())
	require.Equal(t, "1", ss.CurrentTag())

	require.NoError(t, ss.FocusTag("4"))
	require.NoError(t, ss.ToggleTag())
	require.Equal(t, "1", ss.CurrentTag())
	require.NoError(t, ss.ToggleTag())
	require.Equal(t, "4", ss.CurrentTag())
}

func TestNextAndPreviousTagSkipInvisible(t *testing.T) {
	ss, err := New(Options{
		Tags:          []string{"1", "scratch", "2"},
		InvisibleTags: []string{"scratch"},
		Regions:       []platform.Rect{left},
	})
	require.NoError(t, err)

	require.NoError(t, ss.NextTag())
	require.Equal(t, "2", ss.CurrentTag())
	require.NoError(t, ss.NextTag())
	require.Equal(t, "1", ss.CurrentTag())
	require.NoError(t, ss.PreviousTag())
	require.Equal(t, "2", ss.CurrentTag())
}

func TestMoveClientToTag(t *testing.T) {
	ss := newSet(t, left)
	require.NoError(t, ss.Insert(1))
	require.NoError(t, ss.Insert(2))
	require.NoError(t, ss.MoveFocusedToTag("3"))

	tag, ok := ss.TagFor(2)
	require.True(t, ok)
	require.Equal(t, "3", tag)
	require.Equal(t, []platform.Xid{1}, ss.CurrentWorkspace().Clients())

	require.ErrorIs(t, ss.MoveClientToTag(99, "3"), ErrUnknownClient)
	require.ErrorIs(t, ss.MoveClientToTag(1, "nope"), ErrUnknownTag)
}

func TestMoveFocusedOnEmptyWorkspace(t *testing.T) {
	ss := newSet(t, left)
	require.NoError(t, ss.MoveFocusedToTag("2"))
	require.ErrorIs(t, ss.MoveFocusedToTag("nope"), ErrUnknownTag)
}

func TestFocusClientBringsWorkspaceIntoView(t *testing.T) {
	ss := newSet(t, left)
	require.NoError(t, ss.InsertOn("3", 7))
	require.NoError(t, ss.InsertOn("3", 8))
	require.NoError(t, ss.FocusClient(7))

	require.Equal(t, "3", ss.CurrentTag())
	id, _ := ss.CurrentClient()
	require.Equal(t, platform.Xid(7), id)
	require.ErrorIs(t, ss.FocusClient(99), ErrUnknownClient)
}

func TestClientsOrder(t *testing.T) {
	ss := newSet(t, left, right)
	require.NoError(t, ss.InsertOn("4", 40))
	require.NoError(t, ss.InsertOn("2", 20))
	require.NoError(t, ss.InsertOn("1", 10))

	if diff := cmp.Diff([]platform.Xid{10, 20, 40}, ss.Clients()); diff != "" {
		t.Fatalf("clients mismatch (-want +got):\n%s", diff)
	}
}

func TestScreenNavigation(t *testing.T) {
	ss := newSet(t, left, right)
	ss.NextScreen()
	require.Equal(t, 1, ss.CurrentScreen().Index)
	ss.NextScreen()
	require.Equal(t, 0, ss.CurrentScreen().Index)
	ss.PreviousScreen()
	require.Equal(t, 1, ss.CurrentScreen().Index)

	require.True(t, ss.FocusScreen(0))
	require.False(t, ss.FocusScreen(5))
}

func TestToggleTagAfterScreenMoves(t *testing.T) {
	ss := newSet(t, left, right)
	ss.NextScreen()
	require.Equal(t, "1", ss.LastTag())
	require.NoError(t, ss.ToggleTag())
	require.Equal(t, 0, ss.CurrentScreen().Index)
	require.Equal(t, "1", ss.CurrentTag())

	ss.PreviousScreen()
	require.Equal(t, "1", ss.LastTag())
	require.Equal(t, "2", ss.CurrentTag())

	require.True(t, ss.FocusScreen(0))
	require.Equal(t, "2", ss.LastTag())

	single := newSet(t, left)
	single.NextScreen()
	require.Empty(t, single.LastTag())
}

func TestFloatAndSink(t *testing.T) {
	ss := newSet(t, left)
	r := platform.Rect{X: 5, Y: 5, Width: 100, Height: 100}
	require.ErrorIs(t, ss.Float(1, r), ErrUnknownClient)

	require.NoError(t, ss.Insert(1))
	require.NoError(t, ss.Float(1, r))
	got, ok := ss.FloatingRect(1)
	require.True(t, ok)
	require.Equal(t, r, got)

	floating := ss.Floating()
	delete(floating, 1)
	require.True(t, ss.IsFloating(1), "Floating must return a copy")

	require.NoError(t, ss.Sink(1))
	require.False(t, ss.IsFloating(1))
}

func TestMessageWorkspace(t *testing.T) {
	ss := newSet(t, left)
	require.ErrorIs(t, ss.MessageWorkspace("nope", layout.Hide()), ErrUnknownTag)

	ws, _ := ss.Workspace("3")
	before := ws.Layouts.Current().(*layout.MainAndStack).MaxMain
	require.NoError(t, ss.MessageWorkspace("3", layout.IncMain(2)))
	require.Equal(t, before+2, ws.Layouts.Current().(*layout.MainAndStack).MaxMain)

	cur := ss.CurrentWorkspace().Layouts.Current().(*layout.MainAndStack).MaxMain
	require.Equal(t, before, cur)
}

func TestAddWorkspace(t *testing.T) {
	ss := newSet(t, left)
	require.NoError(t, ss.AddWorkspace("5", nil))
	require.ErrorIs(t, ss.AddWorkspace("5", nil), ErrDuplicateTag)
	require.ErrorIs(t, ss.AddWorkspace("", nil), ErrEmptyTag)
	require.Equal(t, []string{"1", "2", "3", "4", "5"}, ss.Tags())
}

func TestSetScreensGrowAndShrink(t *testing.T) {
	ss := newSet(t, left)
	require.NoError(t, ss.Insert(1))

	require.NoError(t, ss.SetScreens([]platform.Rect{left, right}))
	require.Len(t, ss.Screens(), 2)
	require.Equal(t, "2", ss.Screens()[1].Workspace.Tag)
	require.Equal(t, []string{"3", "4"}, tagsOf(ss.HiddenWorkspaces()))

	ss.NextScreen()
	require.NoError(t, ss.SetScreens([]platform.Rect{right}))
	require.Len(t, ss.Screens(), 1)
	require.Equal(t, right, ss.CurrentScreen().Region)
	require.Equal(t, "1", ss.CurrentTag())
	require.Equal(t, []string{"2", "3", "4"}, tagsOf(ss.HiddenWorkspaces()))
	require.True(t, ss.Contains(1))

	require.ErrorIs(t, ss.SetScreens(nil), ErrNoScreens)
}

func TestSetScreensInsufficientWorkspaces(t *testing.T) {
	ss := newSet(t, left)
	many := []platform.Rect{left, right, left, right, left}
	require.ErrorIs(t, ss.SetScreens(many), ErrInsufficientWorkspaces)
	require.Len(t, ss.Screens(), 1)
}

func TestUniqueMembershipAcrossOperations(t *testing.T) {
	ss := newSet(t, left, right)
	for id := platform.Xid(1); id <= 6; id++ {
		require.NoError(t, ss.Insert(id))
		if id%2 == 0 {
			require.NoError(t, ss.MoveFocusedToTag("3"))
		}
		ss.NextScreen()
	}
	require.NoError(t, ss.PullTagToScreen("3"))
	require.NoError(t, ss.FocusTag("4"))

	seen := map[platform.Xid]string{}
	for _, ws := range ss.Workspaces() {
		for _, id := range ws.Clients() {
			prev, dup := seen[id]
			require.Falsef(t, dup, "client %d on %s and %s", id, prev, ws.Tag)
			seen[id] = ws.Tag
		}
	}
	require.Len(t, seen, 6)
}
