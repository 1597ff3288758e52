// Package stackset holds the pure window management state: every workspace,
// which workspace each screen shows, which window has focus, and which
// windows float above the tiled layout.
//
// A window id lives in at most one workspace at a time and workspace tags
// are unique. Nothing in this package talks to the display server; callers
// capture the resulting state and reconcile it separately.
package stackset

import (
	"maps"
	"slices"

	"github.com/1broseidon/stackwm/internal/layout"
	"github.com/1broseidon/stackwm/internal/platform"
	"github.com/1broseidon/stackwm/internal/stack"
)

// Options configures a new StackSet.
type Options struct {
	// Tags lists every workspace in order. The first tags that are not
	// invisible are shown on the screens.
	Tags []string
	// InvisibleTags are never placed on a screen automatically.
	InvisibleTags []string
	// Layouts is cloned into every workspace. Nil uses layout.DefaultSpecs.
	Layouts *layout.Cycle
	// Regions are the usable areas of each screen, already reduced for any
	// reserved chrome.
	Regions []platform.Rect
}

// StackSet is the top level window management state.
type StackSet struct {
	screens   *stack.Stack[*Screen]
	hidden    []*Workspace
	floating  map[platform.Xid]platform.Rect
	invisible map[string]struct{}
	order     []string
	layouts   *layout.Cycle
	previous  string
}

// New builds a StackSet from opts.
func New(opts Options) (*StackSet, error) {
	if len(opts.Regions) == 0 {
		return nil, ErrNoScreens
	}
	layouts := opts.Layouts
	if layouts == nil {
		c, err := layout.BuildCycle(layout.DefaultSpecs())
		if err != nil {
			return nil, err
		}
		layouts = c
	}

	seen := make(map[string]struct{}, len(opts.Tags))
	for _, tag := range opts.Tags {
		if tag == "" {
			return nil, ErrEmptyTag
		}
		if _, dup := seen[tag]; dup {
			return nil, tagErr(tag, ErrDuplicateTag)
		}
		seen[tag] = struct{}{}
	}

	ss := &StackSet{
		floating:  make(map[platform.Xid]platform.Rect),
		invisible: make(map[string]struct{}),
		order:     append([]string(nil), opts.Tags...),
		layouts:   layouts,
	}
	for _, tag := range opts.InvisibleTags {
		if _, ok := seen[tag]; !ok {
			return nil, tagErr(tag, ErrUnknownTag)
		}
		ss.invisible[tag] = struct{}{}
	}

	var shown []*Workspace
	for _, tag := range opts.Tags {
		ws := NewWorkspace(tag, layouts.Clone())
		if len(shown) < len(opts.Regions) && !ss.IsInvisible(tag) {
			shown = append(shown, ws)
			continue
		}
		ss.hidden = append(ss.hidden, ws)
	}
	if len(shown) < len(opts.Regions) {
		return nil, ErrInsufficientWorkspaces
	}

	screens := make([]*Screen, len(opts.Regions))
	for i, r := range opts.Regions {
		screens[i] = &Screen{Index: i, Workspace: shown[i], Region: r}
	}
	ss.screens = stack.FromSlice(screens, 0)
	return ss, nil
}

// CurrentScreen returns the focused screen.
func (ss *StackSet) CurrentScreen() *Screen {
	return ss.screens.Focus()
}

// CurrentWorkspace returns the workspace on the focused screen.
func (ss *StackSet) CurrentWorkspace() *Workspace {
	return ss.screens.Focus().Workspace
}

// CurrentTag returns the tag of the workspace on the focused screen.
func (ss *StackSet) CurrentTag() string {
	return ss.CurrentWorkspace().Tag
}

// CurrentClient returns the focused window on the focused screen.
func (ss *StackSet) CurrentClient() (platform.Xid, bool) {
	return ss.CurrentWorkspace().Focused()
}

// LastTag returns the tag focused before the current one.
func (ss *StackSet) LastTag() string {
	return ss.previous
}

// Screens returns every screen in index order.
func (ss *StackSet) Screens() []*Screen {
	return ss.screens.Items()
}

// HiddenWorkspaces returns the workspaces not shown on any screen.
func (ss *StackSet) HiddenWorkspaces() []*Workspace {
	return slices.Clone(ss.hidden)
}

// Workspaces returns every workspace, visible ones first in screen order.
func (ss *StackSet) Workspaces() []*Workspace {
	out := make([]*Workspace, 0, ss.screens.Len()+len(ss.hidden))
	for _, s := range ss.screens.Items() {
		out = append(out, s.Workspace)
	}
	return append(out, ss.hidden...)
}

// Tags returns every workspace tag in configuration order.
func (ss *StackSet) Tags() []string {
	return slices.Clone(ss.order)
}

// Workspace looks up a workspace by tag.
func (ss *StackSet) Workspace(tag string) (*Workspace, bool) {
	for _, ws := range ss.Workspaces() {
		if ws.Tag == tag {
			return ws, true
		}
	}
	return nil, false
}

// ScreenFor returns the screen showing tag, if it is visible.
func (ss *StackSet) ScreenFor(tag string) (*Screen, bool) {
	for _, s := range ss.screens.Items() {
		if s.Workspace.Tag == tag {
			return s, true
		}
	}
	return nil, false
}

// IsVisible reports whether tag is shown on a screen.
func (ss *StackSet) IsVisible(tag string) bool {
	_, ok := ss.ScreenFor(tag)
	return ok
}

// IsInvisible reports whether tag is excluded from automatic display.
func (ss *StackSet) IsInvisible(tag string) bool {
	_, ok := ss.invisible[tag]
	return ok
}

// SetInvisibleTags replaces the set of invisible tags. Unknown tags are ignored.
func (ss *StackSet) SetInvisibleTags(tags []string) {
	ss.invisible = make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		if _, ok := ss.Workspace(tag); ok {
			ss.invisible[tag] = struct{}{}
		}
	}
}

// Clients returns every managed window: visible workspaces in screen order,
// then hidden workspaces.
func (ss *StackSet) Clients() []platform.Xid {
	var out []platform.Xid
	for _, ws := range ss.Workspaces() {
		out = append(out, ws.Clients()...)
	}
	return out
}

// Contains reports whether id is managed.
func (ss *StackSet) Contains(id platform.Xid) bool {
	_, ok := ss.TagFor(id)
	return ok
}

// TagFor returns the tag of the workspace holding id.
func (ss *StackSet) TagFor(id platform.Xid) (string, bool) {
	for _, ws := range ss.Workspaces() {
		if ws.Contains(id) {
			return ws.Tag, true
		}
	}
	return "", false
}

// Insert adds id to the current workspace and focuses it.
func (ss *StackSet) Insert(id platform.Xid) error {
	return ss.InsertOn(ss.CurrentTag(), id)
}

// InsertOn adds id to the workspace tagged tag and focuses it there.
func (ss *StackSet) InsertOn(tag string, id platform.Xid) error {
	if ss.Contains(id) {
		return clientErr(id, ErrClientExists)
	}
	ws, ok := ss.Workspace(tag)
	if !ok {
		return tagErr(tag, ErrUnknownTag)
	}
	ws.insert(id)
	return nil
}

// Remove stops managing id and drops any floating override for it. It
// returns the tag the window was on, or ErrUnknownClient.
func (ss *StackSet) Remove(id platform.Xid) (string, error) {
	for _, ws := range ss.Workspaces() {
		if ws.remove(id) {
			delete(ss.floating, id)
			return ws.Tag, nil
		}
	}
	return "", clientErr(id, ErrUnknownClient)
}

// FocusUp moves focus to the previous window on the current workspace.
func (ss *StackSet) FocusUp() {
	ss.CurrentWorkspace().modify((*stack.Stack[platform.Xid]).FocusUp)
}

// FocusDown moves focus to the next window on the current workspace.
func (ss *StackSet) FocusDown() {
	ss.CurrentWorkspace().modify((*stack.Stack[platform.Xid]).FocusDown)
}

// SwapUp moves the focused window up on the current workspace.
func (ss *StackSet) SwapUp() {
	ss.CurrentWorkspace().modify((*stack.Stack[platform.Xid]).SwapUp)
}

// SwapDown moves the focused window down on the current workspace.
func (ss *StackSet) SwapDown() {
	ss.CurrentWorkspace().modify((*stack.Stack[platform.Xid]).SwapDown)
}

// FocusClient focuses id, bringing its workspace into view if needed.
func (ss *StackSet) FocusClient(id platform.Xid) error {
	tag, ok := ss.TagFor(id)
	if !ok {
		return clientErr(id, ErrUnknownClient)
	}
	if err := ss.FocusTag(tag); err != nil {
		return err
	}
	ss.CurrentWorkspace().Stack.FocusElement(id)
	return nil
}

// FocusTag shows tag. If it is already on another screen that screen gains
// focus; otherwise it replaces the workspace on the focused screen.
func (ss *StackSet) FocusTag(tag string) error {
	if tag == ss.CurrentTag() {
		return nil
	}
	if s, ok := ss.ScreenFor(tag); ok {
		ss.previous = ss.CurrentTag()
		ss.screens.FocusElement(s)
		return nil
	}
	return ss.swapHiddenIntoCurrent(tag)
}

// PullTagToScreen shows tag on the focused screen. A workspace visible on
// another screen trades places with the current one.
func (ss *StackSet) PullTagToScreen(tag string) error {
	if tag == ss.CurrentTag() {
		return nil
	}
	if s, ok := ss.ScreenFor(tag); ok {
		cur := ss.CurrentScreen()
		ss.previous = cur.Workspace.Tag
		cur.Workspace, s.Workspace = s.Workspace, cur.Workspace
		return nil
	}
	return ss.swapHiddenIntoCurrent(tag)
}

func (ss *StackSet) swapHiddenIntoCurrent(tag string) error {
	i := slices.IndexFunc(ss.hidden, func(ws *Workspace) bool { return ws.Tag == tag })
	if i < 0 {
		return tagErr(tag, ErrUnknownTag)
	}
	cur := ss.CurrentScreen()
	ss.previous = cur.Workspace.Tag
	cur.Workspace, ss.hidden[i] = ss.hidden[i], cur.Workspace
	return nil
}

// ToggleTag returns to the previously focused tag.
func (ss *StackSet) ToggleTag() error {
	if ss.previous == "" {
		return nil
	}
	return ss.FocusTag(ss.previous)
}

// NextTag focuses the next tag in configuration order, skipping invisible tags.
func (ss *StackSet) NextTag() error {
	return ss.stepTag(1)
}

// PreviousTag focuses the previous tag in configuration order, skipping
// invisible tags.
func (ss *StackSet) PreviousTag() error {
	return ss.stepTag(-1)
}

func (ss *StackSet) stepTag(dir int) error {
	n := len(ss.order)
	start := slices.Index(ss.order, ss.CurrentTag())
	for step := 1; step < n; step++ {
		tag := ss.order[((start+dir*step)%n+n)%n]
		if !ss.IsInvisible(tag) {
			return ss.FocusTag(tag)
		}
	}
	return nil
}

// MoveClientToTag moves id to the workspace tagged tag, where it becomes focused.
func (ss *StackSet) MoveClientToTag(id platform.Xid, tag string) error {
	from, ok := ss.TagFor(id)
	if !ok {
		return clientErr(id, ErrUnknownClient)
	}
	dst, ok := ss.Workspace(tag)
	if !ok {
		return tagErr(tag, ErrUnknownTag)
	}
	if from == tag {
		return nil
	}
	src, _ := ss.Workspace(from)
	src.remove(id)
	dst.insert(id)
	return nil
}

// MoveFocusedToTag moves the focused window to tag. It is a no-op when the
// current workspace is empty.
func (ss *StackSet) MoveFocusedToTag(tag string) error {
	id, ok := ss.CurrentClient()
	if !ok {
		if _, known := ss.Workspace(tag); !known {
			return tagErr(tag, ErrUnknownTag)
		}
		return nil
	}
	return ss.MoveClientToTag(id, tag)
}

// FocusScreen focuses the screen with the given index.
func (ss *StackSet) FocusScreen(index int) bool {
	for _, s := range ss.screens.Items() {
		if s.Index == index {
			if s != ss.CurrentScreen() {
				ss.previous = ss.CurrentTag()
			}
			ss.screens.FocusElement(s)
			return true
		}
	}
	return false
}

// NextScreen focuses the following screen, wrapping around.
func (ss *StackSet) NextScreen() {
	ss.moveScreenFocus((*stack.Stack[*Screen]).FocusDown)
}

// PreviousScreen focuses the preceding screen, wrapping around.
func (ss *StackSet) PreviousScreen() {
	ss.moveScreenFocus((*stack.Stack[*Screen]).FocusUp)
}

func (ss *StackSet) moveScreenFocus(move func(*stack.Stack[*Screen])) {
	if ss.screens.Len() < 2 {
		return
	}
	ss.previous = ss.CurrentTag()
	move(ss.screens)
}

// Float pins id to r, above the tiled layout.
func (ss *StackSet) Float(id platform.Xid, r platform.Rect) error {
	if !ss.Contains(id) {
		return clientErr(id, ErrUnknownClient)
	}
	ss.floating[id] = r
	return nil
}

// Sink returns id to the tiled layout.
func (ss *StackSet) Sink(id platform.Xid) error {
	if !ss.Contains(id) {
		return clientErr(id, ErrUnknownClient)
	}
	delete(ss.floating, id)
	return nil
}

// IsFloating reports whether id has a floating override.
func (ss *StackSet) IsFloating(id platform.Xid) bool {
	_, ok := ss.floating[id]
	return ok
}

// FloatingRect returns the floating override for id.
func (ss *StackSet) FloatingRect(id platform.Xid) (platform.Rect, bool) {
	r, ok := ss.floating[id]
	return r, ok
}

// Floating returns a copy of every floating override.
func (ss *StackSet) Floating() map[platform.Xid]platform.Rect {
	return maps.Clone(ss.floating)
}

// NextLayout cycles the current workspace to its next layout.
func (ss *StackSet) NextLayout() {
	ss.CurrentWorkspace().Layouts.Next()
}

// PreviousLayout cycles the current workspace to its previous layout.
func (ss *StackSet) PreviousLayout() {
	ss.CurrentWorkspace().Layouts.Previous()
}

// HandleMessage sends m to the active layout of the current workspace.
func (ss *StackSet) HandleMessage(m layout.Message) {
	ss.CurrentWorkspace().Layouts.HandleMessage(m)
}

// BroadcastMessage sends m to every layout of every workspace.
func (ss *StackSet) BroadcastMessage(m layout.Message) {
	for _, ws := range ss.Workspaces() {
		ws.Layouts.BroadcastMessage(m)
	}
}

// MessageWorkspace sends m to the active layout of the workspace tagged tag.
func (ss *StackSet) MessageWorkspace(tag string, m layout.Message) error {
	ws, ok := ss.Workspace(tag)
	if !ok {
		return tagErr(tag, ErrUnknownTag)
	}
	ws.Layouts.HandleMessage(m)
	return nil
}

// AddWorkspace creates a hidden workspace. A nil cycle clones the default
// layouts.
func (ss *StackSet) AddWorkspace(tag string, layouts *layout.Cycle) error {
	if tag == "" {
		return ErrEmptyTag
	}
	if _, ok := ss.Workspace(tag); ok {
		return tagErr(tag, ErrDuplicateTag)
	}
	if layouts == nil {
		layouts = ss.layouts.Clone()
	}
	ss.hidden = append(ss.hidden, NewWorkspace(tag, layouts))
	ss.order = append(ss.order, tag)
	return nil
}

// SetLayouts replaces the layouts of every workspace with clones of c.
func (ss *StackSet) SetLayouts(c *layout.Cycle) {
	ss.layouts = c
	for _, ws := range ss.Workspaces() {
		ws.Layouts = c.Clone()
	}
}

// SetScreens updates the screen regions after outputs change. Screens that
// disappear send their workspaces to the front of the hidden list; new
// screens take the first hidden workspaces that are not invisible.
func (ss *StackSet) SetScreens(regions []platform.Rect) error {
	if len(regions) == 0 {
		return ErrNoScreens
	}
	old := ss.screens.Items()
	focused := ss.CurrentScreen().Index

	var released []*Workspace
	for _, s := range old[min(len(old), len(regions)):] {
		released = append(released, s.Workspace)
	}
	pool := append(released, ss.hidden...)

	screens := make([]*Screen, len(regions))
	var taken []*Workspace
	for i, r := range regions {
		if i < len(old) {
			screens[i] = &Screen{Index: i, Workspace: old[i].Workspace, Region: r}
			continue
		}
		j := slices.IndexFunc(pool, func(ws *Workspace) bool {
			return !ss.IsInvisible(ws.Tag) && !slices.Contains(taken, ws)
		})
		if j < 0 {
			return ErrInsufficientWorkspaces
		}
		taken = append(taken, pool[j])
		screens[i] = &Screen{Index: i, Workspace: pool[j], Region: r}
	}

	hidden := make([]*Workspace, 0, len(pool))
	for _, ws := range pool {
		if !slices.Contains(taken, ws) {
			hidden = append(hidden, ws)
		}
	}

	ss.hidden = hidden
	ss.screens = stack.FromSlice(screens, min(focused, len(screens)-1))
	return nil
}
