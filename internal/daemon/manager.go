// Package daemon runs the window manager: a single goroutine owns the
// StackSet, applies every event to it and reconciles the display after each
// change.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/1broseidon/stackwm/internal/action"
	"github.com/1broseidon/stackwm/internal/config"
	"github.com/1broseidon/stackwm/internal/layout"
	"github.com/1broseidon/stackwm/internal/platform"
	"github.com/1broseidon/stackwm/internal/reconcile"
	"github.com/1broseidon/stackwm/internal/stackset"
)

// ErrStopped is returned when the manager loop is no longer running.
var ErrStopped = errors.New("manager is not running")

const eventBuffer = 256

// ManagerConfig holds what a Manager needs.
type ManagerConfig struct {
	Conn platform.Conn
	// Lister enumerates live windows and outputs. Optional: without it the
	// drift check is skipped and Displays must be set.
	Lister platform.Lister
	// Info describes windows for manage rules. Optional.
	Info     ClientInfo
	Settings *config.Config
	// Displays overrides the outputs reported by Lister at startup.
	Displays []platform.Display
	// Adopt lists windows already on screen when the manager starts.
	Adopt []platform.Xid
	// SessionPath is where window assignments are saved. Empty disables it.
	SessionPath string
	Hooks       Hooks
	Logger      *slog.Logger
}

// Manager owns the window management state. All state is touched only by
// the goroutine running Run.
type Manager struct {
	conn        platform.Conn
	lister      platform.Lister
	info        ClientInfo
	cfg         *config.Config
	hooks       Hooks
	logger      *slog.Logger
	sessionPath string
	adopt       []platform.Xid

	ss       *stackset.StackSet
	displays []platform.Display
	prev     reconcile.Snapshot
	force    bool

	// pendingUnmaps counts unmaps we issued whose notification has not
	// arrived yet.
	pendingUnmaps map[platform.Xid]int
	lastOps       []reconcile.Op
	lastErr       error

	events chan Event
	done   chan struct{}
}

// NewManager builds the initial StackSet from the configuration and the
// current outputs.
func NewManager(cfg ManagerConfig) (*Manager, error) {
	if cfg.Conn == nil {
		return nil, fmt.Errorf("manager requires a display connection")
	}
	settings := cfg.Settings
	if settings == nil {
		settings = config.DefaultConfig()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	displays := cfg.Displays
	if displays == nil && cfg.Lister != nil {
		ds, err := cfg.Lister.Displays()
		if err != nil {
			return nil, fmt.Errorf("failed to query displays: %w", err)
		}
		displays = ds
	}

	cycle, err := settings.LayoutCycle()
	if err != nil {
		return nil, fmt.Errorf("invalid layouts: %w", err)
	}
	ss, err := stackset.New(stackset.Options{
		Tags:          settings.Workspaces,
		InvisibleTags: settings.InvisibleWorkspaces,
		Layouts:       cycle,
		Regions:       settings.Regions(displays),
	})
	if err != nil {
		return nil, err
	}

	m := &Manager{
		conn:          cfg.Conn,
		lister:        cfg.Lister,
		info:          cfg.Info,
		cfg:           settings,
		hooks:         cfg.Hooks,
		logger:        logger,
		sessionPath:   cfg.SessionPath,
		adopt:         slices.Clone(cfg.Adopt),
		ss:            ss,
		displays:      displays,
		prev:          reconcile.Empty(),
		pendingUnmaps: make(map[platform.Xid]int),
		events:        make(chan Event, eventBuffer),
		done:          make(chan struct{}),
	}
	return m, nil
}

// Post queues ev for the loop. It reports false once the loop has stopped.
// Safe for concurrent use.
func (m *Manager) Post(ev Event) bool {
	select {
	case <-m.done:
		return false
	default:
	}
	select {
	case m.events <- ev:
		return true
	case <-m.done:
		return false
	}
}

// Do runs a and waits for it to be applied.
func (m *Manager) Do(ctx context.Context, a action.Action) error {
	reply := make(chan error, 1)
	return m.roundTrip(ctx, RunAction{Action: a, reply: reply}, reply)
}

// Reload applies cfg and waits for the result.
func (m *Manager) Reload(ctx context.Context, cfg *config.Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	reply := make(chan error, 1)
	return m.roundTrip(ctx, Reload{Config: cfg, reply: reply}, reply)
}

// State returns a copy of the current state.
func (m *Manager) State(ctx context.Context) (State, error) {
	var st State
	done := make(chan struct{})
	q := query{fn: func(s State) { st = s }, done: done}
	if !m.postCtx(ctx, q) {
		return State{}, m.stopErr(ctx)
	}
	select {
	case <-done:
		return st, nil
	case <-m.done:
		return State{}, ErrStopped
	case <-ctx.Done():
		return State{}, ctx.Err()
	}
}

func (m *Manager) roundTrip(ctx context.Context, ev Event, reply chan error) error {
	if !m.postCtx(ctx, ev) {
		return m.stopErr(ctx)
	}
	select {
	case err := <-reply:
		return err
	case <-m.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Manager) postCtx(ctx context.Context, ev Event) bool {
	select {
	case <-m.done:
		return false
	default:
	}
	select {
	case m.events <- ev:
		return true
	case <-m.done:
		return false
	case <-ctx.Done():
		return false
	}
}

func (m *Manager) stopErr(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return ErrStopped
}

// Done is closed when Run returns.
func (m *Manager) Done() <-chan struct{} {
	return m.done
}

// Run places adopted windows, reconciles, then processes events until ctx
// is cancelled.
func (m *Manager) Run(ctx context.Context) error {
	defer close(m.done)

	if err := m.startup(); err != nil {
		return err
	}
	m.refresh()
	m.logger.Info("manager started",
		"screens", len(m.ss.Screens()),
		"workspaces", len(m.ss.Tags()),
		"adopted", len(m.adopt))

	for {
		select {
		case <-ctx.Done():
			m.shutdown()
			m.logger.Info("manager stopped")
			return nil
		case ev := <-m.events:
			m.dispatch(ev)
		}
	}
}

func (m *Manager) dispatch(ev Event) {
	var err error
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("event panic recovered", "event", ev, "error", r)
			err = fmt.Errorf("internal error: %v", r)
		}
		respond(ev, err)
	}()

	if m.hooks.Event != nil && m.hooks.Event(ev) {
		m.logger.Debug("event consumed by hook", "event", ev)
		return
	}

	changed := true
	switch ev := ev.(type) {
	case MapRequest:
		err = m.manage(ev.ID)
	case Destroyed:
		changed = m.unmanage(ev.ID)
	case Unmapped:
		if m.pendingUnmaps[ev.ID] > 0 {
			m.pendingUnmaps[ev.ID]--
			changed = false
		} else {
			changed = m.unmanage(ev.ID)
		}
	case ScreensChanged:
		err = m.rescreen(ev.Displays)
	case RunAction:
		err = m.execute(ev.Action)
	case Reload:
		err = m.reload(ev.Config)
	case Tick:
		// A failed pass is retried even when nothing vanished.
		changed = m.dropVanished() || m.lastErr != nil
		m.saveSession()
	case query:
		ev.fn(m.state())
		close(ev.done)
		changed = false
	default:
		err = fmt.Errorf("unknown event %T", ev)
		changed = false
	}

	if err != nil {
		m.logger.Warn("event failed", "event", ev, "error", err)
	}
	if changed {
		m.refresh()
	}
}

// manage inserts id into the current workspace and runs the manage hooks.
func (m *Manager) manage(id platform.Xid) error {
	if m.ss.Contains(id) {
		return nil
	}
	prevFocus, hadFocus := m.ss.CurrentClient()

	if err := m.ss.Insert(id); err != nil {
		return err
	}
	hook := ComposeManage(RuleHook(m.cfg.Rules, m.info), m.hooks.Manage)
	if err := hook(m.ss, id); err != nil {
		m.logger.Warn("manage hook failed", "window", id, "error", err)
	}
	if !m.cfg.FocusNewWindows && hadFocus && m.ss.Contains(prevFocus) {
		if err := m.ss.FocusClient(prevFocus); err != nil {
			return err
		}
	}

	tag, _ := m.ss.TagFor(id)
	m.logger.Debug("managed window", "window", id, "tag", tag)
	return nil
}

// unmanage forgets id. It reports whether id was managed.
func (m *Manager) unmanage(id platform.Xid) bool {
	delete(m.pendingUnmaps, id)
	tag, err := m.ss.Remove(id)
	if errors.Is(err, stackset.ErrUnknownClient) {
		return false
	}
	m.logger.Debug("unmanaged window", "window", id, "tag", tag)
	return true
}

// rescreen rebuilds the screen regions. Nil displays re-query the lister.
func (m *Manager) rescreen(displays []platform.Display) error {
	if displays == nil && m.lister != nil {
		ds, err := m.lister.Displays()
		if err != nil {
			return fmt.Errorf("failed to query displays: %w", err)
		}
		displays = ds
	}
	if displays == nil {
		displays = m.displays
	}
	if err := m.ss.SetScreens(m.cfg.Regions(displays)); err != nil {
		return err
	}
	m.displays = displays
	m.logger.Info("screens updated", "count", len(displays))
	return nil
}

func (m *Manager) reload(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	cycle, err := cfg.LayoutCycle()
	if err != nil {
		return err
	}
	for _, tag := range cfg.Workspaces {
		if _, ok := m.ss.Workspace(tag); ok {
			continue
		}
		if err := m.ss.AddWorkspace(tag, nil); err != nil {
			return err
		}
	}
	for _, tag := range m.ss.Tags() {
		if !slices.Contains(cfg.Workspaces, tag) {
			m.logger.Warn("workspace removed from config is kept until restart", "tag", tag)
		}
	}
	m.ss.SetInvisibleTags(cfg.InvisibleWorkspaces)
	m.ss.SetLayouts(cycle)

	old := m.cfg
	m.cfg = cfg
	if err := m.rescreen(m.displays); err != nil {
		m.cfg = old
		return err
	}
	m.logger.Info("config reloaded")
	return nil
}

// refresh reconciles the display with the StackSet.
func (m *Manager) refresh() {
	prev := m.prev
	if m.force {
		prev = reconcile.Empty()
		prev.Mapped = m.prev.Clone().Mapped
		m.force = false
	}

	plan := reconcile.Diff(prev, reconcile.Capture(m.ss))
	for _, tag := range plan.Hidden {
		if err := m.ss.MessageWorkspace(tag, layout.Hide()); err != nil {
			m.logger.Warn("hide message failed", "tag", tag, "error", err)
		}
	}

	next, err := reconcile.Apply(m.conn, plan, prev)
	m.expectUnmaps(plan.Ops, err)
	m.prev = next
	m.lastOps = plan.Ops
	m.lastErr = err

	if err != nil {
		m.logger.Warn("reconcile failed", "error", err, "ops", len(plan.Ops))
	} else if !plan.Empty() {
		m.logger.Debug("reconciled", "ops", len(plan.Ops), "hidden", plan.Hidden)
	}

	if m.hooks.Refresh != nil {
		m.hooks.Refresh(m.state())
	}
}

// expectUnmaps records the unmaps that reached the display so their
// notifications are not mistaken for clients withdrawing.
func (m *Manager) expectUnmaps(ops []reconcile.Op, err error) {
	applied := len(ops)
	var aerr *reconcile.ApplyError
	if errors.As(err, &aerr) {
		applied = aerr.Applied
	}
	for _, op := range ops[:applied] {
		if op.Kind == reconcile.OpUnmap {
			m.pendingUnmaps[op.ID]++
		}
	}
}

func (m *Manager) state() State {
	return captureState(m.ss, m.prev, m.lastOps, m.lastErr)
}

func (m *Manager) shutdown() {
	m.ss.BroadcastMessage(layout.Shutdown())
	m.saveSession()

	// Leave no window stranded unmapped once we are gone.
	for _, id := range m.ss.Clients() {
		if m.prev.IsMapped(id) {
			continue
		}
		if err := m.conn.Map(id); err != nil {
			m.logger.Debug("failed to map window on shutdown", "window", id, "error", err)
		}
	}
}
