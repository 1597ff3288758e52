package daemon

import (
	"context"
	"log/slog"
	"time"

	"github.com/1broseidon/stackwm/internal/platform"
)

// DefaultReconcileInterval is used when ReconcilerConfig.Interval is unset.
const DefaultReconcileInterval = 10 * time.Second

// Poster accepts events for the manager loop.
type Poster interface {
	Post(ev Event) bool
}

// ReconcilerConfig holds configuration for the reconciler.
type ReconcilerConfig struct {
	Interval time.Duration
	Logger   *slog.Logger
}

// Reconciler periodically asks the manager to check for state drift:
// windows that disappeared without the manager being told.
type Reconciler struct {
	interval time.Duration
	target   Poster
	logger   *slog.Logger
}

// NewReconciler creates a reconciler that posts ticks to target.
func NewReconciler(cfg ReconcilerConfig, target Poster) *Reconciler {
	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultReconcileInterval
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Reconciler{
		interval: interval,
		target:   target,
		logger:   logger,
	}
}

// Run starts the reconciliation loop. Blocks until context is cancelled or
// the manager stops accepting events.
func (r *Reconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("reconciler started", "interval", r.interval)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("reconciler stopped")
			return
		case <-ticker.C:
			if !r.ReconcileNow() {
				r.logger.Info("reconciler stopped", "reason", "manager not running")
				return
			}
		}
	}
}

// ReconcileNow requests an immediate pass.
func (r *Reconciler) ReconcileNow() bool {
	return r.target.Post(Tick{})
}

// dropVanished unmanages windows the display no longer knows about. It
// reports whether anything changed.
func (m *Manager) dropVanished() bool {
	if m.lister == nil {
		return false
	}
	live, err := m.lister.TopLevelWindows()
	if err != nil {
		m.logger.Error("reconciler: failed to list windows", "error", err)
		return false
	}
	alive := make(map[platform.Xid]struct{}, len(live))
	for _, id := range live {
		alive[id] = struct{}{}
	}

	changed := false
	for _, id := range m.ss.Clients() {
		if _, ok := alive[id]; ok {
			continue
		}
		tag, _ := m.ss.TagFor(id)
		m.logger.Info("reconciler: orphaned window detected", "window", id, "tag", tag)
		if m.unmanage(id) {
			changed = true
		}
	}
	return changed
}
