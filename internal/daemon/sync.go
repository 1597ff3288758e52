package daemon

import (
	"slices"

	"github.com/1broseidon/stackwm/internal/platform"
	"github.com/1broseidon/stackwm/internal/session"
	"github.com/1broseidon/stackwm/internal/stackset"
)

// startup adopts the windows that were on screen before the manager
// started, restoring saved tags and floating rects, then runs the startup
// hook.
func (m *Manager) startup() error {
	sess := session.New()
	if m.sessionPath != "" {
		loaded, err := session.Load(m.sessionPath)
		if err != nil {
			m.logger.Warn("ignoring unreadable session", "path", m.sessionPath, "error", err)
		} else {
			sess = loaded
		}
	}

	ids := slices.Clone(m.adopt)
	slices.Sort(ids)
	ids = slices.Compact(ids)
	for _, id := range ids {
		if err := m.adoptWindow(id, sess); err != nil {
			m.logger.Warn("failed to adopt window", "window", id, "error", err)
			continue
		}
		// Adopted windows are already on screen.
		m.prev.Mapped[id] = struct{}{}
	}

	if sess.FocusedTag != "" {
		if _, ok := m.ss.Workspace(sess.FocusedTag); ok {
			if err := m.ss.FocusTag(sess.FocusedTag); err != nil {
				m.logger.Warn("failed to restore focused tag", "tag", sess.FocusedTag, "error", err)
			}
		}
	}

	if m.hooks.Startup != nil {
		return m.hooks.Startup(m.ss)
	}
	return nil
}

func (m *Manager) adoptWindow(id platform.Xid, sess *session.Session) error {
	tag, ok := sess.TagFor(id)
	if !ok {
		if err := m.ss.Insert(id); err != nil {
			return err
		}
		return RuleHook(m.cfg.Rules, m.info)(m.ss, id)
	}

	if _, known := m.ss.Workspace(tag); !known {
		tag = m.ss.CurrentTag()
	}
	if err := m.ss.InsertOn(tag, id); err != nil {
		return err
	}
	if r, ok := sess.FloatingRect(id); ok {
		return m.ss.Float(id, r)
	}
	return nil
}

// captureSession records where every managed window lives.
func captureSession(ss *stackset.StackSet) *session.Session {
	sess := session.New()
	sess.FocusedTag = ss.CurrentTag()
	for _, ws := range ss.Workspaces() {
		for _, id := range ws.Clients() {
			sess.Assignments[id] = ws.Tag
		}
	}
	for id, r := range ss.Floating() {
		sess.Floating[id] = r
	}
	return sess
}

func (m *Manager) saveSession() {
	if m.sessionPath == "" {
		return
	}
	if err := session.Save(m.sessionPath, captureSession(m.ss)); err != nil {
		m.logger.Warn("failed to save session", "path", m.sessionPath, "error", err)
	}
}
