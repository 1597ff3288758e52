//go:build linux

package platform

import (
	"fmt"

	"github.com/1broseidon/stackwm/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
)

// LinuxBackend wraps an X11 connection behind Conn, Describer and Lister.
type LinuxBackend struct {
	conn *x11.Connection
}

var (
	_ Conn      = (*LinuxBackend)(nil)
	_ Describer = (*LinuxBackend)(nil)
	_ Lister    = (*LinuxBackend)(nil)
)

// NewLinuxBackend creates a Linux platform backend from an existing X11 connection.
func NewLinuxBackend(conn *x11.Connection) *LinuxBackend {
	return &LinuxBackend{conn: conn}
}

// NewLinuxBackendFromDisplay creates a new Linux backend by opening a fresh X11 connection.
func NewLinuxBackendFromDisplay() (*LinuxBackend, error) {
	conn, err := x11.NewConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return &LinuxBackend{conn: conn}, nil
}

// Connection returns the underlying X11 connection.
func (b *LinuxBackend) Connection() *x11.Connection {
	return b.conn
}

// Disconnect closes the underlying X11 connection.
func (b *LinuxBackend) Disconnect() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

// XUtil returns the underlying xgbutil connection for X11-specific operations.
func (b *LinuxBackend) XUtil() *xgbutil.XUtil {
	if b == nil || b.conn == nil {
		return nil
	}
	return b.conn.XUtil
}

// RootWindow returns the X11 root window ID.
func (b *LinuxBackend) RootWindow() xproto.Window {
	if b == nil || b.conn == nil {
		return 0
	}
	return b.conn.Root
}

func (b *LinuxBackend) Position(id Xid, r Rect) error {
	return wrap("position", id, b.conn.MoveResizeWindow(xproto.Window(id), r.X, r.Y, r.Width, r.Height))
}

func (b *LinuxBackend) Map(id Xid) error {
	return wrap("map", id, b.conn.MapWindow(xproto.Window(id)))
}

func (b *LinuxBackend) Unmap(id Xid) error {
	return wrap("unmap", id, b.conn.UnmapWindow(xproto.Window(id)))
}

func (b *LinuxBackend) Raise(id Xid) error {
	return wrap("raise", id, b.conn.RaiseWindow(xproto.Window(id)))
}

func (b *LinuxBackend) Focus(id Xid) error {
	return wrap("focus", id, b.conn.FocusWindow(xproto.Window(id)))
}

func (b *LinuxBackend) ClientGeometry(id Xid) (Rect, error) {
	g, err := b.conn.WindowGeometry(xproto.Window(id))
	if err != nil {
		return Rect{}, wrap("geometry", id, err)
	}
	return Rect{X: g.X, Y: g.Y, Width: g.Width, Height: g.Height}, nil
}

func (b *LinuxBackend) ClientClass(id Xid) (string, error) {
	class, err := b.conn.WindowClass(xproto.Window(id))
	if err != nil {
		return "", wrap("class", id, err)
	}
	return class, nil
}

// TopLevelWindows lists manageable children of the root window.
func (b *LinuxBackend) TopLevelWindows() ([]Xid, error) {
	wins, err := b.conn.TopLevelWindows()
	if err != nil {
		return nil, err
	}
	out := make([]Xid, len(wins))
	for i, w := range wins {
		out[i] = Xid(w)
	}
	return out, nil
}

// ViewableWindows lists manageable top-level windows that are currently
// mapped, for adoption at startup.
func (b *LinuxBackend) ViewableWindows() ([]Xid, error) {
	all, err := b.TopLevelWindows()
	if err != nil {
		return nil, err
	}
	var out []Xid
	for _, id := range all {
		if b.conn.IsViewable(xproto.Window(id)) {
			out = append(out, id)
		}
	}
	return out, nil
}

// ShouldManage reports whether a window asking to be mapped should be tiled.
func (b *LinuxBackend) ShouldManage(id Xid) bool {
	return b.conn.ShouldManage(xproto.Window(id))
}

// Displays returns all active displays in screen order.
func (b *LinuxBackend) Displays() ([]Display, error) {
	monitors, err := b.conn.GetMonitors()
	if err != nil {
		return nil, err
	}

	displays := make([]Display, 0, len(monitors))
	for _, m := range monitors {
		displays = append(displays, Display{
			ID:     m.ID,
			Name:   m.Name,
			Bounds: Rect{X: m.X, Y: m.Y, Width: m.Width, Height: m.Height},
		})
	}
	return displays, nil
}

func wrap(op string, id Xid, err error) error {
	if err == nil {
		return nil
	}
	return &ConnError{Op: op, ID: id, Err: err}
}
