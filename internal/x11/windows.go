package x11

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
)

// Geometry is a window position and size in root coordinates.
type Geometry struct {
	X, Y          int
	Width, Height int
}

// MoveResizeWindow moves and resizes a window to the specified geometry
func (c *Connection) MoveResizeWindow(windowID xproto.Window, x, y, width, height int) error {
	// A maximized client ignores the new size. Not every client supports this.
	_ = c.unmaximizeWindow(windowID)

	mask := uint16(xproto.ConfigWindowX | xproto.ConfigWindowY |
		xproto.ConfigWindowWidth | xproto.ConfigWindowHeight)
	values := []uint32{
		uint32(int32(x)),
		uint32(int32(y)),
		uint32(max(width, 1)),
		uint32(max(height, 1)),
	}
	return xproto.ConfigureWindowChecked(c.XUtil.Conn(), windowID, mask, values).Check()
}

// MapWindow maps a window and marks it NormalState for ICCCM clients.
func (c *Connection) MapWindow(windowID xproto.Window) error {
	if err := xproto.MapWindowChecked(c.XUtil.Conn(), windowID).Check(); err != nil {
		return err
	}
	_ = icccm.WmStateSet(c.XUtil, windowID, &icccm.WmState{State: icccm.StateNormal})
	return nil
}

// UnmapWindow unmaps a window and marks it IconicState.
func (c *Connection) UnmapWindow(windowID xproto.Window) error {
	if err := xproto.UnmapWindowChecked(c.XUtil.Conn(), windowID).Check(); err != nil {
		return err
	}
	_ = icccm.WmStateSet(c.XUtil, windowID, &icccm.WmState{State: icccm.StateIconic})
	return nil
}

// RaiseWindow puts a window at the top of the stacking order.
func (c *Connection) RaiseWindow(windowID xproto.Window) error {
	return xproto.ConfigureWindowChecked(
		c.XUtil.Conn(),
		windowID,
		xproto.ConfigWindowStackMode,
		[]uint32{xproto.StackModeAbove},
	).Check()
}

// FocusWindow gives a window input focus and publishes it as
// _NET_ACTIVE_WINDOW. Window 0 returns focus to the root window.
func (c *Connection) FocusWindow(windowID xproto.Window) error {
	target := windowID
	if target == 0 {
		target = xproto.InputFocusPointerRoot
	}
	if err := xproto.SetInputFocusChecked(c.XUtil.Conn(), xproto.InputFocusPointerRoot,
		target, xproto.TimeCurrentTime).Check(); err != nil {
		return err
	}
	return ewmh.ActiveWindowSet(c.XUtil, windowID)
}

// WindowGeometry returns the position of a window in root coordinates.
func (c *Connection) WindowGeometry(windowID xproto.Window) (Geometry, error) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(windowID)).Reply()
	if err != nil {
		return Geometry{}, err
	}

	translate, err := xproto.TranslateCoordinates(
		c.XUtil.Conn(),
		windowID,
		c.Root,
		0, 0,
	).Reply()
	if err != nil {
		return Geometry{}, err
	}

	return Geometry{
		X:      int(translate.DstX),
		Y:      int(translate.DstY),
		Width:  int(geom.Width),
		Height: int(geom.Height),
	}, nil
}

// WindowClass returns the WM_CLASS class name of a window.
func (c *Connection) WindowClass(windowID xproto.Window) (string, error) {
	wmClass, err := icccm.WmClassGet(c.XUtil, windowID)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(wmClass.Class), nil
}

// WindowTitle returns the best available title for a window.
func (c *Connection) WindowTitle(windowID xproto.Window) string {
	title, err := ewmh.WmNameGet(c.XUtil, windowID)
	if err == nil {
		if title = strings.TrimSpace(title); title != "" {
			return title
		}
	}

	title, err = icccm.WmNameGet(c.XUtil, windowID)
	if err == nil {
		return strings.TrimSpace(title)
	}
	return ""
}

// ShouldManage reports whether a window is a candidate for tiling:
// not override-redirect and of a normal window type.
func (c *Connection) ShouldManage(windowID xproto.Window) bool {
	attrs, err := xproto.GetWindowAttributes(c.XUtil.Conn(), windowID).Reply()
	if err != nil || attrs.OverrideRedirect {
		return false
	}
	return c.IsNormalWindow(windowID)
}

// IsViewable reports whether a window is currently mapped.
func (c *Connection) IsViewable(windowID xproto.Window) bool {
	attrs, err := xproto.GetWindowAttributes(c.XUtil.Conn(), windowID).Reply()
	if err != nil {
		return false
	}
	return attrs.MapState == xproto.MapStateViewable
}

// TopLevelWindows returns the direct children of the root window that are
// candidates for management.
func (c *Connection) TopLevelWindows() ([]xproto.Window, error) {
	tree, err := xproto.QueryTree(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("query tree: %w", err)
	}

	var out []xproto.Window
	for _, w := range tree.Children {
		if c.ShouldManage(w) {
			out = append(out, w)
		}
	}
	return out, nil
}

// unmaximizeWindow removes maximized state from a window
func (c *Connection) unmaximizeWindow(windowID xproto.Window) error {
	states, err := ewmh.WmStateGet(c.XUtil, windowID)
	if err != nil {
		return err
	}

	for _, state := range states {
		switch state {
		case "_NET_WM_STATE_MAXIMIZED_HORZ", "_NET_WM_STATE_MAXIMIZED_VERT":
			return ewmh.WmStateReq(c.XUtil, windowID, ewmh.StateRemove, state)
		}
	}
	return nil
}

// IsNormalWindow checks if a window is a normal application window
func (c *Connection) IsNormalWindow(windowID xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, windowID)
	if err != nil {
		// If we can't determine type, assume it's normal
		return true
	}

	for _, t := range types {
		switch t {
		case "_NET_WM_WINDOW_TYPE_NORMAL", "_NET_WM_WINDOW_TYPE_DIALOG":
			return true
		case "_NET_WM_WINDOW_TYPE_DESKTOP",
			"_NET_WM_WINDOW_TYPE_DOCK",
			"_NET_WM_WINDOW_TYPE_SPLASH",
			"_NET_WM_WINDOW_TYPE_NOTIFICATION":
			return false
		}
	}

	// If no specific type is set, assume it's normal
	return len(types) == 0
}
