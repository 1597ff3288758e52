package x11

import (
	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xevent"
)

// Handlers receives the root window events a window manager cares about.
// Nil fields are skipped.
type Handlers struct {
	MapRequest       func(w xproto.Window)
	Destroy          func(w xproto.Window)
	Unmap            func(w xproto.Window)
	ConfigureRequest func(ev xproto.ConfigureRequestEvent)
	ScreensChanged   func()
}

// Subscribe connects h to the root window. Callbacks run on the goroutine
// running EventLoop.
func (c *Connection) Subscribe(h Handlers) {
	if h.MapRequest != nil {
		xevent.MapRequestFun(func(_ *xgbutil.XUtil, ev xevent.MapRequestEvent) {
			h.MapRequest(ev.Window)
		}).Connect(c.XUtil, c.Root)
	}
	if h.Destroy != nil {
		xevent.DestroyNotifyFun(func(_ *xgbutil.XUtil, ev xevent.DestroyNotifyEvent) {
			h.Destroy(ev.Window)
		}).Connect(c.XUtil, c.Root)
	}
	if h.Unmap != nil {
		xevent.UnmapNotifyFun(func(_ *xgbutil.XUtil, ev xevent.UnmapNotifyEvent) {
			// Ignore unmaps of windows reparented elsewhere.
			if ev.Event == c.Root {
				h.Unmap(ev.Window)
			}
		}).Connect(c.XUtil, c.Root)
	}
	if h.ConfigureRequest != nil {
		xevent.ConfigureRequestFun(func(_ *xgbutil.XUtil, ev xevent.ConfigureRequestEvent) {
			h.ConfigureRequest(*ev.ConfigureRequestEvent)
		}).Connect(c.XUtil, c.Root)
	}
	if h.ScreensChanged != nil {
		xevent.HookFun(func(_ *xgbutil.XUtil, ev interface{}) bool {
			switch ev.(type) {
			case randr.ScreenChangeNotifyEvent, randr.NotifyEvent:
				h.ScreensChanged()
			}
			return true
		}).Connect(c.XUtil)
	}
}

// HonorConfigureRequest applies a client's own configure request unchanged.
// Used for windows we do not manage.
func (c *Connection) HonorConfigureRequest(ev xproto.ConfigureRequestEvent) error {
	var values []uint32
	mask := ev.ValueMask
	if mask&xproto.ConfigWindowX != 0 {
		values = append(values, uint32(int32(ev.X)))
	}
	if mask&xproto.ConfigWindowY != 0 {
		values = append(values, uint32(int32(ev.Y)))
	}
	if mask&xproto.ConfigWindowWidth != 0 {
		values = append(values, uint32(ev.Width))
	}
	if mask&xproto.ConfigWindowHeight != 0 {
		values = append(values, uint32(ev.Height))
	}
	if mask&xproto.ConfigWindowBorderWidth != 0 {
		values = append(values, uint32(ev.BorderWidth))
	}
	if mask&xproto.ConfigWindowSibling != 0 {
		values = append(values, uint32(ev.Sibling))
	}
	if mask&xproto.ConfigWindowStackMode != 0 {
		values = append(values, uint32(ev.StackMode))
	}
	return xproto.ConfigureWindowChecked(c.XUtil.Conn(), ev.Window, mask, values).Check()
}
