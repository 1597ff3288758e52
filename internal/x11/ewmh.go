package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// DesktopState is what status bars and pagers read from the root window.
type DesktopState struct {
	Names   []string
	Current int
	Clients []xproto.Window
	Active  xproto.Window
}

// SetupEWMH creates the supporting WM check window and advertises the
// properties we maintain.
func (c *Connection) SetupEWMH(name string) error {
	check, err := xproto.NewWindowId(c.XUtil.Conn())
	if err != nil {
		return fmt.Errorf("allocate check window: %w", err)
	}
	err = xproto.CreateWindowChecked(c.XUtil.Conn(), 0, check, c.Root,
		-1, -1, 1, 1, 0, xproto.WindowClassInputOnly, 0, 0, nil).Check()
	if err != nil {
		return fmt.Errorf("create check window: %w", err)
	}

	if err := ewmh.SupportingWmCheckSet(c.XUtil, c.Root, check); err != nil {
		return err
	}
	if err := ewmh.SupportingWmCheckSet(c.XUtil, check, check); err != nil {
		return err
	}
	if err := ewmh.WmNameSet(c.XUtil, check, name); err != nil {
		return err
	}
	return ewmh.SupportedSet(c.XUtil, []string{
		"_NET_SUPPORTED",
		"_NET_SUPPORTING_WM_CHECK",
		"_NET_WM_NAME",
		"_NET_NUMBER_OF_DESKTOPS",
		"_NET_DESKTOP_NAMES",
		"_NET_CURRENT_DESKTOP",
		"_NET_CLIENT_LIST",
		"_NET_ACTIVE_WINDOW",
	})
}

// PublishDesktops writes desktop names, the current desktop, the client list
// and the active window to the root window.
func (c *Connection) PublishDesktops(st DesktopState) error {
	if err := ewmh.NumberOfDesktopsSet(c.XUtil, uint(len(st.Names))); err != nil {
		return fmt.Errorf("set number of desktops: %w", err)
	}
	if err := ewmh.DesktopNamesSet(c.XUtil, st.Names); err != nil {
		return fmt.Errorf("set desktop names: %w", err)
	}
	if err := ewmh.CurrentDesktopSet(c.XUtil, uint(st.Current)); err != nil {
		return fmt.Errorf("set current desktop: %w", err)
	}
	if err := ewmh.ClientListSet(c.XUtil, st.Clients); err != nil {
		return fmt.Errorf("set client list: %w", err)
	}
	return ewmh.ActiveWindowSet(c.XUtil, st.Active)
}
