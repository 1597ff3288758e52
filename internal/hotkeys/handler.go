package hotkeys

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"

	"github.com/1broseidon/stackwm/internal/action"
	"github.com/1broseidon/stackwm/internal/daemon"
)

// Poster accepts events for the window manager loop.
type Poster interface {
	Post(ev daemon.Event) bool
}

// Binding is a key sequence in keybind notation and the action it runs.
type Binding struct {
	Keys   string
	Action action.Action
}

// Handler manages global keyboard shortcuts
type Handler struct {
	xu     *xgbutil.XUtil
	root   xproto.Window
	target Poster
	logger *slog.Logger

	mu    sync.Mutex
	bound []Binding
}

var ignoreModsOnce sync.Once

// NewHandler creates a hotkey handler grabbing keys on root.
func NewHandler(xu *xgbutil.XUtil, root xproto.Window, target Poster, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	ignoreModsOnce.Do(func() {
		configureIgnoreMods(xu)
	})
	return &Handler{xu: xu, root: root, target: target, logger: logger}
}

// Bind grabs every binding in the map, replacing whatever was bound before.
// Bindings that fail to parse or grab are skipped and reported together.
func (h *Handler) Bind(bindings map[string]string) error {
	planned, err := Plan(bindings)

	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.bound) > 0 {
		keybind.Detach(h.xu, h.root)
		h.bound = nil
	}

	errs := []error{err}
	for _, b := range planned {
		a := b.Action
		cb := keybind.KeyPressFun(func(*xgbutil.XUtil, xevent.KeyPressEvent) {
			h.logger.Debug("hotkey", "action", a.String())
			if !h.target.Post(daemon.RunAction{Action: a}) {
				h.logger.Warn("hotkey dropped, manager stopped", "action", a.String())
			}
		})
		if err := cb.Connect(h.xu, h.root, b.Keys, true); err != nil {
			errs = append(errs, fmt.Errorf("bind %s: %w", b.Keys, err))
			continue
		}
		h.bound = append(h.bound, b)
	}

	h.logger.Info("hotkeys bound", "count", len(h.bound))
	return errors.Join(errs...)
}

// Bound returns the bindings currently grabbed.
func (h *Handler) Bound() []Binding {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.bound)
}

// Plan converts configured bindings into keybind sequences and parsed
// actions, sorted by key sequence.
func Plan(bindings map[string]string) ([]Binding, error) {
	keys := make([]string, 0, len(bindings))
	for k := range bindings {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var (
		out  []Binding
		errs []error
	)
	for _, k := range keys {
		seq, err := KeySequence(k)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		a, err := action.Parse(bindings[k])
		if err != nil {
			errs = append(errs, fmt.Errorf("binding %s: %w", k, err))
			continue
		}
		out = append(out, Binding{Keys: seq, Action: a})
	}
	return out, errors.Join(errs...)
}

var modifierNames = map[string]string{
	"shift":   "shift",
	"lock":    "lock",
	"control": "control",
	"ctrl":    "control",
	"alt":     "mod1",
	"super":   "mod4",
	"mod1":    "mod1",
	"mod2":    "mod2",
	"mod3":    "mod3",
	"mod4":    "mod4",
	"mod5":    "mod5",
}

// KeySequence turns a configured sequence such as "Mod4-Shift-j" or
// "Super-Ctrl-Return" into keybind notation ("mod4-shift-j"). The key
// keeps its case since keysym names are case sensitive.
func KeySequence(s string) (string, error) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	key := parts[len(parts)-1]
	if key == "" {
		return "", fmt.Errorf("key sequence %q has no key", s)
	}

	mods := make([]string, 0, len(parts)-1)
	for _, p := range parts[:len(parts)-1] {
		m, ok := modifierNames[strings.ToLower(p)]
		if !ok {
			return "", fmt.Errorf("key sequence %q: unknown modifier %q", s, p)
		}
		if !slices.Contains(mods, m) {
			mods = append(mods, m)
		}
	}
	return strings.Join(append(mods, key), "-"), nil
}

func configureIgnoreMods(xu *xgbutil.XUtil) {
	// CapsLock is always ignored.
	caps := uint16(xproto.ModMaskLock)

	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")

	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && !slices.Contains(base, scrollLock) {
		base = append(base, scrollLock)
	}
	xevent.IgnoreMods = ignoreMasks(base)
}

// ignoreMasks returns every combination of the given lock masks, including 0.
func ignoreMasks(base []uint16) []uint16 {
	out := []uint16{0}
	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		if !slices.Contains(out, mask) {
			out = append(out, mask)
		}
	}
	return out
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
