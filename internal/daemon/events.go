package daemon

import (
	"fmt"

	"github.com/1broseidon/stackwm/internal/action"
	"github.com/1broseidon/stackwm/internal/config"
	"github.com/1broseidon/stackwm/internal/platform"
)

// Event is something the manager loop reacts to. Events are delivered one
// at a time on the loop goroutine.
type Event interface {
	event()
}

// MapRequest asks for a new top-level window to be managed.
type MapRequest struct{ ID platform.Xid }

// Destroyed reports that a window no longer exists.
type Destroyed struct{ ID platform.Xid }

// Unmapped reports that a window was unmapped. Unmaps the manager issued
// itself are ignored; any other unmap means the client withdrew.
type Unmapped struct{ ID platform.Xid }

// ScreensChanged reports an output change. A nil Displays re-queries the
// connection.
type ScreensChanged struct{ Displays []platform.Display }

// RunAction executes a user command.
type RunAction struct {
	Action action.Action
	reply  chan error
}

// Reload applies a new configuration.
type Reload struct {
	Config *config.Config
	reply  chan error
}

// Tick drops windows that vanished without a destroy notification and
// saves the session.
type Tick struct{}

type query struct {
	fn   func(State)
	done chan struct{}
}

func (MapRequest) event()     {}
func (Destroyed) event()      {}
func (Unmapped) event()       {}
func (ScreensChanged) event() {}
func (RunAction) event()      {}
func (Reload) event()         {}
func (Tick) event()           {}
func (query) event()          {}

func (e MapRequest) String() string     { return fmt.Sprintf("map-request %d", e.ID) }
func (e Destroyed) String() string      { return fmt.Sprintf("destroyed %d", e.ID) }
func (e Unmapped) String() string       { return fmt.Sprintf("unmapped %d", e.ID) }
func (e ScreensChanged) String() string { return "screens-changed" }
func (e RunAction) String() string      { return "action " + e.Action.String() }
func (e Reload) String() string         { return "reload" }
func (e Tick) String() string           { return "tick" }
func (e query) String() string          { return "query" }

// respond delivers the outcome of ev to a waiting caller, if any.
func respond(ev Event, err error) {
	var reply chan error
	switch ev := ev.(type) {
	case RunAction:
		reply = ev.reply
	case Reload:
		reply = ev.reply
	}
	if reply != nil {
		reply <- err
	}
}
