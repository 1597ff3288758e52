package platform

import "fmt"

// Xid is an opaque window handle owned by the display server.
type Xid uint32

// Display describes a physical output and its usable work area.
type Display struct {
	ID     int
	Name   string
	Bounds Rect
}

// Conn is the set of display operations the window manager core emits.
// Every operation is idempotent and may fail independently.
type Conn interface {
	Position(id Xid, r Rect) error
	Map(id Xid) error
	Unmap(id Xid) error
	Raise(id Xid) error
	Focus(id Xid) error
	ClientGeometry(id Xid) (Rect, error)
}

// Describer is implemented by connections that can report window metadata
// used by manage rules.
type Describer interface {
	ClientClass(id Xid) (string, error)
}

// Lister is implemented by connections that can enumerate top-level windows.
type Lister interface {
	TopLevelWindows() ([]Xid, error)
	Displays() ([]Display, error)
}

// ConnError reports a failed display operation.
type ConnError struct {
	Op  string
	ID  Xid
	Err error
}

func (e *ConnError) Error() string {
	return fmt.Sprintf("%s window %d: %v", e.Op, e.ID, e.Err)
}

func (e *ConnError) Unwrap() error {
	return e.Err
}
