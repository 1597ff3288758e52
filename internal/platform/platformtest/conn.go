// Package platformtest provides an in-memory display connection for tests.
package platformtest

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/1broseidon/stackwm/internal/platform"
)

// ErrInjected is returned by a Conn when FailAt triggers.
var ErrInjected = errors.New("injected failure")

// Call records one operation issued against a Conn.
type Call struct {
	Op   string
	ID   platform.Xid
	Rect platform.Rect
}

func (c Call) String() string {
	if c.Op == "position" {
		return fmt.Sprintf("%s %d %s", c.Op, c.ID, c.Rect)
	}
	return fmt.Sprintf("%s %d", c.Op, c.ID)
}

// Conn records every operation. It implements platform.Conn,
// platform.Describer and platform.Lister.
type Conn struct {
	mu sync.Mutex

	// FailAt makes the n-th mutating call (1-based) fail. Zero disables it.
	FailAt int

	Calls    []Call
	Geometry map[platform.Xid]platform.Rect
	Classes  map[platform.Xid]string
	Windows  []platform.Xid
	Outputs  []platform.Display
	ListErr  error

	issued int
}

// NewConn returns an empty recording connection.
func NewConn() *Conn {
	return &Conn{
		Geometry: make(map[platform.Xid]platform.Rect),
		Classes:  make(map[platform.Xid]string),
	}
}

func (c *Conn) record(op string, id platform.Xid, r platform.Rect) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.issued++
	if c.FailAt > 0 && c.issued == c.FailAt {
		return &platform.ConnError{Op: op, ID: id, Err: ErrInjected}
	}
	c.Calls = append(c.Calls, Call{Op: op, ID: id, Rect: r})
	if op == "position" {
		c.Geometry[id] = r
	}
	return nil
}

func (c *Conn) Position(id platform.Xid, r platform.Rect) error {
	return c.record("position", id, r)
}

func (c *Conn) Map(id platform.Xid) error { return c.record("map", id, platform.Rect{}) }

func (c *Conn) Unmap(id platform.Xid) error { return c.record("unmap", id, platform.Rect{}) }

func (c *Conn) Raise(id platform.Xid) error { return c.record("raise", id, platform.Rect{}) }

func (c *Conn) Focus(id platform.Xid) error { return c.record("focus", id, platform.Rect{}) }

func (c *Conn) ClientGeometry(id platform.Xid) (platform.Rect, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.Geometry[id]
	if !ok {
		return platform.Rect{}, &platform.ConnError{Op: "geometry", ID: id, Err: errors.New("no such window")}
	}
	return r, nil
}

func (c *Conn) ClientClass(id platform.Xid) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Classes[id], nil
}

func (c *Conn) TopLevelWindows() ([]platform.Xid, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ListErr != nil {
		return nil, c.ListErr
	}
	return slices.Clone(c.Windows), nil
}

func (c *Conn) Displays() ([]platform.Display, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.Outputs), nil
}

// Recorded returns a copy of the calls made so far.
func (c *Conn) Recorded() []Call {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.Calls)
}

// Reset clears recorded calls and the failure counter.
func (c *Conn) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Calls = nil
	c.issued = 0
	c.FailAt = 0
}

// SetWindows replaces the list of live top-level windows.
func (c *Conn) SetWindows(ids ...platform.Xid) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Windows = ids
}
