package stackset

import (
	"errors"
	"fmt"

	"github.com/1broseidon/stackwm/internal/platform"
)

var (
	ErrDuplicateTag           = errors.New("duplicate workspace tag")
	ErrUnknownTag             = errors.New("unknown workspace tag")
	ErrUnknownClient          = errors.New("client is not managed")
	ErrClientExists           = errors.New("client is already managed")
	ErrNoScreens              = errors.New("at least one screen is required")
	ErrInsufficientWorkspaces = errors.New("fewer workspaces than screens")
	ErrEmptyTag               = errors.New("workspace tag must not be empty")
)

// TagError attaches the offending tag to a structural error.
type TagError struct {
	Tag string
	Err error
}

func (e *TagError) Error() string {
	return fmt.Sprintf("%v: %q", e.Err, e.Tag)
}

func (e *TagError) Unwrap() error {
	return e.Err
}

// ClientError attaches the offending window id to a structural error.
type ClientError struct {
	ID  platform.Xid
	Err error
}

func (e *ClientError) Error() string {
	return fmt.Sprintf("%v: %d", e.Err, e.ID)
}

func (e *ClientError) Unwrap() error {
	return e.Err
}

func tagErr(tag string, err error) error {
	return &TagError{Tag: tag, Err: err}
}

func clientErr(id platform.Xid, err error) error {
	return &ClientError{ID: id, Err: err}
}
