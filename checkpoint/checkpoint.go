// Package checkpoint decorates errors with the file and line of the wrapping
// call site. Every error placed on a checkpoint stays reachable through
// errors.Is and errors.As, so callers can keep matching against the package
// sentinel errors while still getting a trace of where things went wrong.
package checkpoint

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
)

// From wraps err with the caller's position. It returns nil if err is nil.
func From(err error) error {
	if err == nil {
		return nil
	}
	return annotate(err, nil)
}

// Wrap wraps prev with the caller's position and attaches err as an
// additional marker describing the checkpoint. It returns nil if prev is nil.
//
// The typical use is to declare sentinel errors up front and attach them on
// the way out:
//
//	var ErrMount = errors.New("could not mount the filesystem")
//
//	func mount() error {
//		return checkpoint.Wrap(readTable(), ErrMount)
//	}
//
// Both ErrMount and whatever readTable returned can then be matched with
// errors.Is.
func Wrap(prev, err error) error {
	if prev == nil {
		return nil
	}
	return annotate(prev, err)
}

func annotate(prev, marker error) error {
	_, file, line, ok := runtime.Caller(2)
	if !ok {
		file = "unknown"
		line = 0
	}
	return &checkpoint{
		prev:   prev,
		marker: marker,
		file:   filepath.Base(file),
		line:   line,
	}
}

type checkpoint struct {
	prev   error
	marker error
	file   string
	line   int
}

func (c *checkpoint) Error() string {
	if c.marker != nil {
		return fmt.Sprintf("%s:%d: %v: %v", c.file, c.line, c.marker, c.prev)
	}
	return fmt.Sprintf("%s:%d: %v", c.file, c.line, c.prev)
}

func (c *checkpoint) Unwrap() error {
	return c.prev
}

func (c *checkpoint) Is(target error) bool {
	return c.marker != nil && errors.Is(c.marker, target)
}

func (c *checkpoint) As(target interface{}) bool {
	return c.marker != nil && errors.As(c.marker, target)
}
