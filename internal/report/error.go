// Package report is the diagnostic entry point: it turns an error and its
// call trail into a styled message plus an aligned table of frames, and
// provides the exit hook that prints such a report when a program dies.
package report

import (
	"errors"
	"fmt"
	"sync"

	"prettydebug/internal/frame"
	"prettydebug/internal/textutil"
)

// Trailer is implemented by errors that carry their own call trail, oldest
// call first.
type Trailer interface {
	Trail() []string
}

// Error is an error that remembers where it was created. Program counters are
// captured eagerly and resolved into descriptors on the first Trail call.
type Error struct {
	msg   string
	cause error
	pcs   []uintptr

	once  sync.Once
	trail []string
}

// New returns an error with msg and the caller's stack.
func New(msg string) *Error {
	return &Error{msg: msg, pcs: frame.CapturePCs(1)}
}

// Errorf formats like fmt.Errorf, including %w, and records the caller's stack.
func Errorf(format string, args ...any) *Error {
	err := fmt.Errorf(format, args...)
	return &Error{msg: err.Error(), cause: err, pcs: frame.CapturePCs(1)}
}

// Wrap attaches the caller's stack to err. A nil err stays nil, and an error
// that already carries a trail is returned unchanged.
func Wrap(err error) error {
	if err == nil {
		return nil
	}
	var t Trailer
	if errors.As(err, &t) {
		return err
	}
	return &Error{msg: err.Error(), cause: err, pcs: frame.CapturePCs(1)}
}

// FromTrail builds an error around raw descriptors, e.g. a trail read from a
// log or produced by another runtime.
func FromTrail(msg string, trail []string) *Error {
	e := &Error{msg: msg}
	e.once.Do(func() { e.trail = append([]string(nil), trail...) })
	return e
}

func (e *Error) Error() string { return e.msg }

func (e *Error) Unwrap() error { return e.cause }

// Trail returns the descriptors of the stack recorded at creation.
func (e *Error) Trail() []string {
	e.once.Do(func() { e.trail = frame.Resolve(e.pcs) })
	return e.trail
}

// Message is the sentence form of err's text: first letter upper-cased, a
// final period, and ' replaced by `.
func Message(err error) string {
	if err == nil {
		return ""
	}
	return textutil.Sentence(err.Error())
}

// Trail returns err's own trail, or the caller's current stack when err
// carries none.
func Trail(err error) []string {
	var t Trailer
	if errors.As(err, &t) {
		return t.Trail()
	}
	return frame.Capture(1)
}
