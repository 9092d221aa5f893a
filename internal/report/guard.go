package report

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"prettydebug/internal/trace"
)

// ErrInterrupt marks a run stopped by the user. The exit hook ignores it.
var ErrInterrupt = errors.New("interrupted")

// Option adjusts the exit hook.
type Option func(*hook)

type hook struct {
	exit    func(code int)
	silence bool
}

// WithExitFunc replaces os.Exit.
func WithExitFunc(exit func(code int)) Option {
	return func(h *hook) { h.exit = exit }
}

// WithSilence points os.Stdout and os.Stderr at the null device after the
// report is printed, so nothing else reaches the terminal on the way out.
func WithSilence() Option {
	return func(h *hook) { h.silence = true }
}

func newHook(opts []Option) *hook {
	h := &hook{exit: os.Exit}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Guard is the exit hook. Defer it first thing in main:
//
//	defer report.Guard(cfg)
//
// When the program panics, Guard prints the report for the panic value to the
// configured output and exits with status 1. A normal return does nothing.
func Guard(cfg Config, opts ...Option) {
	if r := recover(); r != nil {
		newHook(opts).handle(panicError(r), cfg)
	}
}

// GuardFrom is Guard with the configuration looked up when a panic arrives,
// for programs that only know their settings after the hook is deferred.
func GuardFrom(current func() Config, opts ...Option) {
	if r := recover(); r != nil {
		newHook(opts).handle(panicError(r), current())
	}
}

func panicError(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return fmt.Errorf("%v", r)
}

// Exit reports err the way Guard reports a panic. nil, context.Canceled and
// ErrInterrupt return without exiting.
func Exit(err error, cfg Config, opts ...Option) {
	newHook(opts).handle(err, cfg)
}

// Ignored reports whether err ends a program without a report.
func Ignored(err error) bool {
	return err == nil || errors.Is(err, context.Canceled) || errors.Is(err, ErrInterrupt)
}

func (h *hook) handle(err error, cfg Config) {
	if Ignored(err) {
		return
	}
	w := cfg.Output()
	lines := Build(err, cfg).Lines(cfg)
	_, _ = io.WriteString(w, strings.Join(lines, "\n")+"\n") //nolint:errcheck // nowhere left to report to
	dumpTrace(w, cfg.Tracer())
	if h.silence {
		silence()
	}
	h.exit(1)
}

// dumpTrace writes the ring buffer, if tracing keeps one, after the report.
func dumpTrace(w io.Writer, t trace.Tracer) {
	_ = t.Flush() //nolint:errcheck
	ring := trace.Ring(t)
	if ring == nil {
		return
	}
	n := ring.Len()
	if n == 0 {
		return
	}
	fmt.Fprintf(w, "trace (last %d events):\n", n)
	_ = ring.Dump(w, trace.FormatText) //nolint:errcheck
}

func silence() {
	null, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
	if err != nil {
		return
	}
	os.Stdout = null
	os.Stderr = null
}
