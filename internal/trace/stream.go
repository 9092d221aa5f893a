package trace

import (
	"io"
	"sync"
)

// StreamTracer formats each event and writes it out immediately. It writes
// nothing at LevelError, where events are only for ring dumps.
type StreamTracer struct {
	gate
	mu     sync.Mutex
	w      io.Writer
	format Format
	owned  io.Closer // set when the tracer opened w itself
}

// NewStreamTracer writes to w, which the tracer never closes.
func NewStreamTracer(w io.Writer, level Level, format Format) *StreamTracer {
	return &StreamTracer{gate: gate{level}, w: w, format: format}
}

func (t *StreamTracer) Emit(ev *Event) {
	if t.level <= LevelError || !t.level.ShouldEmit(ev.Scope) {
		return
	}
	ev.Seq = NextSeq()
	line := FormatEvent(ev, t.format)

	t.mu.Lock()
	defer t.mu.Unlock()
	// A broken trace sink must not fail the command.
	_, _ = t.w.Write(line)
}

func (t *StreamTracer) Flush() error {
	if f, ok := t.w.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}

// Close flushes, then closes the output if the tracer opened it.
func (t *StreamTracer) Close() error {
	if err := t.Flush(); err != nil {
		return err
	}
	if t.owned == nil {
		return nil
	}
	err := t.owned.Close()
	t.owned = nil
	return err
}
