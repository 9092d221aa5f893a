package trace

import (
	"io"
	"sync"
)

// RingTracer keeps the most recent events in memory for a crash dump.
type RingTracer struct {
	mu     sync.RWMutex
	events []Event
	total  uint64 // events ever stored; the next slot is total % len(events)
	gate
}

// NewRingTracer creates a ring holding up to capacity events (4096 when
// capacity is not positive).
func NewRingTracer(capacity int, level Level) *RingTracer {
	if capacity <= 0 {
		capacity = 4096
	}
	return &RingTracer{events: make([]Event, capacity), gate: gate{level}}
}

// Emit stores a copy of ev, overwriting the oldest event when full.
func (t *RingTracer) Emit(ev *Event) {
	if !t.level.ShouldEmit(ev.Scope) {
		return
	}
	stored := *ev
	stored.Seq = NextSeq()

	t.mu.Lock()
	defer t.mu.Unlock()
	n := uint64(len(t.events))
	t.events[t.total%n] = stored
	t.total++
}

// Len reports how many events a Snapshot would return.
func (t *RingTracer) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return int(min(t.total, uint64(len(t.events))))
}

// Snapshot returns the stored events, oldest first.
func (t *RingTracer) Snapshot() []Event {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n := uint64(len(t.events))
	if t.total <= n {
		return append([]Event(nil), t.events[:t.total]...)
	}
	start := t.total % n
	out := make([]Event, 0, n)
	out = append(out, t.events[start:]...)
	return append(out, t.events[:start]...)
}

// Dump writes the stored events, oldest first.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	events := t.Snapshot()
	for i := range events {
		if _, err := w.Write(FormatEvent(&events[i], format)); err != nil {
			return err
		}
	}
	return nil
}

// Flush is a no-op; the ring lives in memory.
func (t *RingTracer) Flush() error { return nil }

// Close is a no-op; the ring stays readable after Close.
func (t *RingTracer) Close() error { return nil }
