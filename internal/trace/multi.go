package trace

import "errors"

// MultiTracer fans events out to several tracers.
type MultiTracer struct {
	gate
	tracers []Tracer
}

// NewMultiTracer emits to every tracer in order.
func NewMultiTracer(level Level, tracers ...Tracer) *MultiTracer {
	return &MultiTracer{gate: gate{level}, tracers: tracers}
}

// Emit hands each tracer its own copy, since tracers stamp Seq in place.
func (t *MultiTracer) Emit(ev *Event) {
	for _, tr := range t.tracers {
		cp := *ev
		tr.Emit(&cp)
	}
}

func (t *MultiTracer) Flush() error { return t.each(Tracer.Flush) }
func (t *MultiTracer) Close() error { return t.each(Tracer.Close) }

// each calls fn on every tracer, even after a failure.
func (t *MultiTracer) each(fn func(Tracer) error) error {
	var errs []error
	for _, tr := range t.tracers {
		errs = append(errs, fn(tr))
	}
	return errors.Join(errs...)
}

// Ring returns the ring buffer held by t, if any.
func Ring(t Tracer) *RingTracer {
	switch x := t.(type) {
	case *RingTracer:
		return x
	case *MultiTracer:
		for _, tr := range x.tracers {
			if r := Ring(tr); r != nil {
				return r
			}
		}
	}
	return nil
}
