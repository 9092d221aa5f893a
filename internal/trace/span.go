package trace

import (
	"sync/atomic"
	"time"
)

var (
	globalSeq   atomic.Uint64
	globalSpans atomic.Uint64
)

// NextSeq returns a monotonically increasing sequence number.
func NextSeq() uint64 { return globalSeq.Add(1) }

// NextSpanID returns a unique span ID.
func NextSpanID() uint64 { return globalSpans.Add(1) }

// Span is one timed operation. A span whose scope the tracer's level filters
// out emits nothing, but still hands its tracer and input to its children,
// which attach to the nearest ancestor that was emitted.
type Span struct {
	tracer  Tracer
	id      uint64 // 0 when muted
	parent  uint64
	scope   Scope
	name    string
	input   string
	started time.Time
	extra   map[string]string
}

// Begin starts a span under parent (nil for a root span).
func Begin(t Tracer, scope Scope, name string, parent *Span) *Span {
	return begin(t, scope, name, parent, parent.inputName())
}

// BeginInput starts the span for one input. It and everything below it
// carry the input name, so events of parallel inputs can be told apart.
func BeginInput(t Tracer, input string, parent *Span) *Span {
	name := "input"
	if input != "" {
		name += ":" + input
	}
	return begin(t, ScopeInput, name, parent, input)
}

func begin(t Tracer, scope Scope, name string, parent *Span, input string) *Span {
	if t == nil {
		t = Nop
	}
	s := &Span{
		tracer: t,
		parent: parent.anchor(),
		scope:  scope,
		name:   name,
		input:  input,
	}
	if !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return s
	}
	s.id = NextSpanID()
	s.started = time.Now()
	t.Emit(s.event(KindSpanBegin, ""))
	return s
}

// Child starts a span under s using s's tracer.
func (s *Span) Child(scope Scope, name string) *Span {
	if s == nil {
		return Begin(Nop, scope, name, nil)
	}
	return Begin(s.tracer, scope, name, s)
}

// End emits the end event and returns the span's duration.
func (s *Span) End(detail string) time.Duration {
	if s == nil || s.id == 0 {
		return 0
	}
	ev := s.event(KindSpanEnd, detail)
	ev.Extra = s.extra
	s.tracer.Emit(ev)
	return time.Since(s.started)
}

// WithExtra adds a key-value pair to the end event.
func (s *Span) WithExtra(key, value string) *Span {
	if s == nil || s.id == 0 {
		return s
	}
	if s.extra == nil {
		s.extra = make(map[string]string)
	}
	s.extra[key] = value
	return s
}

// Point emits an instant event under s.
func (s *Span) Point(scope Scope, name, detail string) {
	if s == nil {
		return
	}
	Point(s.tracer, scope, name, s, detail)
}

// ID returns the span ID, or 0 when the span was not emitted.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}

// Tracer returns the tracer the span emits to.
func (s *Span) Tracer() Tracer {
	if s == nil {
		return Nop
	}
	return s.tracer
}

func (s *Span) anchor() uint64 {
	if s == nil {
		return 0
	}
	if s.id != 0 {
		return s.id
	}
	return s.parent
}

func (s *Span) inputName() string {
	if s == nil {
		return ""
	}
	return s.input
}

func (s *Span) event(kind Kind, detail string) *Event {
	return &Event{
		Time:     time.Now(),
		Seq:      NextSeq(),
		Kind:     kind,
		Scope:    s.scope,
		SpanID:   s.id,
		ParentID: s.parent,
		Input:    s.input,
		Name:     s.name,
		Detail:   detail,
	}
}

// Point emits an instant event under parent (nil for none).
func Point(t Tracer, scope Scope, name string, parent *Span, detail string) {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return
	}
	t.Emit(&Event{
		Time:     time.Now(),
		Seq:      NextSeq(),
		Kind:     KindPoint,
		Scope:    scope,
		ParentID: parent.anchor(),
		Input:    parent.inputName(),
		Name:     name,
		Detail:   detail,
	})
}
