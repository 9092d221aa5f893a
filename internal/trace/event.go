package trace

import "time"

// Kind tells span boundaries apart from instant events.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
)

var kindNames = [...]string{KindSpanBegin: "begin", KindSpanEnd: "end", KindPoint: "point"}

func (k Kind) String() string { return lookupName(kindNames[:], int(k)) }

// Scope is the granularity of an event. Lower values are coarser, so a
// level admits every scope up to a limit.
type Scope uint8

const (
	ScopeCommand Scope = iota + 1 // one CLI invocation
	ScopeStage                    // parse, classify, filter or render
	ScopeInput                    // one trail or document
	ScopeFrame                    // a single frame decision
)

var scopeNames = [...]string{ScopeCommand: "command", ScopeStage: "stage", ScopeInput: "input", ScopeFrame: "frame"}

func (s Scope) String() string { return lookupName(scopeNames[:], int(s)) }

func lookupName(names []string, i int) string {
	if i > 0 && i < len(names) {
		return names[i]
	}
	return "unknown"
}

// Event is one trace record. Tracers fill in Seq when they keep it.
type Event struct {
	Time     time.Time
	Seq      uint64
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64 // 0 for a root span
	Input    string // the input being processed, if any
	Name     string // "filter", "input:trail.txt" and so on
	Detail   string
	Extra    map[string]string
}
