// Package filter decides which classified frames make it into a report.
//
// Rules are assembled once with a Builder and are read-only afterwards, so a
// single Rules value can be shared by concurrent renders.
package filter

import (
	"fmt"
	"maps"
	"regexp"

	"prettydebug/internal/classify"
	"prettydebug/internal/frame"
)

// Mode selects how the installed predicate is interpreted.
type Mode uint8

const (
	// ModeSelect keeps only frames the predicate matches.
	ModeSelect Mode = iota + 1
	// ModeReject drops frames the predicate matches.
	ModeReject
)

// String returns the string representation of Mode.
func (m Mode) String() string {
	switch m {
	case ModeSelect:
		return "select"
	case ModeReject:
		return "reject"
	default:
		return "none"
	}
}

// Predicate inspects the real path and the (unshifted) label of a frame.
type Predicate func(file, label string) (bool, error)

// syntheticPattern matches pseudo-labels such as <main>, <top (required)> or <module:Foo>.
var syntheticPattern = regexp.MustCompile(`(?s)\A<.*>\z`)

// Rules is the frozen filter configuration.
type Rules struct {
	mode Mode
	pred Predicate
	self map[string]struct{}
}

// Mode reports the installed mode; zero when no predicate is installed.
func (r Rules) Mode() Mode { return r.mode }

// IsSelf reports whether file belongs to the excluded (library) files.
func (r Rules) IsSelf(file string) bool {
	_, ok := r.self[file]
	return ok
}

// Outcome is the result of Apply.
type Outcome struct {
	Records []frame.Record
	Dropped int
	// Err is set when the predicate failed; its stage was skipped.
	Err error
}

// Apply drops library frames, synthetic frames and frames rejected by the
// predicate, then returns the surviving records with their shifted labels.
// A failing predicate keeps every frame of its stage.
func (r Rules) Apply(entries []classify.Entry) Outcome {
	kept := make([]classify.Entry, 0, len(entries))
	for _, e := range entries {
		if r.IsSelf(e.Record.File) || r.IsSelf(e.Record.RealPath()) {
			continue
		}
		if syntheticPattern.MatchString(e.Original) {
			continue
		}
		kept = append(kept, e)
	}

	var out Outcome
	if staged, err := r.predicateStage(kept); err != nil {
		out.Err = err
	} else {
		kept = staged
	}

	out.Records = make([]frame.Record, len(kept))
	for i, e := range kept {
		out.Records[i] = e.Record
	}
	out.Dropped = len(entries) - len(kept)
	return out
}

func (r Rules) predicateStage(entries []classify.Entry) ([]classify.Entry, error) {
	if r.pred == nil {
		return entries, nil
	}
	out := make([]classify.Entry, 0, len(entries))
	for _, e := range entries {
		match, err := call(r.pred, e.Record.RealPath(), e.Original)
		if err != nil {
			return nil, fmt.Errorf("%s predicate on %s: %w", r.mode, e.Record.File, err)
		}
		if match == (r.mode == ModeSelect) {
			out = append(out, e)
		}
	}
	return out, nil
}

// call shields the report from predicates that panic.
func call(p Predicate, file, label string) (match bool, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("predicate panicked: %v", rec)
		}
	}()
	return p(file, label)
}

// Builder assembles Rules.
type Builder struct {
	mode Mode
	pred Predicate
	self map[string]struct{}
}

// NewBuilder returns a builder that keeps every frame.
func NewBuilder() *Builder {
	return &Builder{self: make(map[string]struct{})}
}

// Select keeps only frames p matches and clears any reject predicate.
func (b *Builder) Select(p Predicate) *Builder {
	b.mode, b.pred = ModeSelect, p
	return b
}

// Reject drops frames p matches and clears any select predicate.
func (b *Builder) Reject(p Predicate) *Builder {
	b.mode, b.pred = ModeReject, p
	return b
}

// Exclude marks files whose frames are never shown.
func (b *Builder) Exclude(files ...string) *Builder {
	for _, f := range files {
		b.self[f] = struct{}{}
		if resolved, err := frame.ResolvePath(f); err == nil {
			b.self[resolved] = struct{}{}
		}
	}
	return b
}

// Build freezes the configuration. Later changes to the builder do not
// affect the returned Rules.
func (b *Builder) Build() Rules {
	r := Rules{self: maps.Clone(b.self)}
	if b.pred != nil {
		r.mode, r.pred = b.mode, b.pred
	}
	return r
}
