// Package classify relabels the frames of a trail: reserved hook methods and
// anonymous blocks get uniform placeholders, and the label column is shifted
// so every frame names the call it makes rather than the method it runs in.
package classify

import (
	"regexp"

	"prettydebug/internal/frame"
)

// EnteredBlock replaces the labels of anonymous and rescue-wrapped blocks.
const EnteredBlock = "(entered block)"

// Hooks lists the callback methods a runtime invokes on its own (construction,
// coercion, dispatch fallbacks, reflection notifications, exit hooks). Frames
// labelled with one of them are shown as "(name)".
var Hooks = map[string]struct{}{
	"at_exit":                    {},
	"set_trace_func":             {},
	"initialize":                 {},
	"coerce":                     {},
	"method_missing":             {},
	"singleton_method_added":     {},
	"singleton_method_removed":   {},
	"singleton_method_undefined": {},
	"respond_to_missing?":        {},
	"extended":                   {},
	"included":                   {},
	"method_added":               {},
	"method_removed":             {},
	"method_undefined":           {},
	"const_missing":              {},
	"inherited":                  {},
	"initialize_copy":            {},
	"initialize_clone":           {},
	"initialize_dup":             {},
	"prepend":                    {},
	"append_features":            {},
	"extend_features":            {},
	"prepend_features":           {},
}

var (
	blockPattern  = regexp.MustCompile(`\A(rescue in )?block( .*)? in `)
	rescuePattern = regexp.MustCompile(`\Arescue in `)
)

// Entry is a classified frame. Record.Label holds the shifted label that gets
// displayed; Original keeps the frame's own classified label for filtering.
type Entry struct {
	Record   frame.Record
	Original string
}

// Label rewrites a single label. Labels that match no rule are returned as is.
func Label(l string) string {
	if _, ok := Hooks[l]; ok {
		return "(" + l + ")"
	}
	if blockPattern.MatchString(l) {
		return EnteredBlock
	}
	if rescuePattern.MatchString(l) {
		return ""
	}
	return l
}

// Frames classifies records (oldest call first) and shifts the label column
// by one: entry i displays the classified label of record i+1, the last entry
// displays nothing. Files and lines are left untouched; records is not
// modified.
func Frames(records []frame.Record) []Entry {
	out := make([]Entry, len(records))
	for i, r := range records {
		out[i] = Entry{Record: r, Original: Label(r.Label)}
	}
	for i := range out {
		next := ""
		if i+1 < len(out) {
			next = out[i+1].Original
		}
		out[i].Record.Label = next
	}
	return out
}
