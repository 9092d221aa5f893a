package trace

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Format selects how events are written.
type Format uint8

const (
	FormatAuto   Format = iota // pick by output path
	FormatText                 // one readable line per event
	FormatNDJSON               // one JSON object per line
)

// ParseFormat reads a --trace-format value.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return FormatAuto, nil
	case "text":
		return FormatText, nil
	case "ndjson", "json":
		return FormatNDJSON, nil
	}
	return FormatAuto, fmt.Errorf("invalid trace format: %q (expected: auto|text|ndjson)", s)
}

// FormatEvent renders ev as one newline-terminated line.
func FormatEvent(ev *Event, format Format) []byte {
	if format == FormatNDJSON {
		return appendJSON(nil, ev)
	}
	return appendText(nil, ev)
}

const timeLayout = "2006-01-02T15:04:05.000000Z07:00"

type wireEvent struct {
	Time     string            `json:"time"`
	Seq      uint64            `json:"seq"`
	Kind     string            `json:"kind"`
	Scope    string            `json:"scope"`
	SpanID   uint64            `json:"span_id"`
	ParentID uint64            `json:"parent_id,omitempty"`
	Input    string            `json:"input,omitempty"`
	Name     string            `json:"name"`
	Detail   string            `json:"detail,omitempty"`
	Extra    map[string]string `json:"extra,omitempty"`
}

func appendJSON(dst []byte, ev *Event) []byte {
	data, _ := json.Marshal(wireEvent{
		Time:     ev.Time.Format(timeLayout),
		Seq:      ev.Seq,
		Kind:     ev.Kind.String(),
		Scope:    ev.Scope.String(),
		SpanID:   ev.SpanID,
		ParentID: ev.ParentID,
		Input:    ev.Input,
		Name:     ev.Name,
		Detail:   ev.Detail,
		Extra:    ev.Extra,
	})
	dst = append(dst, data...)
	return append(dst, '\n')
}

var kindMarks = map[Kind]string{KindSpanBegin: "→", KindSpanEnd: "←", KindPoint: "•"}

// appendText writes "#seq  → scope:name @input (detail) {k=v, ...}". Child
// events are indented by two spaces and the input is only repeated outside
// the input span itself.
func appendText(dst []byte, ev *Event) []byte {
	dst = fmt.Appendf(dst, "#%-5d ", ev.Seq)
	if ev.ParentID != 0 {
		dst = append(dst, "  "...)
	}
	if mark, ok := kindMarks[ev.Kind]; ok {
		dst = append(dst, mark+" "...)
	}
	dst = fmt.Appendf(dst, "%s:%s", ev.Scope, ev.Name)
	if ev.Input != "" && ev.Scope != ScopeInput {
		dst = append(dst, " @"+ev.Input...)
	}
	if ev.Detail != "" {
		dst = append(dst, " ("+ev.Detail+")"...)
	}
	if len(ev.Extra) > 0 {
		pairs := make([]string, 0, len(ev.Extra))
		for _, k := range slices.Sorted(maps.Keys(ev.Extra)) {
			pairs = append(pairs, k+"="+ev.Extra[k])
		}
		dst = append(dst, " {"+strings.Join(pairs, ", ")+"}"...)
	}
	return append(dst, '\n')
}
