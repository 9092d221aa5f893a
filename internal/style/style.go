// Package style applies terminal styles to text.
package style

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"prettydebug/internal/table"
)

// Styler applies a named style to text. A name is a space separated list of
// attributes, e.g. "bold yellow" or "bg-white black".
type Styler interface {
	Style(text, name string) string
}

var attributes = map[string]color.Attribute{
	"bold":      color.Bold,
	"faint":     color.Faint,
	"italic":    color.Italic,
	"underline": color.Underline,

	"black":   color.FgBlack,
	"red":     color.FgRed,
	"green":   color.FgGreen,
	"yellow":  color.FgYellow,
	"blue":    color.FgBlue,
	"magenta": color.FgMagenta,
	"cyan":    color.FgCyan,
	"white":   color.FgWhite,

	"bg-black":   color.BgBlack,
	"bg-red":     color.BgRed,
	"bg-green":   color.BgGreen,
	"bg-yellow":  color.BgYellow,
	"bg-blue":    color.BgBlue,
	"bg-magenta": color.BgMagenta,
	"bg-cyan":    color.BgCyan,
	"bg-white":   color.BgWhite,
}

// ParseName resolves a style name into color attributes.
func ParseName(name string) ([]color.Attribute, error) {
	fields := strings.Fields(name)
	attrs := make([]color.Attribute, 0, len(fields))
	for _, f := range fields {
		a, ok := attributes[strings.ToLower(f)]
		if !ok {
			return nil, fmt.Errorf("unknown style attribute %q", f)
		}
		attrs = append(attrs, a)
	}
	return attrs, nil
}

// ANSI styles text with escape sequences regardless of the output device.
type ANSI struct{}

// Style implements Styler. Unknown names leave text unstyled.
func (ANSI) Style(text, name string) string {
	attrs, err := ParseName(name)
	if err != nil || len(attrs) == 0 {
		return text
	}
	c := color.New(attrs...)
	c.EnableColor()
	return c.Sprint(text)
}

// Plain leaves text untouched.
type Plain struct{}

// Style implements Styler.
func (Plain) Style(text, _ string) string { return text }

// For returns ANSI when enabled is set and Plain otherwise.
func For(enabled bool) Styler {
	if enabled {
		return ANSI{}
	}
	return Plain{}
}

// Named styles used across reports.
const (
	Row      = "bg-white black"
	Message  = "bold red"
	Location = "bold yellow"
	Verbatim = "bg-blue"
	Note     = "faint"
)

// RowFormat is the default row formatter: the joined row plus a trailing
// space, highlighted as a bar.
func RowFormat(s Styler, sep string) table.RowFormatter {
	return func(cells []string) string {
		return s.Style(strings.Join(cells, sep)+" ", Row)
	}
}

// Header styles the message line of a report.
func Header(s Styler, text string) string {
	return s.Style(text, Message)
}
