package report

import (
	"fmt"
	"strconv"

	"prettydebug/internal/frame"
	"prettydebug/internal/pretty"
	"prettydebug/internal/style"
)

// Intercept prints the caller's location and the pretty-printed v to the
// configured output, then returns v unchanged so it can wrap an expression:
//
//	total := report.Intercept(cfg, sum(xs))
func Intercept[T any](cfg Config, v T) T {
	loc := frame.Caller(1)
	s := cfg.Styler()
	where := loc.RealPath()
	if n, ok := loc.LineNo(); ok {
		where += ":" + strconv.Itoa(n)
	}
	fmt.Fprintln(cfg.Output(), s.Style("[Debug] "+where, style.Location))
	fmt.Fprintln(cfg.Output(), s.Style(pretty.InspectAny(v), style.Verbatim))
	return v
}
