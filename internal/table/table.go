// Package table lines up rows of values into columns.
package table

import (
	"fmt"
	"reflect"
	"strings"

	"prettydebug/internal/textutil"
)

// DefaultSeparator joins the cells of a row.
const DefaultSeparator = " | "

// RowFormatter turns the padded cells of one row into an output line.
type RowFormatter func(cells []string) string

// Join returns the plain formatter that joins cells with sep.
func Join(sep string) RowFormatter {
	return func(cells []string) string { return strings.Join(cells, sep) }
}

// Options configures Render.
type Options struct {
	// Ellipsis caps column widths; longer cells are cut in the middle. Zero disables it.
	Ellipsis int
	// Separator is used by the default formatter; empty means DefaultSeparator.
	Separator string
	// Format styles a row; nil joins cells with Separator.
	Format RowFormatter
}

// Sep returns the effective separator.
func (o Options) Sep() string {
	if o.Separator == "" {
		return DefaultSeparator
	}
	return o.Separator
}

// Cell renders one value the way tables show it: nil is blank.
func Cell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

func isNumeric(v any) bool {
	if v == nil {
		return false
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func at(row []any, i int) any {
	if i < len(row) {
		return row[i]
	}
	return nil
}

// Align pads every cell to its column width. A column whose first value is
// numeric is right-justified, any other column is left-justified. With
// limit > 0 no column grows past limit cells.
func Align(rows [][]any, limit int) [][]string {
	if len(rows) == 0 {
		return nil
	}
	ncol := 0
	for _, row := range rows {
		ncol = max(ncol, len(row))
	}
	out := make([][]string, len(rows))
	for r := range out {
		out[r] = make([]string, ncol)
	}

	cells := make([]string, len(rows))
	for c := range ncol {
		right := isNumeric(at(rows[0], c))
		width := 0
		for r, row := range rows {
			cells[r] = Cell(at(row, c))
			width = max(width, textutil.Width(cells[r]))
		}
		if limit > 0 {
			width = min(width, limit)
		}
		for r, s := range cells {
			if limit > 0 {
				s = textutil.Ellipsis(s, limit)
			}
			if right {
				out[r][c] = textutil.PadLeft(s, width)
			} else {
				out[r][c] = textutil.PadRight(s, width)
			}
		}
	}
	return out
}

// Render aligns rows and formats each of them into a line.
func Render(rows [][]any, opts Options) []string {
	format := opts.Format
	if format == nil {
		format = Join(opts.Sep())
	}
	aligned := Align(rows, opts.Ellipsis)
	lines := make([]string, len(aligned))
	for i, cells := range aligned {
		lines[i] = format(cells)
	}
	return lines
}
