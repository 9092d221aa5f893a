package textutil

import (
	"regexp"
	"strings"

	"github.com/mattn/go-runewidth"
)

var sgrPattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// StripANSI removes SGR escape sequences (colours, bold, ...) from s.
func StripANSI(s string) string {
	if strings.IndexByte(s, 0x1b) < 0 {
		return s
	}
	return sgrPattern.ReplaceAllString(s, "")
}

// Width returns the number of terminal cells s occupies. Colour escapes do not count.
func Width(s string) int {
	return runewidth.StringWidth(StripANSI(s))
}

// PadRight left-justifies s in a field of w cells.
func PadRight(s string, w int) string {
	if gap := w - Width(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}

// PadLeft right-justifies s in a field of w cells.
func PadLeft(s string, w int) string {
	if gap := w - Width(s); gap > 0 {
		return strings.Repeat(" ", gap) + s
	}
	return s
}

// head returns the longest prefix of s that fits into w cells.
func head(s string, w int) string {
	used := 0
	for i, r := range s {
		rw := runewidth.RuneWidth(r)
		if used+rw > w {
			return s[:i]
		}
		used += rw
	}
	return s
}

// tail returns the longest suffix of s that fits into w cells.
func tail(s string, w int) string {
	runes := []rune(s)
	used := 0
	i := len(runes)
	for i > 0 {
		rw := runewidth.RuneWidth(runes[i-1])
		if used+rw > w {
			break
		}
		used += rw
		i--
	}
	return string(runes[i:])
}
