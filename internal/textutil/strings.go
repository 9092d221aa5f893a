package textutil

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// IndentUnit is one level of indentation.
const IndentUnit = "  "

// Indent prefixes every line of s with n indentation levels.
func Indent(s string, n int) string {
	if n <= 0 {
		return s
	}
	prefix := strings.Repeat(IndentUnit, n)
	if s == "" {
		return prefix
	}
	var b strings.Builder
	b.Grow(len(s) + len(prefix)*(strings.Count(s, "\n")+1))
	for line := range strings.SplitAfterSeq(s, "\n") {
		if line == "" {
			continue
		}
		b.WriteString(prefix)
		b.WriteString(line)
	}
	return b.String()
}

// Unchomp makes sure s ends with exactly one trailing newline.
func Unchomp(s string) string {
	return strings.TrimSuffix(s, "\n") + "\n"
}

// CommonPrefix returns the longest prefix shared by all strings.
func CommonPrefix(ss []string) string {
	if len(ss) == 0 {
		return ""
	}
	first := []rune(ss[0])
	n := len(first)
	for _, s := range ss[1:] {
		i := 0
		for _, r := range s {
			if i >= n || first[i] != r {
				break
			}
			i++
		}
		n = min(n, i)
	}
	return string(first[:n])
}

// CommonAffix returns the longest suffix shared by all strings.
func CommonAffix(ss []string) string {
	if len(ss) == 0 {
		return ""
	}
	first := []rune(ss[0])
	n := len(first)
	for _, s := range ss[1:] {
		other := []rune(s)
		i := 0
		for i < n && i < len(other) && first[len(first)-1-i] == other[len(other)-1-i] {
			i++
		}
		n = i
	}
	return string(first[len(first)-n:])
}

// Sentence turns an error message into a display sentence: the first
// character is upper-cased, a final period is added when missing and single
// quotes become backquotes.
func Sentence(msg string) string {
	msg = norm.NFC.String(msg)
	if i := strings.IndexFunc(msg, func(r rune) bool { return r != '\n' }); i >= 0 {
		r, size := utf8.DecodeRuneInString(msg[i:])
		msg = msg[:i] + string(unicode.ToUpper(r)) + msg[i+size:]
	}
	if msg != "" && !strings.HasSuffix(msg, ".") {
		msg += "."
	}
	return strings.ReplaceAll(msg, "'", "`")
}
