package frame

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"fortio.org/safecast"
)

// Sentinel file names that do not refer to a file on disk.
const (
	InlineScript = "-e"
	EvalBuffer   = "(eval)"
)

// descriptorPattern accepts "file", "file:line", "file:line:in `label'",
// "file:line:in 'label'" and "file:line<label>". Newlines are allowed inside
// the label.
var descriptorPattern = regexp.MustCompile("(?s)\\A([^:]+)(?::(\\d+))?(?::in [`'](.+)'|(.+))?\\z")

// Record is one entry of a call-stack trail.
type Record struct {
	File    string
	Line    int
	HasLine bool
	Label   string
}

// Parse turns a raw frame descriptor into a Record. It never fails: parts that
// cannot be recognised are left empty, and a descriptor that does not match at
// all is kept whole as the file name.
func Parse(raw string) Record {
	m := descriptorPattern.FindStringSubmatch(raw)
	if m == nil {
		return Record{File: raw}
	}
	r := Record{File: m[1]}
	if m[2] != "" {
		// An overflowing line number is as good as none.
		if u, err := strconv.ParseUint(m[2], 10, 64); err == nil {
			if n, err := safecast.Conv[int](u); err == nil {
				r.Line, r.HasLine = n, true
			}
		}
	}
	switch {
	case m[3] != "":
		r.Label = m[3]
	case m[4] != "":
		r.Label = m[4]
	}
	return r
}

// ParseAll parses every descriptor of a trail.
func ParseAll(trail []string) []Record {
	out := make([]Record, len(trail))
	for i, raw := range trail {
		out[i] = Parse(raw)
	}
	return out
}

// Format renders a descriptor in the form accepted by Parse.
func Format(file string, line int, label string) string {
	var b strings.Builder
	b.WriteString(file)
	if line > 0 {
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(line))
	}
	if label != "" {
		fmt.Fprintf(&b, ":in `%s'", label)
	}
	return b.String()
}

// String re-renders the record as a descriptor.
func (r Record) String() string {
	line := 0
	if r.HasLine {
		line = r.Line
	}
	return Format(r.File, line, r.Label)
}

// LineNo returns the line number and whether the descriptor carried one.
func (r Record) LineNo() (int, bool) { return r.Line, r.HasLine }

// Dir is the parent directory of File.
func (r Record) Dir() string { return filepath.Dir(r.File) }

// Base is the final path component of File.
func (r Record) Base() string { return filepath.Base(r.File) }

// RealPath is File with symlinks resolved. Sentinel contexts and files that
// cannot be resolved are returned as they are.
func (r Record) RealPath() string {
	p, err := ResolvePath(r.File)
	if err != nil {
		return r.File
	}
	return p
}

// RealDir is the parent directory of RealPath.
func (r Record) RealDir() string { return filepath.Dir(r.RealPath()) }

// RealBase is the final path component of RealPath.
func (r Record) RealBase() string { return filepath.Base(r.RealPath()) }

// ResolvePath canonicalises p: absolute, cleaned, symlinks resolved.
func ResolvePath(p string) (string, error) {
	switch p {
	case InlineScript, EvalBuffer:
		return p, nil
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %q: %w", p, err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %q: %w", p, err)
	}
	return resolved, nil
}
