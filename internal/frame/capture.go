package frame

import (
	"path/filepath"
	"runtime"
	"slices"
	"strings"
)

// maxDepth bounds how many frames a capture records.
const maxDepth = 64

// CapturePCs records the program counters of the calling goroutine. skip=0
// starts the stack at the caller of CapturePCs.
func CapturePCs(skip int) []uintptr {
	// +2: runtime.Callers and CapturePCs itself.
	pc := make([]uintptr, maxDepth)
	n := runtime.Callers(skip+2, pc)
	return pc[:n]
}

// Resolve turns program counters into raw descriptors, oldest call first.
// Frames of the Go runtime are dropped.
func Resolve(pcs []uintptr) []string {
	if len(pcs) == 0 {
		return nil
	}
	frames := runtime.CallersFrames(pcs)
	out := make([]string, 0, len(pcs))
	for {
		fr, more := frames.Next()
		if fr.Function != "" && !strings.HasPrefix(fr.Function, "runtime.") {
			out = append(out, Format(fr.File, fr.Line, fr.Function))
		}
		if !more {
			break
		}
	}
	slices.Reverse(out)
	return out
}

// Capture returns the current call stack as raw descriptors, oldest call
// first. skip=0 ends the trail at the caller of Capture.
func Capture(skip int) []string {
	return Resolve(CapturePCs(skip + 1))
}

// Reverse returns a reversed copy of trail. Runtimes that list the innermost
// call first need it before classification.
func Reverse(trail []string) []string {
	out := slices.Clone(trail)
	slices.Reverse(out)
	return out
}

// Caller describes the frame skip levels above the caller of Caller.
func Caller(skip int) Record {
	pc, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return Record{File: EvalBuffer}
	}
	r := Record{File: file, Line: line, HasLine: true}
	if fn := runtime.FuncForPC(pc); fn != nil {
		r.Label = fn.Name()
	}
	return r
}

// ExpandRelative resolves p against the real directory of the calling
// source file.
func ExpandRelative(p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(Caller(1).RealDir(), p)
}

// GlobRelative globs pattern relative to the real directory of the calling
// source file.
func GlobRelative(pattern string) ([]string, error) {
	if !filepath.IsAbs(pattern) {
		pattern = filepath.Join(Caller(1).RealDir(), pattern)
	}
	return filepath.Glob(pattern)
}
