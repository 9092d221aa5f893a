package pretty

import (
	"fmt"
	"reflect"
	"runtime"
	"strconv"
	"strings"

	"prettydebug/internal/textutil"
)

const (
	// SingleLength is the summed width of rendered elements below which a
	// container stays on one line.
	SingleLength = 50
	// KeyLengthMax caps the width keys are padded to.
	KeyLengthMax = 30
)

// active holds the containers on the current descent path, by identity.
type active map[Value]struct{}

// acquire marks c as being rendered; the returned func unmarks it.
func (a active) acquire(c Value) func() {
	a[c] = struct{}{}
	return func() { delete(a, c) }
}

func (a active) has(c Value) bool {
	_, ok := a[c]
	return ok
}

// Inspect renders v. Containers that reach themselves fall back to the plain
// one-line form with "[...]" and "{...}" standing for the repeated container.
// A chain of references that loops without passing a container renders "...".
func Inspect(v Value) string {
	return render(v, active{})
}

// InspectAny converts x with FromGo and renders it.
func InspectAny(x any) string {
	return Inspect(FromGo(x))
}

func render(v Value, path active) string {
	switch x := v.(type) {
	case nil:
		return "nil"
	case Scalar:
		return inspectScalar(x.V)
	case *Reference:
		if x == nil {
			return "nil"
		}
		if path.has(x) {
			return "..."
		}
		defer path.acquire(x)()
		return render(x.Target, path)
	case *Sequence:
		if x == nil {
			return "nil"
		}
		if path.has(x) || recursive(x, active{}) {
			return plain(x, active{})
		}
		defer path.acquire(x)()
		items := make([]string, len(x.Items))
		for i, item := range x.Items {
			items[i] = render(item, path)
		}
		return layout("[", "]", items)
	case *Mapping:
		if x == nil {
			return "nil"
		}
		if path.has(x) || recursive(x, active{}) {
			return plain(x, active{})
		}
		defer path.acquire(x)()
		keys := make([]string, len(x.Entries))
		w := 0
		for i, e := range x.Entries {
			keys[i] = render(e.Key, path)
			w = max(w, textutil.Width(keys[i]))
		}
		w = min(w, KeyLengthMax)
		pairs := make([]string, len(x.Entries))
		for i, e := range x.Entries {
			pairs[i] = textutil.PadRight(keys[i], w) + " => " + render(e.Val, path)
		}
		return layout("{", "}", pairs)
	default:
		return inspectScalar(v)
	}
}

// layout puts short containers on one line and long ones one element per
// line, indented one level.
func layout(open, closing string, elems []string) string {
	total := 0
	for _, e := range elems {
		total += textutil.Width(e)
	}
	if len(elems) < 2 || total < SingleLength {
		return open + strings.Join(elems, ", ") + closing
	}
	return open + "\n" + textutil.Indent(strings.Join(elems, ",\n"), 1) + "\n" + closing
}

// recursive reports whether a container is reachable from itself.
func recursive(v Value, path active) bool {
	switch x := v.(type) {
	case *Reference:
		if x == nil {
			return false
		}
		if path.has(x) {
			return true
		}
		defer path.acquire(x)()
		return recursive(x.Target, path)
	case *Sequence:
		if x == nil {
			return false
		}
		if path.has(x) {
			return true
		}
		defer path.acquire(x)()
		for _, item := range x.Items {
			if recursive(item, path) {
				return true
			}
		}
	case *Mapping:
		if x == nil {
			return false
		}
		if path.has(x) {
			return true
		}
		defer path.acquire(x)()
		for _, e := range x.Entries {
			if recursive(e.Key, path) || recursive(e.Val, path) {
				return true
			}
		}
	}
	return false
}

// plain is the non-expanding fallback used for self-referencing containers.
func plain(v Value, path active) string {
	switch x := v.(type) {
	case *Reference:
		if x == nil {
			return "nil"
		}
		if path.has(x) {
			return "..."
		}
		defer path.acquire(x)()
		return plain(x.Target, path)
	case *Sequence:
		if x == nil {
			return "nil"
		}
		if path.has(x) {
			return "[...]"
		}
		defer path.acquire(x)()
		items := make([]string, len(x.Items))
		for i, item := range x.Items {
			items[i] = plain(item, path)
		}
		return "[" + strings.Join(items, ", ") + "]"
	case *Mapping:
		if x == nil {
			return "nil"
		}
		if path.has(x) {
			return "{...}"
		}
		defer path.acquire(x)()
		pairs := make([]string, len(x.Entries))
		for i, e := range x.Entries {
			pairs[i] = plain(e.Key, path) + " => " + plain(e.Val, path)
		}
		return "{" + strings.Join(pairs, ", ") + "}"
	default:
		return render(v, path)
	}
}

// inspectScalar renders a leaf. A representation that panics yields "".
func inspectScalar(v any) (out string) {
	defer func() {
		if recover() != nil {
			out = ""
		}
	}()
	switch x := v.(type) {
	case nil:
		return "nil"
	case Scalar:
		return inspectScalar(x.V)
	case Inspector:
		return x.Inspect()
	case string:
		return strconv.Quote(x)
	case error:
		return fmt.Sprintf("#<%T: %s>", x, x.Error())
	case fmt.Stringer:
		return x.String()
	}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Func {
		return inspectFunc(rv)
	}
	return fmt.Sprint(v)
}

// inspectFunc shows where a function is defined.
func inspectFunc(rv reflect.Value) string {
	if rv.IsNil() {
		return "func@source_unknown"
	}
	fn := runtime.FuncForPC(rv.Pointer())
	if fn == nil {
		return "func@source_unknown"
	}
	file, line := fn.FileLine(fn.Entry())
	return "func@" + file + ":" + strconv.Itoa(line)
}
