package pretty

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
)

var (
	inspectorType = reflect.TypeFor[Inspector]()
	stringerType  = reflect.TypeFor[fmt.Stringer]()
	errorType     = reflect.TypeFor[error]()
)

// identity keys a Go container so that self references map back to the same
// node. Slices sharing a backing array but differing in length stay distinct.
type identity struct {
	ptr uintptr
	typ reflect.Type
	n   int
}

// FromGo converts an arbitrary Go value into a Value tree. Slices, maps and
// structs become sequences and mappings; pointers that lead back to a value
// already on the way are turned into shared nodes, so cycles survive and
// Inspect stays finite on them.
func FromGo(x any) Value {
	if v, ok := x.(Value); ok {
		return v
	}
	c := converter{seen: make(map[identity]Value)}
	return c.convert(reflect.ValueOf(x))
}

type converter struct {
	seen map[identity]Value
}

func (c *converter) convert(rv reflect.Value) Value {
	if !rv.IsValid() {
		return Scalar{}
	}
	if k := rv.Kind(); (k == reflect.Pointer || k == reflect.Interface) && rv.IsNil() {
		return Scalar{}
	}
	if rv.CanInterface() {
		if v, ok := rv.Interface().(Value); ok {
			return v
		}
		if representable(rv.Type()) {
			return Scalar{V: rv.Interface()}
		}
	}
	switch rv.Kind() {
	case reflect.Interface:
		return c.convert(rv.Elem())
	case reflect.Pointer:
		key := identity{ptr: rv.Pointer(), typ: rv.Type()}
		if node, ok := c.seen[key]; ok {
			return &Reference{Target: node}
		}
		if rv.Elem().Kind() == reflect.Struct {
			m := &Mapping{}
			c.seen[key] = m
			c.fillStruct(m, rv.Elem())
			return m
		}
		// Any other pointee only has a node once converted, so revisits made
		// on the way down point at a placeholder resolved afterwards.
		hold := &Reference{}
		c.seen[key] = hold
		hold.Target = c.convert(rv.Elem())
		return hold.Target
	case reflect.Struct:
		m := &Mapping{}
		c.fillStruct(m, rv)
		return m
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return Scalar{V: string(rv.Bytes())}
		}
		key := identity{ptr: rv.Pointer(), typ: rv.Type(), n: rv.Len()}
		if node, ok := c.seen[key]; ok && rv.Len() > 0 {
			return &Reference{Target: node}
		}
		s := &Sequence{Items: make([]Value, 0, rv.Len())}
		if rv.Len() > 0 {
			c.seen[key] = s
		}
		for i := range rv.Len() {
			s.Items = append(s.Items, c.convert(rv.Index(i)))
		}
		return s
	case reflect.Array:
		s := &Sequence{Items: make([]Value, 0, rv.Len())}
		for i := range rv.Len() {
			s.Items = append(s.Items, c.convert(rv.Index(i)))
		}
		return s
	case reflect.Map:
		if rv.IsNil() {
			return &Mapping{}
		}
		key := identity{ptr: rv.Pointer(), typ: rv.Type()}
		if node, ok := c.seen[key]; ok {
			return &Reference{Target: node}
		}
		m := &Mapping{Entries: make([]Entry, 0, rv.Len())}
		c.seen[key] = m
		keys := rv.MapKeys()
		slices.SortFunc(keys, func(a, b reflect.Value) int {
			return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
		})
		for _, k := range keys {
			m.Entries = append(m.Entries, Entry{Key: c.convert(k), Val: c.convert(rv.MapIndex(k))})
		}
		return m
	}
	if rv.CanInterface() {
		return Scalar{V: rv.Interface()}
	}
	return Scalar{V: rv.String()}
}

// fillStruct adds the exported fields of rv to m, keyed by field name.
func (c *converter) fillStruct(m *Mapping, rv reflect.Value) {
	t := rv.Type()
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		m.Entries = append(m.Entries, Entry{Key: Symbol(f.Name), Val: c.convert(rv.Field(i))})
	}
}

// representable reports whether values of t render themselves.
func representable(t reflect.Type) bool {
	if t.Kind() == reflect.Interface {
		return false
	}
	return t.Implements(inspectorType) || t.Implements(errorType) || t.Implements(stringerType)
}
