// Package pretty renders nested values (sequences, mappings, scalars) as
// text, switching between a one-line and an indented layout by length and
// staying finite on self-referencing structures.
package pretty

// Value is a node of the structure being rendered.
type Value interface {
	value()
}

// Scalar is a leaf rendered through its own representation.
type Scalar struct {
	V any
}

// Sequence is an ordered list of values. Its identity is the pointer.
type Sequence struct {
	Items []Value
}

// Entry is one key/value pair of a Mapping.
type Entry struct {
	Key Value
	Val Value
}

// Mapping is an ordered list of key/value pairs. Its identity is the pointer.
type Mapping struct {
	Entries []Entry
}

// Reference points at another value and renders as that value. It is the
// building block for structures that contain themselves.
type Reference struct {
	Target Value
}

func (Scalar) value()     {}
func (*Sequence) value()  {}
func (*Mapping) value()   {}
func (*Reference) value() {}
func (Symbol) value()     {}

// Symbol is a bare word, rendered without quotes (struct field names, keys).
type Symbol string

// Inspect implements Inspector.
func (s Symbol) Inspect() string { return string(s) }

// Inspector is implemented by values that know how to show themselves.
type Inspector interface {
	Inspect() string
}

// Seq builds a Sequence.
func Seq(items ...Value) *Sequence { return &Sequence{Items: items} }

// Map builds a Mapping from alternating keys and values.
func Map(kv ...Value) *Mapping {
	m := &Mapping{Entries: make([]Entry, 0, len(kv)/2)}
	for i := 0; i+1 < len(kv); i += 2 {
		m.Entries = append(m.Entries, Entry{Key: kv[i], Val: kv[i+1]})
	}
	return m
}

// Of wraps a Go value as a Scalar.
func Of(v any) Scalar { return Scalar{V: v} }

// Append adds items to s and returns s.
func (s *Sequence) Append(items ...Value) *Sequence {
	s.Items = append(s.Items, items...)
	return s
}

// Set appends a key/value pair to m and returns m.
func (m *Mapping) Set(k, v Value) *Mapping {
	m.Entries = append(m.Entries, Entry{Key: k, Val: v})
	return m
}
