package pretty

import (
	"errors"
	"strings"
	"testing"
)

type panicky struct{}

func (panicky) String() string { panic("boom") }

func sampleFunc() {}

func TestInspectLayout(t *testing.T) {
	long := func(c string, n int) Value { return Of(strings.Repeat(c, n)) }
	tests := []struct {
		name string
		in   Value
		want string
	}{
		{"empty sequence", Seq(), "[]"},
		{"empty mapping", Map(), "{}"},
		{"short sequence", Seq(Of(1), Of("a"), Of(nil)), `[1, "a", nil]`},
		{"single long element", Seq(long("x", 60)), `["` + strings.Repeat("x", 60) + `"]`},
		{"below threshold", Seq(long("a", 22), long("b", 22)),
			`["` + strings.Repeat("a", 22) + `", "` + strings.Repeat("b", 22) + `"]`},
		{"at threshold", Seq(long("a", 23), long("b", 23)),
			"[\n  \"" + strings.Repeat("a", 23) + "\",\n  \"" + strings.Repeat("b", 23) + "\"\n]"},
		{"padded keys", Map(Of("a"), Of(1), Of("bbb"), Of(2)), `{"a"   => 1, "bbb" => 2}`},
		{"key cap", Map(long("k", 40), Of(1), Of("a"), Of(2)),
			"{\n  \"" + strings.Repeat("k", 40) + "\" => 1,\n  \"a\"" + strings.Repeat(" ", 27) + " => 2\n}"},
		{"nested", Seq(Seq(Of(1)), Map(Symbol("k"), Of(true))), `[[1], {k => true}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Inspect(tt.in); got != tt.want {
				t.Fatalf("expected:\n%s\ngot:\n%s", tt.want, got)
			}
		})
	}
}

func TestInspectCycles(t *testing.T) {
	self := Seq(Of(1))
	self.Append(self)
	if got := Inspect(self); got != "[1, [...]]" {
		t.Fatalf("expected [1, [...]], got %q", got)
	}

	m := Map(Of("self"), nil)
	m.Entries[0].Val = m
	if got := Inspect(m); got != `{"self" => {...}}` {
		t.Fatalf("expected self mapping placeholder, got %q", got)
	}

	viaRef := &Sequence{}
	viaRef.Append(Of(1), &Reference{Target: viaRef})
	if got := Inspect(viaRef); got != "[1, [...]]" {
		t.Fatalf("expected placeholder through reference, got %q", got)
	}

	outer := Seq(Of("x"), self)
	if got := Inspect(outer); got != `["x", [1, [...]]]` {
		t.Fatalf("expected plain form around cyclic child, got %q", got)
	}

	// Mutual recursion between a sequence and a mapping.
	a := Seq()
	b := Map(Symbol("back"), a)
	a.Append(b)
	if got := Inspect(a); got != "[{back => [...]}]" {
		t.Fatalf("expected mutual placeholder, got %q", got)
	}
}

func TestInspectSharedIsNotCycle(t *testing.T) {
	shared := Seq(Of(1))
	if got := Inspect(Seq(shared, shared)); got != "[[1], [1]]" {
		t.Fatalf("expected shared child rendered twice, got %q", got)
	}
	// Rendering must leave no state behind.
	if got := Inspect(shared); got != "[1]" {
		t.Fatalf("expected [1], got %q", got)
	}
}

func TestInspectScalars(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, "nil"},
		{"string", "a\"b", `"a\"b"`},
		{"symbol", Symbol("name"), "name"},
		{"int", 42, "42"},
		{"bool", false, "false"},
		{"error", errors.New("boom"), "#<*errors.errorString: boom>"},
		{"panicking stringer", panicky{}, ""},
		{"nil func", (func())(nil), "func@source_unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Inspect(Of(tt.in)); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}

	got := Inspect(Of(sampleFunc))
	if !strings.HasPrefix(got, "func@") || !strings.Contains(got, "inspect_test.go:") {
		t.Fatalf("expected func@<file>:<line>, got %q", got)
	}
}

func TestInspectNilValue(t *testing.T) {
	if got := Inspect(nil); got != "nil" {
		t.Fatalf("expected nil, got %q", got)
	}
	if got := Inspect(Seq(nil, (*Sequence)(nil))); got != "[nil, nil]" {
		t.Fatalf("expected [nil, nil], got %q", got)
	}
}

func TestSymbolIsBareValue(t *testing.T) {
	var v Value = Symbol("name")
	if got := Inspect(Map(v, Of("x"), Of("name"), Of("y"))); got != `{name   => "x", "name" => "y"}` {
		t.Fatalf("expected the symbol key unquoted, got %q", got)
	}
}
