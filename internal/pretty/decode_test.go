package pretty

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/vmihailenco/msgpack/v5"
)

func TestDecodeJSON(t *testing.T) {
	v, err := DecodeJSON(strings.NewReader(`{"b": [1, 2.5, "x"], "a": null}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := `{"a" => nil, "b" => [1, 2.5, "x"]}`
	if got := Inspect(v); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	if _, err := DecodeJSON(strings.NewReader(`{`)); err == nil {
		t.Fatalf("expected error on truncated input")
	}
}

func TestDecodeTOML(t *testing.T) {
	v, err := DecodeTOML(strings.NewReader("name = \"x\"\nports = [1, 2]\n"))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := `{"name"  => "x", "ports" => [1, 2]}`
	if got := Inspect(v); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	if _, err := DecodeTOML(strings.NewReader("name = ")); err == nil {
		t.Fatalf("expected error on invalid toml")
	}
}

func TestDecodeMsgpack(t *testing.T) {
	data, err := msgpack.Marshal(map[string]any{"n": uint64(7), "big": uint64(math.MaxUint64)})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	v, err := DecodeMsgpack(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := `{"big" => 18446744073709551615, "n"   => 7}`
	if got := Inspect(v); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	if _, err := DecodeMsgpack(bytes.NewReader(nil)); err == nil {
		t.Fatalf("expected error on empty input")
	}
}

func TestDecodeYAML(t *testing.T) {
	src := "name: x\nports: [1, 2]\n"
	v, err := DecodeYAML(strings.NewReader(src))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := `{"name"  => "x", "ports" => [1, 2]}`
	if got := Inspect(v); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	v, err = DecodeYAML(strings.NewReader("on: true\n"))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := Inspect(v); got != `{"on" => true}` {
		t.Fatalf("expected YAML 1.2 booleans only, got %q", got)
	}
	if _, err := DecodeYAML(strings.NewReader("")); err == nil {
		t.Fatalf("expected error on empty input")
	}
	if _, err := DecodeYAML(strings.NewReader("a: [1, 2")); err == nil {
		t.Fatalf("expected error on unterminated flow sequence")
	}
}

func TestParseFormat(t *testing.T) {
	for _, name := range []string{"json", "toml", "msgpack", "yaml"} {
		if _, err := ParseFormat(name); err != nil {
			t.Fatalf("ParseFormat(%q): %v", name, err)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Fatalf("expected error for xml")
	}
}
