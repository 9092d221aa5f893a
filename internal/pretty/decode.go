package pretty

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"fortio.org/safecast"
	"github.com/BurntSushi/toml"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// Format names an input encoding accepted by Decode.
type Format string

const (
	FormatJSON    Format = "json"
	FormatTOML    Format = "toml"
	FormatMsgpack Format = "msgpack"
	FormatYAML    Format = "yaml"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatJSON, FormatTOML, FormatMsgpack, FormatYAML:
		return f, nil
	}
	return "", fmt.Errorf("unknown input format %q (expected json|toml|msgpack|yaml)", s)
}

// Decode reads one document in the given format.
func Decode(r io.Reader, f Format) (Value, error) {
	switch f {
	case FormatJSON:
		return DecodeJSON(r)
	case FormatTOML:
		return DecodeTOML(r)
	case FormatMsgpack:
		return DecodeMsgpack(r)
	case FormatYAML:
		return DecodeYAML(r)
	}
	return nil, fmt.Errorf("unknown input format %q", f)
}

// DecodeJSON reads a JSON document. Numbers keep their literal spelling.
func DecodeJSON(r io.Reader) (Value, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	return FromGo(v), nil
}

// DecodeTOML reads a TOML document.
func DecodeTOML(r io.Reader) (Value, error) {
	var v map[string]any
	if _, err := toml.NewDecoder(r).Decode(&v); err != nil {
		return nil, fmt.Errorf("decode toml: %w", err)
	}
	return FromGo(v), nil
}

// DecodeMsgpack reads one msgpack value.
func DecodeMsgpack(r io.Reader) (Value, error) {
	dec := msgpack.NewDecoder(r)
	v, err := dec.DecodeInterface()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode msgpack: empty input")
		}
		return nil, fmt.Errorf("decode msgpack: %w", err)
	}
	return FromGo(normalizeInts(v)), nil
}

// DecodeYAML reads the first document of a YAML stream.
func DecodeYAML(r io.Reader) (Value, error) {
	var v any
	if err := yaml.NewDecoder(r).Decode(&v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode yaml: empty input")
		}
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	return FromGo(normalizeInts(v)), nil
}

// normalizeInts widens the sized integers msgpack produces to int64 where
// they fit, so equal numbers render the same regardless of wire width.
// YAML's plain int is widened the same way.
func normalizeInts(v any) any {
	switch x := v.(type) {
	case int:
		return int64(x)
	case int8:
		return int64(x)
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case uint8:
		return int64(x)
	case uint16:
		return int64(x)
	case uint32:
		return int64(x)
	case uint64:
		if n, err := safecast.Conv[int64](x); err == nil {
			return n
		}
		return x
	case []any:
		for i := range x {
			x[i] = normalizeInts(x[i])
		}
		return x
	case map[string]any:
		for k := range x {
			x[k] = normalizeInts(x[k])
		}
		return x
	case map[any]any:
		for k := range x {
			x[k] = normalizeInts(x[k])
		}
		return x
	}
	return v
}
