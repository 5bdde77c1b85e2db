// Package simple provides the reference Value/Factory implementation: a
// tagged struct over Go's JSON primitives plus raw bytes. JSON
// conversion round-trips for every primitive variant.
package simple

import (
	"encoding/json"
	"fmt"

	"github.com/liquers-go/liquers/pkg/value"
)

type kind int

const (
	kindNone kind = iota
	kindString
	kindI64
	kindF64
	kindBool
	kindBytes
	kindJSON
)

// Value is the reference capability implementation.
type Value struct {
	kind  kind
	str   string
	i64   int64
	f64   float64
	b     bool
	bytes []byte
	json  any
}

var _ value.Value = Value{}

func None() Value { return Value{kind: kindNone} }
func FromString(s string) Value { return Value{kind: kindString, str: s} }
func FromI64(n int64) Value { return Value{kind: kindI64, i64: n} }
func FromF64(f float64) Value { return Value{kind: kindF64, f64: f} }
func FromBool(b bool) Value { return Value{kind: kindBool, b: b} }
func FromBytes(b []byte) Value { return Value{kind: kindBytes, bytes: append([]byte{}, b...)} }
func FromJSON(v any) (Value, error) {
	// Round-trip through json to normalise the representation (numbers
	// become float64, etc.), matching encoding/json's own decode shape.
	data, err := json.Marshal(v)
	if err != nil {
		return Value{}, err
	}
	var normalised any
	if err := json.Unmarshal(data, &normalised); err != nil {
		return Value{}, err
	}
	return Value{kind: kindJSON, json: normalised}, nil
}

func (v Value) Identifier() string {
	switch v.kind {
	case kindNone:
		return "none"
	case kindString:
		return "string"
	case kindI64:
		return "i64"
	case kindF64:
		return "f64"
	case kindBool:
		return "bool"
	case kindBytes:
		return "bytes"
	case kindJSON:
		return "json"
	}
	return "unknown"
}

func (v Value) TypeName() string {
	switch v.kind {
	case kindNone:
		return "None"
	case kindString:
		return "String"
	case kindI64:
		return "Integer"
	case kindF64:
		return "Float"
	case kindBool:
		return "Boolean"
	case kindBytes:
		return "Bytes"
	case kindJSON:
		return "JSON"
	}
	return "Unknown"
}

func (v Value) IsNone() bool { return v.kind == kindNone }

func (v Value) DefaultMediaType() string {
	switch v.kind {
	case kindString:
		return "text/plain"
	case kindBytes:
		return "application/octet-stream"
	case kindJSON:
		return "application/json"
	default:
		return "application/json"
	}
}

func (v Value) DefaultExtension() string {
	switch v.kind {
	case kindString:
		return "txt"
	case kindBytes:
		return "bin"
	default:
		return "json"
	}
}

func (v Value) DefaultFilename() string {
	return "data." + v.DefaultExtension()
}

func (v Value) AsBytes(format value.Format) ([]byte, error) {
	switch format {
	case value.FormatRaw:
		switch v.kind {
		case kindBytes:
			return v.bytes, nil
		case kindString:
			return []byte(v.str), nil
		}
		return nil, value.ErrNotSupported{Message: fmt.Sprintf("raw encoding of %s", v.TypeName())}
	case value.FormatJSON, "":
		j, err := v.TryIntoJSON()
		if err != nil {
			return nil, err
		}
		return json.Marshal(j)
	}
	return nil, value.ErrNotSupported{Message: "unknown format " + string(format)}
}

func (v Value) TryIntoString() (string, error) {
	switch v.kind {
	case kindString:
		return v.str, nil
	case kindBytes:
		return string(v.bytes), nil
	}
	return "", value.ErrNotSupported{Message: "cannot convert " + v.TypeName() + " to string"}
}

func (v Value) TryIntoI64() (int64, error) {
	switch v.kind {
	case kindI64:
		return v.i64, nil
	case kindF64:
		return int64(v.f64), nil
	}
	return 0, value.ErrNotSupported{Message: "cannot convert " + v.TypeName() + " to i64"}
}

func (v Value) TryIntoF64() (float64, error) {
	switch v.kind {
	case kindF64:
		return v.f64, nil
	case kindI64:
		return float64(v.i64), nil
	}
	return 0, value.ErrNotSupported{Message: "cannot convert " + v.TypeName() + " to f64"}
}

func (v Value) TryIntoBool() (bool, error) {
	if v.kind == kindBool {
		return v.b, nil
	}
	return false, value.ErrNotSupported{Message: "cannot convert " + v.TypeName() + " to bool"}
}

func (v Value) TryIntoJSON() (any, error) {
	switch v.kind {
	case kindNone:
		return nil, nil
	case kindString:
		return v.str, nil
	case kindI64:
		return v.i64, nil
	case kindF64:
		return v.f64, nil
	case kindBool:
		return v.b, nil
	case kindJSON:
		return v.json, nil
	case kindBytes:
		return nil, value.ErrNotSupported{Message: "bytes has no JSON projection"}
	}
	return nil, value.ErrNotSupported{Message: "unknown kind"}
}

// Factory is the simple.Value-backed value.Factory implementation.
type Factory struct{}

var _ value.Factory = Factory{}

func (Factory) None() value.Value { return None() }
func (Factory) FromString(s string) value.Value { return FromString(s) }
func (Factory) FromI64(n int64) value.Value { return FromI64(n) }
func (Factory) FromF64(f float64) value.Value { return FromF64(f) }
func (Factory) FromBool(b bool) value.Value { return FromBool(b) }
func (Factory) FromBytes(b []byte) value.Value { return FromBytes(b) }
func (Factory) FromJSON(v any) (value.Value, error) {
	sv, err := FromJSON(v)
	if err != nil {
		return nil, err
	}
	return sv, nil
}

func (Factory) DeserializeFromBytes(data []byte, typeIdentifier string, format value.Format) (value.Value, error) {
	switch typeIdentifier {
	case "none":
		return None(), nil
	case "string":
		if format == value.FormatJSON {
			var s string
			if err := json.Unmarshal(data, &s); err != nil {
				return nil, err
			}
			return FromString(s), nil
		}
		return FromString(string(data)), nil
	case "bytes":
		return FromBytes(data), nil
	case "i64":
		var n int64
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, err
		}
		return FromI64(n), nil
	case "f64":
		var f float64
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, err
		}
		return FromF64(f), nil
	case "bool":
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return nil, err
		}
		return FromBool(b), nil
	case "json":
		var decoded any
		if err := json.Unmarshal(data, &decoded); err != nil {
			return nil, err
		}
		sv, err := FromJSON(decoded)
		if err != nil {
			return nil, err
		}
		return sv, nil
	}
	return nil, value.ErrNotSupported{Message: "unknown type identifier " + typeIdentifier}
}
