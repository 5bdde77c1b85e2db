// Package value defines the Value capability set: an opaque payload type
// with conversions to/from bytes, JSON, and a few primitive projections,
// kept as an interface rather than an enum so that domain packages
// (images, data-frames, ...) can add variants without touching this
// module.
package value

// Format names a serialisation format understood by AsBytes/FromBytes.
type Format string

const (
	FormatRaw  Format = "raw"
	FormatJSON Format = "json"
)

// ErrNotSupported is returned by a Value implementation asked to perform a
// conversion its domain does not support.
type ErrNotSupported struct {
	Message string
}

func (e ErrNotSupported) Error() string {
	if e.Message == "" {
		return "operation not supported by this value"
	}
	return "not supported: " + e.Message
}

// Value is the capability set every command argument/result must satisfy.
type Value interface {
	// Identifier is a short, stable tag identifying the concrete type
	// (e.g. "string", "i64", "bytes", "none").
	Identifier() string

	// TypeName is a longer, human-facing type name.
	TypeName() string

	// IsNone reports whether this is the "no value" sentinel.
	IsNone() bool

	// DefaultMediaType, DefaultExtension and DefaultFilename give the
	// value's preferred on-disk representation.
	DefaultMediaType() string
	DefaultExtension() string
	DefaultFilename() string

	// AsBytes serialises the value in the given format.
	AsBytes(format Format) ([]byte, error)

	// TryIntoString, TryIntoI64, TryIntoF64, TryIntoBool project the value
	// onto a primitive Go type, or return ErrNotSupported.
	TryIntoString() (string, error)
	TryIntoI64() (int64, error)
	TryIntoF64() (float64, error)
	TryIntoBool() (bool, error)
	TryIntoJSON() (any, error)
}

// Factory constructs Values from primitives and from serialised bytes. A
// concrete implementation (e.g. pkg/value/simple) registers itself as the
// Factory commands and the interpreter use when they need to build a
// Value from scratch rather than receive one as an argument.
type Factory interface {
	None() Value
	FromString(s string) Value
	FromI64(n int64) Value
	FromF64(f float64) Value
	FromBool(b bool) Value
	FromBytes(b []byte) Value
	FromJSON(v any) (Value, error)

	// DeserializeFromBytes reconstructs a Value of the given type
	// identifier from bytes produced by AsBytes(format).
	DeserializeFromBytes(data []byte, typeIdentifier string, format Format) (Value, error)
}
