package query

import (
	"encoding/json"
	"strings"
)

// ResourceName is one "/"-separated segment of a Key. The names "." and
// ".." carry current/parent semantics, exactly like filesystem path
// segments; every other name is an opaque label.
type ResourceName struct {
	Name     string
	Position Position
}

func (n ResourceName) String() string { return n.Name }

// IsCurrent reports whether this name is the "." self-reference.
func (n ResourceName) IsCurrent() bool { return n.Name == "." }

// IsParent reports whether this name is the ".." parent-reference.
func (n ResourceName) IsParent() bool { return n.Name == ".." }

// Key is an ordered sequence of ResourceNames, the "a/b/c" addressing
// scheme used by byte stores, recipes and resource-segment queries.
type Key struct {
	Names []ResourceName
}

// NewKey builds a Key from plain strings, useful in tests and for
// programmatic construction.
func NewKey(names ...string) Key {
	k := Key{Names: make([]ResourceName, len(names))}
	for i, n := range names {
		k.Names[i] = ResourceName{Name: n}
	}
	return k
}

// Empty reports whether the key has no elements (the root).
func (k Key) Empty() bool { return len(k.Names) == 0 }

// Encode renders the key as its canonical "/"-joined, entity-escaped form.
func (k Key) Encode() string {
	parts := make([]string, len(k.Names))
	for i, n := range k.Names {
		parts[i] = EncodeToken(n.Name)
	}
	return strings.Join(parts, "/")
}

func (k Key) String() string { return k.Encode() }

// MarshalJSON renders the key as its encoded "/"-joined form.
func (k Key) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.Encode())
}

// UnmarshalJSON parses the encoded "/"-joined form back into a Key.
func (k *Key) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseKey(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Parent returns the key with its last element removed. Parent of the
// empty key is the empty key.
func (k Key) Parent() Key {
	if len(k.Names) == 0 {
		return k
	}
	return Key{Names: append([]ResourceName{}, k.Names[:len(k.Names)-1]...)}
}

// Last returns the final element's name, or "" if the key is empty.
func (k Key) Last() string {
	if len(k.Names) == 0 {
		return ""
	}
	return k.Names[len(k.Names)-1].Name
}

// Join appends another key's elements, returning a new Key.
func (k Key) Join(other Key) Key {
	names := make([]ResourceName, 0, len(k.Names)+len(other.Names))
	names = append(names, k.Names...)
	names = append(names, other.Names...)
	return Key{Names: names}
}

// JoinName appends a single literal name.
func (k Key) JoinName(name string) Key {
	return k.Join(NewKey(name))
}

// HasKeyPrefix reports whether prefix is a prefix of k, element-wise.
func (k Key) HasKeyPrefix(prefix Key) bool {
	if len(prefix.Names) > len(k.Names) {
		return false
	}
	for i, n := range prefix.Names {
		if k.Names[i].Name != n.Name {
			return false
		}
	}
	return true
}

// Equal compares two keys element-wise.
func (k Key) Equal(other Key) bool {
	if len(k.Names) != len(other.Names) {
		return false
	}
	for i := range k.Names {
		if k.Names[i].Name != other.Names[i].Name {
			return false
		}
	}
	return true
}

// Absolute interprets "." and ".." relative to an absolute cwd:
//   - "." consumes the current cwd once, then subsequent elements
//     operate on the accumulated result rather than the original cwd;
//   - ".." pops one element off the accumulated result, bounded at empty;
//   - any other element is appended verbatim.
//
// cwd is trusted as already absolute; it is not itself validated.
func (k Key) Absolute(cwd Key) Key {
	var result []ResourceName
	usedCwd := false

	for _, n := range k.Names {
		switch {
		case n.IsCurrent():
			if !usedCwd {
				result = append(result, cwd.Names...)
				usedCwd = true
			}
			// A "." after the first has no further effect: the cwd was
			// already folded into the accumulator.
		case n.IsParent():
			if len(result) > 0 {
				result = result[:len(result)-1]
			}
		default:
			result = append(result, n)
		}
	}

	return Key{Names: result}
}

// ParseKey parses the "/"-joined encoded form of a Key.
func ParseKey(s string) (Key, error) {
	if s == "" {
		return Key{}, nil
	}
	parts := strings.Split(s, "/")
	names := make([]ResourceName, len(parts))
	for i, p := range parts {
		decoded, err := DecodeToken(p)
		if err != nil {
			return Key{}, &Error{Kind: ErrKeyParse, Message: err.Error(), Source: s}
		}
		names[i] = ResourceName{Name: decoded}
	}
	return Key{Names: names}, nil
}
