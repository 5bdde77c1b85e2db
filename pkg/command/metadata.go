// Package command implements the command registry: a lookup table from
// (realm, namespace, name) to executable commands, carrying the typed
// argument schemas the plan builder needs.
package command

import "fmt"

// Key identifies a command uniquely. The (realm, namespace) pair
// ("", "") is aliased to ("main", "root") everywhere it is looked up.
type Key struct {
	Realm     string
	Namespace string
	Name      string
}

// Normalize applies the ("", "") -> ("main", "root") alias.
func (k Key) Normalize() Key {
	if k.Realm == "" && k.Namespace == "" {
		return Key{Realm: "main", Namespace: "root", Name: k.Name}
	}
	return k
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%s/%s", k.Realm, k.Namespace, k.Name)
}

// ArgumentType enumerates the formal types an ArgumentInfo can declare.
type ArgumentType int

const (
	ArgString ArgumentType = iota
	ArgInteger
	ArgIntegerOption
	ArgFloat
	ArgFloatOption
	ArgBoolean
	ArgEnum
	ArgAny
	ArgNone
)

// EnumArgument is the alias table backing an ArgEnum argument: each key is
// a recognised (case-sensitive) alias for its value.
type EnumArgument struct {
	Name    string
	Aliases map[string]string
}

// GUIHint is a free-form rendering hint for editor/UI front ends; the core
// neither interprets nor requires it.
type GUIHint struct {
	Widget string
	Extra  map[string]string
}

// ArgumentInfo is the formal description of one command argument.
type ArgumentInfo struct {
	Name         string
	ArgumentType ArgumentType
	Enum         *EnumArgument
	Default      any
	HasDefault   bool
	Multiple     bool
	Injected     bool
	GUI          *GUIHint
}

// Metadata is the full description of a registered command.
type Metadata struct {
	Realm          string
	Namespace      string
	Name           string
	Module         string
	Doc            string
	StateArgument  *ArgumentInfo
	Arguments      []ArgumentInfo
	Cache          bool
	Volatile       bool
	Definition     string
}

// CommandKey returns this command's lookup key.
func (m Metadata) CommandKey() Key {
	return Key{Realm: m.Realm, Namespace: m.Namespace, Name: m.Name}
}
