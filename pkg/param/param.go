// Package param defines resolved parameter values: the closed set of
// ways a plan's Action step can carry an argument value, after the plan
// builder has resolved it against a command's formal ArgumentInfo.
//
// It is split out from pkg/plan and pkg/command so that both can depend on
// it without depending on each other: the command registry's executors are
// called with a []param.Value, and the plan builder produces that same
// slice, but neither package needs the other's exported types.
package param

import "github.com/liquers-go/liquers/pkg/query"

// Value is the closed sum type of a resolved parameter. Exactly one of
// the concrete variant types below is stored in a Value slot; the marker
// method keeps external packages from defining their own variants.
type Value interface {
	isParameterValue()
}

// DefaultValue is an argument that fell back to its ArgumentInfo.Default.
type DefaultValue struct {
	Name string
	JSON any
}

func (DefaultValue) isParameterValue() {}

// Literal is an argument supplied as query text and already coerced to
// its formal type, carrying the source position for error annotation.
type Literal struct {
	Name     string
	JSON     any
	Position query.Position
}

func (Literal) isParameterValue() {}

// OverrideValue is an argument supplied by a Recipe override.
type OverrideValue struct {
	Name string
	JSON any
}

func (OverrideValue) isParameterValue() {}

// Link is an argument whose value is the result of evaluating an embedded
// Query; the interpreter resolves it before the command is invoked.
type Link struct {
	Name  string
	Query query.Query
}

func (Link) isParameterValue() {}

// MultipleParameters flattens to a slice at call time; it is produced
// when a query supplies no explicit value and the formal argument is
// declared `multiple`.
type MultipleParameters struct {
	Name   string
	Values []Value
}

func (MultipleParameters) isParameterValue() {}

// Injected marks an argument the interpreter must bind from context/
// payload at the call site, never from the query text.
type Injected struct {
	Name string
}

func (Injected) isParameterValue() {}

// Placeholder marks an argument left unresolved by a placeholders-allowed
// build (used by Recipe.ToPlan before overrides are applied); it must not
// survive into execution unless explicitly allowed.
type Placeholder struct {
	Name string
}

func (Placeholder) isParameterValue() {}

// None is the explicit absence of a value.
type None struct{}

func (None) isParameterValue() {}

// NameOf returns the argument name carried by any Value variant.
func NameOf(v Value) string {
	switch t := v.(type) {
	case DefaultValue:
		return t.Name
	case Literal:
		return t.Name
	case OverrideValue:
		return t.Name
	case Link:
		return t.Name
	case MultipleParameters:
		return t.Name
	case Injected:
		return t.Name
	case Placeholder:
		return t.Name
	}
	return ""
}

// IsPlaceholder reports whether v is a Placeholder, used by the
// placeholders-allowed/disallowed validation the plan builder performs.
func IsPlaceholder(v Value) bool {
	_, ok := v.(Placeholder)
	return ok
}

// IsLink reports whether v is a Link, used by the interpreter to find
// parameters it must resolve via the asset manager before dispatch.
func IsLink(v Value) (query.Query, bool) {
	l, ok := v.(Link)
	if !ok {
		return query.Query{}, false
	}
	return l.Query, true
}
