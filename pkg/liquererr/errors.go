// Package liquererr defines the runtime's error kind taxonomy: one
// exported type per kind, each wrapping an inner cause where relevant so
// that errors.As/errors.Is keep working end-to-end.
package liquererr

import (
	"fmt"

	"github.com/liquers-go/liquers/pkg/query"
)

// MissingArgument is raised by the plan builder when a required argument
// has no query-supplied value and no default.
type MissingArgument struct {
	Index    int
	Name     string
	Position query.Position
}

func (e *MissingArgument) Error() string {
	return fmt.Sprintf("missing argument %d (%s) at %s", e.Index, e.Name, e.Position)
}

// ExtraArguments is raised when a query supplies more parameters than a
// command declares and the last argument is not `multiple`.
type ExtraArguments struct {
	Name     string
	Position query.Position
}

func (e *ExtraArguments) Error() string {
	return fmt.Sprintf("extra arguments for %s at %s", e.Name, e.Position)
}

// ConversionError is raised when a textual query parameter cannot be
// coerced to its formal argument type.
type ConversionError struct {
	From, To string
	Message  string
	Position query.Position
}

func (e *ConversionError) Error() string {
	msg := fmt.Sprintf("cannot convert %s to %s at %s", e.From, e.To, e.Position)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// UnknownCommandExecutor is raised by the command registry's dispatch
// methods when no executor is registered for a command key.
type UnknownCommandExecutor struct {
	Realm, Namespace, Name string
	Position               query.Position
}

func (e *UnknownCommandExecutor) Error() string {
	return fmt.Sprintf("unknown command executor %s/%s/%s at %s", e.Realm, e.Namespace, e.Name, e.Position)
}

// ActionNotRegistered is a planning-time failure: no command matches the
// action name in any searched namespace.
type ActionNotRegistered struct {
	Name       string
	Namespaces []string
	Position   query.Position
}

func (e *ActionNotRegistered) Error() string {
	return fmt.Sprintf("action %q not registered in namespaces %v at %s", e.Name, e.Namespaces, e.Position)
}

// NotSupported is a capability the implementation declines to offer.
type NotSupported struct {
	Message string
}

func (e *NotSupported) Error() string { return "not supported: " + e.Message }

// Cancelled is produced when evaluation observes a cancelled context. It
// wraps context.Canceled so errors.Is(err, context.Canceled) keeps
// working for callers that only check the standard sentinel.
type Cancelled struct {
	Cause error
}

func (e *Cancelled) Error() string {
	if e.Cause != nil {
		return "cancelled: " + e.Cause.Error()
	}
	return "cancelled"
}

func (e *Cancelled) Unwrap() error { return e.Cause }

// StoreError wraps a byte-store level failure with the key and store name
// that produced it.
type StoreError struct {
	StoreName string
	Key       query.Key
	Cause     error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %q: key %q: %v", e.StoreName, e.Key, e.Cause)
}

func (e *StoreError) Unwrap() error { return e.Cause }

// QueryParseError and KeyParseError alias query.Error's two kinds so that
// callers outside pkg/query can refer to them without importing the
// parser's internal Error type directly. They are thin wrappers, not
// redeclarations, to avoid duplicating the position/source-carrying logic.
type QueryParseError struct{ *query.Error }
type KeyParseError struct{ *query.Error }

// CommandErrorAnnotator carries the (realm, namespace, name) of the
// command whose execution produced an error, plus the action's source
// position; the interpreter attaches it to every command failure.
type CommandErrorAnnotator struct {
	Realm, Namespace, Name string
	Position               query.Position
	Cause                  error
}

func (e *CommandErrorAnnotator) Error() string {
	return fmt.Sprintf("command %s/%s/%s at %s: %v", e.Realm, e.Namespace, e.Name, e.Position, e.Cause)
}

func (e *CommandErrorAnnotator) Unwrap() error { return e.Cause }

// WithCommandKey wraps err with a CommandErrorAnnotator unless err is
// already one (never double-annotates).
func WithCommandKey(err error, realm, namespace, name string, pos query.Position) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(*CommandErrorAnnotator); ok {
		return err
	}
	return &CommandErrorAnnotator{Realm: realm, Namespace: namespace, Name: name, Position: pos, Cause: err}
}
