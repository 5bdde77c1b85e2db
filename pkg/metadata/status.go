// Package metadata implements the asset metadata model: the
// Record/Legacy union, the append-only evaluation log, and the asset
// status state machine.
package metadata

import "fmt"

// Status is the lifecycle state of an asset.
type Status string

const (
	StatusNone                   Status = "none"
	StatusSubmitted              Status = "submitted"
	StatusEvaluatingParent       Status = "evaluating_parent"
	StatusEvaluation             Status = "evaluation"
	StatusEvaluatingDependencies Status = "evaluating_dependencies"
	StatusError                  Status = "error"
	StatusRecipe                 Status = "recipe"
	StatusReady                  Status = "ready"
	StatusExpired                Status = "expired"
	StatusExternal               Status = "external"
	StatusSideEffect             Status = "side_effect"
)

// Terminal reports whether the status is one of the machine's terminal
// states: Ready, Error, Expired, External, SideEffect.
func (s Status) Terminal() bool {
	switch s {
	case StatusReady, StatusError, StatusExpired, StatusExternal, StatusSideEffect:
		return true
	}
	return false
}

// validTransitions enumerates every edge of the status machine. It is
// built once and treated as read-only thereafter.
var validTransitions = map[Status]map[Status]bool{
	StatusNone: set(StatusSubmitted, StatusExternal, StatusSideEffect),
	StatusSubmitted: set(
		StatusEvaluatingParent,
	),
	StatusEvaluatingParent: set(
		StatusEvaluatingDependencies,
		StatusError,
	),
	StatusEvaluatingDependencies: set(
		StatusEvaluation,
		StatusError,
		StatusRecipe,
	),
	StatusEvaluation: set(
		StatusReady,
		StatusError,
	),
	StatusRecipe: set(
		StatusReady,
		StatusError,
	),
	StatusReady:      set(StatusExpired),
	StatusExpired:    set(StatusSubmitted),
	StatusError:      {},
	StatusExternal:   {},
	StatusSideEffect: {},
}

func set(statuses ...Status) map[Status]bool {
	m := make(map[Status]bool, len(statuses))
	for _, s := range statuses {
		m[s] = true
	}
	return m
}

// CanTransition reports whether moving from 'from' to 'to' is a legal edge
// of the state machine.
func CanTransition(from, to Status) bool {
	edges, ok := validTransitions[from]
	if !ok {
		return false
	}
	return edges[to]
}

// ErrIllegalTransition is returned by an asset's status setter when asked
// to perform a transition the machine does not permit.
type ErrIllegalTransition struct {
	From, To Status
}

func (e ErrIllegalTransition) Error() string {
	return fmt.Sprintf("illegal status transition: %s -> %s", e.From, e.To)
}
