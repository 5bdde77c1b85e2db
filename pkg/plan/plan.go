// Package plan lowers a Query plus command metadata into an ordered
// sequence of typed Steps the interpreter can walk.
package plan

import (
	"github.com/liquers-go/liquers/pkg/param"
	"github.com/liquers-go/liquers/pkg/query"
)

// Step is the closed sum type of one plan instruction. Exactly one of
// the concrete step types below occupies a Step slot.
type Step interface {
	isStep()
}

type GetResource struct{ Key query.Key }
type GetResourceMetadata struct{ Key query.Key }
type GetResourceDirectory struct{ Key query.Key }

type GetAsset struct{ Key query.Key }
type GetAssetBinary struct{ Key query.Key }
type GetAssetMetadata struct{ Key query.Key }
type GetAssetRecipe struct{ Key query.Key }
type GetAssetDirectory struct{ Key query.Key }

type Evaluate struct{ Query query.Query }

// Action invokes a registered command by (realm, namespace, name) with
// its resolved parameter values.
type Action struct {
	Realm      string
	Namespace  string
	Name       string
	Position   query.Position
	Parameters []param.Value
}

type Filename struct{ Name query.ResourceName }

type Info struct{ Message string }
type Warning struct{ Message string }
type StepError struct{ Message string }

type SetCwd struct{ Key query.Key }
type UseKeyValue struct{ Key query.Key }

// NestedPlan embeds a fully built sub-Plan, evaluated recursively with
// its own metadata record; the sub-result and log are hoisted into the
// parent state.
type NestedPlan struct{ Plan Plan }

func (GetResource) isStep() {}
func (GetResourceMetadata) isStep() {}
func (GetResourceDirectory) isStep() {}
func (GetAsset) isStep() {}
func (GetAssetBinary) isStep() {}
func (GetAssetMetadata) isStep() {}
func (GetAssetRecipe) isStep() {}
func (GetAssetDirectory) isStep() {}
func (Evaluate) isStep() {}
func (Action) isStep() {}
func (Filename) isStep() {}
func (Info) isStep() {}
func (Warning) isStep() {}
func (StepError) isStep() {}
func (SetCwd) isStep() {}
func (UseKeyValue) isStep() {}
func (NestedPlan) isStep() {}

// Plan is an ordered list of Steps lowered from a Query.
type Plan struct {
	Query query.Query
	Steps []Step
}
