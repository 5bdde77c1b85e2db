// Package interp implements the interpreter: walking a Plan step by
// step, resolving link parameters via recursive asset lookups, and
// publishing status transitions along the way.
package interp

import (
	"code.cloudfoundry.org/lager/v3"

	"github.com/liquers-go/liquers/pkg/asset"
	"github.com/liquers-go/liquers/pkg/command"
	"github.com/liquers-go/liquers/pkg/logging"
	"github.com/liquers-go/liquers/pkg/metadata"
	"github.com/liquers-go/liquers/pkg/store"
	"github.com/liquers-go/liquers/pkg/value"
)

// Env bundles the shared, effectively-read-only resources every
// evaluation draws on: the command registry, the byte store, the value
// factory, and the asset store that memoises in-flight and finished
// computations.
type Env struct {
	Registry *command.Registry
	Store    store.ByteStore
	Factory  value.Factory
	Assets   *asset.Store

	// Logger receives a process-diagnostics session around each action
	// dispatch. Nil uses a sink-less discard logger.
	Logger lager.Logger
}

func (e *Env) logger() lager.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return logging.Discard()
}

// State is the result of one evaluation: the produced value and its
// accompanying metadata record.
type State struct {
	Data     value.Value
	Metadata *metadata.Record
}
