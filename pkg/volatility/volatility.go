// Package volatility decides whether a plan's result is safe to cache
// or must always be recomputed.
package volatility

import (
	"github.com/liquers-go/liquers/pkg/command"
	"github.com/liquers-go/liquers/pkg/param"
	"github.com/liquers-go/liquers/pkg/plan"
)

// IsVolatile reports true if any action in p is marked volatile in the
// registry, any of its link parameters resolves to a volatile plan, or
// any step reads an intrinsically volatile resource -- a resource or
// asset directory listing, which can change between reads with no
// corresponding change to any input the cache key captures.
func IsVolatile(p plan.Plan, cmr *command.Registry) bool {
	builder := plan.NewBuilder()
	return isVolatile(p, cmr, builder)
}

func isVolatile(p plan.Plan, cmr *command.Registry, builder *plan.Builder) bool {
	for _, step := range p.Steps {
		switch s := step.(type) {
		case plan.GetResourceDirectory, plan.GetAssetDirectory:
			return true

		case plan.NestedPlan:
			if isVolatile(s.Plan, cmr, builder) {
				return true
			}

		case plan.Action:
			meta, ok := cmr.FindCommand(s.Realm, s.Namespace, s.Name)
			if ok && meta.Volatile {
				return true
			}
			for _, v := range s.Parameters {
				if linkVolatile(v, cmr, builder) {
					return true
				}
			}
		}
	}
	return false
}

func linkVolatile(v param.Value, cmr *command.Registry, builder *plan.Builder) bool {
	if q, ok := param.IsLink(v); ok {
		linkPlan, err := builder.Build(q, cmr, plan.BuildOptions{})
		return err == nil && isVolatile(linkPlan, cmr, builder)
	}
	if mp, ok := v.(param.MultipleParameters); ok {
		for _, inner := range mp.Values {
			if linkVolatile(inner, cmr, builder) {
				return true
			}
		}
	}
	return false
}
