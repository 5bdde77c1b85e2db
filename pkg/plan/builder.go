package plan

import (
	"github.com/liquers-go/liquers/pkg/command"
	"github.com/liquers-go/liquers/pkg/liquererr"
	"github.com/liquers-go/liquers/pkg/param"
	"github.com/liquers-go/liquers/pkg/query"
)

// BuildOptions controls two variations on the otherwise-fixed build
// algorithm: AllowPlaceholders lets Build leave an argument
// unresolved as param.Placeholder instead of raising MissingArgument
// (used by Recipe.ToPlan, which applies overrides afterwards);
// ExpandPredecessors is accepted but Build does not consult it: every
// predecessor segment's steps are always emitted, and a bare resource
// read is never folded into the following action.
type BuildOptions struct {
	AllowPlaceholders  bool
	ExpandPredecessors bool
}

// Builder lowers a Query into a Plan against a command.Registry. It
// holds no state of its own; a zero Builder is ready to use.
type Builder struct{}

// NewBuilder returns a ready-to-use Builder.
func NewBuilder() *Builder { return &Builder{} }

// Build lowers q into a Plan: predecessor recursion left to right, one
// Step (or none) emitted per remainder segment, arguments of every
// Action step resolved against the registry's ArgumentInfo.
func (b *Builder) Build(q query.Query, cmr *command.Registry, opts BuildOptions) (Plan, error) {
	namespaces := query.ParseNamespaces(q)
	steps, err := b.buildSteps(q, cmr, opts, namespaces)
	if err != nil {
		return Plan{}, err
	}
	return Plan{Query: q, Steps: steps}, nil
}

func (b *Builder) buildSteps(q query.Query, cmr *command.Registry, opts BuildOptions, namespaces []string) ([]Step, error) {
	if q.Empty() || q.IsNamespaceOnly() {
		return nil, nil
	}

	pred, tail := q.Predecessor()

	var steps []Step
	if !pred.Empty() && !pred.IsNamespaceOnly() {
		predSteps, err := b.buildSteps(pred, cmr, opts, namespaces)
		if err != nil {
			return nil, err
		}
		steps = append(steps, predSteps...)
	}

	tailSteps, err := b.remainderSteps(tail.Segments[0], cmr, opts, namespaces)
	if err != nil {
		return nil, err
	}
	return append(steps, tailSteps...), nil
}

// remainderSteps lowers a single split-off QuerySegment -- the exact
// right-hand piece Query.Predecessor() peels off -- into zero or one
// Steps.
func (b *Builder) remainderSteps(seg query.QuerySegment, cmr *command.Registry, opts BuildOptions, namespaces []string) ([]Step, error) {
	if seg.Resource != nil {
		step := b.resourceStep(*seg.Resource)
		return []Step{step}, nil
	}

	t := *seg.Transform

	if t.Filename != nil {
		return []Step{Filename{Name: *t.Filename}}, nil
	}

	if len(t.Actions) == 1 {
		// An "ns" declaration names no command; it already contributed
		// its parameters to the namespace search list and emits nothing.
		if t.Actions[0].IsNs() {
			return nil, nil
		}
		step, err := b.resolveAction(t.Actions[0], cmr, opts, namespaces)
		if err != nil {
			return nil, err
		}
		return []Step{step}, nil
	}

	// A header-only segment with no actions or filename carries only a
	// control directive by header name -- "cwd" and "key" are the two
	// this builder recognises; any other (or no) header name is a no-op
	// placeholder, matching how a bare "ns" header contributes nothing
	// to the step list itself.
	if t.Header != nil {
		switch t.Header.Name {
		case "cwd":
			k, err := headerKey(*t.Header)
			if err != nil {
				return nil, err
			}
			return []Step{SetCwd{Key: k}}, nil
		case "key":
			k, err := headerKey(*t.Header)
			if err != nil {
				return nil, err
			}
			return []Step{UseKeyValue{Key: k}}, nil
		}
	}
	return nil, nil
}

func headerKey(h query.SegmentHeader) (query.Key, error) {
	if len(h.Parameters) == 0 {
		return query.Key{}, nil
	}
	p := h.Parameters[0]
	if p.IsLink() {
		return query.Key{}, &liquererr.ConversionError{From: "<link>", To: "key", Message: "a key-valued header cannot take a link parameter", Position: h.Position}
	}
	return query.ParseKey(p.StringValue())
}

// resourceStep maps a resource segment's header name to the Step that
// reads the corresponding view of the stored bytes (the "-R-meta" /
// "-R-dir" variants), or to the matching computed-asset view when the
// header names an asset projection instead.
func (b *Builder) resourceStep(seg query.ResourceQuerySegment) Step {
	name := ""
	if seg.Header != nil {
		name = seg.Header.Name
		// "-R-meta" carries the view as the header's first parameter
		// (empty name slot); "-Rmeta" carries it as the name itself.
		if name == "" && len(seg.Header.Parameters) > 0 {
			name = seg.Header.Parameters[0].StringValue()
		}
	}
	switch name {
	case "meta":
		return GetResourceMetadata{Key: seg.Key}
	case "dir":
		return GetResourceDirectory{Key: seg.Key}
	case "asset":
		return GetAsset{Key: seg.Key}
	case "assetbinary":
		return GetAssetBinary{Key: seg.Key}
	case "assetmeta":
		return GetAssetMetadata{Key: seg.Key}
	case "recipe":
		return GetAssetRecipe{Key: seg.Key}
	case "assetdir":
		return GetAssetDirectory{Key: seg.Key}
	default:
		return GetResource{Key: seg.Key}
	}
}

// resolveAction looks the action up in the registry, under the realm
// "main" and the accumulated ns-header namespace list, then resolves its
// arguments.
func (b *Builder) resolveAction(a query.ActionRequest, cmr *command.Registry, opts BuildOptions, namespaces []string) (Step, error) {
	meta, ok := cmr.FindCommandInNamespaces("main", a.Name, namespaces)
	if !ok {
		return nil, &liquererr.ActionNotRegistered{Name: a.Name, Namespaces: namespaces, Position: a.Position}
	}

	values, err := resolveArguments(meta, a, opts)
	if err != nil {
		return nil, err
	}

	return Action{
		Realm:      meta.Realm,
		Namespace:  meta.Namespace,
		Name:       meta.Name,
		Position:   a.Position,
		Parameters: values,
	}, nil
}

// resolveArguments walks meta.Arguments in order against a's supplied
// parameters:
//   - injected arguments never consume a query parameter;
//   - a multiple argument consumes every remaining supplied parameter
//     (zero or more), coercing each independently;
//   - otherwise the next supplied parameter is consumed: a Link passes
//     through unresolved, a String is coerced by ArgumentType;
//   - with no parameter left, the argument's Default applies, or --
//     unless placeholders are allowed -- MissingArgument is raised.
//
// Any parameter left over once every formal argument has been visited
// is ExtraArguments, unless the last formal argument was Multiple (in
// which case it has already absorbed the remainder).
func resolveArguments(meta command.Metadata, a query.ActionRequest, opts BuildOptions) ([]param.Value, error) {
	values := make([]param.Value, 0, len(meta.Arguments))
	j := 0

	for i, arg := range meta.Arguments {
		if arg.Injected {
			values = append(values, param.Injected{Name: arg.Name})
			continue
		}

		if arg.Multiple {
			var multi []param.Value
			for ; j < len(a.Parameters); j++ {
				v, err := resolveOne(arg, a.Parameters[j], a.Position)
				if err != nil {
					return nil, err
				}
				multi = append(multi, v)
			}
			values = append(values, param.MultipleParameters{Name: arg.Name, Values: multi})
			continue
		}

		if j < len(a.Parameters) {
			v, err := resolveOne(arg, a.Parameters[j], a.Position)
			if err != nil {
				return nil, err
			}
			j++
			values = append(values, v)
			continue
		}

		if arg.HasDefault {
			values = append(values, param.DefaultValue{Name: arg.Name, JSON: arg.Default})
			continue
		}

		if opts.AllowPlaceholders {
			values = append(values, param.Placeholder{Name: arg.Name})
			continue
		}

		return nil, &liquererr.MissingArgument{Index: i, Name: arg.Name, Position: a.Position}
	}

	if j < len(a.Parameters) {
		return nil, &liquererr.ExtraArguments{Name: a.Name, Position: a.Position}
	}

	return values, nil
}

func resolveOne(arg command.ArgumentInfo, p query.ActionParameter, pos query.Position) (param.Value, error) {
	if p.IsLink() {
		return param.Link{Name: arg.Name, Query: *p.Link}, nil
	}
	coerced, err := coerce(arg.ArgumentType, arg.Enum, p.StringValue(), arg.Name, pos)
	if err != nil {
		return nil, err
	}
	return param.Literal{Name: arg.Name, JSON: coerced, Position: pos}, nil
}
