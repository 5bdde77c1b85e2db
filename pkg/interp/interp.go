package interp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"code.cloudfoundry.org/lager/v3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/liquers-go/liquers/pkg/asset"
	"github.com/liquers-go/liquers/pkg/command"
	"github.com/liquers-go/liquers/pkg/liquererr"
	"github.com/liquers-go/liquers/pkg/metadata"
	"github.com/liquers-go/liquers/pkg/metric"
	"github.com/liquers-go/liquers/pkg/param"
	"github.com/liquers-go/liquers/pkg/plan"
	"github.com/liquers-go/liquers/pkg/query"
	"github.com/liquers-go/liquers/pkg/value"
	"github.com/liquers-go/liquers/pkg/volatility"
)

func lagerData(key command.Key) lager.Data {
	return lager.Data{"realm": key.Realm, "namespace": key.Namespace, "name": key.Name}
}

// Interpreter executes Plans against an Env. A zero Interpreter is
// ready to use; it holds no state of its own.
type Interpreter struct{}

// New returns a ready-to-use Interpreter.
func New() *Interpreter { return &Interpreter{} }

// Evaluate builds a plan for q, binds it to its (possibly freshly
// created) asset, and walks it to completion. cwd seeds the
// interpreter-local current working key for any relative keys the plan
// encounters.
func (ip *Interpreter) Evaluate(ctx context.Context, env *Env, q query.Query, cwd query.Key) (State, error) {
	ctx, span := otel.Tracer("liquers/interp").Start(ctx, "Evaluate",
		trace.WithAttributes(attribute.String("liquers.query", q.Encode())))
	defer span.End()

	start := time.Now()
	state, err := ip.evaluate(ctx, env, q, cwd)
	metric.ObserveEvaluation(ctx, time.Since(start), err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return state, err
}

func (ip *Interpreter) evaluate(ctx context.Context, env *Env, q query.Query, cwd query.Key) (State, error) {
	var a *asset.Asset
	if env.Assets != nil {
		var err error
		a, err = env.Assets.GetAsset(ctx, q)
		if err != nil {
			return State{}, err
		}
	}
	if a != nil {
		if v, ok := a.Value(); ok {
			metric.RecordCacheHit(ctx)
			rec, _ := a.Metadata().(*metadata.Record)
			return State{Data: v, Metadata: rec}, nil
		}
		metric.RecordCacheMiss(ctx)
		return ip.materialize(ctx, env, a, cwd)
	}

	return ip.evaluatePlan(ctx, env, q, cwd, nil)
}

// materialize resolves the asset's value through the three provenance
// paths -- stored bytes, recipe, or on-the-fly plan -- caching the
// result unless the chosen plan is volatile.
func (ip *Interpreter) materialize(ctx context.Context, env *Env, a *asset.Asset, cwd query.Key) (State, error) {
	if k, ok := a.Key(); ok {
		if st, handled, err := ip.materializeKeyed(ctx, env, a, k, cwd); handled {
			return st, err
		}
	}

	p, err := plan.NewBuilder().Build(a.Query(), env.Registry, plan.BuildOptions{})
	if err != nil {
		return State{}, err
	}
	return ip.materializePlan(ctx, env, a, p, a.Query(), cwd)
}

// materializeKeyed walks the stored-bytes-then-recipe provenance chain for
// an asset opened through the key-addressed path. handled is false when
// neither path applies and the caller should fall back to plan+evaluate.
func (ip *Interpreter) materializeKeyed(ctx context.Context, env *Env, a *asset.Asset, k query.Key, cwd query.Key) (State, bool, error) {
	if env.Store != nil {
		if ok, _ := env.Store.Contains(ctx, k); ok {
			var finalState State
			_, err := a.EnsureEvaluated(func() (value.Value, error) {
				data, err := env.Store.Get(ctx, k)
				if err != nil {
					return nil, err
				}
				m, err := env.Store.GetMetadata(ctx, k)
				if err != nil {
					m = metadata.NewRecord(a.Query())
				}
				rec, _ := m.(*metadata.Record)
				if rec == nil {
					rec = metadata.NewRecord(a.Query())
				}
				v := env.Factory.FromBytes(data)
				finalState = State{Data: v, Metadata: rec}
				return v, nil
			})
			if err != nil {
				advance(a, metadata.StatusSubmitted, metadata.StatusEvaluatingParent, metadata.StatusError)
				return State{}, true, err
			}
			if finalState.Metadata != nil {
				a.SetMetadata(finalState.Metadata)
			}
			advance(a,
				metadata.StatusSubmitted,
				metadata.StatusEvaluatingParent,
				metadata.StatusEvaluatingDependencies,
				metadata.StatusEvaluation,
				metadata.StatusReady)
			return finalState, true, nil
		}
	}

	if rec, ok := a.Recipe(); ok {
		if aliasKey, isAlias, err := rec.Key(); err == nil && isAlias {
			aliased, err := env.Assets.Get(ctx, aliasKey)
			if err != nil {
				return State{}, true, err
			}
			st, err := ip.materialize(ctx, env, aliased, cwd)
			if err != nil {
				advance(a, metadata.StatusSubmitted, metadata.StatusEvaluatingParent, metadata.StatusError)
				return State{}, true, err
			}
			a.SetValue(st.Data)
			if st.Metadata != nil {
				a.SetMetadata(st.Metadata)
			}
			advance(a,
				metadata.StatusSubmitted,
				metadata.StatusEvaluatingParent,
				metadata.StatusEvaluatingDependencies,
				metadata.StatusRecipe,
				metadata.StatusReady)
			return st, true, nil
		}

		p, err := rec.ToPlan(env.Registry)
		if err != nil {
			return State{}, true, err
		}
		advance(a,
			metadata.StatusSubmitted,
			metadata.StatusEvaluatingParent,
			metadata.StatusEvaluatingDependencies,
			metadata.StatusRecipe)
		st, err := ip.materializePlan(ctx, env, a, p, a.Query(), rec.Cwd)
		return st, true, err
	}

	return State{}, false, nil
}

// advance walks a through statuses in order, applying only those
// transitions the machine permits from wherever the asset currently
// stands, so every provenance path reaches its terminal status along
// legal edges only.
func advance(a *asset.Asset, statuses ...metadata.Status) {
	for _, s := range statuses {
		if metadata.CanTransition(a.Status(), s) {
			_ = a.Transition(s)
		}
	}
}

// materializePlan runs plan p at most once per asset, unless p is
// volatile -- in which case it always runs fresh and its result is never
// stashed in the asset's cached Value.
func (ip *Interpreter) materializePlan(ctx context.Context, env *Env, a *asset.Asset, p plan.Plan, q query.Query, cwd query.Key) (State, error) {
	if volatility.IsVolatile(p, env.Registry) {
		st, err := ip.runPlan(ctx, env, p, q, cwd, a)
		if err != nil {
			_ = a.Transition(metadata.StatusError)
			return State{}, err
		}
		advance(a, metadata.StatusEvaluatingDependencies, metadata.StatusEvaluation, metadata.StatusReady)
		return st, nil
	}

	var finalState State
	v, err := a.EnsureEvaluated(func() (value.Value, error) {
		st, err := ip.runPlan(ctx, env, p, q, cwd, a)
		finalState = st
		return st.Data, err
	})
	if err != nil {
		_ = a.Transition(metadata.StatusError)
		return State{}, err
	}
	if finalState.Data == nil {
		finalState.Data = v
	}
	if finalState.Metadata != nil {
		a.SetMetadata(finalState.Metadata)
	} else if rec, ok := a.Metadata().(*metadata.Record); ok {
		finalState.Metadata = rec
	}
	advance(a, metadata.StatusEvaluatingDependencies, metadata.StatusEvaluation, metadata.StatusReady)
	return finalState, nil
}

func (ip *Interpreter) evaluatePlan(ctx context.Context, env *Env, q query.Query, cwd query.Key, a *asset.Asset) (State, error) {
	p, err := plan.NewBuilder().Build(q, env.Registry, plan.BuildOptions{})
	if err != nil {
		return State{}, err
	}
	return ip.runPlan(ctx, env, p, q, cwd, a)
}

// runPlan walks p's steps once, threading state and driving a's status
// machine along the way. It does not itself decide whether the result
// should be cached -- see materializePlan.
func (ip *Interpreter) runPlan(ctx context.Context, env *Env, p plan.Plan, q query.Query, cwd query.Key, a *asset.Asset) (State, error) {
	rec := metadata.NewRecord(q)
	state := State{Data: env.Factory.None(), Metadata: rec}

	if a != nil {
		if a.Status() == metadata.StatusNone {
			_ = a.Transition(metadata.StatusSubmitted)
		}
		if metadata.CanTransition(a.Status(), metadata.StatusEvaluatingParent) {
			_ = a.Transition(metadata.StatusEvaluatingParent)
		}
	}

	newCwd, err := ip.walk(ctx, env, p.Steps, &state, cwd, a)
	if err != nil {
		rec.IsError = true
		if a != nil {
			_ = a.Transition(metadata.StatusError)
		}
		return state, err
	}
	_ = newCwd
	return state, nil
}

// walk threads state through every step of steps in order, resolving
// links and dispatching actions. It returns the cwd as it stood after
// the last SetCwd step.
func (ip *Interpreter) walk(ctx context.Context, env *Env, steps []plan.Step, state *State, cwd query.Key, a *asset.Asset) (query.Key, error) {
	enteredDependencies := false
	enteredEvaluation := false

	for _, step := range steps {
		select {
		case <-ctx.Done():
			return cwd, &liquererr.Cancelled{Cause: ctx.Err()}
		default:
		}

		switch s := step.(type) {
		case plan.GetResource:
			data, err := env.Store.Get(ctx, s.Key.Absolute(cwd))
			if err != nil {
				return cwd, err
			}
			state.Data = env.Factory.FromBytes(data)

		case plan.GetResourceMetadata:
			m, err := env.Store.GetMetadata(ctx, s.Key.Absolute(cwd))
			if err != nil {
				return cwd, err
			}
			if _, legacy := m.(*metadata.Legacy); legacy {
				state.Metadata.Warnf(nil, nil, fmt.Sprintf("legacy metadata at %s", s.Key.Encode()))
			}
			state.Data = jsonValue(env.Factory, m)

		case plan.GetResourceDirectory:
			names, err := env.Store.Listdir(ctx, s.Key.Absolute(cwd))
			if err != nil {
				return cwd, err
			}
			v, err := env.Factory.FromJSON(names)
			if err != nil {
				return cwd, err
			}
			state.Data = v

		case plan.GetAsset, plan.GetAssetBinary, plan.GetAssetMetadata, plan.GetAssetRecipe, plan.GetAssetDirectory:
			v, err := ip.resolveAssetStep(ctx, env, step, cwd)
			if err != nil {
				return cwd, err
			}
			state.Data = v

		case plan.Evaluate:
			sub, err := ip.Evaluate(ctx, env, s.Query, cwd)
			if err != nil {
				return cwd, err
			}
			state.Data = sub.Data

		case plan.Action:
			if !enteredDependencies {
				enteredDependencies = true
				if a != nil {
					_ = a.Transition(metadata.StatusEvaluatingDependencies)
				}
			}
			resolved, err := ip.resolveParameters(ctx, env, s.Parameters, cwd)
			if err != nil {
				return cwd, err
			}
			if !enteredEvaluation {
				enteredEvaluation = true
				if a != nil {
					_ = a.Transition(metadata.StatusEvaluation)
				}
			}
			key := command.Key{Realm: s.Realm, Namespace: s.Namespace, Name: s.Name}
			data := lagerData(key)
			if a != nil {
				data["trace-id"] = a.TraceID()
			}
			session := env.logger().Session("action", data)
			session.Debug("starting")
			result, err := env.Registry.ExecuteAt(ctx, key, s.Position, state.Data, resolved)
			if err != nil {
				session.Error("failed", err)
				return cwd, liquererr.WithCommandKey(err, s.Realm, s.Namespace, s.Name, s.Position)
			}
			session.Debug("finished")
			state.Data = result

		case plan.Filename:
			state.Metadata.Filename = s.Name.Name

		case plan.Info:
			state.Metadata.Infof(nil, nil, s.Message)
		case plan.Warning:
			state.Metadata.Warnf(nil, nil, s.Message)
		case plan.StepError:
			state.Metadata.Errorf(nil, nil, s.Message)
			return cwd, &liquererr.NotSupported{Message: s.Message}

		case plan.SetCwd:
			cwd = s.Key.Absolute(cwd)

		case plan.UseKeyValue:
			state.Data = env.Factory.FromString(s.Key.Absolute(cwd).Encode())

		case plan.NestedPlan:
			sub := State{Data: env.Factory.None(), Metadata: metadata.NewRecord(s.Plan.Query)}
			if _, err := ip.walk(ctx, env, s.Plan.Steps, &sub, cwd, nil); err != nil {
				return cwd, err
			}
			state.Data = sub.Data
			for _, entry := range sub.Metadata.Log {
				state.Metadata.Log = append(state.Metadata.Log, entry)
			}
		}
	}
	return cwd, nil
}

func (ip *Interpreter) resolveAssetStep(ctx context.Context, env *Env, step plan.Step, cwd query.Key) (value.Value, error) {
	var key query.Key
	switch s := step.(type) {
	case plan.GetAsset:
		key = s.Key
	case plan.GetAssetBinary:
		key = s.Key
	case plan.GetAssetMetadata:
		key = s.Key
	case plan.GetAssetRecipe:
		key = s.Key
	case plan.GetAssetDirectory:
		key = s.Key
	}
	key = key.Absolute(cwd)

	a, err := env.Assets.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	switch step.(type) {
	case plan.GetAssetDirectory:
		names, err := env.Assets.Listdir(ctx, key)
		if err != nil {
			return nil, err
		}
		return env.Factory.FromJSON(names)

	case plan.GetAssetRecipe:
		rec, ok := a.Recipe()
		if !ok {
			return env.Factory.None(), nil
		}
		return jsonValue(env.Factory, rec), nil

	case plan.GetAssetMetadata:
		return jsonValue(env.Factory, a.Metadata()), nil

	case plan.GetAssetBinary:
		if b, ok := a.Binary(); ok {
			return env.Factory.FromBytes(b), nil
		}
		st, err := ip.materialize(ctx, env, a, cwd)
		if err != nil {
			return nil, err
		}
		b, err := st.Data.AsBytes(value.FormatRaw)
		if err != nil {
			return nil, err
		}
		return env.Factory.FromBytes(b), nil

	default: // GetAsset
		st, err := ip.materialize(ctx, env, a, cwd)
		if err != nil {
			return nil, err
		}
		return st.Data, nil
	}
}

// resolveParameters replaces every Link in params with the evaluated
// value of its query, expressed as a Literal JSON projection so the
// registered Executor sees a uniform param.Value shape regardless of
// whether the query text supplied a literal or a link.
func (ip *Interpreter) resolveParameters(ctx context.Context, env *Env, params []param.Value, cwd query.Key) ([]param.Value, error) {
	out := make([]param.Value, len(params))
	for i, v := range params {
		resolved, err := ip.resolveOneParameter(ctx, env, v, cwd)
		if err != nil {
			return nil, err
		}
		out[i] = resolved
	}
	return out, nil
}

func (ip *Interpreter) resolveOneParameter(ctx context.Context, env *Env, v param.Value, cwd query.Key) (param.Value, error) {
	if q, ok := param.IsLink(v); ok {
		sub, err := ip.Evaluate(ctx, env, q, cwd)
		if err != nil {
			return nil, err
		}
		j, err := sub.Data.TryIntoJSON()
		if err != nil {
			return nil, err
		}
		return param.Literal{Name: param.NameOf(v), JSON: j}, nil
	}
	if mp, ok := v.(param.MultipleParameters); ok {
		values := make([]param.Value, len(mp.Values))
		for i, inner := range mp.Values {
			resolved, err := ip.resolveOneParameter(ctx, env, inner, cwd)
			if err != nil {
				return nil, err
			}
			values[i] = resolved
		}
		return param.MultipleParameters{Name: mp.Name, Values: values}, nil
	}
	return v, nil
}

func jsonValue(f value.Factory, v any) value.Value {
	b, err := json.Marshal(v)
	if err != nil {
		return f.FromString(fmt.Sprintf("%v", v))
	}
	return f.FromBytes(b)
}
