// Package recipe implements stored, parameterised queries addressable
// by Key, and the override mechanism that turns a Recipe into a
// concrete Plan.
package recipe

import (
	"context"
	"fmt"

	"github.com/liquers-go/liquers/pkg/command"
	"github.com/liquers-go/liquers/pkg/param"
	"github.com/liquers-go/liquers/pkg/plan"
	"github.com/liquers-go/liquers/pkg/query"
)

// Recipe is a stored, named query with optional argument/link overrides,
// addressable by Key. It is a value type; copying is cheap and always
// safe.
type Recipe struct {
	Query       string            `json:"query"`
	Title       string            `json:"title,omitempty"`
	Description string            `json:"description,omitempty"`
	Arguments   map[string]any    `json:"arguments,omitempty"`
	Links       map[string]string `json:"links,omitempty"`
	// Cwd is the directory the recipe was declared in, stamped by the
	// loader.
	Cwd query.Key `json:"cwd,omitempty"`
	// Filename is the resource name this recipe's result is persisted
	// under within Cwd, used by StoreToKey.
	Filename string `json:"filename,omitempty"`
}

// StoreToKey returns the key where this recipe's evaluated result
// should be persisted, used by caching layers.
func (r Recipe) StoreToKey() query.Key {
	return r.Cwd.JoinName(r.Filename)
}

// HasArguments reports whether the recipe carries any argument or link
// overrides.
func (r Recipe) HasArguments() bool {
	return len(r.Arguments) > 0 || len(r.Links) > 0
}

// Key returns the Key this recipe denotes when it is a pure query -- no
// argument or link overrides at all -- whose parsed form is itself a
// bare key, expanded to absolute form against Cwd. A recipe that does
// nothing but alias another key needs no plan of its own;
// materialisation can resolve it by recursing into the asset store
// instead of invoking the plan builder for an identity transformation.
func (r Recipe) Key() (query.Key, bool, error) {
	if r.HasArguments() {
		return query.Key{}, false, nil
	}
	q, err := query.Parse(r.Query)
	if err != nil {
		return query.Key{}, false, err
	}
	k, ok := q.Key()
	if !ok {
		return query.Key{}, false, nil
	}
	return k.Absolute(r.Cwd), true, nil
}

// ToPlan builds this recipe's query with placeholders allowed, then
// applies every named argument and link override onto the produced
// Plan's Action steps. Failing to find a matching placeholder for a
// declared argument or link is an error.
func (r Recipe) ToPlan(cmr *command.Registry) (plan.Plan, error) {
	q, err := query.Parse(r.Query)
	if err != nil {
		return plan.Plan{}, fmt.Errorf("recipe query %q: %w", r.Query, err)
	}

	p, err := plan.NewBuilder().Build(q, cmr, plan.BuildOptions{AllowPlaceholders: true})
	if err != nil {
		return plan.Plan{}, err
	}

	remainingArgs := make(map[string]any, len(r.Arguments))
	for k, v := range r.Arguments {
		remainingArgs[k] = v
	}
	remainingLinks := make(map[string]string, len(r.Links))
	for k, v := range r.Links {
		remainingLinks[k] = v
	}

	for i, step := range p.Steps {
		action, ok := step.(plan.Action)
		if !ok {
			continue
		}
		for j, v := range action.Parameters {
			ph, isPlaceholder := v.(param.Placeholder)
			if !isPlaceholder {
				continue
			}
			if raw, ok := remainingArgs[ph.Name]; ok {
				action.Parameters[j] = param.OverrideValue{Name: ph.Name, JSON: raw}
				delete(remainingArgs, ph.Name)
				continue
			}
			if linkText, ok := remainingLinks[ph.Name]; ok {
				linkQuery, err := query.Parse(linkText)
				if err != nil {
					return plan.Plan{}, fmt.Errorf("recipe link %q: %w", ph.Name, err)
				}
				action.Parameters[j] = param.Link{Name: ph.Name, Query: linkQuery}
				delete(remainingLinks, ph.Name)
			}
		}
		p.Steps[i] = action
	}

	if len(remainingArgs) > 0 {
		for name := range remainingArgs {
			return plan.Plan{}, fmt.Errorf("recipe %q: no matching placeholder argument %q", r.Query, name)
		}
	}
	if len(remainingLinks) > 0 {
		for name := range remainingLinks {
			return plan.Plan{}, fmt.Errorf("recipe %q: no matching placeholder link %q", r.Query, name)
		}
	}

	return p, nil
}

// Provider supplies recipe-backed names within a parent Key and, for any
// child key, the Recipe stored there.
type Provider interface {
	// Names returns the recipe-backed names directly inside parent.
	Names(ctx context.Context, parent query.Key) ([]string, error)
	// Recipe returns the recipe stored at key, if any.
	Recipe(ctx context.Context, key query.Key) (*Recipe, bool, error)
	// Contains reports whether a recipe with matching filename exists at
	// key.Parent().
	Contains(ctx context.Context, key query.Key) (bool, error)
}
