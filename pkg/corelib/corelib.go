// Package corelib registers a small set of built-in string commands --
// upper, lower, concat and greet -- so a fresh Registry has something
// to evaluate against out of the box.
package corelib

import (
	"context"
	"strings"

	"github.com/liquers-go/liquers/pkg/command"
	"github.com/liquers-go/liquers/pkg/param"
	"github.com/liquers-go/liquers/pkg/value"
)

// Register adds every built-in command to r, resolving arguments through
// f so each command's result is expressed in the caller's chosen Value
// implementation.
func Register(r *command.Registry, f value.Factory) {
	r.Register(command.Metadata{
		Name: "upper",
		Doc:  "Upper-cases the incoming string state.",
	}, command.ExecutorFunc(func(ctx context.Context, state value.Value, args []param.Value) (value.Value, error) {
		s, err := state.TryIntoString()
		if err != nil {
			return nil, err
		}
		return f.FromString(strings.ToUpper(s)), nil
	}))

	r.Register(command.Metadata{
		Name: "lower",
		Doc:  "Lower-cases the incoming string state.",
	}, command.ExecutorFunc(func(ctx context.Context, state value.Value, args []param.Value) (value.Value, error) {
		s, err := state.TryIntoString()
		if err != nil {
			return nil, err
		}
		return f.FromString(strings.ToLower(s)), nil
	}))

	r.Register(command.Metadata{
		Name: "greet",
		Doc:  "Formats \"<greeting>, <state>!\", defaulting to \"Hello\".",
		Arguments: []command.ArgumentInfo{
			{Name: "greeting", ArgumentType: command.ArgString, Default: "Hello", HasDefault: true},
		},
	}, command.ExecutorFunc(func(ctx context.Context, state value.Value, args []param.Value) (value.Value, error) {
		s, err := state.TryIntoString()
		if err != nil {
			return nil, err
		}
		greeting := "Hello"
		if len(args) > 0 {
			if g, ok := stringArg(args[0]); ok {
				greeting = g
			}
		}
		return f.FromString(greeting + ", " + s + "!"), nil
	}))

	r.Register(command.Metadata{
		Name: "concat",
		Doc:  "Appends suffix to the incoming string state.",
		Arguments: []command.ArgumentInfo{
			{Name: "suffix", ArgumentType: command.ArgString, Default: "", HasDefault: true},
		},
	}, command.ExecutorFunc(func(ctx context.Context, state value.Value, args []param.Value) (value.Value, error) {
		s, err := state.TryIntoString()
		if err != nil {
			return nil, err
		}
		suffix := ""
		if len(args) > 0 {
			if v, ok := stringArg(args[0]); ok {
				suffix = v
			}
		}
		return f.FromString(s + suffix), nil
	}))
}

func stringArg(v param.Value) (string, bool) {
	var j any
	switch a := v.(type) {
	case param.DefaultValue:
		j = a.JSON
	case param.Literal:
		j = a.JSON
	case param.OverrideValue:
		j = a.JSON
	default:
		return "", false
	}
	s, ok := j.(string)
	return s, ok
}
