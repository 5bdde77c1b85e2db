package interp_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liquers-go/liquers/pkg/asset"
	"github.com/liquers-go/liquers/pkg/command"
	"github.com/liquers-go/liquers/pkg/interp"
	"github.com/liquers-go/liquers/pkg/param"
	"github.com/liquers-go/liquers/pkg/query"
	"github.com/liquers-go/liquers/pkg/store/memstore"
	"github.com/liquers-go/liquers/pkg/value"
	"github.com/liquers-go/liquers/pkg/value/simple"
)

func greetingArg(args []param.Value) string {
	for _, a := range args {
		if lit, ok := a.(param.Literal); ok && lit.Name == "greeting" {
			if s, ok := lit.JSON.(string); ok {
				return s
			}
		}
		if dv, ok := a.(param.DefaultValue); ok && dv.Name == "greeting" {
			if s, ok := dv.JSON.(string); ok {
				return s
			}
		}
	}
	return ""
}

func newTestEnv(t *testing.T) *interp.Env {
	t.Helper()
	reg := command.NewRegistry()

	reg.Register(command.Metadata{Name: "world"}, command.ExecutorFunc(
		func(ctx context.Context, state value.Value, args []param.Value) (value.Value, error) {
			return simple.FromString("world"), nil
		}))

	reg.Register(command.Metadata{
		Name: "upper",
	}, command.ExecutorFunc(
		func(ctx context.Context, state value.Value, args []param.Value) (value.Value, error) {
			s, err := state.TryIntoString()
			if err != nil {
				return nil, err
			}
			return simple.FromString(strings.ToUpper(s)), nil
		}))

	reg.Register(command.Metadata{
		Name: "greet",
		Arguments: []command.ArgumentInfo{
			{Name: "greeting", ArgumentType: command.ArgString, Default: "Hello", HasDefault: true},
		},
	}, command.ExecutorFunc(
		func(ctx context.Context, state value.Value, args []param.Value) (value.Value, error) {
			s, err := state.TryIntoString()
			if err != nil {
				return nil, err
			}
			return simple.FromString(fmt.Sprintf("%s, %s!", greetingArg(args), s)), nil
		}))

	return &interp.Env{
		Registry: reg,
		Store:    memstore.New("mem"),
		Factory:  simple.Factory{},
		Assets:   asset.New(memstore.New("mem"), nil),
	}
}

func TestEvaluateGreetWithDefault(t *testing.T) {
	env := newTestEnv(t)
	q, err := query.Parse("world/greet")
	require.NoError(t, err)

	state, err := interp.New().Evaluate(context.Background(), env, q, query.Key{})
	require.NoError(t, err)

	s, err := state.Data.TryIntoString()
	require.NoError(t, err)
	assert.Equal(t, "Hello, world!", s)
	assert.False(t, state.Metadata.IsError)
}

func TestEvaluateGreetWithUpperPipeline(t *testing.T) {
	env := newTestEnv(t)
	q, err := query.Parse("world/upper/greet-Ciao")
	require.NoError(t, err)

	state, err := interp.New().Evaluate(context.Background(), env, q, query.Key{})
	require.NoError(t, err)

	s, err := state.Data.TryIntoString()
	require.NoError(t, err)
	assert.Equal(t, "Ciao, WORLD!", s)
}

func TestEvaluateUnknownActionFails(t *testing.T) {
	env := newTestEnv(t)
	q, err := query.Parse("nope")
	require.NoError(t, err)

	_, err = interp.New().Evaluate(context.Background(), env, q, query.Key{})
	require.Error(t, err)
}

func TestEvaluateAssetKeyReadsStoredBytesBeforePlanning(t *testing.T) {
	env := newTestEnv(t)
	k, err := query.ParseKey("greeting")
	require.NoError(t, err)
	require.NoError(t, env.Store.Set(context.Background(), k, []byte("hi from the store")))

	q, err := query.Parse("-Rasset/greeting")
	require.NoError(t, err)

	state, err := interp.New().Evaluate(context.Background(), env, q, query.Key{})
	require.NoError(t, err)

	s, err := state.Data.TryIntoString()
	require.NoError(t, err)
	assert.Equal(t, "hi from the store", s)
}

func TestVolatileActionIsNeverCached(t *testing.T) {
	env := newTestEnv(t)
	var calls int
	env.Registry.Register(command.Metadata{Name: "ticking", Volatile: true}, command.ExecutorFunc(
		func(ctx context.Context, state value.Value, args []param.Value) (value.Value, error) {
			calls++
			return simple.FromI64(int64(calls)), nil
		}))

	q, err := query.Parse("ticking")
	require.NoError(t, err)

	ip := interp.New()
	s1, err := ip.Evaluate(context.Background(), env, q, query.Key{})
	require.NoError(t, err)
	s2, err := ip.Evaluate(context.Background(), env, q, query.Key{})
	require.NoError(t, err)

	v1, _ := s1.Data.TryIntoI64()
	v2, _ := s2.Data.TryIntoI64()
	assert.NotEqual(t, v1, v2)
	assert.Equal(t, 2, calls)
}

func TestEvaluateIsSingleFlightPerQuery(t *testing.T) {
	env := newTestEnv(t)
	var calls int
	env.Registry.Register(command.Metadata{Name: "countedworld"}, command.ExecutorFunc(
		func(ctx context.Context, state value.Value, args []param.Value) (value.Value, error) {
			calls++
			return simple.FromString("world"), nil
		}))

	q, err := query.Parse("countedworld/greet")
	require.NoError(t, err)

	ip := interp.New()
	s1, err := ip.Evaluate(context.Background(), env, q, query.Key{})
	require.NoError(t, err)
	s2, err := ip.Evaluate(context.Background(), env, q, query.Key{})
	require.NoError(t, err)

	v1, _ := s1.Data.TryIntoString()
	v2, _ := s2.Data.TryIntoString()
	assert.Equal(t, v1, v2)
	assert.Equal(t, 1, calls)
}
