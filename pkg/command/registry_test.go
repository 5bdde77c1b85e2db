package command_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liquers-go/liquers/pkg/command"
	"github.com/liquers-go/liquers/pkg/liquererr"
	"github.com/liquers-go/liquers/pkg/param"
	"github.com/liquers-go/liquers/pkg/value"
	"github.com/liquers-go/liquers/pkg/value/simple"
)

func TestRegistryAliasesEmptyRealmNamespace(t *testing.T) {
	r := command.NewRegistry()
	r.Register(command.Metadata{Name: "greet"}, command.ExecutorFunc(
		func(ctx context.Context, state value.Value, args []param.Value) (value.Value, error) {
			return simple.FromString("hi"), nil
		}))

	meta, ok := r.FindCommand("main", "root", "greet")
	require.True(t, ok)
	assert.Equal(t, "greet", meta.Name)

	v, err := r.Execute(context.Background(), command.Key{Name: "greet"}, simple.None(), nil)
	require.NoError(t, err)
	s, _ := v.TryIntoString()
	assert.Equal(t, "hi", s)
}

func TestFindCommandInNamespacesFirstHitWins(t *testing.T) {
	r := command.NewRegistry()
	r.Register(command.Metadata{Realm: "main", Namespace: "root", Name: "x"}, command.ExecutorFunc(
		func(ctx context.Context, state value.Value, args []param.Value) (value.Value, error) {
			return simple.FromString("root-x"), nil
		}))
	r.Register(command.Metadata{Realm: "main", Namespace: "foo", Name: "x"}, command.ExecutorFunc(
		func(ctx context.Context, state value.Value, args []param.Value) (value.Value, error) {
			return simple.FromString("foo-x"), nil
		}))

	meta, ok := r.FindCommandInNamespaces("main", "x", []string{"foo"})
	require.True(t, ok)
	assert.Equal(t, "foo", meta.Namespace)
}

func TestExecuteAsyncFallsBackToSync(t *testing.T) {
	r := command.NewRegistry()
	r.Register(command.Metadata{Name: "sync-only"}, command.ExecutorFunc(
		func(ctx context.Context, state value.Value, args []param.Value) (value.Value, error) {
			return simple.FromString("sync"), nil
		}))

	v, err := r.ExecuteAsync(context.Background(), command.Key{Name: "sync-only"}, simple.None(), nil)
	require.NoError(t, err)
	s, _ := v.TryIntoString()
	assert.Equal(t, "sync", s)
}

func TestUnknownCommandExecutor(t *testing.T) {
	r := command.NewRegistry()
	_, err := r.Execute(context.Background(), command.Key{Name: "nope"}, simple.None(), nil)
	require.Error(t, err)
	var uce *liquererr.UnknownCommandExecutor
	require.ErrorAs(t, err, &uce)
}
