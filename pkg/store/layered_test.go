package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liquers-go/liquers/pkg/query"
	"github.com/liquers-go/liquers/pkg/store"
	"github.com/liquers-go/liquers/pkg/store/memstore"
)

func TestLayeredStoreReadsThroughToFallback(t *testing.T) {
	ctx := context.Background()
	primary := memstore.New("primary")
	fallback := memstore.New("fallback")
	require.NoError(t, fallback.Set(ctx, query.NewKey("only-in-fallback"), []byte("v")))

	layered := store.NewLayeredStore(primary, fallback)
	data, err := layered.Get(ctx, query.NewKey("only-in-fallback"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), data)
}

func TestLayeredStoreWritesOnlyToPrimary(t *testing.T) {
	ctx := context.Background()
	primary := memstore.New("primary")
	fallback := memstore.New("fallback")

	layered := store.NewLayeredStore(primary, fallback)
	require.NoError(t, layered.Set(ctx, query.NewKey("k"), []byte("v")))

	ok, _ := primary.Contains(ctx, query.NewKey("k"))
	assert.True(t, ok)
	ok, _ = fallback.Contains(ctx, query.NewKey("k"))
	assert.False(t, ok)
}

func TestLayeredStoreListdirUnionsLayers(t *testing.T) {
	ctx := context.Background()
	primary := memstore.New("primary")
	fallback := memstore.New("fallback")
	require.NoError(t, primary.Set(ctx, query.NewKey("d", "x"), []byte("1")))
	require.NoError(t, fallback.Set(ctx, query.NewKey("d", "y"), []byte("2")))

	layered := store.NewLayeredStore(primary, fallback)
	names, err := layered.Listdir(ctx, query.NewKey("d"))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"x", "y"}, names)
}
