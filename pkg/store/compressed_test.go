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

func TestCompressedStoreRoundTrips(t *testing.T) {
	ctx := context.Background()
	inner := memstore.New("mem")
	cs, err := store.NewCompressedStore(inner)
	require.NoError(t, err)
	defer cs.Close()

	k := query.NewKey("a", "b")
	payload := []byte("hello, compressed world")

	require.NoError(t, cs.Set(ctx, k, payload))

	raw, err := inner.Get(ctx, k)
	require.NoError(t, err)
	assert.NotEqual(t, payload, raw, "stored bytes should be compressed, not plaintext")

	got, err := cs.Get(ctx, k)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}
