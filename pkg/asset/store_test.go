package asset_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liquers-go/liquers/pkg/asset"
	"github.com/liquers-go/liquers/pkg/metadata"
	"github.com/liquers-go/liquers/pkg/query"
	"github.com/liquers-go/liquers/pkg/store/memstore"
)

func TestGetByKeyIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := asset.New(memstore.New("mem"), nil)
	k := query.NewKey("a", "b")

	a1, err := s.Get(ctx, k)
	require.NoError(t, err)
	a2, err := s.Get(ctx, k)
	require.NoError(t, err)

	assert.Same(t, a1, a2)
}

func TestConcurrentGetDedupsToOneAsset(t *testing.T) {
	ctx := context.Background()
	s := asset.New(memstore.New("mem"), nil)
	k := query.NewKey("x")

	var wg sync.WaitGroup
	results := make([]*asset.Asset, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			a, err := s.Get(ctx, k)
			require.NoError(t, err)
			results[i] = a
		}(i)
	}
	wg.Wait()

	for _, a := range results {
		assert.Same(t, results[0], a)
	}
}

func TestAssetStatusTransitionPublishesMessage(t *testing.T) {
	ctx := context.Background()
	s := asset.New(memstore.New("mem"), nil)
	a, err := s.Get(ctx, query.NewKey("y"))
	require.NoError(t, err)

	msgs, unsubscribe := a.Subscribe()
	defer unsubscribe()

	require.NoError(t, a.Transition(metadata.StatusSubmitted))
	msg := <-msgs
	assert.Equal(t, metadata.StatusSubmitted, msg.Status)
}

func TestAssetIllegalTransitionIsRejected(t *testing.T) {
	ctx := context.Background()
	s := asset.New(memstore.New("mem"), nil)
	a, err := s.Get(ctx, query.NewKey("z"))
	require.NoError(t, err)

	err = a.Transition(metadata.StatusReady)
	require.Error(t, err)
}

func TestContainsChecksByteStore(t *testing.T) {
	ctx := context.Background()
	bs := memstore.New("mem")
	require.NoError(t, bs.Set(ctx, query.NewKey("present"), []byte("v")))
	s := asset.New(bs, nil)

	ok, err := s.Contains(ctx, query.NewKey("present"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Contains(ctx, query.NewKey("absent"))
	require.NoError(t, err)
	assert.False(t, ok)
}
