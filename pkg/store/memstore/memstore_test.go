package memstore_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liquers-go/liquers/pkg/metadata"
	"github.com/liquers-go/liquers/pkg/query"
	"github.com/liquers-go/liquers/pkg/store"
	"github.com/liquers-go/liquers/pkg/store/memstore"
)

func TestSetGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := memstore.New("mem")
	k := query.NewKey("a", "b")

	require.NoError(t, s.Set(ctx, k, []byte("hello")))
	data, err := s.Get(ctx, k)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)
}

func TestGetMissingKeyIsNotFound(t *testing.T) {
	ctx := context.Background()
	s := memstore.New("mem")
	_, err := s.Get(ctx, query.NewKey("missing"))
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrKeyNotFound)
}

func TestListdirAndIsDir(t *testing.T) {
	ctx := context.Background()
	s := memstore.New("mem")
	require.NoError(t, s.Set(ctx, query.NewKey("a", "x"), []byte("1")))
	require.NoError(t, s.Set(ctx, query.NewKey("a", "y"), []byte("2")))

	isDir, err := s.IsDir(ctx, query.NewKey("a"))
	require.NoError(t, err)
	assert.True(t, isDir)

	names, err := s.Listdir(ctx, query.NewKey("a"))
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, names)
}

func TestRemoveDir(t *testing.T) {
	ctx := context.Background()
	s := memstore.New("mem")
	require.NoError(t, s.Set(ctx, query.NewKey("a", "x"), []byte("1")))
	require.NoError(t, s.Set(ctx, query.NewKey("a"), []byte("root")))

	require.NoError(t, s.RemoveDir(ctx, query.NewKey("a")))
	ok, _ := s.Contains(ctx, query.NewKey("a", "x"))
	assert.False(t, ok)
	ok, _ = s.Contains(ctx, query.NewKey("a"))
	assert.False(t, ok)
}

func TestSetMetadataRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := memstore.New("mem")
	k := query.NewKey("a")
	rec := metadata.NewRecord(query.Query{})
	rec.Status = metadata.StatusReady

	require.NoError(t, s.SetMetadata(ctx, k, rec))
	got, err := s.GetMetadata(ctx, k)
	require.NoError(t, err)
	gotRec, ok := got.(*metadata.Record)
	require.True(t, ok)
	assert.Equal(t, metadata.StatusReady, gotRec.Status)
}
