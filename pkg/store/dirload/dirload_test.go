package dirload_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liquers-go/liquers/pkg/query"
	"github.com/liquers-go/liquers/pkg/store/dirload"
	"github.com/liquers-go/liquers/pkg/store/memstore"
)

func TestLoadWalksNestedFiles(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "recipes.yaml"), []byte("recipes: []\n"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "sub", "data.txt"), []byte("hello"), 0o644))

	dest := memstore.New("test")
	var seen []string

	n, err := dirload.Load(context.Background(), root, dest, func(rel string) { seen = append(seen, rel) })
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.ElementsMatch(t, []string{"recipes.yaml", "sub/data.txt"}, seen)

	data, err := dest.Get(context.Background(), query.NewKey("sub", "data.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}
