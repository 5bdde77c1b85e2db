package yamlprovider_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liquers-go/liquers/pkg/query"
	"github.com/liquers-go/liquers/pkg/recipe/yamlprovider"
	"github.com/liquers-go/liquers/pkg/store/memstore"
)

const doc = `
recipes:
  - name: greeting
    query: world/greet
    title: Greeting
    arguments:
      loud: true
    links:
      who: other/query
`

func TestProviderReadsRecipeByKey(t *testing.T) {
	ctx := context.Background()
	bs := memstore.New("mem")
	dir := query.NewKey("reports")
	require.NoError(t, bs.Set(ctx, dir.JoinName(yamlprovider.RecipesFilename), []byte(doc)))

	p := yamlprovider.New(bs)
	r, ok, err := p.Recipe(ctx, dir.JoinName("greeting"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "world/greet", r.Query)
	assert.Equal(t, "reports", r.Cwd.Encode())
	assert.Equal(t, true, r.Arguments["loud"])
	assert.Equal(t, "other/query", r.Links["who"])
}

func TestProviderNamesListsAllRecipes(t *testing.T) {
	ctx := context.Background()
	bs := memstore.New("mem")
	dir := query.NewKey("reports")
	require.NoError(t, bs.Set(ctx, dir.JoinName(yamlprovider.RecipesFilename), []byte(doc)))

	p := yamlprovider.New(bs)
	names, err := p.Names(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"greeting"}, names)
}

func TestProviderMissingRecipesFileYieldsNoNames(t *testing.T) {
	ctx := context.Background()
	bs := memstore.New("mem")
	p := yamlprovider.New(bs)
	names, err := p.Names(ctx, query.NewKey("nowhere"))
	require.NoError(t, err)
	assert.Empty(t, names)
}
