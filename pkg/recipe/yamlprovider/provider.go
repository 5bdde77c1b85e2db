// Package yamlprovider is the default recipe.Provider: it reads a
// "recipes.yaml" document under each directory via a store.ByteStore and
// stamps every recipe's cwd. It caches nothing at this layer -- every
// lookup re-reads and re-parses the byte store.
package yamlprovider

import (
	"context"
	"fmt"
	"sort"

	"sigs.k8s.io/yaml"

	"github.com/liquers-go/liquers/pkg/query"
	"github.com/liquers-go/liquers/pkg/recipe"
	"github.com/liquers-go/liquers/pkg/store"
)

// RecipesFilename is the resource name a directory's recipe document is
// stored under.
const RecipesFilename = "recipes.yaml"

// yamlRecipe mirrors one entry of the on-disk "recipes: [...]" list.
// Name is the child resource name the recipe is addressable as within
// its directory.
type yamlRecipe struct {
	Name        string            `json:"name"`
	Query       string            `json:"query"`
	Title       string            `json:"title,omitempty"`
	Description string            `json:"description,omitempty"`
	Arguments   map[string]any    `json:"arguments,omitempty"`
	Links       map[string]string `json:"links,omitempty"`
}

type yamlDocument struct {
	Recipes []yamlRecipe `json:"recipes"`
}

// Provider implements recipe.Provider over a store.ByteStore.
type Provider struct {
	store store.ByteStore
}

// New returns a Provider reading recipes.yaml documents from bs.
func New(bs store.ByteStore) *Provider {
	return &Provider{store: bs}
}

func (p *Provider) load(ctx context.Context, parent query.Key) (yamlDocument, error) {
	data, err := p.store.Get(ctx, parent.JoinName(RecipesFilename))
	if err != nil {
		return yamlDocument{}, err
	}
	var doc yamlDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return yamlDocument{}, fmt.Errorf("parsing %s at %s: %w", RecipesFilename, parent.Encode(), err)
	}
	return doc, nil
}

// Names returns the recipe-backed names directly inside parent.
func (p *Provider) Names(ctx context.Context, parent query.Key) ([]string, error) {
	doc, err := p.load(ctx, parent)
	if err != nil {
		return nil, nil
	}
	names := make([]string, 0, len(doc.Recipes))
	for _, r := range doc.Recipes {
		names = append(names, r.Name)
	}
	sort.Strings(names)
	return names, nil
}

// Recipe returns the recipe stored at key, stamping its Cwd to key's
// parent directory.
func (p *Provider) Recipe(ctx context.Context, key query.Key) (*recipe.Recipe, bool, error) {
	parent := key.Parent()
	doc, err := p.load(ctx, parent)
	if err != nil {
		return nil, false, nil
	}
	name := key.Last()
	for _, r := range doc.Recipes {
		if r.Name != name {
			continue
		}
		return &recipe.Recipe{
			Query:       r.Query,
			Title:       r.Title,
			Description: r.Description,
			Arguments:   r.Arguments,
			Links:       r.Links,
			Cwd:         parent,
			Filename:    r.Name,
		}, true, nil
	}
	return nil, false, nil
}

// Contains reports whether a recipe with matching filename exists at
// key.Parent().
func (p *Provider) Contains(ctx context.Context, key query.Key) (bool, error) {
	_, ok, err := p.Recipe(ctx, key)
	return ok, err
}
