package asset

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/liquers-go/liquers/pkg/query"
	"github.com/liquers-go/liquers/pkg/recipe"
	"github.com/liquers-go/liquers/pkg/store"
)

// Store is the deduplicated, in-flight-safe registry of Assets: two
// maps (by Key, by Query), each populated get-or-insert under a
// singleflight.Group so concurrent lookups of the same fingerprint
// share exactly one materialisation.
type Store struct {
	mu          sync.Mutex
	keyAssets   map[string]*Asset
	queryAssets map[string]*Asset

	sfKey   singleflight.Group
	sfQuery singleflight.Group

	bytes    store.ByteStore
	provider recipe.Provider
}

// New returns an empty Store backed by bytes and provider. provider may
// be nil, in which case no recipe is ever attached or consulted.
func New(bytes store.ByteStore, provider recipe.Provider) *Store {
	return &Store{
		keyAssets:   make(map[string]*Asset),
		queryAssets: make(map[string]*Asset),
		bytes:       bytes,
		provider:    provider,
	}
}

// GetAsset returns the Asset for q, creating it if necessary. It routes
// to the key-addressed map when q denotes a bare Key, and to the
// query-addressed map otherwise.
func (s *Store) GetAsset(ctx context.Context, q query.Query) (*Asset, error) {
	if k, ok := q.Key(); ok {
		return s.Get(ctx, k)
	}
	return s.getByQuery(ctx, q)
}

// Get returns the key-addressed Asset for k, creating it -- and, on
// first creation, attaching any recipe the provider has for k -- under
// a singleflight so only one caller performs that work.
func (s *Store) Get(ctx context.Context, k query.Key) (*Asset, error) {
	enc := k.Encode()

	v, err, _ := s.sfKey.Do(enc, func() (any, error) {
		s.mu.Lock()
		if a, ok := s.keyAssets[enc]; ok {
			s.mu.Unlock()
			return a, nil
		}
		a := newKeyAsset(k)
		s.keyAssets[enc] = a
		s.mu.Unlock()

		if s.provider != nil {
			if rec, ok, _ := s.provider.Recipe(ctx, k); ok {
				a.SetRecipe(rec)
			}
		}
		return a, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Asset), nil
}

func (s *Store) getByQuery(ctx context.Context, q query.Query) (*Asset, error) {
	enc := q.Encode()

	v, err, _ := s.sfQuery.Do(enc, func() (any, error) {
		s.mu.Lock()
		if a, ok := s.queryAssets[enc]; ok {
			s.mu.Unlock()
			return a, nil
		}
		a := newAsset(q)
		s.queryAssets[enc] = a
		s.mu.Unlock()
		return a, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Asset), nil
}

// Contains reports whether k has stored bytes or a recipe.
func (s *Store) Contains(ctx context.Context, k query.Key) (bool, error) {
	if ok, err := s.bytes.Contains(ctx, k); err == nil && ok {
		return true, nil
	}
	if s.provider != nil {
		if ok, _ := s.provider.Contains(ctx, k); ok {
			return true, nil
		}
	}
	return false, nil
}

// Listdir returns the union of byte-store names and recipe-provided
// names at k, deduplicated and sorted.
func (s *Store) Listdir(ctx context.Context, k query.Key) ([]string, error) {
	seen := map[string]bool{}

	if names, err := s.bytes.Listdir(ctx, k); err == nil {
		for _, n := range names {
			seen[n] = true
		}
	}
	if s.provider != nil {
		if names, err := s.provider.Names(ctx, k); err == nil {
			for _, n := range names {
				seen[n] = true
			}
		}
	}

	out := make([]string, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	sort.Strings(out)
	return out, nil
}

// ListdirKeysDeep performs a depth-first walk from k, injecting
// recipe-provided names into every discovered subdirectory in addition
// to the byte store's own contents.
func (s *Store) ListdirKeysDeep(ctx context.Context, k query.Key) ([]query.Key, error) {
	seen := map[string]query.Key{}

	var walk func(dir query.Key)
	walk = func(dir query.Key) {
		names, err := s.Listdir(ctx, dir)
		if err != nil {
			return
		}
		for _, n := range names {
			child := dir.JoinName(n)
			enc := child.Encode()
			if _, visited := seen[enc]; visited {
				continue
			}
			seen[enc] = child

			isDir, _ := s.bytes.IsDir(ctx, child)
			hasRecipeNames := false
			if s.provider != nil {
				if rnames, err := s.provider.Names(ctx, child); err == nil && len(rnames) > 0 {
					hasRecipeNames = true
				}
			}
			if isDir || hasRecipeNames {
				walk(child)
			}
		}
	}
	walk(k)

	out := make([]query.Key, 0, len(seen))
	for _, kk := range seen {
		out = append(out, kk)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Encode() < out[j].Encode() })
	return out, nil
}

// Remove is a no-op: the cache is purely in-memory with no explicit
// eviction. Assets are discarded only when the owning Store itself is
// garbage collected; invalidation goes through the Expired status
// instead.
func (s *Store) Remove(ctx context.Context, k query.Key) error {
	return nil
}
