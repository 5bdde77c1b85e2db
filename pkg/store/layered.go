package store

import (
	"context"
	"sort"

	"github.com/hashicorp/go-multierror"

	"github.com/liquers-go/liquers/pkg/metadata"
	"github.com/liquers-go/liquers/pkg/query"
)

// LayeredStore composes several ByteStores into one read-through view:
// reads try each layer in order and return the first hit; writes and
// deletes apply only to the first (primary) layer.
type LayeredStore struct {
	layers []ByteStore
}

// NewLayeredStore builds a LayeredStore with primary as layers[0] and
// the rest consulted, in order, only on read misses.
func NewLayeredStore(layers ...ByteStore) *LayeredStore {
	return &LayeredStore{layers: layers}
}

func (l *LayeredStore) primary() ByteStore {
	if len(l.layers) == 0 {
		return nil
	}
	return l.layers[0]
}

func (l *LayeredStore) StoreName() string { return "layered" }
func (l *LayeredStore) KeyPrefix() query.Key {
	if p := l.primary(); p != nil {
		return p.KeyPrefix()
	}
	return query.Key{}
}

func (l *LayeredStore) IsSupported(key query.Key) bool {
	for _, s := range l.layers {
		if s.IsSupported(key) {
			return true
		}
	}
	return false
}

func (l *LayeredStore) Get(ctx context.Context, key query.Key) ([]byte, error) {
	var errs *multierror.Error
	for _, s := range l.layers {
		data, err := s.Get(ctx, key)
		if err == nil {
			return data, nil
		}
		errs = multierror.Append(errs, err)
	}
	return nil, errs.ErrorOrNil()
}

func (l *LayeredStore) GetMetadata(ctx context.Context, key query.Key) (metadata.Metadata, error) {
	var errs *multierror.Error
	for _, s := range l.layers {
		m, err := s.GetMetadata(ctx, key)
		if err == nil {
			return m, nil
		}
		errs = multierror.Append(errs, err)
	}
	return nil, errs.ErrorOrNil()
}

func (l *LayeredStore) Set(ctx context.Context, key query.Key, data []byte) error {
	return l.primary().Set(ctx, key, data)
}

func (l *LayeredStore) SetMetadata(ctx context.Context, key query.Key, m metadata.Metadata) error {
	return l.primary().SetMetadata(ctx, key, m)
}

func (l *LayeredStore) Remove(ctx context.Context, key query.Key) error {
	return l.primary().Remove(ctx, key)
}

func (l *LayeredStore) RemoveDir(ctx context.Context, key query.Key) error {
	return l.primary().RemoveDir(ctx, key)
}

func (l *LayeredStore) Contains(ctx context.Context, key query.Key) (bool, error) {
	for _, s := range l.layers {
		ok, err := s.Contains(ctx, key)
		if err == nil && ok {
			return true, nil
		}
	}
	return false, nil
}

func (l *LayeredStore) IsDir(ctx context.Context, key query.Key) (bool, error) {
	for _, s := range l.layers {
		ok, err := s.IsDir(ctx, key)
		if err == nil && ok {
			return true, nil
		}
	}
	return false, nil
}

func (l *LayeredStore) Listdir(ctx context.Context, key query.Key) ([]string, error) {
	seen := map[string]bool{}
	for _, s := range l.layers {
		names, err := s.Listdir(ctx, key)
		if err != nil {
			continue
		}
		for _, n := range names {
			seen[n] = true
		}
	}
	out := make([]string, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	sort.Strings(out)
	return out, nil
}

func (l *LayeredStore) ListdirKeys(ctx context.Context, key query.Key) ([]query.Key, error) {
	names, err := l.Listdir(ctx, key)
	if err != nil {
		return nil, err
	}
	keys := make([]query.Key, len(names))
	for i, n := range names {
		keys[i] = key.JoinName(n)
	}
	return keys, nil
}

func (l *LayeredStore) ListdirKeysDeep(ctx context.Context, key query.Key) ([]query.Key, error) {
	seen := map[string]query.Key{}
	for _, s := range l.layers {
		keys, err := s.ListdirKeysDeep(ctx, key)
		if err != nil {
			continue
		}
		for _, k := range keys {
			seen[k.Encode()] = k
		}
	}
	out := make([]query.Key, 0, len(seen))
	for _, k := range seen {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Encode() < out[j].Encode() })
	return out, nil
}

func (l *LayeredStore) Makedir(ctx context.Context, key query.Key) error {
	return l.primary().Makedir(ctx, key)
}
