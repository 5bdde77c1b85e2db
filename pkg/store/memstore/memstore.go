// Package memstore is the in-memory reference ByteStore implementation:
// a single process-local map guarded by a mutex. It never touches disk.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/liquers-go/liquers/pkg/metadata"
	"github.com/liquers-go/liquers/pkg/query"
	"github.com/liquers-go/liquers/pkg/store"
)

type entry struct {
	data []byte
	meta metadata.Metadata
}

// Store is a flat, process-local ByteStore. It never partitions the key
// space, so IsSupported always returns true and KeyPrefix is empty.
type Store struct {
	mu      sync.RWMutex
	entries map[string]*entry
	name    string
}

// New returns an empty Store identified by name in diagnostics.
func New(name string) *Store {
	return &Store{entries: make(map[string]*entry), name: name}
}

func (s *Store) StoreName() string { return s.name }
func (s *Store) KeyPrefix() query.Key { return query.Key{} }
func (s *Store) IsSupported(query.Key) bool { return true }

func (s *Store) Get(_ context.Context, key query.Key) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key.Encode()]
	if !ok {
		return nil, &wrapped{store: s.name, key: key, cause: store.ErrKeyNotFound}
	}
	return append([]byte{}, e.data...), nil
}

func (s *Store) GetMetadata(_ context.Context, key query.Key) (metadata.Metadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key.Encode()]
	if !ok || e.meta == nil {
		return nil, &wrapped{store: s.name, key: key, cause: store.ErrKeyNotFound}
	}
	return e.meta, nil
}

func (s *Store) Set(_ context.Context, key query.Key, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	enc := key.Encode()
	e, ok := s.entries[enc]
	if !ok {
		e = &entry{}
		s.entries[enc] = e
	}
	e.data = append([]byte{}, data...)
	return nil
}

func (s *Store) SetMetadata(_ context.Context, key query.Key, m metadata.Metadata) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	enc := key.Encode()
	e, ok := s.entries[enc]
	if !ok {
		e = &entry{}
		s.entries[enc] = e
	}
	e.meta = m
	return nil
}

func (s *Store) Remove(_ context.Context, key query.Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key.Encode())
	return nil
}

func (s *Store) RemoveDir(_ context.Context, key query.Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prefix := key.Encode()
	for k := range s.entries {
		if k == prefix || strings.HasPrefix(k, prefix+"/") {
			delete(s.entries, k)
		}
	}
	return nil
}

func (s *Store) Contains(_ context.Context, key query.Key) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.entries[key.Encode()]
	return ok, nil
}

func (s *Store) IsDir(_ context.Context, key query.Key) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	prefix := key.Encode()
	for k := range s.entries {
		if k != prefix && strings.HasPrefix(k, childPrefix(prefix)) {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) Listdir(_ context.Context, key query.Key) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := map[string]bool{}
	for k := range s.entries {
		name, ok := directChild(k, key.Encode())
		if ok {
			seen[name] = true
		}
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}

func (s *Store) ListdirKeys(ctx context.Context, key query.Key) ([]query.Key, error) {
	names, err := s.Listdir(ctx, key)
	if err != nil {
		return nil, err
	}
	keys := make([]query.Key, len(names))
	for i, n := range names {
		keys[i] = key.JoinName(n)
	}
	return keys, nil
}

func (s *Store) ListdirKeysDeep(_ context.Context, key query.Key) ([]query.Key, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	prefix := childPrefix(key.Encode())
	var keys []query.Key
	for k := range s.entries {
		if strings.HasPrefix(k, prefix) {
			kk, err := query.ParseKey(k)
			if err != nil {
				continue
			}
			keys = append(keys, kk)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Encode() < keys[j].Encode() })
	return keys, nil
}

func (s *Store) Makedir(_ context.Context, key query.Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	enc := key.Encode()
	if _, ok := s.entries[enc]; !ok {
		s.entries[enc] = &entry{}
	}
	return nil
}

func childPrefix(enc string) string {
	if enc == "" {
		return ""
	}
	return enc + "/"
}

// directChild returns the first path element of k below prefix, if k is
// strictly under prefix.
func directChild(k, prefix string) (string, bool) {
	cp := childPrefix(prefix)
	if !strings.HasPrefix(k, cp) {
		return "", false
	}
	rest := k[len(cp):]
	if rest == "" {
		return "", false
	}
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		return rest[:i], true
	}
	return rest, true
}

type wrapped struct {
	store string
	key   query.Key
	cause error
}

func (w *wrapped) Error() string {
	return w.store + ": " + w.key.Encode() + ": " + w.cause.Error()
}

func (w *wrapped) Unwrap() error { return w.cause }
