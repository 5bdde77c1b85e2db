// Package store defines the byte-level storage contract the core
// depends on but never implements directly. Only the key-value +
// directory contract lives here; filesystem, object-storage, and other
// backends live outside this module.
package store

import (
	"context"
	"errors"

	"github.com/liquers-go/liquers/pkg/metadata"
	"github.com/liquers-go/liquers/pkg/query"
)

// Sentinel errors a ByteStore implementation returns (optionally
// wrapped with the key and store name) so callers can discriminate
// failure modes with errors.Is.
var (
	ErrKeyNotFound     = errors.New("store: key not found")
	ErrKeyNotSupported = errors.New("store: operation not supported for this key")
	ErrKeyReadError    = errors.New("store: read error")
	ErrKeyWriteError   = errors.New("store: write error")
)

// ByteStore is the narrow interface the asset store and recipe provider
// consult for stored bytes and per-key metadata. Every method that can
// block takes a context first.
type ByteStore interface {
	// Get returns the stored bytes at key.
	Get(ctx context.Context, key query.Key) ([]byte, error)
	// GetMetadata returns the metadata record stored alongside key.
	GetMetadata(ctx context.Context, key query.Key) (metadata.Metadata, error)
	// Set stores data at key, creating any implied directories.
	Set(ctx context.Context, key query.Key, data []byte) error
	// SetMetadata stores (or replaces) key's metadata record.
	SetMetadata(ctx context.Context, key query.Key, m metadata.Metadata) error
	// Remove deletes the single entry at key.
	Remove(ctx context.Context, key query.Key) error
	// RemoveDir deletes key and everything stored under it.
	RemoveDir(ctx context.Context, key query.Key) error
	// Contains reports whether key has stored bytes.
	Contains(ctx context.Context, key query.Key) (bool, error)
	// IsDir reports whether key addresses a directory (has children)
	// rather than a leaf entry.
	IsDir(ctx context.Context, key query.Key) (bool, error)
	// Listdir lists the immediate child names under key, sorted.
	Listdir(ctx context.Context, key query.Key) ([]string, error)
	// ListdirKeys lists the immediate child keys under key, sorted.
	ListdirKeys(ctx context.Context, key query.Key) ([]query.Key, error)
	// ListdirKeysDeep lists every descendant key under key, depth-first.
	ListdirKeysDeep(ctx context.Context, key query.Key) ([]query.Key, error)
	// Makedir ensures key exists as an (empty) directory.
	Makedir(ctx context.Context, key query.Key) error
	// IsSupported reports whether this store can serve key at all --
	// some backends partition the key space.
	IsSupported(key query.Key) bool
	// KeyPrefix returns the key prefix this store is mounted under, or
	// the empty Key if it serves the whole namespace.
	KeyPrefix() query.Key
	// StoreName identifies the backend for diagnostics and StoreError.
	StoreName() string
}
