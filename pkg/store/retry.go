package store

import (
	"context"

	"github.com/cenkalti/backoff/v5"

	"github.com/liquers-go/liquers/pkg/metadata"
	"github.com/liquers-go/liquers/pkg/query"
)

// RetryingStore wraps a ByteStore's read path with exponential backoff,
// guarding against a transiently unavailable backend.
type RetryingStore struct {
	inner      ByteStore
	maxRetries uint
}

// NewRetryingStore wraps inner, retrying its Get/GetMetadata/Contains
// calls up to maxRetries times with exponential backoff before giving up.
func NewRetryingStore(inner ByteStore, maxRetries uint) *RetryingStore {
	return &RetryingStore{inner: inner, maxRetries: maxRetries}
}

func (r *RetryingStore) retryOpts() []backoff.RetryOption {
	return []backoff.RetryOption{
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(r.maxRetries + 1),
	}
}

func (r *RetryingStore) StoreName() string { return r.inner.StoreName() }
func (r *RetryingStore) KeyPrefix() query.Key { return r.inner.KeyPrefix() }
func (r *RetryingStore) IsSupported(k query.Key) bool { return r.inner.IsSupported(k) }

func (r *RetryingStore) Get(ctx context.Context, key query.Key) ([]byte, error) {
	return backoff.Retry(ctx, func() ([]byte, error) {
		return r.inner.Get(ctx, key)
	}, r.retryOpts()...)
}

func (r *RetryingStore) GetMetadata(ctx context.Context, key query.Key) (metadata.Metadata, error) {
	return backoff.Retry(ctx, func() (metadata.Metadata, error) {
		return r.inner.GetMetadata(ctx, key)
	}, r.retryOpts()...)
}

func (r *RetryingStore) Contains(ctx context.Context, key query.Key) (bool, error) {
	return backoff.Retry(ctx, func() (bool, error) {
		return r.inner.Contains(ctx, key)
	}, r.retryOpts()...)
}

func (r *RetryingStore) IsDir(ctx context.Context, key query.Key) (bool, error) {
	return backoff.Retry(ctx, func() (bool, error) {
		return r.inner.IsDir(ctx, key)
	}, r.retryOpts()...)
}

func (r *RetryingStore) Listdir(ctx context.Context, key query.Key) ([]string, error) {
	return backoff.Retry(ctx, func() ([]string, error) {
		return r.inner.Listdir(ctx, key)
	}, r.retryOpts()...)
}

func (r *RetryingStore) ListdirKeys(ctx context.Context, key query.Key) ([]query.Key, error) {
	return backoff.Retry(ctx, func() ([]query.Key, error) {
		return r.inner.ListdirKeys(ctx, key)
	}, r.retryOpts()...)
}

func (r *RetryingStore) ListdirKeysDeep(ctx context.Context, key query.Key) ([]query.Key, error) {
	return backoff.Retry(ctx, func() ([]query.Key, error) {
		return r.inner.ListdirKeysDeep(ctx, key)
	}, r.retryOpts()...)
}

// Set, SetMetadata, Remove, RemoveDir, and Makedir are not retried: a
// write that times out mid-flight may have partially applied, and
// blindly retrying it could duplicate side effects the inner store
// doesn't make idempotent.
func (r *RetryingStore) Set(ctx context.Context, key query.Key, data []byte) error {
	return r.inner.Set(ctx, key, data)
}

func (r *RetryingStore) SetMetadata(ctx context.Context, key query.Key, m metadata.Metadata) error {
	return r.inner.SetMetadata(ctx, key, m)
}

func (r *RetryingStore) Remove(ctx context.Context, key query.Key) error {
	return r.inner.Remove(ctx, key)
}

func (r *RetryingStore) RemoveDir(ctx context.Context, key query.Key) error {
	return r.inner.RemoveDir(ctx, key)
}

func (r *RetryingStore) Makedir(ctx context.Context, key query.Key) error {
	return r.inner.Makedir(ctx, key)
}
