// Package asset implements the asset store: a deduplicated,
// in-flight-safe registry of assets keyed by Query or Key, integrating
// the recipe provider and byte store.
package asset

import (
	"sync"

	"github.com/google/uuid"

	"github.com/liquers-go/liquers/pkg/metadata"
	"github.com/liquers-go/liquers/pkg/query"
	"github.com/liquers-go/liquers/pkg/recipe"
	"github.com/liquers-go/liquers/pkg/value"

	"github.com/liquers-go/liquers/pkg/asset/broadcast"
)

// Data is the mutable state one Asset carries. It is never exposed
// directly -- all access goes through Asset's lock-guarded accessors.
type Data struct {
	Query query.Query
	// Key is set only for assets created through Store.Get(k) -- the
	// key-addressed path -- and is nil for assets created through
	// Store.GetAsset(q) with a non-bare query. It lets the interpreter
	// recover the Key a key-routed asset was opened for, to walk the
	// byte-store/recipe/plan provenance chain.
	Key      *query.Key
	Value    value.Value
	Binary   []byte
	Metadata metadata.Metadata
	Recipe   *recipe.Recipe
}

// Asset is a shared handle to one in-flight or finished computation;
// its inner Data is mutated only under its own write lock.
type Asset struct {
	mu          sync.RWMutex
	data        Data
	status      metadata.Status
	broadcaster *broadcast.Broadcaster
	traceID     string

	evalMu    sync.Mutex
	evaluated bool
	evalErr   error
}

// newAsset returns a fresh Asset in StatusNone for q. It is stamped with
// a random trace ID -- an identifier for this in-flight or finished
// computation that has no bearing on the cache fingerprint itself (that
// is q's or k's encoded form) but lets diagnostics correlate every log
// line and status transition belonging to one asset.
func newAsset(q query.Query) *Asset {
	return &Asset{
		data:        Data{Query: q, Metadata: metadata.NewRecord(q)},
		status:      metadata.StatusNone,
		broadcaster: broadcast.New(),
		traceID:     uuid.NewString(),
	}
}

// newKeyAsset returns a fresh Asset opened through the key-addressed
// path. Its Data.Query stays empty; Data.Key records k so later
// materialisation can walk the byte-store/recipe/plan provenance chain.
func newKeyAsset(k query.Key) *Asset {
	a := newAsset(query.Query{})
	a.data.Key = &k
	return a
}

// TraceID returns this asset's diagnostic correlation identifier.
func (a *Asset) TraceID() string {
	return a.traceID
}

// Status returns the asset's current lifecycle status.
func (a *Asset) Status() metadata.Status {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.status
}

// Transition advances the asset to status, publishing a status-changed
// message on success. It acquires the asset's write lock, updates the
// stored metadata status, then broadcasts outside the lock.
func (a *Asset) Transition(status metadata.Status) error {
	a.mu.Lock()
	if !metadata.CanTransition(a.status, status) {
		from := a.status
		a.mu.Unlock()
		return &metadata.ErrIllegalTransition{From: from, To: status}
	}
	a.status = status
	if rec, ok := a.data.Metadata.(*metadata.Record); ok {
		rec.Status = status
	}
	a.mu.Unlock()

	a.broadcaster.Publish(broadcast.Message{Status: status})
	return nil
}

// Subscribe registers a listener for this asset's status transitions.
func (a *Asset) Subscribe() (<-chan broadcast.Message, func()) {
	return a.broadcaster.Subscribe()
}

// Value returns the asset's computed value, if any has been set.
func (a *Asset) Value() (value.Value, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.data.Value, a.data.Value != nil
}

// SetValue stores the asset's computed value.
func (a *Asset) SetValue(v value.Value) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.data.Value = v
}

// Binary returns the asset's raw byte payload, if any has been set.
func (a *Asset) Binary() ([]byte, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.data.Binary, a.data.Binary != nil
}

// SetBinary stores the asset's raw byte payload.
func (a *Asset) SetBinary(b []byte) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.data.Binary = b
}

// Metadata returns the asset's metadata record.
func (a *Asset) Metadata() metadata.Metadata {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.data.Metadata
}

// SetMetadata replaces the asset's metadata. Subsequent Transition calls
// record their status into the new metadata, so callers installing an
// evaluation's final record should do so before the terminal transition.
func (a *Asset) SetMetadata(m metadata.Metadata) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.data.Metadata = m
}

// Recipe returns the recipe attached to this asset, if any.
func (a *Asset) Recipe() (*recipe.Recipe, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.data.Recipe, a.data.Recipe != nil
}

// SetRecipe attaches rec to the asset.
func (a *Asset) SetRecipe(rec *recipe.Recipe) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.data.Recipe = rec
}

// Query returns the query this asset was created for.
func (a *Asset) Query() query.Query {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.data.Query
}

// Key returns the Key this asset was opened for, if it was created
// through the key-addressed path (Store.Get) rather than Store.GetAsset
// with a non-bare query.
func (a *Asset) Key() (query.Key, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.data.Key == nil {
		return query.Key{}, false
	}
	return *a.data.Key, true
}

// EnsureEvaluated runs compute at most once for this asset's lifetime,
// serialising concurrent callers behind a single materialisation -- the
// evaluation-time counterpart to Store's singleflight-guarded
// get-or-insert, extending at-most-one-materialisation-per-fingerprint
// to cover the compute itself, not just asset creation. Later callers,
// and callers after the first completes, observe the same cached value
// or error.
func (a *Asset) EnsureEvaluated(compute func() (value.Value, error)) (value.Value, error) {
	a.evalMu.Lock()
	defer a.evalMu.Unlock()

	if a.evaluated {
		v, _ := a.Value()
		return v, a.evalErr
	}

	v, err := compute()
	a.evaluated = true
	a.evalErr = err
	if err == nil {
		a.SetValue(v)
	}
	return v, err
}
