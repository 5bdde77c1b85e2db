package command

import (
	"context"
	"sync"

	"github.com/liquers-go/liquers/pkg/liquererr"
	"github.com/liquers-go/liquers/pkg/param"
	"github.com/liquers-go/liquers/pkg/query"
	"github.com/liquers-go/liquers/pkg/value"
)

// Executor runs a command synchronously. Synchronous executors may only
// do brief CPU work; anything that blocks on I/O belongs in an
// AsyncExecutor.
type Executor interface {
	Execute(ctx context.Context, state value.Value, args []param.Value) (value.Value, error)
}

// AsyncExecutor runs a command that is expected to block on I/O; this is
// the common case and the one the interpreter prefers when both are
// registered.
type AsyncExecutor interface {
	ExecuteAsync(ctx context.Context, state value.Value, args []param.Value) (value.Value, error)
}

// ExecutorFunc adapts a plain function to the Executor interface.
type ExecutorFunc func(ctx context.Context, state value.Value, args []param.Value) (value.Value, error)

func (f ExecutorFunc) Execute(ctx context.Context, state value.Value, args []param.Value) (value.Value, error) {
	return f(ctx, state, args)
}

// AsyncExecutorFunc adapts a plain function to the AsyncExecutor interface.
type AsyncExecutorFunc func(ctx context.Context, state value.Value, args []param.Value) (value.Value, error)

func (f AsyncExecutorFunc) ExecuteAsync(ctx context.Context, state value.Value, args []param.Value) (value.Value, error) {
	return f(ctx, state, args)
}

type entry struct {
	metadata Metadata
	sync     Executor
	async    AsyncExecutor
}

// Registry holds the sync and async executor maps and the metadata list,
// keyed by Key. It is built once during process initialisation and is
// thereafter read-only in spirit; registering new commands after the
// interpreter has started is not guarded against.
type Registry struct {
	mu      sync.RWMutex
	entries map[Key]*entry
	order   []Key
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[Key]*entry)}
}

func (r *Registry) entryFor(key Key) *entry {
	key = key.Normalize()
	e, ok := r.entries[key]
	if !ok {
		e = &entry{metadata: Metadata{Realm: key.Realm, Namespace: key.Namespace, Name: key.Name}}
		r.entries[key] = e
		r.order = append(r.order, key)
	}
	return e
}

// Register adds a synchronous executor and its metadata to the registry.
// The stored metadata carries the normalized (realm, namespace) so every
// lookup reports the command's canonical identity.
func (r *Registry) Register(meta Metadata, exec Executor) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := meta.CommandKey().Normalize()
	meta.Realm, meta.Namespace = key.Realm, key.Namespace
	e := r.entryFor(key)
	e.metadata = meta
	e.sync = exec
}

// RegisterAsync adds an asynchronous executor and its metadata.
func (r *Registry) RegisterAsync(meta Metadata, exec AsyncExecutor) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := meta.CommandKey().Normalize()
	meta.Realm, meta.Namespace = key.Realm, key.Namespace
	e := r.entryFor(key)
	e.metadata = meta
	e.async = exec
}

// FindCommand looks up a single (realm, namespace, name) triple.
func (r *Registry) FindCommand(realm, namespace, name string) (Metadata, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[Key{Realm: realm, Namespace: namespace, Name: name}.Normalize()]
	if !ok {
		return Metadata{}, false
	}
	return e.metadata, true
}

// FindCommandInNamespaces iterates namespaces in order -- the
// query-derived "ns" parameters first, then "", then "root" -- and
// returns the first command found. First hit wins.
func (r *Registry) FindCommandInNamespaces(realm, name string, namespaces []string) (Metadata, bool) {
	search := append(append([]string{}, namespaces...), "", "root")
	seen := make(map[string]bool, len(search))
	for _, ns := range search {
		if seen[ns] {
			continue
		}
		seen[ns] = true
		if m, ok := r.FindCommand(realm, ns, name); ok {
			return m, true
		}
	}
	return Metadata{}, false
}

// Execute dispatches to the registered synchronous executor.
func (r *Registry) Execute(ctx context.Context, key Key, state value.Value, args []param.Value) (value.Value, error) {
	r.mu.RLock()
	e, ok := r.entries[key.Normalize()]
	r.mu.RUnlock()
	if !ok || e.sync == nil {
		return nil, &liquererr.UnknownCommandExecutor{Realm: key.Realm, Namespace: key.Namespace, Name: key.Name}
	}
	return e.sync.Execute(ctx, state, args)
}

// ExecuteAsync dispatches to the async executor, falling back to the sync
// one if no async executor is registered.
func (r *Registry) ExecuteAsync(ctx context.Context, key Key, state value.Value, args []param.Value) (value.Value, error) {
	r.mu.RLock()
	e, ok := r.entries[key.Normalize()]
	r.mu.RUnlock()
	if !ok {
		return nil, &liquererr.UnknownCommandExecutor{Realm: key.Realm, Namespace: key.Namespace, Name: key.Name}
	}
	if e.async != nil {
		return e.async.ExecuteAsync(ctx, state, args)
	}
	if e.sync != nil {
		return e.sync.Execute(ctx, state, args)
	}
	return nil, &liquererr.UnknownCommandExecutor{Realm: key.Realm, Namespace: key.Namespace, Name: key.Name}
}

// ExecuteAt is like ExecuteAsync but attaches the action's source
// position to an UnknownCommandExecutor error, used by the interpreter
// at dispatch time.
func (r *Registry) ExecuteAt(ctx context.Context, key Key, pos query.Position, state value.Value, args []param.Value) (value.Value, error) {
	v, err := r.ExecuteAsync(ctx, key, state, args)
	if uce, ok := err.(*liquererr.UnknownCommandExecutor); ok {
		uce.Position = pos
	}
	return v, err
}

// All returns the metadata of every registered command, in registration
// order -- used by documentation/introspection front ends.
func (r *Registry) All() []Metadata {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Metadata, 0, len(r.order))
	for _, k := range r.order {
		out = append(out, r.entries[k].metadata)
	}
	return out
}
