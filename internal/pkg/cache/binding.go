package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// Fetcher produces a value of type T, typically by calling a remote API.
type Fetcher[T any] func(ctx context.Context) (T, error)

// Binding ties a fetcher to a cache key derived from an operation name and a
// canonical serialization of its parameters. Distinct parameter sets map to
// distinct keys; identical ones always share an entry.
type Binding[T any] struct {
	store   *Store
	key     string
	ttl     time.Duration
	fetcher Fetcher[T]
}

// NewBinding creates a read-through binding. params may be nil for
// parameterless operations. A zero ttl falls back to DefaultTTL.
func NewBinding[T any](store *Store, operation string, params any, ttl time.Duration, fetcher Fetcher[T]) *Binding[T] {
	return &Binding[T]{
		store:   store,
		key:     Key(operation, params),
		ttl:     ttl,
		fetcher: fetcher,
	}
}

// Key derives a deterministic cache key from an operation name and its
// parameters. Map parameters serialize with sorted keys (encoding/json), so
// the same parameter set always produces the same key.
func Key(operation string, params any) string {
	if params == nil {
		return operation + "-{}"
	}
	b, err := json.Marshal(canonical(params))
	if err != nil {
		return fmt.Sprintf("%s-%v", operation, params)
	}
	return operation + "-" + string(b)
}

// canonical flattens structs through JSON into maps so field order never
// leaks into the key.
func canonical(params any) any {
	b, err := json.Marshal(params)
	if err != nil {
		return params
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return params
	}
	// Drop nil values so {"search": null} and absent search share a key.
	keys := make([]string, 0, len(m))
	for k, v := range m {
		if v == nil {
			delete(m, k)
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return m
}

// CacheKey returns the derived cache key.
func (b *Binding[T]) CacheKey() string {
	return b.key
}

// Fetch is the read-through path: it returns the cached value when fresh,
// otherwise invokes the fetcher, stores the result, and returns it. A fetcher
// error propagates without touching the cache, so a failed fetch never
// poisons it.
func (b *Binding[T]) Fetch(ctx context.Context) (T, error) {
	if cached, ok := b.store.Get(b.key); ok {
		if v, ok := cached.(T); ok {
			return v, nil
		}
		// Type drifted across a redeploy of the same key; drop and refetch.
		b.store.Delete(b.key)
	}
	return b.Refresh(ctx)
}

// Refresh always invokes the fetcher, bypassing the cache read, and
// overwrites the entry with the fresh result.
func (b *Binding[T]) Refresh(ctx context.Context) (T, error) {
	v, err := b.fetcher(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	b.store.Set(b.key, v, b.ttl)
	return v, nil
}
