package cache

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/matzehuels/standardize/pkg/observability"
)

// ErrUnknownKey is returned by [Memo.Fetch] when no producer is bound to the
// requested key.
var ErrUnknownKey = errors.New("unknown cache key")

// Producer computes the value for one Memo key.
type Producer func(ctx context.Context) (any, error)

// Memo is a memoizing key-value store whose keys are fixed at construction,
// each bound to the producer that computes its value.
//
// A successful producer runs at most once per Memo; every later Fetch of the
// same key returns the stored value. A failed producer leaves its key
// uncached, so the next Fetch runs it again.
//
// A Memo is owned by a single analysis and is not safe for concurrent use.
type Memo struct {
	producers map[string]Producer
	values    map[string]any
	hooks     observability.CacheHooks
}

// NewMemo creates a Memo over the given producers.
// The map is copied; later changes to it do not affect the Memo.
func NewMemo(producers map[string]Producer, hooks observability.CacheHooks) *Memo {
	if hooks == nil {
		hooks = observability.NoopCacheHooks{}
	}
	return &Memo{
		producers: maps.Clone(producers),
		values:    make(map[string]any, len(producers)),
		hooks:     hooks,
	}
}

// Fetch returns the value for key, running its producer only if the value
// has not been computed yet. Returns an error wrapping ErrUnknownKey if no
// producer is bound to key, or the producer's error unchanged.
func (m *Memo) Fetch(ctx context.Context, key string) (any, error) {
	if v, ok := m.values[key]; ok {
		m.hooks.OnCacheHit(ctx, key)
		return v, nil
	}

	produce, ok := m.producers[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}

	m.hooks.OnCacheMiss(ctx, key)
	v, err := produce(ctx)
	if err != nil {
		m.hooks.OnCacheError(ctx, key, err)
		return nil, err
	}
	m.values[key] = v
	return v, nil
}

// Cached reports whether key already holds a computed value.
func (m *Memo) Cached(key string) bool {
	_, ok := m.values[key]
	return ok
}

// Keys returns the bound keys in sorted order.
func (m *Memo) Keys() []string {
	return slices.Sorted(maps.Keys(m.producers))
}

// Fetch is the typed form of [Memo.Fetch]. It returns an error if the stored
// value is not a T.
func Fetch[T any](ctx context.Context, m *Memo, key string) (T, error) {
	var zero T
	v, err := m.Fetch(ctx, key)
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("cache key %s holds %T, not %T", key, v, zero)
	}
	return typed, nil
}
