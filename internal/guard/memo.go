package guard

import (
	"context"
	"fmt"

	"golang.org/x/sync/singleflight"
)

// Backend is the durable store behind a Memo. Load reports whether a
// value exists; Store persists a computed value and returns what was stored.
type Backend[K comparable, V any] interface {
	Load(ctx context.Context, key K) (V, bool, error)
	Store(ctx context.Context, key K, value V) (V, error)
}

// Memo computes a value at most once per key: a stored value is returned
// as is, a missing one is computed and stored. Concurrent callers for the
// same key inside this process share a single load/compute/store.
type Memo[K comparable, V any] struct {
	backend Backend[K, V]
	group   singleflight.Group
}

// NewMemo creates a Memo over backend.
func NewMemo[K comparable, V any](backend Backend[K, V]) *Memo[K, V] {
	return &Memo[K, V]{backend: backend}
}

type memoResult[V any] struct {
	value V
	hit   bool
}

// FetchOrCompute returns the stored value for key, or runs compute, stores
// its result and returns that. hit is true when no computation took place.
// The shared work runs detached from the caller's cancellation so one
// caller giving up does not fail the others waiting on the same key.
func (m *Memo[K, V]) FetchOrCompute(ctx context.Context, key K, compute func(context.Context) (V, error)) (V, bool, error) {
	ch := m.group.DoChan(fmt.Sprint(key), func() (_ interface{}, err error) {
		// DoChan runs this on its own goroutine, out of reach of HTTP recovery.
		defer func() {
			if p := recover(); p != nil {
				err = fmt.Errorf("compute %v: panic: %v", key, p)
			}
		}()
		work := context.WithoutCancel(ctx)

		v, ok, err := m.backend.Load(work, key)
		if err != nil {
			return nil, fmt.Errorf("load %v: %w", key, err)
		}
		if ok {
			return memoResult[V]{value: v, hit: true}, nil
		}

		v, err = compute(work)
		if err != nil {
			return nil, err
		}
		stored, err := m.backend.Store(work, key, v)
		if err != nil {
			return nil, fmt.Errorf("store %v: %w", key, err)
		}
		return memoResult[V]{value: stored}, nil
	})

	var zero V
	select {
	case <-ctx.Done():
		return zero, false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, false, res.Err
		}
		r := res.Val.(memoResult[V])
		return r.value, r.hit, nil
	}
}
