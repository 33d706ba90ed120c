// Package kv defines the persistent key-value backend behind the TTL cache
// and the engagement store. Values are opaque JSON documents.
package kv

import "context"

// Repository is a synchronous key-value store. Get returns (nil, nil) when
// the key is absent; any non-nil error is a real backend fault.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}

// UpdateFunc receives the current value (nil when absent) and returns the
// value to store. Returning nil bytes deletes the key; returning an error
// aborts the update and leaves the stored value untouched.
type UpdateFunc func(current []byte) ([]byte, error)

// Updater is implemented by backends that can run a read-modify-write
// cycle atomically.
type Updater interface {
	Update(ctx context.Context, key string, fn UpdateFunc) error
}

// Mutate applies fn to key, atomically when repo implements Updater and as
// a plain Get followed by Set otherwise.
func Mutate(ctx context.Context, repo Repository, key string, fn UpdateFunc) error {
	if u, ok := repo.(Updater); ok {
		return u.Update(ctx, key, fn)
	}

	current, err := repo.Get(ctx, key)
	if err != nil {
		return err
	}
	next, err := fn(current)
	if err != nil {
		return err
	}
	if next == nil {
		return repo.Delete(ctx, key)
	}
	return repo.Set(ctx, key, next)
}
