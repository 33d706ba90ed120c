// Package memory is an in-process kv.Repository, used for ephemeral
// sessions and as the fake backend in tests.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/dmitrijs2005/blogkeeper/internal/kv"
)

type Repository struct {
	mu   sync.RWMutex
	data map[string][]byte
}

var (
	_ kv.Repository = (*Repository)(nil)
	_ kv.Updater    = (*Repository)(nil)
)

func New() *Repository {
	return &Repository{data: make(map[string][]byte)}
}

func (r *Repository) Get(_ context.Context, key string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.data[key]
	if !ok {
		return nil, nil
	}
	return slices.Clone(v), nil
}

func (r *Repository) Set(_ context.Context, key string, value []byte) error {
	r.mu.Lock()
	r.data[key] = slices.Clone(value)
	r.mu.Unlock()
	return nil
}

func (r *Repository) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	delete(r.data, key)
	r.mu.Unlock()
	return nil
}

func (r *Repository) List(_ context.Context) (map[string][]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string][]byte, len(r.data))
	for k, v := range r.data {
		out[k] = slices.Clone(v)
	}
	return out, nil
}

func (r *Repository) Clear(_ context.Context) error {
	r.mu.Lock()
	clear(r.data)
	r.mu.Unlock()
	return nil
}

// Update holds the write lock for the whole read-modify-write cycle.
func (r *Repository) Update(_ context.Context, key string, fn kv.UpdateFunc) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var current []byte
	if v, ok := r.data[key]; ok {
		current = slices.Clone(v)
	}

	next, err := fn(current)
	if err != nil {
		return err
	}
	if next == nil {
		delete(r.data, key)
		return nil
	}
	r.data[key] = slices.Clone(next)
	return nil
}

// Keys returns the stored keys in sorted order.
func (r *Repository) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.data))
}
