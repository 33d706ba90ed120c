package kv_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/blogkeeper/internal/kv"
)

// plainRepo deliberately does not implement kv.Updater.
type plainRepo struct {
	data   map[string][]byte
	getErr error
}

func (p *plainRepo) Get(_ context.Context, key string) ([]byte, error) {
	if p.getErr != nil {
		return nil, p.getErr
	}
	return p.data[key], nil
}

func (p *plainRepo) Set(_ context.Context, key string, value []byte) error {
	p.data[key] = value
	return nil
}

func (p *plainRepo) Delete(_ context.Context, key string) error {
	delete(p.data, key)
	return nil
}

func (p *plainRepo) List(_ context.Context) (map[string][]byte, error) { return p.data, nil }

func (p *plainRepo) Clear(_ context.Context) error {
	p.data = map[string][]byte{}
	return nil
}

func TestMutate_FallbackGetSet(t *testing.T) {
	repo := &plainRepo{data: map[string][]byte{"k": []byte("a")}}
	ctx := context.Background()

	require.NoError(t, kv.Mutate(ctx, repo, "k", func(cur []byte) ([]byte, error) {
		return append(cur, 'b'), nil
	}))
	assert.Equal(t, []byte("ab"), repo.data["k"])

	require.NoError(t, kv.Mutate(ctx, repo, "k", func(cur []byte) ([]byte, error) { return nil, nil }))
	_, ok := repo.data["k"]
	assert.False(t, ok)
}

func TestMutate_PropagatesErrors(t *testing.T) {
	ctx := context.Background()

	failing := &plainRepo{data: map[string][]byte{}, getErr: errors.New("io")}
	err := kv.Mutate(ctx, failing, "k", func(cur []byte) ([]byte, error) { return []byte("x"), nil })
	require.EqualError(t, err, "io")

	repo := &plainRepo{data: map[string][]byte{"k": []byte("keep")}}
	reject := errors.New("reject")
	err = kv.Mutate(ctx, repo, "k", func(cur []byte) ([]byte, error) { return nil, reject })
	require.ErrorIs(t, err, reject)
	assert.Equal(t, []byte("keep"), repo.data["k"])
}
