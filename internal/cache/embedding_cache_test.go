package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddingCache_RoundTrip(t *testing.T) {
	ec := NewEmbeddingCache(NewMemoryClient(100), "test-model", time.Hour)
	ctx := context.Background()

	_, err := ec.Get(ctx, "fever management")
	assert.ErrorIs(t, err, ErrCacheMiss)

	vec := []float32{0.1, 0.2, 0.3}
	require.NoError(t, ec.Put(ctx, "fever management", vec))

	got, err := ec.Get(ctx, "fever management")
	require.NoError(t, err)
	assert.Equal(t, vec, got)
}

func TestEmbeddingCache_KeyDependsOnModel(t *testing.T) {
	a := NewEmbeddingCache(NewMemoryClient(100), "model-a", time.Hour)
	b := NewEmbeddingCache(NewMemoryClient(100), "model-b", time.Hour)

	assert.NotEqual(t, a.Key("same text"), b.Key("same text"))
	assert.Equal(t, a.Key("same text"), a.Key("same text"))
}

func TestMemoryClient_Expiry(t *testing.T) {
	c := NewMemoryClient(10)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), -time.Second))
	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryClient_DeleteByPrefix(t *testing.T) {
	c := NewMemoryClient(10)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "emb:1", []byte("a"), time.Hour))
	require.NoError(t, c.Set(ctx, "emb:2", []byte("b"), time.Hour))
	require.NoError(t, c.Set(ctx, "other", []byte("c"), time.Hour))

	require.NoError(t, c.DeleteByPrefix(ctx, "emb:"))

	_, err := c.Get(ctx, "emb:1")
	assert.ErrorIs(t, err, ErrCacheMiss)
	v, err := c.Get(ctx, "other")
	require.NoError(t, err)
	assert.Equal(t, []byte("c"), v)
}
