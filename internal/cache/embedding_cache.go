package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// EmbeddingCache stores embedding vectors keyed by a content hash, so a rerun
// over an unchanged corpus skips the API entirely.
type EmbeddingCache struct {
	client Client
	model  string
	ttl    time.Duration
}

// NewEmbeddingCache creates an embedding cache scoped to the given model.
func NewEmbeddingCache(client Client, model string, ttl time.Duration) *EmbeddingCache {
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &EmbeddingCache{
		client: client,
		model:  model,
		ttl:    ttl,
	}
}

// Key derives the cache key for a piece of content. Two blocks with identical
// text share a key; changing the model invalidates every entry.
func (c *EmbeddingCache) Key(content string) string {
	sum := sha256.Sum256([]byte(c.model + "\x00" + content))
	return CacheKey("emb", hex.EncodeToString(sum[:]))
}

// Get returns the cached vector for content, or ErrCacheMiss.
func (c *EmbeddingCache) Get(ctx context.Context, content string) ([]float32, error) {
	data, err := c.client.Get(ctx, c.Key(content))
	if err != nil {
		return nil, err
	}

	var vec []float32
	if err := json.Unmarshal(data, &vec); err != nil {
		return nil, fmt.Errorf("unmarshal cached embedding: %w", err)
	}
	return vec, nil
}

// Put stores the vector for content.
func (c *EmbeddingCache) Put(ctx context.Context, content string, vec []float32) error {
	data, err := json.Marshal(vec)
	if err != nil {
		return fmt.Errorf("marshal embedding: %w", err)
	}
	return c.client.Set(ctx, c.Key(content), data, c.ttl)
}
