package embedding

import (
	"context"
	"errors"
	"fmt"

	"github.com/DrZ199/Nelsonbook/internal/cache"
	"github.com/DrZ199/Nelsonbook/internal/observability"
	"github.com/DrZ199/Nelsonbook/internal/storage"
)

// BlockEmbedding pairs a content block with its vector.
type BlockEmbedding struct {
	BlockID int64
	Vector  []float32
}

// GenerateStats reports where each vector came from.
type GenerateStats struct {
	Total  int
	Cached int
	Calls  int
}

// Generator produces embeddings for content blocks, consulting the cache
// before calling the API.
type Generator struct {
	embedder  Embedder
	cache     *cache.EmbeddingCache
	batchSize int
	log       *observability.Logger
	// Progress is invoked after each block is resolved.
	Progress func(done, total int)
}

// NewGenerator creates a Generator. The cache may be nil, in which case every
// block goes to the embedder.
func NewGenerator(embedder Embedder, ec *cache.EmbeddingCache, batchSize int, log *observability.Logger) *Generator {
	if batchSize <= 0 {
		batchSize = 75
	}
	if log == nil {
		log = observability.DefaultLogger()
	}
	return &Generator{
		embedder:  embedder,
		cache:     ec,
		batchSize: batchSize,
		log:       log.WithOperation("embed"),
	}
}

// Generate returns one embedding per block, in block order.
func (g *Generator) Generate(ctx context.Context, blocks []*storage.ContentBlock) ([]BlockEmbedding, *GenerateStats, error) {
	stats := &GenerateStats{Total: len(blocks)}
	out := make([]BlockEmbedding, len(blocks))

	// Resolve cache hits first so the API only sees misses.
	var missIdx []int
	for i, b := range blocks {
		out[i].BlockID = b.ID
		if g.cache != nil {
			vec, err := g.cache.Get(ctx, b.Content)
			if err == nil {
				out[i].Vector = vec
				stats.Cached++
				g.report(stats.Cached, len(blocks))
				continue
			}
			if !errors.Is(err, cache.ErrCacheMiss) {
				g.log.Warn().Err(err).Int64("block_id", b.ID).Msg("embedding cache read failed")
			}
		}
		missIdx = append(missIdx, i)
	}

	done := stats.Cached
	for start := 0; start < len(missIdx); start += g.batchSize {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		end := start + g.batchSize
		if end > len(missIdx) {
			end = len(missIdx)
		}

		texts := make([]string, 0, end-start)
		for _, i := range missIdx[start:end] {
			texts = append(texts, blocks[i].Content)
		}

		vecs, err := g.embedder.Embed(ctx, texts)
		if err != nil {
			return nil, nil, fmt.Errorf("embed batch %d-%d: %w", start, end, err)
		}
		if len(vecs) != len(texts) {
			return nil, nil, fmt.Errorf("embed batch %d-%d: got %d vectors for %d texts", start, end, len(vecs), len(texts))
		}
		stats.Calls++

		for j, i := range missIdx[start:end] {
			out[i].Vector = vecs[j]
			if g.cache != nil {
				if err := g.cache.Put(ctx, blocks[i].Content, vecs[j]); err != nil {
					g.log.Warn().Err(err).Int64("block_id", blocks[i].ID).Msg("embedding cache write failed")
				}
			}
			done++
			g.report(done, len(blocks))
		}
	}

	g.log.Info().
		Int("blocks", stats.Total).
		Int("cached", stats.Cached).
		Int("api_calls", stats.Calls).
		Str("model", g.embedder.Model()).
		Msg("embedding generation complete")

	return out, stats, nil
}

func (g *Generator) report(done, total int) {
	if g.Progress != nil {
		g.Progress(done, total)
	}
}
