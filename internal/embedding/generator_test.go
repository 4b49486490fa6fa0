package embedding

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DrZ199/Nelsonbook/internal/cache"
	"github.com/DrZ199/Nelsonbook/internal/storage"
)

func blocks(contents ...string) []*storage.ContentBlock {
	out := make([]*storage.ContentBlock, len(contents))
	for i, c := range contents {
		out[i] = &storage.ContentBlock{ID: int64(i + 1), SectionID: 1, Content: c}
	}
	return out
}

// countingEmbedder wraps MockClient and records how many texts it saw.
type countingEmbedder struct {
	*MockClient
	embedded int
}

func (c *countingEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	c.embedded += len(texts)
	return c.MockClient.Embed(ctx, texts)
}

func TestGenerate_OneVectorPerBlock(t *testing.T) {
	gen := NewGenerator(NewMockClient(8), nil, 2, nil)

	out, stats, err := gen.Generate(context.Background(), blocks("fever", "croup", "asthma"))
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 0, stats.Cached)
	assert.Equal(t, 2, stats.Calls)
	for i, be := range out {
		assert.Equal(t, int64(i+1), be.BlockID)
		assert.Len(t, be.Vector, 8)
	}
}

func TestGenerate_SecondRunIsFullyCached(t *testing.T) {
	mock := &countingEmbedder{MockClient: NewMockClient(8)}
	ec := cache.NewEmbeddingCache(cache.NewMemoryClient(100), mock.Model(), time.Hour)
	gen := NewGenerator(mock, ec, 10, nil)

	in := blocks("fever", "croup")
	first, _, err := gen.Generate(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, 2, mock.embedded)

	second, stats, err := gen.Generate(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, 2, mock.embedded, "cached run must not call the API")
	assert.Equal(t, 2, stats.Cached)
	assert.Equal(t, 0, stats.Calls)
	assert.Equal(t, first, second)
}

func TestGenerate_ProgressCoversEveryBlock(t *testing.T) {
	gen := NewGenerator(NewMockClient(4), nil, 2, nil)

	var calls []int
	gen.Progress = func(done, total int) {
		assert.Equal(t, 5, total)
		calls = append(calls, done)
	}

	_, _, err := gen.Generate(context.Background(), blocks("a", "b", "c", "d", "e"))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, calls)
}

func TestGenerate_ContextCancellation(t *testing.T) {
	gen := NewGenerator(NewMockClient(4), nil, 1, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := gen.Generate(ctx, blocks("a", "b"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGenerate_EmptyInput(t *testing.T) {
	gen := NewGenerator(NewMockClient(4), nil, 10, nil)

	out, stats, err := gen.Generate(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Equal(t, 0, stats.Total)
}
