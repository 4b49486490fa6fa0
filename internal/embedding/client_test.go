package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{
		APIKey:     "test-key",
		BaseURL:    srv.URL,
		Model:      "test-model",
		Dimension:  3,
		MaxRetries: 2,
		RetryDelay: time.Millisecond,
	})
	require.NoError(t, err)
	return c
}

func embeddingsOK(texts int, dim int) EmbeddingResponse {
	resp := EmbeddingResponse{Object: "list"}
	for i := 0; i < texts; i++ {
		vec := make([]float32, dim)
		vec[0] = float32(i + 1)
		resp.Data = append(resp.Data, EmbeddingData{Object: "embedding", Embedding: vec, Index: i})
	}
	return resp
}

func TestEmbed_OrdersByIndex(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req EmbeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)

		// Return data out of order to exercise index-based placement.
		resp := embeddingsOK(len(req.Input), 3)
		resp.Data[0], resp.Data[1] = resp.Data[1], resp.Data[0]
		_ = json.NewEncoder(w).Encode(resp)
	})

	vecs, err := c.Embed(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	require.Len(t, vecs, 2)
	assert.Equal(t, float32(1), vecs[0][0])
	assert.Equal(t, float32(2), vecs[1][0])
}

func TestEmbed_RetriesRateLimit(t *testing.T) {
	attempts := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_ = json.NewEncoder(w).Encode(embeddingsOK(1, 3))
	})

	vecs, err := c.Embed(context.Background(), []string{"a"})
	require.NoError(t, err)
	assert.Len(t, vecs, 1)
	assert.Equal(t, 2, attempts)
}

func TestEmbed_RateLimitExhaustsRetries(t *testing.T) {
	attempts := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := c.Embed(context.Background(), []string{"a"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
	assert.Equal(t, 3, attempts)
}

func TestEmbed_APIErrorIsNotRetried(t *testing.T) {
	attempts := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(EmbeddingResponse{
			Error: &EmbeddingError{Message: "bad input", Type: "invalid_request"},
		})
	})

	_, err := c.Embed(context.Background(), []string{"a"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad input")
	assert.Equal(t, 1, attempts)
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	_, err := NewClient(Config{})
	assert.Error(t, err)
}

func TestMockClient_Deterministic(t *testing.T) {
	mc := NewMockClient(8)

	a, err := mc.EmbedSingle(context.Background(), "asthma")
	require.NoError(t, err)
	b, err := mc.EmbedSingle(context.Background(), "asthma")
	require.NoError(t, err)
	other, err := mc.EmbedSingle(context.Background(), "croup")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, other)
	assert.Len(t, a, 8)
}
