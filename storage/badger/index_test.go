package badger

import (
	"context"
	"testing"

	"github.com/poiesic/skillsearch/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVectorIndex_UpsertAndQuery(t *testing.T) {
	_, index, backend, err := NewMemoryStore()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	entries := []ai.VectorEntry{
		{Key: "exact", Vector: []float32{1, 0}, Metadata: map[string]string{"title": "Exact"}},
		{Key: "near", Vector: []float32{0.8, 0.6}},
		{Key: "orthogonal", Vector: []float32{0, 1}},
	}
	require.NoError(t, index.UpsertBatch(ctx, entries))

	hits, err := index.Query(ctx, []float32{1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "exact", hits[0].Key)
	assert.InDelta(t, 1.0, hits[0].Similarity, 1e-6)
	assert.Equal(t, "near", hits[1].Key)
	assert.InDelta(t, 0.8, hits[1].Similarity, 1e-6)
	assert.Equal(t, "Exact", hits[0].Metadata["title"])
}

func TestVectorIndex_UpsertIdempotent(t *testing.T) {
	_, index, backend, err := NewMemoryStore()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	entry := ai.VectorEntry{Key: "a", Vector: []float32{1, 0}}
	require.NoError(t, index.UpsertBatch(ctx, []ai.VectorEntry{entry}))
	require.NoError(t, index.UpsertBatch(ctx, []ai.VectorEntry{entry}))

	hits, err := index.Query(ctx, []float32{1, 0}, 10)
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestVectorIndex_UpsertReplaces(t *testing.T) {
	_, index, backend, err := NewMemoryStore()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	require.NoError(t, index.UpsertBatch(ctx, []ai.VectorEntry{
		{Key: "a", Vector: []float32{1, 0}},
	}))
	require.NoError(t, index.UpsertBatch(ctx, []ai.VectorEntry{
		{Key: "a", Vector: []float32{0, 1}},
	}))

	hits, err := index.Query(ctx, []float32{0, 1}, 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.InDelta(t, 1.0, hits[0].Similarity, 1e-6)
}

func TestVectorIndex_TopKBounds(t *testing.T) {
	_, index, backend, err := NewMemoryStore()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	require.NoError(t, index.UpsertBatch(ctx, []ai.VectorEntry{
		{Key: "a", Vector: []float32{1, 0}},
		{Key: "b", Vector: []float32{0, 1}},
	}))

	hits, err := index.Query(ctx, []float32{1, 0}, 10)
	require.NoError(t, err)
	assert.Len(t, hits, 2, "fewer entries than topK returns all")

	hits, err = index.Query(ctx, []float32{1, 0}, 0)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestVectorIndex_EmptyIndex(t *testing.T) {
	_, index, backend, err := NewMemoryStore()
	require.NoError(t, err)
	defer backend.Close()

	hits, err := index.Query(context.Background(), []float32{1, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
}
