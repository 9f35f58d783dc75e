package mock

import (
	"context"
	"maps"
	"sort"
	"sync"

	"github.com/poiesic/skillsearch/ai"
	"github.com/poiesic/skillsearch/core"
)

// MemoryIndex is an in-memory ai.VectorIndex. Upserts are keyed and
// idempotent; Query is a brute-force dot-product scan, which is exact
// cosine similarity as long as callers store unit vectors.
//
// Safe for concurrent use.
type MemoryIndex struct {
	// UpsertFunc is called by UpsertBatch if set, replacing the default
	// behavior. Useful for failure injection in tests.
	UpsertFunc func(ctx context.Context, entries []ai.VectorEntry) error

	// QueryFunc is called by Query if set, replacing the default behavior.
	QueryFunc func(ctx context.Context, vector []float32, topK int) ([]ai.QueryHit, error)

	mu      sync.RWMutex
	entries map[string]ai.VectorEntry
	upserts int
}

// NewMemoryIndex creates an empty in-memory vector index.
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{
		entries: make(map[string]ai.VectorEntry),
	}
}

// UpsertBatch stores or replaces entries by key.
func (m *MemoryIndex) UpsertBatch(ctx context.Context, entries []ai.VectorEntry) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, entries)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.upserts++
	for _, e := range entries {
		stored := ai.VectorEntry{
			Key:    e.Key,
			Vector: append([]float32(nil), e.Vector...),
		}
		if e.Metadata != nil {
			stored.Metadata = maps.Clone(e.Metadata)
		}
		m.entries[e.Key] = stored
	}
	return nil
}

// Query returns up to topK stored entries ranked by similarity to vector,
// highest first. Ties break on key so results are deterministic.
func (m *MemoryIndex) Query(ctx context.Context, vector []float32, topK int) ([]ai.QueryHit, error) {
	if m.QueryFunc != nil {
		return m.QueryFunc(ctx, vector, topK)
	}
	if topK <= 0 {
		return nil, nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	hits := make([]ai.QueryHit, 0, len(m.entries))
	for _, e := range m.entries {
		hits = append(hits, ai.QueryHit{
			Key:        e.Key,
			Similarity: float64(core.DotProduct(vector, e.Vector)),
			Metadata:   e.Metadata,
		})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Similarity != hits[j].Similarity {
			return hits[i].Similarity > hits[j].Similarity
		}
		return hits[i].Key < hits[j].Key
	})

	if len(hits) > topK {
		hits = hits[:topK]
	}
	return hits, nil
}

// Len returns the number of stored entries.
func (m *MemoryIndex) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Get returns the stored entry for key, if present.
func (m *MemoryIndex) Get(key string) (ai.VectorEntry, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[key]
	return e, ok
}

// UpsertCount returns the number of UpsertBatch calls handled by the
// default behavior.
func (m *MemoryIndex) UpsertCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.upserts
}
