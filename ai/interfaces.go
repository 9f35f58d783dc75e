package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity
// search. Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates embeddings for multiple texts in one batch.
	// The returned slice corresponds positionally to the input texts.
	// Returns an error if any embedding generation fails; callers treat
	// the whole batch as failed and retry it as a unit.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// VectorEntry is one keyed vector with its size-bounded metadata, as
// accepted by a vector index upsert.
type VectorEntry struct {
	Key      string
	Vector   []float32
	Metadata map[string]string
}

// QueryHit is one result of a vector index query. Similarity is cosine
// similarity on unit vectors.
type QueryHit struct {
	Key        string
	Similarity float64
	Metadata   map[string]string
}

// VectorIndex is the external approximate-nearest-neighbor store.
// Implementations must be thread-safe for concurrent use.
type VectorIndex interface {
	// UpsertBatch writes entries keyed by VectorEntry.Key. Upserts are
	// idempotent: re-uploading an unchanged entry is a no-op in effect,
	// and a later write for a key replaces the earlier one.
	UpsertBatch(ctx context.Context, entries []VectorEntry) error

	// Query returns up to topK entries ranked by similarity to vector,
	// highest first.
	Query(ctx context.Context, vector []float32, topK int) ([]QueryHit, error)
}
