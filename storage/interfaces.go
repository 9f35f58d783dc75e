package storage

import (
	"context"

	"github.com/poiesic/skillsearch/core"
)

// EmbeddingRepository is the persistent store of per-skill embedding
// records. It is the source of truth for change detection between sync
// runs. Implementations must be thread-safe.
type EmbeddingRepository interface {
	// LoadAll returns every persisted embedding record keyed by skill id.
	// The second return value reports whether the store has ever been
	// written: false means a true first run, which callers must treat
	// differently from an empty-but-initialized store.
	LoadAll(ctx context.Context) (map[string]*core.EmbeddingRecord, bool, error)

	// SaveAll upserts the given records and updates the store metadata in
	// a single transaction. Either all records land or none do; a failed
	// save never leaves the store half-written.
	SaveAll(ctx context.Context, records []*core.EmbeddingRecord) error

	// Get retrieves a single record by skill id.
	// Returns ErrNotFound if the record doesn't exist.
	Get(ctx context.Context, id string) (*core.EmbeddingRecord, error)

	// Delete removes records by skill id. Missing ids are ignored.
	Delete(ctx context.Context, ids ...string) error

	// Count returns the number of persisted records.
	Count(ctx context.Context) (int, error)

	// Meta returns the store metadata, or ErrNotFound if the store has
	// never been written.
	Meta(ctx context.Context) (*core.StoreMeta, error)

	// Close closes the storage backend and releases resources.
	Close() error
}
