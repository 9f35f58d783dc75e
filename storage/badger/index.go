package badger

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/skillsearch/ai"
	"github.com/poiesic/skillsearch/core"
	"github.com/poiesic/skillsearch/storage"
)

// vectorIndex implements ai.VectorIndex on BadgerDB. Query is a brute-force
// scan over all stored entries, which is exact and fast enough for taxonomy
// sized indexes (thousands of vectors, not millions).
type vectorIndex struct {
	backend *Backend
	logger  *slog.Logger
	mu      sync.Mutex
}

// NewVectorIndex creates a local vector index on the given backend.
// Returns the ai.VectorIndex interface to enforce abstraction.
func NewVectorIndex(backend *Backend) (ai.VectorIndex, error) {
	if backend == nil {
		return nil, storage.ErrStorageClosed
	}
	return &vectorIndex{
		backend: backend,
		logger:  slog.Default().With("component", "badger-index"),
	}, nil
}

func (v *vectorIndex) UpsertBatch(ctx context.Context, entries []ai.VectorEntry) error {
	if v.backend.IsClosed() {
		return storage.ErrStorageClosed
	}
	if len(entries) == 0 {
		return nil
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	return v.backend.WithTx(func(tx *badger.Txn) error {
		for i := range entries {
			data := storage.MarshalVectorEntry(&entries[i])
			if err := tx.Set(makeVectorEntryKey(entries[i].Key), data); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

func (v *vectorIndex) Query(ctx context.Context, vector []float32, topK int) ([]ai.QueryHit, error) {
	if v.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}
	if topK <= 0 {
		return nil, nil
	}

	var hits []ai.QueryHit
	err := v.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(vectorEntryPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				entry, err := storage.UnmarshalVectorEntry(val)
				if err != nil {
					return err
				}
				if len(entry.Vector) == 0 {
					return nil
				}
				hits = append(hits, ai.QueryHit{
					Key:        entry.Key,
					Similarity: float64(core.DotProduct(vector, entry.Vector)),
					Metadata:   entry.Metadata,
				})
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	slices.SortFunc(hits, func(a, b ai.QueryHit) int {
		if a.Similarity != b.Similarity {
			if a.Similarity > b.Similarity {
				return -1
			}
			return 1
		}
		return strings.Compare(a.Key, b.Key)
	})

	if len(hits) > topK {
		hits = hits[:topK]
	}
	return hits, nil
}
