package badger

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/skillsearch/core"
	"github.com/poiesic/skillsearch/storage"
)

// embeddingRepository implements storage.EmbeddingRepository on BadgerDB.
type embeddingRepository struct {
	backend *Backend
	logger  *slog.Logger

	// mu serializes SaveAll/Delete so the record set and the store
	// metadata always move together.
	mu sync.Mutex
}

// NewEmbeddingRepository creates an embedding repository on the given
// backend. Returns the storage.EmbeddingRepository interface to enforce
// abstraction.
func NewEmbeddingRepository(backend *Backend) (storage.EmbeddingRepository, error) {
	if backend == nil {
		return nil, errors.New("backend is required")
	}
	return &embeddingRepository{
		backend: backend,
		logger:  slog.Default().With("component", "embedding-repo"),
	}, nil
}

func (r *embeddingRepository) LoadAll(ctx context.Context) (map[string]*core.EmbeddingRecord, bool, error) {
	if r.backend.IsClosed() {
		return nil, false, storage.ErrStorageClosed
	}

	records := make(map[string]*core.EmbeddingRecord)
	initialized := false

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		if _, err := tx.Get(makeStoreMetaKey()); err == nil {
			initialized = true
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(embeddingRecordPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				rec, err := storage.UnmarshalEmbeddingRecord(val)
				if err != nil {
					return err
				}
				records[rec.ID] = rec
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, false, err
	}

	r.logger.Debug("loaded embedding records", "count", len(records), "initialized", initialized)
	return records, initialized, nil
}

func (r *embeddingRepository) SaveAll(ctx context.Context, records []*core.EmbeddingRecord) error {
	if r.backend.IsClosed() {
		return storage.ErrStorageClosed
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, rec := range records {
			data := storage.MarshalEmbeddingRecord(rec)
			if err := tx.Set(makeEmbeddingRecordKey(rec.ID), data); err != nil {
				return err
			}
		}

		meta, err := readMeta(tx)
		if err != nil {
			if !errors.Is(err, storage.ErrNotFound) {
				return err
			}
			meta = &core.StoreMeta{}
		}
		meta.LastUpdated = time.Now().UTC()
		meta.RunCount++
		if err := tx.Set(makeStoreMetaKey(), storage.MarshalStoreMeta(meta)); err != nil {
			return err
		}

		return tx.Commit()
	}, true)
}

func (r *embeddingRepository) Get(ctx context.Context, id string) (*core.EmbeddingRecord, error) {
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	var record *core.EmbeddingRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeEmbeddingRecordKey(id))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			record, err = storage.UnmarshalEmbeddingRecord(val)
			return err
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *embeddingRepository) Delete(ctx context.Context, ids ...string) error {
	if r.backend.IsClosed() {
		return storage.ErrStorageClosed
	}
	if len(ids) == 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			if err := tx.Delete(makeEmbeddingRecordKey(id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

func (r *embeddingRepository) Count(ctx context.Context) (int, error) {
	if r.backend.IsClosed() {
		return 0, storage.ErrStorageClosed
	}

	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(embeddingRecordPrefix + ":")
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *embeddingRepository) Meta(ctx context.Context) (*core.StoreMeta, error) {
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	var meta *core.StoreMeta
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		meta, err = readMeta(tx)
		return err
	}, false)
	if err != nil {
		return nil, err
	}
	return meta, nil
}

func (r *embeddingRepository) Close() error {
	// Backend lifecycle is owned by the caller that opened it.
	return nil
}

func readMeta(tx *badger.Txn) (*core.StoreMeta, error) {
	item, err := tx.Get(makeStoreMetaKey())
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}

	var meta *core.StoreMeta
	err = item.Value(func(val []byte) error {
		meta, err = storage.UnmarshalStoreMeta(val)
		return err
	})
	if err != nil {
		return nil, err
	}
	return meta, nil
}
