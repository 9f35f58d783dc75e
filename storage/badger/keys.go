package badger

import "fmt"

// Key prefixes for different data types
const (
	embeddingRecordPrefix = "sklrec"
	storeMetaKey          = "sklmeta"
	vectorEntryPrefix     = "vecidx"
)

// makeEmbeddingRecordKey generates a key for an embedding record by skill id.
func makeEmbeddingRecordKey(id string) []byte {
	return []byte(fmt.Sprintf("%s:%s", embeddingRecordPrefix, id))
}

// makeStoreMetaKey generates the singleton key for store metadata.
func makeStoreMetaKey() []byte {
	return []byte(storeMetaKey)
}

// makeVectorEntryKey generates a key for a local vector index entry.
func makeVectorEntryKey(key string) []byte {
	return []byte(fmt.Sprintf("%s:%s", vectorEntryPrefix, key))
}
