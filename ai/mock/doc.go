// Package mock provides test doubles for the ai interfaces.
//
// MockEmbedder produces deterministic vectors from text hashes so tests
// never need a live embedding service. MemoryIndex is a complete in-memory
// ai.VectorIndex; besides testing it also serves as a local index for
// deployments that don't want an external vector store.
package mock
