// Package pipeline implements the incremental embedding synchronization
// run: flatten the taxonomy, diff it against the persisted embedding store,
// re-embed only new and changed skills, persist the results, and upsert the
// full record set into the vector index.
//
// Embedding work is fanned out over a worker pool in fixed-size batches.
// A batch is the unit of failure: one failed batch is reported and skipped
// while the rest of the run proceeds, and the skipped skills are picked up
// again on the next run because their stored fingerprints never advanced.
package pipeline
