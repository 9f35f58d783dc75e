package pipeline

import (
	"time"

	"github.com/poiesic/skillsearch/taxonomy"
)

// BatchResult records the outcome of one embedding or upload batch.
type BatchResult struct {
	// IDs are the skill ids the batch covered, in batch order.
	IDs []string

	// Err is the terminal error after retries, nil on success.
	Err error
}

// RunReport summarizes one synchronization run. FailedEmbeds and
// FailedUploads hold only failed batches; successful batches are counted in
// Embedded and Synced.
type RunReport struct {
	Changes taxonomy.ChangeSet

	// Embedded is the number of skills successfully (re-)embedded.
	Embedded int

	// FailedEmbeds are embedding batches that failed after retries.
	// Their skills keep their prior stored state and are retried on the
	// next run.
	FailedEmbeds []BatchResult

	// Synced is the number of vectors successfully upserted into the
	// index.
	Synced int

	// FailedUploads are index upsert batches that failed after retries.
	FailedUploads []BatchResult

	Elapsed time.Duration
}

// Ok reports whether the run completed with no failed batches.
func (r *RunReport) Ok() bool {
	return len(r.FailedEmbeds) == 0 && len(r.FailedUploads) == 0
}

// FailedEmbedIDs returns the skill ids of all failed embedding batches.
func (r *RunReport) FailedEmbedIDs() []string {
	var ids []string
	for _, b := range r.FailedEmbeds {
		ids = append(ids, b.IDs...)
	}
	return ids
}
