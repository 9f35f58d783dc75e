// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package pipeline

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/poiesic/skillsearch/ai"
	"github.com/poiesic/skillsearch/core"
)

// IndexUploader upserts embedding records into the vector index.
type IndexUploader struct {
	index            ai.VectorIndex
	maxRetries       int
	retryBaseDelay   time.Duration
	callTimeout      time.Duration
	maxMetadataBytes int
}

// NewIndexUploader creates a new index uploader.
func NewIndexUploader(index ai.VectorIndex, cfg *Config) *IndexUploader {
	return &IndexUploader{
		index:            index,
		maxRetries:       cfg.MaxRetries,
		retryBaseDelay:   cfg.RetryDelay,
		callTimeout:      cfg.CallTimeout,
		maxMetadataBytes: cfg.MaxMetadataBytes,
	}
}

// Upload upserts one batch of records into the index, with retry. Upserts
// are idempotent, so a retried batch that partially landed is harmless.
func (u *IndexUploader) Upload(ctx context.Context, records []*core.EmbeddingRecord) error {
	if len(records) == 0 {
		return nil
	}

	entries := make([]ai.VectorEntry, len(records))
	for i, rec := range records {
		entries[i] = ai.VectorEntry{
			Key:      rec.ID,
			Vector:   rec.Vector,
			Metadata: u.buildMetadata(rec),
		}
	}

	return RetryWithBackoff(ctx, func() error {
		callCtx := ctx
		if u.callTimeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, u.callTimeout)
			defer cancel()
		}
		return u.index.UpsertBatch(callCtx, entries)
	}, u.maxRetries, u.retryBaseDelay)
}

// buildMetadata assembles the per-vector metadata within the configured
// size cap. When the full ancestor chain would exceed the cap, ancestors
// are dropped deepest-first (the nearest parent goes first since parent_id
// already carries it, the root goes last) until the entry fits. Truncation
// is deterministic for a given record.
func (u *IndexUploader) buildMetadata(rec *core.EmbeddingRecord) map[string]string {
	md := map[string]string{
		"level":     strconv.Itoa(rec.Level),
		"title":     rec.Title,
		"parent_id": rec.ParentID,
	}

	// AncestorIDs is ordered nearest-parent first, so truncating from the
	// front keeps the broad end of the chain.
	ancestors := rec.AncestorIDs
	for {
		if len(ancestors) > 0 {
			encoded, err := json.Marshal(ancestors)
			if err == nil {
				md["ancestor_ids"] = string(encoded)
			}
		} else {
			delete(md, "ancestor_ids")
		}
		if u.maxMetadataBytes <= 0 || metadataSize(md) <= u.maxMetadataBytes || len(ancestors) == 0 {
			break
		}
		ancestors = ancestors[1:]
	}

	return md
}

func metadataSize(md map[string]string) int {
	size := 0
	for k, v := range md {
		size += len(k) + len(v)
	}
	return size
}
