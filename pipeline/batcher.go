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
	"fmt"
	"time"

	"github.com/poiesic/skillsearch/ai"
	"github.com/poiesic/skillsearch/core"
	"github.com/poiesic/skillsearch/taxonomy"
)

// BatchProcessor turns batches of flattened skills into embedding records.
type BatchProcessor struct {
	embedder       ai.Embedder
	maxRetries     int
	retryBaseDelay time.Duration
	callTimeout    time.Duration
}

// NewBatchProcessor creates a new batch processor.
// maxRetries: maximum number of retry attempts for embedding API calls
// retryBaseDelay: base delay for exponential backoff
// callTimeout: per-attempt bound on the embedding call, 0 for none
func NewBatchProcessor(embedder ai.Embedder, maxRetries int, retryBaseDelay, callTimeout time.Duration) *BatchProcessor {
	return &BatchProcessor{
		embedder:       embedder,
		maxRetries:     maxRetries,
		retryBaseDelay: retryBaseDelay,
		callTimeout:    callTimeout,
	}
}

// Process embeds one batch of skills and returns their embedding records.
// Vectors are normalized after embedding so similarity search can use plain
// dot products. The batch either fully succeeds or fully fails; a failed
// batch produces no records and never advances any fingerprint.
func (bp *BatchProcessor) Process(ctx context.Context, skills []core.FlatSkill) ([]*core.EmbeddingRecord, error) {
	if len(skills) == 0 {
		return nil, nil
	}

	texts := make([]string, len(skills))
	for i := range skills {
		texts[i] = taxonomy.EmbeddingText(&skills[i])
	}

	var embeddings [][]float32
	err := RetryWithBackoff(ctx, func() error {
		callCtx := ctx
		if bp.callTimeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, bp.callTimeout)
			defer cancel()
		}
		var err error
		embeddings, err = bp.embedder.EmbedTexts(callCtx, texts)
		return err
	}, bp.maxRetries, bp.retryBaseDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embeddings after %d attempts: %w", bp.maxRetries, err)
	}

	if len(embeddings) != len(skills) {
		return nil, fmt.Errorf("embedding count mismatch: expected %d, got %d", len(skills), len(embeddings))
	}

	now := time.Now().UTC()
	records := make([]*core.EmbeddingRecord, len(skills))
	for i := range skills {
		s := &skills[i]
		records[i] = &core.EmbeddingRecord{
			ID:          s.ID,
			Level:       s.Level,
			Title:       s.Title,
			Description: s.Description,
			ParentID:    s.ParentID,
			AncestorIDs: append([]string(nil), s.AncestorIDs...),
			Fingerprint: string(core.FingerprintOf(s)),
			Text:        texts[i],
			Vector:      core.NormalizeVector(embeddings[i]),
			UpdatedAt:   now,
		}
	}
	return records, nil
}
