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
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/skillsearch/ai"
	"github.com/poiesic/skillsearch/core"
	"github.com/poiesic/skillsearch/storage"
	"github.com/poiesic/skillsearch/taxonomy"
)

// Pipeline orchestrates one synchronization run: diff the taxonomy against
// the store, re-embed the workload, persist, and resync the index.
type Pipeline struct {
	repo     storage.EmbeddingRepository
	index    ai.VectorIndex
	config   *Config
	pool     *ants.Pool
	batcher  *BatchProcessor
	uploader *IndexUploader
	progress io.Writer
	logger   *slog.Logger
	released bool
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent batches.
// Default is Config.Workers.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		if p.pool != nil {
			p.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithProgress sets the writer for progress output.
// Default is io.Discard.
func WithProgress(w io.Writer) Option {
	return func(p *Pipeline) error {
		if w == nil {
			w = io.Discard
		}
		p.progress = w
		return nil
	}
}

// NewPipeline creates a synchronization pipeline.
func NewPipeline(
	repo storage.EmbeddingRepository,
	index ai.VectorIndex,
	embedder ai.Embedder,
	config *Config,
	opts ...Option,
) (*Pipeline, error) {
	if repo == nil {
		return nil, errors.New("embedding repository is required")
	}
	if index == nil {
		return nil, errors.New("vector index is required")
	}
	if embedder == nil {
		return nil, errors.New("embedder is required")
	}
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	pool, err := ants.NewPool(config.Workers)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		repo:     repo,
		index:    index,
		config:   config,
		pool:     pool,
		batcher:  NewBatchProcessor(embedder, config.MaxRetries, config.RetryDelay, config.CallTimeout),
		uploader: NewIndexUploader(index, config),
		progress: io.Discard,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// Release shuts down the worker pool. The pipeline cannot be used after.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
	p.released = true
}

// Run executes one synchronization run against the given taxonomy roots.
//
// Structural taxonomy errors and store failures abort the run. Failed
// embedding batches do not: their skills are dropped from this run's save,
// so their stored fingerprints stay stale and the next run picks them up
// again. The returned report is non-nil whenever the run got far enough to
// diff, even if batches failed.
func (p *Pipeline) Run(ctx context.Context, roots []core.SkillNode) (*RunReport, error) {
	if p.released {
		return nil, ErrPipelineReleased
	}
	start := time.Now()

	current, err := taxonomy.Flatten(roots)
	if err != nil {
		return nil, fmt.Errorf("failed to flatten taxonomy: %w", err)
	}

	prior, initialized, err := p.repo.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load embedding store: %w", err)
	}

	changes := taxonomy.Diff(current, prior)
	report := &RunReport{Changes: changes}

	p.logger.Info("change detection complete",
		"total", changes.Total(),
		"new", len(changes.New),
		"changed", len(changes.Changed),
		"unchanged", len(changes.Unchanged),
		"removed", len(changes.Removed),
		"firstRun", !initialized)

	workload := changes.Workload()

	embedded, failedEmbeds := p.embedAll(ctx, current, workload)
	report.FailedEmbeds = failedEmbeds
	report.Embedded = len(embedded)

	if err := ctx.Err(); err != nil {
		report.Elapsed = time.Since(start)
		return report, err
	}

	// Persist only successful batches. Records from failed batches keep
	// their prior state so the diff re-selects them next run.
	if len(embedded) > 0 || !initialized {
		if err := p.repo.SaveAll(ctx, embedded); err != nil {
			report.Elapsed = time.Since(start)
			return report, fmt.Errorf("failed to persist embedding records: %w", err)
		}
	}

	// Full resync: upsert every current record, not just this run's
	// workload, so a wiped or drifted index heals itself.
	synced, failedUploads := p.syncIndex(ctx, p.mergeRecords(current, prior, embedded))
	report.Synced = synced
	report.FailedUploads = failedUploads
	report.Elapsed = time.Since(start)

	if err := ctx.Err(); err != nil {
		return report, err
	}
	return report, nil
}

// RebuildIndex re-upserts every persisted record into the vector index
// without touching the embedder. Used to seed a fresh index from an
// existing store.
func (p *Pipeline) RebuildIndex(ctx context.Context) (int, error) {
	if p.released {
		return 0, ErrPipelineReleased
	}

	prior, _, err := p.repo.LoadAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load embedding store: %w", err)
	}

	records := make([]*core.EmbeddingRecord, 0, len(prior))
	for _, rec := range prior {
		records = append(records, rec)
	}

	synced, failed := p.syncIndex(ctx, records)
	if len(failed) > 0 {
		return synced, fmt.Errorf("%d upload batches failed, first: %w", len(failed), failed[0].Err)
	}
	return synced, ctx.Err()
}

// embedAll fans the workload out over the pool in embed-sized batches.
// Returns the records of all successful batches and the failed batches.
func (p *Pipeline) embedAll(ctx context.Context, current map[string]core.FlatSkill, workload []string) ([]*core.EmbeddingRecord, []BatchResult) {
	if len(workload) == 0 {
		return nil, nil
	}

	tracker := NewProgressTracker(p.progress, len(workload), p.config.ReportInterval)
	tracker.Start()

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		records []*core.EmbeddingRecord
		failed  []BatchResult
	)

	for batch := range batches(workload, p.config.EmbedBatchSize) {
		skills := make([]core.FlatSkill, len(batch))
		for i, id := range batch {
			skills[i] = current[id]
		}
		ids := batch

		wg.Add(1)
		submitErr := p.pool.Submit(func() {
			defer wg.Done()
			recs, err := p.batcher.Process(ctx, skills)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				p.logger.Error("embedding batch failed", "size", len(ids), "err", err)
				failed = append(failed, BatchResult{IDs: ids, Err: err})
			} else {
				records = append(records, recs...)
			}
			tracker.Increment(len(ids))
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			failed = append(failed, BatchResult{IDs: ids, Err: submitErr})
			mu.Unlock()
		}
	}

	wg.Wait()
	tracker.Finish()
	return records, failed
}

// syncIndex upserts records into the index in upload-sized batches.
func (p *Pipeline) syncIndex(ctx context.Context, records []*core.EmbeddingRecord) (int, []BatchResult) {
	if len(records) == 0 {
		return 0, nil
	}

	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		synced int
		failed []BatchResult
	)

	for batch := range recordBatches(records, p.config.UploadBatchSize) {
		batch := batch

		wg.Add(1)
		submitErr := p.pool.Submit(func() {
			defer wg.Done()
			err := p.uploader.Upload(ctx, batch)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				p.logger.Error("index upload batch failed", "size", len(batch), "err", err)
				failed = append(failed, BatchResult{IDs: recordIDs(batch), Err: err})
			} else {
				synced += len(batch)
			}
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			failed = append(failed, BatchResult{IDs: recordIDs(batch), Err: submitErr})
			mu.Unlock()
		}
	}

	wg.Wait()
	return synced, failed
}

// mergeRecords assembles the record set for the full index resync: the
// freshly embedded records plus the prior records of unchanged skills.
// Skills whose embed batch failed have no fresh record and fall back to
// their prior one when it exists; removed skills are excluded.
func (p *Pipeline) mergeRecords(current map[string]core.FlatSkill, prior map[string]*core.EmbeddingRecord, embedded []*core.EmbeddingRecord) []*core.EmbeddingRecord {
	merged := make(map[string]*core.EmbeddingRecord, len(current))
	for id := range current {
		if rec, ok := prior[id]; ok {
			merged[id] = rec
		}
	}
	for _, rec := range embedded {
		merged[rec.ID] = rec
	}

	out := make([]*core.EmbeddingRecord, 0, len(merged))
	for _, rec := range merged {
		out = append(out, rec)
	}
	return out
}

// batches yields ids in consecutive chunks of at most size.
func batches(ids []string, size int) func(yield func([]string) bool) {
	return func(yield func([]string) bool) {
		for i := 0; i < len(ids); i += size {
			end := min(i+size, len(ids))
			if !yield(ids[i:end:end]) {
				return
			}
		}
	}
}

func recordBatches(records []*core.EmbeddingRecord, size int) func(yield func([]*core.EmbeddingRecord) bool) {
	return func(yield func([]*core.EmbeddingRecord) bool) {
		for i := 0; i < len(records); i += size {
			end := min(i+size, len(records))
			if !yield(records[i:end:end]) {
				return
			}
		}
	}
}

func recordIDs(records []*core.EmbeddingRecord) []string {
	ids := make([]string, len(records))
	for i, rec := range records {
		ids[i] = rec.ID
	}
	return ids
}
