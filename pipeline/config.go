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
	"runtime"
	"time"
)

// Config holds configuration for a synchronization run.
type Config struct {
	// EmbedBatchSize is the number of skills per embedding API call.
	EmbedBatchSize int

	// UploadBatchSize is the number of vectors per index upsert call.
	UploadBatchSize int

	// MaxRetries is the maximum number of attempts for a failed
	// embedding or upload call.
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff.
	RetryDelay time.Duration

	// CallTimeout bounds each individual embedding or upload call.
	// The timeout applies per attempt, not across retries.
	CallTimeout time.Duration

	// Workers is the size of the worker pool for concurrent batches.
	Workers int

	// MaxMetadataBytes caps the serialized metadata attached to each
	// vector index entry.
	MaxMetadataBytes int

	// ReportInterval is how often to report progress (number of skills).
	ReportInterval int
}

// DefaultConfig returns a Config with sensible defaults. Batch sizes are
// conservative so a single failed call loses little work.
func DefaultConfig() *Config {
	workers := runtime.NumCPU() / 2
	if workers < 1 {
		workers = 1
	}
	return &Config{
		EmbedBatchSize:   25,
		UploadBatchSize:  50,
		MaxRetries:       3,
		RetryDelay:       1 * time.Second,
		CallTimeout:      30 * time.Second,
		Workers:          workers,
		MaxMetadataBytes: 2048,
		ReportInterval:   100,
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.EmbedBatchSize <= 0 || c.UploadBatchSize <= 0 {
		return ErrInvalidBatchSize
	}
	if c.MaxRetries <= 0 {
		return ErrInvalidMaxAttempts
	}
	return nil
}
