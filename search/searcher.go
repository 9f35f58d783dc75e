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


package search

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/poiesic/skillsearch/ai"
	"github.com/poiesic/skillsearch/core"
	"github.com/poiesic/skillsearch/scoring"
	"github.com/poiesic/skillsearch/users"
)

const (
	// DefaultTopK is the number of index hits retrieved per query.
	DefaultTopK = 20

	// DefaultQueryTimeout bounds the query embedding call.
	DefaultQueryTimeout = 30 * time.Second
)

// Result is the answer to one search query.
type Result struct {
	Query string

	// Hits are the skills matched by the query, highest similarity
	// first, after the scorer's similarity floor.
	Hits []core.MatchHit

	// Users are the ranked user scores, best first.
	Users []core.UserScore
}

// Searcher executes queries end to end. Safe for concurrent use.
type Searcher struct {
	embedder     ai.Embedder
	index        ai.VectorIndex
	users        users.Repository
	scorer       *scoring.Scorer
	topK         int
	queryTimeout time.Duration
	monitor      Monitor
	logger       *slog.Logger
}

// SearcherOption configures a Searcher.
type SearcherOption func(*Searcher)

// WithTopK sets how many index hits are retrieved per query.
func WithTopK(k int) SearcherOption {
	return func(s *Searcher) {
		if k > 0 {
			s.topK = k
		}
	}
}

// WithQueryTimeout bounds the query embedding call.
func WithQueryTimeout(d time.Duration) SearcherOption {
	return func(s *Searcher) {
		if d > 0 {
			s.queryTimeout = d
		}
	}
}

// WithMonitor installs a search monitor.
func WithMonitor(m Monitor) SearcherOption {
	return func(s *Searcher) {
		if m != nil {
			s.monitor = m
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) SearcherOption {
	return func(s *Searcher) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSearcher creates a searcher. A nil scorer uses scoring defaults.
func NewSearcher(
	embedder ai.Embedder,
	index ai.VectorIndex,
	userRepo users.Repository,
	scorer *scoring.Scorer,
	opts ...SearcherOption,
) (*Searcher, error) {
	if embedder == nil {
		return nil, errors.New("embedder is required")
	}
	if index == nil {
		return nil, errors.New("vector index is required")
	}
	if userRepo == nil {
		return nil, errors.New("user repository is required")
	}
	if scorer == nil {
		var err error
		scorer, err = scoring.NewScorer(nil)
		if err != nil {
			return nil, err
		}
	}

	s := &Searcher{
		embedder:     embedder,
		index:        index,
		users:        userRepo,
		scorer:       scorer,
		topK:         DefaultTopK,
		queryTimeout: DefaultQueryTimeout,
		monitor:      noopMonitor{},
		logger:       slog.Default().With("component", "searcher"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Search answers one free-text query.
func (s *Searcher) Search(ctx context.Context, query string) (*Result, error) {
	start := time.Now()
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	s.monitor.Start(query)

	embedCtx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	vector, err := s.embedder.EmbedText(embedCtx, query)
	if err != nil {
		s.monitor.Finish(nil, err, time.Since(start))
		return nil, err
	}
	if len(vector) == 0 {
		s.monitor.Finish(nil, ErrEmptyQueryVector, time.Since(start))
		return nil, ErrEmptyQueryVector
	}
	vector = core.NormalizeVector(vector)
	s.monitor.AfterQueryEmbedding(time.Since(start))

	queryStart := time.Now()
	rawHits, err := s.index.Query(ctx, vector, s.topK)
	if err != nil {
		s.monitor.Finish(nil, err, time.Since(start))
		return nil, err
	}

	hits := make([]core.MatchHit, len(rawHits))
	for i, h := range rawHits {
		hits[i] = core.MatchHit{
			SkillID:    h.Key,
			Similarity: h.Similarity,
			Metadata:   h.Metadata,
		}
	}
	s.monitor.AfterIndexQuery(hits, time.Since(queryStart))

	selections, err := s.users.AllSelections(ctx)
	if err != nil {
		s.monitor.Finish(nil, err, time.Since(start))
		return nil, err
	}

	result := &Result{
		Query: query,
		Hits:  hits,
		Users: s.scorer.Score(hits, selections),
	}

	s.logger.Debug("search complete",
		"query", query,
		"hits", len(hits),
		"users", len(result.Users),
		"elapsed", time.Since(start))
	s.monitor.Finish(result, nil, time.Since(start))
	return result, nil
}

// Interpret translates a similarity into a qualitative match label.
func Interpret(similarity float64) string {
	switch {
	case similarity >= 0.85:
		return "Excellent"
	case similarity >= 0.70:
		return "Strong"
	case similarity >= 0.55:
		return "Good"
	case similarity >= 0.40:
		return "Moderate"
	default:
		return "Weak"
	}
}
