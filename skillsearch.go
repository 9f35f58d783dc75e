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


package skillsearch

import (
	"log/slog"

	"github.com/poiesic/skillsearch/ai"
	"github.com/poiesic/skillsearch/ai/openai"
	"github.com/poiesic/skillsearch/pipeline"
	"github.com/poiesic/skillsearch/scoring"
	"github.com/poiesic/skillsearch/search"
	"github.com/poiesic/skillsearch/storage"
	"github.com/poiesic/skillsearch/storage/badger"
	"github.com/poiesic/skillsearch/users"
)

// System wires the embedding store, vector index, embedder and user
// profiles into one handle.
type System struct {
	backend  *badger.Backend
	repo     storage.EmbeddingRepository
	index    ai.VectorIndex
	embedder ai.Embedder
	users    users.Repository
	logger   *slog.Logger
}

// SystemOption configures a System.
type SystemOption func(*systemOptions)

type systemOptions struct {
	aiConfig   *ai.Config
	index      ai.VectorIndex
	users      users.Repository
	embedder   ai.Embedder
	inMemory   bool
	profileDir string
}

// WithAIConfig sets the embedding service configuration.
func WithAIConfig(cfg *ai.Config) SystemOption {
	return func(o *systemOptions) {
		if cfg != nil {
			o.aiConfig = cfg
		}
	}
}

// WithVectorIndex installs an external vector index instead of the local
// BadgerDB-backed one.
func WithVectorIndex(index ai.VectorIndex) SystemOption {
	return func(o *systemOptions) {
		o.index = index
	}
}

// WithEmbedder installs a custom embedder instead of the OpenAI-compatible
// default. Used mainly by tests.
func WithEmbedder(embedder ai.Embedder) SystemOption {
	return func(o *systemOptions) {
		o.embedder = embedder
	}
}

// WithUserRepository installs a custom user profile source.
func WithUserRepository(repo users.Repository) SystemOption {
	return func(o *systemOptions) {
		o.users = repo
	}
}

// WithProfileDir serves user profiles from a directory of JSON documents.
func WithProfileDir(dir string) SystemOption {
	return func(o *systemOptions) {
		o.profileDir = dir
	}
}

// WithInMemory opens the database purely in memory. Used for tests.
func WithInMemory() SystemOption {
	return func(o *systemOptions) {
		o.inMemory = true
	}
}

// Open creates a System on the database at filePath.
func Open(filePath string, opts ...SystemOption) (*System, error) {
	options := &systemOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	repo, err := badger.NewEmbeddingRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	index := options.index
	if index == nil {
		index, err = badger.NewVectorIndex(backend)
		if err != nil {
			backend.Close()
			return nil, err
		}
	}

	embedder := options.embedder
	if embedder == nil {
		embedder, err = openai.NewEmbedder(options.aiConfig)
		if err != nil {
			backend.Close()
			return nil, err
		}
	}

	userRepo := options.users
	if userRepo == nil && options.profileDir != "" {
		userRepo = users.NewFileRepository(options.profileDir)
	}
	if userRepo == nil {
		userRepo = users.NewMemoryRepository(nil)
	}

	return &System{
		backend:  backend,
		repo:     repo,
		index:    index,
		embedder: embedder,
		users:    userRepo,
		logger:   slog.Default(),
	}, nil
}

// Close releases the underlying database.
func (s *System) Close() error {
	if err := s.repo.Close(); err != nil {
		s.logger.Error("error closing embedding repository", "err", err)
		return err
	}
	if err := s.backend.Close(); err != nil {
		s.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// EmbeddingRepository exposes the persistent embedding store.
func (s *System) EmbeddingRepository() storage.EmbeddingRepository {
	return s.repo
}

// VectorIndex exposes the vector index in use.
func (s *System) VectorIndex() ai.VectorIndex {
	return s.index
}

// UserRepository exposes the user profile source.
func (s *System) UserRepository() users.Repository {
	return s.users
}

// NewPipeline creates a synchronization pipeline over this system's store
// and index.
func (s *System) NewPipeline(config *pipeline.Config, opts ...pipeline.Option) (*pipeline.Pipeline, error) {
	return pipeline.NewPipeline(s.repo, s.index, s.embedder, config, opts...)
}

// NewSearcher creates a searcher over this system's index and profiles.
func (s *System) NewSearcher(opts ...search.SearcherOption) (*search.Searcher, error) {
	scorer, err := scoring.NewScorer(nil)
	if err != nil {
		return nil, err
	}
	return search.NewSearcher(s.embedder, s.index, s.users, scorer, opts...)
}
