package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/poiesic/skillsearch/ai/mock"
	"github.com/poiesic/skillsearch/core"
	"github.com/poiesic/skillsearch/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTaxonomy() []core.SkillNode {
	return []core.SkillNode{
		{
			ID: "l1-eng", Level: 1, Title: "Engineering",
			Skills: []core.SkillNode{
				{
					ID: "l2-backend", Level: 2, Title: "Backend",
					Skills: []core.SkillNode{
						{ID: "l3-go", Level: 3, Title: "Go", Description: "Backend development in Go"},
						{ID: "l3-rust", Level: 3, Title: "Rust"},
					},
				},
			},
		},
	}
}

func testConfig() *Config {
	cfg := DefaultConfig()
	cfg.EmbedBatchSize = 2
	cfg.UploadBatchSize = 2
	cfg.RetryDelay = time.Millisecond
	cfg.Workers = 2
	return cfg
}

func newTestPipeline(t *testing.T, embedder *mock.MockEmbedder) (*Pipeline, *mock.MemoryIndex, func()) {
	t.Helper()

	repo, _, backend, err := badger.NewMemoryStore()
	require.NoError(t, err)

	index := mock.NewMemoryIndex()
	p, err := NewPipeline(repo, index, embedder, testConfig())
	require.NoError(t, err)

	return p, index, func() {
		p.Release()
		backend.Close()
	}
}

func TestPipeline_FirstRunEmbedsEverything(t *testing.T) {
	p, index, cleanup := newTestPipeline(t, mock.NewMockEmbedder())
	defer cleanup()

	report, err := p.Run(context.Background(), testTaxonomy())
	require.NoError(t, err)
	require.True(t, report.Ok())

	assert.Len(t, report.Changes.New, 4)
	assert.Equal(t, 4, report.Embedded)
	assert.Equal(t, 4, report.Synced)
	assert.Equal(t, 4, index.Len())
}

func TestPipeline_SecondRunSkipsUnchanged(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	p, _, cleanup := newTestPipeline(t, embedder)
	defer cleanup()

	_, err := p.Run(context.Background(), testTaxonomy())
	require.NoError(t, err)

	report, err := p.Run(context.Background(), testTaxonomy())
	require.NoError(t, err)
	require.True(t, report.Ok())

	assert.Empty(t, report.Changes.New)
	assert.Empty(t, report.Changes.Changed)
	assert.Len(t, report.Changes.Unchanged, 4)
	assert.Equal(t, 0, report.Embedded, "no embedding work on an unchanged taxonomy")
	assert.Equal(t, 4, report.Synced, "index still fully resynced")
}

func TestPipeline_ReembedsOnContentChange(t *testing.T) {
	p, _, cleanup := newTestPipeline(t, mock.NewMockEmbedder())
	defer cleanup()

	_, err := p.Run(context.Background(), testTaxonomy())
	require.NoError(t, err)

	changed := testTaxonomy()
	changed[0].Skills[0].Skills[0].Description = "Cloud-native Go services"

	report, err := p.Run(context.Background(), changed)
	require.NoError(t, err)
	assert.Equal(t, []string{"l3-go"}, report.Changes.Changed)
	assert.Equal(t, 1, report.Embedded)
}

func TestPipeline_AncestorRenameCascades(t *testing.T) {
	p, _, cleanup := newTestPipeline(t, mock.NewMockEmbedder())
	defer cleanup()

	_, err := p.Run(context.Background(), testTaxonomy())
	require.NoError(t, err)

	renamed := testTaxonomy()
	renamed[0].Skills[0].Title = "Platform"

	report, err := p.Run(context.Background(), renamed)
	require.NoError(t, err)

	// The renamed node and both children whose hierarchy context names it.
	assert.ElementsMatch(t, []string{"l2-backend", "l3-go", "l3-rust"}, report.Changes.Changed)
}

func TestPipeline_RemovedSkillsReportedNotPruned(t *testing.T) {
	p, index, cleanup := newTestPipeline(t, mock.NewMockEmbedder())
	defer cleanup()

	_, err := p.Run(context.Background(), testTaxonomy())
	require.NoError(t, err)

	shrunk := testTaxonomy()
	shrunk[0].Skills[0].Skills = shrunk[0].Skills[0].Skills[:1]

	report, err := p.Run(context.Background(), shrunk)
	require.NoError(t, err)
	assert.Equal(t, []string{"l3-rust"}, report.Changes.Removed)

	// Removed entries stay in the index until a pruning decision is made
	// outside the run.
	assert.Equal(t, 4, index.Len())
}

func TestPipeline_FailedBatchIsolatedAndResumable(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	failing := true
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		for _, text := range texts {
			if failing && strings.HasPrefix(text, "Rust.") {
				return nil, errors.New("provider rejected batch")
			}
		}
		out := make([][]float32, len(texts))
		for i, text := range texts {
			out[i] = mock.DeterministicVector(text, 8)
		}
		return out, nil
	}

	cfg := testConfig()
	cfg.EmbedBatchSize = 1 // one batch per skill so exactly one fails
	cfg.MaxRetries = 2

	repo, _, backend, err := badger.NewMemoryStore()
	require.NoError(t, err)
	defer backend.Close()

	index := mock.NewMemoryIndex()
	p, err := NewPipeline(repo, index, embedder, cfg)
	require.NoError(t, err)
	defer p.Release()

	ctx := context.Background()
	report, err := p.Run(ctx, testTaxonomy())
	require.NoError(t, err, "a failed batch is not a run failure")
	require.False(t, report.Ok())

	assert.Equal(t, 3, report.Embedded)
	require.Len(t, report.FailedEmbeds, 1)
	assert.Equal(t, []string{"l3-rust"}, report.FailedEmbedIDs())

	// The failed skill has no stored record, so the next run selects it
	// again; the others are unchanged.
	failing = false
	report, err = p.Run(ctx, testTaxonomy())
	require.NoError(t, err)
	require.True(t, report.Ok())
	assert.Equal(t, []string{"l3-rust"}, report.Changes.New)
	assert.Equal(t, 1, report.Embedded)
	assert.Len(t, report.Changes.Unchanged, 3)
}

func TestPipeline_RebuildIndex(t *testing.T) {
	p, index, cleanup := newTestPipeline(t, mock.NewMockEmbedder())
	defer cleanup()

	ctx := context.Background()
	_, err := p.Run(ctx, testTaxonomy())
	require.NoError(t, err)
	require.Equal(t, 4, index.Len())

	// Simulate a wiped index by starting over with a fresh one.
	fresh := mock.NewMemoryIndex()
	p.index = fresh
	p.uploader = NewIndexUploader(fresh, testConfig())

	synced, err := p.RebuildIndex(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, synced)
	assert.Equal(t, 4, fresh.Len(), "index rebuilt without re-embedding")
}

func TestPipeline_StructuralErrorAborts(t *testing.T) {
	p, index, cleanup := newTestPipeline(t, mock.NewMockEmbedder())
	defer cleanup()

	bad := testTaxonomy()
	bad = append(bad, core.SkillNode{ID: "l1-eng", Level: 1, Title: "Duplicate"})

	report, err := p.Run(context.Background(), bad)
	require.Error(t, err)
	assert.Nil(t, report)
	assert.Equal(t, 0, index.Len(), "nothing written on structural failure")
}

func TestPipeline_ReleasedPipelineRefusesWork(t *testing.T) {
	p, _, cleanup := newTestPipeline(t, mock.NewMockEmbedder())
	cleanup()

	_, err := p.Run(context.Background(), testTaxonomy())
	assert.ErrorIs(t, err, ErrPipelineReleased)
}
