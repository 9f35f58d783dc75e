package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/poiesic/skillsearch/ai"
	"github.com/poiesic/skillsearch/ai/mock"
	"github.com/poiesic/skillsearch/core"
	"github.com/poiesic/skillsearch/scoring"
	"github.com/poiesic/skillsearch/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixtureIndex returns an index where "golang backend" queries hit l3-go
// strongly and l3-cooking barely at all.
func fixtureIndex(t *testing.T) *mock.MemoryIndex {
	t.Helper()
	index := mock.NewMemoryIndex()
	index.QueryFunc = func(ctx context.Context, vector []float32, topK int) ([]ai.QueryHit, error) {
		return []ai.QueryHit{
			{Key: "l3-go", Similarity: 0.82, Metadata: map[string]string{"title": "Go"}},
			{Key: "l3-backend", Similarity: 0.61},
			{Key: "l3-cooking", Similarity: 0.12},
		}, nil
	}
	return index
}

func fixtureUsers() users.Repository {
	return users.NewMemoryRepository([]core.UserSkillSelection{
		{UserID: "ada@example.com", SkillID: "l3-go", Rating: core.RatingAdvanced},
		{UserID: "bob@example.com", SkillID: "l3-backend", Rating: core.RatingBeginner},
		{UserID: "eve@example.com", SkillID: "l3-cooking", Rating: core.RatingAdvanced},
	})
}

func newTestSearcher(t *testing.T, opts ...SearcherOption) *Searcher {
	t.Helper()
	scorer, err := scoring.NewScorer(nil)
	require.NoError(t, err)

	s, err := NewSearcher(mock.NewMockEmbedder(), fixtureIndex(t), fixtureUsers(), scorer, opts...)
	require.NoError(t, err)
	return s
}

func TestSearch_EndToEnd(t *testing.T) {
	s := newTestSearcher(t)

	result, err := s.Search(context.Background(), "golang backend")
	require.NoError(t, err)

	require.Len(t, result.Hits, 3)
	assert.Equal(t, "l3-go", result.Hits[0].SkillID)

	// eve's only skill is below the scoring floor, so she is omitted.
	require.Len(t, result.Users, 2)
	assert.Equal(t, "ada@example.com", result.Users[0].UserID)
	assert.Equal(t, 100.0, result.Users[0].DisplayScore)
	assert.Equal(t, "bob@example.com", result.Users[1].UserID)
	assert.Equal(t, "Expert", result.Users[0].ExpertiseLabel)
	assert.Equal(t, "Beginner", result.Users[1].ExpertiseLabel)
}

func TestSearch_EmptyQuery(t *testing.T) {
	s := newTestSearcher(t)

	_, err := s.Search(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestSearch_EmbedderFailure(t *testing.T) {
	scorer, err := scoring.NewScorer(nil)
	require.NoError(t, err)

	embedder := mock.NewMockEmbedder()
	wantErr := errors.New("embedding service down")
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, wantErr
	}

	s, err := NewSearcher(embedder, fixtureIndex(t), fixtureUsers(), scorer)
	require.NoError(t, err)

	_, err = s.Search(context.Background(), "anything")
	assert.ErrorIs(t, err, wantErr)
}

func TestSearch_IndexFailure(t *testing.T) {
	scorer, err := scoring.NewScorer(nil)
	require.NoError(t, err)

	index := mock.NewMemoryIndex()
	wantErr := errors.New("index unavailable")
	index.QueryFunc = func(ctx context.Context, vector []float32, topK int) ([]ai.QueryHit, error) {
		return nil, wantErr
	}

	s, err := NewSearcher(mock.NewMockEmbedder(), index, fixtureUsers(), scorer)
	require.NoError(t, err)

	_, err = s.Search(context.Background(), "anything")
	assert.ErrorIs(t, err, wantErr)
}

func TestSearch_TopKPassedThrough(t *testing.T) {
	scorer, err := scoring.NewScorer(nil)
	require.NoError(t, err)

	index := mock.NewMemoryIndex()
	var gotTopK int
	index.QueryFunc = func(ctx context.Context, vector []float32, topK int) ([]ai.QueryHit, error) {
		gotTopK = topK
		return nil, nil
	}

	s, err := NewSearcher(mock.NewMockEmbedder(), index, fixtureUsers(), scorer, WithTopK(7))
	require.NoError(t, err)

	_, err = s.Search(context.Background(), "query")
	require.NoError(t, err)
	assert.Equal(t, 7, gotTopK)
}

type recordingMonitor struct {
	started  string
	embedded bool
	hits     int
	finished bool
	err      error
}

func (m *recordingMonitor) Start(query string)                    { m.started = query }
func (m *recordingMonitor) AfterQueryEmbedding(time.Duration)     { m.embedded = true }
func (m *recordingMonitor) AfterIndexQuery(hits []core.MatchHit, _ time.Duration) {
	m.hits = len(hits)
}
func (m *recordingMonitor) Finish(_ *Result, err error, _ time.Duration) {
	m.finished = true
	m.err = err
}

func TestSearch_MonitorCallbacks(t *testing.T) {
	monitor := &recordingMonitor{}
	s := newTestSearcher(t, WithMonitor(monitor))

	_, err := s.Search(context.Background(), "golang")
	require.NoError(t, err)

	assert.Equal(t, "golang", monitor.started)
	assert.True(t, monitor.embedded)
	assert.Equal(t, 3, monitor.hits)
	assert.True(t, monitor.finished)
	assert.NoError(t, monitor.err)
}

func TestInterpret(t *testing.T) {
	assert.Equal(t, "Excellent", Interpret(0.85))
	assert.Equal(t, "Strong", Interpret(0.84))
	assert.Equal(t, "Strong", Interpret(0.70))
	assert.Equal(t, "Good", Interpret(0.69))
	assert.Equal(t, "Good", Interpret(0.55))
	assert.Equal(t, "Moderate", Interpret(0.54))
	assert.Equal(t, "Moderate", Interpret(0.40))
	assert.Equal(t, "Weak", Interpret(0.39))
	assert.Equal(t, "Weak", Interpret(0.0))
}
