package skillsearch

import (
	"context"
	"testing"

	"github.com/poiesic/skillsearch/ai/mock"
	"github.com/poiesic/skillsearch/core"
	"github.com/poiesic/skillsearch/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystem_SyncThenSearch(t *testing.T) {
	userRepo := users.NewMemoryRepository([]core.UserSkillSelection{
		{UserID: "ada@example.com", SkillID: "l3-go", Rating: core.RatingAdvanced},
	})

	system, err := Open("",
		WithInMemory(),
		WithEmbedder(mock.NewMockEmbedder()),
		WithUserRepository(userRepo),
	)
	require.NoError(t, err)
	defer system.Close()

	taxonomy := []core.SkillNode{
		{
			ID: "l1-eng", Level: 1, Title: "Engineering",
			Skills: []core.SkillNode{
				{
					ID: "l2-backend", Level: 2, Title: "Backend",
					Skills: []core.SkillNode{
						{ID: "l3-go", Level: 3, Title: "Go", Description: "Backend development in Go"},
					},
				},
			},
		},
	}

	p, err := system.NewPipeline(nil)
	require.NoError(t, err)
	defer p.Release()

	ctx := context.Background()
	report, err := p.Run(ctx, taxonomy)
	require.NoError(t, err)
	require.True(t, report.Ok())
	assert.Equal(t, 3, report.Embedded)

	searcher, err := system.NewSearcher()
	require.NoError(t, err)

	// The mock embedder is deterministic, so querying with a skill's
	// exact embedding text is a perfect match.
	result, err := searcher.Search(ctx, "Go - Backend development in Go. This is a Backend skill within the broader Engineering domain.")
	require.NoError(t, err)
	require.NotEmpty(t, result.Hits)
	assert.Equal(t, "l3-go", result.Hits[0].SkillID)
	require.Len(t, result.Users, 1)
	assert.Equal(t, "ada@example.com", result.Users[0].UserID)
}

func TestSystem_RoundTripThroughStore(t *testing.T) {
	system, err := Open("",
		WithInMemory(),
		WithEmbedder(mock.NewMockEmbedder()),
	)
	require.NoError(t, err)
	defer system.Close()

	taxonomy := []core.SkillNode{{ID: "l1-x", Level: 1, Title: "X"}}

	p, err := system.NewPipeline(nil)
	require.NoError(t, err)
	defer p.Release()

	ctx := context.Background()
	_, err = p.Run(ctx, taxonomy)
	require.NoError(t, err)

	records, initialized, err := system.EmbeddingRepository().LoadAll(ctx)
	require.NoError(t, err)
	assert.True(t, initialized)
	require.Len(t, records, 1)

	rec := records["l1-x"]
	assert.Equal(t, "X.", rec.Text)
	assert.NotEmpty(t, rec.Vector)
	assert.NotEmpty(t, rec.Fingerprint)
}
