package users

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/poiesic/skillsearch/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const profileDoc = `{
  "userEmail": "dev@example.com",
  "selectedSkills": [
    {"l3Id": "l3-go", "rating": 3, "l4Ids": ["l4-gin", "l4-grpc"]},
    {"l3Id": "l3-python", "rating": 1}
  ]
}`

func TestProfile_Selections(t *testing.T) {
	profile, err := ParseProfile(strings.NewReader(profileDoc))
	require.NoError(t, err)

	selections, err := profile.Selections()
	require.NoError(t, err)
	require.Len(t, selections, 4, "l3 skills plus their l4 technologies")

	byID := make(map[string]core.UserSkillSelection)
	for _, sel := range selections {
		assert.Equal(t, "dev@example.com", sel.UserID)
		byID[sel.SkillID] = sel
	}

	assert.Equal(t, core.RatingAdvanced, byID["l3-go"].Rating)
	assert.Equal(t, core.RatingAdvanced, byID["l4-gin"].Rating, "l4 inherits the l3 rating")
	assert.Equal(t, core.RatingAdvanced, byID["l4-grpc"].Rating)
	assert.Equal(t, core.RatingBeginner, byID["l3-python"].Rating)
}

func TestProfile_DuplicateSkillKeepsHighestRating(t *testing.T) {
	doc := `{
      "userEmail": "dev@example.com",
      "selectedSkills": [
        {"l3Id": "l3-a", "rating": 1, "l4Ids": ["l4-x"]},
        {"l3Id": "l3-b", "rating": 3, "l4Ids": ["l4-x"]}
      ]
    }`
	profile, err := ParseProfile(strings.NewReader(doc))
	require.NoError(t, err)

	selections, err := profile.Selections()
	require.NoError(t, err)

	for _, sel := range selections {
		if sel.SkillID == "l4-x" {
			assert.Equal(t, core.RatingAdvanced, sel.Rating)
		}
	}
}

func TestProfile_InvalidRating(t *testing.T) {
	doc := `{"userEmail": "x@example.com", "selectedSkills": [{"l3Id": "a", "rating": 7}]}`
	profile, err := ParseProfile(strings.NewReader(doc))
	require.NoError(t, err)

	_, err = profile.Selections()
	assert.ErrorIs(t, err, ErrInvalidProfile)
}

func TestProfile_MissingEmail(t *testing.T) {
	profile := &Profile{}
	_, err := profile.Selections()
	assert.ErrorIs(t, err, ErrEmptyUserID)
}

func TestFileRepository_LoadsDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dev.json"), []byte(profileDoc), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{nope"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644))

	repo := NewFileRepository(dir)
	selections, err := repo.AllSelections(context.Background())
	require.NoError(t, err)
	assert.Len(t, selections, 4, "bad profiles are skipped, not fatal")
}

func TestMemoryRepository_CopiesSelections(t *testing.T) {
	in := []core.UserSkillSelection{{UserID: "u", SkillID: "s", Rating: core.RatingBeginner}}
	repo := NewMemoryRepository(in)

	out, err := repo.AllSelections(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 1)

	out[0].SkillID = "mutated"
	again, err := repo.AllSelections(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "s", again[0].SkillID)
}
