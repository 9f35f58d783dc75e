package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSkill() FlatSkill {
	return FlatSkill{
		ID:             "l3-go",
		Level:          3,
		Title:          "Go",
		Description:    "Backend development in Go",
		ParentID:       "l2-backend",
		AncestorIDs:    []string{"l2-backend", "l1-eng"},
		AncestorTitles: []string{"Backend", "Engineering"},
	}
}

func TestValidateFlatSkill_Valid(t *testing.T) {
	s := validSkill()
	require.NoError(t, ValidateFlatSkill(&s))

	root := FlatSkill{ID: "l1-eng", Level: 1, Title: "Engineering"}
	require.NoError(t, ValidateFlatSkill(&root))
}

func TestValidateFlatSkill_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*FlatSkill)
		wantErr error
	}{
		{"nil-safe empty id", func(s *FlatSkill) { s.ID = "" }, ErrEmptyID},
		{"empty title", func(s *FlatSkill) { s.Title = "" }, ErrEmptyTitle},
		{"level zero", func(s *FlatSkill) { s.Level = 0 }, ErrInvalidLevel},
		{"level too deep", func(s *FlatSkill) { s.Level = MaxLevel + 1 }, ErrInvalidLevel},
		{"ancestor count", func(s *FlatSkill) { s.AncestorIDs = s.AncestorIDs[:1] }, ErrAncestryMismatch},
		{"titles not parallel", func(s *FlatSkill) { s.AncestorTitles = s.AncestorTitles[:1] }, ErrAncestryMismatch},
		{"parent not chain head", func(s *FlatSkill) { s.ParentID = "l1-eng" }, ErrAncestryMismatch},
		{"missing parent", func(s *FlatSkill) { s.ParentID = "" }, ErrAncestryMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSkill()
			tt.mutate(&s)
			err := ValidateFlatSkill(&s)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidSkill)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidateFlatSkill_RootWithParent(t *testing.T) {
	s := FlatSkill{ID: "l1-eng", Level: 1, Title: "Engineering", ParentID: "nope"}
	err := ValidateFlatSkill(&s)
	assert.ErrorIs(t, err, ErrAncestryMismatch)
}

func TestValidateFlatSkill_Nil(t *testing.T) {
	assert.ErrorIs(t, ValidateFlatSkill(nil), ErrInvalidSkill)
}
