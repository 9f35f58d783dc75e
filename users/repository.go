package users

import (
	"context"

	"github.com/poiesic/skillsearch/core"
)

// Repository provides read access to user skill selections.
// Implementations must be thread-safe.
type Repository interface {
	// AllSelections returns every user's flattened skill selections.
	AllSelections(ctx context.Context) ([]core.UserSkillSelection, error)
}

// memoryRepository serves a fixed selection set. Used for tests and for
// callers that assemble selections themselves.
type memoryRepository struct {
	selections []core.UserSkillSelection
}

// NewMemoryRepository creates a repository over a fixed selection set.
func NewMemoryRepository(selections []core.UserSkillSelection) Repository {
	return &memoryRepository{selections: selections}
}

func (m *memoryRepository) AllSelections(ctx context.Context) ([]core.UserSkillSelection, error) {
	out := make([]core.UserSkillSelection, len(m.selections))
	copy(out, m.selections)
	return out, nil
}
