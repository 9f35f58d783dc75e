package taxonomy

import (
	"testing"

	"github.com/poiesic/skillsearch/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flatSkill(id, title string) core.FlatSkill {
	return core.FlatSkill{ID: id, Level: 1, Title: title}
}

func recordFor(s core.FlatSkill) *core.EmbeddingRecord {
	return &core.EmbeddingRecord{
		ID:          s.ID,
		Level:       s.Level,
		Title:       s.Title,
		Fingerprint: string(core.FingerprintOf(&s)),
	}
}

func TestDiff_FirstRun(t *testing.T) {
	current := map[string]core.FlatSkill{
		"a": flatSkill("a", "A"),
		"b": flatSkill("b", "B"),
	}

	cs := Diff(current, nil)
	assert.Equal(t, []string{"a", "b"}, cs.New)
	assert.Empty(t, cs.Changed)
	assert.Empty(t, cs.Unchanged)
	assert.Empty(t, cs.Removed)
}

func TestDiff_Partition(t *testing.T) {
	unchanged := flatSkill("a", "A")
	changed := flatSkill("b", "B")
	added := flatSkill("c", "C")

	priorChanged := flatSkill("b", "B old title")

	current := map[string]core.FlatSkill{
		"a": unchanged,
		"b": changed,
		"c": added,
	}
	prior := map[string]*core.EmbeddingRecord{
		"a": recordFor(unchanged),
		"b": recordFor(priorChanged),
		"d": recordFor(flatSkill("d", "D")),
	}

	cs := Diff(current, prior)
	assert.Equal(t, []string{"c"}, cs.New)
	assert.Equal(t, []string{"b"}, cs.Changed)
	assert.Equal(t, []string{"a"}, cs.Unchanged)
	assert.Equal(t, []string{"d"}, cs.Removed)

	// The partition covers every current id exactly once.
	assert.Equal(t, len(current), cs.Total())
}

func TestDiff_Deterministic(t *testing.T) {
	current := map[string]core.FlatSkill{
		"x": flatSkill("x", "X"),
		"y": flatSkill("y", "Y"),
		"z": flatSkill("z", "Z"),
	}
	prior := map[string]*core.EmbeddingRecord{
		"y": recordFor(flatSkill("y", "Y")),
	}

	a := Diff(current, prior)
	b := Diff(current, prior)
	assert.Equal(t, a, b)
}

func TestChangeSet_Workload(t *testing.T) {
	cs := ChangeSet{
		New:     []string{"c", "a"},
		Changed: []string{"b"},
	}
	require.Equal(t, []string{"a", "b", "c"}, cs.Workload())
}

func TestDiff_NoChanges(t *testing.T) {
	s := flatSkill("a", "A")
	current := map[string]core.FlatSkill{"a": s}
	prior := map[string]*core.EmbeddingRecord{"a": recordFor(s)}

	cs := Diff(current, prior)
	assert.Empty(t, cs.Workload())
	assert.Equal(t, []string{"a"}, cs.Unchanged)
}
