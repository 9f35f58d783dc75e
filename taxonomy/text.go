package taxonomy

import (
	"strings"

	"github.com/poiesic/skillsearch/core"
)

// skillTypeByLevel names what a node at each level represents when
// phrasing its hierarchy context.
var skillTypeByLevel = map[int]string{
	2: "capability",
	3: "skill",
	4: "technology",
}

// EmbeddingText composes the natural language text embedded for a skill.
//
// The text starts with "<title> - <description>" (title alone when the
// description is empty) followed by a hierarchy-context clause when the
// skill has ancestors. Natural language phrasing aligns with how embedding
// models are trained and yields better semantic representations than a
// structured format. The result is fully determined by the FlatSkill, so
// repeated runs over unchanged inputs reproduce identical texts.
func EmbeddingText(s *core.FlatSkill) string {
	var b strings.Builder
	b.WriteString(s.Title)
	if s.Description != "" {
		b.WriteString(" - ")
		b.WriteString(s.Description)
	}
	if !strings.HasSuffix(s.Description, ".") {
		b.WriteString(".")
	}

	switch {
	case s.Level >= 3 && len(s.AncestorTitles) >= 2:
		// AncestorTitles is nearest-parent first.
		parent := s.AncestorTitles[0]
		grandparent := s.AncestorTitles[1]
		skillType := skillTypeByLevel[s.Level]
		if skillType == "" {
			skillType = "skill"
		}
		b.WriteString(" This is a ")
		b.WriteString(parent)
		b.WriteString(" ")
		b.WriteString(skillType)
		b.WriteString(" within the broader ")
		b.WriteString(grandparent)
		b.WriteString(" domain.")
	case s.Level == 2 && len(s.AncestorTitles) >= 1:
		b.WriteString(" This is part of ")
		b.WriteString(s.AncestorTitles[0])
		b.WriteString(".")
	}

	return b.String()
}
