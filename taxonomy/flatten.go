package taxonomy

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/poiesic/skillsearch/core"
)

// Parse decodes a taxonomy document: a JSON array of level-1 SkillNodes.
func Parse(r io.Reader) ([]core.SkillNode, error) {
	var roots []core.SkillNode
	dec := json.NewDecoder(r)
	if err := dec.Decode(&roots); err != nil {
		return nil, fmt.Errorf("decoding taxonomy document: %w", err)
	}
	return roots, nil
}

// Flatten converts the nested taxonomy into a mapping from id to FlatSkill,
// one entry per node at every level, with ancestry fully resolved.
//
// Flatten is a pure transform: it visits every node exactly once and never
// mutates its input. It fails with a structural error if an id collides
// with a previously seen id (ids are globally unique across all levels),
// if a node's level does not match its depth, or if a level-4 node has
// children. On error the returned map is nil; no partial output escapes.
func Flatten(roots []core.SkillNode) (map[string]core.FlatSkill, error) {
	flat := make(map[string]core.FlatSkill)

	var walk func(node *core.SkillNode, depth int, ancestorIDs, ancestorTitles []string) error
	walk = func(node *core.SkillNode, depth int, ancestorIDs, ancestorTitles []string) error {
		if node.Level != depth {
			return fmt.Errorf("%w: %w: node %q declares level %d at depth %d",
				ErrStructural, ErrLevelMismatch, node.ID, node.Level, depth)
		}
		if _, seen := flat[node.ID]; seen {
			return fmt.Errorf("%w: %w: %q", ErrStructural, ErrDuplicateID, node.ID)
		}
		if depth == core.MaxLevel && len(node.Skills) > 0 {
			return fmt.Errorf("%w: %w: %q", ErrStructural, ErrLeafChildren, node.ID)
		}

		parentID := ""
		if len(ancestorIDs) > 0 {
			parentID = ancestorIDs[0]
		}

		skill := core.FlatSkill{
			ID:             node.ID,
			Level:          node.Level,
			Title:          node.Title,
			Description:    node.Description,
			ParentID:       parentID,
			AncestorIDs:    cloneStrings(ancestorIDs),
			AncestorTitles: cloneStrings(ancestorTitles),
		}
		if err := core.ValidateFlatSkill(&skill); err != nil {
			return fmt.Errorf("%w: %w", ErrStructural, err)
		}
		flat[node.ID] = skill

		// Children see this node as their nearest ancestor.
		childIDs := prepend(node.ID, ancestorIDs)
		childTitles := prepend(node.Title, ancestorTitles)
		for i := range node.Skills {
			if err := walk(&node.Skills[i], depth+1, childIDs, childTitles); err != nil {
				return err
			}
		}
		return nil
	}

	for i := range roots {
		if err := walk(&roots[i], 1, nil, nil); err != nil {
			return nil, err
		}
	}

	return flat, nil
}

func cloneStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func prepend(head string, tail []string) []string {
	out := make([]string, 0, len(tail)+1)
	out = append(out, head)
	out = append(out, tail...)
	return out
}
