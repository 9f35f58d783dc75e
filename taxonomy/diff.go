package taxonomy

import (
	"slices"

	"github.com/poiesic/skillsearch/core"
)

// ChangeSet partitions the current skill ids against the previously
// persisted store. New, Changed and Unchanged are pairwise disjoint and
// together cover every current id; Removed holds prior ids absent from the
// current taxonomy. All slices are sorted ascending so the partition is
// deterministic regardless of map iteration order.
type ChangeSet struct {
	New       []string
	Changed   []string
	Unchanged []string
	Removed   []string
}

// Workload returns the ids that need (re-)embedding this run: New ∪ Changed,
// sorted ascending.
func (cs *ChangeSet) Workload() []string {
	out := make([]string, 0, len(cs.New)+len(cs.Changed))
	out = append(out, cs.New...)
	out = append(out, cs.Changed...)
	slices.Sort(out)
	return out
}

// Total returns the number of current skill ids covered by the partition.
func (cs *ChangeSet) Total() int {
	return len(cs.New) + len(cs.Changed) + len(cs.Unchanged)
}

// Diff compares the current flattened skills with the prior embedding
// records and classifies every current id as new (no prior record),
// changed (prior fingerprint differs) or unchanged. Prior ids missing from
// the current set are reported as removed; they are never re-embedded and
// this package takes no pruning decision about them.
//
// Diff is pure and order-independent: identical inputs always produce an
// identical partition. An empty prior map (first run) classifies every
// current id as new.
func Diff(current map[string]core.FlatSkill, prior map[string]*core.EmbeddingRecord) ChangeSet {
	var cs ChangeSet

	for id, skill := range current {
		rec, ok := prior[id]
		switch {
		case !ok:
			cs.New = append(cs.New, id)
		case rec.Fingerprint != string(core.FingerprintOf(&skill)):
			cs.Changed = append(cs.Changed, id)
		default:
			cs.Unchanged = append(cs.Unchanged, id)
		}
	}

	for id := range prior {
		if _, ok := current[id]; !ok {
			cs.Removed = append(cs.Removed, id)
		}
	}

	slices.Sort(cs.New)
	slices.Sort(cs.Changed)
	slices.Sort(cs.Unchanged)
	slices.Sort(cs.Removed)
	return cs
}
