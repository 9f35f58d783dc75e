// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package scoring

import (
	"log/slog"
	"slices"
	"strings"

	"github.com/poiesic/skillsearch/core"
)

// Scorer computes ranked user scores from index hits and user skill
// selections. Stateless after construction; safe for concurrent use.
type Scorer struct {
	config *Config
	logger *slog.Logger
}

// NewScorer creates a scorer with the given configuration.
// A nil config uses DefaultConfig.
func NewScorer(config *Config) (*Scorer, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Scorer{
		config: config,
		logger: slog.Default().With("component", "scorer"),
	}, nil
}

// Score ranks users against one query's index hits.
//
// Hits below the similarity floor are discarded, negative similarities are
// clamped to zero, and duplicate hits for the same skill keep only the
// highest similarity. Users whose selections overlap no surviving hit are
// omitted entirely rather than returned with zero scores.
//
// The result is sorted by RawScore descending, ties broken by UserID
// ascending, so equal inputs always produce identical output.
func (s *Scorer) Score(hits []core.MatchHit, selections []core.UserSkillSelection) []core.UserScore {
	similarity := s.collapseHits(hits)
	if len(similarity) == 0 {
		return nil
	}

	// Join: per user, the matched skills they selected.
	matched := make(map[string][]core.MatchedSkill)
	for _, sel := range selections {
		sim, ok := similarity[sel.SkillID]
		if !ok {
			continue
		}
		matched[sel.UserID] = append(matched[sel.UserID], core.MatchedSkill{
			SkillID:    sel.SkillID,
			Similarity: sim,
			Rating:     sel.Rating,
		})
	}

	// The best single squared similarity in the query normalizes
	// coverage: a user owning the query's strongest match scores 100.
	bestSq := 0.0
	for _, sim := range similarity {
		if sq := sim * sim; sq > bestSq {
			bestSq = sq
		}
	}

	scores := make([]core.UserScore, 0, len(matched))
	for userID, skills := range matched {
		var covRaw, weighted float64
		for _, ms := range skills {
			sq := ms.Similarity * ms.Similarity
			covRaw += sq
			weighted += sq * s.config.multiplier(ms.Rating)
		}
		if covRaw == 0 {
			continue
		}

		expertise := weighted / covRaw
		coveragePct := min(s.config.DisplayScale, s.config.DisplayScale*covRaw/bestSq)

		slices.SortFunc(skills, func(a, b core.MatchedSkill) int {
			if a.Similarity != b.Similarity {
				if a.Similarity > b.Similarity {
					return -1
				}
				return 1
			}
			return strings.Compare(a.SkillID, b.SkillID)
		})

		scores = append(scores, core.UserScore{
			UserID:         userID,
			MatchedSkills:  skills,
			CoverageRaw:    covRaw,
			CoveragePct:    coveragePct,
			Expertise:      expertise,
			ExpertiseLabel: s.config.Label(expertise),
			RawScore:       covRaw * expertise,
		})
	}

	slices.SortFunc(scores, func(a, b core.UserScore) int {
		if a.RawScore != b.RawScore {
			if a.RawScore > b.RawScore {
				return -1
			}
			return 1
		}
		return strings.Compare(a.UserID, b.UserID)
	})

	// Display scores are query-relative: top user = DisplayScale.
	if len(scores) > 0 && scores[0].RawScore > 0 {
		top := scores[0].RawScore
		for i := range scores {
			scores[i].DisplayScore = s.config.DisplayScale * scores[i].RawScore / top
		}
	}

	s.logger.Debug("scored users", "hits", len(similarity), "users", len(scores))
	return scores
}

// collapseHits applies the similarity floor and negative clamp, and
// deduplicates hits per skill keeping the highest similarity.
func (s *Scorer) collapseHits(hits []core.MatchHit) map[string]float64 {
	similarity := make(map[string]float64, len(hits))
	for _, hit := range hits {
		sim := hit.Similarity
		if sim < 0 {
			sim = 0
		}
		if sim < s.config.MinSimilarity {
			continue
		}
		if prev, ok := similarity[hit.SkillID]; !ok || sim > prev {
			similarity[hit.SkillID] = sim
		}
	}
	return similarity
}
