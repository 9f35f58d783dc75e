package core

import (
	"encoding/hex"
	"strconv"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// MaxLevel is the depth of the skills taxonomy. Level 1 nodes are broad
// categories, level 4 nodes are concrete technologies.
const MaxLevel = 4

// SkillNode is one node of the source taxonomy document. The taxonomy is
// read-only input; this package never mutates it.
type SkillNode struct {
	ID          string      `json:"id"`
	Level       int         `json:"level"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	Skills      []SkillNode `json:"skills,omitempty"`
}

// FlatSkill is a taxonomy node with its ancestry fully resolved.
// AncestorIDs is ordered nearest-parent first, root last, and is always
// Level-1 entries long. AncestorTitles is parallel to AncestorIDs.
type FlatSkill struct {
	ID             string
	Level          int
	Title          string
	Description    string
	ParentID       string // empty iff Level == 1
	AncestorIDs    []string
	AncestorTitles []string
}

// Fingerprint is a content hash over the fields of a skill that feed its
// embedding text. Two skills with the same id and fingerprint embed to the
// same vector; a differing fingerprint forces re-embedding.
type Fingerprint string

// FingerprintOf derives the fingerprint of a flat skill using BLAKE2b.
// The hash covers id, title, description, parent id and the ancestor title
// chain, so renaming any ancestor also invalidates its descendants.
func FingerprintOf(s *FlatSkill) Fingerprint {
	h, _ := blake2b.New(16, nil)
	h.Write([]byte(s.ID))
	h.Write([]byte{0})
	h.Write([]byte(s.Title))
	h.Write([]byte{0})
	h.Write([]byte(s.Description))
	h.Write([]byte{0})
	h.Write([]byte(s.ParentID))
	for _, title := range s.AncestorTitles {
		h.Write([]byte{0})
		h.Write([]byte(title))
	}
	return Fingerprint(hex.EncodeToString(h.Sum(nil)))
}

// EmbeddingRecord is the persisted state for one embedded skill, keyed by
// skill id with upsert semantics. The set of all records is sufficient to
// rebuild the external vector index without re-embedding.
// JSON tags define the snapshot interchange format; the database uses the
// binary serializer in records_mus.go instead.
type EmbeddingRecord struct {
	ID          string    `json:"id"`
	Level       int       `json:"level"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	ParentID    string    `json:"parentId,omitempty"`
	AncestorIDs []string  `json:"ancestorIds,omitempty"`
	Fingerprint string    `json:"fingerprint"`
	Text        string    `json:"text"`
	Vector      []float32 `json:"vector"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Rating is a user's self-assessed proficiency for a selected skill.
type Rating int

const (
	RatingBeginner Rating = iota + 1
	RatingIntermediate
	RatingAdvanced
)

func (r Rating) String() string {
	switch r {
	case RatingBeginner:
		return "Beginner"
	case RatingIntermediate:
		return "Intermediate"
	case RatingAdvanced:
		return "Advanced"
	default:
		return "Rating(" + strconv.Itoa(int(r)) + ")"
	}
}

// RatingFromOrdinal maps the 1..3 ordinal used by user profile documents
// to a Rating. Returns ErrInvalidRating for anything else.
func RatingFromOrdinal(n int) (Rating, error) {
	r := Rating(n)
	if err := ValidateRating(r); err != nil {
		return 0, err
	}
	return r, nil
}

// UserSkillSelection is one skill a user has selected, with their rating.
// Owned by the user profile store; read-only input to scoring.
type UserSkillSelection struct {
	UserID  string
	SkillID string
	Rating  Rating
}

// MatchHit is one (skill, similarity) result from a vector index query.
// Similarity is cosine similarity on unit vectors; values below zero carry
// no relevance and are clamped to 0 by consumers.
type MatchHit struct {
	SkillID    string
	Similarity float64
	Metadata   map[string]string
}

// MatchedSkill is one contribution to a user's score.
type MatchedSkill struct {
	SkillID    string
	Similarity float64
	Rating     Rating
}

// UserScore is the scored result for one user against one query. It is
// transient: recomputed per query, never persisted. DisplayScore is
// query-relative (top user = 100) and must not be used for ranking.
type UserScore struct {
	UserID         string
	MatchedSkills  []MatchedSkill
	CoverageRaw    float64
	CoveragePct    float64
	Expertise      float64 // similarity-weighted multiplier, in [1, 6]
	ExpertiseLabel string
	RawScore       float64
	DisplayScore   float64
}
