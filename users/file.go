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


package users

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/poiesic/skillsearch/core"
)

// Profile is the on-disk user profile document.
type Profile struct {
	UserEmail      string        `json:"userEmail"`
	SelectedSkills []SkillChoice `json:"selectedSkills"`
}

// SkillChoice is one selected level-3 skill with its rating and the
// level-4 technologies chosen beneath it.
type SkillChoice struct {
	L3ID   string   `json:"l3Id"`
	Rating int      `json:"rating"`
	L4IDs  []string `json:"l4Ids,omitempty"`
}

// Selections flattens the profile: the level-3 skill and each level-4
// technology become one selection each, all carrying the choice's rating.
// Duplicate skill ids within a profile keep the highest rating.
func (p *Profile) Selections() ([]core.UserSkillSelection, error) {
	if p.UserEmail == "" {
		return nil, ErrEmptyUserID
	}

	best := make(map[string]core.Rating)
	for _, choice := range p.SelectedSkills {
		rating, err := core.RatingFromOrdinal(choice.Rating)
		if err != nil {
			return nil, fmt.Errorf("%w: skill %s: %v", ErrInvalidProfile, choice.L3ID, err)
		}
		if choice.L3ID == "" {
			return nil, fmt.Errorf("%w: choice without l3Id", ErrInvalidProfile)
		}

		ids := append([]string{choice.L3ID}, choice.L4IDs...)
		for _, id := range ids {
			if id == "" {
				continue
			}
			if prev, ok := best[id]; !ok || rating > prev {
				best[id] = rating
			}
		}
	}

	ids := make([]string, 0, len(best))
	for id := range best {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	selections := make([]core.UserSkillSelection, len(ids))
	for i, id := range ids {
		selections[i] = core.UserSkillSelection{
			UserID:  p.UserEmail,
			SkillID: id,
			Rating:  best[id],
		}
	}
	return selections, nil
}

// ParseProfile decodes one profile document.
func ParseProfile(r io.Reader) (*Profile, error) {
	var p Profile
	dec := json.NewDecoder(r)
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}
	return &p, nil
}

// fileRepository reads profile documents from a directory, one JSON file
// per user.
type fileRepository struct {
	dir    string
	logger *slog.Logger
}

// NewFileRepository creates a repository over a directory of profile
// documents. The directory is re-read on every AllSelections call so
// profile edits take effect without a restart.
func NewFileRepository(dir string) Repository {
	return &fileRepository{
		dir:    dir,
		logger: slog.Default().With("component", "user-profiles"),
	}
}

func (f *fileRepository) AllSelections(ctx context.Context) ([]core.UserSkillSelection, error) {
	var selections []core.UserSkillSelection

	err := filepath.WalkDir(f.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".json") {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		file, err := os.Open(path)
		if err != nil {
			return err
		}
		defer file.Close()

		profile, err := ParseProfile(file)
		if err != nil {
			// One bad profile shouldn't hide every other user.
			f.logger.Warn("skipping unreadable profile", "path", path, "err", err)
			return nil
		}

		sels, err := profile.Selections()
		if err != nil {
			f.logger.Warn("skipping invalid profile", "path", path, "err", err)
			return nil
		}
		selections = append(selections, sels...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return selections, nil
}
