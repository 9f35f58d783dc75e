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


package core

import "fmt"

// ValidateFlatSkill validates a FlatSkill according to domain rules.
//
// Validation rules:
//   - ID and Title must not be empty
//   - Level must be within 1..MaxLevel
//   - len(AncestorIDs) == Level-1, AncestorTitles parallel
//   - ParentID empty iff Level == 1, else equal to AncestorIDs[0]
func ValidateFlatSkill(s *FlatSkill) error {
	if s == nil {
		return fmt.Errorf("%w: skill is nil", ErrInvalidSkill)
	}

	if s.ID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidSkill, ErrEmptyID)
	}

	if s.Title == "" {
		return fmt.Errorf("%w: %w: id %q", ErrInvalidSkill, ErrEmptyTitle, s.ID)
	}

	if s.Level < 1 || s.Level > MaxLevel {
		return fmt.Errorf("%w: %w: id %q has level %d", ErrInvalidSkill, ErrInvalidLevel, s.ID, s.Level)
	}

	if len(s.AncestorIDs) != s.Level-1 || len(s.AncestorTitles) != len(s.AncestorIDs) {
		return fmt.Errorf("%w: %w: id %q at level %d has %d ancestors",
			ErrInvalidSkill, ErrAncestryMismatch, s.ID, s.Level, len(s.AncestorIDs))
	}

	if s.Level == 1 {
		if s.ParentID != "" {
			return fmt.Errorf("%w: %w: root id %q has parent %q",
				ErrInvalidSkill, ErrAncestryMismatch, s.ID, s.ParentID)
		}
	} else if s.ParentID == "" || s.ParentID != s.AncestorIDs[0] {
		return fmt.Errorf("%w: %w: id %q parent %q does not head the ancestor chain",
			ErrInvalidSkill, ErrAncestryMismatch, s.ID, s.ParentID)
	}

	return nil
}

// ValidateRating validates that a Rating has a valid value.
func ValidateRating(r Rating) error {
	if r < RatingBeginner || r > RatingAdvanced {
		return fmt.Errorf("%w: value %d", ErrInvalidRating, r)
	}
	return nil
}
