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

import "errors"

// Domain validation errors
var (
	// ErrInvalidSkill indicates a FlatSkill failed validation.
	ErrInvalidSkill = errors.New("invalid skill")

	// ErrEmptyID indicates the ID field is empty.
	ErrEmptyID = errors.New("skill id cannot be empty")

	// ErrEmptyTitle indicates the Title field is empty.
	ErrEmptyTitle = errors.New("skill title cannot be empty")

	// ErrInvalidLevel indicates a level outside 1..MaxLevel.
	ErrInvalidLevel = errors.New("skill level must be between 1 and 4")

	// ErrAncestryMismatch indicates the ancestor chain length does not
	// match the level, or ParentID disagrees with AncestorIDs.
	ErrAncestryMismatch = errors.New("ancestor chain inconsistent with level")

	// ErrInvalidRating indicates a Rating value outside Beginner..Advanced.
	ErrInvalidRating = errors.New("invalid rating")
)
