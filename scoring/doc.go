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


// Package scoring ranks users against a query by combining two dimensions:
//
//   - coverage: how much of the query's semantic surface a user's selected
//     skills cover, as the sum of squared similarities
//   - expertise: how proficient the user is on those matched skills, as a
//     similarity-weighted average of rating multipliers
//
// The squared-similarity weighting makes one deep match worth more than
// many shallow ones, and the multiplier spread (Advanced counts six times
// Beginner) keeps expertise from being drowned out by volume. The product
// of the two dimensions is the ranking score; a per-query display score
// rescales it so the top user reads as 100.
package scoring
