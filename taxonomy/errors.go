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


package taxonomy

import "errors"

var (
	// ErrStructural indicates the taxonomy document violates a structural
	// invariant. Structural errors are fatal to a sync run.
	ErrStructural = errors.New("invalid taxonomy structure")

	// ErrDuplicateID indicates the same id appears on more than one node.
	ErrDuplicateID = errors.New("duplicate skill id")

	// ErrLevelMismatch indicates a node's declared level disagrees with
	// its depth in the tree.
	ErrLevelMismatch = errors.New("level inconsistent with tree depth")

	// ErrLeafChildren indicates a node at the deepest level has children.
	ErrLeafChildren = errors.New("level 4 node cannot have children")
)
