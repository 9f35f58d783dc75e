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


// Package ai defines the external capability boundary of skillsearch.
//
// The embedding model and the vector index are consumed as black boxes
// behind two interfaces:
//
//   - Embedder: turns text into vectors, in bounded batches
//   - VectorIndex: keyed idempotent upsert and top-K similarity query
//
// Public constructors in the implementation sub-packages return interface
// types so business logic never couples to a concrete provider:
//
//   - ai/openai: production Embedder for OpenAI-compatible APIs
//   - ai/mock: deterministic test doubles, including an in-memory
//     VectorIndex usable as a local index for small deployments
package ai
