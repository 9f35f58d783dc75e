// Package taxonomy turns the nested skills document into flat records
// ready for embedding.
//
// Flatten walks the tree and resolves ancestry for every node, failing
// fast on structural defects (duplicate ids, levels inconsistent with
// depth) since a corrupt ancestry would silently corrupt fingerprints and
// scoring downstream. EmbeddingText composes the deterministic natural
// language representation of a skill, and Diff partitions the flattened
// set against the previously persisted store into the new, changed,
// unchanged and removed id sets that drive an incremental sync run.
package taxonomy
