// Package search answers free-text queries: embed the query, find the
// closest skills in the vector index, and rank users by how well their
// selected skills cover those matches.
package search
