package search

import "errors"

var (
	// ErrEmptyQuery indicates a blank search query.
	ErrEmptyQuery = errors.New("query is empty")

	// ErrEmptyQueryVector indicates the embedder returned no vector for
	// the query.
	ErrEmptyQueryVector = errors.New("query produced an empty vector")
)
