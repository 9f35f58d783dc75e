package search

import (
	"time"

	"github.com/poiesic/skillsearch/core"
)

// Monitor receives callbacks at each stage of a search. Implementations
// must be cheap; they run inline on the query path.
type Monitor interface {
	// Start is called when a search begins.
	Start(query string)

	// AfterQueryEmbedding is called once the query vector is ready.
	AfterQueryEmbedding(elapsed time.Duration)

	// AfterIndexQuery is called with the raw index hits.
	AfterIndexQuery(hits []core.MatchHit, elapsed time.Duration)

	// Finish is called with the final result, or an error.
	Finish(result *Result, err error, elapsed time.Duration)
}

// noopMonitor is the default Monitor.
type noopMonitor struct{}

func (noopMonitor) Start(string)                                   {}
func (noopMonitor) AfterQueryEmbedding(time.Duration)              {}
func (noopMonitor) AfterIndexQuery([]core.MatchHit, time.Duration) {}
func (noopMonitor) Finish(*Result, error, time.Duration)           {}
