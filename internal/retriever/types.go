package retriever

import (
	"errors"

	"codeberg.org/careerintel/server/internal/index"
	"codeberg.org/careerintel/server/internal/llm"
)

// returned when a query names a job reference that no stored posting
// carries. Retrieval degrades to an unfiltered search instead of failing.
var ErrReferenceNotResolved = errors.New("job reference not resolved")

// retrieves and re-ranks chunks for a query
type Client struct {
	store    index.Store
	embedder llm.Embedder
	config   *RetrieverConfig
}

type RetrieverConfig struct {
	// final number of chunks returned to the caller
	TopK int

	// candidate pool size is TopK * FetchMultiplier before re-ranking
	FetchMultiplier int

	// relevance/diversity trade-off for re-ranking, 0..1; higher favors
	// relevance
	Lambda float64
}

// the outcome of one retrieval, re-ranked and ready for context assembly
type Retrieval struct {
	Matches []index.Match

	// query embedding, reused by callers that re-rank or log it
	QueryVector []float32

	// references parsed out of the query text
	RefNumbers []int

	// references that did not resolve to a stored posting; non-empty
	// means the filter was dropped and Matches came from the whole corpus
	UnresolvedRefs []int

	// true when the query compares documents and retrieval ran per-source
	Comparison bool
}

// reports whether any parsed reference failed to resolve
func (r *Retrieval) Degraded() bool {
	return len(r.UnresolvedRefs) > 0
}
