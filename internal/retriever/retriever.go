// Package retriever turns a user query into a ranked set of chunks. It
// parses explicit job references out of the query, fetches an oversized
// candidate pool per source, and re-ranks with maximal marginal
// relevance so the final results stay diverse.
package retriever

import (
	"context"
	"errors"
	"fmt"

	"codeberg.org/careerintel/server/internal/index"
	"codeberg.org/careerintel/server/internal/llm"
	"codeberg.org/careerintel/server/internal/logger"
)

// NewClient creates a retriever with configuration from the environment
func NewClient(store index.Store, embedder llm.Embedder) *Client {
	return NewClientWithConfig(store, embedder, loadRetrieverConfig())
}

// NewClientWithConfig creates a retriever with explicit configuration
func NewClientWithConfig(store index.Store, embedder llm.Embedder, config *RetrieverConfig) *Client {
	return &Client{
		store:    store,
		embedder: embedder,
		config:   config,
	}
}

// Retrieve embeds the query, resolves document references, fetches a
// candidate pool per source, and re-ranks the union down to TopK.
//
// A reference that does not resolve never fails the call: the filter is
// dropped and the miss is reported in UnresolvedRefs so the caller can
// tell the user.
func (c *Client) Retrieve(ctx context.Context, query string) (*Retrieval, error) {
	queryVec, err := c.embedder.GenerateEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to generate query embedding: %w", err)
	}

	return c.RetrieveWithVector(ctx, query, queryVec)
}

// RetrieveWithVector runs retrieval against an already-computed query
// embedding, so callers that embed once can reuse the vector.
func (c *Client) RetrieveWithVector(ctx context.Context, query string, queryVec []float32) (*Retrieval, error) {
	refs := parseJobRefs(query)
	comparison := isComparisonQuery(query)

	resolved, unresolved, err := c.resolveRefs(ctx, refs)
	if err != nil {
		return nil, err
	}

	filters := c.buildFilters(resolved, comparison, len(unresolved) > 0)
	fetchK := c.config.TopK * c.config.FetchMultiplier

	candidates, err := c.fetchUnion(ctx, queryVec, fetchK, filters)
	if err != nil {
		return nil, err
	}

	matches := rerankMMR(queryVec, candidates, c.config.TopK, c.config.Lambda)

	if len(unresolved) > 0 {
		logger.Warn("job references did not resolve, searching whole corpus",
			"unresolved", unresolved)
	}

	return &Retrieval{
		Matches:        matches,
		QueryVector:    queryVec,
		RefNumbers:     refs,
		UnresolvedRefs: unresolved,
		Comparison:     comparison,
	}, nil
}

// splits parsed references into ones that name a stored posting and
// ones that do not
func (c *Client) resolveRefs(ctx context.Context, refs []int) (resolved, unresolved []int, err error) {
	for _, ref := range refs {
		_, err := c.store.GetJobPosting(ctx, ref)
		if errors.Is(err, index.ErrDocumentNotFound) {
			unresolved = append(unresolved, ref)
			continue
		}

		if err != nil {
			return nil, nil, fmt.Errorf("failed to resolve job reference %d: %w", ref, err)
		}

		resolved = append(resolved, ref)
	}

	return resolved, unresolved, nil
}

// buildFilters decides which corpus slices to search. A comparison query
// fetches the resume and each referenced posting separately so no single
// source crowds the pool; an unresolved reference with nothing resolved
// degrades to one unfiltered pass.
func (c *Client) buildFilters(resolved []int, comparison, hadUnresolved bool) []*index.Filter {
	if len(resolved) == 0 {
		if comparison && !hadUnresolved {
			// "how do I match this job" with no explicit number: pull
			// from the resume and the postings as separate pools
			return []*index.Filter{
				{DocType: index.DocTypeResume},
				{DocType: index.DocTypeJobPosting},
			}
		}

		return []*index.Filter{nil}
	}

	var filters []*index.Filter

	if comparison {
		filters = append(filters, &index.Filter{DocType: index.DocTypeResume})
	}

	for _, ref := range resolved {
		filters = append(filters, &index.Filter{RefNumber: ref})
	}

	return filters
}

// fetches up to fetchK candidates per filter and merges them, deduping
// by chunk id and keeping the best similarity for chunks seen twice
func (c *Client) fetchUnion(ctx context.Context, queryVec []float32, fetchK int, filters []*index.Filter) ([]index.Match, error) {
	seen := make(map[string]bool)

	var union []index.Match

	for _, filter := range filters {
		matches, err := c.store.Query(ctx, queryVec, fetchK, filter)
		if err != nil {
			return nil, fmt.Errorf("failed to query index: %w", err)
		}

		for _, m := range matches {
			if seen[m.Chunk.ID] {
				continue
			}

			seen[m.Chunk.ID] = true
			union = append(union, m)
		}
	}

	return union, nil
}
