// Package index persists chunk embeddings together with a document
// registry and serves filtered nearest-neighbor queries over them. Two
// implementations exist: a pgvector-backed store for deployments and an
// in-memory store for tests and single-process local use.
package index

import (
	"context"
	"errors"
)

var (
	// returned when an upserted vector's length differs from the store's
	// fixed dimensionality; the caller must abort the upload
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// returned when a document id or job reference does not resolve
	ErrDocumentNotFound = errors.New("document not found")
)

// Store is the embedding index plus the document registry. Write
// operations are scoped to a single document's id-space so queries over
// unrelated documents proceed unaffected while a write is in flight.
type Store interface {
	// registers the resume and its chunks. Any previously stored resume
	// and all of its chunks are removed in the same atomic step: either
	// the replacement completes or nothing changes.
	SaveResume(ctx context.Context, doc Document, chunks []ChunkRecord) (*Document, error)

	// registers a job posting and its chunks, assigning the next
	// reference number. Numbers are monotonic and never reused, so
	// citations stay stable across deletions.
	SaveJobPosting(ctx context.Context, doc Document, chunks []ChunkRecord) (*Document, error)

	// writes chunk vectors and metadata with overwrite semantics:
	// re-upserting an id replaces both the vector and the metadata
	UpsertChunks(ctx context.Context, chunks []ChunkRecord) error

	// removes a document and every chunk belonging to it; the cascade
	// completes before any subsequent query can observe stale results
	DeleteDocument(ctx context.Context, documentID string) (int, error)

	// removes the job posting with the given reference number
	DeleteJobPosting(ctx context.Context, refNumber int) (int, error)

	// returns up to k nearest neighbors by cosine similarity, restricted
	// to chunks matching the optional filter
	Query(ctx context.Context, vector []float32, k int, filter *Filter) ([]Match, error)

	GetDocument(ctx context.Context, documentID string) (*Document, error)
	GetJobPosting(ctx context.Context, refNumber int) (*Document, error)
	DocumentExists(ctx context.Context, documentID string) (bool, error)

	// per-document chunk and word counts for display
	GetStats(ctx context.Context) (*Stats, error)

	// removes every document and chunk
	Clear(ctx context.Context) error

	// the fixed embedding dimensionality this store accepts
	Dimension() int
}

// validates vectors against the store's dimensionality before any write
func checkDimensions(dim int, chunks []ChunkRecord) error {
	for _, c := range chunks {
		if len(c.Embedding) != dim {
			return ErrDimensionMismatch
		}
	}

	return nil
}
