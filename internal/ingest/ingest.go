// Package ingest runs the upload pipeline: segment a document, embed
// its chunks, and register it in the index. A failure at any stage
// aborts the whole upload so the index never holds a partial document.
package ingest

import (
	"context"
	"fmt"

	"codeberg.org/careerintel/server/internal/chunker"
	"codeberg.org/careerintel/server/internal/index"
	"codeberg.org/careerintel/server/internal/llm"
	"codeberg.org/careerintel/server/internal/logger"
	"github.com/google/uuid"
)

// batch size for embedding API calls
const embedBatchSize = 100

type Service struct {
	splitter *chunker.Splitter
	embedder llm.Embedder
	store    index.Store
}

func NewService(splitter *chunker.Splitter, embedder llm.Embedder, store index.Store) *Service {
	return &Service{
		splitter: splitter,
		embedder: embedder,
		store:    store,
	}
}

// IngestResume processes and stores the resume, replacing any prior one
func (s *Service) IngestResume(ctx context.Context, filename, text string) (*index.Document, error) {
	doc, records, err := s.process(ctx, filename, text)
	if err != nil {
		return nil, err
	}

	saved, err := s.store.SaveResume(ctx, *doc, records)
	if err != nil {
		return nil, fmt.Errorf("failed to save resume: %w", err)
	}

	logger.Info("resume ingested",
		"filename", filename,
		"chunks", saved.ChunkCount,
		"words", saved.WordCount,
	)

	return saved, nil
}

// IngestJobPosting processes and stores a job posting under the next
// reference number
func (s *Service) IngestJobPosting(ctx context.Context, filename, text string) (*index.Document, error) {
	doc, records, err := s.process(ctx, filename, text)
	if err != nil {
		return nil, err
	}

	saved, err := s.store.SaveJobPosting(ctx, *doc, records)
	if err != nil {
		return nil, fmt.Errorf("failed to save job posting: %w", err)
	}

	logger.Info("job posting ingested",
		"filename", filename,
		"ref_number", saved.RefNumber,
		"chunks", saved.ChunkCount,
		"words", saved.WordCount,
	)

	return saved, nil
}

// segments the text and embeds every chunk, in batches
func (s *Service) process(ctx context.Context, filename, text string) (*index.Document, []index.ChunkRecord, error) {
	doc := &index.Document{
		ID:       uuid.NewString(),
		Filename: filename,
	}

	chunks, err := s.splitter.ChunkDocument(doc.ID, text)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to segment document: %w", err)
	}

	records := make([]index.ChunkRecord, 0, len(chunks))

	for start := 0; start < len(chunks); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}

		batch := chunks[start:end]
		texts := make([]string, len(batch))

		for i, c := range batch {
			texts[i] = c.Text
		}

		embeddings, err := s.embedder.GenerateEmbeddings(ctx, texts)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to embed chunks: %w", err)
		}

		if len(embeddings) != len(batch) {
			return nil, nil, fmt.Errorf("embedding count mismatch: got %d for %d chunks",
				len(embeddings), len(batch))
		}

		for i, c := range batch {
			records = append(records, index.ChunkRecord{
				ID:          c.ID,
				DocumentID:  c.DocumentID,
				Index:       c.Index,
				Text:        c.Text,
				WordCount:   c.WordCount,
				TotalChunks: c.TotalChunks,
				Embedding:   embeddings[i],
			})
		}
	}

	return doc, records, nil
}
