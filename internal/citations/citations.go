// Package citations records which stored documents contributed chunks
// to an answer, so every reply can show its sources.
package citations

import (
	"context"

	"codeberg.org/careerintel/server/internal/index"
)

// the slice of the index needed to check a citation still resolves
type DocumentChecker interface {
	DocumentExists(ctx context.Context, documentID string) (bool, error)
}

// one source document behind an answer
type Citation struct {
	DocumentID string        `json:"document_id"`
	DocType    index.DocType `json:"doc_type"`
	Filename   string        `json:"filename"`
	RefNumber  int           `json:"ref_number,omitempty"`
	ChunkIDs   []string      `json:"chunk_ids"`
	ChunkCount int           `json:"chunk_count"`
}

// builds the citation list for one answer from the matches that went
// into its context. Documents are deduplicated in first-seen order, so
// the list reflects retrieval rank, and every chunk that contributed is
// attributed to its document.
func FromMatches(matches []index.Match) []Citation {
	byDoc := make(map[string]int)

	var citations []Citation

	for _, m := range matches {
		idx, seen := byDoc[m.Document.ID]
		if !seen {
			byDoc[m.Document.ID] = len(citations)
			citations = append(citations, Citation{
				DocumentID: m.Document.ID,
				DocType:    m.Document.Type,
				Filename:   m.Document.Filename,
				RefNumber:  m.Document.RefNumber,
			})
			idx = len(citations) - 1
		}

		citations[idx].ChunkIDs = append(citations[idx].ChunkIDs, m.Chunk.ID)
		citations[idx].ChunkCount++
	}

	return citations
}

// Reconcile drops citations whose document has since been deleted from
// the index. Old turns keep their citations in history; reconciliation
// only applies when a caller re-presents them.
func Reconcile(ctx context.Context, store DocumentChecker, citations []Citation) ([]Citation, error) {
	var live []Citation

	for _, c := range citations {
		exists, err := store.DocumentExists(ctx, c.DocumentID)
		if err != nil {
			return nil, err
		}

		if exists {
			live = append(live, c)
		}
	}

	return live, nil
}
