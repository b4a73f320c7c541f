package citations

import (
	"context"
	"testing"

	"codeberg.org/careerintel/server/internal/index"
	"github.com/google/uuid"
)

func match(docID, filename string, docType index.DocType, ref int, chunkID string) index.Match {
	return index.Match{
		Chunk: index.ChunkRecord{ID: chunkID, DocumentID: docID},
		Document: index.Document{
			ID:        docID,
			Type:      docType,
			Filename:  filename,
			RefNumber: ref,
		},
	}
}

func TestFromMatchesDeduplicatesInFirstSeenOrder(t *testing.T) {
	resumeID := uuid.NewString()
	jobID := uuid.NewString()

	matches := []index.Match{
		match(jobID, "job_a.txt", index.DocTypeJobPosting, 1, "c1"),
		match(resumeID, "resume.txt", index.DocTypeResume, 0, "c2"),
		match(jobID, "job_a.txt", index.DocTypeJobPosting, 1, "c3"),
		match(resumeID, "resume.txt", index.DocTypeResume, 0, "c4"),
	}

	citations := FromMatches(matches)

	if len(citations) != 2 {
		t.Fatalf("expected 2 citations, got %d", len(citations))
	}

	if citations[0].DocumentID != jobID {
		t.Error("first citation should be the first-seen document")
	}

	if citations[0].ChunkCount != 2 || citations[1].ChunkCount != 2 {
		t.Errorf("chunk counts wrong: %d, %d", citations[0].ChunkCount, citations[1].ChunkCount)
	}

	if citations[0].RefNumber != 1 {
		t.Errorf("job citation should carry its reference number, got %d", citations[0].RefNumber)
	}
}

func TestFromMatchesEmpty(t *testing.T) {
	if got := FromMatches(nil); got != nil {
		t.Errorf("expected nil for no matches, got %v", got)
	}
}

func TestReconcileDropsDeletedDocuments(t *testing.T) {
	ctx := context.Background()
	store := index.NewMemory(2)

	doc := index.Document{ID: uuid.NewString(), Filename: "job_a.txt"}
	saved, err := store.SaveJobPosting(ctx, doc, []index.ChunkRecord{
		{ID: uuid.NewString(), Index: 0, Text: "x", Embedding: []float32{1, 0}},
	})
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	stale := []Citation{
		{DocumentID: saved.ID, Filename: "job_a.txt"},
		{DocumentID: uuid.NewString(), Filename: "deleted.txt"},
	}

	live, err := Reconcile(ctx, store, stale)
	if err != nil {
		t.Fatalf("reconcile failed: %v", err)
	}

	if len(live) != 1 {
		t.Fatalf("expected 1 live citation, got %d", len(live))
	}

	if live[0].DocumentID != saved.ID {
		t.Error("surviving citation should point at the live document")
	}
}
