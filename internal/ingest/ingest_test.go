package ingest

import (
	"context"
	"errors"
	"strings"
	"testing"

	"codeberg.org/careerintel/server/internal/chunker"
	"codeberg.org/careerintel/server/internal/index"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDim = 3

type stubEmbedder struct {
	calls int
	fail  bool
}

func (s *stubEmbedder) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	vecs, err := s.GenerateEmbeddings(ctx, []string{text})
	if err != nil {
		return nil, err
	}

	return vecs[0], nil
}

func (s *stubEmbedder) GenerateEmbeddings(_ context.Context, texts []string) ([][]float32, error) {
	s.calls++

	if s.fail {
		return nil, errors.New("embedder down")
	}

	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 0, 0}
	}

	return out, nil
}

func (s *stubEmbedder) Dimension() int {
	return testDim
}

func newTestService(t *testing.T, embedder *stubEmbedder, store index.Store) *Service {
	t.Helper()

	return NewService(chunker.New(chunker.DefaultOptions()), embedder, store)
}

func TestIngestResume(t *testing.T) {
	store := index.NewMemory(testDim)
	svc := newTestService(t, &stubEmbedder{}, store)

	doc, err := svc.IngestResume(context.Background(), "resume.txt",
		"Senior Go developer with five years of backend experience.")
	require.NoError(t, err)

	assert.Equal(t, index.DocTypeResume, doc.Type)
	assert.Equal(t, 0, doc.RefNumber)
	assert.Positive(t, doc.ChunkCount)
	assert.Positive(t, doc.WordCount)

	stats, err := store.GetStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "resume.txt", stats.ResumeFilename)
}

func TestIngestJobPostingAssignsRef(t *testing.T) {
	store := index.NewMemory(testDim)
	svc := newTestService(t, &stubEmbedder{}, store)

	first, err := svc.IngestJobPosting(context.Background(), "job_a.txt", "Backend role using Go.")
	require.NoError(t, err)
	assert.Equal(t, 1, first.RefNumber)

	second, err := svc.IngestJobPosting(context.Background(), "job_b.txt", "Platform role using Postgres.")
	require.NoError(t, err)
	assert.Equal(t, 2, second.RefNumber)
}

func TestIngestEmptyDocumentAborts(t *testing.T) {
	store := index.NewMemory(testDim)
	embedder := &stubEmbedder{}
	svc := newTestService(t, embedder, store)

	_, err := svc.IngestResume(context.Background(), "resume.txt", "   \n\n  ")
	assert.ErrorIs(t, err, chunker.ErrEmptyDocument)

	assert.Zero(t, embedder.calls, "empty documents should never reach the embedder")

	stats, err := store.GetStats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.TotalChunks)
}

func TestEmbedderFailureLeavesIndexUntouched(t *testing.T) {
	store := index.NewMemory(testDim)
	svc := newTestService(t, &stubEmbedder{fail: true}, store)

	_, err := svc.IngestJobPosting(context.Background(), "job.txt", "Some posting text.")
	require.Error(t, err)

	stats, err := store.GetStats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.TotalChunks, "failed upload must not leave partial state")
}

func TestLargeDocumentBatchesEmbeddings(t *testing.T) {
	store := index.NewMemory(testDim)
	embedder := &stubEmbedder{}
	svc := newTestService(t, embedder, store)

	var sb strings.Builder
	for i := range 6000 {
		sb.WriteString("Accomplishment describing a project milestone in detail. ")

		if i%5 == 4 {
			sb.WriteString("\n\n")
		}
	}

	doc, err := svc.IngestResume(context.Background(), "resume.txt", sb.String())
	require.NoError(t, err)

	assert.Greater(t, doc.ChunkCount, embedBatchSize, "test needs more chunks than one batch")
	assert.GreaterOrEqual(t, embedder.calls, 2, "chunks should be embedded in batches")
}
