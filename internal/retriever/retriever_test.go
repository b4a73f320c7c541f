package retriever

import (
	"context"
	"slices"
	"testing"

	"codeberg.org/careerintel/server/internal/index"
	"github.com/google/uuid"
)

const testDim = 3

// deterministic embedder for tests: every text maps to the same vector
type stubEmbedder struct {
	vec []float32
}

func (s *stubEmbedder) GenerateEmbedding(_ context.Context, _ string) ([]float32, error) {
	return s.vec, nil
}

func (s *stubEmbedder) GenerateEmbeddings(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = s.vec
	}

	return out, nil
}

func (s *stubEmbedder) Dimension() int {
	return len(s.vec)
}

func testClient(t *testing.T, store index.Store) *Client {
	t.Helper()

	return NewClientWithConfig(store, &stubEmbedder{vec: []float32{1, 0, 0}}, &RetrieverConfig{
		TopK:            5,
		FetchMultiplier: 4,
		Lambda:          0.5,
	})
}

func seedJobPosting(t *testing.T, store index.Store, filename string, vecs ...[]float32) *index.Document {
	t.Helper()

	doc := index.Document{ID: uuid.NewString(), Filename: filename}
	chunks := make([]index.ChunkRecord, len(vecs))

	for i, v := range vecs {
		chunks[i] = index.ChunkRecord{
			ID:        uuid.NewString(),
			Index:     i,
			Text:      filename,
			WordCount: 1,
			Embedding: v,
		}
	}

	saved, err := store.SaveJobPosting(context.Background(), doc, chunks)
	if err != nil {
		t.Fatalf("failed to seed job posting: %v", err)
	}

	return saved
}

func seedResume(t *testing.T, store index.Store, vecs ...[]float32) *index.Document {
	t.Helper()

	doc := index.Document{ID: uuid.NewString(), Filename: "resume.txt"}
	chunks := make([]index.ChunkRecord, len(vecs))

	for i, v := range vecs {
		chunks[i] = index.ChunkRecord{
			ID:        uuid.NewString(),
			Index:     i,
			Text:      "resume",
			WordCount: 1,
			Embedding: v,
		}
	}

	saved, err := store.SaveResume(context.Background(), doc, chunks)
	if err != nil {
		t.Fatalf("failed to seed resume: %v", err)
	}

	return saved
}

func TestParseJobRefs(t *testing.T) {
	tests := []struct {
		query string
		want  []int
	}{
		{"how do I match job 2", []int{2}},
		{"compare Job #3 and job #1", []int{3, 1}},
		{"job#4 requirements", []int{4}},
		{"what about my resume", nil},
		{"I did a good job today", nil},
		{"job 2 and job 2 again", []int{2}},
	}

	for _, tt := range tests {
		got := parseJobRefs(tt.query)
		if !slices.Equal(got, tt.want) {
			t.Errorf("parseJobRefs(%q) = %v, want %v", tt.query, got, tt.want)
		}
	}
}

func TestIsComparisonQuery(t *testing.T) {
	comparisons := []string{
		"compare my resume with job 1",
		"how well do I match this posting",
		"what are the gaps between my skills and job 2",
		"am I qualified for job 3",
	}

	for _, q := range comparisons {
		if !isComparisonQuery(q) {
			t.Errorf("expected comparison query: %q", q)
		}
	}

	if isComparisonQuery("what does job 1 pay") {
		t.Error("plain lookup should not count as comparison")
	}
}

func TestRetrieveFiltersToReferencedJob(t *testing.T) {
	store := index.NewMemory(testDim)
	seedJobPosting(t, store, "job_a.txt", []float32{1, 0, 0})
	jobB := seedJobPosting(t, store, "job_b.txt", []float32{0.9, 0.1, 0})

	client := testClient(t, store)

	result, err := client.Retrieve(context.Background(), "what does job 2 require")
	if err != nil {
		t.Fatalf("retrieve failed: %v", err)
	}

	if len(result.Matches) == 0 {
		t.Fatal("expected matches")
	}

	for _, m := range result.Matches {
		if m.Document.ID != jobB.ID {
			t.Errorf("match from wrong document: %s", m.Document.Filename)
		}
	}

	if result.Degraded() {
		t.Error("resolved reference should not be degraded")
	}
}

func TestRetrieveDegradesOnUnknownReference(t *testing.T) {
	store := index.NewMemory(testDim)
	seedJobPosting(t, store, "job_a.txt", []float32{1, 0, 0})

	client := testClient(t, store)

	result, err := client.Retrieve(context.Background(), "tell me about job 99")
	if err != nil {
		t.Fatalf("degraded retrieval must not fail: %v", err)
	}

	if !result.Degraded() {
		t.Fatal("expected degraded retrieval")
	}

	if !slices.Equal(result.UnresolvedRefs, []int{99}) {
		t.Errorf("unexpected unresolved refs: %v", result.UnresolvedRefs)
	}

	// unfiltered fallback still returns the corpus
	if len(result.Matches) == 0 {
		t.Error("degraded retrieval should fall back to the whole corpus")
	}
}

func TestComparisonRetrievesFromBothSources(t *testing.T) {
	store := index.NewMemory(testDim)
	resume := seedResume(t, store, []float32{1, 0, 0}, []float32{0.9, 0.1, 0})
	job := seedJobPosting(t, store, "job_a.txt", []float32{0.2, 0.9, 0}, []float32{0.1, 0.95, 0})

	client := testClient(t, store)

	result, err := client.Retrieve(context.Background(), "compare my resume with job 1")
	if err != nil {
		t.Fatalf("retrieve failed: %v", err)
	}

	if !result.Comparison {
		t.Error("expected comparison retrieval")
	}

	var sawResume, sawJob bool

	for _, m := range result.Matches {
		switch m.Document.ID {
		case resume.ID:
			sawResume = true
		case job.ID:
			sawJob = true
		}
	}

	if !sawResume || !sawJob {
		t.Errorf("comparison should include both sources: resume=%v job=%v", sawResume, sawJob)
	}
}

func TestRetrieveUnfilteredSearchesEverything(t *testing.T) {
	store := index.NewMemory(testDim)
	seedResume(t, store, []float32{1, 0, 0})
	seedJobPosting(t, store, "job_a.txt", []float32{0.9, 0.1, 0})

	client := testClient(t, store)

	result, err := client.Retrieve(context.Background(), "summarize my documents")
	if err != nil {
		t.Fatalf("retrieve failed: %v", err)
	}

	docs := make(map[string]bool)
	for _, m := range result.Matches {
		docs[m.Document.ID] = true
	}

	if len(docs) < 2 {
		t.Errorf("unfiltered retrieval should span documents, got %d", len(docs))
	}
}

func TestRetrieveCapsAtTopK(t *testing.T) {
	store := index.NewMemory(testDim)

	vecs := make([][]float32, 30)
	for i := range vecs {
		vecs[i] = []float32{1, float32(i) * 0.01, 0}
	}

	seedJobPosting(t, store, "job_big.txt", vecs...)

	client := testClient(t, store)

	result, err := client.Retrieve(context.Background(), "requirements")
	if err != nil {
		t.Fatalf("retrieve failed: %v", err)
	}

	if len(result.Matches) != 5 {
		t.Errorf("expected TopK=5 matches, got %d", len(result.Matches))
	}
}
