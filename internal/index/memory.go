package index

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"
)

// Memory is a mutex-guarded in-memory Store using brute-force cosine
// similarity. It backs tests and the no-database local mode.
type Memory struct {
	mu      sync.RWMutex
	dim     int
	docs    map[string]*Document
	chunks  map[string]ChunkRecord
	byDoc   map[string][]string // document id -> chunk ids, ordinal order
	nextRef int
}

func NewMemory(dim int) *Memory {
	return &Memory{
		dim:    dim,
		docs:   make(map[string]*Document),
		chunks: make(map[string]ChunkRecord),
		byDoc:  make(map[string][]string),
	}
}

func (m *Memory) Dimension() int {
	return m.dim
}

func (m *Memory) SaveResume(_ context.Context, doc Document, chunks []ChunkRecord) (*Document, error) {
	if err := checkDimensions(m.dim, chunks); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// drop the prior resume and its chunks in the same critical section
	// so no query can observe both resumes or an orphaned chunk
	for id, d := range m.docs {
		if d.Type == DocTypeResume {
			m.removeLocked(id)
		}
	}

	doc.Type = DocTypeResume
	doc.RefNumber = 0
	m.insertLocked(&doc, chunks)

	return &doc, nil
}

func (m *Memory) SaveJobPosting(_ context.Context, doc Document, chunks []ChunkRecord) (*Document, error) {
	if err := checkDimensions(m.dim, chunks); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextRef++
	doc.Type = DocTypeJobPosting
	doc.RefNumber = m.nextRef
	m.insertLocked(&doc, chunks)

	return &doc, nil
}

func (m *Memory) UpsertChunks(_ context.Context, chunks []ChunkRecord) error {
	if err := checkDimensions(m.dim, chunks); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, c := range chunks {
		if _, exists := m.chunks[c.ID]; !exists {
			m.byDoc[c.DocumentID] = append(m.byDoc[c.DocumentID], c.ID)
		}

		m.chunks[c.ID] = c
	}

	return nil
}

func (m *Memory) DeleteDocument(_ context.Context, documentID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.docs[documentID]; !ok {
		return 0, ErrDocumentNotFound
	}

	return m.removeLocked(documentID), nil
}

func (m *Memory) DeleteJobPosting(_ context.Context, refNumber int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, d := range m.docs {
		if d.Type == DocTypeJobPosting && d.RefNumber == refNumber {
			return m.removeLocked(id), nil
		}
	}

	return 0, ErrDocumentNotFound
}

func (m *Memory) Query(_ context.Context, vector []float32, k int, filter *Filter) ([]Match, error) {
	if len(vector) != m.dim {
		return nil, ErrDimensionMismatch
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var matches []Match

	for _, c := range m.chunks {
		doc, ok := m.docs[c.DocumentID]
		if !ok || !filterAccepts(filter, doc) {
			continue
		}

		matches = append(matches, Match{
			Chunk:      c,
			Document:   *doc,
			Similarity: cosine(vector, c.Embedding),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})

	if k > 0 && len(matches) > k {
		matches = matches[:k]
	}

	return matches, nil
}

func (m *Memory) GetDocument(_ context.Context, documentID string) (*Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, ok := m.docs[documentID]
	if !ok {
		return nil, ErrDocumentNotFound
	}

	copied := *doc

	return &copied, nil
}

func (m *Memory) GetJobPosting(_ context.Context, refNumber int) (*Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, d := range m.docs {
		if d.Type == DocTypeJobPosting && d.RefNumber == refNumber {
			copied := *d
			return &copied, nil
		}
	}

	return nil, ErrDocumentNotFound
}

func (m *Memory) DocumentExists(_ context.Context, documentID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.docs[documentID]

	return ok, nil
}

func (m *Memory) GetStats(_ context.Context) (*Stats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := &Stats{TotalChunks: len(m.chunks)}

	for _, d := range m.docs {
		switch d.Type {
		case DocTypeResume:
			stats.ResumeChunks = d.ChunkCount
			stats.ResumeFilename = d.Filename
			stats.ResumeWordCount = d.WordCount
		case DocTypeJobPosting:
			stats.JobPostingChunks += d.ChunkCount
			stats.JobPostings = append(stats.JobPostings, JobPostingStat{
				RefNumber:  d.RefNumber,
				Filename:   d.Filename,
				ChunkCount: d.ChunkCount,
				WordCount:  d.WordCount,
			})
		}
	}

	sort.Slice(stats.JobPostings, func(i, j int) bool {
		return stats.JobPostings[i].RefNumber < stats.JobPostings[j].RefNumber
	})

	return stats, nil
}

func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.docs = make(map[string]*Document)
	m.chunks = make(map[string]ChunkRecord)
	m.byDoc = make(map[string][]string)

	return nil
}

// inserts a document and its chunks; callers hold the write lock
func (m *Memory) insertLocked(doc *Document, chunks []ChunkRecord) {
	doc.ChunkCount = len(chunks)
	doc.WordCount = 0

	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now()
	}

	for _, c := range chunks {
		doc.WordCount += c.WordCount
	}

	m.docs[doc.ID] = doc

	for _, c := range chunks {
		c.DocumentID = doc.ID
		m.chunks[c.ID] = c
		m.byDoc[doc.ID] = append(m.byDoc[doc.ID], c.ID)
	}
}

// removes a document and cascades to its chunks; callers hold the write lock
func (m *Memory) removeLocked(documentID string) int {
	removed := 0

	for _, chunkID := range m.byDoc[documentID] {
		if _, ok := m.chunks[chunkID]; ok {
			delete(m.chunks, chunkID)
			removed++
		}
	}

	delete(m.byDoc, documentID)
	delete(m.docs, documentID)

	return removed
}

func filterAccepts(f *Filter, doc *Document) bool {
	if f == nil {
		return true
	}

	if f.DocType != "" && doc.Type != f.DocType {
		return false
	}

	if f.RefNumber > 0 && (doc.Type != DocTypeJobPosting || doc.RefNumber != f.RefNumber) {
		return false
	}

	if f.DocumentID != "" && doc.ID != f.DocumentID {
		return false
	}

	return true
}

func cosine(a, b []float32) float64 {
	var dot, na, nb float64

	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}

	if na == 0 || nb == 0 {
		return 0
	}

	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
