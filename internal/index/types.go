package index

import "time"

// document categories stored in the registry
type DocType string

const (
	DocTypeResume     DocType = "resume"
	DocTypeJobPosting DocType = "job_posting"
)

// a registered document. Job postings carry a stable reference number
// assigned sequentially from 1 at creation; the resume has none and is
// addressed implicitly.
type Document struct {
	ID         string
	Type       DocType
	Filename   string
	RefNumber  int // 0 for the resume
	ChunkCount int
	WordCount  int
	CreatedAt  time.Time
}

// a chunk plus its embedding, as persisted in the index
type ChunkRecord struct {
	ID          string
	DocumentID  string
	Index       int
	Text        string
	WordCount   int
	TotalChunks int
	Embedding   []float32
}

// restricts a query to a subset of the corpus. Zero values mean
// unrestricted.
type Filter struct {
	DocType    DocType
	RefNumber  int // >0 restricts to the job posting with that number
	DocumentID string
}

// a retrieved chunk with its owning document's metadata attached
type Match struct {
	Chunk      ChunkRecord
	Document   Document
	Similarity float64
}

// per-document statistics for display
type Stats struct {
	TotalChunks      int
	ResumeChunks     int
	JobPostingChunks int
	ResumeFilename   string
	ResumeWordCount  int
	JobPostings      []JobPostingStat
}

type JobPostingStat struct {
	RefNumber  int
	Filename   string
	ChunkCount int
	WordCount  int
}
