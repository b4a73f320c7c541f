package documents

import "codeberg.org/careerintel/server/internal/index"

type UploadRequest struct {
	Filename string `json:"filename" binding:"required"`
	Text     string `json:"text" binding:"required"`
}

// UploadResponse returned after a successful ingestion
type UploadResponse struct {
	DocumentID string `json:"document_id"`
	Filename   string `json:"filename"`
	DocType    string `json:"doc_type"`
	RefNumber  int    `json:"ref_number,omitempty"`
	ChunkCount int    `json:"chunk_count"`
	WordCount  int    `json:"word_count"`
}

type DeleteResponse struct {
	RefNumber     int `json:"ref_number"`
	ChunksRemoved int `json:"chunks_removed"`
}

type StatsResponse struct {
	TotalChunks      int              `json:"total_chunks"`
	ResumeChunks     int              `json:"resume_chunks"`
	JobPostingChunks int              `json:"job_posting_chunks"`
	ResumeFilename   string           `json:"resume_filename,omitempty"`
	ResumeWordCount  int              `json:"resume_word_count,omitempty"`
	JobPostings      []JobPostingInfo `json:"job_postings"`
}

type JobPostingInfo struct {
	RefNumber  int    `json:"ref_number"`
	Filename   string `json:"filename"`
	ChunkCount int    `json:"chunk_count"`
	WordCount  int    `json:"word_count"`
}

func uploadResponse(doc *index.Document) UploadResponse {
	return UploadResponse{
		DocumentID: doc.ID,
		Filename:   doc.Filename,
		DocType:    string(doc.Type),
		RefNumber:  doc.RefNumber,
		ChunkCount: doc.ChunkCount,
		WordCount:  doc.WordCount,
	}
}
