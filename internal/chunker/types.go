package chunker

import "errors"

// signaled when a document contains no usable text; callers must reject
// the upload rather than store an empty document
var ErrEmptyDocument = errors.New("document contains no text")

// controls how documents are segmented
type Options struct {
	MaxChars     int      // target chunk size in characters (~4 chars per token)
	OverlapChars int      // tail of the previous chunk re-included at the head of the next
	Separators   []string // tried coarse to fine; "" means fixed-width character windows
}

// returns the segmentation defaults: ~512 tokens per chunk with a
// ~50 token overlap, splitting at paragraph, line, sentence, clause
// and word boundaries before falling back to raw characters
func DefaultOptions() Options {
	return Options{
		MaxChars:     2000,
		OverlapChars: 200,
		Separators:   []string{"\n\n", "\n", ". ", ", ", " ", ""},
	}
}

// a bounded segment of a document's text, the unit of embedding and retrieval
type Chunk struct {
	ID          string
	DocumentID  string
	Index       int // 0-based, contiguous within the document
	Text        string
	WordCount   int
	TotalChunks int
}
