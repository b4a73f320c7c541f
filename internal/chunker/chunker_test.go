package chunker

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

// builds a corpus of unique sentences so overlap detection in the
// round-trip check can never match unrelated repetitions
func repeatSentences(n int) string {
	var b strings.Builder

	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "Accomplishment number %d describes project phase %d in detail. ", i, i*7)

		if i%3 == 2 {
			b.WriteString("\n\n")
		}
	}

	return b.String()
}

func TestShortTextYieldsSingleChunk(t *testing.T) {
	s := New(DefaultOptions())

	chunks, err := s.ChunkDocument("doc-1", "A short resume paragraph.")
	if err != nil {
		t.Fatalf("ChunkDocument failed: %v", err)
	}

	if len(chunks) != 1 {
		t.Fatalf("expected exactly one chunk, got %d", len(chunks))
	}

	if chunks[0].Index != 0 || chunks[0].TotalChunks != 1 {
		t.Errorf("unexpected ordinal metadata: index=%d total=%d", chunks[0].Index, chunks[0].TotalChunks)
	}

	if chunks[0].WordCount != 4 {
		t.Errorf("expected word count 4, got %d", chunks[0].WordCount)
	}
}

func TestEmptyDocumentRejected(t *testing.T) {
	s := New(DefaultOptions())

	for _, input := range []string{"", "   ", "\n\n\t  \n"} {
		_, err := s.Split(input)
		if !errors.Is(err, ErrEmptyDocument) {
			t.Errorf("input %q: expected ErrEmptyDocument, got %v", input, err)
		}
	}
}

func TestChunksRespectBudget(t *testing.T) {
	s := New(DefaultOptions())

	texts, err := s.Split(repeatSentences(200))
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}

	if len(texts) < 2 {
		t.Fatalf("expected multiple chunks for long input, got %d", len(texts))
	}

	for i, text := range texts {
		// merged trailing fragments may push a chunk slightly past the
		// budget; anything beyond budget+overlap indicates a real bug
		if len(text) > DefaultOptions().MaxChars+DefaultOptions().OverlapChars {
			t.Errorf("chunk %d exceeds budget: %d chars", i, len(text))
		}
	}
}

func TestOrdinalsAreContiguous(t *testing.T) {
	s := New(DefaultOptions())

	chunks, err := s.ChunkDocument("doc-1", repeatSentences(120))
	if err != nil {
		t.Fatalf("ChunkDocument failed: %v", err)
	}

	for i, c := range chunks {
		if c.Index != i {
			t.Errorf("chunk %d carries index %d", i, c.Index)
		}

		if c.TotalChunks != len(chunks) {
			t.Errorf("chunk %d reports %d siblings, want %d", i, c.TotalChunks, len(chunks))
		}

		if c.DocumentID != "doc-1" {
			t.Errorf("chunk %d has document id %q", i, c.DocumentID)
		}
	}
}

// concatenating chunk texts after removing the overlap must reproduce the
// original text up to whitespace normalization
func TestRoundTripReproducesText(t *testing.T) {
	s := New(DefaultOptions())
	original := repeatSentences(150)

	texts, err := s.Split(original)
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}

	got := reconstructWords(texts)
	want := strings.Fields(original)

	if len(got) != len(want) {
		t.Fatalf("reconstructed %d words, want %d", len(got), len(want))
	}

	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("word %d differs: got %q want %q", i, got[i], want[i])
		}
	}
}

func TestNoSeparatorFallsBackToWindows(t *testing.T) {
	s := New(Options{MaxChars: 100, OverlapChars: 20})

	texts, err := s.Split(strings.Repeat("x", 450))
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}

	if len(texts) < 2 {
		t.Fatalf("expected windowed chunks, got %d", len(texts))
	}

	for i := 1; i < len(texts); i++ {
		prev := texts[i-1]
		overlap := prev[len(prev)-20:]

		if !strings.HasPrefix(texts[i], overlap) {
			t.Errorf("window %d does not start with the previous window's tail", i)
		}
	}
}

func TestOverlapCarriedBetweenChunks(t *testing.T) {
	s := New(Options{MaxChars: 300, OverlapChars: 60})

	texts, err := s.Split(repeatSentences(40))
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}

	if len(texts) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(texts))
	}

	shared := 0

	for i := 1; i < len(texts); i++ {
		if wordOverlap(texts[i-1], texts[i]) > 0 {
			shared++
		}
	}

	if shared == 0 {
		t.Error("no chunk boundary carried overlap from its predecessor")
	}
}

// stitches chunk word sequences back together, dropping the overlap each
// chunk re-includes from its predecessor
func reconstructWords(texts []string) []string {
	var words []string

	for _, text := range texts {
		next := strings.Fields(text)

		if len(words) == 0 {
			words = next
			continue
		}

		words = append(words, next[wordOverlap(strings.Join(words, " "), text):]...)
	}

	return words
}

// returns the length in words of the longest suffix of prev that is a
// prefix of next
func wordOverlap(prev, next string) int {
	a := strings.Fields(prev)
	b := strings.Fields(next)

	max := len(a)
	if len(b) < max {
		max = len(b)
	}

	for n := max; n > 0; n-- {
		match := true

		for i := 0; i < n; i++ {
			if a[len(a)-n+i] != b[i] {
				match = false
				break
			}
		}

		if match {
			return n
		}
	}

	return 0
}
