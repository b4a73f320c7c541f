package chunker

import (
	"strings"

	"github.com/google/uuid"
)

// splits document text into overlapping, bounded-size chunks
type Splitter struct {
	opts Options
}

func New(opts Options) *Splitter {
	if opts.MaxChars <= 0 {
		opts.MaxChars = DefaultOptions().MaxChars
	}

	if opts.OverlapChars < 0 || opts.OverlapChars >= opts.MaxChars {
		opts.OverlapChars = DefaultOptions().OverlapChars
	}

	if len(opts.Separators) == 0 {
		opts.Separators = DefaultOptions().Separators
	}

	return &Splitter{opts: opts}
}

// segments raw text into chunk texts. Separators are applied coarse to
// fine, recursively re-splitting any segment that still exceeds the
// budget, then greedily merging adjacent segments back together with the
// configured overlap carried across chunk boundaries.
func (s *Splitter) Split(text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyDocument
	}

	pieces := s.split(text, s.opts.Separators)

	out := make([]string, 0, len(pieces))

	for _, p := range pieces {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}

		out = append(out, p)
	}

	// fold an undersized trailing fragment into its predecessor so the
	// last chunk is never a spurious sliver
	if n := len(out); n > 1 && len(out[n-1]) < s.opts.OverlapChars {
		out[n-2] = out[n-2] + " " + out[n-1]
		out = out[:n-1]
	}

	return out, nil
}

// segments raw text and wraps each piece in a Chunk with its ordinal
// position, word count and sibling count filled in
func (s *Splitter) ChunkDocument(documentID, text string) ([]Chunk, error) {
	texts, err := s.Split(text)
	if err != nil {
		return nil, err
	}

	chunks := make([]Chunk, 0, len(texts))

	for i, t := range texts {
		chunks = append(chunks, Chunk{
			ID:          uuid.NewString(),
			DocumentID:  documentID,
			Index:       i,
			Text:        t,
			WordCount:   len(strings.Fields(t)),
			TotalChunks: len(texts),
		})
	}

	return chunks, nil
}

// recursive descent through the separator cascade. Segments that fit the
// budget are collected and merged; oversized segments are re-split with
// the remaining, finer separators.
func (s *Splitter) split(text string, separators []string) []string {
	if len(text) <= s.opts.MaxChars {
		return []string{text}
	}

	// first separator actually present in the text wins; the empty
	// separator is the fixed-width fallback of last resort
	sep := ""
	var finer []string

	for i, cand := range separators {
		if cand == "" {
			break
		}

		if strings.Contains(text, cand) {
			sep = cand
			finer = separators[i+1:]

			break
		}
	}

	if sep == "" {
		return s.windows(text)
	}

	var result []string
	var pending []string

	for _, piece := range splitKeepingSeparator(text, sep) {
		if len(piece) < s.opts.MaxChars {
			pending = append(pending, piece)
			continue
		}

		if len(pending) > 0 {
			result = append(result, s.merge(pending)...)
			pending = nil
		}

		result = append(result, s.split(piece, finer)...)
	}

	if len(pending) > 0 {
		result = append(result, s.merge(pending)...)
	}

	return result
}

// greedily combines small segments into budget-sized chunks. When a chunk
// closes, segments are dropped from the front of the window until at most
// OverlapChars remain; those survivors become the head of the next chunk.
func (s *Splitter) merge(pieces []string) []string {
	var chunks []string
	var window []string
	total := 0

	for _, p := range pieces {
		if total+len(p) > s.opts.MaxChars && total > 0 {
			chunks = append(chunks, strings.Join(window, ""))

			for len(window) > 0 &&
				(total > s.opts.OverlapChars || total+len(p) > s.opts.MaxChars) {
				total -= len(window[0])
				window = window[1:]
			}
		}

		window = append(window, p)
		total += len(p)
	}

	if total > 0 {
		chunks = append(chunks, strings.Join(window, ""))
	}

	return chunks
}

// fixed-width character windows with overlap, for text with no
// recognizable separators at all
func (s *Splitter) windows(text string) []string {
	step := s.opts.MaxChars - s.opts.OverlapChars
	if step <= 0 {
		step = s.opts.MaxChars
	}

	runes := []rune(text)
	var out []string

	for start := 0; start < len(runes); start += step {
		end := start + s.opts.MaxChars
		if end > len(runes) {
			end = len(runes)
		}

		out = append(out, string(runes[start:end]))

		if end == len(runes) {
			break
		}
	}

	return out
}

// splits on sep, keeping the separator attached to the end of the
// preceding piece so no text is lost in reassembly
func splitKeepingSeparator(text, sep string) []string {
	parts := strings.Split(text, sep)
	out := make([]string, 0, len(parts))

	for i, p := range parts {
		if i < len(parts)-1 {
			p += sep
		}

		if p != "" {
			out = append(out, p)
		}
	}

	return out
}

// rough token estimate used for sizing decisions and display (4 chars per token)
func EstimateTokens(text string) int {
	return len(text) / 4
}
