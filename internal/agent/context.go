package agent

import (
	"fmt"
	"strings"

	"codeberg.org/careerintel/server/internal/index"
	"codeberg.org/careerintel/server/internal/llm"
	"codeberg.org/careerintel/server/internal/sessions"
)

// formats retrieved chunks as tagged context blocks and enforces the
// character ceiling. Matches arrive ranked best-first, so trimming drops
// from the tail; at least the top match always survives. Returns the
// rendered context and the matches that made it in, for attribution.
func buildDocumentContext(matches []index.Match, ceiling int) (string, []index.Match) {
	if len(matches) == 0 {
		return "", nil
	}

	var builder strings.Builder

	var kept []index.Match

	for _, m := range matches {
		block := formatChunkBlock(m)

		if len(kept) > 0 && ceiling > 0 && builder.Len()+len(block) > ceiling {
			break
		}

		builder.WriteString(block)
		kept = append(kept, m)
	}

	return builder.String(), kept
}

// tags each chunk with its source so the model can attribute claims,
// e.g. "[RESUME: resume.txt]" or "[JOB POSTING #2: backend_role.txt]"
func formatChunkBlock(m index.Match) string {
	var tag string

	switch m.Document.Type {
	case index.DocTypeResume:
		tag = fmt.Sprintf("[RESUME: %s]", m.Document.Filename)
	case index.DocTypeJobPosting:
		tag = fmt.Sprintf("[JOB POSTING #%d: %s]", m.Document.RefNumber, m.Document.Filename)
	default:
		tag = fmt.Sprintf("[DOCUMENT: %s]", m.Document.Filename)
	}

	return fmt.Sprintf("%s\n%s\n\n", tag, m.Chunk.Text)
}

// converts the newest history turns into provider messages. Assistant
// answers are truncated so a verbose reply cannot crowd the window; the
// user's questions are never cut.
func buildHistoryMessages(turns []sessions.Turn, maxAssistantChars int) []llm.Message {
	var messages []llm.Message

	for _, turn := range turns {
		messages = append(messages, llm.Message{Role: "user", Content: turn.Question})

		answer := turn.Answer
		if maxAssistantChars > 0 && len(answer) > maxAssistantChars {
			if runes := []rune(answer); len(runes) > maxAssistantChars {
				answer = string(runes[:maxAssistantChars]) + "..."
			}
		}

		messages = append(messages, llm.Message{Role: "assistant", Content: answer})
	}

	return messages
}
