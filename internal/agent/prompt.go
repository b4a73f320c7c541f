package agent

import (
	"strconv"
	"strings"
)

// holds all the context needed to build the system prompt
type systemPromptContext struct {
	DocumentContext string
	UnresolvedRefs  []int
}

// assembles the complete system prompt
func buildSystemPrompt(ctx systemPromptContext) string {
	var builder strings.Builder

	builder.WriteString(`You are a career advisor assistant. You help the user understand how their resume relates to job postings they are considering.

You answer strictly from the provided document excerpts. Each excerpt is tagged with its source: [RESUME: filename] for the user's resume, [JOB POSTING #N: filename] for a stored posting. When you reference a posting, cite it by its number, e.g. "Job #2".

Rules:
- Ground every claim in the excerpts. If the excerpts do not cover the question, say so instead of guessing.
- When comparing the resume with a posting, name concrete overlaps and gaps.
- Keep answers focused and practical.`)

	builder.WriteString("\n\n")

	if ctx.DocumentContext != "" {
		builder.WriteString("═══════════════════════════════════════════\n")
		builder.WriteString("DOCUMENT EXCERPTS\n")
		builder.WriteString("═══════════════════════════════════════════\n\n")
		builder.WriteString(ctx.DocumentContext)
	} else {
		builder.WriteString("No documents are stored yet. Tell the user to upload a resume or job posting before asking about them.\n")
	}

	if len(ctx.UnresolvedRefs) > 0 {
		builder.WriteString("\nNote: the user referenced job numbers that do not exist: ")

		for i, ref := range ctx.UnresolvedRefs {
			if i > 0 {
				builder.WriteString(", ")
			}

			builder.WriteString("#")
			builder.WriteString(strconv.Itoa(ref))
		}

		builder.WriteString(". Point this out and answer from the documents that are stored.\n")
	}

	return builder.String()
}
