package agent

import (
	"strings"
	"testing"

	"codeberg.org/careerintel/server/internal/index"
	"codeberg.org/careerintel/server/internal/sessions"
)

func TestCeilingDropsLowestRankedFirst(t *testing.T) {
	matches := []index.Match{
		testMatch("a.txt", index.DocTypeJobPosting, 1, strings.Repeat("x", 100)),
		testMatch("b.txt", index.DocTypeJobPosting, 2, strings.Repeat("y", 100)),
		testMatch("c.txt", index.DocTypeJobPosting, 3, strings.Repeat("z", 100)),
	}

	rendered, kept := buildDocumentContext(matches, 280)

	if len(kept) != 2 {
		t.Fatalf("expected 2 kept matches, got %d", len(kept))
	}

	if kept[0].Document.Filename != "a.txt" || kept[1].Document.Filename != "b.txt" {
		t.Error("trimming should drop from the tail of the ranking")
	}

	if strings.Contains(rendered, "zzz") {
		t.Error("dropped chunk must not appear in the rendered context")
	}
}

func TestCeilingNeverDropsTopMatch(t *testing.T) {
	matches := []index.Match{
		testMatch("a.txt", index.DocTypeResume, 0, strings.Repeat("x", 5000)),
	}

	_, kept := buildDocumentContext(matches, 100)

	if len(kept) != 1 {
		t.Fatal("the best match must survive even when it alone exceeds the ceiling")
	}
}

func TestZeroCeilingKeepsEverything(t *testing.T) {
	matches := []index.Match{
		testMatch("a.txt", index.DocTypeResume, 0, "one"),
		testMatch("b.txt", index.DocTypeJobPosting, 1, "two"),
	}

	_, kept := buildDocumentContext(matches, 0)

	if len(kept) != 2 {
		t.Errorf("ceiling of 0 means unlimited, got %d kept", len(kept))
	}
}

func TestHistoryTruncationPreservesQuestions(t *testing.T) {
	turns := []sessions.Turn{
		{Question: strings.Repeat("q", 800), Answer: strings.Repeat("a", 800)},
	}

	messages := buildHistoryMessages(turns, 500)

	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}

	if len(messages[0].Content) != 800 {
		t.Error("user questions must never be truncated")
	}

	if len(messages[1].Content) != 503 {
		t.Errorf("assistant answer should be cut to 500 chars plus ellipsis, got %d", len(messages[1].Content))
	}
}
