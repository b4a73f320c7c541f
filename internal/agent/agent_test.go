package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"codeberg.org/careerintel/server/internal/index"
	"codeberg.org/careerintel/server/internal/llm"
	"codeberg.org/careerintel/server/internal/retriever"
	"codeberg.org/careerintel/server/internal/sessions"
)

type fakeRetriever struct {
	matches []index.Match
	refs    []int
	err     error
}

func (f *fakeRetriever) Retrieve(_ context.Context, _ string) (*retriever.Retrieval, error) {
	if f.err != nil {
		return nil, f.err
	}

	return &retriever.Retrieval{
		Matches:        f.matches,
		UnresolvedRefs: f.refs,
	}, nil
}

type fakeGenerator struct {
	answer  string
	err     error
	lastReq llm.TextGenerationRequest
}

func (f *fakeGenerator) GenerateText(_ context.Context, req llm.TextGenerationRequest) (*llm.TextGenerationResponse, error) {
	f.lastReq = req

	if f.err != nil {
		return nil, f.err
	}

	return &llm.TextGenerationResponse{
		Text:  f.answer,
		Usage: llm.Usage{InputTokens: 10, OutputTokens: 5},
	}, nil
}

func (f *fakeGenerator) GenerateTextStream(_ context.Context, req llm.TextGenerationRequest) (<-chan llm.StreamEvent, error) {
	f.lastReq = req

	if f.err != nil {
		return nil, f.err
	}

	events := make(chan llm.StreamEvent, 16)

	go func() {
		defer close(events)

		for _, word := range strings.SplitAfter(f.answer, " ") {
			events <- llm.StreamEvent{Token: word}
		}

		events <- llm.StreamEvent{Done: true, Usage: llm.Usage{InputTokens: 10, OutputTokens: 5}}
	}()

	return events, nil
}

func testMatch(filename string, docType index.DocType, ref int, text string) index.Match {
	return index.Match{
		Chunk: index.ChunkRecord{ID: filename + "-chunk", Text: text},
		Document: index.Document{
			ID:        filename + "-doc",
			Type:      docType,
			Filename:  filename,
			RefNumber: ref,
		},
		Similarity: 0.9,
	}
}

type fakeChecker struct {
	deleted map[string]bool
}

func (f *fakeChecker) DocumentExists(_ context.Context, documentID string) (bool, error) {
	return !f.deleted[documentID], nil
}

func testAgent(ret *fakeRetriever, gen *fakeGenerator) *Agent {
	return New(ret, gen, gen, nil)
}

func TestAskReturnsAnswerWithCitations(t *testing.T) {
	ret := &fakeRetriever{matches: []index.Match{
		testMatch("resume.txt", index.DocTypeResume, 0, "Go developer since 2019."),
		testMatch("job_a.txt", index.DocTypeJobPosting, 1, "Requires Go and Postgres."),
	}}
	gen := &fakeGenerator{answer: "You match Job #1 well."}

	resp, err := testAgent(ret, gen).Ask(context.Background(), AskRequest{Query: "do I fit job 1"})
	if err != nil {
		t.Fatalf("ask failed: %v", err)
	}

	if resp.Answer != "You match Job #1 well." {
		t.Errorf("unexpected answer: %q", resp.Answer)
	}

	if len(resp.Citations) != 2 {
		t.Fatalf("expected 2 citations, got %d", len(resp.Citations))
	}

	if resp.ChunksUsed != 2 {
		t.Errorf("expected 2 chunks used, got %d", resp.ChunksUsed)
	}
}

func TestAskBuildsTaggedContext(t *testing.T) {
	ret := &fakeRetriever{matches: []index.Match{
		testMatch("resume.txt", index.DocTypeResume, 0, "Go developer."),
		testMatch("job_a.txt", index.DocTypeJobPosting, 2, "Requires Go."),
	}}
	gen := &fakeGenerator{answer: "ok"}

	_, err := testAgent(ret, gen).Ask(context.Background(), AskRequest{Query: "question"})
	if err != nil {
		t.Fatalf("ask failed: %v", err)
	}

	prompt := gen.lastReq.SystemPrompt

	if !strings.Contains(prompt, "[RESUME: resume.txt]") {
		t.Error("resume excerpt should be tagged with its source")
	}

	if !strings.Contains(prompt, "[JOB POSTING #2: job_a.txt]") {
		t.Error("posting excerpt should carry its reference number")
	}
}

func TestAskRecordsCompletedTurn(t *testing.T) {
	session := &sessions.Session{ID: "s1"}
	ret := &fakeRetriever{}
	gen := &fakeGenerator{answer: "an answer"}

	_, err := testAgent(ret, gen).Ask(context.Background(), AskRequest{Query: "q", Session: session})
	if err != nil {
		t.Fatalf("ask failed: %v", err)
	}

	turns := session.AllTurns()
	if len(turns) != 1 {
		t.Fatalf("expected 1 recorded turn, got %d", len(turns))
	}

	if turns[0].Question != "q" || turns[0].Answer != "an answer" {
		t.Errorf("turn content wrong: %+v", turns[0])
	}
}

func TestFailedTurnLeavesHistoryUntouched(t *testing.T) {
	session := &sessions.Session{ID: "s1"}
	session.AppendTurn(sessions.Turn{Question: "old", Answer: "old answer"})

	ret := &fakeRetriever{}
	gen := &fakeGenerator{err: llm.ErrProviderTimeout}

	_, err := testAgent(ret, gen).Ask(context.Background(), AskRequest{Query: "q", Session: session})
	if err == nil {
		t.Fatal("expected error")
	}

	turns := session.AllTurns()
	if len(turns) != 1 || turns[0].Question != "old" {
		t.Errorf("failed turn must not modify history: %+v", turns)
	}
}

func TestAskIncludesRecentHistory(t *testing.T) {
	session := &sessions.Session{ID: "s1"}

	for i := range 7 {
		session.AppendTurn(sessions.Turn{
			Question: strings.Repeat("q", i+1),
			Answer:   strings.Repeat("a", 600),
		})
	}

	ret := &fakeRetriever{}
	gen := &fakeGenerator{answer: "ok"}

	_, err := testAgent(ret, gen).Ask(context.Background(), AskRequest{Query: "latest", Session: session})
	if err != nil {
		t.Fatalf("ask failed: %v", err)
	}

	// 5 history turns * 2 messages + the new query
	if len(gen.lastReq.Messages) != 11 {
		t.Fatalf("expected 11 messages, got %d", len(gen.lastReq.Messages))
	}

	last := gen.lastReq.Messages[len(gen.lastReq.Messages)-1]
	if last.Role != "user" || last.Content != "latest" {
		t.Errorf("final message should be the new query: %+v", last)
	}

	for _, msg := range gen.lastReq.Messages[:10] {
		if msg.Role == "assistant" && len(msg.Content) > 503 {
			t.Errorf("assistant history should be truncated, got %d chars", len(msg.Content))
		}
	}
}

func TestAskStreamEmitsTokensAndResult(t *testing.T) {
	session := &sessions.Session{ID: "s1"}
	ret := &fakeRetriever{matches: []index.Match{
		testMatch("resume.txt", index.DocTypeResume, 0, "Go developer."),
	}}
	gen := &fakeGenerator{answer: "streamed answer here"}

	var (
		tokens   strings.Builder
		states   []State
		terminal *AskResponse
	)

	for ev := range testAgent(ret, gen).AskStream(context.Background(), AskRequest{Query: "q", Session: session}) {
		if ev.Err != nil {
			t.Fatalf("unexpected stream error: %v", ev.Err)
		}

		if ev.State != "" {
			states = append(states, ev.State)
		}

		tokens.WriteString(ev.Token)

		if ev.Response != nil {
			terminal = ev.Response
		}
	}

	if tokens.String() != "streamed answer here" {
		t.Errorf("assembled tokens wrong: %q", tokens.String())
	}

	want := []State{StateRetrieving, StateAssembling, StateGenerating, StateCompleted}
	if len(states) != len(want) {
		t.Fatalf("expected states %v, got %v", want, states)
	}

	for i := range want {
		if states[i] != want[i] {
			t.Errorf("state %d: expected %s, got %s", i, want[i], states[i])
		}
	}

	if terminal == nil {
		t.Fatal("expected a terminal response")
	}

	if terminal.Answer != "streamed answer here" {
		t.Errorf("terminal answer wrong: %q", terminal.Answer)
	}

	if len(session.AllTurns()) != 1 {
		t.Error("completed streamed turn should be recorded")
	}
}

func TestAskStreamFailureEmitsFailedState(t *testing.T) {
	session := &sessions.Session{ID: "s1"}
	ret := &fakeRetriever{err: errors.New("index down")}
	gen := &fakeGenerator{answer: "unused"}

	var sawFailed bool

	for ev := range testAgent(ret, gen).AskStream(context.Background(), AskRequest{Query: "q", Session: session}) {
		if ev.State == StateFailed && ev.Err != nil {
			sawFailed = true
		}
	}

	if !sawFailed {
		t.Fatal("expected a failed terminal event")
	}

	if len(session.AllTurns()) != 0 {
		t.Error("failed turn must not be recorded")
	}
}

func TestCitationsDroppedForDocumentDeletedMidTurn(t *testing.T) {
	ret := &fakeRetriever{matches: []index.Match{
		testMatch("resume.txt", index.DocTypeResume, 0, "Go developer."),
		testMatch("job_a.txt", index.DocTypeJobPosting, 1, "Requires Go."),
	}}
	gen := &fakeGenerator{answer: "ok"}
	checker := &fakeChecker{deleted: map[string]bool{"job_a.txt-doc": true}}

	resp, err := New(ret, gen, gen, checker).Ask(context.Background(), AskRequest{Query: "q"})
	if err != nil {
		t.Fatalf("ask failed: %v", err)
	}

	if len(resp.Citations) != 1 {
		t.Fatalf("expected 1 surviving citation, got %d", len(resp.Citations))
	}

	if resp.Citations[0].Filename != "resume.txt" {
		t.Errorf("wrong citation survived: %+v", resp.Citations[0])
	}
}

func TestEmptyQueryRejected(t *testing.T) {
	_, err := testAgent(&fakeRetriever{}, &fakeGenerator{}).Ask(context.Background(), AskRequest{Query: ""})
	if err == nil {
		t.Fatal("empty query should be rejected")
	}
}
