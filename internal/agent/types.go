package agent

import (
	"context"

	"codeberg.org/careerintel/server/internal/citations"
	"codeberg.org/careerintel/server/internal/llm"
	"codeberg.org/careerintel/server/internal/retriever"
	"codeberg.org/careerintel/server/internal/sessions"
)

// the phases a turn moves through, surfaced to clients so they can show
// progress while tokens are still pending
type State string

const (
	StateIdle       State = "idle"
	StateRetrieving State = "retrieving"
	StateAssembling State = "assembling_context"
	StateGenerating State = "generating"
	StateCompleted  State = "completed"
	StateFailed     State = "failed"
	StateCancelled  State = "cancelled"
)

// interface for chunk retrieval
type Retriever interface {
	Retrieve(ctx context.Context, query string) (*retriever.Retrieval, error)
}

// orchestrates one rag-powered conversation turn
type Agent struct {
	retriever Retriever
	generator llm.TextGenerator
	streamer  llm.StreamingGenerator
	store     citations.DocumentChecker
	config    Config
}

type Config struct {
	// newest history turns included in generation context
	MaxHistoryTurns int

	// assistant answers in history are cut to this many characters
	MaxAssistantChars int

	// upper bound on document context characters; lowest-ranked chunks
	// are dropped first when the assembled context would exceed it
	ContextCeiling int
}

func DefaultConfig() Config {
	return Config{
		MaxHistoryTurns:   5,
		MaxAssistantChars: 500,
		ContextCeiling:    24000,
	}
}

// contains all inputs for one turn
type AskRequest struct {
	Query   string
	Session *sessions.Session
}

// contains the final answer and its provenance
type AskResponse struct {
	Answer         string               `json:"answer"`
	Citations      []citations.Citation `json:"citations,omitempty"`
	ChunksUsed     int                  `json:"chunks_used"`
	Degraded       bool                 `json:"degraded,omitempty"`
	UnresolvedRefs []int                `json:"unresolved_refs,omitempty"`
	InputTokens    int                  `json:"input_tokens"`
	OutputTokens   int                  `json:"output_tokens"`
}

// one increment of a streamed turn: a state transition, a token, or the
// terminal result
type Event struct {
	State    State        `json:"state,omitempty"`
	Token    string       `json:"token,omitempty"`
	Response *AskResponse `json:"response,omitempty"`
	Err      error        `json:"-"`
}
