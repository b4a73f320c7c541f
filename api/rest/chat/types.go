package chat

import (
	"time"

	"codeberg.org/careerintel/server/internal/citations"
	"codeberg.org/careerintel/server/internal/sessions"
)

type CreateSessionResponse struct {
	SessionID string    `json:"session_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

type AskRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	Question  string `json:"question" binding:"required"`
}

type AskResponse struct {
	Answer         string               `json:"answer"`
	Citations      []citations.Citation `json:"citations,omitempty"`
	ChunksUsed     int                  `json:"chunks_used"`
	Degraded       bool                 `json:"degraded,omitempty"`
	UnresolvedRefs []int                `json:"unresolved_refs,omitempty"`
}

type HistoryResponse struct {
	SessionID string          `json:"session_id"`
	Turns     []sessions.Turn `json:"turns"`
}

type ResetRequest struct {
	SessionID string `json:"session_id" binding:"required"`
}

type SuggestionsResponse struct {
	Suggestions []string `json:"suggestions"`
}
