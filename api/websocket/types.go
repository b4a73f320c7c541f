package websocket

import "codeberg.org/careerintel/server/internal/agent"

type ConnectParams struct {
	SessionID string `form:"session_id" binding:"required"`
}

// client -> server frame
type InboundMessage struct {
	Type     string `json:"type"` // "ask" or "cancel"
	Question string `json:"question,omitempty"`
}

// server -> client frame
type OutboundMessage struct {
	Type     string             `json:"type"` // "state", "token", "result", "error"
	State    agent.State        `json:"state,omitempty"`
	Token    string             `json:"token,omitempty"`
	Response *agent.AskResponse `json:"response,omitempty"`
	Error    string             `json:"error,omitempty"`
}
