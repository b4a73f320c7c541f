package tui

import "time"

// represents the current state of the TUI
type AppState int

const (
	StateWelcome AppState = iota
	StateChat
)

// main TUI application model
type Model struct {
	state   AppState
	mode    string
	width   int
	height  int
	err     error
	welcome *Welcome
	chat    *ChatModel
}

// sent when an error occurs
type ErrorMsg struct {
	err error
}

// sent to transition to the chat screen
type EnterChatMsg struct{}

// represents one chat message in the conversation
type ChatMessage struct {
	Role     string `json:"role"`
	Content  string `json:"content"`
	Metadata string `json:"metadata,omitempty"`
}

// sent when the server starts
type ServerStartedMsg struct{}

// sent when the ingester completes
type IngesterCompleteMsg struct{}

// sent when a session has been created over REST
type SessionCreatedMsg struct {
	sessionID string
	expiresAt time.Time
}

// sent when starter suggestions have been fetched
type SuggestionsMsg struct {
	suggestions []string
}

// sent when the webSocket connection is established
type WSConnectedMsg struct{}

// sent when the webSocket connection fails
type WSConnectErrorMsg struct {
	err error
}

// streamed frames from the server, surfaced as bubbletea messages

type StreamStateMsg struct {
	state string
}

type StreamTokenMsg struct {
	token string
}

type StreamResultMsg struct {
	answer    string
	citations []citationSummary
	chunks    int
	degraded  bool
}

type StreamErrorMsg struct {
	err error
}

// sent when the server closes the webSocket
type WSClosedMsg struct {
	err error
}
