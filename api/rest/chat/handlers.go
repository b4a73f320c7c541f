package chat

import (
	stderrors "errors"
	"net/http"

	"codeberg.org/careerintel/server/internal/agent"
	"codeberg.org/careerintel/server/internal/errors"
	"codeberg.org/careerintel/server/internal/llm"
	"codeberg.org/careerintel/server/internal/sessions"
	"github.com/gin-gonic/gin"
)

// starter questions shown to clients before the first turn
var suggestions = []string{
	"How well does my resume match Job #1?",
	"What skills am I missing for the jobs I saved?",
	"Summarize the requirements of my saved job postings.",
	"Which of my saved jobs is the best fit for my background?",
	"What should I emphasize in my resume for Job #2?",
}

// creates a handler that opens a new conversation session
func CreateSessionHandler(mgr *sessions.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := mgr.CreateSession()
		if err != nil {
			errors.InternalError(c, "failed to create session", err)
			return
		}

		c.JSON(http.StatusCreated, CreateSessionResponse{
			SessionID: session.ID,
			ExpiresAt: session.ExpiresAt,
		})
	}
}

// creates a handler for non-streaming questions
func AskHandler(agentClient *agent.Agent, mgr *sessions.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AskRequest

		if err := c.ShouldBindJSON(&req); err != nil {
			errors.ValidationError(c, err)
			return
		}

		session, ok := mgr.GetSession(req.SessionID)
		if !ok {
			errors.SessionNotFound(c)
			return
		}

		if err := session.BeginTurn(); err != nil {
			errors.Conflict(c, errors.CodeTurnInFlight, "a question is already being answered for this session")
			return
		}
		defer session.EndTurn()

		resp, err := agentClient.Ask(c.Request.Context(), agent.AskRequest{
			Query:   req.Question,
			Session: session,
		})
		if err != nil {
			respondAskError(c, err)
			return
		}

		c.JSON(http.StatusOK, AskResponse{
			Answer:         resp.Answer,
			Citations:      resp.Citations,
			ChunksUsed:     resp.ChunksUsed,
			Degraded:       resp.Degraded,
			UnresolvedRefs: resp.UnresolvedRefs,
		})
	}
}

// creates a handler returning the full session transcript
func HistoryHandler(mgr *sessions.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.Query("session_id")
		if sessionID == "" {
			errors.BadRequest(c, "session_id query parameter is required", nil)
			return
		}

		session, ok := mgr.GetSession(sessionID)
		if !ok {
			errors.SessionNotFound(c)
			return
		}

		turns := session.AllTurns()
		if turns == nil {
			turns = []sessions.Turn{}
		}

		c.JSON(http.StatusOK, HistoryResponse{
			SessionID: session.ID,
			Turns:     turns,
		})
	}
}

// creates a handler that clears a session's transcript but keeps the
// stored documents
func ResetHandler(mgr *sessions.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ResetRequest

		if err := c.ShouldBindJSON(&req); err != nil {
			errors.ValidationError(c, err)
			return
		}

		session, ok := mgr.GetSession(req.SessionID)
		if !ok {
			errors.SessionNotFound(c)
			return
		}

		session.ClearTurns()

		c.JSON(http.StatusOK, gin.H{"message": "conversation cleared"})
	}
}

// serves static starter questions
func SuggestionsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, SuggestionsResponse{Suggestions: suggestions})
}

func respondAskError(c *gin.Context, err error) {
	switch {
	case stderrors.Is(err, llm.ErrProviderAuth):
		errors.ProviderError(c, err)
	case stderrors.Is(err, llm.ErrProviderRateLimited),
		stderrors.Is(err, llm.ErrProviderTimeout),
		stderrors.Is(err, llm.ErrProviderUnavailable):
		errors.ProviderError(c, err)
	default:
		errors.InternalError(c, "failed to answer question", err)
	}
}
