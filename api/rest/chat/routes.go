package chat

import (
	"codeberg.org/careerintel/server/internal/agent"
	"codeberg.org/careerintel/server/internal/sessions"
	"github.com/gin-gonic/gin"
)

// registers conversation routes
func RegisterRoutes(router *gin.RouterGroup, agentClient *agent.Agent, mgr *sessions.Manager) {
	router.POST("/sessions", CreateSessionHandler(mgr))
	router.POST("/chat/ask", AskHandler(agentClient, mgr))
	router.GET("/chat/history", HistoryHandler(mgr))
	router.POST("/chat/reset", ResetHandler(mgr))
	router.GET("/chat/suggestions", SuggestionsHandler)
}
