package websocket

import (
	"github.com/gin-gonic/gin"

	"codeberg.org/careerintel/server/internal/agent"
	"codeberg.org/careerintel/server/internal/sessions"
)

func RegisterRoutes(router *gin.RouterGroup, agentClient *agent.Agent, mgr *sessions.Manager) {
	router.GET("/ws/chat", ChatHandler(agentClient, mgr))
}
