package main

import (
	"codeberg.org/careerintel/server/api/rest/chat"
	"codeberg.org/careerintel/server/api/rest/documents"
	"codeberg.org/careerintel/server/api/rest/health"
	"codeberg.org/careerintel/server/api/websocket"
	"github.com/gin-gonic/gin"
)

// sets up all API routes and middleware
func RegisterRoutes(router *gin.Engine, server *Server) {
	router.Use(CORSMiddleware())
	router.Use(RateLimitMiddleware())
	router.GET("/health", health.Handler)

	v1 := router.Group("/api/v1")

	{
		v1.GET("/ping", health.PingHandler)

		documents.RegisterRoutes(v1, server.services.Ingest, server.store)
		chat.RegisterRoutes(v1, server.services.Agent, server.sessionMgr)
		websocket.RegisterRoutes(v1, server.services.Agent, server.sessionMgr)
	}
}
