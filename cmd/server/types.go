package main

import (
	"codeberg.org/careerintel/server/internal/agent"
	"codeberg.org/careerintel/server/internal/config"
	"codeberg.org/careerintel/server/internal/index"
	"codeberg.org/careerintel/server/internal/ingest"
	"codeberg.org/careerintel/server/internal/llm"
	"codeberg.org/careerintel/server/internal/retriever"
	"codeberg.org/careerintel/server/internal/sessions"
	"github.com/gin-gonic/gin"
)

// holds all dependencies and state for the API server
type Server struct {
	config     *config.Config
	store      *index.Postgres
	sessionMgr *sessions.Manager
	services   *Services
	router     *gin.Engine
}

// holds all external service clients (LLM, index, retriever, agent)
type Services struct {
	Agent     *agent.Agent
	LLM       llm.LLM
	Retriever *retriever.Client
	Ingest    *ingest.Service
}
