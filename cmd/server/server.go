package main

import (
	"context"
	"fmt"

	"codeberg.org/careerintel/server/internal/config"
	"codeberg.org/careerintel/server/internal/index"
	"codeberg.org/careerintel/server/internal/sessions"
	"github.com/gin-gonic/gin"
)

// creates and configures a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	ctx := context.Background()

	store, err := index.NewPostgres(ctx, cfg.DatabaseURL, cfg.EmbeddingDimension)
	if err != nil {
		return nil, fmt.Errorf("failed to create index store: %w", err)
	}

	if err := store.EnsureSchema(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to ensure database schema: %w", err)
	}

	services, err := InitializeServices(cfg, store)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	sessionMgr := sessions.NewManager(cfg.SessionTTL)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	server := &Server{
		config:     cfg,
		store:      store,
		sessionMgr: sessionMgr,
		services:   services,
		router:     router,
	}

	RegisterRoutes(router, server)

	return server, nil
}
