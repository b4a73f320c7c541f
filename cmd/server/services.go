package main

import (
	"fmt"

	"codeberg.org/careerintel/server/internal/agent"
	"codeberg.org/careerintel/server/internal/chunker"
	"codeberg.org/careerintel/server/internal/config"
	"codeberg.org/careerintel/server/internal/index"
	"codeberg.org/careerintel/server/internal/ingest"
	"codeberg.org/careerintel/server/internal/llm"
	"codeberg.org/careerintel/server/internal/retriever"
)

// creates and configures all service clients
func InitializeServices(cfg *config.Config, store *index.Postgres) (*Services, error) {
	llmClient, err := llm.NewLLM()
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	splitter := chunker.New(chunker.DefaultOptions())

	retrieverClient := retriever.NewClientWithConfig(store, llmClient, &retriever.RetrieverConfig{
		TopK:            cfg.RetrievalTopK,
		FetchMultiplier: cfg.FetchMultiplier,
		Lambda:          cfg.MMRLambda,
	})

	agentClient := agent.NewWithConfig(retrieverClient, llmClient, llmClient, store, agent.Config{
		MaxHistoryTurns:   cfg.MaxHistoryTurns,
		MaxAssistantChars: 500,
		ContextCeiling:    cfg.ContextCeiling,
	})

	ingestService := ingest.NewService(splitter, llmClient, store)

	return &Services{
		Agent:     agentClient,
		LLM:       llmClient,
		Retriever: retrieverClient,
		Ingest:    ingestService,
	}, nil
}
