package config

import "time"

// holds server-wide configuration loaded from the environment
type Config struct {
	OpenAIKey    string
	AnthropicKey string
	DatabaseURL  string
	Environment  string

	// retrieval tuning
	RetrievalTopK   int
	FetchMultiplier int
	MMRLambda       float64

	// vector dimensionality the index enforces
	EmbeddingDimension int

	// conversation context assembly
	MaxHistoryTurns int
	ContextCeiling  int

	// session lifecycle
	SessionTTL time.Duration
}

// holds parsed CLI flags for the ingester subcommands
type Flags struct {
	Path     string
	Filename string
	Clear    bool
}
