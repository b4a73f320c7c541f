package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultRetrievalTopK   = 5
	defaultFetchMultiplier = 4
	defaultMMRLambda       = 0.5
	defaultEmbeddingDim    = 1536
	defaultMaxHistoryTurns = 5
	defaultContextCeiling  = 24000
	defaultSessionTTL      = 30 * time.Minute
)

// loads configuration from environment variables
func LoadEnvironmentVariables() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		_ = err // not an error - production environments may not have .env file
	}

	openaiKey := os.Getenv("OPENAI_API_KEY")
	anthropicKey := os.Getenv("ANTHROPIC_API_KEY")
	databaseURL := os.Getenv("DATABASE_URL")
	environment := os.Getenv("ENVIRONMENT")

	if openaiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable is required")
	}

	if anthropicKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable is required")
	}

	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	if environment == "" {
		environment = "development"
	}

	return &Config{
		OpenAIKey:          openaiKey,
		AnthropicKey:       anthropicKey,
		DatabaseURL:        databaseURL,
		Environment:        environment,
		RetrievalTopK:      intFromEnv("RETRIEVAL_TOP_K", defaultRetrievalTopK),
		FetchMultiplier:    intFromEnv("RETRIEVAL_FETCH_MULTIPLIER", defaultFetchMultiplier),
		MMRLambda:          floatFromEnv("RETRIEVAL_MMR_LAMBDA", defaultMMRLambda),
		EmbeddingDimension: intFromEnv("EMBEDDING_DIMENSION", defaultEmbeddingDim),
		MaxHistoryTurns:    intFromEnv("MAX_HISTORY_TURNS", defaultMaxHistoryTurns),
		ContextCeiling:     intFromEnv("CONTEXT_CEILING_CHARS", defaultContextCeiling),
		SessionTTL:         durationFromEnv("SESSION_TTL", defaultSessionTTL),
	}, nil
}

func intFromEnv(name string, fallback int) int {
	if s := os.Getenv(name); s != "" {
		if val, err := strconv.Atoi(s); err == nil {
			return val
		}
	}

	return fallback
}

func floatFromEnv(name string, fallback float64) float64 {
	if s := os.Getenv(name); s != "" {
		if val, err := strconv.ParseFloat(s, 64); err == nil {
			return val
		}
	}

	return fallback
}

func durationFromEnv(name string, fallback time.Duration) time.Duration {
	if s := os.Getenv(name); s != "" {
		if val, err := time.ParseDuration(s); err == nil {
			return val
		}
	}

	return fallback
}
