package llm

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// holds configuration for LLM initialization
type Config struct {
	// embedder configuration
	EmbedderProvider Provider
	EmbedderAPIKey   string
	EmbedderModel    string // e.g., "text-embedding-3-small"

	// generator configuration
	GeneratorProvider Provider
	GeneratorAPIKey   string
	GeneratorModel    string // e.g., "claude-sonnet-4-20250514"

	// optional parameters
	GeneratorMaxTokens   int
	GeneratorTemperature float32

	// retry behavior for transient provider failures; zero values fall
	// back to the package defaults
	RetryAttempts  int
	RetryBaseDelay time.Duration
}

// loadConfig loads LLM configuration from environment variables
func loadConfig() (*Config, error) {
	embedderProvider := Provider(os.Getenv("EMBEDDER_PROVIDER"))
	if embedderProvider == "" {
		embedderProvider = ProviderOpenAI // default
	}

	embedderAPIKey := os.Getenv("OPENAI_API_KEY")
	if embedderAPIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable is required")
	}

	embedderModel := os.Getenv("EMBEDDER_MODEL")
	if embedderModel == "" {
		embedderModel = defaultOpenAIModel
	}

	generatorProvider := Provider(os.Getenv("GENERATOR_PROVIDER"))
	if generatorProvider == "" {
		generatorProvider = ProviderAnthropic // default
	}

	generatorAPIKey := os.Getenv("ANTHROPIC_API_KEY")
	if generatorAPIKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable is required")
	}

	generatorModel := os.Getenv("GENERATOR_MODEL")
	if generatorModel == "" {
		generatorModel = "claude-sonnet-4-20250514" // default
	}

	generatorMaxTokens := defaultMaxTokens
	if maxTokensStr := os.Getenv("GENERATOR_MAX_TOKENS"); maxTokensStr != "" {
		if val, err := strconv.Atoi(maxTokensStr); err == nil {
			generatorMaxTokens = val
		}
	}

	generatorTemperature := float32(defaultTemperature)
	if tempStr := os.Getenv("GENERATOR_TEMPERATURE"); tempStr != "" {
		if val, err := strconv.ParseFloat(tempStr, 32); err == nil {
			generatorTemperature = float32(val)
		}
	}

	retryAttempts := 0
	if attemptsStr := os.Getenv("PROVIDER_RETRY_ATTEMPTS"); attemptsStr != "" {
		if val, err := strconv.Atoi(attemptsStr); err == nil {
			retryAttempts = val
		}
	}

	var retryBaseDelay time.Duration
	if delayStr := os.Getenv("PROVIDER_RETRY_BASE_DELAY"); delayStr != "" {
		if val, err := time.ParseDuration(delayStr); err == nil {
			retryBaseDelay = val
		}
	}

	return &Config{
		EmbedderProvider:     embedderProvider,
		EmbedderAPIKey:       embedderAPIKey,
		EmbedderModel:        embedderModel,
		GeneratorProvider:    generatorProvider,
		GeneratorAPIKey:      generatorAPIKey,
		GeneratorModel:       generatorModel,
		GeneratorMaxTokens:   generatorMaxTokens,
		GeneratorTemperature: generatorTemperature,
		RetryAttempts:        retryAttempts,
		RetryBaseDelay:       retryBaseDelay,
	}, nil
}
