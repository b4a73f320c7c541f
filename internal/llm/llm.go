// Package llm wraps the embedding and generation providers behind small
// interfaces. Transient provider failures (timeouts, rate limits, 5xx)
// are retried with exponential backoff; authentication failures are not.
package llm

import (
	"fmt"
)

// combines an Embedder and a generator into a single LLM
type CompositeLLM struct {
	Embedder
	TextGenerator
	StreamingGenerator
}

// creates a new LLM with auto-configuration from environment variables
func NewLLM() (LLM, error) {
	config, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load LLM config: %w", err)
	}

	return NewLLMWithConfig(config)
}

// creates a new LLM with explicit configuration
func NewLLMWithConfig(config *Config) (LLM, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	retry := retryPolicy{attempts: config.RetryAttempts, baseDelay: config.RetryBaseDelay}

	var embedder Embedder

	switch config.EmbedderProvider {
	case ProviderOpenAI:
		embedder = NewOpenAIEmbedder(OpenAIConfig{
			APIKey: config.EmbedderAPIKey,
			Model:  config.EmbedderModel,
			Retry:  retry,
		})
	default:
		return nil, fmt.Errorf("unsupported embedder provider: %s", config.EmbedderProvider)
	}

	var generator *AnthropicGenerator

	switch config.GeneratorProvider {
	case ProviderAnthropic:
		generator = NewAnthropicGenerator(AnthropicConfig{
			APIKey:      config.GeneratorAPIKey,
			Model:       config.GeneratorModel,
			MaxTokens:   config.GeneratorMaxTokens,
			Temperature: config.GeneratorTemperature,
			Retry:       retry,
		})
	default:
		return nil, fmt.Errorf("unsupported generator provider: %s", config.GeneratorProvider)
	}

	return &CompositeLLM{
		Embedder:           embedder,
		TextGenerator:      generator,
		StreamingGenerator: generator,
	}, nil
}
