package llm

import "context"

// combines embedding generation and answer generation
type LLM interface {
	Embedder
	TextGenerator
	StreamingGenerator
}

// represents different LLM providers
type Provider string

const (
	ProviderAnthropic Provider = "anthropic"
	ProviderOpenAI    Provider = "openai"
)

// generates embeddings from text
type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
	GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error)

	// the fixed dimensionality of vectors this embedder produces
	Dimension() int
}

// generates complete answers from a prompt and conversation history
type TextGenerator interface {
	GenerateText(ctx context.Context, req TextGenerationRequest) (*TextGenerationResponse, error)
}

// generates answers incrementally, emitting tokens as they arrive
type StreamingGenerator interface {
	// returns a channel of stream events. The channel is closed after a
	// terminal event: either Done with final usage, or a non-nil Err.
	GenerateTextStream(ctx context.Context, req TextGenerationRequest) (<-chan StreamEvent, error)
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type TextGenerationRequest struct {
	SystemPrompt string
	Messages     []Message
	MaxTokens    int
}

type TextGenerationResponse struct {
	Text  string
	Usage Usage
}

type Usage struct {
	InputTokens  int
	OutputTokens int
}

// a single increment of a streamed generation
type StreamEvent struct {
	Token string
	Done  bool
	Usage Usage
	Err   error
}
