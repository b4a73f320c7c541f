package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	anthropicMessagesURL = "https://api.anthropic.com/v1/messages"
	anthropicVersion     = "2023-06-01"
	defaultMaxTokens     = 1024
	defaultTemperature   = 0.7
)

// shared HTTP client for Anthropic API calls
var anthropicHTTPClient = &http.Client{
	Timeout: 120 * time.Second, // streamed generations can run long
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	},
}

// rate limiter for Anthropic API calls (50 requests/second with burst capacity of 10)
var anthropicRateLimiter = rate.NewLimiter(50, 10)

type messagesRequest struct {
	Model       string    `json:"model"`
	MaxTokens   int       `json:"max_tokens"`
	System      string    `json:"system,omitempty"`
	Messages    []Message `json:"messages"`
	Temperature float32   `json:"temperature"`
	Stream      bool      `json:"stream,omitempty"`
}

type messagesResponse struct {
	ID      string    `json:"id"`
	Type    string    `json:"type"`
	Role    string    `json:"role"`
	Content []content `json:"content"`
	Model   string    `json:"model"`
	Usage   struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

type content struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// one server-sent event in a streamed response
type streamPayload struct {
	Type  string `json:"type"`
	Delta struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"delta"`
	Message struct {
		Usage struct {
			InputTokens  int `json:"input_tokens"`
			OutputTokens int `json:"output_tokens"`
		} `json:"usage"`
	} `json:"message"`
	Usage struct {
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

type AnthropicConfig struct {
	APIKey      string
	Model       string  // e.g., "claude-sonnet-4-20250514"
	MaxTokens   int     // max tokens for response
	Temperature float32 // 0.0 to 1.0
	Retry       retryPolicy
}

type AnthropicGenerator struct {
	config     AnthropicConfig
	httpClient *http.Client
	retry      retryPolicy
}

func NewAnthropicGenerator(config AnthropicConfig) *AnthropicGenerator {
	if config.MaxTokens == 0 {
		config.MaxTokens = defaultMaxTokens
	}

	if config.Temperature == 0 {
		config.Temperature = defaultTemperature
	}

	return &AnthropicGenerator{
		config:     config,
		httpClient: anthropicHTTPClient,
		retry:      config.Retry.orDefault(),
	}
}

func (g *AnthropicGenerator) Model() string {
	return g.config.Model
}

func (g *AnthropicGenerator) GenerateText(ctx context.Context, req TextGenerationRequest) (*TextGenerationResponse, error) {
	var result *TextGenerationResponse

	err := g.retry.do(ctx, "generate_text", func() error {
		var err error

		result, err = g.generateTextOnce(ctx, req)

		return err
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (g *AnthropicGenerator) generateTextOnce(ctx context.Context, req TextGenerationRequest) (*TextGenerationResponse, error) {
	resp, err := g.send(ctx, req, false)
	if err != nil {
		return nil, err
	}

	defer resp.Body.Close() //nolint:errcheck

	var apiResp messagesResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(apiResp.Content) == 0 {
		return nil, fmt.Errorf("no content in response")
	}

	return &TextGenerationResponse{
		Text: strings.TrimSpace(apiResp.Content[0].Text),
		Usage: Usage{
			InputTokens:  apiResp.Usage.InputTokens,
			OutputTokens: apiResp.Usage.OutputTokens,
		},
	}, nil
}

// streams a generation as server-sent events, forwarding text deltas on
// the returned channel. The HTTP handshake happens before this returns,
// so transient failures are retried here; once tokens start flowing an
// error is terminal and delivered as the last event.
func (g *AnthropicGenerator) GenerateTextStream(ctx context.Context, req TextGenerationRequest) (<-chan StreamEvent, error) {
	var resp *http.Response

	err := g.retry.do(ctx, "generate_text_stream", func() error {
		var err error

		resp, err = g.send(ctx, req, true)

		return err
	})
	if err != nil {
		return nil, err
	}

	events := make(chan StreamEvent)

	go func() {
		defer close(events)
		defer resp.Body.Close() //nolint:errcheck

		g.readStream(ctx, resp.Body, events)
	}()

	return events, nil
}

func (g *AnthropicGenerator) readStream(ctx context.Context, body io.Reader, events chan<- StreamEvent) {
	var usage Usage

	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}

		var payload streamPayload
		if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &payload); err != nil {
			continue // keepalives and unknown event shapes are skipped
		}

		switch payload.Type {
		case "message_start":
			usage.InputTokens = payload.Message.Usage.InputTokens
		case "content_block_delta":
			if payload.Delta.Type != "text_delta" || payload.Delta.Text == "" {
				continue
			}

			select {
			case events <- StreamEvent{Token: payload.Delta.Text}:
			case <-ctx.Done():
				select {
				case events <- StreamEvent{Err: ctx.Err()}:
				default:
				}

				return
			}
		case "message_delta":
			usage.OutputTokens = payload.Usage.OutputTokens
		case "error":
			events <- StreamEvent{Err: fmt.Errorf("stream error: %s: %s",
				payload.Error.Type, payload.Error.Message)}
			return
		case "message_stop":
			events <- StreamEvent{Done: true, Usage: usage}
			return
		}
	}

	if err := scanner.Err(); err != nil {
		events <- StreamEvent{Err: classifyTransport(err)}
		return
	}

	// stream ended without message_stop
	events <- StreamEvent{Done: true, Usage: usage}
}

func (g *AnthropicGenerator) send(ctx context.Context, req TextGenerationRequest, stream bool) (*http.Response, error) {
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = g.config.MaxTokens
	}

	reqBody := messagesRequest{
		Model:       g.config.Model,
		MaxTokens:   maxTokens,
		System:      req.SystemPrompt,
		Temperature: g.config.Temperature,
		Messages:    req.Messages,
		Stream:      stream,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", anthropicMessagesURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", g.config.APIKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)

	// rate limiting
	if err := anthropicRateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return nil, classifyTransport(err)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body) //nolint:errcheck
		resp.Body.Close()                //nolint:errcheck

		return nil, classifyStatus(resp.StatusCode, body)
	}

	return resp, nil
}
