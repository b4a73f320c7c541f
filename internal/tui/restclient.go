package tui

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// manages HTTP requests to the chat REST API
type APIClient struct {
	endpoint   string
	httpClient *http.Client
}

// creates a new REST client
func NewAPIClient() *APIClient {
	endpoint := os.Getenv("CAREERINTEL_API_ENDPOINT")
	if endpoint == "" {
		endpoint = "http://localhost:8080"
	}

	return &APIClient{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: restRequestTimeout,
		},
	}
}

// creates a new chat session on the server
func (c *APIClient) CreateSession(ctx context.Context) (string, time.Time, error) {
	url := fmt.Sprintf("%s/api/v1/sessions", c.endpoint)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(nil))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusCreated {
		return "", time.Time{}, decodeErrorResponse(resp.StatusCode, body)
	}

	var result createSessionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", time.Time{}, fmt.Errorf("failed to parse response: %w", err)
	}

	return result.SessionID, result.ExpiresAt, nil
}

// fetches starter question suggestions
func (c *APIClient) Suggestions(ctx context.Context) ([]string, error) {
	url := fmt.Sprintf("%s/api/v1/chat/suggestions", c.endpoint)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, decodeErrorResponse(resp.StatusCode, body)
	}

	var result suggestionsResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return result.Suggestions, nil
}

// returns a tea.Cmd that creates a session and fetches suggestions
func (c *APIClient) StartSessionCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), restRequestTimeout)
		defer cancel()

		sessionID, expiresAt, err := c.CreateSession(ctx)
		if err != nil {
			return ErrorMsg{err: err}
		}

		return SessionCreatedMsg{sessionID: sessionID, expiresAt: expiresAt}
	}
}

// returns a tea.Cmd that fetches starter suggestions
func (c *APIClient) SuggestionsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), restRequestTimeout)
		defer cancel()

		suggestions, err := c.Suggestions(ctx)
		if err != nil {
			// suggestions are cosmetic, an empty list is fine
			return SuggestionsMsg{}
		}

		return SuggestionsMsg{suggestions: suggestions}
	}
}

// REST API request/response types

type createSessionResponse struct {
	SessionID string    `json:"session_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

type suggestionsResponse struct {
	Suggestions []string `json:"suggestions"`
}

type apiErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func decodeErrorResponse(status int, body []byte) error {
	var errResp apiErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return fmt.Errorf("%s: %s", errResp.Error, errResp.Message)
	}

	return fmt.Errorf("request failed with status %d: %s", status, string(body))
}

// timeout for REST requests
const restRequestTimeout = 30 * time.Second
