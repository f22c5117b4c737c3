// Package llm provides the chat-completion client used to interrogate the
// reasoning oracle.
//
// Responsibilities:
//   - Build the two-message system/user exchange for each oracle round trip
//   - POST to {baseURL}/chat/completions with bearer auth
//   - Attach OpenRouter identification headers when the endpoint requires them
//   - Validate credentials locally before making a network call
//   - Map transport failures to the sentinel errors in errors.go
//
// The oracle is treated as a black box: send role-tagged messages, receive a
// single text reply. Retries are the caller's decision.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "gpt-3.5-turbo"
	DefaultTimeout = 30 * time.Second

	// Sampling parameters are fixed for the interview protocol.
	temperature = 0.7
	maxTokens   = 1000
)

// placeholderKeys are values people paste from documentation instead of a
// real credential. Matching one fails the pre-flight check.
var placeholderKeys = []string{
	"your-api-key",
	"your_api_key",
	"changeme",
	"sk-xxx",
}

// Message is one role-tagged entry in a chat exchange.
type Message struct {
	Role    string `json:"role"` // system, user, assistant
	Content string `json:"content"`
}

// Client is the oracle contract consumed by the interview state machine.
// Ask sends a system instruction and user content, returning the oracle's
// single reply text.
type Client interface {
	Ask(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// HTTPClient talks to an OpenAI-compatible chat completions endpoint.
type HTTPClient struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// NewHTTPClient creates an oracle client for the given endpoint. Empty
// baseURL and model fall back to the OpenAI defaults.
func NewHTTPClient(baseURL, apiKey, model string) *HTTPClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}

	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
}

// validateCredential fails fast on keys that can never authenticate, so a
// misconfigured deployment surfaces immediately instead of as a 401 later.
func (c *HTTPClient) validateCredential() error {
	if c.apiKey == "" {
		return fmt.Errorf("%w: api key is empty", ErrInvalidCredential)
	}
	if len(c.apiKey) < 10 {
		return fmt.Errorf("%w: api key is too short", ErrInvalidCredential)
	}
	lower := strings.ToLower(c.apiKey)
	for _, p := range placeholderKeys {
		if strings.Contains(lower, p) {
			return fmt.Errorf("%w: api key looks like a placeholder", ErrInvalidCredential)
		}
	}
	return nil
}

// isOpenRouter reports whether the configured endpoint is the OpenRouter
// aggregator, which expects extra identification headers.
func (c *HTTPClient) isOpenRouter() bool {
	return strings.Contains(strings.ToLower(c.baseURL), "openrouter")
}

// Ask implements Client.
func (c *HTTPClient) Ask(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if err := c.validateCredential(); err != nil {
		return "", err
	}

	payload := chatRequest{
		Model: c.model,
		Messages: []Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if c.isOpenRouter() {
		req.Header.Set("HTTP-Referer", "https://github.com/fivewhys/fivewhys-ai")
		req.Header.Set("X-Title", "5 Whys Analyzer")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: reading response: %v", ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", statusError(resp.StatusCode, providerMessage(respBody))
	}

	var chat chatResponse
	if err := json.Unmarshal(respBody, &chat); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(chat.Choices) == 0 || chat.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("%w: no message content in response", ErrMalformedResponse)
	}

	return chat.Choices[0].Message.Content, nil
}

// providerMessage pulls a human-readable error out of a provider error body,
// falling back to the raw body.
func providerMessage(body []byte) string {
	var chat chatResponse
	if err := json.Unmarshal(body, &chat); err == nil && chat.Error != nil && chat.Error.Message != "" {
		return chat.Error.Message
	}
	if len(body) > 512 {
		body = body[:512]
	}
	return string(bytes.TrimSpace(body))
}
