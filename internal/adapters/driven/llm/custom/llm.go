// Package custom provides an LLM client adapter for self-hosted or
// OpenAI-compatible REST endpoints. Requests use the chat completions
// format; responses are matched against the handful of shapes that
// compatible servers actually return.
package custom

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/procflow-labs/procflow-cli/internal/core/domain"
	"github.com/procflow-labs/procflow-cli/internal/core/ports/driven"
	"github.com/procflow-labs/procflow-cli/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.LLMClient = (*Client)(nil)

// DefaultTimeout is shorter than the hosted providers: custom endpoints
// are typically on the local network.
const DefaultTimeout = 60 * time.Second

// systemPrompt pins the model to machine-readable output.
const systemPrompt = "You are a document analysis engine. Respond with a single JSON object and nothing else."

// Config holds configuration for the custom endpoint client.
type Config struct {
	// BaseURL is the full completions endpoint URL (required).
	BaseURL string

	// Model is the model identifier sent with every request (required).
	Model string

	// APIKey is sent as a bearer token when non-empty.
	APIKey string

	// Temperature is the sampling temperature sent with every request.
	Temperature float64

	// MaxTokens caps the response length.
	MaxTokens int

	// Timeout is the request timeout (default: 60s).
	Timeout time.Duration
}

// Client sends extraction prompts to an OpenAI-compatible REST endpoint.
type Client struct {
	client      *http.Client
	endpoint    string
	apiKey      string
	model       string
	temperature float64
	maxTokens   int
}

// chatRequest is the OpenAI-compatible request format.
type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	Temperature    float64         `json:"temperature,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

// responseFormat requests JSON mode from servers that support it.
type responseFormat struct {
	Type string `json:"type"`
}

// chatMessage is the chat message format.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// NewClient creates a new custom endpoint client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("%w: custom: base URL is required", domain.ErrConfiguration)
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("%w: custom: model is required", domain.ErrConfiguration)
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Client{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		endpoint:    cfg.BaseURL,
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}, nil
}

// Complete sends the prompt and returns the raw response text.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature:    c.temperature,
		ResponseFormat: &responseFormat{Type: "json_object"},
	}
	if c.maxTokens > 0 {
		reqBody.MaxTokens = c.maxTokens
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("custom: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("custom: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: custom: send request: %w", domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: custom: read response: %w", domain.ErrTransport, err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: custom: status %d: %s", domain.ErrTransport, resp.StatusCode, string(body))
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("%w: custom: response is not JSON: %w", domain.ErrProviderProtocol, err)
	}

	return extractText(payload), nil
}

// extractText pulls the response text out of whichever shape the server
// returned, trying the common formats in order:
//
//  1. OpenAI chat: choices[0].message.content
//  2. Anthropic-style content blocks: content[].text
//  3. Ollama generate: response
//  4. Bare content / text string fields
//  5. message.content, a string message, or the message object stringified
//
// When nothing matches, the whole payload is serialised and handed to
// downstream recovery. The payload may well BE the extraction result from
// a server that unwraps model output itself.
func extractText(payload map[string]any) string {
	if choices, ok := payload["choices"].([]any); ok && len(choices) > 0 {
		if choice, ok := choices[0].(map[string]any); ok {
			if message, ok := choice["message"].(map[string]any); ok {
				if content, ok := message["content"].(string); ok {
					return content
				}
			}
			if text, ok := choice["text"].(string); ok {
				return text
			}
		}
	}

	if blocks, ok := payload["content"].([]any); ok {
		var sb strings.Builder
		for _, block := range blocks {
			if m, ok := block.(map[string]any); ok {
				if text, ok := m["text"].(string); ok {
					sb.WriteString(text)
				}
			}
		}
		if sb.Len() > 0 {
			return sb.String()
		}
	}

	if response, ok := payload["response"].(string); ok {
		return response
	}
	if content, ok := payload["content"].(string); ok {
		return content
	}
	if text, ok := payload["text"].(string); ok {
		return text
	}
	switch message := payload["message"].(type) {
	case string:
		return message
	case map[string]any:
		if content, ok := message["content"].(string); ok {
			return content
		}
		// No content field: the message object itself may carry the
		// extraction, so stringify just the message.
		if serialised, err := json.Marshal(message); err == nil {
			return string(serialised)
		}
	}

	logger.Warn("custom: unrecognised response shape, passing whole payload to recovery")
	serialised, err := json.Marshal(payload)
	if err != nil {
		return ""
	}
	return string(serialised)
}

// ModelName returns the name of the model being used.
func (c *Client) ModelName() string {
	return c.model
}

// Ping validates the endpoint is reachable. There is no standard health
// route across compatible servers, so a HEAD against the endpoint URL is
// the lightest probe available; any response at all counts as reachable.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.endpoint, http.NoBody)
	if err != nil {
		return fmt.Errorf("custom: failed to create ping request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: custom: ping failed: %w", domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	return nil
}

// Close releases resources.
func (c *Client) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}
