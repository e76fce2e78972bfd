package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/couchcryptid/beacon-relay-service/internal/domain"
	"github.com/couchcryptid/beacon-relay-service/internal/observability"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	maxTokens      = 150
	temperature    = 0.3
)

// SystemPrompt keeps answers short enough to survive compression into one SMS.
const SystemPrompt = "You are an emergency AI assistant for satellite messaging. " +
	"Provide critical, concise answers. Maximum 2-3 sentences. " +
	"Use abbreviations when possible. Focus on actionable advice. " +
	"If medical emergency, emphasize seeking professional help."

// Client implements domain.Assistant using the OpenAI chat completions API.
type Client struct {
	apiKey     string
	model      string
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a chat completions client for model.
func NewClient(apiKey, model string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		apiKey: apiKey,
		model:  model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: defaultBaseURL,
		metrics: metrics,
		logger:  logger,
	}
}

// Answer sends question with the emergency system prompt and returns the
// trimmed reply.
func (c *Client) Answer(ctx context.Context, question string) (string, error) {
	start := time.Now()
	defer func() {
		c.metrics.AssistantDuration.Observe(time.Since(start).Seconds())
	}()

	payload, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: SystemPrompt},
			{Role: "user", Content: question},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat completion request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("openai API error: status %d: %s", resp.StatusCode, body)
	}

	var cr chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", fmt.Errorf("decode response: %w: %w", domain.ErrMalformedResponse, err)
	}
	if len(cr.Choices) == 0 {
		return "", fmt.Errorf("openai response has no choices: %w", domain.ErrMalformedResponse)
	}

	answer := strings.TrimSpace(cr.Choices[0].Message.Content)
	if answer == "" {
		return "", fmt.Errorf("openai response is empty: %w", domain.ErrMalformedResponse)
	}
	c.logger.Debug("assistant answered", "model", c.model, "answer_length", len(answer))
	return answer, nil
}

// OpenAI API request and response types.

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}
