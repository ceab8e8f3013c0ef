// Package huggingface implements the service.Summarizer interface
// against the Hugging Face router's chat-completion endpoint.
package huggingface

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

	"golang.org/x/oauth2"

	"kbreport/internal/config"
	"kbreport/internal/errkind"
	"kbreport/internal/service"
)

const (
	// DefaultBaseURL is the Hugging Face inference router.
	DefaultBaseURL = "https://router.huggingface.co/v1"

	// APITimeout is the timeout for the completion call. A single
	// attempt; the model call is the most failure-prone step and the
	// absence of retries is deliberate.
	APITimeout = 30 * time.Second

	// MaxTokens bounds the generated summary length.
	MaxTokens = 350

	// Temperature keeps the summary close to the source material.
	Temperature = 0.4

	step = "summarize"
)

// Client implements service.Summarizer.
type Client struct {
	baseURL   string
	model     string
	byteLimit int
	http      *http.Client
	log       *slog.Logger
}

// New creates a Hugging Face client. The API key is injected into
// every request by an oauth2 static token source.
func New(cfg config.HuggingFaceConfig, logger *slog.Logger) *Client {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.APIKey})
	return &Client{
		baseURL:   DefaultBaseURL,
		model:     cfg.Model,
		byteLimit: cfg.PromptByteLimit,
		http:      oauth2.NewClient(context.Background(), src),
		log:       logger,
	}
}

// NewWithBaseURL creates a client against a custom endpoint (for testing).
func NewWithBaseURL(cfg config.HuggingFaceConfig, logger *slog.Logger, baseURL string) *Client {
	c := New(cfg, logger)
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

// chatRequest is the chat-completion request body.
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

// chatResponse is the subset of the completion response we consume.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Summarize submits the prompt and returns the generated summary.
// Prompts over the configured byte limit are rejected up front with an
// input-too-large error; the prompt is never truncated silently.
func (c *Client) Summarize(ctx context.Context, prompt string) (service.Summary, error) {
	if c.byteLimit > 0 && len(prompt) > c.byteLimit {
		return service.Summary{}, errkind.Newf(step, errkind.InputTooLarge,
			"prompt is %d bytes, limit is %d", len(prompt), c.byteLimit)
	}

	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	payload, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens:   MaxTokens,
		Temperature: Temperature,
	})
	if err != nil {
		return service.Summary{}, errkind.Newf(step, errkind.MalformedResponse, "encode request: %v", err)
	}

	url := c.baseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return service.Summary{}, errkind.Newf(step, errkind.RemoteUnavailable, "build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return service.Summary{}, errkind.Newf(step, errkind.RemoteUnavailable, "%v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return service.Summary{}, statusToError(resp)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return service.Summary{}, errkind.Newf(step, errkind.MalformedResponse, "decode response: %v", err)
	}
	if len(parsed.Choices) == 0 {
		return service.Summary{}, errkind.Newf(step, errkind.MalformedResponse, "response has no choices")
	}

	text := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if text == "" {
		return service.Summary{}, errkind.Newf(step, errkind.MalformedResponse, "response has empty content")
	}

	c.log.Debug("summary generated", "model", c.model, "prompt_bytes", len(prompt), "summary_bytes", len(text))
	return service.Summary{
		Text:        text,
		Model:       c.model,
		GeneratedAt: time.Now(),
	}, nil
}

// statusToError maps a non-200 completion response to an error kind.
func statusToError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	detail := strings.TrimSpace(string(body))
	msg := fmt.Sprintf("HTTP %d", resp.StatusCode)
	if detail != "" {
		msg = fmt.Sprintf("HTTP %d: %s", resp.StatusCode, detail)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return errkind.Newf(step, errkind.Auth, "%s", msg)
	case resp.StatusCode == http.StatusTooManyRequests:
		return errkind.Newf(step, errkind.QuotaExceeded, "%s", msg)
	case resp.StatusCode == http.StatusRequestEntityTooLarge || resp.StatusCode == http.StatusUnprocessableEntity:
		return errkind.Newf(step, errkind.InputTooLarge, "%s", msg)
	default:
		return errkind.Newf(step, errkind.RemoteUnavailable, "%s", msg)
	}
}
