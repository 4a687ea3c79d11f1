// Package llm implements ports.RemoteFormalizer against any endpoint that
// speaks the minimal chat-completions shape (Groq, OpenAI, LiteLLM, ...).
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/formalizer/internal/logging"
	"github.com/aretw0/formalizer/pkg/domain"
)

const (
	DefaultEndpoint    = "https://api.groq.com/openai/v1/chat/completions"
	DefaultModel       = "llama-3.3-70b-versatile"
	DefaultMaxTokens   = 800
	DefaultTemperature = 0.3
	DefaultTopP        = 0.9
	DefaultTimeout     = 30 * time.Second
)

const maxErrorBodyBytes = 2048

// Client is a single-attempt chat-completions client.
// A Client without an API key is valid: every call fails fast as unconfigured.
type Client struct {
	endpoint    string
	apiKey      string
	model       string
	maxTokens   int
	temperature float64
	topP        float64
	timeout     time.Duration
	httpClient  *http.Client
	logger      *slog.Logger
}

// Option configures the Client.
type Option func(*Client)

// WithEndpoint overrides the chat-completions URL.
func WithEndpoint(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.endpoint = url
		}
	}
}

// WithModel overrides the model identifier.
func WithModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithTimeout bounds each attempt. Zero keeps the default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHTTPClient injects the transport (tests, proxies).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a client. apiKey may be empty.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		endpoint:    DefaultEndpoint,
		apiKey:      strings.TrimSpace(apiKey),
		model:       DefaultModel,
		maxTokens:   DefaultMaxTokens,
		temperature: DefaultTemperature,
		topP:        DefaultTopP,
		timeout:     DefaultTimeout,
		httpClient:  &http.Client{},
		logger:      logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured reports whether a credential is present.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// Model returns the configured model identifier.
func (c *Client) Model() string {
	return c.model
}

// Complete sends prompt as the sole (system) message and returns the trimmed
// content of the first choice. It never retries.
func (c *Client) Complete(ctx context.Context, prompt string) domain.RemoteResult {
	if !c.Configured() {
		return domain.RemoteFailed(domain.FailureUnconfigured, nil)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	payload := chatCompletionRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: prompt},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		TopP:        c.topP,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return domain.RemoteFailed(domain.FailureAPIError, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return domain.RemoteFailed(domain.FailureAPIError, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.transportFailure(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		errorBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		c.logger.Debug("chat completion rejected", "status", resp.StatusCode, "body", string(errorBody))
		return domain.RemoteFailed(domain.FailureAPIError, fmt.Errorf("unexpected status: %s", resp.Status))
	}

	var completion chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return c.transportFailure(ctx, fmt.Errorf("decode response: %w", err))
	}
	if len(completion.Choices) == 0 {
		return domain.RemoteFailed(domain.FailureEmptyResponse, errors.New("no choices"))
	}

	content := strings.TrimSpace(completion.Choices[0].Message.Content)
	if content == "" {
		return domain.RemoteFailed(domain.FailureEmptyResponse, nil)
	}
	return domain.RemoteSuccess(content)
}

// transportFailure separates deadline expiry from every other I/O or decode error.
func (c *Client) transportFailure(ctx context.Context, err error) domain.RemoteResult {
	if isTimeout(ctx, err) {
		return domain.RemoteFailed(domain.FailureTimeout, err)
	}
	return domain.RemoteFailed(domain.FailureAPIError, err)
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
	TopP        float64       `json:"top_p,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}
