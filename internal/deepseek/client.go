// Package deepseek implements a client for the DeepSeek chat completion API
// with retry logic and a typed error taxonomy.
package deepseek

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/vchernin/hh-scorer/internal/retry"

	"go.uber.org/zap"
)

const (
	defaultBaseURL    = "https://api.deepseek.com/v1"
	defaultTimeout    = 30 * time.Second
	defaultMaxRetries = 3
	defaultRetryDelay = 5 * time.Second

	defaultTemperature = 0.7
	defaultMaxTokens   = 1000

	minTemperature = 0.0
	maxTemperature = 2.0
	minMaxTokens   = 1
	maxMaxTokens   = 4000

	contentType = "application/json"
)

// newBackoff is a seam for tests to suppress real delays.
var newBackoff = retry.ExponentialBackoff

// Message is a single chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatOptions carries the tunable sampling parameters. Nil fields fall back
// to the defaults. Out-of-range values are clamped, never rejected.
type ChatOptions struct {
	Temperature *float64
	MaxTokens   *int
}

type Config struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
	// RetryDelay is the base backoff delay, also used as the rate-limit
	// wait hint when the server does not provide one.
	RetryDelay time.Duration
}

// Client talks to the DeepSeek API. It holds only immutable configuration
// fixed at construction; calls share no mutable state.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	maxRetries int
	retryDelay time.Duration
	logger     *zap.Logger
}

func New(apiKey string, cfg Config, logger *zap.Logger) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("api key is required")
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = defaultMaxRetries
	}

	retryDelay := cfg.RetryDelay
	if retryDelay <= 0 {
		retryDelay = defaultRetryDelay
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		apiKey:     strings.TrimSpace(apiKey),
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		logger:     logger,
	}, nil
}

// Chat sends a chat completion request and returns the decoded response
// body. An empty model or message list is a programmer error and fails
// immediately without touching the network.
func (c *Client) Chat(ctx context.Context, model string, messages []Message, opts *ChatOptions) (map[string]any, error) {
	if strings.TrimSpace(model) == "" {
		return nil, errors.New("model name is required")
	}

	if len(messages) == 0 {
		return nil, errors.New("messages must not be empty")
	}

	temperature := defaultTemperature
	maxTokens := defaultMaxTokens
	if opts != nil {
		if opts.Temperature != nil {
			temperature = *opts.Temperature
		}
		if opts.MaxTokens != nil {
			maxTokens = *opts.MaxTokens
		}
	}

	payload := map[string]any{
		"model":       model,
		"messages":    messages,
		"temperature": clampFloat(temperature, minTemperature, maxTemperature),
		"max_tokens":  clampInt(maxTokens, minMaxTokens, maxMaxTokens),
	}

	return c.do(ctx, http.MethodPost, "/chat/completions", payload)
}

// Models lists the models available to the account.
func (c *Client) Models(ctx context.Context) (map[string]any, error) {
	return c.do(ctx, http.MethodGet, "/models", nil)
}

func (c *Client) do(ctx context.Context, method, endpoint string, payload any) (map[string]any, error) {
	var result map[string]any

	policy := retry.Policy{
		MaxRetries: c.maxRetries,
		Backoff:    newBackoff(c.retryDelay),
	}

	err := policy.Do(ctx, func() error {
		decoded, err := c.request(ctx, method, endpoint, payload)
		if err != nil {
			c.logger.Debug("api request attempt failed", zap.String("endpoint", endpoint), zap.Error(err))
			return err
		}

		result = decoded
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (c *Client) request(ctx context.Context, method, endpoint string, payload any) (map[string]any, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, retry.Terminal(err)
		}
		body = bytes.NewReader(data)
	}

	url := c.baseURL + endpoint
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, retry.Terminal(err)
	}

	c.setHeaders(req)

	c.logger.Debug("make request", zap.String("url", url), zap.String("method", method))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Kind: KindTransport, cause: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindTransport, cause: err}
	}

	if err := classify(resp.StatusCode, resp.Header, data, c.retryDelay); err != nil {
		var apiErr *Error
		if errors.As(err, &apiErr) && apiErr.Kind != KindServer {
			return nil, retry.Terminal(err)
		}
		return nil, err
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		return nil, retry.Terminal(fmt.Errorf("decoding response body: %w", err))
	}

	return decoded, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", contentType)
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
