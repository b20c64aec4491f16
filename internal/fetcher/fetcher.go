// Package fetcher downloads pages over HTTP with retries, backoff and a
// rotating browser-like identity.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/vchernin/hh-scorer/internal/retry"

	"go.uber.org/zap"
)

const (
	defaultTimeout    = 10 * time.Second
	defaultMaxRetries = 3

	backoffBase = time.Second

	referer    = "https://hh.ru/"
	acceptHTML = "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8"
)

// newBackoff is a seam for tests to suppress real delays.
var newBackoff = retry.ExponentialBackoff

// defaultUserAgents is a small pool of common desktop browsers. One is
// picked at random for every attempt.
var defaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:89.0) Gecko/20100101 Firefox/89.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/14.1.1 Safari/605.1.15",
}

type Config struct {
	Timeout    time.Duration
	MaxRetries int
	UserAgents []string
}

// Fetcher issues HTTP GET requests. Every call is independent: nothing is
// cached or memoized between fetches.
type Fetcher struct {
	client     *http.Client
	userAgents []string
	maxRetries int
	logger     *zap.Logger
}

// Result is a successfully fetched HTML page.
type Result struct {
	Body        string
	ContentType string
}

// StatusError reports a non-2xx HTTP response. It is never retried: status
// code semantics belong to the caller, not to this layer.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetching %s: unexpected status %d", e.URL, e.StatusCode)
}

// RequestError reports a fetch that failed after exhausting all attempts.
type RequestError struct {
	URL      string
	Attempts int
	Err      error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("failed to fetch %s after %d attempts: %v", e.URL, e.Attempts, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

func New(cfg Config, logger *zap.Logger) *Fetcher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = defaultMaxRetries
	}

	userAgents := cfg.UserAgents
	if len(userAgents) == 0 {
		userAgents = defaultUserAgents
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Fetcher{
		client:     &http.Client{Timeout: timeout},
		userAgents: userAgents,
		maxRetries: maxRetries,
		logger:     logger,
	}
}

// Fetch downloads the page at url. Network errors and non-HTML responses are
// retried with exponential backoff; a non-2xx status surfaces immediately as
// a StatusError.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*Result, error) {
	var result *Result

	policy := retry.Policy{
		MaxRetries: f.maxRetries,
		Backoff:    newBackoff(backoffBase),
	}

	err := policy.Do(ctx, func() error {
		res, err := f.fetchOnce(ctx, url)
		if err != nil {
			f.logger.Debug("fetch attempt failed", zap.String("url", url), zap.Error(err))
			return err
		}

		result = res
		return nil
	})
	if err != nil {
		var status *StatusError
		if errors.As(err, &status) {
			return nil, status
		}
		return nil, &RequestError{URL: url, Attempts: f.maxRetries + 1, Err: err}
	}

	return result, nil
}

func (f *Fetcher) fetchOnce(ctx context.Context, url string) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, retry.Terminal(err)
	}

	f.setHeaders(req)

	f.logger.Debug("make request", zap.String("url", url), zap.String("user_agent", req.Header.Get("User-Agent")))

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, retry.Terminal(&StatusError{URL: url, StatusCode: resp.StatusCode})
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(contentType, "text/html") {
		return nil, fmt.Errorf("unexpected content type: %q", contentType)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return &Result{Body: string(body), ContentType: contentType}, nil
}

func (f *Fetcher) setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", f.userAgents[rand.Intn(len(f.userAgents))])
	req.Header.Set("Accept", acceptHTML)
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("Referer", referer)
	req.Header.Set("DNT", "1")
	req.Header.Set("Connection", "keep-alive")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
}
