package deepseek

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Kind discriminates the failure variants of the API. They are variants of
// one error type, not separate types needing separate handling paths.
type Kind int

const (
	// KindTransport is a network-level failure, eligible for retry.
	KindTransport Kind = iota
	// KindAuthentication is a rejected credential. Never retried.
	KindAuthentication
	// KindRateLimit is an exceeded quota. Terminal per call, carries a
	// caller-facing wait hint.
	KindRateLimit
	// KindClient is any other 4xx response. Terminal.
	KindClient
	// KindServer is a 5xx response, eligible for retry.
	KindServer
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindAuthentication:
		return "authentication"
	case KindRateLimit:
		return "rate limit"
	case KindClient:
		return "client"
	case KindServer:
		return "server"
	default:
		return "unknown"
	}
}

// Error is the single error type covering all API failure variants.
type Error struct {
	Kind       Kind
	StatusCode int
	Message    string
	// RetryAfter is the wait hint attached to rate-limit errors.
	RetryAfter time.Duration

	cause error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindAuthentication:
		return fmt.Sprintf("authentication failed: %s", e.Message)
	case KindRateLimit:
		return fmt.Sprintf("rate limit exceeded, try again in %s", e.RetryAfter)
	case KindTransport:
		return fmt.Sprintf("request failed: %v", e.cause)
	default:
		return fmt.Sprintf("api request failed (%d): %s", e.StatusCode, e.Message)
	}
}

func (e *Error) Unwrap() error { return e.cause }

func IsAuthentication(err error) bool { return hasKind(err, KindAuthentication) }

func IsRateLimit(err error) bool { return hasKind(err, KindRateLimit) }

func IsClient(err error) bool { return hasKind(err, KindClient) }

func IsTransport(err error) bool { return hasKind(err, KindTransport) }

func IsServer(err error) bool { return hasKind(err, KindServer) }

func hasKind(err error, kind Kind) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}

// classify maps a terminal HTTP response to an error variant. It performs no
// I/O and is evaluated once per response.
func classify(status int, header http.Header, body []byte, fallbackDelay time.Duration) error {
	if status >= http.StatusOK && status < http.StatusMultipleChoices {
		return nil
	}

	message := errorMessage(body)

	switch {
	case status == http.StatusUnauthorized:
		return &Error{Kind: KindAuthentication, StatusCode: status, Message: message}
	case status == http.StatusTooManyRequests:
		return &Error{Kind: KindRateLimit, StatusCode: status, Message: message, RetryAfter: retryAfter(header, fallbackDelay)}
	case status >= http.StatusBadRequest && status < http.StatusInternalServerError:
		return &Error{Kind: KindClient, StatusCode: status, Message: message}
	default:
		return &Error{Kind: KindServer, StatusCode: status, Message: message}
	}
}

type errorBody struct {
	Error struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error"`
}

// errorMessage pulls the provider-supplied message out of the error body,
// falling back to the raw body, then to "Unknown error".
func errorMessage(body []byte) string {
	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error.Message != "" {
		return parsed.Error.Message
	}

	if text := strings.TrimSpace(string(body)); text != "" {
		return text
	}

	return "Unknown error"
}

func retryAfter(header http.Header, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(header.Get("Retry-After"))
	if raw == "" {
		return fallback
	}

	seconds, err := strconv.Atoi(raw)
	if err != nil || seconds < 0 {
		return fallback
	}

	return time.Duration(seconds) * time.Second
}
