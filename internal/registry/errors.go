package registry

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// Stable machine-readable error codes surfaced to callers.
const (
	CodeAuth       = "AUTH_001"
	CodeNotFound   = "RES_001"
	CodeValidation = "VAL_001"
	CodeRateLimit  = "RATE_001"
	CodeServer     = "SRV_001"
	CodeNetwork    = "NET_001"
)

// AuthError indicates the catalog rejected the request's credentials (401).
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	if e.Message != "" {
		return "registry authentication failed: " + e.Message
	}
	return "registry authentication failed"
}

// Code returns the stable machine-readable code.
func (e *AuthError) Code() string { return CodeAuth }

// NotFoundError indicates the requested resource does not exist (404).
type NotFoundError struct {
	Resource string
	Message  string
}

func (e *NotFoundError) Error() string {
	if e.Resource != "" {
		return fmt.Sprintf("registry resource %q not found", e.Resource)
	}
	return "registry resource not found"
}

// Code returns the stable machine-readable code.
func (e *NotFoundError) Code() string { return CodeNotFound }

// ValidationError indicates the catalog rejected the request parameters (400).
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return "registry rejected request: " + e.Message
	}
	return "registry rejected request"
}

// Code returns the stable machine-readable code.
func (e *ValidationError) Code() string { return CodeValidation }

// RateLimitError indicates the request was throttled (429). RetryAfter is the
// server-supplied wait, zero when the server did not provide one.
type RateLimitError struct {
	RetryAfter time.Duration
	Message    string
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("registry rate limit exceeded, retry after %s", e.RetryAfter)
	}
	return "registry rate limit exceeded"
}

// Code returns the stable machine-readable code.
func (e *RateLimitError) Code() string { return CodeRateLimit }

// ServerError indicates a catalog-side failure (5xx). RequestID is the
// server-assigned id when provided, useful for support requests.
type ServerError struct {
	Status    int
	RequestID string
	Message   string
}

func (e *ServerError) Error() string {
	msg := fmt.Sprintf("registry server error (status %d)", e.Status)
	if e.RequestID != "" {
		msg += ", request id " + e.RequestID
	}
	return msg
}

// Code returns the stable machine-readable code.
func (e *ServerError) Code() string { return CodeServer }

// NetworkError indicates a transport-level failure before any HTTP status
// was received.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return "registry unreachable: " + e.Err.Error()
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Code returns the stable machine-readable code.
func (e *NetworkError) Code() string { return CodeNetwork }

// errorBody is the error envelope the catalog returns on failures.
type errorBody struct {
	Error struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"requestId"`
	} `json:"error"`
}

// errorFromResponse maps a non-2xx response to a typed error.
// The resource argument names what was being fetched, for NotFoundError.
func errorFromResponse(status int, body []byte, header http.Header, resource string) error {
	var eb errorBody
	// Error bodies are best-effort; a non-JSON body just means no message.
	_ = json.Unmarshal(body, &eb)
	msg := eb.Error.Message

	switch {
	case status == http.StatusUnauthorized:
		return &AuthError{Message: msg}
	case status == http.StatusNotFound:
		return &NotFoundError{Resource: resource, Message: msg}
	case status == http.StatusBadRequest:
		return &ValidationError{Message: msg}
	case status == http.StatusTooManyRequests:
		return &RateLimitError{RetryAfter: retryAfter(header), Message: msg}
	case status >= 500:
		requestID := header.Get("X-Request-Id")
		if requestID == "" {
			requestID = eb.Error.RequestID
		}
		return &ServerError{Status: status, RequestID: requestID, Message: msg}
	default:
		// Other 4xx: treat as a request validation problem.
		return &ValidationError{Message: fmt.Sprintf("unexpected status %d: %s", status, msg)}
	}
}

// retryAfter parses a Retry-After header given in seconds.
// Returns zero when absent or malformed.
func retryAfter(h http.Header) time.Duration {
	v := h.Get("Retry-After")
	if v == "" {
		return 0
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
