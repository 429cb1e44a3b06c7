package modeladapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// ErrMissingCredential is returned before any request is made when the
// adapter has no API key.
var ErrMissingCredential = errors.New("missing API key")

// RemoteCallError wraps any failure of a remote completion call: transport
// errors, non-2xx responses, and undecodable bodies.
type RemoteCallError struct {
	Provider string
	Err      error
}

func (e *RemoteCallError) Error() string {
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *RemoteCallError) Unwrap() error { return e.Err }

// Wrap returns err wrapped in a RemoteCallError for provider. Nil and
// ErrMissingCredential pass through untouched.
func Wrap(provider string, err error) error {
	if err == nil || errors.Is(err, ErrMissingCredential) {
		return err
	}

	return &RemoteCallError{Provider: provider, Err: err}
}

// StatusError is a non-2xx, non-429 response from the API.
type StatusError struct {
	StatusCode int
	Message    string // error.message from the JSON body, if any
	Body       string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Message)
	}

	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

// RateLimitError is returned when the API responds with HTTP 429. RetryAfter
// comes from the Retry-After header and is informational only.
type RateLimitError struct {
	RetryAfter time.Duration
	Body       string
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited (retry after %s): %s", e.RetryAfter, e.Body)
	}

	return fmt.Sprintf("rate limited: %s", e.Body)
}

// HTTPError maps a failed response reported by a provider SDK onto the same
// error types PostJSON produces. A 429 gives *RateLimitError.
func HTTPError(status int, message, body string, header http.Header) error {
	if status == http.StatusTooManyRequests {
		return &RateLimitError{
			RetryAfter: ParseRetryAfter(header.Get("Retry-After")),
			Body:       body,
		}
	}

	return &StatusError{StatusCode: status, Message: message, Body: body}
}

// ParseRetryAfter parses a Retry-After value given either as seconds or as an
// HTTP date. Unparseable values and dates in the past yield zero.
func ParseRetryAfter(val string) time.Duration {
	if val == "" {
		return 0
	}

	if secs, err := strconv.Atoi(val); err == nil {
		return time.Duration(secs) * time.Second
	}

	if t, err := http.ParseTime(val); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}

	return 0
}

// errorMessage pulls error.message out of a provider error body. Anthropic,
// OpenAI and Gemini all use this envelope.
func errorMessage(body []byte) string {
	var env struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}

	if err := json.Unmarshal(body, &env); err != nil {
		return ""
	}

	return env.Error.Message
}
