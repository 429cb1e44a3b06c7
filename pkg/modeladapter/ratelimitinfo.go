package modeladapter

import (
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// RateLimitInfo is the provider's view of remaining quota after a call. It is
// shown to the user and never used to delay requests.
type RateLimitInfo struct {
	RemainingRequests int
	RemainingTokens   int
	RequestsReset     time.Time
	TokensReset       time.Time
}

// String renders the info as a short status fragment.
func (r *RateLimitInfo) String() string {
	if r == nil {
		return ""
	}

	return fmt.Sprintf("%d requests, %d tokens remaining", r.RemainingRequests, r.RemainingTokens)
}

// RateLimitInfoReporter provides the most recently observed rate limit info.
type RateLimitInfoReporter interface {
	LastRateLimitInfo() *RateLimitInfo
}

// RateLimitHeaderParser extracts rate limit info from response headers.
// It receives the current time so tests can pin the clock.
type RateLimitHeaderParser func(h http.Header, now time.Time) *RateLimitInfo

type rateLimitHeaders struct {
	remainingRequests string
	remainingTokens   string
	resetRequests     string
	resetTokens       string
}

var (
	anthropicHeaders = rateLimitHeaders{
		remainingRequests: "anthropic-ratelimit-requests-remaining",
		remainingTokens:   "anthropic-ratelimit-tokens-remaining",
		resetRequests:     "anthropic-ratelimit-requests-reset",
		resetTokens:       "anthropic-ratelimit-tokens-reset",
	}
	openAIHeaders = rateLimitHeaders{
		remainingRequests: "x-ratelimit-remaining-requests",
		remainingTokens:   "x-ratelimit-remaining-tokens",
		resetRequests:     "x-ratelimit-reset-requests",
		resetTokens:       "x-ratelimit-reset-tokens",
	}
)

// ParseAnthropicRateLimitHeaders parses anthropic-ratelimit-* headers.
func ParseAnthropicRateLimitHeaders(h http.Header, now time.Time) *RateLimitInfo {
	return anthropicHeaders.parse(h, now)
}

// ParseOpenAIRateLimitHeaders parses x-ratelimit-* headers.
func ParseOpenAIRateLimitHeaders(h http.Header, now time.Time) *RateLimitInfo {
	return openAIHeaders.parse(h, now)
}

func (k rateLimitHeaders) parse(h http.Header, now time.Time) *RateLimitInfo {
	reqRemaining := h.Get(k.remainingRequests)
	tokRemaining := h.Get(k.remainingTokens)

	if reqRemaining == "" && tokRemaining == "" {
		return nil
	}

	info := &RateLimitInfo{
		RequestsReset: parseResetTime(h.Get(k.resetRequests), now),
		TokensReset:   parseResetTime(h.Get(k.resetTokens), now),
	}
	if v, err := strconv.Atoi(reqRemaining); err == nil {
		info.RemainingRequests = v
	}
	if v, err := strconv.Atoi(tokRemaining); err == nil {
		info.RemainingTokens = v
	}

	return info
}

// parseResetTime accepts RFC3339 or a Go duration relative to now.
func parseResetTime(val string, now time.Time) time.Time {
	if val == "" {
		return time.Time{}
	}

	if t, err := time.Parse(time.RFC3339, val); err == nil {
		return t
	}

	if d, err := time.ParseDuration(val); err == nil {
		return now.Add(d)
	}

	return time.Time{}
}
