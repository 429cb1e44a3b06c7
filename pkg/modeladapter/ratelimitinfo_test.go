package modeladapter_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/germanamz/anmd/pkg/modeladapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAnthropicRateLimitHeaders(t *testing.T) {
	now := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)
	reset := now.Add(30 * time.Second)

	h := http.Header{}
	h.Set("anthropic-ratelimit-requests-remaining", "5")
	h.Set("anthropic-ratelimit-tokens-remaining", "1000")
	h.Set("anthropic-ratelimit-requests-reset", reset.Format(time.RFC3339))
	h.Set("anthropic-ratelimit-tokens-reset", "1m")

	info := modeladapter.ParseAnthropicRateLimitHeaders(h, now)
	require.NotNil(t, info)
	assert.Equal(t, 5, info.RemainingRequests)
	assert.Equal(t, 1000, info.RemainingTokens)
	assert.Equal(t, reset, info.RequestsReset)
	assert.Equal(t, now.Add(time.Minute), info.TokensReset)
	assert.Equal(t, "5 requests, 1000 tokens remaining", info.String())
}

func TestParseAnthropicRateLimitHeaders_None(t *testing.T) {
	assert.Nil(t, modeladapter.ParseAnthropicRateLimitHeaders(http.Header{}, time.Now()))
}

func TestParseOpenAIRateLimitHeaders_Partial(t *testing.T) {
	h := http.Header{}
	h.Set("x-ratelimit-remaining-tokens", "42")
	h.Set("x-ratelimit-reset-tokens", "bogus")

	info := modeladapter.ParseOpenAIRateLimitHeaders(h, time.Now())
	require.NotNil(t, info)
	assert.Equal(t, 0, info.RemainingRequests)
	assert.Equal(t, 42, info.RemainingTokens)
	assert.True(t, info.TokensReset.IsZero())
}

func TestRateLimitInfo_NilString(t *testing.T) {
	var info *modeladapter.RateLimitInfo
	assert.Empty(t, info.String())
}
