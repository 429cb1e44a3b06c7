package openai_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/germanamz/anmd/pkg/modeladapter"
	"github.com/germanamz/anmd/pkg/providers/openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *openai.Adapter {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return openai.New(srv.URL, "test-key", "gpt-test")
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("failed to encode response: %v", err)
	}
}

func readBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()

	body, err := io.ReadAll(r.Body)
	require.NoError(t, err)

	var req map[string]any
	require.NoError(t, json.Unmarshal(body, &req))

	return req
}

func completion(content string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1,
		"model":   "gpt-test",
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
		"usage": map[string]any{"prompt_tokens": 12, "completion_tokens": 3, "total_tokens": 15},
	}
}

func TestComplete_SimpleText(t *testing.T) {
	adapter := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		req := readBody(t, r)
		assert.Equal(t, "gpt-test", req["model"])
		require.Contains(t, req, "temperature")
		assert.InDelta(t, 0, req["temperature"], 1e-9)
		assert.InDelta(t, 256, req["max_completion_tokens"], 0)

		msgs := req["messages"].([]any)
		require.Len(t, msgs, 1)
		msg := msgs[0].(map[string]any)
		assert.Equal(t, "user", msg["role"])
		assert.Equal(t, "Summarize: hi", msg["content"])

		w.Header().Set("x-ratelimit-remaining-requests", "99")
		writeJSON(t, w, completion("A summary."))
	})
	adapter.MaxTokens = 256

	got, err := adapter.Complete(context.Background(), "Summarize: hi")
	require.NoError(t, err)
	assert.Equal(t, "A summary.", got)

	last, ok := adapter.Usage.Last()
	require.True(t, ok)
	assert.Equal(t, 12, last.InputTokens)
	assert.Equal(t, 3, last.OutputTokens)

	info := adapter.LastRateLimitInfo()
	require.NotNil(t, info)
	assert.Equal(t, 99, info.RemainingRequests)
}

func TestComplete_NoChoices(t *testing.T) {
	adapter := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		resp := completion("")
		resp["choices"] = []any{}
		writeJSON(t, w, resp)
	})

	got, err := adapter.Complete(context.Background(), "x")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestComplete_Unauthorized(t *testing.T) {
	calls := 0
	adapter := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Incorrect API key provided","type":"invalid_request_error","code":"invalid_api_key","param":null}}`))
	})

	_, err := adapter.Complete(context.Background(), "x")

	var rce *modeladapter.RemoteCallError
	require.ErrorAs(t, err, &rce)
	assert.Equal(t, "openai", rce.Provider)

	var se *modeladapter.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusUnauthorized, se.StatusCode)
	assert.Equal(t, "Incorrect API key provided", se.Message)
	assert.Equal(t, 1, calls)
}

func TestComplete_RateLimitedNotRetried(t *testing.T) {
	calls := 0
	adapter := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"slow down","type":"rate_limit","code":null,"param":null}}`))
	})

	_, err := adapter.Complete(context.Background(), "x")

	var rl *modeladapter.RateLimitError
	require.ErrorAs(t, err, &rl)
	assert.Equal(t, 1, calls)
}

func TestComplete_MissingKey(t *testing.T) {
	a := openai.New("http://127.0.0.1:1", "", "gpt-test")

	_, err := a.Complete(context.Background(), "x")
	assert.ErrorIs(t, err, modeladapter.ErrMissingCredential)
}
