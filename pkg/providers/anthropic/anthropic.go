// Package anthropic provides a Completer for the Anthropic Messages API.
package anthropic

import (
	"context"

	"github.com/germanamz/anmd/pkg/modeladapter"
	"github.com/germanamz/anmd/pkg/modeladapter/usage"
)

const (
	// DefaultBaseURL is the public Anthropic API endpoint.
	DefaultBaseURL = "https://api.anthropic.com"
	// DefaultModel is used when a session names no model.
	DefaultModel = "claude-3-5-sonnet-20240620"
	// DefaultMaxTokens is used when a session sets no token limit.
	DefaultMaxTokens = 8192

	messagesPath = "/v1/messages"
	apiVersion   = "2023-06-01"
	providerName = "anthropic"
)

var _ modeladapter.Completer = (*Adapter)(nil)

// Adapter implements modeladapter.Completer for the Anthropic Messages API.
type Adapter struct {
	modeladapter.ModelAdapter
}

// New creates an Adapter. An empty baseURL selects DefaultBaseURL.
func New(baseURL, apiKey, model string) *Adapter {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	a := &Adapter{}
	a.BaseURL = baseURL
	a.Auth = modeladapter.Auth{
		Key:    apiKey,
		Header: "x-api-key",
	}
	a.Name = model
	a.MaxTokens = DefaultMaxTokens
	a.Headers = map[string]string{
		"anthropic-version": apiVersion,
	}
	a.HeaderParser = modeladapter.ParseAnthropicRateLimitHeaders

	return a
}

// Complete sends prompt as the only user message and returns the first text
// block of the reply.
func (a *Adapter) Complete(ctx context.Context, prompt string) (string, error) {
	if err := a.RequireKey(); err != nil {
		return "", err
	}

	req := apiRequest{
		Model:       a.Name,
		MaxTokens:   a.MaxTokens,
		Temperature: a.Temperature,
		Messages: []apiMessage{{
			Role:    "user",
			Content: []apiContent{{Type: "text", Text: prompt}},
		}},
	}

	var resp apiResponse
	if err := a.PostJSON(ctx, messagesPath, req, &resp); err != nil {
		return "", modeladapter.Wrap(providerName, err)
	}

	a.Usage.Add(usage.TokenCount{
		InputTokens:  resp.Usage.InputTokens,
		OutputTokens: resp.Usage.OutputTokens,
	})

	return firstText(resp.Content), nil
}

// --- wire types ---

type apiRequest struct {
	Model       string       `json:"model"`
	MaxTokens   int          `json:"max_tokens"`
	Temperature float64      `json:"temperature"`
	Messages    []apiMessage `json:"messages"`
}

type apiMessage struct {
	Role    string       `json:"role"`
	Content []apiContent `json:"content"`
}

type apiContent struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

type apiResponse struct {
	Content    []apiContent `json:"content"`
	StopReason string       `json:"stop_reason"`
	Usage      apiUsage     `json:"usage"`
}

type apiUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

func firstText(blocks []apiContent) string {
	for _, b := range blocks {
		if b.Type == "text" {
			return b.Text
		}
	}

	return ""
}
