// Package grok implements modeladapter.Completer for xAI's Grok models using
// the OpenAI-compatible chat completions API.
package grok

import (
	"context"

	"github.com/germanamz/anmd/pkg/modeladapter"
	"github.com/germanamz/anmd/pkg/modeladapter/usage"
)

const providerName = "grok"

// DefaultBaseURL is the base URL for the xAI API.
const DefaultBaseURL = "https://api.x.ai/v1"

// DefaultModel is used when a session selects the grok kind without a model.
const DefaultModel = "grok-3-mini"

var _ modeladapter.Completer = (*Adapter)(nil)

// Adapter sends chat completions to xAI's Grok API.
type Adapter struct {
	modeladapter.ModelAdapter
}

// New creates an Adapter. An empty baseURL uses DefaultBaseURL.
func New(baseURL, apiKey, model string) *Adapter {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	a := &Adapter{
		ModelAdapter: modeladapter.New(baseURL, modeladapter.Auth{Key: apiKey}, nil),
	}
	a.Name = model
	a.MaxTokens = 8192
	a.HeaderParser = modeladapter.ParseOpenAIRateLimitHeaders

	return a
}

// Complete sends prompt as the only user message and returns the content of
// the first choice, or "" when there is none.
func (g *Adapter) Complete(ctx context.Context, prompt string) (string, error) {
	if err := g.RequireKey(); err != nil {
		return "", err
	}

	req := chatRequest{
		Model:       g.Name,
		Messages:    []apiMessage{{Role: "user", Content: prompt}},
		Temperature: g.Temperature,
		MaxTokens:   g.MaxTokens,
	}

	var resp chatResponse
	if err := g.PostJSON(ctx, "/chat/completions", req, &resp); err != nil {
		return "", modeladapter.Wrap(providerName, err)
	}

	g.Usage.Add(usage.TokenCount{
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
	})

	if len(resp.Choices) == 0 {
		return "", nil
	}

	return resp.Choices[0].Message.Content, nil
}

// API request/response types.

type chatRequest struct {
	Model       string       `json:"model"`
	Messages    []apiMessage `json:"messages"`
	Temperature float64      `json:"temperature"`
	MaxTokens   int          `json:"max_tokens,omitempty"`
}

type apiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	ID      string   `json:"id"`
	Choices []choice `json:"choices"`
	Usage   apiUsage `json:"usage"`
}

type choice struct {
	Message      apiMessage `json:"message"`
	FinishReason string     `json:"finish_reason"`
}

type apiUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}
