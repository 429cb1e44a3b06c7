// Package gemini provides a Completer for the Google Gemini API, built on the
// google.golang.org/genai SDK.
package gemini

import (
	"context"
	"errors"
	"fmt"

	"github.com/germanamz/anmd/pkg/modeladapter"
	"github.com/germanamz/anmd/pkg/modeladapter/usage"
	"google.golang.org/genai"
)

const providerName = "gemini"

// DefaultModel is used when a session selects the gemini kind without a model.
const DefaultModel = "gemini-2.0-flash"

var _ modeladapter.Completer = (*Adapter)(nil)

// Adapter implements modeladapter.Completer over genai.
type Adapter struct {
	modeladapter.ModelAdapter
}

// New creates an Adapter. An empty baseURL keeps the SDK default endpoint.
func New(baseURL, apiKey, model string) *Adapter {
	a := &Adapter{}
	a.BaseURL = baseURL
	a.Auth = modeladapter.Auth{Key: apiKey, Header: "x-goog-api-key"}
	a.Name = model
	a.MaxTokens = 8192

	return a
}

func (a *Adapter) client(ctx context.Context) (*genai.Client, error) {
	httpClient := a.Client
	if httpClient == nil {
		httpClient = modeladapter.DefaultClient
	}

	return genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      a.Auth.Key,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  httpClient,
		HTTPOptions: genai.HTTPOptions{BaseURL: a.BaseURL},
	})
}

// Complete sends prompt as one user turn and returns the text of the first
// part of the first candidate.
func (a *Adapter) Complete(ctx context.Context, prompt string) (string, error) {
	if err := a.RequireKey(); err != nil {
		return "", err
	}

	client, err := a.client(ctx)
	if err != nil {
		return "", modeladapter.Wrap(providerName, fmt.Errorf("create client: %w", err))
	}

	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(a.Temperature)),
	}
	if a.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(a.MaxTokens) //nolint:gosec // bounded by session validation
	}

	resp, err := client.Models.GenerateContent(ctx, a.Name, genai.Text(prompt), cfg)
	if err != nil {
		return "", modeladapter.Wrap(providerName, mapError(err))
	}

	if resp.UsageMetadata != nil {
		a.Usage.Add(usage.TokenCount{
			InputTokens:  int(resp.UsageMetadata.PromptTokenCount),
			OutputTokens: int(resp.UsageMetadata.CandidatesTokenCount),
		})
	}

	return firstText(resp), nil
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}

	content := resp.Candidates[0].Content
	if content == nil {
		return ""
	}

	for _, p := range content.Parts {
		if p != nil && p.Text != "" && !p.Thought {
			return p.Text
		}
	}

	return ""
}

func mapError(err error) error {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return err
	}

	return modeladapter.HTTPError(apiErr.Code, apiErr.Message, apiErr.Error(), nil)
}
