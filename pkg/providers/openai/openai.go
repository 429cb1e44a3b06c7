// Package openai provides a Completer for the OpenAI Chat Completions API,
// built on the official openai-go SDK.
package openai

import (
	"context"
	"errors"
	"net/http"

	"github.com/germanamz/anmd/pkg/modeladapter"
	"github.com/germanamz/anmd/pkg/modeladapter/usage"
	sdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const providerName = "openai"

// DefaultModel is used when a session selects the openai kind without a model.
const DefaultModel = "gpt-4o-mini"

var _ modeladapter.Completer = (*Adapter)(nil)

// Adapter implements modeladapter.Completer over openai-go. The embedded
// ModelAdapter carries configuration and usage; the SDK does the transport.
type Adapter struct {
	modeladapter.ModelAdapter
}

// New creates an Adapter. An empty baseURL keeps the SDK default endpoint.
func New(baseURL, apiKey, model string) *Adapter {
	a := &Adapter{}
	a.BaseURL = baseURL
	a.Auth = modeladapter.Auth{Key: apiKey}
	a.Name = model
	a.MaxTokens = 4096
	a.HeaderParser = modeladapter.ParseOpenAIRateLimitHeaders

	return a
}

func (a *Adapter) client() sdk.Client {
	opts := []option.RequestOption{
		option.WithAPIKey(a.Auth.Key),
		option.WithMaxRetries(0),
	}
	if a.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(a.BaseURL))
	}
	if a.Client != nil {
		opts = append(opts, option.WithHTTPClient(a.Client))
	} else {
		opts = append(opts, option.WithHTTPClient(modeladapter.DefaultClient))
	}

	return sdk.NewClient(opts...)
}

// Complete sends prompt as a single user message and returns the content of
// the first choice.
func (a *Adapter) Complete(ctx context.Context, prompt string) (string, error) {
	if err := a.RequireKey(); err != nil {
		return "", err
	}

	params := sdk.ChatCompletionNewParams{
		Model: sdk.ChatModel(a.Name),
		Messages: []sdk.ChatCompletionMessageParamUnion{
			sdk.UserMessage(prompt),
		},
		Temperature: sdk.Float(a.Temperature),
	}
	if a.MaxTokens > 0 {
		params.MaxCompletionTokens = sdk.Int(int64(a.MaxTokens))
	}

	client := a.client()

	var raw *http.Response
	completion, err := client.Chat.Completions.New(ctx, params, option.WithResponseInto(&raw))
	if raw != nil {
		a.ObserveHeaders(raw.Header)
	}
	if err != nil {
		return "", modeladapter.Wrap(providerName, mapError(err))
	}

	a.Usage.Add(usage.TokenCount{
		InputTokens:  int(completion.Usage.PromptTokens),
		OutputTokens: int(completion.Usage.CompletionTokens),
	})

	if len(completion.Choices) == 0 {
		return "", nil
	}

	return completion.Choices[0].Message.Content, nil
}

func mapError(err error) error {
	var apiErr *sdk.Error
	if !errors.As(err, &apiErr) {
		return err
	}

	var header http.Header
	if apiErr.Response != nil {
		header = apiErr.Response.Header
	}

	return modeladapter.HTTPError(apiErr.StatusCode, apiErr.Message, apiErr.RawJSON(), header)
}
