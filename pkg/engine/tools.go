package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/germanamz/anmd/pkg/batch"
	"github.com/germanamz/anmd/pkg/providers/anthropic"
	"github.com/germanamz/anmd/pkg/providers/gemini"
	"github.com/germanamz/anmd/pkg/providers/grok"
	"github.com/germanamz/anmd/pkg/providers/openai"
	"github.com/germanamz/anmd/pkg/settings"
	"github.com/germanamz/anmd/pkg/template"
	"github.com/germanamz/anmd/pkg/tools/toolbox"
)

// DefaultModelFor returns the model used for kind when a caller names none.
func DefaultModelFor(kind string) string {
	switch kind {
	case "openai":
		return openai.DefaultModel
	case "gemini":
		return gemini.DefaultModel
	case "grok":
		return grok.DefaultModel
	default:
		return anthropic.DefaultModel
	}
}

type mergeInput struct {
	PromptFile string `json:"prompt_file"`
	TextFile   string `json:"text_file"`
}

type batchInput struct {
	PromptFile  string   `json:"prompt_file"`
	TextFiles   []string `json:"text_files"`
	OutputDir   string   `json:"output_dir"`
	Provider    string   `json:"provider"`
	Model       string   `json:"model"`
	MaxTokens   int      `json:"max_tokens"`
	Temperature *float64 `json:"temperature"`
	APIKey      string   `json:"api_key"` //nolint:gosec // tool argument, not a hardcoded secret
}

// Tools returns the toolbox served over MCP. base supplies the API key and
// temperature when a call leaves them out.
func (e *Engine) Tools(base settings.Session) *toolbox.ToolBox {
	return toolbox.New(
		toolbox.Tool{
			Name:        "merge_template",
			Description: "Merge a prompt template with a text file, replacing every {{TEXT}} with the file's contents. Returns the merged document without calling a model.",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"prompt_file":{"type":"string","description":"Path to the prompt template"},"text_file":{"type":"string","description":"Path to the text file"}},"required":["prompt_file","text_file"]}`),
			Handler:     e.mergeTemplate,
		},
		toolbox.Tool{
			Name:        "process_batch",
			Description: "Merge the prompt template with each text file, send it to the model, and write the replies as Markdown files into output_dir. Returns the progress log.",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"prompt_file":{"type":"string"},"text_files":{"type":"array","items":{"type":"string"}},"output_dir":{"type":"string"},"provider":{"type":"string","enum":["anthropic","openai","gemini","grok"]},"model":{"type":"string"},"max_tokens":{"type":"integer"},"temperature":{"type":"number"},"api_key":{"type":"string"}},"required":["prompt_file","text_files","output_dir"]}`),
			Handler: func(ctx context.Context, input json.RawMessage) (string, error) {
				return e.processBatch(ctx, base, input)
			},
		},
	)
}

func (e *Engine) mergeTemplate(_ context.Context, input json.RawMessage) (string, error) {
	in, err := toolbox.Decode[mergeInput](input)
	if err != nil {
		return "", err
	}

	return template.Merge(in.PromptFile, in.TextFile)
}

func (e *Engine) processBatch(ctx context.Context, base settings.Session, input json.RawMessage) (string, error) {
	in, err := toolbox.Decode[batchInput](input)
	if err != nil {
		return "", err
	}

	s := settings.DefaultSession()
	s.PromptFile = in.PromptFile
	s.TextFiles = in.TextFiles
	s.OutputDir = in.OutputDir
	s.Temperature = base.Temperature

	if in.Provider != "" {
		s.Provider = in.Provider
	}
	s.Model = in.Model
	if s.Model == "" {
		s.Model = DefaultModelFor(s.Provider)
	}
	if in.MaxTokens > 0 {
		s.MaxTokens = in.MaxTokens
	}
	if in.Temperature != nil {
		s.Temperature = *in.Temperature
	}
	s.APIKey = ResolveAPIKey(s.Provider, in.APIKey, base.APIKey)

	var rec batch.Recorder
	res, err := e.Run(ctx, s, batch.Multi(&rec, batch.LogReporter(e.Logger())))

	out := strings.Join(rec.Lines(), "\n")
	if err != nil {
		if out == "" {
			return "", err
		}

		return "", errors.New(out)
	}

	if res.Usage.Total() > 0 {
		out += fmt.Sprintf("\nTokens: %s", res.Usage)
	}

	return out, nil
}
