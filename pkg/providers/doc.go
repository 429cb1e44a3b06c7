// Package providers groups the completion adapters. Each subpackage embeds
// [github.com/germanamz/anmd/pkg/modeladapter.ModelAdapter] and implements
// modeladapter.Completer for one hosted API:
//
//   - anthropic: Messages API over plain HTTP (the default)
//   - openai: Chat Completions through the official openai-go SDK
//   - gemini: generateContent through google.golang.org/genai
//   - grok: xAI chat completions over plain HTTP
//
// This package contains no code; the engine selects an adapter by kind.
package providers
