package settings

import "slices"

const (
	// DefaultProvider is the completion backend used when none is named.
	DefaultProvider = "anthropic"
	// DefaultModel is the Anthropic model used when a session names none.
	DefaultModel = "claude-3-5-sonnet-20240620"
	// DefaultMaxTokens is the output token limit used when a session sets none.
	DefaultMaxTokens = 8192
)

// Providers lists the provider kinds a session may name.
var Providers = []string{"anthropic", "openai", "gemini", "grok"}

// KnownProvider reports whether kind is one of Providers.
func KnownProvider(kind string) bool {
	return slices.Contains(Providers, kind)
}

// Session is everything a batch run needs: the paths to process and the
// completion parameters.
type Session struct {
	PromptFile  string   `yaml:"prompt_file"`
	TextFiles   []string `yaml:"text_files"`
	OutputDir   string   `yaml:"output_dir"`
	APIKey      string   `yaml:"api_key"` //nolint:gosec // configuration field, not a hardcoded secret
	Provider    string   `yaml:"provider"`
	BaseURL     string   `yaml:"base_url,omitempty"`
	Model       string   `yaml:"model"`
	MaxTokens   int      `yaml:"max_tokens"`
	Temperature float64  `yaml:"temperature"`
}

// DefaultSession returns a session with no paths and default parameters.
func DefaultSession() Session {
	return Session{
		Provider:  DefaultProvider,
		Model:     DefaultModel,
		MaxTokens: DefaultMaxTokens,
	}
}

// ApplyImport copies every field of imported into s. The API key is only
// taken when s has none.
func (s *Session) ApplyImport(imported Session) {
	key := s.APIKey
	*s = imported
	s.TextFiles = slices.Clone(imported.TextFiles)

	if key != "" {
		s.APIKey = key
	}
}

// ApplyAPIConfig copies the persisted key and temperature into s.
func (s *Session) ApplyAPIConfig(cfg APIConfig) {
	s.APIKey = cfg.APIKey
	s.Temperature = cfg.Temperature
}

// APIConfig extracts the persisted part of s.
func (s Session) APIConfig() APIConfig {
	return APIConfig{APIKey: s.APIKey, Temperature: s.Temperature}
}
