package engine

import (
	"fmt"
	"net/http"
	"os"
	"sort"
	"sync"

	"github.com/germanamz/anmd/pkg/modeladapter"
	"github.com/germanamz/anmd/pkg/providers/anthropic"
	"github.com/germanamz/anmd/pkg/providers/gemini"
	"github.com/germanamz/anmd/pkg/providers/grok"
	"github.com/germanamz/anmd/pkg/providers/openai"
	"github.com/germanamz/anmd/pkg/settings"
)

// ProviderConfig is everything a factory needs to build a Completer.
type ProviderConfig struct {
	Kind        string
	BaseURL     string
	APIKey      string //nolint:gosec // configuration field, not a hardcoded secret
	Model       string
	MaxTokens   int
	Temperature float64
	HTTPClient  *http.Client // nil uses modeladapter.DefaultClient
}

// ProviderConfigFromSession builds the provider settings of s.
func ProviderConfigFromSession(s settings.Session) ProviderConfig {
	return ProviderConfig{
		Kind:        s.Provider,
		BaseURL:     s.BaseURL,
		APIKey:      s.APIKey,
		Model:       s.Model,
		MaxTokens:   s.MaxTokens,
		Temperature: s.Temperature,
	}
}

// ProviderFactory creates a Completer from a ProviderConfig.
type ProviderFactory func(cfg ProviderConfig) (modeladapter.Completer, error)

var (
	factoryMu   sync.RWMutex
	factories   = map[string]ProviderFactory{}
	defaultsReg sync.Once
)

func ensureDefaults() {
	defaultsReg.Do(func() {
		factories["anthropic"] = newAnthropic
		factories["openai"] = newOpenAI
		factories["gemini"] = newGemini
		factories["grok"] = newGrok
	})
}

// RegisterProvider registers a factory under kind, replacing any existing one.
func RegisterProvider(kind string, factory ProviderFactory) {
	ensureDefaults()

	factoryMu.Lock()
	defer factoryMu.Unlock()

	factories[kind] = factory
}

// ProviderKinds returns the registered kinds, sorted.
func ProviderKinds() []string {
	ensureDefaults()

	factoryMu.RLock()
	defer factoryMu.RUnlock()

	kinds := make([]string, 0, len(factories))
	for k := range factories {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)

	return kinds
}

func getFactory(kind string) (ProviderFactory, bool) {
	ensureDefaults()

	factoryMu.RLock()
	defer factoryMu.RUnlock()

	f, ok := factories[kind]
	return f, ok
}

// NewCompleter builds a Completer with the factory registered for cfg.Kind.
// An empty kind selects anthropic.
func NewCompleter(cfg ProviderConfig) (modeladapter.Completer, error) {
	if cfg.Kind == "" {
		cfg.Kind = settings.DefaultProvider
	}

	factory, ok := getFactory(cfg.Kind)
	if !ok {
		return nil, fmt.Errorf("engine: unknown provider kind %q", cfg.Kind)
	}

	c, err := factory(cfg)
	if err != nil {
		return nil, fmt.Errorf("engine: provider %q: %w", cfg.Kind, err)
	}

	return c, nil
}

// configure copies the shared settings onto an adapter's embedded base.
func configure(a *modeladapter.ModelAdapter, cfg ProviderConfig) {
	if cfg.MaxTokens > 0 {
		a.MaxTokens = cfg.MaxTokens
	}
	a.Temperature = cfg.Temperature
	a.Client = cfg.HTTPClient
}

func newAnthropic(cfg ProviderConfig) (modeladapter.Completer, error) {
	model := cfg.Model
	if model == "" {
		model = anthropic.DefaultModel
	}

	a := anthropic.New(cfg.BaseURL, cfg.APIKey, model)
	configure(&a.ModelAdapter, cfg)

	return a, nil
}

func newOpenAI(cfg ProviderConfig) (modeladapter.Completer, error) {
	model := cfg.Model
	if model == "" {
		model = openai.DefaultModel
	}

	a := openai.New(cfg.BaseURL, cfg.APIKey, model)
	configure(&a.ModelAdapter, cfg)

	return a, nil
}

func newGemini(cfg ProviderConfig) (modeladapter.Completer, error) {
	model := cfg.Model
	if model == "" {
		model = gemini.DefaultModel
	}

	a := gemini.New(cfg.BaseURL, cfg.APIKey, model)
	configure(&a.ModelAdapter, cfg)

	return a, nil
}

func newGrok(cfg ProviderConfig) (modeladapter.Completer, error) {
	model := cfg.Model
	if model == "" {
		model = grok.DefaultModel
	}

	a := grok.New(cfg.BaseURL, cfg.APIKey, model)
	configure(&a.ModelAdapter, cfg)

	return a, nil
}

// envKeys maps provider kinds to the environment variable holding their key.
var envKeys = map[string]string{
	"anthropic": "ANTHROPIC_API_KEY",
	"openai":    "OPENAI_API_KEY",
	"gemini":    "GEMINI_API_KEY",
	"grok":      "XAI_API_KEY",
}

// EnvKey returns the environment variable consulted for kind's API key, or
// "" for kinds without one.
func EnvKey(kind string) string {
	return envKeys[kind]
}

// ResolveAPIKey returns the first non-empty candidate, falling back to the
// provider's environment variable.
func ResolveAPIKey(kind string, candidates ...string) string {
	for _, c := range candidates {
		if c != "" {
			return c
		}
	}

	if env := EnvKey(kind); env != "" {
		return os.Getenv(env)
	}

	return ""
}
