package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/germanamz/anmd/pkg/engine"
	"github.com/germanamz/anmd/pkg/settings"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// baseSession is the default session with the saved API config applied.
func baseSession(settingsPath string) (settings.Session, error) {
	cfg, err := settings.LoadAPIConfig(settingsPath)
	if err != nil {
		return settings.Session{}, err
	}

	s := settings.DefaultSession()
	s.ApplyAPIConfig(cfg)

	return s, nil
}

// sessionFlags are the session fields settable from the command line.
type sessionFlags struct {
	prompt      string
	inputs      []string
	inputList   string
	out         string
	session     string
	provider    string
	model       string
	maxTokens   int
	temperature float64
	apiKey      string
}

func (f *sessionFlags) bind(fs *pflag.FlagSet) {
	fs.StringVarP(&f.prompt, "prompt", "p", "", "prompt template file")
	fs.StringArrayVarP(&f.inputs, "input", "i", nil, "input text file (repeatable)")
	fs.StringVar(&f.inputList, "input-list", "", `input text files joined by ";"`)
	fs.StringVarP(&f.out, "out", "o", "", "output directory")
	fs.StringVarP(&f.session, "session", "s", "", "session file (.ini, .yaml) to start from")
	fs.StringVar(&f.provider, "provider", settings.DefaultProvider, "completion provider ("+strings.Join(engine.ProviderKinds(), ", ")+")")
	fs.StringVarP(&f.model, "model", "m", "", "model name (default depends on provider)")
	fs.IntVar(&f.maxTokens, "max-tokens", settings.DefaultMaxTokens, "maximum output tokens")
	fs.Float64VarP(&f.temperature, "temperature", "t", 0, "sampling temperature in [0, 1]")
	fs.StringVar(&f.apiKey, "api-key", "", "API key (overrides session, settings and environment)")
}

// resolve builds the effective session. Each field comes from the first
// source that sets it: flag, session file, saved settings, default. The API
// key falls back to the provider's environment variable last.
func (f *sessionFlags) resolve(fs *pflag.FlagSet, settingsPath string) (settings.Session, error) {
	s, err := baseSession(settingsPath)
	if err != nil {
		return s, err
	}

	if f.session != "" {
		imported, err := settings.ImportSession(f.session)
		if err != nil {
			return s, err
		}

		savedKey := s.APIKey
		s = imported
		if s.APIKey == "" {
			s.APIKey = savedKey
		}
	}

	if fs.Changed("prompt") {
		s.PromptFile = f.prompt
	}

	var inputs []string
	inputs = append(inputs, f.inputs...)
	inputs = append(inputs, settings.SplitTextFiles(f.inputList)...)
	if len(inputs) > 0 {
		s.TextFiles = inputs
	}

	if fs.Changed("out") {
		s.OutputDir = f.out
	}

	if fs.Changed("provider") && f.provider != s.Provider {
		s.Provider = f.provider
		s.Model = engine.DefaultModelFor(f.provider)
		s.BaseURL = ""
	}

	if fs.Changed("model") {
		s.Model = f.model
	}

	if fs.Changed("max-tokens") {
		s.MaxTokens = f.maxTokens
	}

	if fs.Changed("temperature") {
		s.Temperature = f.temperature
	}

	s.APIKey = engine.ResolveAPIKey(s.Provider, f.apiKey, s.APIKey)

	return s, nil
}

// maskKey hides all but the last four characters of key.
func maskKey(key string) string {
	const visible = 4

	switch {
	case key == "":
		return ""
	case len(key) <= visible:
		return "****"
	}

	return fmt.Sprintf("****%s", key[len(key)-visible:])
}
