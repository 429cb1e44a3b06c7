package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"
)

// TextFileSeparator joins input paths in the INI text_files key.
const TextFileSeparator = ";"

const (
	sectionPaths = "Paths"
	sectionAPI   = "API"
)

// iniOptions keeps ';' and '#' inside values, since text_files is a
// ';'-separated list.
var iniOptions = ini.LoadOptions{IgnoreInlineComment: true}

type iniKey struct {
	sec         *ini.Section
	name, value string
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}

	return false
}

// ExportSession writes every field of s to path. Paths ending in .yaml or
// .yml get YAML; everything else gets the INI layout with [Paths] and [API]
// sections.
func ExportSession(path string, s Session) error {
	if isYAML(path) {
		return exportYAML(path, s)
	}

	return exportINI(path, s)
}

// ImportSession reads a session file written by ExportSession or by hand.
// Missing keys fall back to DefaultSession values.
func ImportSession(path string) (Session, error) {
	if isYAML(path) {
		return importYAML(path)
	}

	return importINI(path)
}

func exportINI(path string, s Session) error {
	f := ini.Empty(iniOptions)

	paths, err := f.NewSection(sectionPaths)
	if err != nil {
		return fmt.Errorf("settings: export session: %w", err)
	}

	api, err := f.NewSection(sectionAPI)
	if err != nil {
		return fmt.Errorf("settings: export session: %w", err)
	}

	keys := []iniKey{
		{paths, "prompt_file", s.PromptFile},
		{paths, "text_files", strings.Join(s.TextFiles, TextFileSeparator)},
		{paths, "output_dir", s.OutputDir},
		{api, "api_key", s.APIKey},
		{api, "model", s.Model},
		{api, "max_tokens", strconv.Itoa(s.MaxTokens)},
		{api, "temperature", strconv.FormatFloat(s.Temperature, 'f', -1, 64)},
		{api, "provider", s.Provider},
	}
	if s.BaseURL != "" {
		keys = append(keys, iniKey{api, "base_url", s.BaseURL})
	}

	for _, k := range keys {
		if _, err := k.sec.NewKey(k.name, k.value); err != nil {
			return fmt.Errorf("settings: export session: key %s: %w", k.name, err)
		}
	}

	if err := f.SaveTo(path); err != nil {
		return fmt.Errorf("settings: export session: %w", err)
	}

	return nil
}

func importINI(path string) (Session, error) {
	f, err := ini.LoadSources(iniOptions, path)
	if err != nil {
		return Session{}, fmt.Errorf("settings: import session: %w", err)
	}

	s := DefaultSession()

	paths := f.Section(sectionPaths)
	s.PromptFile = paths.Key("prompt_file").String()
	s.TextFiles = SplitTextFiles(paths.Key("text_files").String())
	s.OutputDir = paths.Key("output_dir").String()

	api := f.Section(sectionAPI)
	s.APIKey = api.Key("api_key").String()
	if api.HasKey("model") {
		s.Model = api.Key("model").String()
	}
	if api.HasKey("provider") {
		s.Provider = api.Key("provider").String()
	}
	s.BaseURL = api.Key("base_url").String()

	if api.HasKey("max_tokens") {
		s.MaxTokens, err = api.Key("max_tokens").Int()
		if err != nil {
			return Session{}, fmt.Errorf("settings: import session: max_tokens: %w", err)
		}
	}

	if api.HasKey("temperature") {
		s.Temperature, err = api.Key("temperature").Float64()
		if err != nil {
			return Session{}, fmt.Errorf("settings: import session: temperature: %w", err)
		}
	}

	return s, nil
}

func exportYAML(path string, s Session) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("settings: export session: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("settings: export session: %w", err)
	}

	return nil
}

func importYAML(path string) (Session, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is user-selected configuration
	if err != nil {
		return Session{}, fmt.Errorf("settings: import session: %w", err)
	}

	s := DefaultSession()
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Session{}, fmt.Errorf("settings: import session: %w", err)
	}

	return s, nil
}

// SplitTextFiles splits a ';'-separated list of paths, trimming blanks and
// dropping empty entries.
func SplitTextFiles(list string) []string {
	var out []string

	for _, p := range strings.Split(list, TextFileSeparator) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}

	return out
}
