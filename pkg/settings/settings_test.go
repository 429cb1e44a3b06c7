package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir, name string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))

	return path
}

func validSession(t *testing.T) Session {
	t.Helper()

	dir := t.TempDir()
	s := DefaultSession()
	s.PromptFile = touch(t, dir, "prompt.txt")
	s.TextFiles = []string{touch(t, dir, "a.txt"), touch(t, dir, "b.txt")}
	s.OutputDir = dir

	return s
}

// --- api config ---

func TestLoadAPIConfig_Missing(t *testing.T) {
	cfg, err := LoadAPIConfig(filepath.Join(t.TempDir(), "api_config.json"))
	require.NoError(t, err)
	assert.Equal(t, APIConfig{}, cfg)
}

func TestLoadAPIConfig_PartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "api_config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"api_key":"sk-1"}`), 0o600))

	cfg, err := LoadAPIConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "sk-1", cfg.APIKey)
	assert.Zero(t, cfg.Temperature)
}

func TestLoadAPIConfig_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "api_config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{`), 0o600))

	_, err := LoadAPIConfig(path)
	assert.ErrorContains(t, err, "settings: parse api config")
}

func TestSaveAPIConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "api_config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"api_key":"old","temperature":0.9}`), 0o600))

	want := APIConfig{APIKey: "sk-new", Temperature: 0.3}
	require.NoError(t, SaveAPIConfig(path, want))

	got, err := LoadAPIConfig(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"api_key": "sk-new"`)
	assert.Contains(t, string(data), `"temperature": 0.3`)
}

// --- session file ---

func TestExportImportINI_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "session.ini")

	want := Session{
		PromptFile:  "/data/prompt.txt",
		TextFiles:   []string{"/data/a.txt", "/data/b c.txt", "/data/#3.txt"},
		OutputDir:   "/data/out",
		APIKey:      "sk-ant-123",
		Provider:    "openai",
		BaseURL:     "http://localhost:8080",
		Model:       "gpt-4o-mini",
		MaxTokens:   2048,
		Temperature: 0.7,
	}
	require.NoError(t, ExportSession(path, want))

	got, err := ImportSession(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[Paths]")
	assert.Contains(t, string(data), "[API]")
	assert.Contains(t, string(data), "/data/a.txt;/data/b c.txt;/data/#3.txt")
}

func TestImportINI_ConfigParserFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.ini")
	content := "[Paths]\n" +
		"prompt_file = prompt.txt\n" +
		"text_files = a.txt;b.txt\n" +
		"output_dir = out\n" +
		"\n" +
		"[API]\n" +
		"api_key = sk-xyz\n" +
		"model = claude-3-opus-20240229\n" +
		"max_tokens = 4096\n" +
		"temperature = 0.0\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	got, err := ImportSession(path)
	require.NoError(t, err)
	assert.Equal(t, "prompt.txt", got.PromptFile)
	assert.Equal(t, []string{"a.txt", "b.txt"}, got.TextFiles)
	assert.Equal(t, "out", got.OutputDir)
	assert.Equal(t, "sk-xyz", got.APIKey)
	assert.Equal(t, "claude-3-opus-20240229", got.Model)
	assert.Equal(t, 4096, got.MaxTokens)
	assert.Zero(t, got.Temperature)
	assert.Equal(t, "anthropic", got.Provider)
}

func TestImportINI_Defaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.ini")
	require.NoError(t, os.WriteFile(path, []byte("[Paths]\nprompt_file = p.txt\n"), 0o600))

	got, err := ImportSession(path)
	require.NoError(t, err)
	assert.Equal(t, "p.txt", got.PromptFile)
	assert.Empty(t, got.TextFiles)
	assert.Equal(t, DefaultModel, got.Model)
	assert.Equal(t, DefaultMaxTokens, got.MaxTokens)
	assert.Equal(t, DefaultProvider, got.Provider)
	assert.Zero(t, got.Temperature)
	assert.Empty(t, got.APIKey)
}

func TestImportINI_BadNumber(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.ini")
	require.NoError(t, os.WriteFile(path, []byte("[API]\nmax_tokens = lots\n"), 0o600))

	_, err := ImportSession(path)
	assert.ErrorContains(t, err, "max_tokens")
}

func TestImportSession_Missing(t *testing.T) {
	_, err := ImportSession(filepath.Join(t.TempDir(), "nope.ini"))
	assert.ErrorContains(t, err, "settings: import session")
}

func TestExportImportYAML_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yaml")

	want := Session{
		PromptFile:  "p.txt",
		TextFiles:   []string{"a.txt", "b;c.txt"},
		OutputDir:   "out",
		APIKey:      "k",
		Provider:    "gemini",
		Model:       "gemini-2.0-flash",
		MaxTokens:   100,
		Temperature: 1,
	}
	require.NoError(t, ExportSession(path, want))

	got, err := ImportSession(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestImportYAML_Defaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yml")
	require.NoError(t, os.WriteFile(path, []byte("prompt_file: p.txt\n"), 0o600))

	got, err := ImportSession(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, got.Model)
	assert.Equal(t, DefaultMaxTokens, got.MaxTokens)
}

func TestSplitTextFiles(t *testing.T) {
	assert.Nil(t, SplitTextFiles(""))
	assert.Equal(t, []string{"a", "b"}, SplitTextFiles(" a ; ;b;"))
}

// --- session ---

func TestApplyImport_KeepsExistingKey(t *testing.T) {
	s := DefaultSession()
	s.APIKey = "current"

	s.ApplyImport(Session{PromptFile: "p", APIKey: "imported", Model: "m", MaxTokens: 1})

	assert.Equal(t, "current", s.APIKey)
	assert.Equal(t, "p", s.PromptFile)
	assert.Equal(t, "m", s.Model)
	assert.Equal(t, 1, s.MaxTokens)
}

func TestApplyImport_TakesKeyWhenEmpty(t *testing.T) {
	var s Session

	s.ApplyImport(Session{APIKey: "imported"})
	assert.Equal(t, "imported", s.APIKey)
}

func TestApplyImport_CopiesTextFiles(t *testing.T) {
	imported := Session{TextFiles: []string{"a"}}

	var s Session
	s.ApplyImport(imported)
	imported.TextFiles[0] = "changed"

	assert.Equal(t, []string{"a"}, s.TextFiles)
}

func TestAPIConfigConversion(t *testing.T) {
	s := DefaultSession()
	s.ApplyAPIConfig(APIConfig{APIKey: "k", Temperature: 0.4})

	assert.Equal(t, "k", s.APIKey)
	assert.InDelta(t, 0.4, s.Temperature, 1e-9)
	assert.Equal(t, APIConfig{APIKey: "k", Temperature: 0.4}, s.APIConfig())
}

func TestKnownProvider(t *testing.T) {
	assert.True(t, KnownProvider("anthropic"))
	assert.True(t, KnownProvider("gemini"))
	assert.True(t, KnownProvider("grok"))
	assert.False(t, KnownProvider("mistral"))
}

// --- validation ---

func TestValidate_OK(t *testing.T) {
	assert.NoError(t, validSession(t).Validate())
}

func TestValidate_EmptyKeyAllowed(t *testing.T) {
	s := validSession(t)
	s.APIKey = ""
	assert.NoError(t, s.Validate())
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Session)
		field  string
	}{
		{name: "no prompt", mutate: func(s *Session) { s.PromptFile = "" }, field: "prompt_file"},
		{name: "missing prompt", mutate: func(s *Session) { s.PromptFile += ".gone" }, field: "prompt_file"},
		{name: "prompt is dir", mutate: func(s *Session) { s.PromptFile = s.OutputDir }, field: "prompt_file"},
		{name: "no inputs", mutate: func(s *Session) { s.TextFiles = nil }, field: "text_files"},
		{name: "missing input", mutate: func(s *Session) { s.TextFiles = append(s.TextFiles, "/no/such/file.txt") }, field: "text_files"},
		{name: "no output dir", mutate: func(s *Session) { s.OutputDir = "" }, field: "output_dir"},
		{name: "missing output dir", mutate: func(s *Session) { s.OutputDir = filepath.Join(s.OutputDir, "nope") }, field: "output_dir"},
		{name: "output is file", mutate: func(s *Session) { s.OutputDir = s.PromptFile }, field: "output_dir"},
		{name: "unknown provider", mutate: func(s *Session) { s.Provider = "mistral" }, field: "provider"},
		{name: "no model", mutate: func(s *Session) { s.Model = "" }, field: "model"},
		{name: "zero tokens", mutate: func(s *Session) { s.MaxTokens = 0 }, field: "max_tokens"},
		{name: "temperature high", mutate: func(s *Session) { s.Temperature = 1.5 }, field: "temperature"},
		{name: "temperature negative", mutate: func(s *Session) { s.Temperature = -0.1 }, field: "temperature"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSession(t)
			tt.mutate(&s)

			var ve *ValidationError
			require.ErrorAs(t, s.Validate(), &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestValidationError_Message(t *testing.T) {
	err := ValidateJob("/no/such/prompt.txt", []string{"a"}, "out")
	assert.EqualError(t, err, `settings: prompt_file "/no/such/prompt.txt": does not exist`)

	err = (&ValidationError{Field: "model", Reason: "is required"})
	assert.EqualError(t, err, "settings: model: is required")
}
