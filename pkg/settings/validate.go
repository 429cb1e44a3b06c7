package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// ValidationError names the first field that keeps a session from running.
type ValidationError struct {
	Field  string // e.g. "prompt_file", "text_files", "max_tokens"
	Path   string // offending path, empty for non-path fields
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("settings: %s %q: %s", e.Field, e.Path, e.Reason)
	}

	return fmt.Sprintf("settings: %s: %s", e.Field, e.Reason)
}

// ValidateJob checks that the prompt and every input are existing files and
// that outputDir is an existing directory. It stops at the first problem.
func ValidateJob(promptPath string, inputs []string, outputDir string) error {
	if err := requireFile("prompt_file", promptPath); err != nil {
		return err
	}

	if len(inputs) == 0 {
		return &ValidationError{Field: "text_files", Reason: "at least one input file is required"}
	}

	for _, in := range inputs {
		if err := requireFile("text_files", in); err != nil {
			return err
		}
	}

	if outputDir == "" {
		return &ValidationError{Field: "output_dir", Reason: "is required"}
	}

	info, err := os.Stat(outputDir)
	if err != nil {
		return &ValidationError{Field: "output_dir", Path: outputDir, Reason: statReason(err)}
	}
	if !info.IsDir() {
		return &ValidationError{Field: "output_dir", Path: outputDir, Reason: "is not a directory"}
	}

	return nil
}

// Validate checks the paths with ValidateJob, then the completion
// parameters. The API key is not checked here; an empty key fails the first
// completion call.
func (s Session) Validate() error {
	if err := ValidateJob(s.PromptFile, s.TextFiles, s.OutputDir); err != nil {
		return err
	}

	switch {
	case !KnownProvider(s.Provider):
		return &ValidationError{Field: "provider", Reason: fmt.Sprintf("unknown provider %q", s.Provider)}
	case s.Model == "":
		return &ValidationError{Field: "model", Reason: "is required"}
	case s.MaxTokens <= 0:
		return &ValidationError{Field: "max_tokens", Reason: "must be greater than zero"}
	case s.Temperature < 0 || s.Temperature > 1:
		return &ValidationError{Field: "temperature", Reason: "must be between 0 and 1"}
	}

	return nil
}

func requireFile(field, path string) error {
	if path == "" {
		return &ValidationError{Field: field, Reason: "is required"}
	}

	info, err := os.Stat(path)
	if err != nil {
		return &ValidationError{Field: field, Path: path, Reason: statReason(err)}
	}
	if info.IsDir() {
		return &ValidationError{Field: field, Path: path, Reason: "is a directory"}
	}

	return nil
}

func statReason(err error) string {
	if errors.Is(err, fs.ErrNotExist) {
		return "does not exist"
	}

	return err.Error()
}
