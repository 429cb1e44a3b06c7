// Package template merges a prompt template with the contents of an input
// text file. Every occurrence of Placeholder in the prompt is replaced with
// the full, unescaped text of the input.
package template

import (
	"fmt"
	"os"
	"strings"
)

// Placeholder is the token replaced by the input text.
const Placeholder = "{{TEXT}}"

// FileReadError is returned when the prompt or the input file cannot be read.
type FileReadError struct {
	Path string
	Err  error
}

func (e *FileReadError) Error() string {
	return fmt.Sprintf("template: read %s: %v", e.Path, e.Err)
}

func (e *FileReadError) Unwrap() error { return e.Err }

// Merge reads the prompt and text files and returns the merged document.
func Merge(promptPath, textPath string) (string, error) {
	prompt, err := readFile(promptPath)
	if err != nil {
		return "", err
	}

	text, err := readFile(textPath)
	if err != nil {
		return "", err
	}

	return MergeText(prompt, text), nil
}

// MergeText replaces every Placeholder in prompt with text. A prompt without
// the placeholder is returned unchanged.
func MergeText(prompt, text string) string {
	return strings.ReplaceAll(prompt, Placeholder, text)
}

// Contains reports whether prompt has at least one placeholder.
func Contains(prompt string) bool {
	return strings.Contains(prompt, Placeholder)
}

func readFile(path string) (string, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is user-selected input
	if err != nil {
		return "", &FileReadError{Path: path, Err: err}
	}

	return string(data), nil
}
