// Package batch runs a prompt template over a list of input files, sends
// each merged document to a completion client, and writes the trimmed
// replies as Markdown files.
//
// A run validates every path up front, then processes inputs strictly in
// order. The first failure is reported once and aborts the rest of the run;
// outputs already written stay on disk. Progress is delivered to a
// [Reporter] on the calling goroutine.
package batch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/germanamz/anmd/pkg/modeladapter"
	"github.com/germanamz/anmd/pkg/settings"
	"github.com/germanamz/anmd/pkg/template"
)

const (
	mergedFileName = "merged_content.txt"
	rawFileName    = "raw_output.json"
)

// Job names the files of one run.
type Job struct {
	PromptPath string
	InputPaths []string
	OutputDir  string
}

// JobFromSession extracts the paths of s.
func JobFromSession(s settings.Session) Job {
	return Job{
		PromptPath: s.PromptFile,
		InputPaths: s.TextFiles,
		OutputDir:  s.OutputDir,
	}
}

// Summary describes what a run did.
type Summary struct {
	Written []string // output paths, in input order
	Empty   []string // inputs whose reply was empty after trimming
	Aborted bool     // true when a failure stopped the run
}

// Processor runs jobs against a Completer.
type Processor struct {
	Completer modeladapter.Completer
	Reporter  Reporter     // nil discards events
	Logger    *slog.Logger // nil uses slog.Default()
	TempDir   string       // parent of per-file scratch dirs; "" uses os.TempDir()

	// BeforeWrite, when set, is called before an existing output is
	// overwritten, with the old and new contents.
	BeforeWrite func(path, old, new string)
}

// OutputPath returns the output file for input: the input's base name
// without its extension, plus ".md", inside outputDir. Leading dots are part
// of the name, so ".notes" maps to ".notes.md".
func OutputPath(outputDir, input string) string {
	base := filepath.Base(input)
	if ext := filepath.Ext(base); strings.TrimLeft(strings.TrimSuffix(base, ext), ".") != "" {
		base = strings.TrimSuffix(base, ext)
	}

	return filepath.Join(outputDir, base+".md")
}

// Run validates job and processes its inputs in order. Validation failures
// return a *settings.ValidationError before any event is reported or any
// file is touched.
func (p *Processor) Run(ctx context.Context, job Job) (Summary, error) {
	if err := settings.ValidateJob(job.PromptPath, job.InputPaths, job.OutputDir); err != nil {
		return Summary{}, err
	}

	if p.Completer == nil {
		return Summary{}, errors.New("batch: run: no completer configured")
	}

	log := p.logger()
	start := time.Now()

	if prompt, err := os.ReadFile(job.PromptPath); err == nil && !template.Contains(string(prompt)) { //nolint:gosec // validated prompt path
		log.Debug("prompt has no placeholder; inputs will not be inserted", "prompt", job.PromptPath, "placeholder", template.Placeholder)
	}

	p.report(Event{Kind: EventStarted})

	var sum Summary
	for _, input := range job.InputPaths {
		p.report(Event{Kind: EventFileStart, File: input})

		out, err := p.processFile(ctx, job.PromptPath, input, job.OutputDir)
		if err != nil {
			sum.Aborted = true
			p.report(Event{Kind: EventError, File: input, Err: err})
			log.Debug("batch aborted", "file", input, "written", len(sum.Written), "elapsed", time.Since(start))

			return sum, fmt.Errorf("batch: %s: %w", input, err)
		}

		if out == "" {
			sum.Empty = append(sum.Empty, input)
			p.report(Event{Kind: EventNoContent, File: input})

			continue
		}

		sum.Written = append(sum.Written, out)
		p.report(Event{Kind: EventFileWritten, File: input, Output: out})
	}

	p.report(Event{Kind: EventFinished})
	log.Debug("batch finished", "written", len(sum.Written), "empty", len(sum.Empty), "elapsed", time.Since(start))

	return sum, nil
}

// processFile handles one input and returns the written output path, or ""
// when the reply was empty. Its scratch directory is removed on every path
// out of the function.
func (p *Processor) processFile(ctx context.Context, promptPath, input, outputDir string) (string, error) {
	log := p.logger()

	merged, err := template.Merge(promptPath, input)
	if err != nil {
		return "", err
	}

	scratch, err := os.MkdirTemp(p.TempDir, "anmd-*")
	if err != nil {
		return "", fmt.Errorf("create scratch dir: %w", err)
	}
	defer func() {
		if rmErr := os.RemoveAll(scratch); rmErr != nil {
			log.Warn("remove scratch dir", "dir", scratch, "error", rmErr)
		}
	}()

	mergedPath := filepath.Join(scratch, mergedFileName)
	if err := os.WriteFile(mergedPath, []byte(merged), 0o600); err != nil {
		return "", fmt.Errorf("write merged text: %w", err)
	}
	log.Debug("merged text written", "file", input, "path", mergedPath, "bytes", len(merged))

	prompt, err := os.ReadFile(mergedPath) //nolint:gosec // path is our own scratch file
	if err != nil {
		return "", fmt.Errorf("read merged text: %w", err)
	}

	callStart := time.Now()
	reply, err := p.Completer.Complete(ctx, string(prompt))
	if err != nil {
		return "", err
	}
	p.logUsage(input, time.Since(callStart))

	rawPath := filepath.Join(scratch, rawFileName)
	if err := writeRaw(rawPath, reply); err != nil {
		log.Debug("write raw reply", "path", rawPath, "error", err)
	}

	content := strings.TrimSpace(reply)
	if content == "" {
		return "", nil
	}

	out := OutputPath(outputDir, input)
	if p.BeforeWrite != nil {
		if old, err := os.ReadFile(out); err == nil { //nolint:gosec // output path derives from validated dir
			p.BeforeWrite(out, string(old), content)
		}
	}

	if err := os.WriteFile(out, []byte(content), 0o644); err != nil { //nolint:gosec // outputs are user documents
		return "", fmt.Errorf("write output: %w", err)
	}

	return out, nil
}

func writeRaw(path, reply string) error {
	raw, err := json.Marshal(map[string]string{"text": reply})
	if err != nil {
		return err
	}

	return os.WriteFile(path, raw, 0o600)
}

func (p *Processor) logUsage(input string, elapsed time.Duration) {
	attrs := []any{"file", input, "elapsed", elapsed}

	if ur, ok := p.Completer.(modeladapter.UsageReporter); ok {
		if last, ok := ur.UsageTracker().Last(); ok {
			attrs = append(attrs, "input_tokens", last.InputTokens, "output_tokens", last.OutputTokens)
		}
	}

	p.logger().Debug("completion received", attrs...)
}

func (p *Processor) report(e Event) {
	if p.Reporter == nil {
		return
	}

	e.Time = time.Now()
	p.Reporter.Report(e)
}

func (p *Processor) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}

	return slog.Default()
}
