package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/germanamz/anmd/cmd/anmd/internal/format"
	"github.com/germanamz/anmd/cmd/anmd/internal/styles"
	"github.com/germanamz/anmd/pkg/batch"
	"github.com/germanamz/anmd/pkg/engine"
	"github.com/spf13/cobra"
)

type runOptions struct {
	sessionFlags

	preview bool
	diff    bool
}

func newRunCmd(g *globalOptions) *cobra.Command {
	o := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Process a batch of text files without the interactive shell",
		Long: `Process a batch of text files without the interactive shell.

Fields are taken from flags first, then the session file, then the saved
settings. The API key falls back to ANTHROPIC_API_KEY, OPENAI_API_KEY,
GEMINI_API_KEY or XAI_API_KEY depending on the provider.

Examples:
  anmd run -p prompt.txt -i notes.txt -o out
  anmd run -s session.ini --provider openai --preview`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBatch(cmd, g, o)
		},
	}

	o.bind(cmd.Flags())
	cmd.Flags().BoolVar(&o.preview, "preview", false, "render each written file as Markdown")
	cmd.Flags().BoolVar(&o.diff, "diff", false, "show a diff when an existing output is overwritten")

	return cmd
}

func runBatch(cmd *cobra.Command, g *globalOptions, o *runOptions) error {
	s, err := o.resolve(cmd.Flags(), g.settingsPath)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	logger := g.logger(cmd.ErrOrStderr())

	cfg := engine.Config{Logger: logger}
	if o.diff {
		cfg.BeforeWrite = diffPrinter(out, logger)
	}

	res, err := engine.New(cfg).Run(cmd.Context(), s, lineReporter(out, o.preview))
	if err != nil {
		return err
	}

	if res.Usage.Total() > 0 {
		fmt.Fprintln(out, styles.StatusStyle.Render("Tokens: "+res.Usage.String()))
	}

	return nil
}

// lineReporter prints each event line to w. With preview set, written
// outputs are rendered below their line.
func lineReporter(w io.Writer, preview bool) batch.Reporter {
	return batch.ReporterFunc(func(e batch.Event) {
		fmt.Fprintln(w, format.EventStyle(e).Render(e.Line()))

		if !preview || e.Kind != batch.EventFileWritten {
			return
		}

		data, err := os.ReadFile(e.Output) //nolint:gosec // path was just written by the batch
		if err != nil {
			return
		}
		fmt.Fprintln(w, format.RenderMarkdown(string(data), 100))
	})
}

// diffPrinter prints a unified diff of an output about to be overwritten.
func diffPrinter(w io.Writer, logger *slog.Logger) func(path, old, new string) {
	return func(path, old, new string) {
		d, err := format.Diff(path, old, new)
		if err != nil {
			logger.Warn("diff failed", "path", path, "error", err)
			return
		}

		if d == "" {
			fmt.Fprintln(w, styles.DimStyle.Render(path+": unchanged"))
			return
		}

		fmt.Fprintln(w, format.ColorDiff(d))
	}
}
