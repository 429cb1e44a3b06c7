package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"
)

var version = "dev"

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	settingsPath string
	envFile      string
	verbose      bool
}

func newRootCmd() *cobra.Command {
	g := &globalOptions{}

	root := &cobra.Command{
		Use:   "anmd",
		Short: "Merge a prompt template with text files and write the model's replies as Markdown",
		Long: `anmd replaces every {{TEXT}} in a prompt template with the contents of each
input file, sends the merged document to an LLM, and writes the trimmed reply
to <output-dir>/<input-name>.md.

Without a subcommand anmd starts the interactive shell.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return loadDotEnv(g.envFile)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd, g, "")
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&g.settingsPath, "settings", "api_config.json", "path to the saved API key and temperature")
	pf.StringVar(&g.envFile, "env", ".env", "path to .env file (ignored if missing)")
	pf.BoolVarP(&g.verbose, "verbose", "v", false, "log debug details (temp files, token usage, timings)")

	root.AddCommand(
		newRunCmd(g),
		newTUICmd(g),
		newSettingsCmd(g),
		newSessionCmd(g),
		newMCPCmd(g),
	)

	return root
}

// logger returns a text logger on w, at debug level when --verbose is set.
func (g *globalOptions) logger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if g.verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
