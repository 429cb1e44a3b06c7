package main

import (
	"io"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/germanamz/anmd/cmd/anmd/internal/app"
	"github.com/germanamz/anmd/cmd/anmd/internal/msgs"
	"github.com/germanamz/anmd/pkg/engine"
	"github.com/germanamz/anmd/pkg/settings"
	"github.com/spf13/cobra"
)

const debugLogFile = "anmd-debug.log"

func newTUICmd(g *globalOptions) *cobra.Command {
	var sessionPath string

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Start the interactive shell (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd, g, sessionPath)
		},
	}

	cmd.Flags().StringVarP(&sessionPath, "session", "s", "", "session file to load at startup")

	return cmd
}

func runTUI(cmd *cobra.Command, g *globalOptions, sessionPath string) error {
	s, err := baseSession(g.settingsPath)
	if err != nil {
		return err
	}

	if sessionPath != "" {
		imported, err := settings.ImportSession(sessionPath)
		if err != nil {
			return err
		}
		s.ApplyImport(imported)
	}

	// The terminal belongs to the UI, so logs only go to a file when asked for.
	var logw io.Writer = io.Discard
	if g.verbose {
		f, err := tea.LogToFile(debugLogFile, "anmd")
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		logw = f
	}
	logger := g.logger(logw)
	slog.SetDefault(logger)

	eng := engine.New(engine.Config{Logger: logger})

	model := app.New(app.Config{
		Ctx:          cmd.Context(),
		Engine:       eng,
		Session:      s,
		SettingsPath: g.settingsPath,
		SessionPath:  sessionPath,
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))

	// Send the program reference so batch workers can reach the event loop.
	go func() {
		p.Send(msgs.ProgramReadyMsg{Program: p})
	}()

	_, err = p.Run()
	return err
}
