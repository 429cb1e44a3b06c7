package main

import (
	"fmt"

	"github.com/germanamz/anmd/pkg/settings"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newSessionCmd(g *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Export or inspect session files",
	}

	cmd.AddCommand(newSessionExportCmd(g), newSessionShowCmd())

	return cmd
}

func newSessionExportCmd(g *globalOptions) *cobra.Command {
	f := &sessionFlags{}

	cmd := &cobra.Command{
		Use:   "export PATH",
		Short: "Write the effective session to PATH (.ini, or .yaml/.yml)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := f.resolve(cmd.Flags(), g.settingsPath)
			if err != nil {
				return err
			}

			if err := settings.ExportSession(args[0], s); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Session exported to %s\n", args[0])

			return nil
		},
	}

	f.bind(cmd.Flags())

	return cmd
}

func newSessionShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show PATH",
		Short: "Print a session file as YAML with the API key masked",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := settings.ImportSession(args[0])
			if err != nil {
				return err
			}

			s.APIKey = maskKey(s.APIKey)

			out, err := yaml.Marshal(s)
			if err != nil {
				return fmt.Errorf("session: show: %w", err)
			}

			_, err = cmd.OutOrStdout().Write(out)

			return err
		},
	}
}
