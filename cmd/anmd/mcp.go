package main

import (
	"os"

	"github.com/germanamz/anmd/pkg/engine"
	"github.com/germanamz/anmd/pkg/tools/mcpserver"
	"github.com/spf13/cobra"
)

func newMCPCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve merge_template and process_batch as MCP tools over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			base, err := baseSession(g.settingsPath)
			if err != nil {
				return err
			}

			// stdout carries the protocol; logs go to stderr.
			logger := g.logger(os.Stderr)
			eng := engine.New(engine.Config{Logger: logger})

			srv := mcpserver.New("anmd", version, eng.Logger())
			srv.Register(eng.Tools(base))

			return srv.Serve(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}
