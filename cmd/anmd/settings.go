package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/germanamz/anmd/cmd/anmd/internal/styles"
	"github.com/germanamz/anmd/pkg/settings"
	"github.com/spf13/cobra"
)

func newSettingsCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "settings",
		Short: "Edit the saved API key and temperature",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := settings.LoadAPIConfig(g.settingsPath)
			if err != nil {
				return err
			}

			temp := strconv.FormatFloat(cfg.Temperature, 'f', -1, 64)

			form := huh.NewForm(huh.NewGroup(
				huh.NewInput().
					Title("API key").
					EchoMode(huh.EchoModePassword).
					Value(&cfg.APIKey),
				huh.NewInput().
					Title("Temperature (0 to 1)").
					Value(&temp).
					Validate(validateTemperature),
			))
			if err := form.Run(); err != nil {
				return err
			}

			cfg.Temperature, _ = strconv.ParseFloat(temp, 64) // validated by the form
			if err := settings.SaveAPIConfig(g.settingsPath, cfg); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), styles.StatusStyle.Render("Settings saved to "+g.settingsPath))

			return nil
		},
	}
}

func validateTemperature(s string) error {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return errors.New("must be a number")
	}
	if v < 0 || v > 1 {
		return errors.New("must be between 0 and 1")
	}
	return nil
}
