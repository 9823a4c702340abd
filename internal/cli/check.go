// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/cli/check.go
// Summary: The check command: validates layout files and the settings file.

package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/framegrace/texelmud/config"
)

func (c *CLI) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check [layout...]",
		Short: "Validate layout files",
		Long: `Validate layout files (TOML, YAML or JSON).

Without arguments the settings file and the layout it names are checked.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				cfg, err := c.settings()
				if err != nil {
					printError(out, "settings: %v", err)
					return err
				}
				printSuccess(out, "settings ok")
				args = []string{cfg.GetString("client", "layout", config.DefaultLayoutName)}
			}
			failed := 0
			for _, ref := range args {
				lf, err := config.ResolveLayout(ref)
				if err == nil {
					_, err = lf.Registry()
				}
				if err != nil {
					failed++
					printError(out, "%s", ref)
					for _, e := range flatten(err) {
						printDetail(out, "%v", e)
					}
					continue
				}
				printSuccess(out, "%s: %d windows, baseline %dx%d", ref, len(lf.Windows), lf.Width, lf.Height)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d layouts invalid", failed, len(args))
			}
			return nil
		},
	}
}

// flatten expands an errors.Join tree into its leaves.
func flatten(err error) []error {
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		var out []error
		for _, e := range joined.Unwrap() {
			out = append(out, flatten(e)...)
		}
		return out
	}
	return []error{err}
}
