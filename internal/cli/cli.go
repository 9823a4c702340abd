// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/cli/cli.go
// Summary: Root command and shared state for the texelmud CLI.
// Usage: cmd/texelmud builds a CLI, adjusts the log level from --verbose and
// executes RootCommand.

package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/framegrace/texelmud/config"
	"github.com/framegrace/texelmud/internal/buildinfo"
	"github.com/framegrace/texelmud/internal/logging"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	verbose    bool
}

// New creates a CLI logging to w at level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: logging.New(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "texelmud",
		Short:         "texelmud is a terminal MUD client with adaptive window layouts",
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(logging.WithLogger(cmd.Context(), c.Logger))
		},
	}
	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "settings file (default: user config dir)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.runCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.transcriptCommand())
	return root
}

// settings loads the settings file named by --config or the default one.
func (c *CLI) settings() (config.Config, error) {
	if c.configPath != "" {
		return config.Load(c.configPath)
	}
	return config.LoadDefault()
}
