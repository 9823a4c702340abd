// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/cli/transcript.go
// Summary: The transcript command: searches recorded sessions.

package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/framegrace/texelmud/config"
	"github.com/framegrace/texelmud/internal/transcript"
)

func (c *CLI) transcriptCommand() *cobra.Command {
	var (
		db string
		q  transcript.Query
	)
	cmd := &cobra.Command{
		Use:   "transcript [text...]",
		Short: "Search recorded session transcripts",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			path := db
			if path == "" {
				if cfg, err := c.settings(); err == nil {
					path = cfg.GetString("transcript", "path", "")
				}
			}
			if path == "" {
				var err error
				if path, err = config.TranscriptPath(); err != nil {
					return err
				}
			}
			q.Text = strings.Join(args, " ")
			entries, err := transcript.SearchFile(cmd.Context(), path, q)
			if err != nil {
				return fmt.Errorf("search %s: %w", path, err)
			}
			if len(entries) == 0 {
				printInfo(out, "no matches")
				return nil
			}
			// Newest first from the store; print oldest first like a log.
			for i := len(entries) - 1; i >= 0; i-- {
				e := entries[i]
				fmt.Fprintf(out, "%s %s %s\n",
					styleDim.Render(e.Timestamp.Format("2006-01-02 15:04:05")),
					styleTitle.Render(fmt.Sprintf("%-10s", e.Window)),
					e.Text)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&db, "db", "", "transcript database (default from settings)")
	cmd.Flags().StringVar(&q.Window, "window", "", "only lines shown in this window")
	cmd.Flags().StringVar(&q.Session, "session", "", "only lines from this session id")
	cmd.Flags().IntVarP(&q.Limit, "limit", "n", 50, "maximum number of lines")
	return cmd
}
