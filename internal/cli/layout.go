// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/cli/layout.go
// Summary: The layout command: previews how a layout scales to a terminal size.

package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/framegrace/texelmud/config"
	"github.com/framegrace/texelmud/layout"
	"github.com/framegrace/texelmud/window"
)

func (c *CLI) layoutCommand() *cobra.Command {
	var width, height int
	cmd := &cobra.Command{
		Use:   "layout [name|file]",
		Short: "Show the window rectangles a layout produces for a terminal size",
		Long: `Show the window rectangles a layout produces for a terminal size.

The size defaults to the current terminal, or the layout's baseline when
stdout is not a terminal.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := ""
			if len(args) == 1 {
				ref = args[0]
			} else if cfg, err := c.settings(); err == nil {
				ref = cfg.GetString("client", "layout", config.DefaultLayoutName)
			}
			lf, err := config.ResolveLayout(ref)
			if err != nil {
				return err
			}
			reg, err := lf.Registry()
			if err != nil {
				return err
			}
			w, h := targetSize(reg, width, height)
			res := layout.Compute(reg, w, h)
			c.Logger.Debug("computed layout", "width", w, "height", h, "gaps", len(res.Report.Gaps))
			renderLayout(cmd.OutOrStdout(), reg, res)
			return nil
		},
	}
	cmd.Flags().IntVar(&width, "width", 0, "terminal columns")
	cmd.Flags().IntVar(&height, "height", 0, "terminal rows")
	return cmd
}

// targetSize fills unset dimensions from the terminal, then the baseline.
func targetSize(reg *window.Registry, width, height int) (int, int) {
	if width > 0 && height > 0 {
		return width, height
	}
	baseW, baseH := reg.Size()
	termW, termH, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		termW, termH = baseW, baseH
	}
	if width <= 0 {
		width = termW
	}
	if height <= 0 {
		height = termH
	}
	return width, height
}

func renderLayout(out io.Writer, reg *window.Registry, res layout.Result) {
	baseW, baseH := reg.Size()
	fmt.Fprintln(out, styleTitle.Render(fmt.Sprintf("%dx%d → %dx%d", baseW, baseH, res.Report.Width, res.Report.Height)))

	rows := make([][]string, 0, reg.Len())
	changed := make([]bool, 0, reg.Len())
	for i, spec := range reg.Specs() {
		inst := res.Instances[i]
		rows = append(rows, []string{
			spec.Name,
			spec.Kind.String(),
			spec.Scaling.String(),
			spec.Baseline().String(),
			inst.String(),
		})
		changed = append(changed, inst != spec.Baseline())
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Window", "Kind", "Scaling", "Baseline", "Computed").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			if col == 4 && row >= 0 && row < len(changed) && changed[row] {
				return base.Inherit(styleChanged)
			}
			return base
		})
	fmt.Fprintln(out, t.Render())

	for _, g := range res.Report.Gaps {
		printWarning(out, "%s slice at %d could not place %d", g.Axis, g.Slice, g.Amount)
	}
}
