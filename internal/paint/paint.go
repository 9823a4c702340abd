// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/paint/paint.go
// Summary: Draws render-cache windows onto a tcell screen.
// Usage: Called once per frame after Sync; only windows flagged for redraw
// are touched, and each is marked painted afterwards.
// Notes: Text is clipped by display cell width, so wide runes never spill
// into a neighbouring window.

package paint

import (
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/framegrace/texelmud/client"
	"github.com/framegrace/texelmud/window"
)

// Theme holds the style used for each window kind.
type Theme struct {
	Text      tcell.Style
	Status    tcell.Style
	Command   tcell.Style
	Progress  tcell.Style
	Filled    tcell.Style
	Indicator tcell.Style
	Compass   tcell.Style
}

// DefaultTheme uses the terminal's own palette.
func DefaultTheme() Theme {
	base := tcell.StyleDefault
	return Theme{
		Text:      base,
		Status:    base.Reverse(true),
		Command:   base.Bold(true),
		Progress:  base,
		Filled:    base.Reverse(true),
		Indicator: base.Bold(true),
		Compass:   base.Bold(true),
	}
}

func (t Theme) style(k window.Kind) tcell.Style {
	switch k {
	case window.KindStatus:
		return t.Status
	case window.KindCommand:
		return t.Command
	case window.KindProgress:
		return t.Progress
	case window.KindIndicator:
		return t.Indicator
	case window.KindCompass:
		return t.Compass
	}
	return t.Text
}

// Painter draws windows onto a screen.
type Painter struct {
	screen tcell.Screen
	theme  Theme
}

// New creates a painter for screen.
func New(screen tcell.Screen, theme Theme) *Painter {
	return &Painter{screen: screen, theme: theme}
}

// Paint redraws every dirty window and returns how many were drawn. It does
// not call Show.
func (p *Painter) Paint(cache *client.RenderCache) int {
	painted := 0
	for _, w := range cache.LayoutWindows() {
		if !w.NeedsRedraw() {
			continue
		}
		p.Window(w)
		w.MarkPainted()
		painted++
	}
	return painted
}

// Window draws one window regardless of its redraw flag.
func (p *Painter) Window(w *client.WindowState) {
	r := w.Rect
	style := p.theme.style(w.Kind)
	p.fill(r, style)
	if r.Empty() {
		return
	}
	rows := w.Rows()
	switch w.Kind {
	case window.KindCommand:
		p.drawCommand(r, rows, style)
	case window.KindProgress:
		p.drawProgress(r, rows, style)
	case window.KindCompass, window.KindIndicator:
		p.drawCentered(r, rows, style)
	default:
		p.drawTail(r, rows, style)
	}
}

func (p *Painter) fill(r window.Instance, style tcell.Style) {
	for y := r.Row; y < r.Bottom(); y++ {
		for x := r.Col; x < r.Right(); x++ {
			p.screen.SetContent(x, y, ' ', nil, style)
		}
	}
}

// drawTail shows the newest lines, newest at the bottom.
func (p *Painter) drawTail(r window.Instance, rows []string, style tcell.Style) {
	if len(rows) > r.Rows {
		rows = rows[len(rows)-r.Rows:]
	}
	y := r.Bottom() - len(rows)
	for _, row := range rows {
		p.text(r.Col, y, r.Cols, row, style)
		y++
	}
}

// drawCommand pins the newest line to the first row, leaving the rest blank
// for input echo.
func (p *Painter) drawCommand(r window.Instance, rows []string, style tcell.Style) {
	if len(rows) == 0 {
		return
	}
	p.text(r.Col, r.Row, r.Cols, rows[len(rows)-1], style)
}

// drawProgress renders the newest line over a bar filled to the first
// "cur/max" ratio it contains.
func (p *Painter) drawProgress(r window.Instance, rows []string, style tcell.Style) {
	if len(rows) == 0 {
		return
	}
	line := rows[len(rows)-1]
	filled := 0
	if cur, max, ok := Ratio(line); ok && max > 0 {
		filled = r.Cols * cur / max
		if filled > r.Cols {
			filled = r.Cols
		}
	}
	for x := r.Col; x < r.Col+filled; x++ {
		p.screen.SetContent(x, r.Row, ' ', nil, p.theme.Filled)
	}
	col := r.Col
	for _, ch := range line {
		w := runewidth.RuneWidth(ch)
		if w == 0 {
			continue
		}
		if col+w > r.Right() {
			break
		}
		s := style
		if col < r.Col+filled {
			s = p.theme.Filled
		}
		p.screen.SetContent(col, r.Row, ch, nil, s)
		col += w
	}
}

// drawCentered puts the newest line in the middle of the window.
func (p *Painter) drawCentered(r window.Instance, rows []string, style tcell.Style) {
	if len(rows) == 0 {
		return
	}
	line := runewidth.Truncate(rows[len(rows)-1], r.Cols, "")
	x := r.Col + (r.Cols-runewidth.StringWidth(line))/2
	y := r.Row + (r.Rows-1)/2
	p.text(x, y, r.Right()-x, line, style)
}

// text writes s starting at (x, y), clipped to width cells. It returns the
// number of cells used.
func (p *Painter) text(x, y, width int, s string, style tcell.Style) int {
	used := 0
	for _, ch := range s {
		w := runewidth.RuneWidth(ch)
		if w == 0 {
			continue
		}
		if used+w > width {
			break
		}
		p.screen.SetContent(x+used, y, ch, nil, style)
		used += w
	}
	return used
}

// Ratio finds the first "cur/max" pair of non-negative integers in s.
func Ratio(s string) (cur, max int, ok bool) {
	for _, field := range strings.Fields(s) {
		num, den, found := strings.Cut(field, "/")
		if !found {
			continue
		}
		a, errA := strconv.Atoi(strings.TrimLeft(num, "([{"))
		b, errB := strconv.Atoi(strings.TrimRight(den, ")]},;"))
		if errA != nil || errB != nil || a < 0 || b < 0 {
			continue
		}
		return a, b, true
	}
	return 0, 0, false
}
