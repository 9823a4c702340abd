// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package paint

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/framegrace/texelmud/client"
	"github.com/framegrace/texelmud/content"
	"github.com/framegrace/texelmud/window"
)

type fixture struct {
	reg    *window.Registry
	store  *content.Store
	cache  *client.RenderCache
	sync   *client.Synchronizer
	screen tcell.SimulationScreen
}

func newFixture(t *testing.T, specs ...window.Spec) *fixture {
	t.Helper()
	reg, err := window.NewRegistry(0, 0, specs)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("init screen: %v", err)
	}
	t.Cleanup(screen.Fini)
	w, h := reg.Size()
	screen.SetSize(w, h)
	return &fixture{
		reg:    reg,
		store:  content.NewStore(100),
		cache:  client.NewRenderCache(reg),
		sync:   client.NewSynchronizer(reg),
		screen: screen,
	}
}

func (f *fixture) add(name string, texts ...string) {
	buf := f.store.Ensure(name, 0)
	for _, s := range texts {
		buf.Append(content.Line{Text: s})
	}
}

func readScreenLine(screen tcell.Screen, x, y, width int) string {
	runes := make([]rune, 0, width)
	for i := 0; i < width; i++ {
		ch, _, _, _ := screen.GetContent(x+i, y)
		if ch == 0 {
			ch = ' '
		}
		runes = append(runes, ch)
	}
	return strings.TrimRight(string(runes), " ")
}

func TestPaintTextShowsNewestAtBottom(t *testing.T) {
	f := newFixture(t, window.Spec{Name: "main", Rows: 3, Cols: 8})
	f.add("main", "one", "two", "three", "four")
	f.sync.Sync(f.reg, f.store, f.cache)

	p := New(f.screen, DefaultTheme())
	if n := p.Paint(f.cache); n != 1 {
		t.Fatalf("expected 1 painted window, got %d", n)
	}
	want := []string{"two", "three", "four"}
	for y, w := range want {
		if got := readScreenLine(f.screen, 0, y, 8); got != w {
			t.Fatalf("row %d: got %q want %q", y, got, w)
		}
	}
}

func TestPaintBottomAlignsShortContent(t *testing.T) {
	f := newFixture(t, window.Spec{Name: "main", Rows: 3, Cols: 8})
	f.add("main", "only")
	f.sync.Sync(f.reg, f.store, f.cache)
	New(f.screen, DefaultTheme()).Paint(f.cache)

	if got := readScreenLine(f.screen, 0, 0, 8); got != "" {
		t.Fatalf("expected blank top row, got %q", got)
	}
	if got := readScreenLine(f.screen, 0, 2, 8); got != "only" {
		t.Fatalf("expected content on bottom row, got %q", got)
	}
}

func TestPaintSkipsCleanWindows(t *testing.T) {
	f := newFixture(t,
		window.Spec{Name: "a", Rows: 1, Cols: 5},
		window.Spec{Name: "b", Row: 1, Rows: 1, Cols: 5},
	)
	f.add("a", "x")
	f.add("b", "y")
	f.sync.Sync(f.reg, f.store, f.cache)
	p := New(f.screen, DefaultTheme())
	if n := p.Paint(f.cache); n != 2 {
		t.Fatalf("first paint: got %d", n)
	}
	if n := p.Paint(f.cache); n != 0 {
		t.Fatalf("clean frame repainted %d windows", n)
	}
	f.add("b", "z")
	f.sync.Sync(f.reg, f.store, f.cache)
	if n := p.Paint(f.cache); n != 1 {
		t.Fatalf("expected only the changed window, got %d", n)
	}
	if got := readScreenLine(f.screen, 0, 1, 5); got != "z" {
		t.Fatalf("row 1: got %q", got)
	}
}

func TestPaintClipsToWindowWidth(t *testing.T) {
	f := newFixture(t,
		window.Spec{Name: "left", Rows: 1, Cols: 3},
		window.Spec{Name: "right", Col: 3, Rows: 1, Cols: 3},
	)
	f.add("left", "日本語")
	f.add("right", "abc")
	f.sync.Sync(f.reg, f.store, f.cache)
	New(f.screen, DefaultTheme()).Paint(f.cache)

	ch, _, _, _ := f.screen.GetContent(0, 0)
	if ch != '日' {
		t.Fatalf("expected first wide rune, got %q", ch)
	}
	ch, _, _, _ = f.screen.GetContent(3, 0)
	if ch != 'a' {
		t.Fatalf("wide rune spilled into neighbour: %q", ch)
	}
}

func TestPaintCommandAndCompass(t *testing.T) {
	f := newFixture(t,
		window.Spec{Name: "prompt", Kind: window.KindCommand, Rows: 2, Cols: 10},
		window.Spec{Name: "compass", Kind: window.KindCompass, Row: 2, Rows: 3, Cols: 10},
	)
	f.add("prompt", "old>", "new>")
	f.add("compass", "N S")
	f.sync.Sync(f.reg, f.store, f.cache)
	theme := DefaultTheme()
	New(f.screen, theme).Paint(f.cache)

	if got := readScreenLine(f.screen, 0, 0, 10); got != "new>" {
		t.Fatalf("prompt row: got %q", got)
	}
	_, _, style, _ := f.screen.GetContent(0, 0)
	if style != theme.Command {
		t.Fatalf("prompt style not applied")
	}
	// "N S" is 3 wide in 10 columns: starts at column 3 on the middle row.
	if got := readScreenLine(f.screen, 0, 3, 10); got != "   N S" {
		t.Fatalf("compass row: got %q", got)
	}
}

func TestPaintProgressFillsRatio(t *testing.T) {
	f := newFixture(t, window.Spec{Name: "vitals", Kind: window.KindProgress, Rows: 1, Cols: 10})
	f.add("vitals", "HP 5/10")
	f.sync.Sync(f.reg, f.store, f.cache)
	theme := DefaultTheme()
	New(f.screen, theme).Paint(f.cache)

	if got := readScreenLine(f.screen, 0, 0, 10); got != "HP 5/10" {
		t.Fatalf("progress text: got %q", got)
	}
	_, _, style, _ := f.screen.GetContent(4, 0)
	if style != theme.Filled {
		t.Fatalf("cell 4 should be filled")
	}
	_, _, style, _ = f.screen.GetContent(5, 0)
	if style != theme.Progress {
		t.Fatalf("cell 5 should be unfilled")
	}
}

func TestRatio(t *testing.T) {
	tests := []struct {
		in       string
		cur, max int
		ok       bool
	}{
		{"HP 42/50  MP 17/30", 42, 50, true},
		{"[3/4]", 3, 4, true},
		{"no numbers", 0, 0, false},
		{"a/b 7/8", 7, 8, true},
	}
	for _, tc := range tests {
		cur, max, ok := Ratio(tc.in)
		if cur != tc.cur || max != tc.max || ok != tc.ok {
			t.Fatalf("Ratio(%q) = %d,%d,%v", tc.in, cur, max, ok)
		}
	}
}

func TestPaintEmptyWindowIsSafe(t *testing.T) {
	f := newFixture(t, window.Spec{Name: "main", Rows: 2, Cols: 4})
	f.cache.ApplyLayout([]window.Instance{{}})
	if n := New(f.screen, DefaultTheme()).Paint(f.cache); n != 1 {
		t.Fatalf("expected dirty zero-size window to be processed, got %d", n)
	}
}
