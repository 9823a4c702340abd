// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package clientruntime

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"

	"github.com/framegrace/texelmud/content"
	"github.com/framegrace/texelmud/internal/feed"
	"github.com/framegrace/texelmud/protocol"
	"github.com/framegrace/texelmud/window"
)

type fakeSource struct {
	cols, rows int
	calls      int
}

func (f *fakeSource) String() string                { return "fake" }
func (f *fakeSource) Serve(ctx context.Context) error { <-ctx.Done(); return ctx.Err() }
func (f *fakeSource) Resize(cols, rows int) error {
	f.cols, f.rows = cols, rows
	f.calls++
	return nil
}

type recordingSink struct{ lines []string }

func (r *recordingSink) Record(window string, line content.Line) {
	r.lines = append(r.lines, window+":"+line.Text)
}

func newTestApp(t *testing.T, opts Options) (*app, tcell.SimulationScreen) {
	t.Helper()
	if opts.Registry == nil {
		reg, err := window.NewRegistry(20, 10, []window.Spec{
			{Name: "room", Scaling: window.StaticHeight, Rows: 2, Cols: 20},
			{Name: "main", Row: 2, Rows: 8, Cols: 20},
		})
		if err != nil {
			t.Fatalf("NewRegistry: %v", err)
		}
		opts.Registry = reg
	}
	if opts.Queue == nil {
		opts.Queue = feed.NewQueue(16)
	}
	opts.Logger = log.New(&bytes.Buffer{})
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("init screen: %v", err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(20, 10)
	a, err := newApp(opts, screen)
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}
	return a, screen
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

func send(t *testing.T, q *feed.Queue, lines ...string) {
	t.Helper()
	for _, l := range lines {
		if err := q.Send(context.Background(), protocol.ParseLine(l)); err != nil {
			t.Fatalf("send: %v", err)
		}
	}
}

func TestFrameRoutesSyncsAndPaints(t *testing.T) {
	q := feed.NewQueue(16)
	sink := &recordingSink{}
	a, screen := newTestApp(t, Options{Queue: q, Sink: sink})
	a.resize(20, 10)

	send(t, q, "[room] Hall", "hello")
	fs := a.frame()
	if fs.Routed != 2 {
		t.Fatalf("routed: got %d", fs.Routed)
	}
	if fs.Sync.Incremental != 2 || fs.Sync.LinesCopied != 2 {
		t.Fatalf("unexpected sync stats %+v", fs.Sync)
	}
	if fs.Painted != 2 {
		t.Fatalf("painted: got %d", fs.Painted)
	}
	if got := readScreenLine(screen, 0, 1, 20); got != "Hall" {
		t.Fatalf("room row: got %q", got)
	}
	if got := readScreenLine(screen, 0, 9, 20); got != "hello" {
		t.Fatalf("main bottom row: got %q", got)
	}
	if len(sink.lines) != 2 || sink.lines[0] != "room:Hall" {
		t.Fatalf("sink saw %v", sink.lines)
	}

	fs = a.frame()
	if fs.Routed != 0 || fs.Painted != 0 || fs.Sync.Changed() {
		t.Fatalf("idle frame did work: %+v", fs)
	}
}

func TestDrainPerFrameBoundsRouting(t *testing.T) {
	q := feed.NewQueue(16)
	a, _ := newTestApp(t, Options{Queue: q, DrainPerFrame: 2})
	a.resize(20, 10)
	send(t, q, "a", "b", "c")

	if fs := a.frame(); fs.Routed != 2 {
		t.Fatalf("first frame routed %d", fs.Routed)
	}
	if fs := a.frame(); fs.Routed != 1 {
		t.Fatalf("second frame routed %d", fs.Routed)
	}
}

func TestResizeEventAppliedOnNextFrame(t *testing.T) {
	src := &fakeSource{}
	a, screen := newTestApp(t, Options{Sources: []feed.Service{src}})
	a.resize(20, 10)
	if src.cols != 20 || src.rows != 8 {
		t.Fatalf("main size not forwarded: %dx%d", src.cols, src.rows)
	}

	screen.SetSize(30, 14)
	if !a.handleScreenEvent(tcell.NewEventResize(30, 14)) {
		t.Fatalf("resize must not quit")
	}
	mainID, _ := a.engine.Registry().Lookup("main")
	if got := a.cache.Window(mainID).Rect.Rows; got != 8 {
		t.Fatalf("resize applied before frame: rows %d", got)
	}

	a.frame()
	main := a.cache.Window(mainID).Rect
	if main.Rows != 12 || main.Cols != 30 || main.Row != 2 {
		t.Fatalf("main rect after resize: %v", main)
	}
	roomID, _ := a.engine.Registry().Lookup("room")
	if got := a.cache.Window(roomID).Rect.Rows; got != 2 {
		t.Fatalf("static-height room changed height: %d", got)
	}
	if src.cols != 30 || src.rows != 12 {
		t.Fatalf("resize not forwarded: %dx%d", src.cols, src.rows)
	}
}

func TestKeysControlClient(t *testing.T) {
	a, _ := newTestApp(t, Options{})
	a.resize(20, 10)
	a.frame()

	if !a.handleScreenEvent(tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone)) {
		t.Fatalf("plain key must not quit")
	}
	if !a.handleScreenEvent(tcell.NewEventKey(tcell.KeyCtrlL, 0, tcell.ModCtrl)) {
		t.Fatalf("redraw must not quit")
	}
	if fs := a.frame(); fs.Painted != 2 {
		t.Fatalf("redraw should repaint every window, got %d", fs.Painted)
	}
	if a.handleScreenEvent(tcell.NewEventKey(tcell.KeyEsc, 0, tcell.ModNone)) {
		t.Fatalf("escape must quit")
	}
	if a.handleScreenEvent(tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl)) {
		t.Fatalf("ctrl-c must quit")
	}
}

func TestNewAppRejectsEmptyLayout(t *testing.T) {
	reg, err := window.NewRegistry(10, 10, nil)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	if _, err := newApp(Options{Registry: reg}, tcell.NewSimulationScreen("UTF-8")); err == nil {
		t.Fatalf("expected error for empty layout")
	}
}

func TestPanicLoggerWritesFile(t *testing.T) {
	path := t.TempDir() + "/panic.log"
	var logs bytes.Buffer
	p := NewPanicLogger(path, log.New(&logs))
	exitCode := -1
	p.exit = func(code int) { exitCode = code }

	func() {
		defer p.Recover("test")
		panic("boom")
	}()
	if exitCode != 2 {
		t.Fatalf("expected exit code 2, got %d", exitCode)
	}
	if !strings.Contains(logs.String(), "boom") {
		t.Fatalf("panic not logged: %q", logs.String())
	}
}
