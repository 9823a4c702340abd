// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/feed/source.go
// Summary: Feed producers: plain readers, pty-hosted commands and a demo ticker.

package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/creack/pty"
	"github.com/thejerf/suture/v4"

	"github.com/framegrace/texelmud/protocol"
)

// Reader pumps an io.ReadCloser into the queue. End of input or a read
// failure stops the service for good; open failures are restarted by the
// supervisor.
type Reader struct {
	Name   string
	Open   func() (io.ReadCloser, error)
	Queue  *Queue
	Logger *log.Logger
}

// FileOpener opens path for each (re)start.
func FileOpener(path string) func() (io.ReadCloser, error) {
	return func() (io.ReadCloser, error) {
		return os.Open(path)
	}
}

// StdinOpener reads the process's standard input. Closing it on shutdown
// unblocks a pending read when stdin is a pipe.
func StdinOpener() (io.ReadCloser, error) {
	return os.Stdin, nil
}

func (r *Reader) String() string { return "reader:" + r.Name }

// Serve implements suture.Service.
func (r *Reader) Serve(ctx context.Context) error {
	rc, err := r.Open()
	if err != nil {
		return fmt.Errorf("open %s: %w", r.Name, err)
	}
	defer rc.Close()
	stop := context.AfterFunc(ctx, func() { rc.Close() })
	defer stop()

	st, err := Pump(ctx, rc, r.Queue)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		// A reopen would replay the source from its start.
		return fmt.Errorf("read %s: %w", r.Name, errors.Join(err, suture.ErrDoNotRestart))
	}
	loggerOr(r.Logger).Info("feed ended", "source", r.Name, "events", st.Events, "truncated", st.Truncated)
	return suture.ErrDoNotRestart
}

// Command runs a program on a pseudo-terminal and decodes its output. A
// clean exit stops the service; a failed exit is restarted.
type Command struct {
	Path   string
	Args   []string
	Cols   int
	Rows   int
	Queue  *Queue
	Logger *log.Logger

	mu   sync.Mutex
	ptmx *os.File
}

func (c *Command) String() string { return "command:" + c.Path }

// Serve implements suture.Service.
func (c *Command) Serve(ctx context.Context) error {
	c.mu.Lock()
	cols, rows := c.Cols, c.Rows
	c.mu.Unlock()
	if cols <= 0 {
		cols = 80
	}
	if rows <= 0 {
		rows = 24
	}
	cmd := exec.CommandContext(ctx, c.Path, c.Args...)
	cmd.Env = append(os.Environ(), "TERM=dumb")
	ptmx, err := pty.StartWithSize(cmd, winsize(cols, rows))
	if err != nil {
		return fmt.Errorf("start %s: %w", c.Path, err)
	}
	c.setPTY(ptmx)
	defer func() {
		c.setPTY(nil)
		ptmx.Close()
	}()

	st, perr := Pump(ctx, ptmx, c.Queue)
	if perr != nil && !errors.Is(perr, syscall.EIO) {
		// Nothing drains the pty any more, so the child could block on write.
		_ = cmd.Process.Kill()
	}
	werr := cmd.Wait()
	if ctx.Err() != nil {
		return ctx.Err()
	}
	// Linux reports EIO on the master once the child side is gone.
	if perr != nil && !errors.Is(perr, syscall.EIO) {
		return fmt.Errorf("read %s: %w", c.Path, perr)
	}
	if werr != nil {
		return fmt.Errorf("%s exited: %w", c.Path, werr)
	}
	loggerOr(c.Logger).Info("feed ended", "source", c.Path, "events", st.Events, "truncated", st.Truncated)
	return suture.ErrDoNotRestart
}

// Resize forwards a terminal size change to the running program.
func (c *Command) Resize(cols, rows int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Cols, c.Rows = cols, rows
	if c.ptmx == nil {
		return nil
	}
	return pty.Setsize(c.ptmx, winsize(cols, rows))
}

// winsize clamps a size into the range a pty accepts.
func winsize(cols, rows int) *pty.Winsize {
	clamp := func(v int) uint16 {
		if v < 1 {
			return 1
		}
		if v > math.MaxUint16 {
			return math.MaxUint16
		}
		return uint16(v)
	}
	return &pty.Winsize{Rows: clamp(rows), Cols: clamp(cols)}
}

func (c *Command) setPTY(f *os.File) {
	c.mu.Lock()
	c.ptmx = f
	c.mu.Unlock()
}

// Demo emits a canned script of game output on a timer, looping forever.
// It exists so the client can be exercised without a game connection.
type Demo struct {
	Interval time.Duration
	Script   []string
	Queue    *Queue
}

// DemoScript is the default Demo output.
var DemoScript = []string{
	"[room!clear]",
	"[room] The Crossroads",
	"[room] Dusty roads lead off in every direction. A signpost leans here.",
	"You shake the dust from your cloak.",
	"[vitals] HP 42/50  MP 17/30  MV 88/100",
	"[compass] N E S W",
	"[speech] Aldric says, 'Fine weather for a journey.'",
	"[thoughts] You wonder what lies to the north.",
	"[inventory!clear]",
	"[inventory] a short sword",
	"[inventory] a waterskin",
	"[inventory] 12 gold coins",
	"A crow caws from atop the signpost.",
	"[prompt] >",
}

func (d *Demo) String() string { return "demo" }

// Serve implements suture.Service.
func (d *Demo) Serve(ctx context.Context) error {
	script := d.Script
	if len(script) == 0 {
		script = DemoScript
	}
	interval := d.Interval
	if interval <= 0 {
		interval = 250 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for i := 0; ; i = (i + 1) % len(script) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			ev := protocol.ParseLine(script[i])
			ev.At = now
			if err := d.Queue.Send(ctx, ev); err != nil {
				return err
			}
		}
	}
}

func loggerOr(l *log.Logger) *log.Logger {
	if l == nil {
		return log.Default()
	}
	return l
}
