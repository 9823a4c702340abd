// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/runtime/client/app.go
// Summary: Terminal runtime for the MUD client.
// Usage: Run owns the screen and the UI goroutine; feed sources run under a
// supervisor and hand events over through the bounded queue.
// Notes: Layout, content buffers, the render cache and the painter are only
// touched from the UI goroutine, so none of them lock.

package clientruntime

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"

	"github.com/framegrace/texelmud/client"
	"github.com/framegrace/texelmud/content"
	"github.com/framegrace/texelmud/internal/feed"
	"github.com/framegrace/texelmud/internal/paint"
	"github.com/framegrace/texelmud/layout"
	"github.com/framegrace/texelmud/protocol"
	"github.com/framegrace/texelmud/router"
	"github.com/framegrace/texelmud/window"
)

// Options configures the client runtime.
type Options struct {
	Registry        *window.Registry
	Queue           *feed.Queue
	Sources         []feed.Service
	Sink            router.Sink
	Frame           time.Duration
	DefaultMaxLines int
	DrainPerFrame   int
	Theme           *paint.Theme
	Logger          *log.Logger
	PanicLog        string
}

// Resizer is implemented by sources that care about the display size.
type Resizer interface {
	Resize(cols, rows int) error
}

type app struct {
	logger  *log.Logger
	screen  tcell.Screen
	queue   *feed.Queue
	engine  *layout.Engine
	store   *content.Store
	router  *router.Router
	cache   *client.RenderCache
	sync    *client.Synchronizer
	painter *paint.Painter

	drainPerFrame int
	resizers      []Resizer
	mainID        window.ID
	hasMain       bool

	resizePending bool
	pendingW      int
	pendingH      int
}

func newApp(opts Options, screen tcell.Screen) (*app, error) {
	if opts.Registry == nil || opts.Registry.Len() == 0 {
		return nil, fmt.Errorf("runtime: layout has no windows")
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	queue := opts.Queue
	if queue == nil {
		queue = feed.NewQueue(0)
	}
	theme := paint.DefaultTheme()
	if opts.Theme != nil {
		theme = *opts.Theme
	}
	reg := opts.Registry
	store := content.NewStore(opts.DefaultMaxLines)
	routerOpts := []router.Option{router.WithLogger(logger)}
	if opts.Sink != nil {
		routerOpts = append(routerOpts, router.WithSink(opts.Sink))
	}

	a := &app{
		logger:        logger,
		screen:        screen,
		queue:         queue,
		engine:        layout.NewEngine(reg),
		store:         store,
		router:        router.New(reg, store, routerOpts...),
		cache:         client.NewRenderCache(reg),
		sync:          client.NewSynchronizer(reg),
		painter:       paint.New(screen, theme),
		drainPerFrame: opts.DrainPerFrame,
	}
	a.mainID, a.hasMain = reg.Lookup(protocol.DefaultStream)
	for _, src := range opts.Sources {
		if r, ok := src.(Resizer); ok {
			a.resizers = append(a.resizers, r)
		}
	}
	return a, nil
}

// Run drives the client until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	panicLogger := NewPanicLogger(opts.PanicLog, logger)
	defer panicLogger.Recover("run")

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen failed: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen failed: %w", err)
	}
	defer screen.Fini()
	screen.HideCursor()

	if opts.Queue == nil {
		opts.Queue = feed.NewQueue(0)
	}
	a, err := newApp(opts, screen)
	if err != nil {
		return err
	}
	a.resize(screen.Size())

	ctx, cancel := context.WithCancel(ctx)
	super := feed.NewSupervisor("feeds", logger)
	for _, src := range opts.Sources {
		feed.Add(super, src)
	}
	superDone := super.ServeBackground(ctx)
	defer func() {
		cancel()
		<-superDone
	}()

	events := make(chan tcell.Event, 32)
	stopEvents := make(chan struct{})
	panicLogger.Go("eventPoll", func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			select {
			case events <- ev:
			case <-stopEvents:
				close(events)
				return
			}
		}
	})
	defer func() {
		close(stopEvents)
		screen.PostEventWait(tcell.NewEventInterrupt(nil))
	}()

	frame := opts.Frame
	if frame <= 0 {
		frame = 33 * time.Millisecond
	}
	ticker := time.NewTicker(frame)
	defer ticker.Stop()

	a.frame()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			a.frame()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if !a.handleScreenEvent(ev) {
				return nil
			}
		}
	}
}
