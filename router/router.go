// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: router/router.go
// Summary: Routes decoded stream events into per-window content buffers.
// Usage: Owned by the UI goroutine; Drain is called once per frame before sync.

package router

import (
	"github.com/charmbracelet/log"

	"github.com/framegrace/texelmud/content"
	"github.com/framegrace/texelmud/protocol"
	"github.com/framegrace/texelmud/window"
)

// Sink receives a copy of every appended line, e.g. a transcript.
type Sink interface {
	Record(window string, line content.Line)
}

// Router maps streams to windows and appends lines to their buffers.
type Router struct {
	reg     *window.Registry
	store   *content.Store
	routes  map[string][]window.ID
	main    window.ID
	hasMain bool
	sink    Sink
	logger  *log.Logger

	unrouted map[string]struct{}
}

// Option configures a Router.
type Option func(*Router)

// WithSink tees appended lines to s.
func WithSink(s Sink) Option {
	return func(r *Router) { r.sink = s }
}

// WithLogger sets the logger used for routing diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(r *Router) { r.logger = l }
}

// New builds the stream table from the registry. A window without explicit
// streams listens to the stream carrying its own name.
func New(reg *window.Registry, store *content.Store, opts ...Option) *Router {
	r := &Router{
		reg:      reg,
		store:    store,
		routes:   make(map[string][]window.ID),
		logger:   log.Default(),
		unrouted: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	for i, spec := range reg.Specs() {
		id := window.ID(i)
		streams := spec.Streams
		if len(streams) == 0 {
			streams = []string{spec.Name}
		}
		for _, s := range streams {
			r.routes[s] = append(r.routes[s], id)
		}
	}
	if id, ok := reg.Lookup(protocol.DefaultStream); ok {
		r.main, r.hasMain = id, true
	}
	return r
}

// Targets returns the windows that receive stream. Unknown streams fall back
// to the main window when one exists.
func (r *Router) Targets(stream string) []window.ID {
	if ids, ok := r.routes[stream]; ok {
		return ids
	}
	if r.hasMain {
		return []window.ID{r.main}
	}
	return nil
}

// Route applies one event and returns the number of lines appended.
func (r *Router) Route(ev protocol.Event) int {
	targets := r.Targets(ev.Stream)
	if len(targets) == 0 {
		if _, seen := r.unrouted[ev.Stream]; !seen {
			r.unrouted[ev.Stream] = struct{}{}
			r.logger.Debug("dropping unrouted stream", "stream", ev.Stream)
		}
		return 0
	}
	appended := 0
	for _, id := range targets {
		spec := r.reg.Spec(id)
		buf := r.store.Ensure(spec.Name, spec.MaxLines)
		if ev.Clear {
			buf.Clear()
			continue
		}
		line := content.Line{Text: ev.Text, Stream: ev.Stream, At: ev.At}
		buf.Append(line)
		appended++
		if r.sink != nil {
			r.sink.Record(spec.Name, line)
		}
	}
	return appended
}

// Drain routes up to max queued events without blocking and returns how
// many events it consumed. max <= 0 drains everything currently queued.
func (r *Router) Drain(queue <-chan protocol.Event, max int) int {
	n := 0
	for max <= 0 || n < max {
		select {
		case ev, ok := <-queue:
			if !ok {
				return n
			}
			r.Route(ev)
			n++
		default:
			return n
		}
	}
	return n
}
