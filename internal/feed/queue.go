// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/feed/queue.go
// Summary: Bounded event queue between feed producers and the UI goroutine.

package feed

import (
	"context"
	"errors"
	"io"

	"github.com/framegrace/texelmud/protocol"
)

// DefaultQueueSize is used when a caller asks for a non-positive capacity.
const DefaultQueueSize = 1024

// Queue is a bounded FIFO of decoded events. Producers block when it is full,
// which throttles the game connection instead of dropping output.
type Queue struct {
	ch chan protocol.Event
}

// NewQueue creates a queue holding up to size events.
func NewQueue(size int) *Queue {
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &Queue{ch: make(chan protocol.Event, size)}
}

// Send enqueues ev, waiting for room until ctx is done.
func (q *Queue) Send(ctx context.Context, ev protocol.Event) error {
	select {
	case q.ch <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Events is the receive side, drained by the router on the UI goroutine.
func (q *Queue) Events() <-chan protocol.Event {
	return q.ch
}

// Len reports the number of queued events.
func (q *Queue) Len() int {
	return len(q.ch)
}

// Cap reports the queue capacity.
func (q *Queue) Cap() int {
	return cap(q.ch)
}

// PumpStats counts what a Pump forwarded.
type PumpStats struct {
	Events int
	// Truncated lines were cut to protocol.MaxLineBytes.
	Truncated int
}

// Pump decodes r and forwards every event to q until r is exhausted or ctx
// is done. It returns a nil error on a clean end of input.
func Pump(ctx context.Context, r io.Reader, q *Queue) (PumpStats, error) {
	dec := protocol.NewDecoder(r)
	var st PumpStats
	for {
		ev, err := dec.Next()
		st.Truncated = dec.Truncated()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return st, nil
			}
			return st, err
		}
		if err := q.Send(ctx, ev); err != nil {
			return st, err
		}
		st.Events++
	}
}
