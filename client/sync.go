// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: client/sync.go
// Summary: Generation-based synchronization of content buffers into the render cache.
// Usage: Call Sync once per frame on the UI goroutine, before painting.
// Notes: A window is compared by a single integer per frame. Deltas larger
// than what the buffer still retains cannot be replayed and fall back to a
// full copy.

package client

import (
	"time"

	"github.com/framegrace/texelmud/content"
	"github.com/framegrace/texelmud/window"
)

// Stats describes the work done by one Sync call.
type Stats struct {
	Windows     int
	Missing     int
	Unchanged   int
	Incremental int
	Full        int
	LinesCopied int
}

// Changed reports whether any window received new content.
func (s Stats) Changed() bool {
	return s.Incremental+s.Full > 0
}

// Synchronizer tracks the last generation copied for every window.
type Synchronizer struct {
	records []uint64
	now     func() time.Time
}

// NewSynchronizer creates a synchronizer with one record per registry window.
func NewSynchronizer(reg *window.Registry) *Synchronizer {
	return &Synchronizer{
		records: make([]uint64, reg.Len()),
		now:     time.Now,
	}
}

// Record returns the last generation synchronized for id.
func (s *Synchronizer) Record(id window.ID) uint64 {
	if int(id) < 0 || int(id) >= len(s.records) {
		return 0
	}
	return s.records[id]
}

// Sync copies new content for every registry window that has a buffer in
// store. Windows without a buffer are skipped for this frame.
func (s *Synchronizer) Sync(reg *window.Registry, store *content.Store, cache *RenderCache) Stats {
	var st Stats
	specs := reg.Specs()
	for i := range specs {
		st.Windows++
		id := window.ID(i)
		buf, ok := store.Buffer(specs[i].Name)
		state := cache.Window(id)
		if !ok || state == nil || i >= len(s.records) {
			st.Missing++
			continue
		}

		cur := buf.Generation()
		last := s.records[i]
		if cur == last {
			st.Unchanged++
			continue
		}

		delta := cur - last
		if cur < last || delta > uint64(buf.Retained()) {
			st.LinesCopied += state.replace(buf)
			st.Full++
		} else {
			st.LinesCopied += state.extend(buf, int(delta))
			st.Incremental++
		}
		state.dirty = true
		state.UpdatedAt = s.now()
		s.records[i] = cur
	}
	return st
}
