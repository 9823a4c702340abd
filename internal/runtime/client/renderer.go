// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/runtime/client/renderer.go
// Summary: Per-frame pipeline: route queued events, sync buffers, paint.
// Usage: Called on every frame tick from the UI goroutine.

package clientruntime

import (
	"github.com/framegrace/texelmud/client"
)

// frameStats summarises one frame for debug logging and tests.
type frameStats struct {
	Routed  int
	Sync    client.Stats
	Painted int
}

// resize applies a new terminal size to the whole pipeline.
func (a *app) resize(width, height int) {
	res := a.engine.Resize(width, height)
	moved := a.cache.ApplyLayout(res.Instances)
	a.cache.MarkAllDirty()
	a.screen.Clear()
	a.logger.Debug("layout",
		"width", res.Report.Width, "height", res.Report.Height,
		"dw", res.Report.WidthDelta, "dh", res.Report.HeightDelta,
		"moved", moved)
	for _, g := range res.Report.Gaps {
		a.logger.Debug("layout gap", "axis", g.Axis, "slice", g.Slice, "amount", g.Amount)
	}
	a.forwardSize()
}

// frame runs one render cycle. Show is only called when something was drawn.
func (a *app) frame() frameStats {
	if a.resizePending {
		a.resizePending = false
		a.resize(a.pendingW, a.pendingH)
	}
	var fs frameStats
	fs.Routed = a.router.Drain(a.queue.Events(), a.drainPerFrame)
	fs.Sync = a.sync.Sync(a.engine.Registry(), a.store, a.cache)
	fs.Painted = a.painter.Paint(a.cache)
	if fs.Painted > 0 {
		a.screen.Show()
	}
	if fs.Sync.Changed() {
		a.logger.Debug("sync",
			"routed", fs.Routed,
			"full", fs.Sync.Full,
			"incremental", fs.Sync.Incremental,
			"lines", fs.Sync.LinesCopied,
			"painted", fs.Painted)
	}
	return fs
}

// forwardSize tells pty-hosted sources how wide the main window is so the
// game can wrap to it.
func (a *app) forwardSize() {
	if len(a.resizers) == 0 {
		return
	}
	w, h := a.screen.Size()
	if st := a.cache.Window(a.mainID); a.hasMain && st != nil && !st.Rect.Empty() {
		w, h = st.Rect.Cols, st.Rect.Rows
	}
	for _, r := range a.resizers {
		if err := r.Resize(w, h); err != nil {
			a.logger.Warn("forward resize failed", "err", err)
		}
	}
}
