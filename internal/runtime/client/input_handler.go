// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/runtime/client/input_handler.go
// Summary: Screen event handling for the client runtime.
// Usage: Keys control the client itself; resizes are coalesced and applied
// on the next frame.

package clientruntime

import (
	"github.com/gdamore/tcell/v2"
)

// handleScreenEvent returns false when the client should exit.
func (a *app) handleScreenEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEsc, tcell.KeyCtrlC:
			a.logger.Info("quit requested")
			return false
		case tcell.KeyCtrlL:
			a.cache.MarkAllDirty()
			a.screen.Sync()
		}
	case *tcell.EventResize:
		w, h := ev.Size()
		a.pendingW, a.pendingH = w, h
		a.resizePending = true
	case *tcell.EventInterrupt:
		// Ignore; used to wake PollEvent for shutdown.
	}
	return true
}
