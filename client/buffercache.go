// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: client/buffercache.go
// Summary: Render cache holding each window's geometry and content copy.
// Usage: Written by the layout engine (ApplyLayout) and the Synchronizer;
// read by the painter.

package client

import (
	"sort"
	"time"

	"github.com/framegrace/texelmud/content"
	"github.com/framegrace/texelmud/window"
)

// WindowState is the locally cached state of one window.
type WindowState struct {
	ID        window.ID
	Name      string
	Kind      window.Kind
	Rect      window.Instance
	UpdatedAt time.Time

	lines []content.Line
	dirty bool
}

// Lines returns the cached content, oldest first. Callers must treat it as
// read-only.
func (w *WindowState) Lines() []content.Line {
	if w == nil {
		return nil
	}
	return w.lines
}

// Rows returns the cached content as plain strings.
func (w *WindowState) Rows() []string {
	if w == nil || len(w.lines) == 0 {
		return nil
	}
	out := make([]string, len(w.lines))
	for i, l := range w.lines {
		out[i] = l.Text
	}
	return out
}

// NeedsRedraw reports whether content or geometry changed since the last
// MarkPainted.
func (w *WindowState) NeedsRedraw() bool {
	return w != nil && w.dirty
}

// MarkPainted clears the redraw flag.
func (w *WindowState) MarkPainted() {
	if w != nil {
		w.dirty = false
	}
}

func (w *WindowState) replace(src *content.Buffer) int {
	clear(w.lines)
	w.lines = src.AppendTail(w.lines[:0], src.Retained())
	return len(w.lines)
}

func (w *WindowState) extend(src *content.Buffer, n int) int {
	w.lines = src.AppendTail(w.lines, n)
	if over := len(w.lines) - src.Retained(); over > 0 {
		clear(w.lines[:over])
		w.lines = w.lines[over:]
	}
	return n
}

// RenderCache maintains window states indexed by window ID.
type RenderCache struct {
	windows []*WindowState
}

// NewRenderCache creates one empty state per registry window, positioned at
// its baseline rectangle.
func NewRenderCache(reg *window.Registry) *RenderCache {
	c := &RenderCache{windows: make([]*WindowState, reg.Len())}
	for i, spec := range reg.Specs() {
		c.windows[i] = &WindowState{
			ID:    window.ID(i),
			Name:  spec.Name,
			Kind:  spec.Kind,
			Rect:  spec.Baseline(),
			dirty: true,
		}
	}
	return c
}

// ApplyLayout stores freshly computed geometry. Windows whose rectangle
// changed are marked for redraw. It returns the number of moved windows.
func (c *RenderCache) ApplyLayout(instances []window.Instance) int {
	moved := 0
	for i, inst := range instances {
		if i >= len(c.windows) {
			break
		}
		w := c.windows[i]
		if w.Rect != inst {
			w.Rect = inst
			w.dirty = true
			moved++
		}
	}
	return moved
}

// Window returns the state for id, or nil if id is out of range.
func (c *RenderCache) Window(id window.ID) *WindowState {
	if int(id) < 0 || int(id) >= len(c.windows) {
		return nil
	}
	return c.windows[id]
}

// Windows returns states in registry order.
func (c *RenderCache) Windows() []*WindowState {
	return c.windows
}

// Len returns the number of cached windows.
func (c *RenderCache) Len() int {
	return len(c.windows)
}

// MarkAllDirty forces a full repaint on the next frame.
func (c *RenderCache) MarkAllDirty() {
	for _, w := range c.windows {
		w.dirty = true
	}
}

// LayoutWindows returns windows sorted by their geometry so renderers can
// draw them deterministically.
func (c *RenderCache) LayoutWindows() []*WindowState {
	if len(c.windows) == 0 {
		return nil
	}
	out := append([]*WindowState(nil), c.windows...)
	sort.SliceStable(out, func(i, j int) bool {
		wi, wj := out[i], out[j]
		if wi.Rect.Row != wj.Rect.Row {
			return wi.Rect.Row < wj.Rect.Row
		}
		if wi.Rect.Col != wj.Rect.Col {
			return wi.Rect.Col < wj.Rect.Col
		}
		return wi.ID < wj.ID
	})
	return out
}
