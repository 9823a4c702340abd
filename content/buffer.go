// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: content/buffer.go
// Summary: Bounded per-window line buffer with a monotonically increasing generation.
//
// Architecture:
//
//	Buffer keeps the most recent MaxLines lines in a ring. Every appended
//	line bumps the generation by one; Clear bumps it once as well so a
//	reader always sees that something changed. The generation never goes
//	backwards.
//
//	Buffers are not locked. They are mutated by the router on the UI
//	goroutine and read there by the synchronizer.

package content

import "time"

// DefaultMaxLines is used when a buffer is created without a limit.
const DefaultMaxLines = 1000

// Line is one unit of window content.
type Line struct {
	Text   string
	Stream string
	At     time.Time
}

// Buffer stores the retained lines of one window.
type Buffer struct {
	// lines grows with append until it reaches max, then acts as a ring
	// whose oldest entry sits at head.
	lines []Line
	head  int
	size  int
	max   int

	generation uint64
}

// NewBuffer creates an empty buffer retaining at most maxLines lines.
func NewBuffer(maxLines int) *Buffer {
	if maxLines <= 0 {
		maxLines = DefaultMaxLines
	}
	return &Buffer{max: maxLines}
}

// Append adds lines, evicting the oldest ones once the buffer is full.
func (b *Buffer) Append(lines ...Line) {
	for _, l := range lines {
		if b.size < b.max {
			b.lines = append(b.lines, l)
			b.size++
		} else {
			b.lines[b.head] = l
			b.head = (b.head + 1) % b.max
		}
		b.generation++
	}
}

// Clear drops every retained line.
func (b *Buffer) Clear() {
	clear(b.lines)
	b.lines = b.lines[:0]
	b.head = 0
	b.size = 0
	b.generation++
}

// Generation returns the mutation counter.
func (b *Buffer) Generation() uint64 {
	return b.generation
}

// Retained returns the number of lines currently held.
func (b *Buffer) Retained() int {
	return b.size
}

// MaxLines returns the retention limit.
func (b *Buffer) MaxLines() int {
	return b.max
}

// At returns the i-th retained line, oldest first.
func (b *Buffer) At(i int) Line {
	return b.lines[(b.head+i)%len(b.lines)]
}

// AppendTail appends the newest n retained lines to dst in order and returns
// the extended slice. n is clipped to the retained count.
func (b *Buffer) AppendTail(dst []Line, n int) []Line {
	if n > b.size {
		n = b.size
	}
	for i := b.size - n; i < b.size; i++ {
		dst = append(dst, b.At(i))
	}
	return dst
}

// Tail returns a copy of the newest n lines.
func (b *Buffer) Tail(n int) []Line {
	if n > b.size {
		n = b.size
	}
	if n <= 0 {
		return nil
	}
	return b.AppendTail(make([]Line, 0, n), n)
}

// Lines returns a copy of every retained line, oldest first.
func (b *Buffer) Lines() []Line {
	return b.Tail(b.size)
}
