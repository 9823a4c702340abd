// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: content/store.go
// Summary: Pool of content buffers keyed by window name.

package content

// Store holds one Buffer per window name, created on first use.
type Store struct {
	buffers    map[string]*Buffer
	order      []string
	defaultMax int
}

// NewStore creates an empty store. defaultMax applies to buffers created
// without an explicit limit.
func NewStore(defaultMax int) *Store {
	if defaultMax <= 0 {
		defaultMax = DefaultMaxLines
	}
	return &Store{buffers: make(map[string]*Buffer), defaultMax: defaultMax}
}

// Buffer returns the named buffer if it exists.
func (s *Store) Buffer(name string) (*Buffer, bool) {
	b, ok := s.buffers[name]
	return b, ok
}

// Ensure returns the named buffer, creating it with maxLines (or the store
// default when maxLines is zero).
func (s *Store) Ensure(name string, maxLines int) *Buffer {
	if b, ok := s.buffers[name]; ok {
		return b
	}
	if maxLines <= 0 {
		maxLines = s.defaultMax
	}
	b := NewBuffer(maxLines)
	s.buffers[name] = b
	s.order = append(s.order, name)
	return b
}

// Names lists buffer names in creation order.
func (s *Store) Names() []string {
	return append([]string(nil), s.order...)
}

// Len returns the number of buffers.
func (s *Store) Len() int {
	return len(s.buffers)
}

// DefaultMax returns the limit used for buffers created without one.
func (s *Store) DefaultMax() int {
	return s.defaultMax
}
