// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: window/registry.go
// Summary: Arena of window specs keyed by stable IDs with a name index.
// Usage: Built once per layout load; a reload builds a new registry.

package window

import (
	"errors"
	"fmt"
)

// ErrDuplicate is returned when two specs share a name.
var ErrDuplicate = errors.New("window: duplicate window name")

// Registry owns the baseline specs. It is read-only after construction.
type Registry struct {
	specs  []Spec
	index  map[string]ID
	width  int
	height int
}

// NewRegistry builds a registry for a baseline terminal of width x height.
// A zero dimension is derived from the furthest window edge on that axis.
func NewRegistry(width, height int, specs []Spec) (*Registry, error) {
	r := &Registry{
		specs: make([]Spec, len(specs)),
		index: make(map[string]ID, len(specs)),
	}
	for i, spec := range specs {
		if _, dup := r.index[spec.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicate, spec.Name)
		}
		spec.Streams = append([]string(nil), spec.Streams...)
		r.specs[i] = spec
		r.index[spec.Name] = ID(i)
	}
	extentW, extentH := r.extent()
	if width <= 0 {
		width = extentW
	}
	if height <= 0 {
		height = extentH
	}
	r.width, r.height = width, height
	return r, nil
}

func (r *Registry) extent() (w, h int) {
	for _, s := range r.specs {
		if right := s.Col + s.Cols; right > w {
			w = right
		}
		if bottom := s.Row + s.Rows; bottom > h {
			h = bottom
		}
	}
	return w, h
}

// Len returns the number of windows.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.specs)
}

// Size returns the baseline terminal dimensions.
func (r *Registry) Size() (width, height int) {
	return r.width, r.height
}

// BaselineSize returns the baseline terminal extent on axis.
func (r *Registry) BaselineSize(axis Axis) int {
	if axis == Width {
		return r.width
	}
	return r.height
}

// Spec returns the spec stored under id.
func (r *Registry) Spec(id ID) Spec {
	return r.specs[id]
}

// Specs returns the specs in declaration order. Callers must not modify them.
func (r *Registry) Specs() []Spec {
	return r.specs
}

// Lookup resolves a window name.
func (r *Registry) Lookup(name string) (ID, bool) {
	if r == nil {
		return 0, false
	}
	id, ok := r.index[name]
	return id, ok
}

// Baseline returns a fresh slice with every window's baseline rectangle.
func (r *Registry) Baseline() []Instance {
	out := make([]Instance, len(r.specs))
	for i, s := range r.specs {
		out[i] = s.Baseline()
	}
	return out
}
