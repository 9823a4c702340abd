// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: window/classify.go
// Summary: Per-axis constraint classification and bound clamping.

package window

import "math"

// MinSize is the floor applied on an axis whose minimum is not configured.
const MinSize = 1

// Constraint is the classifier's verdict for one window on one axis.
type Constraint uint8

const (
	// Fixed windows take no part in distribution on this axis.
	Fixed Constraint = iota
	// Bounded windows can move toward a configured bound.
	Bounded
	// Unbounded windows have no configured bound in the direction of travel.
	Unbounded
)

func (c Constraint) String() string {
	switch c {
	case Fixed:
		return "fixed"
	case Bounded:
		return "bounded"
	case Unbounded:
		return "unbounded"
	}
	return "unknown"
}

// Growable reports whether the window can accept delta.
func (c Constraint) Growable() bool { return c != Fixed }

// Bounds returns the effective [min, max] on axis. An unset maximum is
// reported as math.MaxInt.
func (s Spec) Bounds(axis Axis) (lo, hi int) {
	lo, hi = s.MinRows, s.MaxRows
	if axis == Width {
		lo, hi = s.MinCols, s.MaxCols
	}
	if lo < MinSize {
		lo = MinSize
	}
	if hi <= 0 {
		hi = math.MaxInt
	}
	return lo, hi
}

func (s Spec) hasMin(axis Axis) bool {
	if axis == Width {
		return s.MinCols > 0
	}
	return s.MinRows > 0
}

func (s Spec) hasMax(axis Axis) bool {
	if axis == Width {
		return s.MaxCols > 0
	}
	return s.MaxRows > 0
}

// Classify decides whether a window currently at size can take part in a
// distribution of sign dir on axis. Growth saturates at the maximum, shrinking
// at the minimum. A zero dir classifies everything as Fixed.
func Classify(s Spec, size int, axis Axis, dir int) Constraint {
	if dir == 0 || s.Static(axis) {
		return Fixed
	}
	lo, hi := s.Bounds(axis)
	if dir > 0 {
		if size >= hi {
			return Fixed
		}
		if s.hasMax(axis) {
			return Bounded
		}
		return Unbounded
	}
	if size <= lo {
		return Fixed
	}
	if s.hasMin(axis) {
		return Bounded
	}
	return Unbounded
}

// Clamp pulls size into the spec's bounds on axis.
func Clamp(s Spec, axis Axis, size int) int {
	lo, hi := s.Bounds(axis)
	if hi < lo {
		// Inconsistent bounds are rejected by the loader; keep the minimum.
		hi = lo
	}
	if size < lo {
		return lo
	}
	if size > hi {
		return hi
	}
	return size
}
