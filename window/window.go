// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: window/window.go
// Summary: Window specs, instances and the closed scaling/kind enums.
// Usage: Shared by the layout engine, the synchronizer, the router and the painter.

package window

import (
	"fmt"
	"strings"
)

// ID is the stable arena index of a window inside a Registry.
type ID int

// ScalingClass describes which axes a window may change size on.
type ScalingClass uint8

const (
	// FullyScalable windows grow and shrink on both axes within their bounds.
	FullyScalable ScalingClass = iota
	// StaticHeight windows keep their height but may change width.
	StaticHeight
	// StaticBoth windows never change size; they may still move.
	StaticBoth
)

func (c ScalingClass) String() string {
	switch c {
	case FullyScalable:
		return "scalable"
	case StaticHeight:
		return "static-height"
	case StaticBoth:
		return "static"
	default:
		return fmt.Sprintf("ScalingClass(%d)", uint8(c))
	}
}

// ParseScalingClass accepts the names produced by String plus a few aliases
// used in hand-written layout files.
func ParseScalingClass(s string) (ScalingClass, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "scalable", "fully-scalable", "full":
		return FullyScalable, nil
	case "static-height", "fixed-height":
		return StaticHeight, nil
	case "static", "static-both", "fixed":
		return StaticBoth, nil
	}
	return 0, fmt.Errorf("window: unknown scaling class %q", s)
}

// Kind is the widget tag. Only the painter looks at it; the layout engine
// works from the scaling class alone.
type Kind uint8

const (
	KindText Kind = iota
	KindStatus
	KindCommand
	KindProgress
	KindIndicator
	KindCompass
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindStatus:
		return "status"
	case KindCommand:
		return "command"
	case KindProgress:
		return "progress"
	case KindIndicator:
		return "indicator"
	case KindCompass:
		return "compass"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// ParseKind maps a layout-file kind name to a Kind. An empty name is text.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text":
		return KindText, nil
	case "status":
		return KindStatus, nil
	case "command", "input":
		return KindCommand, nil
	case "progress", "bar":
		return KindProgress, nil
	case "indicator":
		return KindIndicator, nil
	case "compass":
		return KindCompass, nil
	}
	return 0, fmt.Errorf("window: unknown kind %q", s)
}

// DefaultScaling is the scaling class a kind gets when the layout does not
// name one explicitly.
func DefaultScaling(k Kind) ScalingClass {
	switch k {
	case KindText:
		return FullyScalable
	case KindStatus, KindCommand, KindProgress:
		return StaticHeight
	case KindIndicator, KindCompass:
		return StaticBoth
	}
	return FullyScalable
}

// Axis selects the dimension being distributed.
type Axis uint8

const (
	Height Axis = iota
	Width
)

func (a Axis) String() string {
	if a == Width {
		return "width"
	}
	return "height"
}

// Spec is the immutable baseline description of one window. Zero bounds mean
// "not configured".
type Spec struct {
	Name    string
	Kind    Kind
	Scaling ScalingClass

	Row  int
	Col  int
	Rows int
	Cols int

	MinRows int
	MaxRows int
	MinCols int
	MaxCols int

	// Streams lists the game streams routed into this window. Empty means
	// the stream with the window's own name.
	Streams []string
	// MaxLines caps the retained content; zero uses the store default.
	MaxLines int
}

// Start returns the baseline leading coordinate on axis.
func (s Spec) Start(axis Axis) int {
	if axis == Width {
		return s.Col
	}
	return s.Row
}

// Size returns the baseline extent on axis.
func (s Spec) Size(axis Axis) int {
	if axis == Width {
		return s.Cols
	}
	return s.Rows
}

// CrossStart is the leading coordinate on the axis perpendicular to axis.
func (s Spec) CrossStart(axis Axis) int {
	if axis == Width {
		return s.Row
	}
	return s.Col
}

// CrossSize is the extent on the axis perpendicular to axis.
func (s Spec) CrossSize(axis Axis) int {
	if axis == Width {
		return s.Rows
	}
	return s.Cols
}

// Static reports whether the scaling class pins the window's size on axis.
func (s Spec) Static(axis Axis) bool {
	switch s.Scaling {
	case StaticBoth:
		return true
	case StaticHeight:
		return axis == Height
	case FullyScalable:
		return false
	}
	return false
}

// Instance is the computed rectangle of a window for one terminal size.
type Instance struct {
	Row  int
	Col  int
	Rows int
	Cols int
}

// Bottom is the first row below the instance.
func (i Instance) Bottom() int { return i.Row + i.Rows }

// Right is the first column right of the instance.
func (i Instance) Right() int { return i.Col + i.Cols }

// Empty reports whether the instance covers no cells.
func (i Instance) Empty() bool { return i.Rows <= 0 || i.Cols <= 0 }

func (i Instance) String() string {
	return fmt.Sprintf("%dx%d@%d,%d", i.Cols, i.Rows, i.Col, i.Row)
}

// Baseline returns the spec's designer-authored rectangle.
func (s Spec) Baseline() Instance {
	return Instance{Row: s.Row, Col: s.Col, Rows: s.Rows, Cols: s.Cols}
}
