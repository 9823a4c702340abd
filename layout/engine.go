// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: layout/engine.go
// Summary: Adaptive layout engine scaling a baseline arrangement to a terminal size.
// Usage: Runs on the UI goroutine inside the resize handler.
// Notes: Height is distributed per column slice and width per row slice; both
// passes start from the baseline and never read each other's output.

package layout

import (
	"sort"

	"github.com/framegrace/texelmud/window"
)

// Gap records delta that a slice could not place.
type Gap struct {
	Axis window.Axis
	// Slice is the perpendicular coordinate identifying the slice.
	Slice  int
	Amount int
}

// Report summarises a resize for logging and tests.
type Report struct {
	Width       int
	Height      int
	WidthDelta  int
	HeightDelta int
	Gaps        []Gap
}

// Result is the complete output of one resize.
type Result struct {
	Instances []window.Instance
	Report    Report
}

// Compute scales the registry's baseline layout to width x height.
func Compute(reg *window.Registry, width, height int) Result {
	baseW, baseH := reg.Size()
	res := Result{
		Instances: reg.Baseline(),
		Report: Report{
			Width:       width,
			Height:      height,
			WidthDelta:  width - baseW,
			HeightDelta: height - baseH,
		},
	}

	rows, heights, gaps := runPass(reg, window.Height, res.Report.HeightDelta)
	res.Report.Gaps = append(res.Report.Gaps, gaps...)
	cols, widths, gaps := runPass(reg, window.Width, res.Report.WidthDelta)
	res.Report.Gaps = append(res.Report.Gaps, gaps...)

	for i := range res.Instances {
		res.Instances[i] = window.Instance{
			Row:  rows[i],
			Col:  cols[i],
			Rows: heights[i],
			Cols: widths[i],
		}
	}
	return res
}

// Engine remembers the last computed result so repeated resize events for
// the same size are free.
type Engine struct {
	reg  *window.Registry
	last Result
	have bool
}

// NewEngine binds an engine to a registry.
func NewEngine(reg *window.Registry) *Engine {
	return &Engine{reg: reg}
}

// Registry returns the registry the engine scales.
func (e *Engine) Registry() *window.Registry {
	return e.reg
}

// Resize returns the layout for width x height, reusing the previous result
// when the size did not change.
func (e *Engine) Resize(width, height int) Result {
	if e.have && e.last.Report.Width == width && e.last.Report.Height == height {
		return e.last
	}
	e.last = Compute(e.reg, width, height)
	e.have = true
	return e.last
}

// runPass distributes delta along axis and returns per-window starts and
// sizes on that axis. Sizes outside their bounds are clamped first, so a
// baseline that breaks its own bounds is corrected on every resize.
func runPass(reg *window.Registry, axis window.Axis, delta int) (starts, sizes []int, gaps []Gap) {
	specs := reg.Specs()
	starts = make([]int, len(specs))
	sizes = make([]int, len(specs))
	for i, s := range specs {
		starts[i] = s.Start(axis)
		sizes[i] = s.Size(axis)
		if !s.Static(axis) {
			sizes[i] = window.Clamp(s, axis, sizes[i])
		}
	}
	if len(specs) == 0 {
		return starts, sizes, nil
	}

	visited := newBitset(len(specs))
	for _, slice := range sliceCoords(specs, axis) {
		ids := sliceMembers(specs, axis, slice)
		if len(ids) == 0 {
			continue
		}
		members := make([]Member, len(ids))
		for i, id := range ids {
			members[i] = Member{ID: id, Spec: specs[id], Size: sizes[id], Settled: visited.has(int(id))}
		}
		if lost := placeSlice(axis, delta, members, starts, sizes); lost != 0 {
			gaps = append(gaps, Gap{Axis: axis, Slice: slice, Amount: lost})
		}
		for _, m := range members {
			visited.set(int(m.ID))
		}
	}
	return starts, sizes, gaps
}

// placeSlice resizes and positions the unsettled members of one slice.
// Members settled by an earlier slice stay where they are: a run of unsettled
// members in front of one must end at its start, and the run after the last
// settled member takes what is left of delta. It returns the space the slice
// could not fill, which is negative when a run could not shrink enough.
func placeSlice(axis window.Axis, delta int, members []Member, starts, sizes []int) int {
	lost := 0
	for lo := 0; lo < len(members); {
		if members[lo].Settled {
			lo++
			continue
		}
		hi := lo
		for hi < len(members) && !members[hi].Settled {
			hi++
		}
		run := members[lo:hi]
		first, last := run[0], run[len(run)-1]

		start := first.Spec.Start(axis)
		if lo > 0 {
			prev := members[lo-1]
			start = starts[prev.ID] + sizes[prev.ID] + baseGap(axis, prev.Spec, first.Spec)
		}
		end := last.Spec.Start(axis) + last.Spec.Size(axis) + delta
		if hi < len(members) {
			next := members[hi]
			end = starts[next.ID] - baseGap(axis, last.Spec, next.Spec)
		}

		span := 0
		for i, m := range run {
			if i > 0 {
				span += baseGap(axis, run[i-1].Spec, m.Spec)
			}
			span += sizes[m.ID]
		}
		alloc := Distribute(end-start-span, axis, run)

		pos := start
		for i, m := range run {
			if i > 0 {
				pos += baseGap(axis, run[i-1].Spec, m.Spec)
			}
			sizes[m.ID] += alloc.Applied[i]
			starts[m.ID] = pos
			pos += sizes[m.ID]
		}
		if hi < len(members) {
			lost += alloc.Dropped
		}
		lo = hi
	}

	tail := members[len(members)-1]
	want := tail.Spec.Start(axis) + tail.Spec.Size(axis) + delta
	return lost + want - (starts[tail.ID] + sizes[tail.ID])
}

// baseGap is the baseline distance between the end of a and the start of b.
func baseGap(axis window.Axis, a, b window.Spec) int {
	return b.Start(axis) - (a.Start(axis) + a.Size(axis))
}

// sliceCoords returns the distinct perpendicular start coordinates, ascending.
// Every window's first slice is its own cross start.
func sliceCoords(specs []window.Spec, axis window.Axis) []int {
	seen := make(map[int]struct{}, len(specs))
	coords := make([]int, 0, len(specs))
	for _, s := range specs {
		c := s.CrossStart(axis)
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		coords = append(coords, c)
	}
	sort.Ints(coords)
	return coords
}

// sliceMembers returns the windows covering coordinate c on the perpendicular
// axis, ordered by baseline start on axis and then by declaration order.
func sliceMembers(specs []window.Spec, axis window.Axis, c int) []window.ID {
	var ids []window.ID
	for i, s := range specs {
		lo := s.CrossStart(axis)
		hi := lo + s.CrossSize(axis)
		if c == lo || (c > lo && c < hi) {
			ids = append(ids, window.ID(i))
		}
	}
	sort.SliceStable(ids, func(a, b int) bool {
		return specs[ids[a]].Start(axis) < specs[ids[b]].Start(axis)
	})
	return ids
}
