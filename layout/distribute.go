// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: layout/distribute.go
// Summary: Proportional delta distribution with clamping and round-robin remainder.

package layout

import "github.com/framegrace/texelmud/window"

// Member is one window of a slice as seen by the distributor.
type Member struct {
	ID   window.ID
	Spec window.Spec
	// Size is the window's current extent on the axis being distributed.
	Size int
	// Settled members were already resized by an earlier slice; they keep
	// their size and receive nothing.
	Settled bool
}

// Allocation is the distributor's answer for one slice.
type Allocation struct {
	// Applied holds the post-clamp delta per member, in member order.
	Applied []int
	// Dropped is the part of the delta nobody could take.
	Dropped int
}

// Distribute splits delta across members in proportion to their current
// size. Members must be in axis order; that order breaks ties and decides
// who receives remainder units first.
func Distribute(delta int, axis window.Axis, members []Member) Allocation {
	applied := make([]int, len(members))
	if delta == 0 {
		return Allocation{Applied: applied}
	}
	dir := sign(delta)

	eligible := make([]int, 0, len(members))
	total := 0
	for i, m := range members {
		if m.Settled {
			continue
		}
		if !window.Classify(m.Spec, m.Size, axis, dir).Growable() {
			continue
		}
		eligible = append(eligible, i)
		total += m.Size
	}
	if total == 0 {
		return Allocation{Applied: applied, Dropped: delta}
	}

	used := 0
	for _, i := range eligible {
		m := members[i]
		raw := delta * m.Size / total
		next := window.Clamp(m.Spec, axis, m.Size+raw)
		applied[i] = next - m.Size
		used += applied[i]
	}

	left := redistribute(delta-used, axis, members, eligible, applied)
	return Allocation{Applied: applied, Dropped: left}
}

// redistribute hands out left one unit at a time in eligible order, skipping
// members that are at their bound, until nothing is left or a full round
// places nothing. It returns what could not be placed.
func redistribute(left int, axis window.Axis, members []Member, eligible []int, applied []int) int {
	for left != 0 {
		step := sign(left)
		placed := false
		for _, i := range eligible {
			if left == 0 {
				break
			}
			m := members[i]
			size := m.Size + applied[i]
			if window.Clamp(m.Spec, axis, size+step) != size+step {
				continue
			}
			applied[i] += step
			left -= step
			placed = true
		}
		if !placed {
			break
		}
	}
	return left
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
