// Copyright (C) 2026 Tamgrid (dev@tamgrid.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package quantize turns weighted population segments into a fixed-length
// sequence of dot assignments for the grid visualizer.
//
// The allocation is proportional with three guarantees:
//
//   - a segment with a nonzero count is never rounded away entirely,
//   - the last segment absorbs the rounding remainder, so the output length
//     matches the requested dot count whenever the dot budget covers the
//     number of nonzero segments,
//   - input order is preserved (callers list segments largest to smallest,
//     so the remainder lands on the conventional trailing segment).
package quantize

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
)

// Segment is one named slice of a population.
//
// Count is an absolute share of the set's total population, not a
// percentage. Color is a display hex color carried through untouched.
type Segment struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Count int64  `json:"count"`
	Color string `json:"color"`
}

// Counts returns the number of dots each segment receives, indexed to match
// the input slice.
//
// The proportion math uses the recomputed sum of the segment counts rather
// than a caller-declared total, which guards against drift between the two
// when segments are edited without updating the declared population.
//
// If every count is zero, all dots go to the first segment so the grid is
// never blank while segments exist.
func Counts(segments []Segment, dotCount int) []int {
	counts := make([]int, len(segments))
	if dotCount <= 0 || len(segments) == 0 {
		return counts
	}

	var total int64
	for _, s := range segments {
		total += s.Count
	}
	if total <= 0 {
		counts[0] = dotCount
		return counts
	}

	// Number of nonzero segments after each index. Rounding for an early
	// segment may not consume a dot reserved for a later nonzero one.
	reserve := make([]int, len(segments))
	for i := len(segments) - 2; i >= 0; i-- {
		reserve[i] = reserve[i+1]
		if segments[i+1].Count > 0 {
			reserve[i]++
		}
	}

	remaining := dotCount
	for i, s := range segments {
		if i == len(segments)-1 {
			// The trailing segment takes whatever rounding left over;
			// independent rounding per segment would not sum to dotCount.
			counts[i] = remaining
			remaining = 0
			break
		}

		proportion := float64(s.Count) / float64(total)
		dots := int(math.Round(proportion * float64(dotCount)))

		if limit := remaining - reserve[i]; dots > limit {
			dots = limit
		}
		if dots < 0 {
			dots = 0
		}
		// A nonzero segment always gets at least one dot so tiny markets
		// stay visible in the grid.
		if s.Count > 0 && dots < 1 && remaining > 0 {
			dots = 1
		}
		if dots > remaining {
			dots = remaining
		}

		counts[i] = dots
		remaining -= dots
	}

	return counts
}

// Allocate distributes dotCount dots across segments in proportion to their
// counts and returns one Segment per dot, in input order.
//
// totalPopulation is accepted for contract symmetry with the rest of the
// system but is not trusted for proportion math; see Counts.
func Allocate(segments []Segment, totalPopulation int64, dotCount int) []Segment {
	_ = totalPopulation

	counts := Counts(segments, dotCount)
	out := make([]Segment, 0, max(dotCount, 0))
	for i, n := range counts {
		for j := 0; j < n; j++ {
			out = append(out, segments[i])
		}
	}
	return out
}

// FormatCount renders a population count the way the UI abbreviates it:
// 8_100_000_000 -> "~8.1B", 250_000_000 -> "250M", 12_500 -> "~13K".
// Exact multiples drop the approximation tilde.
func FormatCount(n int64) string {
	switch {
	case n >= 1_000_000_000:
		if n%1_000_000_000 == 0 {
			return fmt.Sprintf("%dB", n/1_000_000_000)
		}
		return fmt.Sprintf("~%.1fB", float64(n)/1_000_000_000)
	case n >= 1_000_000:
		if n%1_000_000 == 0 {
			return fmt.Sprintf("%dM", n/1_000_000)
		}
		return fmt.Sprintf("~%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		if n%1_000 == 0 {
			return fmt.Sprintf("%dK", n/1_000)
		}
		return fmt.Sprintf("~%.0fK", float64(n)/1_000)
	default:
		return fmt.Sprintf("%d", n)
	}
}

// FormatExact renders a count with thousands separators for prompt text,
// e.g. 8_100_000_000 -> "8,100,000,000".
func FormatExact(n int64) string {
	return humanize.Comma(n)
}
