/*
	Trailsplit
	Copyright (c) 2013 Matthew Holt

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU Affero General Public License as published
	by the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU Affero General Public License for more details.

	You should have received a copy of the GNU Affero General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

package track

import (
	"slices"
	"time"
)

// Sorted reports whether the sequence is in strictly ascending
// chronological order. Two points with equal timestamps count as not
// sorted; the partitioners require strict order, and strictness also
// makes Sorted(SortChronologically(seq)) a meaningful check only for
// distinct timestamps.
func Sorted(seq []Point) bool {
	var last time.Time // zero value precedes any real GPS timestamp
	for _, p := range seq {
		if !p.Time.After(last) {
			return false
		}
		last = p.Time
	}
	return true
}

// FirstUnordered returns the index of the first point whose timestamp
// is not strictly after its predecessor's, or -1 if the sequence is
// sorted. Useful for diagnostics when the caller has suppressed
// sorting.
func FirstUnordered(seq []Point) int {
	for i := 1; i < len(seq); i++ {
		if !seq[i].Time.After(seq[i-1].Time) {
			return i
		}
	}
	return -1
}

// SortChronologically returns a copy of the sequence ordered by
// ascending timestamp. The sort is stable: points with equal
// timestamps retain their relative input order. Stability matters
// because the quality filter is order-sensitive; an unstable sort
// could change which of two simultaneous points becomes the filter's
// last-kept reference.
func SortChronologically(seq []Point) []Point {
	sorted := slices.Clone(seq)
	slices.SortStableFunc(sorted, func(a, b Point) int {
		return a.Time.Compare(b.Time)
	})
	return sorted
}
