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

// Package track implements the point-processing pipeline: merging,
// order verification, chronological sorting, quality filtering, and
// partitioning of GPS track points into bounded output chunks.
package track

import (
	"fmt"
	"time"
)

// Point is a single GPS sample. Elevation and HDOP are optional in
// most track formats, so they are pointers: nil means the source had
// no value, which is distinct from a real zero value. Points are
// never mutated after creation; pipeline stages only reorder or
// select them.
type Point struct {
	Lat  float64   // decimal degrees
	Lon  float64   // decimal degrees
	Time time.Time // absolute, with zone information from the source

	Ele  *float64 // elevation in meters, if the source had one
	HDOP *float64 // horizontal dilution of precision; lower is better
}

// Elevation returns the point's elevation and whether it has one.
func (p Point) Elevation() (float64, bool) {
	if p.Ele == nil {
		return 0, false
	}
	return *p.Ele, true
}

// Accuracy returns the point's HDOP value and whether it has one.
func (p Point) Accuracy() (float64, bool) {
	if p.HDOP == nil {
		return 0, false
	}
	return *p.HDOP, true
}

// Merge concatenates per-file point lists into a single sequence.
// Each input list's internal order is preserved, but no ordering is
// guaranteed across lists; callers that need chronological order
// should verify and sort the result.
func Merge(fileSets ...[]Point) []Point {
	var total int
	for _, set := range fileSets {
		total += len(set)
	}
	merged := make([]Point, 0, total)
	for _, set := range fileSets {
		merged = append(merged, set...)
	}
	return merged
}

// Chunk is a named sub-sequence of points destined for one output
// file. The key is either a calendar day ("2023-04-01") or a
// zero-padded index ("01"), depending on which partitioner made it.
// Points is a sub-slice of the partitioned sequence, not a copy.
type Chunk struct {
	Key    string
	Points []Point
}

// Filename returns the output filename for the chunk:
// {prefix-}{key}.{ext}. The prefix is optional.
func (c Chunk) Filename(prefix, ext string) string {
	if prefix != "" {
		return fmt.Sprintf("%s-%s.%s", prefix, c.Key, ext)
	}
	return fmt.Sprintf("%s.%s", c.Key, ext)
}
