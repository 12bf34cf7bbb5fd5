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
	"fmt"
	"time"
)

// dayKeyFormat is the calendar-day key derived from a shifted
// timestamp, and also the chunk key (and so the filename stem) for
// date-partitioned output.
const dayKeyFormat = "2006-01-02"

// dayKey returns the calendar-day key for a timestamp after applying
// the configured offset. The shifted time is read in UTC so that only
// the offset determines the local day, not the source's own zone.
func dayKey(ts time.Time, offset time.Duration) string {
	return ts.UTC().Add(offset).Format(dayKeyFormat)
}

// PartitionByDate splits a sequence into contiguous chunks, one per
// local calendar day, where "local" means the timestamp shifted by
// offset. Precondition: seq is sorted in ascending chronological
// order; only then are day groups contiguous and the concatenation of
// all chunks, in emission order, exactly the input. Chunks reference
// sub-slices of seq rather than copies, so the input remains
// inspectable and other partitioners can run over the same data.
func PartitionByDate(seq []Point, offset time.Duration) []Chunk {
	var chunks []Chunk
	var start int
	var currentKey string

	for i, p := range seq {
		key := dayKey(p.Time, offset)
		if i == 0 {
			currentKey = key
			continue
		}
		if key != currentKey {
			chunks = append(chunks, Chunk{Key: currentKey, Points: seq[start:i]})
			start = i
			currentKey = key
		}
	}

	// flush the final bucket even if no boundary was ever crossed
	if start < len(seq) {
		chunks = append(chunks, Chunk{Key: currentKey, Points: seq[start:]})
	}

	return chunks
}

// PartitionBySize splits a sequence into consecutive chunks of at
// most maxPoints each; the final chunk may be smaller. Chunk keys are
// ascending 1-based indexes, zero-padded to at least two digits.
// Size partitioning ignores date boundaries entirely; it is an
// independent view of the same sequence, not a refinement of the
// date partitioner's output.
func PartitionBySize(seq []Point, maxPoints int) []Chunk {
	if maxPoints <= 0 || len(seq) == 0 {
		return nil
	}

	chunks := make([]Chunk, 0, (len(seq)+maxPoints-1)/maxPoints)
	for start := 0; start < len(seq); start += maxPoints {
		end := min(start+maxPoints, len(seq))
		chunks = append(chunks, Chunk{
			Key:    fmt.Sprintf("%02d", len(chunks)+1),
			Points: seq[start:end],
		})
	}

	return chunks
}
