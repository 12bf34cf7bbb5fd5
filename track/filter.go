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

import "math"

// FilterOptions configures the quality filter.
type FilterOptions struct {
	// Minimum coordinate delta, in decimal degrees, that a point
	// must move (on either axis) relative to the last kept point
	// to be kept itself. This is a component-wise threshold, not a
	// geodesic distance; at mid latitudes 1e-05 degrees is roughly
	// a meter. A deliberate approximation.
	MinMovement float64

	// When FilterHDOP is set, a point is kept only if it has an
	// HDOP value and that value is strictly less than MaxHDOP.
	// A point with no HDOP value at all is rejected. Unknown
	// accuracy is treated as unacceptable, not as a free pass.
	MaxHDOP    float64
	FilterHDOP bool
}

// noCoordinate initializes the last-kept reference. It is far outside
// the valid coordinate range, so the first point always passes the
// movement test.
const noCoordinate = -9999.0

// Filter removes points that did not move enough relative to the last
// kept point, and, when HDOP filtering is enabled, points without an
// acceptable HDOP value. One forward pass; order is preserved, and
// each kept point becomes the new movement reference (not merely the
// previous input point). The input is not modified.
func Filter(seq []Point, opt FilterOptions) []Point {
	kept := make([]Point, 0, len(seq))
	lastLat, lastLon := noCoordinate, noCoordinate

	for _, p := range seq {
		movedEnough := math.Abs(p.Lat-lastLat) > opt.MinMovement ||
			math.Abs(p.Lon-lastLon) > opt.MinMovement

		accuracyOK := true
		if opt.FilterHDOP {
			hdop, ok := p.Accuracy()
			accuracyOK = ok && hdop < opt.MaxHDOP
		}

		if movedEnough && accuracyOK {
			kept = append(kept, p)
			lastLat, lastLon = p.Lat, p.Lon
		}
	}

	return kept
}
