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

// A Go implementation of the Ramer-Douglas-Peucker algorithm.
// Interactive demo and information: https://karthaus.nl/rdp/
//
// As explained by Karthaus, the algorithm "thinks" of a line between
// the first and last point of the curve, finds the in-between point
// farthest from that line, and either drops all in-between points
// (if the farthest is within epsilon) or recurses on the two halves
// split at the outlier.
//
// Distances here are perpendicular distances in flat coordinate
// space (decimal degrees), consistent with the rest of the pipeline,
// which deliberately avoids geodesic math.

// Simplify reduces the number of points in the sequence using RDP
// with the given epsilon (in decimal degrees). Endpoints are always
// preserved. An epsilon of zero or a sequence of two or fewer points
// is returned unchanged.
func Simplify(seq []Point, epsilon float64) []Point {
	if epsilon <= 0 {
		return seq
	}
	return simplifyPath(seq, epsilon)
}

func simplifyPath(points []Point, ep float64) []Point {
	const dimensions = 2
	if len(points) <= dimensions {
		return points
	}

	l := line{points[0], points[len(points)-1]}

	idx, maxDist := seekMostDistantPoint(l, points)
	if maxDist >= ep {
		left := simplifyPath(points[:idx+1], ep)
		right := simplifyPath(points[idx:], ep)
		return append(left[:len(left)-1], right...)
	}

	// the most distant point is still too close, so only the two
	// end points survive
	return []Point{points[0], points[len(points)-1]}
}

// seekMostDistantPoint returns the index of the interior point most
// distant from the line, using perpendicular distance. The loop
// starts at 1 and ends before len-1 so the endpoints, which define
// the line, are never candidates.
func seekMostDistantPoint(l line, points []Point) (idx int, maxDist float64) {
	for i := 1; i < len(points)-1; i++ {
		if d := l.distanceToPoint(points[i]); d > maxDist {
			maxDist = d
			idx = i
		}
	}
	return idx, maxDist
}

type line struct {
	start, end Point
}

// distanceToPoint returns the perpendicular distance of a point to the line.
func (l line) distanceToPoint(pt Point) float64 {
	a, b, c := l.coefficients()
	return math.Abs(a*pt.Lat+b*pt.Lon+c) / math.Sqrt(a*a+b*b)
}

// coefficients returns the three coefficients that define a line in
// the form ax + by + c = 0.
func (l line) coefficients() (a, b, c float64) {
	a = l.start.Lon - l.end.Lon
	b = l.end.Lat - l.start.Lat
	c = l.start.Lat*l.end.Lon - l.end.Lat*l.start.Lon
	return a, b, c
}
