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
	"time"

	"github.com/brianvoe/gofakeit/v7"
)

// FakeTrack generates n plausible track points for demos and tests:
// a random walk starting at a random location, with timestamps
// advancing a few seconds per sample. Most points carry elevation
// and HDOP values; some are left absent, like real receiver output.
// The result is strictly chronological.
func FakeTrack(n int, start time.Time) []Point {
	lat := gofakeit.Float64Range(-60, 60)
	lon := gofakeit.Float64Range(-170, 170)
	ele := gofakeit.Float64Range(0, 2500)

	points := make([]Point, 0, n)
	ts := start

	for range n {
		// a GPS logger emits a point every few seconds; drift the
		// position by up to a few dozen meters between samples
		ts = ts.Add(time.Duration(gofakeit.Number(1, 15)) * time.Second)
		lat += gofakeit.Float64Range(-0.0004, 0.0004)
		lon += gofakeit.Float64Range(-0.0004, 0.0004)
		ele += gofakeit.Float64Range(-4, 4)

		p := Point{Lat: lat, Lon: lon, Time: ts}

		const presenceOdds = 10
		if gofakeit.Number(1, presenceOdds) > 1 { // occasionally no elevation
			e := ele
			p.Ele = &e
		}
		if gofakeit.Number(1, presenceOdds) > 2 { // occasionally no fix quality
			hdop := gofakeit.Float64Range(0.5, 9)
			p.HDOP = &hdop
		}

		points = append(points, p)
	}

	return points
}
