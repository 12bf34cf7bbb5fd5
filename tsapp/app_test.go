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

package tsapp

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/trailsplit/trailsplit/datasources/gpx"
	"github.com/trailsplit/trailsplit/track"
)

// writeTestGPX writes points as one GPX input file.
func writeTestGPX(t *testing.T, dir, name string, points []track.Point) {
	t.Helper()
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := gpx.WriteChunk(f, track.Chunk{Key: name, Points: points}); err != nil {
		t.Fatal(err)
	}
}

func testPoint(lat, lon float64, ts time.Time) track.Point {
	hdop := 1.0
	return track.Point{Lat: lat, Lon: lon, Time: ts, HDOP: &hdop}
}

func TestRunEndToEnd(t *testing.T) {
	source := t.TempDir()
	dest := filepath.Join(t.TempDir(), "out") // must be created by the run

	day1 := time.Date(2023, 4, 1, 10, 0, 0, 0, time.UTC)
	day2 := time.Date(2023, 4, 2, 10, 0, 0, 0, time.UTC)

	// the file that sorts FIRST by name holds the chronologically
	// LATER day, so the merged stream is unsorted and the pipeline
	// must correct it
	writeTestGPX(t, source, "walk1.gpx", []track.Point{
		testPoint(10.0, 10.0, day2),
		testPoint(10.1, 10.1, day2.Add(time.Minute)),
	})
	writeTestGPX(t, source, "walk2.gpx", []track.Point{
		testPoint(1.0, 1.0, day1),
		testPoint(1.1, 1.1, day1.Add(time.Minute)),
		testPoint(1.2, 1.2, day1.Add(2*time.Minute)),
	})

	app, err := New(context.Background(), &Config{
		Source:           source,
		Dest:             dest,
		MaxPointsPerFile: 2,
		Prefix:           "walk",
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := app.Run(); err != nil {
		t.Fatal(err)
	}

	// date partitions: one file per calendar day
	assertPointCount(t, filepath.Join(dest, "walk-2023-04-01.gpx"), 3)
	assertPointCount(t, filepath.Join(dest, "walk-2023-04-02.gpx"), 2)

	// size partitions: 5 points with a cap of 2 -> 2, 2, 1
	assertPointCount(t, filepath.Join(dest, "walk-01.gpx"), 2)
	assertPointCount(t, filepath.Join(dest, "walk-02.gpx"), 2)
	assertPointCount(t, filepath.Join(dest, "walk-03.gpx"), 1)
}

func assertPointCount(t *testing.T, fpath string, want int) {
	t.Helper()
	f, err := os.Open(fpath)
	if err != nil {
		t.Fatalf("expected output file missing: %v", err)
	}
	defer f.Close()
	points, err := gpx.Read(f)
	if err != nil {
		t.Fatalf("%s: %v", fpath, err)
	}
	if len(points) != want {
		t.Errorf("%s has %d points, want %d", fpath, len(points), want)
	}
}

func TestRunEmptySourceIsNoOp(t *testing.T) {
	source := t.TempDir()
	dest := filepath.Join(t.TempDir(), "out")

	app, err := New(context.Background(), &Config{Source: source, Dest: dest})
	if err != nil {
		t.Fatal(err)
	}
	if err := app.Run(); err != nil {
		t.Fatalf("empty source should be a clean no-op: %v", err)
	}
	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Error("destination directory was created despite empty input")
	}
}

func TestRunSkipsBrokenFile(t *testing.T) {
	source := t.TempDir()
	dest := filepath.Join(t.TempDir(), "out")

	day := time.Date(2023, 4, 1, 10, 0, 0, 0, time.UTC)
	writeTestGPX(t, source, "good.gpx", []track.Point{
		testPoint(1.0, 1.0, day),
		testPoint(1.1, 1.1, day.Add(time.Minute)),
	})
	if err := os.WriteFile(filepath.Join(source, "bad.gpx"), []byte("<gpx><trk><trkseg><trkpt"), 0o644); err != nil {
		t.Fatal(err)
	}

	app, err := New(context.Background(), &Config{Source: source, Dest: dest})
	if err != nil {
		t.Fatal(err)
	}
	if err := app.Run(); err != nil {
		t.Fatalf("valid files should still be processed: %v", err)
	}

	assertPointCount(t, filepath.Join(dest, "2023-04-01.gpx"), 2)
}

func TestGenerateFake(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "fakes")

	if err := GenerateFake(dir, 2, 25); err != nil {
		t.Fatal(err)
	}

	assertPointCount(t, filepath.Join(dir, "fake-01.gpx"), 25)
	assertPointCount(t, filepath.Join(dir, "fake-02.gpx"), 25)
}
