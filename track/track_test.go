package track

import (
	"testing"
	"time"
)

func TestMerge(t *testing.T) {
	a := []Point{tp(1, 1, 0), tp(2, 2, time.Second)}
	b := []Point{tp(3, 3, time.Minute)}

	merged := Merge(a, b, nil)

	if len(merged) != 3 {
		t.Fatalf("merged %d points, want 3", len(merged))
	}
	// each file's internal order is preserved, files are
	// concatenated in argument order
	for i, want := range []float64{1, 2, 3} {
		if merged[i].Lat != want {
			t.Errorf("merged[%d].Lat = %v, want %v", i, merged[i].Lat, want)
		}
	}
}

func TestMergeEmpty(t *testing.T) {
	if merged := Merge(); len(merged) != 0 {
		t.Errorf("merging nothing produced %d points", len(merged))
	}
}

func TestOptionalFields(t *testing.T) {
	// absence must be distinguishable from a real zero
	withZeroEle := Point{Ele: fptr(0)}
	if _, ok := withZeroEle.Elevation(); !ok {
		t.Error("zero elevation reported as absent")
	}
	var without Point
	if _, ok := without.Elevation(); ok {
		t.Error("absent elevation reported as present")
	}
	if _, ok := without.Accuracy(); ok {
		t.Error("absent HDOP reported as present")
	}
}

func TestFakeTrack(t *testing.T) {
	points := FakeTrack(200, t0)

	if len(points) != 200 {
		t.Fatalf("generated %d points, want 200", len(points))
	}
	if !Sorted(points) {
		t.Error("generated track is not strictly chronological")
	}
	for i, p := range points {
		if p.Lat < -90 || p.Lat > 90 || p.Lon < -180 || p.Lon > 180 {
			t.Fatalf("point %d has out-of-range coordinates: (%f, %f)", i, p.Lat, p.Lon)
		}
	}
}
