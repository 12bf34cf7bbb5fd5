package gpx_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/trailsplit/trailsplit/datasources/gpx"
	"github.com/trailsplit/trailsplit/track"
)

const sampleDoc = `<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="test" xmlns="http://www.topografix.com/GPX/1/1">
	<metadata>
		<time>2023-04-01T17:16:10Z</time>
	</metadata>
	<trk>
		<name>Morning Ride</name>
		<trkseg>
			<trkpt lat="46.103714" lon="7.228800">
				<ele>1523.4</ele>
				<time>2023-04-01T17:16:10Z</time>
				<hdop>1.2</hdop>
			</trkpt>
			<trkpt lat="46.103899" lon="7.228912">
				<ele>0</ele>
				<time>2023-04-01T17:16:25Z</time>
			</trkpt>
			<trkpt lat="46.104102" lon="7.229001">
				<time>2023-04-01T17:16:40Z</time>
			</trkpt>
		</trkseg>
	</trk>
</gpx>
`

func TestRead(t *testing.T) {
	points, err := gpx.Read(strings.NewReader(sampleDoc))
	if err != nil {
		t.Fatal(err)
	}
	if len(points) != 3 {
		t.Fatalf("read %d points, want 3", len(points))
	}

	first := points[0]
	if first.Lat != 46.103714 || first.Lon != 7.2288 {
		t.Errorf("first point coordinates = (%v, %v)", first.Lat, first.Lon)
	}
	want := time.Date(2023, 4, 1, 17, 16, 10, 0, time.UTC)
	if !first.Time.Equal(want) {
		t.Errorf("first point time = %v, want %v", first.Time, want)
	}
	if ele, ok := first.Elevation(); !ok || ele != 1523.4 {
		t.Errorf("first point elevation = %v (present=%v)", ele, ok)
	}
	if hdop, ok := first.Accuracy(); !ok || hdop != 1.2 {
		t.Errorf("first point HDOP = %v (present=%v)", hdop, ok)
	}

	// a real zero elevation is present, not absent
	if ele, ok := points[1].Elevation(); !ok || ele != 0 {
		t.Errorf("second point elevation = %v (present=%v), want present zero", ele, ok)
	}
	if _, ok := points[1].Accuracy(); ok {
		t.Error("second point has no hdop element but HDOP is present")
	}

	// a point with no optional elements at all
	if _, ok := points[2].Elevation(); ok {
		t.Error("third point has no ele element but elevation is present")
	}
}

func TestReadMalformedTimestamp(t *testing.T) {
	doc := `<gpx><trk><trkseg>
		<trkpt lat="1" lon="2"><time>2023-04-01T17:16:10Z</time></trkpt>
		<trkpt lat="1" lon="2"><time>yesterday-ish</time></trkpt>
	</trkseg></trk></gpx>`

	_, err := gpx.Read(strings.NewReader(doc))
	if err == nil {
		t.Fatal("expected error for malformed timestamp")
	}
	// the diagnostic must identify the offending point
	if !strings.Contains(err.Error(), "track point 1") {
		t.Errorf("error does not identify point index: %v", err)
	}
}

func TestReadIgnoresWaypoints(t *testing.T) {
	// only trkpt elements inside gpx/trk/trkseg are track points
	doc := `<gpx>
		<wpt lat="9" lon="9"><time>2023-04-01T00:00:00Z</time></wpt>
		<trk><trkseg>
			<trkpt lat="1" lon="2"><time>2023-04-01T17:16:10Z</time></trkpt>
		</trkseg></trk>
	</gpx>`

	points, err := gpx.Read(strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}
	if len(points) != 1 || points[0].Lat != 1 {
		t.Fatalf("unexpected points: %v", points)
	}
}

func TestWriteChunkRoundTrip(t *testing.T) {
	ele := 12.5
	hdop := 3.25
	chunk := track.Chunk{
		Key: "2023-04-01",
		Points: []track.Point{
			{Lat: 46.103714, Lon: 7.2288, Time: time.Date(2023, 4, 1, 17, 16, 10, 0, time.UTC), Ele: &ele, HDOP: &hdop},
			{Lat: 46.103899, Lon: 7.228912, Time: time.Date(2023, 4, 1, 17, 16, 25, 0, time.UTC)},
		},
	}

	var buf bytes.Buffer
	if err := gpx.WriteChunk(&buf, chunk); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	// absent optional fields must not be serialized as placeholders
	if strings.Count(out, "<ele>") != 1 {
		t.Errorf("expected exactly one ele element:\n%s", out)
	}
	if strings.Count(out, "<hdop>") != 1 {
		t.Errorf("expected exactly one hdop element:\n%s", out)
	}

	points, err := gpx.Read(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(points) != 2 {
		t.Fatalf("round-tripped %d points, want 2", len(points))
	}
	if points[0].Lat != chunk.Points[0].Lat || points[0].Lon != chunk.Points[0].Lon {
		t.Errorf("coordinates did not round-trip: %v", points[0])
	}
	if !points[0].Time.Equal(chunk.Points[0].Time) {
		t.Errorf("timestamp did not round-trip: %v", points[0].Time)
	}
	if got, ok := points[0].Accuracy(); !ok || got != hdop {
		t.Errorf("HDOP did not round-trip: %v (present=%v)", got, ok)
	}
	if _, ok := points[1].Elevation(); ok {
		t.Error("absent elevation came back present")
	}
}

func TestRecognize(t *testing.T) {
	for filename, want := range map[string]bool{
		"ride.gpx":   true,
		"RIDE.GPX":   true,
		"ride.gpx.1": false,
		"ride.nmea":  false,
		"gpx":        false,
	} {
		if got := gpx.Recognize(filename); got != want {
			t.Errorf("Recognize(%q) = %v, want %v", filename, got, want)
		}
	}
}
