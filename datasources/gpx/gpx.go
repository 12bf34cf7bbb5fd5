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

// Package gpx reads and writes GPS Exchange Format
// (https://en.wikipedia.org/wiki/GPS_Exchange_Format) track files.
package gpx

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/trailsplit/trailsplit/track"
)

// Ext is the file extension handled by this package.
const Ext = ".gpx"

// Recognize reports whether the filename looks like a GPX file.
func Recognize(filename string) bool {
	return strings.ToLower(path.Ext(filename)) == Ext
}

// Read decodes all track points from a GPX document, in document
// order. Elevation and HDOP are nil on the returned points when the
// source has no such elements. A point with an unparseable timestamp
// makes the whole document fail; the caller decides whether to drop
// that file's contribution or abort the run.
func Read(r io.Reader) ([]track.Point, error) {
	dec := &decoder{Decoder: xml.NewDecoder(r)}

	var points []track.Point
	for {
		p, err := dec.nextPoint()
		if err != nil {
			return nil, fmt.Errorf("track point %d: %w", len(points), err)
		}
		if p == nil {
			break
		}
		points = append(points, *p)
	}

	return points, nil
}

// decoder wraps the XML decoder to get the next track point from the
// document. It tracks nesting state so we can be sure we're in the
// right part of the tree.
type decoder struct {
	*xml.Decoder
	stack nesting
}

// nextPoint returns the next available point from the XML document,
// or nil when the document is exhausted.
func (d *decoder) nextPoint() (*track.Point, error) {
	for {
		tkn, err := d.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decoding next XML token: %w", err)
		}

		switch elem := tkn.(type) {
		case xml.StartElement:
			if elem.Name.Local == "trkpt" && d.stack.path() == "gpx/trk/trkseg" {
				var point trkpt
				if err := d.DecodeElement(&point, &elem); err != nil {
					return nil, fmt.Errorf("decoding XML element as track point: %w", err)
				}

				ts, err := time.Parse(time.RFC3339, point.Time)
				if err != nil {
					return nil, fmt.Errorf("parsing timestamp %q: %w", point.Time, err)
				}

				return &track.Point{
					Lat:  point.Lat,
					Lon:  point.Lon,
					Time: ts,
					Ele:  point.Ele,
					HDOP: point.Hdop,
				}, nil
			}

			d.stack = append(d.stack, elem.Name.Local)

		case xml.EndElement:
			if len(d.stack) == 0 {
				return nil, fmt.Errorf("encountered end tag without opening: %s", elem.Name.Local)
			}
			d.stack = d.stack[:len(d.stack)-1]
		}
	}

	return nil, nil
}

type nesting []string

func (n nesting) path() string {
	return strings.Join(n, "/")
}

// trkpt is the wire representation of one track point. Optional
// child elements are pointers so that absence survives decoding and
// is omitted again on encoding; a real zero elevation is preserved.
type trkpt struct {
	XMLName xml.Name `xml:"trkpt"`
	Lat     float64  `xml:"lat,attr"`
	Lon     float64  `xml:"lon,attr"`
	Ele     *float64 `xml:"ele,omitempty"`
	Time    string   `xml:"time"`
	Hdop    *float64 `xml:"hdop,omitempty"`
}

type gpxDoc struct {
	XMLName xml.Name `xml:"gpx"`
	Version string   `xml:"version,attr"`
	Creator string   `xml:"creator,attr"`
	Xmlns   string   `xml:"xmlns,attr"`
	Trk     struct {
		Name   string `xml:"name,omitempty"`
		Trkseg struct {
			Trkpt []trkpt `xml:"trkpt"`
		} `xml:"trkseg"`
	} `xml:"trk"`
}

// WriteChunk serializes a chunk's points as a GPX 1.1 document with a
// single track segment. Every field present on a point round-trips;
// absent elevation/HDOP values are not serialized at all, so they
// cannot be confused with real zeros. Timestamps are written in UTC.
func WriteChunk(w io.Writer, c track.Chunk) error {
	doc := gpxDoc{
		Version: "1.1",
		Creator: "trailsplit",
		Xmlns:   "http://www.topografix.com/GPX/1/1",
	}
	doc.Trk.Name = c.Key
	doc.Trk.Trkseg.Trkpt = make([]trkpt, len(c.Points))

	for i, p := range c.Points {
		doc.Trk.Trkseg.Trkpt[i] = trkpt{
			Lat:  p.Lat,
			Lon:  p.Lon,
			Ele:  p.Ele,
			Time: p.Time.UTC().Format(time.RFC3339),
			Hdop: p.HDOP,
		}
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "\t")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding GPX document: %w", err)
	}

	// trailing newline after the closing tag
	_, err := io.WriteString(w, "\n")
	return err
}
