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

// Package nmea0183 reads NMEA 0183 logs (GPS receivers, radios,
// marine electronics, etc). The official NMEA Standard is paywalled;
// free reference manuals with the important information:
//   - https://receiverhelp.trimble.com/alloy-gnss/en-us/NMEA-0183messages_MessageOverview.html
//   - https://www.sparkfun.com/datasheets/GPS/NMEA%20Reference%20Manual-Rev2.1-Dec07.pdf
package nmea0183

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/adrianmo/go-nmea"
	"go.uber.org/zap"

	"github.com/trailsplit/trailsplit/track"
)

// Exts are the file extensions handled by this package.
var Exts = []string{".nme", ".nmea"}

// Recognize reports whether the filename looks like an NMEA log.
func Recognize(filename string) bool {
	ext := strings.ToLower(path.Ext(filename))
	for _, e := range Exts {
		if ext == e {
			return true
		}
	}
	return false
}

// Read decodes track points from RMC and GGA sentences in an NMEA
// log. GGA sentences carry altitude and HDOP but no date, so their
// date is taken from the most recent RMC sentence; GGA sentences
// seen before any RMC are dropped (with a warning) because their
// timestamp cannot be made absolute. NMEA dates have 2-digit years;
// refYear supplies the century (0 means the current year). Other
// sentence types (GSV, GSA, VTG, ...) are skipped. A sentence that
// fails to parse fails the whole file.
func Read(r io.Reader, refYear int, logger *zap.Logger) ([]track.Point, error) {
	if refYear == 0 {
		refYear = time.Now().UTC().Year()
	}

	scanner := bufio.NewScanner(r)

	// some radios (like a Yaesu) produce carriage-return-only
	// newlines, which the default scanner does not support
	scanner.Split(scanLines)

	var points []track.Point
	var lastDate nmea.Date

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		sentence, err := nmea.Parse(line)
		if err != nil {
			return nil, fmt.Errorf("parsing line after %d points: %w", len(points), err)
		}

		switch s := sentence.(type) {
		case nmea.RMC:
			if s.Validity != nmea.ValidRMC {
				continue // receiver had no fix
			}
			points = append(points, track.Point{
				Lat:  s.Latitude,
				Lon:  s.Longitude,
				Time: nmea.DateTime(refYear, s.Date, s.Time),
			})
			lastDate = s.Date // remember this since GGA sentences don't include date

		case nmea.GGA:
			if !lastDate.Valid {
				logger.Warn("GGA sentence before any sentence with a date; cannot make timestamp, dropping data point",
					zap.String("raw", s.Raw))
				continue
			}
			p := track.Point{
				Lat:  s.Latitude,
				Lon:  s.Longitude,
				Time: nmea.DateTime(refYear, lastDate, s.Time),
			}
			alt := s.Altitude
			p.Ele = &alt
			if s.HDOP > 0 {
				hdop := s.HDOP
				p.HDOP = &hdop
			}
			points = append(points, p)

		default:
			// plenty of sentence types carry no position fix;
			// skip them rather than reject the log
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanner error: %w", err)
	}

	return points, nil
}

// scanLines is a bufio.SplitFunc for Scanners that tolerates variable newlines,
// including carriage-return-only. https://stackoverflow.com/a/74962607/1048862
func scanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		if data[i] == '\n' {
			// We have a line terminated by single newline.
			return i + 1, data[0:i], nil
		}
		// We have a line terminated by carriage return at the end of the buffer.
		if !atEOF && len(data) == i+1 {
			return 0, nil, nil
		}
		advance = i + 1
		if len(data) > i+1 && data[i+1] == '\n' {
			advance++
		}
		return advance, data[0:i], nil
	}
	// If we're at EOF, we have a final, non-terminated line. Return it.
	if atEOF {
		return len(data), data, nil
	}
	// Request more data.
	return 0, nil, nil
}
