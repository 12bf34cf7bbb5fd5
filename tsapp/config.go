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
	"errors"
	"fmt"
	"strconv"
	"time"
)

// Config describes one run of the pipeline. It is constructed once
// (from the config file and/or command line flags), defaulted and
// validated, and then read-only: stages never consult ambient state.
type Config struct {
	// Where input track files are discovered. May be a directory
	// or an archive file (e.g. a zip of GPX logs).
	Source string `json:"source,omitempty"`

	// Where output chunks are written; created if missing.
	Dest string `json:"dest,omitempty"`

	// Size-partitioner chunk cap. Default 30000, which keeps
	// output files within the limits of common map-visualization
	// tools.
	MaxPointsPerFile int `json:"max_points_per_file,omitempty"`

	// Offset applied to timestamps before deriving the calendar
	// day, in hours ("8", "-7.5"), or "auto" to look the zone up
	// from the first point's coordinates. Default "0".
	Timezone string `json:"timezone,omitempty"`

	// Quality filter thresholds. A point is kept only when it
	// moved more than MinMovement degrees (on either axis) from
	// the last kept point and, unless HDOP filtering is off, has
	// an HDOP value strictly below MaxHDOP.
	MaxHDOP     float64 `json:"max_hdop,omitempty"`
	MinMovement float64 `json:"min_movement,omitempty"`

	// Optional string prepended (with a hyphen) to every output
	// filename.
	Prefix string `json:"prefix,omitempty"`

	// DisableFilter skips the quality filter stage entirely.
	// DisableSort suppresses chronological correction of unsorted
	// input; with unsorted input, date-partition contiguity is
	// then not guaranteed.
	DisableFilter bool `json:"disable_filter,omitempty"`
	DisableSort   bool `json:"disable_sort,omitempty"`

	// Epsilon, in decimal degrees, for optional path
	// simplification of the filtered sequence. Zero disables it.
	Simplification float64 `json:"simplification,omitempty"`

	// The year supplying the century for 2-digit NMEA dates.
	// Zero means the current year.
	NMEAReferenceYear int `json:"nmea_reference_year,omitempty"`
}

const (
	defaultMaxPointsPerFile = 30000
	defaultMaxHDOP          = 5.0
	defaultMinMovement      = 1e-05 // ~1.1 m at the equator
)

func (cfg *Config) fillDefaults() {
	if cfg.MaxPointsPerFile == 0 {
		cfg.MaxPointsPerFile = defaultMaxPointsPerFile
	}
	if cfg.MaxHDOP == 0 {
		cfg.MaxHDOP = defaultMaxHDOP
	}
	if cfg.MinMovement == 0 {
		cfg.MinMovement = defaultMinMovement
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "0"
	}
}

func (cfg *Config) validate() error {
	if cfg.Source == "" {
		return errors.New("no source directory specified")
	}
	if cfg.Dest == "" {
		return errors.New("no destination directory specified")
	}
	if cfg.MaxPointsPerFile < 1 {
		return fmt.Errorf("max points per file must be positive: %d", cfg.MaxPointsPerFile)
	}
	if cfg.MaxHDOP <= 0 {
		return fmt.Errorf("max HDOP must be positive: %f", cfg.MaxHDOP)
	}
	if cfg.MinMovement < 0 {
		return fmt.Errorf("minimum movement must not be negative: %f", cfg.MinMovement)
	}
	if cfg.Simplification < 0 {
		return fmt.Errorf("simplification epsilon must not be negative: %f", cfg.Simplification)
	}
	if cfg.Timezone != tzAuto {
		if _, err := strconv.ParseFloat(cfg.Timezone, 64); err != nil {
			return fmt.Errorf("timezone must be an hour offset or %q: %q", tzAuto, cfg.Timezone)
		}
	}
	return nil
}

// tzAuto asks for the day-key offset to be derived from the first
// point's coordinates.
const tzAuto = "auto"

// fixedOffset returns the configured hour offset as a duration, and
// whether the offset is fixed at all (false means "auto").
func (cfg *Config) fixedOffset() (time.Duration, bool) {
	if cfg.Timezone == tzAuto {
		return 0, false
	}
	hours, err := strconv.ParseFloat(cfg.Timezone, 64)
	if err != nil {
		// validate() already rejected this
		return 0, true
	}
	return time.Duration(hours * float64(time.Hour)), true
}
