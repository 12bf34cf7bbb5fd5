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

// Package tsapp wires the point-processing pipeline together:
// discovering input files, parsing them, running the track package's
// stages in order, and writing the partitioned output chunks.
package tsapp

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/maruel/natural"
	"github.com/mholt/archives"
	"github.com/ringsaturn/tzf"
	"go.uber.org/zap"

	"github.com/trailsplit/trailsplit/datasources/gpx"
	"github.com/trailsplit/trailsplit/datasources/nmea0183"
	"github.com/trailsplit/trailsplit/track"
)

// App runs the whole pipeline for one configuration.
type App struct {
	ctx context.Context
	cfg *Config
	log *zap.Logger
}

// New returns an App ready to Run. The config is defaulted and
// validated here; after this it is read-only.
func New(ctx context.Context, cfg *Config) (*App, error) {
	cfg.fillDefaults()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &App{
		ctx: ctx,
		cfg: cfg,
		log: track.Log.Named("app").With(zap.String("run_id", uuid.NewString())),
	}, nil
}

// Run executes the pipeline: load and merge all input files, verify
// or restore chronological order, filter, then partition by calendar
// day and by size, writing every chunk as its own output file. An
// empty input or an empty filtered sequence is a clean no-op, not an
// error.
func (a *App) Run() error {
	fsys, files, err := a.discoverInputs()
	if err != nil {
		return fmt.Errorf("discovering input files: %w", err)
	}
	if len(files) == 0 {
		a.log.Info("no input track files found; nothing to do",
			zap.String("source", a.cfg.Source))
		return nil
	}

	merged := track.Merge(a.loadAll(fsys, files)...)
	a.log.Info("loaded input files",
		zap.Int("files", len(files)),
		zap.Int("points", len(merged)))

	if idx := track.FirstUnordered(merged); idx >= 0 {
		if a.cfg.DisableSort {
			// precondition violation: date groups may not be
			// contiguous downstream; proceed as configured
			a.log.Warn("input is not chronological and sorting is disabled; date partitions may be fragmented",
				zap.Int("first_unordered_index", idx))
		} else {
			merged = track.SortChronologically(merged)
		}
	}

	cleaned := merged
	if !a.cfg.DisableFilter {
		cleaned = track.Filter(cleaned, track.FilterOptions{
			MinMovement: a.cfg.MinMovement,
			MaxHDOP:     a.cfg.MaxHDOP,
			FilterHDOP:  true,
		})
		a.log.Info("filtered points",
			zap.Int("kept", len(cleaned)),
			zap.Int("dropped", len(merged)-len(cleaned)))
	}

	if a.cfg.Simplification > 0 {
		before := len(cleaned)
		cleaned = track.Simplify(cleaned, a.cfg.Simplification)
		a.log.Info("simplified path",
			zap.Int("kept", len(cleaned)),
			zap.Int("dropped", before-len(cleaned)))
	}

	if len(cleaned) == 0 {
		a.log.Info("no points remain after cleaning; nothing to write")
		return nil
	}

	offset, err := a.resolveOffset(cleaned[0])
	if err != nil {
		return fmt.Errorf("resolving timezone offset: %w", err)
	}

	if err := os.MkdirAll(a.cfg.Dest, 0o755); err != nil {
		return fmt.Errorf("creating destination directory: %w", err)
	}

	// the two partitioners are independent views of the same
	// cleaned sequence, not a cascade; both outputs are written
	if err := a.writeChunks(track.PartitionByDate(cleaned, offset)); err != nil {
		return fmt.Errorf("writing date-partitioned output: %w", err)
	}
	if err := a.writeChunks(track.PartitionBySize(cleaned, a.cfg.MaxPointsPerFile)); err != nil {
		return fmt.Errorf("writing size-partitioned output: %w", err)
	}

	return nil
}

// discoverInputs enumerates recognized track files under the source,
// which may be a plain directory or an archive file. Filenames are
// returned in natural order ("track2.gpx" before "track10.gpx") so
// numbered logger output concatenates the way a human would expect.
func (a *App) discoverInputs() (fs.FS, []string, error) {
	fsys, err := archives.FileSystem(a.ctx, a.cfg.Source, nil)
	if err != nil {
		return nil, nil, err
	}

	var files []string
	err = fs.WalkDir(fsys, ".", func(fpath string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if strings.HasPrefix(path.Base(fpath), ".") && fpath != "." {
			// skip hidden files & folders
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil // traverse into subdirectories
		}
		if gpx.Recognize(fpath) || nmea0183.Recognize(fpath) {
			files = append(files, fpath)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	sort.Slice(files, func(i, j int) bool {
		return natural.Less(files[i], files[j])
	})

	return fsys, files, nil
}

// loadAll parses each discovered file into its own point list,
// preserving file order. A file that fails to parse is logged and
// contributes nothing, but does not abort the run; valid files still
// get processed.
func (a *App) loadAll(fsys fs.FS, files []string) [][]track.Point {
	sets := make([][]track.Point, 0, len(files))
	for _, fpath := range files {
		points, err := a.loadOne(fsys, fpath)
		if err != nil {
			a.log.Error("skipping unreadable input file",
				zap.String("file", fpath),
				zap.Error(err))
			continue
		}
		sets = append(sets, points)
	}
	return sets
}

func (a *App) loadOne(fsys fs.FS, fpath string) ([]track.Point, error) {
	file, err := fsys.Open(fpath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	switch {
	case gpx.Recognize(fpath):
		return gpx.Read(file)
	case nmea0183.Recognize(fpath):
		return nmea0183.Read(file, a.cfg.NMEAReferenceYear, a.log.Named("nmea0183"))
	}
	return nil, fmt.Errorf("unrecognized track format: %s", fpath)
}

// resolveOffset returns the duration added to timestamps before
// deriving calendar-day keys. With "-tz auto" the zone is looked up
// from the first point's coordinates and its offset taken at that
// point's instant, so DST is accounted for at least at the start of
// the track.
func (a *App) resolveOffset(first track.Point) (time.Duration, error) {
	if offset, fixed := a.cfg.fixedOffset(); fixed {
		return offset, nil
	}

	finder, err := tzf.NewDefaultFinder()
	if err != nil {
		return 0, fmt.Errorf("loading timezone data: %w", err)
	}
	name := finder.GetTimezoneName(first.Lon, first.Lat)
	if name == "" {
		return 0, fmt.Errorf("no timezone found for coordinates (%f, %f)", first.Lat, first.Lon)
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return 0, fmt.Errorf("unusable timezone %q: %w", name, err)
	}

	_, offsetSecs := first.Time.In(loc).Zone()
	offset := time.Duration(offsetSecs) * time.Second

	a.log.Info("derived timezone from first point",
		zap.String("timezone", name),
		zap.Duration("offset", offset))

	return offset, nil
}

// writeChunks serializes every chunk to its own GPX file in the
// destination directory. Write failures are fatal to this
// partitioning mode but independent of the other mode's output.
func (a *App) writeChunks(chunks []track.Chunk) error {
	for _, c := range chunks {
		fpath := filepath.Join(a.cfg.Dest, c.Filename(a.cfg.Prefix, "gpx"))

		if err := writeChunkFile(fpath, c); err != nil {
			return err
		}

		a.log.Info("wrote output file",
			zap.String("file", fpath),
			zap.Int("points", len(c.Points)))
	}
	return nil
}

func writeChunkFile(fpath string, c track.Chunk) error {
	out, err := os.Create(fpath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", fpath, err)
	}
	defer out.Close()

	if err := gpx.WriteChunk(out, c); err != nil {
		return fmt.Errorf("writing %s: %w", fpath, err)
	}
	return out.Close()
}

// GenerateFake writes numFiles synthetic GPX files of pointsPerFile
// points each into dir, for demos and testing. Files are spread over
// consecutive days so date partitioning has something to do.
func GenerateFake(dir string, numFiles, pointsPerFile int) error {
	if dir == "" {
		return fmt.Errorf("no output directory specified")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	log := track.Log.Named("fake")
	start := time.Now().UTC().AddDate(0, 0, -numFiles).Truncate(time.Hour)

	for i := range numFiles {
		c := track.Chunk{
			Key:    fmt.Sprintf("fake-%02d", i+1),
			Points: track.FakeTrack(pointsPerFile, start.AddDate(0, 0, i)),
		}
		fpath := filepath.Join(dir, c.Filename("", "gpx"))
		if err := writeChunkFile(fpath, c); err != nil {
			return err
		}
		log.Info("wrote fake track file",
			zap.String("file", fpath),
			zap.Int("points", pointsPerFile))
	}

	return nil
}
