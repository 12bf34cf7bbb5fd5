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

// Package tscmd facilitates the command line interface (CLI)
// and implements the main().
package tscmd

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"github.com/trailsplit/trailsplit/track"
	"github.com/trailsplit/trailsplit/tsapp"
	"go.uber.org/zap"
)

// Version is stamped at build time with -ldflags.
var Version = "dev"

func Main() {
	flags := registerFlags()
	flag.Parse()

	// standard subcommands don't need a full pipeline config;
	// the default action (no subcommand) is to run the pipeline
	subCommand, subCommandFunc := getStandardSubcommand(flags)
	if subCommandFunc != nil {
		if err := checkFlagParsing(); err != nil {
			track.Log.Fatal("possible syntax error detected", zap.Error(err))
		}
		if err := subCommandFunc(); err != nil {
			track.Log.Fatal("subcommand failed",
				zap.String("subcommand", subCommand),
				zap.Error(err))
		}
		return
	}

	if remaining := flag.Args(); len(remaining) > 0 {
		track.Log.Fatal("unknown subcommand", zap.Strings("args", remaining))
	}

	cfg, err := loadConfigFile(flags.configFile)
	if err != nil {
		track.Log.Fatal("failed loading config", zap.Error(err))
	}
	flags.applyTo(cfg)

	app, err := tsapp.New(context.Background(), cfg)
	if err != nil {
		track.Log.Fatal("failed to set up application", zap.Error(err))
	}

	if err := app.Run(); err != nil {
		track.Log.Fatal("run failed", zap.Error(err))
	}
}

// cliFlags holds the parsed command line values so they can be
// overlaid onto the config file: a flag the user actually set wins
// over the file, an unset flag leaves the file's value alone.
type cliFlags struct {
	configFile string
	cfg        tsapp.Config
	fakeFiles  int
	fakePoints int
}

func registerFlags() *cliFlags {
	f := new(cliFlags)
	flag.StringVar(&f.configFile, "config", "", "path to a JSON config file")
	flag.StringVar(&f.cfg.Source, "source", "", "directory (or archive) of input track files")
	flag.StringVar(&f.cfg.Dest, "dest", "", "directory for output files; created if missing")
	flag.IntVar(&f.cfg.MaxPointsPerFile, "max-points", 0, "maximum points per size-partitioned file (default 30000)")
	flag.StringVar(&f.cfg.Timezone, "tz", "", "timezone offset in hours, or 'auto' (default 0)")
	flag.Float64Var(&f.cfg.MaxHDOP, "max-hdop", 0, "reject points with HDOP at or above this (default 5.0)")
	flag.Float64Var(&f.cfg.MinMovement, "min-move", 0, "minimum coordinate delta, in degrees, between kept points (default 1e-05)")
	flag.StringVar(&f.cfg.Prefix, "prefix", "", "optional prefix for output filenames")
	flag.BoolVar(&f.cfg.DisableFilter, "no-filter", false, "disable the quality filter stage")
	flag.BoolVar(&f.cfg.DisableSort, "no-sort", false, "do not correct unsorted input (date partitions may fragment)")
	flag.Float64Var(&f.cfg.Simplification, "simplify", 0, "path simplification epsilon in degrees (0 = off)")
	flag.IntVar(&f.cfg.NMEAReferenceYear, "nmea-ref-year", 0, "century reference for 2-digit NMEA years (default: current year)")
	flag.IntVar(&f.fakeFiles, "fake-files", 3, "number of files for the 'fake' subcommand")
	flag.IntVar(&f.fakePoints, "fake-points", 500, "points per file for the 'fake' subcommand")
	return f
}

// applyTo overlays flags the user explicitly set onto cfg.
func (f *cliFlags) applyTo(cfg *tsapp.Config) {
	set := map[string]bool{}
	flag.Visit(func(fl *flag.Flag) { set[fl.Name] = true })

	if set["source"] {
		cfg.Source = f.cfg.Source
	}
	if set["dest"] {
		cfg.Dest = f.cfg.Dest
	}
	if set["max-points"] {
		cfg.MaxPointsPerFile = f.cfg.MaxPointsPerFile
	}
	if set["tz"] {
		cfg.Timezone = f.cfg.Timezone
	}
	if set["max-hdop"] {
		cfg.MaxHDOP = f.cfg.MaxHDOP
	}
	if set["min-move"] {
		cfg.MinMovement = f.cfg.MinMovement
	}
	if set["prefix"] {
		cfg.Prefix = f.cfg.Prefix
	}
	if set["no-filter"] {
		cfg.DisableFilter = f.cfg.DisableFilter
	}
	if set["no-sort"] {
		cfg.DisableSort = f.cfg.DisableSort
	}
	if set["simplify"] {
		cfg.Simplification = f.cfg.Simplification
	}
	if set["nmea-ref-year"] {
		cfg.NMEAReferenceYear = f.cfg.NMEAReferenceYear
	}
}

// Gets CLI-only commands.
func getStandardSubcommand(flags *cliFlags) (string, func() error) {
	standardCommands := map[string]func() error{
		"fake": func() error {
			return tsapp.GenerateFake(flag.Arg(1), flags.fakeFiles, flags.fakePoints)
		},
		"help": func() error {
			fmt.Println(commandLineHelp)
			flag.PrintDefaults()
			return nil
		},
		"version": func() error {
			fmt.Println(Version)
			return nil
		},
	}

	if len(flag.Args()) > 0 {
		subCommand := flag.Arg(0)
		subCommandFunc, ok := standardCommands[subCommand]
		if ok {
			return subCommand, subCommandFunc
		}
	}
	return "", nil
}

// checkFlagParsing returns an error if it looks like the program may
// have been invoked with the flags in the wrong place, e.g.
// `trailsplit fake -fake-files 5 demo` where it needs to be
// `trailsplit -fake-files 5 fake demo` for the flag to be parsed.
func checkFlagParsing() error {
	if len(os.Args) > 2 && flag.NFlag() == 0 {
		return errors.New("it looks like you intended to specify flags, but none were parsed; make sure flags go before positional arguments")
	}
	return nil
}

func loadConfigFile(configFile string) (*tsapp.Config, error) {
	if configFile == "" {
		return new(tsapp.Config), nil
	}
	cfgBytes, err := os.ReadFile(configFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config file does not exist: %s", configFile)
		}
		return nil, err
	}
	cfg := new(tsapp.Config)
	if err := json.Unmarshal(cfgBytes, cfg); err != nil {
		return nil, fmt.Errorf("decoding config file: %w", err)
	}
	return cfg, nil
}

const commandLineHelp = `trailsplit merges GPS track files, removes redundant or low-quality
points, and splits the result into per-day and fixed-size GPX files.

Usage:

	trailsplit [flags]            run the pipeline
	trailsplit [flags] fake DIR   write synthetic GPX files into DIR
	trailsplit version            print the version
	trailsplit help               print this help

Flags:`
