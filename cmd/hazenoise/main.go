// Copyright (C) 2020 Markus L. Noga
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/cpuid"
	"github.com/mlnoga/hazenoise/internal/config"
	"github.com/mlnoga/hazenoise/internal/job"
	"github.com/mlnoga/hazenoise/internal/ops"
	"github.com/mlnoga/hazenoise/internal/rest"
	"github.com/mlnoga/hazenoise/internal/rng"
)

const version = "0.1.0"

var cfgFile = flag.String("config", "", "load parameters from JSON or YAML `file`")
var input = flag.String("input", "", "ground truth image `file`, overrides input_path")
var out = flag.String("out", "", "output directory, overrides output_dir")
var seed = flag.Uint64("seed", 0, "random seed, overrides seed. 0=pick from clock")
var log = flag.String("log", "", "also save log output to `file`")
var addr = flag.String("addr", ":8080", "listen address for serve")
var chroot = flag.String("chroot", "", "serve: change filesystem root to `dir` before accepting jobs (requires root)")
var setuid = flag.Int("setuid", -1, "serve: drop to the given user `id` after chroot, -1=keep")

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Hazenoise %s synthesizes noisy observations of ground truth images for training restoration models.
This program comes with ABSOLUTELY NO WARRANTY.
This is free software, and you are welcome to redistribute it under certain conditions.
Refer to https://www.gnu.org/licenses/gpl-3.0.en.html for details.

Usage: %s [-flag value] (run|serve|legal|version)

Commands:
  run     Degrade the input image and write the GT/noisy pair (default)
  serve   Serve the REST API
  legal   Show license and attribution information
  version Show version information

Flags:
`, version, os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	cmd := "run"
	if args := flag.Args(); len(args) > 0 {
		cmd = args[0]
	}

	switch cmd {
	case "run":
		if err := run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err.Error())
			os.Exit(1)
		}
	case "serve":
		printBanner(os.Stdout)
		if err := rest.MakeSandbox(*chroot, *setuid, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err.Error())
			os.Exit(1)
		}
		if err := rest.Serve(*addr); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err.Error())
			os.Exit(1)
		}
	case "legal":
		fmt.Fprint(os.Stdout, legal)
	case "version":
		fmt.Fprintf(os.Stdout, "Version %s\n", version)
	default:
		flag.Usage()
		os.Exit(2)
	}
}

// Reports host capabilities the way the first log lines of every run do
func printBanner(w io.Writer) {
	fmt.Fprintf(w, "Hazenoise %s on %s with %d physical cores, %d logical\n",
		version, cpuid.CPU.BrandName, cpuid.CPU.PhysicalCores, cpuid.CPU.LogicalCores)
}

// Builds the job configuration: defaults, then the optional config file, then
// non-empty command line values
func loadConfig(cfgFile, input, out string, seed uint64) (cfg config.Config, err error) {
	cfg = config.Default()
	if cfgFile != "" {
		if cfg, err = config.Load(cfgFile); err != nil {
			return cfg, err
		}
	}
	if input != "" {
		cfg.InputPath = input
	}
	if out != "" {
		cfg.OutputDir = out
	}
	if seed != 0 {
		cfg.Seed = seed
	}
	return cfg, nil
}

func run() (err error) {
	cfg, err := loadConfig(*cfgFile, *input, *out, *seed)
	if err != nil {
		return err
	}

	// Log to stdout, and also to a file if selected
	var logWriter io.Writer = os.Stdout
	if *log != "" {
		if err = os.MkdirAll(filepath.Dir(*log), 0755); err != nil {
			return fmt.Errorf("%w: %w", ops.ErrIO, err)
		}
		logFile, err := os.Create(*log)
		if err != nil {
			return fmt.Errorf("%w: unable to open logfile: %w", ops.ErrIO, err)
		}
		defer logFile.Close()
		buffered := bufio.NewWriter(logFile)
		defer buffered.Flush()
		logWriter = io.MultiWriter(os.Stdout, buffered)
	}

	printBanner(logWriter)
	_, err = job.Run(cfg, ops.NewContext(logWriter, rng.New(job.SeedFor(cfg))))
	return err
}
