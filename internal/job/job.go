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

// Package job runs one degradation of a ground truth image and writes the GT/noisy pair.
package job

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mlnoga/hazenoise/internal/config"
	"github.com/mlnoga/hazenoise/internal/frame"
	"github.com/mlnoga/hazenoise/internal/ops"
	"github.com/mlnoga/hazenoise/internal/rng"
	"github.com/mlnoga/hazenoise/internal/stats"
)

// Number of full-size float32 buffers alive at peak, for the memory estimate
const workingBuffers = 6

// Output locations of a completed run
type Result struct {
	GTPath    string `json:"gt"`
	NoisyPath string `json:"noisy"`
	Seed      uint64 `json:"seed"`
}

// Returns the seed to use for the given configuration. Zero picks one from the clock
func SeedFor(cfg config.Config) uint64 {
	if cfg.Seed != 0 {
		return cfg.Seed
	}
	return uint64(time.Now().UnixNano())
}

// Returns the GT and noisy output paths for the given input file and output directory
func Paths(inputPath, outputDir string) (gtPath, noisyPath string) {
	base := Stem(inputPath)
	gtPath = filepath.Join(outputDir, "GT", base+".bmp")
	noisyPath = filepath.Join(outputDir, "noisy", base, base+"_noisy.bmp")
	return gtPath, noisyPath
}

// Returns the file name without directory and final suffix. Names whose only dot is
// the leading one, like ".bmp", keep their full name
func Stem(path string) string {
	name := filepath.Base(path)
	ext := filepath.Ext(name)
	if ext == name {
		return name
	}
	return strings.TrimSuffix(name, ext)
}

// Loads the ground truth, applies the degradation pipeline and writes both images.
// Uses the random source from the context if present, else one seeded from the configuration
func Run(cfg config.Config, c *ops.Context) (res *Result, err error) {
	modes, err := cfg.Parse()
	if err != nil {
		return nil, err
	}
	pipeline := cfg.Pipeline(modes)
	if c.Rand == nil {
		c.Rand = rng.New(SeedFor(cfg))
	}
	fmt.Fprintf(c.Log, "Using random seed %d\n", c.Rand.Seed())

	gt, err := ops.NewOpLoad(0, cfg.InputPath, modes.Gray).Apply(nil, c)
	if err != nil {
		return nil, err
	}
	warnMemory(gt, c)

	noisy, err := pipeline.Apply(gt, c)
	if err != nil {
		return nil, err
	}

	gtPath, noisyPath := Paths(cfg.InputPath, cfg.OutputDir)
	if err = writePair(gt, gtPath, noisy, noisyPath); err != nil {
		return nil, err
	}

	fmt.Fprintf(c.Log, "%d: PSNR %.2f dB, estimated noise %.4g\n", gt.ID,
		stats.PSNR(gt.Data, noisy.Data, 255), stats.EstimateNoise(noisy.Data, noisy.Width))
	fmt.Fprintf(c.Log, "Generated noisy image:\n  GT: %s\n  Noisy: %s\n", gtPath, noisyPath)
	return &Result{GTPath: gtPath, NoisyPath: noisyPath, Seed: c.Rand.Seed()}, nil
}

func warnMemory(f *frame.Image, c *ops.Context) {
	needMB := len(f.Data) * 4 * workingBuffers / 1024 / 1024
	if c.MemoryMB > 0 && needMB > c.MemoryMB*7/10 {
		fmt.Fprintf(c.Log, "%d: WARNING estimated working set of %d MiB exceeds 70%% of %d MiB physical memory\n",
			f.ID, needMB, c.MemoryMB)
	}
}

// Writes both images next to their targets, then moves them into place. Staging failures
// remove all temporaries, so no half-written pair is left behind
func writePair(gt *frame.Image, gtPath string, noisy *frame.Image, noisyPath string) (err error) {
	for _, dir := range []string{filepath.Dir(gtPath), filepath.Dir(noisyPath)} {
		if err = os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("%w: creating directory: %w", ops.ErrIO, err)
		}
	}

	gtTmp, err := stage(gt, gtPath)
	if err != nil {
		return err
	}
	noisyTmp, err := stage(noisy, noisyPath)
	if err != nil {
		os.Remove(gtTmp)
		return err
	}

	if err = os.Rename(gtTmp, gtPath); err != nil {
		os.Remove(gtTmp)
		os.Remove(noisyTmp)
		return fmt.Errorf("%w: %w", ops.ErrIO, err)
	}
	if err = os.Rename(noisyTmp, noisyPath); err != nil {
		os.Remove(noisyTmp)
		return fmt.Errorf("%w: %w", ops.ErrIO, err)
	}
	return nil
}

// Writes f as BMP into a temporary file in the directory of fileName, and returns its name
func stage(f *frame.Image, fileName string) (tmpName string, err error) {
	tmp, err := os.CreateTemp(filepath.Dir(fileName), "."+filepath.Base(fileName)+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("%w: %w", ops.ErrIO, err)
	}
	tmpName = tmp.Name()
	if err = f.WriteBMP(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("%w: writing %s: %w", ops.ErrIO, fileName, err)
	}
	if err = tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("%w: writing %s: %w", ops.ErrIO, fileName, err)
	}
	return tmpName, nil
}
