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

// Package config holds the immutable parameter set of a degradation run.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mlnoga/hazenoise/internal/frame"
	"github.com/mlnoga/hazenoise/internal/ops"
	"github.com/mlnoga/hazenoise/internal/ops/blur"
	"github.com/mlnoga/hazenoise/internal/ops/distort"
	"github.com/mlnoga/hazenoise/internal/ops/haze"
	"github.com/mlnoga/hazenoise/internal/ops/illum"
	"github.com/mlnoga/hazenoise/internal/ops/shot"
	"gopkg.in/yaml.v3"
)

// Parameters of a degradation run. Passed by value and never mutated by the pipeline
type Config struct {
	InputPath string `json:"input_path" yaml:"input_path"` // Ground truth image
	OutputDir string `json:"output_dir" yaml:"output_dir"` // Root of the GT/ and noisy/ trees

	Beta       float32 `json:"beta"        yaml:"beta"`        // Haze extinction coefficient
	A          float32 `json:"A"           yaml:"A"`           // Atmospheric light level
	DepthFixed float32 `json:"depth_fixed" yaml:"depth_fixed"` // Scene depth in [0,1]

	BlurSigma  float32 `json:"blur_sigma"  yaml:"blur_sigma"`
	ScatterStd float32 `json:"scatter_std" yaml:"scatter_std"`

	DistortStrength float32 `json:"distort_strength" yaml:"distort_strength"`
	IllumStrength   float32 `json:"illum_strength"   yaml:"illum_strength"`
	IllumMode       string  `json:"illum_mode"       yaml:"illum_mode"`

	ShotStrength float32 `json:"shot_strength" yaml:"shot_strength"`

	Seed     uint64 `json:"seed"      yaml:"seed"`      // 0 picks a seed from the clock
	GrayMode string `json:"gray_mode" yaml:"gray_mode"` // L or hcl
}

// Returns the reference parameter set
func Default() Config {
	return Config{
		OutputDir:       "out",
		Beta:            15.0,
		A:               120.0,
		DepthFixed:      0.2,
		BlurSigma:       0.5,
		ScatterStd:      0.1,
		DistortStrength: 0.2,
		IllumStrength:   0.8,
		IllumMode:       "radial",
		ShotStrength:    0.1,
		GrayMode:        "L",
	}
}

// Loads a configuration from a JSON or YAML file, on top of the defaults
func Load(fileName string) (cfg Config, err error) {
	cfg = Default()
	data, err := os.ReadFile(fileName)
	if err != nil {
		return cfg, fmt.Errorf("%w: reading config: %w", ops.ErrIO, err)
	}

	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&cfg)
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(&cfg)
	default:
		return cfg, fmt.Errorf("%w: unknown config file suffix in %s", ops.ErrConfiguration, fileName)
	}
	if err != nil {
		return cfg, fmt.Errorf("%w: parsing %s: %s", ops.ErrConfiguration, fileName, err.Error())
	}
	return cfg, nil
}

// Parsed selector values of a configuration
type Modes struct {
	Illum illum.Mode
	Gray  frame.GrayMode
}

// Parses the mode selectors and checks the parameters for which the degradation
// models are undefined. The only place configuration values are checked
func (cfg Config) Parse() (m Modes, err error) {
	if m.Illum, err = illum.ParseMode(cfg.IllumMode); err != nil {
		return m, err
	}
	if m.Gray, err = frame.ParseGrayMode(cfg.GrayMode); err != nil {
		return m, fmt.Errorf("%w: %w", ops.ErrConfiguration, err)
	}
	if cfg.BlurSigma < 0 {
		return m, fmt.Errorf("%w: negative blur_sigma %g", ops.ErrConfiguration, cfg.BlurSigma)
	}
	if cfg.ScatterStd < 0 {
		return m, fmt.Errorf("%w: negative scatter_std %g", ops.ErrConfiguration, cfg.ScatterStd)
	}
	return m, nil
}

// Builds the degradation pipeline: haze, illumination, blur and scatter, distortion, shot noise
func (cfg Config) Pipeline(m Modes) *ops.OpSequence {
	return ops.NewOpSequence(
		haze.NewOpHaze(cfg.Beta, cfg.A, cfg.DepthFixed),
		illum.NewOpIllumination(m.Illum, cfg.IllumStrength),
		blur.NewOpBlurScatter(cfg.BlurSigma, cfg.ScatterStd),
		distort.NewOpDistort(cfg.DistortStrength),
		shot.NewOpShotNoise(cfg.ShotStrength),
	)
}
