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

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/mlnoga/hazenoise/internal/frame"
	"github.com/mlnoga/hazenoise/internal/ops"
	"github.com/mlnoga/hazenoise/internal/ops/illum"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	fileName := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(fileName, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return fileName
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	m, err := cfg.Parse()
	if err != nil {
		t.Errorf("default config invalid: %s", err)
	}
	if m.Illum != illum.ModeRadial || m.Gray != frame.GrayITU601 {
		t.Errorf("default modes %v %v; want radial L", m.Illum, m.Gray)
	}
	if cfg.Beta != 15 || cfg.A != 120 || cfg.IllumMode != "radial" || cfg.ShotStrength != 0.1 {
		t.Errorf("unexpected defaults %+v", cfg)
	}
}

func TestLoadJSON(t *testing.T) {
	fileName := writeFile(t, "cfg.json", `{"input_path": "gt/chart.bmp", "beta": 0, "A": 90, "illum_strength": 0.3, "seed": 7}`)
	cfg, err := Load(fileName)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.InputPath != "gt/chart.bmp" || cfg.Beta != 0 || cfg.A != 90 || cfg.IllumStrength != 0.3 || cfg.Seed != 7 {
		t.Errorf("loaded %+v", cfg)
	}
	// untouched keys keep their defaults
	if cfg.BlurSigma != 0.5 || cfg.OutputDir != "out" {
		t.Errorf("defaults lost: blur_sigma=%f output_dir=%s", cfg.BlurSigma, cfg.OutputDir)
	}
}

func TestLoadYAML(t *testing.T) {
	fileName := writeFile(t, "cfg.yaml", "input_path: a.bmp\noutput_dir: data\nblur_sigma: 1.5\nillum_mode: radial\ngray_mode: hcl\n")
	cfg, err := Load(fileName)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.InputPath != "a.bmp" || cfg.OutputDir != "data" || cfg.BlurSigma != 1.5 || cfg.GrayMode != "hcl" {
		t.Errorf("loaded %+v", cfg)
	}
	if cfg.DepthFixed != 0.2 {
		t.Errorf("depth_fixed=%f; want default 0.2", cfg.DepthFixed)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); !errors.Is(err, ops.ErrIO) {
		t.Errorf("missing file err=%v; want ErrIO", err)
	}
	tcs := []struct{ Name, Content string }{
		{"cfg.toml", "beta = 1"},
		{"bad.json", "{beta:"},
		{"unknown.json", `{"gamma": 1}`},
		{"unknown.yml", "gamma: 1\n"},
	}
	for _, tc := range tcs {
		if _, err := Load(writeFile(t, tc.Name, tc.Content)); !errors.Is(err, ops.ErrConfiguration) {
			t.Errorf("%s err=%v; want ErrConfiguration", tc.Name, err)
		}
	}
}

func TestParseRejects(t *testing.T) {
	tcs := []struct {
		Name   string
		Modify func(*Config)
	}{
		{"illum_mode", func(c *Config) { c.IllumMode = "linear" }},
		{"illum_mode with zero strength", func(c *Config) { c.IllumMode = "linear"; c.IllumStrength = 0 }},
		{"gray_mode", func(c *Config) { c.GrayMode = "rgb" }},
		{"blur_sigma", func(c *Config) { c.BlurSigma = -1 }},
		{"scatter_std", func(c *Config) { c.ScatterStd = -0.1 }},
	}
	for _, tc := range tcs {
		cfg := Default()
		tc.Modify(&cfg)
		if _, err := cfg.Parse(); !errors.Is(err, ops.ErrConfiguration) {
			t.Errorf("%s: err=%v; want ErrConfiguration", tc.Name, err)
		}
	}
}

func TestPipeline(t *testing.T) {
	cfg := Default()
	cfg.IllumStrength, cfg.DistortStrength = 0, 0
	cfg.GrayMode = "hcl"
	m, err := cfg.Parse()
	if err != nil {
		t.Fatal(err)
	}
	if m.Gray != frame.GrayHCL {
		t.Errorf("gray mode %v; want hcl", m.Gray)
	}
	seq := cfg.Pipeline(m)
	want := []struct {
		Type   string
		Active bool
	}{
		{"haze", true}, {"illumination", false}, {"blurScatter", true}, {"distort", false}, {"shotNoise", true},
	}
	if len(seq.Steps) != len(want) {
		t.Fatalf("%d steps; want %d", len(seq.Steps), len(want))
	}
	for i, w := range want {
		if seq.Steps[i].GetType() != w.Type || seq.Steps[i].IsActive() != w.Active {
			t.Errorf("step %d %s active=%v; want %s active=%v", i, seq.Steps[i].GetType(), seq.Steps[i].IsActive(), w.Type, w.Active)
		}
	}
}
