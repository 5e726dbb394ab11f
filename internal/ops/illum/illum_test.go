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

package illum

import (
	"errors"
	"io"
	"math"
	"testing"

	"github.com/mlnoga/hazenoise/internal/frame"
	"github.com/mlnoga/hazenoise/internal/ops"
	"github.com/mlnoga/hazenoise/internal/rng"
)

func TestRadialGainBounds(t *testing.T) {
	width, height := 31, 17
	for _, strength := range []float32{0, 0.25, 0.8, 1} {
		for _, center := range [][2]int{{0, 0}, {15, 8}, {30, 16}} {
			gain := RadialGain(width, height, center[0], center[1], strength)
			if len(gain) != width*height {
				t.Fatalf("len(gain)=%d; want %d", len(gain), width*height)
			}
			lower := 1 - strength
			for i, g := range gain {
				if g < lower-1e-6 || g > 1 {
					t.Errorf("strength=%f center=%v g[%d]=%f; want [%f,1]", strength, center, i, g, lower)
				}
			}
			peak := gain[center[1]*width+center[0]]
			if math.Abs(float64(peak)-1) > 1e-5 {
				t.Errorf("strength=%f center=%v peak gain=%f; want 1", strength, center, peak)
			}
		}
	}
}

func TestRadialGainDecays(t *testing.T) {
	gain := RadialGain(9, 1, 0, 0, 0.8)
	for x := 1; x < len(gain); x++ {
		if gain[x] >= gain[x-1] {
			t.Errorf("g[%d]=%f >= g[%d]=%f; want decreasing", x, gain[x], x-1, gain[x-1])
		}
	}
}

func TestRadialGainSinglePixel(t *testing.T) {
	gain := RadialGain(1, 1, 0, 0, 0.8)
	if math.IsNaN(float64(gain[0])) || math.Abs(float64(gain[0])-1) > 1e-5 {
		t.Errorf("single pixel gain=%f; want 1", gain[0])
	}
}

func TestZeroStrengthIsIdentity(t *testing.T) {
	c := ops.NewContext(io.Discard, rng.New(3))
	f := frame.NewImage(8, 8)
	for i := range f.Data {
		f.Data[i] = float32(i)
	}
	op := NewOpIllumination(ModeRadial, 0)
	if op.IsActive() {
		t.Errorf("zero strength operator is active")
	}
	res, err := op.Apply(f, c)
	if err != nil {
		t.Fatal(err)
	}
	for i, d := range res.Data {
		if d != f.Data[i] {
			t.Errorf("d[%d]=%f; want %f", i, d, f.Data[i])
		}
	}

	// no random draws were consumed
	if a, b := c.Rand.Intn(1<<30), rng.New(3).Intn(1<<30); a != b {
		t.Errorf("zero strength consumed random draws")
	}
}

func TestApplyDarkensWithinBounds(t *testing.T) {
	c := ops.NewContext(io.Discard, rng.New(11))
	f := frame.NewImage(20, 10)
	for i := range f.Data {
		f.Data[i] = 200
	}
	strength := float32(0.8)
	res, err := NewOpIllumination(ModeRadial, strength).Apply(f, c)
	if err != nil {
		t.Fatal(err)
	}
	if res.Width != f.Width || res.Height != f.Height {
		t.Fatalf("dims %s; want %s", res.DimensionsToString(), f.DimensionsToString())
	}
	for i, d := range res.Data {
		if d > 200 || d < 200*(1-strength)-1e-3 {
			t.Errorf("d[%d]=%f; want [%f,200]", i, d, 200*(1-strength))
		}
	}
}

func TestApplyIsReproducible(t *testing.T) {
	f := frame.NewImage(13, 7)
	for i := range f.Data {
		f.Data[i] = 100
	}
	op := NewOpIllumination(ModeRadial, 0.5)
	a, err := op.Apply(f, ops.NewContext(io.Discard, rng.New(99)))
	if err != nil {
		t.Fatal(err)
	}
	b, err := op.Apply(f, ops.NewContext(io.Discard, rng.New(99)))
	if err != nil {
		t.Fatal(err)
	}
	for i := range a.Data {
		if a.Data[i] != b.Data[i] {
			t.Fatalf("d[%d] %f != %f for equal seeds", i, a.Data[i], b.Data[i])
		}
	}
}

func TestParseMode(t *testing.T) {
	if m, err := ParseMode("radial"); err != nil || m != ModeRadial {
		t.Errorf("ParseMode(radial)=%v,%v; want radial,nil", m, err)
	}
	for _, s := range []string{"", "linear", "Radial"} {
		if _, err := ParseMode(s); !errors.Is(err, ops.ErrConfiguration) {
			t.Errorf("ParseMode(%q) err=%v; want ErrConfiguration", s, err)
		}
	}
}

func TestUnsupportedModeFails(t *testing.T) {
	c := ops.NewContext(io.Discard, rng.New(1))
	op := NewOpIllumination(Mode(7), 0.5)
	if _, err := op.Apply(frame.NewImage(2, 2), c); !errors.Is(err, ops.ErrConfiguration) {
		t.Errorf("err=%v; want ErrConfiguration", err)
	}
}
