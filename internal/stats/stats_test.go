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


package stats

import (
	"math"
	"testing"
)

func TestNewStats(t *testing.T) {
	epsilon := 1e-5
	s := NewStats([]float32{1, 2, 3, 4, 5})
	if s.Min != 1 || s.Max != 5 {
		t.Errorf("min=%f max=%f; want 1 5", s.Min, s.Max)
	}
	if math.Abs(float64(s.Mean-3)) > epsilon {
		t.Errorf("mean=%f; want 3", s.Mean)
	}
	if math.Abs(float64(s.StdDev)-math.Sqrt(2.5)) > epsilon {
		t.Errorf("stdDev=%f; want %f", s.StdDev, math.Sqrt(2.5))
	}

	single := NewStats([]float32{7})
	if single.Mean != 7 || single.StdDev != 0 {
		t.Errorf("single sample mean=%f stdDev=%f; want 7 0", single.Mean, single.StdDev)
	}

	empty := NewStats(nil)
	if *empty != (Stats{}) {
		t.Errorf("empty stats %v; want zero", empty)
	}
}

func TestPSNR(t *testing.T) {
	ref := []float32{10, 20, 30, 40}
	if p := PSNR(ref, ref, 255); !math.IsInf(p, 1) {
		t.Errorf("identical psnr=%f; want +Inf", p)
	}

	test := []float32{11, 21, 31, 41} // mse=1
	want := 10 * math.Log10(255*255)
	if p := PSNR(ref, test, 255); math.Abs(p-want) > 1e-9 {
		t.Errorf("psnr=%f; want %f", p, want)
	}

	if p := PSNR(ref, test[:2], 255); !math.IsNaN(p) {
		t.Errorf("mismatched psnr=%f; want NaN", p)
	}
}

func TestEstimateNoise(t *testing.T) {
	width, height := 16, 16
	flat := make([]float32, width*height)
	for i := range flat {
		flat[i] = 100
	}
	if n := EstimateNoise(flat, width); n != 0 {
		t.Errorf("flat image noise=%f; want 0", n)
	}

	// a linear ramp is annihilated by the Laplacian-like mask
	ramp := make([]float32, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			ramp[y*width+x] = float32(x + 2*y)
		}
	}
	if n := EstimateNoise(ramp, width); n > 1e-4 {
		t.Errorf("ramp noise=%f; want 0", n)
	}

	checker := make([]float32, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if (x+y)%2 == 0 {
				checker[y*width+x] = 10
			}
		}
	}
	if n := EstimateNoise(checker, width); n <= 0 {
		t.Errorf("checkerboard noise=%f; want >0", n)
	}

	if n := EstimateNoise([]float32{1, 2, 3, 4}, 2); n != 0 {
		t.Errorf("tiny image noise=%f; want 0", n)
	}
}
