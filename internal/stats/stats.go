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
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Basic statistics of a set of samples
type Stats struct {
	Min    float32 `json:"min"`
	Max    float32 `json:"max"`
	Mean   float32 `json:"mean"`
	StdDev float32 `json:"stdDev"`
}

// Calculates basic statistics for the given data. Empty data yields all zeros
func NewStats(data []float32) *Stats {
	if len(data) == 0 {
		return &Stats{}
	}
	d := make([]float64, len(data))
	for i, v := range data {
		d[i] = float64(v)
	}
	mean, stdDev := stat.MeanStdDev(d, nil)
	if len(d) == 1 {
		stdDev = 0
	}
	return &Stats{
		Min:    float32(floats.Min(d)),
		Max:    float32(floats.Max(d)),
		Mean:   float32(mean),
		StdDev: float32(stdDev),
	}
}

func (s *Stats) String() string {
	return fmt.Sprintf("min %.4g mean %.4g max %.4g stdDev %.4g", s.Min, s.Mean, s.Max, s.StdDev)
}

// Peak signal to noise ratio of test against ref in dB, for the given peak value.
// Returns +Inf for identical inputs, and NaN for a length mismatch
func PSNR(ref, test []float32, peak float32) float64 {
	if len(ref) != len(test) || len(ref) == 0 {
		return math.NaN()
	}
	sumSq := float64(0)
	for i, r := range ref {
		diff := float64(test[i] - r)
		sumSq += diff * diff
	}
	if sumSq == 0 {
		return math.Inf(1)
	}
	mse := sumSq / float64(len(ref))
	return 10 * math.Log10(float64(peak)*float64(peak)/mse)
}
