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

// Package shot simulates photon counting noise.
package shot

import (
	"fmt"

	"github.com/mlnoga/hazenoise/internal/frame"
	"github.com/mlnoga/hazenoise/internal/ops"
	"gonum.org/v1/gonum/stat/distuv"
)

// Lower bound for the strength, avoids division by zero
const minStrength = 1e-6

// Replaces each sample with a Poisson draw at a photon scale of 1/Strength, then clips to [0,255].
// Smaller strengths mean more photons and relatively less noise
type OpShotNoise struct {
	ops.OpBase
	Strength float32 `json:"strength"`
}

func NewOpShotNoise(strength float32) *OpShotNoise {
	return &OpShotNoise{
		OpBase:   ops.OpBase{Type: "shotNoise", Active: true},
		Strength: strength,
	}
}

// Photons per unit of sample value
func (op *OpShotNoise) Scale() float64 {
	s := float64(op.Strength)
	if s < minStrength {
		s = minStrength
	}
	return 1 / s
}

func (op *OpShotNoise) Apply(f *frame.Image, c *ops.Context) (result *frame.Image, err error) {
	scale := op.Scale()
	fmt.Fprintf(c.Log, "%d: Applying shot noise with strength %.4g, %.4g photons per unit\n",
		f.ID, op.Strength, scale)

	result = f.NewLike()
	poisson := distuv.Poisson{Src: c.Rand.Dist()}
	for i, d := range f.Data {
		photons := float64(d) * scale
		if photons <= 0 {
			result.Data[i] = 0
			continue
		}
		poisson.Lambda = photons
		result.Data[i] = float32(poisson.Rand() / scale)
	}
	result.Clip(0, 255)
	return result, nil
}
