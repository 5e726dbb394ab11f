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

// Package haze attenuates an image by atmospheric transmission and blends in atmospheric light.
package haze

import (
	"fmt"
	"math"

	"github.com/mlnoga/hazenoise/internal/frame"
	"github.com/mlnoga/hazenoise/internal/ops"
)

// Composites haze with a fixed scene depth over the whole image
type OpHaze struct {
	ops.OpBase
	Beta  float32 `json:"beta"`  // Extinction coefficient
	A     float32 `json:"A"`     // Atmospheric light level
	Depth float32 `json:"depth"` // Fixed scene depth in [0,1]
}

func NewOpHaze(beta, a, depth float32) *OpHaze {
	return &OpHaze{
		OpBase: ops.OpBase{Type: "haze", Active: true},
		Beta:   beta,
		A:      a,
		Depth:  depth,
	}
}

// Fraction of scene light surviving the atmosphere
func (op *OpHaze) Transmission() float32 {
	return float32(math.Exp(-float64(op.Beta) * float64(op.Depth)))
}

func (op *OpHaze) Apply(f *frame.Image, c *ops.Context) (result *frame.Image, err error) {
	t := op.Transmission()
	fmt.Fprintf(c.Log, "%d: Applying haze with beta %.4g depth %.4g transmission %.4g atmospheric light %.4g\n",
		f.ID, op.Beta, op.Depth, t, op.A)

	result = f.NewLike()
	if t == 1 {
		copy(result.Data, f.Data)
	} else {
		airlight := op.A * (1 - t)
		for i, d := range f.Data {
			result.Data[i] = d*t + airlight
		}
	}
	result.Clip(0, 255)
	return result, nil
}
