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

// Package distort simulates atmospheric turbulence by resampling an image through a random offset field.
package distort

import (
	"fmt"
	"math"

	"github.com/mlnoga/hazenoise/internal/frame"
	"github.com/mlnoga/hazenoise/internal/ops"
)

// Displaces every pixel by a random offset in [-Strength/2, Strength/2] along each axis
type OpDistort struct {
	ops.OpBase
	Strength float32 `json:"strength"` // Maximum displacement in pixels
}

// Creates a distortion operator. Inactive for strengths <= 0
func NewOpDistort(strength float32) *OpDistort {
	return &OpDistort{
		OpBase:   ops.OpBase{Type: "distort", Active: strength > 0},
		Strength: strength,
	}
}

func (op *OpDistort) Apply(f *frame.Image, c *ops.Context) (result *frame.Image, err error) {
	if op.Strength <= 0 {
		return f, nil
	}
	fmt.Fprintf(c.Log, "%d: Applying turbulence distortion with strength %.4g\n", f.ID, op.Strength)

	dx := RandomField(len(f.Data), op.Strength, c)
	dy := RandomField(len(f.Data), op.Strength, c)
	result = Remap(f, dx, dy)
	result.Clip(0, 255)
	return result, nil
}

// Returns n uniform random offsets in [-strength/2, strength/2)
func RandomField(n int, strength float32, c *ops.Context) []float32 {
	field := make([]float32, n)
	for i := range field {
		field[i] = (c.Rand.Float32() - 0.5) * strength
	}
	return field
}

// Resamples f at (x+dx, y+dy) for every pixel, with bilinear interpolation. Source coordinates
// are clamped to the image, and neighbors beyond the edge are mirrored
func Remap(f *frame.Image, dx, dy []float32) *frame.Image {
	res := f.NewLike()
	width, height := f.Width, f.Height
	maxX, maxY := float64(width-1), float64(height-1)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := y*width + x
			sx := math.Max(0, math.Min(maxX, float64(x)+float64(dx[i])))
			sy := math.Max(0, math.Min(maxY, float64(y)+float64(dy[i])))
			res.Data[i] = Bilinear(f, sx, sy)
		}
	}
	return res
}

// Samples f at the fractional coordinate (x,y) with bilinear interpolation and mirrored boundaries
func Bilinear(f *frame.Image, x, y float64) float32 {
	xf, yf := math.Floor(x), math.Floor(y)
	xl, yl := int(xf), int(yf)
	xr, yr := float32(x-xf), float32(y-yf)

	x0, x1 := frame.Reflect(xl, f.Width), frame.Reflect(xl+1, f.Width)
	y0, y1 := frame.Reflect(yl, f.Height), frame.Reflect(yl+1, f.Height)
	d := f.Data
	w := f.Width
	top := d[y0*w+x0]*(1-xr) + d[y0*w+x1]*xr
	bottom := d[y1*w+x0]*(1-xr) + d[y1*w+x1]*xr
	return top*(1-yr) + bottom*yr
}
