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


package frame

import (
	"fmt"
)

// A single channel floating point image. Samples are conceptually in [0,255]
type Image struct {
	ID       int    // Sequential ID number, for log output
	FileName string // Original file name, if any, for log output

	Width  int       // Width in pixels
	Height int       // Height in pixels
	Data   []float32 // The image data, row-major
}

// Creates a new zero-filled image with the given dimensions
func NewImage(width, height int) *Image {
	return &Image{
		Width:  width,
		Height: height,
		Data:   make([]float32, width*height),
	}
}

// Creates a new image with the given dimensions, ID and file name, but a fresh data buffer
func (f *Image) NewLike() *Image {
	res := NewImage(f.Width, f.Height)
	res.ID, res.FileName = f.ID, f.FileName
	return res
}

// Returns a deep copy of the image
func (f *Image) Copy() *Image {
	res := f.NewLike()
	copy(res.Data, f.Data)
	return res
}

// Clips all samples to [min, max], in place
func (f *Image) Clip(min, max float32) {
	for i, d := range f.Data {
		if d < min {
			f.Data[i] = min
		} else if d > max {
			f.Data[i] = max
		}
	}
}

func (f *Image) DimensionsToString() string {
	return fmt.Sprintf("%dx%d", f.Width, f.Height)
}

// Maps an index into [0,n) by mirroring about the sample edges: (d c b a | a b c d | d c b a)
func Reflect(i, n int) int {
	if n <= 1 {
		return 0
	}
	period := 2 * n
	i %= period
	if i < 0 {
		i += period
	}
	if i >= n {
		i = period - 1 - i
	}
	return i
}
