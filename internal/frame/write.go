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
	"bufio"
	"image"
	"io"
	"math"
	"os"

	"golang.org/x/image/bmp"
)

// Converts the image to 8-bit grayscale. Samples are rounded to the nearest integer,
// clamped to [0,255], and NaNs become zero
func (f *Image) ToGray() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		yoffset := y * f.Width
		for x := 0; x < f.Width; x++ {
			v := f.Data[yoffset+x]
			if math.IsNaN(float64(v)) || v < 0 {
				v = 0
			}
			if v > 255 {
				v = 255
			}
			img.Pix[y*img.Stride+x] = uint8(math.Round(float64(v)))
		}
	}
	return img
}

// Writes the image as 8-bit grayscale BMP to the file with the given name
func (f *Image) WriteBMPToFile(fileName string) error {
	file, err := os.Create(fileName)
	if err != nil {
		return err
	}
	if err := f.WriteBMP(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// Writes the image as 8-bit grayscale BMP
func (f *Image) WriteBMP(w io.Writer) error {
	writer := bufio.NewWriter(w)
	if err := bmp.Encode(writer, f.ToGray()); err != nil {
		return err
	}
	return writer.Flush()
}
