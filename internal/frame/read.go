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
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"

	colorful "github.com/lucasb-eyer/go-colorful"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// Conversion of color sources into a single luminance channel
type GrayMode int

const (
	GrayITU601 GrayMode = iota // 0.299 R + 0.587 G + 0.114 B, as an 8-bit luminance conversion
	GrayHCL                    // perceptual lightness from the HCL color space
)

var ErrUnknownGrayMode = errors.New("unknown gray mode")

// Parses a gray mode name. The empty string selects GrayITU601
func ParseGrayMode(s string) (GrayMode, error) {
	switch s {
	case "", "L", "l":
		return GrayITU601, nil
	case "hcl", "HCL":
		return GrayHCL, nil
	}
	return GrayITU601, fmt.Errorf("%w '%s'", ErrUnknownGrayMode, s)
}

func (m GrayMode) String() string {
	switch m {
	case GrayITU601:
		return "L"
	case GrayHCL:
		return "hcl"
	}
	return fmt.Sprintf("GrayMode(%d)", int(m))
}

// Reads an image in any registered format from the file with the given name,
// and converts it to a single luminance channel
func NewImageFromFile(fileName string, id int, mode GrayMode) (f *Image, err error) {
	file, err := os.Open(fileName)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, _, err := image.Decode(bufio.NewReader(file))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", fileName, err)
	}
	f = NewImageFromGo(img, mode)
	f.ID, f.FileName = id, fileName
	return f, nil
}

// Converts a golang image into a single channel image
func NewImageFromGo(img image.Image, mode GrayMode) *Image {
	b := img.Bounds()
	f := NewImage(b.Dx(), b.Dy())
	for y := 0; y < f.Height; y++ {
		yoffset := y * f.Width
		for x := 0; x < f.Width; x++ {
			c := img.At(b.Min.X+x, b.Min.Y+y)
			f.Data[yoffset+x] = luminance(c, mode)
		}
	}
	return f
}

// Luminance of a color in [0,255], rounded to integral values like an 8-bit image
func luminance(c color.Color, mode GrayMode) float32 {
	if mode == GrayHCL {
		col, ok := colorful.MakeColor(c)
		if !ok {
			return 0 // fully transparent
		}
		_, _, l := col.Clamped().Hcl()
		l = math.Max(0, math.Min(1, l))
		return float32(math.Round(l * 255))
	}
	return float32(color.GrayModel.Convert(c).(color.Gray).Y)
}
