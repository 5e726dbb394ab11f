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

// Package blur applies gaussian smoothing followed by additive gaussian scattering noise.
package blur

import (
	"fmt"
	"math"

	"github.com/mlnoga/hazenoise/internal/frame"
	"github.com/mlnoga/hazenoise/internal/ops"
	"gonum.org/v1/gonum/stat/distuv"
)

// Sigmas at or below this are treated as no blur
const minSigma = 1e-15

// Kernel radius in multiples of sigma
const truncate = 4.0

// Blurs an image with an isotropic gaussian, adds zero-mean gaussian noise and clips to [0,255]
type OpBlurScatter struct {
	ops.OpBase
	Sigma      float32 `json:"sigma"`      // Standard deviation of the blur kernel in pixels
	ScatterStd float32 `json:"scatterStd"` // Standard deviation of the additive noise
}

func NewOpBlurScatter(sigma, scatterStd float32) *OpBlurScatter {
	return &OpBlurScatter{
		OpBase:     ops.OpBase{Type: "blurScatter", Active: true},
		Sigma:      sigma,
		ScatterStd: scatterStd,
	}
}

func (op *OpBlurScatter) Apply(f *frame.Image, c *ops.Context) (result *frame.Image, err error) {
	if op.Sigma < 0 || math.IsNaN(float64(op.Sigma)) {
		return nil, fmt.Errorf("%w: negative blur sigma %g", ops.ErrConfiguration, op.Sigma)
	}
	if op.ScatterStd < 0 || math.IsNaN(float64(op.ScatterStd)) {
		return nil, fmt.Errorf("%w: negative scatter standard deviation %g", ops.ErrConfiguration, op.ScatterStd)
	}
	fmt.Fprintf(c.Log, "%d: Applying gaussian blur with sigma %.4g and scatter noise with std %.4g\n",
		f.ID, op.Sigma, op.ScatterStd)

	result = f.NewLike()
	if op.Sigma > minSigma {
		tmp := make([]float32, len(f.Data))
		GaussFilter2D(result.Data, tmp, f.Data, f.Width, op.Sigma)
	} else {
		copy(result.Data, f.Data)
	}

	if op.ScatterStd > 0 {
		normal := distuv.Normal{Mu: 0, Sigma: float64(op.ScatterStd), Src: c.Rand.Dist()}
		for i := range result.Data {
			result.Data[i] += float32(normal.Rand())
		}
	}
	result.Clip(0, 255)
	return result, nil
}

// Returns a sampled, normalized gaussian kernel with radius int(4*sigma+0.5)
func GaussianKernel1D(sigma float32) (kernel []float32) {
	if sigma <= minSigma {
		return []float32{1}
	}
	radius := int(truncate*float64(sigma) + 0.5)
	kernel = make([]float32, 2*radius+1)

	sigma2 := float64(sigma) * float64(sigma)
	weights := make([]float64, len(kernel))
	sum := float64(0)
	for i := -radius; i <= radius; i++ {
		w := math.Exp(-0.5 * float64(i*i) / sigma2)
		weights[i+radius] = w
		sum += w
	}
	for i, w := range weights {
		kernel[i] = float32(w / sum)
	}
	return kernel
}

// Applies a two-dimensional gaussian filter as two one-dimensional passes.
// res and tmp must have the size of data. Boundaries are mirrored
func GaussFilter2D(res, tmp, data []float32, width int, sigma float32) {
	kernel := GaussianKernel1D(sigma)
	Convolve1DX(tmp, data, width, kernel)
	Convolve1DY(res, tmp, width, kernel)
}

// Convolves each row of data with the given kernel
func Convolve1DX(res, data []float32, width int, kernel []float32) {
	height := len(data) / width
	radius := len(kernel) / 2
	for y := 0; y < height; y++ {
		row := data[y*width : (y+1)*width]
		for x := 0; x < width; x++ {
			sum := float32(0)
			for k, w := range kernel {
				sum += w * row[frame.Reflect(x+k-radius, width)]
			}
			res[y*width+x] = sum
		}
	}
}

// Convolves each column of data with the given kernel
func Convolve1DY(res, data []float32, width int, kernel []float32) {
	height := len(data) / width
	radius := len(kernel) / 2
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			sum := float32(0)
			for k, w := range kernel {
				sum += w * data[frame.Reflect(y+k-radius, height)*width+x]
			}
			res[y*width+x] = sum
		}
	}
}
