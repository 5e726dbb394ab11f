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

// Package illum modulates an image with an uneven illumination field.
package illum

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/mlnoga/hazenoise/internal/frame"
	"github.com/mlnoga/hazenoise/internal/ops"
)

// Illumination pattern
type Mode int

const (
	ModeRadial Mode = iota // Gain decays exponentially with distance from a random bright center
)

// Parses an illumination mode name
func ParseMode(s string) (Mode, error) {
	switch s {
	case "radial":
		return ModeRadial, nil
	}
	return ModeRadial, fmt.Errorf("%w: unknown illumination mode '%s'", ops.ErrConfiguration, s)
}

func (m Mode) String() string {
	switch m {
	case ModeRadial:
		return "radial"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

func (m Mode) MarshalJSON() ([]byte, error) { return json.Marshal(m.String()) }

// Decay rate of the radial field over the normalized distance
const radialAlpha = 3.0

// Guards the normalizations against division by zero
const epsilon = 1e-6

// Multiplies an image with an illumination field with gains in [1-Strength, 1]
type OpIllumination struct {
	ops.OpBase
	Mode     Mode    `json:"mode"`
	Strength float32 `json:"strength"`
}

// Creates an illumination operator. Inactive for strengths <= 0
func NewOpIllumination(mode Mode, strength float32) *OpIllumination {
	return &OpIllumination{
		OpBase:   ops.OpBase{Type: "illumination", Active: strength > 0},
		Mode:     mode,
		Strength: strength,
	}
}

// Draws the center from the context source, cx first, then cy
func (op *OpIllumination) Apply(f *frame.Image, c *ops.Context) (result *frame.Image, err error) {
	if op.Strength <= 0 {
		return f, nil
	}
	if op.Mode != ModeRadial {
		return nil, fmt.Errorf("%w: unsupported illumination mode %v", ops.ErrConfiguration, op.Mode)
	}

	cx, cy := c.Rand.Intn(f.Width), c.Rand.Intn(f.Height)
	fmt.Fprintf(c.Log, "%d: Applying %v illumination with strength %.4g centered at (%d,%d)\n",
		f.ID, op.Mode, op.Strength, cx, cy)

	gain := RadialGain(f.Width, f.Height, cx, cy, op.Strength)
	result = f.NewLike()
	for i, d := range f.Data {
		result.Data[i] = d * gain[i]
	}
	result.Clip(0, 255)
	return result, nil
}

// Returns the radial gain field for an image of the given size with bright center (cx,cy).
// Gains lie in [1-strength, 1], with the maximum at the center
func RadialGain(width, height, cx, cy int, strength float32) []float32 {
	dist := make([]float64, width*height)
	maxDist := float64(0)
	for y := 0; y < height; y++ {
		dy := float64(y - cy)
		for x := 0; x < width; x++ {
			dx := float64(x - cx)
			d := math.Sqrt(dx*dx + dy*dy)
			dist[y*width+x] = d
			if d > maxDist {
				maxDist = d
			}
		}
	}

	// illum=exp(-alpha*d) is largest where d is smallest
	scale := 1.0 / (maxDist + epsilon)
	maxIllum := float64(0)
	for i, d := range dist {
		illum := math.Exp(-radialAlpha * d * scale)
		dist[i] = illum
		if illum > maxIllum {
			maxIllum = illum
		}
	}

	s := float64(strength)
	gain := make([]float32, width*height)
	norm := 1.0 / (maxIllum + epsilon)
	for i, illum := range dist {
		gain[i] = float32(1 - s + s*illum*norm)
	}
	return gain
}
