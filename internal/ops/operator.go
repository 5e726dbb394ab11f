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

package ops

import (
	"errors"
	"fmt"
	"io"

	"github.com/mlnoga/hazenoise/internal/frame"
	"github.com/mlnoga/hazenoise/internal/rng"
	"github.com/mlnoga/hazenoise/internal/stats"
	"github.com/pbnjay/memory"
)

// Error kinds surfaced by operators and the job driver. Check with errors.Is
var (
	ErrConfiguration = errors.New("configuration error")
	ErrIO            = errors.New("i/o error")
)

// An execution context for operators
type Context struct {
	Log      io.Writer
	Rand     *rng.Source
	MemoryMB int // memory.TotalMemory()/1024/1024
}

func NewContext(log io.Writer, src *rng.Source) *Context {
	return &Context{
		Log:      log,
		Rand:     src,
		MemoryMB: int(memory.TotalMemory() / 1024 / 1024),
	}
}

// A general image processing operator: transforms one image into another or returns an error
type Operator interface {
	GetType() string
	IsActive() bool
	Apply(f *frame.Image, c *Context) (fOut *frame.Image, err error)
}

// Base type for operators, including type information for JSON serializing
type OpBase struct {
	Type   string `json:"type"`
	Active bool   `json:"active"`
}

func (op *OpBase) GetType() string { return op.Type }
func (op *OpBase) IsActive() bool  { return op.Active }

// Applies a sequence of operators to an image, in order. Inactive steps pass their input through
type OpSequence struct {
	OpBase
	Steps []Operator `json:"steps"`
}

func NewOpSequence(steps ...Operator) *OpSequence {
	return &OpSequence{
		OpBase: OpBase{Type: "seq", Active: len(steps) > 0},
		Steps:  steps,
	}
}

// Appends one or more operators to the existing sequence
func (op *OpSequence) Append(steps ...Operator) {
	op.Steps = append(op.Steps, steps...)
	op.Active = len(op.Steps) > 0
}

func (op *OpSequence) Apply(f *frame.Image, c *Context) (result *frame.Image, err error) {
	for _, step := range op.Steps {
		if !step.IsActive() {
			fmt.Fprintf(c.Log, "%d: Skipping %s\n", f.ID, step.GetType())
			continue
		}
		if f, err = step.Apply(f, c); err != nil {
			return nil, err
		}
		fmt.Fprintf(c.Log, "%d: After %s: %v\n", f.ID, step.GetType(), stats.NewStats(f.Data))
	}
	return f, nil
}

// Load a single image from a file, converted to one luminance channel. Ignores any input image
type OpLoad struct {
	OpBase
	ID       int            `json:"id"`
	FileName string         `json:"fileName"`
	GrayMode frame.GrayMode `json:"grayMode"`
}

func NewOpLoad(id int, fileName string, grayMode frame.GrayMode) *OpLoad {
	return &OpLoad{
		OpBase:   OpBase{Type: "load", Active: true},
		ID:       id,
		FileName: fileName,
		GrayMode: grayMode,
	}
}

func (op *OpLoad) Apply(f *frame.Image, c *Context) (result *frame.Image, err error) {
	f, err = frame.NewImageFromFile(op.FileName, op.ID, op.GrayMode)
	if err != nil {
		return nil, fmt.Errorf("%w: loading %s: %w", ErrIO, op.FileName, err)
	}
	if f.Width == 0 || f.Height == 0 {
		return nil, fmt.Errorf("%w: loading %s: empty %s image", ErrIO, op.FileName, f.DimensionsToString())
	}

	s := stats.NewStats(f.Data)
	warning := ""
	if s.Max-s.Min < 1e-8 {
		warning = "; WARNING low dynamic range"
	}
	fmt.Fprintf(c.Log, "%d: Loaded %s image with %v from %s%s\n",
		f.ID, f.DimensionsToString(), s, f.FileName, warning)
	return f, nil
}
