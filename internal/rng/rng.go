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


// Package rng provides the seedable random source shared by all noise stages.
package rng

import (
	"github.com/valyala/fastrand"
	"golang.org/x/exp/rand"
)

// A seedable source of random numbers. Uniform draws come from a fastrand generator,
// distribution sampling from a PCG source suited for gonum's distuv package.
// Not safe for concurrent use.
type Source struct {
	seed    uint64
	uniform fastrand.RNG
	dist    rand.Source
}

// Creates a new source from the given seed. Equal seeds yield equal sequences
func New(seed uint64) *Source {
	s := &Source{seed: seed, dist: rand.NewSource(seed)}
	s.uniform.Seed(seed32(seed))
	return s
}

// Folds a 64-bit seed into a nonzero 32-bit seed. fastrand reseeds itself
// nondeterministically from a zero state
func seed32(seed uint64) uint32 {
	s := uint32(seed) ^ uint32(seed>>32)
	if s == 0 {
		s = 0x9e3779b9
	}
	return s
}

// Returns the seed this source was created with
func (s *Source) Seed() uint64 { return s.seed }

// Returns a uniformly distributed integer in [0,n). Panics for n<=0
func (s *Source) Intn(n int) int {
	if n <= 0 {
		panic("rng: invalid argument to Intn")
	}
	return int(s.uniform.Uint32n(uint32(n)))
}

// Returns a uniformly distributed float32 in [0,1)
func (s *Source) Float32() float32 {
	return float32(s.uniform.Uint32()>>8) / (1 << 24)
}

// Returns the source for sampling gonum distributions
func (s *Source) Dist() rand.Source { return s.dist }
