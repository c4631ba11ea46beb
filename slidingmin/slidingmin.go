// Copyright (C) 2022 Sneller, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package slidingmin implements the width-w sliding-window minimum used
// to turn a stream of per-k-mer hashes into minimizer positions: a
// two-level two-pointer scheme (running prefix-min of the current block
// of w hashes, combined with the suffix-min of the previous block,
// computed once per block instead of per element) instead of the
// classical deque, which does not vectorize cleanly.
package slidingmin

import "github.com/jianshu93/simd-minimizers/internal/simd"

// Pack folds a hash and a local time index into one sortable u32: the
// hash keeps its high 16 bits (so the comparison that decides the
// window minimum is primarily a hash comparison), and the low 16 bits
// become the local position, used only to break ties. Leftmost
// tie-breaking falls out of the unsigned comparison; for rightmost the
// position half is inverted before packing. Positions must stay below
// 2^16 between restarts of the local index.
func Pack(hash uint32, pos uint16, rightmost bool) uint32 {
	p := pos
	if rightmost {
		p = ^p
	}
	return (hash &^ 0xFFFF) | uint32(p)
}

// Unpack recovers the local time index packed by Pack.
func Unpack(packed uint32, rightmost bool) uint16 {
	p := uint16(packed & 0xFFFF)
	if rightmost {
		p = ^p
	}
	return p
}

// Scalar computes, for a stream of n packed hash values, the window
// minimum (as a packed value) of every width-w window, one output per
// input element (the first w-1 outputs are over a partial window and are
// meaningless; the pipeline drops them).
func Scalar(packed []uint32, w int) []uint32 {
	out := make([]uint32, len(packed))
	eng := newEngine(w)
	for i, v := range packed {
		out[i] = eng.step(v)
	}
	return out
}

// engine is the scalar two-level two-pointer sliding-min state.
type engine struct {
	w          int
	block      []uint32 // current (incomplete) block, length w, only [0:pos] meaningful
	pos        int      // position within the current block
	prefMin    uint32
	havePref   bool
	prevSuffix []uint32 // suffix-min array of the previous completed block
	haveSuffix bool
}

func newEngine(w int) *engine {
	if w < 1 {
		panic("slidingmin: w must be >= 1")
	}
	return &engine{w: w, block: make([]uint32, w), prevSuffix: make([]uint32, w)}
}

func (e *engine) step(v uint32) uint32 {
	if e.pos == 0 {
		e.havePref = false
	}
	e.block[e.pos] = v
	if !e.havePref || v < e.prefMin {
		e.prefMin = v
		e.havePref = true
	}
	// The window ending here starts at offset pos+1 of the previous
	// block; when pos == w-1 it is exactly the current block and the
	// previous block contributes nothing.
	min := e.prefMin
	if e.haveSuffix && e.pos+1 < e.w && e.prevSuffix[e.pos+1] < min {
		min = e.prevSuffix[e.pos+1]
	}

	e.pos++
	if e.pos == e.w {
		// Block complete: compute its suffix-min array in reverse for
		// use as "previous block" by the next w steps.
		var run uint32
		for i := e.w - 1; i >= 0; i-- {
			if i == e.w-1 || e.block[i] < run {
				run = e.block[i]
			}
			e.prevSuffix[i] = run
		}
		e.haveSuffix = true
		e.pos = 0
	}
	return min
}

// vecEngine is the 8-lane counterpart of engine. All lanes advance in
// lockstep, so the block position is shared and every update is one
// lanewise min.
type vecEngine struct {
	w          int
	pos        int
	block      []simd.U32x8
	prefMin    simd.U32x8
	prevSuffix []simd.U32x8
	haveSuffix bool
}

func newVecEngine(w int) *vecEngine {
	if w < 1 {
		panic("slidingmin: w must be >= 1")
	}
	return &vecEngine{w: w, block: make([]simd.U32x8, w), prevSuffix: make([]simd.U32x8, w)}
}

func (e *vecEngine) step(v simd.U32x8) simd.U32x8 {
	if e.pos == 0 {
		e.prefMin = v
	} else {
		e.prefMin = e.prefMin.Min(v)
	}
	e.block[e.pos] = v
	min := e.prefMin
	if e.haveSuffix && e.pos+1 < e.w {
		min = min.Min(e.prevSuffix[e.pos+1])
	}

	e.pos++
	if e.pos == e.w {
		run := e.block[e.w-1]
		e.prevSuffix[e.w-1] = run
		for i := e.w - 2; i >= 0; i-- {
			run = run.Min(e.block[i])
			e.prevSuffix[i] = run
		}
		e.haveSuffix = true
		e.pos = 0
	}
	return min
}

// Mapper is the 8-lane sliding-min mapper. Both=true additionally
// returns the rightmost-tie-break result for use by the canonical
// pipeline, which needs both in one pass.
type Mapper struct {
	w    int
	both bool
	left *vecEngine
	rgt  *vecEngine
}

// NewMapper constructs a mapper over windows of width w. If both is set,
// StepLR returns both the leftmost and rightmost sliding minima;
// otherwise only the leftmost is computed, through Step.
func NewMapper(w int, both bool) *Mapper {
	m := &Mapper{w: w, both: both, left: newVecEngine(w)}
	if both {
		m.rgt = newVecEngine(w)
	}
	return m
}

// Step feeds one 8-lane vector of hashes already packed with Pack
// (leftmost convention) and returns the leftmost window-minimum vector.
// If the mapper was built with both=true, StepLR must be used instead.
func (m *Mapper) Step(packed simd.U32x8) simd.U32x8 {
	return m.left.step(packed)
}

// StepLR feeds one 8-lane vector of *unpacked* hashes, packs it both
// ways internally (all lanes share the same local time index), and
// returns (leftmost, rightmost) window-minimum vectors.
func (m *Mapper) StepLR(hashes simd.U32x8, pos uint16) (lmin, rmin simd.U32x8) {
	base := hashes.And(simd.Splat(^uint32(0xFFFF)))
	lmin = m.left.step(base.Or(simd.Splat(uint32(pos))))
	rmin = m.rgt.step(base.Or(simd.Splat(uint32(^pos))))
	return lmin, rmin
}
