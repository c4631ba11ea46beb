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

// Package minimizer composes the rolling hashers, the canonical-window
// detector, and the sliding-window minimum into the minimizer position
// stream: for every window of l = k+w-1 bases, the absolute position of
// its minimum-hash k-mer.
package minimizer

import (
	"fmt"

	"github.com/jianshu93/simd-minimizers/canonical"
	"github.com/jianshu93/simd-minimizers/internal/simd"
	"github.com/jianshu93/simd-minimizers/nthash"
	"github.com/jianshu93/simd-minimizers/seq"
	"github.com/jianshu93/simd-minimizers/slidingmin"
)

func validate(k, w int) {
	if k < 1 {
		panic("minimizer: k must be >= 1")
	}
	if w < 1 {
		panic("minimizer: w must be >= 1")
	}
}

func validateCanonical(k, w int) int {
	validate(k, w)
	l := k + w - 1
	if l%2 == 0 {
		panic(fmt.Sprintf("minimizer: canonical requires odd l=k+w-1, got l=%d", l))
	}
	return l
}

// Lanes is the 8-lane SIMD output of SIMD/CanonicalSIMD: a time-ordered
// stream of vectors, each holding one absolute minimizer position per
// lane. Vector t's lane j is the minimizer position for window t of
// lane j's chunk of the input (already offset by the lane's absolute
// base position; see collect.Collect for the transpose into one
// sequential-per-lane stream).
type Lanes struct {
	Vectors []simd.U32x8
}

// Scalar computes the (non-deduplicated) minimizer position stream over
// s using a forward (non-canonical) hash.
func Scalar(s seq.Seq, k, w int) []uint32 {
	validate(k, w)
	return scalarForward(s, k, w)
}

func scalarForward(s seq.Seq, k, w int) []uint32 {
	l := k + w - 1
	n := s.Len()
	if n < l {
		return nil
	}
	hashes := nthash.ScalarHash(s, k, false)
	packed := make([]uint32, len(hashes))
	for i, h := range hashes {
		packed[i] = slidingmin.Pack(h, uint16(i), false)
	}
	winmin := slidingmin.Scalar(packed, w)
	out := make([]uint32, 0, n-l+1)
	for i := w - 1; i < len(winmin); i++ {
		out = append(out, uint32(slidingmin.Unpack(winmin[i], false)))
	}
	return out
}

// CanonicalScalar computes the minimizer position stream over s,
// switching between leftmost and rightmost tie-break per window
// according to that window's canonical orientation. Requires l=k+w-1
// odd.
func CanonicalScalar(s seq.Seq, k, w int) []uint32 {
	l := validateCanonical(k, w)
	n := s.Len()
	if n < l {
		return nil
	}
	hashes := nthash.ScalarHash(s, k, true)
	lpacked := make([]uint32, len(hashes))
	rpacked := make([]uint32, len(hashes))
	for i, h := range hashes {
		lpacked[i] = slidingmin.Pack(h, uint16(i), false)
		rpacked[i] = slidingmin.Pack(h, uint16(i), true)
	}
	lmin := slidingmin.Scalar(lpacked, w)
	rmin := slidingmin.Scalar(rpacked, w)
	canon := canonical.ScalarWindows(s, l)

	out := make([]uint32, 0, n-l+1)
	for i := w - 1; i < len(lmin); i++ {
		windowIdx := i - (w - 1)
		if canon[windowIdx] {
			out = append(out, uint32(slidingmin.Unpack(lmin[i], false)))
		} else {
			out = append(out, uint32(slidingmin.Unpack(rmin[i], true)))
		}
	}
	return out
}

// SIMD computes the forward minimizer position stream 8 lanes at a
// time, returning the lane-parallel head and the scalar tail (the
// trailing bases that did not fill a full 8-way stride). Concatenating
// collect.Collect(lanes, tail) reproduces Scalar's output.
func SIMD(s seq.Seq, k, w int) (Lanes, []uint32) {
	validate(k, w)
	l := k + w - 1
	if s.Len() < l {
		return Lanes{}, nil
	}

	iter, tailSeq, headLen := seq.ParIterBPDelayed(s, l, nthash.RemoveDelay(k))
	hm := nthash.NewMapper(k, false)
	sm := slidingmin.NewMapper(w, false)

	offs := laneOffsets(headLen)
	vectors := make([]simd.U32x8, 0, headLen)
	t := 0
	iter.All(func(st seq.Step) bool {
		hv := hm.Step(st.Add, st.Rm1)
		if t >= k-1 {
			packed := packPerLane(hv, t, false)
			wm := sm.Step(packed)
			if t >= l-1 {
				vectors = append(vectors, reconstruct(wm, offs, k, false))
			}
		}
		t++
		return true
	})

	tail := scalarForward(tailSeq, k, w)
	offsetTail(tail, headLen)
	return Lanes{Vectors: vectors}, tail
}

// CanonicalSIMD is the canonical counterpart of SIMD; requires l=k+w-1
// odd.
func CanonicalSIMD(s seq.Seq, k, w int) (Lanes, []uint32) {
	l := validateCanonical(k, w)
	if s.Len() < l {
		return Lanes{}, nil
	}

	// Two removes per step: the base leaving the k-mer for the hash, and
	// the base leaving the full l-window for the orientation count.
	iter, tailSeq, headLen := seq.ParIterBPDelayed2(s, l, nthash.RemoveDelay(k), l)
	hm := nthash.NewMapper(k, true)
	sm := slidingmin.NewMapper(w, true)
	cm := canonical.NewMapper(l)

	offs := laneOffsets(headLen)
	vectors := make([]simd.U32x8, 0, headLen)
	t := 0
	iter.All(func(st seq.Step) bool {
		hv := hm.Step(st.Add, st.Rm1)
		canon := cm.Step(st.Add, st.Rm2)
		if t >= k-1 {
			lv, rv := sm.StepLR(hv, uint16(t))
			if t >= l-1 {
				lp := reconstruct(lv, offs, k, false)
				rp := reconstruct(rv, offs, k, true)
				vectors = append(vectors, simd.Blend(rp, lp, canon))
			}
		}
		t++
		return true
	})

	tail := CanonicalScalar(tailSeq, k, w)
	offsetTail(tail, headLen)
	return Lanes{Vectors: vectors}, tail
}

// packPerLane applies slidingmin.Pack lanewise; the local time index is
// shared by all 8 lanes.
func packPerLane(hv simd.U32x8, t int, rightmost bool) simd.U32x8 {
	p := uint16(t)
	if rightmost {
		p = ^p
	}
	return hv.And(simd.Splat(^uint32(0xFFFF))).Or(simd.Splat(uint32(p)))
}

// laneOffsets is the vector of absolute base positions at which each
// lane's chunk starts.
func laneOffsets(headLen int) simd.U32x8 {
	var out simd.U32x8
	for j := range out {
		out[j] = uint32(j * headLen)
	}
	return out
}

// reconstruct turns a vector of packed window-minima (local time index in
// the low bits) into absolute k-mer start positions: the winning local
// time t must first be converted to a local k-mer start (t-(k-1), since
// a hash only becomes valid k-1 steps into a lane's own stream) before
// adding the lane's chunk offset.
func reconstruct(wm simd.U32x8, offsets simd.U32x8, k int, rightmost bool) simd.U32x8 {
	pos := wm.And(simd.Splat(0xFFFF))
	if rightmost {
		pos = pos.Xor(simd.Splat(0xFFFF))
	}
	return offsets.Add(pos).Add(simd.Splat(-uint32(k - 1)))
}

func offsetTail(tail []uint32, headLen int) {
	off := uint32(8 * headLen)
	for i := range tail {
		tail[i] += off
	}
}
