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

package nthash

import (
	"github.com/jianshu93/simd-minimizers/internal/ints"
	"github.com/jianshu93/simd-minimizers/internal/simd"
	"github.com/jianshu93/simd-minimizers/seq"
)

// antiLexClamp is the largest k for which every base still contributes a
// distinct 2-bit field to a 32-bit hash; above it only the trailing 16
// bases participate.
const antiLexClamp = 16

func antiLexMaskAnti(k int) (mask, anti uint32) {
	k = ints.Min(k, antiLexClamp)
	if k == antiLexClamp {
		return 0xFFFFFFFF, 3 << 30
	}
	return (uint32(1) << uint(2*k)) - 1, 3 << uint(2*k-2)
}

// AntiLexKmer computes the anti-lexicographic hash of a single window
// directly, without rolling: the 2-bit concatenation of the last
// min(k,16) bases with the leading base inverted.
func AntiLexKmer(window []seq.Base, k int) uint32 {
	mask, anti := antiLexMaskAnti(k)
	var h uint32
	for _, b := range window {
		h = (h << 2) ^ uint32(b)
	}
	return (h & mask) ^ anti
}

// ScalarAntiLex streams the anti-lex hash of every k-mer of s.
func ScalarAntiLex(s seq.Seq, k int) []uint32 {
	if k < 1 {
		panic("nthash: k must be >= 1")
	}
	n := s.Len()
	if n < k {
		return nil
	}
	mask, anti := antiLexMaskAnti(k)
	out := make([]uint32, n-k+1)
	var h uint32
	for i := 0; i < n; i++ {
		h = (h << 2) ^ uint32(s.At(i))
		if i >= k-1 {
			out[i-k+1] = (h & mask) ^ anti
		}
	}
	return out
}

// AntiLexMapper is the 8-lane mapper for the anti-lex hash. Unlike
// Mapper, it needs only the incoming base: the "remove" is absorbed by
// the mask truncating the register to 2*min(k,16) bits.
type AntiLexMapper struct {
	mask, anti simd.U32x8
	reg        simd.U32x8
}

// NewAntiLexMapper constructs a fresh mapper for k-mers of length k.
func NewAntiLexMapper(k int) *AntiLexMapper {
	if k < 1 {
		panic("nthash: k must be >= 1")
	}
	mask, anti := antiLexMaskAnti(k)
	return &AntiLexMapper{mask: simd.Splat(mask), anti: simd.Splat(anti)}
}

// Step feeds one 8-lane incoming base and returns the updated hash vector.
func (m *AntiLexMapper) Step(add seq.BaseVec) simd.U32x8 {
	var addV simd.U32x8
	for i := 0; i < 8; i++ {
		addV[i] = uint32(add[i])
	}
	shifted := simd.U32x8{}
	for i := range shifted {
		shifted[i] = m.reg[i] << 2
	}
	m.reg = shifted.Xor(addV).And(m.mask)
	return m.reg.Xor(m.anti)
}
