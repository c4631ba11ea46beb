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
	"math/bits"

	"github.com/jianshu93/simd-minimizers/internal/simd"
	"github.com/jianshu93/simd-minimizers/seq"
)

// RemoveDelay is the number of steps back (relative to the base currently
// being added) at which the rolling hash's "base leaving the window"
// input must be sampled for the update below to be algebraically correct.
//
// Unrolling H' = rot(H,1) xor rot(h(b_out),k) xor h(b_in) shows b_out
// must be exactly k positions behind b_in: the rot(H,1) lifts the
// oldest window base's term to rotation k, and only the base k behind
// cancels it. The first valid output still lands at step k-1.
func RemoveDelay(k int) int { return k }

// warmupFw is the forward rolling state of a window of k virtual 'A'
// bases. Seeding the recurrence with it makes the zero-valued removes
// fed during the first k steps (which decode as 'A') cancel exactly, so
// every output from step k-1 onward is the true k-mer hash.
func warmupFw(k int) uint32 {
	var x uint32
	for r := 0; r < k; r++ {
		x ^= bits.RotateLeft32(h(seq.A), r)
	}
	return x
}

// warmupRc is the reverse-complement counterpart of warmupFw: the
// rolling state of the complement ('T' run) read backwards.
func warmupRc(k int) uint32 {
	var x uint32
	for r := 0; r < k; r++ {
		x ^= bits.RotateLeft32(h(seq.T), r)
	}
	return x
}

// ScalarHash streams the forward (canonical=false) or canonical ntHash
// of every k-mer of s, returning one value per window of length k (i.e.
// len(s)-k+1 values, or none if s is shorter than k).
func ScalarHash(s seq.Seq, k int, canonical bool) []uint32 {
	if k < 1 {
		panic("nthash: k must be >= 1")
	}
	n := s.Len()
	if n < k {
		return nil
	}
	out := make([]uint32, n-k+1)
	hfw := warmupFw(k)
	hrc := warmupRc(k)
	for i := 0; i < n; i++ {
		bin := s.At(i)
		var bout seq.Base
		if i >= k {
			bout = s.At(i - k)
		}
		hfw = bits.RotateLeft32(hfw, 1) ^ bits.RotateLeft32(h(bout), k) ^ h(bin)
		if canonical {
			cout := seq.Complement(bout)
			cin := seq.Complement(bin)
			hrc = bits.RotateLeft32(hrc, -1) ^ bits.RotateLeft32(h(cout), -1) ^ bits.RotateLeft32(h(cin), k-1)
		}
		if i >= k-1 {
			if canonical {
				out[i-k+1] = hfw ^ hrc
			} else {
				out[i-k+1] = hfw
			}
		}
	}
	return out
}

// Mapper is the 8-lane rolling ntHash. It carries one register (two
// when Canonical is set) of 8 parallel u32 hashes.
type Mapper struct {
	k         int
	Canonical bool
	hfw       simd.U32x8
	hrc       simd.U32x8
}

// NewMapper constructs a fresh mapper for k-mers of length k.
func NewMapper(k int, canonical bool) *Mapper {
	if k < 1 {
		panic("nthash: k must be >= 1")
	}
	m := &Mapper{k: k, Canonical: canonical}
	m.hfw = simd.Splat(warmupFw(k))
	if canonical {
		m.hrc = simd.Splat(warmupRc(k))
	}
	return m
}

// Step feeds one 8-lane (add, remove) pair and returns the updated
// per-lane hash vector. remove must be sampled at RemoveDelay(k) steps
// behind add (zero for the first RemoveDelay(k) steps of the stream);
// see seq.ParIterBPDelayed.
func (m *Mapper) Step(add, remove seq.BaseVec) simd.U32x8 {
	var addH, rmH, addC, rmC simd.U32x8
	for i := 0; i < 8; i++ {
		addH[i] = h(add[i])
		rmH[i] = h(remove[i])
		if m.Canonical {
			addC[i] = h(seq.Complement(add[i]))
			rmC[i] = h(seq.Complement(remove[i]))
		}
	}
	m.hfw = m.hfw.Rotl(1).Xor(rmH.Rotl(uint32(m.k))).Xor(addH)
	if !m.Canonical {
		return m.hfw
	}
	m.hrc = m.hrc.Rotl(31).Xor(rmC.Rotl(31)).Xor(addC.Rotl(uint32(m.k - 1)))
	return m.hfw.Xor(m.hrc)
}
