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

// Package canonical decides, per window, whether a window of DNA is in
// canonical (strand-invariant) orientation.
//
// A window is canonical iff it contains strictly more A/C bases than
// G/T bases. Complementing a base flips its class (A<->T, C<->G), so
// reverse-complementing a window negates the count: a window and its
// reverse complement always land on opposite orientations, and for odd
// window lengths the count is odd and can never tie. Even lengths have
// no unambiguous orientation, which is why every entry point requires l
// odd.
package canonical

import "github.com/jianshu93/simd-minimizers/seq"

// weight is +1 for A/C and -1 for G/T.
func weight(b seq.Base) int32 {
	if b < 2 {
		return 1
	}
	return -1
}

// IsCanonical reports whether window (length l, which must be odd) is
// canonical.
func IsCanonical(window []seq.Base) bool {
	if len(window)%2 == 0 {
		panic("canonical: window length must be odd")
	}
	var count int32
	for _, b := range window {
		count += weight(b)
	}
	return count > 0
}

// ScalarWindows streams the canonical bit of every window of length l in
// s (one value per window, i.e. len(s)-l+1 values), maintaining the
// base-class count incrementally.
func ScalarWindows(s seq.Seq, l int) []bool {
	if l%2 == 0 {
		panic("canonical: window length must be odd")
	}
	n := s.Len()
	if n < l {
		return nil
	}
	out := make([]bool, n-l+1)
	var count int32
	for i := 0; i < n; i++ {
		count += weight(s.At(i))
		if i >= l {
			count -= weight(s.At(i - l))
		}
		if i >= l-1 {
			out[i-l+1] = count > 0
		}
	}
	return out
}

// Mapper is the 8-lane canonical-window detector. Its state is one
// per-lane count register, updated from the incoming base and the base
// leaving the l-window, delivered at delay l (zero for the first l
// steps; see seq.ParIterBPDelayed2).
type Mapper struct {
	count [8]int32
}

// NewMapper constructs a fresh mapper for windows of length l (odd).
// The counts start at l, the count of a window of l virtual 'A' bases,
// so that the zero-valued removes fed during the first l steps cancel
// exactly; outputs are meaningful from step l-1 onward.
func NewMapper(l int) *Mapper {
	if l%2 == 0 {
		panic("canonical: window length must be odd")
	}
	m := &Mapper{}
	for i := range m.count {
		m.count[i] = int32(l)
	}
	return m
}

// Step feeds one 8-lane (incoming base, base leaving at delay l) pair
// and returns an 8-bit mask, bit i set iff the length-l window ending
// at this base is canonical in lane i (movemask convention, suitable
// for simd.Blend).
func (m *Mapper) Step(add, remove seq.BaseVec) uint8 {
	var mask uint8
	for i := 0; i < 8; i++ {
		m.count[i] += weight(add[i]) - weight(remove[i])
		if m.count[i] > 0 {
			mask |= 1 << uint(i)
		}
	}
	return mask
}
