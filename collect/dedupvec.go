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

package collect

import "github.com/jianshu93/simd-minimizers/internal/simd"

// DedupVec compacts v in place, removing consecutive duplicates, and
// returns the (re-sliced) result: a standalone routine for already-
// sorted or near-sorted input, streaming eight-at-a-time with the same
// mask-indexed shuffle table as CollectAndDedup.
//
// The accelerated routine this mirrors reads each window one iteration
// ahead of the in-place compacting write so that the write (which
// always stores a full 8-wide result, including unused trailing lanes)
// cannot clobber data the next window still needs to read. This port
// copies each window into a local array before writing, which gives the
// same guarantee: the write cursor never passes the read cursor, so the
// copy always happens before any store could reach that memory.
func DedupVec(v []uint32) []uint32 {
	n := len(v)
	if n == 0 {
		return v
	}

	write := 0
	last := ^v[0] // the first element is always kept
	i := 0
	for ; i+8 <= n; i += 8 {
		var window simd.U32x8
		copy(window[:], v[i:i+8])

		var pred simd.U32x8
		pred[0] = last
		copy(pred[1:], window[:7])
		mask := window.Eq(pred)
		cnt := 8 - popcount8(mask)
		compacted := simd.Permute(window, uniqShuf[mask])
		copy(v[write:write+cnt], compacted[:cnt])
		write += cnt
		last = window[7]
	}

	for ; i < n; i++ {
		if v[i] != last {
			v[write] = v[i]
			write++
			last = v[i]
		}
	}

	return v[:write]
}
