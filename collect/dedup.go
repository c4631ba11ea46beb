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

import (
	"sync"

	"golang.org/x/exp/slices"

	"github.com/jianshu93/simd-minimizers/internal/simd"
	"github.com/jianshu93/simd-minimizers/minimizer"
)

// scratch is the per-call working set of 8 growable lane buffers. Go has
// no thread-local storage, so a sync.Pool stands in: pulled at the start
// of CollectAndDedup, length-reset (capacity retained) for reuse, and
// returned via defer, so concurrent and re-entrant callers never alias
// each other's buffers.
type scratch struct {
	lanes [8][]uint32
}

var scratchPool = sync.Pool{
	New: func() any { return new(scratch) },
}

// CollectAndDedup linearises lanes the same way Collect does, but drops
// consecutive duplicate positions as it goes, using the mask-indexed
// shuffle table to compact each 8-wide chunk down to its non-duplicate
// elements before appending.
//
// When super is true, each emitted u32 instead packs (firstStreamIndex
// << 16) | (value & 0xFFFF): firstStreamIndex is the index (mod 2^16)
// of the window where this value's run of duplicates began, i.e. the
// start of its super-k-mer. Duplicate detection always compares the
// full unpacked values, so the output has the same length in both
// modes. Super mode is only meaningful when w < 2^16.
func CollectAndDedup(lanes minimizer.Lanes, tail []uint32, super bool) []uint32 {
	headLen := len(lanes.Vectors)

	sc := scratchPool.Get().(*scratch)
	defer scratchPool.Put(sc)
	for j := range sc.lanes {
		sc.lanes[j] = sc.lanes[j][:0]
	}

	// prevRaw[j] holds the last raw value seen in lane j's stream,
	// firstRaw[j] the first; both drive the dedup comparisons, which
	// work on raw values even in super mode.
	var prevRaw, firstRaw [8]uint32

	for chunkStart := 0; chunkStart < headLen; chunkStart += 8 {
		chunkLen := 8
		if headLen-chunkStart < 8 {
			chunkLen = headLen - chunkStart
		}
		var m [8]simd.U32x8
		for r := 0; r < chunkLen; r++ {
			m[r] = lanes.Vectors[chunkStart+r]
		}
		t := simd.Transpose8x8(m)

		for j := 0; j < 8; j++ {
			raw := t[j]
			if chunkStart == 0 {
				firstRaw[j] = raw[0]
				prevRaw[j] = ^raw[0] // the first element is always new
			}

			var vals [8]uint32
			if super {
				for idx := 0; idx < chunkLen; idx++ {
					firstIdx := uint32(j*headLen+chunkStart+idx) & 0xFFFF
					vals[idx] = (firstIdx << 16) | (raw[idx] & 0xFFFF)
				}
			} else {
				vals = raw
			}

			buf := sc.lanes[j]
			if chunkLen == 8 {
				// Full 8-wide chunk: compare against the one-right-shifted
				// self (the last element of the previous chunk leading) and
				// compact via the shuffle table.
				var pred simd.U32x8
				pred[0] = prevRaw[j]
				copy(pred[1:], raw[:7])
				mask := raw.Eq(pred)
				n := 8 - popcount8(mask)
				compacted := simd.Permute(simd.U32x8(vals), uniqShuf[mask])
				buf = slices.Grow(buf, n)
				buf = append(buf, compacted[:n]...)
			} else {
				// Partial final chunk: the shuffle table assumes a full
				// 8-wide mask, so fall back to a plain sequential dedup.
				for idx := 0; idx < chunkLen; idx++ {
					pred := prevRaw[j]
					if idx > 0 {
						pred = raw[idx-1]
					}
					if raw[idx] != pred {
						buf = append(buf, vals[idx])
					}
				}
			}
			sc.lanes[j] = buf
			prevRaw[j] = raw[chunkLen-1]
		}
	}

	// Concatenate the lanes, dropping the leading element of a lane when
	// its run continues from the previous lane's final value, then dedup
	// the tail against the last value of the head.
	out := make([]uint32, 0, 8*headLen+len(tail))
	var lastRaw uint32
	haveLast := false
	for j := 0; j < 8; j++ {
		lane := sc.lanes[j]
		if len(lane) > 0 && haveLast && firstRaw[j] == lastRaw {
			lane = lane[1:]
		}
		out = append(out, lane...)
		if headLen > 0 {
			lastRaw = prevRaw[j]
			haveLast = true
		}
	}
	for i, x := range tail {
		if haveLast && x == lastRaw {
			continue
		}
		if super {
			firstIdx := uint32(8*headLen+i) & 0xFFFF
			out = append(out, (firstIdx<<16)|(x&0xFFFF))
		} else {
			out = append(out, x)
		}
		lastRaw = x
		haveLast = true
	}
	return out
}
