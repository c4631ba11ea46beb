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

// Package collect turns the interleaved 8-lane output of the minimizer
// pipeline into the single linear position stream callers want: either
// a plain lane-sequential concatenation, or the same thing with
// consecutive duplicate positions removed.
package collect

import (
	"github.com/jianshu93/simd-minimizers/internal/simd"
	"github.com/jianshu93/simd-minimizers/minimizer"
)

// Collect linearises lanes (an interleaved stream: lanes.Vectors[t][j] is
// lane j's value at step t) into the sequential-per-lane layout — all of
// lane 0, then all of lane 1, and so on — followed by the scalar tail.
// This is done 8 time-steps at a time via an 8x8 transpose, handling a
// final partial matrix of fewer than 8 rows.
func Collect(lanes minimizer.Lanes, tail []uint32) []uint32 {
	headLen := len(lanes.Vectors)
	out := make([]uint32, 8*headLen+len(tail))
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
		for lane := 0; lane < 8; lane++ {
			dst := out[lane*headLen+chunkStart : lane*headLen+chunkStart+chunkLen]
			copy(dst, t[lane][:chunkLen])
		}
	}
	copy(out[8*headLen:], tail)
	return out
}
