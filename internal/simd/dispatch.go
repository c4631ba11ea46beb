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

package simd

import "golang.org/x/sys/cpu"

// HasAVX2 reports whether the running CPU was detected to support AVX2.
// It exists purely as a dispatch seam: every code path below it is
// required to produce bit-identical output, so flipping this bit only
// changes which implementation computes the same per-lane values.
var HasAVX2 = cpu.X86.HasAVX2

var transpose8x8Impl func(m [8]U32x8) [8]U32x8

func init() {
	if HasAVX2 {
		transpose8x8Impl = transpose8x8AVX2
	} else {
		transpose8x8Impl = transpose8x8Generic
	}
}
