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

// Transpose8x8 transposes an 8x8 matrix of lanes: out[j][i] = m[i][j].
// The collector uses this to turn 8 interleaved per-step vectors into 8
// contiguous per-lane runs.
func Transpose8x8(m [8]U32x8) [8]U32x8 {
	if transpose8x8Impl != nil {
		return transpose8x8Impl(m)
	}
	return transpose8x8Generic(m)
}

func transpose8x8Generic(m [8]U32x8) [8]U32x8 {
	var out [8]U32x8
	for i := 0; i < 8; i++ {
		for j := 0; j < 8; j++ {
			out[j][i] = m[i][j]
		}
	}
	return out
}

// transpose8x8AVX2 is the slot for the accelerated path selected when
// the running CPU reports AVX2 support (see dispatch.go). This module
// carries no assembly, so it computes the identical result through the
// portable lane loop rather than real VSHUFPS/VUNPCK shuffles; a build
// that adds the assembly only has to replace this body.
func transpose8x8AVX2(m [8]U32x8) [8]U32x8 {
	return transpose8x8Generic(m)
}
