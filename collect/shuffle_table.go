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

// uniqShuf is the 256-entry mask-indexed shuffle table used to compact
// eight lane values down to their "new" (not equal to the predecessor)
// elements: for mask m (bit i set means element i equals its
// predecessor), uniqShuf[m] moves the indices with bit i clear to the
// front, in ascending order; the remaining, unused slots are filled
// with 0 (their content is never read: 8-popcount(m) gives the valid
// prefix length). The table is a pure constant identical across
// architectures, so it is generated at package init rather than
// hand-transcribed.
var uniqShuf [256][8]uint8

func init() {
	for mask := 0; mask < 256; mask++ {
		var row [8]uint8
		n := 0
		for i := 0; i < 8; i++ {
			if mask&(1<<uint(i)) == 0 {
				row[n] = uint8(i)
				n++
			}
		}
		uniqShuf[mask] = row
	}
}

func popcount8(mask uint8) int {
	n := 0
	for mask != 0 {
		n += int(mask & 1)
		mask >>= 1
	}
	return n
}
