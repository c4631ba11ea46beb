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

// Package nthash implements the rolling hash families used by the
// minimizer pipeline: forward and canonical ntHash, and the
// anti-lexicographic bit hash. Each is exposed both as a scalar streaming
// function and as an 8-lane mapper carrying its own rolling state.
package nthash

import "github.com/jianshu93/simd-minimizers/seq"

// table holds the 4 base constants ntHash rolls through: the published
// ntHash v1 seeds (Mohamadi et al.), truncated to this module's 32-bit
// lane width. The four values are distinct, non-zero, and no two are
// rotations of each other.
var table = [4]uint32{
	seq.A: 0x95c60474,
	seq.C: 0x62a02b4c,
	seq.G: 0x82572324,
	seq.T: 0x4be24456,
}

func h(b seq.Base) uint32 { return table[b&3] }
