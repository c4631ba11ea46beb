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

package slidingmin

import (
	"math/rand"
	"testing"
)

// naiveWindowMinPos returns, for every window of width w in hashes, the
// index (into hashes) of the smallest hash, earliest on ties, or latest
// on ties when rightmost is set.
func naiveWindowMinPos(hashes []uint32, w int, rightmost bool) []int {
	out := make([]int, 0, len(hashes)-w+1)
	for i := 0; i+w <= len(hashes); i++ {
		best := i
		for j := i + 1; j < i+w; j++ {
			if rightmost {
				if hashes[j] <= hashes[best] {
					best = j
				}
			} else {
				if hashes[j] < hashes[best] {
					best = j
				}
			}
		}
		out = append(out, best)
	}
	return out
}

func TestScalarLeftmostMatchesNaive(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	n := 400
	for _, w := range []int{1, 2, 3, 7, 8, 9, 32, 65} {
		hashes := make([]uint32, n)
		for i := range hashes {
			hashes[i] = uint32(r.Intn(17)) << 16 // collisions to exercise tie-break
		}
		packed := make([]uint32, n)
		for i, h := range hashes {
			packed[i] = Pack(h, uint16(i), false)
		}
		winmin := Scalar(packed, w)
		want := naiveWindowMinPos(hashes, w, false)
		for idx, i := range indexRange(w-1, len(winmin)) {
			got := int(Unpack(winmin[i], false))
			if got != want[idx] {
				t.Fatalf("w=%d window=%d: got pos %d want %d", w, idx, got, want[idx])
			}
		}
	}
}

func TestScalarRightmostMatchesNaive(t *testing.T) {
	r := rand.New(rand.NewSource(4))
	n := 400
	for _, w := range []int{1, 2, 5, 8, 16, 33} {
		hashes := make([]uint32, n)
		for i := range hashes {
			hashes[i] = uint32(r.Intn(11)) << 16
		}
		packed := make([]uint32, n)
		for i, h := range hashes {
			packed[i] = Pack(h, uint16(i), true)
		}
		winmin := Scalar(packed, w)
		want := naiveWindowMinPos(hashes, w, true)
		for idx, i := range indexRange(w-1, len(winmin)) {
			got := int(Unpack(winmin[i], true))
			if got != want[idx] {
				t.Fatalf("w=%d window=%d: got pos %d want %d", w, idx, got, want[idx])
			}
		}
	}
}

func indexRange(start, end int) []int {
	out := make([]int, 0, end-start)
	for i := start; i < end; i++ {
		out = append(out, i)
	}
	return out
}

// TestMapperStepMatchesScalar checks that the 8-lane Mapper is exactly 8
// independent copies of the scalar engine: lane j's sequence of Step
// inputs over time must reproduce lane j's own Scalar result, regardless
// of what the other 7 lanes are doing concurrently.
func TestMapperStepMatchesScalar(t *testing.T) {
	r := rand.New(rand.NewSource(6))
	steps := 64
	for _, w := range []int{1, 3, 8, 17} {
		var lanePacked [8][]uint32
		var wantLane [8][]uint32
		for j := 0; j < 8; j++ {
			packed := make([]uint32, steps)
			for i := 0; i < steps; i++ {
				packed[i] = Pack(r.Uint32(), uint16(i), false)
			}
			lanePacked[j] = packed
			wantLane[j] = Scalar(packed, w)
		}

		m := NewMapper(w, false)
		for t2 := 0; t2 < steps; t2++ {
			var vec [8]uint32
			for j := 0; j < 8; j++ {
				vec[j] = lanePacked[j][t2]
			}
			out := m.Step(vec)
			for j := 0; j < 8; j++ {
				if out[j] != wantLane[j][t2] {
					t.Fatalf("w=%d t=%d lane=%d: mapper=%#x scalar=%#x", w, t2, j, out[j], wantLane[j][t2])
				}
			}
		}
	}
}
