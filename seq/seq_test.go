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

package seq

import (
	"math/rand"
	"testing"
)

func TestComplement(t *testing.T) {
	for _, b := range []Base{A, C, G, T} {
		if Complement(Complement(b)) != b {
			t.Fatalf("complement not involutive for %v", b)
		}
	}
	if Complement(A) != T || Complement(T) != A || Complement(C) != G || Complement(G) != C {
		t.Fatalf("complement does not pair A/T and C/G")
	}
}

func randomASCII(n int, seed int64) string {
	r := rand.New(rand.NewSource(seed))
	letters := "ACGT"
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = letters[r.Intn(4)]
	}
	return string(buf)
}

func TestPackedASCIIRoundtrip(t *testing.T) {
	s := randomASCII(200, 1)
	a := NewASCII(s)
	p := PackedFromASCII(s)
	if p.Len() != a.Len() {
		t.Fatalf("length mismatch: %d vs %d", p.Len(), a.Len())
	}
	for i := 0; i < a.Len(); i++ {
		if p.At(i) != a.At(i) {
			t.Fatalf("base mismatch at %d: packed=%v ascii=%v", i, p.At(i), a.At(i))
		}
	}
	if p.ToASCII().String() != s {
		t.Fatalf("ToASCII roundtrip mismatch")
	}
}

func TestSliceViews(t *testing.T) {
	s := randomASCII(50, 2)
	a := NewASCII(s)
	p := PackedFromASCII(s)
	lo, hi := 10, 37
	as := a.Slice(lo, hi)
	ps := p.Slice(lo, hi)
	if as.Len() != hi-lo || ps.Len() != hi-lo {
		t.Fatalf("slice length mismatch")
	}
	for i := 0; i < hi-lo; i++ {
		if as.At(i) != a.At(lo+i) || ps.At(i) != p.At(lo+i) {
			t.Fatalf("slice base mismatch at %d", i)
		}
	}
}

func TestRevComp(t *testing.T) {
	a := NewASCII("ACGTACGT")
	rc := a.RevComp()
	if rc.String() != "ACGTACGT" {
		// ACGTACGT's reverse complement: reverse="TGCATGCA", complement each -> "ACGTACGT"
		t.Fatalf("unexpected revcomp: got %s", rc.String())
	}
	if a.RevComp().RevComp().String() != a.String() {
		t.Fatalf("revcomp not involutive")
	}
}

// TestIterBPRestartable checks that the plain base iterator yields every
// base in order and can be restarted from the beginning.
func TestIterBPRestartable(t *testing.T) {
	s := PackedFromASCII("ACGTTGCA")
	it := IterBP(s)
	for pass := 0; pass < 2; pass++ {
		i := 0
		it(func(b Base) bool {
			if b != s.At(i) {
				t.Fatalf("pass %d: base %d: got %v want %v", pass, i, b, s.At(i))
			}
			i++
			return true
		})
		if i != s.Len() {
			t.Fatalf("pass %d: yielded %d bases, want %d", pass, i, s.Len())
		}
	}

	// Early stop: the yield returning false must end the iteration.
	n := 0
	it(func(Base) bool {
		n++
		return n < 3
	})
	if n != 3 {
		t.Fatalf("early stop: yielded %d bases, want 3", n)
	}
}

// TestParIterBPShape checks that the parallel iterator's 8 lanes plus tail
// reconstruct the same bases as plain indexing, for the un-delayed shape.
func TestParIterBPShape(t *testing.T) {
	for _, n := range []int{0, 1, 7, 8, 9, 37, 64, 65, 200} {
		for _, context := range []int{1, 3, 8} {
			s := PackedFromASCII(randomASCII(n, int64(n*31+context)))
			iter, tail, headLen := ParIterBP(s, context)

			got := make([]Base, 0, n)
			seen := make([][]Base, 8)
			iter.All(func(st Step) bool {
				for j := 0; j < 8; j++ {
					seen[j] = append(seen[j], st.Add[j])
				}
				return true
			})
			stepsPerLane := headLen + context - 1
			if iter.Len() != stepsPerLane {
				t.Fatalf("n=%d context=%d: Len()=%d want %d", n, context, iter.Len(), stepsPerLane)
			}
			for j := 0; j < 8; j++ {
				for t2 := 0; t2 < stepsPerLane; t2++ {
					absPos := j*headLen + t2
					want := baseOrZero(s, absPos)
					if seen[j][t2] != want {
						t.Fatalf("n=%d context=%d lane=%d t=%d: got %v want %v", n, context, j, t2, seen[j][t2], want)
					}
				}
			}
			for i := 0; i < tail.Len(); i++ {
				if tail.At(i) != s.At(8*headLen+i) {
					t.Fatalf("tail mismatch at %d", i)
				}
			}
			_ = got
		}
	}
}

func TestParIterBPDelayed(t *testing.T) {
	n := 100
	context := 10
	d := 4
	s := PackedFromASCII(randomASCII(n, 99))
	iter, _, headLen := ParIterBPDelayed(s, context, d)
	iter.All(func(st Step) bool {
		return true
	})
	_ = headLen
	// Verify Rm1 matches the base d steps behind Add, per lane, once warmed up.
	t2 := 0
	iter.All(func(st Step) bool {
		for j := 0; j < 8; j++ {
			addPos := j*headLen + t2
			if t2 >= d {
				want := baseOrZero(s, addPos-d)
				if st.Rm1[j] != want {
					t.Fatalf("t=%d lane=%d: Rm1=%v want %v", t2, j, st.Rm1[j], want)
				}
			} else if st.Rm1[j] != 0 {
				t.Fatalf("t=%d lane=%d: Rm1 should be zero before warmup, got %v", t2, j, st.Rm1[j])
			}
		}
		t2++
		return true
	})
}
