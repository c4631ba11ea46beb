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

// Package seq provides the packed-nucleotide sequence views consumed by
// the minimizer pipeline: a 2-bit encoding, an ASCII encoding used mostly
// by tests and the naive reference path, and the restartable/parallel
// base iterators the rest of the module is built on.
package seq

import "github.com/jianshu93/simd-minimizers/internal/ints"

// Base is a single nucleotide, 2-bit encoded so that complement(b) = b^3.
type Base uint8

const (
	A Base = 0
	C Base = 1
	G Base = 2
	T Base = 3
)

// Complement returns the Watson-Crick complement of b.
func Complement(b Base) Base { return b ^ 3 }

func (b Base) String() string {
	switch b {
	case A:
		return "A"
	case C:
		return "C"
	case G:
		return "G"
	case T:
		return "T"
	default:
		return "?"
	}
}

// Seq is a random-access view over a sequence of Bases. The pipeline never
// inspects the underlying bytes directly; it only reads Bases through this
// interface, so Packed and ASCII are interchangeable everywhere.
type Seq interface {
	Len() int
	At(i int) Base
	// Slice returns the sub-sequence [lo, hi) as a Seq of the same
	// concrete kind, without copying the backing storage.
	Slice(lo, hi int) Seq
}

func baseOrZero(s Seq, p int) Base {
	if p < 0 || p >= s.Len() {
		return 0
	}
	return s.At(p)
}

// IterBP returns a restartable push-style iterator over every Base of s in
// order. Calling the returned function again starts over from position 0.
func IterBP(s Seq) func(yield func(Base) bool) {
	return func(yield func(Base) bool) {
		n := s.Len()
		for i := 0; i < n; i++ {
			if !yield(s.At(i)) {
				return
			}
		}
	}
}

// BaseVec is one 8-lane SIMD vector of Bases: lane i holds the base
// contributed by the i-th of the 8 parallel chunks at the current step.
type BaseVec [8]Base

// Step is one element of a parallel byte-pair stream: the base being added
// to the rolling window in every lane, and the bases leaving the window at
// up to two distinct delays. Rm2 is unused (zero) for the single-delay
// iterators.
type Step struct {
	Add BaseVec
	Rm1 BaseVec
	Rm2 BaseVec
}

// ParIter is the 8-lane head of a parallel byte-pair stream: one Step per
// shared time index t, covering every lane simultaneously. Len reports the
// number of steps each lane produces *before* the caller drops the leading
// context-1 warm-up steps.
type ParIter struct {
	steps []Step
}

func (p *ParIter) Len() int { return len(p.steps) }

// All is the push-style iterator over the recorded steps.
func (p *ParIter) All(yield func(Step) bool) {
	for _, s := range p.steps {
		if !yield(s) {
			return
		}
	}
}

// parIterBPDelayed2 is the shared implementation behind ParIterBP,
// ParIterBPDelayed and ParIterBPDelayed2: context is the number of bases
// that must precede a position before its hash is well-defined (typically
// k+w-1); d1/d2 are the delays (in steps, not bases-before-sequence-start)
// at which Rm1/Rm2 start reflecting real data. A delay of 0 means "unused".
//
// Lane j reads bases starting at absolute position j*headLen and running
// headLen+context-1 steps forward, so its last window overlaps context-1
// extra bases into lane j+1's nominal territory. The caller is required to
// drop the first context-1 outputs of every lane; what remains are the
// headLen valid windows starting at j*headLen, j*headLen+1, ...
func parIterBPDelayed2(s Seq, context, d1, d2 int) (*ParIter, Seq, int) {
	if context < 1 {
		panic("seq: context must be >= 1")
	}
	n := s.Len()
	totalWindows := ints.Max(n-context+1, 0)
	headLen := totalWindows / 8

	stepsPerLane := headLen + context - 1
	steps := make([]Step, stepsPerLane)
	for t := 0; t < stepsPerLane; t++ {
		var st Step
		for j := 0; j < 8; j++ {
			addPos := j*headLen + t
			st.Add[j] = baseOrZero(s, addPos)
			if d1 > 0 && t >= d1 {
				st.Rm1[j] = baseOrZero(s, addPos-d1)
			}
			if d2 > 0 && t >= d2 {
				st.Rm2[j] = baseOrZero(s, addPos-d2)
			}
		}
		steps[t] = st
	}

	tailStart := ints.Min(8*headLen, n)
	tail := s.Slice(tailStart, n)
	return &ParIter{steps: steps}, tail, headLen
}

// ParIterBP splits s into 8 contiguous chunks of equal length and returns a
// parallel iterator of plain BaseVecs (via Step.Add) plus the scalar tail.
func ParIterBP(s Seq, context int) (*ParIter, Seq, int) {
	return parIterBPDelayed2(s, context, 0, 0)
}

// ParIterBPDelayed is ParIterBP, but each step additionally yields the base
// leaving the window at delay d (zero for the first d steps of every lane).
func ParIterBPDelayed(s Seq, context, d int) (*ParIter, Seq, int) {
	return parIterBPDelayed2(s, context, d, 0)
}

// ParIterBPDelayed2 is ParIterBPDelayed with a second, independent delay d2
// (used by the canonical pipeline, which needs the base leaving the full
// l-length window in addition to the one leaving the k-length window).
func ParIterBPDelayed2(s Seq, context, d1, d2 int) (*ParIter, Seq, int) {
	return parIterBPDelayed2(s, context, d1, d2)
}
