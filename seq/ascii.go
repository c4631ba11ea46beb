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

// ASCII is a one-byte-per-base view over a DNA string, used by the naive
// reference implementation and by tests where readability matters more
// than density.
type ASCII struct {
	s []byte
}

var asciiToBase = [256]Base{}
var baseToASCII = [4]byte{'A', 'C', 'G', 'T'}

func init() {
	asciiToBase['A'] = A
	asciiToBase['C'] = C
	asciiToBase['G'] = G
	asciiToBase['T'] = T
}

// NewASCII validates s (must contain only 'A', 'C', 'G', 'T') and wraps it.
func NewASCII(s string) ASCII {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case 'A', 'C', 'G', 'T':
		default:
			panic("seq: ASCII sequence contains a byte that is not A/C/G/T")
		}
	}
	return ASCII{s: []byte(s)}
}

func (a ASCII) Len() int { return len(a.s) }

func (a ASCII) At(i int) Base { return asciiToBase[a.s[i]] }

func (a ASCII) Slice(lo, hi int) Seq { return ASCII{s: a.s[lo:hi]} }

// String returns the underlying ASCII text.
func (a ASCII) String() string { return string(a.s) }

// RevComp returns the reverse complement of a as a new ASCII sequence.
func (a ASCII) RevComp() ASCII {
	out := make([]byte, len(a.s))
	n := len(a.s)
	for i := 0; i < n; i++ {
		out[n-1-i] = baseToASCII[Complement(asciiToBase[a.s[i]])]
	}
	return ASCII{s: out}
}
