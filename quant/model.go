// Copyright 2024 FortesenseLabs
//
//  Licensed under the Apache License, Version 2.0 (the "License");
//  you may not use this file except in compliance with the License.
//  You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
//  Unless required by applicable law or agreed to in writing, software
//  distributed under the License is distributed on an "AS IS" BASIS,
//  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//  See the License for the specific language governing permissions and
//  limitations under the License.

// Package quant implements the fixed-point quantized entropy-model
// substrate shared by the ans and rangecoder packages: it turns a
// continuous or discrete probability model over a bounded integer
// alphabet into an exactly invertible fixed-point probability mass
// function, as required by spec.md section 4.1.
package quant

import "sort"

// MaxPrecision is the largest precision this package will construct a
// table for. Probabilities and cumulatives are represented as uint32, so
// the total 2^P (and, in the single-symbol case, an individual
// probability equal to it) must fit in 32 bits; capping at W-1 rather
// than the coders' full word width W=32 keeps 2^P representable.
const MaxPrecision = 31

// Model is the capability every entropy coder in this module depends on:
// a bijection between the fixed-point quantile space [0, 2^P) and the
// symbols of a bounded integer alphabet.
type Model interface {
	// LeftCumulativeAndProbability returns the exclusive prefix sum and
	// probability of symbol, both as fixed-point integers with implicit
	// denominator 2^Precision(). It returns ErrSymbolOutOfRange if symbol
	// is outside the model's declared support.
	LeftCumulativeAndProbability(symbol int32) (c, p uint32, err error)

	// QuantileFunction returns the symbol s whose half-open interval
	// [c, c+p) contains q, along with that interval. q must be in
	// [0, 2^Precision()).
	QuantileFunction(q uint32) (symbol int32, c, p uint32)

	// Precision returns the fixed-point precision P shared by every
	// query; all probabilities are integers with denominator 2^P.
	Precision() uint32
}

// Table is an explicit fixed-point probability table over a contiguous
// integer alphabet [Lower, Upper], satisfying the three hard contracts of
// spec.md section 4.1: nonzero coverage, exact normalization to 2^P, and
// bijective quantile inversion.
//
// Table implements Model directly via O(1) index arithmetic for
// LeftCumulativeAndProbability, and either a seeded ±1 correction search
// (continuous constructors) or binary search (discrete constructors) for
// QuantileFunction.
type Table struct {
	lower, upper int32
	precision    uint32
	// cum has length upper-lower+2; cum[i] is the left cumulative
	// probability of symbol lower+i, cum[last] == 2^precision.
	cum []uint32
	// hint, when non-nil, maps a quantile q to an approximate symbol
	// used to seed the ±1 bijection-correction search instead of binary
	// search. Set only by continuous constructors (Gaussian, Cauchy,
	// CustomModel) per spec.md section 9's Open Question resolution.
	hint func(q uint32) int32
}

var _ Model = (*Table)(nil)

// Bounds returns the inclusive symbol range the table covers.
func (t *Table) Bounds() (lower, upper int32) {
	return t.lower, t.upper
}

// Precision returns the fixed-point precision P.
func (t *Table) Precision() uint32 {
	return t.precision
}

// LeftCumulativeAndProbability implements Model.
func (t *Table) LeftCumulativeAndProbability(symbol int32) (c, p uint32, err error) {
	if symbol < t.lower || symbol > t.upper {
		return 0, 0, ErrSymbolOutOfRange
	}
	idx := symbol - t.lower
	return t.cum[idx], t.cum[idx+1] - t.cum[idx], nil
}

// QuantileFunction implements Model.
func (t *Table) QuantileFunction(q uint32) (symbol int32, c, p uint32) {
	n := len(t.cum) - 1
	idx := 0
	if t.hint != nil {
		s0 := t.hint(q)
		if s0 < t.lower {
			s0 = t.lower
		} else if s0 > t.upper {
			s0 = t.upper
		}
		idx = int(s0 - t.lower)
		// Step ±1 around the approximate root until the inclusion test
		// holds: the hint is never trusted beyond seeding this search.
		for idx > 0 && t.cum[idx] > q {
			idx--
		}
		for idx < n-1 && t.cum[idx+1] <= q {
			idx++
		}
	} else {
		// Binary search over left cumulatives: largest idx with cum[idx] <= q.
		idx = sort.Search(n, func(i int) bool { return t.cum[i+1] > q })
	}
	return t.lower + int32(idx), t.cum[idx], t.cum[idx+1] - t.cum[idx]
}
