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

package quant

import (
	"math"

	"github.com/FortesenseLabs/constriction/internal/ints"
)

// repairZeroFrequencies enforces contract (C1): every entry of freq must
// be at least 1. Shortfall is stolen from the symbol anywhere in the table
// with the largest slack (freq-1), ties broken by the lower index, as spec.md
// section 4.1 step 2 prescribes. The mechanism (shift mass one unit at a
// time between a donor and a zero-frequency symbol) is adapted from the
// teacher's ANSStatistics.normalizeFreqs zero-frequency repair in
// ion/zion/iguana/ans_statistics.go, with the donor-selection rule
// corrected to match the largest-slack tie-break spec.md mandates (the
// teacher picks the smallest qualifying frequency instead, which is fine
// for its own byte-histogram use case but not what this spec specifies).
// The total Σfreq is invariant under every steal, so (C2) is preserved.
func repairZeroFrequencies(freq []uint32) error {
	for i := range freq {
		if freq[i] != 0 {
			continue
		}
		best := -1
		var bestSlack uint32
		for j := range freq {
			if freq[j] <= 1 {
				continue
			}
			slack := freq[j] - 1
			if best == -1 || slack > bestSlack {
				best = j
				bestSlack = slack
			}
			// ties broken by lower index: scanning left-to-right and only
			// replacing on strictly greater slack already keeps the
			// lowest-index donor among equal-slack candidates.
		}
		if best == -1 {
			return ErrUnassignableProbability
		}
		freq[best]--
		freq[i] = 1
	}
	return nil
}

// buildFromFreq turns a per-symbol frequency table (summing to exactly
// 2^precision after repairZeroFrequencies) into a Table by computing the
// prefix-sum left-cumulative vector described in spec.md section 3.
func buildFromFreq(lower, upper int32, precision uint32, freq []uint32, hint func(q uint32) int32) (*Table, error) {
	if err := repairZeroFrequencies(freq); err != nil {
		return nil, err
	}
	cum := make([]uint32, len(freq)+1)
	for i, f := range freq {
		cum[i+1] = cum[i] + f
	}
	return &Table{lower: lower, upper: upper, precision: precision, cum: cum, hint: hint}, nil
}

func checkBounds(lower, upper int32, precision uint32) (n int, err error) {
	if lower > upper {
		return 0, ErrInvalidAlphabet
	}
	if precision == 0 || precision > MaxPrecision {
		return 0, ErrPrecisionTooLarge
	}
	n64 := int64(upper) - int64(lower) + 1
	if n64 <= 0 || n64 > int64(uint64(1)<<precision) {
		return 0, ErrUnassignableProbability
	}
	return int(n64), nil
}

// NewCategorical builds a Table from explicit, not-necessarily-normalized
// nonnegative probabilities, one per symbol starting at lower, per
// spec.md section 4.1 "Construction from discrete categorical
// probabilities": scale to 2^precision, floor, and distribute the
// rounding residual to the largest fractional parts (ties by lower
// index), then repair any symbol this leaves at zero frequency.
func NewCategorical(probabilities []float64, lower int32, precision uint32) (*Table, error) {
	upper := lower + int32(len(probabilities)) - 1
	n, err := checkBounds(lower, upper, precision)
	if err != nil {
		return nil, err
	}
	total := uint64(1) << precision

	var sum float64
	for _, p := range probabilities {
		if p < 0 {
			return nil, ErrUnassignableProbability
		}
		sum += p
	}
	if sum <= 0 {
		return nil, ErrUnassignableProbability
	}

	freq := make([]uint32, n)
	frac := make([]float64, n)
	var assigned uint64
	for i, p := range probabilities {
		scaled := p / sum * float64(total)
		f := math.Floor(scaled)
		freq[i] = uint32(f)
		frac[i] = scaled - f
		assigned += uint64(freq[i])
	}

	residual := int(total - assigned)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	// Largest fractional part first; ties broken by lower index via a
	// stable sort over the already-ascending index order.
	sortByFracDesc(order, frac)
	for k := 0; k < residual; k++ {
		freq[order[k%n]]++
	}

	return buildFromFreq(lower, upper, precision, freq, nil)
}

// sortByFracDesc performs an insertion sort (alphabets are small enough
// in practice that this never needs to be asymptotically clever) of order
// by descending frac, stable on ties so lower indices sort first.
func sortByFracDesc(order []int, frac []float64) {
	for i := 1; i < len(order); i++ {
		v := order[i]
		j := i - 1
		for j >= 0 && frac[order[j]] < frac[v] {
			order[j+1] = order[j]
			j--
		}
		order[j+1] = v
	}
}

// NewCustomModel builds a Table from a continuous CDF and an approximate
// inverse CDF over the contiguous integer alphabet [lower, upper], per
// spec.md section 4.1 "Construction from a continuous CDF". The inverse
// is used only to seed QuantileFunction's ±1 bijection-correction search
// (spec.md section 9's Open Question resolution); it is never trusted to
// be exact.
func NewCustomModel(cdf func(float64) float64, approxInverseCDF func(float64) float64, lower, upper int32, precision uint32) (*Table, error) {
	n, err := checkBounds(lower, upper, precision)
	if err != nil {
		return nil, err
	}
	total := uint32(uint64(1) << precision)

	// Tentative left cumulatives c'_s for s in [lower, upper+1], clamped
	// at the boundaries per spec.md step 1.
	cprime := make([]uint32, n+1)
	cprime[0] = 0
	cprime[n] = total
	for i := 1; i < n; i++ {
		s := lower + int32(i)
		v := cdf(float64(s)-0.5) * float64(total)
		r := math.Round(v)
		cprime[i] = uint32(ints.Clamp(int64(r), 0, int64(total)))
	}
	// Cumulatives must be nondecreasing; clamp any local inversion caused
	// by rounding before differencing into frequencies.
	for i := 1; i <= n; i++ {
		if cprime[i] < cprime[i-1] {
			cprime[i] = cprime[i-1]
		}
	}

	freq := make([]uint32, n)
	for i := 0; i < n; i++ {
		freq[i] = cprime[i+1] - cprime[i]
	}

	var hint func(q uint32) int32
	if approxInverseCDF != nil {
		hint = func(q uint32) int32 {
			x := approxInverseCDF((float64(q) + 0.5) / float64(total))
			return int32(math.Round(x))
		}
	}

	return buildFromFreq(lower, upper, precision, freq, hint)
}
