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

// Package ans implements a stack-discipline (LIFO) Asymmetric Numeral
// Systems entropy coder over a 64-bit state and 32-bit compressed words,
// per spec.md section 4.2.
//
// This is a direct generalization of the teacher's single-symbol rANS
// coder (ion/zion/iguana/ans1.go: ANS1Encoder.put / ans1DecompressReference)
// from its compile-time 16-bit renormalization word and 12-bit precision
// to a runtime-supplied precision P (via the quant.Model interface) and a
// 32-bit renormalization word, matching this module's W=32, S=64
// parameters.
//
// For theoretical background, see Jaroslaw Duda's rANS paper:
// https://arxiv.org/pdf/1311.2540.pdf
package ans

import (
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/FortesenseLabs/constriction/quant"
)

const (
	// WordBits is W, the width in bits of one compressed buffer word.
	WordBits = 32
	// StateBits is S = 2*WordBits, the width of the coder's state.
	StateBits = 2 * WordBits

	wordL = uint64(1) << WordBits

	initialBufferCapacity = 64
)

// Coder is a single ANS stack: encoding pushes words onto it, decoding
// pops from the same stack in reverse. A zero-value Coder is a fresh
// encoder ready to use, matching spec.md section 4.2's "state = 0,
// buffer = []" initial condition.
//
// Coder is not safe for use from multiple goroutines simultaneously; see
// spec.md section 5.
type Coder struct {
	state  uint64
	buffer []uint32
}

// NewEncoder returns a fresh, empty ANS coder ready to encode.
func NewEncoder() *Coder {
	return &Coder{buffer: make([]uint32, 0, initialBufferCapacity)}
}

// NewDecoder returns an ANS coder primed to decode the symbols encoded
// into compressed, in reverse order of encoding. compressed is copied;
// the caller's slice is not retained or mutated.
//
// Per spec.md section 4.2, the decoder pops W-bit words from the top of
// compressed to fill the upper and lower halves of state until
// state >= 2^W, or until the buffer is exhausted.
func NewDecoder(compressed []uint32) *Coder {
	buf := slices.Clone(compressed)
	c := &Coder{buffer: buf}
	for i := 0; i < 2 && c.state < wordL && len(c.buffer) > 0; i++ {
		c.state = (c.state << WordBits) | uint64(c.pop())
	}
	return c
}

func (c *Coder) pop() uint32 {
	n := len(c.buffer) - 1
	w := c.buffer[n]
	c.buffer = c.buffer[:n]
	return w
}

// Encode pushes symbol onto the coder's stack under model m. It returns
// ErrSymbolNotInAlphabet, leaving the coder's state and buffer unchanged,
// if symbol is outside m's declared alphabet.
func (c *Coder) Encode(symbol int32, m quant.Model) error {
	cum, p, err := m.LeftCumulativeAndProbability(symbol)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSymbolNotInAlphabet, err)
	}
	precision := uint64(m.Precision())

	x := c.state
	if x == 0 {
		// Encoding into an empty coder starts from 2^W, so every encoded
		// symbol leaves state >= 2^W and state == 0 means nothing was
		// ever encoded.
		x = wordL
	}
	// Renormalize down: while state >= p * 2^(S-P), push the low W bits
	// of state and shift right by W. Computing the threshold as
	// p << (S-P) overflows to 0 when p == 2^P (the alphabet-of-size-1
	// boundary), turning the loop infinite; comparing x>>(S-P) against p
	// instead needs no such multiply and cannot overflow. At most two
	// words can be pushed per symbol (W=32, P<=32), so grow once up front
	// rather than letting append() reallocate mid-loop.
	shift := StateBits - precision
	c.buffer = slices.Grow(c.buffer, 2)
	for x>>shift >= uint64(p) {
		c.buffer = append(c.buffer, uint32(x))
		x >>= WordBits
	}
	c.state = ((x / uint64(p)) << precision) | (uint64(cum) + x%uint64(p))
	return nil
}

// Decode pops the most recently encoded symbol (LIFO) under model m. The
// model passed to Decode must be the same model (same precision and
// alphabet) used to Encode the symbol being recovered, in reverse
// encoding order.
func (c *Coder) Decode(m quant.Model) (int32, error) {
	if c.state == 0 && len(c.buffer) == 0 {
		return 0, ErrDecodeEmpty
	}
	precision := uint64(m.Precision())
	mask := (uint64(1) << precision) - 1
	q := uint32(c.state & mask)

	s, cum, p := m.QuantileFunction(q)
	c.state = uint64(p)*(c.state>>precision) + uint64(q) - uint64(cum)

	// Renormalize up: while state < 2^W and words remain, pop one in.
	for c.state < wordL && len(c.buffer) > 0 {
		c.state = (c.state << WordBits) | uint64(c.pop())
	}
	return s, nil
}

// GetCompressed seals the coder and returns its canonical compressed
// representation: the buffer with the W-bit halves of the final state
// appended, low half first. Per spec.md section 4.2, when state == 0
// (nothing was ever encoded) the stack is necessarily empty too, and the
// serialization is empty; a trailing high half that is itself zero is
// likewise omitted rather than written out.
//
// The returned slice is a copy; further encoding on the same Coder does
// not alias it.
func (c *Coder) GetCompressed() []uint32 {
	if c.state == 0 {
		return slices.Clone(c.buffer)
	}
	out := make([]uint32, 0, len(c.buffer)+2)
	out = append(out, c.buffer...)
	out = append(out, uint32(c.state))
	if high := uint32(c.state >> WordBits); high != 0 {
		out = append(out, high)
	}
	return out
}
