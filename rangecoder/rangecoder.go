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

// Package rangecoder implements a queue-discipline (FIFO) range coder over
// a 64-bit state and 32-bit compressed words, per spec.md section 4.3.
//
// The teacher repo has no queue-discipline coder to generalize (its only
// entropy coder is the stack-discipline rANS in ion/zion/iguana); this
// package is grounded instead on the carry-propagation technique of
// thesyncim/gopus's rangecoding package (its ec_enc_carry_out, adapted
// here from 8-bit bytes to W-bit words and from a fixed binary coder to
// the quant.Model interface), written in the teacher's own idiom: an
// errorCode-free direct error return matching ion/zion/iguana/error.go's
// sentinel style, and a cursor-based input reader matching
// ion/zion/iguana/stream.go.
package rangecoder

import (
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/FortesenseLabs/constriction/quant"
)

const (
	// WordBits is W, the width in bits of one compressed buffer word.
	WordBits = 32
	// StateBits is S = 2*WordBits, the width of low/range/point.
	StateBits = 2 * WordBits

	wordL   = uint64(1) << WordBits
	wordMax = uint32(0xFFFFFFFF)
)

// Encoder narrows [low, low+range) by one symbol per Encode call, emitting
// W-bit words as the interval shrinks below representable precision. The
// zero value is not valid; use NewEncoder.
//
// Encoder is not safe for use from multiple goroutines simultaneously.
type Encoder struct {
	low, rng uint64

	haveCached  bool
	cachedWord  uint32
	numPending  uint64
	pendingZero bool // a carry turned the pending all-ones words into all-zeros

	output []uint32
	sealed bool
}

// NewEncoder returns a fresh range encoder with range = [0, 2^S).
func NewEncoder() *Encoder {
	return &Encoder{rng: ^uint64(0)}
}

// Encode narrows the encoder's interval to the sub-interval model m
// assigns symbol. It returns ErrSymbolNotInAlphabet, leaving the encoder
// unchanged, if symbol is outside m's declared alphabet.
func (e *Encoder) Encode(symbol int32, m quant.Model) error {
	if e.sealed {
		return fmt.Errorf("rangecoder: Encode called after GetCompressed")
	}
	cum, p, err := m.LeftCumulativeAndProbability(symbol)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSymbolNotInAlphabet, err)
	}
	precision := uint64(m.Precision())

	rangeUnit := e.rng >> precision
	newLow := e.low + uint64(cum)*rangeUnit
	if newLow < e.low {
		// low overflowed past 2^S: propagate the carry into the words
		// that are buffered but not yet emitted. Until the first word is
		// shifted out, low+range < 2^S holds and every update keeps
		// newLow+newRange <= low+range, so this can only happen once at
		// least one word has been shifted out (haveCached is true).
		e.propagateCarry()
	}
	e.low = newLow
	e.rng = rangeUnit * uint64(p)

	// At most one word is shifted out per symbol, but flushing it also
	// writes any pending words; grow by two up front so the common case
	// does not make append() reallocate inside flushCached.
	e.output = slices.Grow(e.output, 2)
	for e.rng < wordL {
		e.shiftOutWord(uint32(e.low >> WordBits))
		e.low <<= WordBits
		e.rng <<= WordBits
	}
	return nil
}

func (e *Encoder) propagateCarry() {
	// The pending all-ones words follow cachedWord in the stream, so the
	// carry turns every one of them into all-zero and then increments
	// cachedWord. These words cannot take a second carry: emit them now
	// and keep the last
	// (now all-zero) word as the cached word.
	e.cachedWord++
	if e.numPending > 0 {
		e.numPending--
		e.pendingZero = true
		e.flushCached()
		e.cachedWord = 0
	}
}

// shiftOutWord buffers a newly determined output word behind the
// cached_word/num_pending_words scheme, so that a carry arriving later
// can still be propagated into already-determined (but not yet emitted)
// words.
func (e *Encoder) shiftOutWord(w uint32) {
	if !e.haveCached {
		e.cachedWord = w
		e.haveCached = true
		return
	}
	if w == wordMax {
		e.numPending++
		return
	}
	e.flushCached()
	e.cachedWord = w
}

func (e *Encoder) flushCached() {
	e.output = append(e.output, e.cachedWord)
	fill := wordMax
	if e.pendingZero {
		fill = 0
	}
	for i := uint64(0); i < e.numPending; i++ {
		e.output = append(e.output, fill)
	}
	e.numPending = 0
	e.pendingZero = false
}

// seal emits enough additional words, derived from the final low, that a
// decoder reading exactly StateBits/WordBits words past the current
// output lands inside [low, low+range); see NewDecoder.
func (e *Encoder) seal() {
	e.shiftOutWord(uint32(e.low >> WordBits))
	e.shiftOutWord(uint32(e.low))
	if e.haveCached {
		e.flushCached()
	}
}

// GetCompressed seals the encoder and returns its canonical compressed
// word sequence, in the order symbols were encoded. The returned slice is
// a copy. GetCompressed may be called more than once; subsequent calls
// return the same sealed result, and Encode returns an error if called
// afterward.
func (e *Encoder) GetCompressed() []uint32 {
	if !e.sealed {
		e.seal()
		e.sealed = true
	}
	return slices.Clone(e.output)
}

// Decoder recovers symbols from a stream produced by Encoder, in the same
// order they were encoded.
//
// Decoder is not safe for use from multiple goroutines simultaneously.
type Decoder struct {
	low, rng, point uint64
	input           []uint32
	cursor          int
}

// NewDecoder returns a decoder over compressed, a word sequence produced
// by Encoder.GetCompressed. compressed is not copied: the Decoder keeps
// it and reads words from it as decoding proceeds, without mutating it.
func NewDecoder(compressed []uint32) *Decoder {
	d := &Decoder{rng: ^uint64(0), input: compressed}
	for i := 0; i < StateBits/WordBits; i++ {
		d.point = (d.point << WordBits) | uint64(d.nextWord())
	}
	return d
}

func (d *Decoder) nextWord() uint32 {
	if d.cursor >= len(d.input) {
		return 0
	}
	w := d.input[d.cursor]
	d.cursor++
	return w
}

// Decode recovers the next symbol under model m. The model passed to
// Decode must be the same model (same precision and alphabet) used to
// Encode the symbol being recovered, in the same order it was encoded.
func (d *Decoder) Decode(m quant.Model) (int32, error) {
	precision := uint64(m.Precision())
	rangeUnit := d.rng >> precision
	if rangeUnit == 0 {
		return 0, ErrCorruptStream
	}
	maxQ := (uint64(1) << precision) - 1
	q64 := (d.point - d.low) / rangeUnit
	if q64 > maxQ {
		q64 = maxQ
	}

	s, cum, p := m.QuantileFunction(uint32(q64))
	d.low += uint64(cum) * rangeUnit
	d.rng = rangeUnit * uint64(p)

	for d.rng < wordL {
		d.low <<= WordBits
		d.rng <<= WordBits
		d.point = (d.point << WordBits) | uint64(d.nextWord())
	}
	return s, nil
}
