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

package ans

import (
	"reflect"
	"testing"

	"github.com/FortesenseLabs/constriction/quant"
)

func mustGaussian(t *testing.T, mean, std float64, lower, upper int32, precision uint32) *quant.Table {
	t.Helper()
	tab, err := quant.NewQuantizedGaussian(mean, std, lower, upper, precision)
	if err != nil {
		t.Fatalf("NewQuantizedGaussian: %v", err)
	}
	return tab
}

// TestRoundTripSingleModel encodes and decodes a message under one shared
// model. Because ANS is LIFO, symbols are pushed in reverse order and pop
// back out in forward order.
func TestRoundTripSingleModel(t *testing.T) {
	tab, err := quant.NewCategorical([]float64{0.2, 0.1, 0.3, 0.4}, 0, 12)
	if err != nil {
		t.Fatal(err)
	}
	message := []int32{0, 3, 1, 2, 3, 3, 0, 2, 1, 3}

	enc := NewEncoder()
	for i := len(message) - 1; i >= 0; i-- {
		if err := enc.Encode(message[i], tab); err != nil {
			t.Fatalf("Encode(%d): %v", message[i], err)
		}
	}
	compressed := enc.GetCompressed()

	dec := NewDecoder(compressed)
	got := make([]int32, len(message))
	for i := range got {
		s, err := dec.Decode(tab)
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		got[i] = s
	}
	if !reflect.DeepEqual(got, message) {
		t.Fatalf("got %v, want %v", got, message)
	}
}

// TestScenarioGaussianPerSymbolReverse mirrors spec.md section 8 scenario
// 2: a message encoded under QuantizedGaussian(-100, 100, 24) with
// per-symbol means/stds, pushed in reverse and recovered in forward
// order.
func TestScenarioGaussianPerSymbolReverse(t *testing.T) {
	message := []int32{6, 10, -4, 2, -9, 41, 3, 0, 2}
	means := []float64{2.5, 13.1, -1.1, -3.0, -6.1, 34.2, 2.8, -6.4, -3.1}
	stds := []float64{4.1, 8.7, 6.2, 5.4, 24.1, 12.7, 4.9, 28.9, 4.2}

	models := make([]*quant.Table, len(message))
	for i := range models {
		models[i] = mustGaussian(t, means[i], stds[i], -100, 100, 24)
	}

	enc := NewEncoder()
	for i := len(message) - 1; i >= 0; i-- {
		if err := enc.Encode(message[i], models[i]); err != nil {
			t.Fatalf("Encode[%d]: %v", i, err)
		}
	}
	compressed := enc.GetCompressed()

	dec := NewDecoder(compressed)
	for i := range message {
		s, err := dec.Decode(models[i])
		if err != nil {
			t.Fatalf("Decode[%d]: %v", i, err)
		}
		if s != message[i] {
			t.Fatalf("symbol %d: got %d, want %d", i, s, message[i])
		}
	}
}

func TestEmptyMessage(t *testing.T) {
	enc := NewEncoder()
	compressed := enc.GetCompressed()
	if len(compressed) != 0 {
		t.Fatalf("empty encode produced %d words, want 0", len(compressed))
	}
	dec := NewDecoder(compressed)
	tab := mustGaussian(t, 0, 1, -10, 10, 8)
	if _, err := dec.Decode(tab); err != ErrDecodeEmpty {
		t.Fatalf("got err=%v, want ErrDecodeEmpty", err)
	}
}

func TestAlphabetOfSizeOneConsumesNoSpace(t *testing.T) {
	tab, err := quant.NewCategorical([]float64{1.0}, 7, 16)
	if err != nil {
		t.Fatal(err)
	}
	enc := NewEncoder()
	for i := 0; i < 50; i++ {
		if err := enc.Encode(7, tab); err != nil {
			t.Fatal(err)
		}
	}
	compressed := enc.GetCompressed()
	if len(compressed) > 2 {
		t.Fatalf("alphabet-of-one message grew to %d words, want <= 2", len(compressed))
	}

	dec := NewDecoder(compressed)
	for i := 0; i < 50; i++ {
		s, err := dec.Decode(tab)
		if err != nil {
			t.Fatal(err)
		}
		if s != 7 {
			t.Fatalf("decoded %d, want 7", s)
		}
	}
}

func TestExtremelySkewedProbabilities(t *testing.T) {
	probs := make([]float64, 8)
	probs[0] = 1
	for i := 1; i < len(probs); i++ {
		probs[i] = 1e-9
	}
	tab, err := quant.NewCategorical(probs, 0, 10)
	if err != nil {
		t.Fatal(err)
	}
	message := []int32{0, 0, 7, 0, 1, 0, 0}
	enc := NewEncoder()
	for i := len(message) - 1; i >= 0; i-- {
		if err := enc.Encode(message[i], tab); err != nil {
			t.Fatal(err)
		}
	}
	dec := NewDecoder(enc.GetCompressed())
	for i, want := range message {
		got, err := dec.Decode(tab)
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Fatalf("symbol %d: got %d, want %d", i, got, want)
		}
	}
}

func TestRejectsSymbolOutsideAlphabet(t *testing.T) {
	tab, err := quant.NewCategorical([]float64{0.5, 0.5}, 0, 8)
	if err != nil {
		t.Fatal(err)
	}
	enc := NewEncoder()
	if err := enc.Encode(5, tab); err == nil {
		t.Fatal("expected error encoding a symbol outside the alphabet")
	}
}

func TestIdenticalMessageProducesIdenticalOutput(t *testing.T) {
	tab := mustGaussian(t, 0, 5, -20, 20, 12)
	message := []int32{1, -2, 3, 0, -5, 7}

	encode := func() []uint32 {
		enc := NewEncoder()
		for i := len(message) - 1; i >= 0; i-- {
			_ = enc.Encode(message[i], tab)
		}
		return enc.GetCompressed()
	}
	a, b := encode(), encode()
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("encoding the same message twice diverged: %v vs %v", a, b)
	}
}

func TestBytesRoundTrip(t *testing.T) {
	tab := mustGaussian(t, 1, 3, -10, 10, 10)
	message := []int32{-1, 0, 1, 2, -3, 4, 5, -6}
	enc := NewEncoder()
	for i := len(message) - 1; i >= 0; i-- {
		_ = enc.Encode(message[i], tab)
	}
	words := enc.GetCompressed()
	b := WordsToBytes(words)
	back, ok := BytesToWords(b)
	if !ok {
		t.Fatal("BytesToWords rejected a valid byte buffer")
	}
	if !reflect.DeepEqual(words, back) {
		t.Fatalf("byte round-trip diverged: %v vs %v", words, back)
	}
	if _, ok := BytesToWords(b[:len(b)-1]); ok {
		t.Fatal("BytesToWords accepted a non-multiple-of-4 buffer")
	}
}
