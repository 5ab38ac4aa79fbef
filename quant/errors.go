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

import "errors"

var (
	// ErrInvalidAlphabet is returned when lower > upper or the alphabet is empty.
	ErrInvalidAlphabet = errors.New("quant: invalid alphabet bounds")
	// ErrPrecisionTooLarge is returned when the requested precision is 0 or exceeds MaxPrecision.
	ErrPrecisionTooLarge = errors.New("quant: precision exceeds word width")
	// ErrUnassignableProbability is returned when the alphabet is larger than 2^precision,
	// so every symbol cannot be given a nonzero fixed-point probability.
	ErrUnassignableProbability = errors.New("quant: alphabet too large for precision")
	// ErrSymbolOutOfRange is returned by LeftCumulativeAndProbability for a symbol
	// outside the model's declared support.
	ErrSymbolOutOfRange = errors.New("quant: symbol outside alphabet")
)
