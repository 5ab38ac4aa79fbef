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

package rangecoder

import "errors"

var (
	// ErrSymbolNotInAlphabet is returned by Encoder.Encode when the model
	// rejects the symbol. The encoder's state is left unchanged.
	ErrSymbolNotInAlphabet = errors.New("rangecoder: symbol outside model alphabet")
	// ErrCorruptStream is returned by Decoder.Decode when the compressed
	// input cannot represent a valid quantile. The decoder must not be
	// reused afterward.
	ErrCorruptStream = errors.New("rangecoder: malformed compressed stream")
)
