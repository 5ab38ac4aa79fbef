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

import "errors"

var (
	// ErrSymbolNotInAlphabet is returned by Encode when the model rejects
	// the symbol. The coder's state and buffer are left unchanged.
	ErrSymbolNotInAlphabet = errors.New("ans: symbol outside model alphabet")
	// ErrDecodeEmpty is returned by Decode when the coder holds no state
	// and no buffered words to decode from.
	ErrDecodeEmpty = errors.New("ans: decode called on an empty coder")
)
