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

import "encoding/binary"

// WordsToBytes serializes a compressed word sequence to little-endian
// bytes, the persistence convention spec.md section 6 mandates for
// exchange across machines (the in-memory representation is native-word,
// host byte order).
func WordsToBytes(words []uint32) []byte {
	out := make([]byte, 0, len(words)*4)
	for _, w := range words {
		out = binary.LittleEndian.AppendUint32(out, w)
	}
	return out
}

// BytesToWords deserializes a little-endian byte sequence produced by
// WordsToBytes back into compressed words. It returns false if len(b) is
// not a multiple of 4.
func BytesToWords(b []byte) ([]uint32, bool) {
	if len(b)%4 != 0 {
		return nil, false
	}
	out := make([]uint32, len(b)/4)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(b[i*4:])
	}
	return out, true
}
