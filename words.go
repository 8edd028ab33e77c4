// Copyright 2019 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package mdma

import "encoding/binary"

// Swaps the two bytes of a 16-bit word.
func ByteSwap16(w uint16) uint16 {
	return w>>8 | w<<8
}

// Byte swaps every word of buf in place.
func SwapWords(buf []uint16) {
	for i, w := range buf {
		buf[i] = ByteSwap16(w)
	}
}

// Interprets b as little-endian words. A trailing odd byte is dropped.
func WordsFromBytes(b []byte) []uint16 {
	words := make([]uint16, len(b)/2)
	for i := range words {
		words[i] = binary.LittleEndian.Uint16(b[2*i:])
	}
	return words
}

// Serializes words as little-endian bytes.
func BytesFromWords(words []uint16) []byte {
	b := make([]byte, 2*len(words))
	for i, w := range words {
		binary.LittleEndian.PutUint16(b[2*i:], w)
	}
	return b
}
