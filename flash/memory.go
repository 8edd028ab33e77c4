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


package flash

import (
	"fmt"

	"github.com/megawifi/mdma"
)

// Reads flash in chunks, advancing the word address after each one.
type memReader struct {
	dev       Device
	addr      uint32
	chunkSize int
	progress  mdma.ProgressSink
}

func (r *memReader) ReadWords(p []uint16) (n int, err error) {
	for n < len(p) {
		toRead := len(p) - n
		if toRead > r.chunkSize {
			toRead = r.chunkSize
		}

		if err = r.dev.Read(r.addr, p[n:n+toRead]); err != nil {
			return n, fmt.Errorf("READ at 0x%06X failed: %w", r.addr, err)
		}

		n += toRead
		r.addr += uint32(toRead)
		r.progress.OnProgress(uint32(n), uint32(len(p)), fmt.Sprintf("0x%06X", r.addr))
	}
	return n, nil
}

// Programs flash in chunks, advancing the word address after each one.
type memWriter struct {
	dev       Device
	addr      uint32
	chunkSize int
	progress  mdma.ProgressSink
}

func (w *memWriter) WriteWords(p []uint16) (n int, err error) {
	for n < len(p) {
		toWrite := len(p) - n
		if toWrite > w.chunkSize {
			toWrite = w.chunkSize
		}

		if err = w.dev.Write(w.addr, p[n:n+toWrite]); err != nil {
			return n, fmt.Errorf("WRITE at 0x%06X failed: %w", w.addr, err)
		}

		n += toWrite
		w.addr += uint32(toWrite)
		w.progress.OnProgress(uint32(n), uint32(len(p)), fmt.Sprintf("0x%06X", w.addr))
	}
	return n, nil
}
