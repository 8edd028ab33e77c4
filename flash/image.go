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
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/golang/glog"
	"github.com/marcinbor85/gohex"
	"github.com/megawifi/mdma"
)

// Longest accepted "addr:len" range string.
const maxMemRange = 24

// A file together with the flash region it maps to. Addr is a word address
// and Len a word count; Len 0 means the whole file.
type MemImage struct {
	File string
	Addr uint32
	Len  uint32
}

func (m MemImage) String() string {
	s := m.File
	if m.Addr != 0 {
		s += fmt.Sprintf(" at address 0x%06X", m.Addr)
	}
	if m.Len != 0 {
		s += fmt.Sprintf(" (%d words)", m.Len)
	}
	return s
}

func parseNumber(s string) (uint32, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, err
	}
	return uint32(v), nil
}

// Parses "file[:addr[:len]]", e.g. "rom.bin:0x6000:1". Missing or empty
// fields default to 0.
func ParseMemArgument(s string) (MemImage, error) {
	fields := strings.SplitN(s, ":", 3)
	m := MemImage{File: fields[0]}
	if m.File == "" {
		return m, &mdma.RangeError{Input: s, Reason: "missing file name"}
	}
	var err error
	if len(fields) > 1 {
		if m.Addr, err = parseNumber(fields[1]); err != nil {
			return m, &mdma.RangeError{Input: s, Reason: "invalid memory address"}
		}
	}
	if len(fields) > 2 {
		if m.Len, err = parseNumber(fields[2]); err != nil {
			return m, &mdma.RangeError{Input: s, Reason: "invalid memory length"}
		}
	}
	return m, nil
}

// Parses "addr[:len]". A missing length is returned as 0.
func ParseMemRange(s string) (addr, length uint32, err error) {
	if len(s) > maxMemRange {
		return 0, 0, &mdma.RangeError{Input: s, Reason: "invalid memory range string"}
	}
	a, l, hasLen := strings.Cut(s, ":")
	if addr, err = parseNumber(a); err != nil {
		return 0, 0, &mdma.RangeError{Input: s, Reason: "invalid memory address"}
	}
	if !hasLen {
		return addr, 0, nil
	}
	if length, err = parseNumber(l); err != nil {
		return 0, 0, &mdma.RangeError{Input: s, Reason: "invalid memory length"}
	}
	return addr, length, nil
}

// Contents of an image file. Addr is the word address the file declares
// (only Intel HEX files declare one).
type Image struct {
	Data []byte
	Addr uint32
}

// Loads an image file. Files with a .hex extension are parsed as Intel HEX
// and flattened, with gaps filled with 0xFF; anything else is raw binary.
func LoadImage(path string) (*Image, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &mdma.IoError{Path: path, Err: err}
	}
	if !strings.EqualFold(filepath.Ext(path), ".hex") {
		return &Image{Data: raw}, nil
	}

	mem := gohex.NewMemory()
	if err = mem.ParseIntelHex(bytes.NewReader(raw)); err != nil {
		return nil, &mdma.IoError{Path: path, Err: err}
	}
	segments := mem.GetDataSegments()
	if len(segments) == 0 {
		return nil, &mdma.IoError{Path: path, Err: fmt.Errorf("no data records")}
	}
	start := segments[0].Address
	last := segments[len(segments)-1]
	end := last.Address + uint32(len(last.Data))
	if start%2 != 0 {
		return nil, &mdma.IoError{Path: path,
			Err: fmt.Errorf("data starts at odd byte address 0x%X", start)}
	}
	glog.V(1).Infof("Loaded %d hex segment(s) spanning 0x%X-0x%X", len(segments), start, end)
	return &Image{Data: mem.ToBinary(start, end-start, 0xff), Addr: start / 2}, nil
}

// Byte swaps words and writes them to path.
func SaveImage(path string, words []uint16) error {
	buf := make([]uint16, len(words))
	copy(buf, words)
	mdma.SwapWords(buf)
	if err := os.WriteFile(path, mdma.BytesFromWords(buf), 0o644); err != nil {
		return &mdma.IoError{Path: path, Err: err}
	}
	return nil
}
