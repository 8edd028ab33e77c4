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


package esp8266

import (
	"fmt"
	"os"
	"strings"

	"github.com/megawifi/mdma"
)

// SPI interface mode written to the firmware image header.
type SpiMode uint8

const (
	SpiQIO SpiMode = iota
	SpiQOUT
	SpiDIO
	SpiDOUT
	// Leaves the image header untouched.
	SpiUnchanged
)

var spiModeNames = []string{"qio", "qout", "dio", "dout", "unchanged"}

func (m SpiMode) String() string {
	if int(m) < len(spiModeNames) {
		return spiModeNames[m]
	}
	return fmt.Sprintf("SpiMode(%d)", m)
}

func ParseSpiMode(s string) (SpiMode, error) {
	for i, name := range spiModeNames {
		if strings.EqualFold(s, name) {
			return SpiMode(i), nil
		}
	}
	return SpiUnchanged, fmt.Errorf("invalid flash mode %q", s)
}

// Set and Type make *SpiMode usable as a command line flag value.
func (m *SpiMode) Set(s string) error {
	mode, err := ParseSpiMode(s)
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

func (m *SpiMode) Type() string {
	return "spimode"
}

const (
	imageMagic = 0xe9
	// Byte 3 of the image header: 4 MiB flash at 40 MHz.
	flashParam4M40 = 0x40
)

// Firmware image prepared for download: padded with 0xFF up to a whole
// number of sectors.
type Blob struct {
	data []byte
	// Byte address in the WiFi chip flash.
	Addr uint32
	// Next sector to send.
	Sect uint32
	// Sectors in the padded image.
	SectTotal uint32
	// Length of the unpadded image.
	Size int
}

// Reads a firmware file into a Blob. See NewBlob.
func LoadBlob(path string, addr uint32, mode SpiMode) (*Blob, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &mdma.IoError{Path: path, Err: err}
	}
	b, err := NewBlob(data, addr, mode)
	if err != nil {
		return nil, &mdma.IoError{Path: path, Err: err}
	}
	return b, nil
}

// Copies data into a sector-padded Blob. An image flashed at address 0
// whose header starts with the image magic gets mode and the flash
// parameters patched in, unless mode is SpiUnchanged.
func NewBlob(data []byte, addr uint32, mode SpiMode) (*Blob, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("firmware image is empty")
	}
	sects := (len(data) + SectLen - 1) / SectLen
	b := &Blob{
		data:      make([]byte, sects*SectLen),
		Addr:      addr,
		SectTotal: uint32(sects),
		Size:      len(data),
	}
	n := copy(b.data, data)
	for i := n; i < len(b.data); i++ {
		b.data[i] = 0xff
	}

	if addr == 0 && mode < SpiUnchanged && b.data[0] == imageMagic {
		b.data[2] = byte(mode)
		b.data[3] = flashParam4M40
	}
	return b, nil
}

// Padded image length in bytes.
func (b *Blob) Len() int {
	return len(b.data)
}

func (b *Blob) Data() []byte {
	return b.data
}

// Data of sector i.
func (b *Blob) Sector(i uint32) []byte {
	return b.data[i*SectLen : (i+1)*SectLen]
}

func (b *Blob) Done() bool {
	return b.Sect >= b.SectTotal
}
