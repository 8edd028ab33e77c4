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


package esp8266_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/megawifi/mdma"
	"github.com/megawifi/mdma/programmer/esp8266"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func firmware(n int) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = byte(i * 7)
	}
	data[0] = 0xe9
	data[1] = 0x03
	data[2] = 0x00
	data[3] = 0x20
	return data
}

func TestNewBlobPadsSectors(t *testing.T) {
	data := firmware(5000)
	b, err := esp8266.NewBlob(data, 0x1000, esp8266.SpiUnchanged)
	require.NoError(t, err)
	assert.Equal(t, 8192, b.Len())
	assert.Equal(t, uint32(2), b.SectTotal)
	assert.Equal(t, 5000, b.Size)
	assert.Equal(t, uint32(0x1000), b.Addr)
	assert.Equal(t, data, b.Data()[:5000])
	for i := 5000; i < 8192; i++ {
		if b.Data()[i] != 0xff {
			t.Fatalf("byte %d = 0x%02X, want 0xFF", i, b.Data()[i])
		}
	}
	assert.Equal(t, b.Data()[4096:], b.Sector(1))
	assert.False(t, b.Done())
}

func TestNewBlobExactSector(t *testing.T) {
	b, err := esp8266.NewBlob(firmware(esp8266.SectLen), 0, esp8266.SpiUnchanged)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), b.SectTotal)
	assert.Equal(t, esp8266.SectLen, b.Len())
}

func TestNewBlobPatchesHeader(t *testing.T) {
	b, err := esp8266.NewBlob(firmware(100), 0, esp8266.SpiDIO)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xe9, 0x03, 0x02, 0x40}, b.Data()[:4])
}

func TestNewBlobLeavesHeader(t *testing.T) {
	notImage := firmware(100)
	notImage[0] = 0xea
	tests := []struct {
		name string
		data []byte
		addr uint32
		mode esp8266.SpiMode
	}{
		{"address", firmware(100), 0x10000, esp8266.SpiQIO},
		{"unchanged", firmware(100), 0, esp8266.SpiUnchanged},
		{"magic", notImage, 0, esp8266.SpiDOUT},
	}
	for _, tc := range tests {
		b, err := esp8266.NewBlob(tc.data, tc.addr, tc.mode)
		require.NoError(t, err, tc.name)
		assert.Equal(t, tc.data[:8], b.Data()[:8], tc.name)
	}
}

func TestNewBlobDoesNotModifyInput(t *testing.T) {
	data := firmware(16)
	_, err := esp8266.NewBlob(data, 0, esp8266.SpiQOUT)
	require.NoError(t, err)
	assert.Equal(t, byte(0x00), data[2])
}

func TestLoadBlob(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fw.bin")
	require.NoError(t, os.WriteFile(path, firmware(10), 0o644))

	b, err := esp8266.LoadBlob(path, 0, esp8266.SpiQIO)
	require.NoError(t, err)
	assert.Equal(t, byte(esp8266.SpiQIO), b.Data()[2])
	assert.Equal(t, 10, b.Size)

	empty := filepath.Join(dir, "empty.bin")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	for _, p := range []string{empty, filepath.Join(dir, "missing.bin")} {
		_, err = esp8266.LoadBlob(p, 0, esp8266.SpiQIO)
		var ioerr *mdma.IoError
		assert.True(t, errors.As(err, &ioerr), "%s: %v", p, err)
	}
}

func TestParseSpiMode(t *testing.T) {
	for mode, name := range []string{"qio", "qout", "dio", "DOUT", "unchanged"} {
		got, err := esp8266.ParseSpiMode(name)
		require.NoError(t, err)
		assert.Equal(t, esp8266.SpiMode(mode), got)
	}
	_, err := esp8266.ParseSpiMode("fast")
	assert.Error(t, err)

	var m esp8266.SpiMode
	require.NoError(t, m.Set("dio"))
	assert.Equal(t, esp8266.SpiDIO, m)
	assert.Equal(t, "dio", m.String())
	assert.Error(t, m.Set("x"))
	assert.Equal(t, "SpiMode(9)", esp8266.SpiMode(9).String())
}
