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


package flash_test

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/megawifi/mdma"
	"github.com/megawifi/mdma/flash"
	"github.com/megawifi/mdma/mdmatest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Writes a raw image whose word i, as seen by the chip, is i+1.
func writeRom(t *testing.T, words int) string {
	t.Helper()
	data := make([]byte, 2*words)
	for i := 0; i < words; i++ {
		data[2*i] = byte((i + 1) >> 8)
		data[2*i+1] = byte(i + 1)
	}
	path := filepath.Join(t.TempDir(), "rom.bin")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

type progressLog struct {
	done   []uint32
	labels []string
}

func (p *progressLog) OnProgress(done, total uint32, label string) {
	p.done = append(p.done, done)
	p.labels = append(p.labels, label)
}

func TestProgramChunks(t *testing.T) {
	dev := mdmatest.NewFakeDevice(0x20000)
	progress := &progressLog{}
	m := flash.NewManager(mdma.NewSession(dev), flash.WithProgress(progress))

	written, img, err := m.Program(flash.MemImage{File: writeRom(t, 70000), Addr: 0x100}, false)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x100), img.Addr)
	assert.Equal(t, uint32(70000), img.Len)
	assert.Len(t, written, 70000)

	assert.Equal(t, []mdmatest.Transfer{
		{Addr: 0x100, Len: 32768},
		{Addr: 0x100 + 32768, Len: 32768},
		{Addr: 0x100 + 65536, Len: 4464},
	}, dev.Writes)
	assert.Empty(t, dev.Erases)
	assert.Equal(t, []uint32{0, 32768, 65536, 70000}, progress.done)
	assert.Equal(t, []string{"0x000100", "0x008100", "0x010100", "0x011270"}, progress.labels)

	for i := 0; i < 70000; i++ {
		if dev.Flash[0x100+i] != uint16(i+1) {
			t.Fatalf("word %d = 0x%04X", i, dev.Flash[0x100+i])
		}
	}
	assert.Equal(t, uint16(0xffff), dev.Flash[0xff])
	assert.Equal(t, uint16(0xffff), dev.Flash[0x100+70000])
}

func TestProgramAutoErase(t *testing.T) {
	dev := mdmatest.NewFakeDevice(0x1000)
	for i := range dev.Flash {
		dev.Flash[i] = 0
	}
	m := flash.NewManager(mdma.NewSession(dev))

	_, img, err := m.Program(flash.MemImage{File: writeRom(t, 16), Addr: 0x20, Len: 8}, true)
	require.NoError(t, err)
	assert.Equal(t, uint32(8), img.Len)
	assert.Equal(t, []mdmatest.Transfer{{Addr: 0x20, Len: 8}}, dev.Erases)
	assert.Equal(t, []mdma.Opcode{mdma.OpRangeErase, mdma.OpWrite}, dev.Commands)
	assert.Equal(t, uint16(1), dev.Flash[0x20])
	assert.Equal(t, uint16(8), dev.Flash[0x27])
	assert.Equal(t, uint16(0), dev.Flash[0x28])
}

func TestProgramHexUsesFileAddress(t *testing.T) {
	dev := mdmatest.NewFakeDevice(0x1000)
	m := flash.NewManager(mdma.NewSession(dev))
	path := writeHex(t, map[uint32][]byte{0x400: {0x4e, 0x71, 0x4e, 0x75}})

	_, img, err := m.Program(flash.MemImage{File: path}, false)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x200), img.Addr)
	assert.Equal(t, uint32(2), img.Len)
	assert.Equal(t, []uint16{0x4e71, 0x4e75}, dev.Flash[0x200:0x202])
}

func TestProgramRejects(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.bin")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	rom := writeRom(t, 16)

	m := flash.NewManager(mdma.NewSession(mdmatest.NewFakeDevice(0x100)), flash.WithCapacity(0x100))

	var ioerr *mdma.IoError
	_, _, err := m.Program(flash.MemImage{File: empty}, false)
	assert.True(t, errors.As(err, &ioerr), "empty file: %v", err)

	_, _, err = m.Program(flash.MemImage{File: rom, Len: 17}, false)
	assert.True(t, errors.As(err, &ioerr), "long length: %v", err)

	var rerr *mdma.RangeError
	_, _, err = m.Program(flash.MemImage{File: rom, Addr: 0xf8}, false)
	require.True(t, errors.As(err, &rerr), "out of chip: %v", err)
	assert.Equal(t, uint32(0x100), rerr.Limit)
}

func TestProgramDeviceError(t *testing.T) {
	dev := mdmatest.NewFakeDevice(0x100)
	dev.ErrOn[mdma.OpWrite] = true
	m := flash.NewManager(mdma.NewSession(dev))

	_, _, err := m.Program(flash.MemImage{File: writeRom(t, 4)}, false)
	var perr *mdma.ProtocolError
	require.True(t, errors.As(err, &perr), "%v", err)
	assert.Equal(t, mdma.OpErr, perr.Status)
}

func TestReadChunks(t *testing.T) {
	dev := mdmatest.NewFakeDevice(0x20000)
	for i := range dev.Flash {
		dev.Flash[i] = uint16(i)
	}
	m := flash.NewManager(mdma.NewSession(dev))

	words, err := m.Read(0x10, 40000)
	require.NoError(t, err)
	require.Len(t, words, 40000)
	assert.Equal(t, uint16(0x10), words[0])
	assert.Equal(t, uint16(0x10+39999), words[39999])
	assert.Equal(t, []mdmatest.Transfer{
		{Addr: 0x10, Len: 32768},
		{Addr: 0x10 + 32768, Len: 40000 - 32768},
	}, dev.Reads)
}

func TestReadOutOfRange(t *testing.T) {
	m := flash.NewManager(mdma.NewSession(mdmatest.NewFakeDevice(0)), flash.WithCapacity(0x400000))
	_, err := m.Read(0x3fff00, 0x200)
	var rerr *mdma.RangeError
	assert.True(t, errors.As(err, &rerr))
}

func TestProgramReadVerify(t *testing.T) {
	dev := mdmatest.NewFakeDevice(0x1000)
	m := flash.NewManager(mdma.NewSession(dev))

	written, img, err := m.Program(flash.MemImage{File: writeRom(t, 100), Addr: 0x80}, true)
	require.NoError(t, err)
	read, err := m.Read(img.Addr, img.Len)
	require.NoError(t, err)
	assert.NoError(t, m.Verify(written, read, img.Addr))

	out := filepath.Join(t.TempDir(), "dump.bin")
	require.NoError(t, flash.SaveImage(out, read))
	orig, err := os.ReadFile(writeRom(t, 100))
	require.NoError(t, err)
	dump, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, orig, dump)
}

func TestVerifyMismatch(t *testing.T) {
	m := flash.NewManager(mdma.NewSession(mdmatest.NewFakeDevice(0)))

	err := m.Verify([]uint16{1, 2, 3}, []uint16{1, 2, 0x7}, 0x100)
	var verr *flash.VerifyError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, flash.VerifyError{Addr: 0x102, Wrote: 3, Read: 7}, *verr)
	assert.Equal(t, "verify failed at addr 0x0000102: wrote 0x0003, read 0x0007", err.Error())

	err = m.Verify([]uint16{1, 2}, []uint16{1}, 0x10)
	require.True(t, errors.As(err, &verr))
	assert.True(t, verr.Short)
	assert.Equal(t, uint32(0x11), verr.Addr)
}

func TestErases(t *testing.T) {
	dev := mdmatest.NewFakeDevice(0x20000)
	for i := range dev.Flash {
		dev.Flash[i] = 0
	}
	m := flash.NewManager(mdma.NewSession(dev), flash.WithCapacity(0x20000))

	require.NoError(t, m.SectorErase(0x8123))
	assert.Equal(t, []uint32{0x8123}, dev.Sectors)
	assert.Equal(t, uint16(0xffff), dev.Flash[0x8000])
	assert.Equal(t, uint16(0), dev.Flash[0x7fff])

	require.NoError(t, m.RangeErase(0x100, 0x10))
	assert.Equal(t, []mdmatest.Transfer{{Addr: 0x100, Len: 0x10}}, dev.Erases)

	require.NoError(t, m.FullErase())
	assert.Equal(t, uint16(0xffff), dev.Flash[0])

	assert.Error(t, m.RangeErase(0x1ffff, 2))
	assert.Error(t, m.SectorErase(0x20000))

	assert.Equal(t, []mdma.Opcode{mdma.OpSectErase, mdma.OpRangeErase, mdma.OpCartErase}, dev.Commands)
	assert.Equal(t, []time.Duration{
		mdma.DefaultTimeout, mdma.DefaultTimeout,
		mdma.EraseTimeout, mdma.EraseTimeout,
		mdma.EraseTimeout, mdma.EraseTimeout,
	}, dev.Timeouts)
}

func ExampleMemImage_String() {
	fmt.Println(flash.MemImage{File: "rom.bin", Addr: 0x200000})
	// Output: rom.bin at address 0x200000
}
