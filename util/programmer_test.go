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


package util_test

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/megawifi/mdma"
	"github.com/megawifi/mdma/flash"
	"github.com/megawifi/mdma/mdmatest"
	"github.com/megawifi/mdma/programmer/esp8266"
	"github.com/megawifi/mdma/programmer/mocks"
	"github.com/megawifi/mdma/util"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgrammerFailsIfEraseFails(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	prog := mocks.NewMockProgrammerInterface(mockCtrl)
	gomock.InOrder(
		prog.EXPECT().FullErase().
			Return(fmt.Errorf("erase failed")),
	)

	job := &util.Job{Erase: true, Flash: &flash.MemImage{File: "rom.bin"}}
	err := util.ProgramDevice(prog, job)
	if err == nil || !strings.Contains(err.Error(), "erase failed") {
		t.Errorf("ProgramDevice did not fail as expected. Err: %v", err)
	}
}

func TestProgrammerSectorErase(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	sect := uint32(0x18000)
	prog := mocks.NewMockProgrammerInterface(mockCtrl)
	prog.EXPECT().SectorErase(sect).Return(nil)

	require.NoError(t, util.ProgramDevice(prog, &util.Job{SectErase: &sect}))
}

func TestProgrammerFlashAndVerify(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	img := flash.MemImage{File: "rom.bin", Addr: 0x100}
	written := []uint16{1, 2, 3}
	prog := mocks.NewMockProgrammerInterface(mockCtrl)
	gomock.InOrder(
		prog.EXPECT().Program(img, true).
			Return(written, flash.MemImage{File: "rom.bin", Addr: 0x100, Len: 3}, nil),
		// Verify reads the flashed range, not the default read length.
		prog.EXPECT().Read(uint32(0x100), uint32(3)).Return([]uint16{1, 2, 3}, nil),
		prog.EXPECT().Verify(written, []uint16{1, 2, 3}, uint32(0x100)).Return(nil),
	)

	require.NoError(t, util.ProgramDevice(prog, &util.Job{Flash: &img, AutoErase: true, Verify: true}))
}

func TestProgrammerVerifyFailureStillSaves(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	out := filepath.Join(t.TempDir(), "dump.bin")
	img := flash.MemImage{File: "rom.bin"}
	verr := &flash.VerifyError{Addr: 1, Wrote: 2, Read: 3}
	prog := mocks.NewMockProgrammerInterface(mockCtrl)
	gomock.InOrder(
		prog.EXPECT().Program(img, false).
			Return([]uint16{2, 2}, flash.MemImage{File: "rom.bin", Len: 2}, nil),
		prog.EXPECT().Read(uint32(0), uint32(2)).Return([]uint16{2, 3}, nil),
		prog.EXPECT().Verify(gomock.Any(), gomock.Any(), uint32(0)).Return(verr),
	)

	err := util.ProgramDevice(prog, &util.Job{Flash: &img, Verify: true, Read: &flash.MemImage{File: out}})
	assert.Equal(t, verr, err)
	dump, rerr := os.ReadFile(out)
	require.NoError(t, rerr)
	assert.Equal(t, []byte{0, 2, 0, 3}, dump)
}

func TestProgrammerDefaultReadLength(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	prog := mocks.NewMockProgrammerInterface(mockCtrl)
	prog.EXPECT().Read(uint32(0x200), uint32(util.DefaultReadWords)).Return(nil, fmt.Errorf("timeout"))

	err := util.ProgramDevice(prog, &util.Job{Read: &flash.MemImage{File: "dump.bin", Addr: 0x200}})
	assert.ErrorContains(t, err, "timeout")
}

func TestProgrammerRangeErase(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	prog := mocks.NewMockProgrammerInterface(mockCtrl)
	prog.EXPECT().RangeErase(uint32(0x1000), uint32(0x200)).Return(nil)

	job := &util.Job{RangeErase: &flash.MemImage{Addr: 0x1000, Len: 0x200}}
	require.NoError(t, util.ProgramDevice(prog, job))
}

func TestJobValidate(t *testing.T) {
	assert.Error(t, (&util.Job{Verify: true}).Validate())

	sect := uint32(0)
	for _, job := range []*util.Job{
		{Erase: true, AutoErase: true},
		{SectErase: &sect, AutoErase: true},
		{SectErase: &sect, Erase: true},
		{RangeErase: &flash.MemImage{Len: 1}, Erase: true},
		{RangeErase: &flash.MemImage{Len: 1}, SectErase: &sect},
	} {
		assert.Error(t, job.Validate(), "%+v", job)
	}

	err := (&util.Job{RangeErase: &flash.MemImage{Addr: 4}}).Validate()
	var rerr *mdma.RangeError
	assert.True(t, errors.As(err, &rerr))

	err = (&util.Job{Wifi: &flash.MemImage{File: "fw.bin", Len: 4}}).Validate()
	assert.True(t, errors.As(err, &rerr))

	assert.NoError(t, (&util.Job{Wifi: &flash.MemImage{File: "fw.bin", Addr: 0x1000}}).Validate())
}

func TestJobPlan(t *testing.T) {
	sect := uint32(0x8000)
	job := &util.Job{
		FlashId:    true,
		SectErase:  &sect,
		Flash:      &flash.MemImage{File: "rom.bin", Addr: 0x100},
		Verify:     true,
		Wifi:       &flash.MemImage{File: "fw.bin"},
		SpiMode:    esp8266.SpiQIO,
		Bootloader: true,
	}
	assert.Equal(t, []string{
		"Show Flash chip identification.",
		"Erase sector at 0x8000.",
		"Flash and verify rom.bin at address 0x000100",
		"Upload WiFi firmware fw.bin, mode: qio",
		"Enter bootloader",
	}, job.Plan())
	assert.Empty(t, (&util.Job{}).Plan())
}

func TestFlashWifiFirmware(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	path := filepath.Join(t.TempDir(), "fw.bin")
	require.NoError(t, os.WriteFile(path, []byte{0xe9, 3, 0, 0x20, 1}, 0o644))

	prog := mocks.NewMockFirmwareProgrammerInterface(mockCtrl)
	prog.EXPECT().FlashBlob(gomock.Any()).DoAndReturn(func(b *esp8266.Blob) error {
		assert.Equal(t, uint32(0), b.Addr)
		assert.Equal(t, uint32(1), b.SectTotal)
		assert.Equal(t, []byte{0xe9, 3, 3, 0x40, 1, 0xff}, b.Data()[:6])
		return nil
	})
	require.NoError(t, util.FlashWifiFirmware(prog, path, 0, esp8266.SpiDOUT))
}

func TestFlashWifiFirmwareMissingFile(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	prog := mocks.NewMockFirmwareProgrammerInterface(mockCtrl)
	err := util.FlashWifiFirmware(prog, filepath.Join(t.TempDir(), "none.bin"), 0, esp8266.SpiQIO)
	var ioerr *mdma.IoError
	assert.True(t, errors.As(err, &ioerr))
}

func TestRunJob(t *testing.T) {
	dir := t.TempDir()
	rom := filepath.Join(dir, "rom.bin")
	require.NoError(t, os.WriteFile(rom, []byte{0x4e, 0x71, 0x4e, 0x75, 0x60, 0xfe}, 0o644))
	fw := filepath.Join(dir, "fw.bin")
	require.NoError(t, os.WriteFile(fw, []byte{0xe9, 1, 2, 3}, 0o644))
	dump := filepath.Join(dir, "dump.bin")

	dev := mdmatest.NewFakeDevice(0x1000)
	dev.ButtonStatus = 0x03
	job := &util.Job{
		FlashId:    true,
		Flash:      &flash.MemImage{File: rom, Addr: 0x10},
		AutoErase:  true,
		Verify:     true,
		Read:       &flash.MemImage{File: dump},
		Pushbutton: true,
		Wifi:       &flash.MemImage{File: fw, Addr: 0x2000},
		SpiMode:    esp8266.SpiUnchanged,
		Bootloader: true,
	}
	button, err := util.RunJob(mdma.NewSession(dev), job, mdma.NoProgress)
	require.NoError(t, err)
	assert.Equal(t, uint8(0x03), button)

	assert.Equal(t, []mdma.Opcode{
		mdma.OpManIdGet, mdma.OpDevIdGet,
		mdma.OpRangeErase, mdma.OpWrite, mdma.OpRead,
		mdma.OpButtonGet,
		mdma.OpWifiCtrl, mdma.OpWifiCtrl, mdma.OpWifiCtrl, mdma.OpWifiCtrl,
		mdma.OpWifiCmd, mdma.OpWifiCmdLong, mdma.OpWifiCmd,
		mdma.OpBootloader,
	}, dev.Commands)
	assert.Equal(t, []uint16{0x4e71, 0x4e75, 0x60fe}, dev.Flash[0x10:0x13])

	got, err := os.ReadFile(dump)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x4e, 0x71, 0x4e, 0x75, 0x60, 0xfe}, got)
	assert.Equal(t, []byte{0xe9, 1, 2, 3, 0xff}, dev.Esp[0x2000:0x2005])
}

func TestRunJobBootloaderAfterFailure(t *testing.T) {
	dev := mdmatest.NewFakeDevice(0x100)
	dev.ErrOn[mdma.OpCartErase] = true

	_, err := util.RunJob(mdma.NewSession(dev), &util.Job{Erase: true, Bootloader: true}, mdma.NoProgress)
	var perr *mdma.ProtocolError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, []mdma.Opcode{mdma.OpCartErase, mdma.OpBootloader}, dev.Commands)
}
