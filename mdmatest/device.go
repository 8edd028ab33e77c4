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


// Package mdmatest provides an in-memory MeGaWiFi programmer for tests.
// FakeDevice implements mdma.UsbDeviceInterface: it decodes command frames,
// keeps a simulated flash chip, and answers tunneled ESP8266 loader packets.
package mdmatest

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/megawifi/mdma"
)

const (
	// Words erased by a SECT_ERASE command.
	SectorWords = 0x8000

	espSectLen    = 4096
	espReqHdrLen  = 8
	espPktHdrLen  = 16
	espCsumMagic  = 0xef
	espDirRequest = 0
	espDirResp    = 1
)

// Returned by BulkRead when the device has nothing to send.
var ErrTimeout = errors.New("mdmatest: bulk read timed out")

// Values received with DOWNLOAD_START.
type EspDownload struct {
	Size    uint32
	Sectors uint32
	SectLen uint32
	Addr    uint32
}

type FakeDevice struct {
	// Simulated flash chip, word addressed. Programming ANDs data in, as
	// NOR flash does, so unerased words keep their cleared bits.
	Flash []uint16
	// Simulated WiFi chip flash, byte addressed.
	Esp []byte

	ManId        uint16
	DevId        [3]uint16
	ButtonStatus uint8
	// Status byte returned for WIFI_CTRL SYNC.
	SyncStatus uint8

	// Commands answered with OpErr.
	ErrOn map[mdma.Opcode]bool
	// Tunnel commands answered with a failure status.
	EspFailOn map[byte]bool
	// When set, tunnel responses echo this command code instead of the
	// request's.
	EspEchoCmd *byte

	// Everything the host sent, in order.
	Commands   []mdma.Opcode
	Writes     []Transfer
	Reads      []Transfer
	ReadSizes  []int
	Erases     []Transfer
	Sectors    []uint32
	CtrlCodes  []mdma.WifiCtrlCode
	SyncRetry  []byte
	EspCmds    []byte
	EspStart   []EspDownload
	EspSeqs    []uint32
	EspFinish  []uint32
	Closed     bool
	Timeouts   []time.Duration
	pending    []byte
	expectLen  int
	expectOp   mdma.Opcode
	expectAddr uint32
}

// Word address/length pair recorded for READ, WRITE and RANGE_ERASE.
type Transfer struct {
	Addr uint32
	Len  uint32
}

// Creates a device with an erased flash chip of the given size in words.
func NewFakeDevice(words int) *FakeDevice {
	d := &FakeDevice{
		Flash:     make([]uint16, words),
		ManId:     0x0001,
		DevId:     [3]uint16{0x227e, 0x2228, 0x2201},
		ErrOn:     map[mdma.Opcode]bool{},
		EspFailOn: map[byte]bool{},
	}
	for i := range d.Flash {
		d.Flash[i] = 0xffff
	}
	return d
}

func (d *FakeDevice) Close() error {
	d.Closed = true
	return nil
}

func (d *FakeDevice) BulkRead(p []byte, timeout time.Duration) (int, error) {
	d.ReadSizes = append(d.ReadSizes, len(p))
	d.Timeouts = append(d.Timeouts, timeout)
	if len(d.pending) == 0 {
		return 0, ErrTimeout
	}
	n := copy(p, d.pending)
	d.pending = d.pending[n:]
	return n, nil
}

func (d *FakeDevice) BulkWrite(p []byte, timeout time.Duration) (int, error) {
	d.Timeouts = append(d.Timeouts, timeout)
	if d.expectLen > 0 {
		return d.payload(p)
	}
	if len(p) != mdma.FrameLen {
		return 0, fmt.Errorf("mdmatest: got %d byte frame", len(p))
	}
	d.command(p)
	return len(p), nil
}

func (d *FakeDevice) reply(status mdma.Opcode, body ...byte) {
	f := make([]byte, mdma.FrameLen)
	f[0] = byte(status)
	copy(f[1:], body)
	d.pending = append(d.pending, f...)
}

func (d *FakeDevice) wifiReply(data []byte) {
	f := make([]byte, mdma.FrameLen)
	binary.LittleEndian.PutUint16(f[1:3], uint16(len(data)))
	copy(f[4:], data)
	d.pending = append(d.pending, f...)
}

func (d *FakeDevice) command(p []byte) {
	op := mdma.Opcode(p[0])
	d.Commands = append(d.Commands, op)
	if d.ErrOn[op] {
		d.reply(mdma.OpErr)
		return
	}
	words := uint32(binary.LittleEndian.Uint16(p[1:3]))
	addr := uint32(p[3]) | uint32(p[4])<<8 | uint32(p[5])<<16

	switch op {
	case mdma.OpManIdGet:
		d.reply(mdma.OpOk, byte(d.ManId), byte(d.ManId>>8))
	case mdma.OpDevIdGet:
		body := make([]byte, 6)
		for i, w := range d.DevId {
			binary.LittleEndian.PutUint16(body[2*i:], w)
		}
		d.reply(mdma.OpOk, body...)
	case mdma.OpRead:
		d.Reads = append(d.Reads, Transfer{addr, words})
		d.reply(mdma.OpOk)
		for i := uint32(0); i < words; i++ {
			w := d.Flash[addr+i]
			d.pending = append(d.pending, byte(w), byte(w>>8))
		}
	case mdma.OpWrite:
		d.Writes = append(d.Writes, Transfer{addr, words})
		d.reply(mdma.OpOk)
		d.expect(op, int(2*words), addr)
	case mdma.OpCartErase:
		d.erase(0, uint32(len(d.Flash)))
		d.reply(mdma.OpOk)
	case mdma.OpSectErase:
		sect := binary.LittleEndian.Uint32(p[1:5])
		d.Sectors = append(d.Sectors, sect)
		start := sect &^ (SectorWords - 1)
		d.erase(start, SectorWords)
		d.reply(mdma.OpOk)
	case mdma.OpRangeErase:
		start := uint32(p[1]) | uint32(p[2])<<8 | uint32(p[3])<<16
		length := binary.LittleEndian.Uint32(p[4:8])
		d.Erases = append(d.Erases, Transfer{start, length})
		d.erase(start, length)
		d.reply(mdma.OpOk)
	case mdma.OpBootloader:
		// Not replied.
	case mdma.OpButtonGet:
		d.reply(mdma.OpOk, d.ButtonStatus)
	case mdma.OpWifiCtrl:
		code := mdma.WifiCtrlCode(p[1])
		d.CtrlCodes = append(d.CtrlCodes, code)
		status := byte(0)
		if code == mdma.WifiCtrlSync {
			d.SyncRetry = append(d.SyncRetry, p[2])
			status = d.SyncStatus
		}
		d.reply(mdma.OpOk, status)
	case mdma.OpWifiCmd:
		n := int(binary.LittleEndian.Uint16(p[1:3]))
		if n > mdma.MaxWifiPayload {
			d.reply(mdma.OpErr)
			return
		}
		d.wifiReply(d.tunnel(p[4 : 4+n]))
	case mdma.OpWifiCmdLong:
		d.expect(op, int(binary.LittleEndian.Uint16(p[1:3])), 0)
	default:
		d.reply(mdma.OpErr)
	}
}

func (d *FakeDevice) expect(op mdma.Opcode, n int, addr uint32) {
	d.expectOp = op
	d.expectLen = n
	d.expectAddr = addr
}

func (d *FakeDevice) payload(p []byte) (int, error) {
	want := d.expectLen
	d.expectLen = 0
	if len(p) != want {
		return 0, fmt.Errorf("mdmatest: got %d payload bytes, want %d", len(p), want)
	}
	switch d.expectOp {
	case mdma.OpWrite:
		for i := 0; i+1 < len(p); i += 2 {
			w := binary.LittleEndian.Uint16(p[i:])
			d.Flash[d.expectAddr+uint32(i/2)] &= w
		}
	case mdma.OpWifiCmdLong:
		d.wifiReply(d.tunnel(p))
	}
	return len(p), nil
}

func (d *FakeDevice) erase(start, length uint32) {
	for i := start; i < start+length && int(i) < len(d.Flash); i++ {
		d.Flash[i] = 0xffff
	}
}

// Handles one loader request and returns the 10-byte response.
func (d *FakeDevice) tunnel(pkt []byte) []byte {
	resp := make([]byte, 10)
	resp[0] = espDirResp
	binary.LittleEndian.PutUint16(resp[2:4], 2)
	if len(pkt) < espReqHdrLen || pkt[0] != espDirRequest {
		resp[8] = 1
		return resp
	}
	cmd := pkt[1]
	resp[1] = cmd
	if d.EspEchoCmd != nil {
		resp[1] = *d.EspEchoCmd
	}
	d.EspCmds = append(d.EspCmds, cmd)
	bodyLen := int(binary.LittleEndian.Uint16(pkt[2:4]))
	csum := binary.LittleEndian.Uint32(pkt[4:8])
	body := pkt[espReqHdrLen:]
	if bodyLen != len(body) || d.EspFailOn[cmd] {
		resp[8], resp[9] = 1, 0x05
		return resp
	}

	u32 := func(i int) uint32 { return binary.LittleEndian.Uint32(body[4*i:]) }
	switch cmd {
	case 0x02:
		dl := EspDownload{u32(0), u32(1), u32(2), u32(3)}
		d.EspStart = append(d.EspStart, dl)
		end := int(dl.Addr + dl.Size)
		if len(d.Esp) < end {
			d.Esp = append(d.Esp, make([]byte, end-len(d.Esp))...)
		}
		for i := dl.Addr; i < dl.Addr+dl.Size; i++ {
			d.Esp[i] = 0xff
		}
	case 0x03:
		n, seq := u32(0), u32(1)
		data := body[espPktHdrLen:]
		sum := byte(espCsumMagic)
		for _, b := range data {
			sum ^= b
		}
		if uint32(sum) != csum || int(n) != len(data) || len(d.EspStart) == 0 {
			resp[8], resp[9] = 1, 0x07
			return resp
		}
		d.EspSeqs = append(d.EspSeqs, seq)
		base := d.EspStart[len(d.EspStart)-1].Addr
		copy(d.Esp[base+seq*espSectLen:], data)
	case 0x04:
		d.EspFinish = append(d.EspFinish, u32(0))
	}
	return resp
}
