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

import (
	"encoding/binary"
	"fmt"
)

//go:generate stringer -type Opcode
type Opcode uint8

const (
	OpOk          Opcode = 0
	OpManIdGet    Opcode = 1
	OpDevIdGet    Opcode = 2
	OpRead        Opcode = 3
	OpCartErase   Opcode = 4
	OpSectErase   Opcode = 5
	OpWrite       Opcode = 6
	OpManCtrl     Opcode = 7 // Reserved, never sent.
	OpBootloader  Opcode = 8
	OpButtonGet   Opcode = 9
	OpWifiCmd     Opcode = 10
	OpWifiCmdLong Opcode = 11
	OpWifiCtrl    Opcode = 12
	OpRangeErase  Opcode = 13
	OpErr         Opcode = 255
)

//go:generate stringer -type WifiCtrlCode
type WifiCtrlCode uint8

const (
	WifiCtrlRst        WifiCtrlCode = 0 // Hold the WiFi chip in reset.
	WifiCtrlRun        WifiCtrlCode = 1 // Release reset.
	WifiCtrlBootloader WifiCtrlCode = 2 // Boot into the ROM loader.
	WifiCtrlApp        WifiCtrlCode = 3 // Boot the application.
	WifiCtrlSync       WifiCtrlCode = 4 // Ask the programmer to sync with the loader.
)

const (
	// Every command and reply travels in a frame of exactly this size.
	FrameLen = 64

	transferHeaderLen = 6
	wifiHeaderLen     = 4

	// Largest payload carried inside a WIFI_CMD frame.
	MaxWifiPayload = FrameLen - wifiHeaderLen
)

// Layout selects how the bytes following the opcode are interpreted.
type Layout uint8

const (
	LayoutPlain    Layout = iota // opcode only, or opaque reply bytes.
	LayoutTransfer               // {op, len:u16, addr:u24, data...}
	LayoutErase                  // {op, addr:u24, eraseLen:u32}
	LayoutSector                 // {op, addr:u32}
	LayoutWifi                   // {op, len:u16, pad, data[60]}
)

func (l Layout) String() string {
	switch l {
	case LayoutPlain:
		return "plain"
	case LayoutTransfer:
		return "transfer"
	case LayoutErase:
		return "erase"
	case LayoutSector:
		return "sector"
	case LayoutWifi:
		return "wifi"
	}
	return fmt.Sprintf("Layout(%d)", uint8(l))
}

// Returns the frame layout used by requests (and replies) of op.
func LayoutOf(op Opcode) Layout {
	switch op {
	case OpRead, OpWrite:
		return LayoutTransfer
	case OpRangeErase:
		return LayoutErase
	case OpSectErase:
		return LayoutSector
	case OpWifiCmd, OpWifiCmdLong:
		return LayoutWifi
	}
	return LayoutPlain
}

// A single 64-byte command or reply frame. The layout is fixed when the frame
// is created, and only accessors matching it may be used.
type CommandFrame struct {
	buf    [FrameLen]byte
	layout Layout
}

// Creates a zeroed request frame for op.
func NewCommandFrame(op Opcode) *CommandFrame {
	f := &CommandFrame{layout: LayoutOf(op)}
	f.buf[0] = byte(op)
	return f
}

// Wraps raw reply bytes received for a request of op.
func DecodeReply(req Opcode, b []byte) (*CommandFrame, error) {
	if len(b) != FrameLen {
		return nil, fmt.Errorf("reply frame has %d bytes, want %d", len(b), FrameLen)
	}
	f := &CommandFrame{layout: LayoutOf(req)}
	copy(f.buf[:], b)
	return f, nil
}

func (f *CommandFrame) Layout() Layout {
	return f.layout
}

// Opcode of a request, or the status code (OpOk/OpErr) of a reply.
func (f *CommandFrame) Op() Opcode {
	return Opcode(f.buf[0])
}

// Reply status. Equivalent to Op, named for readability at call sites.
func (f *CommandFrame) Status() Opcode {
	return Opcode(f.buf[0])
}

func (f *CommandFrame) Bytes() []byte {
	return f.buf[:]
}

func (f *CommandFrame) must(l Layout) {
	if f.layout != l {
		panic(fmt.Sprintf("mdma: %v accessor used on %v frame (op %v)", l, f.layout, f.Op()))
	}
}

func putUint24(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
}

func uint24(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16
}

// Sets word count and word address of a READ/WRITE frame.
func (f *CommandFrame) SetTransfer(words uint16, addr uint32) {
	f.must(LayoutTransfer)
	binary.LittleEndian.PutUint16(f.buf[1:3], words)
	putUint24(f.buf[3:6], addr)
}

func (f *CommandFrame) Transfer() (words uint16, addr uint32) {
	f.must(LayoutTransfer)
	return binary.LittleEndian.Uint16(f.buf[1:3]), uint24(f.buf[3:6])
}

// Sets start address and word length of a RANGE_ERASE frame.
func (f *CommandFrame) SetErase(addr, length uint32) {
	f.must(LayoutErase)
	putUint24(f.buf[1:4], addr)
	binary.LittleEndian.PutUint32(f.buf[4:8], length)
}

func (f *CommandFrame) Erase() (addr, length uint32) {
	f.must(LayoutErase)
	return uint24(f.buf[1:4]), binary.LittleEndian.Uint32(f.buf[4:8])
}

func (f *CommandFrame) SetSector(addr uint32) {
	f.must(LayoutSector)
	binary.LittleEndian.PutUint32(f.buf[1:5], addr)
}

func (f *CommandFrame) Sector() uint32 {
	f.must(LayoutSector)
	return binary.LittleEndian.Uint32(f.buf[1:5])
}

// Sets the announced payload length of a WIFI_CMD/WIFI_CMD_LONG frame.
func (f *CommandFrame) SetWifiLen(n uint16) {
	f.must(LayoutWifi)
	binary.LittleEndian.PutUint16(f.buf[1:3], n)
}

func (f *CommandFrame) WifiLen() uint16 {
	f.must(LayoutWifi)
	return binary.LittleEndian.Uint16(f.buf[1:3])
}

// Copies p into the frame and sets the length field accordingly.
func (f *CommandFrame) SetWifiPayload(p []byte) error {
	f.must(LayoutWifi)
	if len(p) > MaxWifiPayload {
		return fmt.Errorf("wifi payload of %d bytes exceeds %d", len(p), MaxWifiPayload)
	}
	f.SetWifiLen(uint16(len(p)))
	copy(f.buf[wifiHeaderLen:], p)
	return nil
}

// Returns the in-frame payload, bounded by MaxWifiPayload.
func (f *CommandFrame) WifiPayload() []byte {
	n := int(f.WifiLen())
	if n > MaxWifiPayload {
		n = MaxWifiPayload
	}
	return f.buf[wifiHeaderLen : wifiHeaderLen+n]
}

// Byte at offset i of a plain frame. Used for the small replies (IDs,
// button and control status) that carry no formal layout.
func (f *CommandFrame) Byte(i int) byte {
	return f.buf[i]
}

func (f *CommandFrame) SetByte(i int, v byte) {
	f.must(LayoutPlain)
	f.buf[i] = v
}

func (f *CommandFrame) Uint16(i int) uint16 {
	return binary.LittleEndian.Uint16(f.buf[i : i+2])
}
