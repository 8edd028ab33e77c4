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
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/megawifi/mdma"
)

const (
	// Flash sector length. Firmware is sent one sector per DATA packet.
	SectLen = 4096
	// Header preceding the sector data in a DATA packet.
	PktHdrLen = 16
	PktLen    = PktHdrLen + SectLen

	ReqHdrLen  = 8
	RespHdrLen = 10

	// Initial value of the data checksum.
	CsumMagic = 0xef

	DirReq  = 0x00
	DirResp = 0x01
)

//go:generate stringer -type Cmd
type Cmd uint8

// ROM loader command opcodes.
const (
	CmdFlashDownloadStart  Cmd = 0x02
	CmdFlashDownloadData   Cmd = 0x03
	CmdFlashDownloadFinish Cmd = 0x04
	CmdRamDownloadStart    Cmd = 0x05
	CmdRamDownloadFinish   Cmd = 0x06
	CmdRamDownloadData     Cmd = 0x07
	CmdSyncFrame           Cmd = 0x08
	CmdWriteRegister       Cmd = 0x09
	CmdReadRegister        Cmd = 0x0a
	CmdConfigureSpiParams  Cmd = 0x0b
)

// Loader request header. Checksum is only meaningful for DATA packets.
type ReqHdr struct {
	Dir      uint8
	Cmd      Cmd
	BodyLen  uint16
	Checksum uint32
}

// Loader response header.
type RespHdr struct {
	Dir     uint8
	Cmd     Cmd
	BodyLen uint16
	Resp    uint32
	Status  uint8
	LastErr uint8
}

// Returns a request packet: header followed by body.
func NewRequest(cmd Cmd, body []byte, csum uint32) ([]byte, error) {
	if len(body) > PktLen {
		return nil, fmt.Errorf("%v body of %d bytes exceeds %d", cmd, len(body), PktLen)
	}
	hdr := ReqHdr{DirReq, cmd, uint16(len(body)), csum}
	buf := bytes.NewBuffer(make([]byte, 0, ReqHdrLen+len(body)))
	if err := binary.Write(buf, binary.LittleEndian, &hdr); err != nil {
		return nil, err
	}
	buf.Write(body)
	return buf.Bytes(), nil
}

func DecodeReqHdr(b []byte) (*ReqHdr, error) {
	if len(b) < ReqHdrLen {
		return nil, fmt.Errorf("request of %d bytes is shorter than its header", len(b))
	}
	hdr := &ReqHdr{}
	if err := binary.Read(bytes.NewReader(b[:ReqHdrLen]), binary.LittleEndian, hdr); err != nil {
		return nil, err
	}
	return hdr, nil
}

// Decodes and checks the response to a cmd request.
func DecodeRespHdr(cmd Cmd, b []byte) (*RespHdr, error) {
	if len(b) < RespHdrLen {
		return nil, &mdma.ProtocolError{Op: cmd.String(),
			Reason: fmt.Sprintf("short response (%d bytes)", len(b))}
	}
	hdr := &RespHdr{}
	if err := binary.Read(bytes.NewReader(b[:RespHdrLen]), binary.LittleEndian, hdr); err != nil {
		return nil, err
	}
	if hdr.Dir != DirResp {
		return hdr, &mdma.ProtocolError{Op: cmd.String(),
			Reason: fmt.Sprintf("bad response direction 0x%02X", hdr.Dir)}
	}
	if hdr.Status != 0 {
		return hdr, &mdma.ProtocolError{Op: cmd.String(),
			Reason: fmt.Sprintf("loader status %d, error 0x%02X", hdr.Status, hdr.LastErr)}
	}
	return hdr, nil
}

// XOR of data, seeded with CsumMagic.
func Checksum(data []byte) uint32 {
	csum := byte(CsumMagic)
	for _, b := range data {
		csum ^= b
	}
	return uint32(csum)
}
