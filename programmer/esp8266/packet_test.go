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
	"testing"

	"github.com/megawifi/mdma"
	"github.com/megawifi/mdma/programmer/esp8266"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequest(t *testing.T) {
	pkt, err := esp8266.NewRequest(esp8266.CmdFlashDownloadFinish, []byte{1, 0, 0, 0}, 0x12345678)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x04, 0x04, 0x00, 0x78, 0x56, 0x34, 0x12, 1, 0, 0, 0}, pkt)

	hdr, err := esp8266.DecodeReqHdr(pkt)
	require.NoError(t, err)
	assert.Equal(t, esp8266.ReqHdr{Dir: esp8266.DirReq, Cmd: esp8266.CmdFlashDownloadFinish,
		BodyLen: 4, Checksum: 0x12345678}, *hdr)
}

func TestNewRequestTooLong(t *testing.T) {
	_, err := esp8266.NewRequest(esp8266.CmdFlashDownloadData, make([]byte, esp8266.PktLen+1), 0)
	assert.Error(t, err)
	_, err = esp8266.DecodeReqHdr([]byte{0, 2, 0})
	assert.Error(t, err)
}

func TestDecodeRespHdr(t *testing.T) {
	hdr, err := esp8266.DecodeRespHdr(esp8266.CmdFlashDownloadStart,
		[]byte{0x01, 0x02, 0x02, 0x00, 0xaa, 0xbb, 0xcc, 0xdd, 0x00, 0x00})
	require.NoError(t, err)
	assert.Equal(t, esp8266.RespHdr{Dir: esp8266.DirResp, Cmd: esp8266.CmdFlashDownloadStart,
		BodyLen: 2, Resp: 0xddccbbaa}, *hdr)
}

func TestDecodeRespHdrErrors(t *testing.T) {
	tests := []struct {
		name string
		resp []byte
	}{
		{"short", []byte{0x01, 0x02, 0x02, 0x00, 0, 0, 0, 0, 0}},
		{"direction", []byte{0x00, 0x02, 0x02, 0x00, 0, 0, 0, 0, 0, 0}},
		{"status", []byte{0x01, 0x02, 0x02, 0x00, 0, 0, 0, 0, 1, 0x05}},
	}
	for _, tc := range tests {
		_, err := esp8266.DecodeRespHdr(esp8266.CmdFlashDownloadStart, tc.resp)
		var perr *mdma.ProtocolError
		assert.True(t, errors.As(err, &perr), "%s: %v", tc.name, err)
	}
}

func TestChecksum(t *testing.T) {
	assert.Equal(t, uint32(0xef), esp8266.Checksum(nil))
	assert.Equal(t, uint32(0), esp8266.Checksum([]byte{0xef}))
	assert.Equal(t, uint32(0xef^0x01^0x02^0x04), esp8266.Checksum([]byte{1, 2, 4}))

	sect := make([]byte, esp8266.SectLen)
	for i := range sect {
		sect[i] = 0xff
	}
	// Even number of 0xFF bytes cancel out.
	assert.Equal(t, uint32(0xef), esp8266.Checksum(sect))
}

func TestCmdString(t *testing.T) {
	assert.Equal(t, "CmdFlashDownloadData", esp8266.CmdFlashDownloadData.String())
	assert.Equal(t, "CmdConfigureSpiParams", esp8266.CmdConfigureSpiParams.String())
	assert.Equal(t, "Cmd(1)", esp8266.Cmd(1).String())
	assert.Equal(t, "Cmd(12)", esp8266.Cmd(12).String())
}
