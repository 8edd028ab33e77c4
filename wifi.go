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
	"fmt"

	"github.com/golang/glog"
)

func copyWifiReply(reply *CommandFrame, dst []byte) int {
	return copy(dst, reply.WifiPayload())
}

// Forwards payload to the WiFi chip inside a single frame and copies the
// reply payload to reply. Returns the number of reply bytes copied.
func (s *Session) WifiCmd(payload []byte, reply []byte) (int, error) {
	f := NewCommandFrame(OpWifiCmd)
	if err := f.SetWifiPayload(payload); err != nil {
		return 0, err
	}
	// The reply may take as long as an erase: DOWNLOAD_START wipes the
	// target region before answering.
	r, err := s.exchange(f, EraseTimeout)
	if err != nil {
		return 0, fmt.Errorf("WIFI_CMD: %w", err)
	}
	return copyWifiReply(r, reply), nil
}

// Forwards a payload too large for a frame: the frame announces the length
// and the payload follows as a separate bulk write.
func (s *Session) WifiCmdLong(payload []byte, reply []byte) (int, error) {
	if len(payload) > 0xffff {
		return 0, fmt.Errorf("wifi payload of %d bytes does not fit a WIFI_CMD_LONG frame", len(payload))
	}
	f := NewCommandFrame(OpWifiCmdLong)
	f.SetWifiLen(uint16(len(payload)))
	if err := s.SendCommand(f, DefaultTimeout); err != nil {
		return 0, err
	}
	if err := s.sendBytes(payload, DefaultTimeout); err != nil {
		return 0, err
	}
	r, err := s.ReceiveReply(OpWifiCmdLong, DefaultTimeout)
	if err != nil {
		return 0, err
	}
	if err = statusError(OpWifiCmdLong, r); err != nil {
		return 0, fmt.Errorf("WIFI_CMD_LONG: %w", err)
	}
	return copyWifiReply(r, reply), nil
}

// Drives the WiFi chip control lines. Returns the status byte reported by
// the programmer (0 on success).
func (s *Session) WifiCtrl(code WifiCtrlCode) (uint8, error) {
	f := NewCommandFrame(OpWifiCtrl)
	f.SetByte(1, byte(code))
	if code == WifiCtrlSync {
		f.SetByte(2, syncRetries)
	}
	glog.V(1).Infof("[wifi-ctrl]: code = %v", code)
	r, err := s.exchange(f, DefaultTimeout)
	if err != nil {
		return 0, fmt.Errorf("WIFI_CTRL %v: %w", code, err)
	}
	return r.Byte(1), nil
}
