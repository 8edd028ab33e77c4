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


// Command protocol spoken by the MeGaWiFi programmer firmware.
// Each operation sends one request frame, reads one reply frame and, for
// READ and WRITE, moves the data payload over the bulk endpoints.
package mdma

import (
	"fmt"
	"time"

	"github.com/golang/glog"
)

const (
	// Default time allowed for a single bulk transfer.
	DefaultTimeout = 3000 * time.Millisecond
	// Erasing blocks the programmer until the flash chip finishes.
	EraseTimeout = 70000 * time.Millisecond

	// Read payloads are fetched in chunks of this many bytes. The endpoint
	// accepts up to 512, but 384 gives the best throughput.
	maxUsbTransferLen = 384

	// Maximum word count a READ/WRITE frame can announce.
	MaxTransferWords = 0xffff

	// Retry count sent along WIFI_CTRL SYNC. The programmer uses it
	// internally while trying to sync with the WiFi chip.
	syncRetries = 250
)

// Session owns an open programmer and serializes every command on it.
// It is not safe for concurrent use.
type Session struct {
	dev UsbDeviceInterface
}

// Takes ownership of dev: the session closes dev on Close().
func NewSession(dev UsbDeviceInterface) *Session {
	return &Session{dev}
}

// Opens the programmer over USB.
func OpenSession() (*Session, error) {
	dev, err := OpenUsbDevice()
	if err != nil {
		return nil, err
	}
	return NewSession(dev), nil
}

func (s *Session) Close() error {
	if s.dev == nil {
		return nil
	}
	err := s.dev.Close()
	s.dev = nil
	return err
}

// Sends a request frame with a single bulk write.
func (s *Session) SendCommand(f *CommandFrame, timeout time.Duration) error {
	glog.V(1).Infof("[mdma-cmd]: op = %v", f.Op())
	n, err := s.dev.BulkWrite(f.Bytes(), timeout)
	if err != nil || n != FrameLen {
		err = &TransportError{Op: fmt.Sprintf("send %v command", f.Op()), Want: FrameLen, Got: n, Err: err}
		glog.Errorf("Bulk transfer failed: %v", err)
		return err
	}
	return nil
}

// Reads the reply frame to a request of op. The status byte is not checked.
func (s *Session) ReceiveReply(op Opcode, timeout time.Duration) (*CommandFrame, error) {
	buf := make([]byte, FrameLen)
	n, err := s.dev.BulkRead(buf, timeout)
	if err != nil || n != FrameLen {
		err = &TransportError{Op: fmt.Sprintf("receive %v reply", op), Want: FrameLen, Got: n, Err: err}
		glog.Errorf("Bulk transfer reply failed: %v", err)
		return nil, err
	}
	f, err := DecodeReply(op, buf)
	if err != nil {
		return nil, err
	}
	glog.V(1).Infof("[mdma-reply]: op = %v, status = %v", op, f.Status())
	return f, nil
}

// Reads len(words) words of payload, in chunks of at most
// maxUsbTransferLen bytes.
func (s *Session) ReceiveBulkPayload(words []uint16, timeout time.Duration) error {
	total := 2 * len(words)
	buf := make([]byte, total)
	for recvd := 0; recvd < total; {
		step := total - recvd
		if step > maxUsbTransferLen {
			step = maxUsbTransferLen
		}
		n, err := s.dev.BulkRead(buf[recvd:recvd+step], timeout)
		if err != nil || n != step {
			err = &TransportError{Op: "receive payload", Want: step, Got: n, Err: err}
			glog.Errorf("Could not get read payload at byte %d: %v", recvd, err)
			return err
		}
		recvd += step
	}
	copy(words, WordsFromBytes(buf))
	return nil
}

// Writes the whole payload with a single bulk write.
func (s *Session) SendBulkPayload(words []uint16, timeout time.Duration) error {
	return s.sendBytes(BytesFromWords(words), timeout)
}

func (s *Session) sendBytes(p []byte, timeout time.Duration) error {
	n, err := s.dev.BulkWrite(p, timeout)
	if err != nil || n != len(p) {
		err = &TransportError{Op: "send payload", Want: len(p), Got: n, Err: err}
		glog.Errorf("Could not write payload: %v", err)
		return err
	}
	return nil
}

// Sends f and reads back a reply that must carry OpOk.
func (s *Session) exchange(f *CommandFrame, timeout time.Duration) (*CommandFrame, error) {
	op := f.Op()
	if err := s.SendCommand(f, timeout); err != nil {
		return nil, err
	}
	reply, err := s.ReceiveReply(op, timeout)
	if err != nil {
		return nil, err
	}
	if err = statusError(op, reply); err != nil {
		glog.Errorf("Command %v failed, status byte = 0x%02X", op, byte(reply.Status()))
		return nil, err
	}
	return reply, nil
}

// Returns the flash chip manufacturer ID.
func (s *Session) ManIdGet() (uint16, error) {
	reply, err := s.exchange(NewCommandFrame(OpManIdGet), DefaultTimeout)
	if err != nil {
		return 0, err
	}
	return reply.Uint16(1), nil
}

// Returns the three flash chip device ID words.
func (s *Session) DevIdGet() ([3]uint16, error) {
	var id [3]uint16
	reply, err := s.exchange(NewCommandFrame(OpDevIdGet), DefaultTimeout)
	if err != nil {
		return id, err
	}
	for i := range id {
		id[i] = reply.Uint16(1 + 2*i)
	}
	return id, nil
}

func checkTransfer(op Opcode, words []uint16) error {
	if len(words) > MaxTransferWords {
		return &RangeError{Input: fmt.Sprintf("%v of %d words", op, len(words)),
			Reason: fmt.Sprintf("at most %d words per transfer", MaxTransferWords)}
	}
	return nil
}

// Reads len(words) words starting at word address addr.
func (s *Session) Read(addr uint32, words []uint16) error {
	if err := checkTransfer(OpRead, words); err != nil {
		return err
	}
	f := NewCommandFrame(OpRead)
	f.SetTransfer(uint16(len(words)), addr)
	if _, err := s.exchange(f, DefaultTimeout); err != nil {
		return fmt.Errorf("could not read %d word(s) from 0x%06X: %w", len(words), addr, err)
	}
	return s.ReceiveBulkPayload(words, DefaultTimeout)
}

// Programs words starting at word address addr.
func (s *Session) Write(addr uint32, words []uint16) error {
	if err := checkTransfer(OpWrite, words); err != nil {
		return err
	}
	f := NewCommandFrame(OpWrite)
	f.SetTransfer(uint16(len(words)), addr)
	if _, err := s.exchange(f, DefaultTimeout); err != nil {
		return fmt.Errorf("could not send %d word(s) to 0x%06X: %w", len(words), addr, err)
	}
	return s.SendBulkPayload(words, DefaultTimeout)
}

// Erases the entire flash chip. Blocks until the chip is done.
func (s *Session) CartErase() error {
	if _, err := s.exchange(NewCommandFrame(OpCartErase), EraseTimeout); err != nil {
		return fmt.Errorf("flash chip was not erased: %w", err)
	}
	return nil
}

// Erases the sector containing word address addr.
func (s *Session) SectErase(addr uint32) error {
	f := NewCommandFrame(OpSectErase)
	f.SetSector(addr)
	if _, err := s.exchange(f, DefaultTimeout); err != nil {
		return fmt.Errorf("could not erase sector at 0x%06X: %w", addr, err)
	}
	return nil
}

// Erases length words starting at word address addr.
func (s *Session) RangeErase(addr, length uint32) error {
	f := NewCommandFrame(OpRangeErase)
	f.SetErase(addr, length)
	if _, err := s.exchange(f, EraseTimeout); err != nil {
		return fmt.Errorf("could not erase flash at 0x%06X:%X: %w", addr, length, err)
	}
	return nil
}

// Reboots the programmer into its DFU bootloader. The programmer does not
// reply; it re-enumerates with BootloaderVid:BootloaderPid.
func (s *Session) Bootloader() error {
	return s.SendCommand(NewCommandFrame(OpBootloader), DefaultTimeout)
}

// Returns the pushbutton status: bit 1 is set on a press event, bit 0
// while the button is held.
func (s *Session) ButtonGet() (uint8, error) {
	reply, err := s.exchange(NewCommandFrame(OpButtonGet), DefaultTimeout)
	if err != nil {
		return 0, err
	}
	return reply.Byte(1), nil
}
