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


// Package esp8266 flashes the WiFi module firmware by tunneling the ESP8266
// ROM loader protocol through the programmer's WiFi passthrough commands.
package esp8266

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/golang/glog"
	"github.com/megawifi/mdma"
)

//go:generate mockgen -destination=mocks/tunnel.go -package=mocks github.com/megawifi/mdma/programmer/esp8266 Tunnel

// WiFi passthrough of the programmer. Implemented by *mdma.Session.
type Tunnel interface {
	WifiCmd(payload []byte, reply []byte) (int, error)
	WifiCmdLong(payload []byte, reply []byte) (int, error)
	WifiCtrl(code mdma.WifiCtrlCode) (uint8, error)
}

// Delays between control line changes when entering the loader.
const (
	resetDelay      = 100 * time.Millisecond
	bootloaderDelay = 50 * time.Millisecond
)

// Implements programmer.FirmwareProgrammerInterface
type Programmer struct {
	tun      Tunnel
	progress mdma.ProgressSink
	sleep    func(time.Duration)
}

type Option func(*Programmer)

// Reports progress after every sector.
func WithProgress(s mdma.ProgressSink) Option {
	return func(p *Programmer) {
		p.progress = s
	}
}

// Replaces time.Sleep for the loader entry delays.
func WithSleep(sleep func(time.Duration)) Option {
	return func(p *Programmer) {
		p.sleep = sleep
	}
}

func NewProgrammer(tun Tunnel, opts ...Option) *Programmer {
	p := &Programmer{tun, mdma.NoProgress, time.Sleep}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Programmer) ctrl(code mdma.WifiCtrlCode) (uint8, error) {
	status, err := p.tun.WifiCtrl(code)
	if err != nil {
		glog.Errorf("WiFi control %v failed: %v", code, err)
		return 0, err
	}
	return status, nil
}

// Holds the WiFi chip in reset.
func (p *Programmer) Reset() error {
	_, err := p.ctrl(mdma.WifiCtrlRst)
	return err
}

// Selects boot from UART on the next run.
func (p *Programmer) EnterBootloader() error {
	_, err := p.ctrl(mdma.WifiCtrlBootloader)
	return err
}

// Releases reset.
func (p *Programmer) Run() error {
	_, err := p.ctrl(mdma.WifiCtrlRun)
	return err
}

// Syncs with the ROM loader. Retries are done by the programmer.
func (p *Programmer) Sync() error {
	status, err := p.ctrl(mdma.WifiCtrlSync)
	if err != nil {
		return err
	}
	if status != 0 {
		return &mdma.ProtocolError{Op: "SYNC", Status: mdma.Opcode(status),
			Reason: "loader did not answer"}
	}
	return nil
}

// Restarts the WiFi chip into its ROM loader and syncs with it.
func (p *Programmer) SyncSequence() error {
	if err := p.Reset(); err != nil {
		return err
	}
	p.sleep(resetDelay)
	if err := p.EnterBootloader(); err != nil {
		return err
	}
	p.sleep(bootloaderDelay)
	if err := p.Run(); err != nil {
		return err
	}
	return p.Sync()
}

func u32Body(values ...uint32) []byte {
	body := make([]byte, 4*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint32(body[4*i:], v)
	}
	return body
}

// Sends one loader command and returns the raw response.
func (p *Programmer) send(cmd Cmd, body []byte, csum uint32) ([]byte, error) {
	pkt, err := NewRequest(cmd, body, csum)
	if err != nil {
		return nil, err
	}
	glog.V(1).Infof("[esp-send]: cmd = %v, len = %d", cmd, len(body))
	reply := make([]byte, mdma.MaxWifiPayload)
	var n int
	if cmd == CmdFlashDownloadData || cmd == CmdRamDownloadData {
		n, err = p.tun.WifiCmdLong(pkt, reply)
	} else {
		n, err = p.tun.WifiCmd(pkt, reply)
	}
	if err != nil {
		return nil, fmt.Errorf("%v failed: %w", cmd, err)
	}
	return reply[:n], nil
}

func (p *Programmer) command(cmd Cmd, body []byte, csum uint32) (*RespHdr, error) {
	reply, err := p.send(cmd, body, csum)
	if err != nil {
		return nil, err
	}
	hdr, err := DecodeRespHdr(cmd, reply)
	if err != nil {
		return nil, err
	}
	if hdr.Cmd != cmd {
		glog.Warningf("%v answered with %v", cmd, hdr.Cmd)
	}
	return hdr, nil
}

// Announces the download. The loader erases the target region before
// answering.
func (p *Programmer) DownloadStart(b *Blob) error {
	body := u32Body(b.SectTotal*SectLen, b.SectTotal, SectLen, b.Addr)
	if _, err := p.command(CmdFlashDownloadStart, body, 0); err != nil {
		glog.Errorf("Could not erase WiFi flash: %v", err)
		return err
	}
	return nil
}

// Sends the next sector of b. Returns true once the last sector is sent.
func (p *Programmer) DownloadData(b *Blob) (bool, error) {
	if b.Done() {
		return true, nil
	}
	sect := b.Sector(b.Sect)
	var pkt bytes.Buffer
	pkt.Grow(PktLen)
	pkt.Write(u32Body(SectLen, b.Sect, 0, 0))
	pkt.Write(sect)
	if _, err := p.command(CmdFlashDownloadData, pkt.Bytes(), Checksum(sect)); err != nil {
		glog.Errorf("Error flashing blob at 0x%X: %v", b.Sect*SectLen, err)
		return false, err
	}
	b.Sect++
	return b.Done(), nil
}

// Ends the download, optionally rebooting the WiFi chip. The loader may
// not answer when rebooting, so only transport errors are reported.
func (p *Programmer) DownloadFinish(reboot bool) error {
	flag := uint32(0)
	if reboot {
		flag = 1
	}
	reply, err := p.send(CmdFlashDownloadFinish, u32Body(flag), 0)
	if err != nil {
		return err
	}
	if _, err = DecodeRespHdr(CmdFlashDownloadFinish, reply); err != nil {
		glog.Warningf("Ignoring finish response: %v", err)
	}
	return nil
}

// Writes b to the WiFi chip flash and reboots it.
func (p *Programmer) FlashBlob(b *Blob) error {
	glog.Infof("Erasing WiFi module, 0x%08X bytes at 0x%08X", b.Len(), b.Addr)
	if err := p.SyncSequence(); err != nil {
		return fmt.Errorf("could not sync ESP8266: %w", err)
	}
	if err := p.DownloadStart(b); err != nil {
		return fmt.Errorf("could not erase flash: %w", err)
	}

	glog.Infof("Flashing WiFi firmware at 0x%06X", b.Addr)
	b.Sect = 0
	for done := false; !done; {
		p.progress.OnProgress(b.Sect, b.SectTotal, fmt.Sprintf("0x%08X", b.Sect*SectLen))
		var err error
		if done, err = p.DownloadData(b); err != nil {
			return fmt.Errorf("flash failed: %w", err)
		}
	}
	p.progress.OnProgress(b.Sect, b.SectTotal, fmt.Sprintf("0x%08X", b.Sect*SectLen))

	return p.DownloadFinish(true)
}
