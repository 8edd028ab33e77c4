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


// Provides low-level bulk transport for the MeGaWiFi programmer.
// The programmer exposes one vendor interface with a bulk IN and a bulk OUT
// endpoint; every command, reply and payload travels over them.
package mdma

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"time"

	"github.com/golang/glog"
	"github.com/google/gousb"
)

const (
	megawifiVid    = 0x03eb
	megawifiPid    = 0x206c
	megawifiConfig = 1
	megawifiIntf   = 0
	megawifiInEp   = 3 // 0x83
	megawifiOutEp  = 4 // 0x04

	// Vendor IDs the programmer enumerates with while in DFU mode.
	BootloaderVid = 0x03eb
	BootloaderPid = 0x2ff9
)

//go:generate mockgen -destination=mocks/usb_device.go -package=mocks github.com/megawifi/mdma UsbDeviceInterface
type UsbDeviceInterface interface {
	// Moves len(p) bytes over the bulk endpoints, giving up after timeout.
	// Returns the number of bytes actually transferred.
	BulkWrite(p []byte, timeout time.Duration) (int, error)
	BulkRead(p []byte, timeout time.Duration) (int, error)
	io.Closer
}

// Encapsulates programmer USB resources.
type UsbDevice struct {
	ctx  *gousb.Context
	dev  *gousb.Device
	cfg  *gousb.Config
	intf *gousb.Interface
	// Bulk output/input endpoints.
	epOut *gousb.OutEndpoint
	epIn  *gousb.InEndpoint
}

func OpenUsbDevice() (*UsbDevice, error) {
	d := &UsbDevice{}
	d.ctx = gousb.NewContext()

	var err error
	d.dev, err = d.ctx.OpenDeviceWithVIDPID(megawifiVid, megawifiPid)
	if d.dev == nil && err == nil {
		d.Close()
		return nil, fmt.Errorf("could not open device %04X:%04X", megawifiVid, megawifiPid)
	}
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("opening device %04X:%04X: %w", megawifiVid, megawifiPid, err)
	}
	glog.V(1).Infof("Opened device %04X:%04X", megawifiVid, megawifiPid)

	if err = d.dev.SetAutoDetach(true); err != nil {
		glog.Warningf("Could not enable kernel driver auto detach: %v", err)
	}

	if d.cfg, err = d.dev.Config(megawifiConfig); err != nil {
		d.Close()
		return nil, fmt.Errorf("setting configuration #%d: %w", megawifiConfig, err)
	}

	if d.intf, err = d.cfg.Interface(megawifiIntf, 0); err != nil {
		d.Close()
		return nil, fmt.Errorf("claiming interface #%d: %w", megawifiIntf, err)
	}
	glog.V(1).Infof("Claimed interface #%d", megawifiIntf)

	if d.epOut, err = d.intf.OutEndpoint(megawifiOutEp); err != nil {
		d.Close()
		return nil, fmt.Errorf("opening output endpoint: %w", err)
	}

	if d.epIn, err = d.intf.InEndpoint(megawifiInEp); err != nil {
		d.Close()
		return nil, fmt.Errorf("opening input endpoint: %w", err)
	}
	return d, nil
}

func (d *UsbDevice) Close() error {
	glog.V(1).Infof("Closing USB device")
	if d.intf != nil {
		d.intf.Close()
		d.intf = nil
	}
	if d.cfg != nil {
		d.cfg.Close()
		d.cfg = nil
	}
	if d.dev != nil {
		d.dev.Close()
		d.dev = nil
	}
	if d.ctx != nil {
		d.ctx.Close()
		d.ctx = nil
	}
	return nil
}

func dumpHead(p []byte) string {
	if len(p) > 32 {
		p = p[:32]
	}
	return hex.Dump(p)
}

func (d *UsbDevice) BulkRead(p []byte, timeout time.Duration) (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	n, err := d.epIn.ReadContext(ctx, p)
	glog.V(2).Infof("[usb-bulk IN]: read %d bytes. data[:32]:\n%s", n, dumpHead(p[:n]))
	return n, err
}

func (d *UsbDevice) BulkWrite(p []byte, timeout time.Duration) (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	n, err := d.epOut.WriteContext(ctx, p)
	glog.V(2).Infof("[usb-bulk OUT]: wrote %d bytes. data[:32]:\n%s", n, dumpHead(p))
	return n, err
}
