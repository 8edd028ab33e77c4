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


package util

import (
	"fmt"

	"github.com/megawifi/mdma"
	"github.com/megawifi/mdma/flash"
	"github.com/megawifi/mdma/programmer"
	"github.com/megawifi/mdma/programmer/esp8266"

	"github.com/golang/glog"
)

// Words read when the read argument has no length.
const DefaultReadWords = 4 * 1024 * 1024

// Actions requested on the command line. They run in field order.
type Job struct {
	FlashId bool
	Erase   bool
	// Sector to erase.
	SectErase *uint32
	// Word range to erase, Len > 0.
	RangeErase *flash.MemImage
	Flash      *flash.MemImage
	AutoErase bool
	// Reads back the flashed range and compares it.
	Verify     bool
	Read       *flash.MemImage
	Pushbutton bool
	Wifi       *flash.MemImage
	SpiMode    esp8266.SpiMode
	Bootloader bool
}

// Checks arguments that only make sense together. At most one erase
// method can be requested.
func (j *Job) Validate() error {
	erases := 0
	for _, requested := range []bool{j.Erase, j.SectErase != nil, j.RangeErase != nil, j.AutoErase} {
		if requested {
			erases++
		}
	}
	if erases > 1 {
		return fmt.Errorf("only one of full erase, sector erase, range erase and auto-erase can be requested")
	}
	if j.RangeErase != nil && j.RangeErase.Len == 0 {
		return &mdma.RangeError{Input: fmt.Sprintf("0x%X:0", j.RangeErase.Addr),
			Reason: "erase range length must not be zero"}
	}
	if j.Verify && j.Flash == nil {
		return fmt.Errorf("verify requested without a flash image")
	}
	if j.Wifi != nil && j.Wifi.Len != 0 {
		return &mdma.RangeError{Input: j.Wifi.String(),
			Reason: "length is not supported for WiFi firmware files"}
	}
	return nil
}

// Lists the actions job performs, in order.
func (j *Job) Plan() []string {
	var plan []string
	if j.FlashId {
		plan = append(plan, "Show Flash chip identification.")
	}
	switch {
	case j.Erase:
		plan = append(plan, "Erase Flash.")
	case j.AutoErase:
		plan = append(plan, "Auto-erase flash.")
	case j.RangeErase != nil:
		plan = append(plan, fmt.Sprintf("Erase range 0x%X:%X.", j.RangeErase.Addr, j.RangeErase.Len))
	case j.SectErase != nil:
		plan = append(plan, fmt.Sprintf("Erase sector at 0x%X.", *j.SectErase))
	}
	if j.Flash != nil {
		verify := ""
		if j.Verify {
			verify = "and verify "
		}
		plan = append(plan, fmt.Sprintf("Flash %s%v", verify, *j.Flash))
	}
	if j.Read != nil {
		plan = append(plan, fmt.Sprintf("Read ROM/Flash to %v", *j.Read))
	}
	if j.Pushbutton {
		plan = append(plan, "Read pushbutton.")
	}
	if j.Wifi != nil {
		mode := ""
		if j.SpiMode < esp8266.SpiUnchanged {
			mode = ", mode: " + j.SpiMode.String()
		}
		plan = append(plan, fmt.Sprintf("Upload WiFi firmware %v%s", *j.Wifi, mode))
	}
	if j.Bootloader {
		plan = append(plan, "Enter bootloader")
	}
	return plan
}

// Writes cart flash.
// Erases, writes the image, then reads back and verifies and/or dumps the
// result, as requested by job.
func ProgramDevice(prog programmer.ProgrammerInterface, job *Job) error {
	var err error
	if job.Erase {
		glog.Info("Erasing cart")
		if err = prog.FullErase(); err != nil {
			return fmt.Errorf("Failed to erase cart: %w", err)
		}
	} else if job.SectErase != nil {
		glog.Infof("Erasing sector 0x%06X", *job.SectErase)
		if err = prog.SectorErase(*job.SectErase); err != nil {
			return fmt.Errorf("Failed to erase sector: %w", err)
		}
	} else if job.RangeErase != nil {
		glog.Infof("Erasing range 0x%X:%X", job.RangeErase.Addr, job.RangeErase.Len)
		if err = prog.RangeErase(job.RangeErase.Addr, job.RangeErase.Len); err != nil {
			return fmt.Errorf("Failed to erase range: %w", err)
		}
	}

	var written []uint16
	var img flash.MemImage
	if job.Flash != nil {
		if written, img, err = prog.Program(*job.Flash, job.AutoErase); err != nil {
			return fmt.Errorf("Failed to write to flash: %w", err)
		}
	}

	if job.Read == nil && !job.Verify {
		return nil
	}
	var start, length uint32
	if job.Verify {
		if job.Flash == nil {
			return fmt.Errorf("Nothing to verify")
		}
		// The flashed range wins over the read argument.
		start, length = img.Addr, img.Len
	} else {
		start, length = job.Read.Addr, job.Read.Len
		if length == 0 {
			length = DefaultReadWords
		}
	}
	mem, err := prog.Read(start, length)
	if err != nil {
		return fmt.Errorf("Failed to read flash contents: %w", err)
	}

	// A failed verify still saves the dump.
	var verifyErr error
	if job.Verify {
		if verifyErr = prog.Verify(written, mem, start); verifyErr == nil {
			glog.Info("Verify OK!")
		} else {
			glog.Errorf("Data verification failed: %v", verifyErr)
		}
	}
	if job.Read != nil {
		if err = flash.SaveImage(job.Read.File, mem); err != nil {
			return err
		}
		glog.Infof("Wrote file %s", job.Read.File)
	}
	return verifyErr
}

// Loads a firmware file and flashes it to the WiFi module at addr.
func FlashWifiFirmware(prog programmer.FirmwareProgrammerInterface, file string, addr uint32, mode esp8266.SpiMode) error {
	b, err := esp8266.LoadBlob(file, addr, mode)
	if err != nil {
		return err
	}
	glog.Infof("Uploading WiFi firmware %s (%d bytes) at 0x%06X", file, b.Size, addr)
	if err = prog.FlashBlob(b); err != nil {
		return fmt.Errorf("Error while uploading WiFi firmware: %w", err)
	}
	return nil
}

// Runs job on the programmer behind sess. Returns the pushbutton status
// when it was requested.
func RunJob(sess *mdma.Session, job *Job, progress mdma.ProgressSink) (button uint8, err error) {
	if err = job.Validate(); err != nil {
		return 0, err
	}
	// The bootloader command goes out even when a previous step failed.
	if job.Bootloader {
		defer func() {
			glog.Info("Entering bootloader")
			if berr := sess.Bootloader(); berr != nil && err == nil {
				err = berr
			}
		}()
	}

	if job.FlashId {
		var man uint16
		var dev [3]uint16
		if man, err = sess.ManIdGet(); err != nil {
			return 0, err
		}
		if dev, err = sess.DevIdGet(); err != nil {
			return 0, err
		}
		glog.Infof("Manufacturer ID: 0x%04X", man)
		glog.Infof("Device ID: 0x%04X:0x%04X:0x%04X", dev[0], dev[1], dev[2])
	}

	m := flash.NewManager(sess, flash.WithProgress(progress))
	if err = ProgramDevice(m, job); err != nil {
		return 0, err
	}

	if job.Pushbutton {
		if button, err = sess.ButtonGet(); err != nil {
			return 0, err
		}
		glog.Infof("Button status: 0x%02X", button)
	}

	if job.Wifi != nil {
		p := esp8266.NewProgrammer(sess, esp8266.WithProgress(progress))
		if err = FlashWifiFirmware(p, job.Wifi.File, job.Wifi.Addr, job.SpiMode); err != nil {
			return button, err
		}
	}
	return button, nil
}

// Opens the programmer and runs job on it.
func ProgramCart(job *Job, progress mdma.ProgressSink) (uint8, error) {
	if err := job.Validate(); err != nil {
		return 0, err
	}
	sess, err := mdma.OpenSession()
	if err != nil {
		return 0, err
	}
	defer sess.Close()
	return RunJob(sess, job, progress)
}
