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


// Programs MeGaWiFi cartridges: reads, erases and writes the cart flash
// chip and uploads firmware to the WiFi module.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/megawifi/mdma/flash"
	"github.com/megawifi/mdma/programmer/esp8266"
	"github.com/megawifi/mdma/util"

	"github.com/golang/glog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const version = "0.4"

type options struct {
	flash      string
	read       string
	erase      bool
	sectErase  string
	rangeErase string
	autoErase  bool
	verify     bool
	flashId    bool
	pushbutton bool
	wifiFlash  string
	spiMode    esp8266.SpiMode
	bootloader bool
	dryRun     bool
	version    bool
}

func (o *options) register(fs *pflag.FlagSet) {
	fs.StringVarP(&o.flash, "flash", "f", "", "Flash rom file (file[:addr[:len]])")
	fs.StringVarP(&o.read, "read", "r", "", "Read ROM/Flash to file (file[:addr[:len]])")
	fs.BoolVarP(&o.erase, "erase", "e", false, "Erase Flash")
	fs.StringVarP(&o.sectErase, "sect-erase", "s", "", "Erase flash sector (hex address)")
	fs.StringVarP(&o.rangeErase, "range-erase", "A", "", "Erase flash memory range (addr:len)")
	fs.BoolVarP(&o.autoErase, "auto-erase", "a", false, "Auto-erase (use it with flash command)")
	fs.BoolVarP(&o.verify, "verify", "V", false, "Verify flash after writing file")
	fs.BoolVarP(&o.flashId, "flash-id", "i", false, "Obtain flash chip identifiers")
	fs.BoolVarP(&o.pushbutton, "pushbutton", "p", false,
		"Pushbutton status read (bit 1:event, bit0:pressed)")
	fs.StringVarP(&o.wifiFlash, "wifi-flash", "w", "", "Upload firmware blob to WiFi module (file[:addr])")
	o.spiMode = esp8266.SpiUnchanged
	fs.VarP(&o.spiMode, "spi-mode", "m", "Set WiFi module flash chip mode (qio, qout, dio, dout)")
	fs.BoolVarP(&o.bootloader, "bootloader", "b", false, "Switch to bootloader mode")
	fs.BoolVarP(&o.dryRun, "dry-run", "d", false, "Dry run: don't actually do anything")
	fs.BoolVarP(&o.version, "version", "R", false, "Show program version")
}

// Builds the job described by the parsed flags.
func (o *options) job() (*util.Job, error) {
	job := &util.Job{
		Erase:      o.erase,
		AutoErase:  o.autoErase,
		Verify:     o.verify,
		FlashId:    o.flashId,
		Pushbutton: o.pushbutton,
		SpiMode:    o.spiMode,
		Bootloader: o.bootloader,
	}
	var err error
	memArg := func(s, what string) (*flash.MemImage, error) {
		if s == "" {
			return nil, nil
		}
		m, err := flash.ParseMemArgument(s)
		if err != nil {
			return nil, fmt.Errorf("on %s argument: %w", what, err)
		}
		return &m, nil
	}
	if job.Flash, err = memArg(o.flash, "Flash file"); err != nil {
		return nil, err
	}
	if job.Read, err = memArg(o.read, "ROM/Flash read"); err != nil {
		return nil, err
	}
	if job.Wifi, err = memArg(o.wifiFlash, "WiFi firmware"); err != nil {
		return nil, err
	}
	if o.sectErase != "" {
		sect, err := strconv.ParseUint(o.sectErase, 16, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid sector address %q", o.sectErase)
		}
		s := uint32(sect)
		job.SectErase = &s
	}
	if o.rangeErase != "" {
		addr, length, err := flash.ParseMemRange(o.rangeErase)
		if err != nil {
			return nil, fmt.Errorf("invalid Flash erase range argument: %w", err)
		}
		job.RangeErase = &flash.MemImage{Addr: addr, Len: length}
	}
	if err = job.Validate(); err != nil {
		return nil, err
	}
	return job, nil
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:           "mdma",
		Short:         "MeGaWiFi programmer",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// glog reads its flags from the go flag set.
			flag.CommandLine.Parse([]string{})
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts)
		},
	}
	opts.register(cmd.Flags())
	return cmd
}

func run(cmd *cobra.Command, opts *options) error {
	if opts.version {
		fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", cmd.Name(), version)
		return nil
	}
	if cmd.Flags().NFlag() == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Nothing to do!")
		return cmd.Help()
	}
	job, err := opts.job()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.dryRun {
		fmt.Fprintln(out, "The following actions will NOT be performed (in order):")
	} else {
		glog.V(1).Info("The following actions will be performed (in order):")
	}
	for _, step := range job.Plan() {
		if opts.dryRun {
			fmt.Fprintf(out, " - %s\n", step)
		} else {
			glog.V(1).Infof(" - %s", step)
		}
	}
	if opts.dryRun {
		return nil
	}

	button, err := util.ProgramCart(job, newProgress(os.Stdout))
	if err != nil {
		return err
	}
	if job.Pushbutton {
		fmt.Fprintf(out, "Button status: 0x%02X\n", button)
		// Scripts read the status from the exit code.
		exitCode = int(button)
	}
	return nil
}

var exitCode int

func main() {
	defer glog.Flush()

	flag.Set("logtostderr", "true")
	pflag.CommandLine.AddGoFlagSet(flag.CommandLine)
	cmd := newRootCmd()
	cmd.PersistentFlags().AddFlagSet(pflag.CommandLine)
	if err := cmd.Execute(); err != nil {
		glog.Errorf("%v", err)
		glog.Flush()
		os.Exit(1)
	}
	glog.Flush()
	os.Exit(exitCode)
}
