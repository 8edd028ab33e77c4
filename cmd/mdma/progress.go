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


package main

import (
	"fmt"
	"io"
	"os"

	"github.com/megawifi/mdma"

	"github.com/golang/glog"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"
)

// Room left on the line for the label and counters.
const barMargin = 40

// Draws one progress bar per operation. A new bar starts whenever an
// operation reports done == 0.
type barProgress struct {
	out   io.Writer
	width int
	bar   *progressbar.ProgressBar
}

func (p *barProgress) OnProgress(done, total uint32, label string) {
	if total == 0 {
		return
	}
	if p.bar == nil || done == 0 {
		p.bar = progressbar.NewOptions(int(total),
			progressbar.OptionSetWriter(p.out),
			progressbar.OptionSetWidth(p.width),
			progressbar.OptionSetPredictTime(false),
			progressbar.OptionShowCount(),
			progressbar.OptionOnCompletion(func() { fmt.Fprintln(p.out) }),
		)
	}
	p.bar.Describe(label)
	p.bar.Set(int(done))
}

// Returns a progress bar sink sized to the terminal, or a log sink when
// out is not a terminal.
func newProgress(out *os.File) mdma.ProgressSink {
	fd := int(out.Fd())
	if !term.IsTerminal(fd) {
		return mdma.ProgressFunc(func(done, total uint32, label string) {
			glog.V(1).Infof("%s: %d/%d", label, done, total)
		})
	}
	width := 20
	if cols, _, err := term.GetSize(fd); err == nil && cols > barMargin+width {
		width = cols - barMargin
	}
	return &barProgress{out: out, width: width}
}
