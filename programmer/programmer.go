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


// Package programmer defines the programmers driven by the top level jobs.
package programmer

import (
	"github.com/megawifi/mdma/flash"
	"github.com/megawifi/mdma/programmer/esp8266"
)

//go:generate mockgen -destination=mocks/programmer.go -package=mocks github.com/megawifi/mdma/programmer ProgrammerInterface,FirmwareProgrammerInterface

// Cart flash programmer. Implemented by *flash.Manager.
type ProgrammerInterface interface {
	FullErase() error
	SectorErase(addr uint32) error
	RangeErase(start, length uint32) error
	// Returns the words sent to the chip and the range they were written to.
	Program(img flash.MemImage, autoErase bool) ([]uint16, flash.MemImage, error)
	Read(start, length uint32) ([]uint16, error)
	Verify(written, read []uint16, start uint32) error
}

// WiFi module firmware programmer. Implemented by *esp8266.Programmer.
type FirmwareProgrammerInterface interface {
	FlashBlob(b *esp8266.Blob) error
}

var (
	_ ProgrammerInterface         = (*flash.Manager)(nil)
	_ FirmwareProgrammerInterface = (*esp8266.Programmer)(nil)
)
