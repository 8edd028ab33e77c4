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
)

// A bulk transfer failed or moved fewer bytes than requested.
type TransportError struct {
	Op   string
	Want int
	Got  int
	Err  error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: transferred %d of %d bytes: %v", e.Op, e.Got, e.Want, e.Err)
	}
	return fmt.Sprintf("%s: transferred %d of %d bytes", e.Op, e.Got, e.Want)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// The device answered, but the answer reports a failure or is malformed.
type ProtocolError struct {
	Op     string
	Status Opcode
	Reason string
}

func (e *ProtocolError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s: device replied %v", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

// Reading or writing an image file failed.
type IoError struct {
	Path string
	Err  error
}

func (e *IoError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *IoError) Unwrap() error {
	return e.Err
}

// A memory range is malformed or does not fit the flash chip.
type RangeError struct {
	Input  string
	Addr   uint32
	Len    uint32
	Limit  uint32
	Reason string
}

func (e *RangeError) Error() string {
	if e.Input != "" {
		return fmt.Sprintf("invalid memory range %q: %s", e.Input, e.Reason)
	}
	return fmt.Sprintf("memory range 0x%06X:0x%X exceeds limit 0x%X: %s",
		e.Addr, e.Len, e.Limit, e.Reason)
}

func statusError(op Opcode, f *CommandFrame) error {
	if f.Status() == OpOk {
		return nil
	}
	return &ProtocolError{Op: op.String(), Status: f.Status()}
}
