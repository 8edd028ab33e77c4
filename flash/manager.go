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


// Package flash programs, reads and erases the word-addressed flash chip
// behind the programmer, one bounded transfer at a time.
package flash

import (
	"fmt"

	"github.com/golang/glog"
	"github.com/megawifi/mdma"
)

const (
	// Words moved per READ/WRITE command. The programmer holds transfer
	// sizes in a 16-bit byte counter.
	ChunkWords = 65536 >> 1

	// Default chip size limit in words: the reach of a 24-bit address.
	DefaultCapacity = 1 << 24
)

// Flash commands of the programmer. Implemented by *mdma.Session.
type Device interface {
	Read(addr uint32, words []uint16) error
	Write(addr uint32, words []uint16) error
	RangeErase(addr, length uint32) error
	CartErase() error
	SectErase(addr uint32) error
}

type Manager struct {
	dev      Device
	progress mdma.ProgressSink
	capacity uint32
}

type Option func(*Manager)

// Reports progress after every chunk.
func WithProgress(p mdma.ProgressSink) Option {
	return func(m *Manager) {
		m.progress = p
	}
}

// Sets the flash chip size in words. Ranges reaching past it are rejected.
func WithCapacity(words uint32) Option {
	return func(m *Manager) {
		m.capacity = words
	}
}

func NewManager(dev Device, opts ...Option) *Manager {
	m := &Manager{dev, mdma.NoProgress, DefaultCapacity}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) checkRange(addr, length uint32) error {
	if uint64(addr)+uint64(length) > uint64(m.capacity) {
		return &mdma.RangeError{Addr: addr, Len: length, Limit: m.capacity,
			Reason: "range does not fit the flash chip"}
	}
	return nil
}

// Programs img.File at img.Addr, optionally erasing the target range first.
// Returns the programmed words (byte swapped, as sent to the chip) and the
// image with the range actually written, so that a verify pass can read it
// back.
func (m *Manager) Program(img MemImage, autoErase bool) ([]uint16, MemImage, error) {
	file, err := LoadImage(img.File)
	if err != nil {
		return nil, img, err
	}
	if img.Addr == 0 {
		img.Addr = file.Addr
	}
	available := uint32(len(file.Data) / 2)
	if img.Len == 0 {
		img.Len = available
	}
	if img.Len == 0 {
		return nil, img, &mdma.IoError{Path: img.File, Err: fmt.Errorf("image is empty")}
	}
	if img.Len > available {
		return nil, img, &mdma.IoError{Path: img.File,
			Err: fmt.Errorf("file holds %d words, %d requested", available, img.Len)}
	}
	if err = m.checkRange(img.Addr, img.Len); err != nil {
		return nil, img, err
	}

	buf := mdma.WordsFromBytes(file.Data[:2*img.Len])
	mdma.SwapWords(buf)

	if autoErase {
		glog.Infof("Auto-erasing range 0x%06X:%06X", img.Addr, img.Len)
		if err = m.dev.RangeErase(img.Addr, img.Len); err != nil {
			return nil, img, fmt.Errorf("auto-erase failed: %w", err)
		}
	}

	glog.Infof("Flashing ROM %s starting at 0x%06X", img.File, img.Addr)
	m.progress.OnProgress(0, img.Len, fmt.Sprintf("0x%06X", img.Addr))
	w := &memWriter{m.dev, img.Addr, ChunkWords, m.progress}
	if _, err = w.WriteWords(buf); err != nil {
		return nil, img, fmt.Errorf("couldn't write to cart: %w", err)
	}
	return buf, img, nil
}

// Reads length words starting at word address start. Words are returned as
// they come from the chip; SaveImage swaps them for the file.
func (m *Manager) Read(start, length uint32) ([]uint16, error) {
	if err := m.checkRange(start, length); err != nil {
		return nil, err
	}
	glog.Infof("Reading cart starting at 0x%06X", start)
	buf := make([]uint16, length)
	m.progress.OnProgress(0, length, fmt.Sprintf("0x%06X", start))
	r := &memReader{m.dev, start, ChunkWords, m.progress}
	if _, err := r.ReadWords(buf); err != nil {
		return nil, fmt.Errorf("couldn't read from cart: %w", err)
	}
	return buf, nil
}

func (m *Manager) RangeErase(start, length uint32) error {
	if err := m.checkRange(start, length); err != nil {
		return err
	}
	glog.Infof("Erasing range 0x%06X:%06X", start, length)
	return m.dev.RangeErase(start, length)
}

// Erases the whole chip. Can take over a minute.
func (m *Manager) FullErase() error {
	glog.Info("Erasing cart")
	return m.dev.CartErase()
}

func (m *Manager) SectorErase(addr uint32) error {
	if err := m.checkRange(addr, 1); err != nil {
		return err
	}
	glog.Infof("Erasing sector 0x%06X", addr)
	return m.dev.SectErase(addr)
}

// First difference found by Verify. Short is set when one buffer ended
// before the other; Addr is then the first word missing.
type VerifyError struct {
	Addr  uint32
	Wrote uint16
	Read  uint16
	Short bool
}

func (e *VerifyError) Error() string {
	if e.Short {
		return fmt.Sprintf("verify failed at addr 0x%07X: length mismatch", e.Addr)
	}
	return fmt.Sprintf("verify failed at addr 0x%07X: wrote 0x%04X, read 0x%04X",
		e.Addr, e.Wrote, e.Read)
}

// Compares programmed words against words read back from start.
func (m *Manager) Verify(written, read []uint16, start uint32) error {
	n := len(written)
	if len(read) < n {
		n = len(read)
	}
	for i := 0; i < n; i++ {
		if written[i] != read[i] {
			return &VerifyError{Addr: start + uint32(i), Wrote: written[i], Read: read[i]}
		}
	}
	if len(written) != len(read) {
		return &VerifyError{Addr: start + uint32(n), Short: true}
	}
	return nil
}
