// This file is part of nugopher.
//
// nugopher is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// nugopher is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with nugopher.  If not, see <https://www.gnu.org/licenses/>.

// Package pi reads the cartridge ROM and reads and writes the cartridge SRAM.
//
// ROM reads are broken into blocks of RomBlockSize bytes. The context is
// checked between blocks so a long read can be abandoned.
//
// SRAM is addressed from SramBase. The content of the SRAM is written to disk
// by Flush().
package pi

import (
	"bytes"
	"context"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/jetsetilly/nugopher/cartridgeloader"
	"github.com/jetsetilly/nugopher/curated"
	"github.com/jetsetilly/nugopher/environment"
	"github.com/jetsetilly/nugopher/logger"
	"github.com/jetsetilly/nugopher/resources"
)

// Sentinel error patterns.
const (
	NotROM     = "pi: %s: not a cartridge ROM"
	OutOfRange = "pi: %s: address %#08x length %#x out of range"
)

// RomBlockSize is the largest single transfer from the cartridge ROM.
const RomBlockSize = 0x4000

// SRAM address space.
const (
	SramBase = 0x08000000
	SramSize = 0x8000
)

// the location of the title and game code in the ROM header
const (
	titleOrigin = 0x20
	titleLen    = 20
	codeOrigin  = 0x3b
	codeLen     = 4
)

// PI is the peripheral interface.
type PI struct {
	env *environment.Environment
	rom []byte

	crit     sync.Mutex
	sram     []byte
	diskSram []byte
	sramPath string

	blocks atomic.Uint64
}

// NewPI is the preferred method of initialisation for the PI type. The
// loader must contain a cartridge ROM. It is loaded if it has not been
// already.
//
// The sram path is relative to the resources directory. An empty path means
// the SRAM is never read from or written to disk.
func NewPI(ctx context.Context, env *environment.Environment, cl cartridgeloader.Loader, sramPath string) (*PI, error) {
	if err := cl.Load(ctx); err != nil {
		return nil, err
	}
	if !cl.Format.IsROM() {
		return nil, curated.Errorf(NotROM, cl.ShortName())
	}

	pi := &PI{
		env:      env,
		rom:      cl.Data,
		sram:     make([]byte, SramSize),
		diskSram: make([]byte, SramSize),
		sramPath: sramPath,
	}
	pi.readSram()
	copy(pi.diskSram, pi.sram)

	logger.Logf(env, "pi", "rom: %s (%s) %d bytes", pi.Title(), pi.GameCode(), len(pi.rom))

	return pi, nil
}

// Title returns the title in the ROM header.
func (pi *PI) Title() string {
	return pi.header(titleOrigin, titleLen)
}

// GameCode returns the four character game code in the ROM header.
func (pi *PI) GameCode() string {
	return pi.header(codeOrigin, codeLen)
}

func (pi *PI) header(origin int, n int) string {
	if len(pi.rom) < origin+n {
		return ""
	}
	b := pi.rom[origin : origin+n]
	b = bytes.TrimRight(b, "\x00")
	return strings.TrimSpace(string(b))
}

// RomSize returns the size of the ROM in bytes.
func (pi *PI) RomSize() int {
	return len(pi.rom)
}

// ReadRom copies len(buf) bytes from the ROM at addr.
func (pi *PI) ReadRom(ctx context.Context, addr uint32, buf []byte) error {
	if int(addr)+len(buf) > len(pi.rom) {
		return curated.Errorf(OutOfRange, "rom", addr, len(buf))
	}

	for len(buf) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		n := copy(buf[:min(len(buf), RomBlockSize)], pi.rom[addr:])
		buf = buf[n:]
		addr += uint32(n)
		pi.blocks.Add(1)
	}

	return nil
}

// Blocks returns the number of ROM blocks transferred.
func (pi *PI) Blocks() uint64 {
	return pi.blocks.Load()
}

// ReadWriteSram transfers len(buf) bytes between the SRAM at addr and buf.
func (pi *PI) ReadWriteSram(addr uint32, buf []byte, write bool) error {
	if addr < SramBase || int(addr-SramBase)+len(buf) > SramSize {
		return curated.Errorf(OutOfRange, "sram", addr, len(buf))
	}
	offset := addr - SramBase

	pi.crit.Lock()
	defer pi.crit.Unlock()

	if write {
		copy(pi.sram[offset:], buf)
	} else {
		copy(buf, pi.sram[offset:])
	}

	return nil
}

// ReadSram copies len(buf) bytes from the SRAM at addr.
func (pi *PI) ReadSram(addr uint32, buf []byte) error {
	return pi.ReadWriteSram(addr, buf, false)
}

// WriteSram copies buf to the SRAM at addr.
func (pi *PI) WriteSram(addr uint32, buf []byte) error {
	return pi.ReadWriteSram(addr, buf, true)
}

// Flush writes the SRAM to disk if it has changed since it was last written.
func (pi *PI) Flush() error {
	pi.crit.Lock()
	defer pi.crit.Unlock()

	if bytes.Equal(pi.sram, pi.diskSram) {
		return nil
	}

	if pi.sramPath != "" {
		fn, err := resources.JoinPath(pi.sramPath)
		if err != nil {
			return curated.Errorf("pi: sram: %v", err)
		}
		if err := os.WriteFile(fn, pi.sram, 0o600); err != nil {
			return curated.Errorf("pi: sram: %v", err)
		}
		logger.Logf(pi.env, "pi", "sram saved to %s", fn)
	}

	copy(pi.diskSram, pi.sram)
	return nil
}

func (pi *PI) readSram() {
	if pi.sramPath == "" {
		return
	}

	fn, err := resources.JoinPath(pi.sramPath)
	if err != nil {
		logger.Logf(pi.env, "pi", "could not load sram file: %v", err)
		return
	}

	d, err := os.ReadFile(fn)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Logf(pi.env, "pi", "could not load sram file: %v", err)
		}
		return
	}

	if len(d) != SramSize {
		logger.Logf(pi.env, "pi", "sram file is of incorrect length. %d should be %d", len(d), SramSize)
	}
	copy(pi.sram, d)
}
