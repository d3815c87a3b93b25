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

package eeprom

import (
	"bytes"
	"os"

	"github.com/jetsetilly/nugopher/environment"
	"github.com/jetsetilly/nugopher/logger"
	"github.com/jetsetilly/nugopher/resources"
)

// BlockSize is the number of bytes in one EEPROM block. Reads and writes are
// always a whole number of blocks.
const BlockSize = 8

// Type of EEPROM fitted to the cartridge.
type Type int

// List of valid Type values.
const (
	None Type = iota
	Type4K
	Type16K
)

func (t Type) String() string {
	switch t {
	case None:
		return "none"
	case Type4K:
		return "4k"
	case Type16K:
		return "16k"
	}
	return "unknown"
}

// Size returns the size of the EEPROM in bytes.
func (t Type) Size() int {
	switch t {
	case Type4K:
		return 512
	case Type16K:
		return 2048
	}
	return 0
}

// Blocks returns the number of blocks in the EEPROM.
func (t Type) Blocks() int {
	return t.Size() / BlockSize
}

// memory is the content of the EEPROM and the copy of what is on disk.
type memory struct {
	env  *environment.Environment
	path string

	Data []uint8

	// the data as it is on disk
	DiskData []uint8
}

// newMemory initialises the memory with 0xff and reads any existing data
// from disk. An empty path means the memory is never read from or written
// to disk.
func newMemory(env *environment.Environment, t Type, path string) *memory {
	mem := &memory{
		env:      env,
		path:     path,
		Data:     bytes.Repeat([]uint8{0xff}, t.Size()),
		DiskData: make([]uint8, t.Size()),
	}
	mem.read()
	copy(mem.DiskData, mem.Data)
	return mem
}

// dirty returns true if the memory has changed since it was last written to
// disk.
func (mem *memory) dirty() bool {
	return !bytes.Equal(mem.Data, mem.DiskData)
}

func (mem *memory) read() {
	if mem.path == "" {
		return
	}

	fn, err := resources.JoinPath(mem.path)
	if err != nil {
		logger.Logf(mem.env, "eeprom", "could not load eeprom file: %v", err)
		return
	}

	d, err := os.ReadFile(fn)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Logf(mem.env, "eeprom", "could not load eeprom file: %v", err)
		}
		return
	}

	if len(d) != len(mem.Data) {
		logger.Logf(mem.env, "eeprom", "eeprom file is of incorrect length. %d should be %d", len(d), len(mem.Data))
	}
	copy(mem.Data, d)

	logger.Logf(mem.env, "eeprom", "eeprom file loaded from %s", fn)
}

func (mem *memory) write() {
	if mem.path == "" {
		copy(mem.DiskData, mem.Data)
		return
	}

	fn, err := resources.JoinPath(mem.path)
	if err != nil {
		logger.Logf(mem.env, "eeprom", "could not write eeprom file: %v", err)
		return
	}

	err = os.WriteFile(fn, mem.Data, 0o600)
	if err != nil {
		logger.Logf(mem.env, "eeprom", "could not write eeprom file: %v", err)
		return
	}

	logger.Logf(mem.env, "eeprom", "eeprom file saved to %s", fn)
	copy(mem.DiskData, mem.Data)
}
