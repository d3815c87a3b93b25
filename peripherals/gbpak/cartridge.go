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

package gbpak

import (
	"bytes"
	"encoding/binary"
	"strings"

	"github.com/jetsetilly/nugopher/cartridgeloader"
	"github.com/jetsetilly/nugopher/curated"
)

// Sentinel error patterns returned when creating a Cartridge.
const (
	NotGameBoy = "gbpak: %s: not a game boy cartridge"
	BadHeader  = "gbpak: header checksum is %#02x but should be %#02x"
)

// the logo every Game Boy cartridge has at logoOrigin
var logo = []uint8{
	0xce, 0xed, 0x66, 0x66, 0xcc, 0x0d, 0x00, 0x0b, 0x03, 0x73, 0x00, 0x83,
	0x00, 0x0c, 0x00, 0x0d, 0x00, 0x08, 0x11, 0x1f, 0x88, 0x89, 0x00, 0x0e,
	0xdc, 0xcc, 0x6e, 0xe6, 0xdd, 0xdd, 0xd9, 0x99, 0xbb, 0xbb, 0x67, 0x63,
	0x6e, 0x0e, 0xec, 0xcc, 0xdd, 0xdc, 0x99, 0x9f, 0xbb, 0xb9, 0x33, 0x3e,
}

// cartridge header layout
const (
	logoOrigin     = 0x0104
	titleOrigin    = 0x0134
	titleLen       = 16
	companyOrigin  = 0x0144
	cartTypeAddr   = 0x0147
	romSizeAddr    = 0x0148
	ramSizeAddr    = 0x0149
	countryAddr    = 0x014a
	versionAddr    = 0x014c
	headerSumAddr  = 0x014d
	globalSumAddr  = 0x014e
	headerEnd      = 0x0150
	romBankSize    = 0x4000
	ramBankSize    = 0x2000
	ramOrigin      = 0xa000
	ramMemtop      = 0xbfff
	romBankOrigin  = 0x4000
	romBankMemtop  = 0x7fff
	ramEnableCode  = 0x0a
	ramEnableTop   = 0x1fff
	romSelectTop   = 0x3fff
	ramSelectTop   = 0x5fff
	modeSelectTop  = 0x7fff
	headerSumStart = 0x0134
)

// ID is the information in the cartridge header.
type ID struct {
	Title       string
	CompanyCode uint16
	CartType    uint8
	ROMSize     int
	RAMSize     int
	CountryCode uint8
	Version     uint8
	HeaderSum   uint8
	GlobalSum   uint16
}

// Cartridge is a Game Boy cartridge with a memory bank controller. Writes
// to the ROM area select the ROM and RAM banks and enable the RAM.
type Cartridge struct {
	name string
	rom  []uint8
	ram  []uint8

	romBank    int
	ramBank    int
	ramEnabled bool
}

// size of the cartridge RAM for each value of the header field
var ramSizes = map[uint8]int{
	0x00: 0,
	0x01: 0x0800,
	0x02: 0x2000,
	0x03: 0x8000,
	0x04: 0x20000,
	0x05: 0x10000,
}

// NewCartridge creates a cartridge from the data of a loader. The data must
// contain a valid header.
func NewCartridge(ld cartridgeloader.Loader) (*Cartridge, error) {
	d := ld.Data
	if len(d) < headerEnd || !bytes.Equal(d[logoOrigin:logoOrigin+len(logo)], logo) {
		return nil, curated.Errorf(NotGameBoy, ld.ShortName())
	}

	sum := headerSum(d)
	if sum != d[headerSumAddr] {
		return nil, curated.Errorf(BadHeader, d[headerSumAddr], sum)
	}

	c := &Cartridge{
		name:    ld.ShortName(),
		rom:     d,
		ram:     make([]uint8, ramSizes[d[ramSizeAddr]]),
		romBank: 1,
	}
	return c, nil
}

func headerSum(d []uint8) uint8 {
	var x uint8
	for _, v := range d[headerSumStart:headerSumAddr] {
		x = x - v - 1
	}
	return x
}

// ID returns the information in the cartridge header.
func (c *Cartridge) ID() ID {
	d := c.rom
	return ID{
		Title:       strings.TrimRight(string(d[titleOrigin:titleOrigin+titleLen]), "\x00"),
		CompanyCode: binary.BigEndian.Uint16(d[companyOrigin:]),
		CartType:    d[cartTypeAddr],
		ROMSize:     0x8000 << d[romSizeAddr],
		RAMSize:     len(c.ram),
		CountryCode: d[countryAddr],
		Version:     d[versionAddr],
		HeaderSum:   d[headerSumAddr],
		GlobalSum:   binary.BigEndian.Uint16(d[globalSumAddr:]),
	}
}

func (c *Cartridge) romBanks() int {
	return (len(c.rom) + romBankSize - 1) / romBankSize
}

func (c *Cartridge) read(addr uint16) uint8 {
	switch {
	case addr < romBankOrigin:
		return c.rom[addr]
	case addr <= romBankMemtop:
		a := c.romBank*romBankSize + int(addr-romBankOrigin)
		if a < len(c.rom) {
			return c.rom[a]
		}
	case addr >= ramOrigin && addr <= ramMemtop:
		if c.ramEnabled {
			a := c.ramBank*ramBankSize + int(addr-ramOrigin)
			if a < len(c.ram) {
				return c.ram[a]
			}
		}
	}
	return 0xff
}

func (c *Cartridge) write(addr uint16, v uint8) {
	switch {
	case addr <= ramEnableTop:
		c.ramEnabled = v&0x0f == ramEnableCode
	case addr <= romSelectTop:
		c.romBank = int(v) % c.romBanks()
		if c.romBank == 0 {
			c.romBank = 1
		}
	case addr <= ramSelectTop:
		c.ramBank = int(v & 0x0f)
	case addr <= modeSelectTop:
	case addr >= ramOrigin && addr <= ramMemtop:
		if c.ramEnabled {
			a := c.ramBank*ramBankSize + int(addr-ramOrigin)
			if a < len(c.ram) {
				c.ram[a] = v
			}
		}
	}
}

// connected returns true if the logo reads correctly through the connector.
func (c *Cartridge) connected() bool {
	for i, v := range logo {
		if c.read(uint16(logoOrigin+i)) != v {
			return false
		}
	}
	return true
}
