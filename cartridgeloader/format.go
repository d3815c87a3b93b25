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

package cartridgeloader

import "encoding/binary"

// Format of the data in the Loader.
type Format string

// List of valid Format values.
const (
	FormatAuto Format = "AUTO"

	// cartridge ROM byte orders
	FormatZ64 Format = "Z64"
	FormatV64 Format = "V64"
	FormatN64 Format = "N64"

	// Game Boy cartridge
	FormatGB Format = "GB"

	// sound data
	FormatWAV Format = "WAV"
	FormatMP3 Format = "MP3"
)

// the first word of a cartridge ROM image in each of the three byte orders
const (
	magicZ64 = 0x80371240
	magicV64 = 0x37804012
	magicN64 = 0x40123780
)

// IsROM returns true if the format is one of the cartridge ROM byte orders.
func (f Format) IsROM() bool {
	return f == FormatZ64 || f == FormatV64 || f == FormatN64
}

// detectFormat looks at the first word of the data to decide the byte order
// of a ROM image. Returns FormatAuto if the data is not recognised.
func detectFormat(data []byte) Format {
	if len(data) < 4 {
		return FormatAuto
	}
	switch binary.BigEndian.Uint32(data) {
	case magicZ64:
		return FormatZ64
	case magicV64:
		return FormatV64
	case magicN64:
		return FormatN64
	}

	// the Nintendo logo at 0x104 is present in every Game Boy cartridge
	if len(data) >= 0x150 && data[0x104] == 0xce && data[0x105] == 0xed {
		return FormatGB
	}

	return FormatAuto
}

// normalise converts ROM data to the big-endian byte order in place. A
// trailing partial word is left untouched.
func normalise(data []byte, f Format) {
	switch f {
	case FormatV64:
		for i := 0; i+1 < len(data); i += 2 {
			data[i], data[i+1] = data[i+1], data[i]
		}
	case FormatN64:
		for i := 0; i+3 < len(data); i += 4 {
			data[i], data[i+1], data[i+2], data[i+3] = data[i+3], data[i+2], data[i+1], data[i]
		}
	}
}
