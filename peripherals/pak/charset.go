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

package pak

import (
	"strings"

	"github.com/jetsetilly/nugopher/curated"
)

// the printable part of the N64 character code table. index is the N64
// character code
var n64chars = [...]rune{
	0x0f: ' ',
	0x10: '0', '1', '2', '3', '4', '5', '6', '7', '8', '9',
	0x1a: 'A', 'B', 'C', 'D', 'E', 'F', 'G', 'H', 'I', 'J', 'K', 'L', 'M',
	'N', 'O', 'P', 'Q', 'R', 'S', 'T', 'U', 'V', 'W', 'X', 'Y', 'Z',
	0x34: '!', '"', '#', '\'', '*', '+', ',', '-', '.', '/', ':', '=', '?', '@',
}

var asciiToN64 map[rune]uint8

func init() {
	asciiToN64 = make(map[rune]uint8)
	for i, r := range n64chars {
		if r != 0 {
			asciiToN64[r] = uint8(i)
		}
	}
}

// ToN64 translates the string into N64 character codes. The result is
// padded with zero bytes to the length n. Lower case letters are translated
// to upper case.
func ToN64(s string, n int) ([]uint8, error) {
	s = strings.ToUpper(s)
	if len(s) > n {
		return nil, curated.Errorf(BadName, s)
	}
	b := make([]uint8, n)
	for i, r := range s {
		c, ok := asciiToN64[r]
		if !ok {
			return nil, curated.Errorf(BadName, s)
		}
		b[i] = c
	}
	return b, nil
}

// FromN64 translates N64 character codes into a string. The string ends at
// the first zero byte. Codes without a translation are shown as '~'.
func FromN64(b []uint8) string {
	var s strings.Builder
	for _, c := range b {
		if c == 0 {
			break
		}
		if int(c) < len(n64chars) && n64chars[c] != 0 {
			s.WriteRune(n64chars[c])
		} else {
			s.WriteRune('~')
		}
	}
	return s.String()
}
