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

package debugcon

import (
	"fmt"
	"strings"
)

// Color of text in a console window. The first eight colours are the normal
// ANSI colours and the second eight are the bright versions.
type Color uint8

// List of valid Color values.
const (
	Black Color = iota
	Blue
	Green
	Cyan
	Red
	Magenta
	Yellow
	White
	LightBlack
	LightBlue
	LightGreen
	LightCyan
	LightRed
	LightMagenta
	LightYellow
	LightWhite
)

// Attr is the display attribute of text in a console window.
type Attr uint8

// List of valid Attr bits.
const (
	Normal  Attr = 0x0
	Blink   Attr = 0x1
	Reverse Attr = 0x2
)

// ansi colour numbers in the order of the Color type
var ansiColor = [8]int{0, 4, 2, 6, 1, 5, 3, 7}

// ansi targets
const (
	targetPen       = 3
	targetBrightPen = 9
)

// ansi attributes
const (
	attrBlink   = 5
	attrInverse = 7
)

// normalPen is the CSI sequence for regular text.
const normalPen = "\033[0m"

// pen creates the ANSI sequence for the colour and attribute.
func pen(c Color, a Attr) string {
	s := strings.Builder{}
	s.Grow(16)
	s.WriteString("\033[")

	target := targetPen
	if c > White {
		target = targetBrightPen
	}
	s.WriteString(fmt.Sprintf("%d%d", target, ansiColor[c&0x07]))

	if a&Blink == Blink {
		s.WriteString(fmt.Sprintf(";%d", attrBlink))
	}
	if a&Reverse == Reverse {
		s.WriteString(fmt.Sprintf(";%d", attrInverse))
	}

	s.WriteString("m")
	return s.String()
}
