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

package userinput

// list of ASCII codes for non-alphanumeric characters
const (
	KeyInterrupt      = 3  // end-of-text character
	KeySuspend        = 26 // substitute character
	KeyTab            = 9
	KeyCarriageReturn = 13
	KeyNewLine        = 10
	KeyEsc            = 27
	KeyBackspace      = 8
	KeyDelete         = 127
)

// list of ASCII code for characters that can follow KeyEsc
const (
	EscCursor = '['
	EscSS3    = 'O'
)

// list of ASCII code for characters that can follow EscCursor
const (
	CursorUp       = 'A'
	CursorDown     = 'B'
	CursorForward  = 'C'
	CursorBackward = 'D'
)

// Key names produced by the Decoder for keys that are not printable.
const (
	KeyNameUp        = "Up"
	KeyNameDown      = "Down"
	KeyNameLeft      = "Left"
	KeyNameRight     = "Right"
	KeyNameReturn    = "Return"
	KeyNameTab       = "Tab"
	KeyNameEscape    = "Escape"
	KeyNameBackspace = "Backspace"
	KeyNameInterrupt = "Interrupt"
)

// Decoder turns a stream of bytes from the terminal into key names.
// Printable characters are named by themselves.
type Decoder struct {
	seq []byte
}

// Decode the byte. Returns the key name and true if the byte completes a key.
func (d *Decoder) Decode(b byte) (string, bool) {
	if len(d.seq) > 0 {
		d.seq = append(d.seq, b)

		if len(d.seq) == 2 {
			if b == EscCursor || b == EscSS3 {
				return "", false
			}
			// escape followed by anything else is the escape key. a second
			// escape starts a new sequence
			d.seq = d.seq[:0]
			if b == KeyEsc {
				d.seq = append(d.seq, b)
			}
			return KeyNameEscape, true
		}

		d.seq = d.seq[:0]
		switch b {
		case CursorUp:
			return KeyNameUp, true
		case CursorDown:
			return KeyNameDown, true
		case CursorForward:
			return KeyNameRight, true
		case CursorBackward:
			return KeyNameLeft, true
		}
		return "", false
	}

	switch b {
	case KeyEsc:
		d.seq = append(d.seq, b)
		return "", false
	case KeyCarriageReturn, KeyNewLine:
		return KeyNameReturn, true
	case KeyTab:
		return KeyNameTab, true
	case KeyBackspace, KeyDelete:
		return KeyNameBackspace, true
	case KeyInterrupt:
		return KeyNameInterrupt, true
	}

	if b < ' ' || b > '~' {
		return "", false
	}
	return string(rune(b)), true
}

// Flush ends a partial escape sequence. Returns the escape key if a sequence
// was started.
func (d *Decoder) Flush() (string, bool) {
	if len(d.seq) == 1 {
		d.seq = d.seq[:0]
		return KeyNameEscape, true
	}
	d.seq = d.seq[:0]
	return "", false
}
