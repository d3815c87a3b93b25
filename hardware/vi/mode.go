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

package vi

import (
	"strings"

	"github.com/jetsetilly/nugopher/curated"
	"github.com/jetsetilly/nugopher/hardware/mesgq"
)

// Message kinds sent by a timing source.
const (
	Retrace  mesgq.Kind = 0x0001
	PreReset mesgq.Kind = 0x0002
)

// UnknownMode is returned by ParseMode for unrecognised video modes.
const UnknownMode = "vi: unknown video mode (%s)"

// Mode is the video standard of the machine.
type Mode int

// List of valid Mode values.
const (
	NTSC Mode = iota
	PAL
	MPAL
)

func (m Mode) String() string {
	switch m {
	case NTSC:
		return "NTSC"
	case PAL:
		return "PAL"
	case MPAL:
		return "MPAL"
	}
	return "unknown"
}

// RefreshRate returns the number of video fields per second.
func (m Mode) RefreshRate() float64 {
	if m == PAL {
		return 50
	}
	return 60
}

// ParseMode returns the Mode for the name. The name is not case sensitive.
func ParseMode(name string) (Mode, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "NTSC":
		return NTSC, nil
	case "PAL":
		return PAL, nil
	case "MPAL":
		return MPAL, nil
	}
	return NTSC, curated.Errorf(UnknownMode, name)
}

// FrameRate returns the number of retraces per second for the mode and the
// number of fields per retrace.
func FrameRate(m Mode, numFields int) int {
	if numFields < 1 {
		numFields = 1
	}
	return int(m.RefreshRate()) / numFields
}
