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

package simgr

import (
	"fmt"

	"github.com/jetsetilly/nugopher/hardware/mesgq"
)

// Code is the address of a command. The packed form used for the kind of a
// mesgq.Message has the major number in the high byte and the minor number
// in the low byte.
type Code struct {
	Major uint8
	Minor uint8
}

// CodeFromKind unpacks the message kind.
func CodeFromKind(k mesgq.Kind) Code {
	return Code{
		Major: uint8(uint16(k) >> 8),
		Minor: uint8(uint16(k) & 0xff),
	}
}

// Kind returns the packed form of the code.
func (c Code) Kind() mesgq.Kind {
	return mesgq.Kind(uint16(c.Major)<<8 | uint16(c.Minor))
}

func (c Code) String() string {
	return fmt.Sprintf("%#04x", uint16(c.Kind()))
}

// Major numbers of the peripheral managers.
const (
	// the scheduler's messages (retrace and pre-reset) have a major number
	// of zero. no list can be registered with this major number
	MajorScheduler uint8 = 0x00

	MajorController uint8 = 0x01
	MajorPak        uint8 = 0x02
	MajorRumble     uint8 = 0x03
	MajorEeprom     uint8 = 0x04
	MajorGbPak      uint8 = 0x05
	MajorVoice      uint8 = 0x06

	// commands for the dispatcher itself
	MajorManager uint8 = 0x7f
)

// MinorRetrace is the minor number of the handler called by the poll step.
// Every list must have a handler at this minor number.
const MinorRetrace uint8 = 0x00

// Codes of the commands handled by the dispatcher itself.
var (
	StopCode    = Code{Major: MajorManager, Minor: 0x00}
	RestartCode = Code{Major: MajorManager, Minor: 0x01}
)
