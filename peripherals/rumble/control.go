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

// Package rumble is the rumble pak manager. A rumble pak is started with a
// frequency and a duration in frames. On every retrace the manager adds the
// frequency to an accumulator for each running pak and switches the motor
// on when the accumulator overflows, and off otherwise. A frequency of 256
// keeps the motor on for every frame.
//
// A pak in the Autorun mode is searched for every SearchTime frames and is
// only driven once it has been found.
//
// ForceStop() stops every motor until ForceStopEnd() is called. The pre-reset
// notice forces a stop in the same way.
package rumble

import (
	"fmt"
)

// State of the motor control for one port.
type State uint8

// List of valid State values.
const (
	Stop State = iota
	Stopping
	Stopped
	Run
	ForceStop
)

func (s State) String() string {
	switch s {
	case Stop:
		return "stop"
	case Stopping:
		return "stopping"
	case Stopped:
		return "stopped"
	case Run:
		return "run"
	case ForceStop:
		return "force stop"
	}
	return fmt.Sprintf("unknown (%d)", s)
}

// Mode of a port. Pause can be combined with Enable or Autorun.
type Mode uint8

// List of valid Mode values.
const (
	Disable Mode = 0x00
	Enable  Mode = 0x01
	Autorun Mode = 0x02
	Pause   Mode = 0x80
)

func (m Mode) String() string {
	var s string
	switch m &^ Pause {
	case Disable:
		s = "disable"
	case Enable:
		s = "enable"
	case Autorun:
		s = "autorun"
	default:
		s = fmt.Sprintf("unknown (%#02x)", uint8(m&^Pause))
	}
	if m&Pause == Pause {
		s = fmt.Sprintf("%s (paused)", s)
	}
	return s
}

// DefaultSearchTime is the default number of frames between searches for a
// pak in the Autorun mode.
const DefaultSearchTime = 60 * 5

// Control is the motor control of one port.
type Control struct {
	Freq    uint16
	Frame   uint16
	Counter uint16
	State   State
	Mode    Mode

	// in the Autorun mode, whether the pak has been found
	Found bool

	// the motor was switched on by the most recent retrace
	MotorOn bool
}

func (c Control) String() string {
	return fmt.Sprintf("%s %s freq=%d frame=%d", c.State, c.Mode, c.Freq, c.Frame)
}
