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

// Result is returned by a Handler. During the poll step a result of End
// stops the remaining lists from being polled on that retrace.
type Result int

// List of valid Result values.
const (
	Continue Result = iota
	End
)

// Command is the payload of a message sent to the Dispatcher.
type Command struct {
	Code Code
	Data any

	// Retrace is the retrace count for poll step commands
	Retrace uint32

	// PreReset is true for the poll step command sent when the pre-reset
	// notice is received
	PreReset bool

	// the reply channel is nil for commands sent with SendNB()
	reply chan error
}

// Handler handles one command. The error is returned to the sender of the
// command.
type Handler func(cmd *Command) (Result, error)

// CallbackList is the set of handlers registered by one peripheral manager.
// The minor number of a command is the index into Handlers.
type CallbackList struct {
	Major    uint8
	Handlers []Handler
}

func (l *CallbackList) handler(minor uint8) Handler {
	if int(minor) >= len(l.Handlers) {
		return nil
	}
	return l.Handlers[minor]
}
