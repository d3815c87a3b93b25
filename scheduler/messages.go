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

package scheduler

import (
	"github.com/jetsetilly/nugopher/hardware/mesgq"
	"github.com/jetsetilly/nugopher/hardware/vi"
)

// Message kinds used by the scheduler. Retrace and pre-reset messages are
// broadcast to clients with the retrace count as the payload.
const (
	MsgRetrace  = vi.Retrace
	MsgPreReset = vi.PreReset

	// the default kind of the message posted to the Done queue of a task
	MsgTaskEnd mesgq.Kind = 0x0008

	// a Task sent directly to the graphics or audio queue. the payload must
	// be a *Task
	MsgTask mesgq.Kind = 0x0010
)

// internal message kinds
const (
	msgWithdraw mesgq.Kind = 0x0100 + iota
	msgWake
	msgControl
	msgSwap
)
