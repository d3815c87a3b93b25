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

// Package vi simulates the video interface of the machine. The video
// interface is the source of the timing messages that drive the scheduler:
// a retrace message once every NumFields video fields and a single pre-reset
// message when the reset button is pressed.
//
// Two sources are provided. Ticker sends retraces in real time at the
// refresh rate of the video mode. Manual sends retraces only when asked to
// and is useful for tests and for stepping the system by hand.
//
// Both sources write to a mesgq.Queue, normally the events queue of the
// scheduler. Retraces are sent without blocking. A retrace that cannot be
// sent because the queue is full is dropped and counted.
package vi
