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

// Package mesgq implements the message queue that every other part of the
// system is built on. A Queue is a bounded, FIFO mailbox of fixed-shape
// Message values.
//
// Sending to a full queue with Send() blocks until a slot is freed (or until
// the context is done). SendNB() does not block and instead returns an error
// that can be tested with:
//
//	curated.Is(err, mesgq.QueueFull)
//
// A queue has one primary consumer. Fan-out to more than one consumer is
// achieved by each consumer owning its own queue and the producer sending to
// each of them.
package mesgq
