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

// Package scheduler coordinates the three real-time domains of the machine:
// video retrace timing, graphics task execution and audio task execution.
//
// The Scheduler runs three goroutines. The dispatch goroutine receives the
// timing messages from the video interface (see the vi package), performs
// frame buffer swaps, runs the idle, swap and pre-reset callbacks and
// broadcasts the timing messages to registered clients. The graphics and
// audio consumer goroutines each own a list of tasks and hand them, one at a
// time and in the order they were submitted, to an execution unit.
//
// Clients register a queue and the kind of message they are interested in:
//
//	q := mesgq.NewQueue("pad", 0)
//	id, err := sch.AddClient(q, scheduler.ClientRetrace)
//
// Broadcasts never block the dispatch goroutine. A client whose queue is
// full misses that message. The miss is counted and logged.
//
// Tasks are submitted to a domain and the submitter is told of the task's
// completion through the Done queue of the task:
//
//	t := &scheduler.Task{
//		List:  list,
//		Flags: scheduler.SwapBuffer,
//		Done:  done,
//	}
//	err := sch.SubmitGraphics(ctx, t)
//
// A pre-reset message stops the admission of new tasks. Tasks already running
// are allowed to finish and the pre-reset callback is run once, after the
// configured number of retraces.
//
// The client registry is only ever changed by the dispatch goroutine and the
// task lists are only ever changed by their consumer goroutine. Other
// goroutines reach them through control messages. When built with the
// "assertions" build tag this is checked at runtime.
package scheduler
