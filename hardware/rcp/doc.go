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

// Package rcp simulates the two execution units of the reality co-processor.
// The graphics unit draws a task's command list into the task's frame buffer.
// The audio unit forwards a task's PCM samples to an AudioSink.
//
// Each unit runs one task at a time in its own goroutine and takes a fixed
// latency to complete a task. Both implement the scheduler.Unit interface.
//
// A command list can make a task fail by implementing the Faulty interface.
package rcp
