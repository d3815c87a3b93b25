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

// Completion is sent by an execution unit when a task has finished.
type Completion struct {
	Fault error
}

// Unit is implemented by the execution units. Run must not block. The unit
// must send exactly one Completion on the done channel for every call to
// Run. The done channel has room for one Completion.
type Unit interface {
	Run(t *Task, done chan<- Completion)
}

// UnitFunc adapts a function to the Unit interface. The function is run in
// a new goroutine and the error it returns is the fault of the task.
type UnitFunc func(t *Task) error

// Run implements the Unit interface.
func (f UnitFunc) Run(t *Task, done chan<- Completion) {
	go func() {
		done <- Completion{Fault: f(t)}
	}()
}
