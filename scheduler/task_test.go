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

package scheduler_test

import (
	"testing"

	"github.com/jetsetilly/nugopher/curated"
	"github.com/jetsetilly/nugopher/scheduler"
	"github.com/jetsetilly/nugopher/test"
)

func TestTaskQueueOrder(t *testing.T) {
	q := scheduler.NewTaskQueue("gfx", 10)

	tasks := make([]*scheduler.Task, 4)
	for i := range tasks {
		tasks[i] = &scheduler.Task{List: i}
		test.DemandSuccess(t, q.Submit(tasks[i]))
	}
	test.ExpectEquality(t, q.Len(), 4)

	for i := range tasks {
		a := q.Admit()
		test.DemandEquality(t, a, tasks[i])
		test.ExpectEquality(t, a.State(), scheduler.Running)

		// a second task is never admitted while one is running
		test.ExpectEquality(t, q.Admit(), (*scheduler.Task)(nil))

		for _, p := range tasks[i+1:] {
			test.ExpectEquality(t, p.State(), scheduler.Pending)
		}

		c := q.Complete(nil)
		test.ExpectEquality(t, c, a)
		test.ExpectEquality(t, c.State(), scheduler.Done)
		test.ExpectEquality(t, q.Running(), (*scheduler.Task)(nil))
	}

	test.ExpectEquality(t, q.Len(), 0)
	test.ExpectEquality(t, q.Admit(), (*scheduler.Task)(nil))
	test.ExpectEquality(t, q.Complete(nil), (*scheduler.Task)(nil))
}

func TestTaskQueueFull(t *testing.T) {
	q := scheduler.NewTaskQueue("audio", 2)
	test.ExpectSuccess(t, q.Submit(&scheduler.Task{}))
	q.Admit()
	test.ExpectSuccess(t, q.Submit(&scheduler.Task{}))

	// the running task counts towards the capacity
	err := q.Submit(&scheduler.Task{})
	test.ExpectSuccess(t, curated.Is(err, scheduler.TaskTableFull))
	test.ExpectEquality(t, err.Error(), "scheduler: audio: task table is full (2 tasks)")
}

func TestTaskQueueWithdraw(t *testing.T) {
	q := scheduler.NewTaskQueue("gfx", 10)
	a := &scheduler.Task{}
	b := &scheduler.Task{}
	c := &scheduler.Task{}
	q.Submit(a)
	q.Submit(b)
	q.Submit(c)
	q.Admit()

	test.ExpectFailure(t, q.Withdraw(a))
	test.ExpectSuccess(t, q.Withdraw(b))
	test.ExpectFailure(t, q.Withdraw(b))
	test.ExpectEquality(t, q.Len(), 2)

	q.Complete(nil)
	test.ExpectEquality(t, q.Admit(), c)
}

func TestSlot(t *testing.T) {
	var s scheduler.Slot[scheduler.IdleFunc]
	test.ExpectFailure(t, s.Registered())

	var n uint32
	s.Set(func(r uint32) { n = r })
	test.ExpectSuccess(t, s.Registered())

	f, ok := s.Get()
	test.DemandSuccess(t, ok)
	f(10)
	test.ExpectEquality(t, n, uint32(10))

	s.Clear()
	_, ok = s.Get()
	test.ExpectFailure(t, ok)
}

func TestFrameBuffers(t *testing.T) {
	f := scheduler.NewFrameBuffers(3, 4, 2)
	test.ExpectEquality(t, f.Num(), 3)
	test.ExpectEquality(t, len(f.Get(0).Pixels), 8)
	test.ExpectEquality(t, f.Displayed(), (*scheduler.FrameBuffer)(nil))
	test.ExpectEquality(t, f.Get(3), (*scheduler.FrameBuffer)(nil))
}
