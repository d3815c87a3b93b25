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
	"sync/atomic"

	"github.com/jetsetilly/nugopher/curated"
	"github.com/jetsetilly/nugopher/hardware/mesgq"
)

// TaskTableFull is returned when a task is submitted to a domain that
// already holds the maximum number of tasks.
const TaskTableFull = "scheduler: %s: task table is full (%d tasks)"

// TaskState is the lifecycle state of a Task.
type TaskState int32

// List of valid TaskState values. A task moves from Pending to Running to
// Done. Done is final.
const (
	Pending TaskState = iota
	Running
	Done
)

func (s TaskState) String() string {
	switch s {
	case Pending:
		return "pending"
	case Running:
		return "running"
	case Done:
		return "done"
	}
	return "unknown"
}

// TaskFlags modify how a task is handled by the scheduler.
type TaskFlags uint8

// List of valid TaskFlags.
const (
	// the frame buffer the task draws into is swapped onto the display at
	// the first retrace after the task completes
	SwapBuffer TaskFlags = 1 << iota
)

// Task is one unit of work for an execution unit.
type Task struct {
	state atomic.Int32

	Flags TaskFlags

	// the command list. the type of the list is a matter for the execution
	// unit that runs the task
	List any

	// on completion a message is posted to the Done queue. the kind of the
	// message is the Kind of Msg, or MsgTaskEnd if that is zero. the payload
	// is a TaskEnd value
	Done *mesgq.Queue
	Msg  mesgq.Message

	// the frame buffer selected for a graphics task. set when the task
	// becomes Running
	FrameBuffer *FrameBuffer

	// the fault reported by the execution unit, if any. valid once the task
	// is Done
	Fault error
}

// State returns the current state of the task. It is safe to call from any
// goroutine.
func (t *Task) State() TaskState {
	return TaskState(t.state.Load())
}

func (t *Task) setState(s TaskState) {
	t.state.Store(int32(s))
}

// TaskEnd is the payload of the message posted to the Done queue of a task.
type TaskEnd struct {
	Task  *Task
	Fault error

	// the payload of the task's Msg field
	Payload any
}

// TaskQueue is the list of tasks in one domain. At most one task is Running.
// The others are Pending and are admitted in the order they were submitted.
//
// A TaskQueue is not safe for concurrent use. The Scheduler's task queues are
// each used only by their consumer goroutine.
type TaskQueue struct {
	name     string
	capacity int
	running  *Task
	pending  []*Task
}

// NewTaskQueue is the preferred method of initialisation for the TaskQueue
// type. The capacity is the maximum number of tasks, running or pending.
func NewTaskQueue(name string, capacity int) *TaskQueue {
	if capacity < 1 {
		capacity = 1
	}
	return &TaskQueue{
		name:     name,
		capacity: capacity,
		pending:  make([]*Task, 0, capacity),
	}
}

// Len returns the number of tasks in the queue, running or pending.
func (q *TaskQueue) Len() int {
	n := len(q.pending)
	if q.running != nil {
		n++
	}
	return n
}

// Submit adds the task to the end of the queue. The task becomes Pending.
func (q *TaskQueue) Submit(t *Task) error {
	if q.Len() >= q.capacity {
		return curated.Errorf(TaskTableFull, q.name, q.capacity)
	}
	t.setState(Pending)
	q.pending = append(q.pending, t)
	return nil
}

// Next returns the task that will be admitted next. Returns nil if there are
// no pending tasks.
func (q *TaskQueue) Next() *Task {
	if len(q.pending) == 0 {
		return nil
	}
	return q.pending[0]
}

// Admit makes the oldest pending task Running. Returns nil if a task is
// already running or if there are no pending tasks.
func (q *TaskQueue) Admit() *Task {
	if q.running != nil || len(q.pending) == 0 {
		return nil
	}
	t := q.pending[0]
	q.pending[0] = nil
	q.pending = q.pending[1:]
	t.setState(Running)
	q.running = t
	return t
}

// Running returns the running task or nil.
func (q *TaskQueue) Running() *Task {
	return q.running
}

// Complete the running task, recording the fault if it is not nil. The task
// is removed from the queue and returned. Returns nil if no task is running.
func (q *TaskQueue) Complete(fault error) *Task {
	t := q.running
	if t == nil {
		return nil
	}
	q.running = nil
	t.Fault = fault
	t.setState(Done)
	return t
}

// Withdraw removes a pending task from the queue. A task that is running or
// not in the queue cannot be withdrawn and the function returns false.
func (q *TaskQueue) Withdraw(t *Task) bool {
	for i, p := range q.pending {
		if p == t {
			q.pending = append(q.pending[:i], q.pending[i+1:]...)
			return true
		}
	}
	return false
}
