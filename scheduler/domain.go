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
	"context"
	"slices"
	"sync/atomic"

	"github.com/jetsetilly/nugopher/assert"
	"github.com/jetsetilly/nugopher/curated"
	"github.com/jetsetilly/nugopher/hardware/mesgq"
	"github.com/jetsetilly/nugopher/logger"
)

// withdrawal is the payload of a msgWithdraw message.
type withdrawal struct {
	task  *Task
	reply chan bool
}

// domain is one of the two task consumers, graphics or audio.
type domain struct {
	sch  *Scheduler
	name string

	requests *mesgq.Queue
	unit     Unit
	done     chan Completion

	tasks   *TaskQueue
	owner   *assert.Owner
	taskEnd Slot[TaskEndFunc]

	// the goroutine ID of the consumer goroutine
	goroutine atomic.Uint64

	// frame buffers are only used by the graphics domain. current is the
	// frame buffer being drawn into and waiting are the completed frames that
	// have been sent to the dispatch goroutine and may not have been
	// displayed yet
	frames  *FrameBuffers
	current *FrameBuffer
	waiting []swapRequest
	seq     uint64
}

func newDomain(sch *Scheduler, name string, unit Unit, frames *FrameBuffers) *domain {
	return &domain{
		sch:      sch,
		name:     name,
		requests: mesgq.NewQueue(name, sch.cfg.QueueCapacity),
		unit:     unit,
		done:     make(chan Completion, 1),
		tasks:    NewTaskQueue(name, sch.cfg.TaskTableSize),
		owner:    assert.NewOwner(name + " task queue"),
		frames:   frames,
	}
}

func (d *domain) setTaskEnd(f TaskEndFunc) {
	if f == nil {
		d.taskEnd.Clear()
		return
	}
	d.taskEnd.Set(f)
}

func (d *domain) submit(ctx context.Context, t *Task) error {
	return d.requests.Send(ctx, mesgq.Message{Kind: MsgTask, Payload: t})
}

func (d *domain) withdraw(ctx context.Context, t *Task) (bool, error) {
	if !d.sch.running.Load() {
		return false, curated.Errorf(NotRunning, d.name)
	}

	// called from the consumer goroutine. a task-end callback that
	// withdraws a task would otherwise wait for itself
	if d.goroutine.Load() == assert.GetGoRoutineID() {
		return d.tasks.Withdraw(t), nil
	}

	w := withdrawal{
		task:  t,
		reply: make(chan bool, 1),
	}
	if err := d.requests.Send(ctx, mesgq.Message{Kind: msgWithdraw, Payload: w}); err != nil {
		return false, err
	}

	select {
	case ok := <-w.reply:
		return ok, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// run is the consumer goroutine.
func (d *domain) run(ctx context.Context) {
	defer d.sch.wg.Done()

	d.goroutine.Store(assert.GetGoRoutineID())
	d.owner.Claim()

	for {
		select {
		case <-ctx.Done():
			return
		case m := <-d.requests.C():
			d.request(ctx, m)
		case c := <-d.done:
			d.complete(ctx, c)
		}
		d.admit()
	}
}

func (d *domain) request(ctx context.Context, m mesgq.Message) {
	d.owner.Check()

	switch m.Kind {
	case MsgTask:
		t, ok := m.Payload.(*Task)
		if !ok || t == nil {
			logger.Logf(d.sch.env, d.name, "task message without a task: %v", m)
			return
		}
		if err := d.tasks.Submit(t); err != nil {
			logger.Log(d.sch.env, d.name, err)
			t.Fault = err
			t.setState(Done)
			d.post(ctx, t)
		}

	case msgWithdraw:
		w := m.Payload.(withdrawal)
		w.reply <- d.tasks.Withdraw(w.task)

	case msgWake:

	default:
		logger.Logf(d.sch.env, d.name, "unexpected request: %v", m)
	}
}

func (d *domain) complete(ctx context.Context, c Completion) {
	d.owner.Check()

	t := d.tasks.Complete(c.Fault)
	if t == nil {
		logger.Log(d.sch.env, d.name, "completion without a running task")
		return
	}

	if t.Fault != nil {
		logger.Logf(d.sch.env, d.name, "task fault: %v", t.Fault)
	}

	if f, ok := d.taskEnd.Get(); ok {
		f(t)
	}

	// a faulty frame is not displayed. the current frame buffer is drawn
	// into again by the next frame
	if d.frames != nil && t.Flags&SwapBuffer != 0 && d.current != nil && t.Fault == nil {
		d.seq++
		r := swapRequest{fb: d.current, seq: d.seq}
		d.current = nil
		d.waiting = append(d.waiting, r)
		if err := d.sch.control.Send(ctx, mesgq.Message{Kind: msgSwap, Payload: r}); err != nil {
			logger.Logf(d.sch.env, d.name, "swap request: %v", err)
		}
	}

	d.post(ctx, t)
}

// post the completion message to the Done queue of the task. Blocks while the
// Done queue is full. The message is only lost if the context is done.
func (d *domain) post(ctx context.Context, t *Task) {
	if t.Done == nil {
		return
	}
	kind := t.Msg.Kind
	if kind == 0 {
		kind = MsgTaskEnd
	}
	err := t.Done.Send(ctx, mesgq.Message{
		Kind: kind,
		Payload: TaskEnd{
			Task:    t,
			Fault:   t.Fault,
			Payload: t.Msg.Payload,
		},
	})
	if err != nil {
		logger.Logf(d.sch.env, d.name, "completion not delivered: %v", err)
	}
}

// admit the next pending task if the domain is idle.
func (d *domain) admit() {
	if d.tasks.Running() != nil || d.sch.inhibit.Load() {
		return
	}

	t := d.tasks.Next()
	if t == nil {
		return
	}

	if d.frames != nil {
		if d.current == nil {
			shown := d.frames.shown.Load()
			d.waiting = slices.DeleteFunc(d.waiting, func(r swapRequest) bool {
				return r.seq <= shown
			})
			d.current = d.frames.selectFree(d.waiting)
			if d.current == nil {
				return
			}
		}
		t.FrameBuffer = d.current
	}

	d.tasks.Admit()
	d.unit.Run(t, d.done)
}
