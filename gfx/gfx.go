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

// Package gfx is the graphics task manager. It submits graphics tasks to the
// scheduler, keeps count of the tasks that have not yet completed and calls
// the application's per-retrace function.
//
// The manager is a client of the scheduler for retrace messages and receives
// the completion messages of the tasks it submits on the same queue.
package gfx

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/jetsetilly/nugopher/environment"
	"github.com/jetsetilly/nugopher/hardware/mesgq"
	"github.com/jetsetilly/nugopher/logger"
	"github.com/jetsetilly/nugopher/scheduler"
)

// Flags for TaskStart().
type Flags uint8

// List of valid Flags.
const (
	// swap the frame buffer onto the display when the task completes
	SwapBuffer Flags = 1 << iota

	// do not wait for the task to complete. the task is not counted by
	// Pending() or TaskAllEndWait()
	NoRDPWait
)

// GfxFunc is called on every retrace with the number of graphics tasks that
// have not completed.
type GfxFunc func(pending int)

// Manager is the graphics task manager.
type Manager struct {
	env   *environment.Environment
	sch   *scheduler.Scheduler
	queue *mesgq.Queue

	gfxFunc  scheduler.Slot[GfxFunc]
	swapFunc scheduler.Slot[scheduler.SwapFunc]
	display  atomic.Bool
	swaps    atomic.Uint64

	crit     sync.Mutex
	notify   chan struct{}
	retraces uint64
	pending  int
}

// NewManager creates the graphics task manager. The manager takes the
// scheduler's swap callback. The display is off.
func NewManager(env *environment.Environment, sch *scheduler.Scheduler) *Manager {
	cfg := sch.Config()
	m := &Manager{
		env:    env,
		sch:    sch,
		queue:  mesgq.NewQueue("gfx", cfg.QueueCapacity+cfg.TaskTableSize),
		notify: make(chan struct{}),
	}
	sch.SetSwapFunc(m.swapped)
	return m
}

// Start the manager's goroutine. The manager is removed from the scheduler's
// clients when the context is done.
func (m *Manager) Start(ctx context.Context) error {
	id, err := m.sch.AddClient(m.queue, scheduler.ClientRetrace)
	if err != nil {
		return err
	}

	go func() {
		defer func() {
			_ = m.sch.RemoveClient(id)
		}()
		for {
			msg, err := m.queue.Recv(ctx)
			if err != nil {
				return
			}
			m.handle(msg)
		}
	}()

	return nil
}

func (m *Manager) handle(msg mesgq.Message) {
	switch msg.Kind {
	case scheduler.MsgRetrace:
		m.crit.Lock()
		m.retraces++
		pending := m.pending
		m.signal()
		m.crit.Unlock()

		if f, ok := m.gfxFunc.Get(); ok {
			f(pending)
		}

	case scheduler.MsgTaskEnd:
		m.crit.Lock()
		m.pending--
		m.signal()
		m.crit.Unlock()

		if e, ok := msg.Payload.(scheduler.TaskEnd); ok && e.Fault != nil {
			logger.Logf(m.env, "gfx", "task fault: %v", e.Fault)
		}
	}
}

// signal the waiters. must be called with the critical section locked.
func (m *Manager) signal() {
	close(m.notify)
	m.notify = make(chan struct{})
}

// wait until the condition is true. the condition is called with the
// critical section locked.
func (m *Manager) wait(ctx context.Context, cond func() bool) error {
	for {
		m.crit.Lock()
		if cond() {
			m.crit.Unlock()
			return nil
		}
		ch := m.notify
		m.crit.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (m *Manager) swapped(fb *scheduler.FrameBuffer) {
	m.swaps.Add(1)
	if !m.display.Load() {
		return
	}
	if f, ok := m.swapFunc.Get(); ok {
		f(fb)
	}
}

// TaskStart submits a graphics task for the command list.
func (m *Manager) TaskStart(ctx context.Context, list any, flags Flags) (*scheduler.Task, error) {
	t := &scheduler.Task{
		List: list,
	}
	if flags&SwapBuffer == SwapBuffer {
		t.Flags |= scheduler.SwapBuffer
	}

	counted := flags&NoRDPWait != NoRDPWait
	if counted {
		t.Done = m.queue
		t.Msg = mesgq.Message{Kind: scheduler.MsgTaskEnd}

		m.crit.Lock()
		m.pending++
		m.crit.Unlock()
	}

	if err := m.sch.SubmitGraphics(ctx, t); err != nil {
		if counted {
			m.crit.Lock()
			m.pending--
			m.signal()
			m.crit.Unlock()
		}
		return nil, err
	}

	return t, nil
}

// Pending returns the number of tasks that have not completed.
func (m *Manager) Pending() int {
	m.crit.Lock()
	defer m.crit.Unlock()
	return m.pending
}

// Retraces returns the number of retrace messages received by the manager.
func (m *Manager) Retraces() uint64 {
	m.crit.Lock()
	defer m.crit.Unlock()
	return m.retraces
}

// Swaps returns the number of frame buffers swapped onto the display,
// including swaps while the display is off.
func (m *Manager) Swaps() uint64 {
	return m.swaps.Load()
}

// RetraceWait waits for n retrace messages.
func (m *Manager) RetraceWait(ctx context.Context, n int) error {
	m.crit.Lock()
	target := m.retraces + uint64(n)
	m.crit.Unlock()

	return m.wait(ctx, func() bool {
		return m.retraces >= target
	})
}

// TaskAllEndWait waits until every task started with TaskStart() has
// completed.
func (m *Manager) TaskAllEndWait(ctx context.Context) error {
	return m.wait(ctx, func() bool {
		return m.pending <= 0
	})
}

// SetFrameBuffers sets the number of frame buffers. It can only be called
// before the scheduler is started.
func (m *Manager) SetFrameBuffers(n int) error {
	return m.sch.SetFrameBuffers(n)
}

// DisplayOn forwards swapped frame buffers to the swap function.
func (m *Manager) DisplayOn() {
	m.display.Store(true)
}

// DisplayOff stops forwarding swapped frame buffers to the swap function.
func (m *Manager) DisplayOff() {
	m.display.Store(false)
}

// IsDisplayOn returns true if the display is on.
func (m *Manager) IsDisplayOn() bool {
	return m.display.Load()
}

// SetGfxFunc sets the function called on every retrace. A nil function
// unregisters the callback.
func (m *Manager) SetGfxFunc(f GfxFunc) {
	if f == nil {
		m.gfxFunc.Clear()
		return
	}
	m.gfxFunc.Set(f)
}

// SetSwapFunc sets the function called when a frame buffer is swapped onto
// the display. A nil function unregisters the callback.
func (m *Manager) SetSwapFunc(f scheduler.SwapFunc) {
	if f == nil {
		m.swapFunc.Clear()
		return
	}
	m.swapFunc.Set(f)
}
