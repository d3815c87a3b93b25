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
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jetsetilly/nugopher/curated"
	"github.com/jetsetilly/nugopher/environment"
	"github.com/jetsetilly/nugopher/hardware/mesgq"
	"github.com/jetsetilly/nugopher/hardware/vi"
	"github.com/jetsetilly/nugopher/scheduler"
	"github.com/jetsetilly/nugopher/test"
)

const timeout = 2 * time.Second

// manualUnit records the tasks it is asked to run. Tasks are completed by
// the test calling finish().
type manualUnit struct {
	started chan *scheduler.Task

	crit sync.Mutex
	done chan<- scheduler.Completion
}

func newManualUnit() *manualUnit {
	return &manualUnit{
		started: make(chan *scheduler.Task, 32),
	}
}

func (u *manualUnit) Run(t *scheduler.Task, done chan<- scheduler.Completion) {
	u.crit.Lock()
	u.done = done
	u.crit.Unlock()
	u.started <- t
}

func (u *manualUnit) finish(fault error) {
	u.crit.Lock()
	done := u.done
	u.crit.Unlock()
	done <- scheduler.Completion{Fault: fault}
}

// next waits for the unit to start a task.
func (u *manualUnit) next(t *testing.T) *scheduler.Task {
	t.Helper()
	select {
	case s := <-u.started:
		return s
	case <-time.After(timeout):
		t.Fatalf("no task started")
	}
	return nil
}

// idle checks that the unit does not start a task for a short while.
func (u *manualUnit) idle(t *testing.T) {
	t.Helper()
	select {
	case s := <-u.started:
		t.Errorf("unexpected task started: %v", s.List)
	case <-time.After(50 * time.Millisecond):
	}
}

type fixture struct {
	sch    *scheduler.Scheduler
	gfx    *manualUnit
	audio  *manualUnit
	source *vi.Manual
	ctx    context.Context
}

func newFixture(t *testing.T, cfg scheduler.Config) *fixture {
	t.Helper()

	env, err := environment.NewEnvironment("test", nil)
	test.DemandSuccess(t, err)

	f := &fixture{
		gfx:   newManualUnit(),
		audio: newManualUnit(),
	}

	f.sch, err = scheduler.NewScheduler(env, cfg, scheduler.Units{
		Graphics: f.gfx,
		Audio:    f.audio,
	})
	test.DemandSuccess(t, err)
	f.source = vi.NewManual(f.sch.Events())

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(func() {
		cancel()
		f.sch.Wait()
	})
	f.ctx = ctx

	return f
}

func (f *fixture) start(t *testing.T) {
	t.Helper()
	test.DemandSuccess(t, f.sch.Start(f.ctx))
}

// retrace sends a retrace and waits for it to be handled by the dispatch
// goroutine.
func (f *fixture) retrace(t *testing.T, clk *mesgq.Queue) {
	t.Helper()
	test.DemandSuccess(t, f.source.Retrace())
	ctx, cancel := context.WithTimeout(f.ctx, timeout)
	defer cancel()
	for {
		m, err := clk.Recv(ctx)
		test.DemandSuccess(t, err)
		if m.Kind == scheduler.MsgRetrace {
			return
		}
	}
}

func recvTaskEnd(t *testing.T, q *mesgq.Queue) scheduler.TaskEnd {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	m, err := q.Recv(ctx)
	test.DemandSuccess(t, err)
	e, ok := m.Payload.(scheduler.TaskEnd)
	test.DemandSuccess(t, ok)
	return e
}

func TestNewScheduler(t *testing.T) {
	_, err := scheduler.NewScheduler(nil, scheduler.Config{}, scheduler.Units{})
	test.ExpectSuccess(t, curated.Is(err, scheduler.NoUnit))

	f := newFixture(t, scheduler.Config{})
	test.ExpectEquality(t, f.sch.Config().QueueCapacity, 8)
	test.ExpectEquality(t, f.sch.FrameRate(), 60)
	test.ExpectEquality(t, f.sch.FrameBuffers().Num(), 3)

	test.ExpectSuccess(t, f.sch.SetFrameBuffers(2))
	test.ExpectEquality(t, f.sch.FrameBuffers().Num(), 2)
	test.ExpectEquality(t, f.sch.Config().FrameBuffers, 2)

	f.start(t)
	test.ExpectSuccess(t, curated.Is(f.sch.Start(f.ctx), scheduler.AlreadyStarted))
	test.ExpectSuccess(t, curated.Is(f.sch.SetFrameBuffers(3), scheduler.AlreadyStarted))
}

func TestRetraceScenario(t *testing.T) {
	f := newFixture(t, scheduler.Config{})

	a := mesgq.NewQueue("a", 0)
	b := mesgq.NewQueue("b", 0)
	c := mesgq.NewQueue("c", 0)
	_, err := f.sch.AddClient(a, scheduler.ClientRetrace)
	test.DemandSuccess(t, err)
	_, err = f.sch.AddClient(b, scheduler.ClientRetrace)
	test.DemandSuccess(t, err)
	_, err = f.sch.AddClient(c, scheduler.ClientPreReset)
	test.DemandSuccess(t, err)

	f.start(t)

	var idle atomic.Uint32
	f.sch.SetIdleFunc(func(n uint32) {
		idle.Store(n)
	})

	f.retrace(t, a)
	test.Within(t, timeout, func() bool { return b.Len() == 1 })
	test.ExpectEquality(t, c.Len(), 0)
	test.ExpectEquality(t, f.sch.RetraceCount(), uint32(1))
	test.ExpectEquality(t, idle.Load(), uint32(1))

	m, ok := b.RecvNB()
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, m.Payload.(uint32), uint32(1))
}

func TestClientsAfterStart(t *testing.T) {
	f := newFixture(t, scheduler.Config{})
	f.start(t)

	q := mesgq.NewQueue("late", 1)
	id, err := f.sch.AddClient(q, scheduler.ClientRetrace)
	test.DemandSuccess(t, err)

	f.retrace(t, q)

	// the second retrace is missed because nobody is reading the queue
	test.DemandSuccess(t, f.source.Retrace())
	test.DemandSuccess(t, f.source.Retrace())
	test.Within(t, timeout, func() bool {
		n, err := f.sch.ClientMissed(id)
		return err == nil && n == 1 && f.sch.RetraceCount() == 3
	})
	q.Drain()

	test.ExpectSuccess(t, f.sch.RemoveClient(id))
	test.ExpectSuccess(t, f.sch.RemoveClient(id))

	clk := mesgq.NewQueue("clk", 0)
	_, err = f.sch.AddClient(clk, scheduler.ClientRetrace)
	test.DemandSuccess(t, err)
	f.retrace(t, clk)
	test.ExpectEquality(t, q.Len(), 0)
}

func TestTaskOrderScenario(t *testing.T) {
	f := newFixture(t, scheduler.Config{})
	f.start(t)

	done := mesgq.NewQueue("done", 0)
	tasks := make([]*scheduler.Task, 4)
	for i := range tasks {
		tasks[i] = &scheduler.Task{List: string(rune('A' + i)), Done: done}
		test.DemandSuccess(t, f.sch.SubmitGraphics(f.ctx, tasks[i]))
	}

	for i := range tasks {
		r := f.gfx.next(t)
		test.DemandEquality(t, r, tasks[i])
		test.ExpectEquality(t, r.State(), scheduler.Running)
		for _, p := range tasks[i+1:] {
			test.ExpectEquality(t, p.State(), scheduler.Pending)
		}
		f.gfx.idle(t)

		f.gfx.finish(nil)
		e := recvTaskEnd(t, done)
		test.ExpectEquality(t, e.Task, tasks[i])
		test.ExpectEquality(t, e.Task.State(), scheduler.Done)
	}

	// the audio domain was never used
	f.audio.idle(t)
}

func TestAtMostOneRunning(t *testing.T) {
	var running atomic.Int32
	var peak atomic.Int32

	unit := scheduler.UnitFunc(func(task *scheduler.Task) error {
		n := running.Add(1)
		if n > peak.Load() {
			peak.Store(n)
		}
		time.Sleep(time.Millisecond)
		running.Add(-1)
		return nil
	})

	sch, err := scheduler.NewScheduler(nil, scheduler.Config{TaskTableSize: 64}, scheduler.Units{
		Graphics: unit,
		Audio:    newManualUnit(),
	})
	test.DemandSuccess(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer func() {
		cancel()
		sch.Wait()
	}()
	test.DemandSuccess(t, sch.Start(ctx))

	const numTasks = 50
	done := mesgq.NewQueue("done", numTasks)
	for i := range numTasks {
		test.DemandSuccess(t, sch.SubmitGraphics(ctx, &scheduler.Task{List: i, Done: done}))
	}

	for i := range numTasks {
		e := recvTaskEnd(t, done)
		test.ExpectEquality(t, e.Task.List.(int), i)
		test.ExpectSuccess(t, e.Fault)
	}
	test.ExpectEquality(t, peak.Load(), int32(1))
}

func TestFault(t *testing.T) {
	f := newFixture(t, scheduler.Config{})

	var ended atomic.Pointer[scheduler.Task]
	f.sch.SetAudioTaskEndFunc(func(t *scheduler.Task) {
		ended.Store(t)
	})
	f.start(t)

	done := mesgq.NewQueue("done", 0)
	task := &scheduler.Task{
		Done: done,
		Msg:  mesgq.Message{Kind: 0x0042, Payload: "frame 1"},
	}
	test.DemandSuccess(t, f.sch.SubmitAudio(f.ctx, task))
	f.audio.next(t)

	fault := errors.New("bad command")
	f.audio.finish(fault)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	m, err := done.Recv(ctx)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, m.Kind, mesgq.Kind(0x0042))

	e := m.Payload.(scheduler.TaskEnd)
	test.ExpectEquality(t, e.Fault, fault)
	test.ExpectEquality(t, e.Payload.(string), "frame 1")
	test.ExpectEquality(t, e.Task.State(), scheduler.Done)
	test.ExpectEquality(t, ended.Load(), task)
}

func TestTaskTableFull(t *testing.T) {
	f := newFixture(t, scheduler.Config{TaskTableSize: 2})
	f.start(t)

	done := mesgq.NewQueue("done", 0)
	a := &scheduler.Task{Done: done}
	b := &scheduler.Task{Done: done}
	c := &scheduler.Task{Done: done}
	test.DemandSuccess(t, f.sch.SubmitGraphics(f.ctx, a))
	test.DemandSuccess(t, f.sch.SubmitGraphics(f.ctx, b))
	test.DemandSuccess(t, f.sch.SubmitGraphics(f.ctx, c))
	f.gfx.next(t)

	e := recvTaskEnd(t, done)
	test.ExpectEquality(t, e.Task, c)
	test.ExpectSuccess(t, curated.Is(e.Fault, scheduler.TaskTableFull))
	test.ExpectEquality(t, b.State(), scheduler.Pending)
}

func TestWithdraw(t *testing.T) {
	f := newFixture(t, scheduler.Config{})
	f.start(t)

	a := &scheduler.Task{List: "A"}
	b := &scheduler.Task{List: "B"}
	test.DemandSuccess(t, f.sch.SubmitGraphics(f.ctx, a))
	test.DemandSuccess(t, f.sch.SubmitGraphics(f.ctx, b))
	f.gfx.next(t)

	ok, err := f.sch.Withdraw(f.ctx, a)
	test.ExpectSuccess(t, err)
	test.ExpectFailure(t, ok)

	ok, err = f.sch.Withdraw(f.ctx, b)
	test.ExpectSuccess(t, err)
	test.ExpectSuccess(t, ok)

	f.gfx.finish(nil)
	f.gfx.idle(t)
	test.ExpectEquality(t, b.State(), scheduler.Pending)
}

func TestPreResetScenario(t *testing.T) {
	const drain = 3

	f := newFixture(t, scheduler.Config{DrainWindow: drain})

	clk := mesgq.NewQueue("clk", 0)
	notice := mesgq.NewQueue("notice", 0)
	_, err := f.sch.AddClient(clk, scheduler.ClientRetrace)
	test.DemandSuccess(t, err)
	_, err = f.sch.AddClient(notice, scheduler.ClientPreReset)
	test.DemandSuccess(t, err)

	var fired atomic.Int32
	f.sch.SetPreResetFunc(func() {
		fired.Add(1)
	})

	f.start(t)

	a := &scheduler.Task{List: "A"}
	b := &scheduler.Task{List: "B"}
	test.DemandSuccess(t, f.sch.SubmitGraphics(f.ctx, a))
	test.DemandSuccess(t, f.sch.SubmitGraphics(f.ctx, b))
	f.gfx.next(t)

	test.DemandSuccess(t, f.source.PreReset(f.ctx))
	ctx, cancel := context.WithTimeout(f.ctx, timeout)
	defer cancel()
	m, err := notice.Recv(ctx)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, m.Kind, scheduler.MsgPreReset)
	test.ExpectSuccess(t, f.sch.PreResetLatched())

	// the running task is allowed to finish but the pending task is not
	// admitted
	f.gfx.finish(nil)
	f.gfx.idle(t)
	test.ExpectEquality(t, a.State(), scheduler.Done)
	test.ExpectEquality(t, b.State(), scheduler.Pending)

	for i := 1; i < drain; i++ {
		f.retrace(t, clk)
		test.ExpectEquality(t, fired.Load(), int32(0), i)
	}
	f.retrace(t, clk)
	test.ExpectEquality(t, fired.Load(), int32(1))

	// a second notice and further retraces do not fire the callback again
	test.DemandSuccess(t, f.source.PreReset(f.ctx))
	for range 3 {
		f.retrace(t, clk)
	}
	test.ExpectEquality(t, fired.Load(), int32(1))
	test.ExpectEquality(t, notice.Len(), 0)

	// new submissions are not admitted either
	test.DemandSuccess(t, f.sch.SubmitGraphics(f.ctx, &scheduler.Task{}))
	f.gfx.idle(t)
}

func TestPreResetNoDrain(t *testing.T) {
	f := newFixture(t, scheduler.Config{DrainWindow: 0})
	fired := make(chan bool, 1)
	f.sch.SetPreResetFunc(func() {
		fired <- true
	})
	f.start(t)

	test.DemandSuccess(t, f.source.PreReset(f.ctx))
	select {
	case <-fired:
	case <-time.After(timeout):
		t.Fatalf("pre-reset callback not called")
	}
}

func TestFrameBufferSwap(t *testing.T) {
	f := newFixture(t, scheduler.Config{FrameBuffers: 2, Width: 8, Height: 8})

	clk := mesgq.NewQueue("clk", 0)
	_, err := f.sch.AddClient(clk, scheduler.ClientRetrace)
	test.DemandSuccess(t, err)

	swapped := make(chan *scheduler.FrameBuffer, 4)
	f.sch.SetSwapFunc(func(fb *scheduler.FrameBuffer) {
		swapped <- fb
	})
	f.start(t)

	done := mesgq.NewQueue("done", 0)

	// a frame drawn by two tasks. only the second swaps
	a := &scheduler.Task{Done: done}
	b := &scheduler.Task{Done: done, Flags: scheduler.SwapBuffer}
	test.DemandSuccess(t, f.sch.SubmitGraphics(f.ctx, a))
	test.DemandSuccess(t, f.sch.SubmitGraphics(f.ctx, b))

	f.gfx.next(t)
	test.DemandInequality(t, a.FrameBuffer, (*scheduler.FrameBuffer)(nil))
	f.gfx.finish(nil)
	f.gfx.next(t)
	test.ExpectEquality(t, b.FrameBuffer, a.FrameBuffer)
	f.gfx.finish(nil)
	recvTaskEnd(t, done)
	recvTaskEnd(t, done)

	// the next frame cannot start until the previous frame has been swapped
	c := &scheduler.Task{Done: done, Flags: scheduler.SwapBuffer}
	test.DemandSuccess(t, f.sch.SubmitGraphics(f.ctx, c))
	f.gfx.idle(t)

	f.retrace(t, clk)
	select {
	case fb := <-swapped:
		test.ExpectEquality(t, fb, a.FrameBuffer)
	case <-time.After(timeout):
		t.Fatalf("swap callback not called")
	}
	test.ExpectEquality(t, f.sch.FrameBuffers().Displayed(), a.FrameBuffer)

	// the new frame is drawn into the other frame buffer
	f.gfx.next(t)
	test.ExpectInequality(t, c.FrameBuffer, a.FrameBuffer)
	f.gfx.finish(nil)
	recvTaskEnd(t, done)

	f.retrace(t, clk)
	test.ExpectEquality(t, <-swapped, c.FrameBuffer)
}

func TestCompletionQueueFull(t *testing.T) {
	f := newFixture(t, scheduler.Config{})
	f.start(t)

	// room for one completion only. the second completion waits for the
	// first to be received
	done := mesgq.NewQueue("done", 1)
	a := &scheduler.Task{Done: done, List: "A"}
	b := &scheduler.Task{Done: done, List: "B"}
	test.DemandSuccess(t, f.sch.SubmitGraphics(f.ctx, a))
	test.DemandSuccess(t, f.sch.SubmitGraphics(f.ctx, b))

	f.gfx.next(t)
	f.gfx.finish(nil)
	f.gfx.next(t)
	f.gfx.finish(nil)

	test.Within(t, timeout, func() bool { return b.State() == scheduler.Done })
	test.ExpectEquality(t, recvTaskEnd(t, done).Task, a)
	test.ExpectEquality(t, recvTaskEnd(t, done).Task, b)
}

func TestAddClientDuringStart(t *testing.T) {
	f := newFixture(t, scheduler.Config{})

	clk := mesgq.NewQueue("clk", 0)
	added := make(chan error, 1)
	go func() {
		_, err := f.sch.AddClient(clk, scheduler.ClientRetrace)
		added <- err
	}()
	f.start(t)
	test.DemandSuccess(t, <-added)

	f.retrace(t, clk)
	test.ExpectEquality(t, f.sch.RetraceCount(), uint32(1))
}

func TestTripleBuffer(t *testing.T) {
	f := newFixture(t, scheduler.Config{FrameBuffers: 3, Width: 8, Height: 8})

	clk := mesgq.NewQueue("clk", 0)
	_, err := f.sch.AddClient(clk, scheduler.ClientRetrace)
	test.DemandSuccess(t, err)

	swapped := make(chan *scheduler.FrameBuffer, 4)
	f.sch.SetSwapFunc(func(fb *scheduler.FrameBuffer) {
		swapped <- fb
	})
	f.start(t)

	done := mesgq.NewQueue("done", 0)
	a := &scheduler.Task{Done: done, Flags: scheduler.SwapBuffer}
	b := &scheduler.Task{Done: done, Flags: scheduler.SwapBuffer}
	c := &scheduler.Task{Done: done, Flags: scheduler.SwapBuffer}
	test.DemandSuccess(t, f.sch.SubmitGraphics(f.ctx, a))
	test.DemandSuccess(t, f.sch.SubmitGraphics(f.ctx, b))
	test.DemandSuccess(t, f.sch.SubmitGraphics(f.ctx, c))

	// the second frame is drawn before the first has been swapped
	f.gfx.next(t)
	f.gfx.finish(nil)
	f.gfx.next(t)
	test.ExpectInequality(t, b.FrameBuffer, a.FrameBuffer)
	f.gfx.finish(nil)

	// but one frame buffer is always left for the display
	f.gfx.idle(t)

	nextSwap := func() *scheduler.FrameBuffer {
		t.Helper()
		f.retrace(t, clk)
		select {
		case fb := <-swapped:
			return fb
		case <-time.After(timeout):
			t.Fatalf("swap callback not called")
		}
		return nil
	}

	// frames are displayed in order, one per retrace
	test.ExpectEquality(t, nextSwap(), a.FrameBuffer)
	f.gfx.next(t)
	test.ExpectInequality(t, c.FrameBuffer, a.FrameBuffer)
	test.ExpectInequality(t, c.FrameBuffer, b.FrameBuffer)
	f.gfx.finish(nil)

	for range 3 {
		recvTaskEnd(t, done)
	}

	test.ExpectEquality(t, nextSwap(), b.FrameBuffer)
	test.ExpectEquality(t, nextSwap(), c.FrameBuffer)
	test.ExpectEquality(t, f.sch.FrameBuffers().Displayed(), c.FrameBuffer)
}
