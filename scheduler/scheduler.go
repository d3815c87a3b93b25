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
	"sync"
	"sync/atomic"

	"github.com/jetsetilly/nugopher/assert"
	"github.com/jetsetilly/nugopher/curated"
	"github.com/jetsetilly/nugopher/environment"
	"github.com/jetsetilly/nugopher/hardware/mesgq"
)

// Sentinel error patterns returned by the Scheduler.
const (
	AlreadyStarted = "scheduler: already started"
	NotRunning     = "scheduler: not running: %v"
	NoUnit         = "scheduler: no %s unit"
)

// Units are the execution units used by the Scheduler.
type Units struct {
	Graphics Unit
	Audio    Unit
}

// Scheduler is the context for the three scheduling goroutines. It must be
// created with NewScheduler().
type Scheduler struct {
	env *environment.Environment
	cfg Config

	// timing messages from the video interface
	events *mesgq.Queue

	// requests for the dispatch goroutine
	control *mesgq.Queue

	gfx   *domain
	audio *domain

	// clients are only accessed by the dispatch goroutine once the scheduler
	// has started
	clients *Registry

	frames *FrameBuffers

	// the following fields are only accessed by the dispatch goroutine
	pendingSwaps  []swapRequest
	drainTicks    int
	preResetFired bool

	retraceCount atomic.Uint32
	preReset     atomic.Bool
	inhibit      atomic.Bool

	idle         Slot[IdleFunc]
	preResetFunc Slot[PreResetFunc]
	swap         Slot[SwapFunc]

	// the goroutine ID of the dispatch goroutine
	dispatchID atomic.Uint64

	// ctx is set by Start() while holding startCrit
	startCrit sync.Mutex
	ctx       context.Context
	running   atomic.Bool
	wg        sync.WaitGroup
}

// NewScheduler is the preferred method of initialisation for the Scheduler
// type. Fields of the Config that are zero take their default value.
func NewScheduler(env *environment.Environment, cfg Config, units Units) (*Scheduler, error) {
	if units.Graphics == nil {
		return nil, curated.Errorf(NoUnit, "graphics")
	}
	if units.Audio == nil {
		return nil, curated.Errorf(NoUnit, "audio")
	}

	cfg.normalise()

	sch := &Scheduler{
		env:     env,
		cfg:     cfg,
		events:  mesgq.NewQueue("events", cfg.QueueCapacity),
		control: mesgq.NewQueue("control", cfg.QueueCapacity),
		clients: NewRegistry(),
		frames:  NewFrameBuffers(cfg.FrameBuffers, cfg.Width, cfg.Height),
	}

	sch.gfx = newDomain(sch, "graphics", units.Graphics, sch.frames)
	sch.audio = newDomain(sch, "audio", units.Audio, nil)

	return sch, nil
}

// SetFrameBuffers replaces the frame buffer ring with num buffers of the
// configured size. It can only be called before Start().
func (sch *Scheduler) SetFrameBuffers(num int) error {
	sch.startCrit.Lock()
	defer sch.startCrit.Unlock()
	if sch.running.Load() {
		return curated.Errorf(AlreadyStarted)
	}
	sch.frames = NewFrameBuffers(num, sch.cfg.Width, sch.cfg.Height)
	sch.cfg.FrameBuffers = sch.frames.Num()
	sch.gfx.frames = sch.frames
	return nil
}

// Start the scheduling goroutines. The goroutines end when the context is
// done.
func (sch *Scheduler) Start(ctx context.Context) error {
	sch.startCrit.Lock()
	defer sch.startCrit.Unlock()
	if sch.running.Load() {
		return curated.Errorf(AlreadyStarted)
	}
	sch.ctx = ctx
	sch.running.Store(true)

	sch.wg.Add(3)
	go sch.dispatch(ctx)
	go sch.gfx.run(ctx)
	go sch.audio.run(ctx)

	return nil
}

// Wait blocks until all the scheduling goroutines have ended.
func (sch *Scheduler) Wait() {
	sch.wg.Wait()
}

// Config returns the configuration of the scheduler.
func (sch *Scheduler) Config() Config {
	return sch.cfg
}

// FrameRate returns the number of retraces per second.
func (sch *Scheduler) FrameRate() int {
	return sch.cfg.FrameRate()
}

// RetraceCount returns the number of retraces handled by the dispatch
// goroutine.
func (sch *Scheduler) RetraceCount() uint32 {
	return sch.retraceCount.Load()
}

// PreResetLatched returns true once the pre-reset notice has been handled.
func (sch *Scheduler) PreResetLatched() bool {
	return sch.preReset.Load()
}

// Events returns the queue the timing source writes to.
func (sch *Scheduler) Events() *mesgq.Queue {
	return sch.events
}

// GraphicsQueue returns the request queue of the graphics domain.
func (sch *Scheduler) GraphicsQueue() *mesgq.Queue {
	return sch.gfx.requests
}

// AudioQueue returns the request queue of the audio domain.
func (sch *Scheduler) AudioQueue() *mesgq.Queue {
	return sch.audio.requests
}

// FrameBuffers returns the frame buffer ring.
func (sch *Scheduler) FrameBuffers() *FrameBuffers {
	return sch.frames
}

// onDispatch returns true if the calling goroutine is the dispatch goroutine.
func (sch *Scheduler) onDispatch() bool {
	return sch.dispatchID.Load() == assert.GetGoRoutineID()
}

// do runs the function on the dispatch goroutine and waits for it to finish.
// Before the scheduler has started, and when called from the dispatch
// goroutine, the function is run immediately. A function run before Start()
// completes before the dispatch goroutine is launched.
func (sch *Scheduler) do(f func()) error {
	if sch.onDispatch() {
		f()
		return nil
	}

	sch.startCrit.Lock()
	if !sch.running.Load() {
		defer sch.startCrit.Unlock()
		f()
		return nil
	}
	ctx := sch.ctx
	sch.startCrit.Unlock()

	done := make(chan struct{})
	err := sch.control.Send(ctx, mesgq.Message{
		Kind: msgControl,
		Payload: func() {
			f()
			close(done)
		},
	})
	if err != nil {
		return curated.Errorf(NotRunning, err)
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return curated.Errorf(NotRunning, ctx.Err())
	}
}

// AddClient registers a client queue with the scheduler. It is safe to call
// concurrently with Start().
func (sch *Scheduler) AddClient(q *mesgq.Queue, kind ClientKind) (ClientID, error) {
	var id ClientID
	err := sch.do(func() {
		id = sch.clients.Add(q, kind)
	})
	return id, err
}

// RemoveClient unregisters a client. Removing a client that is not
// registered does nothing.
func (sch *Scheduler) RemoveClient(id ClientID) error {
	return sch.do(func() {
		sch.clients.Remove(id)
	})
}

// SetClientKind changes the kind of messages the client receives.
func (sch *Scheduler) SetClientKind(id ClientID, kind ClientKind) error {
	return sch.do(func() {
		sch.clients.SetKind(id, kind)
	})
}

// ClientMissed returns the number of broadcasts missed by the client.
func (sch *Scheduler) ClientMissed(id ClientID) (uint64, error) {
	var n uint64
	err := sch.do(func() {
		n = sch.clients.Missed(id)
	})
	return n, err
}

// SetIdleFunc sets the function called on every retrace. A nil function
// unregisters the callback.
func (sch *Scheduler) SetIdleFunc(f IdleFunc) {
	if f == nil {
		sch.idle.Clear()
		return
	}
	sch.idle.Set(f)
}

// SetPreResetFunc sets the function called once the pre-reset drain window
// has passed. A nil function unregisters the callback.
func (sch *Scheduler) SetPreResetFunc(f PreResetFunc) {
	if f == nil {
		sch.preResetFunc.Clear()
		return
	}
	sch.preResetFunc.Set(f)
}

// SetSwapFunc sets the function called when a frame buffer is swapped onto
// the display. A nil function unregisters the callback.
func (sch *Scheduler) SetSwapFunc(f SwapFunc) {
	if f == nil {
		sch.swap.Clear()
		return
	}
	sch.swap.Set(f)
}

// SetGfxTaskEndFunc sets the function called when a graphics task is Done. A
// nil function unregisters the callback.
func (sch *Scheduler) SetGfxTaskEndFunc(f TaskEndFunc) {
	sch.gfx.setTaskEnd(f)
}

// SetAudioTaskEndFunc sets the function called when an audio task is Done.
// A nil function unregisters the callback.
func (sch *Scheduler) SetAudioTaskEndFunc(f TaskEndFunc) {
	sch.audio.setTaskEnd(f)
}

// SubmitGraphics sends the task to the graphics domain. Blocks while the
// graphics queue is full.
func (sch *Scheduler) SubmitGraphics(ctx context.Context, t *Task) error {
	return sch.gfx.submit(ctx, t)
}

// SubmitAudio sends the task to the audio domain. Blocks while the audio
// queue is full.
func (sch *Scheduler) SubmitAudio(ctx context.Context, t *Task) error {
	return sch.audio.submit(ctx, t)
}

// Withdraw removes a Pending task from whichever domain holds it. Returns
// false if the task is not Pending in either domain. Must not be called from
// a task-end callback.
func (sch *Scheduler) Withdraw(ctx context.Context, t *Task) (bool, error) {
	for _, d := range []*domain{sch.gfx, sch.audio} {
		ok, err := d.withdraw(ctx, t)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}
