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

package simgr

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/jetsetilly/nugopher/curated"
	"github.com/jetsetilly/nugopher/environment"
	"github.com/jetsetilly/nugopher/hardware/mesgq"
	"github.com/jetsetilly/nugopher/logger"
	"github.com/jetsetilly/nugopher/scheduler"
)

// Sentinel error patterns returned by the dispatcher.
const (
	NoRoute       = "simgr: no route for command %s"
	Stopped       = "simgr: stopped: command %s not handled"
	DuplicateList = "simgr: a list is already registered for major %#02x"
	ReservedMajor = "simgr: major %#02x is reserved"
	NoRetrace     = "simgr: list for major %#02x has no retrace handler"
)

// Clients is the part of the scheduler used by the Dispatcher.
type Clients interface {
	AddClient(q *mesgq.Queue, kind scheduler.ClientKind) (scheduler.ClientID, error)
	RemoveClient(id scheduler.ClientID) error
}

// Dispatcher routes commands to the registered callback lists.
type Dispatcher struct {
	env    *environment.Environment
	events *mesgq.Queue

	crit  sync.Mutex
	lists []*CallbackList

	stopped atomic.Bool
}

// NewDispatcher is the preferred method of initialisation for the Dispatcher
// type.
func NewDispatcher(env *environment.Environment, capacity int) *Dispatcher {
	return &Dispatcher{
		env:    env,
		events: mesgq.NewQueue("simgr", capacity),
	}
}

// Queue returns the inbound queue of the dispatcher.
func (d *Dispatcher) Queue() *mesgq.Queue {
	return d.events
}

// Register a callback list. Only one list can be registered for each major
// number.
func (d *Dispatcher) Register(list *CallbackList) error {
	if list.Major == MajorScheduler || list.Major == MajorManager {
		return curated.Errorf(ReservedMajor, list.Major)
	}
	if list.handler(MinorRetrace) == nil {
		return curated.Errorf(NoRetrace, list.Major)
	}

	d.crit.Lock()
	defer d.crit.Unlock()

	for _, l := range d.lists {
		if l.Major == list.Major {
			return curated.Errorf(DuplicateList, list.Major)
		}
	}
	d.lists = append(d.lists, list)
	return nil
}

// Unregister a callback list. Unregistering a list that is not registered
// does nothing.
func (d *Dispatcher) Unregister(list *CallbackList) {
	d.crit.Lock()
	defer d.crit.Unlock()

	for i, l := range d.lists {
		if l == list {
			d.lists = append(d.lists[:i], d.lists[i+1:]...)
			return
		}
	}
}

// Registered returns true if a list is registered for the major number.
func (d *Dispatcher) Registered(major uint8) bool {
	d.crit.Lock()
	defer d.crit.Unlock()
	for _, l := range d.lists {
		if l.Major == major {
			return true
		}
	}
	return false
}

func (d *Dispatcher) snapshot() []*CallbackList {
	d.crit.Lock()
	defer d.crit.Unlock()
	s := make([]*CallbackList, len(d.lists))
	copy(s, d.lists)
	return s
}

// Dispatch calls the handler for the command. The command is handled in the
// calling goroutine. Returns the NoRoute error if there is no list
// registered for the major number of the command or if the list has no
// handler for the minor number.
func (d *Dispatcher) Dispatch(cmd *Command) (Result, error) {
	for _, l := range d.snapshot() {
		if l.Major == cmd.Code.Major {
			if h := l.handler(cmd.Code.Minor); h != nil {
				return h(cmd)
			}
			break
		}
	}
	return Continue, curated.Errorf(NoRoute, cmd.Code)
}

// Poll calls the retrace handler of every registered list, in the order the
// lists were registered. A handler returning End stops the walk.
func (d *Dispatcher) Poll(retrace uint32, preReset bool) {
	for _, l := range d.snapshot() {
		cmd := &Command{
			Code:     Code{Major: l.Major, Minor: MinorRetrace},
			Retrace:  retrace,
			PreReset: preReset,
		}
		r, err := l.Handlers[MinorRetrace](cmd)
		if err != nil {
			logger.Logf(d.env, "simgr", "poll %s: %v", cmd.Code, err)
		}
		if r == End {
			return
		}
	}
}

// IsStopped returns true if the dispatcher has been stopped.
func (d *Dispatcher) IsStopped() bool {
	return d.stopped.Load()
}

// Start the dispatcher goroutine. The dispatcher is added as a client of the
// scheduler for retrace and pre-reset messages. The goroutine ends, and the
// client is removed, when the context is done.
func (d *Dispatcher) Start(ctx context.Context, clients Clients) error {
	id, err := clients.AddClient(d.events, scheduler.ClientRetrace|scheduler.ClientPreReset)
	if err != nil {
		return err
	}

	go func() {
		defer func() {
			_ = clients.RemoveClient(id)
		}()
		d.run(ctx)
	}()

	return nil
}

func (d *Dispatcher) run(ctx context.Context) {
	for {
		m, err := d.events.Recv(ctx)
		if err != nil {
			return
		}

		switch m.Kind {
		case scheduler.MsgRetrace:
			if !d.stopped.Load() {
				n, _ := m.Payload.(uint32)
				d.Poll(n, false)
			}
			continue
		case scheduler.MsgPreReset:
			n, _ := m.Payload.(uint32)
			d.Poll(n, true)
			continue
		}

		cmd, ok := m.Payload.(*Command)
		if !ok {
			logger.Logf(d.env, "simgr", "message without a command: %v", m)
			continue
		}

		d.handle(cmd)
	}
}

func (d *Dispatcher) handle(cmd *Command) {
	var err error

	switch cmd.Code {
	case StopCode:
		d.stopped.Store(true)
		logger.Log(d.env, "simgr", "stopped")
	case RestartCode:
		d.stopped.Store(false)
		logger.Log(d.env, "simgr", "restarted")
	default:
		if d.stopped.Load() {
			err = curated.Errorf(Stopped, cmd.Code)
		} else {
			_, err = d.Dispatch(cmd)
		}
	}

	if cmd.reply != nil {
		cmd.reply <- err
	} else if err != nil {
		logger.Log(d.env, "simgr", err)
	}
}

// Send the command and wait for it to be handled. Returns the error from the
// handler.
func (d *Dispatcher) Send(ctx context.Context, code Code, data any) error {
	cmd := &Command{
		Code:  code,
		Data:  data,
		reply: make(chan error, 1),
	}
	if err := d.events.Send(ctx, mesgq.Message{Kind: code.Kind(), Payload: cmd}); err != nil {
		return err
	}
	select {
	case err := <-cmd.reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SendNB sends the command without waiting for it to be handled. Returns an
// error only if the command could not be queued.
func (d *Dispatcher) SendNB(code Code, data any) error {
	return d.events.SendNB(mesgq.Message{
		Kind:    code.Kind(),
		Payload: &Command{Code: code, Data: data},
	})
}

// Stop the dispatcher. A stopped dispatcher does not poll the peripheral
// managers and refuses commands with the Stopped error.
func (d *Dispatcher) Stop(ctx context.Context) error {
	return d.Send(ctx, StopCode, nil)
}

// Restart a stopped dispatcher.
func (d *Dispatcher) Restart(ctx context.Context) error {
	return d.Send(ctx, RestartCode, nil)
}
